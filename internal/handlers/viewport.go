package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mindcanvas/mindcanvas-backend/internal/canvas"
	"github.com/mindcanvas/mindcanvas-backend/internal/platform/logger"
	"github.com/mindcanvas/mindcanvas-backend/internal/services"
)

type ViewportHandler struct {
	log             *logger.Logger
	viewportService services.ViewportService
}

func NewViewportHandler(log *logger.Logger, viewportService services.ViewportService) *ViewportHandler {
	return &ViewportHandler{log: log.With("handler", "ViewportHandler"), viewportService: viewportService}
}

func (vh *ViewportHandler) Get(c *gin.Context) {
	viewport, err := vh.viewportService.Get(c.Request.Context(), c.Param("mapId"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"viewport": viewport})
}

func (vh *ViewportHandler) Save(c *gin.Context) {
	var viewport canvas.Viewport
	if err := c.ShouldBindJSON(&viewport); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	saved, err := vh.viewportService.Save(c.Request.Context(), c.Param("mapId"), viewport)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"viewport": saved})
}
