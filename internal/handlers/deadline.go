package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mindcanvas/mindcanvas-backend/internal/platform/logger"
	"github.com/mindcanvas/mindcanvas-backend/internal/services"
)

type DeadlineHandler struct {
	log             *logger.Logger
	deadlineService services.DeadlineService
}

func NewDeadlineHandler(log *logger.Logger, deadlineService services.DeadlineService) *DeadlineHandler {
	return &DeadlineHandler{log: log.With("handler", "DeadlineHandler"), deadlineService: deadlineService}
}

func (dh *DeadlineHandler) Create(c *gin.Context) {
	var input services.CreateDeadlineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	deadline, err := dh.deadlineService.Create(c.Request.Context(), input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"deadline": deadline})
}

func (dh *DeadlineHandler) List(c *gin.Context) {
	deadlines, err := dh.deadlineService.List(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deadlines": deadlines})
}

func (dh *DeadlineHandler) Update(c *gin.Context) {
	var input services.UpdateDeadlineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	if err := dh.deadlineService.Update(c.Request.Context(), c.Param("deadlineId"), input); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "updated"})
}

func (dh *DeadlineHandler) Delete(c *gin.Context) {
	if err := dh.deadlineService.Delete(c.Request.Context(), c.Param("deadlineId")); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}
