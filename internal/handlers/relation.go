package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mindcanvas/mindcanvas-backend/internal/platform/logger"
	"github.com/mindcanvas/mindcanvas-backend/internal/services"
)

type RelationHandler struct {
	log             *logger.Logger
	relationService services.RelationService
}

func NewRelationHandler(log *logger.Logger, relationService services.RelationService) *RelationHandler {
	return &RelationHandler{log: log.With("handler", "RelationHandler"), relationService: relationService}
}

type createRelationRequest struct {
	SourceID string `json:"source_id" binding:"required"`
	TargetID string `json:"target_id" binding:"required"`
}

func (rh *RelationHandler) Create(c *gin.Context) {
	var req createRelationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	relation, err := rh.relationService.Create(c.Request.Context(), c.Param("mapId"), req.SourceID, req.TargetID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"relation": relation})
}

func (rh *RelationHandler) List(c *gin.Context) {
	relations, err := rh.relationService.List(c.Request.Context(), c.Param("mapId"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"relations": relations})
}

func (rh *RelationHandler) Delete(c *gin.Context) {
	if err := rh.relationService.Delete(c.Request.Context(), c.Param("mapId"), c.Param("relationId")); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}
