package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mindcanvas/mindcanvas-backend/internal/platform/logger"
	"github.com/mindcanvas/mindcanvas-backend/internal/services"
	"github.com/mindcanvas/mindcanvas-backend/internal/types"
)

type NodeHandler struct {
	log         *logger.Logger
	nodeService services.NodeService
}

func NewNodeHandler(log *logger.Logger, nodeService services.NodeService) *NodeHandler {
	return &NodeHandler{log: log.With("handler", "NodeHandler"), nodeService: nodeService}
}

func (nh *NodeHandler) Create(c *gin.Context) {
	var input services.CreateNodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	node, err := nh.nodeService.Create(c.Request.Context(), c.Param("mapId"), input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"node": node})
}

func (nh *NodeHandler) Update(c *gin.Context) {
	var patch types.NodePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	node, err := nh.nodeService.Update(c.Request.Context(), c.Param("mapId"), c.Param("nodeId"), patch)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"node": node})
}

func (nh *NodeHandler) Delete(c *gin.Context) {
	deleted, err := nh.nodeService.Delete(c.Request.Context(), c.Param("mapId"), c.Param("nodeId"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted_node_ids": deleted})
}
