package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mindcanvas/mindcanvas-backend/internal/platform/logger"
	"github.com/mindcanvas/mindcanvas-backend/internal/services"
)

type FolderHandler struct {
	log           *logger.Logger
	folderService services.FolderService
}

func NewFolderHandler(log *logger.Logger, folderService services.FolderService) *FolderHandler {
	return &FolderHandler{log: log.With("handler", "FolderHandler"), folderService: folderService}
}

func (fh *FolderHandler) Create(c *gin.Context) {
	var input services.CreateFolderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	folder, err := fh.folderService.Create(c.Request.Context(), input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"folder": folder})
}

func (fh *FolderHandler) List(c *gin.Context) {
	folders, err := fh.folderService.List(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"folders": folders})
}

func (fh *FolderHandler) Update(c *gin.Context) {
	var input services.UpdateFolderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	if err := fh.folderService.Update(c.Request.Context(), c.Param("folderId"), input); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "updated"})
}

func (fh *FolderHandler) Delete(c *gin.Context) {
	if err := fh.folderService.Delete(c.Request.Context(), c.Param("folderId")); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}
