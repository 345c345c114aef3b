package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mindcanvas/mindcanvas-backend/internal/platform/logger"
	"github.com/mindcanvas/mindcanvas-backend/internal/services"
)

type StudyMapHandler struct {
	log        *logger.Logger
	mapService services.StudyMapService
}

func NewStudyMapHandler(log *logger.Logger, mapService services.StudyMapService) *StudyMapHandler {
	return &StudyMapHandler{log: log.With("handler", "StudyMapHandler"), mapService: mapService}
}

func (mh *StudyMapHandler) List(c *gin.Context) {
	summaries, err := mh.mapService.List(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"maps": summaries})
}

func (mh *StudyMapHandler) Get(c *gin.Context) {
	detail, err := mh.mapService.Get(c.Request.Context(), c.Param("mapId"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, detail)
}

// Snapshot returns the validated document form a client seeds its
// editor state from.
func (mh *StudyMapHandler) Snapshot(c *gin.Context) {
	snap, err := mh.mapService.Snapshot(c.Request.Context(), c.Param("mapId"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, snap)
}

func (mh *StudyMapHandler) Create(c *gin.Context) {
	var input services.CreateMapInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	detail, err := mh.mapService.Create(c.Request.Context(), input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, detail)
}

func (mh *StudyMapHandler) Update(c *gin.Context) {
	var input services.UpdateMapInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	updated, err := mh.mapService.Update(c.Request.Context(), c.Param("mapId"), input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"map": updated})
}

func (mh *StudyMapHandler) Delete(c *gin.Context) {
	if err := mh.mapService.Delete(c.Request.Context(), c.Param("mapId")); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}
