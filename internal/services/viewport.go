package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindcanvas/mindcanvas-backend/internal/canvas"
	"github.com/mindcanvas/mindcanvas-backend/internal/platform/logger"
	"github.com/mindcanvas/mindcanvas-backend/internal/repos"
	"github.com/mindcanvas/mindcanvas-backend/internal/types"
)

// ViewportService persists each user's pan/zoom per map so reopening a
// map restores the camera. Viewport state is per-user, never shared
// between collaborators.
type ViewportService interface {
	Get(ctx context.Context, mapID string) (canvas.Viewport, error)
	Save(ctx context.Context, mapID string, viewport canvas.Viewport) (canvas.Viewport, error)
}

type viewportService struct {
	db           *gorm.DB
	log          *logger.Logger
	mapRepo      repos.StudyMapRepo
	viewportRepo repos.ViewportStateRepo
}

func NewViewportService(db *gorm.DB, log *logger.Logger, mapRepo repos.StudyMapRepo, viewportRepo repos.ViewportStateRepo) ViewportService {
	return &viewportService{
		db:           db,
		log:          log.With("service", "ViewportService"),
		mapRepo:      mapRepo,
		viewportRepo: viewportRepo,
	}
}

func (vs *viewportService) Get(ctx context.Context, mapID string) (canvas.Viewport, error) {
	userID, err := vs.requireOwnedMap(ctx, mapID)
	if err != nil {
		return canvas.Viewport{}, err
	}
	state, err := vs.viewportRepo.Get(ctx, nil, userID, mapID)
	if err != nil {
		return canvas.Viewport{}, fmt.Errorf("fetch viewport: %w", err)
	}
	if state == nil {
		return canvas.DefaultViewport(), nil
	}
	var viewport canvas.Viewport
	if err := json.Unmarshal(state.State, &viewport); err != nil || viewport.Zoom == 0 {
		// stored camera is unreadable, start over rather than fail the open
		vs.log.Warn("discarding unreadable viewport state", "map_id", mapID, "user_id", userID, "error", err)
		return canvas.DefaultViewport(), nil
	}
	viewport.Zoom = canvas.ClampZoom(viewport.Zoom)
	return viewport, nil
}

func (vs *viewportService) Save(ctx context.Context, mapID string, viewport canvas.Viewport) (canvas.Viewport, error) {
	userID, err := vs.requireOwnedMap(ctx, mapID)
	if err != nil {
		return canvas.Viewport{}, err
	}
	if viewport.Zoom == 0 {
		viewport = canvas.DefaultViewport()
	}
	viewport.Zoom = canvas.ClampZoom(viewport.Zoom)

	raw, err := json.Marshal(viewport)
	if err != nil {
		return canvas.Viewport{}, fmt.Errorf("encode viewport: %w", err)
	}
	state := &types.ViewportState{
		ID:        uuid.New(),
		UserID:    userID,
		MapID:     mapID,
		State:     raw,
		UpdatedAt: time.Now(),
	}
	if err := vs.viewportRepo.Upsert(ctx, nil, state); err != nil {
		return canvas.Viewport{}, fmt.Errorf("save viewport: %w", err)
	}
	return viewport, nil
}

func (vs *viewportService) requireOwnedMap(ctx context.Context, mapID string) (uuid.UUID, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	studyMap, err := vs.mapRepo.GetByIDAndOwner(ctx, nil, mapID, userID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("fetch map: %w", err)
	}
	if studyMap == nil {
		return uuid.Nil, fmt.Errorf("%w: map %q", ErrNotFound, mapID)
	}
	return userID, nil
}
