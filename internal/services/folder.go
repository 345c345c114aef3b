package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mindcanvas/mindcanvas-backend/internal/platform/logger"
	"github.com/mindcanvas/mindcanvas-backend/internal/platform/shortid"
	"github.com/mindcanvas/mindcanvas-backend/internal/repos"
	"github.com/mindcanvas/mindcanvas-backend/internal/types"
)

type CreateFolderInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type UpdateFolderInput struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}

type FolderService interface {
	Create(ctx context.Context, input CreateFolderInput) (*types.Folder, error)
	List(ctx context.Context) ([]*types.FolderSummary, error)
	Update(ctx context.Context, folderID string, input UpdateFolderInput) error
	Delete(ctx context.Context, folderID string) error
}

type folderService struct {
	db         *gorm.DB
	log        *logger.Logger
	folderRepo repos.FolderRepo
	mapRepo    repos.StudyMapRepo
}

func NewFolderService(db *gorm.DB, log *logger.Logger, folderRepo repos.FolderRepo, mapRepo repos.StudyMapRepo) FolderService {
	return &folderService{
		db:         db,
		log:        log.With("service", "FolderService"),
		folderRepo: folderRepo,
		mapRepo:    mapRepo,
	}
}

func (fs *folderService) Create(ctx context.Context, input CreateFolderInput) (*types.Folder, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: folder name required", ErrInvalidInput)
	}
	folder := &types.Folder{
		ID:      shortid.New(),
		Name:    name,
		Color:   input.Color,
		Icon:    input.Icon,
		OwnerID: userID,
	}
	if _, err := fs.folderRepo.Create(ctx, nil, []*types.Folder{folder}); err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}
	return folder, nil
}

func (fs *folderService) List(ctx context.Context) ([]*types.FolderSummary, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	summaries, err := fs.folderRepo.ListSummariesByOwner(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return summaries, nil
}

func (fs *folderService) Update(ctx context.Context, folderID string, input UpdateFolderInput) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	fields := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return fmt.Errorf("%w: folder name cannot be empty", ErrInvalidInput)
		}
		fields["name"] = name
	}
	if input.Color != nil {
		fields["color"] = *input.Color
	}
	if input.Icon != nil {
		fields["icon"] = *input.Icon
	}
	if len(fields) == 0 {
		return nil
	}
	affected, err := fs.folderRepo.UpdateFields(ctx, nil, folderID, userID, fields)
	if err != nil {
		return fmt.Errorf("update folder: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: folder %q", ErrNotFound, folderID)
	}
	return nil
}

// Delete removes a folder; the maps inside it survive and become
// unfiled.
func (fs *folderService) Delete(ctx context.Context, folderID string) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	return fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := fs.mapRepo.DetachFolder(ctx, tx, folderID, userID); err != nil {
			return fmt.Errorf("detach maps: %w", err)
		}
		affected, err := fs.folderRepo.Delete(ctx, tx, folderID, userID)
		if err != nil {
			return fmt.Errorf("delete folder: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: folder %q", ErrNotFound, folderID)
		}
		return nil
	})
}
