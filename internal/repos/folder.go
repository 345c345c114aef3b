package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindcanvas/mindcanvas-backend/internal/platform/logger"
	"github.com/mindcanvas/mindcanvas-backend/internal/types"
)

type FolderRepo interface {
	Create(ctx context.Context, tx *gorm.DB, folders []*types.Folder) ([]*types.Folder, error)
	ListSummariesByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.FolderSummary, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, folderID string, ownerID uuid.UUID, fields map[string]any) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, folderID string, ownerID uuid.UUID) (int64, error)
}

type folderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFolderRepo(db *gorm.DB, baseLog *logger.Logger) FolderRepo {
	return &folderRepo{db: db, log: baseLog.With("repo", "FolderRepo")}
}

func (fr *folderRepo) Create(ctx context.Context, tx *gorm.DB, folders []*types.Folder) ([]*types.Folder, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	if len(folders) == 0 {
		return []*types.Folder{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

func (fr *folderRepo) ListSummariesByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.FolderSummary, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var results []*types.FolderSummary
	err := transaction.WithContext(ctx).
		Model(&types.Folder{}).
		Select(`folders.*, COUNT(maps.id) AS map_count`).
		Joins("LEFT JOIN maps ON maps.folder_id = folders.id").
		Where("folders.owner_id = ?", ownerID).
		Group("folders.id").
		Order("folders.name ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (fr *folderRepo) UpdateFields(ctx context.Context, tx *gorm.DB, folderID string, ownerID uuid.UUID, fields map[string]any) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	if len(fields) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(ctx).
		Model(&types.Folder{}).
		Where("id = ? AND owner_id = ?", folderID, ownerID).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (fr *folderRepo) Delete(ctx context.Context, tx *gorm.DB, folderID string, ownerID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	res := transaction.WithContext(ctx).
		Where("id = ? AND owner_id = ?", folderID, ownerID).
		Delete(&types.Folder{})
	return res.RowsAffected, res.Error
}
