package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindcanvas/mindcanvas-backend/internal/platform/logger"
	"github.com/mindcanvas/mindcanvas-backend/internal/types"
)

type StudyMapRepo interface {
	Create(ctx context.Context, tx *gorm.DB, maps []*types.StudyMap) ([]*types.StudyMap, error)
	GetByIDAndOwner(ctx context.Context, tx *gorm.DB, mapID string, ownerID uuid.UUID) (*types.StudyMap, error)
	ListSummariesByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.MapSummary, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, mapID string, ownerID uuid.UUID, fields map[string]any) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, mapID string, ownerID uuid.UUID) (int64, error)
	DetachFolder(ctx context.Context, tx *gorm.DB, folderID string, ownerID uuid.UUID) error
}

type studyMapRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudyMapRepo(db *gorm.DB, baseLog *logger.Logger) StudyMapRepo {
	return &studyMapRepo{db: db, log: baseLog.With("repo", "StudyMapRepo")}
}

func (mr *studyMapRepo) Create(ctx context.Context, tx *gorm.DB, maps []*types.StudyMap) ([]*types.StudyMap, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if len(maps) == 0 {
		return []*types.StudyMap{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&maps).Error; err != nil {
		return nil, err
	}
	return maps, nil
}

func (mr *studyMapRepo) GetByIDAndOwner(ctx context.Context, tx *gorm.DB, mapID string, ownerID uuid.UUID) (*types.StudyMap, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var result types.StudyMap
	err := transaction.WithContext(ctx).
		Where("id = ? AND owner_id = ?", mapID, ownerID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (mr *studyMapRepo) ListSummariesByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.MapSummary, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.MapSummary
	err := transaction.WithContext(ctx).
		Model(&types.StudyMap{}).
		Select(`maps.*,
			COUNT(nodes.id) AS node_count,
			COALESCE(AVG(nodes.mastery_level), 0) AS mastery_percentage,
			folders.name AS folder_name,
			folders.color AS folder_color`).
		Joins("LEFT JOIN nodes ON maps.id = nodes.map_id").
		Joins("LEFT JOIN folders ON maps.folder_id = folders.id").
		Where("maps.owner_id = ?", ownerID).
		Group("maps.id, folders.name, folders.color").
		Order("maps.updated_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *studyMapRepo) UpdateFields(ctx context.Context, tx *gorm.DB, mapID string, ownerID uuid.UUID, fields map[string]any) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if len(fields) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(ctx).
		Model(&types.StudyMap{}).
		Where("id = ? AND owner_id = ?", mapID, ownerID).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (mr *studyMapRepo) Delete(ctx context.Context, tx *gorm.DB, mapID string, ownerID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	res := transaction.WithContext(ctx).
		Where("id = ? AND owner_id = ?", mapID, ownerID).
		Delete(&types.StudyMap{})
	return res.RowsAffected, res.Error
}

func (mr *studyMapRepo) DetachFolder(ctx context.Context, tx *gorm.DB, folderID string, ownerID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.StudyMap{}).
		Where("folder_id = ? AND owner_id = ?", folderID, ownerID).
		Update("folder_id", nil).Error
}
