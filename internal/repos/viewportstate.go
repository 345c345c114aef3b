package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mindcanvas/mindcanvas-backend/internal/platform/logger"
	"github.com/mindcanvas/mindcanvas-backend/internal/types"
)

type ViewportStateRepo interface {
	Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID, mapID string) (*types.ViewportState, error)
	Upsert(ctx context.Context, tx *gorm.DB, state *types.ViewportState) error
	DeleteByMap(ctx context.Context, tx *gorm.DB, mapID string) error
}

type viewportStateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewViewportStateRepo(db *gorm.DB, baseLog *logger.Logger) ViewportStateRepo {
	return &viewportStateRepo{db: db, log: baseLog.With("repo", "ViewportStateRepo")}
}

func (vr *viewportStateRepo) Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID, mapID string) (*types.ViewportState, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	var result types.ViewportState
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND map_id = ?", userID, mapID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (vr *viewportStateRepo) Upsert(ctx context.Context, tx *gorm.DB, state *types.ViewportState) error {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "map_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"state", "updated_at"}),
		}).
		Create(state).Error
}

func (vr *viewportStateRepo) DeleteByMap(ctx context.Context, tx *gorm.DB, mapID string) error {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	return transaction.WithContext(ctx).
		Where("map_id = ?", mapID).
		Delete(&types.ViewportState{}).Error
}
