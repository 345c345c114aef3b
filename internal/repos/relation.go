package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mindcanvas/mindcanvas-backend/internal/platform/logger"
	"github.com/mindcanvas/mindcanvas-backend/internal/types"
)

type RelationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, relations []*types.NodeRelation) ([]*types.NodeRelation, error)
	GetByPair(ctx context.Context, tx *gorm.DB, sourceID, targetID string) (*types.NodeRelation, error)
	ListByMap(ctx context.Context, tx *gorm.DB, mapID string) ([]*types.NodeRelation, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, relationID string) (int64, error)
	DeleteTouchingNodes(ctx context.Context, tx *gorm.DB, nodeIDs []string) error
	DeleteByMap(ctx context.Context, tx *gorm.DB, mapID string) error
}

type relationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRelationRepo(db *gorm.DB, baseLog *logger.Logger) RelationRepo {
	return &relationRepo{db: db, log: baseLog.With("repo", "RelationRepo")}
}

func (rr *relationRepo) Create(ctx context.Context, tx *gorm.DB, relations []*types.NodeRelation) ([]*types.NodeRelation, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(relations) == 0 {
		return []*types.NodeRelation{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&relations).Error; err != nil {
		return nil, err
	}
	return relations, nil
}

func (rr *relationRepo) GetByPair(ctx context.Context, tx *gorm.DB, sourceID, targetID string) (*types.NodeRelation, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var result types.NodeRelation
	err := transaction.WithContext(ctx).
		Where("source_id = ? AND target_id = ?", sourceID, targetID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (rr *relationRepo) ListByMap(ctx context.Context, tx *gorm.DB, mapID string) ([]*types.NodeRelation, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.NodeRelation
	if err := transaction.WithContext(ctx).
		Where("map_id = ?", mapID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *relationRepo) DeleteByID(ctx context.Context, tx *gorm.DB, relationID string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	res := transaction.WithContext(ctx).
		Where("id = ?", relationID).
		Delete(&types.NodeRelation{})
	return res.RowsAffected, res.Error
}

func (rr *relationRepo) DeleteTouchingNodes(ctx context.Context, tx *gorm.DB, nodeIDs []string) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(nodeIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("source_id IN ? OR target_id IN ?", nodeIDs, nodeIDs).
		Delete(&types.NodeRelation{}).Error
}

func (rr *relationRepo) DeleteByMap(ctx context.Context, tx *gorm.DB, mapID string) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Where("map_id = ?", mapID).
		Delete(&types.NodeRelation{}).Error
}
