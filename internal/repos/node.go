package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mindcanvas/mindcanvas-backend/internal/platform/logger"
	"github.com/mindcanvas/mindcanvas-backend/internal/types"
)

type NodeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, nodes []*types.Node) ([]*types.Node, error)
	GetByID(ctx context.Context, tx *gorm.DB, nodeID string) (*types.Node, error)
	ListByMap(ctx context.Context, tx *gorm.DB, mapID string) ([]*types.Node, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, nodeID string, fields map[string]any) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, nodeIDs []string) error
	DeleteByMap(ctx context.Context, tx *gorm.DB, mapID string) error
}

type nodeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNodeRepo(db *gorm.DB, baseLog *logger.Logger) NodeRepo {
	return &nodeRepo{db: db, log: baseLog.With("repo", "NodeRepo")}
}

func (nr *nodeRepo) Create(ctx context.Context, tx *gorm.DB, nodes []*types.Node) ([]*types.Node, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	if len(nodes) == 0 {
		return []*types.Node{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&nodes).Error; err != nil {
		return nil, err
	}
	return nodes, nil
}

func (nr *nodeRepo) GetByID(ctx context.Context, tx *gorm.DB, nodeID string) (*types.Node, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	var result types.Node
	err := transaction.WithContext(ctx).
		Where("id = ?", nodeID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (nr *nodeRepo) ListByMap(ctx context.Context, tx *gorm.DB, mapID string) ([]*types.Node, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	var results []*types.Node
	if err := transaction.WithContext(ctx).
		Where("map_id = ?", mapID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (nr *nodeRepo) UpdateFields(ctx context.Context, tx *gorm.DB, nodeID string, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	if len(fields) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Node{}).
		Where("id = ?", nodeID).
		Updates(fields).Error
}

func (nr *nodeRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, nodeIDs []string) error {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	if len(nodeIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", nodeIDs).
		Delete(&types.Node{}).Error
}

func (nr *nodeRepo) DeleteByMap(ctx context.Context, tx *gorm.DB, mapID string) error {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	return transaction.WithContext(ctx).
		Where("map_id = ?", mapID).
		Delete(&types.Node{}).Error
}
