package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindcanvas/mindcanvas-backend/internal/platform/logger"
	"github.com/mindcanvas/mindcanvas-backend/internal/types"
)

type DeadlineRepo interface {
	Create(ctx context.Context, tx *gorm.DB, deadlines []*types.Deadline) ([]*types.Deadline, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Deadline, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, deadlineID string, userID uuid.UUID, fields map[string]any) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, deadlineID string, userID uuid.UUID) (int64, error)
}

type deadlineRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDeadlineRepo(db *gorm.DB, baseLog *logger.Logger) DeadlineRepo {
	return &deadlineRepo{db: db, log: baseLog.With("repo", "DeadlineRepo")}
}

func (dr *deadlineRepo) Create(ctx context.Context, tx *gorm.DB, deadlines []*types.Deadline) ([]*types.Deadline, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	if len(deadlines) == 0 {
		return []*types.Deadline{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&deadlines).Error; err != nil {
		return nil, err
	}
	return deadlines, nil
}

func (dr *deadlineRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Deadline, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var results []*types.Deadline
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("due_date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (dr *deadlineRepo) UpdateFields(ctx context.Context, tx *gorm.DB, deadlineID string, userID uuid.UUID, fields map[string]any) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	if len(fields) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(ctx).
		Model(&types.Deadline{}).
		Where("id = ? AND user_id = ?", deadlineID, userID).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (dr *deadlineRepo) Delete(ctx context.Context, tx *gorm.DB, deadlineID string, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	res := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", deadlineID, userID).
		Delete(&types.Deadline{})
	return res.RowsAffected, res.Error
}
