package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mindcanvas/mindcanvas-backend/internal/platform/logger"
	"github.com/mindcanvas/mindcanvas-backend/internal/platform/shortid"
	"github.com/mindcanvas/mindcanvas-backend/internal/repos"
	"github.com/mindcanvas/mindcanvas-backend/internal/types"
)

type CreateDeadlineInput struct {
	Title    string    `json:"title"`
	DueDate  time.Time `json:"due_date"`
	Priority string    `json:"priority"`
}

type UpdateDeadlineInput struct {
	Title       *string    `json:"title"`
	DueDate     *time.Time `json:"due_date"`
	Priority    *string    `json:"priority"`
	IsCompleted *bool      `json:"is_completed"`
}

type DeadlineService interface {
	Create(ctx context.Context, input CreateDeadlineInput) (*types.Deadline, error)
	List(ctx context.Context) ([]*types.Deadline, error)
	Update(ctx context.Context, deadlineID string, input UpdateDeadlineInput) error
	Delete(ctx context.Context, deadlineID string) error
}

type deadlineService struct {
	db           *gorm.DB
	log          *logger.Logger
	deadlineRepo repos.DeadlineRepo
}

func NewDeadlineService(db *gorm.DB, log *logger.Logger, deadlineRepo repos.DeadlineRepo) DeadlineService {
	return &deadlineService{
		db:           db,
		log:          log.With("service", "DeadlineService"),
		deadlineRepo: deadlineRepo,
	}
}

func validPriority(p string) bool {
	switch p {
	case types.DeadlinePriorityLow, types.DeadlinePriorityMedium, types.DeadlinePriorityHigh:
		return true
	}
	return false
}

func (ds *deadlineService) Create(ctx context.Context, input CreateDeadlineInput) (*types.Deadline, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title required", ErrInvalidInput)
	}
	if input.DueDate.IsZero() {
		return nil, fmt.Errorf("%w: due date required", ErrInvalidInput)
	}
	priority := input.Priority
	if priority == "" {
		priority = types.DeadlinePriorityMedium
	}
	if !validPriority(priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, priority)
	}

	deadline := &types.Deadline{
		ID:       shortid.New(),
		UserID:   userID,
		Title:    title,
		DueDate:  input.DueDate,
		Priority: priority,
	}
	if _, err := ds.deadlineRepo.Create(ctx, nil, []*types.Deadline{deadline}); err != nil {
		return nil, fmt.Errorf("create deadline: %w", err)
	}
	return deadline, nil
}

func (ds *deadlineService) List(ctx context.Context) ([]*types.Deadline, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	deadlines, err := ds.deadlineRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list deadlines: %w", err)
	}
	return deadlines, nil
}

func (ds *deadlineService) Update(ctx context.Context, deadlineID string, input UpdateDeadlineInput) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	fields := map[string]any{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		fields["title"] = title
	}
	if input.DueDate != nil {
		fields["due_date"] = *input.DueDate
	}
	if input.Priority != nil {
		if !validPriority(*input.Priority) {
			return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, *input.Priority)
		}
		fields["priority"] = *input.Priority
	}
	if input.IsCompleted != nil {
		fields["is_completed"] = *input.IsCompleted
	}
	if len(fields) == 0 {
		return nil
	}
	affected, err := ds.deadlineRepo.UpdateFields(ctx, nil, deadlineID, userID, fields)
	if err != nil {
		return fmt.Errorf("update deadline: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: deadline %q", ErrNotFound, deadlineID)
	}
	return nil
}

func (ds *deadlineService) Delete(ctx context.Context, deadlineID string) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	affected, err := ds.deadlineRepo.Delete(ctx, nil, deadlineID, userID)
	if err != nil {
		return fmt.Errorf("delete deadline: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: deadline %q", ErrNotFound, deadlineID)
	}
	return nil
}
