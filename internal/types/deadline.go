package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	DeadlinePriorityLow    = "low"
	DeadlinePriorityMedium = "medium"
	DeadlinePriorityHigh   = "high"
)

type Deadline struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	Title       string    `gorm:"not null;column:title" json:"title"`
	DueDate     time.Time `gorm:"not null;column:due_date" json:"due_date"`
	Priority    string    `gorm:"column:priority;default:medium" json:"priority"`
	IsCompleted bool      `gorm:"column:is_completed;default:false" json:"is_completed"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (Deadline) TableName() string {
	return "deadlines"
}
