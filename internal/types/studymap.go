package types

import (
	"time"

	"github.com/google/uuid"
)

type StudyMap struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null;column:title" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	OwnerID     uuid.UUID `gorm:"type:uuid;index;not null;column:owner_id" json:"owner_id"`
	FolderID    *string   `gorm:"column:folder_id" json:"folder_id"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (StudyMap) TableName() string {
	return "maps"
}

// MapSummary is the list-view row: map columns plus aggregates joined in
// by the repo (node count, average mastery, folder display fields).
type MapSummary struct {
	StudyMap
	NodeCount         int     `json:"node_count"`
	MasteryPercentage float64 `json:"mastery_percentage"`
	FolderName        *string `json:"folder_name"`
	FolderColor       *string `json:"folder_color"`
}
