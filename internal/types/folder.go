package types

import (
	"time"

	"github.com/google/uuid"
)

type Folder struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	Color     string    `gorm:"column:color;default:#3b82f6" json:"color"`
	Icon      string    `gorm:"column:icon;default:book" json:"icon"`
	OwnerID   uuid.UUID `gorm:"type:uuid;index;not null;column:owner_id" json:"owner_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Folder) TableName() string {
	return "folders"
}

type FolderSummary struct {
	Folder
	MapCount int `json:"map_count"`
}
