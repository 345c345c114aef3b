package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ViewportState stores one user's last pan/zoom for one map, restored on
// reload as a convenience. Never shared between collaborators.
type ViewportState struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_viewport_user_map,unique" json:"user_id"`
	MapID     string         `gorm:"not null;index:idx_viewport_user_map,unique;column:map_id" json:"map_id"`
	State     datatypes.JSON `gorm:"column:state" json:"state"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (ViewportState) TableName() string {
	return "viewport_state"
}
