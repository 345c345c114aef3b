package types

import (
	"time"
)

const (
	NodeShapeRounded = "rounded"
	NodeShapeCircle  = "circle"
)

type Node struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	MapID        string    `gorm:"index;not null;column:map_id" json:"map_id"`
	ParentID     *string   `gorm:"index;column:parent_id" json:"parent_id"`
	Title        string    `gorm:"not null;column:title" json:"title"`
	Notes        string    `gorm:"column:notes" json:"notes"`
	Color        string    `gorm:"column:color" json:"color"`
	X            float64   `gorm:"column:x;default:0" json:"x"`
	Y            float64   `gorm:"column:y;default:0" json:"y"`
	Shape        string    `gorm:"column:shape;default:rounded" json:"shape"`
	MasteryLevel int       `gorm:"column:mastery_level;default:0" json:"mastery_level"`
	IsImportant  bool      `gorm:"column:is_important;default:false" json:"is_important"`
	IsStarred    bool      `gorm:"column:is_starred;default:false" json:"is_starred"`
	IsCollapsed  bool      `gorm:"column:is_collapsed;default:false" json:"is_collapsed"`
	IsBold       bool      `gorm:"column:is_bold;default:false" json:"isBold"`
	IsItalic     bool      `gorm:"column:is_italic;default:false" json:"isItalic"`
	FontSize     *int      `gorm:"column:font_size" json:"fontSize"`
	TextColor    *string   `gorm:"column:text_color" json:"textColor"`
	GroupID      *string   `gorm:"column:group_id" json:"group_id"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (Node) TableName() string {
	return "nodes"
}

// NodePatch carries a partial node update. Nil fields are left unchanged
// (coalesce semantics at the persistence boundary).
type NodePatch struct {
	Title        *string  `json:"title"`
	Notes        *string  `json:"notes"`
	Color        *string  `json:"color"`
	X            *float64 `json:"x"`
	Y            *float64 `json:"y"`
	Shape        *string  `json:"shape"`
	MasteryLevel *int     `json:"mastery_level"`
	IsImportant  *bool    `json:"is_important"`
	IsStarred    *bool    `json:"is_starred"`
	IsCollapsed  *bool    `json:"is_collapsed"`
	IsBold       *bool    `json:"isBold"`
	IsItalic     *bool    `json:"isItalic"`
	FontSize     *int     `json:"fontSize"`
	TextColor    *string  `json:"textColor"`
	GroupID      *string  `json:"group_id"`
	ParentID     *string  `json:"parent_id"`
}
