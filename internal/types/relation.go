package types

import (
	"time"
)

// NodeRelation is a directed, non-hierarchical edge layered over the tree.
// It never participates in cycle checks; it is removed when either endpoint
// node is deleted.
type NodeRelation struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	MapID     string    `gorm:"index;not null;column:map_id" json:"map_id"`
	SourceID  string    `gorm:"not null;column:source_id;index:idx_relation_pair,unique" json:"source_id"`
	TargetID  string    `gorm:"not null;column:target_id;index:idx_relation_pair,unique" json:"target_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (NodeRelation) TableName() string {
	return "node_relations"
}
