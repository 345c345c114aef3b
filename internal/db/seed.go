package db

import (
	"github.com/google/uuid"

	"github.com/mindcanvas/mindcanvas-backend/internal/types"
)

func strptr(s string) *string { return &s }

// SeedDemo inserts the demo map when the store is empty. Gated behind
// DB_SEED_DEMO in main; owner is the given user.
func (s *Service) SeedDemo(ownerID uuid.UUID) error {
	var count int64
	if err := s.db.Model(&types.StudyMap{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	s.log.Info("Seeding demo map")

	demo := &types.StudyMap{
		ID:          "map_1",
		Title:       "Neuroscience 101",
		Description: "Core concepts of the human brain",
		OwnerID:     ownerID,
	}
	if err := s.db.Create(demo).Error; err != nil {
		return err
	}
	nodes := []*types.Node{
		{ID: "node_root", MapID: demo.ID, Title: "The Brain", Notes: "Central Concept", Color: "#308ce8", Shape: types.NodeShapeRounded, MasteryLevel: 50},
		{ID: "node_1", MapID: demo.ID, ParentID: strptr("node_root"), Title: "Synapses", Notes: "Connection points", Color: "#4ade80", X: 200, Y: -100, Shape: types.NodeShapeCircle, MasteryLevel: 100},
		{ID: "node_2", MapID: demo.ID, ParentID: strptr("node_root"), Title: "Neurotransmitters", Notes: "Chemical messengers", Color: "#308ce8", X: 200, Y: 100, Shape: types.NodeShapeRounded, MasteryLevel: 25},
	}
	return s.db.Create(&nodes).Error
}
