package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mindcanvas/mindcanvas-backend/internal/platform/logger"
	"github.com/mindcanvas/mindcanvas-backend/internal/platform/shortid"
	"github.com/mindcanvas/mindcanvas-backend/internal/repos"
	"github.com/mindcanvas/mindcanvas-backend/internal/types"
)

type RelationService interface {
	Create(ctx context.Context, mapID, sourceID, targetID string) (*types.NodeRelation, error)
	List(ctx context.Context, mapID string) ([]*types.NodeRelation, error)
	Delete(ctx context.Context, mapID, relationID string) error
}

type relationService struct {
	db           *gorm.DB
	log          *logger.Logger
	mapRepo      repos.StudyMapRepo
	nodeRepo     repos.NodeRepo
	relationRepo repos.RelationRepo
}

func NewRelationService(
	db *gorm.DB,
	log *logger.Logger,
	mapRepo repos.StudyMapRepo,
	nodeRepo repos.NodeRepo,
	relationRepo repos.RelationRepo,
) RelationService {
	return &relationService{
		db:           db,
		log:          log.With("service", "RelationService"),
		mapRepo:      mapRepo,
		nodeRepo:     nodeRepo,
		relationRepo: relationRepo,
	}
}

// Create links two nodes of the same map. Idempotent: an existing
// (source, target) pair is returned instead of duplicated.
func (rs *relationService) Create(ctx context.Context, mapID, sourceID, targetID string) (*types.NodeRelation, error) {
	if err := rs.requireOwnedMap(ctx, mapID); err != nil {
		return nil, err
	}
	var relation *types.NodeRelation
	if err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range []string{sourceID, targetID} {
			node, err := rs.nodeRepo.GetByID(ctx, tx, id)
			if err != nil {
				return fmt.Errorf("fetch node: %w", err)
			}
			if node == nil || node.MapID != mapID {
				return fmt.Errorf("%w: node %q not in map %q", ErrInvalidInput, id, mapID)
			}
		}
		existing, err := rs.relationRepo.GetByPair(ctx, tx, sourceID, targetID)
		if err != nil {
			return fmt.Errorf("check existing relation: %w", err)
		}
		if existing != nil {
			relation = existing
			return nil
		}
		relation = &types.NodeRelation{
			ID:       shortid.New(),
			MapID:    mapID,
			SourceID: sourceID,
			TargetID: targetID,
		}
		if _, err := rs.relationRepo.Create(ctx, tx, []*types.NodeRelation{relation}); err != nil {
			return fmt.Errorf("create relation: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return relation, nil
}

func (rs *relationService) List(ctx context.Context, mapID string) ([]*types.NodeRelation, error) {
	if err := rs.requireOwnedMap(ctx, mapID); err != nil {
		return nil, err
	}
	relations, err := rs.relationRepo.ListByMap(ctx, nil, mapID)
	if err != nil {
		return nil, fmt.Errorf("list relations: %w", err)
	}
	return relations, nil
}

func (rs *relationService) Delete(ctx context.Context, mapID, relationID string) error {
	if err := rs.requireOwnedMap(ctx, mapID); err != nil {
		return err
	}
	affected, err := rs.relationRepo.DeleteByID(ctx, nil, relationID)
	if err != nil {
		return fmt.Errorf("delete relation: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: relation %q", ErrNotFound, relationID)
	}
	return nil
}

func (rs *relationService) requireOwnedMap(ctx context.Context, mapID string) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	studyMap, err := rs.mapRepo.GetByIDAndOwner(ctx, nil, mapID, userID)
	if err != nil {
		return fmt.Errorf("fetch map: %w", err)
	}
	if studyMap == nil {
		return fmt.Errorf("%w: map %q", ErrNotFound, mapID)
	}
	return nil
}
