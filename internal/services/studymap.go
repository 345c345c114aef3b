package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mindcanvas/mindcanvas-backend/internal/canvas"
	"github.com/mindcanvas/mindcanvas-backend/internal/platform/logger"
	"github.com/mindcanvas/mindcanvas-backend/internal/platform/shortid"
	"github.com/mindcanvas/mindcanvas-backend/internal/repos"
	"github.com/mindcanvas/mindcanvas-backend/internal/types"
)

// MapDetail is a map with its full node and relation set, the shape the
// editor loads on open.
type MapDetail struct {
	Map       *types.StudyMap       `json:"map"`
	Nodes     []*types.Node         `json:"nodes"`
	Relations []*types.NodeRelation `json:"relations"`
}

type CreateMapInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	FolderID    *string `json:"folder_id"`
}

type UpdateMapInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	FolderID    *string `json:"folder_id"`
	ClearFolder bool    `json:"clear_folder"`
}

type StudyMapService interface {
	List(ctx context.Context) ([]*types.MapSummary, error)
	Get(ctx context.Context, mapID string) (*MapDetail, error)
	Snapshot(ctx context.Context, mapID string) (canvas.DocumentSnapshot, error)
	Create(ctx context.Context, input CreateMapInput) (*MapDetail, error)
	Update(ctx context.Context, mapID string, input UpdateMapInput) (*types.StudyMap, error)
	Delete(ctx context.Context, mapID string) error
}

type studyMapService struct {
	db           *gorm.DB
	log          *logger.Logger
	mapRepo      repos.StudyMapRepo
	nodeRepo     repos.NodeRepo
	relationRepo repos.RelationRepo
	viewportRepo repos.ViewportStateRepo
}

func NewStudyMapService(
	db *gorm.DB,
	log *logger.Logger,
	mapRepo repos.StudyMapRepo,
	nodeRepo repos.NodeRepo,
	relationRepo repos.RelationRepo,
	viewportRepo repos.ViewportStateRepo,
) StudyMapService {
	return &studyMapService{
		db:           db,
		log:          log.With("service", "StudyMapService"),
		mapRepo:      mapRepo,
		nodeRepo:     nodeRepo,
		relationRepo: relationRepo,
		viewportRepo: viewportRepo,
	}
}

func (ms *studyMapService) List(ctx context.Context) ([]*types.MapSummary, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	summaries, err := ms.mapRepo.ListSummariesByOwner(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list maps: %w", err)
	}
	return summaries, nil
}

func (ms *studyMapService) Get(ctx context.Context, mapID string) (*MapDetail, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	studyMap, err := ms.mapRepo.GetByIDAndOwner(ctx, nil, mapID, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch map: %w", err)
	}
	if studyMap == nil {
		return nil, fmt.Errorf("%w: map %q", ErrNotFound, mapID)
	}
	nodes, err := ms.nodeRepo.ListByMap(ctx, nil, mapID)
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}
	relations, err := ms.relationRepo.ListByMap(ctx, nil, mapID)
	if err != nil {
		return nil, fmt.Errorf("list relations: %w", err)
	}
	return &MapDetail{Map: studyMap, Nodes: nodes, Relations: relations}, nil
}

// Snapshot builds the validated document form of a map, the payload a
// client seeds its local editor state from. Structural problems in the
// stored rows surface as an error instead of a half-loaded canvas.
func (ms *studyMapService) Snapshot(ctx context.Context, mapID string) (canvas.DocumentSnapshot, error) {
	detail, err := ms.Get(ctx, mapID)
	if err != nil {
		return canvas.DocumentSnapshot{}, err
	}
	nodes := make([]*canvas.Node, 0, len(detail.Nodes))
	for _, n := range detail.Nodes {
		nodes = append(nodes, canvasNode(n))
	}
	relations := make([]*canvas.Relation, 0, len(detail.Relations))
	for _, r := range detail.Relations {
		relations = append(relations, &canvas.Relation{ID: r.ID, SourceID: r.SourceID, TargetID: r.TargetID})
	}
	doc, err := canvas.FromRecords(mapID, nodes, relations)
	if err != nil {
		ms.log.Error("stored map fails structural validation", "map_id", mapID, "error", err)
		return canvas.DocumentSnapshot{}, fmt.Errorf("build document: %w", err)
	}
	return doc.Snapshot(), nil
}

func (ms *studyMapService) Create(ctx context.Context, input CreateMapInput) (*MapDetail, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title required", ErrInvalidInput)
	}

	studyMap := &types.StudyMap{
		ID:          shortid.New(),
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		OwnerID:     userID,
		FolderID:    input.FolderID,
	}
	// every map starts with a root node carrying the map title
	root := &types.Node{
		ID:    shortid.New(),
		MapID: studyMap.ID,
		Title: title,
		Shape: types.NodeShapeRounded,
	}
	if err := ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ms.mapRepo.Create(ctx, tx, []*types.StudyMap{studyMap}); err != nil {
			return fmt.Errorf("create map: %w", err)
		}
		if _, err := ms.nodeRepo.Create(ctx, tx, []*types.Node{root}); err != nil {
			return fmt.Errorf("create root node: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	ms.log.Info("map created", "map_id", studyMap.ID, "owner_id", userID)
	return &MapDetail{Map: studyMap, Nodes: []*types.Node{root}, Relations: []*types.NodeRelation{}}, nil
}

func (ms *studyMapService) Update(ctx context.Context, mapID string, input UpdateMapInput) (*types.StudyMap, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		fields["title"] = title
	}
	if input.Description != nil {
		fields["description"] = strings.TrimSpace(*input.Description)
	}
	if input.ClearFolder {
		fields["folder_id"] = nil
	} else if input.FolderID != nil {
		fields["folder_id"] = *input.FolderID
	}
	if len(fields) > 0 {
		affected, err := ms.mapRepo.UpdateFields(ctx, nil, mapID, userID, fields)
		if err != nil {
			return nil, fmt.Errorf("update map: %w", err)
		}
		if affected == 0 {
			return nil, fmt.Errorf("%w: map %q", ErrNotFound, mapID)
		}
	}
	updated, err := ms.mapRepo.GetByIDAndOwner(ctx, nil, mapID, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch map: %w", err)
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: map %q", ErrNotFound, mapID)
	}
	return updated, nil
}

// Delete removes the map and everything hanging off it: nodes,
// relations and per-user viewport states, all in one transaction.
func (ms *studyMapService) Delete(ctx context.Context, mapID string) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	return ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected, err := ms.mapRepo.Delete(ctx, tx, mapID, userID)
		if err != nil {
			return fmt.Errorf("delete map: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: map %q", ErrNotFound, mapID)
		}
		if err := ms.relationRepo.DeleteByMap(ctx, tx, mapID); err != nil {
			return fmt.Errorf("delete relations: %w", err)
		}
		if err := ms.nodeRepo.DeleteByMap(ctx, tx, mapID); err != nil {
			return fmt.Errorf("delete nodes: %w", err)
		}
		if err := ms.viewportRepo.DeleteByMap(ctx, tx, mapID); err != nil {
			return fmt.Errorf("delete viewport states: %w", err)
		}
		return nil
	})
}

func canvasNode(n *types.Node) *canvas.Node {
	return &canvas.Node{
		ID:           n.ID,
		MapID:        n.MapID,
		ParentID:     n.ParentID,
		Title:        n.Title,
		Notes:        n.Notes,
		Color:        n.Color,
		X:            n.X,
		Y:            n.Y,
		Shape:        n.Shape,
		MasteryLevel: n.MasteryLevel,
		IsImportant:  n.IsImportant,
		IsStarred:    n.IsStarred,
		IsCollapsed:  n.IsCollapsed,
		IsBold:       n.IsBold,
		IsItalic:     n.IsItalic,
		FontSize:     n.FontSize,
		TextColor:    n.TextColor,
		GroupID:      n.GroupID,
	}
}
