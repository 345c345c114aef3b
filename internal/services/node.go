package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mindcanvas/mindcanvas-backend/internal/platform/logger"
	"github.com/mindcanvas/mindcanvas-backend/internal/platform/shortid"
	"github.com/mindcanvas/mindcanvas-backend/internal/repos"
	"github.com/mindcanvas/mindcanvas-backend/internal/types"
)

type CreateNodeInput struct {
	ParentID  *string  `json:"parent_id"`
	Title     string   `json:"title"`
	Notes     string   `json:"notes"`
	Color     string   `json:"color"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Shape     string   `json:"shape"`
	FontSize  *int     `json:"fontSize"`
	TextColor *string  `json:"textColor"`
	GroupID   *string  `json:"group_id"`
}

type NodeService interface {
	Create(ctx context.Context, mapID string, input CreateNodeInput) (*types.Node, error)
	Update(ctx context.Context, mapID, nodeID string, patch types.NodePatch) (*types.Node, error)
	Delete(ctx context.Context, mapID, nodeID string) (deletedIDs []string, err error)
}

type nodeService struct {
	db           *gorm.DB
	log          *logger.Logger
	mapRepo      repos.StudyMapRepo
	nodeRepo     repos.NodeRepo
	relationRepo repos.RelationRepo
}

func NewNodeService(
	db *gorm.DB,
	log *logger.Logger,
	mapRepo repos.StudyMapRepo,
	nodeRepo repos.NodeRepo,
	relationRepo repos.RelationRepo,
) NodeService {
	return &nodeService{
		db:           db,
		log:          log.With("service", "NodeService"),
		mapRepo:      mapRepo,
		nodeRepo:     nodeRepo,
		relationRepo: relationRepo,
	}
}

func (ns *nodeService) Create(ctx context.Context, mapID string, input CreateNodeInput) (*types.Node, error) {
	if err := ns.requireOwnedMap(ctx, mapID); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "New Node"
	}
	shape := input.Shape
	if shape == "" {
		shape = types.NodeShapeRounded
	}

	node := &types.Node{
		ID:        shortid.New(),
		MapID:     mapID,
		ParentID:  input.ParentID,
		Title:     title,
		Notes:     input.Notes,
		Color:     input.Color,
		X:         input.X,
		Y:         input.Y,
		Shape:     shape,
		FontSize:  input.FontSize,
		TextColor: input.TextColor,
		GroupID:   input.GroupID,
	}
	if err := ns.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if input.ParentID != nil {
			parent, err := ns.nodeRepo.GetByID(ctx, tx, *input.ParentID)
			if err != nil {
				return fmt.Errorf("fetch parent: %w", err)
			}
			if parent == nil || parent.MapID != mapID {
				return fmt.Errorf("%w: parent node %q not in map %q", ErrInvalidInput, *input.ParentID, mapID)
			}
		}
		if _, err := ns.nodeRepo.Create(ctx, tx, []*types.Node{node}); err != nil {
			return fmt.Errorf("create node: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return node, nil
}

func (ns *nodeService) Update(ctx context.Context, mapID, nodeID string, patch types.NodePatch) (*types.Node, error) {
	if err := ns.requireOwnedMap(ctx, mapID); err != nil {
		return nil, err
	}
	var updated *types.Node
	if err := ns.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		node, err := ns.nodeRepo.GetByID(ctx, tx, nodeID)
		if err != nil {
			return fmt.Errorf("fetch node: %w", err)
		}
		if node == nil || node.MapID != mapID {
			return fmt.Errorf("%w: node %q in map %q", ErrNotFound, nodeID, mapID)
		}
		if patch.ParentID != nil {
			if err := ns.checkReparent(ctx, tx, node, *patch.ParentID); err != nil {
				return err
			}
		}
		fields := patchFields(patch)
		if len(fields) > 0 {
			if err := ns.nodeRepo.UpdateFields(ctx, tx, nodeID, fields); err != nil {
				return fmt.Errorf("update node: %w", err)
			}
		}
		updated, err = ns.nodeRepo.GetByID(ctx, tx, nodeID)
		if err != nil {
			return fmt.Errorf("reload node: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a node and its whole subtree, plus every relation
// touching a removed node. Map roots are refused. The deleted node ids
// are returned so the caller can tell peers what vanished.
func (ns *nodeService) Delete(ctx context.Context, mapID, nodeID string) ([]string, error) {
	if err := ns.requireOwnedMap(ctx, mapID); err != nil {
		return nil, err
	}
	var deleted []string
	if err := ns.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		node, err := ns.nodeRepo.GetByID(ctx, tx, nodeID)
		if err != nil {
			return fmt.Errorf("fetch node: %w", err)
		}
		if node == nil || node.MapID != mapID {
			return fmt.Errorf("%w: node %q in map %q", ErrNotFound, nodeID, mapID)
		}
		if node.ParentID == nil {
			return fmt.Errorf("%w: the root node cannot be deleted", ErrInvalidInput)
		}

		all, err := ns.nodeRepo.ListByMap(ctx, tx, mapID)
		if err != nil {
			return fmt.Errorf("list nodes: %w", err)
		}
		doomed := subtreeIDs(all, nodeID)
		if err := ns.relationRepo.DeleteTouchingNodes(ctx, tx, doomed); err != nil {
			return fmt.Errorf("delete relations: %w", err)
		}
		if err := ns.nodeRepo.DeleteByIDs(ctx, tx, doomed); err != nil {
			return fmt.Errorf("delete nodes: %w", err)
		}
		deleted = doomed
		return nil
	}); err != nil {
		return nil, err
	}
	ns.log.Info("subtree deleted", "map_id", mapID, "node_id", nodeID, "count", len(deleted))
	return deleted, nil
}

func (ns *nodeService) requireOwnedMap(ctx context.Context, mapID string) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	studyMap, err := ns.mapRepo.GetByIDAndOwner(ctx, nil, mapID, userID)
	if err != nil {
		return fmt.Errorf("fetch map: %w", err)
	}
	if studyMap == nil {
		return fmt.Errorf("%w: map %q", ErrNotFound, mapID)
	}
	return nil
}

// checkReparent rejects a new parent that is the node itself, outside
// the map, or anywhere in the node's own subtree. The ancestor walk is
// bounded by the visited set, so a damaged parent chain cannot loop.
func (ns *nodeService) checkReparent(ctx context.Context, tx *gorm.DB, node *types.Node, newParentID string) error {
	if newParentID == node.ID {
		return fmt.Errorf("%w: node cannot be its own parent", ErrInvalidInput)
	}
	parent, err := ns.nodeRepo.GetByID(ctx, tx, newParentID)
	if err != nil {
		return fmt.Errorf("fetch new parent: %w", err)
	}
	if parent == nil || parent.MapID != node.MapID {
		return fmt.Errorf("%w: parent node %q not in map %q", ErrInvalidInput, newParentID, node.MapID)
	}
	visited := map[string]bool{}
	for cur := parent; cur != nil && cur.ParentID != nil; {
		if *cur.ParentID == node.ID {
			return fmt.Errorf("%w: new parent is inside the node's subtree", ErrInvalidInput)
		}
		if visited[cur.ID] {
			break
		}
		visited[cur.ID] = true
		cur, err = ns.nodeRepo.GetByID(ctx, tx, *cur.ParentID)
		if err != nil {
			return fmt.Errorf("walk ancestors: %w", err)
		}
	}
	return nil
}

// subtreeIDs computes the transitive child closure of rootID with a
// fixed-point scan over the map's node set.
func subtreeIDs(nodes []*types.Node, rootID string) []string {
	doomed := map[string]bool{rootID: true}
	for {
		grew := false
		for _, n := range nodes {
			if n.ParentID == nil || doomed[n.ID] {
				continue
			}
			if doomed[*n.ParentID] {
				doomed[n.ID] = true
				grew = true
			}
		}
		if !grew {
			break
		}
	}
	out := make([]string, 0, len(doomed))
	for id := range doomed {
		out = append(out, id)
	}
	return out
}

func patchFields(patch types.NodePatch) map[string]any {
	fields := map[string]any{}
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.Notes != nil {
		fields["notes"] = *patch.Notes
	}
	if patch.Color != nil {
		fields["color"] = *patch.Color
	}
	if patch.X != nil {
		fields["x"] = *patch.X
	}
	if patch.Y != nil {
		fields["y"] = *patch.Y
	}
	if patch.Shape != nil {
		fields["shape"] = *patch.Shape
	}
	if patch.MasteryLevel != nil {
		fields["mastery_level"] = *patch.MasteryLevel
	}
	if patch.IsImportant != nil {
		fields["is_important"] = *patch.IsImportant
	}
	if patch.IsStarred != nil {
		fields["is_starred"] = *patch.IsStarred
	}
	if patch.IsCollapsed != nil {
		fields["is_collapsed"] = *patch.IsCollapsed
	}
	if patch.IsBold != nil {
		fields["is_bold"] = *patch.IsBold
	}
	if patch.IsItalic != nil {
		fields["is_italic"] = *patch.IsItalic
	}
	if patch.FontSize != nil {
		fields["font_size"] = *patch.FontSize
	}
	if patch.TextColor != nil {
		fields["text_color"] = *patch.TextColor
	}
	if patch.GroupID != nil {
		fields["group_id"] = *patch.GroupID
	}
	if patch.ParentID != nil {
		fields["parent_id"] = *patch.ParentID
	}
	return fields
}
