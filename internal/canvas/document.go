package canvas

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mindcanvas/mindcanvas-backend/internal/platform/shortid"
)

var (
	ErrNodeNotFound   = errors.New("node not found")
	ErrParentNotFound = errors.New("parent node not found")
	ErrCycle          = errors.New("re-parent would create a cycle")
	ErrDeleteRoot     = errors.New("root node cannot be deleted")
)

// Document is the authoritative in-memory state for one open map.
type Document struct {
	mapID     string
	nodes     map[string]*Node
	relations map[string]*Relation
	selection []string
	viewport  Viewport
	history   history
}

func NewDocument(mapID string) *Document {
	return &Document{
		mapID:     mapID,
		nodes:     map[string]*Node{},
		relations: map[string]*Relation{},
		viewport:  DefaultViewport(),
		history:   newHistory(HistoryCapacity),
	}
}

// NewBlank is the fresh single-root fallback used on first open and on
// corrupted-snapshot recovery.
func NewBlank(mapID string) *Document {
	doc := NewDocument(mapID)
	root := &Node{
		ID:    shortid.New(),
		MapID: mapID,
		Title: "Central Topic",
		Shape: "rounded",
	}
	doc.nodes[root.ID] = root
	return doc
}

func (d *Document) MapID() string { return d.mapID }

func (d *Document) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

func (d *Document) NodeCount() int     { return len(d.nodes) }
func (d *Document) RelationCount() int { return len(d.relations) }

// Nodes returns the node set in stable id order.
func (d *Document) Nodes() []*Node {
	out := make([]*Node, 0, len(d.nodes))
	for _, n := range d.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (d *Document) Relations() []*Relation {
	out := make([]*Relation, 0, len(d.relations))
	for _, r := range d.relations {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (d *Document) Selection() []string {
	return append([]string(nil), d.selection...)
}

func (d *Document) SetSelection(nodeIDs []string) {
	d.selection = append([]string(nil), nodeIDs...)
}

func (d *Document) Viewport() *Viewport { return &d.viewport }

// NodeAttrs are the caller-supplied fields for a new node. The id is
// generated here; new nodes always start as leaves.
type NodeAttrs struct {
	Title     string
	Notes     string
	Color     string
	X         float64
	Y         float64
	Shape     string
	FontSize  *int
	TextColor *string
}

// CreateNode adds a node under parentID (nil for a new root). Pushes one
// history entry before mutating. A non-nil parent must resolve; no cycle
// can be introduced because the new node has no children yet.
func (d *Document) CreateNode(parentID *string, attrs NodeAttrs) (*Node, error) {
	if parentID != nil {
		if _, ok := d.nodes[*parentID]; !ok {
			return nil, fmt.Errorf("create node: %w", ErrParentNotFound)
		}
	}
	d.Push()
	node := &Node{
		ID:        shortid.New(),
		MapID:     d.mapID,
		ParentID:  cloneStringPtr(parentID),
		Title:     attrs.Title,
		Notes:     attrs.Notes,
		Color:     attrs.Color,
		X:         attrs.X,
		Y:         attrs.Y,
		Shape:     attrs.Shape,
		FontSize:  attrs.FontSize,
		TextColor: attrs.TextColor,
	}
	if node.Shape == "" {
		node.Shape = "rounded"
	}
	d.nodes[node.ID] = node
	return node, nil
}

// Reparent moves nodeID under newParentID. Rejected when the target is
// the node itself or any of its descendants (ancestor walk from the new
// parent up to the root; finding nodeID there means a cycle).
func (d *Document) Reparent(nodeID, newParentID string) error {
	node, ok := d.nodes[nodeID]
	if !ok {
		return fmt.Errorf("reparent: %w", ErrNodeNotFound)
	}
	if _, ok := d.nodes[newParentID]; !ok {
		return fmt.Errorf("reparent: %w", ErrParentNotFound)
	}
	if nodeID == newParentID {
		return fmt.Errorf("reparent: %w", ErrCycle)
	}
	for cur := d.nodes[newParentID]; cur != nil && cur.ParentID != nil; {
		if *cur.ParentID == nodeID {
			return fmt.Errorf("reparent: %w", ErrCycle)
		}
		cur = d.nodes[*cur.ParentID]
	}
	d.Push()
	pid := newParentID
	node.ParentID = &pid
	return nil
}

// DeleteSubtree removes nodeID and every transitive descendant, plus any
// relation touching a removed node. The descendant closure is computed by
// a fixed-point scan so arbitrarily deep trees need no recursion. A node
// with no parent is a map root and is refused.
func (d *Document) DeleteSubtree(nodeID string) error {
	node, ok := d.nodes[nodeID]
	if !ok {
		return fmt.Errorf("delete subtree: %w", ErrNodeNotFound)
	}
	if node.ParentID == nil {
		return fmt.Errorf("delete subtree: %w", ErrDeleteRoot)
	}
	d.Push()
	d.removeClosure(nodeID)
	return nil
}

func (d *Document) removeClosure(rootID string) {
	doomed := map[string]bool{rootID: true}
	for {
		grew := false
		for id, n := range d.nodes {
			if doomed[id] || n.ParentID == nil {
				continue
			}
			if doomed[*n.ParentID] {
				doomed[id] = true
				grew = true
			}
		}
		if !grew {
			break
		}
	}
	for id := range doomed {
		delete(d.nodes, id)
	}
	for id, r := range d.relations {
		if doomed[r.SourceID] || doomed[r.TargetID] {
			delete(d.relations, id)
		}
	}
	if len(d.selection) > 0 {
		kept := d.selection[:0]
		for _, id := range d.selection {
			if !doomed[id] {
				kept = append(kept, id)
			}
		}
		d.selection = kept
	}
}

// AddRelation records a directed edge between two existing nodes.
// Idempotent: an existing (source, target) pair is returned as-is.
func (d *Document) AddRelation(sourceID, targetID string) (*Relation, error) {
	if _, ok := d.nodes[sourceID]; !ok {
		return nil, fmt.Errorf("add relation: source: %w", ErrNodeNotFound)
	}
	if _, ok := d.nodes[targetID]; !ok {
		return nil, fmt.Errorf("add relation: target: %w", ErrNodeNotFound)
	}
	for _, r := range d.relations {
		if r.SourceID == sourceID && r.TargetID == targetID {
			return r, nil
		}
	}
	d.Push()
	rel := &Relation{ID: shortid.New(), SourceID: sourceID, TargetID: targetID}
	d.relations[rel.ID] = rel
	return rel, nil
}

func (d *Document) RemoveRelation(relationID string) bool {
	if _, ok := d.relations[relationID]; !ok {
		return false
	}
	d.Push()
	delete(d.relations, relationID)
	return true
}

// UpdateNode applies fn to a node as one undoable edit.
func (d *Document) UpdateNode(nodeID string, fn func(*Node)) error {
	node, ok := d.nodes[nodeID]
	if !ok {
		return fmt.Errorf("update node: %w", ErrNodeNotFound)
	}
	d.Push()
	fn(node)
	return nil
}

// MoveNode is the drag-frame update: no history entry. Callers push once
// at gesture start (pointer-down) and persist on gesture end.
func (d *Document) MoveNode(nodeID string, x, y float64) error {
	node, ok := d.nodes[nodeID]
	if !ok {
		return fmt.Errorf("move node: %w", ErrNodeNotFound)
	}
	node.X = x
	node.Y = y
	return nil
}

// VisibleNodes derives the render set: a node is hidden when any strict
// ancestor is collapsed; a non-nil focus root restricts the set to that
// node's subtree (the focus root itself included). Purely derived, never
// cached.
func (d *Document) VisibleNodes(focusRootID *string) []*Node {
	var out []*Node
	for _, n := range d.Nodes() {
		if d.hiddenByCollapse(n) {
			continue
		}
		if focusRootID != nil && !d.inSubtree(n.ID, *focusRootID) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func (d *Document) hiddenByCollapse(n *Node) bool {
	for cur := n; cur.ParentID != nil; {
		parent, ok := d.nodes[*cur.ParentID]
		if !ok {
			return false
		}
		if parent.IsCollapsed {
			return true
		}
		cur = parent
	}
	return false
}

func (d *Document) inSubtree(nodeID, rootID string) bool {
	if nodeID == rootID {
		return true
	}
	cur, ok := d.nodes[nodeID]
	for ok && cur.ParentID != nil {
		if *cur.ParentID == rootID {
			return true
		}
		cur, ok = d.nodes[*cur.ParentID]
	}
	return false
}

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
