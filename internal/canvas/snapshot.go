package canvas

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrCorruptSnapshot = errors.New("corrupt canvas snapshot")

// DocumentSnapshot is the serialized form of a Document, saved locally
// as a reload convenience.
type DocumentSnapshot struct {
	MapID     string      `json:"map_id"`
	Nodes     []*Node     `json:"nodes"`
	Relations []*Relation `json:"relations"`
	Selection []string    `json:"selection"`
	Viewport  Viewport    `json:"viewport"`
}

// Snapshot serializes the current state. History is deliberately not
// part of the snapshot.
func (d *Document) Snapshot() DocumentSnapshot {
	snap := DocumentSnapshot{
		MapID:     d.mapID,
		Nodes:     make([]*Node, 0, len(d.nodes)),
		Relations: make([]*Relation, 0, len(d.relations)),
		Selection: d.Selection(),
		Viewport:  d.viewport,
	}
	for _, n := range d.Nodes() {
		snap.Nodes = append(snap.Nodes, n.Clone())
	}
	for _, r := range d.Relations() {
		snap.Relations = append(snap.Relations, r.Clone())
	}
	return snap
}

func (d *Document) MarshalSnapshot() ([]byte, error) {
	return json.Marshal(d.Snapshot())
}

// LoadSnapshot restores a Document from serialized state. Structural
// validation is strict: the node array must be present, parent and
// relation references must resolve, and the parent graph must be a
// forest. Anything malformed returns ErrCorruptSnapshot; callers fall
// back to a fresh single-root map rather than attempting partial repair.
func LoadSnapshot(data []byte) (*Document, error) {
	var snap DocumentSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return fromSnapshot(snap)
}

// FromRecords builds a Document from fetched map records, running the
// same structural validation as LoadSnapshot.
func FromRecords(mapID string, nodes []*Node, relations []*Relation) (*Document, error) {
	if nodes == nil {
		nodes = []*Node{}
	}
	return fromSnapshot(DocumentSnapshot{MapID: mapID, Nodes: nodes, Relations: relations, Viewport: DefaultViewport()})
}

func fromSnapshot(snap DocumentSnapshot) (*Document, error) {
	if snap.Nodes == nil {
		return nil, fmt.Errorf("%w: missing node array", ErrCorruptSnapshot)
	}
	doc := NewDocument(snap.MapID)
	for _, n := range snap.Nodes {
		if n == nil || n.ID == "" {
			return nil, fmt.Errorf("%w: node without id", ErrCorruptSnapshot)
		}
		if _, dup := doc.nodes[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node id %q", ErrCorruptSnapshot, n.ID)
		}
		doc.nodes[n.ID] = n.Clone()
	}
	for id, n := range doc.nodes {
		if n.ParentID == nil {
			continue
		}
		if _, ok := doc.nodes[*n.ParentID]; !ok {
			return nil, fmt.Errorf("%w: node %q references missing parent %q", ErrCorruptSnapshot, id, *n.ParentID)
		}
	}
	if err := checkForest(doc.nodes); err != nil {
		return nil, err
	}
	for _, r := range snap.Relations {
		if r == nil || r.ID == "" {
			return nil, fmt.Errorf("%w: relation without id", ErrCorruptSnapshot)
		}
		if _, ok := doc.nodes[r.SourceID]; !ok {
			return nil, fmt.Errorf("%w: relation %q has dangling source", ErrCorruptSnapshot, r.ID)
		}
		if _, ok := doc.nodes[r.TargetID]; !ok {
			return nil, fmt.Errorf("%w: relation %q has dangling target", ErrCorruptSnapshot, r.ID)
		}
		doc.relations[r.ID] = r.Clone()
	}
	for _, id := range snap.Selection {
		if _, ok := doc.nodes[id]; ok {
			doc.selection = append(doc.selection, id)
		}
	}
	doc.viewport = snap.Viewport
	if doc.viewport.Zoom == 0 {
		doc.viewport = DefaultViewport()
	} else {
		doc.viewport.Zoom = ClampZoom(doc.viewport.Zoom)
	}
	return doc, nil
}

// LoadSnapshotOrBlank is the recovery path: a malformed snapshot yields
// a fresh single-root document and fresh=true ("started a clean map").
func LoadSnapshotOrBlank(mapID string, data []byte) (doc *Document, fresh bool) {
	loaded, err := LoadSnapshot(data)
	if err != nil {
		return NewBlank(mapID), true
	}
	return loaded, false
}

// checkForest rejects any cycle in the parent graph. Iterative ancestor
// walk with a step bound, no recursion.
func checkForest(nodes map[string]*Node) error {
	for id, n := range nodes {
		steps := 0
		for cur := n; cur.ParentID != nil; steps++ {
			if steps > len(nodes) {
				return fmt.Errorf("%w: parent cycle through node %q", ErrCorruptSnapshot, id)
			}
			next, ok := nodes[*cur.ParentID]
			if !ok {
				break
			}
			cur = next
		}
	}
	return nil
}
