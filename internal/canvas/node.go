// Package canvas is the client-side state model for one open mind map:
// the node tree, free-form relations, selection, viewport transform and
// the undo/redo history. It holds no network or storage concerns;
// persistence and broadcast are driven by the caller around it.
package canvas

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is the wire-compatible node record. ParentID nil means root.
type Node struct {
	ID           string  `json:"id"`
	MapID        string  `json:"map_id"`
	ParentID     *string `json:"parent_id"`
	Title        string  `json:"title"`
	Notes        string  `json:"notes"`
	Color        string  `json:"color"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Shape        string  `json:"shape"`
	MasteryLevel int     `json:"mastery_level"`
	IsImportant  bool    `json:"is_important"`
	IsStarred    bool    `json:"is_starred"`
	IsCollapsed  bool    `json:"is_collapsed"`
	IsBold       bool    `json:"isBold"`
	IsItalic     bool    `json:"isItalic"`
	FontSize     *int    `json:"fontSize"`
	TextColor    *string `json:"textColor"`
	GroupID      *string `json:"group_id"`
}

// Relation is a directed non-tree edge between two nodes. It does not
// participate in cycle checks and is removed when either endpoint goes.
type Relation struct {
	ID       string `json:"id"`
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
}

func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := *n
	if n.ParentID != nil {
		v := *n.ParentID
		out.ParentID = &v
	}
	if n.FontSize != nil {
		v := *n.FontSize
		out.FontSize = &v
	}
	if n.TextColor != nil {
		v := *n.TextColor
		out.TextColor = &v
	}
	if n.GroupID != nil {
		v := *n.GroupID
		out.GroupID = &v
	}
	return &out
}

func (r *Relation) Clone() *Relation {
	if r == nil {
		return nil
	}
	out := *r
	return &out
}
