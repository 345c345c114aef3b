package canvas

// HistoryCapacity bounds the undo stack; the oldest entry is evicted on
// overflow.
const HistoryCapacity = 80

// snapshot is an immutable deep copy of the full editable state.
type snapshot struct {
	nodes     map[string]*Node
	relations map[string]*Relation
	selection []string
	viewport  Viewport
}

type history struct {
	capacity int
	undo     []snapshot
	redo     []snapshot
}

func newHistory(capacity int) history {
	return history{capacity: capacity}
}

func (d *Document) capture() snapshot {
	s := snapshot{
		nodes:     make(map[string]*Node, len(d.nodes)),
		relations: make(map[string]*Relation, len(d.relations)),
		selection: append([]string(nil), d.selection...),
		viewport:  d.viewport,
	}
	for id, n := range d.nodes {
		s.nodes[id] = n.Clone()
	}
	for id, r := range d.relations {
		s.relations[id] = r.Clone()
	}
	return s
}

func (d *Document) restore(s snapshot) {
	d.nodes = make(map[string]*Node, len(s.nodes))
	for id, n := range s.nodes {
		d.nodes[id] = n.Clone()
	}
	d.relations = make(map[string]*Relation, len(s.relations))
	for id, r := range s.relations {
		d.relations[id] = r.Clone()
	}
	d.selection = append([]string(nil), s.selection...)
	d.viewport = s.viewport
}

// Push records the pre-edit state. Called exactly once before every
// discrete local edit gesture; any new push invalidates the redo stack.
// Remote-applied changes never push: undo stays a personal operation.
func (d *Document) Push() {
	h := &d.history
	h.undo = append(h.undo, d.capture())
	if len(h.undo) > h.capacity {
		h.undo = h.undo[len(h.undo)-h.capacity:]
	}
	h.redo = nil
}

// Undo restores the most recent snapshot, moving the live state onto the
// redo stack. Returns false on an empty stack.
func (d *Document) Undo() bool {
	h := &d.history
	if len(h.undo) == 0 {
		return false
	}
	top := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, d.capture())
	d.restore(top)
	return true
}

// Redo mirrors Undo.
func (d *Document) Redo() bool {
	h := &d.history
	if len(h.redo) == 0 {
		return false
	}
	top := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, d.capture())
	d.restore(top)
	return true
}

func (d *Document) UndoDepth() int { return len(d.history.undo) }
func (d *Document) RedoDepth() int { return len(d.history.redo) }
