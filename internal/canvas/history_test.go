package canvas

import (
	"reflect"
	"testing"
)

func stateOf(doc *Document) DocumentSnapshot {
	return doc.Snapshot()
}

func TestHistoryRoundTrip(t *testing.T) {
	doc := NewBlank("map_1")
	root := rootOf(t, doc)
	original := stateOf(doc)

	a := mustCreate(t, doc, &root.ID, "A")
	b := mustCreate(t, doc, &a.ID, "B")
	if _, err := doc.AddRelation(root.ID, b.ID); err != nil {
		t.Fatalf("AddRelation: %v", err)
	}
	if err := doc.UpdateNode(a.ID, func(n *Node) { n.MasteryLevel = 75 }); err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}
	mutations := 4

	preUndo := stateOf(doc)
	for i := 0; i < mutations; i++ {
		if !doc.Undo() {
			t.Fatalf("Undo %d returned false", i+1)
		}
	}
	if got := stateOf(doc); !reflect.DeepEqual(got, original) {
		t.Fatalf("state after %d undos: want=%+v got=%+v", mutations, original, got)
	}

	for i := 0; i < mutations; i++ {
		if !doc.Redo() {
			t.Fatalf("Redo %d returned false", i+1)
		}
	}
	if got := stateOf(doc); !reflect.DeepEqual(got, preUndo) {
		t.Fatalf("state after redos: want=%+v got=%+v", preUndo, got)
	}
}

func TestUndoRedoIdentity(t *testing.T) {
	doc := NewBlank("map_1")
	root := rootOf(t, doc)
	mustCreate(t, doc, &root.ID, "A")

	before := stateOf(doc)
	if !doc.Undo() {
		t.Fatalf("Undo returned false")
	}
	if !doc.Redo() {
		t.Fatalf("Redo returned false")
	}
	if got := stateOf(doc); !reflect.DeepEqual(got, before) {
		t.Fatalf("undo;redo not identity: want=%+v got=%+v", before, got)
	}
}

func TestUndoEmptyStackIsNoop(t *testing.T) {
	doc := NewBlank("map_1")
	before := stateOf(doc)
	if doc.Undo() {
		t.Fatalf("Undo on empty stack returned true")
	}
	if doc.Redo() {
		t.Fatalf("Redo on empty stack returned true")
	}
	if got := stateOf(doc); !reflect.DeepEqual(got, before) {
		t.Fatalf("no-op undo/redo mutated state")
	}
}

func TestPushClearsRedo(t *testing.T) {
	doc := NewBlank("map_1")
	root := rootOf(t, doc)
	mustCreate(t, doc, &root.ID, "A")
	if !doc.Undo() {
		t.Fatalf("Undo returned false")
	}
	if doc.RedoDepth() != 1 {
		t.Fatalf("redo depth after undo: want=1 got=%d", doc.RedoDepth())
	}
	mustCreate(t, doc, &root.ID, "B")
	if doc.RedoDepth() != 0 {
		t.Fatalf("redo stack survived a new edit: depth=%d", doc.RedoDepth())
	}
}

func TestHistoryCapacityEvictsOldest(t *testing.T) {
	doc := NewBlank("map_1")
	root := rootOf(t, doc)
	for i := 0; i < HistoryCapacity+20; i++ {
		if err := doc.UpdateNode(root.ID, func(n *Node) { n.MasteryLevel = i % 101 }); err != nil {
			t.Fatalf("UpdateNode %d: %v", i, err)
		}
	}
	if doc.UndoDepth() != HistoryCapacity {
		t.Fatalf("undo depth: want=%d got=%d", HistoryCapacity, doc.UndoDepth())
	}
	undone := 0
	for doc.Undo() {
		undone++
	}
	if undone != HistoryCapacity {
		t.Fatalf("undo count: want=%d got=%d", HistoryCapacity, undone)
	}
}

func TestMoveNodeDoesNotPush(t *testing.T) {
	doc := NewBlank("map_1")
	root := rootOf(t, doc)
	depth := doc.UndoDepth()
	// drag gesture: one explicit push at pointer-down, frames free
	doc.Push()
	for i := 0; i < 10; i++ {
		if err := doc.MoveNode(root.ID, float64(i), float64(-i)); err != nil {
			t.Fatalf("MoveNode: %v", err)
		}
	}
	if doc.UndoDepth() != depth+1 {
		t.Fatalf("undo depth after drag: want=%d got=%d", depth+1, doc.UndoDepth())
	}
	if !doc.Undo() {
		t.Fatalf("Undo returned false")
	}
	moved, _ := doc.Node(root.ID)
	if moved.X != 0 || moved.Y != 0 {
		t.Fatalf("undo of drag: want=(0,0) got=(%v,%v)", moved.X, moved.Y)
	}
}
