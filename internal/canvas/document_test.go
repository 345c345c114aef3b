package canvas

import (
	"errors"
	"testing"
)

func rootOf(t *testing.T, doc *Document) *Node {
	t.Helper()
	for _, n := range doc.Nodes() {
		if n.ParentID == nil {
			return n
		}
	}
	t.Fatalf("document has no root node")
	return nil
}

func mustCreate(t *testing.T, doc *Document, parentID *string, title string) *Node {
	t.Helper()
	n, err := doc.CreateNode(parentID, NodeAttrs{Title: title})
	if err != nil {
		t.Fatalf("CreateNode(%q): %v", title, err)
	}
	return n
}

func checkForestInvariant(t *testing.T, doc *Document) {
	t.Helper()
	for _, n := range doc.Nodes() {
		if n.ParentID == nil {
			continue
		}
		if _, ok := doc.Node(*n.ParentID); !ok {
			t.Fatalf("node %q has dangling parent %q", n.ID, *n.ParentID)
		}
		steps := 0
		for cur := n; cur.ParentID != nil; steps++ {
			if steps > doc.NodeCount() {
				t.Fatalf("parent cycle through node %q", n.ID)
			}
			parent, _ := doc.Node(*cur.ParentID)
			cur = parent
		}
	}
}

func TestCreateNodeRequiresExistingParent(t *testing.T) {
	doc := NewBlank("map_1")
	bogus := "nope"
	if _, err := doc.CreateNode(&bogus, NodeAttrs{Title: "orphan"}); !errors.Is(err, ErrParentNotFound) {
		t.Fatalf("create with bad parent: want=%v got=%v", ErrParentNotFound, err)
	}
	if doc.NodeCount() != 1 {
		t.Fatalf("node count after rejected create: want=1 got=%d", doc.NodeCount())
	}
	if doc.UndoDepth() != 0 {
		t.Fatalf("rejected create must not push history, undo depth=%d", doc.UndoDepth())
	}
}

func TestForestInvariantUnderMixedOperations(t *testing.T) {
	doc := NewBlank("map_1")
	root := rootOf(t, doc)
	a := mustCreate(t, doc, &root.ID, "A")
	b := mustCreate(t, doc, &root.ID, "B")
	c := mustCreate(t, doc, &a.ID, "C")
	checkForestInvariant(t, doc)

	if err := doc.Reparent(c.ID, b.ID); err != nil {
		t.Fatalf("Reparent(C, B): %v", err)
	}
	checkForestInvariant(t, doc)

	if err := doc.DeleteSubtree(b.ID); err != nil {
		t.Fatalf("DeleteSubtree(B): %v", err)
	}
	checkForestInvariant(t, doc)
	if doc.NodeCount() != 2 {
		t.Fatalf("node count after delete: want=2 got=%d", doc.NodeCount())
	}
}

func TestReparentCycleRejected(t *testing.T) {
	doc := NewBlank("map_1")
	root := rootOf(t, doc)
	a := mustCreate(t, doc, &root.ID, "A")
	b := mustCreate(t, doc, &a.ID, "B")
	c := mustCreate(t, doc, &b.ID, "C")

	before := doc.Nodes()
	if err := doc.Reparent(a.ID, c.ID); !errors.Is(err, ErrCycle) {
		t.Fatalf("Reparent(A, descendant C): want=%v got=%v", ErrCycle, err)
	}
	if err := doc.Reparent(a.ID, a.ID); !errors.Is(err, ErrCycle) {
		t.Fatalf("Reparent(A, A): want=%v got=%v", ErrCycle, err)
	}
	after := doc.Nodes()
	if len(before) != len(after) {
		t.Fatalf("tree changed by rejected reparent")
	}
	for i := range before {
		if before[i].ID != after[i].ID || !ptrEq(before[i].ParentID, after[i].ParentID) {
			t.Fatalf("parent pointers changed by rejected reparent")
		}
	}
	checkForestInvariant(t, doc)
}

func ptrEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func TestDeleteSubtreeCascades(t *testing.T) {
	doc := NewBlank("map_1")
	root := rootOf(t, doc)
	c1 := mustCreate(t, doc, &root.ID, "C1")
	g1 := mustCreate(t, doc, &c1.ID, "G1")
	other := mustCreate(t, doc, &root.ID, "Other")

	if _, err := doc.AddRelation(g1.ID, other.ID); err != nil {
		t.Fatalf("AddRelation: %v", err)
	}
	if _, err := doc.AddRelation(other.ID, c1.ID); err != nil {
		t.Fatalf("AddRelation: %v", err)
	}
	if _, err := doc.AddRelation(root.ID, other.ID); err != nil {
		t.Fatalf("AddRelation: %v", err)
	}

	if err := doc.DeleteSubtree(c1.ID); err != nil {
		t.Fatalf("DeleteSubtree(C1): %v", err)
	}
	if _, ok := doc.Node(c1.ID); ok {
		t.Fatalf("C1 survived delete")
	}
	if _, ok := doc.Node(g1.ID); ok {
		t.Fatalf("grandchild G1 survived cascade")
	}
	if _, ok := doc.Node(root.ID); !ok {
		t.Fatalf("root removed by cascade")
	}
	if _, ok := doc.Node(other.ID); !ok {
		t.Fatalf("sibling removed by cascade")
	}
	// only the root→other relation is untouched by the cascade
	if doc.RelationCount() != 1 {
		t.Fatalf("relation count after cascade: want=1 got=%d", doc.RelationCount())
	}
	for _, r := range doc.Relations() {
		if r.SourceID == c1.ID || r.TargetID == c1.ID || r.SourceID == g1.ID || r.TargetID == g1.ID {
			t.Fatalf("orphaned relation %q survived cascade", r.ID)
		}
	}
}

func TestDeleteRootRefused(t *testing.T) {
	doc := NewBlank("map_1")
	root := rootOf(t, doc)
	mustCreate(t, doc, &root.ID, "child")

	if err := doc.DeleteSubtree(root.ID); !errors.Is(err, ErrDeleteRoot) {
		t.Fatalf("DeleteSubtree(root): want=%v got=%v", ErrDeleteRoot, err)
	}
	if doc.NodeCount() != 2 {
		t.Fatalf("node count after refused delete: want=2 got=%d", doc.NodeCount())
	}
}

func TestAddRelationIdempotent(t *testing.T) {
	doc := NewBlank("map_1")
	root := rootOf(t, doc)
	a := mustCreate(t, doc, &root.ID, "A")

	r1, err := doc.AddRelation(root.ID, a.ID)
	if err != nil {
		t.Fatalf("AddRelation: %v", err)
	}
	depth := doc.UndoDepth()
	r2, err := doc.AddRelation(root.ID, a.ID)
	if err != nil {
		t.Fatalf("AddRelation (repeat): %v", err)
	}
	if r1.ID != r2.ID {
		t.Fatalf("duplicate relation created: %q vs %q", r1.ID, r2.ID)
	}
	if doc.RelationCount() != 1 {
		t.Fatalf("relation count: want=1 got=%d", doc.RelationCount())
	}
	if doc.UndoDepth() != depth {
		t.Fatalf("idempotent repeat pushed history: depth %d → %d", depth, doc.UndoDepth())
	}
	// reverse direction is a distinct edge
	if _, err := doc.AddRelation(a.ID, root.ID); err != nil {
		t.Fatalf("AddRelation reverse: %v", err)
	}
	if doc.RelationCount() != 2 {
		t.Fatalf("relation count with reverse edge: want=2 got=%d", doc.RelationCount())
	}
}

func TestVisibleNodesCollapseAndFocus(t *testing.T) {
	doc := NewBlank("map_1")
	root := rootOf(t, doc)
	a := mustCreate(t, doc, &root.ID, "A")
	b := mustCreate(t, doc, &a.ID, "B")
	c := mustCreate(t, doc, &b.ID, "C")
	side := mustCreate(t, doc, &root.ID, "Side")

	visible := doc.VisibleNodes(nil)
	if len(visible) != 5 {
		t.Fatalf("visible with nothing collapsed: want=5 got=%d", len(visible))
	}

	if err := doc.UpdateNode(a.ID, func(n *Node) { n.IsCollapsed = true }); err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}
	visible = doc.VisibleNodes(nil)
	ids := map[string]bool{}
	for _, n := range visible {
		ids[n.ID] = true
	}
	if ids[b.ID] || ids[c.ID] {
		t.Fatalf("descendants of collapsed node still visible")
	}
	if !ids[a.ID] {
		t.Fatalf("collapsed node itself must stay visible")
	}

	visible = doc.VisibleNodes(&a.ID)
	for _, n := range visible {
		if n.ID == side.ID || n.ID == root.ID {
			t.Fatalf("focus root leaked node %q outside subtree", n.ID)
		}
	}
}

func TestBasicEditUndoRedoScenario(t *testing.T) {
	doc := NewBlank("map_1")
	root := rootOf(t, doc)
	if root.Title != "Central Topic" {
		t.Fatalf("blank root title: want=%q got=%q", "Central Topic", root.Title)
	}

	branch, err := doc.CreateNode(&root.ID, NodeAttrs{Title: "Branch A", X: 120, Y: -40})
	if err != nil {
		t.Fatalf("CreateNode: %v", err)
	}
	if doc.NodeCount() != 2 {
		t.Fatalf("node count after create: want=2 got=%d", doc.NodeCount())
	}

	if !doc.Undo() {
		t.Fatalf("Undo returned false with non-empty stack")
	}
	if doc.NodeCount() != 1 {
		t.Fatalf("node count after undo: want=1 got=%d", doc.NodeCount())
	}

	if !doc.Redo() {
		t.Fatalf("Redo returned false with non-empty redo stack")
	}
	if doc.NodeCount() != 2 {
		t.Fatalf("node count after redo: want=2 got=%d", doc.NodeCount())
	}
	restored, ok := doc.Node(branch.ID)
	if !ok {
		t.Fatalf("Branch A missing after redo")
	}
	if restored.Title != "Branch A" || restored.X != 120 || restored.Y != -40 {
		t.Fatalf("Branch A attrs after redo: got title=%q x=%v y=%v", restored.Title, restored.X, restored.Y)
	}
}
