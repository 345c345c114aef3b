package canvas

import (
	"encoding/json"
	"testing"
)

func TestApplyRemoteCreateDoesNotPushHistory(t *testing.T) {
	// two peers on the same map: A edits locally, B folds in the broadcast
	docA := NewBlank("map_1")
	docB := NewBlank("map_1")
	rootA := rootOf(t, docA)

	created := mustCreate(t, docA, &rootA.ID, "Shared idea")
	payload, err := json.Marshal(created)
	if err != nil {
		t.Fatalf("marshal node: %v", err)
	}

	depth := docB.UndoDepth()
	if err := docB.ApplyRemoteChange(ChangeCreate, payload); err != nil {
		t.Fatalf("ApplyRemoteChange: %v", err)
	}
	if docB.UndoDepth() != depth {
		t.Fatalf("remote change pushed history: depth %d → %d", depth, docB.UndoDepth())
	}
	got, ok := docB.Node(created.ID)
	if !ok {
		t.Fatalf("remote create not applied")
	}
	if got.Title != "Shared idea" {
		t.Fatalf("title: want=%q got=%q", "Shared idea", got.Title)
	}
	// B's own undo must not roll back A's edit
	if docB.Undo() {
		t.Fatalf("Undo succeeded with nothing locally undoable")
	}
}

func TestApplyRemoteUpdateLastWriterWins(t *testing.T) {
	doc := NewBlank("map_1")
	root := rootOf(t, doc)
	if err := doc.UpdateNode(root.ID, func(n *Node) { n.MasteryLevel = 10 }); err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}

	remote := root.Clone()
	remote.MasteryLevel = 90
	payload, _ := json.Marshal(remote)
	if err := doc.ApplyRemoteChange(ChangeUpdate, payload); err != nil {
		t.Fatalf("ApplyRemoteChange: %v", err)
	}
	got, _ := doc.Node(root.ID)
	if got.MasteryLevel != 90 {
		t.Fatalf("mastery after remote update: want=90 got=%d", got.MasteryLevel)
	}
}

func TestApplyRemoteDeleteCascadesAndIsIdempotent(t *testing.T) {
	doc := NewBlank("map_1")
	root := rootOf(t, doc)
	a := mustCreate(t, doc, &root.ID, "A")
	b := mustCreate(t, doc, &a.ID, "B")
	if _, err := doc.AddRelation(root.ID, b.ID); err != nil {
		t.Fatalf("AddRelation: %v", err)
	}

	payload := []byte(`{"id":"` + a.ID + `"}`)
	if err := doc.ApplyRemoteChange(ChangeDelete, payload); err != nil {
		t.Fatalf("ApplyRemoteChange: %v", err)
	}
	if _, ok := doc.Node(a.ID); ok {
		t.Fatalf("deleted node survived")
	}
	if _, ok := doc.Node(b.ID); ok {
		t.Fatalf("descendant survived remote delete")
	}
	if doc.RelationCount() != 0 {
		t.Fatalf("relation touching deleted subtree survived")
	}

	// redelivery of the same delete is a no-op, not an error
	if err := doc.ApplyRemoteChange(ChangeDelete, payload); err != nil {
		t.Fatalf("replayed delete: %v", err)
	}
}

func TestApplyRemoteChangeRejectsMalformed(t *testing.T) {
	doc := NewBlank("map_1")
	if err := doc.ApplyRemoteChange("rename", []byte(`{}`)); err == nil {
		t.Fatalf("unknown change type accepted")
	}
	if err := doc.ApplyRemoteChange(ChangeCreate, []byte(`{"title":"no id"}`)); err == nil {
		t.Fatalf("create without id accepted")
	}
	if err := doc.ApplyRemoteChange(ChangeUpdate, []byte(`not json`)); err == nil {
		t.Fatalf("malformed payload accepted")
	}
}
