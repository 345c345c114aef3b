package canvas

import (
	"errors"
	"reflect"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	doc := NewBlank("map_1")
	root := rootOf(t, doc)
	a := mustCreate(t, doc, &root.ID, "A")
	b := mustCreate(t, doc, &a.ID, "B")
	if _, err := doc.AddRelation(root.ID, b.ID); err != nil {
		t.Fatalf("AddRelation: %v", err)
	}
	doc.SetSelection([]string{a.ID})
	doc.Viewport().ZoomAt(Point{X: 100, Y: 80}, 0.3)

	data, err := doc.MarshalSnapshot()
	if err != nil {
		t.Fatalf("MarshalSnapshot: %v", err)
	}
	loaded, err := LoadSnapshot(data)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if got, want := loaded.Snapshot(), doc.Snapshot(); !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\nwant=%+v\ngot=%+v", want, got)
	}
	// history is not part of the snapshot
	if loaded.UndoDepth() != 0 {
		t.Fatalf("loaded document carries history: depth=%d", loaded.UndoDepth())
	}
}

func TestLoadSnapshotRejectsCorruptInput(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not json", `{"nodes": [`},
		{"missing node array", `{"map_id":"m"}`},
		{"node without id", `{"map_id":"m","nodes":[{"title":"x"}]}`},
		{"duplicate node id", `{"map_id":"m","nodes":[{"id":"a"},{"id":"a"}]}`},
		{"dangling parent", `{"map_id":"m","nodes":[{"id":"a","parent_id":"ghost"}]}`},
		{"parent cycle", `{"map_id":"m","nodes":[{"id":"a","parent_id":"b"},{"id":"b","parent_id":"a"}]}`},
		{"dangling relation source", `{"map_id":"m","nodes":[{"id":"a"}],"relations":[{"id":"r","source_id":"ghost","target_id":"a"}]}`},
		{"dangling relation target", `{"map_id":"m","nodes":[{"id":"a"}],"relations":[{"id":"r","source_id":"a","target_id":"ghost"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadSnapshot([]byte(tc.data)); !errors.Is(err, ErrCorruptSnapshot) {
				t.Fatalf("want=%v got=%v", ErrCorruptSnapshot, err)
			}
		})
	}
}

func TestLoadSnapshotFiltersUnknownSelection(t *testing.T) {
	data := `{"map_id":"m","nodes":[{"id":"a"}],"selection":["a","ghost"]}`
	doc, err := LoadSnapshot([]byte(data))
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	sel := doc.Selection()
	if len(sel) != 1 || sel[0] != "a" {
		t.Fatalf("selection: want=[a] got=%v", sel)
	}
}

func TestLoadSnapshotNormalizesViewport(t *testing.T) {
	data := `{"map_id":"m","nodes":[{"id":"a"}],"viewport":{"zoom":99,"pan":{"x":3,"y":4}}}`
	doc, err := LoadSnapshot([]byte(data))
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if doc.Viewport().Zoom != MaxZoom {
		t.Fatalf("zoom not clamped: got=%v", doc.Viewport().Zoom)
	}

	// absent viewport decodes as zero zoom and resets to the default
	doc, err = LoadSnapshot([]byte(`{"map_id":"m","nodes":[{"id":"a"}]}`))
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if doc.Viewport().Zoom != 1 {
		t.Fatalf("default zoom: want=1 got=%v", doc.Viewport().Zoom)
	}
}

func TestLoadSnapshotOrBlankRecovers(t *testing.T) {
	doc, fresh := LoadSnapshotOrBlank("map_9", []byte(`{"nodes":[{"id":"a","parent_id":"a"}]}`))
	if !fresh {
		t.Fatalf("corrupt snapshot not flagged fresh")
	}
	if doc.MapID() != "map_9" {
		t.Fatalf("map id: want=map_9 got=%q", doc.MapID())
	}
	if doc.NodeCount() != 1 {
		t.Fatalf("fresh document node count: want=1 got=%d", doc.NodeCount())
	}
	root := rootOf(t, doc)
	if root.Title != "Central Topic" {
		t.Fatalf("fresh root title: want=%q got=%q", "Central Topic", root.Title)
	}
}

func TestFromRecords(t *testing.T) {
	nodes := []*Node{
		{ID: "r", Title: "Root"},
		{ID: "c", ParentID: strPtr("r"), Title: "Child"},
	}
	relations := []*Relation{{ID: "rel", SourceID: "r", TargetID: "c"}}
	doc, err := FromRecords("map_1", nodes, relations)
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	if doc.NodeCount() != 2 || doc.RelationCount() != 1 {
		t.Fatalf("counts: nodes=%d relations=%d", doc.NodeCount(), doc.RelationCount())
	}

	// empty map rows are a valid, empty document
	doc, err = FromRecords("map_2", nil, nil)
	if err != nil {
		t.Fatalf("FromRecords(empty): %v", err)
	}
	if doc.NodeCount() != 0 {
		t.Fatalf("empty map node count: want=0 got=%d", doc.NodeCount())
	}
}

func strPtr(s string) *string { return &s }
