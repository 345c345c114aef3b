package bus

import (
	"encoding/json"
	"testing"

	"github.com/mindcanvas/mindcanvas-backend/internal/realtime"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	data, err := json.Marshal(map[string]any{"socketId": "abc123def", "cursor": map[string]float64{"x": 4, "y": 2}})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	sent := realtime.RoomEvent{
		MapID:           "map_1",
		Event:           realtime.EventCursorUpdate,
		Data:            data,
		ExcludeSocketID: "abc123def",
	}

	raw, err := encodeEnvelope("instance-a", sent)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, apply, err := decodeEnvelope("instance-b", raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !apply {
		t.Fatalf("event from another instance must be applied")
	}
	if got.MapID != sent.MapID || got.Event != sent.Event || got.ExcludeSocketID != sent.ExcludeSocketID {
		t.Fatalf("round trip: want=%+v got=%+v", sent, got)
	}
	if string(got.Data) != string(sent.Data) {
		t.Fatalf("data: want=%s got=%s", sent.Data, got.Data)
	}
}

func TestDecodeSkipsOwnOrigin(t *testing.T) {
	raw, err := encodeEnvelope("instance-a", realtime.RoomEvent{MapID: "map_1", Event: realtime.EventSelectionUpdate})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	_, apply, err := decodeEnvelope("instance-a", raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if apply {
		t.Fatalf("instance must not re-apply its own published events")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, apply, err := decodeEnvelope("instance-a", []byte("{not json")); err == nil || apply {
		t.Fatalf("garbage payload: want error and no apply, got apply=%v err=%v", apply, err)
	}
}
