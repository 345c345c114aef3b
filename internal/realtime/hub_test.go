package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mindcanvas/mindcanvas-backend/internal/platform/logger"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func recvMessage(t *testing.T, ch <-chan Message, timeout time.Duration) Message {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for room message")
	}
	return Message{}
}

func expectSilence(t *testing.T, ch <-chan Message) {
	t.Helper()
	select {
	case msg := <-ch:
		t.Fatalf("unexpected message: %s", msg.Event)
	default:
	}
}

func decodeData(t *testing.T, msg Message, out any) {
	t.Helper()
	if err := json.Unmarshal(msg.Data, out); err != nil {
		t.Fatalf("decode %s payload: %v", msg.Event, err)
	}
}

func drain(ch <-chan Message) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

func TestJoinBroadcastsPresenceToWholeRoom(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	alice := hub.NewClient(nil, UserInfo{ID: "u1", Name: "Alice"})
	bob := hub.NewClient(nil, UserInfo{ID: "u2", Name: "Bob"})

	hub.Join(alice, "map_1", nil)
	first := recvMessage(t, alice.Outbound, time.Second)
	if first.Event != EventPresenceUpdate {
		t.Fatalf("joiner event: want=%s got=%s", EventPresenceUpdate, first.Event)
	}
	var solo []PresenceRecord
	decodeData(t, first, &solo)
	if len(solo) != 1 || solo[0].SocketID != alice.SocketID || solo[0].Name != "Alice" {
		t.Fatalf("solo presence snapshot: %+v", solo)
	}

	hub.Join(bob, "map_1", nil)
	for _, ch := range []<-chan Message{alice.Outbound, bob.Outbound} {
		msg := recvMessage(t, ch, time.Second)
		var records []PresenceRecord
		decodeData(t, msg, &records)
		if len(records) != 2 {
			t.Fatalf("presence snapshot after second join: want=2 members got=%d", len(records))
		}
	}
}

func TestCursorDeltaSkipsSender(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	alice := hub.NewClient(nil, UserInfo{ID: "u1", Name: "Alice"})
	bob := hub.NewClient(nil, UserInfo{ID: "u2", Name: "Bob"})
	hub.Join(alice, "map_1", nil)
	hub.Join(bob, "map_1", nil)
	drain(alice.Outbound)
	drain(bob.Outbound)

	hub.UpdateCursor(alice, "map_1", Cursor{X: 42, Y: -7})

	got := recvMessage(t, bob.Outbound, time.Second)
	if got.Event != EventCursorUpdate {
		t.Fatalf("event: want=%s got=%s", EventCursorUpdate, got.Event)
	}
	var payload CursorUpdatePayload
	decodeData(t, got, &payload)
	if payload.SocketID != alice.SocketID || payload.Cursor.X != 42 || payload.Cursor.Y != -7 {
		t.Fatalf("cursor-update payload: %+v", payload)
	}
	expectSilence(t, alice.Outbound)
}

func TestPresenceSnapshotCarriesCursorAndSelection(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	alice := hub.NewClient(nil, UserInfo{ID: "u1", Name: "Alice"})
	bob := hub.NewClient(nil, UserInfo{ID: "u2", Name: "Bob"})
	hub.Join(alice, "map_1", nil)
	hub.UpdateCursor(alice, "map_1", Cursor{X: 1, Y: 2})
	hub.UpdateSelection(alice, "map_1", []string{"node_a", "node_b"})
	drain(alice.Outbound)

	hub.Join(bob, "map_1", nil)
	msg := recvMessage(t, bob.Outbound, time.Second)
	var records []PresenceRecord
	decodeData(t, msg, &records)

	var found bool
	for _, rec := range records {
		if rec.SocketID != alice.SocketID {
			continue
		}
		found = true
		if rec.Cursor == nil || rec.Cursor.X != 1 || rec.Cursor.Y != 2 {
			t.Fatalf("snapshot cursor: %+v", rec.Cursor)
		}
		if len(rec.SelectedNodeIDs) != 2 || rec.SelectedNodeIDs[0] != "node_a" {
			t.Fatalf("snapshot selection: %v", rec.SelectedNodeIDs)
		}
	}
	if !found {
		t.Fatalf("alice missing from presence snapshot")
	}
}

func TestNodeChangeRelayedVerbatim(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	alice := hub.NewClient(nil, UserInfo{ID: "u1", Name: "Alice"})
	bob := hub.NewClient(nil, UserInfo{ID: "u2", Name: "Bob"})
	hub.Join(alice, "map_1", nil)
	hub.Join(bob, "map_1", nil)
	drain(alice.Outbound)
	drain(bob.Outbound)

	node := json.RawMessage(`{"id":"node_9","title":"Dendrites","x":10.5,"y":-3}`)
	hub.RelayNodeChange(alice, "map_1", "update", node)

	got := recvMessage(t, bob.Outbound, time.Second)
	if got.Event != EventNodeRemoteChange {
		t.Fatalf("event: want=%s got=%s", EventNodeRemoteChange, got.Event)
	}
	var payload NodeRemoteChangePayload
	decodeData(t, got, &payload)
	if payload.ChangeType != "update" {
		t.Fatalf("change type: want=update got=%s", payload.ChangeType)
	}
	if string(payload.Node) != string(node) {
		t.Fatalf("node body not relayed verbatim:\nwant=%s\ngot=%s", node, payload.Node)
	}
	expectSilence(t, alice.Outbound)
}

func TestEventForRoomNotJoinedIsIgnored(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	alice := hub.NewClient(nil, UserInfo{ID: "u1", Name: "Alice"})
	bob := hub.NewClient(nil, UserInfo{ID: "u2", Name: "Bob"})
	hub.Join(alice, "map_1", nil)
	hub.Join(bob, "map_1", nil)
	hub.Leave(alice)
	drain(bob.Outbound)

	// raced with the leave on the read pump: dropped, not delivered
	hub.UpdateCursor(alice, "map_1", Cursor{X: 9, Y: 9})
	expectSilence(t, bob.Outbound)
}

func TestRejoinMovesClientBetweenRooms(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	alice := hub.NewClient(nil, UserInfo{ID: "u1", Name: "Alice"})
	bob := hub.NewClient(nil, UserInfo{ID: "u2", Name: "Bob"})
	hub.Join(alice, "map_1", nil)
	hub.Join(bob, "map_1", nil)
	drain(alice.Outbound)
	drain(bob.Outbound)

	hub.Join(alice, "map_2", nil)

	if hub.RoomSize("map_1") != 1 || hub.RoomSize("map_2") != 1 {
		t.Fatalf("room sizes after rejoin: map_1=%d map_2=%d", hub.RoomSize("map_1"), hub.RoomSize("map_2"))
	}
	// bob hears the departure
	msg := recvMessage(t, bob.Outbound, time.Second)
	var records []PresenceRecord
	decodeData(t, msg, &records)
	if len(records) != 1 || records[0].SocketID != bob.SocketID {
		t.Fatalf("map_1 presence after departure: %+v", records)
	}
}

func TestLastLeaveDeletesRoom(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	alice := hub.NewClient(nil, UserInfo{ID: "u1", Name: "Alice"})
	hub.Join(alice, "map_1", nil)
	hub.Leave(alice)
	if hub.RoomSize("map_1") != 0 {
		t.Fatalf("room survived last leave: size=%d", hub.RoomSize("map_1"))
	}
	if got := hub.RoomPresence("map_1"); len(got) != 0 {
		t.Fatalf("presence for deleted room: %+v", got)
	}
	// double leave is a no-op
	hub.Leave(alice)
}

func TestSlowClientLosesEventsWithoutBlockingRoom(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	alice := hub.NewClient(nil, UserInfo{ID: "u1", Name: "Alice"})
	bob := hub.NewClient(nil, UserInfo{ID: "u2", Name: "Bob"})
	hub.Join(alice, "map_1", nil)
	hub.Join(bob, "map_1", nil)
	drain(alice.Outbound)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// far more events than bob's buffer holds; must never block
		for i := 0; i < outboundBuffer*3; i++ {
			hub.UpdateCursor(alice, "map_1", Cursor{X: float64(i)})
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("broadcast blocked on a slow client")
	}
}

func TestApplyRemoteDeliversBusEvents(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	alice := hub.NewClient(nil, UserInfo{ID: "u1", Name: "Alice"})
	hub.Join(alice, "map_1", nil)
	drain(alice.Outbound)

	data, err := json.Marshal(NodeRemoteChangePayload{ChangeType: "delete", Node: json.RawMessage(`{"id":"node_3"}`)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	hub.ApplyRemote(RoomEvent{MapID: "map_1", Event: EventNodeRemoteChange, Data: data, ExcludeSocketID: "peer-instance-socket"})

	got := recvMessage(t, alice.Outbound, time.Second)
	if got.Event != EventNodeRemoteChange {
		t.Fatalf("event: want=%s got=%s", EventNodeRemoteChange, got.Event)
	}
	// events for rooms with no local members are dropped quietly
	hub.ApplyRemote(RoomEvent{MapID: "map_9", Event: EventNodeRemoteChange, Data: data})
}

func TestFreshJoinerHasOriginCursor(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	alice := hub.NewClient(nil, UserInfo{ID: "u1", Name: "Alice"})

	hub.Join(alice, "map_1", nil)
	msg := recvMessage(t, alice.Outbound, time.Second)

	var records []PresenceRecord
	decodeData(t, msg, &records)
	if len(records) != 1 {
		t.Fatalf("presence snapshot: want=1 member got=%d", len(records))
	}
	if records[0].Cursor == nil || records[0].Cursor.X != 0 || records[0].Cursor.Y != 0 {
		t.Fatalf("fresh joiner cursor: want origin got=%+v", records[0].Cursor)
	}

	// the wire record must carry the cursor key before any cursor-move
	var raw []map[string]json.RawMessage
	decodeData(t, msg, &raw)
	if _, ok := raw[0]["cursor"]; !ok {
		t.Fatalf("presence record missing cursor field: %s", msg.Data)
	}
}
