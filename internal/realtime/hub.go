package realtime

import (
	"encoding/json"
	"sync"

	"github.com/mindcanvas/mindcanvas-backend/internal/platform/logger"
)

// Hub tracks which clients have which map open and fans room events out
// to the other members. One room per map id; rooms are created on first
// join and deleted when the last member leaves.
type Hub struct {
	log *logger.Logger

	mu    sync.RWMutex
	rooms map[string]map[string]*Client

	// publish, when set, forwards deltas to peer instances over the bus.
	publish func(RoomEvent)
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:   log.With("service", "RealtimeHub"),
		rooms: map[string]map[string]*Client{},
	}
}

// SetPublisher wires the cross-instance bus. Must be called before any
// client connects.
func (h *Hub) SetPublisher(fn func(RoomEvent)) { h.publish = fn }

// Join places the client in the map's room and broadcasts the full
// presence snapshot to every member, the joiner included. A client can
// be in at most one room: joining while elsewhere leaves the old room
// first, announcing the departure there.
func (h *Hub) Join(c *Client, mapID string, user *UserInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if user != nil {
		if user.Name != "" {
			c.User.Name = user.Name
		}
		if user.Avatar != "" {
			c.User.Avatar = user.Avatar
		}
	}
	if c.mapID == mapID {
		h.broadcastPresenceLocked(mapID)
		return
	}
	if c.mapID != "" {
		h.removeLocked(c, true)
	}

	room := h.rooms[mapID]
	if room == nil {
		room = map[string]*Client{}
		h.rooms[mapID] = room
	}
	room[c.SocketID] = c
	c.mapID = mapID
	// fresh members start at the origin so every presence record
	// carries a cursor
	c.cursor = &Cursor{}
	c.selection = nil

	h.log.Info("client joined room", "socket_id", c.SocketID, "map_id", mapID, "members", len(room))
	h.broadcastPresenceLocked(mapID)
}

// Leave removes the client from its room (if any) and announces the new
// presence snapshot to whoever remains.
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c, true)
}

// UpdateCursor records the client's cursor and sends the delta to the
// other room members. Events for a room the client is not in are stale
// (raced with a leave) and silently dropped.
func (h *Hub) UpdateCursor(c *Client, mapID string, cursor Cursor) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.memberLocked(c, mapID)
	if !ok {
		return
	}
	cur := cursor
	c.cursor = &cur

	msg, err := NewMessage(EventCursorUpdate, CursorUpdatePayload{SocketID: c.SocketID, Cursor: cursor})
	if err != nil {
		h.log.Error("encode cursor-update", "error", err)
		return
	}
	h.sendToOthersLocked(room, c.SocketID, msg)
	h.forward(RoomEvent{MapID: mapID, Event: msg.Event, Data: msg.Data, ExcludeSocketID: c.SocketID})
}

// UpdateSelection records the client's selected node ids and sends the
// delta to the other room members.
func (h *Hub) UpdateSelection(c *Client, mapID string, selectedNodeIDs []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.memberLocked(c, mapID)
	if !ok {
		return
	}
	c.selection = append([]string(nil), selectedNodeIDs...)

	msg, err := NewMessage(EventSelectionUpdate, SelectionUpdatePayload{
		SocketID:        c.SocketID,
		SelectedNodeIDs: c.selection,
	})
	if err != nil {
		h.log.Error("encode selection-update", "error", err)
		return
	}
	h.sendToOthersLocked(room, c.SocketID, msg)
	h.forward(RoomEvent{MapID: mapID, Event: msg.Event, Data: msg.Data, ExcludeSocketID: c.SocketID})
}

// RelayNodeChange fans a node mutation out to the other room members.
// The node body passes through verbatim; the sender never gets an echo.
func (h *Hub) RelayNodeChange(c *Client, mapID, changeType string, node json.RawMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.memberLocked(c, mapID)
	if !ok {
		return
	}
	msg, err := NewMessage(EventNodeRemoteChange, NodeRemoteChangePayload{ChangeType: changeType, Node: node})
	if err != nil {
		h.log.Error("encode node-remote-change", "error", err)
		return
	}
	h.sendToOthersLocked(room, c.SocketID, msg)
	h.forward(RoomEvent{MapID: mapID, Event: msg.Event, Data: msg.Data, ExcludeSocketID: c.SocketID})
}

// ApplyRemote delivers a bus event from a peer instance to the local
// members of the room. The excluded socket never lives on this instance
// but the check keeps delivery correct either way.
func (h *Hub) ApplyRemote(ev RoomEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room, ok := h.rooms[ev.MapID]
	if !ok {
		return
	}
	msg := Message{Event: ev.Event, Data: ev.Data}
	for id, member := range room {
		if id == ev.ExcludeSocketID {
			continue
		}
		h.send(member, msg)
	}
}

// RoomPresence returns the current presence snapshot for a map.
func (h *Hub) RoomPresence(mapID string) []PresenceRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.presenceLocked(mapID)
}

func (h *Hub) RoomSize(mapID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[mapID])
}

func (h *Hub) memberLocked(c *Client, mapID string) (map[string]*Client, bool) {
	room, ok := h.rooms[mapID]
	if !ok || room[c.SocketID] != c {
		return nil, false
	}
	return room, true
}

func (h *Hub) removeLocked(c *Client, announce bool) {
	mapID := c.mapID
	if mapID == "" {
		return
	}
	c.mapID = ""
	room, ok := h.rooms[mapID]
	if !ok {
		return
	}
	delete(room, c.SocketID)
	if len(room) == 0 {
		delete(h.rooms, mapID)
		return
	}
	if announce {
		h.broadcastPresenceLocked(mapID)
	}
}

func (h *Hub) presenceLocked(mapID string) []PresenceRecord {
	room := h.rooms[mapID]
	records := make([]PresenceRecord, 0, len(room))
	for _, m := range room {
		rec := PresenceRecord{
			SocketID:        m.SocketID,
			ID:              m.User.ID,
			Name:            m.User.Name,
			Avatar:          m.User.Avatar,
			SelectedNodeIDs: append([]string(nil), m.selection...),
		}
		rec.Cursor = &Cursor{}
		if m.cursor != nil {
			cur := *m.cursor
			rec.Cursor = &cur
		}
		records = append(records, rec)
	}
	return records
}

func (h *Hub) broadcastPresenceLocked(mapID string) {
	room := h.rooms[mapID]
	if len(room) == 0 {
		return
	}
	msg, err := NewMessage(EventPresenceUpdate, h.presenceLocked(mapID))
	if err != nil {
		h.log.Error("encode presence-update", "error", err)
		return
	}
	for _, m := range room {
		h.send(m, msg)
	}
}

func (h *Hub) sendToOthersLocked(room map[string]*Client, senderID string, msg Message) {
	for id, member := range room {
		if id == senderID {
			continue
		}
		h.send(member, msg)
	}
}

// send never blocks: a client that cannot drain its outbound buffer
// loses events rather than stalling the room.
func (h *Hub) send(c *Client, msg Message) {
	select {
	case c.Outbound <- msg:
	default:
		h.log.Warn("dropping event for slow client", "socket_id", c.SocketID, "event", msg.Event)
	}
}

func (h *Hub) forward(ev RoomEvent) {
	if h.publish == nil {
		return
	}
	go h.publish(ev)
}
