package realtime

import "encoding/json"

// Wire events. Client-to-server names carry the editing intent, the
// server answers with the matching *-update / *-remote-change fanout.
const (
	EventJoinMap         = "join-map"
	EventCursorMove      = "cursor-move"
	EventSelectionChange = "selection-change"
	EventNodeChange      = "node-change"

	EventPresenceUpdate   = "presence-update"
	EventCursorUpdate     = "cursor-update"
	EventSelectionUpdate  = "selection-update"
	EventNodeRemoteChange = "node-remote-change"
)

// Message is the websocket frame, both directions.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func NewMessage(event string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Event: event, Data: data}, nil
}

// Cursor is a pointer position in canvas coordinates.
type Cursor struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// UserInfo is the identity a client presents to the room.
type UserInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

type JoinPayload struct {
	MapID string   `json:"mapId"`
	User  UserInfo `json:"user"`
}

type CursorMovePayload struct {
	MapID  string `json:"mapId"`
	Cursor Cursor `json:"cursor"`
}

type SelectionChangePayload struct {
	MapID           string   `json:"mapId"`
	SelectedNodeIDs []string `json:"selectedNodeIds"`
}

// NodeChangePayload carries the node body as raw JSON: the hub relays
// it verbatim and leaves interpretation to the receiving clients.
type NodeChangePayload struct {
	MapID      string          `json:"mapId"`
	ChangeType string          `json:"changeType"`
	Node       json.RawMessage `json:"node"`
}

// PresenceRecord is one room member in a presence-update snapshot.
type PresenceRecord struct {
	SocketID        string   `json:"socketId"`
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Avatar          string   `json:"avatar,omitempty"`
	Cursor          *Cursor  `json:"cursor"`
	SelectedNodeIDs []string `json:"selectedNodeIds"`
}

type CursorUpdatePayload struct {
	SocketID string `json:"socketId"`
	Cursor   Cursor `json:"cursor"`
}

type SelectionUpdatePayload struct {
	SocketID        string   `json:"socketId"`
	SelectedNodeIDs []string `json:"selectedNodeIds"`
}

type NodeRemoteChangePayload struct {
	ChangeType string          `json:"changeType"`
	Node       json.RawMessage `json:"node"`
}

// RoomEvent is the cross-instance form of a room delta, published on
// the bus so rooms spread over several processes still converge.
// Presence snapshots stay instance-local.
type RoomEvent struct {
	MapID           string          `json:"map_id"`
	Event           string          `json:"event"`
	Data            json.RawMessage `json:"data"`
	ExcludeSocketID string          `json:"exclude_socket_id,omitempty"`
}
