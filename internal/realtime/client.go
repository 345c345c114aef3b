package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mindcanvas/mindcanvas-backend/internal/platform/logger"
	"github.com/mindcanvas/mindcanvas-backend/internal/platform/shortid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 256 << 10

	outboundBuffer = 32
)

// Client is one websocket connection. The hub owns mapID, cursor and
// selection (guarded by hub.mu); the pumps own the connection.
type Client struct {
	SocketID string
	User     UserInfo
	Outbound chan Message

	hub  *Hub
	conn *websocket.Conn
	log  *logger.Logger

	mapID     string
	cursor    *Cursor
	selection []string

	closeOnce sync.Once
	done      chan struct{}
}

func (h *Hub) NewClient(conn *websocket.Conn, user UserInfo) *Client {
	id := shortid.New()
	return &Client{
		SocketID: id,
		User:     user,
		Outbound: make(chan Message, outboundBuffer),
		hub:      h,
		conn:     conn,
		log:      h.log.With("socket_id", id),
		done:     make(chan struct{}),
	}
}

// Close tears the connection down once; safe from any goroutine.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// ReadPump decodes frames off the socket and dispatches them to the
// hub. Runs on the connection's goroutine; exit always leaves the room.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Leave(c)
		c.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				c.log.Warn("websocket read", "error", err)
			}
			return
		}
		c.dispatch(msg)
	}
}

func (c *Client) dispatch(msg Message) {
	switch msg.Event {
	case EventJoinMap:
		var p JoinPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil || p.MapID == "" {
			c.log.Warn("bad join-map payload", "error", err)
			return
		}
		c.hub.Join(c, p.MapID, &p.User)
	case EventCursorMove:
		var p CursorMovePayload
		if err := json.Unmarshal(msg.Data, &p); err != nil || p.MapID == "" {
			c.log.Warn("bad cursor-move payload", "error", err)
			return
		}
		c.hub.UpdateCursor(c, p.MapID, p.Cursor)
	case EventSelectionChange:
		var p SelectionChangePayload
		if err := json.Unmarshal(msg.Data, &p); err != nil || p.MapID == "" {
			c.log.Warn("bad selection-change payload", "error", err)
			return
		}
		c.hub.UpdateSelection(c, p.MapID, p.SelectedNodeIDs)
	case EventNodeChange:
		var p NodeChangePayload
		if err := json.Unmarshal(msg.Data, &p); err != nil || p.MapID == "" || p.ChangeType == "" {
			c.log.Warn("bad node-change payload", "error", err)
			return
		}
		c.hub.RelayNodeChange(c, p.MapID, p.ChangeType, p.Node)
	default:
		c.log.Warn("unknown client event", "event", msg.Event)
	}
}

// WritePump drains the outbound buffer onto the socket and keeps the
// connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()
	for {
		select {
		case msg := <-c.Outbound:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
