package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mindcanvas/mindcanvas-backend/internal/platform/logger"
	"github.com/mindcanvas/mindcanvas-backend/internal/realtime"
	"github.com/mindcanvas/mindcanvas-backend/internal/requestdata"
)

type RealtimeHandler struct {
	log      *logger.Logger
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{
		log: log.With("handler", "RealtimeHandler"),
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// cross-origin policy is enforced by the CORS layer in front
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Connect upgrades the request and runs the connection's pumps. Auth
// middleware has already run; browsers pass the token as a query
// parameter since websocket upgrades cannot carry headers.
func (rh *RealtimeHandler) Connect(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	conn, err := rh.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		rh.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	client := rh.hub.NewClient(conn, realtime.UserInfo{
		ID:   rd.UserID.String(),
		Name: rd.DisplayName,
	})
	rh.log.Info("websocket connected", "socket_id", client.SocketID, "user_id", rd.UserID)

	go client.WritePump()
	client.ReadPump()
}
