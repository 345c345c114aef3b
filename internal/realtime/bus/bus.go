package bus

import (
	"context"

	"github.com/mindcanvas/mindcanvas-backend/internal/realtime"
)

// Bus relays room deltas between instances so a room split across
// processes still converges. Presence snapshots stay instance-local.
type Bus interface {
	Publish(ctx context.Context, ev realtime.RoomEvent) error
	StartForwarder(ctx context.Context, onEvent func(ev realtime.RoomEvent)) error
	Close() error
}
