package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/mindcanvas/mindcanvas-backend/internal/platform/logger"
	"github.com/mindcanvas/mindcanvas-backend/internal/realtime"
)

// envelope tags each published event with the sending instance so the
// forwarder can skip the instance's own messages.
type envelope struct {
	Origin string             `json:"origin"`
	Event  realtime.RoomEvent `json:"event"`
}

func encodeEnvelope(instance string, ev realtime.RoomEvent) ([]byte, error) {
	return json.Marshal(envelope{Origin: instance, Event: ev})
}

// decodeEnvelope parses a published payload and reports whether the
// event should be applied on this instance. Events the instance itself
// published come back through the subscription and must not be
// re-applied, or every local delta would reach its room twice.
func decodeEnvelope(instance string, payload []byte) (realtime.RoomEvent, bool, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return realtime.RoomEvent{}, false, err
	}
	if env.Origin == instance {
		return realtime.RoomEvent{}, false, nil
	}
	return env.Event, true, nil
}

type redisBus struct {
	log      *logger.Logger
	rdb      *goredis.Client
	channel  string
	instance string
}

func NewRedisBus(log *logger.Logger) (Bus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(os.Getenv("REDIS_CHANNEL"))
	if ch == "" {
		ch = "rooms"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisBus{
		log:      log.With("service", "RedisRoomBus"),
		rdb:      rdb,
		channel:  ch,
		instance: uuid.NewString(),
	}, nil
}

func (b *redisBus) Publish(ctx context.Context, ev realtime.RoomEvent) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis room bus not initialized")
	}
	raw, err := encodeEnvelope(b.instance, ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *redisBus) StartForwarder(ctx context.Context, onEvent func(ev realtime.RoomEvent)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis room bus not initialized")
	}
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				ev, apply, err := decodeEnvelope(b.instance, []byte(m.Payload))
				if err != nil {
					b.log.Warn("bad redis room payload", "error", err)
					continue
				}
				if !apply {
					continue
				}
				onEvent(ev)
			}
		}
	}()

	return nil
}

func (b *redisBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
