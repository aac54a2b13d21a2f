package services

import (
	"context"

	"github.com/davidcw/studyhall-backend/internal/logger"
	"github.com/davidcw/studyhall-backend/internal/realtime/bus"
	"github.com/davidcw/studyhall-backend/internal/sse"
)

// FeedNotifier pushes room feed events to connected clients. With a bus
// configured, events go through it and come back via the forwarder so every
// instance (including this one) delivers them; without a bus they go
// straight to the local hub.
type FeedNotifier struct {
	hub *sse.Hub
	bus bus.Bus
	log *logger.Logger
}

func NewFeedNotifier(hub *sse.Hub, b bus.Bus, log *logger.Logger) *FeedNotifier {
	return &FeedNotifier{hub: hub, bus: b, log: log.With("service", "FeedNotifier")}
}

func (n *FeedNotifier) Notify(ctx context.Context, roomCode string, event sse.Event, data any) {
	if n == nil || n.hub == nil {
		return
	}
	msg := sse.Message{
		Channel: sse.RoomChannel(roomCode),
		Event:   event,
		Data:    data,
	}
	if n.bus != nil {
		if err := n.bus.Publish(ctx, msg); err != nil {
			n.log.Warn("Feed bus publish failed, falling back to local hub", "error", err)
			n.hub.Broadcast(msg)
		}
		return
	}
	n.hub.Broadcast(msg)
}
