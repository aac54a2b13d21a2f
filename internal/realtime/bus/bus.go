package bus

import (
	"context"

	"github.com/davidcw/studyhall-backend/internal/sse"
)

// Bus fans room feed events out across server instances. Publish sends a
// message to every instance; StartForwarder delivers inbound messages to
// the local hub.
type Bus interface {
	Publish(ctx context.Context, msg sse.Message) error
	StartForwarder(ctx context.Context, onMsg func(m sse.Message)) error
	Close() error
}
