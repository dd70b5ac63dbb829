// internal/bus/bus.go
package bus

import "context"

// Handler receives one message payload from a subscription.
type Handler func(ctx context.Context, payload []byte)

// Publisher sends payloads to a topic.
// Close stops background keep-alive and disconnects.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Close()
}

// Subscriber delivers payloads from a topic to a handler.
// Subscriptions survive reconnects.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, h Handler) error
	Close()
}
