// Package transport wraps one publish/subscribe channel behind a uniform
// send/receive surface. Delivery is best-effort: no ordering, no
// de-duplication, no confirmation. Adapters never interpret payloads.
package transport

type EventKind string

const (
	EventConnected EventKind = "connected"
	EventError     EventKind = "error"
)

// Event reports connection-state changes so the session layer can drive
// broker failover.
type Event struct {
	Kind EventKind
	Err  error
}

type Handler func(payload []byte)

type Adapter interface {
	// Publish is fire-and-forget; a dropped message is indistinguishable
	// from a delivered one.
	Publish(topic string, payload []byte)
	// Subscribe registers a handler invoked once per received message.
	Subscribe(topic string, fn Handler) error
	// Events emits connected/error signals. The channel is buffered;
	// adapters drop events rather than block.
	Events() <-chan Event
	// Close releases the connection and closes the Events channel, so
	// readers ranging over it terminate.
	Close()
}
