package transport

import "sync"

// Bus is an in-process broker shared by Memory adapters. Tests wire a
// host and a client session through one Bus; the single-player AI mode
// uses it as a loopback so no network is involved.
type Bus struct {
	mu   sync.Mutex
	subs map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string][]Handler)}
}

// Memory is an Adapter over a Bus. DropNext simulates transport loss.
type Memory struct {
	bus    *Bus
	events chan Event

	mu     sync.Mutex
	drop   int
	closed bool
}

// Open binds a new adapter and immediately emits a connected event,
// matching the instant-room semantics of a healthy broker.
func (b *Bus) Open() *Memory {
	m := &Memory{bus: b, events: make(chan Event, 8)}
	m.events <- Event{Kind: EventConnected}
	return m
}

func (m *Memory) Publish(topic string, payload []byte) {
	m.mu.Lock()
	if m.closed || m.drop > 0 {
		if m.drop > 0 {
			m.drop--
		}
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	m.bus.mu.Lock()
	handlers := append([]Handler(nil), m.bus.subs[topic]...)
	m.bus.mu.Unlock()

	for _, fn := range handlers {
		fn(payload)
	}
}

func (m *Memory) Subscribe(topic string, fn Handler) error {
	// Wrapped so a closed adapter's subscriptions go quiet instead of
	// firing into a reset session.
	wrapped := func(payload []byte) {
		m.mu.Lock()
		closed := m.closed
		m.mu.Unlock()
		if !closed {
			fn(payload)
		}
	}
	m.bus.mu.Lock()
	defer m.bus.mu.Unlock()
	m.bus.subs[topic] = append(m.bus.subs[topic], wrapped)
	return nil
}

func (m *Memory) Events() <-chan Event { return m.events }

func (m *Memory) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	close(m.events)
}

// DropNext silently discards the next n outgoing publishes, letting
// tests exercise heartbeat self-healing.
func (m *Memory) DropNext(n int) {
	m.mu.Lock()
	m.drop = n
	m.mu.Unlock()
}
