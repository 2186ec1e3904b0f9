package transport

import (
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// MQTT adapts a paho client to the Adapter contract. QoS 0 everywhere;
// the layer above already tolerates loss.
type MQTT struct {
	client mqtt.Client
	events chan Event
	log    *zap.Logger

	mu     sync.Mutex
	closed bool
}

// DialMQTT starts an asynchronous connect to one broker endpoint
// (tcp://host:port). The outcome arrives on Events; auto-reconnect is
// off because failover across endpoints belongs to the session layer.
func DialMQTT(endpoint, clientID string, log *zap.Logger) *MQTT {
	a := &MQTT{
		events: make(chan Event, 8),
		log:    log,
	}

	opts := mqtt.NewClientOptions().
		AddBroker(endpoint).
		SetClientID(clientID).
		SetConnectTimeout(10 * time.Second).
		SetAutoReconnect(false).
		SetOnConnectHandler(func(mqtt.Client) {
			a.emit(Event{Kind: EventConnected})
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			a.emit(Event{Kind: EventError, Err: err})
		})

	a.client = mqtt.NewClient(opts)
	token := a.client.Connect()
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			a.emit(Event{Kind: EventError, Err: err})
		}
	}()
	return a
}

func (a *MQTT) Publish(topic string, payload []byte) {
	// Fire and forget: the token is intentionally not awaited.
	a.client.Publish(topic, 0, false, payload)
}

func (a *MQTT) Subscribe(topic string, fn Handler) error {
	token := a.client.Subscribe(topic, 0, func(_ mqtt.Client, m mqtt.Message) {
		fn(m.Payload())
	})
	token.Wait()
	return token.Error()
}

func (a *MQTT) Events() <-chan Event { return a.events }

func (a *MQTT) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.events)
	a.mu.Unlock()
	a.client.Disconnect(250)
}

// emit holds the lock across the send so a paho callback racing Close
// can never write to a closed channel.
func (a *MQTT) emit(ev Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	select {
	case a.events <- ev:
	default:
		a.log.Warn("transport event dropped", zap.String("kind", string(ev.Kind)))
	}
}
