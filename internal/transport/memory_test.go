package transport

import (
	"testing"
	"time"
)

func TestMemoryPublishReachesSubscribers(t *testing.T) {
	bus := NewBus()
	a := bus.Open()
	b := bus.Open()

	got := make(chan []byte, 1)
	if err := b.Subscribe("room/host", func(p []byte) { got <- p }); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	a.Publish("room/host", []byte("hello"))

	select {
	case p := <-got:
		if string(p) != "hello" {
			t.Fatalf("want hello, got %q", p)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("message not delivered")
	}
}

func TestMemoryNoEchoAcrossTopics(t *testing.T) {
	bus := NewBus()
	a := bus.Open()

	got := make(chan []byte, 1)
	_ = a.Subscribe("room/client", func(p []byte) { got <- p })

	a.Publish("room/host", []byte("hello"))

	select {
	case <-got:
		t.Fatalf("message leaked across topics")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryDropNextLosesMessages(t *testing.T) {
	bus := NewBus()
	a := bus.Open()
	b := bus.Open()

	var n int
	done := make(chan struct{}, 4)
	_ = b.Subscribe("t", func([]byte) { n++; done <- struct{}{} })

	a.DropNext(2)
	a.Publish("t", []byte("1"))
	a.Publish("t", []byte("2"))
	a.Publish("t", []byte("3"))

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("third message should survive")
	}
	if n != 1 {
		t.Fatalf("want exactly one delivery, got %d", n)
	}
}

func TestMemoryClosedAdapterGoesQuiet(t *testing.T) {
	bus := NewBus()
	a := bus.Open()
	b := bus.Open()

	got := make(chan []byte, 1)
	_ = b.Subscribe("t", func(p []byte) { got <- p })
	b.Close()

	a.Publish("t", []byte("late"))

	select {
	case <-got:
		t.Fatalf("closed adapter must not deliver")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryCloseEndsEventStream(t *testing.T) {
	a := NewBus().Open()
	<-a.Events() // connected
	a.Close()
	a.Close() // second close is a no-op

	select {
	case _, ok := <-a.Events():
		if ok {
			t.Fatalf("unexpected event after close")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("events channel must close with the adapter")
	}
}

func TestMemoryEmitsConnectedOnOpen(t *testing.T) {
	bus := NewBus()
	a := bus.Open()
	select {
	case ev := <-a.Events():
		if ev.Kind != EventConnected {
			t.Fatalf("want connected, got %v", ev.Kind)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("no connected event")
	}
}
