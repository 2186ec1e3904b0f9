package session

import (
	"soularena/internal/engine"
	"soularena/internal/transport"
)

type Msg interface{ isSessionMsg() }

// Buy is a local purchase intent for this process's own player. On the
// host it is applied directly; on the client it is published to the
// host.
type Buy struct{ ItemID string }

func (Buy) isSessionMsg() {}

// Ready marks the local player done shopping.
type Ready struct{}

func (Ready) isSessionMsg() {}

// Watch registers a local observer (e.g. the renderer feed). The
// current snapshot is delivered immediately, then one per transition.
type Watch struct {
	ID     string
	Outbox chan Snapshot
}

func (Watch) isSessionMsg() {}

type Unwatch struct{ ID string }

func (Unwatch) isSessionMsg() {}

// GetState reflects internal state without data races; used by the HTTP
// surface and tests.
type GetState struct{ Reply chan View }

func (GetState) isSessionMsg() {}

// Reset tears down the transport and every pending timer and returns
// the state to the initial empty value. The loop stays alive.
type Reset struct{}

func (Reset) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

type Snapshot struct {
	Version int
	State   engine.State
}

type View struct {
	Version     int
	NumWatchers int
	Connected   bool
	Joined      bool
	Broker      string
	State       engine.State
}

// internal messages

type fromWire struct{ data []byte }

func (fromWire) isSessionMsg() {}

type timerKind int

const (
	timerTurn timerKind = iota
	timerRoundResult
	timerHeartbeat
	timerJoinRetry
	timerConnect
	timerFailoverPause
)

// timerFired carries the generation current when the timer was armed;
// stale fires are dropped at the loop.
type timerFired struct {
	kind timerKind
	gen  uint64
}

func (timerFired) isSessionMsg() {}

type connEvent struct {
	ev  transport.Event
	gen uint64
}

func (connEvent) isSessionMsg() {}

type aiPurchases struct {
	itemIDs []string
	gen     uint64
}

func (aiPurchases) isSessionMsg() {}
