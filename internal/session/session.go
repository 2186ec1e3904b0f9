// Package session owns one peer's half of a replicated match. A single
// actor goroutine serializes every state transition: wire messages,
// local commands, and timer fires all funnel through one inbox, so no
// two triggers can interleave partial updates.
package session

import (
	"context"
	cryptorand "crypto/rand"
	"math/big"
	"math/rand"
	"reflect"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"soularena/internal/engine"
	"soularena/internal/protocol"
	"soularena/internal/shopai"
	"soularena/internal/store"
	"soularena/internal/transport"
)

type Role string

const (
	RoleHost   Role = "host"
	RoleClient Role = "client"
)

// Dialer opens a transport adapter bound to one broker endpoint.
type Dialer func(endpoint, clientID string) transport.Adapter

type Config struct {
	Role       Role
	Room       string // client supplies one; host generates when empty
	PlayerID   string
	PlayerName string
	VsAI       bool
	MaxRounds  int
	Brokers    []string
	Dial       Dialer
	Advisor    shopai.Advisor
	Recorder   store.Recorder // optional match archive
	Log        *zap.Logger

	TurnInterval      time.Duration
	HeartbeatInterval time.Duration
	JoinRetryInterval time.Duration
	RoundResultDelay  time.Duration
	ConnectTimeout    time.Duration
	FailoverPause     time.Duration
}

func (c *Config) fillDefaults() {
	if c.PlayerID == "" {
		c.PlayerID = uuid.NewString()
	}
	if c.PlayerName == "" {
		c.PlayerName = "Chosen Undead"
	}
	if c.MaxRounds == 0 {
		c.MaxRounds = 3
	}
	if c.Advisor == nil {
		c.Advisor = shopai.Greedy{}
	}
	if c.Log == nil {
		c.Log = zap.NewNop()
	}
	if c.TurnInterval == 0 {
		c.TurnInterval = 1500 * time.Millisecond
	}
	if c.HeartbeatInterval == 0 {
		c.HeartbeatInterval = 1500 * time.Millisecond
	}
	if c.JoinRetryInterval == 0 {
		c.JoinRetryInterval = 1500 * time.Millisecond
	}
	if c.RoundResultDelay == 0 {
		c.RoundResultDelay = 3 * time.Second
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 5 * time.Second
	}
	if c.FailoverPause == 0 {
		c.FailoverPause = 2 * time.Second
	}
}

type Session struct {
	cfg  Config
	log  *zap.Logger
	room string // fixed at creation; safe to read from any goroutine

	inbox    chan Msg
	state    engine.State
	version  int
	watchers map[string]chan Snapshot
	rng      *rand.Rand

	adapter    transport.Adapter
	adapterGen uint64
	brokerIdx  int
	connected  bool // latch: failover must never run once set
	joined     bool // client latch: stops JOIN retries

	battleStarting bool // single-shot shop->battle gate
	timerGen       uint64

	ctx    context.Context
	cancel context.CancelFunc
}

// New starts the session actor and begins connecting. The host's room
// exists the instant its adapter is bound; a client starts its JOIN
// retry loop once connected.
func New(parent context.Context, cfg Config) *Session {
	cfg.fillDefaults()
	ctx, cancel := context.WithCancel(parent)

	s := &Session{
		cfg:      cfg,
		log:      cfg.Log,
		inbox:    make(chan Msg, 64),
		watchers: make(map[string]chan Snapshot),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		ctx:      ctx,
		cancel:   cancel,
	}

	s.room = cfg.Room
	if cfg.Role == RoleHost && s.room == "" {
		s.room = newRoomCode()
	}
	s.state = s.seedPlayers(engine.New(s.room, cfg.MaxRounds))

	s.dial()
	if s.cfg.Role == RoleHost && s.state.Phase == engine.PhaseShop {
		// AI mode opens straight into the shop.
		s.kickAIShopping()
	}
	go s.loop()
	return s
}

// Inbox is how everything talks to the session.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

// Room returns the code chosen at creation.
func (s *Session) Room() string { return s.room }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Watch:
				s.watchers[msg.ID] = msg.Outbox
				msg.Outbox <- Snapshot{Version: s.version, State: s.state}

			case Unwatch:
				if ch, ok := s.watchers[msg.ID]; ok {
					close(ch)
					delete(s.watchers, msg.ID)
				}

			case GetState:
				broker := ""
				if len(s.cfg.Brokers) > 0 {
					broker = s.cfg.Brokers[s.brokerIdx%len(s.cfg.Brokers)]
				}
				msg.Reply <- View{
					Version:     s.version,
					NumWatchers: len(s.watchers),
					Connected:   s.connected,
					Joined:      s.joined,
					Broker:      broker,
					State:       s.state,
				}

			case Buy:
				s.handleLocalBuy(msg.ItemID)

			case Ready:
				s.handleLocalReady()

			case fromWire:
				s.handleWire(msg.data)

			case timerFired:
				s.handleTimer(msg)

			case connEvent:
				s.handleConnEvent(msg)

			case aiPurchases:
				s.handleAIPurchases(msg)

			case Reset:
				s.reset()

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

// apply is the single host-side transition point: compare, swap,
// broadcast, publish. Entering a new phase bumps the timer generation
// so anything armed for the old phase fires stale.
func (s *Session) apply(next engine.State) {
	if reflect.DeepEqual(s.state, next) {
		return // rejected intent: the next SYNC shows no change
	}
	prevPhase := s.state.Phase
	s.state = next
	s.version++
	s.broadcast()
	if s.cfg.Role == RoleHost {
		s.publishSync()
	}
	if next.Phase != prevPhase {
		s.timerGen++
		s.enterPhase(next.Phase)
	}
	s.checkShopGate()
}

// enterPhase arms whatever the new phase needs.
func (s *Session) enterPhase(p engine.Phase) {
	if s.cfg.Role != RoleHost {
		return
	}
	switch p {
	case engine.PhaseBattle:
		s.schedule(timerTurn, s.cfg.TurnInterval, s.timerGen)
	case engine.PhaseRoundResult:
		s.schedule(timerRoundResult, s.cfg.RoundResultDelay, s.timerGen)
	case engine.PhaseShop:
		s.battleStarting = false
		s.kickAIShopping()
	case engine.PhaseGameOver:
		s.recordMatch()
	}
}

// checkShopGate re-runs after every mutation; the latch makes the
// shop->battle transition fire exactly once per shop phase.
func (s *Session) checkShopGate() {
	if s.cfg.Role != RoleHost || s.battleStarting {
		return
	}
	if engine.ShopDone(s.state) {
		s.battleStarting = true
		s.apply(engine.StartBattle(s.state))
	}
}

func (s *Session) broadcast() {
	snap := Snapshot{Version: s.version, State: s.state}
	for id, ch := range s.watchers {
		select {
		case ch <- snap:
		default:
			// Watcher is slow/full - drop it.
			close(ch)
			delete(s.watchers, id)
		}
	}
}

func (s *Session) schedule(kind timerKind, d time.Duration, gen uint64) {
	time.AfterFunc(d, func() {
		select {
		case s.inbox <- timerFired{kind: kind, gen: gen}:
		case <-s.ctx.Done():
		}
	})
}

// seedPlayers puts the host back in its own seat (plus the AI seat in
// single-player mode); a client starts empty and waits for a WELCOME.
func (s *Session) seedPlayers(st engine.State) engine.State {
	if s.cfg.Role != RoleHost {
		return st
	}
	st.Phase = engine.PhaseLobby
	st, _ = engine.AddPlayer(st, s.cfg.PlayerID, s.cfg.PlayerName, false)
	if s.cfg.VsAI {
		// Single-player seeds both slots synchronously; no waiting phase.
		st, _ = engine.AddPlayer(st, "ai-"+uuid.NewString(), "Hollow", true)
	}
	return st
}

// reset tears everything down and then re-arms the session: fresh state
// with the same room code, transport re-dialed from the top of the
// broker list. A reset host is immediately joinable again.
func (s *Session) reset() {
	s.teardownTransport()
	s.timerGen++
	s.battleStarting = false
	s.brokerIdx = 0
	s.state = s.seedPlayers(engine.Reset(s.state))
	s.version++
	s.broadcast()
	s.dial()
	if s.cfg.Role == RoleHost && s.state.Phase == engine.PhaseShop {
		s.kickAIShopping()
	}
}

func (s *Session) shutdown() {
	s.teardownTransport()
	s.timerGen++
	for id, ch := range s.watchers {
		close(ch)
		delete(s.watchers, id)
	}
	s.cancel()
}

func (s *Session) teardownTransport() {
	if s.adapter != nil {
		s.adapter.Close()
		s.adapter = nil
	}
	s.adapterGen++
	s.connected = false
	s.joined = false
}

func (s *Session) recordMatch() {
	if s.cfg.Recorder == nil {
		return
	}
	st := s.state
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.cfg.Recorder.RecordMatch(ctx, st); err != nil {
			s.log.Warn("match archive failed", zap.Error(err))
		}
	}()
}

// newRoomCode builds a short human-shareable code.
func newRoomCode() string {
	const charset = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	code := make([]byte, 5)
	for i := range code {
		n, err := cryptorand.Int(cryptorand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			code[i] = charset[0]
			continue
		}
		code[i] = charset[n.Int64()]
	}
	return string(code)
}

// topics for this session's role: publish on ours, listen on theirs.
func (s *Session) publishTopic() string {
	if s.cfg.Role == RoleHost {
		return protocol.HostTopic(s.room)
	}
	return protocol.ClientTopic(s.room)
}

func (s *Session) listenTopic() string {
	if s.cfg.Role == RoleHost {
		return protocol.ClientTopic(s.room)
	}
	return protocol.HostTopic(s.room)
}
