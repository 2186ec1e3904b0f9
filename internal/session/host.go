package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"soularena/internal/engine"
	"soularena/internal/protocol"
	"soularena/internal/shopai"
)

func (s *Session) handleWire(data []byte) {
	m, err := protocol.Decode(data)
	if err != nil {
		// Malformed message: drop and log, never crash the loop.
		s.log.Warn("dropping malformed message", zap.Error(err))
		return
	}
	if s.cfg.Role == RoleHost {
		s.handleHostWire(m)
	} else {
		s.handleClientWire(m)
	}
}

func (s *Session) handleHostWire(m protocol.Message) {
	switch m.Kind {
	case protocol.KindJoin:
		s.handleJoin(m.Join)

	case protocol.KindActionBuy:
		// Same reducer as a direct host purchase; identical validation
		// regardless of entry point.
		s.apply(engine.ProcessBuy(s.state, m.Buy.PlayerID, m.Buy.ItemID))

	case protocol.KindActionReady:
		s.apply(engine.SetReady(s.state, m.Ready.PlayerID))

	default:
		// WELCOME/SYNC on the client topic would be our own kind of
		// message from a confused peer; ignore.
		s.log.Debug("host ignoring message", zap.String("kind", string(m.Kind)))
	}
}

// handleJoin is idempotent: a retry storm from a client that missed our
// WELCOME re-sends the current state and mutates nothing.
func (s *Session) handleJoin(j protocol.JoinPayload) {
	next, added := engine.AddPlayer(s.state, j.ID, j.Name, false)
	if !added {
		s.publishSync()
		return
	}
	s.log.Info("player joined", zap.String("player", j.Name))
	s.publishWelcome(next)
	s.apply(next)
}

func (s *Session) handleLocalBuy(itemID string) {
	if s.cfg.Role == RoleHost {
		s.apply(engine.ProcessBuy(s.state, s.cfg.PlayerID, itemID))
		return
	}
	s.publishAction(protocol.EncodeBuy(s.cfg.PlayerID, itemID))
}

func (s *Session) handleLocalReady() {
	if s.cfg.Role == RoleHost {
		s.apply(engine.SetReady(s.state, s.cfg.PlayerID))
		return
	}
	s.publishAction(protocol.EncodeReady(s.cfg.PlayerID))
}

func (s *Session) handleTimer(t timerFired) {
	switch t.kind {
	case timerTurn:
		if t.gen != s.timerGen || s.state.Phase != engine.PhaseBattle {
			return
		}
		s.apply(engine.ResolveTurn(s.state, s.rng))
		if s.state.Phase == engine.PhaseBattle {
			s.schedule(timerTurn, s.cfg.TurnInterval, s.timerGen)
		}

	case timerRoundResult:
		if t.gen != s.timerGen || s.state.Phase != engine.PhaseRoundResult {
			return
		}
		s.apply(engine.ScoreRound(s.state))

	case timerHeartbeat:
		if t.gen != s.adapterGen || !s.connected {
			return
		}
		// Unconditional full-state re-publication; a peer that missed
		// an update self-heals within one period.
		s.publishSync()
		s.schedule(timerHeartbeat, s.cfg.HeartbeatInterval, s.adapterGen)

	case timerJoinRetry:
		if t.gen != s.adapterGen || !s.connected || s.joined {
			return
		}
		s.publishJoin()
		s.schedule(timerJoinRetry, s.cfg.JoinRetryInterval, s.adapterGen)

	case timerConnect:
		if t.gen != s.adapterGen || s.connected {
			return
		}
		s.log.Warn("broker connect timed out")
		s.failover()

	case timerFailoverPause:
		if t.gen != s.adapterGen || s.connected {
			return
		}
		s.dial()
	}
}

func (s *Session) publishSync() {
	if s.adapter == nil {
		return
	}
	data, err := protocol.EncodeSync(s.state)
	if err != nil {
		s.log.Warn("encode sync failed", zap.Error(err))
		return
	}
	s.adapter.Publish(s.publishTopic(), data)
}

func (s *Session) publishWelcome(st engine.State) {
	if s.adapter == nil {
		return
	}
	data, err := protocol.EncodeWelcome(st)
	if err != nil {
		s.log.Warn("encode welcome failed", zap.Error(err))
		return
	}
	s.adapter.Publish(s.publishTopic(), data)
}

// kickAIShopping runs the purchase advisor off-loop and funnels the
// result back through the inbox. The advisor may be model-backed and
// slow; the actor never blocks on it.
func (s *Session) kickAIShopping() {
	aiIdx := -1
	humanIdx := -1
	for i, p := range s.state.Players {
		if p.AI {
			aiIdx = i
		} else {
			humanIdx = i
		}
	}
	if aiIdx < 0 || humanIdx < 0 {
		return
	}

	ai := s.state.Players[aiIdx]
	human := s.state.Players[humanIdx]
	round := s.state.Round
	gen := s.timerGen
	advisor := s.cfg.Advisor

	go func() {
		ctx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
		defer cancel()
		ids, err := advisor.Suggest(ctx, ai, human, round)
		if err != nil {
			// Fail soft: greedy affordability heuristic.
			s.log.Warn("purchase advisor failed, using greedy fallback", zap.Error(err))
			ids, _ = shopai.Greedy{}.Suggest(ctx, ai, human, round)
		}
		select {
		case s.inbox <- aiPurchases{itemIDs: ids, gen: gen}:
		case <-s.ctx.Done():
		}
	}()
}

func (s *Session) handleAIPurchases(msg aiPurchases) {
	if msg.gen != s.timerGen || s.state.Phase != engine.PhaseShop {
		return
	}
	aiIdx := -1
	for i, p := range s.state.Players {
		if p.AI {
			aiIdx = i
		}
	}
	if aiIdx < 0 {
		return
	}
	aiID := s.state.Players[aiIdx].ID

	// Every suggestion passes through the same validation a human
	// purchase would; invalid IDs are silent no-ops.
	next := s.state
	for _, itemID := range msg.itemIDs {
		next = engine.ProcessBuy(next, aiID, itemID)
	}
	next = engine.SetReady(next, aiID)
	s.apply(next)
}
