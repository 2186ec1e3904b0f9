package session

import (
	"go.uber.org/zap"

	"soularena/internal/engine"
	"soularena/internal/protocol"
)

// handleClientWire mirrors the host's published state. The client never
// applies an intent authoritatively; it only replaces its copy
// wholesale.
func (s *Session) handleClientWire(m protocol.Message) {
	switch m.Kind {
	case protocol.KindWelcome, protocol.KindSync:
		if !engine.HasPlayer(m.State, s.cfg.PlayerID) {
			// Stale or foreign state (a host that reset, or another
			// room's leftovers). Accepting it would regress us to an
			// empty session.
			s.log.Debug("rejecting state without our player",
				zap.String("phase", string(m.State.Phase)))
			return
		}
		if !s.joined {
			s.joined = true
			s.log.Info("registered with host", zap.String("room", m.State.Room))
		}
		s.state = m.State
		s.version++
		s.broadcast()

	default:
		s.log.Debug("client ignoring message", zap.String("kind", string(m.Kind)))
	}
}

// publishJoin announces our intent to sit down. Called on connect and
// then on a fixed interval until the host's reply names us.
func (s *Session) publishJoin() {
	if s.adapter == nil {
		return
	}
	data, err := protocol.EncodeJoin(s.cfg.PlayerID, s.cfg.PlayerName)
	if err != nil {
		s.log.Warn("encode join failed", zap.Error(err))
		return
	}
	s.adapter.Publish(s.publishTopic(), data)
}

func (s *Session) publishAction(data []byte, err error) {
	if err != nil {
		s.log.Warn("encode action failed", zap.Error(err))
		return
	}
	if s.adapter == nil {
		return
	}
	s.adapter.Publish(s.publishTopic(), data)
}
