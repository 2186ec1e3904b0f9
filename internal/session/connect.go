package session

import (
	"go.uber.org/zap"

	"soularena/internal/transport"
)

// dial binds an adapter to the current broker endpoint and arms the
// connect timeout. Connection outcomes come back through the inbox as
// connEvents tagged with the adapter generation, so events from a
// torn-down adapter are ignored.
func (s *Session) dial() {
	if len(s.cfg.Brokers) == 0 || s.cfg.Dial == nil {
		s.log.Warn("no brokers configured; session runs without transport")
		return
	}

	s.adapterGen++
	gen := s.adapterGen
	endpoint := s.cfg.Brokers[s.brokerIdx%len(s.cfg.Brokers)]
	s.log.Info("binding transport",
		zap.String("broker", endpoint),
		zap.String("room", s.room))

	a := s.cfg.Dial(endpoint, string(s.cfg.Role)+"-"+s.cfg.PlayerID)
	s.adapter = a

	// The reader lives exactly as long as its adapter: Close closes the
	// events channel, so a failover cycle never accumulates readers.
	go func() {
		for {
			select {
			case ev, ok := <-a.Events():
				if !ok {
					return
				}
				select {
				case s.inbox <- connEvent{ev: ev, gen: gen}:
				case <-s.ctx.Done():
					return
				}
			case <-s.ctx.Done():
				return
			}
		}
	}()

	s.schedule(timerConnect, s.cfg.ConnectTimeout, gen)
}

func (s *Session) handleConnEvent(msg connEvent) {
	if msg.gen != s.adapterGen {
		return
	}
	switch msg.ev.Kind {
	case transport.EventConnected:
		s.onConnected()
	case transport.EventError:
		if s.connected {
			// Failover is latched off once healthy; accidental teardown
			// of a live connection is the bug class this guards.
			s.log.Warn("transport error on live connection", zap.Error(msg.ev.Err))
			return
		}
		s.log.Warn("broker connect failed", zap.Error(msg.ev.Err))
		s.failover()
	}
}

func (s *Session) onConnected() {
	s.connected = true
	if err := s.adapter.Subscribe(s.listenTopic(), s.enqueueWire); err != nil {
		s.log.Warn("subscribe failed", zap.Error(err))
		s.connected = false
		s.failover()
		return
	}
	s.log.Info("transport connected", zap.String("room", s.room))

	if s.cfg.Role == RoleHost {
		// The room exists the instant the adapter is bound.
		s.publishSync()
		s.schedule(timerHeartbeat, s.cfg.HeartbeatInterval, s.adapterGen)
	} else {
		s.publishJoin()
		s.schedule(timerJoinRetry, s.cfg.JoinRetryInterval, s.adapterGen)
	}
}

// enqueueWire never blocks the transport callback: a full inbox drops
// the message, which the protocol already survives (the next heartbeat
// re-delivers full state).
func (s *Session) enqueueWire(payload []byte) {
	select {
	case s.inbox <- fromWire{data: payload}:
	default:
		s.log.Warn("inbox full, dropping inbound message")
	}
}

// failover walks the endpoint list, pausing briefly after wrapping
// around to the start.
func (s *Session) failover() {
	if s.adapter != nil {
		s.adapter.Close()
		s.adapter = nil
	}
	s.adapterGen++
	s.brokerIdx++
	if s.brokerIdx%len(s.cfg.Brokers) == 0 {
		s.log.Info("broker list exhausted, pausing before retry")
		s.schedule(timerFailoverPause, s.cfg.FailoverPause, s.adapterGen)
		return
	}
	s.dial()
}
