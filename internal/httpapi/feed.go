package httpapi

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"soularena/internal/session"
)

// Feed streams every snapshot to a local observer over a websocket.
// The feed is cosmetic: intents go through the POST handlers, and the
// next authoritative snapshot always supersedes whatever the observer
// showed optimistically.
func Feed(s *session.Session, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan session.Snapshot, 8)
		watcherID := randID(6)

		s.Inbox() <- session.Watch{ID: watcherID, Outbox: out}
		defer func() { s.Inbox() <- session.Unwatch{ID: watcherID} }()

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				payload, err := json.Marshal(struct {
					Version int `json:"version"`
					State   any `json:"state"`
				}{snap.Version, snap.State})
				if err != nil {
					log.Warn("encode snapshot failed", zap.Error(err))
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Observers only listen; the read loop exists to notice the
		// close.
		for {
			if _, _, err := conn.Read(r.Context()); err != nil {
				return
			}
		}
	}
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
