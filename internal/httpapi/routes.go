package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"soularena/internal/session"
)

// SetupRoutes exposes the local control surface the renderer drives:
// state reads, purchase/ready intents, and a websocket snapshot feed.
func SetupRoutes(s *session.Session, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/state", State(s))
	r.Post("/actions/buy", BuyAction(s))
	r.Post("/actions/ready", ReadyAction(s))
	r.Post("/reset", ResetAction(s))
	r.Get("/ws", Feed(s, log))
	return r
}
