package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"soularena/internal/session"
)

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func State(s *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan session.View, 1)
		s.Inbox() <- session.GetState{Reply: reply}

		select {
		case view := <-reply:
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(struct {
				Version   int    `json:"version"`
				Connected bool   `json:"connected"`
				Room      string `json:"room"`
				State     any    `json:"state"`
			}{view.Version, view.Connected, view.State.Room, view.State})
		case <-time.After(2 * time.Second):
			http.Error(w, "session unresponsive", http.StatusServiceUnavailable)
		}
	}
}

func BuyAction(s *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ItemID string `json:"itemId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ItemID == "" {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		s.Inbox() <- session.Buy{ItemID: body.ItemID}
		// Acceptance is reflected (or not) in the next snapshot.
		w.WriteHeader(http.StatusAccepted)
	}
}

func ReadyAction(s *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Inbox() <- session.Ready{}
		w.WriteHeader(http.StatusAccepted)
	}
}

func ResetAction(s *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Inbox() <- session.Reset{}
		w.WriteHeader(http.StatusAccepted)
	}
}
