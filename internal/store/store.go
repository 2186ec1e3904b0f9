// Package store archives finished matches to Postgres. It is entirely
// optional: with no DSN configured the host simply keeps no records.
// The archive never participates in replication.
package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"soularena/internal/engine"
)

type MatchRecord struct {
	ID        uint   `gorm:"primaryKey"`
	Room      string `gorm:"index"`
	Winner    string
	Rounds    int
	PlayerA   string
	PlayerB   string
	WinsA     int
	WinsB     int
	CreatedAt time.Time
}

// Recorder is what the session depends on; *Store satisfies it.
type Recorder interface {
	RecordMatch(ctx context.Context, s engine.State) error
}

type Store struct {
	db *gorm.DB
}

func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open match store: %w", err)
	}
	if err := db.AutoMigrate(&MatchRecord{}); err != nil {
		return nil, fmt.Errorf("migrate match store: %w", err)
	}
	return &Store{db: db}, nil
}

// RecordMatch persists the outcome of a game-over state.
func (s *Store) RecordMatch(ctx context.Context, st engine.State) error {
	if st.Phase != engine.PhaseGameOver || len(st.Players) != 2 {
		return fmt.Errorf("record match: state is not a finished match")
	}
	winner := st.MatchWinner
	if i := engine.PlayerIndex(st, winner); i >= 0 {
		winner = st.Players[i].Name
	}
	rec := MatchRecord{
		Room:    st.Room,
		Winner:  winner,
		Rounds:  st.Round,
		PlayerA: st.Players[0].Name,
		PlayerB: st.Players[1].Name,
		WinsA:   st.Players[0].Wins,
		WinsB:   st.Players[1].Wins,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("record match: %w", err)
	}
	return nil
}
