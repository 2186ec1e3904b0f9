package engine

type Phase string

const (
	PhaseLogin       Phase = "login"
	PhaseLobby       Phase = "lobby"
	PhaseWaiting     Phase = "waiting"
	PhaseShop        Phase = "shop"
	PhaseBattle      Phase = "battle"
	PhaseRoundResult Phase = "round_result"
	PhaseGameOver    Phase = "game_over"
)

// Stats is the derived stat block. Every field except HP is recomputed
// from BaseStats plus item bonuses whenever the inventory changes; HP is
// the one value combat mutates in place.
type Stats struct {
	HP           int `json:"hp"`
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Intelligence int `json:"intelligence"`
	Defense      int `json:"defense"`
	Poise        int `json:"poise"`
}

type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	AI    bool   `json:"ai"`
	Souls int    `json:"souls"`
	Items []Item `json:"items"`
	Stats Stats  `json:"stats"`
	Wins  int    `json:"wins"`
	Ready bool   `json:"ready"`
}

// LogEntry records one combat action. The log is append-only.
type LogEntry struct {
	Turn     int    `json:"turn"`
	Attacker string `json:"attacker"`
	Target   string `json:"target"`
	Damage   int    `json:"damage"`
	Action   string `json:"action"`
	Crit     bool   `json:"crit"`
}

// State is the single source of truth. Reducers never edit a State in
// place; every transition returns a new value so the whole thing can be
// serialized and shipped verbatim on every sync.
type State struct {
	Phase       Phase      `json:"phase"`
	Round       int        `json:"round"`
	MaxRounds   int        `json:"max_rounds"`
	Room        string     `json:"room"`
	Players     []Player   `json:"players"`
	Log         []LogEntry `json:"log"`
	Turn        int        `json:"turn"`
	RoundWinner string     `json:"round_winner,omitempty"`
	MatchWinner string     `json:"match_winner,omitempty"`
}

// New returns the initial empty state: login phase, no players.
func New(room string, maxRounds int) State {
	return State{
		Phase:     PhaseLogin,
		Round:     1,
		MaxRounds: maxRounds,
		Room:      room,
	}
}

// Reset returns the state to the initial empty value, keeping the room
// and the configured round count so the session stays addressable.
func Reset(s State) State {
	return New(s.Room, s.MaxRounds)
}

// AddPlayer registers a player slot. It is idempotent: a second JOIN
// carrying an ID that is already seated leaves the state untouched and
// reports added=false, so client retry storms are safe. The first player
// moves the room to waiting; the second moves it to shop.
func AddPlayer(s State, id, name string, ai bool) (next State, added bool) {
	if PlayerIndex(s, id) >= 0 {
		return s, false
	}
	if len(s.Players) >= 2 {
		return s, false
	}

	p := Player{
		ID:    id,
		Name:  name,
		AI:    ai,
		Souls: StartingSouls,
		Stats: DeriveStats(nil),
	}
	next = s
	next.Players = append(clonePlayers(s.Players), p)

	switch len(next.Players) {
	case 1:
		next.Phase = PhaseWaiting
	case 2:
		next.Phase = PhaseShop
	}
	return next, true
}

// SetReady flags a player as done shopping. Unknown IDs and out-of-phase
// calls are a no-op.
func SetReady(s State, playerID string) State {
	i := PlayerIndex(s, playerID)
	if i < 0 || s.Phase != PhaseShop {
		return s
	}
	next := s
	next.Players = clonePlayers(s.Players)
	next.Players[i].Ready = true
	return next
}

// ShopDone reports whether every seat is ready or AI-controlled. Only
// meaningful with a full room.
func ShopDone(s State) bool {
	if s.Phase != PhaseShop || len(s.Players) != 2 {
		return false
	}
	for _, p := range s.Players {
		if !p.Ready && !p.AI {
			return false
		}
	}
	return true
}

// StartBattle transitions shop -> battle. Slot 0 opens the round; ready
// flags are cleared so the next shop phase starts fresh.
func StartBattle(s State) State {
	if s.Phase != PhaseShop {
		return s
	}
	next := s
	next.Phase = PhaseBattle
	next.Turn = 0
	next.Players = clonePlayers(s.Players)
	for i := range next.Players {
		next.Players[i].Ready = false
	}
	return next
}

// PlayerIndex returns the slot holding id, or -1.
func PlayerIndex(s State, id string) int {
	for i, p := range s.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// HasPlayer reports whether id is seated. Clients use this to reject a
// stale sync from a host that has since reset.
func HasPlayer(s State, id string) bool {
	return PlayerIndex(s, id) >= 0
}

func clonePlayers(ps []Player) []Player {
	out := make([]Player, len(ps))
	copy(out, ps)
	return out
}
