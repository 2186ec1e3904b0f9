package engine

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	weaponBaseDamage  = 20
	unarmedBaseDamage = 10
	unarmedStrScaling = 0.5
	tearstoneMult     = 1.5
	critMult          = 1.5
)

// ResolveTurn executes one battle turn: the current-turn player strikes
// the other slot. Weapon choice and the crit draw are the only places
// randomness enters; given the same rng stream the result is
// deterministic. Outside the battle phase this is a no-op, which guards
// against a stale pacing timer firing into a reset session.
func ResolveTurn(s State, rng *rand.Rand) State {
	if s.Phase != PhaseBattle || len(s.Players) != 2 {
		return s
	}

	next := s
	next.Players = clonePlayers(s.Players)
	attacker := &next.Players[s.Turn]
	defender := &next.Players[1-s.Turn]

	raw, action := rollAttack(*attacker, rng)

	if holdsItem(*attacker, RedTearstoneRingID) && attacker.Stats.HP*5 < MaxHP(*attacker) {
		raw *= tearstoneMult
		action += ", tearstone blazing"
	}

	dmg := int(math.Floor(raw - float64(defender.Stats.Defense)))
	if dmg < 1 {
		dmg = 1
	}

	crit := rng.Float64() < float64(attacker.Stats.Dexterity)*0.01
	if crit {
		dmg = int(math.Floor(float64(dmg) * critMult))
		action += " (critical!)"
	}

	defender.Stats.HP -= dmg

	turnNo := len(next.Log) + 1
	next.Log = appendLog(s.Log, LogEntry{
		Turn:     turnNo,
		Attacker: attacker.Name,
		Target:   defender.Name,
		Damage:   dmg,
		Action:   action,
		Crit:     crit,
	})

	if defender.Stats.HP <= 0 {
		next.Log = appendLog(next.Log, LogEntry{
			Turn:     turnNo,
			Attacker: attacker.Name,
			Target:   defender.Name,
			Action:   fmt.Sprintf("%s has fallen. YOU DIED", defender.Name),
		})
		next.RoundWinner = attacker.ID
		next.Phase = PhaseRoundResult
		return next
	}

	next.Turn = 1 - s.Turn
	return next
}

// rollAttack picks a weapon or spell uniformly at random and computes
// the pre-mitigation damage; with an empty arsenal the attack is
// unarmed.
func rollAttack(attacker Player, rng *rand.Rand) (raw float64, action string) {
	var arsenal []Item
	for _, it := range attacker.Items {
		if it.Category == CategoryWeapon || it.Category == CategorySpell {
			arsenal = append(arsenal, it)
		}
	}

	if len(arsenal) == 0 {
		raw = unarmedBaseDamage + float64(attacker.Stats.Strength)*unarmedStrScaling
		return raw, fmt.Sprintf("%s swings with bare fists", attacker.Name)
	}

	w := arsenal[rng.Intn(len(arsenal))]
	raw = weaponBaseDamage +
		float64(attacker.Stats.Strength)*w.Scaling.Strength +
		float64(attacker.Stats.Dexterity)*w.Scaling.Dexterity +
		float64(attacker.Stats.Intelligence)*w.Scaling.Intelligence
	verb := "strikes with"
	if w.Category == CategorySpell {
		verb = "casts"
	}
	return raw, fmt.Sprintf("%s %s %s", attacker.Name, verb, w.Name)
}

// ScoreRound settles a finished round: souls are awarded, the winner's
// counter increments, stats are recomputed from inventory (the healing
// step), and readiness resets. The match ends when a player reaches the
// best-of-N majority or the round counter hits the maximum; a drawn win
// count at the cap goes to slot 0.
func ScoreRound(s State) State {
	if s.Phase != PhaseRoundResult {
		return s
	}

	next := s
	next.Players = clonePlayers(s.Players)
	for i := range next.Players {
		p := &next.Players[i]
		if p.ID == s.RoundWinner {
			p.Souls += WinBonus
			p.Wins++
		} else {
			p.Souls += LossBonus
		}
		p.Stats = DeriveStats(p.Items)
		p.Ready = false
	}
	next.RoundWinner = ""

	needed := s.MaxRounds/2 + 1
	decided := next.Players[0].Wins >= needed || next.Players[1].Wins >= needed
	if decided || s.Round >= s.MaxRounds {
		winner := next.Players[0]
		if next.Players[1].Wins > next.Players[0].Wins {
			winner = next.Players[1]
		}
		next.MatchWinner = winner.ID
		next.Phase = PhaseGameOver
		return next
	}

	next.Round = s.Round + 1
	next.Phase = PhaseShop
	return next
}

func holdsItem(p Player, itemID string) bool {
	for _, it := range p.Items {
		if it.ID == itemID {
			return true
		}
	}
	return false
}

func appendLog(log []LogEntry, e LogEntry) []LogEntry {
	out := make([]LogEntry, len(log), len(log)+1)
	copy(out, log)
	return append(out, e)
}
