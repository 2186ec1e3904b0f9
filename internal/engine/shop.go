package engine

// DeriveStats sums BaseStats with every owned item's flat bonuses. HP
// comes back at the derived maximum; callers that need to preserve
// battle damage must not call this mid-round.
func DeriveStats(items []Item) Stats {
	st := BaseStats
	for _, it := range items {
		st.HP += it.Bonus.HP
		st.Strength += it.Bonus.Strength
		st.Dexterity += it.Bonus.Dexterity
		st.Intelligence += it.Bonus.Intelligence
		st.Defense += it.Bonus.Defense
		st.Poise += it.Bonus.Poise
	}
	return st
}

// MaxHP is the recomputed hit-point ceiling for a player's current
// inventory.
func MaxHP(p Player) int {
	return DeriveStats(p.Items).HP
}

// ProcessBuy validates and applies a purchase. It is pure and total:
// unknown player or item, insufficient souls, or a full category all
// return the state unchanged, so every entry point (direct host action
// and the ACTION_BUY handler) shares identical validation.
func ProcessBuy(s State, playerID, itemID string) State {
	item, ok := Items[itemID]
	if !ok {
		return s
	}
	i := PlayerIndex(s, playerID)
	if i < 0 {
		return s
	}
	p := s.Players[i]
	if p.Souls < item.Cost {
		return s
	}
	if countCategory(p.Items, item.Category) >= CategoryLimits[item.Category] {
		return s
	}

	next := s
	next.Players = clonePlayers(s.Players)
	np := &next.Players[i]
	np.Items = append(append([]Item(nil), p.Items...), item)
	np.Souls -= item.Cost
	np.Stats = DeriveStats(np.Items)
	return next
}

func countCategory(items []Item, c Category) int {
	n := 0
	for _, it := range items {
		if it.Category == c {
			n++
		}
	}
	return n
}
