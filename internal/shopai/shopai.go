// Package shopai decides what the AI opponent buys each shop phase. The
// advisor is pluggable (a model-backed provider can sit behind it); any
// failure falls back to a local greedy heuristic, and every suggestion
// is re-validated by the purchase reducer before it takes effect.
package shopai

import (
	"context"
	"sort"

	"soularena/internal/engine"
)

// Advisor suggests item IDs for the AI player to attempt to buy. It is
// invoked once per shop phase, host-side. Suggestions are attempts, not
// commands: affordability and category limits are enforced downstream.
type Advisor interface {
	Suggest(ctx context.Context, ai, human engine.Player, round int) ([]string, error)
}

// Greedy is the fallback heuristic: secure a weapon first, then spend
// whatever remains on the cheapest affordable items.
type Greedy struct{}

func (Greedy) Suggest(_ context.Context, ai, _ engine.Player, _ int) ([]string, error) {
	souls := ai.Souls
	owned := make(map[engine.Category]int)
	for _, it := range ai.Items {
		owned[it.Category]++
	}

	catalog := make([]engine.Item, 0, len(engine.Items))
	for _, it := range engine.Items {
		catalog = append(catalog, it)
	}
	sort.Slice(catalog, func(i, j int) bool { return catalog[i].Cost < catalog[j].Cost })

	var picks []string
	buy := func(it engine.Item) {
		picks = append(picks, it.ID)
		souls -= it.Cost
		owned[it.Category]++
	}

	if owned[engine.CategoryWeapon] == 0 {
		for _, it := range catalog {
			if it.Category == engine.CategoryWeapon && it.Cost <= souls {
				buy(it)
				break
			}
		}
	}

	for _, it := range catalog {
		if it.Cost > souls {
			break
		}
		if owned[it.Category] >= engine.CategoryLimits[it.Category] {
			continue
		}
		buy(it)
	}
	return picks, nil
}
