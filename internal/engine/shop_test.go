package engine

import "testing"

func shopState() State {
	s := New("ABCDE", 3)
	s, _ = AddPlayer(s, "p1", "Solaire", false)
	s, _ = AddPlayer(s, "p2", "Lautrec", false)
	return s
}

func TestProcessBuyDeductsAndEquips(t *testing.T) {
	s := shopState()

	s = ProcessBuy(s, "p1", "zweihander")

	p := s.Players[0]
	if p.Souls != 2500-900 {
		t.Fatalf("want 1600 souls, got %d", p.Souls)
	}
	if len(p.Items) != 1 || p.Items[0].ID != "zweihander" {
		t.Fatalf("want exactly one zweihander, got %+v", p.Items)
	}
	if p.Stats.Strength != BaseStats.Strength+2 {
		t.Fatalf("derived strength should reflect the bonus, got %d", p.Stats.Strength)
	}
}

func TestProcessBuyRejections(t *testing.T) {
	cases := []struct {
		name  string
		setup func(State) State
		buyer string
		item  string
	}{
		{"unknown item", func(s State) State { return s }, "p1", "excalibur"},
		{"unknown player", func(s State) State { return s }, "ghost", "estoc"},
		{
			"insufficient souls",
			func(s State) State {
				s = ProcessBuy(s, "p1", "havel_set")  // 1200
				return ProcessBuy(s, "p1", "estoc")   // 600, leaves 700
			},
			"p1", "soul_spear", // 1000 > 700
		},
		{
			"weapon limit reached",
			func(s State) State {
				s = ProcessBuy(s, "p1", "estoc")
				return ProcessBuy(s, "p1", "uchigatana")
			},
			"p1", "zweihander",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := tc.setup(shopState())
			next := ProcessBuy(s, tc.buyer, tc.item)

			i := PlayerIndex(s, tc.buyer)
			if i < 0 {
				if len(next.Players) != len(s.Players) {
					t.Fatalf("rejected buy changed player list")
				}
				return
			}
			if next.Players[i].Souls != s.Players[i].Souls {
				t.Fatalf("rejected buy changed souls: %d -> %d",
					s.Players[i].Souls, next.Players[i].Souls)
			}
			if len(next.Players[i].Items) != len(s.Players[i].Items) {
				t.Fatalf("rejected buy changed inventory")
			}
		})
	}
}

func TestProcessBuyNeverExceedsCategoryLimit(t *testing.T) {
	s := shopState()
	// Hammer the same category far past its cap; souls are plentiful
	// enough to afford the first few.
	s.Players[0].Souls = 100000
	for i := 0; i < 10; i++ {
		s = ProcessBuy(s, "p1", "estoc")
	}
	got := 0
	for _, it := range s.Players[0].Items {
		if it.Category == CategoryWeapon {
			got++
		}
	}
	if got > CategoryLimits[CategoryWeapon] {
		t.Fatalf("weapon count %d exceeds limit %d", got, CategoryLimits[CategoryWeapon])
	}
}

func TestDeriveStatsSumsAllBonuses(t *testing.T) {
	items := []Item{Items["havel_set"], Items["havels_ring"]}
	st := DeriveStats(items)
	if st.HP != BaseStats.HP+40+30 {
		t.Fatalf("want HP %d, got %d", BaseStats.HP+70, st.HP)
	}
	if st.Defense != BaseStats.Defense+8 {
		t.Fatalf("want defense %d, got %d", BaseStats.Defense+8, st.Defense)
	}
	if st.Poise != BaseStats.Poise+30+10 {
		t.Fatalf("want poise %d, got %d", BaseStats.Poise+40, st.Poise)
	}
}

func TestCatalogItemsAreSelfConsistent(t *testing.T) {
	for id, it := range Items {
		if it.ID != id {
			t.Fatalf("item %q keyed under %q", it.ID, id)
		}
		if it.Cost <= 0 {
			t.Fatalf("item %q has non-positive cost", id)
		}
		if _, ok := CategoryLimits[it.Category]; !ok {
			t.Fatalf("item %q has unknown category %q", id, it.Category)
		}
	}
}
