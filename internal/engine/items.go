package engine

type Category string

const (
	CategoryWeapon    Category = "weapon"
	CategoryArmor     Category = "armor"
	CategoryAccessory Category = "accessory"
	CategorySpell     Category = "spell"
)

// Scaling converts a raw attacker stat into bonus damage. Only weapons
// and spells carry non-zero coefficients.
type Scaling struct {
	Strength     float64 `json:"strength,omitempty"`
	Dexterity    float64 `json:"dexterity,omitempty"`
	Intelligence float64 `json:"intelligence,omitempty"`
}

type Item struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Cost     int      `json:"cost"`
	Bonus    Stats    `json:"bonus"`
	Scaling  Scaling  `json:"scaling"`
}

// Economy constants.
const (
	StartingSouls = 2500
	WinBonus      = 2000
	LossBonus     = 1000
)

// RedTearstoneRingID marks the low-health offense accessory: raw damage
// is multiplied by 1.5 while the holder is below 20% of max HP.
const RedTearstoneRingID = "red_tearstone_ring"

// BaseStats is the fixed vector every derived stat block starts from.
var BaseStats = Stats{
	HP:           100,
	Strength:     10,
	Dexterity:    10,
	Intelligence: 10,
	Defense:      5,
	Poise:        0,
}

// CategoryLimits caps how many items of a category one inventory may
// hold; purchases past the cap are rejected.
var CategoryLimits = map[Category]int{
	CategoryWeapon:    2,
	CategoryArmor:     3,
	CategoryAccessory: 2,
	CategorySpell:     2,
}

// Items is the static shop catalog, keyed by item ID.
var Items = map[string]Item{
	"zweihander": {
		ID: "zweihander", Name: "Zweihander", Category: CategoryWeapon, Cost: 900,
		Bonus:   Stats{Strength: 2},
		Scaling: Scaling{Strength: 1.2},
	},
	"estoc": {
		ID: "estoc", Name: "Estoc", Category: CategoryWeapon, Cost: 600,
		Bonus:   Stats{Dexterity: 2},
		Scaling: Scaling{Dexterity: 1.0},
	},
	"uchigatana": {
		ID: "uchigatana", Name: "Uchigatana", Category: CategoryWeapon, Cost: 800,
		Scaling: Scaling{Strength: 0.3, Dexterity: 1.1},
	},
	"havel_set": {
		ID: "havel_set", Name: "Havel's Set", Category: CategoryArmor, Cost: 1200,
		Bonus: Stats{HP: 40, Defense: 8, Poise: 30},
	},
	"knight_set": {
		ID: "knight_set", Name: "Knight Set", Category: CategoryArmor, Cost: 700,
		Bonus: Stats{HP: 20, Defense: 5, Poise: 10},
	},
	"wanderer_set": {
		ID: "wanderer_set", Name: "Wanderer Set", Category: CategoryArmor, Cost: 400,
		Bonus: Stats{HP: 10, Dexterity: 1, Defense: 3, Poise: 4},
	},
	"red_tearstone_ring": {
		ID: "red_tearstone_ring", Name: "Red Tearstone Ring", Category: CategoryAccessory, Cost: 500,
	},
	"havels_ring": {
		ID: "havels_ring", Name: "Havel's Ring", Category: CategoryAccessory, Cost: 600,
		Bonus: Stats{HP: 30, Poise: 10},
	},
	"steel_protection_ring": {
		ID: "steel_protection_ring", Name: "Ring of Steel Protection", Category: CategoryAccessory, Cost: 550,
		Bonus: Stats{Defense: 6},
	},
	"soul_spear": {
		ID: "soul_spear", Name: "Soul Spear", Category: CategorySpell, Cost: 1000,
		Bonus:   Stats{Intelligence: 3},
		Scaling: Scaling{Intelligence: 1.4},
	},
	"great_fireball": {
		ID: "great_fireball", Name: "Great Fireball", Category: CategorySpell, Cost: 750,
		Scaling: Scaling{Strength: 0.2, Intelligence: 1.0},
	},
}
