package npc

import (
	"fmt"

	"github.com/cory-johannsen/rogue/internal/game/combat"
)

// Range is an inclusive integer range.
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// LootTable defines the reward data of an enemy template.
type LootTable struct {
	Experience Range    `yaml:"exp"`
	Gold       Range    `yaml:"gold"`
	DropChance float64  `yaml:"drop_chance"`
	Items      []string `yaml:"items"`
}

// Validate rejects drop chances outside [0, 1] and empty item ids. Negative
// or inverted ranges are accepted and floored by Combat.
func (lt *LootTable) Validate() error {
	if lt.DropChance < 0 || lt.DropChance > 1 {
		return fmt.Errorf("loot table: drop_chance must be in [0, 1], got %v", lt.DropChance)
	}
	for i, id := range lt.Items {
		if id == "" {
			return fmt.Errorf("loot table: items[%d] must be non-empty", i)
		}
	}
	return nil
}

// Combat converts lt into the loot carried by a combatant. Missing data
// becomes the conservative floor: negative bounds become 0 and a max below
// min collapses to min. A nil table yields no loot.
func (lt *LootTable) Combat() combat.Loot {
	if lt == nil {
		return combat.Loot{}
	}
	exp := lt.Experience.floored()
	gold := lt.Gold.floored()
	return combat.Loot{
		ExpMin:     exp.Min,
		ExpMax:     exp.Max,
		GoldMin:    gold.Min,
		GoldMax:    gold.Max,
		DropChance: lt.DropChance,
		Items:      append([]string(nil), lt.Items...),
	}
}

func (r Range) floored() Range {
	if r.Min < 0 {
		r.Min = 0
	}
	if r.Max < r.Min {
		r.Max = r.Min
	}
	return r
}
