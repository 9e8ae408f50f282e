// Package inventory resolves consumable items into battle effects and owns
// the player's item stock.
package inventory

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/rogue/internal/game/combat"
)

// Kind constants for ItemDef.Kind.
const (
	KindHeal   = "heal"
	KindMana   = "mana"
	KindBuff   = "buff"
	KindDamage = "damage"
	// KindTrophy items are carried but never used in battle.
	KindTrophy = "trophy"
)

var usableKinds = map[string]combat.ItemKind{
	KindHeal:   combat.ItemHeal,
	KindMana:   combat.ItemMana,
	KindBuff:   combat.ItemBuff,
	KindDamage: combat.ItemDamage,
}

// DefaultMaxStack is used when an item declares no max_stack.
const DefaultMaxStack = 99

// ItemDef defines the static properties of an item loaded from YAML.
type ItemDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Kind        string `yaml:"kind"`
	// Amount is the health or mana restored, or the damage dealt to each enemy.
	Amount int `yaml:"amount"`
	// Status is the status catalog id applied to the player by buff items.
	Status   string `yaml:"status"`
	MaxStack int    `yaml:"max_stack"`
}

// Usable reports whether d can be consumed in battle.
func (d *ItemDef) Usable() bool {
	_, ok := usableKinds[d.Kind]
	return ok
}

// Validate checks that the ItemDef satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *ItemDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if _, ok := usableKinds[d.Kind]; !ok && d.Kind != KindTrophy {
		errs = append(errs, fmt.Errorf("kind must be one of heal, mana, buff, damage, trophy; got %q", d.Kind))
	}
	switch d.Kind {
	case KindHeal, KindMana, KindDamage:
		if d.Amount <= 0 {
			errs = append(errs, fmt.Errorf("amount must be > 0 for %s items", d.Kind))
		}
	case KindBuff:
		if d.Status == "" {
			errs = append(errs, errors.New("status is required for buff items"))
		}
	}
	if d.MaxStack < 0 {
		errs = append(errs, errors.New("max_stack must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item %q: %w", d.ID, errors.Join(errs...))
	}
	return nil
}

func (d *ItemDef) maxStack() int {
	if d.MaxStack <= 0 {
		return DefaultMaxStack
	}
	return d.MaxStack
}
