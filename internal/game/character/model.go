// Package character defines the persisted player profile and builds the
// battle-ready player combatant from it.
package character

import (
	"fmt"

	"github.com/cory-johannsen/rogue/internal/game/element"
)

// StatBlock holds the five numeric stats a profile contributes.
type StatBlock struct {
	MaxHP   int `yaml:"max_hp"`
	MaxMana int `yaml:"max_mana"`
	Attack  int `yaml:"attack"`
	Defense int `yaml:"defense"`
	Speed   int `yaml:"speed"`
}

func (s StatBlock) plus(o StatBlock) StatBlock {
	return StatBlock{
		MaxHP:   s.MaxHP + o.MaxHP,
		MaxMana: s.MaxMana + o.MaxMana,
		Attack:  s.Attack + o.Attack,
		Defense: s.Defense + o.Defense,
		Speed:   s.Speed + o.Speed,
	}
}

func (s StatBlock) times(n int) StatBlock {
	return StatBlock{
		MaxHP:   s.MaxHP * n,
		MaxMana: s.MaxMana * n,
		Attack:  s.Attack * n,
		Defense: s.Defense * n,
		Speed:   s.Speed * n,
	}
}

// Equipment is one equipped item and its stat contributions. Contributions
// may be negative.
type Equipment struct {
	Slot      string `yaml:"slot"`
	Name      string `yaml:"name"`
	StatBlock `yaml:",inline"`
}

// Profile is a player's persistent state as loaded from disk.
type Profile struct {
	ID      string      `yaml:"id"`
	Name    string      `yaml:"name"`
	Level   int         `yaml:"level"`
	Element element.Tag `yaml:"element"`
	// Base holds the level 1 stats; Growth is added once per level above 1.
	Base      StatBlock   `yaml:"base"`
	Growth    StatBlock   `yaml:"growth"`
	Equipment []Equipment `yaml:"equipment"`
	Skills    []string    `yaml:"skills"`
	// Ultimate is an optional skill id usable in addition to Skills.
	Ultimate string `yaml:"ultimate"`
	// Backpack maps consumable item ids to counts.
	Backpack map[string]int `yaml:"backpack"`
}

// Validate checks that p can be turned into a combatant.
//
// Postcondition: Returns nil iff ID and Name are set, Level >= 1, base
// max_hp >= 1, growth is non-negative, each equipment slot is used at most
// once and backpack counts are non-negative.
func (p *Profile) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("profile: id must not be empty")
	}
	if p.Name == "" {
		return fmt.Errorf("profile %q: name must not be empty", p.ID)
	}
	if p.Level < 1 {
		return fmt.Errorf("profile %q: level must be >= 1, got %d", p.ID, p.Level)
	}
	if p.Base.MaxHP < 1 {
		return fmt.Errorf("profile %q: base max_hp must be >= 1", p.ID)
	}
	g := p.Growth
	if g.MaxHP < 0 || g.MaxMana < 0 || g.Attack < 0 || g.Defense < 0 || g.Speed < 0 {
		return fmt.Errorf("profile %q: growth must be >= 0", p.ID)
	}
	if p.Element != "" && !p.Element.Valid() {
		return fmt.Errorf("profile %q: unknown element %q", p.ID, p.Element)
	}
	slots := make(map[string]bool, len(p.Equipment))
	for i, eq := range p.Equipment {
		if eq.Slot == "" {
			return fmt.Errorf("profile %q: equipment[%d] slot must not be empty", p.ID, i)
		}
		if slots[eq.Slot] {
			return fmt.Errorf("profile %q: slot %q equipped twice", p.ID, eq.Slot)
		}
		slots[eq.Slot] = true
	}
	for id, n := range p.Backpack {
		if n < 0 {
			return fmt.Errorf("profile %q: backpack count for %q must be >= 0", p.ID, id)
		}
	}
	return nil
}

// Stats returns the profile's total stats at its level including equipment.
func (p *Profile) Stats() StatBlock {
	total := p.Base.plus(p.Growth.times(p.Level - 1))
	for _, eq := range p.Equipment {
		total = total.plus(eq.StatBlock)
	}
	return total
}
