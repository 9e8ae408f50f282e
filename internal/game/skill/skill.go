// Package skill defines declarative combat skills and the catalog they are loaded from.
package skill

import (
	"fmt"

	"github.com/cory-johannsen/rogue/internal/game/condition"
	"github.com/cory-johannsen/rogue/internal/game/element"
)

// TargetType selects who a skill affects.
type TargetType int

const (
	SingleEnemy TargetType = iota
	AreaAllEnemies
	Self
)

var targetNames = map[TargetType]string{
	SingleEnemy:    "single_enemy",
	AreaAllEnemies: "area_all_enemies",
	Self:           "self",
}

// String returns the catalog name of the target type.
func (t TargetType) String() string {
	if s, ok := targetNames[t]; ok {
		return s
	}
	return "unknown"
}

// ParseTargetType converts a catalog name into a TargetType.
func ParseTargetType(s string) (TargetType, error) {
	for t, name := range targetNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown target type %q", s)
}

// EffectKind is the small closed set of things a skill can do. New content is
// expressed by choosing a kind and its numeric parameters, never by new code.
type EffectKind int

const (
	// EffectUnknown is the zero value; it resolves as a plain multiplier hit.
	EffectUnknown EffectKind = iota
	// EffectDamage deals Multiplier-scaled damage, then applies Status (if any) to survivors.
	EffectDamage
	// EffectHeal restores Heal + HealPercent×maxHealth to each target, then applies Status.
	EffectHeal
	// EffectStatus applies Status to each target without dealing damage.
	EffectStatus
)

var effectNames = map[EffectKind]string{
	EffectDamage: "damage",
	EffectHeal:   "heal",
	EffectStatus: "status",
}

// String returns the catalog name of the effect kind.
func (k EffectKind) String() string {
	if s, ok := effectNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseEffectKind converts a catalog name into an EffectKind. Unrecognised
// names map to EffectUnknown rather than failing, so newer content still loads.
func ParseEffectKind(s string) EffectKind {
	for k, name := range effectNames {
		if name == s {
			return k
		}
	}
	return EffectUnknown
}

// Skill is a fully resolved, immutable skill descriptor.
//
// Invariant: ManaCost >= 0; Cooldown >= 0.
type Skill struct {
	ID          string
	Name        string
	ManaCost    int
	Cooldown    int
	Target      TargetType
	Effect      EffectKind
	Multiplier  float64
	Element     element.Tag // empty = use the caster's element
	CritBonus   float64     // added to the base crit chance
	Heal        int
	HealPercent float64
	Status      *condition.Effect
	Ultimate    bool
}

// DefaultMultiplier is used by the fallback hit when a skill declares no multiplier.
const DefaultMultiplier = 1.0

// Validate checks the invariants that indicate malformed upstream data.
func (s Skill) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("skill: id must not be empty")
	}
	if s.ManaCost < 0 {
		return fmt.Errorf("skill %q: mana cost must be >= 0, got %d", s.ID, s.ManaCost)
	}
	if s.Cooldown < 0 {
		return fmt.Errorf("skill %q: cooldown must be >= 0, got %d", s.ID, s.Cooldown)
	}
	if s.Multiplier < 0 {
		return fmt.Errorf("skill %q: multiplier must be >= 0, got %v", s.ID, s.Multiplier)
	}
	if s.Element != "" && !s.Element.Valid() {
		return fmt.Errorf("skill %q: unknown element %q", s.ID, s.Element)
	}
	if s.Effect == EffectStatus && s.Status == nil {
		return fmt.Errorf("skill %q: status effect kind requires a status", s.ID)
	}
	return nil
}

// EffectiveMultiplier returns Multiplier, or DefaultMultiplier when unset.
func (s Skill) EffectiveMultiplier() float64 {
	if s.Multiplier <= 0 {
		return DefaultMultiplier
	}
	return s.Multiplier
}

// Fallback returns the generic single-target hit used for skill ids the
// catalog does not know.
//
// Postcondition: Returns a valid Skill with no cost and no cooldown.
func Fallback(id string) Skill {
	return Skill{
		ID:         id,
		Name:       id,
		Target:     SingleEnemy,
		Effect:     EffectDamage,
		Multiplier: DefaultMultiplier,
	}
}
