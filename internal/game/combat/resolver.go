package combat

import (
	"math"

	"github.com/cory-johannsen/rogue/internal/game/condition"
	"github.com/cory-johannsen/rogue/internal/game/skill"
)

// HealResult is the health actually restored by one heal operation.
type HealResult struct {
	Amount int
}

// SkillOutcome is one operation performed against one target by a skill.
// Exactly one of Damage, Heal or Status is set.
type SkillOutcome struct {
	Target *Combatant
	Damage *DamageResult
	Heal   *HealResult
	Status *condition.Effect
}

// Applier performs the state changes a skill resolution requests. The battle
// implements it so that death bookkeeping and notifications stay in one place.
type Applier interface {
	ApplyDamage(source, target *Combatant, r DamageResult)
	ApplyHeal(source, target *Combatant, amount int) HealResult
	ApplyStatus(source, target *Combatant, e condition.Effect) error
}

// Resolver maps a skill's target type and effect kind onto damage, heal and
// status operations.
type Resolver struct {
	calc       *Calculator
	critChance float64
}

// NewResolver creates a Resolver using calc and the base crit chance.
//
// Precondition: calc must be non-nil.
func NewResolver(calc *Calculator, critChance float64) *Resolver {
	return &Resolver{calc: calc, critChance: critChance}
}

// effectiveShape returns the target type and effect kind actually used.
// Skills of unknown kind become a plain multiplier hit: area-wide when declared
// area, otherwise single target.
func effectiveShape(s skill.Skill) (skill.TargetType, skill.EffectKind) {
	if s.Effect != skill.EffectUnknown {
		return s.Target, s.Effect
	}
	if s.Target == skill.AreaAllEnemies {
		return skill.AreaAllEnemies, skill.EffectDamage
	}
	return skill.SingleEnemy, skill.EffectDamage
}

// Targets returns the combatants s would affect, in application order, without
// changing any state. It is used to validate a command before paying its cost.
//
// Postcondition: Returns ErrNoValidTarget when target is nil, ErrInvalidTarget
// when a single-target skill names a dead target, and ErrNoValidTarget when an
// area skill has no living enemy.
func (r *Resolver) Targets(s skill.Skill, caster *Combatant, enemies []*Combatant, target *Combatant) ([]*Combatant, error) {
	tt, _ := effectiveShape(s)
	switch tt {
	case skill.Self:
		return []*Combatant{caster}, nil
	case skill.AreaAllEnemies:
		var alive []*Combatant
		for _, e := range enemies {
			if e.IsAlive() {
				alive = append(alive, e)
			}
		}
		if len(alive) == 0 {
			return nil, ErrNoValidTarget
		}
		return alive, nil
	default:
		if target == nil {
			return nil, ErrNoValidTarget
		}
		if target.IsDead() {
			return nil, ErrInvalidTarget
		}
		return []*Combatant{target}, nil
	}
}

// Resolve performs s cast by caster. enemies is the caster's opposing side in
// list order; target is the current single target. Area operations are applied
// in list order and each target's liveness is checked immediately before its
// operation, so a combatant killed earlier in the same resolution is skipped.
//
// Precondition: apply must be non-nil.
// Postcondition: Returns the operations performed, or the Targets error with no
// state changed.
func (r *Resolver) Resolve(s skill.Skill, caster *Combatant, enemies []*Combatant, target *Combatant, apply Applier) ([]SkillOutcome, error) {
	targets, err := r.Targets(s, caster, enemies, target)
	if err != nil {
		return nil, err
	}
	_, kind := effectiveShape(s)

	var out []SkillOutcome
	for _, t := range targets {
		if t.IsDead() {
			continue
		}
		switch kind {
		case skill.EffectDamage:
			dr := r.calc.Compute(caster, t, Hit{
				Multiplier: s.EffectiveMultiplier(),
				CritChance: r.critChance + s.CritBonus,
				Element:    s.Element,
			})
			apply.ApplyDamage(caster, t, dr)
			out = append(out, SkillOutcome{Target: t, Damage: &dr})
		case skill.EffectHeal:
			amount := s.Heal + int(math.Round(s.HealPercent*float64(t.MaxHealth)))
			hr := apply.ApplyHeal(caster, t, amount)
			out = append(out, SkillOutcome{Target: t, Heal: &hr})
		}
		if s.Status != nil && t.IsAlive() {
			e := *s.Status
			if err := apply.ApplyStatus(caster, t, e); err == nil {
				out = append(out, SkillOutcome{Target: t, Status: &e})
			}
		}
	}
	return out, nil
}
