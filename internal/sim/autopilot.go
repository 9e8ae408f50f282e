package sim

import (
	"github.com/cory-johannsen/rogue/internal/game/combat"
	"github.com/cory-johannsen/rogue/internal/game/inventory"
	"github.com/cory-johannsen/rogue/internal/game/skill"
)

// Autopilot is a simple greedy player policy used to exercise the engine.
type Autopilot struct {
	// HealBelow is the health fraction under which healing is preferred.
	HealBelow float64
	// FleeBelow is the health fraction under which a non-boss battle is
	// abandoned when no healing is available.
	FleeBelow float64
}

// DefaultAutopilot heals under 35% health and flees under 15%.
func DefaultAutopilot() Autopilot {
	return Autopilot{HealBelow: 0.35, FleeBelow: 0.15}
}

// Act issues exactly one accepted player command.
//
// Precondition: b is in PlayerTurn.
func (a Autopilot) Act(b *combat.Battle, bp *inventory.Backpack) (*combat.Result, error) {
	p := b.Player()
	living := b.LivingEnemies()

	if t := weakest(living); t != nil && t != b.Target() {
		if _, err := b.SelectTarget(t.ID); err != nil {
			return nil, err
		}
	}

	hp := float64(p.Health) / float64(p.MaxHealth)
	if hp < a.HealBelow {
		if res, ok := a.heal(b, bp); ok {
			return res, nil
		}
		if hp < a.FleeBelow && !b.IsBossBattle() {
			return b.AttemptFlee()
		}
	}
	if p.MaxMana > 0 && p.Mana*5 < p.MaxMana && bp != nil && bp.Count("ether") > 0 {
		if res, err := bp.Use("ether", b.UseItem); err == nil {
			return res, nil
		}
	}
	if k := a.chooseSkill(p, len(living)); k != nil {
		if res, err := b.UseSkill(k.ID); err == nil {
			return res, nil
		}
	}
	return b.Attack()
}

func (a Autopilot) heal(b *combat.Battle, bp *inventory.Backpack) (*combat.Result, bool) {
	p := b.Player()
	for _, k := range p.Skills {
		if k.Effect == skill.EffectHeal && usable(p, k) {
			if res, err := b.UseSkill(k.ID); err == nil {
				return res, true
			}
		}
	}
	if bp == nil {
		return nil, false
	}
	missing := p.MaxHealth - p.Health
	for _, id := range healOrder(missing) {
		if bp.Count(id) == 0 {
			continue
		}
		if res, err := bp.Use(id, b.UseItem); err == nil {
			return res, true
		}
	}
	return nil, false
}

// healOrder prefers the large potion only when most of it would land.
func healOrder(missing int) []string {
	if missing >= 70 {
		return []string{"potion", "minor_potion"}
	}
	return []string{"minor_potion", "potion"}
}

func (a Autopilot) chooseSkill(p *combat.Combatant, living int) *combat.KnownSkill {
	var best *combat.KnownSkill
	bestScore := 0.0
	for _, k := range p.Skills {
		if !usable(p, k) {
			continue
		}
		score := 0.0
		switch {
		case k.Ultimate && living >= 2:
			score = 100
		case k.Effect == skill.EffectStatus && k.Target == skill.Self:
			if k.Status != nil && !p.Statuses.Has(k.Status.Key()) {
				score = 3
			}
		case k.Effect == skill.EffectDamage && k.Target == skill.AreaAllEnemies:
			score = k.EffectiveMultiplier() * float64(living)
		case k.Effect == skill.EffectDamage:
			score = k.EffectiveMultiplier()
			if k.Status != nil {
				score += 0.25
			}
		}
		if score > bestScore {
			best, bestScore = k, score
		}
	}
	return best
}

func usable(p *combat.Combatant, k *combat.KnownSkill) bool {
	return k.Ready() && k.ManaCost <= p.Mana
}

func weakest(enemies []*combat.Combatant) *combat.Combatant {
	var out *combat.Combatant
	for _, e := range enemies {
		if out == nil || e.Health < out.Health {
			out = e
		}
	}
	return out
}
