// Package ai provides enemy action selection policies for the battle engine.
// Every policy implements combat.ActionSelector, so the turn controller never
// depends on how an enemy decides.
package ai

import (
	"github.com/cory-johannsen/rogue/internal/game/combat"
	"github.com/cory-johannsen/rogue/internal/game/dice"
)

// Default skill-use probabilities.
const (
	DefaultBossSkillChance = 0.4
	DefaultSkillChance     = 0.2
)

// RandomSelector uses a ready skill with a fixed probability, higher for
// bosses, and otherwise attacks. Enemies are cooldown-gated only; mana is not
// checked.
type RandomSelector struct {
	src         dice.Source
	bossChance  float64
	skillChance float64
}

// NewRandomSelector creates a RandomSelector.
//
// Precondition: src must be non-nil; chances in [0, 1].
func NewRandomSelector(src dice.Source, bossChance, skillChance float64) *RandomSelector {
	return &RandomSelector{src: src, bossChance: bossChance, skillChance: skillChance}
}

// ChooseAction draws once when enemy has a ready skill; below the tier's
// chance it picks uniformly among ready skills. No draw is made when no skill
// is ready.
//
// Postcondition: a returned skill is always ready.
func (r *RandomSelector) ChooseAction(enemy *combat.Combatant) combat.Action {
	ready := enemy.ReadySkills()
	if len(ready) == 0 {
		return combat.Action{Kind: combat.ActionBasicAttack}
	}
	chance := r.skillChance
	if enemy.Tier == combat.TierBoss {
		chance = r.bossChance
	}
	if !dice.Roll(r.src, chance) {
		return combat.Action{Kind: combat.ActionBasicAttack}
	}
	return combat.Action{Kind: combat.ActionUseSkill, Skill: ready[r.src.Intn(len(ready))]}
}
