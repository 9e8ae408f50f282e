package combat_test

import (
	"github.com/cory-johannsen/rogue/internal/game/combat"
	"github.com/cory-johannsen/rogue/internal/game/condition"
	"github.com/cory-johannsen/rogue/internal/game/element"
	"github.com/cory-johannsen/rogue/internal/game/skill"
)

// fixedSource returns the same draw every time and counts calls.
type fixedSource struct {
	f     float64
	n     int
	calls int
}

func (s *fixedSource) Intn(n int) int {
	s.calls++
	if s.n >= n {
		return n - 1
	}
	return s.n
}

func (s *fixedSource) Float64() float64 {
	s.calls++
	return s.f
}

// noCrit never rolls a crit, never flees and always picks the first option.
func noCrit() *fixedSource { return &fixedSource{f: 0.999} }

// panicSource fails the test if any roll is made.
type panicSource struct{}

func (panicSource) Intn(int) int      { panic("unexpected Intn draw") }
func (panicSource) Float64() float64 { panic("unexpected Float64 draw") }

func newPlayer() *combat.Combatant {
	return &combat.Combatant{
		ID:               "hero",
		Name:             "Hero",
		PlayerControlled: true,
		Level:            1,
		Stats:            combat.Stats{Attack: 20, Defense: 5, Speed: 10},
		Health:           100,
		MaxHealth:        100,
		Mana:             30,
		MaxMana:          30,
		Element:          element.Neutral,
		Statuses:         condition.NewActiveSet(),
	}
}

func newEnemy(id string, hp int) *combat.Combatant {
	return &combat.Combatant{
		ID:        id,
		Name:      id,
		Tier:      combat.TierNormal,
		Level:     1,
		Stats:     combat.Stats{Attack: 10, Defense: 10, Speed: 5},
		Health:    hp,
		MaxHealth: hp,
		Element:   element.Neutral,
		Statuses:  condition.NewActiveSet(),
		Loot:      combat.Loot{ExpMin: 10, ExpMax: 10, GoldMin: 5, GoldMax: 5},
	}
}

func known(s skill.Skill) *combat.KnownSkill {
	return &combat.KnownSkill{Skill: s}
}

func damageSkill(id string, mana, cooldown int, target skill.TargetType, mult float64) skill.Skill {
	return skill.Skill{
		ID: id, Name: id, ManaCost: mana, Cooldown: cooldown,
		Target: target, Effect: skill.EffectDamage, Multiplier: mult,
	}
}

// countingRewards returns fixed amounts and records every call.
type countingRewards struct {
	kills   []string
	bonuses int
	bonus   combat.Rewards
}

func (r *countingRewards) KillReward(enemy *combat.Combatant) combat.Rewards {
	r.kills = append(r.kills, enemy.ID)
	return combat.Rewards{Experience: 10, Gold: 5}
}

func (r *countingRewards) VictoryBonus(combat.Outcome, []*combat.Combatant) combat.Rewards {
	r.bonuses++
	return r.bonus
}
