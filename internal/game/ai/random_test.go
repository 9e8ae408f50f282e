package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/rogue/internal/game/ai"
	"github.com/cory-johannsen/rogue/internal/game/combat"
	"github.com/cory-johannsen/rogue/internal/game/condition"
	"github.com/cory-johannsen/rogue/internal/game/dice"
	"github.com/cory-johannsen/rogue/internal/game/skill"
)

// stubSource replays fixed draws and counts them.
type stubSource struct {
	f      float64
	i      int
	floats int
	ints   int
}

func (s *stubSource) Intn(n int) int {
	s.ints++
	return s.i % n
}

func (s *stubSource) Float64() float64 {
	s.floats++
	return s.f
}

func enemyWith(tier combat.Tier, skills ...*combat.KnownSkill) *combat.Combatant {
	return &combat.Combatant{
		ID: "wolf", Name: "Wolf", Tier: tier, Level: 2,
		Health: 30, MaxHealth: 40,
		Stats:    combat.Stats{Attack: 8, Defense: 4, Speed: 6},
		Statuses: condition.NewActiveSet(),
		Skills:   skills,
		AIHook:   "wolf_ai",
	}
}

func ks(id string, cooldown int) *combat.KnownSkill {
	return &combat.KnownSkill{Skill: skill.Fallback(id), CurrentCooldown: cooldown}
}

func TestRandomSelector_NoReadySkillsDoesNotDraw(t *testing.T) {
	src := &stubSource{f: 0}
	sel := ai.NewRandomSelector(src, ai.DefaultBossSkillChance, ai.DefaultSkillChance)
	a := sel.ChooseAction(enemyWith(combat.TierBoss, ks("bite", 2)))
	assert.Equal(t, combat.ActionBasicAttack, a.Kind)
	assert.Nil(t, a.Skill)
	assert.Zero(t, src.floats+src.ints)
}

func TestRandomSelector_TierThresholds(t *testing.T) {
	cases := []struct {
		tier combat.Tier
		draw float64
		want combat.ActionKind
	}{
		{combat.TierNormal, 0.19, combat.ActionUseSkill},
		{combat.TierNormal, 0.2, combat.ActionBasicAttack},
		{combat.TierElite, 0.3, combat.ActionBasicAttack},
		{combat.TierBoss, 0.39, combat.ActionUseSkill},
		{combat.TierBoss, 0.4, combat.ActionBasicAttack},
	}
	for _, tc := range cases {
		sel := ai.NewRandomSelector(&stubSource{f: tc.draw}, ai.DefaultBossSkillChance, ai.DefaultSkillChance)
		a := sel.ChooseAction(enemyWith(tc.tier, ks("bite", 0)))
		assert.Equal(t, tc.want, a.Kind, "%s draw %v", tc.tier, tc.draw)
	}
}

func TestRandomSelector_PicksAmongReadySkillsOnly(t *testing.T) {
	src := &stubSource{f: 0, i: 1}
	sel := ai.NewRandomSelector(src, 1, 1)
	a := sel.ChooseAction(enemyWith(combat.TierNormal, ks("bite", 0), ks("howl", 3), ks("maul", 0)))
	require.Equal(t, combat.ActionUseSkill, a.Kind)
	assert.Equal(t, "maul", a.Skill.ID)
	assert.Equal(t, 1, src.ints)
}

func TestProperty_RandomSelector_ChosenSkillIsReady(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 5).Draw(rt, "skills")
		var skills []*combat.KnownSkill
		for i := 0; i < n; i++ {
			skills = append(skills, ks(string(rune('a'+i)), rapid.IntRange(0, 2).Draw(rt, "cd")))
		}
		tier := combat.Tier(rapid.IntRange(0, 2).Draw(rt, "tier"))
		sel := ai.NewRandomSelector(dice.NewSeededSource(rapid.Int64().Draw(rt, "seed")), ai.DefaultBossSkillChance, ai.DefaultSkillChance)
		a := sel.ChooseAction(enemyWith(tier, skills...))
		if a.Kind == combat.ActionUseSkill && (a.Skill == nil || !a.Skill.Ready()) {
			rt.Fatalf("selected skill not ready: %+v", a.Skill)
		}
		if a.Kind == combat.ActionBasicAttack && a.Skill != nil {
			rt.Fatalf("basic attack carries a skill")
		}
	})
}
