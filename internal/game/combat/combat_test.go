package combat_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/rogue/internal/game/combat"
	"github.com/cory-johannsen/rogue/internal/game/condition"
	"github.com/cory-johannsen/rogue/internal/game/skill"
)

func TestParseTier(t *testing.T) {
	for _, tier := range []combat.Tier{combat.TierNormal, combat.TierElite, combat.TierBoss} {
		got, err := combat.ParseTier(tier.String())
		require.NoError(t, err)
		assert.Equal(t, tier, got)
	}
	got, err := combat.ParseTier("")
	require.NoError(t, err)
	assert.Equal(t, combat.TierNormal, got)
	_, err = combat.ParseTier("legendary")
	assert.Error(t, err)
}

func TestCombatant_Validate(t *testing.T) {
	assert.NoError(t, newPlayer().Validate())

	c := newEnemy("a", 10)
	c.Mana = 1
	assert.Error(t, c.Validate(), "mana above max")

	c = newEnemy("a", 10)
	c.Element = "plasma"
	assert.Error(t, c.Validate())

	c = newEnemy("a", 10)
	c.Skills = []*combat.KnownSkill{known(skill.Fallback("x")), known(skill.Fallback("x"))}
	assert.Error(t, c.Validate(), "duplicate skill")
}

func TestCombatant_HealthBounds(t *testing.T) {
	c := newEnemy("a", 20)
	assert.Equal(t, 20, c.TakeDamage(50))
	assert.Equal(t, 0, c.Health)
	assert.Equal(t, 0, c.TakeDamage(-3))

	c = newEnemy("b", 20)
	c.Health = 15
	assert.Equal(t, 5, c.RestoreHealth(10))
	assert.Equal(t, 20, c.Health)
	assert.Equal(t, 0, c.RestoreMana(5), "zero max mana")
}

func TestCombatant_Clone_IsIndependent(t *testing.T) {
	c := newPlayer()
	c.Skills = []*combat.KnownSkill{known(skill.Fallback("strike"))}
	_, err := c.Statuses.Apply(condition.DefendEffect())
	require.NoError(t, err)

	cp := c.Clone()
	cp.Skills[0].CurrentCooldown = 3
	cp.Statuses.Remove(condition.DefendEffect().Key())
	cp.Health = 1

	assert.Equal(t, 0, c.Skills[0].CurrentCooldown)
	assert.Equal(t, 1, c.Statuses.Len())
	assert.Equal(t, 100, c.Health)
}

func TestCombatant_Snapshot(t *testing.T) {
	c := newPlayer()
	c.Skills = []*combat.KnownSkill{{Skill: skill.Fallback("strike"), CurrentCooldown: 2}}
	s := c.Snapshot()
	assert.Equal(t, map[string]int{"strike": 2}, s.Cooldowns)
	assert.False(t, s.Dead)
	assert.Empty(t, s.Statuses)
}

func TestOnCooldownError(t *testing.T) {
	var err error = &combat.OnCooldownError{SkillID: "fireball", TurnsRemaining: 2}
	assert.True(t, errors.Is(err, combat.ErrOnCooldown))
	assert.False(t, errors.Is(err, combat.ErrInsufficientMana))
	assert.Contains(t, err.Error(), "fireball")
	assert.True(t, errors.Is(combat.ErrInvalidTarget, combat.ErrNoValidTarget))
}
