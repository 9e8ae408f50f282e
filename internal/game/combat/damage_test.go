package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/rogue/internal/game/combat"
	"github.com/cory-johannsen/rogue/internal/game/condition"
	"github.com/cory-johannsen/rogue/internal/game/element"
)

func TestCompute_NeutralNoCrit(t *testing.T) {
	calc := combat.NewCalculator(nil, noCrit())
	atk := newPlayer()
	def := newEnemy("slime", 50)

	dr := calc.Compute(atk, def, combat.BasicHit(0))
	assert.Equal(t, 18, dr.Amount)
	assert.False(t, dr.IsCritical)
	assert.Equal(t, element.Neutral, dr.Element)
	assert.Equal(t, 1.0, dr.ElementalMultiplier)
}

func TestCompute_CritMultiplies(t *testing.T) {
	calc := combat.NewCalculator(nil, &fixedSource{f: 0.05})
	dr := calc.Compute(newPlayer(), newEnemy("slime", 50), combat.BasicHit(0.1))
	require.True(t, dr.IsCritical)
	// 20 × 100/110 × 1.5 = 27.27
	assert.Equal(t, 27, dr.Amount)
}

func TestCompute_ElementalMultiplier(t *testing.T) {
	table, err := element.NewTable(map[element.Tag]map[element.Tag]float64{
		element.Fire: {element.Ice: 1.5},
	})
	require.NoError(t, err)
	calc := combat.NewCalculator(table, noCrit())
	atk := newPlayer()
	def := newEnemy("yeti", 50)
	def.Element = element.Ice

	dr := calc.Compute(atk, def, combat.Hit{Multiplier: 1, Element: element.Fire})
	assert.Equal(t, element.Fire, dr.Element)
	assert.Equal(t, 1.5, dr.ElementalMultiplier)
	// 18.18 × 1.5 = 27.27
	assert.Equal(t, 27, dr.Amount)

	atk.Element = element.Fire
	dr = calc.Compute(atk, def, combat.BasicHit(0))
	assert.Equal(t, element.Fire, dr.Element, "attacker element is used when the hit has none")
}

func TestCompute_UsesEffectiveStats(t *testing.T) {
	calc := combat.NewCalculator(nil, noCrit())
	atk := newPlayer()
	def := newEnemy("slime", 50)
	_, err := def.Statuses.Apply(condition.DefendEffect())
	require.NoError(t, err)

	// 20 × 100/120 = 16.67
	assert.Equal(t, 17, calc.Compute(atk, def, combat.BasicHit(0)).Amount)
}

func TestCompute_ZeroAttackStillHitsForOne(t *testing.T) {
	calc := combat.NewCalculator(nil, noCrit())
	atk := newPlayer()
	atk.Stats.Attack = 0
	assert.Equal(t, 1, calc.Compute(atk, newEnemy("slime", 50), combat.BasicHit(0)).Amount)
}

func TestProperty_Compute_AmountAtLeastOne(t *testing.T) {
	tags := element.All
	table, err := element.NewTable(map[element.Tag]map[element.Tag]float64{
		element.Holy: {element.Holy: 0.01},
	})
	require.NoError(t, err)
	rapid.Check(t, func(rt *rapid.T) {
		atk := newPlayer()
		atk.Stats.Attack = rapid.IntRange(0, 1000).Draw(rt, "attack")
		atk.Element = rapid.SampledFrom(tags).Draw(rt, "attackElement")
		def := newEnemy("e", 50)
		def.Stats.Defense = rapid.IntRange(0, 100000).Draw(rt, "defense")
		def.Element = rapid.SampledFrom(tags).Draw(rt, "defenseElement")
		src := &fixedSource{f: rapid.Float64Range(0, 0.999).Draw(rt, "draw")}
		hit := combat.Hit{
			Multiplier: rapid.Float64Range(0, 5).Draw(rt, "multiplier"),
			CritChance: rapid.Float64Range(0, 1).Draw(rt, "crit"),
		}
		dr := combat.NewCalculator(table, src).Compute(atk, def, hit)
		if dr.Amount < 1 {
			rt.Fatalf("amount %d < 1", dr.Amount)
		}
	})
}
