package reward_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/rogue/internal/game/combat"
	"github.com/cory-johannsen/rogue/internal/game/dice"
	"github.com/cory-johannsen/rogue/internal/game/reward"
)

// scriptSource replays fixed Intn and Float64 draws in order.
type scriptSource struct {
	ints   []int
	floats []float64
}

func (s *scriptSource) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v >= n {
		return n - 1
	}
	return v
}

func (s *scriptSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.999
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func enemy(tier combat.Tier, level int, loot combat.Loot) *combat.Combatant {
	return &combat.Combatant{ID: "e", Name: "e", Tier: tier, Level: level, Health: 1, MaxHealth: 1, Loot: loot}
}

func TestMultipliers(t *testing.T) {
	exp, gold := reward.Multipliers(combat.TierNormal, 1)
	assert.Equal(t, 1.0, exp)
	assert.Equal(t, 1.0, gold)

	exp, gold = reward.Multipliers(combat.TierElite, 1)
	assert.Equal(t, 2.0, exp)
	assert.Equal(t, 2.0, gold)

	exp, gold = reward.Multipliers(combat.TierBoss, 3)
	assert.InDelta(t, 5.4, exp, 1e-9)
	assert.InDelta(t, 5.2, gold, 1e-9)
}

func TestKillReward_ScalesByTierAndLevel(t *testing.T) {
	src := &scriptSource{ints: []int{5, 2}}
	calc := reward.NewCalculator(reward.DefaultConfig(), src)

	r := calc.KillReward(enemy(combat.TierNormal, 3, combat.Loot{ExpMin: 10, ExpMax: 20, GoldMin: 4, GoldMax: 8}))
	// exp 15 × 1.4, gold 6 × 1.2
	assert.Equal(t, 21, r.Experience)
	assert.Equal(t, 7, r.Gold)
	assert.Empty(t, r.Items)
}

func TestKillReward_BossFlatRanges(t *testing.T) {
	calc := reward.NewCalculator(reward.DefaultConfig(), &scriptSource{})
	r := calc.KillReward(enemy(combat.TierBoss, 1, combat.Loot{ExpMin: 40, ExpMax: 40, GoldMin: 10, GoldMax: 10}))
	assert.Equal(t, 200, r.Experience)
	assert.Equal(t, 50, r.Gold)
}

func TestKillReward_MissingLootYieldsNothing(t *testing.T) {
	calc := reward.NewCalculator(reward.DefaultConfig(), &scriptSource{})
	r := calc.KillReward(enemy(combat.TierElite, 4, combat.Loot{}))
	assert.Zero(t, r.Experience)
	assert.Zero(t, r.Gold)
	assert.Empty(t, r.Items)
}

func TestKillReward_ItemDrop(t *testing.T) {
	loot := combat.Loot{DropChance: 0.3, Items: []string{"potion", "ether", "fire_bomb"}}

	src := &scriptSource{floats: []float64{0.1}, ints: []int{2}}
	calc := reward.NewCalculator(reward.DefaultConfig(), src, reward.WithInstanceIDs(func() string { return "inst-1" }))
	r := calc.KillReward(enemy(combat.TierNormal, 1, loot))
	require.Len(t, r.Items, 1)
	assert.Equal(t, combat.ItemRef{ItemID: "fire_bomb", InstanceID: "inst-1"}, r.Items[0])

	src = &scriptSource{floats: []float64{0.3}}
	calc = reward.NewCalculator(reward.DefaultConfig(), src)
	assert.Empty(t, calc.KillReward(enemy(combat.TierNormal, 1, loot)).Items, "the roll must fall below the chance")
}

func TestKillReward_DefaultInstanceIDsAreUnique(t *testing.T) {
	loot := combat.Loot{DropChance: 1, Items: []string{"potion"}}
	calc := reward.NewCalculator(reward.DefaultConfig(), &scriptSource{floats: []float64{0, 0}})
	a := calc.KillReward(enemy(combat.TierNormal, 1, loot))
	b := calc.KillReward(enemy(combat.TierNormal, 1, loot))
	require.Len(t, a.Items, 1)
	require.Len(t, b.Items, 1)
	assert.NotEmpty(t, a.Items[0].InstanceID)
	assert.NotEqual(t, a.Items[0].InstanceID, b.Items[0].InstanceID)
}

func TestVictoryBonus(t *testing.T) {
	calc := reward.NewCalculator(reward.DefaultConfig(), &scriptSource{})
	normal := []*combat.Combatant{enemy(combat.TierNormal, 1, combat.Loot{})}
	boss := []*combat.Combatant{enemy(combat.TierNormal, 1, combat.Loot{}), enemy(combat.TierBoss, 1, combat.Loot{})}

	assert.Equal(t, combat.Rewards{}, calc.VictoryBonus(combat.Outcome{Victory: true, CriticalHits: 4, TotalDamageDealt: 999}, normal))

	r := calc.VictoryBonus(combat.Outcome{Victory: true}, boss)
	assert.Equal(t, 200, r.Experience)
	assert.Equal(t, 100, r.Gold)

	r = calc.VictoryBonus(combat.Outcome{Victory: true, CriticalHits: 5, TotalDamageDealt: 1000}, boss)
	assert.Equal(t, 350, r.Experience)
	assert.Equal(t, 175, r.Gold)
}

func TestCalculator_InBattleAppliesBonusOnce(t *testing.T) {
	player := &combat.Combatant{
		ID: "hero", Name: "Hero", PlayerControlled: true, Level: 1,
		Stats:  combat.Stats{Attack: 500, Defense: 5, Speed: 10},
		Health: 100, MaxHealth: 100,
	}
	boss := &combat.Combatant{
		ID: "lich", Name: "Lich", Tier: combat.TierBoss, Level: 1,
		Stats:  combat.Stats{Defense: 0},
		Health: 10, MaxHealth: 10,
		Loot:   combat.Loot{ExpMin: 10, ExpMax: 10, GoldMin: 2, GoldMax: 2},
	}
	src := dice.NewSeededSource(7)
	b, err := combat.NewBattle(combat.Setup{
		Player:  player,
		Enemies: []*combat.Combatant{boss},
		Source:  src,
		Rewards: reward.NewCalculator(reward.DefaultConfig(), src),
	})
	require.NoError(t, err)

	res, err := b.Attack()
	require.NoError(t, err)
	require.Equal(t, combat.StateVictory, res.State)
	require.NotNil(t, res.Outcome)
	// kill 10 × 5 + boss clear 200; gold 2 × 5 + 100
	assert.Equal(t, 250, res.Outcome.Rewards.Experience)
	assert.Equal(t, 110, res.Outcome.Rewards.Gold)
}

func TestProperty_KillRewardNonNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		loot := combat.Loot{
			ExpMin:     rapid.IntRange(-50, 100).Draw(rt, "expMin"),
			ExpMax:     rapid.IntRange(-50, 100).Draw(rt, "expMax"),
			GoldMin:    rapid.IntRange(-50, 100).Draw(rt, "goldMin"),
			GoldMax:    rapid.IntRange(-50, 100).Draw(rt, "goldMax"),
			DropChance: rapid.Float64Range(0, 1).Draw(rt, "drop"),
			Items:      rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,8}`), 0, 4).Draw(rt, "items"),
		}
		tier := combat.Tier(rapid.IntRange(0, 2).Draw(rt, "tier"))
		level := rapid.IntRange(1, 60).Draw(rt, "level")
		calc := reward.NewCalculator(reward.DefaultConfig(), dice.NewSeededSource(rapid.Int64().Draw(rt, "seed")))

		var total combat.Rewards
		for i := 0; i < 3; i++ {
			before := total
			total.Add(calc.KillReward(enemy(tier, level, loot)))
			if total.Experience < before.Experience || total.Gold < before.Gold {
				rt.Fatalf("rewards decreased: %+v -> %+v", before, total)
			}
		}
		if total.Experience < 0 || total.Gold < 0 {
			rt.Fatalf("negative rewards: %+v", total)
		}
	})
}
