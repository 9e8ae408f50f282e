package inventory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/rogue/internal/game/combat"
	"github.com/cory-johannsen/rogue/internal/game/inventory"
)

func TestBackpack_AddStacks(t *testing.T) {
	bp := inventory.NewBackpack(makeRegistry(t))

	inst, err := bp.Add("potion", 3)
	require.NoError(t, err)
	assert.Equal(t, "potion", inst.ItemDefID)
	assert.NotEmpty(t, inst.InstanceID)
	assert.Equal(t, 3, bp.Count("potion"))
	require.Len(t, bp.Items(), 2, "max_stack 2 splits three potions into two stacks")

	_, err = bp.Add("potion", 1)
	require.NoError(t, err)
	assert.Len(t, bp.Items(), 2)

	_, err = bp.Add("unknown", 1)
	assert.Error(t, err)
	_, err = bp.Add("potion", 0)
	assert.Error(t, err)
}

func TestBackpack_FillIsAtomic(t *testing.T) {
	bp := inventory.NewBackpack(makeRegistry(t))
	assert.Error(t, bp.Fill(map[string]int{"potion": 1, "unknown": 1}))
	assert.Empty(t, bp.Items())

	require.NoError(t, bp.Fill(map[string]int{"ether": 2, "shard": 0, "bomb": 1}))
	assert.Equal(t, 2, bp.Count("ether"))
	assert.Equal(t, 0, bp.Count("shard"))
	assert.Equal(t, []string{"bomb", "ether"}, bp.Usable())
}

func TestBackpack_Use(t *testing.T) {
	bp := inventory.NewBackpack(makeRegistry(t))
	require.NoError(t, bp.Fill(map[string]int{"potion": 1, "shard": 1}))

	var got combat.ItemEffect
	res, err := bp.Use("potion", func(e combat.ItemEffect) (*combat.Result, error) {
		got = e
		return &combat.Result{}, nil
	})
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Equal(t, 30, got.Amount)
	assert.Equal(t, 0, bp.Count("potion"))

	_, err = bp.Use("potion", func(combat.ItemEffect) (*combat.Result, error) {
		t.Fatal("apply must not run without stock")
		return nil, nil
	})
	assert.ErrorIs(t, err, inventory.ErrOutOfStock)

	_, err = bp.Use("shard", func(combat.ItemEffect) (*combat.Result, error) {
		t.Fatal("apply must not run for a trophy")
		return nil, nil
	})
	assert.ErrorIs(t, err, inventory.ErrNotUsable)
	assert.Equal(t, 1, bp.Count("shard"))
}

func TestBackpack_UseKeepsStockWhenBattleRejects(t *testing.T) {
	bp := inventory.NewBackpack(makeRegistry(t))
	require.NoError(t, bp.Fill(map[string]int{"bomb": 1}))
	_, err := bp.Use("bomb", func(combat.ItemEffect) (*combat.Result, error) {
		return nil, combat.ErrActionNotAllowed
	})
	assert.True(t, errors.Is(err, combat.ErrActionNotAllowed))
	assert.Equal(t, 1, bp.Count("bomb"))
}

func TestBackpack_UseInBattle(t *testing.T) {
	bp := inventory.NewBackpack(makeRegistry(t))
	require.NoError(t, bp.Fill(map[string]int{"potion": 1}))
	player := &combat.Combatant{ID: "hero", Name: "Hero", PlayerControlled: true, Level: 1, Health: 50, MaxHealth: 100}
	enemy := &combat.Combatant{ID: "rat", Name: "Rat", Level: 1, Health: 10, MaxHealth: 10}
	b, err := combat.NewBattle(combat.Setup{Player: player, Enemies: []*combat.Combatant{enemy}, Source: stubSource{}})
	require.NoError(t, err)

	res, err := bp.Use("potion", b.UseItem)
	require.NoError(t, err)
	assert.Equal(t, 80, res.Player.Health)
	assert.Equal(t, combat.StateEnemyTurn, res.State)
	assert.Equal(t, 0, bp.Count("potion"))
}

func TestBackpack_AddDrops(t *testing.T) {
	bp := inventory.NewBackpack(makeRegistry(t))
	skipped := bp.AddDrops([]combat.ItemRef{
		{ItemID: "shard", InstanceID: "drop-1"},
		{ItemID: "relic", InstanceID: "drop-2"},
	})
	assert.Equal(t, []string{"relic"}, skipped)
	items := bp.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "drop-1", items[0].InstanceID)
}

func TestProperty_CountMatchesAddsMinusUses(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		reg := inventory.NewRegistry(nil)
		maxStack := rapid.IntRange(0, 5).Draw(rt, "maxStack")
		if err := reg.RegisterItem(&inventory.ItemDef{ID: "p", Name: "P", Kind: inventory.KindHeal, Amount: 1, MaxStack: maxStack}); err != nil {
			rt.Fatal(err)
		}
		bp := inventory.NewBackpack(reg)
		want := 0
		ops := rapid.SliceOfN(rapid.IntRange(-1, 7), 1, 30).Draw(rt, "ops")
		for _, n := range ops {
			if n <= 0 {
				_, err := bp.Use("p", func(combat.ItemEffect) (*combat.Result, error) { return &combat.Result{}, nil })
				if want == 0 && err == nil {
					rt.Fatal("used an item with no stock")
				}
				if want > 0 {
					want--
				}
				continue
			}
			if _, err := bp.Add("p", n); err != nil {
				rt.Fatal(err)
			}
			want += n
		}
		if got := bp.Count("p"); got != want {
			rt.Fatalf("count %d, want %d", got, want)
		}
	})
}

type stubSource struct{}

func (stubSource) Intn(int) int      { return 0 }
func (stubSource) Float64() float64 { return 0.999 }
