package skill_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/rogue/internal/game/condition"
	"github.com/cory-johannsen/rogue/internal/game/element"
	"github.com/cory-johannsen/rogue/internal/game/skill"
)

func statuses() *condition.Registry {
	reg := condition.NewRegistry()
	reg.Register(&condition.Def{ID: "burn", Name: "Burn", Type: "burn", Duration: 2, Tick: 8})
	return reg
}

func TestDef_Build_ResolvesStatus(t *testing.T) {
	s, err := skill.Def{
		ID: "fireball", ManaCost: 20, Cooldown: 3,
		Target: "area_all_enemies", Effect: "damage", Multiplier: 1.2, Element: "fire", Status: "burn",
	}.Build(statuses())
	require.NoError(t, err)
	assert.Equal(t, skill.AreaAllEnemies, s.Target)
	assert.Equal(t, skill.EffectDamage, s.Effect)
	assert.Equal(t, element.Fire, s.Element)
	require.NotNil(t, s.Status)
	assert.Equal(t, condition.Burn, s.Status.Type)
	assert.Equal(t, "fireball", s.Name, "name defaults to id")
}

func TestDef_Build_DefaultsToSingleEnemy(t *testing.T) {
	s, err := skill.Def{ID: "jab", Effect: "damage"}.Build(nil)
	require.NoError(t, err)
	assert.Equal(t, skill.SingleEnemy, s.Target)
}

func TestDef_Build_UnknownEffectKindStillLoads(t *testing.T) {
	s, err := skill.Def{ID: "teleport_strike", Effect: "teleport", Multiplier: 1.4}.Build(nil)
	require.NoError(t, err)
	assert.Equal(t, skill.EffectUnknown, s.Effect)
}

func TestDef_Build_Rejects(t *testing.T) {
	cases := map[string]skill.Def{
		"negative mana":     {ID: "x", ManaCost: -1},
		"negative cooldown": {ID: "x", Cooldown: -2},
		"unknown target":    {ID: "x", Target: "everyone"},
		"unknown status":    {ID: "x", Status: "petrify"},
		"unknown element":   {ID: "x", Element: "plasma"},
		"status w/o status": {ID: "x", Effect: "status"},
		"empty id":          {},
	}
	for name, d := range cases {
		d := d
		t.Run(name, func(t *testing.T) {
			_, err := d.Build(statuses())
			assert.Error(t, err)
		})
	}
}

func TestRegistry_Resolve_FallsBackForUnknownID(t *testing.T) {
	reg := skill.NewRegistry()
	s, known := reg.Resolve("meteor")
	assert.False(t, known)
	assert.Equal(t, "meteor", s.ID)
	assert.Equal(t, skill.EffectDamage, s.Effect)
	assert.Equal(t, skill.SingleEnemy, s.Target)
	assert.Equal(t, skill.DefaultMultiplier, s.EffectiveMultiplier())
	assert.NoError(t, s.Validate())
}

func TestLoadDirectory_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	doc := `
- id: ember
  mana_cost: 5
  cooldown: 1
  effect: damage
  multiplier: 1.1
  element: fire
  status: burn
- id: mend
  target: self
  effect: heal
  heal: 12
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "basic.yaml"), []byte(doc), 0644))
	reg, err := skill.LoadDirectory(dir, statuses())
	require.NoError(t, err)
	assert.Equal(t, []string{"ember", "mend"}, reg.IDs())
	mend, ok := reg.Get("mend")
	require.True(t, ok)
	assert.Equal(t, skill.EffectHeal, mend.Effect)
	assert.Equal(t, 12, mend.Heal)
}

func TestLoadDirectory_UnknownField_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("- id: x\n  range: 5\n"), 0644))
	_, err := skill.LoadDirectory(dir, statuses())
	assert.Error(t, err)
}

func TestLoadDirectory_RealSkills(t *testing.T) {
	st, err := condition.LoadDirectory("../../../content/statuses")
	require.NoError(t, err)
	reg, err := skill.LoadDirectory("../../../content/skills", st)
	require.NoError(t, err)
	for _, id := range []string{"power_strike", "fireball", "war_cry", "second_wind", "judgement", "bite", "toxic_spit", "harden"} {
		_, ok := reg.Get(id)
		assert.True(t, ok, "skill %q must be present", id)
	}
	j, _ := reg.Get("judgement")
	assert.True(t, j.Ultimate)
}

func TestPropertySkill_ValidateRejectsNegativeCosts(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		mana := rapid.IntRange(-10, 10).Draw(rt, "mana")
		cd := rapid.IntRange(-10, 10).Draw(rt, "cooldown")
		err := skill.Skill{ID: "s", ManaCost: mana, Cooldown: cd}.Validate()
		if mana < 0 || cd < 0 {
			assert.Error(rt, err)
		} else {
			assert.NoError(rt, err)
		}
	})
}
