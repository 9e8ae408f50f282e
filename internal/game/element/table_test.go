package element_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/rogue/internal/game/element"
)

func TestTable_Multiplier_ListedPair(t *testing.T) {
	tbl, err := element.NewTable(map[element.Tag]map[element.Tag]float64{
		element.Fire: {element.Ice: 1.5, element.Water: 0.5},
	})
	require.NoError(t, err)
	assert.Equal(t, 1.5, tbl.Multiplier(element.Fire, element.Ice))
	assert.Equal(t, 0.5, tbl.Multiplier(element.Fire, element.Water))
}

func TestTable_Multiplier_IsAsymmetric(t *testing.T) {
	tbl, err := element.NewTable(map[element.Tag]map[element.Tag]float64{
		element.Fire: {element.Ice: 1.5},
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, tbl.Multiplier(element.Ice, element.Fire))
}

func TestTable_Multiplier_NilTableDefaultsToOne(t *testing.T) {
	var tbl *element.Table
	assert.Equal(t, 1.0, tbl.Multiplier(element.Fire, element.Ice))
}

func TestNewTable_RejectsUnknownElement(t *testing.T) {
	_, err := element.NewTable(map[element.Tag]map[element.Tag]float64{
		"plasma": {element.Ice: 1.5},
	})
	assert.Error(t, err)

	_, err = element.NewTable(map[element.Tag]map[element.Tag]float64{
		element.Fire: {"plasma": 1.5},
	})
	assert.Error(t, err)
}

func TestNewTable_RejectsNonPositiveMultiplier(t *testing.T) {
	_, err := element.NewTable(map[element.Tag]map[element.Tag]float64{
		element.Fire: {element.Ice: 0},
	})
	assert.Error(t, err)
}

func TestLoadTable_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "elements.yaml")
	require.NoError(t, os.WriteFile(path, []byte("water:\n  fire: 1.5\n"), 0644))

	tbl, err := element.LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, 1.5, tbl.Multiplier(element.Water, element.Fire))
}

func TestLoadTable_InvalidYAML_ReturnsError(t *testing.T) {
	_, err := element.LoadTableFromBytes([]byte(":::bad:::"))
	assert.Error(t, err)
}

func TestLoadTable_NonexistentFile_ReturnsError(t *testing.T) {
	_, err := element.LoadTable("/nonexistent/elements.yaml")
	assert.Error(t, err)
}

func TestLoadTable_RealContent(t *testing.T) {
	tbl, err := element.LoadTable("../../../content/elements.yaml")
	require.NoError(t, err)
	assert.Equal(t, 1.5, tbl.Multiplier(element.Fire, element.Ice))
	assert.Equal(t, 0.5, tbl.Multiplier(element.Fire, element.Water))
	assert.Equal(t, 0.75, tbl.Multiplier(element.Fire, element.Fire))
	assert.Equal(t, 1.0, tbl.Multiplier(element.Neutral, element.Neutral))
}

// Every declared pair resolves to a positive multiplier; unlisted pairs are exactly 1.0.
func TestPropertyTable_AllPairsDefined(t *testing.T) {
	tbl, err := element.LoadTable("../../../content/elements.yaml")
	require.NoError(t, err)
	empty, err := element.NewTable(nil)
	require.NoError(t, err)

	rapid.Check(t, func(rt *rapid.T) {
		atk := rapid.SampledFrom(element.All).Draw(rt, "attack")
		def := rapid.SampledFrom(element.All).Draw(rt, "defense")
		assert.Greater(rt, tbl.Multiplier(atk, def), 0.0)
		assert.Equal(rt, 1.0, empty.Multiplier(atk, def))
	})
}
