package sim_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/rogue/internal/game/combat"
	"github.com/cory-johannsen/rogue/internal/sim"
)

func TestConsole_QuitAbandonsBattle(t *testing.T) {
	r := loadRunner(t)
	var out bytes.Buffer
	in := strings.NewReader("dance\nstatus\nskill\nquit\n")

	rep, err := r.Play(context.Background(), 5, sim.Options{Encounter: "forest_path"}, sim.Console(in, &out))
	require.NoError(t, err)
	assert.Equal(t, combat.StateDefeat, rep.State)
	assert.True(t, rep.Outcome.Aborted)
	assert.Equal(t, 0, rep.ItemsUsed)

	text := out.String()
	assert.Contains(t, text, "unknown command")
	assert.Contains(t, text, "Wanderer")
	assert.Contains(t, text, "usage: skill <id>")
}

func TestConsole_EndOfInputAbandonsBattle(t *testing.T) {
	r := loadRunner(t)
	var out bytes.Buffer
	rep, err := r.Play(context.Background(), 5, sim.Options{Encounter: "forest_path"}, sim.Console(strings.NewReader(""), &out))
	require.NoError(t, err)
	assert.True(t, rep.Outcome.Aborted)
	assert.Equal(t, 0, r.Engine().Len())
}

func TestConsole_PlaysToTheEnd(t *testing.T) {
	r := loadRunner(t)
	var out bytes.Buffer
	in := strings.NewReader("use minor_potion\n" + strings.Repeat("attack\n", 300))

	rep, err := r.Play(context.Background(), 9, sim.Options{Encounter: "forest_path"}, sim.Console(in, &out))
	require.NoError(t, err)
	assert.True(t, rep.State.Terminal())
	assert.False(t, rep.Outcome.Aborted)
	assert.Equal(t, 1, rep.ItemsUsed)
}
