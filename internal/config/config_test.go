package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/rogue/internal/game/reward"
)

func validConfig() Config {
	cfg, err := LoadFromViper(Defaults())
	if err != nil {
		panic(err)
	}
	return cfg
}

func TestDefaultsAreValid(t *testing.T) {
	cfg, err := LoadFromViper(Defaults())
	require.NoError(t, err)
	assert.Equal(t, 0.1, cfg.Battle.CritChance)
	assert.Equal(t, 0.4, cfg.Battle.BossSkillChance)
	assert.Equal(t, 0.2, cfg.Battle.SkillChance)
	assert.Equal(t, 1.0, cfg.Battle.Difficulty)
	assert.Equal(t, int64(0), cfg.Battle.Seed)
	assert.Equal(t, 100000, cfg.Scripting.InstructionLimit)
	assert.Equal(t, "content/player.yaml", cfg.Content.PlayerFile)
}

func TestRewardsCalculatorMatchesDefaults(t *testing.T) {
	assert.Equal(t, reward.DefaultConfig(), validConfig().Rewards.Calculator())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
logging:
  level: debug
  format: json
battle:
  crit_chance: 0.25
  seed: 42
  difficulty: 1.5
rewards:
  boss_clear_exp: 500
content:
  player_file: /tmp/hero.yaml
sim:
  runs: 100
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Equal(t, 0.25, cfg.Battle.CritChance)
	assert.Equal(t, int64(42), cfg.Battle.Seed)
	assert.Equal(t, 1.5, cfg.Battle.Difficulty)
	assert.Equal(t, 500, cfg.Rewards.BossClearExp)
	assert.Equal(t, 100, cfg.Rewards.BossClearGold)
	assert.Equal(t, "/tmp/hero.yaml", cfg.Content.PlayerFile)
	assert.Equal(t, 100, cfg.Sim.Runs)
	assert.Equal(t, 4, cfg.Sim.Workers)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ROGUE_BATTLE_SEED", "7")
	t.Setenv("ROGUE_LOGGING_LEVEL", "warn")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Battle.Seed)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateCollectsEveryViolation(t *testing.T) {
	cfg := validConfig()
	cfg.Battle.CritChance = 1.5
	cfg.Battle.Difficulty = 0
	cfg.Content.SkillsDir = ""
	cfg.Sim.Workers = 0
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"battle.crit_chance", "battle.difficulty", "content.skills_dir", "sim.workers"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidateRewardsNonNegative(t *testing.T) {
	cfg := validConfig()
	cfg.Rewards.CritBonusGold = -1
	assert.Error(t, cfg.Validate())
}

func TestValidateScriptingLimit(t *testing.T) {
	cfg := validConfig()
	cfg.Scripting.InstructionLimit = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateScriptsDirOptional(t *testing.T) {
	cfg := validConfig()
	cfg.Content.ScriptsDir = ""
	assert.NoError(t, cfg.Validate())
}

// Property-based tests

func TestPropertyProbabilitiesInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := rapid.Float64Range(0, 1).Draw(t, "p")
		cfg := validConfig()
		cfg.Battle.CritChance = p
		cfg.Battle.SkillChance = p
		cfg.Battle.BossSkillChance = p
		if err := cfg.Validate(); err != nil {
			t.Fatalf("valid probability %v rejected: %v", p, err)
		}
	})
}

func TestPropertyProbabilitiesOutOfRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := rapid.OneOf(
			rapid.Float64Range(-10, -0.0001),
			rapid.Float64Range(1.0001, 10),
		).Draw(t, "p")
		cfg := validConfig()
		cfg.Battle.CritChance = p
		if err := cfg.Validate(); err == nil {
			t.Fatalf("invalid crit chance %v accepted", p)
		}
	})
}
