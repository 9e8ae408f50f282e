// Package config provides Viper-based configuration loading for the battle
// engine and its tools.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/rogue/internal/game/reward"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is a zap sink: "stderr", "stdout" or a file path.
	Output string `mapstructure:"output"`
}

// BattleConfig holds the probability and scaling knobs of a battle.
type BattleConfig struct {
	CritChance      float64 `mapstructure:"crit_chance"`
	BossSkillChance float64 `mapstructure:"boss_skill_chance"`
	SkillChance     float64 `mapstructure:"skill_chance"`
	// Seed selects a deterministic source; 0 uses crypto randomness.
	Seed       int64   `mapstructure:"seed"`
	Difficulty float64 `mapstructure:"difficulty"`
	// LogRolls wraps the dice source so every draw is logged at Debug.
	LogRolls bool `mapstructure:"log_rolls"`
}

// RewardsConfig holds the end-of-battle bonus rules.
type RewardsConfig struct {
	BossClearExp         int `mapstructure:"boss_clear_exp"`
	BossClearGold        int `mapstructure:"boss_clear_gold"`
	CritBonusThreshold   int `mapstructure:"crit_bonus_threshold"`
	CritBonusExp         int `mapstructure:"crit_bonus_exp"`
	CritBonusGold        int `mapstructure:"crit_bonus_gold"`
	DamageBonusThreshold int `mapstructure:"damage_bonus_threshold"`
	DamageBonusExp       int `mapstructure:"damage_bonus_exp"`
	DamageBonusGold      int `mapstructure:"damage_bonus_gold"`
}

// Calculator returns the reward rules described by r.
func (r RewardsConfig) Calculator() reward.Config {
	return reward.Config{
		BossClear:       reward.Bonus{Experience: r.BossClearExp, Gold: r.BossClearGold},
		CritThreshold:   r.CritBonusThreshold,
		CritBonus:       reward.Bonus{Experience: r.CritBonusExp, Gold: r.CritBonusGold},
		DamageThreshold: r.DamageBonusThreshold,
		DamageBonus:     reward.Bonus{Experience: r.DamageBonusExp, Gold: r.DamageBonusGold},
	}
}

// ContentConfig locates the YAML and Lua content files.
type ContentConfig struct {
	ElementsFile  string `mapstructure:"elements_file"`
	StatusesDir   string `mapstructure:"statuses_dir"`
	SkillsDir     string `mapstructure:"skills_dir"`
	EnemiesDir    string `mapstructure:"enemies_dir"`
	EncountersDir string `mapstructure:"encounters_dir"`
	ItemsDir      string `mapstructure:"items_dir"`
	PlayerFile    string `mapstructure:"player_file"`
	// ScriptsDir may be empty to disable Lua enemy AI.
	ScriptsDir string `mapstructure:"scripts_dir"`
}

// ScriptingConfig holds Lua VM settings.
type ScriptingConfig struct {
	// InstructionLimit caps the VM instructions of a single hook call.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// SimConfig holds battlesim run settings.
type SimConfig struct {
	Runs    int `mapstructure:"runs"`
	Workers int `mapstructure:"workers"`
	// MaxTurns aborts a simulated battle that has not ended.
	MaxTurns int `mapstructure:"max_turns"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Battle    BattleConfig    `mapstructure:"battle"`
	Rewards   RewardsConfig   `mapstructure:"rewards"`
	Content   ContentConfig   `mapstructure:"content"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Sim       SimConfig       `mapstructure:"sim"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	for _, err := range []error{
		validateLogging(c.Logging),
		validateBattle(c.Battle),
		validateRewards(c.Rewards),
		validateContent(c.Content),
		validateScripting(c.Scripting),
		validateSim(c.Sim),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.Output == "" {
		return errors.New("logging.output must not be empty")
	}
	return nil
}

func validateBattle(b BattleConfig) error {
	var errs []string
	probability := func(name string, p float64) {
		if p < 0 || p > 1 {
			errs = append(errs, fmt.Sprintf("battle.%s must be in [0, 1], got %v", name, p))
		}
	}
	probability("crit_chance", b.CritChance)
	probability("boss_skill_chance", b.BossSkillChance)
	probability("skill_chance", b.SkillChance)
	if b.Difficulty <= 0 {
		errs = append(errs, fmt.Sprintf("battle.difficulty must be > 0, got %v", b.Difficulty))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateRewards(r RewardsConfig) error {
	for name, v := range map[string]int{
		"boss_clear_exp":         r.BossClearExp,
		"boss_clear_gold":        r.BossClearGold,
		"crit_bonus_threshold":   r.CritBonusThreshold,
		"crit_bonus_exp":         r.CritBonusExp,
		"crit_bonus_gold":        r.CritBonusGold,
		"damage_bonus_threshold": r.DamageBonusThreshold,
		"damage_bonus_exp":       r.DamageBonusExp,
		"damage_bonus_gold":      r.DamageBonusGold,
	} {
		if v < 0 {
			return fmt.Errorf("rewards.%s must be >= 0, got %d", name, v)
		}
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	for name, v := range map[string]string{
		"elements_file":  c.ElementsFile,
		"statuses_dir":   c.StatusesDir,
		"skills_dir":     c.SkillsDir,
		"enemies_dir":    c.EnemiesDir,
		"encounters_dir": c.EncountersDir,
		"items_dir":      c.ItemsDir,
		"player_file":    c.PlayerFile,
	} {
		if v == "" {
			errs = append(errs, fmt.Sprintf("content.%s must not be empty", name))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateScripting(s ScriptingConfig) error {
	if s.InstructionLimit < 1 {
		return fmt.Errorf("scripting.instruction_limit must be >= 1, got %d", s.InstructionLimit)
	}
	return nil
}

func validateSim(s SimConfig) error {
	var errs []string
	if s.Runs < 1 {
		errs = append(errs, fmt.Sprintf("sim.runs must be >= 1, got %d", s.Runs))
	}
	if s.Workers < 1 {
		errs = append(errs, fmt.Sprintf("sim.workers must be >= 1, got %d", s.Workers))
	}
	if s.MaxTurns < 1 {
		errs = append(errs, fmt.Sprintf("sim.max_turns must be >= 1, got %d", s.MaxTurns))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with ROGUE_ prefix
	v.SetEnvPrefix("ROGUE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance holding only the default values.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("battle.crit_chance", 0.1)
	v.SetDefault("battle.boss_skill_chance", 0.4)
	v.SetDefault("battle.skill_chance", 0.2)
	v.SetDefault("battle.seed", 0)
	v.SetDefault("battle.difficulty", 1.0)
	v.SetDefault("battle.log_rolls", false)

	v.SetDefault("rewards.boss_clear_exp", 200)
	v.SetDefault("rewards.boss_clear_gold", 100)
	v.SetDefault("rewards.crit_bonus_threshold", 5)
	v.SetDefault("rewards.crit_bonus_exp", 50)
	v.SetDefault("rewards.crit_bonus_gold", 25)
	v.SetDefault("rewards.damage_bonus_threshold", 1000)
	v.SetDefault("rewards.damage_bonus_exp", 100)
	v.SetDefault("rewards.damage_bonus_gold", 50)

	v.SetDefault("content.elements_file", "content/elements.yaml")
	v.SetDefault("content.statuses_dir", "content/statuses")
	v.SetDefault("content.skills_dir", "content/skills")
	v.SetDefault("content.enemies_dir", "content/enemies")
	v.SetDefault("content.encounters_dir", "content/encounters")
	v.SetDefault("content.items_dir", "content/items")
	v.SetDefault("content.player_file", "content/player.yaml")
	v.SetDefault("content.scripts_dir", "content/scripts")

	v.SetDefault("scripting.instruction_limit", 100000)

	v.SetDefault("sim.runs", 1)
	v.SetDefault("sim.workers", 4)
	v.SetDefault("sim.max_turns", 200)
}
