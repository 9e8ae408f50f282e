// Package reward implements the per-kill and end-of-battle reward rules.
package reward

import (
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rogue/internal/game/combat"
	"github.com/cory-johannsen/rogue/internal/game/dice"
)

const (
	eliteMultiplier = 2.0
	bossMultiplier  = 5.0

	expPerLevel  = 0.2
	goldPerLevel = 0.1
)

// Bonus is a flat experience and gold award.
type Bonus struct {
	Experience int
	Gold       int
}

// Config holds the end-of-battle bonus rules.
type Config struct {
	BossClear Bonus
	// CritThreshold is the number of critical hits that earns CritBonus.
	CritThreshold int
	CritBonus     Bonus
	// DamageThreshold is the total damage dealt that earns DamageBonus.
	DamageThreshold int
	DamageBonus     Bonus
}

// DefaultConfig returns the standard bonus rules.
func DefaultConfig() Config {
	return Config{
		BossClear:       Bonus{Experience: 200, Gold: 100},
		CritThreshold:   5,
		CritBonus:       Bonus{Experience: 50, Gold: 25},
		DamageThreshold: 1000,
		DamageBonus:     Bonus{Experience: 100, Gold: 50},
	}
}

// Calculator implements combat.RewardCalculator. It draws from a single
// dice.Source and is not safe for concurrent use; use one per battle.
type Calculator struct {
	cfg    Config
	src    dice.Source
	logger *zap.Logger
	newID  func() string
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithLogger sets the logger used for drop diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Calculator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithInstanceIDs replaces the uuid generator for dropped item instances.
func WithInstanceIDs(fn func() string) Option {
	return func(c *Calculator) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// NewCalculator creates a Calculator.
//
// Precondition: src must be non-nil.
func NewCalculator(cfg Config, src dice.Source, opts ...Option) *Calculator {
	if src == nil {
		panic("reward.NewCalculator: src must not be nil")
	}
	c := &Calculator{cfg: cfg, src: src, logger: zap.NewNop(), newID: uuid.NewString}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Multipliers returns the experience and gold multipliers for an enemy of
// the given tier and level.
func Multipliers(tier combat.Tier, level int) (exp, gold float64) {
	base := 1.0
	switch tier {
	case combat.TierBoss:
		base = bossMultiplier
	case combat.TierElite:
		base = eliteMultiplier
	}
	if level < 1 {
		level = 1
	}
	return base + float64(level-1)*expPerLevel, base + float64(level-1)*goldPerLevel
}

// KillReward rolls the experience, gold and item drop for one defeated enemy.
//
// Postcondition: Experience and Gold are >= 0. At most one item is dropped.
func (c *Calculator) KillReward(enemy *combat.Combatant) combat.Rewards {
	expMul, goldMul := Multipliers(enemy.Tier, enemy.Level)
	loot := enemy.Loot
	r := combat.Rewards{
		Experience: scaled(dice.RangeInclusive(c.src, loot.ExpMin, loot.ExpMax), expMul),
		Gold:       scaled(dice.RangeInclusive(c.src, loot.GoldMin, loot.GoldMax), goldMul),
	}
	if len(loot.Items) > 0 && dice.Roll(c.src, loot.DropChance) {
		item := loot.Items[c.src.Intn(len(loot.Items))]
		ref := combat.ItemRef{ItemID: item, InstanceID: c.newID()}
		r.Items = append(r.Items, ref)
		c.logger.Debug("item dropped",
			zap.String("enemy", enemy.ID),
			zap.String("item", ref.ItemID),
			zap.String("instance", ref.InstanceID),
		)
	}
	return r
}

// VictoryBonus returns the sum of every end-of-battle bonus outcome earned.
// A boss clear is any victory over at least one boss-tier enemy.
func (c *Calculator) VictoryBonus(outcome combat.Outcome, enemies []*combat.Combatant) combat.Rewards {
	var r combat.Rewards
	add := func(b Bonus) {
		r.Experience += max(b.Experience, 0)
		r.Gold += max(b.Gold, 0)
	}
	for _, e := range enemies {
		if e.Tier == combat.TierBoss {
			add(c.cfg.BossClear)
			break
		}
	}
	if c.cfg.CritThreshold > 0 && outcome.CriticalHits >= c.cfg.CritThreshold {
		add(c.cfg.CritBonus)
	}
	if c.cfg.DamageThreshold > 0 && outcome.TotalDamageDealt >= c.cfg.DamageThreshold {
		add(c.cfg.DamageBonus)
	}
	return r
}

// scaled returns floor(v × mul), never negative. The epsilon absorbs binary
// representation error in level multipliers such as 1.4.
func scaled(v int, mul float64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Floor(float64(v)*mul + 1e-9))
}
