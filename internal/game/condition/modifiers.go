package condition

import (
	"fmt"
	"math"
)

// Stat names a combat statistic a modifier can change.
type Stat string

const (
	StatAttack  Stat = "attack"
	StatDefense Stat = "defense"
	StatSpeed   Stat = "speed"
)

// Op is how a modifier combines with the base stat.
type Op string

const (
	// OpMultiply scales the base stat by Value.
	OpMultiply Op = "mul"
	// OpAdd adds Value to the stat after all multipliers.
	OpAdd Op = "add"
)

// Modifier changes one stat while its effect is active.
type Modifier struct {
	Stat  Stat    `yaml:"stat"`
	Op    Op      `yaml:"op"`
	Value float64 `yaml:"value"`
}

// Validate checks that m names a known stat and op.
func (m Modifier) Validate() error {
	switch m.Stat {
	case StatAttack, StatDefense, StatSpeed:
	default:
		return fmt.Errorf("modifier: unknown stat %q", m.Stat)
	}
	switch m.Op {
	case OpMultiply:
		if m.Value < 0 {
			return fmt.Errorf("modifier: %s multiplier must be >= 0, got %v", m.Stat, m.Value)
		}
	case OpAdd:
	default:
		return fmt.Errorf("modifier: unknown op %q", m.Op)
	}
	return nil
}

// Effective returns base × (product of active multipliers for stat) + (sum of
// active flat modifiers for stat), rounded to the nearest int and floored at 0.
// Modifiers are read live: removing an effect from s reverts its influence.
//
// Postcondition: Returns >= 0; returns base when s is nil or empty.
func Effective(s *ActiveSet, stat Stat, base int) int {
	if s == nil || len(s.effects) == 0 {
		return base
	}
	mul := 1.0
	add := 0.0
	for _, e := range s.effects {
		for _, m := range e.Modifiers {
			if m.Stat != stat {
				continue
			}
			switch m.Op {
			case OpMultiply:
				mul *= m.Value
			case OpAdd:
				add += m.Value
			}
		}
	}
	v := int(math.Round(float64(base)*mul + add))
	if v < 0 {
		return 0
	}
	return v
}

// DefendEffect returns the one-turn defend stance that doubles effective defense.
func DefendEffect() Effect {
	return Effect{
		Type:      Defend,
		Name:      "defend",
		Duration:  1,
		Modifiers: []Modifier{{Stat: StatDefense, Op: OpMultiply, Value: 2}},
	}
}
