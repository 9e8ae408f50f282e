package combat

import (
	"math"

	"github.com/cory-johannsen/rogue/internal/game/condition"
	"github.com/cory-johannsen/rogue/internal/game/dice"
	"github.com/cory-johannsen/rogue/internal/game/element"
)

// DefaultCritChance is the crit probability of an unmodified hit.
const DefaultCritChance = 0.1

// CritMultiplier scales a critical hit.
const CritMultiplier = 1.5

// DamageResult is the computed outcome of one offensive hit. It is produced
// fresh per hit and consumed immediately by damage application.
//
// Invariant: Amount >= 1.
type DamageResult struct {
	Amount              int
	IsCritical          bool
	Element             element.Tag
	ElementalMultiplier float64
}

// Hit parameterises one damage computation.
type Hit struct {
	Multiplier float64
	CritChance float64
	// Element is the attack element; empty means the attacker's element.
	Element element.Tag
}

// BasicHit returns the parameters of a plain attack.
func BasicHit(critChance float64) Hit {
	return Hit{Multiplier: 1.0, CritChance: critChance}
}

// Calculator computes damage from live combatant stats, the element table and
// an injected random source.
type Calculator struct {
	table *element.Table
	src   dice.Source
}

// NewCalculator creates a Calculator.
//
// Precondition: src must be non-nil; table may be nil (every pair is 1.0).
func NewCalculator(table *element.Table, src dice.Source) *Calculator {
	return &Calculator{table: table, src: src}
}

// Compute returns the damage attacker deals to defender with hit:
//
//	raw       = effective attack × multiplier
//	mitigated = max(1, raw × 100 / (100 + effective defense))
//	crit      = ×1.5 when a uniform draw is below the crit chance
//	elemental = × table[attack element][defender element]
//	amount    = max(1, round(result))
//
// Postcondition: Amount >= 1.
func (c *Calculator) Compute(attacker, defender *Combatant, hit Hit) DamageResult {
	atk := float64(attacker.Effective(condition.StatAttack))
	def := float64(defender.Effective(condition.StatDefense))

	dmg := atk * hit.Multiplier * (100 / (100 + def))
	if dmg < 1 {
		dmg = 1
	}

	crit := dice.Roll(c.src, hit.CritChance)
	if crit {
		dmg *= CritMultiplier
	}

	el := hit.Element
	if el == "" {
		el = attacker.Element
	}
	if el == "" {
		el = element.Neutral
	}
	defEl := defender.Element
	if defEl == "" {
		defEl = element.Neutral
	}
	mult := c.table.Multiplier(el, defEl)
	dmg *= mult

	amount := int(math.Round(dmg))
	if amount < 1 {
		amount = 1
	}
	return DamageResult{
		Amount:              amount,
		IsCritical:          crit,
		Element:             el,
		ElementalMultiplier: mult,
	}
}
