package combat

import (
	"github.com/cory-johannsen/rogue/internal/game/condition"
)

// TickOutcome records the effect of one status during a turn-start tick.
type TickOutcome struct {
	Effect condition.Effect
	// HealthDelta is the health change actually applied: negative for damage,
	// positive for healing.
	HealthDelta int
	Expired     bool
}

// ApplyStatus attaches e to target, refreshing the duration of an existing
// effect with the same (type, name) instead of stacking.
//
// Precondition: target.Statuses must be non-nil.
// Postcondition: target holds at most one effect per (type, name).
func ApplyStatus(target *Combatant, e condition.Effect) (refreshed bool, err error) {
	return target.Statuses.Apply(e)
}

// TickStatuses advances every status on target by one turn and applies the
// per-turn health consequences in application order. Damage over time cannot
// drop a player-controlled combatant below 1 health; enemies may reach 0.
// Once target is at 0 health no further consequences are applied.
//
// Postcondition: expired effects are gone from target.Statuses.
func TickStatuses(target *Combatant) []TickOutcome {
	results := target.Statuses.Tick()
	out := make([]TickOutcome, 0, len(results))
	for _, r := range results {
		o := TickOutcome{Effect: r.Effect, Expired: r.Expired}
		switch {
		case target.Health == 0:
		case r.Amount < 0:
			dmg := -r.Amount
			if target.PlayerControlled && dmg >= target.Health {
				dmg = target.Health - 1
			}
			o.HealthDelta = -target.TakeDamage(dmg)
		case r.Amount > 0:
			o.HealthDelta = target.RestoreHealth(r.Amount)
		}
		out = append(out, o)
	}
	return out
}
