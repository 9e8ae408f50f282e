// Package condition implements the timed status effects attached to a combatant:
// buffs, debuffs, damage and heal over time, and the defend stance.
package condition

import "fmt"

// Type classifies a status effect.
type Type int

const (
	Buff Type = iota
	Debuff
	Poison
	Burn
	Heal
	Defend
)

var typeNames = map[Type]string{
	Buff:   "buff",
	Debuff: "debuff",
	Poison: "poison",
	Burn:   "burn",
	Heal:   "heal",
	Defend: "defend",
}

// String returns the lowercase name of the type.
func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

// ParseType converts a lowercase name back into a Type.
func ParseType(s string) (Type, error) {
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown status type %q", s)
}

// IsDamageOverTime reports whether ticks of this type remove health.
func (t Type) IsDamageOverTime() bool { return t == Poison || t == Burn }

// Effect is one timed modifier attached to a combatant.
//
// Invariant: Duration >= 0.
type Effect struct {
	Type      Type
	Name      string
	Duration  int // turns remaining
	Modifiers []Modifier
	// Tick is the per-turn health change magnitude: damage for Poison/Burn,
	// healing for Heal. Zero means the effect has no tick consequence.
	Tick int
}

// Key identifies the (type, name) pair that governs refresh-instead-of-stack.
type Key struct {
	Type Type
	Name string
}

// Key returns the refresh key of e.
func (e Effect) Key() Key { return Key{Type: e.Type, Name: e.Name} }

// TickResult records what one effect did during a Tick.
type TickResult struct {
	Effect Effect
	// Amount is the health change requested by this tick: negative for damage
	// over time, positive for healing, 0 when the effect has no tick consequence.
	Amount int
	// Expired is true when the effect was removed by this tick.
	Expired bool
}

// ActiveSet is the ordered list of effects on one combatant. Insertion order is
// application order. It holds at most one entry per (type, name) pair.
// It is not safe for concurrent use; the caller must serialise access.
type ActiveSet struct {
	effects []*Effect
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{}
}

// Apply attaches e. If an effect with the same (type, name) is already present
// its duration is replaced by e.Duration and its position is kept; otherwise e
// is appended.
//
// Precondition: e.Duration >= 0.
// Postcondition: Has(e.Key()) is true; Len() grows by at most 1.
// Returns true when an existing entry was refreshed.
func (s *ActiveSet) Apply(e Effect) (refreshed bool, err error) {
	if e.Duration < 0 {
		return false, fmt.Errorf("condition: effect %q duration must be >= 0, got %d", e.Name, e.Duration)
	}
	for _, existing := range s.effects {
		if existing.Key() == e.Key() {
			existing.Duration = e.Duration
			return true, nil
		}
	}
	cp := e
	cp.Modifiers = append([]Modifier(nil), e.Modifiers...)
	s.effects = append(s.effects, &cp)
	return false, nil
}

// Remove deletes the effect with key k. No-op when absent.
func (s *ActiveSet) Remove(k Key) {
	for i, e := range s.effects {
		if e.Key() == k {
			s.effects = append(s.effects[:i], s.effects[i+1:]...)
			return
		}
	}
}

// Tick advances every effect by one turn, in insertion order. Each effect's
// duration is decremented first; the effect's tick consequence is reported for
// every effect still counting (including the one expiring on this tick), and
// effects that reach 0 are removed afterwards. An effect already at 0 before
// the tick is removed without a consequence.
//
// Postcondition: every returned result with Expired == true is no longer in the set.
func (s *ActiveSet) Tick() []TickResult {
	var results []TickResult
	kept := s.effects[:0]
	for _, e := range s.effects {
		if e.Duration <= 0 {
			results = append(results, TickResult{Effect: *e, Expired: true})
			continue
		}
		e.Duration--
		r := TickResult{Effect: *e, Amount: e.tickAmount()}
		if e.Duration == 0 {
			r.Expired = true
		} else {
			kept = append(kept, e)
		}
		results = append(results, r)
	}
	for i := len(kept); i < len(s.effects); i++ {
		s.effects[i] = nil
	}
	s.effects = kept
	return results
}

func (e *Effect) tickAmount() int {
	switch {
	case e.Type.IsDamageOverTime():
		return -e.Tick
	case e.Type == Heal:
		return e.Tick
	default:
		return 0
	}
}

// Has reports whether an effect with key k is active.
func (s *ActiveSet) Has(k Key) bool {
	_, ok := s.Get(k)
	return ok
}

// Get returns a copy of the effect with key k.
func (s *ActiveSet) Get(k Key) (Effect, bool) {
	for _, e := range s.effects {
		if e.Key() == k {
			return *e, true
		}
	}
	return Effect{}, false
}

// Len returns the number of active effects.
func (s *ActiveSet) Len() int { return len(s.effects) }

// All returns copies of the active effects in application order.
func (s *ActiveSet) All() []Effect {
	out := make([]Effect, 0, len(s.effects))
	for _, e := range s.effects {
		out = append(out, *e)
	}
	return out
}

// Clone returns an independent deep copy of s.
func (s *ActiveSet) Clone() *ActiveSet {
	cp := &ActiveSet{effects: make([]*Effect, 0, len(s.effects))}
	for _, e := range s.effects {
		c := *e
		c.Modifiers = append([]Modifier(nil), e.Modifiers...)
		cp.effects = append(cp.effects, &c)
	}
	return cp
}
