package combat

import (
	"fmt"

	"github.com/cory-johannsen/rogue/internal/game/condition"
)

// EventType identifies what an Event records.
type EventType int

const (
	EventStateChanged EventType = iota
	EventTargetSelected
	EventAttack
	EventSkillUsed
	EventDamage
	EventHeal
	EventManaRestored
	EventStatusApplied
	EventStatusTick
	EventStatusExpired
	EventDefend
	EventItemUsed
	EventFleeFailed
	EventDeath
	EventReward
)

var eventNames = [...]string{
	EventStateChanged:   "state_changed",
	EventTargetSelected: "target_selected",
	EventAttack:         "attack",
	EventSkillUsed:      "skill_used",
	EventDamage:         "damage",
	EventHeal:           "heal",
	EventManaRestored:   "mana_restored",
	EventStatusApplied:  "status_applied",
	EventStatusTick:     "status_tick",
	EventStatusExpired:  "status_expired",
	EventDefend:         "defend",
	EventItemUsed:       "item_used",
	EventFleeFailed:     "flee_failed",
	EventDeath:          "death",
	EventReward:         "reward",
}

// String returns a snake_case label.
func (t EventType) String() string {
	if int(t) >= 0 && int(t) < len(eventNames) {
		return eventNames[t]
	}
	return fmt.Sprintf("event(%d)", int(t))
}

// Event records one thing that happened during a command, in order. The
// presentation layer uses events to drive animation and messaging.
type Event struct {
	Type     EventType
	ActorID  string
	TargetID string
	// From and To are set for EventStateChanged.
	From, To State
	Damage   *DamageResult
	// Amount is the health, mana or status-tick change, when relevant.
	Amount    int
	Status    *condition.Effect
	Refreshed bool
	SkillID   string
	ItemID    string
	Rewards   *Rewards
}

// ItemRef is one dropped item instance.
type ItemRef struct {
	ItemID     string
	InstanceID string
}

// Rewards accumulate over a battle.
//
// Invariant: Experience >= 0; Gold >= 0.
type Rewards struct {
	Experience int
	Gold       int
	Items      []ItemRef
}

// Add merges r into rw. Negative amounts are ignored so totals never decrease.
func (rw *Rewards) Add(r Rewards) {
	if r.Experience > 0 {
		rw.Experience += r.Experience
	}
	if r.Gold > 0 {
		rw.Gold += r.Gold
	}
	rw.Items = append(rw.Items, r.Items...)
}

// Outcome is the battle summary handed to the presentation layer at a terminal state.
type Outcome struct {
	Victory          bool
	Fled             bool
	Aborted          bool
	TurnCount        int
	SkillsUsed       int
	CriticalHits     int
	TotalDamageDealt int
	EnemiesDefeated  int
	Rewards          Rewards
}

// RewardCalculator computes rewards for the battle. KillReward is called once
// per enemy death; VictoryBonus is called exactly once, at Victory.
type RewardCalculator interface {
	KillReward(enemy *Combatant) Rewards
	VictoryBonus(outcome Outcome, enemies []*Combatant) Rewards
}

// ItemKind is the resolved effect of a consumable.
type ItemKind int

const (
	ItemHeal ItemKind = iota
	ItemMana
	ItemBuff
	ItemDamage
)

// ItemEffect is a consumable already resolved and consumed by the inventory
// collaborator. Using it costs the caster no mana and sets no cooldown.
type ItemEffect struct {
	ItemID string
	Kind   ItemKind
	// Amount is health or mana restored, or damage dealt to every living enemy.
	Amount int
	// Status is applied to the player for ItemBuff.
	Status *condition.Effect
}

// Validate checks that e can be applied.
func (e ItemEffect) Validate() error {
	switch e.Kind {
	case ItemHeal, ItemMana, ItemDamage:
		if e.Amount <= 0 {
			return fmt.Errorf("%w: %q amount must be > 0, got %d", ErrInvalidItem, e.ItemID, e.Amount)
		}
	case ItemBuff:
		if e.Status == nil {
			return fmt.Errorf("%w: %q buff requires a status", ErrInvalidItem, e.ItemID)
		}
		if e.Status.Duration < 0 {
			return fmt.Errorf("%w: %q status duration must be >= 0", ErrInvalidItem, e.ItemID)
		}
	default:
		return fmt.Errorf("%w: %q unknown kind %d", ErrInvalidItem, e.ItemID, e.Kind)
	}
	return nil
}
