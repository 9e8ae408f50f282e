// Package combat implements the turn-based battle engine: the combatant model,
// damage and status resolution, skill effects, flee policy and the turn state
// machine that sequences a player against a group of enemies.
package combat

import (
	"fmt"

	"github.com/cory-johannsen/rogue/internal/game/condition"
	"github.com/cory-johannsen/rogue/internal/game/element"
	"github.com/cory-johannsen/rogue/internal/game/skill"
)

// Tier classifies enemies for stat scaling, AI and reward multipliers.
type Tier int

const (
	TierNormal Tier = iota
	TierElite
	TierBoss
)

// String returns a lowercase tier label.
func (t Tier) String() string {
	switch t {
	case TierNormal:
		return "normal"
	case TierElite:
		return "elite"
	case TierBoss:
		return "boss"
	default:
		return "unknown"
	}
}

// ParseTier converts a lowercase label into a Tier. Empty means normal.
func ParseTier(s string) (Tier, error) {
	switch s {
	case "", "normal":
		return TierNormal, nil
	case "elite":
		return TierElite, nil
	case "boss":
		return TierBoss, nil
	default:
		return 0, fmt.Errorf("unknown tier %q", s)
	}
}

// Stats are flat base statistics before status modifiers.
type Stats struct {
	Attack  int
	Defense int
	Speed   int
}

// KnownSkill is a skill a combatant can use together with its cooldown counter.
//
// Invariant: CurrentCooldown >= 0; 0 means ready.
type KnownSkill struct {
	skill.Skill
	CurrentCooldown int
}

// Ready reports whether the skill is off cooldown.
func (k *KnownSkill) Ready() bool { return k.CurrentCooldown == 0 }

// Loot is the reward data carried by an enemy. Zero values are conservative
// floors: no experience, no gold, no drop.
type Loot struct {
	ExpMin     int
	ExpMax     int
	GoldMin    int
	GoldMax    int
	DropChance float64
	Items      []string
}

// Combatant represents one participant in a battle, either the player or an enemy.
//
// Invariant: 0 <= Health <= MaxHealth; 0 <= Mana <= MaxMana.
type Combatant struct {
	ID               string
	Name             string
	PlayerControlled bool
	Tier             Tier
	Level            int
	Stats            Stats
	Health           int
	MaxHealth        int
	Mana             int
	MaxMana          int
	Element          element.Tag
	Statuses         *condition.ActiveSet
	Skills           []*KnownSkill
	Loot             Loot
	// AIHook names a scripted selection hook; empty uses the default policy.
	AIHook string

	dead bool
}

// Validate checks the invariants that indicate malformed upstream data.
//
// Postcondition: Returns nil iff c can safely enter a battle.
func (c *Combatant) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("combatant: id must not be empty")
	}
	if c.MaxHealth < 1 {
		return fmt.Errorf("combatant %q: max health must be >= 1, got %d", c.ID, c.MaxHealth)
	}
	if c.Health < 0 || c.Health > c.MaxHealth {
		return fmt.Errorf("combatant %q: health %d outside [0, %d]", c.ID, c.Health, c.MaxHealth)
	}
	if c.MaxMana < 0 || c.Mana < 0 || c.Mana > c.MaxMana {
		return fmt.Errorf("combatant %q: mana %d outside [0, %d]", c.ID, c.Mana, c.MaxMana)
	}
	if c.Stats.Attack < 0 || c.Stats.Defense < 0 || c.Stats.Speed < 0 {
		return fmt.Errorf("combatant %q: stats must be >= 0, got %+v", c.ID, c.Stats)
	}
	if c.Element != "" && !c.Element.Valid() {
		return fmt.Errorf("combatant %q: unknown element %q", c.ID, c.Element)
	}
	seen := make(map[string]struct{}, len(c.Skills))
	for _, k := range c.Skills {
		if k == nil {
			return fmt.Errorf("combatant %q: nil skill", c.ID)
		}
		if err := k.Validate(); err != nil {
			return fmt.Errorf("combatant %q: %w", c.ID, err)
		}
		if k.CurrentCooldown < 0 {
			return fmt.Errorf("combatant %q: skill %q current cooldown must be >= 0", c.ID, k.ID)
		}
		if _, dup := seen[k.ID]; dup {
			return fmt.Errorf("combatant %q: duplicate skill %q", c.ID, k.ID)
		}
		seen[k.ID] = struct{}{}
	}
	return nil
}

// IsDead reports whether the combatant has been explicitly marked dead.
func (c *Combatant) IsDead() bool { return c.dead }

// IsAlive reports whether the combatant can still act or be targeted.
func (c *Combatant) IsAlive() bool { return !c.dead }

// markDead transitions the combatant to dead.
//
// Precondition: Health == 0.
// Postcondition: Returns true only on the first call; IsDead is true afterwards.
func (c *Combatant) markDead() bool {
	if c.dead || c.Health > 0 {
		return false
	}
	c.dead = true
	return true
}

// TakeDamage reduces Health by amount, flooring at zero.
//
// Postcondition: Health >= 0; returns the health actually removed.
func (c *Combatant) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	if amount > c.Health {
		amount = c.Health
	}
	c.Health -= amount
	return amount
}

// RestoreHealth raises Health by amount, capped at MaxHealth.
//
// Postcondition: Health <= MaxHealth; returns the health actually restored.
func (c *Combatant) RestoreHealth(amount int) int {
	if amount <= 0 || c.dead {
		return 0
	}
	if room := c.MaxHealth - c.Health; amount > room {
		amount = room
	}
	c.Health += amount
	return amount
}

// RestoreMana raises Mana by amount, capped at MaxMana.
func (c *Combatant) RestoreMana(amount int) int {
	if amount <= 0 {
		return 0
	}
	if room := c.MaxMana - c.Mana; amount > room {
		amount = room
	}
	c.Mana += amount
	return amount
}

// Effective returns the live value of stat after active status modifiers.
func (c *Combatant) Effective(stat condition.Stat) int {
	var base int
	switch stat {
	case condition.StatAttack:
		base = c.Stats.Attack
	case condition.StatDefense:
		base = c.Stats.Defense
	case condition.StatSpeed:
		base = c.Stats.Speed
	}
	return condition.Effective(c.Statuses, stat, base)
}

// Skill returns the known skill with id, or nil.
func (c *Combatant) Skill(id string) *KnownSkill {
	for _, k := range c.Skills {
		if k.ID == id {
			return k
		}
	}
	return nil
}

// ReadySkills returns the skills currently off cooldown, in declaration order.
func (c *Combatant) ReadySkills() []*KnownSkill {
	var out []*KnownSkill
	for _, k := range c.Skills {
		if k.Ready() {
			out = append(out, k)
		}
	}
	return out
}

// decrementCooldowns lowers every positive cooldown by one.
//
// Postcondition: every CurrentCooldown >= 0.
func (c *Combatant) decrementCooldowns() {
	for _, k := range c.Skills {
		if k.CurrentCooldown > 0 {
			k.CurrentCooldown--
		}
	}
}

// Snapshot is an immutable copy of a combatant's observable state.
type Snapshot struct {
	ID        string
	Name      string
	Health    int
	MaxHealth int
	Mana      int
	MaxMana   int
	Dead      bool
	Statuses  []condition.Effect
	Cooldowns map[string]int
}

// Snapshot returns the current observable state of c.
func (c *Combatant) Snapshot() Snapshot {
	s := Snapshot{
		ID:        c.ID,
		Name:      c.Name,
		Health:    c.Health,
		MaxHealth: c.MaxHealth,
		Mana:      c.Mana,
		MaxMana:   c.MaxMana,
		Dead:      c.dead,
		Cooldowns: make(map[string]int, len(c.Skills)),
	}
	if c.Statuses != nil {
		s.Statuses = c.Statuses.All()
	}
	for _, k := range c.Skills {
		s.Cooldowns[k.ID] = k.CurrentCooldown
	}
	return s
}

// Clone returns an independent deep copy of c, suitable for seeding a new battle
// from persisted or template data without sharing mutable state.
func (c *Combatant) Clone() *Combatant {
	cp := *c
	if c.Statuses != nil {
		cp.Statuses = c.Statuses.Clone()
	} else {
		cp.Statuses = condition.NewActiveSet()
	}
	cp.Skills = make([]*KnownSkill, len(c.Skills))
	for i, k := range c.Skills {
		kk := *k
		cp.Skills[i] = &kk
	}
	cp.Loot.Items = append([]string(nil), c.Loot.Items...)
	return &cp
}
