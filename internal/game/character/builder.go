package character

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/rogue/internal/game/combat"
	"github.com/cory-johannsen/rogue/internal/game/condition"
	"github.com/cory-johannsen/rogue/internal/game/element"
	"github.com/cory-johannsen/rogue/internal/game/skill"
)

// LoadProfile reads and validates a player profile. Unknown fields are rejected.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile %q: %w", path, err)
	}
	p, err := LoadProfileFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading profile %q: %w", path, err)
	}
	return p, nil
}

// LoadProfileFromBytes parses a profile from raw YAML bytes.
func LoadProfileFromBytes(data []byte) (*Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("parsing profile YAML: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Build constructs the player combatant for a new battle: full health and
// mana, every skill ready. Skill ids are resolved through skills; unknown ids
// become the generic fallback hit. The ultimate is appended last and flagged.
//
// Precondition: p passed Validate; skills may be nil.
// Postcondition: Returns a player-controlled combatant passing Validate.
// Stats reduced below zero by equipment are floored at 0 and max health at 1.
func Build(p *Profile, skills *skill.Registry) (*combat.Combatant, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	st := p.Stats()
	el := p.Element
	if el == "" {
		el = element.Neutral
	}
	c := &combat.Combatant{
		ID:               p.ID,
		Name:             p.Name,
		PlayerControlled: true,
		Level:            p.Level,
		Stats: combat.Stats{
			Attack:  max(st.Attack, 0),
			Defense: max(st.Defense, 0),
			Speed:   max(st.Speed, 0),
		},
		MaxHealth: max(st.MaxHP, 1),
		MaxMana:   max(st.MaxMana, 0),
		Element:   el,
		Statuses:  condition.NewActiveSet(),
	}
	c.Health = c.MaxHealth
	c.Mana = c.MaxMana

	seen := make(map[string]bool)
	add := func(id string, ultimate bool) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		s := skill.Fallback(id)
		if skills != nil {
			s, _ = skills.Resolve(id)
		}
		if ultimate {
			s.Ultimate = true
		}
		c.Skills = append(c.Skills, &combat.KnownSkill{Skill: s})
	}
	for _, id := range p.Skills {
		add(id, false)
	}
	add(p.Ultimate, true)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("profile %q: %w", p.ID, err)
	}
	return c, nil
}
