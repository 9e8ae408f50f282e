package npc

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/rogue/internal/game/combat"
	"github.com/cory-johannsen/rogue/internal/game/condition"
	"github.com/cory-johannsen/rogue/internal/game/element"
	"github.com/cory-johannsen/rogue/internal/game/skill"
)

const (
	levelGrowth      = 0.2
	difficultyGrowth = 0.25
)

// Scale returns base × (1 + (level−1)×0.2) × (1 + (difficulty−1)×0.25),
// rounded to the nearest int. It applies to health, attack and defense.
//
// Precondition: level >= 1; difficulty > 0.
func Scale(base, level int, difficulty float64) int {
	v := float64(base) * (1 + float64(level-1)*levelGrowth) * (1 + (difficulty-1)*difficultyGrowth)
	return int(math.Round(v))
}

// ScaleSpeed returns base × (1 + (level−1)×0.2); difficulty does not affect speed.
func ScaleSpeed(base, level int) int {
	return int(math.Round(float64(base) * (1 + float64(level-1)*levelGrowth)))
}

// Spawn builds a fresh battle combatant from tmpl at the given level and
// difficulty. Skill ids are resolved through skills; unknown ids become the
// generic fallback hit.
//
// Precondition: tmpl must have passed Validate; skills may be nil.
// Postcondition: Returns a combatant at full health and mana that passes
// combat.Combatant.Validate, or an error for level < 1 or difficulty <= 0.
func Spawn(id string, tmpl *Template, level int, difficulty float64, skills *skill.Registry) (*combat.Combatant, error) {
	if level < 1 {
		return nil, fmt.Errorf("npc %q: level must be >= 1, got %d", tmpl.ID, level)
	}
	if difficulty <= 0 {
		return nil, fmt.Errorf("npc %q: difficulty must be > 0, got %v", tmpl.ID, difficulty)
	}
	tier, err := combat.ParseTier(tmpl.Tier)
	if err != nil {
		return nil, fmt.Errorf("npc %q: %w", tmpl.ID, err)
	}
	el := tmpl.Element
	if el == "" {
		el = element.Neutral
	}

	hp := Scale(tmpl.MaxHP, level, difficulty)
	if hp < 1 {
		hp = 1
	}
	c := &combat.Combatant{
		ID:    id,
		Name:  tmpl.Name,
		Tier:  tier,
		Level: level,
		Stats: combat.Stats{
			Attack:  Scale(tmpl.Attack, level, difficulty),
			Defense: Scale(tmpl.Defense, level, difficulty),
			Speed:   ScaleSpeed(tmpl.Speed, level),
		},
		Health:    hp,
		MaxHealth: hp,
		Mana:      tmpl.MaxMana,
		MaxMana:   tmpl.MaxMana,
		Element:   el,
		Statuses:  condition.NewActiveSet(),
		Loot:      tmpl.Loot.Combat(),
		AIHook:    tmpl.AIHook,
	}
	seen := make(map[string]bool, len(tmpl.Skills))
	for _, sid := range tmpl.Skills {
		if seen[sid] {
			continue
		}
		seen[sid] = true
		s := skill.Fallback(sid)
		if skills != nil {
			s, _ = skills.Resolve(sid)
		}
		c.Skills = append(c.Skills, &combat.KnownSkill{Skill: s})
	}
	return c, nil
}
