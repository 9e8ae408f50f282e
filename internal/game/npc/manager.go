package npc

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cory-johannsen/rogue/internal/game/combat"
	"github.com/cory-johannsen/rogue/internal/game/skill"
)

// Bestiary indexes enemy templates by ID and assembles encounters.
// All methods are safe for concurrent use.
type Bestiary struct {
	mu        sync.RWMutex
	templates map[string]*Template
	skills    *skill.Registry
}

// NewBestiary creates a Bestiary resolving enemy skills through skills.
//
// Precondition: skills may be nil, in which case every skill is the fallback hit.
func NewBestiary(skills *skill.Registry) *Bestiary {
	return &Bestiary{templates: make(map[string]*Template), skills: skills}
}

// Add registers tmpl.
//
// Postcondition: Returns an error if tmpl is invalid or its ID is already registered.
func (b *Bestiary) Add(tmpl *Template) error {
	if err := tmpl.Validate(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.templates[tmpl.ID]; exists {
		return fmt.Errorf("npc template %q already registered", tmpl.ID)
	}
	b.templates[tmpl.ID] = tmpl
	return nil
}

// Template returns the template with id.
func (b *Bestiary) Template(id string) (*Template, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	t, ok := b.templates[id]
	return t, ok
}

// IDs returns every registered template id, sorted.
func (b *Bestiary) IDs() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.templates))
	for id := range b.templates {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Build spawns fresh combatants for enc. levelBonus is added to every group's
// level. Combatant ids are "<template>-<n>" numbered per template from 1.
//
// Postcondition: Returns the enemies in encounter order and whether the
// battle is a boss battle (declared, or containing a boss-tier enemy).
func (b *Bestiary) Build(enc *Encounter, levelBonus int, difficulty float64) ([]*combat.Combatant, bool, error) {
	if err := enc.Validate(); err != nil {
		return nil, false, err
	}
	boss := enc.Boss
	counts := make(map[string]int)
	var enemies []*combat.Combatant
	for _, g := range enc.Enemies {
		tmpl, ok := b.Template(g.Template)
		if !ok {
			return nil, false, fmt.Errorf("encounter %q: unknown enemy template %q", enc.ID, g.Template)
		}
		level := g.Level
		if level < 1 {
			level = 1
		}
		level += levelBonus
		if level < 1 {
			level = 1
		}
		for i := 0; i < g.count(); i++ {
			counts[tmpl.ID]++
			c, err := Spawn(fmt.Sprintf("%s-%d", tmpl.ID, counts[tmpl.ID]), tmpl, level, difficulty, b.skills)
			if err != nil {
				return nil, false, fmt.Errorf("encounter %q: %w", enc.ID, err)
			}
			if c.Tier == combat.TierBoss {
				boss = true
			}
			enemies = append(enemies, c)
		}
	}
	return enemies, boss, nil
}
