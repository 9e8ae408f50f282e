// Package sim runs autopiloted battles from content files. It is the
// presentation-side collaborator of the combat engine: it builds combatants,
// owns item stock, drives the turn loop and reports outcomes.
package sim

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/rogue/internal/config"
	"github.com/cory-johannsen/rogue/internal/game/character"
	"github.com/cory-johannsen/rogue/internal/game/condition"
	"github.com/cory-johannsen/rogue/internal/game/element"
	"github.com/cory-johannsen/rogue/internal/game/inventory"
	"github.com/cory-johannsen/rogue/internal/game/npc"
	"github.com/cory-johannsen/rogue/internal/game/skill"
)

// Content is every loaded data file a battle needs. It is read-only after
// LoadContent and may be shared by concurrent runs.
type Content struct {
	Elements   *element.Table
	Statuses   *condition.Registry
	Skills     *skill.Registry
	Bestiary   *npc.Bestiary
	Encounters map[string]*npc.Encounter
	Items      *inventory.Registry
	Profile    *character.Profile
	// ScriptsDir is empty when Lua enemy AI is disabled.
	ScriptsDir string
}

// LoadContent loads and cross-checks all content named by cfg.
//
// Postcondition: Returns fully validated Content, or the first error.
func LoadContent(cfg config.ContentConfig) (*Content, error) {
	table, err := element.LoadTable(cfg.ElementsFile)
	if err != nil {
		return nil, fmt.Errorf("loading elements: %w", err)
	}
	statuses, err := condition.LoadDirectory(cfg.StatusesDir)
	if err != nil {
		return nil, fmt.Errorf("loading statuses: %w", err)
	}
	skills, err := skill.LoadDirectory(cfg.SkillsDir, statuses)
	if err != nil {
		return nil, fmt.Errorf("loading skills: %w", err)
	}
	templates, err := npc.LoadTemplates(cfg.EnemiesDir)
	if err != nil {
		return nil, fmt.Errorf("loading enemies: %w", err)
	}
	bestiary := npc.NewBestiary(skills)
	for _, tmpl := range templates {
		if err := bestiary.Add(tmpl); err != nil {
			return nil, fmt.Errorf("loading enemies: %w", err)
		}
	}
	encounters, err := npc.LoadEncounters(cfg.EncountersDir)
	if err != nil {
		return nil, fmt.Errorf("loading encounters: %w", err)
	}
	for id, enc := range encounters {
		for _, g := range enc.Enemies {
			if _, ok := bestiary.Template(g.Template); !ok {
				return nil, fmt.Errorf("encounter %q: unknown enemy template %q", id, g.Template)
			}
		}
	}
	items, err := inventory.LoadDirectory(cfg.ItemsDir, statuses)
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}
	profile, err := character.LoadProfile(cfg.PlayerFile)
	if err != nil {
		return nil, err
	}
	for id := range profile.Backpack {
		if _, ok := items.Item(id); !ok {
			return nil, fmt.Errorf("profile %q: backpack holds unknown item %q", profile.ID, id)
		}
	}
	return &Content{
		Elements:   table,
		Statuses:   statuses,
		Skills:     skills,
		Bestiary:   bestiary,
		Encounters: encounters,
		Items:      items,
		Profile:    profile,
		ScriptsDir: cfg.ScriptsDir,
	}, nil
}

// EncounterIDs returns every encounter id, sorted.
func (c *Content) EncounterIDs() []string {
	out := make([]string, 0, len(c.Encounters))
	for id := range c.Encounters {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
