// Package npc provides enemy template definitions, level and difficulty
// scaling, and encounter assembly for battles.
package npc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/rogue/internal/game/combat"
	"github.com/cory-johannsen/rogue/internal/game/element"
)

// Template defines a reusable enemy archetype loaded from YAML. Stats are the
// level 1, difficulty 1 values.
type Template struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Tier        string      `yaml:"tier"`
	Element     element.Tag `yaml:"element"`
	MaxHP       int         `yaml:"max_hp"`
	MaxMana     int         `yaml:"max_mana"`
	Attack      int         `yaml:"attack"`
	Defense     int         `yaml:"defense"`
	Speed       int         `yaml:"speed"`
	Skills      []string    `yaml:"skills"`
	// AIHook names a Lua function choosing this enemy's actions; empty uses
	// the default random policy.
	AIHook string     `yaml:"ai_hook"`
	Loot   *LootTable `yaml:"loot"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, MaxHP >= 1, stats
// and mana are non-negative, tier and element are known and the loot table is
// valid; returns an error on the first violation otherwise.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("npc template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("npc template %q: name must not be empty", t.ID)
	}
	if t.MaxHP < 1 {
		return fmt.Errorf("npc template %q: max_hp must be >= 1", t.ID)
	}
	if t.MaxMana < 0 || t.Attack < 0 || t.Defense < 0 || t.Speed < 0 {
		return fmt.Errorf("npc template %q: mana and stats must be >= 0", t.ID)
	}
	if _, err := combat.ParseTier(t.Tier); err != nil {
		return fmt.Errorf("npc template %q: %w", t.ID, err)
	}
	if t.Element != "" && !t.Element.Valid() {
		return fmt.Errorf("npc template %q: unknown element %q", t.ID, t.Element)
	}
	if t.Loot != nil {
		if err := t.Loot.Validate(); err != nil {
			return fmt.Errorf("npc template %q: %w", t.ID, err)
		}
	}
	return nil
}

// LoadTemplateFromBytes parses a single template from raw YAML bytes.
// Unknown fields are rejected.
//
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or validate
// failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading npc dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
