package npc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Group is a number of identical enemies in an encounter.
type Group struct {
	Template string `yaml:"template"`
	Level    int    `yaml:"level"`
	// Count defaults to 1.
	Count int `yaml:"count"`
}

func (g Group) count() int {
	if g.Count <= 0 {
		return 1
	}
	return g.Count
}

// Encounter is the enemy line-up of one battle.
type Encounter struct {
	ID      string  `yaml:"id"`
	Name    string  `yaml:"name"`
	Boss    bool    `yaml:"boss"`
	Enemies []Group `yaml:"enemies"`
}

// Validate checks that enc names at least one enemy group.
func (enc *Encounter) Validate() error {
	if enc.ID == "" {
		return fmt.Errorf("encounter: id must not be empty")
	}
	if len(enc.Enemies) == 0 {
		return fmt.Errorf("encounter %q: at least one enemy group is required", enc.ID)
	}
	for i, g := range enc.Enemies {
		if g.Template == "" {
			return fmt.Errorf("encounter %q: enemies[%d] template must not be empty", enc.ID, i)
		}
		if g.Count < 0 {
			return fmt.Errorf("encounter %q: enemies[%d] count must be >= 0", enc.ID, i)
		}
	}
	return nil
}

// LoadEncounter reads and validates a single encounter file.
func LoadEncounter(path string) (*Encounter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading encounter %q: %w", path, err)
	}
	var enc Encounter
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&enc); err != nil {
		return nil, fmt.Errorf("parsing encounter %q: %w", path, err)
	}
	if err := enc.Validate(); err != nil {
		return nil, err
	}
	return &enc, nil
}

// LoadEncounters reads every *.yaml file in dir, keyed by encounter id.
//
// Postcondition: Returns an error on the first invalid file or a duplicate id.
func LoadEncounters(dir string) (map[string]*Encounter, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading encounter dir %q: %w", dir, err)
	}
	out := make(map[string]*Encounter)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		enc, err := LoadEncounter(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if _, dup := out[enc.ID]; dup {
			return nil, fmt.Errorf("encounter %q defined twice in %q", enc.ID, dir)
		}
		out[enc.ID] = enc
	}
	return out, nil
}
