package condition

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Def is the static definition of a status effect, loaded from YAML.
type Def struct {
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	Type      string     `yaml:"type"` // "buff" | "debuff" | "poison" | "burn" | "heal" | "defend"
	Duration  int        `yaml:"duration"`
	Tick      int        `yaml:"tick"`
	Modifiers []Modifier `yaml:"modifiers"`
}

// Validate checks that d describes a well-formed effect.
func (d *Def) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("status def: id must not be empty")
	}
	if _, err := ParseType(d.Type); err != nil {
		return fmt.Errorf("status def %q: %w", d.ID, err)
	}
	if d.Duration < 1 {
		return fmt.Errorf("status def %q: duration must be >= 1, got %d", d.ID, d.Duration)
	}
	if d.Tick < 0 {
		return fmt.Errorf("status def %q: tick must be >= 0, got %d", d.ID, d.Tick)
	}
	for _, m := range d.Modifiers {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("status def %q: %w", d.ID, err)
		}
	}
	return nil
}

// Effect builds a fresh Effect from d.
//
// Precondition: d passed Validate.
func (d *Def) Effect() Effect {
	t, _ := ParseType(d.Type)
	name := d.Name
	if name == "" {
		name = d.ID
	}
	return Effect{
		Type:      t,
		Name:      name,
		Duration:  d.Duration,
		Tick:      d.Tick,
		Modifiers: append([]Modifier(nil), d.Modifiers...),
	}
}

// Registry holds all known status Defs keyed by ID.
type Registry struct {
	defs map[string]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Register adds def to the registry, overwriting any existing entry with the same ID.
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *Def) {
	r.defs[def.ID] = def
}

// Get returns the Def for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns a snapshot slice of all registered Defs.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses and validates each as a
// Def, and returns a populated Registry.
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading status dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Def
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
