package skill

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/rogue/internal/game/condition"
	"github.com/cory-johannsen/rogue/internal/game/element"
)

// Def is the YAML form of a skill.
type Def struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	ManaCost    int     `yaml:"mana_cost"`
	Cooldown    int     `yaml:"cooldown"`
	Target      string  `yaml:"target"`
	Effect      string  `yaml:"effect"`
	Multiplier  float64 `yaml:"multiplier"`
	Element     string  `yaml:"element"`
	CritBonus   float64 `yaml:"crit_bonus"`
	Heal        int     `yaml:"heal"`
	HealPercent float64 `yaml:"heal_percent"`
	Status      string  `yaml:"status"` // status catalog id
	Ultimate    bool    `yaml:"ultimate"`
}

// Build resolves d into a Skill, looking up its status in statuses.
//
// Precondition: statuses may be nil only when d.Status is empty.
// Postcondition: Returns a validated Skill or an error.
func (d Def) Build(statuses *condition.Registry) (Skill, error) {
	target := SingleEnemy
	if d.Target != "" {
		t, err := ParseTargetType(d.Target)
		if err != nil {
			return Skill{}, fmt.Errorf("skill %q: %w", d.ID, err)
		}
		target = t
	}
	s := Skill{
		ID:          d.ID,
		Name:        d.Name,
		ManaCost:    d.ManaCost,
		Cooldown:    d.Cooldown,
		Target:      target,
		Effect:      ParseEffectKind(d.Effect),
		Multiplier:  d.Multiplier,
		Element:     element.Tag(d.Element),
		CritBonus:   d.CritBonus,
		Heal:        d.Heal,
		HealPercent: d.HealPercent,
		Ultimate:    d.Ultimate,
	}
	if s.Name == "" {
		s.Name = s.ID
	}
	if d.Status != "" {
		if statuses == nil {
			return Skill{}, fmt.Errorf("skill %q: status %q referenced without a status catalog", d.ID, d.Status)
		}
		def, ok := statuses.Get(d.Status)
		if !ok {
			return Skill{}, fmt.Errorf("skill %q: unknown status %q", d.ID, d.Status)
		}
		e := def.Effect()
		s.Status = &e
	}
	if err := s.Validate(); err != nil {
		return Skill{}, err
	}
	return s, nil
}

// Registry holds resolved skills keyed by ID.
type Registry struct {
	skills map[string]Skill
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{skills: make(map[string]Skill)}
}

// Register adds s, overwriting any existing entry with the same ID.
func (r *Registry) Register(s Skill) {
	r.skills[s.ID] = s
}

// Get returns the skill for id, or (Skill{}, false) if not found.
func (r *Registry) Get(id string) (Skill, bool) {
	s, ok := r.skills[id]
	return s, ok
}

// Resolve returns the skill for id, or the generic Fallback hit when the id is
// unknown. The boolean reports whether the catalog knew the id.
func (r *Registry) Resolve(id string) (Skill, bool) {
	if s, ok := r.skills[id]; ok {
		return s, true
	}
	return Fallback(id), false
}

// IDs returns all registered skill ids, sorted.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.skills))
	for id := range r.skills {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// LoadDirectory reads every *.yaml file in dir as a list of skill Defs and
// resolves them against statuses.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a populated Registry or the first parse/validation error.
func LoadDirectory(dir string, statuses *condition.Registry) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading skill dir %q: %w", dir, err)
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
		var defs []Def
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&defs); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		for _, d := range defs {
			s, err := d.Build(statuses)
			if err != nil {
				return nil, fmt.Errorf("loading %q: %w", path, err)
			}
			reg.Register(s)
		}
	}
	return reg, nil
}
