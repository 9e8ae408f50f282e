package inventory

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/rogue/internal/game/combat"
	"github.com/cory-johannsen/rogue/internal/game/condition"
)

// Registry holds item definitions indexed by ID and resolves buff statuses
// against a status catalog.
type Registry struct {
	items    map[string]*ItemDef
	statuses *condition.Registry
}

// NewRegistry returns an empty Registry.
//
// Precondition: statuses may be nil when no buff items are registered.
func NewRegistry(statuses *condition.Registry) *Registry {
	return &Registry{items: make(map[string]*ItemDef), statuses: statuses}
}

// RegisterItem validates and adds d.
//
// Postcondition: Item(d.ID) returns (d, true); returns an error if d is
// invalid, its ID is already registered or its buff status is unknown.
func (r *Registry) RegisterItem(d *ItemDef) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if _, exists := r.items[d.ID]; exists {
		return fmt.Errorf("inventory: item ID %q already registered", d.ID)
	}
	if d.Kind == KindBuff {
		if r.statuses == nil {
			return fmt.Errorf("inventory: item %q references status %q without a status catalog", d.ID, d.Status)
		}
		if _, ok := r.statuses.Get(d.Status); !ok {
			return fmt.Errorf("inventory: item %q references unknown status %q", d.ID, d.Status)
		}
	}
	r.items[d.ID] = d
	return nil
}

// Item returns the ItemDef for the given id and whether it was found.
func (r *Registry) Item(id string) (*ItemDef, bool) {
	d, ok := r.items[id]
	return d, ok
}

// IDs returns every registered item id, sorted.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.items))
	for id := range r.items {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Effect resolves the item id into the effect the battle applies.
//
// Postcondition: Returns a combat.ItemEffect passing Validate, or an error
// for unknown or non-usable items.
func (r *Registry) Effect(id string) (combat.ItemEffect, error) {
	d, ok := r.items[id]
	if !ok {
		return combat.ItemEffect{}, fmt.Errorf("%w: unknown item %q", ErrNotUsable, id)
	}
	kind, ok := usableKinds[d.Kind]
	if !ok {
		return combat.ItemEffect{}, fmt.Errorf("%w: %q is a %s item", ErrNotUsable, id, d.Kind)
	}
	eff := combat.ItemEffect{ItemID: d.ID, Kind: kind, Amount: d.Amount}
	if kind == combat.ItemBuff {
		def, _ := r.statuses.Get(d.Status)
		e := def.Effect()
		eff.Status = &e
	}
	return eff, nil
}

// LoadDirectory reads every *.yaml file in dir as a list of ItemDefs.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns a populated Registry or the first encountered error.
func LoadDirectory(dir string, statuses *condition.Registry) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("inventory: cannot read directory %q: %w", dir, err)
	}
	reg := NewRegistry(statuses)
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("inventory: cannot read file %q: %w", path, err)
		}
		var defs []*ItemDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&defs); err != nil {
			return nil, fmt.Errorf("inventory: cannot parse file %q: %w", path, err)
		}
		for _, d := range defs {
			if err := reg.RegisterItem(d); err != nil {
				return nil, fmt.Errorf("inventory: invalid item in %q: %w", path, err)
			}
		}
	}
	return reg, nil
}
