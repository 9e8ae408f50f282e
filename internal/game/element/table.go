// Package element holds the elemental effectiveness table used by damage resolution.
package element

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tag identifies the element of an attack or a defender.
type Tag string

const (
	Fire      Tag = "fire"
	Ice       Tag = "ice"
	Earth     Tag = "earth"
	Lightning Tag = "lightning"
	Water     Tag = "water"
	Holy      Tag = "holy"
	Dark      Tag = "dark"
	Neutral   Tag = "neutral"
)

// All lists every declared element in a stable order.
var All = []Tag{Fire, Ice, Earth, Lightning, Water, Holy, Dark, Neutral}

// Valid reports whether t is one of the declared elements.
func (t Tag) Valid() bool {
	for _, e := range All {
		if e == t {
			return true
		}
	}
	return false
}

// Table maps attack element → defense element → damage multiplier.
// Pairs that are not listed resolve to 1.0.
type Table struct {
	entries map[Tag]map[Tag]float64
}

// NewTable builds a Table from the given entries after validating them.
//
// Postcondition: Returns a non-nil Table or an error naming the first bad entry.
func NewTable(entries map[Tag]map[Tag]float64) (*Table, error) {
	t := &Table{entries: make(map[Tag]map[Tag]float64, len(entries))}
	for atk, row := range entries {
		if !atk.Valid() {
			return nil, fmt.Errorf("element table: unknown attack element %q", atk)
		}
		cp := make(map[Tag]float64, len(row))
		for def, mult := range row {
			if !def.Valid() {
				return nil, fmt.Errorf("element table: unknown defense element %q under %q", def, atk)
			}
			if mult <= 0 {
				return nil, fmt.Errorf("element table: %s→%s multiplier must be > 0, got %v", atk, def, mult)
			}
			cp[def] = mult
		}
		t.entries[atk] = cp
	}
	return t, nil
}

// Multiplier returns the damage multiplier for an attack of element attack
// landing on a defender of element defense.
//
// Postcondition: Returns 1.0 when the pair is not listed or t is nil.
func (t *Table) Multiplier(attack, defense Tag) float64 {
	if t == nil {
		return 1.0
	}
	if m, ok := t.entries[attack][defense]; ok {
		return m
	}
	return 1.0
}

// LoadTableFromBytes parses a YAML document of the form
//
//	fire:
//	  ice: 1.5
//	  water: 0.5
func LoadTableFromBytes(data []byte) (*Table, error) {
	var raw map[Tag]map[Tag]float64
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing element table: %w", err)
	}
	return NewTable(raw)
}

// LoadTable reads and parses the element table at path.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading element table %q: %w", path, err)
	}
	t, err := LoadTableFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}
	return t, nil
}
