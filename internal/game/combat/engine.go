package combat

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Engine manages all active battles, keyed by battle ID. Each Battle is
// independent and single-threaded; the Engine only guards the registry.
// All methods are safe for concurrent use.
type Engine struct {
	mu      sync.RWMutex
	battles map[string]*Battle
}

// NewEngine creates an empty Engine.
//
// Postcondition: Returns a non-nil Engine ready for use.
func NewEngine() *Engine {
	return &Engine{battles: make(map[string]*Battle)}
}

// StartBattle creates a battle from setup and registers it. An empty
// setup.ID is replaced with a new UUID.
//
// Postcondition: Returns the new Battle, or an error if setup is invalid or a
// battle with the same ID is already active.
func (e *Engine) StartBattle(setup Setup) (*Battle, error) {
	if setup.ID == "" {
		setup.ID = uuid.NewString()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.battles[setup.ID]; exists {
		return nil, fmt.Errorf("battle %q already active", setup.ID)
	}
	b, err := NewBattle(setup)
	if err != nil {
		return nil, err
	}
	e.battles[b.ID()] = b
	return b, nil
}

// GetBattle returns the active battle with id.
//
// Postcondition: Returns (battle, true) if found, or (nil, false) otherwise.
func (e *Engine) GetBattle(id string) (*Battle, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, ok := e.battles[id]
	return b, ok
}

// EndBattle removes the battle with id and returns its final outcome.
//
// Postcondition: Returns an error if id is unknown; otherwise the battle is no
// longer registered.
func (e *Engine) EndBattle(id string) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, ok := e.battles[id]
	if !ok {
		return Outcome{}, fmt.Errorf("battle %q not found", id)
	}
	delete(e.battles, id)
	return b.Outcome(), nil
}

// Len returns the number of active battles.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.battles)
}
