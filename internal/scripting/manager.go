package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rogue/internal/game/dice"
)

// globalPackID is the reserved key for shared scripts loaded via LoadGlobal.
// CallHook falls back to this VM when no pack VM is found.
const globalPackID = "__global__"

// ErrNoHook is returned by CallHook when no VM defines the requested function.
var ErrNoHook = errors.New("scripting: hook not defined")

// vm is one sandboxed LState. An LState is single-threaded, so every use
// holds mu.
type vm struct {
	mu sync.Mutex
	L  *lua.LState
}

// Manager owns one sandboxed VM per script pack and dispatches hook calls.
// All methods are safe for concurrent use; calls into the same VM are
// serialised, calls into different VMs run concurrently.
type Manager struct {
	mu        sync.RWMutex
	vms       map[string]*vm
	instLimit int
	logger    *zap.Logger

	srcMu sync.Mutex
	src   dice.Source
}

// NewManager creates a Manager whose engine.dice module draws from src.
//
// Precondition: src and logger must be non-nil; instLimit <= 0 uses DefaultInstructionLimit.
// Postcondition: Returns a non-nil Manager with no VMs loaded.
func NewManager(src dice.Source, logger *zap.Logger, instLimit int) *Manager {
	if src == nil {
		panic("scripting.NewManager: src must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		vms:       make(map[string]*vm),
		instLimit: instLimit,
		logger:    logger,
		src:       src,
	}
}

// LoadPack creates a sandboxed VM for packID, registers the engine modules and
// executes every *.lua file in scriptDir in lexicographic order. Reloading a
// pack replaces its VM.
//
// Precondition: packID must be non-empty; scriptDir must be a readable directory.
func (m *Manager) LoadPack(packID, scriptDir string) error {
	if packID == "" {
		return errors.New("scripting: pack id must not be empty")
	}
	return m.loadInto(packID, scriptDir)
}

// LoadGlobal creates the shared VM that CallHook falls back to for any pack.
func (m *Manager) LoadGlobal(scriptDir string) error {
	return m.loadInto(globalPackID, scriptDir)
}

func (m *Manager) loadInto(key, scriptDir string) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	L := NewSandboxedState()
	m.RegisterModules(L)
	for _, path := range luaFiles {
		if err := RunLimited(L, m.instLimit, func() error { return L.DoFile(path) }); err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}

	m.mu.Lock()
	old := m.vms[key]
	m.vms[key] = &vm{L: L}
	m.mu.Unlock()

	if old != nil {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.logger.Debug("scripting: loaded scripts",
		zap.String("pack", key),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

// HasHook reports whether hook is defined in packID's VM or the global VM.
func (m *Manager) HasHook(packID, hook string) bool {
	for _, v := range m.candidates(packID) {
		v.mu.Lock()
		fn := v.L.GetGlobal(hook)
		v.mu.Unlock()
		if fn.Type() == lua.LTFunction {
			return true
		}
	}
	return false
}

// CallHook calls the named Lua global function, looking in packID's VM first
// and then in the global VM. Go arguments are converted with ToLua.
//
// Postcondition: Returns the hook's first return value. Returns ErrNoHook if no
// VM defines hook. Lua runtime errors, including exceeding the instruction
// limit, are logged at Warn and returned.
func (m *Manager) CallHook(packID, hook string, args ...any) (lua.LValue, error) {
	for _, v := range m.candidates(packID) {
		ret, found, err := m.call(v, hook, args)
		if !found {
			continue
		}
		if err != nil {
			m.logger.Warn("scripting: Lua runtime error",
				zap.String("pack", packID),
				zap.String("hook", hook),
				zap.Error(err),
			)
			return lua.LNil, fmt.Errorf("scripting: hook %q: %w", hook, err)
		}
		return ret, nil
	}
	return lua.LNil, fmt.Errorf("%w: %q in pack %q", ErrNoHook, hook, packID)
}

func (m *Manager) call(v *vm, hook string, args []any) (lua.LValue, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	fn := v.L.GetGlobal(hook)
	if fn.Type() != lua.LTFunction {
		return lua.LNil, false, nil
	}
	largs := make([]lua.LValue, len(args))
	for i, a := range args {
		lv, err := ToLua(v.L, a)
		if err != nil {
			return lua.LNil, true, err
		}
		largs[i] = lv
	}
	err := RunLimited(v.L, m.instLimit, func() error {
		return v.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, largs...)
	})
	if err != nil {
		return lua.LNil, true, err
	}
	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, true, nil
}

func (m *Manager) candidates(packID string) []*vm {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*vm
	if v, ok := m.vms[packID]; ok {
		out = append(out, v)
	}
	if packID != globalPackID {
		if v, ok := m.vms[globalPackID]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Close releases every VM. The Manager may be reloaded afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	vms := m.vms
	m.vms = make(map[string]*vm)
	m.mu.Unlock()
	for _, v := range vms {
		v.mu.Lock()
		v.L.Close()
		v.mu.Unlock()
	}
}

// ToLua converts a Go value into a Lua value owned by L. Supported inputs are
// nil, lua.LValue, bool, int, int64, float64, string, []string, []any and
// map[string]any, nested arbitrarily.
func ToLua(L *lua.LState, v any) (lua.LValue, error) {
	switch x := v.(type) {
	case nil:
		return lua.LNil, nil
	case lua.LValue:
		return x, nil
	case bool:
		return lua.LBool(x), nil
	case int:
		return lua.LNumber(x), nil
	case int64:
		return lua.LNumber(x), nil
	case float64:
		return lua.LNumber(x), nil
	case string:
		return lua.LString(x), nil
	case []string:
		t := L.CreateTable(len(x), 0)
		for _, s := range x {
			t.Append(lua.LString(s))
		}
		return t, nil
	case []any:
		t := L.CreateTable(len(x), 0)
		for _, e := range x {
			lv, err := ToLua(L, e)
			if err != nil {
				return lua.LNil, err
			}
			t.Append(lv)
		}
		return t, nil
	case map[string]any:
		t := L.CreateTable(0, len(x))
		for k, e := range x {
			lv, err := ToLua(L, e)
			if err != nil {
				return lua.LNil, err
			}
			t.RawSetString(k, lv)
		}
		return t, nil
	default:
		return lua.LNil, fmt.Errorf("scripting: cannot convert %T to Lua", v)
	}
}
