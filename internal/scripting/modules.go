package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap/zapcore"
)

// RegisterModules installs the engine.log and engine.dice tables into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()

	log := L.NewTable()
	L.SetField(log, "debug", L.NewFunction(m.luaLog(zapcore.DebugLevel)))
	L.SetField(log, "info", L.NewFunction(m.luaLog(zapcore.InfoLevel)))
	L.SetField(log, "warn", L.NewFunction(m.luaLog(zapcore.WarnLevel)))
	L.SetField(engine, "log", log)

	dice := L.NewTable()
	L.SetField(dice, "intn", L.NewFunction(m.luaIntn))
	L.SetField(dice, "float", L.NewFunction(m.luaFloat))
	L.SetField(dice, "chance", L.NewFunction(m.luaChance))
	L.SetField(engine, "dice", dice)

	L.SetGlobal("engine", engine)
}

func (m *Manager) luaLog(level zapcore.Level) lua.LGFunction {
	return func(L *lua.LState) int {
		msg := L.CheckString(1)
		if ce := m.logger.Check(level, "lua: "+msg); ce != nil {
			ce.Write()
		}
		return 0
	}
}

// engine.dice.intn(n) returns an int in [0, n).
func (m *Manager) luaIntn(L *lua.LState) int {
	n := L.CheckInt(1)
	if n <= 0 {
		L.ArgError(1, "n must be > 0")
		return 0
	}
	m.srcMu.Lock()
	v := m.src.Intn(n)
	m.srcMu.Unlock()
	L.Push(lua.LNumber(v))
	return 1
}

// engine.dice.float() returns a float in [0, 1).
func (m *Manager) luaFloat(L *lua.LState) int {
	m.srcMu.Lock()
	v := m.src.Float64()
	m.srcMu.Unlock()
	L.Push(lua.LNumber(v))
	return 1
}

// engine.dice.chance(p) reports whether a uniform draw falls below p.
func (m *Manager) luaChance(L *lua.LState) int {
	p := float64(L.CheckNumber(1))
	m.srcMu.Lock()
	v := m.src.Float64()
	m.srcMu.Unlock()
	L.Push(lua.LBool(v < p))
	return 1
}
