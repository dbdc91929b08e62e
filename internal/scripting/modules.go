package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers all engine.* Lua functions into L:
//
//	engine.log(level, msg)   -- level is "debug", "info", "warn" or "error"
//	engine.target(id)        -- table {id, hp, max_hp, hits} or nil
//	engine.random()          -- number in [0, 1) from the injected source
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState, rangeID string) {
	engine := L.NewTable()
	logger := m.logger.With(zap.String("range", rangeID))

	engine.RawSetString("log", L.NewFunction(func(L *lua.LState) int {
		level := L.CheckString(1)
		msg := L.CheckString(2)
		switch level {
		case "debug":
			logger.Debug(msg)
		case "warn":
			logger.Warn(msg)
		case "error":
			logger.Error(msg)
		default:
			logger.Info(msg)
		}
		return 0
	}))

	engine.RawSetString("target", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		if m.QueryTarget == nil {
			L.Push(lua.LNil)
			return 1
		}
		info := m.QueryTarget(id)
		if info == nil {
			L.Push(lua.LNil)
			return 1
		}
		t := L.NewTable()
		t.RawSetString("id", lua.LString(info.ID))
		t.RawSetString("hp", lua.LNumber(info.HP))
		t.RawSetString("max_hp", lua.LNumber(info.MaxHP))
		t.RawSetString("hits", lua.LNumber(info.Hits))
		L.Push(t)
		return 1
	}))

	engine.RawSetString("random", L.NewFunction(func(L *lua.LState) int {
		if m.Random == nil {
			L.Push(lua.LNumber(0))
			return 1
		}
		L.Push(lua.LNumber(m.Random()))
		return 1
	}))

	L.SetGlobal("engine", engine)
}
