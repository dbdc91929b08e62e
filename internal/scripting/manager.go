package scripting

import (
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// HookOnDamage is the global Lua function consulted before a target takes
// damage: on_damage(target_id, amount, hp) -> amount.
const HookOnDamage = "on_damage"

// TargetInfo is a snapshot of a range target passed to Lua callbacks.
type TargetInfo struct {
	ID    string
	HP    float64
	MaxHP float64
	Hits  int
}

type rangeVM struct {
	L     *lua.LState
	limit int
}

// Manager owns one sandboxed LState per range and exposes hook dispatch.
//
// Each range's LState is single-threaded; the mutex serializes every call
// into the manager, so a Manager may be shared but is normally owned by one
// scenario run.
type Manager struct {
	mu     sync.Mutex
	states map[string]*rangeVM
	logger *zap.Logger

	// Injected after construction. nil = no-op in engine.* modules.
	QueryTarget func(id string) *TargetInfo
	Random      func() float64
}

// NewManager creates a Manager.
//
// Precondition: logger must be non-nil (panics otherwise).
// Postcondition: Returns a non-nil Manager with an empty range map.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		panic("scripting: NewManager: logger must not be nil")
	}
	return &Manager{
		states: make(map[string]*rangeVM),
		logger: logger,
	}
}

// LoadRange creates a sandboxed VM for rangeID, registers the engine.*
// modules, then executes the script at path. A VM already loaded for
// rangeID is closed and replaced.
//
// Precondition: rangeID must be non-empty; path must be a readable Lua file.
// Postcondition: Range VM is registered; returns error on Lua load failure.
func (m *Manager) LoadRange(rangeID, path string, instLimit int) error {
	L := NewSandboxedState()
	m.RegisterModules(L, rangeID)

	if err := Budgeted(L, instLimit, func() error { return L.DoFile(path) }); err != nil {
		L.Close()
		return fmt.Errorf("scripting: loading %q for %q: %w", path, rangeID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.states[rangeID]; ok {
		old.L.Close()
	}
	m.states[rangeID] = &rangeVM{L: L, limit: instLimit}
	m.logger.Debug("scripting: range script loaded",
		zap.String("range", rangeID),
		zap.String("path", path),
	)
	return nil
}

// HasRange reports whether a VM is loaded for rangeID.
func (m *Manager) HasRange(rangeID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.states[rangeID]
	return ok
}

// CallHook calls the named Lua global function in rangeID's VM with a fresh
// instruction budget. Returns (LNil, nil) if the hook is not defined or no
// VM exists. Lua runtime errors, budget exhaustion included, are logged at
// Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(rangeID, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	vm, ok := m.states[rangeID]
	if !ok {
		m.logger.Info("scripting: no VM for range",
			zap.String("range", rangeID),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}
	L := vm.L

	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	err := Budgeted(L, vm.limit, func() error {
		return L.CallByParam(lua.P{
			Fn:      fn,
			NRet:    1,
			Protect: true,
		}, args...)
	})
	if errors.Is(err, ErrBudgetExhausted) {
		m.logger.Warn("scripting: hook exceeded instruction budget",
			zap.String("range", rangeID),
			zap.String("hook", hook),
			zap.Int("limit", vm.limit),
		)
		return lua.LNil, nil
	}
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("range", rangeID),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// DamageFilter returns a filter that routes damage through rangeID's
// on_damage hook, or nil when the range has no VM. A hook that is missing,
// fails, or returns a non-number leaves the amount unchanged.
func (m *Manager) DamageFilter(rangeID string) func(targetID string, amount, hp float64) float64 {
	if !m.HasRange(rangeID) {
		return nil
	}
	return func(targetID string, amount, hp float64) float64 {
		ret, _ := m.CallHook(rangeID, HookOnDamage,
			lua.LString(targetID), lua.LNumber(amount), lua.LNumber(hp))
		if n, ok := ret.(lua.LNumber); ok {
			return float64(n)
		}
		return amount
	}
}

// Close closes every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, vm := range m.states {
		vm.L.Close()
		delete(m.states, id)
	}
}
