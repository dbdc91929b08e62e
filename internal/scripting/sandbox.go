// Package scripting provides a sandboxed GopherLua execution environment
// for range scripts. It has no dependency on game domain packages; all game
// interactions are injected via Manager callback fields.
package scripting

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the maximum number of Lua opcodes allowed per
// script load or hook call when no override is configured.
const DefaultInstructionLimit = 100_000

// ErrBudgetExhausted wraps the Lua error of a chunk stopped for running out
// of instructions.
var ErrBudgetExhausted = errors.New("scripting: instruction budget exhausted")

// opBudget is attached to an LState as its context. The VM polls Done once
// per opcode, so counting the polls meters instructions exactly.
type opBudget struct {
	context.Context
	cancel context.CancelFunc
	left   atomic.Int64
}

func newOpBudget(limit int) *opBudget {
	ctx, cancel := context.WithCancel(context.Background())
	b := &opBudget{Context: ctx, cancel: cancel}
	b.left.Store(int64(limit))
	return b
}

// Done spends one instruction and cancels once none are left.
func (b *opBudget) Done() <-chan struct{} {
	if b.left.Add(-1) <= 0 {
		b.cancel()
	}
	return b.Context.Done()
}

func (b *opBudget) exhausted() bool { return b.left.Load() <= 0 }

// NewSandboxedState creates a GopherLua LState with:
//   - Only safe stdlib loaded: base, table, string, math
//   - Dangerous globals removed: dofile, loadfile, load, collectgarbage, require
//
// The state carries no instruction budget of its own; run code through
// Budgeted so every load and hook call gets a fresh one.
//
// Postcondition: Returns a non-nil LState. The caller owns it and must call
// L.Close() when done.
func NewSandboxedState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	// math.random draws from the process-wide generator; scripts use
	// engine.random instead so seeded runs stay reproducible.
	if m, ok := L.GetGlobal("math").(*lua.LTable); ok {
		m.RawSetString("random", lua.LNil)
		m.RawSetString("randomseed", lua.LNil)
	}
	return L
}

// Budgeted runs fn with L limited to at most instLimit Lua opcodes. The
// budget is removed again before returning.
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: returns fn's error; when the budget ran out it wraps
// ErrBudgetExhausted.
func Budgeted(L *lua.LState, instLimit int, fn func() error) error {
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}
	b := newOpBudget(instLimit)
	defer b.cancel()
	L.SetContext(b)
	defer L.RemoveContext()
	err := fn()
	if err != nil && b.exhausted() {
		return fmt.Errorf("%w after %d instructions: %v", ErrBudgetExhausted, instLimit, err)
	}
	return err
}
