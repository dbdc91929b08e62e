package weapon_test

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/cory-johannsen/armory/internal/game/weapon"
)

// TestMagazine_NewMagazine_FullyLoaded verifies that NewMagazine initialises
// Loaded == Capacity.
func TestMagazine_NewMagazine_FullyLoaded(t *testing.T) {
	m := weapon.NewMagazine(30)
	if m.Loaded != 30 || m.Capacity != 30 {
		t.Fatalf("expected 30/30, got %d/%d", m.Loaded, m.Capacity)
	}
	if !m.IsFull() || m.IsEmpty() {
		t.Fatal("expected a new magazine to be full and not empty")
	}
}

// TestMagazine_Consume_FailsWhenEmpty verifies that Consume returns an error
// once the last round is gone.
func TestMagazine_Consume_FailsWhenEmpty(t *testing.T) {
	m := weapon.NewMagazine(1)
	if err := m.Consume(1); err != nil {
		t.Fatalf("unexpected error draining: %v", err)
	}
	if !m.IsEmpty() {
		t.Fatal("expected empty magazine")
	}
	if err := m.Consume(1); err == nil {
		t.Fatal("expected error consuming from empty magazine, got nil")
	}
}

// TestMagazine_Consume_OverdrawLeavesRoundsUntouched verifies that asking
// for more rounds than remain fails without spending any.
func TestMagazine_Consume_OverdrawLeavesRoundsUntouched(t *testing.T) {
	m := weapon.NewMagazine(3)
	err := m.Consume(4)
	if err == nil {
		t.Fatal("expected error overdrawing magazine, got nil")
	}
	if m.Loaded != 3 {
		t.Fatalf("expected Loaded=3 after failed consume, got %d", m.Loaded)
	}
	if !strings.Contains(err.Error(), "want 4, have 3") {
		t.Fatalf("expected round counts in error, got %q", err)
	}
}

// TestMagazine_Refill_RestoresToCapacity verifies that Refill tops up a
// partially spent magazine.
func TestMagazine_Refill_RestoresToCapacity(t *testing.T) {
	m := weapon.NewMagazine(8)
	if err := m.Consume(5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.Refill()
	if m.Loaded != 8 {
		t.Fatalf("expected Loaded=8 after refill, got %d", m.Loaded)
	}
}

// TestMagazine_PanicsOnInvalidArguments verifies the constructor and Consume
// preconditions.
func TestMagazine_PanicsOnInvalidArguments(t *testing.T) {
	expectPanic := func(name string, fn func()) {
		t.Helper()
		defer func() {
			if r := recover(); r == nil {
				t.Fatalf("%s: expected panic, got none", name)
			}
		}()
		fn()
	}
	expectPanic("NewMagazine(0)", func() { weapon.NewMagazine(0) })
	expectPanic("Consume(0)", func() { _ = weapon.NewMagazine(5).Consume(0) })
}

// TestProperty_Magazine_LoadedNeverExceedsCapacity asserts Loaded stays in
// [0, Capacity] for arbitrary consume/refill sequences.
func TestProperty_Magazine_LoadedNeverExceedsCapacity(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		capacity := rapid.IntRange(1, 60).Draw(rt, "capacity")
		m := weapon.NewMagazine(capacity)
		ops := rapid.SliceOf(rapid.IntRange(0, capacity)).Draw(rt, "ops")
		for _, n := range ops {
			if n == 0 {
				m.Refill()
			} else {
				_ = m.Consume(n)
			}
			if m.Loaded < 0 || m.Loaded > m.Capacity {
				rt.Fatalf("Loaded=%d outside [0, %d]", m.Loaded, m.Capacity)
			}
		}
	})
}
