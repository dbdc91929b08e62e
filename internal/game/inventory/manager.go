// Package inventory owns the weapons a player carries, one per slot, and
// routes each tick's input to the weapon currently in hand.
package inventory

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/armory/internal/game/weapon"
)

// Input is the player's control state for one tick. Fire and Aim are held
// states; Reload, Inspect and CycleFireMode are pressed edges; SwitchSlot
// requests a switch when non-empty.
type Input struct {
	Fire          bool
	Aim           bool
	Reload        bool
	Inspect       bool
	CycleFireMode bool
	SwitchSlot    weapon.Slot
	Walking       bool
	Running       bool
}

// Manager holds one weapon per slot and a pointer to the slot in hand.
// Invariant: at most one weapon is active; the active weapon is slots[currentSlot].
//
// A Manager is not safe for concurrent use; it is driven from one tick loop.
type Manager struct {
	slots       map[weapon.Slot]weapon.Armament
	current     weapon.Armament
	currentSlot weapon.Slot
	logger      *zap.Logger
}

// NewManager returns an empty Manager. A nil logger is replaced by zap.NewNop.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		slots:  make(map[weapon.Slot]weapon.Armament),
		logger: logger,
	}
}

// Equip places a in slot, destroying any previous occupant, zeroes its root
// transform and initializes it. When no weapon is in hand the new one is
// switched to.
//
// Precondition: a must not be nil; slot must be a known slot.
// Postcondition: Weapon(slot) == a. A weapon that fails to initialize stays
// in the slot, inert, and the initialization error is returned.
func (m *Manager) Equip(a weapon.Armament, slot weapon.Slot) error {
	if a == nil {
		return errors.New("inventory: Manager.Equip: weapon must not be nil")
	}
	if !slot.Valid() {
		return fmt.Errorf("inventory: Manager.Equip: unknown slot %q", slot)
	}
	for s, held := range m.slots {
		if held == a && s != slot {
			return fmt.Errorf("inventory: Manager.Equip: weapon %s already equipped in slot %q", a.InstanceID(), s)
		}
	}

	m.Unequip(slot)
	m.slots[slot] = a
	a.ZeroRoot()
	if err := a.Initialize(); err != nil {
		m.logger.Error("equipped weapon failed to initialize",
			zap.String("slot", string(slot)),
			zap.String("weapon", a.Name()),
			zap.Error(err),
		)
		return fmt.Errorf("inventory: equipping %q: %w", slot, err)
	}
	m.logger.Debug("weapon equipped",
		zap.String("slot", string(slot)),
		zap.String("weapon", a.Name()),
		zap.String("instance_id", a.InstanceID()),
	)

	if m.current == nil {
		m.SwitchTo(slot)
	}
	return nil
}

// Unequip destroys the weapon in slot and clears the hand when it was active.
//
// Postcondition: returns true iff a weapon was removed; Weapon(slot) == nil.
func (m *Manager) Unequip(slot weapon.Slot) bool {
	a, ok := m.slots[slot]
	if !ok {
		return false
	}
	if m.current == a {
		m.current = nil
		m.currentSlot = ""
	}
	a.Destroy()
	delete(m.slots, slot)
	m.logger.Debug("weapon unequipped", zap.String("slot", string(slot)))
	return true
}

// SwitchTo puts the weapon in slot in hand. The outgoing weapon is lowered
// from the sights and deactivated first; both take effect this tick.
//
// Postcondition: returns true iff the active weapon changed. Switching to
// the active or an empty slot is a no-op.
func (m *Manager) SwitchTo(slot weapon.Slot) bool {
	next, ok := m.slots[slot]
	if !ok {
		return false
	}
	if m.current != nil && m.currentSlot == slot {
		return false
	}
	if out := m.current; out != nil {
		if out.IsAiming() {
			out.AimDownSight(false)
		}
		out.SetActive(false)
		// A reload refuses the first request; deactivating abandons it.
		if out.IsAiming() {
			out.AimDownSight(false)
		}
	}
	m.current = next
	m.currentSlot = slot
	next.SetActive(true)
	m.logger.Debug("switched weapon",
		zap.String("slot", string(slot)),
		zap.String("weapon", next.Name()),
	)
	return true
}

// Tick advances the weapon in hand by dt, then applies in: weapon commands,
// then slot switching, then movement state.
func (m *Manager) Tick(dt time.Duration, in Input) {
	if m.current == nil {
		return
	}
	m.current.Tick(dt)
	m.handleWeaponInput(in)
	if in.SwitchSlot != "" {
		m.SwitchTo(in.SwitchSlot)
	}
	if m.current != nil {
		m.current.UpdateMovementState(in.Walking, in.Running)
	}
}

func (m *Manager) handleWeaponInput(in Input) {
	w := m.current
	// A release refused mid-reload is retried on the next tick.
	if in.Aim {
		w.AimDownSight(true)
	} else if w.IsAiming() {
		w.AimDownSight(false)
	}
	w.Trigger(in.Fire)
	if in.Reload {
		w.Reload()
	}
	if in.Inspect {
		w.Inspect()
	}
	if in.CycleFireMode {
		if sel, ok := w.(weapon.FireModeSelector); ok {
			mode := sel.CycleFireMode()
			m.logger.Debug("fire mode", zap.String("mode", string(mode)))
		}
	}
}

// AttachOptic forwards to the weapon in hand.
//
// Postcondition: returns false when nothing is in hand or the weapon refused.
func (m *Manager) AttachOptic(o weapon.Optic) bool {
	if m.current == nil {
		return false
	}
	return m.current.AttachOptic(o)
}

// AttachMuzzle forwards to the weapon in hand.
func (m *Manager) AttachMuzzle(mz weapon.Muzzle) bool {
	if m.current == nil {
		return false
	}
	return m.current.AttachMuzzle(mz)
}

// Current returns the weapon in hand, or nil.
func (m *Manager) Current() weapon.Armament { return m.current }

// CurrentSlot returns the slot in hand, or "" when nothing is.
func (m *Manager) CurrentSlot() weapon.Slot { return m.currentSlot }

// Weapon returns the weapon in slot, or nil.
func (m *Manager) Weapon(slot weapon.Slot) weapon.Armament { return m.slots[slot] }

// Clear unequips every slot.
//
// Postcondition: Current() == nil and every slot is empty.
func (m *Manager) Clear() {
	for _, s := range weapon.Slots {
		m.Unequip(s)
	}
}
