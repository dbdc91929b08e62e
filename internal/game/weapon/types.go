// Package weapon implements the per-weapon combat state machine: firing,
// reloading, aiming, inspecting, fire-mode cadence, and attachment stat
// composition. Presentation (animation, audio, camera) is reached only
// through the sink interfaces in sinks.go.
package weapon

// Type is the weapon family.
type Type string

const (
	// TypeMachineGun is a belt- or box-fed automatic weapon.
	TypeMachineGun Type = "machine_gun"
	// TypeRifle is a magazine-fed rifle.
	TypeRifle Type = "rifle"
	// TypeShotgun fires a spread of pellets per shot.
	TypeShotgun Type = "shotgun"
)

// Valid reports whether t is a known weapon type.
func (t Type) Valid() bool {
	switch t {
	case TypeMachineGun, TypeRifle, TypeShotgun:
		return true
	}
	return false
}

// Slot is an inventory category holding at most one weapon.
type Slot string

const (
	SlotPrimary   Slot = "primary"
	SlotSecondary Slot = "secondary"
	SlotMelee     Slot = "melee"
	SlotThrowable Slot = "throwable"
)

// Slots lists every slot in input order (slot key 1..4).
var Slots = []Slot{SlotPrimary, SlotSecondary, SlotMelee, SlotThrowable}

// Valid reports whether s is a known slot.
func (s Slot) Valid() bool {
	for _, v := range Slots {
		if v == s {
			return true
		}
	}
	return false
}

// FireMode is the trigger cadence of a weapon.
type FireMode string

const (
	// FireModeSingle fires one round per trigger pull.
	FireModeSingle FireMode = "single"
	// FireModeBurst fires a fixed-count burst per trigger pull.
	FireModeBurst FireMode = "burst"
	// FireModeAuto fires continuously while the trigger is held.
	FireModeAuto FireMode = "auto"
)

// Valid reports whether m is a known fire mode.
func (m FireMode) Valid() bool {
	switch m {
	case FireModeSingle, FireModeBurst, FireModeAuto:
		return true
	}
	return false
}

// Optic is a sight that can be mounted on the optic rail.
type Optic string

const (
	OpticIronSight       Optic = "iron_sight"
	OpticRedDot          Optic = "red_dot"
	OpticHolographic     Optic = "holographic"
	OpticTelescopicScope Optic = "telescopic_scope"
	OpticThermalScope    Optic = "thermal_scope"
)

// Muzzle is a device that can be mounted on the barrel.
type Muzzle string

const (
	MuzzleNone        Muzzle = "none"
	MuzzleSuppressor  Muzzle = "suppressor"
	MuzzleFlashHider  Muzzle = "flash_hider"
	MuzzleCompensator Muzzle = "compensator"
	MuzzleBreak       Muzzle = "muzzle_break"
)

// SoundEvent keys the audio sink.
type SoundEvent string

const (
	SoundMagazineOut SoundEvent = "magazine_out"
	SoundMagazineIn  SoundEvent = "magazine_in"
	SoundBoltPull    SoundEvent = "bolt_pull"
	SoundBoltRelease SoundEvent = "bolt_release"
	SoundFire        SoundEvent = "fire"
	SoundEmpty       SoundEvent = "empty"
)

// MountPoint names an attachment rail.
type MountPoint string

const (
	MountOptic  MountPoint = "optic"
	MountMuzzle MountPoint = "muzzle"
)
