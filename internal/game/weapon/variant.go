package weapon

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/armory/internal/game/rng"
)

// Armament is the capability set every weapon variant exposes to the
// inventory.
type Armament interface {
	InstanceID() string
	Name() string
	Type() Type
	Slot() Slot

	Initialize() error
	Tick(dt time.Duration)
	Trigger(held bool)
	Fire() bool
	Reload() bool
	Inspect() bool
	AimDownSight(aiming bool) bool
	UpdateMovementState(walking, running bool)
	AttachOptic(o Optic) bool
	AttachMuzzle(mz Muzzle) bool

	CanFire() bool
	CanReload() bool
	IsReloading() bool
	IsAiming() bool
	Ammo() int

	OnReloadAnimationComplete()
	OnInspectAnimationComplete()
	OnAnimationEvent(event SoundEvent)

	SetActive(active bool)
	ZeroRoot()
	Destroy()
}

// FireModeSelector is implemented by variants with selectable fire modes.
type FireModeSelector interface {
	Armament
	FireMode() FireMode
	SetFireMode(m FireMode) bool
	CycleFireMode() FireMode
}

// Rifle is a selective-fire rifle.
type Rifle struct {
	*FireModeController
}

// NewRifle builds a rifle instance from a rifle profile.
func NewRifle(profile *Profile, rig Rig, logger *zap.Logger, src rng.Source) *Rifle {
	return &Rifle{FireModeController: NewFireModeController(New(profile, rig, logger, src))}
}

// Initialize validates the profile type before initializing the weapon.
func (r *Rifle) Initialize() error {
	if err := r.checkType(TypeRifle); err != nil {
		return err
	}
	return r.FireModeController.Initialize()
}

// MachineGun is a sustained-fire weapon; its profile usually defaults to auto.
type MachineGun struct {
	*FireModeController
}

// NewMachineGun builds a machine gun instance from a machine gun profile.
func NewMachineGun(profile *Profile, rig Rig, logger *zap.Logger, src rng.Source) *MachineGun {
	return &MachineGun{FireModeController: NewFireModeController(New(profile, rig, logger, src))}
}

// Initialize validates the profile type before initializing the weapon.
func (m *MachineGun) Initialize() error {
	if err := m.checkType(TypeMachineGun); err != nil {
		return err
	}
	return m.FireModeController.Initialize()
}

// Shotgun fires Pellets rays per trigger pull.
type Shotgun struct {
	*Weapon
}

// NewShotgun builds a shotgun instance from a shotgun profile.
func NewShotgun(profile *Profile, rig Rig, logger *zap.Logger, src rng.Source) *Shotgun {
	return &Shotgun{Weapon: New(profile, rig, logger, src)}
}

// Initialize validates the profile type before initializing the weapon.
func (s *Shotgun) Initialize() error {
	if err := s.checkType(TypeShotgun); err != nil {
		return err
	}
	return s.Weapon.Initialize()
}

// checkType logs and returns ErrWrongType when the profile is of another type.
// A nil profile is left for Weapon.Initialize to report.
func (w *Weapon) checkType(want Type) error {
	if w.profile == nil || w.profile.Type == want {
		return nil
	}
	w.ready = false
	w.logger.Error("invalid weapon type",
		zap.String("expected", string(want)),
		zap.String("got", string(w.profile.Type)),
	)
	return fmt.Errorf("%w: expected %s, got %s", ErrWrongType, want, w.profile.Type)
}

// Build returns the variant matching profile.Type.
//
// Precondition: profile must be non-nil.
// Postcondition: returns an uninitialized Armament or an error for unknown types.
func Build(profile *Profile, rig Rig, logger *zap.Logger, src rng.Source) (Armament, error) {
	switch profile.Type {
	case TypeRifle:
		return NewRifle(profile, rig, logger, src), nil
	case TypeMachineGun:
		return NewMachineGun(profile, rig, logger, src), nil
	case TypeShotgun:
		return NewShotgun(profile, rig, logger, src), nil
	}
	return nil, fmt.Errorf("weapon: Build: unknown weapon type %q for profile %q", profile.Type, profile.ID)
}
