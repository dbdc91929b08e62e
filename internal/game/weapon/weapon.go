package weapon

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/armory/internal/game/geom"
	"github.com/cory-johannsen/armory/internal/game/rng"
	"github.com/cory-johannsen/armory/internal/game/tick"
)

var (
	// ErrMissingProfile is returned by Initialize when no profile was supplied.
	ErrMissingProfile = errors.New("weapon: profile is not assigned")
	// ErrMissingModel is returned by Initialize when the rig has no model transform.
	ErrMissingModel = errors.New("weapon: model transform is not assigned")
	// ErrWrongType is returned when a variant is built from a profile of another type.
	ErrWrongType = errors.New("weapon: profile type does not match variant")
	// ErrInvalidProfile is returned by Initialize when the profile fails Validate.
	ErrInvalidProfile = errors.New("weapon: profile is invalid")
)

// Weapon is the shared firing/reload/aim/inspect state machine. Variants
// embed it and override the cadence of Fire and Trigger.
//
// A Weapon is owned by exactly one inventory slot and is not safe for
// concurrent use. Until Initialize succeeds every command is a no-op.
type Weapon struct {
	id      string
	profile *Profile
	rig     Rig
	logger  *zap.Logger
	src     rng.Source

	hasAnimator bool
	ready       bool
	active      bool

	mag      *Magazine
	stats    StatModifier
	now      time.Duration
	lastDt   time.Duration
	lastFire time.Duration
	hasFired bool

	aiming     bool
	reloading  bool
	inspecting bool
	attacking  bool
	walking    bool
	running    bool

	triggerHeld bool
	animState   string
	fov         float64
	rest        geom.Transform
	optic       Optic
	muzzle      Muzzle

	attackTimer tick.Timer
	reloadTimer tick.Timer
	fovTween    tick.Tween[float64]
	modelTween  tick.Tween[geom.Transform]
}

// New builds an uninitialized weapon instance.
//
// Precondition: none; a nil profile or rig.Model is reported by Initialize.
// Postcondition: Returns a non-nil Weapon with a fresh instance ID. A nil
// logger is replaced by zap.NewNop, a nil src by rng.NewCryptoSource.
func New(profile *Profile, rig Rig, logger *zap.Logger, src rng.Source) *Weapon {
	if logger == nil {
		logger = zap.NewNop()
	}
	if src == nil {
		src = rng.NewCryptoSource()
	}
	id := uuid.New().String()
	fields := []zap.Field{zap.String("instance_id", id)}
	if profile != nil {
		fields = append(fields, zap.String("weapon", profile.ID))
	}
	return &Weapon{
		id:          id,
		profile:     profile,
		rig:         rig.withDefaults(),
		hasAnimator: rig.Animator != nil,
		logger:      logger.With(fields...),
		src:         src,
		stats:       Identity(),
	}
}

// InstanceID returns the unique ID of this weapon instance.
func (w *Weapon) InstanceID() string { return w.id }

// Profile returns the weapon's profile, which may be nil.
func (w *Weapon) Profile() *Profile { return w.profile }

// Name returns the profile name, or "" when no profile is assigned.
func (w *Weapon) Name() string {
	if w.profile == nil {
		return ""
	}
	return w.profile.Name
}

// Type returns the profile's weapon type.
func (w *Weapon) Type() Type {
	if w.profile == nil {
		return ""
	}
	return w.profile.Type
}

// Slot returns the profile's inventory slot.
func (w *Weapon) Slot() Slot {
	if w.profile == nil {
		return ""
	}
	return w.profile.Slot
}

// IsReloading reports whether a reload is in progress.
func (w *Weapon) IsReloading() bool { return w.reloading }

// IsAiming reports whether the weapon is aimed down sights.
func (w *Weapon) IsAiming() bool { return w.aiming }

// IsInspecting reports whether the inspect animation is playing.
func (w *Weapon) IsInspecting() bool { return w.inspecting }

// IsAttacking reports whether the attack cycle of the last shot is running.
func (w *Weapon) IsAttacking() bool { return w.attacking }

// IsActive reports whether the weapon is the one receiving input.
func (w *Weapon) IsActive() bool { return w.active }

// Ready reports whether Initialize succeeded.
func (w *Weapon) Ready() bool { return w.ready }

// Ammo returns the rounds currently loaded.
func (w *Weapon) Ammo() int {
	if w.mag == nil {
		return 0
	}
	return w.mag.Loaded
}

// Modifier returns the cumulative attachment modifier.
func (w *Weapon) Modifier() StatModifier { return w.stats }

// AnimationState returns the last state sent to the animator.
func (w *Weapon) AnimationState() string { return w.animState }

// FieldOfView returns the field of view the weapon is currently easing through.
func (w *Weapon) FieldOfView() float64 { return w.fov }

// Optic returns the mounted optic, or "" when none.
func (w *Weapon) Optic() Optic { return w.optic }

// Muzzle returns the mounted muzzle device, or "" when none.
func (w *Weapon) Muzzle() Muzzle { return w.muzzle }

// Initialize resets the instance to a freshly drawn state: flags cleared,
// magazine full, model at the hip transform, attachments removed.
//
// Postcondition: returns nil and Ready() is true, or returns a configuration
// error, logs it, and leaves the weapon inert.
func (w *Weapon) Initialize() error {
	if w.profile == nil {
		w.logger.Error("weapon profile is not assigned")
		w.ready = false
		return ErrMissingProfile
	}
	if w.rig.Model == nil {
		w.logger.Error("weapon model transform is not assigned")
		w.ready = false
		return fmt.Errorf("initializing %q: %w", w.profile.ID, ErrMissingModel)
	}
	if err := w.profile.Validate(); err != nil {
		w.logger.Error("weapon profile is invalid",
			zap.String("profile", w.profile.ID),
			zap.Error(err),
		)
		w.ready = false
		return fmt.Errorf("initializing %q: %w: %w", w.profile.ID, ErrInvalidProfile, err)
	}
	if !w.hasAnimator {
		w.logger.Warn("animator is not assigned; animations will be disabled")
	}

	w.cancelTimers()
	w.aiming = false
	w.reloading = false
	w.attacking = false
	w.inspecting = false
	w.triggerHeld = false
	w.mag = NewMagazine(w.profile.MagazineSize)
	w.hasFired = false
	w.lastFire = 0
	w.stats = Identity()

	w.rest = w.profile.HipFire
	*w.rig.Model = w.rest
	w.fov = w.profile.FOV.Default
	w.ready = true

	w.play(w.profile.States.SwitchIn, w.profile.Transitions.Switch, false, false)
	w.clearAttachments()

	w.logger.Debug("weapon initialized",
		zap.Int("magazine", w.mag.Capacity),
		zap.Duration("fire_rate", w.profile.FireRate),
	)
	return nil
}

// Tick advances the weapon's clock and fires any timers whose deadline has
// elapsed. It must be called once per frame before input is applied.
//
// Precondition: dt >= 0.
func (w *Weapon) Tick(dt time.Duration) {
	w.now += dt
	w.lastDt = dt
	if !w.ready {
		return
	}
	w.attackTimer.Advance(dt)
	w.reloadTimer.Advance(dt)
	if v, ok := w.fovTween.Advance(dt); ok {
		w.fov = v
	}
	if v, ok := w.modelTween.Advance(dt); ok {
		*w.rig.Model = v
	}
}

// Cooldown returns the effective time between shots: FireRate divided by
// the cumulative AimSpeed multiplier.
func (w *Weapon) Cooldown() time.Duration {
	if w.profile == nil {
		return 0
	}
	return time.Duration(float64(w.profile.FireRate) / w.stats.AimSpeed)
}

// CanFire reports whether Fire would discharge a round right now.
func (w *Weapon) CanFire() bool {
	if w.profile == nil || !w.ready || w.inspecting || w.reloading {
		return false
	}
	if w.mag.IsEmpty() {
		return false
	}
	return !w.hasFired || w.now-w.lastFire >= w.Cooldown()
}

// Fire discharges one round when CanFire holds: resolves the hit, plays the
// attack effects, consumes the round, and restarts the attack cycle.
//
// Postcondition: returns true iff a round was consumed.
func (w *Weapon) Fire() bool {
	if !w.CanFire() {
		return false
	}
	w.discharge()
	w.lastFire = w.now
	w.hasFired = true
	if err := w.mag.Consume(1); err != nil {
		// CanFire guarantees a loaded round.
		w.logger.Error("consuming round", zap.Error(err))
	}

	w.attacking = true
	w.attackTimer.Reset(w.profile.Transitions.AttackAnimation, func() {
		w.attacking = false
	})
	return true
}

// Trigger feeds the trigger state for this tick. The base weapon fires once
// per fresh pull.
func (w *Weapon) Trigger(held bool) {
	if !w.pull(held) {
		return
	}
	if !w.Fire() {
		w.DryFire()
	}
}

// pull records the trigger state and reports whether this tick is a fresh pull.
func (w *Weapon) pull(held bool) bool {
	pressed := held && !w.triggerHeld
	w.triggerHeld = held
	return pressed
}

// DryFire plays the empty click when the trigger is pulled on an empty
// magazine outside of reload and inspect.
//
// Postcondition: returns true iff the Empty sound was emitted.
func (w *Weapon) DryFire() bool {
	if !w.ready || w.reloading || w.inspecting || !w.mag.IsEmpty() {
		return false
	}
	w.rig.Audio.Play(SoundEmpty)
	return true
}

// CanReload reports whether Reload would start a reload.
func (w *Weapon) CanReload() bool {
	return w.ready && !w.reloading && !w.mag.IsFull()
}

// Reload starts a reload that completes after the profile's ReloadDuration
// or when the animator reports completion, whichever comes first.
//
// Postcondition: returns true iff a reload was started.
func (w *Weapon) Reload() bool {
	if !w.CanReload() {
		return false
	}
	w.reloading = true
	w.play(w.profile.States.Reload, w.profile.Transitions.Default, false, false)
	w.reloadTimer.Reset(w.profile.ReloadDuration, w.OnReloadAnimationComplete)
	w.logger.Debug("reload started", zap.Int("ammo", w.mag.Loaded))
	return true
}

// OnReloadAnimationComplete finishes an in-progress reload.
func (w *Weapon) OnReloadAnimationComplete() {
	if !w.ready || !w.reloading {
		return
	}
	w.reloadTimer.Stop()
	w.reloading = false
	w.mag.Refill()
	w.play(w.profile.States.Idle, w.profile.Transitions.Default, false, false)
	w.logger.Debug("reload complete", zap.Int("ammo", w.mag.Loaded))
}

// Inspect starts the inspect animation.
//
// Postcondition: returns true iff inspecting started.
func (w *Weapon) Inspect() bool {
	if !w.ready || w.reloading || w.inspecting {
		return false
	}
	w.inspecting = true
	w.play(w.profile.States.Inspect, w.profile.Transitions.Inspect, false, false)
	return true
}

// OnInspectAnimationComplete ends the inspect animation.
func (w *Weapon) OnInspectAnimationComplete() {
	if !w.ready || !w.inspecting {
		return
	}
	w.inspecting = false
	w.play(w.profile.States.Idle, w.profile.Transitions.Default, false, false)
}

// OnAnimationEvent forwards a sound keyed by an animation clip event.
func (w *Weapon) OnAnimationEvent(event SoundEvent) {
	if !w.ready {
		return
	}
	w.rig.Audio.Play(event)
}

// SetActive brings the weapon into or out of the player's hands.
// Deactivating cancels every pending timer, abandons any reload in progress,
// and settles running tweens at their targets.
func (w *Weapon) SetActive(active bool) {
	if w.active == active {
		return
	}
	w.active = active
	if !w.ready {
		return
	}
	if active {
		w.play(w.profile.States.SwitchIn, w.profile.Transitions.Switch, true, false)
		return
	}
	w.settle()
	w.cancelTimers()
	w.reloading = false
	w.attacking = false
	w.triggerHeld = false
	w.play(w.profile.States.SwitchOut, w.profile.Transitions.Switch, false, false)
}

// ZeroRoot parents the instance at the holder origin.
func (w *Weapon) ZeroRoot() {
	*w.rig.Root = geom.Transform{}
}

// Destroy cancels all pending timers and removes attachment visuals. The
// weapon is inert afterwards.
func (w *Weapon) Destroy() {
	w.cancelTimers()
	if w.ready {
		w.clearAttachments()
	}
	w.ready = false
	w.active = false
}

// settle snaps running tweens to their targets.
func (w *Weapon) settle() {
	if w.fovTween.Active() {
		w.fov = w.fovTween.Target()
	}
	if w.modelTween.Active() {
		*w.rig.Model = w.modelTween.Target()
	}
}

func (w *Weapon) cancelTimers() {
	w.attackTimer.Stop()
	w.reloadTimer.Stop()
	w.fovTween.Cancel()
	w.modelTween.Cancel()
}

// play sends a cue to the animator. With suppressDuplicate set, a cue for
// the state already playing is dropped.
func (w *Weapon) play(state string, transition time.Duration, suppressDuplicate, rebind bool) {
	if suppressDuplicate && strings.EqualFold(w.animState, state) {
		return
	}
	w.animState = state
	w.rig.Animator.Play(AnimationCue{
		State:             state,
		Transition:        transition,
		SuppressDuplicate: suppressDuplicate,
		Rebind:            rebind,
	})
}
