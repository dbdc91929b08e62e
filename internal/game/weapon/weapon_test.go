package weapon_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/armory/internal/game/geom"
	"github.com/cory-johannsen/armory/internal/game/rng"
	"github.com/cory-johannsen/armory/internal/game/weapon"
)

const frame = 100 * time.Millisecond

func TestInitialize_ResetsToDrawnState(t *testing.T) {
	f := newFixture()
	w := newBase(f, rifleProfile())

	assert.True(t, w.Ready())
	assert.Equal(t, 30, w.Ammo())
	assert.False(t, w.IsAiming())
	assert.False(t, w.IsReloading())
	assert.Equal(t, weapon.Identity(), w.Modifier())
	assert.Equal(t, rifleProfile().HipFire, *f.model)
	assert.Equal(t, 60.0, w.FieldOfView())
	assert.Equal(t, "Switch_In", f.animator.last().State)
	assert.NotEmpty(t, w.InstanceID())
}

func TestInitialize_MissingProfile(t *testing.T) {
	f := newFixture()
	core, logs := observer.New(zap.ErrorLevel)
	w := weapon.New(nil, f.rig(), zap.New(core), rng.Fixed(0.5))

	err := w.Initialize()
	require.ErrorIs(t, err, weapon.ErrMissingProfile)
	assert.False(t, w.Ready())
	assert.False(t, w.Fire())
	assert.Equal(t, 1, logs.FilterMessage("weapon profile is not assigned").Len())
}

func TestInitialize_InvalidProfileLeavesWeaponInert(t *testing.T) {
	f := newFixture()
	core, logs := observer.New(zap.ErrorLevel)
	p := rifleProfile()
	p.MagazineSize = 0
	w := weapon.New(p, f.rig(), zap.New(core), rng.Fixed(0.5))

	err := w.Initialize()
	require.ErrorIs(t, err, weapon.ErrInvalidProfile)
	assert.False(t, w.Ready())
	assert.False(t, w.Fire())
	assert.False(t, w.Reload())
	assert.False(t, w.DryFire())
	assert.Equal(t, 0, w.Ammo())
	assert.Equal(t, 1, logs.FilterMessage("weapon profile is invalid").Len())
}

func TestInitialize_MissingModel(t *testing.T) {
	f := newFixture()
	rig := f.rig()
	rig.Model = nil
	w := weapon.New(rifleProfile(), rig, nil, rng.Fixed(0.5))

	err := w.Initialize()
	require.ErrorIs(t, err, weapon.ErrMissingModel)
	assert.False(t, w.Ready())
	assert.False(t, w.CanFire())
}

func TestInitialize_MissingAnimatorWarnsOnly(t *testing.T) {
	f := newFixture()
	rig := f.rig()
	rig.Animator = nil
	core, logs := observer.New(zap.WarnLevel)
	w := weapon.New(rifleProfile(), rig, zap.New(core), rng.Fixed(0.5))

	require.NoError(t, w.Initialize())
	assert.True(t, w.Ready())
	assert.Equal(t, 1, logs.FilterMessage("animator is not assigned; animations will be disabled").Len())
	assert.True(t, w.Fire())
}

func TestFire_EmptiesMagazineThenRefuses(t *testing.T) {
	f := newFixture()
	w := newBase(f, rifleProfile())

	fired := 0
	for i := 0; i < 31; i++ {
		if w.Fire() {
			fired++
		}
		w.Tick(frame)
	}
	assert.Equal(t, 30, fired)
	assert.Equal(t, 0, w.Ammo())
	assert.Equal(t, 30, f.audio.count(weapon.SoundFire))
	assert.Equal(t, 30, f.target.hits)
	assert.InDelta(t, 300.0, f.target.damage, 1e-9)
	assert.Len(t, f.recoil.kicks, 30)
	assert.False(t, w.CanFire())
}

func TestFire_RespectsCooldown(t *testing.T) {
	f := newFixture()
	w := newBase(f, rifleProfile())

	require.True(t, w.Fire())
	w.Tick(50 * time.Millisecond)
	assert.False(t, w.Fire())
	w.Tick(50 * time.Millisecond)
	assert.True(t, w.Fire())
	assert.Equal(t, 28, w.Ammo())
}

func TestFire_AttackWindowClearsAfterAnimation(t *testing.T) {
	f := newFixture()
	w := newBase(f, rifleProfile())

	require.True(t, w.Fire())
	assert.True(t, w.IsAttacking())
	assert.True(t, f.animator.last().Rebind)
	assert.Equal(t, "Attack", f.animator.last().State)
	w.Tick(frame)
	assert.False(t, w.IsAttacking())
}

func TestTrigger_FiresOncePerPull(t *testing.T) {
	f := newFixture()
	w := newBase(f, rifleProfile())

	for i := 0; i < 5; i++ {
		w.Trigger(true)
		w.Tick(frame)
	}
	assert.Equal(t, 29, w.Ammo())
	w.Trigger(false)
	w.Trigger(true)
	assert.Equal(t, 28, w.Ammo())
}

func TestDryFire_OnlyWhenEmpty(t *testing.T) {
	f := newFixture()
	p := rifleProfile()
	p.MagazineSize = 1
	w := newBase(f, p)

	assert.False(t, w.DryFire())
	w.Trigger(true)
	w.Trigger(false)
	w.Tick(frame)
	w.Trigger(true)
	assert.Equal(t, 1, f.audio.count(weapon.SoundEmpty))

	require.True(t, w.Reload())
	assert.False(t, w.DryFire())
}

func TestReload_CompletesAfterDuration(t *testing.T) {
	f := newFixture()
	w := newBase(f, rifleProfile())

	require.True(t, w.Fire())
	require.True(t, w.Reload())
	assert.True(t, w.IsReloading())
	assert.False(t, w.CanFire())
	assert.Equal(t, "Reload", f.animator.last().State)

	for i := 0; i < 9; i++ {
		w.Tick(frame)
	}
	assert.True(t, w.IsReloading())
	w.Tick(frame)
	assert.False(t, w.IsReloading())
	assert.Equal(t, 30, w.Ammo())
	assert.Equal(t, "Idle", f.animator.last().State)
}

func TestReload_FullMagazineIsNoop(t *testing.T) {
	f := newFixture()
	w := newBase(f, rifleProfile())
	cues := len(f.animator.cues)

	assert.False(t, w.Reload())
	assert.False(t, w.IsReloading())
	assert.Len(t, f.animator.cues, cues)
}

func TestReload_AnimationCompletionFinishesEarly(t *testing.T) {
	f := newFixture()
	w := newBase(f, rifleProfile())
	require.True(t, w.Fire())
	require.True(t, w.Reload())

	w.OnReloadAnimationComplete()
	assert.False(t, w.IsReloading())
	assert.Equal(t, 30, w.Ammo())

	// The timer was stopped, so the deadline does not replay Idle.
	cues := len(f.animator.cues)
	w.Tick(2 * time.Second)
	assert.Len(t, f.animator.cues, cues)
}

func TestReload_AbandonedOnDeactivate(t *testing.T) {
	f := newFixture()
	w := newBase(f, rifleProfile())
	w.SetActive(true)
	require.True(t, w.Fire())
	require.True(t, w.Reload())

	w.SetActive(false)
	assert.False(t, w.IsReloading())
	assert.Equal(t, 29, w.Ammo())
	assert.Equal(t, "Switch_Out", f.animator.last().State)

	w.SetActive(true)
	assert.True(t, w.CanReload())
}

func TestInspect_BlocksFireAndReload(t *testing.T) {
	f := newFixture()
	w := newBase(f, rifleProfile())
	require.True(t, w.Fire())

	require.True(t, w.Inspect())
	assert.False(t, w.Inspect())
	assert.False(t, w.CanFire())
	assert.False(t, w.AimDownSight(true))
	assert.Equal(t, "Inspect", f.animator.last().State)

	w.OnInspectAnimationComplete()
	assert.False(t, w.IsInspecting())
	assert.Equal(t, "Idle", f.animator.last().State)
}

func TestOnAnimationEvent_ForwardsSound(t *testing.T) {
	f := newFixture()
	w := newBase(f, rifleProfile())

	w.OnAnimationEvent(weapon.SoundMagazineOut)
	w.OnAnimationEvent(weapon.SoundBoltPull)
	assert.Equal(t, []weapon.SoundEvent{weapon.SoundMagazineOut, weapon.SoundBoltPull}, f.audio.events)
}

func TestAimDownSight_TransitionsModelAndFOV(t *testing.T) {
	f := newFixture()
	p := rifleProfile()
	w := newBase(f, p)

	require.True(t, w.AimDownSight(true))
	assert.False(t, w.AimDownSight(true))
	assert.Equal(t, 1, f.sway.resets)
	require.Len(t, f.camera.calls, 1)
	assert.Equal(t, 40.0, f.camera.calls[0].target)
	assert.Equal(t, 300*time.Millisecond, f.camera.calls[0].duration)
	assert.Equal(t, "Idle", f.animator.last().State)

	for i := 0; i < 3; i++ {
		w.Tick(frame)
	}
	assert.InDelta(t, 40.0, w.FieldOfView(), 1e-9)
	assert.InDelta(t, p.ADS.Position.Z, f.model.Position.Z, 1e-9)

	require.True(t, w.AimDownSight(false))
	for i := 0; i < 3; i++ {
		w.Tick(frame)
	}
	assert.InDelta(t, 60.0, w.FieldOfView(), 1e-9)
	assert.InDelta(t, p.HipFire.Position.X, f.model.Position.X, 1e-9)
}

func TestAimDownSight_ImprovesAccuracyAndRecoil(t *testing.T) {
	f := newFixture()
	p := rifleProfile()
	p.BaseAccuracy = 0.6
	w := newBase(f, p)

	hip := w.EffectiveAccuracy()
	require.True(t, w.Fire())
	w.AimDownSight(true)
	w.Tick(frame)
	require.True(t, w.Fire())

	assert.InDelta(t, hip*p.ADSAccuracyMultiplier, w.EffectiveAccuracy(), 1e-9)
	require.Len(t, f.recoil.kicks, 2)
	assert.InDelta(t, f.recoil.kicks[0].Vertical*p.ADSRecoilMultiplier, f.recoil.kicks[1].Vertical, 1e-9)
	assert.Equal(t, 0.6, f.recoil.kicks[0].Recovery)
	assert.Equal(t, 0.8, f.recoil.kicks[1].Recovery)
	assert.Equal(t, 0.0, f.recoil.kicks[0].Horizontal)
}

func TestAimDownSight_RefusedWhileReloading(t *testing.T) {
	f := newFixture()
	w := newBase(f, rifleProfile())
	require.True(t, w.Fire())
	require.True(t, w.Reload())
	assert.False(t, w.AimDownSight(true))
	assert.False(t, w.IsAiming())
}

func TestUpdateMovementState_SelectsLocomotion(t *testing.T) {
	f := newFixture()
	p := rifleProfile()
	p.Sway.Enabled = true
	w := newBase(f, p)

	w.UpdateMovementState(true, false)
	assert.Equal(t, "Walk", w.AnimationState())
	w.UpdateMovementState(true, false)
	assert.Equal(t, 1, f.animator.count("Walk"))

	w.UpdateMovementState(true, true)
	assert.Equal(t, "Run", w.AnimationState())

	w.UpdateMovementState(false, false)
	w.UpdateMovementState(false, false)
	assert.Equal(t, "Idle", w.AnimationState())
	assert.Equal(t, 2, f.animator.count("Idle"))

	assert.Len(t, f.sway.calls, 5)
	assert.True(t, f.sway.hovers[0])
	assert.Equal(t, 1.0, f.sway.calls[0])
}

func TestUpdateMovementState_SuppressedWhileAttacking(t *testing.T) {
	f := newFixture()
	w := newBase(f, rifleProfile())
	require.True(t, w.Fire())

	w.UpdateMovementState(true, false)
	assert.Equal(t, "Attack", w.AnimationState())
	w.Tick(frame)
	w.UpdateMovementState(true, false)
	assert.Equal(t, "Walk", w.AnimationState())
}

func TestUpdateMovementState_SwayWhileAiming(t *testing.T) {
	f := newFixture()
	p := rifleProfile()
	p.Sway.Enabled = true
	w := newBase(f, p)
	w.AimDownSight(true)

	w.UpdateMovementState(true, false)
	require.Len(t, f.sway.calls, 1)
	assert.False(t, f.sway.hovers[0])
	assert.Equal(t, 0.5, f.sway.calls[0])
	assert.Equal(t, "Idle", w.AnimationState())
}

func TestAttachOptic_ComposesModifiers(t *testing.T) {
	f := newFixture()
	w := newBase(f, rifleProfile())

	require.True(t, w.AttachOptic(weapon.OpticRedDot))
	require.True(t, w.AttachMuzzle(weapon.MuzzleSuppressor))

	want := weapon.OpticModifier(weapon.OpticRedDot).Compose(weapon.MuzzleModifier(weapon.MuzzleSuppressor))
	assert.Equal(t, want, w.Modifier())
	assert.Equal(t, "red_dot", f.mounts.attached[weapon.MountOptic])
	assert.Equal(t, "suppressor", f.mounts.attached[weapon.MountMuzzle])
	assert.InDelta(t, 9.0, w.Damage(), 1e-9)
	base := 100 * time.Millisecond
	assert.Equal(t, time.Duration(float64(base)/1.1), w.Cooldown())
}

func TestAttachOptic_StackingCompounds(t *testing.T) {
	f := newFixture()
	w := newBase(f, rifleProfile())

	w.AttachOptic(weapon.OpticTelescopicScope)
	w.AttachOptic(weapon.OpticTelescopicScope)
	assert.InDelta(t, 1.44, w.Modifier().Accuracy, 1e-9)
	assert.InDelta(t, 0.64, w.Modifier().AimSpeed, 1e-9)
	assert.Equal(t, weapon.OpticTelescopicScope, w.Optic())
}

func TestAttachMuzzle_NoneDetachesVisual(t *testing.T) {
	f := newFixture()
	w := newBase(f, rifleProfile())
	w.AttachMuzzle(weapon.MuzzleCompensator)

	require.True(t, w.AttachMuzzle(weapon.MuzzleNone))
	_, ok := f.mounts.attached[weapon.MountMuzzle]
	assert.False(t, ok)
	assert.InDelta(t, 0.7, w.Modifier().Recoil, 1e-9)
}

func TestAttach_MissingMountLeavesStats(t *testing.T) {
	f := newFixture()
	rig := f.rig()
	rig.OpticMount = false
	core, logs := observer.New(zap.ErrorLevel)
	w := weapon.New(rifleProfile(), rig, zap.New(core), rng.Fixed(0.5))
	require.NoError(t, w.Initialize())

	assert.False(t, w.AttachOptic(weapon.OpticHolographic))
	assert.Equal(t, weapon.Identity(), w.Modifier())
	assert.Equal(t, weapon.Optic(""), w.Optic())
	assert.Equal(t, 1, logs.FilterMessage("no optic mount point assigned").Len())
}

func TestInitialize_ClearsAttachments(t *testing.T) {
	f := newFixture()
	w := newBase(f, rifleProfile())
	w.AttachOptic(weapon.OpticRedDot)

	require.NoError(t, w.Initialize())
	assert.Equal(t, weapon.Identity(), w.Modifier())
	assert.Empty(t, f.mounts.attached)
}

func TestSetActive_SuppressesDuplicateSwitchIn(t *testing.T) {
	f := newFixture()
	w := newBase(f, rifleProfile())
	before := f.animator.count("Switch_In")

	w.SetActive(true)
	assert.Equal(t, before, f.animator.count("Switch_In"))
	assert.True(t, w.IsActive())
}

func TestSetActive_SettlesAimTween(t *testing.T) {
	f := newFixture()
	p := rifleProfile()
	w := newBase(f, p)
	w.SetActive(true)
	w.AimDownSight(true)
	w.Tick(frame)

	w.SetActive(false)
	assert.Equal(t, p.ADS, *f.model)
	assert.Equal(t, 40.0, w.FieldOfView())
}

func TestZeroRoot_ResetsHolderTransform(t *testing.T) {
	f := newFixture()
	root := &geom.Transform{Position: geom.Vec3{X: 3, Y: 2, Z: 1}}
	rig := f.rig()
	rig.Root = root
	w := weapon.New(rifleProfile(), rig, nil, rng.Fixed(0.5))

	w.ZeroRoot()
	assert.Equal(t, geom.Transform{}, *root)
}

func TestDestroy_LeavesWeaponInert(t *testing.T) {
	f := newFixture()
	w := newBase(f, rifleProfile())
	w.AttachOptic(weapon.OpticRedDot)
	require.True(t, w.Fire())
	require.True(t, w.Reload())

	w.Destroy()
	assert.False(t, w.Ready())
	assert.False(t, w.CanFire())
	assert.Empty(t, f.mounts.attached)
	w.Tick(2 * time.Second)
	assert.Equal(t, 29, w.Ammo())
}

func TestFire_MissingTargetDoesNotDamage(t *testing.T) {
	f := newFixture()
	rig := f.rig()
	rig.World = nil
	w := weapon.New(rifleProfile(), rig, nil, rng.Fixed(0.5))
	require.NoError(t, w.Initialize())

	assert.True(t, w.Fire())
	assert.Equal(t, 0, f.target.hits)
}

func TestProperty_AmmoStaysInBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := newFixture()
		p := rifleProfile()
		p.MagazineSize = rapid.IntRange(1, 40).Draw(rt, "mag")
		w := weapon.New(p, f.rig(), nil, rng.NewSeededSource(rapid.Uint64().Draw(rt, "seed")))
		if err := w.Initialize(); err != nil {
			rt.Fatal(err)
		}
		actions := rapid.SliceOfN(rapid.IntRange(0, 6), 1, 200).Draw(rt, "actions")
		for _, a := range actions {
			switch a {
			case 0, 1:
				w.Fire()
			case 2:
				w.Reload()
			case 3:
				w.Inspect()
			case 4:
				w.OnInspectAnimationComplete()
			case 5:
				w.AimDownSight(!w.IsAiming())
			default:
				w.Tick(time.Duration(rapid.IntRange(0, 300).Draw(rt, "dt")) * time.Millisecond)
			}
			if w.Ammo() < 0 || w.Ammo() > p.MagazineSize {
				rt.Fatalf("ammo %d outside [0, %d]", w.Ammo(), p.MagazineSize)
			}
			if w.IsReloading() && w.CanFire() {
				rt.Fatal("CanFire while reloading")
			}
			if w.IsInspecting() && w.CanFire() {
				rt.Fatal("CanFire while inspecting")
			}
		}
	})
}

func TestProperty_ShotsNeverExceedCooldown(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := newFixture()
		w := newBase(f, rifleProfile())
		var elapsed, last time.Duration
		first := true
		for _, ms := range rapid.SliceOfN(rapid.IntRange(1, 120), 1, 100).Draw(rt, "steps") {
			if w.Fire() {
				if !first && elapsed-last < w.Cooldown() {
					rt.Fatalf("shot after %v, cooldown %v", elapsed-last, w.Cooldown())
				}
				first = false
				last = elapsed
			}
			dt := time.Duration(ms) * time.Millisecond
			w.Tick(dt)
			elapsed += dt
		}
	})
}

func TestErrors_AreDistinct(t *testing.T) {
	assert.False(t, errors.Is(weapon.ErrMissingModel, weapon.ErrMissingProfile))
	assert.False(t, errors.Is(weapon.ErrWrongType, weapon.ErrMissingModel))
}
