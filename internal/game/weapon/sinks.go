package weapon

import (
	"time"

	"github.com/cory-johannsen/armory/internal/game/geom"
)

// AnimationCue is a request to cross-fade the weapon animator into State.
type AnimationCue struct {
	State      string
	Transition time.Duration
	// SuppressDuplicate is set when the cue was only issued because the
	// state differs from the current one.
	SuppressDuplicate bool
	// Rebind asks the animator to reset before playing, restarting the clip.
	Rebind bool
}

// Animator plays named animation states.
type Animator interface {
	Play(cue AnimationCue)
}

// Audio plays weapon sounds.
type Audio interface {
	Play(event SoundEvent)
}

// Camera eases the view's field of view.
type Camera interface {
	TransitionFOV(target float64, duration time.Duration)
}

// RecoilImpulse is the camera kick produced by a single shot.
type RecoilImpulse struct {
	// Horizontal is the yaw kick in degrees.
	Horizontal float64
	// Vertical is the upward pitch kick in degrees.
	Vertical float64
	// Recovery is the fraction of the kick the camera returns after the kick.
	Recovery         float64
	KickDuration     time.Duration
	RecoveryDuration time.Duration
	// PitchLimit clamps the resulting camera pitch to ±PitchLimit degrees.
	PitchLimit float64
}

// Recoil receives per-shot camera impulses.
type Recoil interface {
	Kick(impulse RecoilImpulse)
}

// Sway drives positional sway of the weapon model.
type Sway interface {
	// Sway applies one tick of sway. hover enables idle hovering; amount
	// scales the sway distance.
	Sway(hover bool, amount float64)
	// Reset snaps the sway offset back to neutral.
	Reset()
}

// Mounts spawns and destroys attachment visuals.
type Mounts interface {
	Attach(point MountPoint, item string)
	Detach(point MountPoint)
}

// Damageable is anything a shot can hurt.
type Damageable interface {
	TakeDamage(amount float64)
}

// Hit is the first intersection along a ray.
type Hit struct {
	// Target is nil when the ray struck something that cannot be damaged.
	Target   Damageable
	Point    geom.Vec3
	Distance float64
}

// World answers hit queries.
type World interface {
	Raycast(ray geom.Ray) (Hit, bool)
}

// Viewport supplies the ray through the centre of the screen.
type Viewport interface {
	CenterRay() geom.Ray
}

// Rig bundles the external collaborators of one weapon instance. Any nil
// sink is replaced by a no-op, except Model which is required.
type Rig struct {
	// Model is the weapon model's local transform, eased between hip and ADS.
	Model *geom.Transform
	// Root is the instance's transform under the weapon holder.
	Root *geom.Transform

	Animator Animator
	Audio    Audio
	Camera   Camera
	Recoil   Recoil
	Sway     Sway
	Mounts   Mounts
	Viewport Viewport
	World    World

	// OpticMount and MuzzleMount report whether the model has the rail.
	OpticMount  bool
	MuzzleMount bool
}

type nopAnimator struct{}

func (nopAnimator) Play(AnimationCue) {}

type nopAudio struct{}

func (nopAudio) Play(SoundEvent) {}

type nopCamera struct{}

func (nopCamera) TransitionFOV(float64, time.Duration) {}

type nopRecoil struct{}

func (nopRecoil) Kick(RecoilImpulse) {}

type nopSway struct{}

func (nopSway) Sway(bool, float64) {}
func (nopSway) Reset()             {}

type nopMounts struct{}

func (nopMounts) Attach(MountPoint, string) {}
func (nopMounts) Detach(MountPoint)         {}

type fixedViewport struct{}

func (fixedViewport) CenterRay() geom.Ray { return geom.Ray{Direction: geom.Forward} }

type emptyWorld struct{}

func (emptyWorld) Raycast(geom.Ray) (Hit, bool) { return Hit{}, false }

// withDefaults returns r with every nil sink replaced by a no-op.
func (r Rig) withDefaults() Rig {
	if r.Root == nil {
		r.Root = &geom.Transform{}
	}
	if r.Animator == nil {
		r.Animator = nopAnimator{}
	}
	if r.Audio == nil {
		r.Audio = nopAudio{}
	}
	if r.Camera == nil {
		r.Camera = nopCamera{}
	}
	if r.Recoil == nil {
		r.Recoil = nopRecoil{}
	}
	if r.Sway == nil {
		r.Sway = nopSway{}
	}
	if r.Mounts == nil {
		r.Mounts = nopMounts{}
	}
	if r.Viewport == nil {
		r.Viewport = fixedViewport{}
	}
	if r.World == nil {
		r.World = emptyWorld{}
	}
	return r
}
