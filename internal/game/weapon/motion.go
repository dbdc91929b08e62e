package weapon

import (
	"time"

	"github.com/cory-johannsen/armory/internal/game/geom"
	"github.com/cory-johannsen/armory/internal/game/tick"
)

func lerpFloat(a, b, p float64) float64 { return a + (b-a)*p }

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// AimDownSight raises or lowers the weapon. The model and the camera field
// of view ease towards the aim or hip targets; the idle state is replayed
// either way.
//
// Postcondition: returns true iff the aiming state changed.
func (w *Weapon) AimDownSight(aiming bool) bool {
	if !w.ready || w.aiming == aiming || w.reloading || w.inspecting {
		return false
	}
	w.aiming = aiming
	if aiming {
		w.rig.Sway.Reset()
	}

	target := w.rest
	if aiming {
		target = w.profile.ADS
	}
	w.modelTween.Start(*w.rig.Model, target, seconds(w.profile.MovementTransitionSpeed), geom.LerpTransform, tick.EaseInOutQuad)

	fov := w.profile.FOV.Default
	if aiming {
		fov = w.profile.FOV.Aiming
	}
	w.rig.Camera.TransitionFOV(fov, w.profile.FOV.Transition)
	w.fovTween.Start(w.fov, fov, w.profile.FOV.Transition, lerpFloat, tick.Linear)

	// Aiming changes only the transform and FOV, never the animation state.
	w.play(w.profile.States.Idle, w.profile.Transitions.Default, false, false)
	return true
}

// UpdateMovementState applies this tick's sway and, when the weapon is not
// busy, settles the model at rest and selects the locomotion animation.
func (w *Weapon) UpdateMovementState(walking, running bool) {
	if !w.ready {
		return
	}
	if w.profile.Sway.Enabled {
		amount := 1.0
		if w.aiming {
			amount = w.profile.Sway.ADSMultiplier
		}
		w.rig.Sway.Sway(!w.aiming, amount)
	}

	w.walking = walking
	w.running = running

	if w.aiming || w.reloading || w.inspecting {
		return
	}
	w.settleModel()
	w.updateMovementAnimation()
}

// settleModel eases the model towards its rest transform at
// MovementTransitionSpeed per second. A running aim tween owns the model.
func (w *Weapon) settleModel() {
	if w.modelTween.Active() {
		return
	}
	p := w.lastDt.Seconds() * w.profile.MovementTransitionSpeed
	*w.rig.Model = geom.LerpTransform(*w.rig.Model, w.rest, p)
}

func (w *Weapon) updateMovementAnimation() {
	if w.attacking {
		return
	}
	switch {
	case w.running:
		w.play(w.profile.States.Run, w.profile.Transitions.Movement, true, false)
	case w.walking:
		w.play(w.profile.States.Walk, w.profile.Transitions.Movement, true, false)
	default:
		w.play(w.profile.States.Idle, w.profile.Transitions.Movement, false, false)
	}
}
