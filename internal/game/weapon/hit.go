package weapon

import (
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/armory/internal/game/geom"
	"github.com/cory-johannsen/armory/internal/game/rng"
)

const (
	recoilKickDuration     = 100 * time.Millisecond
	recoilRecoveryDuration = 200 * time.Millisecond
	recoilRecoveryHip      = 0.6
	recoilRecoveryADS      = 0.8
	recoilPitchLimit       = 75
)

// EffectiveAccuracy returns base accuracy scaled by the cumulative modifier
// and, while aiming, the ADS multiplier. Values above 1 are not clamped.
func (w *Weapon) EffectiveAccuracy() float64 {
	if w.profile == nil {
		return 0
	}
	acc := w.profile.BaseAccuracy * w.stats.Accuracy
	if w.aiming {
		acc *= w.profile.ADSAccuracyMultiplier
	}
	return acc
}

// Damage returns the damage one ray deals to a target.
func (w *Weapon) Damage() float64 {
	if w.profile == nil {
		return 0
	}
	return w.profile.Damage * w.stats.Damage
}

// discharge resolves every pellet of one shot and emits its effects.
func (w *Weapon) discharge() {
	pellets := w.profile.Pellets
	if pellets < 1 {
		pellets = 1
	}
	for i := 0; i < pellets; i++ {
		w.castRay()
	}
	w.rig.Audio.Play(SoundFire)
	w.play(w.profile.States.Attack, w.profile.Transitions.Attack, false, true)
	w.rig.Recoil.Kick(w.recoilImpulse())
}

// castRay perturbs the centre ray by a random offset inside a sphere of
// radius (1 - accuracy) degrees and damages the first target it strikes.
func (w *Weapon) castRay() {
	ray := w.rig.Viewport.CenterRay()
	spread := rng.InsideUnitSphere(w.src).Scale(1 - w.EffectiveAccuracy())
	ray.Direction = geom.RotateEuler(ray.Direction, spread.X, spread.Y)

	hit, ok := w.rig.World.Raycast(ray)
	if !ok || hit.Target == nil {
		return
	}
	dmg := w.Damage()
	hit.Target.TakeDamage(dmg)
	w.logger.Debug("hit",
		zap.Float64("damage", dmg),
		zap.Float64("distance", hit.Distance),
	)
}

func (w *Weapon) recoilImpulse() RecoilImpulse {
	mult := w.stats.Recoil
	recovery := recoilRecoveryHip
	if w.aiming {
		mult *= w.profile.ADSRecoilMultiplier
		recovery = recoilRecoveryADS
	}
	force := w.profile.RecoilForce * mult
	pattern := w.profile.RecoilPattern
	return RecoilImpulse{
		Horizontal:       rng.Range(w.src, -pattern.Horizontal, pattern.Horizontal) * force,
		Vertical:         pattern.Vertical * force,
		Recovery:         recovery,
		KickDuration:     recoilKickDuration,
		RecoveryDuration: recoilRecoveryDuration,
		PitchLimit:       recoilPitchLimit,
	}
}
