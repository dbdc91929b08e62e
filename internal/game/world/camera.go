package world

import (
	"time"

	"github.com/cory-johannsen/armory/internal/game/geom"
	"github.com/cory-johannsen/armory/internal/game/tick"
	"github.com/cory-johannsen/armory/internal/game/weapon"
)

// Camera is the shooter's view. It implements weapon.Viewport,
// weapon.Camera and weapon.Recoil: recoil kicks rotate the view, recovery
// pulls part of the kick back, and field-of-view changes ease over time.
//
// Rotation X is pitch (negative looks up) and Y is yaw, both in degrees.
type Camera struct {
	Position geom.Vec3
	Rotation geom.Vec3
	FOV      float64

	kick     tick.Tween[geom.Vec3]
	recovery tick.Timer
	fov      tick.Tween[float64]
}

// NewCamera returns a camera at position looking along +Z.
func NewCamera(position geom.Vec3, fov float64) *Camera {
	return &Camera{Position: position, FOV: fov}
}

// CenterRay returns the ray through the centre of the view.
func (c *Camera) CenterRay() geom.Ray {
	return geom.Ray{
		Origin:    c.Position,
		Direction: geom.RotateEuler(geom.Forward, c.Rotation.X, c.Rotation.Y),
	}
}

// TransitionFOV eases the field of view to target over d.
func (c *Camera) TransitionFOV(target float64, d time.Duration) {
	c.fov.Start(c.FOV, target, d, lerpFloat, tick.Linear)
}

// Kick rotates the view up by the impulse's vertical component (clamped to
// the pitch limit) and sideways by its horizontal component. Once the kick
// lands, the recovery fraction of it is eased back. A new kick cancels any
// kick or recovery in flight.
func (c *Camera) Kick(imp weapon.RecoilImpulse) {
	target := c.Rotation
	target.X = clampPitch(target.X-imp.Vertical, imp.PitchLimit)
	target.Y += imp.Horizontal

	c.recovery.Stop()
	c.kick.Start(c.Rotation, target, imp.KickDuration, geom.Lerp, tick.EaseOutQuad)

	back := geom.Vec3{
		X: target.X + imp.Vertical*imp.Recovery,
		Y: target.Y - imp.Horizontal*imp.Recovery,
		Z: target.Z,
	}
	c.recovery.Reset(imp.KickDuration, func() {
		c.kick.Start(c.Rotation, back, imp.RecoveryDuration, geom.Lerp, tick.EaseOutQuad)
	})
}

// Tick advances the camera's tweens by dt.
func (c *Camera) Tick(dt time.Duration) {
	if v, ok := c.kick.Advance(dt); ok {
		c.Rotation = v
	}
	c.recovery.Advance(dt)
	if v, ok := c.fov.Advance(dt); ok {
		c.FOV = v
	}
}

func clampPitch(x, limit float64) float64 {
	x = geom.NormalizeAngle(x)
	if limit <= 0 {
		return x
	}
	return geom.Clamp(x, -limit, limit)
}

func lerpFloat(a, b, p float64) float64 { return a + (b-a)*p }
