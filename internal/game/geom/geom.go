// Package geom holds the small amount of 3D vector math the combat engine
// needs for hit-tests, spread, and weapon-model easing.
package geom

import "math"

// Vec3 is a 3D vector. Rotations expressed as Vec3 are Euler angles in degrees.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Forward is the unit vector along +Z.
var Forward = Vec3{Z: 1}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Length returns the Euclidean length of v.
func (v Vec3) Length() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns v scaled to unit length, or the zero vector when v is zero.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Lerp interpolates from a to b by p, clamping p to [0, 1].
func Lerp(a, b Vec3, p float64) Vec3 {
	p = Clamp(p, 0, 1)
	return a.Add(b.Sub(a).Scale(p))
}

// Clamp restricts x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// RotateEuler rotates v by pitch degrees about X and then yaw degrees about Y.
func RotateEuler(v Vec3, pitch, yaw float64) Vec3 {
	p := pitch * math.Pi / 180
	y := yaw * math.Pi / 180
	sp, cp := math.Sincos(p)
	rx := Vec3{X: v.X, Y: v.Y*cp - v.Z*sp, Z: v.Y*sp + v.Z*cp}
	sy, cy := math.Sincos(y)
	return Vec3{X: rx.X*cy + rx.Z*sy, Y: rx.Y, Z: -rx.X*sy + rx.Z*cy}
}

// NormalizeAngle maps an angle in degrees to (-180, 180].
func NormalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg > 180 {
		deg -= 360
	} else if deg <= -180 {
		deg += 360
	}
	return deg
}

// Transform is a local position and Euler rotation.
type Transform struct {
	Position Vec3 `yaml:"position"`
	Rotation Vec3 `yaml:"rotation"`
}

// LerpTransform interpolates both components of a transform.
func LerpTransform(a, b Transform, p float64) Transform {
	return Transform{
		Position: Lerp(a.Position, b.Position, p),
		Rotation: Lerp(a.Rotation, b.Rotation, p),
	}
}

// Ray is a half-line from Origin along Direction.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// At returns the point at distance d along the ray.
func (r Ray) At(d float64) Vec3 {
	return r.Origin.Add(r.Direction.Normalize().Scale(d))
}
