// Package world provides the firing-range model the combat engine shoots
// into: spherical targets with hit points, the ray hit-test over them, and
// the camera the weapon's recoil and field-of-view effects drive.
package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/cory-johannsen/armory/internal/game/geom"
)

// DamageFilter rewrites the damage a target is about to take. It receives
// the target ID, the incoming amount and the target's current hit points and
// returns the amount to apply.
type DamageFilter func(targetID string, amount, hp float64) float64

// Target is a spherical damageable body on a range.
type Target struct {
	ID     string
	Center geom.Vec3
	Radius float64
	HP     float64
	MaxHP  float64

	// Hits counts every ray that struck the target while it was alive.
	Hits int
	// DamageTaken is the sum of damage applied after filtering.
	DamageTaken float64

	filter DamageFilter
}

// TakeDamage applies amount, run through the range's damage filter, and
// clamps hit points at zero. Negative filtered damage is treated as zero.
func (t *Target) TakeDamage(amount float64) {
	if t.filter != nil {
		amount = t.filter(t.ID, amount, t.HP)
	}
	if amount < 0 {
		amount = 0
	}
	if amount > t.HP {
		amount = t.HP
	}
	t.HP -= amount
	t.Hits++
	t.DamageTaken += amount
}

// Alive reports whether the target still has hit points.
func (t *Target) Alive() bool { return t.HP > 0 }

// intersect returns the distance along r to the nearest point on the
// target's surface in front of the origin.
//
// Precondition: r.Direction is unit length.
func (t *Target) intersect(r geom.Ray) (float64, bool) {
	oc := r.Origin.Sub(t.Center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - t.Radius*t.Radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	d := -b - sq
	if d < 0 {
		// Origin inside the sphere.
		d = -b + sq
	}
	if d < 0 {
		return 0, false
	}
	return d, true
}

// TargetDef is the static description of one target.
type TargetDef struct {
	ID     string    `yaml:"id"`
	Center geom.Vec3 `yaml:"center"`
	Radius float64   `yaml:"radius"`
	HP     float64   `yaml:"hp"`
}

// RangeDef is the static description of a firing range.
type RangeDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Script names the Lua file under the scripts directory whose hooks
	// govern the range's targets. Empty means no scripting.
	Script  string      `yaml:"script"`
	Targets []TargetDef `yaml:"targets"`
}

// Validate checks the range definition for structural problems.
//
// Postcondition: Returns nil if valid, or an error joining every violation.
func (d *RangeDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("range ID must not be empty"))
	}
	if len(d.Targets) == 0 {
		errs = append(errs, fmt.Errorf("range %q must have at least one target", d.ID))
	}
	seen := make(map[string]bool, len(d.Targets))
	for i, td := range d.Targets {
		if td.ID == "" {
			errs = append(errs, fmt.Errorf("range %q: target %d has no ID", d.ID, i))
			continue
		}
		if seen[td.ID] {
			errs = append(errs, fmt.Errorf("range %q: duplicate target ID %q", d.ID, td.ID))
		}
		seen[td.ID] = true
		if td.Radius <= 0 {
			errs = append(errs, fmt.Errorf("range %q: target %q radius must be > 0", d.ID, td.ID))
		}
		if td.HP <= 0 {
			errs = append(errs, fmt.Errorf("range %q: target %q hp must be > 0", d.ID, td.ID))
		}
	}
	return errors.Join(errs...)
}
