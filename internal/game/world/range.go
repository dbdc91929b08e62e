package world

import (
	"sort"

	"github.com/cory-johannsen/armory/internal/game/geom"
	"github.com/cory-johannsen/armory/internal/game/weapon"
)

// Range is a live firing range built from a RangeDef. It implements
// weapon.World.
//
// A Range is not safe for concurrent use; each scenario run owns its own.
type Range struct {
	def     *RangeDef
	targets []*Target
	byID    map[string]*Target
	filter  DamageFilter
}

// NewRange builds a Range with every target at full health.
//
// Precondition: def must not be nil.
// Postcondition: Returns a Range or the validation error of def.
func NewRange(def *RangeDef) (*Range, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	r := &Range{def: def, byID: make(map[string]*Target, len(def.Targets))}
	for _, td := range def.Targets {
		t := &Target{
			ID:     td.ID,
			Center: td.Center,
			Radius: td.Radius,
			HP:     td.HP,
			MaxHP:  td.HP,
		}
		r.targets = append(r.targets, t)
		r.byID[t.ID] = t
	}
	sort.Slice(r.targets, func(i, j int) bool { return r.targets[i].ID < r.targets[j].ID })
	return r, nil
}

// ID returns the range ID.
func (r *Range) ID() string { return r.def.ID }

// Def returns the definition the range was built from.
func (r *Range) Def() *RangeDef { return r.def }

// SetDamageFilter installs f on every target. A nil f removes filtering.
func (r *Range) SetDamageFilter(f DamageFilter) {
	r.filter = f
	for _, t := range r.targets {
		t.filter = f
	}
}

// Target returns the target with id and whether it exists.
func (r *Range) Target(id string) (*Target, bool) {
	t, ok := r.byID[id]
	return t, ok
}

// Targets returns every target ordered by ID.
func (r *Range) Targets() []*Target {
	out := make([]*Target, len(r.targets))
	copy(out, r.targets)
	return out
}

// Remaining returns the number of targets still alive.
func (r *Range) Remaining() int {
	n := 0
	for _, t := range r.targets {
		if t.Alive() {
			n++
		}
	}
	return n
}

// Reset restores every target to full health and clears hit counters.
func (r *Range) Reset() {
	for _, t := range r.targets {
		t.HP = t.MaxHP
		t.Hits = 0
		t.DamageTaken = 0
	}
}

// Raycast returns the nearest live target struck by ray. Dead targets do not
// block rays.
func (r *Range) Raycast(ray geom.Ray) (weapon.Hit, bool) {
	ray.Direction = ray.Direction.Normalize()
	var (
		best     *Target
		bestDist float64
	)
	for _, t := range r.targets {
		if !t.Alive() {
			continue
		}
		d, ok := t.intersect(ray)
		if !ok {
			continue
		}
		if best == nil || d < bestDist {
			best, bestDist = t, d
		}
	}
	if best == nil {
		return weapon.Hit{}, false
	}
	return weapon.Hit{Target: best, Point: ray.At(bestDist), Distance: bestDist}, true
}
