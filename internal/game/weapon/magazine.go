package weapon

import (
	"errors"
	"fmt"
)

// errMagazineDry is returned by Consume when a shot asks for more rounds than
// are chambered.
var errMagazineDry = errors.New("weapon: magazine ran dry mid-shot")

// Magazine is the ammunition one weapon instance carries between reloads.
// A reload refills it to the profile's MagazineSize; every discharge takes
// one round, however many pellets it casts.
//
// Invariant: 0 <= Loaded <= Capacity.
type Magazine struct {
	Loaded   int
	Capacity int
}

// NewMagazine returns a magazine topped up to capacity, as a freshly drawn
// weapon carries.
//
// Precondition: capacity > 0. Initialize validates the profile first, so a
// bad MagazineSize never reaches here from a weapon.
func NewMagazine(capacity int) *Magazine {
	if capacity <= 0 {
		panic(fmt.Sprintf("weapon: NewMagazine: capacity must be > 0, got %d", capacity))
	}
	return &Magazine{Loaded: capacity, Capacity: capacity}
}

// IsEmpty reports whether the next trigger pull is a dry fire.
func (m *Magazine) IsEmpty() bool { return m.Loaded <= 0 }

// IsFull reports whether a reload would be wasted.
func (m *Magazine) IsFull() bool { return m.Loaded >= m.Capacity }

// Consume spends n rounds.
//
// Precondition: n > 0.
// Postcondition: Loaded drops by n, or is unchanged and an error is returned
// when fewer than n rounds are left.
func (m *Magazine) Consume(n int) error {
	if n <= 0 {
		panic(fmt.Sprintf("weapon: Magazine.Consume: n must be > 0, got %d", n))
	}
	if m.Loaded < n {
		return fmt.Errorf("%w: want %d, have %d", errMagazineDry, n, m.Loaded)
	}
	m.Loaded -= n
	return nil
}

// Refill completes a reload.
func (m *Magazine) Refill() { m.Loaded = m.Capacity }
