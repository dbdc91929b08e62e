package weapon

import "fmt"

// StatModifier is a bundle of multiplicative combat multipliers.
//
// Invariant: all fields are > 0. Composition is elementwise multiplication
// with Identity as the neutral element.
type StatModifier struct {
	Damage   float64
	Recoil   float64
	Accuracy float64
	// AimSpeed also divides the firing cooldown, so faster aiming optics
	// shorten the time between shots.
	AimSpeed float64
}

// Identity returns the all-ones modifier.
func Identity() StatModifier {
	return StatModifier{Damage: 1, Recoil: 1, Accuracy: 1, AimSpeed: 1}
}

// Compose returns m × o.
//
// Postcondition: Identity().Compose(o) == o.
func (m StatModifier) Compose(o StatModifier) StatModifier {
	return StatModifier{
		Damage:   m.Damage * o.Damage,
		Recoil:   m.Recoil * o.Recoil,
		Accuracy: m.Accuracy * o.Accuracy,
		AimSpeed: m.AimSpeed * o.AimSpeed,
	}
}

// String renders the modifier for logs.
func (m StatModifier) String() string {
	return fmt.Sprintf("dmg×%.3f rec×%.3f acc×%.3f aim×%.3f", m.Damage, m.Recoil, m.Accuracy, m.AimSpeed)
}

// OpticModifier returns the stat change contributed by mounting o.
// Unknown optics and iron sights contribute Identity.
func OpticModifier(o Optic) StatModifier {
	m := Identity()
	switch o {
	case OpticTelescopicScope, OpticThermalScope:
		m.Accuracy = 1.2
		m.AimSpeed = 0.8
	case OpticRedDot, OpticHolographic:
		m.Accuracy = 1.1
		m.AimSpeed = 1.1
	}
	return m
}

// MuzzleModifier returns the stat change contributed by mounting mz.
// Unknown devices, flash hiders, and MuzzleNone contribute Identity.
func MuzzleModifier(mz Muzzle) StatModifier {
	m := Identity()
	switch mz {
	case MuzzleSuppressor:
		m.Recoil = 0.8
		m.Damage = 0.9
	case MuzzleCompensator:
		m.Recoil = 0.7
	case MuzzleBreak:
		m.Recoil = 0.85
		m.Damage = 1.1
	}
	return m
}
