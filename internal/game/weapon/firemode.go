package weapon

import (
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/armory/internal/game/tick"
)

// FireModeController layers single/burst/auto cadence over a Weapon.
type FireModeController struct {
	*Weapon

	mode           FireMode
	burstRemaining int
	burstTimer     tick.Timer
}

// NewFireModeController wraps w. The fire mode is chosen on Initialize.
func NewFireModeController(w *Weapon) *FireModeController {
	return &FireModeController{Weapon: w, mode: FireModeSingle}
}

// Initialize initializes the weapon and selects the profile's default fire
// mode, falling back to single when the default is unsupported.
func (c *FireModeController) Initialize() error {
	c.burstTimer.Stop()
	if err := c.Weapon.Initialize(); err != nil {
		return err
	}
	c.mode = c.profile.DefaultFireMode
	if !c.profile.Supports(c.mode) {
		c.logger.Warn("default fire mode unsupported, using single",
			zap.String("mode", string(c.mode)),
		)
		c.mode = FireModeSingle
	}
	c.burstRemaining = c.profile.BurstCount
	return nil
}

// FireMode returns the current fire mode.
func (c *FireModeController) FireMode() FireMode { return c.mode }

// BurstRemaining returns the shots left in the current burst; it equals the
// profile's BurstCount when no burst is in progress.
func (c *FireModeController) BurstRemaining() int { return c.burstRemaining }

// SetFireMode switches to m when the profile supports it. An unsupported
// mode is rejected with a warning and the current mode is kept.
//
// Postcondition: returns true iff the mode was set.
func (c *FireModeController) SetFireMode(m FireMode) bool {
	if c.profile == nil {
		return false
	}
	if !c.profile.Supports(m) {
		c.logger.Warn("attempted to set unsupported fire mode", zap.String("mode", string(m)))
		return false
	}
	c.mode = m
	c.burstTimer.Stop()
	c.burstRemaining = c.profile.BurstCount
	return true
}

// CycleFireMode advances to the next supported mode in single, burst, auto
// order and returns the resulting mode.
func (c *FireModeController) CycleFireMode() FireMode {
	if c.profile == nil {
		return c.mode
	}
	order := []FireMode{FireModeSingle, FireModeBurst, FireModeAuto}
	start := 0
	for i, m := range order {
		if m == c.mode {
			start = i
		}
	}
	for i := 1; i <= len(order); i++ {
		next := order[(start+i)%len(order)]
		if c.profile.Supports(next) {
			c.SetFireMode(next)
			break
		}
	}
	return c.mode
}

// Fire behaves as one fresh trigger pull in the current mode.
//
// Postcondition: returns true iff at least one round was discharged now.
func (c *FireModeController) Fire() bool {
	if !c.CanFire() {
		return false
	}
	switch c.mode {
	case FireModeBurst:
		if !c.profile.CanBurst() || c.burstRemaining != c.profile.BurstCount {
			return false
		}
		c.Weapon.Fire()
		c.burstRemaining--
		c.continueBurst()
		return true
	case FireModeAuto:
		if !c.profile.CanAutoFire() {
			return false
		}
		return c.Weapon.Fire()
	default:
		return c.Weapon.Fire()
	}
}

// Trigger feeds the trigger state for this tick. Auto fires every held
// tick; single and burst fire only on a fresh pull.
func (c *FireModeController) Trigger(held bool) {
	pressed := c.pull(held)
	if c.mode == FireModeAuto && held {
		if !c.Fire() && pressed {
			c.DryFire()
		}
		return
	}
	if pressed && !c.Fire() {
		c.DryFire()
	}
}

// Tick advances the weapon and the burst sequence.
func (c *FireModeController) Tick(dt time.Duration) {
	c.Weapon.Tick(dt)
	c.burstTimer.Advance(dt)
}

// SetActive cancels a running burst when the weapon is put away.
func (c *FireModeController) SetActive(active bool) {
	if !active {
		c.resetBurst()
	}
	c.Weapon.SetActive(active)
}

// Destroy cancels a running burst and destroys the weapon.
func (c *FireModeController) Destroy() {
	c.resetBurst()
	c.Weapon.Destroy()
}

func (c *FireModeController) continueBurst() {
	if c.burstRemaining <= 0 {
		c.resetBurst()
		return
	}
	c.burstTimer.Reset(c.profile.FireRate, c.burstShot)
}

// burstShot fires the next round of a burst. Follow-ups are spaced at
// FireRate, so an optic that stretches the cooldown past it makes CanFire
// refuse and ends the burst. The counter is restored to full either way.
func (c *FireModeController) burstShot() {
	if c.burstRemaining > 0 && c.CanFire() {
		c.Weapon.Fire()
		c.burstRemaining--
		if c.burstRemaining > 0 {
			c.burstTimer.Reset(c.profile.FireRate, c.burstShot)
			return
		}
	}
	c.resetBurst()
}

func (c *FireModeController) resetBurst() {
	c.burstTimer.Stop()
	if c.profile != nil {
		c.burstRemaining = c.profile.BurstCount
	}
}
