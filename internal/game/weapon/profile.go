package weapon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/armory/internal/game/geom"
)

// RecoilPattern bounds the per-shot camera kick.
type RecoilPattern struct {
	// Horizontal is the symmetric jitter bound.
	Horizontal float64 `yaml:"horizontal"`
	// Vertical is the fixed upward kick.
	Vertical float64 `yaml:"vertical"`
}

// AnimationStates names the animator states a weapon drives.
type AnimationStates struct {
	Idle        string `yaml:"idle"`
	Walk        string `yaml:"walk"`
	Run         string `yaml:"run"`
	Inspect     string `yaml:"inspect"`
	InspectIdle string `yaml:"inspect_idle"`
	Attack      string `yaml:"attack"`
	Reload      string `yaml:"reload"`
	SwitchIn    string `yaml:"switch_in"`
	SwitchOut   string `yaml:"switch_out"`
}

// Transitions holds animator cross-fade durations.
type Transitions struct {
	Default  time.Duration `yaml:"default"`
	Attack   time.Duration `yaml:"attack"`
	Movement time.Duration `yaml:"movement"`
	Inspect  time.Duration `yaml:"inspect"`
	Switch   time.Duration `yaml:"switch"`
	// AttackAnimation is the length of the attack cycle during which
	// movement animations are suppressed.
	AttackAnimation time.Duration `yaml:"attack_animation"`
}

// FOVSettings holds camera field-of-view targets.
type FOVSettings struct {
	Default    float64       `yaml:"default"`
	Aiming     float64       `yaml:"aiming"`
	Transition time.Duration `yaml:"transition"`
}

// SwaySettings configures positional sway.
type SwaySettings struct {
	Enabled bool `yaml:"enabled"`
	// ADSMultiplier scales sway while aiming.
	ADSMultiplier float64 `yaml:"ads_multiplier"`
}

// Profile is the immutable configuration of one weapon model, loaded once
// from YAML and shared by every instance built from it.
type Profile struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Type Type   `yaml:"type"`
	Slot Slot   `yaml:"slot"`

	Damage float64 `yaml:"damage"`
	// FireRate is the minimum time between shots before modifiers.
	FireRate       time.Duration `yaml:"fire_rate"`
	MagazineSize   int           `yaml:"magazine_size"`
	ReloadDuration time.Duration `yaml:"reload_duration"`

	BaseAccuracy          float64       `yaml:"base_accuracy"`
	ADSAccuracyMultiplier float64       `yaml:"ads_accuracy_multiplier"`
	RecoilForce           float64       `yaml:"recoil_force"`
	ADSRecoilMultiplier   float64       `yaml:"ads_recoil_multiplier"`
	RecoilPattern         RecoilPattern `yaml:"recoil_pattern"`

	HipFire geom.Transform `yaml:"hip_fire"`
	ADS     geom.Transform `yaml:"ads"`
	// MovementTransitionSpeed is both the ADS ease duration in seconds and
	// the per-second rate at which the model settles back to rest.
	MovementTransitionSpeed float64 `yaml:"movement_transition_speed"`

	States      AnimationStates `yaml:"states"`
	Transitions Transitions     `yaml:"transitions"`
	FOV         FOVSettings     `yaml:"fov"`
	Sway        SwaySettings    `yaml:"sway"`

	DefaultFireMode FireMode `yaml:"default_fire_mode"`
	BurstCount      int      `yaml:"burst_count"`
	HasAutoFire     bool     `yaml:"has_auto_fire"`
	// Pellets is the number of rays cast per shot; only shotguns use more than one.
	Pellets int `yaml:"pellets"`
}

// DefaultProfile returns a Profile populated with the stock tuning values.
// LoadProfiles decodes YAML on top of it, so files only list what differs.
func DefaultProfile() Profile {
	return Profile{
		Slot:                  SlotPrimary,
		Damage:                10,
		FireRate:              100 * time.Millisecond,
		MagazineSize:          30,
		ReloadDuration:        time.Second,
		BaseAccuracy:          0.9,
		ADSAccuracyMultiplier: 1.5,
		RecoilForce:           2,
		ADSRecoilMultiplier:   0.7,
		RecoilPattern:         RecoilPattern{Horizontal: 1, Vertical: 2},
		HipFire: geom.Transform{
			Position: geom.Vec3{X: 0.2, Y: -0.1, Z: 0.4},
		},
		ADS: geom.Transform{
			Position: geom.Vec3{X: 0, Y: -0.05, Z: 0.2},
		},
		MovementTransitionSpeed: 0.2,
		States: AnimationStates{
			Idle:        "Idle",
			Walk:        "Walk",
			Run:         "Run",
			Inspect:     "Inspect",
			InspectIdle: "Inspect_Idle",
			Attack:      "Attack",
			Reload:      "Reload",
			SwitchIn:    "Switch_In",
			SwitchOut:   "Switch_Out",
		},
		Transitions: Transitions{
			Default:         200 * time.Millisecond,
			Attack:          100 * time.Millisecond,
			AttackAnimation: 100 * time.Millisecond,
			Movement:        150 * time.Millisecond,
			Inspect:         250 * time.Millisecond,
			Switch:          150 * time.Millisecond,
		},
		FOV: FOVSettings{
			Default:    60,
			Aiming:     40,
			Transition: 300 * time.Millisecond,
		},
		Sway:            SwaySettings{ADSMultiplier: 0.5},
		DefaultFireMode: FireModeSingle,
		BurstCount:      3,
		HasAutoFire:     true,
		Pellets:         1,
	}
}

// IsRifle reports whether the profile describes a rifle.
func (p *Profile) IsRifle() bool { return p.Type == TypeRifle }

// IsMachineGun reports whether the profile describes a machine gun.
func (p *Profile) IsMachineGun() bool { return p.Type == TypeMachineGun }

// CanBurst reports whether burst fire is supported.
func (p *Profile) CanBurst() bool {
	return p.IsRifle() || p.IsMachineGun()
}

// CanAutoFire reports whether automatic fire is supported.
func (p *Profile) CanAutoFire() bool {
	return p.HasAutoFire && (p.IsRifle() || p.IsMachineGun())
}

// Supports reports whether the profile allows fire mode m.
func (p *Profile) Supports(m FireMode) bool {
	switch m {
	case FireModeSingle:
		return true
	case FireModeBurst:
		return p.CanBurst()
	case FireModeAuto:
		return p.CanAutoFire()
	}
	return false
}

// Validate checks that the Profile satisfies its invariants.
// Precondition: p is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (p *Profile) Validate() error {
	var errs []error
	if p.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if p.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if !p.Type.Valid() {
		errs = append(errs, fmt.Errorf("Type %q is not a known weapon type", p.Type))
	}
	if !p.Slot.Valid() {
		errs = append(errs, fmt.Errorf("Slot %q is not a known slot", p.Slot))
	}
	if p.Damage < 0 {
		errs = append(errs, errors.New("Damage must be >= 0"))
	}
	if p.FireRate < 0 {
		errs = append(errs, errors.New("FireRate must be >= 0"))
	}
	if p.MagazineSize <= 0 {
		errs = append(errs, errors.New("MagazineSize must be > 0"))
	}
	if p.ReloadDuration < 0 {
		errs = append(errs, errors.New("ReloadDuration must be >= 0"))
	}
	if p.BaseAccuracy < 0 || p.BaseAccuracy > 1 {
		errs = append(errs, fmt.Errorf("BaseAccuracy must be in [0, 1], got %v", p.BaseAccuracy))
	}
	if p.ADSAccuracyMultiplier <= 0 || p.ADSRecoilMultiplier <= 0 {
		errs = append(errs, errors.New("ADS multipliers must be > 0"))
	}
	if p.RecoilForce < 0 || p.RecoilPattern.Horizontal < 0 || p.RecoilPattern.Vertical < 0 {
		errs = append(errs, errors.New("recoil force and pattern must be >= 0"))
	}
	if !p.DefaultFireMode.Valid() {
		errs = append(errs, fmt.Errorf("DefaultFireMode %q is not a known fire mode", p.DefaultFireMode))
	}
	if p.CanBurst() && p.BurstCount < 1 {
		errs = append(errs, errors.New("BurstCount must be >= 1 for burst-capable weapons"))
	}
	if p.Pellets < 1 {
		errs = append(errs, errors.New("Pellets must be >= 1"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon profile validation failed: %v", errs)
	}
	return nil
}

// LoadProfiles reads all *.yaml files from dir, decodes each on top of
// DefaultProfile, validates it, and returns the collected slice.
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid Profiles or the first encountered error.
func LoadProfiles(dir string) ([]*Profile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadProfiles: cannot read directory %q: %w", dir, err)
	}

	var profiles []*Profile
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadProfiles: cannot read file %q: %w", path, err)
		}
		p, err := ParseProfile(data)
		if err != nil {
			return nil, fmt.Errorf("LoadProfiles: %q: %w", path, err)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// ParseProfile decodes one YAML document on top of DefaultProfile and
// validates the result.
func ParseProfile(data []byte) (*Profile, error) {
	p := DefaultProfile()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("cannot parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
