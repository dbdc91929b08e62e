// Package rangesim drives weapons through scripted firing-range scenarios:
// it builds the loadout, feeds each tick's input through the inventory, and
// reports what the targets took.
package rangesim

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/armory/internal/game/geom"
	"github.com/cory-johannsen/armory/internal/game/weapon"
)

// LoadoutEntry equips one weapon before the first tick.
type LoadoutEntry struct {
	Slot     weapon.Slot     `yaml:"slot"`
	Profile  string          `yaml:"profile"`
	Optic    weapon.Optic    `yaml:"optic"`
	Muzzle   weapon.Muzzle   `yaml:"muzzle"`
	FireMode weapon.FireMode `yaml:"fire_mode"`
}

// Frame holds the input for Ticks consecutive ticks. Fire, Aim, Walking and
// Running are held for the whole frame; every other field is a press that
// happens on the frame's first tick only.
type Frame struct {
	Ticks int `yaml:"ticks"`

	Fire    bool `yaml:"fire"`
	Aim     bool `yaml:"aim"`
	Walking bool `yaml:"walking"`
	Running bool `yaml:"running"`

	Reload       bool          `yaml:"reload"`
	Inspect      bool          `yaml:"inspect"`
	InspectDone  bool          `yaml:"inspect_done"`
	Cycle        bool          `yaml:"cycle"`
	Slot         weapon.Slot   `yaml:"slot"`
	AttachOptic  weapon.Optic  `yaml:"attach_optic"`
	AttachMuzzle weapon.Muzzle `yaml:"attach_muzzle"`
	// Events are animation clip events delivered to the weapon in hand.
	Events []weapon.SoundEvent `yaml:"events"`
}

// Scenario is one scripted session on a range.
type Scenario struct {
	Name  string `yaml:"name"`
	Range string `yaml:"range"`
	Seed  uint64 `yaml:"seed"`
	// Tick overrides the configured tick interval when non-zero.
	Tick    time.Duration  `yaml:"tick"`
	Eye     geom.Vec3      `yaml:"eye"`
	Loadout []LoadoutEntry `yaml:"loadout"`
	Frames  []Frame        `yaml:"frames"`
}

type yamlScenarioFile struct {
	Scenario Scenario `yaml:"scenario"`
}

// TotalTicks returns the number of ticks the scenario runs for.
func (s *Scenario) TotalTicks() int {
	n := 0
	for _, f := range s.Frames {
		n += f.Ticks
	}
	return n
}

// Validate checks the scenario for structural problems.
//
// Postcondition: Returns nil if valid, or an error joining every violation.
func (s *Scenario) Validate() error {
	var errs []error
	if s.Name == "" {
		errs = append(errs, errors.New("scenario name must not be empty"))
	}
	if s.Range == "" {
		errs = append(errs, fmt.Errorf("scenario %q: range must not be empty", s.Name))
	}
	if s.Tick < 0 {
		errs = append(errs, fmt.Errorf("scenario %q: tick must be >= 0", s.Name))
	}
	if len(s.Loadout) == 0 {
		errs = append(errs, fmt.Errorf("scenario %q: loadout must not be empty", s.Name))
	}
	slots := make(map[weapon.Slot]bool)
	for i, e := range s.Loadout {
		if !e.Slot.Valid() {
			errs = append(errs, fmt.Errorf("scenario %q: loadout %d: unknown slot %q", s.Name, i, e.Slot))
		}
		if slots[e.Slot] {
			errs = append(errs, fmt.Errorf("scenario %q: loadout %d: slot %q used twice", s.Name, i, e.Slot))
		}
		slots[e.Slot] = true
		if e.Profile == "" {
			errs = append(errs, fmt.Errorf("scenario %q: loadout %d: profile must not be empty", s.Name, i))
		}
		if e.FireMode != "" && !e.FireMode.Valid() {
			errs = append(errs, fmt.Errorf("scenario %q: loadout %d: unknown fire mode %q", s.Name, i, e.FireMode))
		}
	}
	for i, f := range s.Frames {
		if f.Ticks < 1 {
			errs = append(errs, fmt.Errorf("scenario %q: frame %d: ticks must be >= 1", s.Name, i))
		}
		if f.Slot != "" && !f.Slot.Valid() {
			errs = append(errs, fmt.Errorf("scenario %q: frame %d: unknown slot %q", s.Name, i, f.Slot))
		}
	}
	return errors.Join(errs...)
}

// LoadScenarioFromBytes parses and validates a scenario from YAML bytes.
func LoadScenarioFromBytes(data []byte) (*Scenario, error) {
	var file yamlScenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}
	sc := file.Scenario
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("validating scenario: %w", err)
	}
	return &sc, nil
}

// LoadScenarioFile reads and validates a single scenario YAML file.
func LoadScenarioFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file %s: %w", path, err)
	}
	return LoadScenarioFromBytes(data)
}

// LoadScenariosFromDir loads every YAML file in dir, ordered by file name.
//
// Postcondition: Returns all validated scenarios or the first error encountered.
func LoadScenariosFromDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading scenario directory %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".yaml") || strings.HasSuffix(e.Name(), ".yml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var out []*Scenario
	for _, name := range names {
		sc, err := LoadScenarioFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("loading scenario from %s: %w", name, err)
		}
		out = append(out, sc)
	}
	return out, nil
}
