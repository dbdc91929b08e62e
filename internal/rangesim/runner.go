package rangesim

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/armory/internal/game/geom"
	"github.com/cory-johannsen/armory/internal/game/inventory"
	"github.com/cory-johannsen/armory/internal/game/rng"
	"github.com/cory-johannsen/armory/internal/game/weapon"
	"github.com/cory-johannsen/armory/internal/game/world"
	"github.com/cory-johannsen/armory/internal/scripting"
)

// DefaultTick is the tick interval used when neither the scenario nor Deps
// set one.
const DefaultTick = 16 * time.Millisecond

// ErrTooLong is returned when a scenario runs for more ticks than allowed.
var ErrTooLong = errors.New("rangesim: scenario exceeds tick limit")

// Deps carries the loaded content and settings shared by every run.
type Deps struct {
	Registry *weapon.Registry
	Ranges   map[string]*world.RangeDef
	// ScriptsDir is where range scripts are resolved. Empty disables scripting.
	ScriptsDir       string
	InstructionLimit int
	Logger           *zap.Logger
	Tick             time.Duration
	// MaxTicks bounds a single run; 0 means unbounded.
	MaxTicks int
	// Parallelism bounds concurrent runs in RunAll; <= 0 means unbounded.
	Parallelism int
}

// TargetResult is a target's state at the end of a run.
type TargetResult struct {
	ID          string  `json:"id"`
	HP          float64 `json:"hp"`
	MaxHP       float64 `json:"max_hp"`
	Hits        int     `json:"hits"`
	DamageTaken float64 `json:"damage_taken"`
	Destroyed   bool    `json:"destroyed"`
}

// WeaponResult is an equipped weapon's state at the end of a run.
type WeaponResult struct {
	Slot     weapon.Slot     `json:"slot"`
	Profile  string          `json:"profile"`
	Ammo     int             `json:"ammo"`
	FireMode weapon.FireMode `json:"fire_mode,omitempty"`
}

// Report summarises one run.
type Report struct {
	RunID      string                    `json:"run_id"`
	Scenario   string                    `json:"scenario"`
	Range      string                    `json:"range"`
	Seed       uint64                    `json:"seed"`
	Ticks      int                       `json:"ticks"`
	Elapsed    time.Duration             `json:"elapsed"`
	Shots      int                       `json:"shots"`
	DryFires   int                       `json:"dry_fires"`
	Kicks      int                       `json:"kicks"`
	Sounds     map[weapon.SoundEvent]int `json:"sounds"`
	Animations map[string]int            `json:"animations"`
	Targets    []TargetResult            `json:"targets"`
	Weapons    []WeaponResult            `json:"weapons"`
	FinalSlot  weapon.Slot               `json:"final_slot"`
	Pitch      float64                   `json:"pitch"`
}

// TotalDamage sums the damage every target took.
func (r *Report) TotalDamage() float64 {
	var sum float64
	for _, t := range r.Targets {
		sum += t.DamageTaken
	}
	return sum
}

// Run plays sc to completion and reports the outcome. Runs are
// deterministic for a given scenario seed and content.
//
// Precondition: sc must be valid; deps.Registry and deps.Ranges must be set.
// Postcondition: Returns a Report, or an error for unresolvable content,
// exceeding MaxTicks, or ctx cancellation.
func Run(ctx context.Context, sc *Scenario, deps Deps) (*Report, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	runID := uuid.New().String()
	logger = logger.With(zap.String("run_id", runID), zap.String("scenario", sc.Name))

	if deps.MaxTicks > 0 && sc.TotalTicks() > deps.MaxTicks {
		return nil, fmt.Errorf("%w: %q runs %d ticks, limit %d", ErrTooLong, sc.Name, sc.TotalTicks(), deps.MaxTicks)
	}
	def, ok := deps.Ranges[sc.Range]
	if !ok {
		return nil, fmt.Errorf("rangesim: scenario %q: unknown range %q", sc.Name, sc.Range)
	}
	lane, err := world.NewRange(def)
	if err != nil {
		return nil, fmt.Errorf("rangesim: scenario %q: %w", sc.Name, err)
	}

	src := rng.NewSeededSource(sc.Seed)

	if def.Script != "" && deps.ScriptsDir != "" {
		scripts := scripting.NewManager(logger)
		defer scripts.Close()
		scripts.Random = src.Float64
		scripts.QueryTarget = func(id string) *scripting.TargetInfo {
			t, ok := lane.Target(id)
			if !ok {
				return nil
			}
			return &scripting.TargetInfo{ID: t.ID, HP: t.HP, MaxHP: t.MaxHP, Hits: t.Hits}
		}
		if err := scripts.LoadRange(def.ID, filepath.Join(deps.ScriptsDir, def.Script), deps.InstructionLimit); err != nil {
			return nil, fmt.Errorf("rangesim: scenario %q: %w", sc.Name, err)
		}
		lane.SetDamageFilter(scripts.DamageFilter(def.ID))
	}

	rec := newRecorder()
	cam := world.NewCamera(sc.Eye, 60)
	kicks := &kickCounter{next: cam}
	inv := inventory.NewManager(logger)
	defer inv.Clear()

	type equipped struct {
		entry LoadoutEntry
		arm   weapon.Armament
	}
	var loadout []equipped
	for _, e := range sc.Loadout {
		p, ok := deps.Registry.Profile(e.Profile)
		if !ok {
			return nil, fmt.Errorf("rangesim: scenario %q: unknown weapon profile %q", sc.Name, e.Profile)
		}
		rig := weapon.Rig{
			Model:       &geom.Transform{},
			Root:        &geom.Transform{},
			Animator:    rec,
			Audio:       audio{rec},
			Camera:      cam,
			Recoil:      kicks,
			Mounts:      rec,
			Viewport:    cam,
			World:       lane,
			OpticMount:  true,
			MuzzleMount: true,
		}
		arm, err := weapon.Build(p, rig, logger, src)
		if err != nil {
			return nil, fmt.Errorf("rangesim: scenario %q: %w", sc.Name, err)
		}
		if err := inv.Equip(arm, e.Slot); err != nil {
			return nil, fmt.Errorf("rangesim: scenario %q: %w", sc.Name, err)
		}
		if e.FireMode != "" {
			if sel, ok := arm.(weapon.FireModeSelector); ok {
				sel.SetFireMode(e.FireMode)
			}
		}
		if e.Optic != "" {
			arm.AttachOptic(e.Optic)
		}
		if e.Muzzle != "" {
			arm.AttachMuzzle(e.Muzzle)
		}
		loadout = append(loadout, equipped{entry: e, arm: arm})
	}

	dt := sc.Tick
	if dt == 0 {
		dt = deps.Tick
	}
	if dt == 0 {
		dt = DefaultTick
	}

	logger.Info("run started",
		zap.String("range", def.ID),
		zap.Uint64("seed", sc.Seed),
		zap.Int("ticks", sc.TotalTicks()),
		zap.Duration("tick", dt),
	)

	ticks := 0
	for _, f := range sc.Frames {
		for i := 0; i < f.Ticks; i++ {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("rangesim: scenario %q cancelled at tick %d: %w", sc.Name, ticks, err)
			}
			first := i == 0
			if first {
				applyFrameEdges(inv, f)
			}
			cam.Tick(dt)
			inv.Tick(dt, inputFor(f, first))
			ticks++
		}
	}

	report := &Report{
		RunID:      runID,
		Scenario:   sc.Name,
		Range:      def.ID,
		Seed:       sc.Seed,
		Ticks:      ticks,
		Elapsed:    time.Duration(ticks) * dt,
		Shots:      rec.sounds[weapon.SoundFire],
		DryFires:   rec.sounds[weapon.SoundEmpty],
		Kicks:      kicks.kicks,
		Sounds:     rec.sounds,
		Animations: rec.animations,
		FinalSlot:  inv.CurrentSlot(),
		Pitch:      cam.Rotation.X,
	}
	for _, t := range lane.Targets() {
		report.Targets = append(report.Targets, TargetResult{
			ID:          t.ID,
			HP:          t.HP,
			MaxHP:       t.MaxHP,
			Hits:        t.Hits,
			DamageTaken: t.DamageTaken,
			Destroyed:   !t.Alive(),
		})
	}
	for _, eq := range loadout {
		wr := WeaponResult{Slot: eq.entry.Slot, Profile: eq.entry.Profile, Ammo: eq.arm.Ammo()}
		if sel, ok := eq.arm.(weapon.FireModeSelector); ok {
			wr.FireMode = sel.FireMode()
		}
		report.Weapons = append(report.Weapons, wr)
	}

	logger.Info("run finished",
		zap.Int("shots", report.Shots),
		zap.Float64("damage", report.TotalDamage()),
		zap.Int("targets_remaining", lane.Remaining()),
	)
	return report, nil
}

// applyFrameEdges delivers the frame's one-shot actions that bypass Input.
func applyFrameEdges(inv *inventory.Manager, f Frame) {
	if f.AttachOptic != "" {
		inv.AttachOptic(f.AttachOptic)
	}
	if f.AttachMuzzle != "" {
		inv.AttachMuzzle(f.AttachMuzzle)
	}
	cur := inv.Current()
	if cur == nil {
		return
	}
	if f.InspectDone {
		cur.OnInspectAnimationComplete()
	}
	for _, e := range f.Events {
		cur.OnAnimationEvent(e)
	}
}

func inputFor(f Frame, first bool) inventory.Input {
	in := inventory.Input{
		Fire:    f.Fire,
		Aim:     f.Aim,
		Walking: f.Walking,
		Running: f.Running,
	}
	if first {
		in.Reload = f.Reload
		in.Inspect = f.Inspect
		in.CycleFireMode = f.Cycle
		in.SwitchSlot = f.Slot
	}
	return in
}

// RunAll runs every scenario concurrently, at most deps.Parallelism at a
// time, and returns the reports in input order. The first failure cancels
// the remaining runs.
func RunAll(ctx context.Context, scenarios []*Scenario, deps Deps) ([]*Report, error) {
	reports := make([]*Report, len(scenarios))
	g, gctx := errgroup.WithContext(ctx)
	if deps.Parallelism > 0 {
		g.SetLimit(deps.Parallelism)
	}
	for i, sc := range scenarios {
		g.Go(func() error {
			r, err := Run(gctx, sc, deps)
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
