// Package main runs firing-range scenarios against the weapon content and
// prints a report per scenario.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/armory/internal/config"
	"github.com/cory-johannsen/armory/internal/game/weapon"
	"github.com/cory-johannsen/armory/internal/game/world"
	"github.com/cory-johannsen/armory/internal/observability"
	"github.com/cory-johannsen/armory/internal/rangesim"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/range.yaml", "path to configuration file")
	only := flag.String("scenario", "", "run only the named scenario")
	format := flag.String("format", "text", "report format: text or json")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	profiles, err := weapon.LoadProfiles(cfg.Content.WeaponsDir)
	if err != nil {
		logger.Fatal("loading weapon profiles", zap.Error(err))
	}
	registry := weapon.NewRegistry()
	if err := registry.RegisterAll(profiles); err != nil {
		logger.Fatal("registering weapon profiles", zap.Error(err))
	}
	ranges, err := world.LoadRangesFromDir(cfg.Content.RangesDir)
	if err != nil {
		logger.Fatal("loading ranges", zap.Error(err))
	}
	scenarios, err := rangesim.LoadScenariosFromDir(cfg.Content.ScenariosDir)
	if err != nil {
		logger.Fatal("loading scenarios", zap.Error(err))
	}
	if *only != "" {
		scenarios = slices.DeleteFunc(scenarios, func(s *rangesim.Scenario) bool { return s.Name != *only })
		if len(scenarios) == 0 {
			logger.Fatal("scenario not found", zap.String("scenario", *only))
		}
	}
	logger.Info("content loaded",
		zap.Strings("weapons", registry.IDs()),
		zap.Int("ranges", len(ranges)),
		zap.Int("scenarios", len(scenarios)),
		zap.Duration("elapsed", time.Since(start)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Range.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Range.Timeout)
		defer cancel()
	}

	reports, err := rangesim.RunAll(ctx, scenarios, rangesim.Deps{
		Registry:         registry,
		Ranges:           ranges,
		ScriptsDir:       cfg.Content.ScriptsDir,
		InstructionLimit: cfg.Scripting.InstructionLimit,
		Logger:           logger,
		Tick:             cfg.Range.Tick,
		MaxTicks:         cfg.Range.MaxTicks,
		Parallelism:      cfg.Range.Parallelism,
	})
	if err != nil {
		logger.Fatal("running scenarios", zap.Error(err))
	}

	if err := writeReports(os.Stdout, *format, reports); err != nil {
		logger.Fatal("writing reports", zap.Error(err))
	}
	logger.Info("done", zap.Duration("elapsed", time.Since(start)))
}

func writeReports(w io.Writer, format string, reports []*rangesim.Report) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case "text":
		for _, r := range reports {
			if err := writeText(w, r); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown report format %q", format)
}

func writeText(w io.Writer, r *rangesim.Report) error {
	_, err := fmt.Fprintf(w, "%s on %s (seed %d): %d ticks, %s, %d shots, %d dry, %.1f damage\n",
		r.Scenario, r.Range, r.Seed, r.Ticks, r.Elapsed, r.Shots, r.DryFires, r.TotalDamage())
	if err != nil {
		return err
	}
	for _, t := range r.Targets {
		state := "up"
		if t.Destroyed {
			state = "down"
		}
		if _, err := fmt.Fprintf(w, "  target %-8s %3d hits %7.1f dmg %6.1f/%-6.1f %s\n",
			t.ID, t.Hits, t.DamageTaken, t.HP, t.MaxHP, state); err != nil {
			return err
		}
	}
	for _, wr := range r.Weapons {
		if _, err := fmt.Fprintf(w, "  weapon %-9s %-12s ammo %d %s\n",
			wr.Slot, wr.Profile, wr.Ammo, wr.FireMode); err != nil {
			return err
		}
	}
	return nil
}
