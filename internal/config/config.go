// Package config provides Viper-based configuration loading for the range tool.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is "stderr", "stdout" or a file path.
	Output string `mapstructure:"output"`
}

// RangeConfig holds simulation settings.
type RangeConfig struct {
	// Tick is the simulation step used by scenarios that do not set their own.
	Tick time.Duration `mapstructure:"tick"`
	// MaxTicks bounds a single scenario run. 0 disables the bound.
	MaxTicks int `mapstructure:"max_ticks"`
	// Parallelism is the number of scenarios run concurrently. 0 means unbounded.
	Parallelism int `mapstructure:"parallelism"`
	// Timeout bounds the whole batch. 0 disables it.
	Timeout time.Duration `mapstructure:"timeout"`
}

// ContentConfig holds the content directories.
type ContentConfig struct {
	WeaponsDir   string `mapstructure:"weapons_dir"`
	RangesDir    string `mapstructure:"ranges_dir"`
	ScriptsDir   string `mapstructure:"scripts_dir"`
	ScenariosDir string `mapstructure:"scenarios_dir"`
}

// ScriptingConfig holds Lua sandbox settings.
type ScriptingConfig struct {
	// InstructionLimit is the per-call instruction budget for range scripts.
	// 0 selects the scripting package default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Range     RangeConfig     `mapstructure:"range"`
	Content   ContentConfig   `mapstructure:"content"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateRange(c.Range); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Scripting.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("scripting.instruction_limit must be >= 0, got %d", c.Scripting.InstructionLimit))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateRange(r RangeConfig) error {
	var errs []string
	if r.Tick <= 0 {
		errs = append(errs, fmt.Sprintf("range.tick must be > 0, got %s", r.Tick))
	}
	if r.MaxTicks < 0 {
		errs = append(errs, fmt.Sprintf("range.max_ticks must be >= 0, got %d", r.MaxTicks))
	}
	if r.Parallelism < 0 {
		errs = append(errs, fmt.Sprintf("range.parallelism must be >= 0, got %d", r.Parallelism))
	}
	if r.Timeout < 0 {
		errs = append(errs, "range.timeout must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.WeaponsDir == "" {
		errs = append(errs, "content.weapons_dir must not be empty")
	}
	if c.RangesDir == "" {
		errs = append(errs, "content.ranges_dir must not be empty")
	}
	if c.ScenariosDir == "" {
		errs = append(errs, "content.scenarios_dir must not be empty")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.Output == "" {
		return errors.New("logging.output must not be empty")
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with ARMORY_ prefix
	v.SetEnvPrefix("ARMORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance holding only the default settings.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("range.tick", "16ms")
	v.SetDefault("range.max_ticks", 100000)
	v.SetDefault("range.parallelism", 4)
	v.SetDefault("range.timeout", "1m")

	v.SetDefault("content.weapons_dir", "content/weapons")
	v.SetDefault("content.ranges_dir", "content/ranges")
	v.SetDefault("content.scripts_dir", "content/scripts")
	v.SetDefault("content.scenarios_dir", "content/scenarios")

	v.SetDefault("scripting.instruction_limit", 100000)
}
