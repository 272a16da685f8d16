// Package config provides Viper-based configuration loading for the
// simulation server.
package config

import (
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
}

// SimulationConfig holds world sizing and tick rate.
type SimulationConfig struct {
	// TickRate is the number of simulation ticks per second.
	TickRate int `mapstructure:"tick_rate"`
	// MaxPlayers bounds player ids to [0, MaxPlayers).
	MaxPlayers int `mapstructure:"max_players"`
	// SnapIDs is the size of the network-visible sub-id pool shared by all entities.
	SnapIDs int `mapstructure:"snap_ids"`
}

// TickInterval returns the wall-clock duration of one tick.
//
// Precondition: TickRate > 0.
func (s SimulationConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}

// TuningConfig locates the balance parameter file.
type TuningConfig struct {
	// File is a flat YAML file of parameter overrides. Empty uses built-in defaults.
	File string `mapstructure:"file"`
	// Watch re-reads File whenever it changes.
	Watch bool `mapstructure:"watch"`
}

// ScriptingConfig locates class hook scripts.
type ScriptingConfig struct {
	// ClassDir holds shared *.lua files plus one subdirectory per class. Empty disables scripting.
	ClassDir string `mapstructure:"class_dir"`
	// InstructionLimit caps opcodes per hook call; 0 uses the scripting default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// ClassesConfig locates class definition overrides.
type ClassesConfig struct {
	// Dir holds YAML class definitions. Empty uses the built-in catalog.
	Dir string `mapstructure:"dir"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Tuning     TuningConfig     `mapstructure:"tuning"`
	Scripting  ScriptingConfig  `mapstructure:"scripting"`
	Classes    ClassesConfig    `mapstructure:"classes"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateScripting(c.Scripting); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Tuning.Watch && c.Tuning.File == "" {
		errs = append(errs, "tuning.watch requires tuning.file")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
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
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.TickRate < 1 || s.TickRate > 1000 {
		errs = append(errs, fmt.Sprintf("simulation.tick_rate must be 1-1000, got %d", s.TickRate))
	}
	if s.MaxPlayers < 1 || s.MaxPlayers > 256 {
		errs = append(errs, fmt.Sprintf("simulation.max_players must be 1-256, got %d", s.MaxPlayers))
	}
	if s.SnapIDs < 1 {
		errs = append(errs, fmt.Sprintf("simulation.snap_ids must be >= 1, got %d", s.SnapIDs))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateScripting(s ScriptingConfig) error {
	if s.InstructionLimit < 0 {
		return fmt.Errorf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit)
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

	// Environment variable overrides with INFCLASS_ prefix
	v.SetEnvPrefix("INFCLASS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
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

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("simulation.tick_rate", 50)
	v.SetDefault("simulation.max_players", 64)
	v.SetDefault("simulation.snap_ids", 16384)

	v.SetDefault("tuning.file", "")
	v.SetDefault("tuning.watch", false)

	v.SetDefault("scripting.class_dir", "")
	v.SetDefault("scripting.instruction_limit", 0)

	v.SetDefault("classes.dir", "")
}
