package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/shift-planner/pkg/core/roster"
)

// EnvPrefix prefixes every environment variable that overrides the config file
const EnvPrefix = "SHIFT_PLANNER_"

// DefaultTimeLimit bounds a solve when the config doesn't set one
const DefaultTimeLimit = 60 * time.Second

// SolverConfig tunes the solver backend
type SolverConfig struct {
	TimeLimitSeconds int `yaml:"timeLimitSeconds" env:"TIME_LIMIT_SECONDS" validate:"gte=0"`
	Workers          int `yaml:"workers" env:"WORKERS" validate:"gte=0"`
}

// TimeLimit returns the configured budget, falling back to DefaultTimeLimit
func (s SolverConfig) TimeLimit() time.Duration {
	if s.TimeLimitSeconds == 0 {
		return DefaultTimeLimit
	}
	return time.Duration(s.TimeLimitSeconds) * time.Second
}

// WeightsConfig overrides objective weights. Unset weights keep their defaults.
type WeightsConfig struct {
	Preference    *int `yaml:"preference,omitempty" validate:"omitempty,gte=0"`
	DoubleBooking *int `yaml:"doubleBooking,omitempty" validate:"omitempty,gte=0"`
	Multiplicity  *int `yaml:"multiplicity,omitempty" validate:"omitempty,gte=0"`
}

// Apply layers the configured weights over base
func (w WeightsConfig) Apply(base roster.Weights) roster.Weights {
	if w.Preference != nil {
		base.Preference = *w.Preference
	}
	if w.DoubleBooking != nil {
		base.DoubleBooking = *w.DoubleBooking
	}
	if w.Multiplicity != nil {
		base.Multiplicity = *w.Multiplicity
	}
	return base
}

// IsSet reports whether any weight is configured
func (w WeightsConfig) IsSet() bool {
	return w.Preference != nil || w.DoubleBooking != nil || w.Multiplicity != nil
}

// Config represents the application configuration
type Config struct {
	// ScheduleSheetID is the spreadsheet schedules are published to and read back from
	ScheduleSheetID string `yaml:"scheduleSheetID,omitempty" env:"SCHEDULE_SHEET_ID"`

	// RequestsSheetID and RequestsTab locate the preferences sheet
	RequestsSheetID string `yaml:"requestsSheetID,omitempty" env:"REQUESTS_SHEET_ID"`
	RequestsTab     string `yaml:"requestsTab,omitempty" env:"REQUESTS_TAB"`

	// ForbidTokens are the cell values of the preferences sheet that mean "can't work"
	ForbidTokens []string `yaml:"forbidTokens,omitempty" env:"FORBID_TOKENS" validate:"dive,required"`

	DatabaseURL string `yaml:"databaseURL,omitempty" env:"DATABASE_URL" validate:"omitempty,url"`

	Solver  SolverConfig  `yaml:"solver" envPrefix:"SOLVER_"`
	Weights WeightsConfig `yaml:"weights"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads the configuration from shift_planner_config.yaml
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads and validates the configuration with an environment suffix,
// e.g. env="test" looks for shift_planner_config.test.yaml.
// Environment variables prefixed with SHIFT_PLANNER_ override the file.
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findFile(configFileName(env))
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Forbids returns the configured forbid tokens or DefaultForbidTokens
func (c *Config) Forbids() []string {
	if len(c.ForbidTokens) == 0 {
		return DefaultForbidTokens
	}
	return c.ForbidTokens
}

// DefaultForbidTokens are the "no" answers accepted in a preferences sheet
var DefaultForbidTokens = []string{"no", "לא"}

func configFileName(env string) string {
	if env == "" {
		return "shift_planner_config.yaml"
	}
	return "shift_planner_config." + env + ".yaml"
}

// findFile looks for name in the current directory and then the home directory
func findFile(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", name)
}
