// Package config loads the sanctuary layout and runtime settings.
//
// Configuration comes from an optional YAML file layered over Default, then from
// SANCTUARY_* environment variables. The result is validated before use.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"sanctuary/internal/platform/logger"
)

// Environment variables that override file values.
const (
	EnvIsolationCages      = "SANCTUARY_ISOLATION_CAGES"
	EnvEnclosureCapacities = "SANCTUARY_ENCLOSURE_CAPACITIES"
	EnvIDStrategy          = "SANCTUARY_ID_STRATEGY"
	EnvLogLevel            = "SANCTUARY_LOG_LEVEL"
	EnvLogFormat           = "SANCTUARY_LOG_FORMAT"
)

// Identifier strategies.
const (
	IDsUUID     = "uuid"
	IDsSequence = "sequence"
)

// Config is the full sanctuary configuration.
type Config struct {
	Layout  LayoutConfig  `yaml:"layout"`
	IDs     string        `yaml:"ids" validate:"oneof=uuid sequence"`
	Logging logger.Config `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LayoutConfig describes the initial housing registry.
type LayoutConfig struct {
	// IsolationCages is the number of single-occupant cages.
	IsolationCages int `yaml:"isolation_cages" validate:"gt=0"`
	// EnclosureCapacities holds one capacity in square meters per enclosure.
	EnclosureCapacities []int `yaml:"enclosure_capacities" validate:"min=1,dive,gt=0"`
}

// MetricsConfig toggles the Prometheus recorder.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// TracingConfig toggles OpenTelemetry spans around engine operations.
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns a small sanctuary with two enclosures and four isolation cages.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			IsolationCages:      4,
			EnclosureCapacities: []int{50, 50},
		},
		IDs: IDsUUID,
		Logging: logger.Config{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
		Metrics: MetricsConfig{
			Enabled:   false,
			Namespace: "sanctuary",
		},
	}
}

// Load reads path (skipped when empty), applies environment overrides and validates.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an injectable environment lookup.
func LoadWithEnv(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // operator-supplied config path
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		return nil
	}
	if v, ok := lookup(EnvIsolationCages); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvIsolationCages, err)
		}
		c.Layout.IsolationCages = n
	}
	if v, ok := lookup(EnvEnclosureCapacities); ok && v != "" {
		capacities, err := parseCapacities(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvEnclosureCapacities, err)
		}
		c.Layout.EnclosureCapacities = capacities
	}
	if v, ok := lookup(EnvIDStrategy); ok && v != "" {
		c.IDs = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Logging.Format = strings.ToLower(strings.TrimSpace(v))
	}
	return nil
}

func parseCapacities(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// Validate checks struct constraints and reports each failing field.
func (c Config) Validate() error {
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
