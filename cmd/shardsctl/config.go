package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// hostConfig is the effective configuration of a shardsctl run.
type hostConfig struct {
	Globals      map[string]any
	Vars         map[string]any
	Floor        *float64
	Strict       bool
	LogLevel     string        `validate:"oneof=debug info warn error"`
	Gravity      []float64     `validate:"len=3"`
	TickInterval time.Duration `validate:"gte=0"`
	Ticks        int           `validate:"gte=0"`
	Width        int           `validate:"gte=20"`
}

func defaultHostConfig() hostConfig {
	return hostConfig{
		LogLevel:     "info",
		Gravity:      []float64{0, -9.81, 0},
		TickInterval: 50 * time.Millisecond,
		Width:        100,
		Strict:       true,
	}
}

type fileConfig struct {
	LogLevel        string         `toml:"log_level"`
	TickInterval    string         `toml:"tick_interval"`
	Ticks           int            `toml:"ticks"`
	Width           int            `toml:"width"`
	StrictTemplates bool           `toml:"strict_templates"`
	Globals         map[string]any `toml:"globals"`
	Vars            map[string]any `toml:"vars"`
	Physics         physicsConfig  `toml:"physics"`
}

type physicsConfig struct {
	Gravity []float64 `toml:"gravity"`
	Floor   *float64  `toml:"floor"`
}

var validate = validator.New()

// loadHostConfig reads path over the defaults. An empty path yields the defaults.
func loadHostConfig(path string) (hostConfig, error) {
	cfg := defaultHostConfig()
	if path == "" {
		return cfg, validateHostConfig(cfg)
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return hostConfig{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return hostConfig{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(raw.LogLevel))
	}
	if meta.IsDefined("tick_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.TickInterval))
		if err != nil {
			return hostConfig{}, fmt.Errorf("parse tick_interval: %w", err)
		}
		cfg.TickInterval = d
	}
	if meta.IsDefined("ticks") {
		cfg.Ticks = raw.Ticks
	}
	if meta.IsDefined("width") {
		cfg.Width = raw.Width
	}
	if meta.IsDefined("strict_templates") {
		cfg.Strict = raw.StrictTemplates
	}
	if meta.IsDefined("globals") {
		cfg.Globals = raw.Globals
	}
	if meta.IsDefined("vars") {
		cfg.Vars = raw.Vars
	}
	if meta.IsDefined("physics", "gravity") {
		cfg.Gravity = raw.Physics.Gravity
	}
	if meta.IsDefined("physics", "floor") {
		cfg.Floor = raw.Physics.Floor
	}

	return cfg, validateHostConfig(cfg)
}

func validateHostConfig(cfg hostConfig) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config: %s failed on the '%s' rule", verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
