// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 umas2022

// Package config loads the optional YAML bus profile used by the CLI.
// Every value can also be set by flag; the profile just keeps a bench
// setup (port, gains, scan window) out of shell history.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Bus     BusConfig     `yaml:"bus"`
	Scan    ScanConfig    `yaml:"scan"`
	Control ControlConfig `yaml:"control"`
}

// ---- BUS ----

type BusConfig struct {
	Port      string `yaml:"port"`
	Baud      int    `yaml:"baud"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- SCAN ----

type ScanConfig struct {
	FirstID uint8 `yaml:"first_id"`
	LastID  uint8 `yaml:"last_id"`
	DelayMs int   `yaml:"delay_ms"`
}

// ---- CONTROL ----

type ControlConfig struct {
	Kp        float64 `yaml:"kp"`
	Kd        float64 `yaml:"kd"`
	TempLimit int     `yaml:"temp_limit"`
}

// Default returns the documented bus profile: 4,000,000 baud, 20 ms
// timeout, full scan window with 50 ms inter-probe delay, the vendor's
// default damping gain and the 90 degree temperature limit.
func Default() Config {
	return Config{
		Bus:     BusConfig{Baud: 4000000, TimeoutMs: 20},
		Scan:    ScanConfig{FirstID: 0, LastID: 14, DelayMs: 50},
		Control: ControlConfig{Kp: 0.0, Kd: 0.01, TempLimit: 90},
	}
}

// Load reads a YAML profile and fills unset values from Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// normalize backfills zero values that Unmarshal may have cleared when a
// section was present but a field omitted.
func (c *Config) normalize() {
	def := Default()
	if c.Bus.Baud == 0 {
		c.Bus.Baud = def.Bus.Baud
	}
	if c.Bus.TimeoutMs == 0 {
		c.Bus.TimeoutMs = def.Bus.TimeoutMs
	}
	if c.Scan.DelayMs == 0 {
		c.Scan.DelayMs = def.Scan.DelayMs
	}
	if c.Scan.LastID == 0 && c.Scan.FirstID == 0 {
		c.Scan.LastID = def.Scan.LastID
	}
	if c.Control.TempLimit == 0 {
		c.Control.TempLimit = def.Control.TempLimit
	}
}

// Validate rejects profiles the bus cannot honor.
func (c *Config) Validate() error {
	if c.Bus.Baud <= 0 {
		return fmt.Errorf("bus.baud must be positive, got %d", c.Bus.Baud)
	}
	if c.Bus.TimeoutMs <= 0 {
		return fmt.Errorf("bus.timeout_ms must be positive, got %d", c.Bus.TimeoutMs)
	}
	if c.Scan.LastID > 14 {
		return fmt.Errorf("scan.last_id %d exceeds max addressable id 14", c.Scan.LastID)
	}
	if c.Scan.FirstID > c.Scan.LastID {
		return fmt.Errorf("scan window %d-%d is empty", c.Scan.FirstID, c.Scan.LastID)
	}
	if c.Scan.DelayMs < 0 {
		return fmt.Errorf("scan.delay_ms must not be negative, got %d", c.Scan.DelayMs)
	}
	if c.Control.Kp < 0 || c.Control.Kp > 1 {
		return fmt.Errorf("control.kp %v outside 0.0-1.0", c.Control.Kp)
	}
	if c.Control.Kd < 0 || c.Control.Kd > 1 {
		return fmt.Errorf("control.kd %v outside 0.0-1.0", c.Control.Kd)
	}
	if c.Control.TempLimit <= 0 || c.Control.TempLimit > 120 {
		return fmt.Errorf("control.temp_limit %d outside 1-120", c.Control.TempLimit)
	}
	return nil
}
