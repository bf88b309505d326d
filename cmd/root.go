// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 umas2022

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/umas2022/MultiAxisController-go8010/internal/config"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket bridge flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Optional YAML bus profile
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "go8010",
	Short: "GO-M8010-6 actuator bus utility",
	Long: `go8010 - command and read back GO-M8010-6 series actuators over a
point-to-point serial bus.

Provides commands for discovering motors on the bus, issuing one-shot
control commands, watching live feedback and recording exchange traces.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 4000000]
  WebSocket: --url ws://host/bus [--username user]

For WebSocket authentication, the password is read from the GO8010_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell
history.

A YAML profile (--config) can carry the bench setup: port, baud, scan
window, default gains and temperature limit. Flags override the profile.`,
	Version: "1.0.0",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 0, "Baud rate (serial only, default 4000000)")

	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML bus profile")
}

// loadProfile returns the bus profile: defaults, optionally overridden by
// --config, then by explicit flags.
func loadProfile() (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return config.Config{}, err
		}
	}
	if portName != "" {
		cfg.Bus.Port = portName
	}
	if baudRate > 0 {
		cfg.Bus.Baud = baudRate
	}
	return cfg, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
