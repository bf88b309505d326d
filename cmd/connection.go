// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 umas2022

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/umas2022/MultiAxisController-go8010/internal/config"
	"github.com/umas2022/MultiAxisController-go8010/pkg/motorbus"
)

// getPassword retrieves the bridge password from the environment or
// prompts for it without echo.
func getPassword() (string, error) {
	if pw := os.Getenv("GO8010_PASSWORD"); pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Fallback to regular input if terminal functions fail
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr)
	return string(passwordBytes), nil
}

// openTransport opens the bus channel selected by flags and profile:
// a local serial port, or a WebSocket serial bridge.
func openTransport(cfg config.Config) (motorbus.Transport, string, error) {
	timeout := time.Duration(cfg.Bus.TimeoutMs) * time.Millisecond

	if wsURL != "" {
		password := ""
		if wsUsername != "" {
			var err error
			password, err = getPassword()
			if err != nil {
				return nil, "", err
			}
		}

		t, err := motorbus.OpenWebSocket(motorbus.WSConfig{
			URL:           wsURL,
			Username:      wsUsername,
			Password:      password,
			SkipTLSVerify: wsNoSSLVerify,
			ReadTimeout:   timeout,
		})
		if err != nil {
			return nil, "", err
		}
		return t, fmt.Sprintf("WebSocket: %s", wsURL), nil
	}

	if cfg.Bus.Port != "" {
		serialCfg := motorbus.DefaultSerialConfig(cfg.Bus.Port)
		serialCfg.BaudRate = cfg.Bus.Baud
		serialCfg.ReadTimeout = timeout

		t, err := motorbus.OpenSerial(serialCfg)
		if err != nil {
			return nil, "", err
		}
		return t, fmt.Sprintf("Serial: %s @ %d baud", cfg.Bus.Port, cfg.Bus.Baud), nil
	}

	return nil, "", fmt.Errorf("either --port or --url must be specified")
}

// openSession is the common preamble for every subcommand: profile, then
// transport, then session.
func openSession(opts ...motorbus.SessionOption) (*motorbus.Session, config.Config, string, error) {
	cfg, err := loadProfile()
	if err != nil {
		return nil, config.Config{}, "", err
	}
	transport, connInfo, err := openTransport(cfg)
	if err != nil {
		return nil, config.Config{}, "", err
	}
	return motorbus.NewSession(transport, opts...), cfg, connInfo, nil
}
