// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 umas2022
//
// go8010 - GO-M8010-6 Actuator Bus Tool
//
// A CLI tool for discovering, driving and monitoring GO-M8010-6 joint
// actuators over their RS-485 serial bus.

package main

import (
	"os"

	"github.com/umas2022/MultiAxisController-go8010/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
