// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Ondrej Zary
//
// cx861xx-flash - Conexant CX861xx/CX82xxx USB Boot Flash Utility
//
// Host-side programmer for the on-board NOR flash of Conexant CX861xx
// and CX82xxx processors in USB boot mode.

package main

import (
	"os"

	"github.com/ondrej-zary/cx861xx-flash/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(3)
	}
}
