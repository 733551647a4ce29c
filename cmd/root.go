// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Ondrej Zary

package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cx861xx-flash",
	Short: "Conexant CX861xx/CX82xxx USB Boot Flash Utility",
	Long: `cx861xx-flash programs the on-board NOR flash of Conexant CX861xx and
CX82xxx processors over USB while the processor is in boot mode.

Strap the board into USB Boot mode and connect it; the boot ROM then
enumerates as 0572:cafc (CX861xx) or 0572:cafd (CX82xxx) and accepts
memory read/write requests used to drive the flash chip directly.

Exit codes:
  0  success
  1  no device found
  2  unable to claim the USB interface
  3  usage error
  4  flash operation failed
  5  file I/O error or image size mismatch
  6  unsupported flash chip`,
	Version: version,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
