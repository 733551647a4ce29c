// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Ondrej Zary

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/ondrej-zary/cx861xx-flash/pkg/cxboot"
	"github.com/ondrej-zary/cx861xx-flash/pkg/norflash"
	"golang.org/x/term"
)

const version = "2.0.0"

func printBanner() {
	fmt.Printf("cx861xx-flash v%s - Conexant CX861xx/CX82xxx USB Boot Flash Utility\n", version)
	fmt.Printf("Copyright (c) 2012-2025 Ondrej Zary - http://www.rainbow-software.org\n\n")
}

// openDevice finds and claims the bootloader device. Failures are
// terminal: no device exits 1, a claim failure exits 2.
func openDevice() *cxboot.Device {
	dev, err := cxboot.Open()
	if err != nil {
		var claim *cxboot.ClaimError
		switch {
		case errors.Is(err, cxboot.ErrNoDevice):
			fmt.Fprintln(os.Stderr, "No device detected. Make sure the board is properly connected and processor is in USB Boot mode.")
			os.Exit(1)
		case errors.As(err, &claim):
			fmt.Fprintf(os.Stderr, "Unable to claim interface: %v\n", claim.Err)
			os.Exit(2)
		default:
			fmt.Fprintf(os.Stderr, "Error opening device: %v\n", err)
			os.Exit(2)
		}
	}
	fmt.Printf("%s device found at bus %d, address %d\n\n", dev.Family(), dev.Bus(), dev.Address())
	return dev
}

// identifyChip enables flash access, reads the chip identifier pair and
// resolves it against the catalog. An unknown chip exits 6.
func identifyChip(dev *cxboot.Device) *norflash.Chip {
	if err := dev.EnableFlash(); err != nil {
		fmt.Fprintf(os.Stderr, "Error enabling flash access: %v\n", err)
		os.Exit(4)
	}

	chip, id, err := norflash.Identify(dev)
	if err != nil {
		var unknown *norflash.UnknownChipError
		if errors.As(err, &unknown) {
			fmt.Printf("Flash ID: Mfg ID=0x%04x, Device ID=0x%04x: Unsupported flash type\n", id.Mfg, id.Dev)
			os.Exit(6)
		}
		fmt.Fprintf(os.Stderr, "Error identifying flash chip: %v\n", err)
		os.Exit(4)
	}
	fmt.Printf("Flash ID: Mfg ID=0x%04x, Device ID=0x%04x: %s\n", id.Mfg, id.Dev, chip.Name)
	return chip
}

// progressDots reports whether per-KiB progress dots should be printed.
// Dots are suppressed when stdout is redirected.
func progressDots() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
