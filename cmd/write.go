// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Ondrej Zary

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/ondrej-zary/cx861xx-flash/pkg/norflash"
	"github.com/spf13/cobra"
)

var writeCmd = &cobra.Command{
	Use:   "write FILE",
	Short: "Write FILE to the flash",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWrite(args[0], false)
	},
}

var writeSlowCmd = &cobra.Command{
	Use:   "writeslow FILE",
	Short: "Write FILE to the flash, checking status after each word",
	Long: `Write FILE to the flash like the write command, but poll the chip status
after every programmed word instead of relying on the USB round-trip
time. Slower, but pinpoints the exact word when a chip misbehaves.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWrite(args[0], true)
	},
}

func init() {
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(writeSlowCmd)
}

func runWrite(path string, slow bool) {
	printBanner()
	dev := openDevice()
	defer dev.Close()

	img, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(5)
	}

	chip := identifyChip(dev)
	sess := norflash.NewSession(dev, chip)

	dots := progressDots()
	sess.Progress = func(e norflash.Event) {
		switch e.Kind {
		case norflash.EventEraseStart:
			fmt.Printf("Erasing block     0x%06x: ", e.Addr)
		case norflash.EventProgramStart:
			fmt.Printf("Programming block 0x%06x: ", e.Addr)
		case norflash.EventTick:
			if dots {
				fmt.Printf(".")
			}
		case norflash.EventStepDone:
			fmt.Printf("\n")
		}
	}

	if err := sess.WriteImage(img, slow); err != nil {
		var sizeErr *norflash.ImageSizeError
		if errors.As(err, &sizeErr) {
			fmt.Fprintf(os.Stderr, "Error reading file, must be %d bytes long\n", sizeErr.Want)
			os.Exit(5)
		}
		fmt.Printf("Error!\n")
		fmt.Fprintf(os.Stderr, "Error writing flash: %v\n", err)
		os.Exit(4)
	}
}
