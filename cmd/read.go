// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Ondrej Zary

package cmd

import (
	"fmt"
	"os"

	"github.com/ondrej-zary/cx861xx-flash/pkg/norflash"
	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read FILE",
	Short: "Read the flash contents into FILE",
	Args:  cobra.ExactArgs(1),
	Run:   runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)
}

func runRead(cmd *cobra.Command, args []string) {
	printBanner()
	dev := openDevice()
	defer dev.Close()

	chip := identifyChip(dev)
	sess := norflash.NewSession(dev, chip)

	fmt.Printf("Reading flash: ")
	if progressDots() {
		dev.Progress = func() { fmt.Printf(".") }
	}
	img, err := sess.ReadImage()
	if err != nil {
		fmt.Printf("\n")
		fmt.Fprintf(os.Stderr, "Error reading flash: %v\n", err)
		os.Exit(4)
	}
	fmt.Printf("done\n")

	if err := os.WriteFile(args[0], img, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(5)
	}
}
