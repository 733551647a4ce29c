// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Ondrej Zary

package norflash

import "fmt"

// ChipFaultError reports an error bit observed in the Intel status
// register during an erase or program operation
type ChipFaultError struct {
	Op     string
	Addr   uint32
	Status Status
}

func (e *ChipFaultError) Error() string {
	return fmt.Sprintf("norflash: %s failed at 0x%06x: status %v", e.Op, e.Addr, e.Status)
}

// PollTimeoutError reports the AMD DQ5 timeout bit observed while data
// polling. The chip has already been reset when this error surfaces.
type PollTimeoutError struct {
	Op   string
	Addr uint32
}

func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("norflash: %s timed out at 0x%06x", e.Op, e.Addr)
}

// UnknownChipError reports an identifier pair with no catalog match.
// This is recoverable: no erase or program traffic has been issued.
type UnknownChipError struct {
	ID ChipID
}

func (e *UnknownChipError) Error() string {
	return fmt.Sprintf("norflash: unsupported flash type (Mfg ID=0x%04x, Device ID=0x%04x)", e.ID.Mfg, e.ID.Dev)
}

// ImageSizeError reports an image whose length does not match the chip
// size exactly. Raised before any flash traffic.
type ImageSizeError struct {
	Got  int
	Want uint32
}

func (e *ImageSizeError) Error() string {
	return fmt.Sprintf("norflash: image is %d bytes, chip requires exactly %d", e.Got, e.Want)
}

// BlockError wraps a failure during the block walk of a write session.
// Blocks below Written have already been reprogrammed; there is no
// rollback, so the range is surfaced for the operator.
type BlockError struct {
	Op      string
	Addr    uint32
	Written uint32
	Err     error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("norflash: %s block 0x%06x failed (0x000000-0x%06x already written): %v",
		e.Op, e.Addr, e.Written, e.Err)
}

func (e *BlockError) Unwrap() error {
	return e.Err
}
