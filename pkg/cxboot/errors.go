// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Ondrej Zary

package cxboot

import (
	"errors"
	"fmt"
)

// ErrNoDevice is returned by Open when no supported device is present
var ErrNoDevice = errors.New("no device detected, make sure the board is connected and the processor is in USB boot mode")

// TransportError wraps a failed bulk transfer with the operation and the
// memory address it was working on. The whole call aborts on the first
// failure; the address marks how far it got.
type TransportError struct {
	Op   string
	Addr uint32
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("cxboot: %s at 0x%08x: %v", e.Op, e.Addr, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ClaimError wraps a failure to claim the bootloader USB interface,
// distinguishable from ErrNoDevice for exit-code purposes.
type ClaimError struct {
	Err error
}

func (e *ClaimError) Error() string {
	return fmt.Sprintf("cxboot: unable to claim interface: %v", e.Err)
}

func (e *ClaimError) Unwrap() error {
	return e.Err
}
