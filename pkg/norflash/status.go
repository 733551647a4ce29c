// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Ondrej Zary

package norflash

import (
	"fmt"
	"strings"
)

// Status represents the Intel 28F status register.
//
//	Bit | Meaning
//	----+------------------------------------------------
//	7   | Write State Machine Status, 1 = READY
//	6   | Erase-Suspend Status, 1 = SUSPENDED
//	5   | Erase Status, 1 = ERROR
//	4   | Program Status, 1 = ERROR
//	3   | VPP Status, 1 = VPP Low
//	2   | Program-Suspend Status, 1 = SUSPENDED
//	1   | Block Lock Status, 1 = LOCKED
type Status uint16

// statusErrorMask covers the erase, program, VPP and lock error bits
const statusErrorMask Status = 0x5A

func (s Status) Ready() bool          { return s&(1<<7) != 0 }
func (s Status) EraseSuspend() bool   { return s&(1<<6) != 0 }
func (s Status) EraseError() bool     { return s&(1<<5) != 0 }
func (s Status) ProgramError() bool   { return s&(1<<4) != 0 }
func (s Status) VPPError() bool       { return s&(1<<3) != 0 }
func (s Status) ProgramSuspend() bool { return s&(1<<2) != 0 }
func (s Status) Locked() bool         { return s&(1<<1) != 0 }

// Err reports whether any error bit is set. An error bit can be set while
// READY is still clear; waiting for READY alone would poll forever.
func (s Status) Err() bool { return s&statusErrorMask != 0 }

func (s Status) String() string {
	b := fmt.Sprintf("%08b", uint8(s))
	var flags []string
	if s.Ready() {
		flags = append(flags, "READY")
	}
	if s.EraseSuspend() {
		flags = append(flags, "ERASE_SUSPEND")
	}
	if s.EraseError() {
		flags = append(flags, "ERASE_ERROR")
	}
	if s.ProgramError() {
		flags = append(flags, "PROGRAM_ERROR")
	}
	if s.VPPError() {
		flags = append(flags, "VPP_ERROR")
	}
	if s.ProgramSuspend() {
		flags = append(flags, "PROGRAM_SUSPEND")
	}
	if s.Locked() {
		flags = append(flags, "LOCKED")
	}
	if len(flags) == 0 {
		return b
	}
	return b + " " + strings.Join(flags, ",")
}
