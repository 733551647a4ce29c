// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Ondrej Zary

// Package cxboot implements the USB bootloader command protocol of
// Conexant CX861xx/CX82xxx processors.
//
// In USB boot mode the internal ROM bootloader exposes a single bulk
// endpoint pair that accepts fixed 64-byte command frames for raw memory
// access. The bootloader has no knowledge of the attached flash chip; all
// flash intelligence is driven from the host through plain memory reads
// and writes (see the norflash package).
package cxboot

import "time"

// USB identification
const (
	ConexantVendor  = 0x0572
	CX861xxBootProd = 0xCAFC
	CX82xxxBootProd = 0xCAFD
)

// Bulk command endpoint (0x01 OUT / 0x81 IN) and per-transfer timeout
const (
	CmdEndpoint = 1
	CmdTimeout  = 100 * time.Millisecond
)

// Frame geometry
const (
	FrameSize   = 64
	MaxDataSize = 56
)

// Command represents a bootloader firmware command
type Command uint8

// Bootloader commands. GetVersion, ReadModifyWrite, Checksum and Goto are
// accepted by the bootloader but their response formats are undocumented;
// no host-side callers exist.
const (
	CmdError Command = iota
	CmdGetVersion
	CmdReadMem
	CmdWriteMem
	CmdReadModifyWrite
	CmdChecksum
	CmdGoto
)

// AccessWidth selects the memory access width used by the bootloader
type AccessWidth uint8

// Memory access widths
const (
	AccessByte AccessWidth = iota
	AccessWord
	AccessDword
)

/* CX861xx memory map:
 0x00000000: either internal ROM (boot loader mode) or external flash (normal boot)
 0x00400000: 32KB internal ROM (boot loader)
 0x00600000: 1MB I/O (registers and devices)
 0x00800000: 64KB internal SRAM
 0x04000000: FLASH (disabled in boot loader mode)
 0x08000000: SDRAM (disabled on boot)
*/
const (
	CX861xxIOBase      = 0x00600000
	CX861xxFlashEnable = CX861xxIOBase + 4
	CX861xxFlashBase   = 0x04000000
)

/* CX82xxx memory map:
 0x00000000: either internal ROM (boot loader mode) or external flash (normal boot)
 0x00180000: 32KB internal SRAM (with running copy of boot loader)
 0x00300000: I/O (registers and devices)
 0x00400000: FLASH (always enabled)
 0x00800000: SDRAM (disabled on boot)
*/
const (
	CX82xxxFlashBase = 0x00400000
)

// Family identifies the processor family, resolved from the boot-mode
// product ID
type Family int

// Supported processor families
const (
	FamilyCX861xx Family = iota
	FamilyCX82xxx
)

func (f Family) String() string {
	switch f {
	case FamilyCX861xx:
		return "CX861xx"
	case FamilyCX82xxx:
		return "CX82xxx"
	default:
		return "unknown"
	}
}
