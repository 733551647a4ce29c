// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Ondrej Zary

// Package norflash drives NOR flash chips behind the Conexant bootloader's
// raw memory channel: chip identification, block erase and word
// programming for the Intel 28F (status register) and AMD/JEDEC 29LV
// (data polling, unlock bypass) command sets.
package norflash

// Intel 28F command set
const (
	intelCmdReadArray    uint16 = 0xFF // Read Array
	intelCmdReadID       uint16 = 0x90 // Read Identifier
	intelCmdCFIQuery     uint16 = 0x98 // CFI Query
	intelCmdReadStatus   uint16 = 0x70 // Read Status Register
	intelCmdClearStatus  uint16 = 0x50 // Clear Status Register
	intelCmdProgram      uint16 = 0x40 // Program
	intelCmdErase        uint16 = 0x20 // Block Erase
	intelCmdEraseConfirm uint16 = 0xD0 // Block Erase Confirm
	intelCmdSuspend      uint16 = 0xB0 // Program/Erase Suspend
	intelCmdResume       uint16 = 0xD0 // Program/Erase Resume
	intelCmdLockSetup    uint16 = 0x60 // Lock mode, use with next 3 commands:
	intelCmdLock         uint16 = 0x01 // Lock Block
	intelCmdUnlock       uint16 = 0xD0 // Unlock Block
	intelCmdLockDown     uint16 = 0x2F // Lock-Down Block
	intelCmdProtect      uint16 = 0xC0 // Protection Program
)

// AMD/JEDEC command set
const (
	amdCmdUnlock1      uint16 = 0xAA // first unlock cycle
	amdCmdUnlock2      uint16 = 0x55 // second unlock cycle
	amdCmdAutoselect   uint16 = 0x90 // Autoselect (read identifier)
	amdCmdErasePrepare uint16 = 0x80 // Erase setup
	amdCmdEraseSector  uint16 = 0x30 // Sector Erase Confirm
	amdCmdProgram      uint16 = 0xA0 // Program (in unlock bypass mode)
	amdCmdUnlockBypass uint16 = 0x20 // Enter Unlock Bypass
	amdCmdBypassReset1 uint16 = 0x90 // Unlock Bypass Reset, first cycle
	amdCmdBypassReset2 uint16 = 0x00 // Unlock Bypass Reset, second cycle
	amdCmdReset        uint16 = 0xF0 // Read/Reset
)

// AMD data-polling bits
const (
	amdDQ7Poll    uint16 = 1 << 7 // data poll, complement of final data while busy
	amdDQ5Timeout uint16 = 1 << 5 // exceeded internal timing limit
)

// JEDEC unlock addresses as raw register offsets. The board's address
// line 0 is not wired to the flash chip, so every nominal word address is
// shifted left by one bit on the bus: 0x555 lands at 0xAAA, 0x2AA at
// 0x554.
const (
	amdUnlockOffset1 uint32 = 0x555 << 1
	amdUnlockOffset2 uint32 = 0x2AA << 1
)

const erasedWord uint16 = 0xFFFF
