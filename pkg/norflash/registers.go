// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Ondrej Zary

package norflash

import (
	"encoding/binary"

	"github.com/ondrej-zary/cx861xx-flash/pkg/cxboot"
)

// Memory is the raw memory channel the flash sits behind. cxboot.Device
// implements it; tests substitute simulated chips.
type Memory interface {
	ReadMem(addr, count uint32, access cxboot.AccessWidth) ([]byte, error)
	WriteMem(addr uint32, data []byte, access cxboot.AccessWidth) error
	FlashBase() uint32
}

// Registers provides 16-bit access to the flash window at offsets
// relative to the flash base
type Registers struct {
	mem Memory
}

// NewRegisters creates register access over a memory channel
func NewRegisters(mem Memory) *Registers {
	return &Registers{mem: mem}
}

// Read16 reads the 16-bit value at the given byte offset
func (r *Registers) Read16(off uint32) (uint16, error) {
	b, err := r.mem.ReadMem(r.mem.FlashBase()+off, 2, cxboot.AccessWord)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Write16 writes a 16-bit value at the given byte offset
func (r *Registers) Write16(off uint32, value uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], value)
	return r.mem.WriteMem(r.mem.FlashBase()+off, buf[:], cxboot.AccessWord)
}

// WriteMerged writes a command word and a data word as a single 4-byte
// transfer spanning off-2..off+2. The flash latches the command from the
// first word and the data from the second, saving one USB round trip per
// programmed word.
func (r *Registers) WriteMerged(off uint32, cmd, data uint16) error {
	var buf [4]byte
	binary.LittleEndian.PutUint16(buf[0:2], cmd)
	binary.LittleEndian.PutUint16(buf[2:4], data)
	return r.mem.WriteMem(r.mem.FlashBase()+off-2, buf[:], cxboot.AccessWord)
}

// Unlock issues the AMD/JEDEC 3-cycle unlock sequence followed by cmd.
// The unlock offsets already carry the board's one-bit address shift.
func (r *Registers) Unlock(cmd uint16) error {
	if err := r.Write16(amdUnlockOffset1, amdCmdUnlock1); err != nil {
		return err
	}
	if err := r.Write16(amdUnlockOffset2, amdCmdUnlock2); err != nil {
		return err
	}
	return r.Write16(amdUnlockOffset1, cmd)
}
