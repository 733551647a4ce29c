// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Ondrej Zary

package norflash

import "encoding/binary"

// engine is the per-vendor erase/program capability set. The session
// selects the implementation from the chip profile's Algorithm.
type engine interface {
	eraseBlock(addr uint32) error
	programBlock(addr uint32, data []byte, slow bool) error
	setBlockLock(addr uint32, lock bool) error
}

// intelEngine drives the Intel 28F status-register command set
type intelEngine struct {
	regs *Registers
	tick func()
}

func (e *intelEngine) eraseBlock(addr uint32) (err error) {
	// Leave status mode on every exit path, including faults
	defer func() {
		if raErr := e.regs.Write16(0, intelCmdReadArray); raErr != nil && err == nil {
			err = raErr
		}
	}()

	if err = e.regs.Write16(0, intelCmdClearStatus); err != nil {
		return err
	}
	if err = e.regs.Write16(0, intelCmdReadStatus); err != nil {
		return err
	}

	if err = e.regs.Write16(addr, intelCmdErase); err != nil {
		return err
	}
	if err = e.regs.Write16(addr, intelCmdEraseConfirm); err != nil {
		return err
	}

	status, err := e.pollStatus()
	if err != nil {
		return err
	}
	if status.Err() {
		return &ChipFaultError{"erase", addr, status}
	}
	return nil
}

func (e *intelEngine) programBlock(addr uint32, data []byte, slow bool) (err error) {
	defer func() {
		if raErr := e.regs.Write16(0, intelCmdReadArray); raErr != nil && err == nil {
			err = raErr
		}
	}()

	if err = e.regs.Write16(0, intelCmdClearStatus); err != nil {
		return err
	}
	if err = e.regs.Write16(0, intelCmdReadStatus); err != nil {
		return err
	}

	for i := uint32(0); i < uint32(len(data))/2; i++ {
		word := binary.LittleEndian.Uint16(data[i*2:])
		// erased words need no programming
		if word == erasedWord {
			continue
		}

		if e.tick != nil && i%512 == 0 { // each 1 KB
			e.tick()
		}

		if i == 0 {
			// the first word can't be merged: the command must land at
			// the block address, the data at the word address
			if err = e.regs.Write16(addr, intelCmdProgram); err != nil {
				return err
			}
			if err = e.regs.Write16(addr, word); err != nil {
				return err
			}
		} else {
			if err = e.regs.WriteMerged(addr+i*2, intelCmdProgram, word); err != nil {
				return err
			}
		}

		// USB transfer latency already exceeds the chip's word program
		// time; polling each word is an option, not a necessity
		if slow {
			var status Status
			status, err = e.pollStatus()
			if err != nil {
				return err
			}
			if status.Err() {
				return &ChipFaultError{"program", addr + i*2, status}
			}
		}
	}

	return nil
}

func (e *intelEngine) setBlockLock(addr uint32, lock bool) error {
	if err := e.regs.Write16(addr, intelCmdLockSetup); err != nil {
		return err
	}
	cmd := intelCmdUnlock
	if lock {
		cmd = intelCmdLock
	}
	return e.regs.Write16(addr, cmd)
}

// pollStatus reads the status register until READY or any error bit is
// set. Breaking on error bits matters: the chip can report a fault while
// READY is still clear, and waiting for READY alone would spin forever.
func (e *intelEngine) pollStatus() (Status, error) {
	for i := 0; ; i++ {
		v, err := e.regs.Read16(0)
		if err != nil {
			return 0, err
		}
		status := Status(v)
		if status.Ready() || status.Err() {
			return status, nil
		}
		if e.tick != nil && i%4 == 0 {
			e.tick()
		}
	}
}
