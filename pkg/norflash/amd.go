// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Ondrej Zary

package norflash

import "encoding/binary"

// amdEngine drives the AMD/JEDEC data-polling command set with
// unlock-bypass programming
type amdEngine struct {
	regs *Registers
	tick func()
}

func (e *amdEngine) eraseBlock(addr uint32) error {
	if err := e.regs.Unlock(amdCmdErasePrepare); err != nil {
		return err
	}
	// second unlock pair, then the sector confirm at the block address
	if err := e.regs.Write16(amdUnlockOffset1, amdCmdUnlock1); err != nil {
		return err
	}
	if err := e.regs.Write16(amdUnlockOffset2, amdCmdUnlock2); err != nil {
		return err
	}
	if err := e.regs.Write16(addr, amdCmdEraseSector); err != nil {
		return err
	}

	// Data polling at the block address: DQ7 reads low until the erase
	// completes. DQ5 set while DQ7 is still low means the chip exceeded
	// its timing limit.
	for i := 0; ; i++ {
		v, err := e.regs.Read16(addr)
		if err != nil {
			return err
		}
		if v&amdDQ7Poll != 0 {
			break
		}
		if v&amdDQ5Timeout != 0 {
			if err := e.regs.Write16(0, amdCmdReset); err != nil {
				return err
			}
			return &PollTimeoutError{"erase", addr}
		}
		if e.tick != nil && i%4 == 0 {
			e.tick()
		}
	}

	return nil
}

func (e *amdEngine) programBlock(addr uint32, data []byte, slow bool) error {
	// Unlock bypass lets every word be programmed with a bare 0xA0
	// instead of the full 3-cycle unlock sequence
	if err := e.regs.Unlock(amdCmdUnlockBypass); err != nil {
		return err
	}

	err := e.programWords(addr, data, slow)

	// leave bypass mode on every exit path
	if brErr := e.exitBypass(); brErr != nil && err == nil {
		err = brErr
	}
	// a polling timeout additionally needs a chip reset, after the
	// bypass exit
	if _, ok := err.(*PollTimeoutError); ok {
		e.regs.Write16(0, amdCmdReset)
	}
	return err
}

func (e *amdEngine) programWords(addr uint32, data []byte, slow bool) error {
	for i := uint32(0); i < uint32(len(data))/2; i++ {
		word := binary.LittleEndian.Uint16(data[i*2:])
		if word == erasedWord {
			continue
		}

		if e.tick != nil && i%512 == 0 { // each 1 KB
			e.tick()
		}

		if i == 0 {
			if err := e.regs.Write16(addr, amdCmdProgram); err != nil {
				return err
			}
			if err := e.regs.Write16(addr, word); err != nil {
				return err
			}
		} else {
			if err := e.regs.WriteMerged(addr+i*2, amdCmdProgram, word); err != nil {
				return err
			}
		}

		if slow {
			// Data polling: the word address reads back the final value
			// once programming completes
			for {
				v, err := e.regs.Read16(addr + i*2)
				if err != nil {
					return err
				}
				if v == word {
					break
				}
				if v&amdDQ5Timeout != 0 {
					return &PollTimeoutError{"program", addr + i*2}
				}
			}
		}
	}

	return nil
}

// setBlockLock is a no-op: the AMD chips in the catalog have no block
// lock support and the session never requests it for them
func (e *amdEngine) setBlockLock(addr uint32, lock bool) error {
	return nil
}

func (e *amdEngine) exitBypass() error {
	if err := e.regs.Write16(0, amdCmdBypassReset1); err != nil {
		return err
	}
	return e.regs.Write16(0, amdCmdBypassReset2)
}
