// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Ondrej Zary

package norflash

import "github.com/ondrej-zary/cx861xx-flash/pkg/cxboot"

// EventKind classifies session progress events
type EventKind int

// Progress event kinds
const (
	EventEraseStart EventKind = iota
	EventProgramStart
	EventTick
	EventStepDone
)

// Event is a progress notification. Addr carries the block address for
// EraseStart/ProgramStart/StepDone; ticks have no address.
type Event struct {
	Kind EventKind
	Addr uint32
}

// Identify reads the flash chip's identifier pair and resolves it against
// the catalog. Both vendors' reset commands are issued before and after
// reading the IDs, since the chip family is unknown until the lookup
// succeeds. An unknown chip is a recoverable condition: no erase or
// program traffic has happened.
func Identify(mem Memory) (*Chip, ChipID, error) {
	regs := NewRegisters(mem)

	if err := resetBoth(regs); err != nil {
		return nil, ChipID{}, err
	}

	// Autoselect works for both families: Intel ignores the unlock
	// cycles and latches the final 0x90 as Read Identifier
	if err := regs.Unlock(amdCmdAutoselect); err != nil {
		return nil, ChipID{}, err
	}

	mfg, err := regs.Read16(0)
	if err != nil {
		return nil, ChipID{}, err
	}
	dev, err := regs.Read16(2)
	if err != nil {
		return nil, ChipID{}, err
	}

	if err := resetBoth(regs); err != nil {
		return nil, ChipID{}, err
	}

	id := ChipID{Mfg: mfg, Dev: dev}
	chip, ok := LookupChip(id)
	if !ok {
		return nil, id, &UnknownChipError{id}
	}
	return chip, id, nil
}

// resetBoth returns the chip to array-read mode regardless of its family
func resetBoth(regs *Registers) error {
	if err := regs.Write16(0, intelCmdReadArray); err != nil {
		return err
	}
	return regs.Write16(0, amdCmdReset)
}

// Session drives a full-chip read or write against an identified chip.
// Operations are strictly sequential; the memory channel is owned
// exclusively for the duration of each call.
type Session struct {
	mem  Memory
	regs *Registers
	chip *Chip

	// Progress, when set, receives block and tick events during WriteImage
	Progress func(Event)
}

// NewSession creates a session for an identified chip
func NewSession(mem Memory, chip *Chip) *Session {
	return &Session{
		mem:  mem,
		regs: NewRegisters(mem),
		chip: chip,
	}
}

// Chip returns the session's chip profile
func (s *Session) Chip() *Chip {
	return s.chip
}

// WriteImage erases and programs the whole chip from img. The image
// length must equal the chip size exactly; both short and long images
// are rejected before any flash traffic.
//
// Blocks are walked in address order: unlock (lockable chips), erase,
// program, re-lock. The first failure aborts the session; blocks already
// written stay written, and the error carries the reprogrammed range.
func (s *Session) WriteImage(img []byte, slow bool) error {
	if uint32(len(img)) != s.chip.Size {
		return &ImageSizeError{Got: len(img), Want: s.chip.Size}
	}

	eng := s.engine()
	addr := uint32(0)
	for _, bd := range s.chip.Blocks {
		for j := uint32(0); j < bd.Count; j++ {
			if s.chip.Lockable {
				if err := eng.setBlockLock(addr, false); err != nil {
					return s.blockErr("unlock", addr, err)
				}
			}

			s.emit(Event{EventEraseStart, addr})
			if err := eng.eraseBlock(addr); err != nil {
				return s.blockErr("erase", addr, err)
			}
			s.emit(Event{EventStepDone, addr})

			s.emit(Event{EventProgramStart, addr})
			if err := eng.programBlock(addr, img[addr:addr+bd.Size], slow); err != nil {
				return s.blockErr("program", addr, err)
			}
			s.emit(Event{EventStepDone, addr})

			if s.chip.Lockable {
				if err := eng.setBlockLock(addr, true); err != nil {
					return s.blockErr("lock", addr, err)
				}
			}
			addr += bd.Size
		}
	}

	return nil
}

// ReadImage reads the full chip contents. Reading needs no block-level
// protocol; it is one bulk transfer across the flash window.
func (s *Session) ReadImage() ([]byte, error) {
	return s.mem.ReadMem(s.mem.FlashBase(), s.chip.Size, cxboot.AccessWord)
}

func (s *Session) engine() engine {
	tick := func() { s.emit(Event{Kind: EventTick}) }
	switch s.chip.Algorithm {
	case AlgAMD:
		return &amdEngine{regs: s.regs, tick: tick}
	default:
		return &intelEngine{regs: s.regs, tick: tick}
	}
}

func (s *Session) emit(e Event) {
	if s.Progress != nil {
		s.Progress(e)
	}
}

func (s *Session) blockErr(op string, addr uint32, err error) error {
	return &BlockError{Op: op, Addr: addr, Written: addr, Err: err}
}
