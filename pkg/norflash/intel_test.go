// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Ondrej Zary

package norflash

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func newIntelEngine(mem *traceMem) *intelEngine {
	return &intelEngine{regs: NewRegisters(mem)}
}

func TestIntelEngine_EraseBlock_Sequence(t *testing.T) {
	mem := newTraceMem()
	// busy once, then ready
	mem.scriptRead(testFlashBase+0, 0x00, 0x80)
	e := newIntelEngine(mem)

	if err := e.eraseBlock(0x10000); err != nil {
		t.Fatalf("eraseBlock error: %v", err)
	}

	expectWrites(t, mem, [][2]uint32{
		{0, uint32(intelCmdClearStatus)},
		{0, uint32(intelCmdReadStatus)},
		{0x10000, uint32(intelCmdErase)},
		{0x10000, uint32(intelCmdEraseConfirm)},
		{0, uint32(intelCmdReadArray)},
	})
}

func TestIntelEngine_EraseBlock_Fault(t *testing.T) {
	mem := newTraceMem()
	// ready with the erase error bit set
	mem.scriptRead(testFlashBase+0, 0xA0)
	e := newIntelEngine(mem)

	err := e.eraseBlock(0x2000)
	var fault *ChipFaultError
	if !errors.As(err, &fault) {
		t.Fatalf("expected ChipFaultError, got %v", err)
	}
	if !fault.Status.EraseError() {
		t.Errorf("fault status should decode the erase error bit, got %v", fault.Status)
	}
	if fault.Addr != 0x2000 {
		t.Errorf("fault address: expected 0x2000, got 0x%06x", fault.Addr)
	}

	// the chip must be back in array-read mode even after a fault
	ww := mem.wordWrites()
	last := ww[len(ww)-1]
	if last != [2]uint32{0, uint32(intelCmdReadArray)} {
		t.Errorf("last write should return to array-read, got (0x%06x, 0x%04x)", last[0], last[1])
	}
}

func TestIntelEngine_EraseBlock_ErrorWhileBusy(t *testing.T) {
	// An error bit with READY still clear must break the poll loop
	// instead of spinning forever
	mem := newTraceMem()
	mem.scriptRead(testFlashBase+0, 0x20)
	e := newIntelEngine(mem)

	err := e.eraseBlock(0)
	var fault *ChipFaultError
	if !errors.As(err, &fault) {
		t.Fatalf("expected ChipFaultError, got %v", err)
	}
	if fault.Status.Ready() {
		t.Error("status should decode READY as clear")
	}
	if !fault.Status.EraseError() {
		t.Error("status should decode the erase error bit")
	}
}

// wordsToBytes packs 16-bit words into a little-endian byte slice
func wordsToBytes(words ...uint16) []byte {
	buf := make([]byte, len(words)*2)
	for i, w := range words {
		binary.LittleEndian.PutUint16(buf[i*2:], w)
	}
	return buf
}

func TestIntelEngine_ProgramBlock_WordSkip(t *testing.T) {
	// a block that is entirely 0xFFFF issues zero program commands
	mem := newTraceMem()
	e := newIntelEngine(mem)

	data := bytes.Repeat([]byte{0xFF}, 1024)
	if err := e.programBlock(0, data, false); err != nil {
		t.Fatalf("programBlock error: %v", err)
	}

	expectWrites(t, mem, [][2]uint32{
		{0, uint32(intelCmdClearStatus)},
		{0, uint32(intelCmdReadStatus)},
		{0, uint32(intelCmdReadArray)},
	})
}

func TestIntelEngine_ProgramBlock_FirstAndMergedWords(t *testing.T) {
	mem := newTraceMem()
	e := newIntelEngine(mem)

	// words 0, 1 and 3 programmed; word 2 skipped
	data := wordsToBytes(0x1111, 0x2222, 0xFFFF, 0x4444)
	const addr = 0x10000
	if err := e.programBlock(addr, data, false); err != nil {
		t.Fatalf("programBlock error: %v", err)
	}

	expectWrites(t, mem, [][2]uint32{
		{0, uint32(intelCmdClearStatus)},
		{0, uint32(intelCmdReadStatus)},
		// word 0: command at the block address, then the data word
		{addr, uint32(intelCmdProgram)},
		{addr, 0x1111},
		// word 1: merged command+data spanning addr+0..addr+4
		{addr + 2 - 2, uint32(intelCmdProgram)},
		{addr + 2, 0x2222},
		// word 3: merged, word 2 skipped
		{addr + 6 - 2, uint32(intelCmdProgram)},
		{addr + 6, 0x4444},
		{0, uint32(intelCmdReadArray)},
	})

	// the merged writes arrived as single 4-byte transfers
	merged := 0
	for _, w := range mem.writes {
		if len(w.data) == 4 {
			merged++
		}
	}
	if merged != 2 {
		t.Errorf("expected 2 merged 4-byte writes, got %d", merged)
	}
}

func TestIntelEngine_ProgramBlock_SlowFault(t *testing.T) {
	mem := newTraceMem()
	// program error reported for the first programmed word
	mem.scriptRead(testFlashBase+0, 0x90)
	e := newIntelEngine(mem)

	err := e.programBlock(0x8000, wordsToBytes(0x1234, 0x5678), true)
	var fault *ChipFaultError
	if !errors.As(err, &fault) {
		t.Fatalf("expected ChipFaultError, got %v", err)
	}
	if !fault.Status.ProgramError() {
		t.Errorf("fault status should decode the program error bit, got %v", fault.Status)
	}

	ww := mem.wordWrites()
	// the second word must not have been programmed
	for _, w := range ww {
		if w[1] == 0x5678 {
			t.Error("programming continued past the fault")
		}
	}
	last := ww[len(ww)-1]
	if last != [2]uint32{0, uint32(intelCmdReadArray)} {
		t.Errorf("last write should return to array-read, got (0x%06x, 0x%04x)", last[0], last[1])
	}
}

func TestIntelEngine_SetBlockLock(t *testing.T) {
	mem := newTraceMem()
	e := newIntelEngine(mem)

	if err := e.setBlockLock(0x4000, true); err != nil {
		t.Fatalf("setBlockLock error: %v", err)
	}
	if err := e.setBlockLock(0x4000, false); err != nil {
		t.Fatalf("setBlockLock error: %v", err)
	}

	expectWrites(t, mem, [][2]uint32{
		{0x4000, uint32(intelCmdLockSetup)},
		{0x4000, uint32(intelCmdLock)},
		{0x4000, uint32(intelCmdLockSetup)},
		{0x4000, uint32(intelCmdUnlock)},
	})
}

func TestIntelEngine_PollTicks(t *testing.T) {
	mem := newTraceMem()
	// ten busy polls, then ready: ticks at polls 0, 4, 8
	mem.scriptRead(testFlashBase+0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x80)
	ticks := 0
	e := &intelEngine{regs: NewRegisters(mem), tick: func() { ticks++ }}

	if err := e.eraseBlock(0); err != nil {
		t.Fatalf("eraseBlock error: %v", err)
	}
	if ticks != 3 {
		t.Errorf("expected a tick every 4 polls (3 total), got %d", ticks)
	}
}
