// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Ondrej Zary

package norflash

import (
	"bytes"
	"errors"
	"testing"
)

func newAMDEngine(mem *traceMem) *amdEngine {
	return &amdEngine{regs: NewRegisters(mem)}
}

func TestAMDEngine_EraseBlock_Sequence(t *testing.T) {
	mem := newTraceMem()
	// DQ7 low once, then the erased block reads back 0xFFFF
	mem.scriptRead(testFlashBase+0x4000, 0x0000, 0xFFFF)
	e := newAMDEngine(mem)

	if err := e.eraseBlock(0x4000); err != nil {
		t.Fatalf("eraseBlock error: %v", err)
	}

	expectWrites(t, mem, [][2]uint32{
		{0xAAA, uint32(amdCmdUnlock1)},
		{0x554, uint32(amdCmdUnlock2)},
		{0xAAA, uint32(amdCmdErasePrepare)},
		{0xAAA, uint32(amdCmdUnlock1)},
		{0x554, uint32(amdCmdUnlock2)},
		{0x4000, uint32(amdCmdEraseSector)},
	})
}

func TestAMDEngine_EraseBlock_Timeout(t *testing.T) {
	mem := newTraceMem()
	// DQ7 clear with DQ5 set: internal timing limit exceeded
	mem.scriptRead(testFlashBase+0x4000, 0x0020)
	e := newAMDEngine(mem)

	err := e.eraseBlock(0x4000)
	var timeout *PollTimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("expected PollTimeoutError, got %v", err)
	}
	if timeout.Addr != 0x4000 {
		t.Errorf("timeout address: expected 0x4000, got 0x%06x", timeout.Addr)
	}

	// the chip must have been reset
	ww := mem.wordWrites()
	last := ww[len(ww)-1]
	if last != [2]uint32{0, uint32(amdCmdReset)} {
		t.Errorf("last write should be the reset command, got (0x%06x, 0x%04x)", last[0], last[1])
	}
}

func TestAMDEngine_ProgramBlock_BypassAndMerged(t *testing.T) {
	mem := newTraceMem()
	e := newAMDEngine(mem)

	const addr = 0x10000
	data := wordsToBytes(0x1111, 0xFFFF, 0x3333)
	if err := e.programBlock(addr, data, false); err != nil {
		t.Fatalf("programBlock error: %v", err)
	}

	expectWrites(t, mem, [][2]uint32{
		// enter unlock bypass once per block
		{0xAAA, uint32(amdCmdUnlock1)},
		{0x554, uint32(amdCmdUnlock2)},
		{0xAAA, uint32(amdCmdUnlockBypass)},
		// word 0: command at the block address, then the data word
		{addr, uint32(amdCmdProgram)},
		{addr, 0x1111},
		// word 2: merged, word 1 skipped
		{addr + 4 - 2, uint32(amdCmdProgram)},
		{addr + 4, 0x3333},
		// leave bypass mode
		{0, uint32(amdCmdBypassReset1)},
		{0, uint32(amdCmdBypassReset2)},
	})
}

func TestAMDEngine_ProgramBlock_WordSkip(t *testing.T) {
	mem := newTraceMem()
	e := newAMDEngine(mem)

	data := bytes.Repeat([]byte{0xFF}, 512)
	if err := e.programBlock(0, data, false); err != nil {
		t.Fatalf("programBlock error: %v", err)
	}

	// only bypass entry and exit, zero program commands
	expectWrites(t, mem, [][2]uint32{
		{0xAAA, uint32(amdCmdUnlock1)},
		{0x554, uint32(amdCmdUnlock2)},
		{0xAAA, uint32(amdCmdUnlockBypass)},
		{0, uint32(amdCmdBypassReset1)},
		{0, uint32(amdCmdBypassReset2)},
	})
}

func TestAMDEngine_ProgramBlock_SlowPoll(t *testing.T) {
	mem := newTraceMem()
	const addr = 0x8000
	// word still programming (DQ7 complemented, DQ5 clear), then final value
	mem.scriptRead(testFlashBase+addr, 0x0094, 0x1234)
	e := newAMDEngine(mem)

	if err := e.programBlock(addr, wordsToBytes(0x1234), true); err != nil {
		t.Fatalf("programBlock error: %v", err)
	}
	if len(mem.reads[testFlashBase+addr]) != 0 {
		t.Error("slow mode should have polled the word address until it read back the data")
	}
}

func TestAMDEngine_ProgramBlock_SlowTimeout(t *testing.T) {
	mem := newTraceMem()
	const addr = 0x8000
	// mismatched read-back with DQ5 set
	mem.scriptRead(testFlashBase+addr, 0x0020)
	e := newAMDEngine(mem)

	err := e.programBlock(addr, wordsToBytes(0x1234), true)
	var timeout *PollTimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("expected PollTimeoutError, got %v", err)
	}

	// bypass exit must precede the reset
	ww := mem.wordWrites()
	if len(ww) < 3 {
		t.Fatalf("too few writes: %v", ww)
	}
	tail := ww[len(ww)-3:]
	want := [][2]uint32{
		{0, uint32(amdCmdBypassReset1)},
		{0, uint32(amdCmdBypassReset2)},
		{0, uint32(amdCmdReset)},
	}
	for i := range want {
		if tail[i] != want[i] {
			t.Errorf("tail write %d: expected (0x%06x, 0x%04x), got (0x%06x, 0x%04x)",
				i, want[i][0], want[i][1], tail[i][0], tail[i][1])
		}
	}
}

func TestAMDEngine_SetBlockLock_NoOp(t *testing.T) {
	mem := newTraceMem()
	e := newAMDEngine(mem)

	if err := e.setBlockLock(0x1000, true); err != nil {
		t.Fatalf("setBlockLock error: %v", err)
	}
	if len(mem.writes) != 0 {
		t.Errorf("lock is unsupported on AMD chips, expected no writes, got %d", len(mem.writes))
	}
}
