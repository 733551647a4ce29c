// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Ondrej Zary

package cxboot

import (
	"encoding/binary"
	"fmt"
)

// Packet represents one 64-byte bootloader command frame.
//
// The payload is held in a fixed 56-byte array with a separate count, so a
// frame carrying more than MaxDataSize bytes cannot be constructed. The
// byte count doubles as the request length on ReadMem frames, which carry
// no payload of their own.
type Packet struct {
	command    Command
	byteCount  uint8
	access     AccessWidth
	ackRequest bool
	address    uint32
	data       [MaxDataSize]byte
}

// NewPacket creates an empty frame for the given command
func NewPacket(cmd Command, access AccessWidth, ack bool, address uint32) *Packet {
	return &Packet{
		command:    cmd,
		access:     access,
		ackRequest: ack,
		address:    address,
	}
}

// Command returns the frame's bootloader command
func (p *Packet) Command() Command {
	return p.command
}

// ByteCount returns the frame's byte count (payload length, or the
// requested length on ReadMem frames)
func (p *Packet) ByteCount() int {
	return int(p.byteCount)
}

// Access returns the frame's memory access width
func (p *Packet) Access() AccessWidth {
	return p.access
}

// AckRequest reports whether the frame requests a device response
func (p *Packet) AckRequest() bool {
	return p.ackRequest
}

// Address returns the frame's 32-bit target address
func (p *Packet) Address() uint32 {
	return p.address
}

// Data returns the frame's payload (byteCount bytes)
func (p *Packet) Data() []byte {
	return p.data[:p.byteCount]
}

// SetData copies b into the frame payload and sets the byte count.
// Payloads longer than MaxDataSize are rejected.
func (p *Packet) SetData(b []byte) error {
	if len(b) > MaxDataSize {
		return fmt.Errorf("payload too large: %d bytes (max %d)", len(b), MaxDataSize)
	}
	p.data = [MaxDataSize]byte{}
	copy(p.data[:], b)
	p.byteCount = uint8(len(b))
	return nil
}

// SetRequestCount sets the byte count without a payload, for ReadMem
// request frames
func (p *Packet) SetRequestCount(n int) error {
	if n < 0 || n > MaxDataSize {
		return fmt.Errorf("request count out of range: %d (max %d)", n, MaxDataSize)
	}
	p.byteCount = uint8(n)
	return nil
}

// Encode packs the frame into its 64-byte wire format:
// command, byte count, access width, ack flag, 32-bit little-endian
// address, payload, zero padding.
func (p *Packet) Encode() [FrameSize]byte {
	var frame [FrameSize]byte
	frame[0] = uint8(p.command)
	frame[1] = p.byteCount
	frame[2] = uint8(p.access)
	if p.ackRequest {
		frame[3] = 1
	}
	binary.LittleEndian.PutUint32(frame[4:8], p.address)
	copy(frame[8:], p.data[:])
	return frame
}

// DecodePacket unpacks a 64-byte wire frame.
// Wrong-size buffers and out-of-range byte counts are rejected.
func DecodePacket(buf []byte) (*Packet, error) {
	if len(buf) != FrameSize {
		return nil, fmt.Errorf("invalid frame size: %d bytes (want %d)", len(buf), FrameSize)
	}
	count := buf[1]
	if count > MaxDataSize {
		return nil, fmt.Errorf("invalid byte count: %d (max %d)", count, MaxDataSize)
	}
	p := &Packet{
		command:    Command(buf[0]),
		byteCount:  count,
		access:     AccessWidth(buf[2]),
		ackRequest: buf[3] != 0,
		address:    binary.LittleEndian.Uint32(buf[4:8]),
	}
	copy(p.data[:], buf[8:])
	return p, nil
}
