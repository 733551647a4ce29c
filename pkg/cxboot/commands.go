// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Ondrej Zary

package cxboot

// Request builder functions create Packet structs ready for encoding.
// These are convenience wrappers around NewPacket that set the direction
// flags per the bootloader protocol: read requests ask the device to
// respond, write requests are fire-and-forget.

// NewReadRequest creates a ReadMem request frame.
// The device answers with one or more data frames totalling count bytes.
func NewReadRequest(address uint32, count int, access AccessWidth) (*Packet, error) {
	p := NewPacket(CmdReadMem, access, true, address)
	if err := p.SetRequestCount(count); err != nil {
		return nil, err
	}
	return p, nil
}

// NewWriteRequest creates a WriteMem frame carrying data.
// No acknowledgement is requested; the protocol is write-and-continue.
func NewWriteRequest(address uint32, data []byte, access AccessWidth) (*Packet, error) {
	p := NewPacket(CmdWriteMem, access, false, address)
	if err := p.SetData(data); err != nil {
		return nil, err
	}
	return p, nil
}
