// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Ondrej Zary

package cxboot

import "errors"

// Conn is a frame-level connection to the bootloader command endpoint.
// The production implementation sits on a USB bulk endpoint pair; tests
// substitute scripted fakes.
type Conn interface {
	SendFrame(*Packet) error
	RecvFrame() (*Packet, error)
	Close() error
}

var (
	errEmptyDataFrame = errors.New("device sent an empty data frame")
	errDataOverrun    = errors.New("device sent more data than requested")
)

// Transport provides chunked memory access on top of a frame Conn.
//
// The bootloader transfers at most MaxDataSize bytes per frame, so larger
// requests are split into chunks. Data frames for a read may carry fewer
// bytes than requested (device-paced); the transport reassembles them.
type Transport struct {
	conn Conn

	// Progress, when set, is called once per completed KiB of transfer
	// within a single ReadMem or WriteMem call.
	Progress func()
}

// NewTransport creates a Transport on the given frame connection
func NewTransport(conn Conn) *Transport {
	return &Transport{conn: conn}
}

// ReadMem reads count bytes of device memory starting at addr.
// It fails with a TransportError on the first frame failure; no partial
// data is returned.
func (t *Transport) ReadMem(addr, count uint32, access AccessWidth) ([]byte, error) {
	buf := make([]byte, 0, count)
	done := uint32(0)

	for remaining := count; remaining > 0; {
		chunk := remaining
		if chunk > MaxDataSize {
			chunk = MaxDataSize
		}

		req, err := NewReadRequest(addr, int(chunk), access)
		if err != nil {
			return nil, err
		}
		if err := t.conn.SendFrame(req); err != nil {
			return nil, &TransportError{"read request", addr, err}
		}

		// The device answers with one or more data frames until the
		// requested chunk is exhausted
		for pending := chunk; pending > 0; {
			resp, err := t.conn.RecvFrame()
			if err != nil {
				return nil, &TransportError{"read data", addr, err}
			}
			n := uint32(resp.ByteCount())
			if n == 0 {
				return nil, &TransportError{"read data", addr, errEmptyDataFrame}
			}
			if n > pending {
				return nil, &TransportError{"read data", addr, errDataOverrun}
			}
			buf = append(buf, resp.Data()...)
			addr += n
			pending -= n
			remaining -= n
			done += n
			t.tick(done, n)
		}
	}

	return buf, nil
}

// WriteMem writes data to device memory starting at addr.
// Write frames are not acknowledged; the call returns after the last
// frame is handed to the transport.
func (t *Transport) WriteMem(addr uint32, data []byte, access AccessWidth) error {
	done := uint32(0)

	for len(data) > 0 {
		chunk := len(data)
		if chunk > MaxDataSize {
			chunk = MaxDataSize
		}

		req, err := NewWriteRequest(addr, data[:chunk], access)
		if err != nil {
			return err
		}
		if err := t.conn.SendFrame(req); err != nil {
			return &TransportError{"write", addr, err}
		}
		addr += uint32(chunk)
		data = data[chunk:]
		done += uint32(chunk)
		t.tick(done, uint32(chunk))
	}

	return nil
}

// tick fires Progress when the last n bytes crossed a KiB boundary.
// Chunks never exceed MaxDataSize, so at most one boundary is crossed.
func (t *Transport) tick(done, n uint32) {
	if t.Progress != nil && done/1024 != (done-n)/1024 {
		t.Progress()
	}
}

// Close closes the underlying connection
func (t *Transport) Close() error {
	return t.conn.Close()
}
