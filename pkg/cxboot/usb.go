// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Ondrej Zary

package cxboot

import (
	"context"
	"fmt"

	"github.com/google/gousb"
)

// Device is an open bootloader USB session: the claimed interface, the
// bulk endpoint pair wrapped in a Transport, and the family-specific
// memory map values.
type Device struct {
	*Transport

	ctx  *gousb.Context
	dev  *gousb.Device
	cfg  *gousb.Config
	intf *gousb.Interface

	family    Family
	flashBase uint32
	bus       int
	addr      int
}

// usbConn adapts the bulk endpoint pair to the frame-level Conn interface.
// Each transfer runs under the fixed per-transfer timeout.
type usbConn struct {
	in  *gousb.InEndpoint
	out *gousb.OutEndpoint
}

func (c *usbConn) SendFrame(p *Packet) error {
	ctx, cancel := context.WithTimeout(context.Background(), CmdTimeout)
	defer cancel()

	frame := p.Encode()
	_, err := c.out.WriteContext(ctx, frame[:])
	return err
}

func (c *usbConn) RecvFrame() (*Packet, error) {
	ctx, cancel := context.WithTimeout(context.Background(), CmdTimeout)
	defer cancel()

	buf := make([]byte, FrameSize)
	n, err := c.in.ReadContext(ctx, buf)
	if err != nil {
		return nil, err
	}
	return DecodePacket(buf[:n])
}

func (c *usbConn) Close() error {
	return nil
}

// Open finds a Conexant processor in USB boot mode, claims its bootloader
// interface and returns a ready Device. The CX861xx boot product is tried
// first, then CX82xxx; ErrNoDevice is returned if neither is present.
func Open() (*Device, error) {
	ctx := gousb.NewContext()

	family := FamilyCX861xx
	flashBase := uint32(CX861xxFlashBase)
	dev, err := ctx.OpenDeviceWithVIDPID(ConexantVendor, CX861xxBootProd)
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("opening device: %w", err)
	}
	if dev == nil {
		dev, err = ctx.OpenDeviceWithVIDPID(ConexantVendor, CX82xxxBootProd)
		if err != nil {
			ctx.Close()
			return nil, fmt.Errorf("opening device: %w", err)
		}
		family = FamilyCX82xxx
		flashBase = CX82xxxFlashBase
	}
	if dev == nil {
		ctx.Close()
		return nil, ErrNoDevice
	}

	if err := dev.SetAutoDetach(true); err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("auto-detach: %w", err)
	}

	cfg, err := dev.Config(1)
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, &ClaimError{err}
	}
	intf, err := cfg.Interface(0, 0)
	if err != nil {
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, &ClaimError{err}
	}

	in, err := intf.InEndpoint(CmdEndpoint)
	if err == nil {
		var out *gousb.OutEndpoint
		out, err = intf.OutEndpoint(CmdEndpoint)
		if err == nil {
			return &Device{
				Transport: NewTransport(&usbConn{in: in, out: out}),
				ctx:       ctx,
				dev:       dev,
				cfg:       cfg,
				intf:      intf,
				family:    family,
				flashBase: flashBase,
				bus:       dev.Desc.Bus,
				addr:      dev.Desc.Address,
			}, nil
		}
	}

	intf.Close()
	cfg.Close()
	dev.Close()
	ctx.Close()
	return nil, &ClaimError{err}
}

// Family returns the processor family of the open device
func (d *Device) Family() Family {
	return d.family
}

// FlashBase returns the address where the flash window is mapped
func (d *Device) FlashBase() uint32 {
	return d.flashBase
}

// Bus returns the USB bus number of the device
func (d *Device) Bus() int {
	return d.bus
}

// Address returns the USB device address
func (d *Device) Address() int {
	return d.addr
}

// EnableFlash maps the flash window into the address space. On CX861xx
// flash access is disabled in boot mode and must be switched on through
// an I/O register; on CX82xxx the window is always enabled.
func (d *Device) EnableFlash() error {
	if d.family != FamilyCX861xx {
		return nil
	}
	return d.WriteMem(CX861xxFlashEnable, []byte{1}, AccessByte)
}

// Close releases the interface and closes the USB session.
// Safe on all exit paths; later failures do not mask earlier ones.
func (d *Device) Close() error {
	d.intf.Close()
	err := d.cfg.Close()
	if devErr := d.dev.Close(); devErr != nil && err == nil {
		err = devErr
	}
	if ctxErr := d.ctx.Close(); ctxErr != nil && err == nil {
		err = ctxErr
	}
	return err
}
