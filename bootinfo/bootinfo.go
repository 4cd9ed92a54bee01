// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package bootinfo implements decoding and validation of the boot
// information record which the bootloader places in physical memory before
// handing over control, carrying the framebuffer geometry, the physical
// memory map, the physical-to-virtual memory offset and the ACPI RSDP
// pointer.
//
// This package is only meant to be used with `GOOS=tamago` as
// supported by the TamaGo framework for bare metal Go, see
// https://github.com/usbarmory/tamago.
package bootinfo

import (
	"bytes"
	"fmt"
)

// Boot record signature ("PONGBOOT")
const signature = 0x544f4f42474e4f50

// Version represents the supported boot record revision.
const Version = 1

// Boot record flags
const (
	flagFramebuffer = 1 << iota
	flagOffset
	flagRSDP
)

// MissingResourceError is returned when a required boot record resource was
// not provided by the bootloader. The bootstrap cannot proceed without it.
type MissingResourceError string

func (e MissingResourceError) Error() string {
	return "missing boot resource: " + string(e)
}

// Required boot record resources
const (
	ErrNoFramebuffer  = MissingResourceError("framebuffer")
	ErrNoMemoryOffset = MissingResourceError("physical memory offset")
	ErrNoUsableMemory = MissingResourceError("usable memory region")
	ErrNoRSDP         = MissingResourceError("ACPI RSDP pointer")
)

// record represents the boot record fixed header layout.
type record struct {
	Magic      uint64
	Version    uint32
	_          uint32
	Flags      uint64
	RegionAddr uint64
	RegionLen  uint64
	PhysOffset uint64
	RSDPAddr   uint64

	Framebuffer Framebuffer
}

// Info represents a validated boot information record.
type Info struct {
	// Version is the boot record revision.
	Version uint32
	// Framebuffer is the linear framebuffer descriptor.
	Framebuffer Framebuffer
	// MemoryMap is the physical memory map, in ascending address order.
	MemoryMap []MemoryRegion
	// PhysOffset is the virtual address at which physical address zero is
	// mapped.
	PhysOffset uint64
	// RSDPAddr is the physical address of the ACPI RSDP.
	RSDPAddr uint64

	addr  uint64
	flags uint64
}

// Load decodes and validates the boot information record at the argument
// physical address, returning a MissingResourceError if any required
// resource is absent.
func Load(addr uint64) (info *Info, err error) {
	r := &record{}

	if err = decode(r, addr); err != nil {
		return
	}

	if r.Magic != signature {
		return nil, fmt.Errorf("invalid boot record magic (%#x)", r.Magic)
	}

	if r.Version != Version {
		return nil, fmt.Errorf("unsupported boot record version (%d)", r.Version)
	}

	info = &Info{
		Version:     r.Version,
		Framebuffer: r.Framebuffer,
		PhysOffset:  r.PhysOffset,
		RSDPAddr:    r.RSDPAddr,
		addr:        addr,
		flags:       r.Flags,
	}

	if info.MemoryMap, err = decodeRegions(r.RegionAddr, int(r.RegionLen)); err != nil {
		return nil, fmt.Errorf("invalid boot record memory map: %v", err)
	}

	err = info.check()

	return
}

// check verifies that every resource the bootstrap depends on is present.
func (info *Info) check() error {
	if info.flags&flagFramebuffer == 0 || info.Framebuffer.Base == 0 {
		return ErrNoFramebuffer
	}

	if info.flags&flagOffset == 0 {
		return ErrNoMemoryOffset
	}

	if _, ok := info.LastUsable(); !ok {
		return ErrNoUsableMemory
	}

	if info.flags&flagRSDP == 0 || info.RSDPAddr == 0 {
		return ErrNoRSDP
	}

	return nil
}

// LastUsable returns the highest usable region of the memory map.
func (info *Info) LastUsable() (r MemoryRegion, ok bool) {
	for _, region := range info.MemoryMap {
		if region.Kind == RegionUsable {
			r = region
			ok = true
		}
	}

	return
}

// String returns a diagnostic dump of the boot record facts.
func (info *Info) String() string {
	var res bytes.Buffer

	fmt.Fprintf(&res, "Boot record ..: v%d @ %#08x\n", info.Version, info.addr)
	fmt.Fprintf(&res, "Framebuffer ..: %s\n", info.Framebuffer.String())
	fmt.Fprintf(&res, "Phys offset ..: %#08x\n", info.PhysOffset)
	fmt.Fprintf(&res, "ACPI RSDP ....: %#08x", info.RSDPAddr)

	return res.String()
}
