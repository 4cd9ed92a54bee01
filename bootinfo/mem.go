// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package bootinfo

import (
	"fmt"

	"github.com/u-root/u-root/pkg/boot/bzimage"
)

// PageSize represents the physical page size in bytes
const PageSize = 4096 // 4 KiB

// RegionKind represents the usage class of a memory map region.
type RegionKind uint32

// Memory map region kinds
const (
	RegionUsable RegionKind = iota
	RegionReserved
	RegionBootloader
	RegionKernel
)

// String returns the region kind label.
func (k RegionKind) String() string {
	switch k {
	case RegionUsable:
		return "usable"
	case RegionReserved:
		return "reserved"
	case RegionBootloader:
		return "bootloader"
	case RegionKernel:
		return "kernel"
	default:
		return "unknown"
	}
}

// regionRecord represents the boot record memory map entry layout.
type regionRecord struct {
	Start uint64
	End   uint64
	Kind  uint32
	_     uint32
}

// MemoryRegion represents a physical memory map region.
type MemoryRegion struct {
	// Start is the region physical start address.
	Start uint64
	// End is the region physical end address (exclusive).
	End uint64
	// Kind is the region usage class.
	Kind RegionKind
}

// Size returns the region size.
func (r MemoryRegion) Size() uint64 {
	return r.End - r.Start
}

// decodeRegions decodes the memory map array referenced by the boot record
// header.
func decodeRegions(addr uint64, count int) (m []MemoryRegion, err error) {
	if count == 0 {
		return
	}

	rr := &regionRecord{}
	t, _ := marshalBinary(rr)
	n := len(t)

	buf, err := decodeBuffer(addr, n*count)

	if err != nil {
		return
	}

	for i := 0; i < len(buf); i += n {
		if err = unmarshalBinary(buf[i:], rr); err != nil {
			break
		}

		if rr.Start >= rr.End {
			return nil, fmt.Errorf("invalid region %#x - %#x", rr.Start, rr.End)
		}

		m = append(m, MemoryRegion{
			Start: rr.Start,
			End:   rr.End,
			Kind:  RegionKind(rr.Kind),
		})
	}

	return
}

// E820 converts the boot record memory map to x86 E820 form, suitable for
// diagnostic output in the canonical firmware memory map format.
func (info *Info) E820() (m []bzimage.E820Entry) {
	for _, r := range info.MemoryMap {
		e := bzimage.E820Entry{
			Addr: r.Start,
			Size: r.Size(),
		}

		switch r.Kind {
		case RegionUsable:
			e.MemType = bzimage.RAM
		default:
			e.MemType = bzimage.Reserved
		}

		m = append(m, e)
	}

	return
}

// E820Label returns the memory type label of an E820 entry as converted by
// E820.
func E820Label(e bzimage.E820Entry) string {
	switch e.MemType {
	case bzimage.RAM:
		return "usable"
	case bzimage.ACPI:
		return "ACPI data"
	case bzimage.NVS:
		return "ACPI NVS"
	default:
		return "reserved"
	}
}
