// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package apic

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/golCMKL/pong/vmm"
)

// Advanced Configuration and Power Interface Specification (ACPI)
// Version 6.0 - Table 5-27 Root System Description Pointer Structure
type rsdp struct {
	Signature [8]byte
	Checksum  uint8
	OEMID     [6]byte
	Revision  uint8
	RSDTAddr  uint32

	// ACPI 2.0+ fields
	Length           uint32
	XSDTAddr         uint64
	ExtendedChecksum uint8
	_                [3]uint8
}

// Advanced Configuration and Power Interface Specification (ACPI)
// Version 6.0 - Table 5-28 DESCRIPTION_HEADER Fields
type sdtHeader struct {
	Signature       [4]byte
	Length          uint32
	Revision        uint8
	Checksum        uint8
	OEMID           [6]byte
	OEMTableID      [8]byte
	OEMRevision     uint32
	CreatorID       uint32
	CreatorRevision uint32
}

// Multiple APIC Description Table interrupt controller structure types
const (
	madtIOAPIC         = 1
	madtSourceOverride = 2
	madtAddrOverride   = 5
)

// keyboardIRQ is the ISA IRQ of the 8042 keyboard controller.
const keyboardIRQ = 1

const (
	rsdpSignature = "RSD PTR "
	madtSignature = "APIC"

	rsdpV1Length  = 20
	sdtHeaderSize = 36
	madtBodyStart = 44
)

// madt holds the interrupt controller facts extracted from the Multiple
// APIC Description Table.
type madt struct {
	// LocalAPIC is the local APIC register block physical address.
	LocalAPIC uint64
	// IOAPIC is the I/O APIC register block physical address.
	IOAPIC uint64
	// GSIBase is the first global system interrupt of the I/O APIC.
	GSIBase uint32
	// KeyboardGSI is the global system interrupt of the keyboard IRQ,
	// accounting for interrupt source overrides.
	KeyboardGSI uint32
	// PCATCompatible reports a legacy 8259 pair that must be masked.
	PCATCompatible bool
}

// read returns n bytes of physical memory through the offset-mapped view.
func read(pt *vmm.PageTables, addr uint64, n int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(uintptr(pt.Offset()+addr))), n)
}

func checksum(buf []byte) (sum uint8) {
	for _, b := range buf {
		sum += b
	}

	return
}

// parseTables locates the Multiple APIC Description Table starting from the
// RSDP handed over by the bootloader, walking the RSDT or, on ACPI 2.0+
// systems, the XSDT.
func parseTables(pt *vmm.PageTables, rsdpAddr uint64) (m *madt, err error) {
	r := &rsdp{}

	if rsdpAddr == 0 {
		return nil, fmt.Errorf("invalid RSDP address")
	}

	if _, err = binary.Decode(read(pt, rsdpAddr, int(unsafe.Sizeof(*r))), binary.LittleEndian, r); err != nil {
		return
	}

	if string(r.Signature[:]) != rsdpSignature {
		return nil, fmt.Errorf("invalid RSDP signature %q", r.Signature[:])
	}

	if checksum(read(pt, rsdpAddr, rsdpV1Length)) != 0 {
		return nil, fmt.Errorf("invalid RSDP checksum")
	}

	if r.Revision >= 2 {
		if checksum(read(pt, rsdpAddr, int(r.Length))) != 0 {
			return nil, fmt.Errorf("invalid RSDP extended checksum")
		}

		if r.XSDTAddr != 0 {
			return findMADT(pt, r.XSDTAddr, 8)
		}
	}

	return findMADT(pt, uint64(r.RSDTAddr), 4)
}

// findMADT walks the root table entries, whose width is 4 bytes for the
// RSDT and 8 bytes for the XSDT, and parses the first MADT found.
func findMADT(pt *vmm.PageTables, rootAddr uint64, entrySize int) (m *madt, err error) {
	root, err := readSDT(pt, rootAddr)

	if err != nil {
		return nil, fmt.Errorf("invalid root table: %w", err)
	}

	for buf := root[sdtHeaderSize:]; len(buf) >= entrySize; buf = buf[entrySize:] {
		var addr uint64

		if entrySize == 8 {
			addr = binary.LittleEndian.Uint64(buf)
		} else {
			addr = uint64(binary.LittleEndian.Uint32(buf))
		}

		hdr := &sdtHeader{}

		if _, err = binary.Decode(read(pt, addr, sdtHeaderSize), binary.LittleEndian, hdr); err != nil {
			return
		}

		if string(hdr.Signature[:]) != madtSignature {
			continue
		}

		var table []byte

		if table, err = readSDT(pt, addr); err != nil {
			return nil, fmt.Errorf("invalid MADT: %w", err)
		}

		return parseMADT(table)
	}

	return nil, fmt.Errorf("MADT not found")
}

// readSDT returns a checksum-verified system description table.
func readSDT(pt *vmm.PageTables, addr uint64) (buf []byte, err error) {
	hdr := &sdtHeader{}

	if addr == 0 {
		return nil, fmt.Errorf("invalid table address")
	}

	if _, err = binary.Decode(read(pt, addr, sdtHeaderSize), binary.LittleEndian, hdr); err != nil {
		return
	}

	if hdr.Length < sdtHeaderSize {
		return nil, fmt.Errorf("invalid table length %d", hdr.Length)
	}

	buf = read(pt, addr, int(hdr.Length))

	if checksum(buf) != 0 {
		return nil, fmt.Errorf("invalid %q checksum", hdr.Signature[:])
	}

	return
}

// parseMADT extracts the interrupt controller facts from a verified MADT.
func parseMADT(table []byte) (m *madt, err error) {
	if len(table) < madtBodyStart {
		return nil, fmt.Errorf("MADT too short (%d)", len(table))
	}

	m = &madt{
		LocalAPIC:   uint64(binary.LittleEndian.Uint32(table[36:])),
		KeyboardGSI: keyboardIRQ,
	}

	if binary.LittleEndian.Uint32(table[40:])&1 != 0 {
		m.PCATCompatible = true
	}

	for buf := table[madtBodyStart:]; len(buf) >= 2; {
		typ, n := buf[0], int(buf[1])

		if n < 2 || n > len(buf) {
			return nil, fmt.Errorf("malformed MADT entry (type %d length %d)", typ, n)
		}

		switch typ {
		case madtIOAPIC:
			if n >= 12 && m.IOAPIC == 0 {
				m.IOAPIC = uint64(binary.LittleEndian.Uint32(buf[4:]))
				m.GSIBase = binary.LittleEndian.Uint32(buf[8:])
			}
		case madtSourceOverride:
			if n >= 10 && buf[3] == keyboardIRQ {
				m.KeyboardGSI = binary.LittleEndian.Uint32(buf[4:])
			}
		case madtAddrOverride:
			if n >= 12 {
				m.LocalAPIC = binary.LittleEndian.Uint64(buf[4:])
			}
		}

		buf = buf[n:]
	}

	if m.LocalAPIC == 0 {
		return nil, fmt.Errorf("MADT reports no local APIC")
	}

	if m.IOAPIC == 0 {
		return nil, fmt.Errorf("MADT reports no I/O APIC")
	}

	return
}
