// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package apic drives the local APIC and I/O APIC of an amd64 processor,
// locating both register blocks through the ACPI tables handed over by the
// bootloader.
//
// This package is only meant to be used with `GOOS=tamago GOARCH=amd64` as
// supported by the TamaGo framework for bare metal Go, see
// https://github.com/usbarmory/tamago.
package apic

import (
	"fmt"

	"github.com/golCMKL/pong/cpu"
	"github.com/golCMKL/pong/vmm"
)

// Interrupt vectors owned by the controller, gates for these must be
// present in the interrupt descriptor table before arming any source.
const (
	// TimerVector is raised by the local APIC timer.
	TimerVector = 0x20
	// KeyboardVector is raised by the I/O APIC for the keyboard IRQ.
	KeyboardVector = 0x21
	// SpuriousVector is raised on spurious local APIC interrupts and
	// must not be acknowledged.
	SpuriousVector = 0xff
)

// timerInitialCount is the periodic timer count, the bus clock is divided
// by 16 before it is applied.
const timerInitialCount = 10000000

// Legacy 8259 data ports
const (
	picPrimaryData   = 0x21
	picSecondaryData = 0xa1
)

// Controller provides access to the interrupt controllers of the boot
// processor.
type Controller struct {
	lapic  *lapic
	ioapic *ioapic

	keyboardGSI uint32
}

// Init locates the local APIC and I/O APIC through the ACPI tables, maps
// both register blocks uncacheable in the argument address space and
// software enables the local APIC with all interrupt sources unarmed.
//
// The legacy 8259 pair, when reported by the MADT, is masked for good.
func Init(pt *vmm.PageTables, rsdpAddr uint64, next vmm.FrameAllocFn) (ctl *Controller, err error) {
	m, err := parseTables(pt, rsdpAddr)

	if err != nil {
		return nil, fmt.Errorf("could not parse ACPI tables: %w", err)
	}

	flags := uint64(vmm.FlagPresent | vmm.FlagRW | vmm.FlagNoCache)

	for _, base := range []uint64{m.LocalAPIC, m.IOAPIC} {
		if err = pt.Map(pt.Offset()+base, base, flags, next); err != nil {
			return nil, fmt.Errorf("could not map registers at %#x: %w", base, err)
		}
	}

	ctl = &Controller{
		lapic: &lapic{
			base: uintptr(pt.Offset() + m.LocalAPIC),
		},
		ioapic: &ioapic{
			base:    uintptr(pt.Offset() + m.IOAPIC),
			gsiBase: m.GSIBase,
		},
		keyboardGSI: m.KeyboardGSI,
	}

	if m.PCATCompatible {
		// mask the legacy pair, the I/O APIC takes over
		cpu.Out8(picPrimaryData, 0xff)
		cpu.Out8(picSecondaryData, 0xff)
	}

	ctl.lapic.enable(SpuriousVector)

	return
}

// EnableTimer arms the local APIC timer in periodic mode on TimerVector.
func (ctl *Controller) EnableTimer() {
	ctl.lapic.enableTimer(TimerVector, timerInitialCount)
}

// EnableKeyboard routes the keyboard IRQ to KeyboardVector on the boot
// processor.
func (ctl *Controller) EnableKeyboard() {
	ctl.ioapic.route(ctl.keyboardGSI, KeyboardVector, ctl.lapic.id())
}

// EOI signals completion of the interrupt currently being serviced.
func (ctl *Controller) EOI() {
	ctl.lapic.eoi()
}

// EOIAddress returns the virtual address of the local APIC EOI register,
// suitable for acknowledgment from an interrupt stub.
func (ctl *Controller) EOIAddress() uintptr {
	return ctl.lapic.eoiAddress()
}

// String returns the controller addresses in textual form.
func (ctl *Controller) String() string {
	return fmt.Sprintf("LAPIC %#x IOAPIC %#x (GSI base %d, keyboard GSI %d)",
		ctl.lapic.base, ctl.ioapic.base, ctl.ioapic.gsiBase, ctl.keyboardGSI)
}
