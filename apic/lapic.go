// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package apic

import (
	"sync/atomic"
	"unsafe"
)

// Local APIC registers
// (Intel SDM Volume 3A - Table 10-1 Local APIC Register Address Map)
const (
	lapicID           = 0x020
	lapicEOI          = 0x0b0
	lapicSpurious     = 0x0f0
	lapicLVTTimer     = 0x320
	lapicTimerInitial = 0x380
	lapicTimerDivide  = 0x3e0
)

const (
	lapicSWEnable      = 1 << 8
	lapicTimerPeriodic = 1 << 17
	lapicDivideBy16    = 0x3
)

// lapic accesses a memory mapped local APIC register block.
type lapic struct {
	base uintptr
}

// Register reads and writes must be single aligned 32-bit accesses, the
// compiler is not allowed to tear or elide them.

func (l *lapic) read(off uintptr) uint32 {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(l.base + off)))
}

func (l *lapic) write(off uintptr, val uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(l.base+off)), val)
}

// id returns the local APIC identifier of the boot processor.
func (l *lapic) id() uint8 {
	return uint8(l.read(lapicID) >> 24)
}

// enable software enables the local APIC with the argument spurious
// interrupt vector, leaving all local vector table entries masked.
func (l *lapic) enable(vector uint8) {
	l.write(lapicSpurious, lapicSWEnable|uint32(vector))
}

// enableTimer arms the local APIC timer in periodic mode, dividing the bus
// clock by 16 and raising the argument vector each time the count expires.
func (l *lapic) enableTimer(vector uint8, count uint32) {
	l.write(lapicTimerDivide, lapicDivideBy16)
	l.write(lapicLVTTimer, lapicTimerPeriodic|uint32(vector))
	l.write(lapicTimerInitial, count)
}

// eoi signals completion of the interrupt currently being serviced.
func (l *lapic) eoi() {
	l.write(lapicEOI, 0)
}

// eoiAddress returns the virtual address of the EOI register.
func (l *lapic) eoiAddress() uintptr {
	return l.base + lapicEOI
}
