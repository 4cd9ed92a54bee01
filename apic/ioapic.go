// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package apic

import (
	"sync/atomic"
	"unsafe"
)

// I/O APIC indirect registers
// (Intel 82093AA I/O APIC datasheet - Table 2 Memory Mapped Registers)
const (
	ioapicRegSelect = 0x00
	ioapicWindow    = 0x10
)

// ioapicRedirBase is the indirect register of the first redirection table
// entry, each entry spans two registers.
const ioapicRedirBase = 0x10

// ioapic accesses a memory mapped I/O APIC through its indirect register
// window.
type ioapic struct {
	base    uintptr
	gsiBase uint32
}

func (io *ioapic) write(reg uint8, val uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(io.base+ioapicRegSelect)), uint32(reg))
	atomic.StoreUint32((*uint32)(unsafe.Pointer(io.base+ioapicWindow)), val)
}

// route programs the redirection table entry of the argument global system
// interrupt to raise vector on the local APIC identified by dest, active
// high and edge triggered.
func (io *ioapic) route(gsi uint32, vector uint8, dest uint8) {
	pin := uint8(gsi - io.gsiBase)

	io.write(ioapicRedirBase+2*pin+1, uint32(dest)<<24)
	io.write(ioapicRedirBase+2*pin, uint32(vector))
}
