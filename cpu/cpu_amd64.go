// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package cpu provides thin wrappers around the privileged amd64
// instructions used during kernel bootstrap and event dispatch.
package cpu

// defined in cpu_amd64.s
func rcr3() uint64

// PageTableRoot returns the physical address of the active top-level page
// table, read from CR3 with the control bits masked off.
func PageTableRoot() uint64 {
	return rcr3() &^ 0xfff
}

// FlushTLBEntry invalidates the TLB entry for the page containing virt.
func FlushTLBEntry(virt uint64)

// EnableInterrupts sets the interrupt flag.
func EnableInterrupts()

// DisableInterrupts clears the interrupt flag.
func DisableInterrupts()

// WaitForInterrupt suspends execution until the next interrupt is serviced.
// The interrupt flag is set in the same instruction window as the halt, so a
// wakeup cannot be lost between the caller's last check and the halt itself.
func WaitForInterrupt()

// In8 reads one byte from an I/O port.
func In8(port uint16) uint8

// Out8 writes one byte to an I/O port.
func Out8(port uint16, val uint8)
