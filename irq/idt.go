// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package irq

import (
	"encoding/binary"
	"unsafe"

	"github.com/golCMKL/pong/apic"
	"github.com/golCMKL/pong/gdt"
)

// vectorDoubleFault is raised on a fault during fault delivery, its stub
// runs on a dedicated known good stack.
const vectorDoubleFault = 8

// gateTypeAttr marks a present 64-bit interrupt gate, interrupts are
// masked while its stub runs.
const gateTypeAttr = 0x8e

// Intel SDM Volume 3A - Figure 6-8 64-Bit IDT Gate Descriptors
type gate struct {
	offsetLow  uint16
	selector   uint16
	ist        uint8
	typeAttr   uint8
	offsetMid  uint16
	offsetHigh uint32
	_          uint32
}

func newGate(addr uintptr, ist uint8) gate {
	return gate{
		offsetLow:  uint16(addr),
		selector:   gdt.KernelCode,
		ist:        ist,
		typeAttr:   gateTypeAttr,
		offsetMid:  uint16(addr >> 16),
		offsetHigh: uint32(addr >> 32),
	}
}

// addr returns the stub address of the gate.
func (g *gate) addr() uintptr {
	return uintptr(g.offsetLow) | uintptr(g.offsetMid)<<16 | uintptr(g.offsetHigh)<<32
}

var (
	idt  [256]gate
	idtr [10]byte
)

// buildIDT points every vector at the halting fault stub, then overrides
// the vectors served by dispatch.
func buildIDT() {
	fault := newGate(faultStubAddr(), 0)

	for i := range idt {
		idt[i] = fault
	}

	idt[vectorDoubleFault] = newGate(faultStubAddr(), gdt.DoubleFaultIST)
	idt[apic.TimerVector] = newGate(timerStubAddr(), 0)
	idt[apic.KeyboardVector] = newGate(keyboardStubAddr(), 0)
	idt[apic.SpuriousVector] = newGate(spuriousStubAddr(), 0)
}

// installIDT loads the interrupt descriptor table on the executing
// processor.
func installIDT() {
	buildIDT()

	binary.LittleEndian.PutUint16(idtr[0:], uint16(unsafe.Sizeof(idt)-1))
	binary.LittleEndian.PutUint64(idtr[2:], uint64(uintptr(unsafe.Pointer(&idt[0]))))

	lidt(uintptr(unsafe.Pointer(&idtr[0])))
}

// defined in stubs_amd64.s
func timerStubAddr() uintptr
func keyboardStubAddr() uintptr
func spuriousStubAddr() uintptr
func faultStubAddr() uintptr
func lidt(addr uintptr)
