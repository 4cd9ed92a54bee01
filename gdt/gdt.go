// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package gdt installs the global descriptor table and task state segment
// required by the hardware before interrupt or exception delivery can be
// enabled, a one-shot operation with tables that are static for process
// lifetime.
//
// This package is only meant to be used with `GOOS=tamago` as
// supported by the TamaGo framework for bare metal Go, see
// https://github.com/usbarmory/tamago.
package gdt

import (
	"encoding/binary"
	"unsafe"
)

// Segment selectors
const (
	// KernelCode is the 64-bit kernel code segment selector.
	KernelCode = 0x08
	// KernelData is the kernel data segment selector.
	KernelData = 0x10
	// taskState is the task state segment selector.
	taskState = 0x18
)

// DoubleFaultIST is the interrupt stack table slot wired to the dedicated
// double fault stack, for use in the matching gate descriptor.
const DoubleFaultIST = 1

// Entry represents a single 64-bit descriptor table entry.
type Entry struct {
	LimitLow   uint16 // Limit (0:15)
	BaseLow    uint16 // Base (0:15)
	BaseMid    uint8  // Base (16:23)
	AccessByte uint8  // Access byte (Type, S, DPL, P)
	LimitHigh  uint8  // Limit (16:19), Flags (AVL, L, D/B, G)
	BaseHigh   uint8  // Base (24:31)
}

// NewEntry returns a descriptor for the argument base address, 20-bit
// limit, access byte and flags nibble (G, D/B, L, AVL).
func NewEntry(base uint32, limit uint32, access uint8, flags uint8) Entry {
	return Entry{
		LimitLow:   uint16(limit & 0xffff),
		BaseLow:    uint16(base & 0xffff),
		BaseMid:    uint8(base >> 16),
		AccessByte: access,
		LimitHigh:  uint8((limit>>16)&0x0f) | (flags & 0xf0),
		BaseHigh:   uint8(base >> 24),
	}
}

// encode packs the descriptor in its memory representation.
func (e Entry) encode() uint64 {
	return uint64(e.LimitLow) |
		uint64(e.BaseLow)<<16 |
		uint64(e.BaseMid)<<32 |
		uint64(e.AccessByte)<<40 |
		uint64(e.LimitHigh)<<48 |
		uint64(e.BaseHigh)<<56
}

// TaskStateSegment represents the 64-bit task state segment layout. Fields
// are split in 32-bit halves as the hardware layout is more packed than Go
// struct alignment allows.
type TaskStateSegment struct {
	_   uint32
	RSP [6]uint32 // RSP0-2 privilege stacks, low/high pairs
	_   uint32
	_   uint32
	IST [14]uint32 // IST1-7 interrupt stacks, low/high pairs
	_   uint32
	_   uint32
	_   uint16
	// IOMapBase is the I/O permission bitmap offset, past the segment
	// limit when no bitmap is present.
	IOMapBase uint16
}

// setIST assigns an interrupt stack table slot (1-7).
func (t *TaskStateSegment) setIST(n int, addr uint64) {
	t.IST[(n-1)*2] = uint32(addr)
	t.IST[(n-1)*2+1] = uint32(addr >> 32)
}

var (
	gdt  [5]uint64
	gdtr [10]byte
	tss  TaskStateSegment

	// doubleFaultStack is the dedicated IST1 stack, so that a double
	// fault is serviced on a known good stack.
	doubleFaultStack [16384]byte

	installed bool
)

// defined in gdt_amd64.s
func load(gdtr *byte)
func reloadSegments(code uint16, data uint16)
func loadTaskRegister(sel uint16)

// Init builds and installs the descriptor tables: a null descriptor, the
// kernel code and data segments and the task state segment, whose IST1
// points at the dedicated double fault stack. The tables are static for
// process lifetime, re-running Init has no additional effect.
func Init() {
	if installed {
		return
	}

	top := uint64(uintptr(unsafe.Pointer(&doubleFaultStack[0]))) + uint64(len(doubleFaultStack))
	tss.setIST(DoubleFaultIST, top&^0xf)
	tss.IOMapBase = uint16(unsafe.Sizeof(tss))

	base := uint64(uintptr(unsafe.Pointer(&tss)))
	limit := uint32(unsafe.Sizeof(tss)) - 1

	gdt[0] = 0

	// 64-bit kernel code and data segments
	gdt[1] = NewEntry(0, 0xfffff, 0x9a, 0xa0).encode()
	gdt[2] = NewEntry(0, 0xfffff, 0x92, 0xc0).encode()

	// 64-bit TSS descriptor, low and high halves
	gdt[3] = NewEntry(uint32(base), limit, 0x89, 0x00).encode()
	gdt[4] = base >> 32

	binary.LittleEndian.PutUint16(gdtr[0:], uint16(len(gdt)*8-1))
	binary.LittleEndian.PutUint64(gdtr[2:], uint64(uintptr(unsafe.Pointer(&gdt[0]))))

	load(&gdtr[0])
	reloadSegments(KernelCode, KernelData)
	loadTaskRegister(taskState)

	installed = true
}
