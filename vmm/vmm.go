// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package vmm provides access to the offset-mapped view of physical memory
// established by the bootloader, where every physical address p is
// reachable at virtual address p + offset, and implements the 4-level page
// table manipulation required by the one-time mapping operations performed
// during hardware bringup.
//
// This package is only meant to be used with `GOOS=tamago` as
// supported by the TamaGo framework for bare metal Go, see
// https://github.com/usbarmory/tamago.
package vmm

import (
	"fmt"
	"unsafe"
)

// PageSize represents the granularity of Map operations in bytes
const PageSize = 4096 // 4 KiB

// Page table entry flags
const (
	FlagPresent      = 1 << 0
	FlagRW           = 1 << 1
	FlagWriteThrough = 1 << 3
	FlagNoCache      = 1 << 4
)

const (
	pageLevels   = 4
	entryCount   = 512
	addrMask     = 0x000f_ffff_ffff_f000
	flagHugePage = 1 << 7
)

// flushFn invalidates the TLB entry of a newly mapped page, tests override
// it as the underlying instruction is privileged.
var flushFn func(virt uint64)

// FrameAllocFn returns the physical address of a free page frame, used for
// allocation of missing page table levels.
type FrameAllocFn func() (uint64, error)

// PageTables provides access to a 4-level page table hierarchy through the
// offset mapping. The offset is fixed for the remainder of execution, no
// remapping occurs after bootstrap.
type PageTables struct {
	offset uint64
	root   uint64
}

// New returns page table access rooted at the argument top-level table
// physical address, reached through the argument offset mapping.
func New(offset uint64, root uint64) *PageTables {
	return &PageTables{
		offset: offset,
		root:   root,
	}
}

// Root returns the top-level page table physical address.
func (pt *PageTables) Root() uint64 {
	return pt.root
}

// Offset returns the physical-to-virtual mapping offset.
func (pt *PageTables) Offset() uint64 {
	return pt.offset
}

// table returns the page table at the argument physical address.
func (pt *PageTables) table(phys uint64) *[entryCount]uint64 {
	return (*[entryCount]uint64)(unsafe.Pointer(uintptr(pt.offset + phys)))
}

// Map establishes a 4 KiB mapping from the virtual page containing virt to
// the physical frame at phys, creating missing page table levels with
// frames served by next. Existing intermediate entries are reused, the
// final entry is overwritten with phys and the argument flags.
func (pt *PageTables) Map(virt uint64, phys uint64, flags uint64, next FrameAllocFn) (err error) {
	table := pt.table(pt.root)

	for level := 0; level < pageLevels-1; level++ {
		shift := 39 - level*9
		index := (virt >> shift) & (entryCount - 1)
		entry := table[index]

		if entry&FlagPresent == 0 {
			var frame uint64

			if frame, err = next(); err != nil {
				return fmt.Errorf("cannot allocate level %d page table: %w", level+1, err)
			}

			clear(pt.table(frame)[:])
			table[index] = frame&addrMask | FlagPresent | FlagRW
			table = pt.table(frame)

			continue
		}

		if entry&flagHugePage != 0 {
			return fmt.Errorf("huge page mapped at level %d for %#x", level+1, virt)
		}

		table = pt.table(entry & addrMask)
	}

	table[(virt>>12)&(entryCount-1)] = phys&addrMask | flags

	if flushFn != nil {
		flushFn(virt)
	}

	return
}

// Translate returns the physical address mapped at the argument virtual
// address, or false when the address is not mapped.
func (pt *PageTables) Translate(virt uint64) (phys uint64, ok bool) {
	table := pt.table(pt.root)

	for level := 0; level < pageLevels-1; level++ {
		shift := 39 - level*9
		entry := table[(virt>>shift)&(entryCount-1)]

		if entry&FlagPresent == 0 {
			return 0, false
		}

		if entry&flagHugePage != 0 {
			mask := uint64(1)<<shift - 1
			return entry&addrMask&^mask | virt&mask, true
		}

		table = pt.table(entry & addrMask)
	}

	entry := table[(virt>>12)&(entryCount-1)]

	if entry&FlagPresent == 0 {
		return 0, false
	}

	return entry&addrMask | virt&(PageSize-1), true
}

// Probe writes and reads back a marker through the offset mapping at the
// argument physical address, confirming that the mapped view is live.
func (pt *PageTables) Probe(phys uint64) (err error) {
	p := (*[2]byte)(unsafe.Pointer(uintptr(pt.offset + phys)))

	p[0] = 'A'
	p[1] = 'B'

	if p[0] != 'A' || p[1] != 'B' {
		return fmt.Errorf("offset mapping probe failed at %#x", phys)
	}

	return
}
