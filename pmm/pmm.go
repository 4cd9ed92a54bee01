// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package pmm implements the bootstrap physical memory frame allocator,
// which hands out the page frames consumed by the one-time mapping
// operations performed while bringing up the hardware. It is not a general
// purpose runtime allocator: frames are never returned and allocation stops
// once the backing region is exhausted.
package pmm

import (
	"errors"
	"fmt"

	"github.com/golCMKL/pong/bootinfo"
)

// FrameSize represents the physical page frame size in bytes
const FrameSize = 4096 // 4 KiB

// ErrOutOfFrames is returned by NextFrame once the backing region capacity
// is exhausted.
var ErrOutOfFrames = errors.New("out of physical frames")

// Allocator is a monotonic page frame allocator over the remaining capacity
// of the last usable region of the boot memory map.
type Allocator struct {
	region bootinfo.MemoryRegion
	next   uint64
	count  int
}

// New returns a frame allocator serving the last usable region of the
// argument memory map, leaving the first reserve bytes of the region
// untouched.
func New(m []bootinfo.MemoryRegion, reserve uint64) (alloc *Allocator, err error) {
	var region bootinfo.MemoryRegion
	var found bool

	for _, r := range m {
		if r.Kind == bootinfo.RegionUsable {
			region = r
			found = true
		}
	}

	if !found {
		return nil, errors.New("no usable memory region")
	}

	alloc = &Allocator{
		region: region,
		next:   align(region.Start+reserve, FrameSize),
	}

	return
}

// NextFrame returns the physical address of the next free page frame.
// Issued frames are page aligned, monotonically increasing and never
// repeat.
func (alloc *Allocator) NextFrame() (addr uint64, err error) {
	if alloc.next+FrameSize > alloc.region.End {
		return 0, ErrOutOfFrames
	}

	addr = alloc.next
	alloc.next += FrameSize
	alloc.count++

	return
}

// Count returns the number of frames issued so far.
func (alloc *Allocator) Count() int {
	return alloc.count
}

// String returns the allocator state description.
func (alloc *Allocator) String() string {
	return fmt.Sprintf("region %#08x - %#08x cursor %#08x issued %d",
		alloc.region.Start, alloc.region.End, alloc.next, alloc.count)
}

func align(addr uint64, to uint64) uint64 {
	return (addr + to - 1) &^ (to - 1)
}
