// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package heap validates and installs the process-wide dynamic allocation
// arena: the Go runtime heap bounds, fixed at link time through the tamago
// ramStart/ramSize contract, are checked against the memory map handed over
// by the bootloader.
//
// Init must run exactly once, strictly after the offset-mapped view of
// physical memory is confirmed and strictly before any allocation-dependent
// bootstrap step. Components performing dynamic allocation before Init
// returns operate outside the design contract; the violation is not
// detected at runtime.
package heap

import (
	"errors"
	"fmt"

	"github.com/golCMKL/pong/bootinfo"
)

// memRegionFn returns the runtime allocation arena bounds, assigned on
// tamago builds and overridden by tests.
var memRegionFn func() (start uint64, end uint64)

var installed bool

// Region represents the installed allocation arena bounds.
type Region struct {
	// Start is the arena start address.
	Start uint64
	// Size is the arena size in bytes.
	Size uint64
}

// End returns the arena end address (exclusive).
func (r Region) End() uint64 {
	return r.Start + r.Size
}

// String returns the arena bounds description.
func (r Region) String() string {
	return fmt.Sprintf("%#08x - %#08x", r.Start, r.End())
}

// Init verifies that the runtime allocation arena lies entirely within a
// usable region of the argument memory map and installs it as the sole
// allocator for the remainder of execution. A second call is an error, as
// the arena placement is fixed for process lifetime.
func Init(m []bootinfo.MemoryRegion) (r Region, err error) {
	if installed {
		return Region{}, errors.New("allocation arena already installed")
	}

	if memRegionFn == nil {
		return Region{}, errors.New("runtime arena bounds unavailable")
	}

	start, end := memRegionFn()

	if start >= end {
		return Region{}, fmt.Errorf("invalid allocation arena %#x - %#x", start, end)
	}

	for _, region := range m {
		if region.Kind != bootinfo.RegionUsable {
			continue
		}

		if start >= region.Start && end <= region.End {
			installed = true

			r = Region{
				Start: start,
				Size:  end - start,
			}

			return
		}
	}

	return Region{}, fmt.Errorf("allocation arena %#x - %#x outside usable memory", start, end)
}
