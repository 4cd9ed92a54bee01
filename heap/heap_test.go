// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package heap

import (
	"testing"

	"github.com/golCMKL/pong/bootinfo"
)

var testMap = []bootinfo.MemoryRegion{
	{Start: 0x00001000, End: 0x0009f000, Kind: bootinfo.RegionUsable},
	{Start: 0x00100000, End: 0x00200000, Kind: bootinfo.RegionKernel},
	{Start: 0x01000000, End: 0x10000000, Kind: bootinfo.RegionUsable},
}

func setArena(start, end uint64) {
	installed = false
	memRegionFn = func() (uint64, uint64) {
		return start, end
	}
}

func TestInit(t *testing.T) {
	setArena(0x04000000, 0x06000000)

	r, err := Init(testMap)

	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	if r.Start != 0x04000000 || r.Size != 0x02000000 {
		t.Fatalf("unexpected arena %s", r)
	}

	if r.End() != 0x06000000 {
		t.Fatalf("unexpected arena end %#x", r.End())
	}
}

func TestInitExactlyOnce(t *testing.T) {
	setArena(0x04000000, 0x06000000)

	if _, err := Init(testMap); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if _, err := Init(testMap); err == nil {
		t.Fatal("expected the second install to be rejected")
	}
}

func TestInitOutsideUsableMemory(t *testing.T) {
	// arena overlapping the kernel region
	setArena(0x00180000, 0x00300000)

	if _, err := Init(testMap); err == nil {
		t.Fatal("expected an error")
	}

	// arena beyond the memory map
	setArena(0x20000000, 0x28000000)

	if _, err := Init(testMap); err == nil {
		t.Fatal("expected an error")
	}

	// arena spanning past a usable region end
	setArena(0x0f000000, 0x11000000)

	if _, err := Init(testMap); err == nil {
		t.Fatal("expected an error")
	}
}

func TestInitInvalidArena(t *testing.T) {
	setArena(0x06000000, 0x04000000)

	if _, err := Init(testMap); err == nil {
		t.Fatal("expected an error")
	}

	installed = false
	memRegionFn = nil

	if _, err := Init(testMap); err == nil {
		t.Fatal("expected an error")
	}
}
