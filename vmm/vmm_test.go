// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package vmm

import (
	"errors"
	"runtime"
	"testing"
	"unsafe"
)

// testArena backs a page table hierarchy with host memory: the offset
// mapping is pointed at a Go buffer and page "physical addresses" are
// offsets within it, with the root table at zero.
type testArena struct {
	buf   []byte
	pt    *PageTables
	next  int
	pages int
}

func newTestArena(t *testing.T, pages int) *testArena {
	t.Helper()

	// the instruction behind flushFn faults in user mode
	flushFn = func(uint64) {}

	buf := make([]byte, pages*PageSize)

	return &testArena{
		buf:   buf,
		pt:    New(uint64(uintptr(unsafe.Pointer(&buf[0]))), 0),
		next:  1,
		pages: pages,
	}
}

func (a *testArena) alloc() (uint64, error) {
	if a.next >= a.pages {
		return 0, errors.New("arena exhausted")
	}

	addr := uint64(a.next * PageSize)
	a.next++

	return addr, nil
}

func TestMap(t *testing.T) {
	a := newTestArena(t, 8)
	defer runtime.KeepAlive(a.buf)

	virt := uint64(0x0000_7011_2233_4000)
	phys := uint64(0x0000_0000_fee0_0000)

	if err := a.pt.Map(virt, phys, FlagPresent|FlagRW|FlagNoCache, a.alloc); err != nil {
		t.Fatalf("Map: %v", err)
	}

	// three intermediate levels allocated below the root
	if a.next != 4 {
		t.Errorf("expected 3 page table frames, got %d", a.next-1)
	}

	got, ok := a.pt.Translate(virt)

	if !ok {
		t.Fatal("expected the page to be mapped")
	}

	if got != phys {
		t.Errorf("expected %#x, got %#x", phys, got)
	}

	if got, ok = a.pt.Translate(virt | 0x123); !ok || got != phys|0x123 {
		t.Errorf("expected page offset preservation, got %#x (%v)", got, ok)
	}

	// each level carries present/rw, the leaf the requested flags
	table := a.pt.table(a.pt.root)

	for level := 0; level < pageLevels-1; level++ {
		shift := 39 - level*9
		entry := table[(virt>>shift)&(entryCount-1)]

		if entry&(FlagPresent|FlagRW) != FlagPresent|FlagRW {
			t.Fatalf("level %d entry %#x missing present/rw flags", level+1, entry)
		}

		table = a.pt.table(entry & addrMask)
	}

	if entry := table[(virt>>12)&(entryCount-1)]; entry&FlagNoCache == 0 {
		t.Errorf("leaf entry %#x missing no-cache flag", entry)
	}
}

func TestMapSharedTables(t *testing.T) {
	a := newTestArena(t, 8)
	defer runtime.KeepAlive(a.buf)

	virt := uint64(0x0000_7011_2233_4000)

	if err := a.pt.Map(virt, 0x1000_0000, FlagPresent|FlagRW, a.alloc); err != nil {
		t.Fatalf("Map: %v", err)
	}

	used := a.next

	// a neighbouring page shares all intermediate tables
	if err := a.pt.Map(virt+PageSize, 0x1000_1000, FlagPresent|FlagRW, a.alloc); err != nil {
		t.Fatalf("Map: %v", err)
	}

	if a.next != used {
		t.Errorf("expected no additional page table frames, got %d", a.next-used)
	}

	got, ok := a.pt.Translate(virt + PageSize)

	if !ok || got != 0x1000_1000 {
		t.Errorf("expected %#x, got %#x (%v)", 0x1000_1000, got, ok)
	}
}

func TestMapAllocatorExhaustion(t *testing.T) {
	a := newTestArena(t, 2)
	defer runtime.KeepAlive(a.buf)

	// only one spare frame for three missing levels
	err := a.pt.Map(0x0000_7011_2233_4000, 0x1000_0000, FlagPresent|FlagRW, a.alloc)

	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestTranslateUnmapped(t *testing.T) {
	a := newTestArena(t, 2)
	defer runtime.KeepAlive(a.buf)

	if _, ok := a.pt.Translate(0x0000_7011_2233_4000); ok {
		t.Fatal("expected the page to be unmapped")
	}
}

func TestProbe(t *testing.T) {
	a := newTestArena(t, 2)
	defer runtime.KeepAlive(a.buf)

	// probe through the offset view of the second arena page
	if err := a.pt.Probe(PageSize); err != nil {
		t.Fatal(err)
	}

	if a.buf[PageSize] != 'A' || a.buf[PageSize+1] != 'B' {
		t.Fatal("expected the probe marker through the offset view")
	}
}
