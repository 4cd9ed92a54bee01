// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package irq

import (
	"testing"
	"unsafe"

	"github.com/golCMKL/pong/apic"
	"github.com/golCMKL/pong/gdt"
)

func TestGateEncoding(t *testing.T) {
	addr := uintptr(0x1234_5678_9abc_def0)
	g := newGate(addr, 1)

	if g.offsetLow != 0xdef0 || g.offsetMid != 0x9abc || g.offsetHigh != 0x12345678 {
		t.Errorf("offset split %#x %#x %#x", g.offsetLow, g.offsetMid, g.offsetHigh)
	}

	if g.addr() != addr {
		t.Errorf("addr %#x, expected %#x", g.addr(), addr)
	}

	if g.selector != gdt.KernelCode {
		t.Errorf("selector %#x", g.selector)
	}

	if g.typeAttr != 0x8e {
		t.Errorf("type %#x", g.typeAttr)
	}

	if g.ist != 1 {
		t.Errorf("ist %d", g.ist)
	}
}

func TestGateLayout(t *testing.T) {
	if n := unsafe.Sizeof(gate{}); n != 16 {
		t.Fatalf("gate size %d", n)
	}

	var g gate

	for _, tc := range []struct {
		name string
		off  uintptr
		want uintptr
	}{
		{"selector", unsafe.Offsetof(g.selector), 2},
		{"ist", unsafe.Offsetof(g.ist), 4},
		{"typeAttr", unsafe.Offsetof(g.typeAttr), 5},
		{"offsetMid", unsafe.Offsetof(g.offsetMid), 6},
		{"offsetHigh", unsafe.Offsetof(g.offsetHigh), 8},
	} {
		if tc.off != tc.want {
			t.Errorf("%s at offset %d, expected %d", tc.name, tc.off, tc.want)
		}
	}
}

func TestBuildIDT(t *testing.T) {
	buildIDT()

	for _, tc := range []struct {
		name   string
		vector int
		addr   uintptr
		ist    uint8
	}{
		{"divide error", 0, faultStubAddr(), 0},
		{"double fault", vectorDoubleFault, faultStubAddr(), gdt.DoubleFaultIST},
		{"page fault", 14, faultStubAddr(), 0},
		{"timer", apic.TimerVector, timerStubAddr(), 0},
		{"keyboard", apic.KeyboardVector, keyboardStubAddr(), 0},
		{"spurious", apic.SpuriousVector, spuriousStubAddr(), 0},
		{"unused", 0x30, faultStubAddr(), 0},
	} {
		g := &idt[tc.vector]

		if g.addr() != tc.addr {
			t.Errorf("%s stub %#x, expected %#x", tc.name, g.addr(), tc.addr)
		}

		if g.ist != tc.ist {
			t.Errorf("%s ist %d, expected %d", tc.name, g.ist, tc.ist)
		}

		if g.typeAttr != 0x8e || g.selector != gdt.KernelCode {
			t.Errorf("%s gate %#x/%#x", tc.name, g.typeAttr, g.selector)
		}
	}
}
