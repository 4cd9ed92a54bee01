// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package irq dispatches hardware interrupts to registered handlers. The
// vector stubs installed in the interrupt descriptor table only record the
// event and acknowledge the controller, handlers run serialized in the
// Start loop, which drains recorded events after every processor wakeup.
//
// This package is only meant to be used with `GOOS=tamago GOARCH=amd64` as
// supported by the TamaGo framework for bare metal Go, see
// https://github.com/usbarmory/tamago.
package irq

import (
	"sync/atomic"

	"github.com/golCMKL/pong/apic"
	"github.com/golCMKL/pong/cpu"
	"github.com/golCMKL/pong/kbd"
)

// Event bits set by the vector stubs, their values are mirrored in the
// stub implementations.
const (
	pendingTimer    = 1 << 0
	pendingKeyboard = 1 << 1
)

// pending accumulates event bits set by the vector stubs, dispatch drains
// it atomically.
var pending uint64

// eoiReg holds the local APIC EOI register address for acknowledgment by
// the vector stubs, it must be set before any source is armed.
var eoiReg uintptr

// readKeyFn reads the keyboard controller data port, tests override it as
// port access is privileged.
var readKeyFn = func() uint8 {
	return cpu.In8(kbd.DataPort)
}

// HandlerTable collects the handlers to dispatch interrupts to, at most
// one per source, registering a handler twice replaces the previous one.
type HandlerTable struct {
	startup  func()
	timer    func()
	keyboard func(rune)
}

// NewHandlerTable returns an empty handler table.
func NewHandlerTable() *HandlerTable {
	return &HandlerTable{}
}

// Startup registers the function invoked once before interrupts are armed.
func (h *HandlerTable) Startup(fn func()) *HandlerTable {
	h.startup = fn
	return h
}

// Timer registers the timer tick handler.
func (h *HandlerTable) Timer(fn func()) *HandlerTable {
	h.timer = fn
	return h
}

// Keyboard registers the key press handler.
func (h *HandlerTable) Keyboard(fn func(rune)) *HandlerTable {
	h.keyboard = fn
	return h
}

// Start invokes the startup handler, installs the interrupt descriptor
// table, arms the timer and keyboard and serves interrupts forever. It
// never returns.
func (h *HandlerTable) Start(ctl *apic.Controller) {
	if h.startup != nil {
		h.startup()
	}

	installIDT()

	eoiReg = ctl.EOIAddress()

	ctl.EnableTimer()
	ctl.EnableKeyboard()

	for {
		cpu.WaitForInterrupt()
		h.dispatch()
	}
}

// dispatch drains all recorded events, invoking handlers in source order,
// and returns once no further events are recorded. Events without a
// handler are dropped.
func (h *HandlerTable) dispatch() {
	for {
		events := atomic.SwapUint64(&pending, 0)

		if events == 0 {
			return
		}

		if events&pendingTimer != 0 && h.timer != nil {
			h.timer()
		}

		if events&pendingKeyboard != 0 {
			h.key()
		}
	}
}

// key consumes a scancode from the keyboard controller, the port is read
// even without a registered handler to allow further keyboard interrupts.
func (h *HandlerTable) key() {
	code := readKeyFn()

	if r, ok := kbd.Decode(code); ok && h.keyboard != nil {
		h.keyboard(r)
	}
}
