// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package kbd decodes the scancodes of an Intel 8042 compatible PS/2
// keyboard controller, such as the one emulated by QEMU microvm machines,
// operating in its power-on default scancode set.
package kbd

// DataPort is the I/O port holding the scancode of the most recent
// keyboard event, it must be read to allow further keyboard interrupts.
const DataPort = 0x60

// breakCode is set on key release events.
const breakCode = 0x80

// Scancode set 1 make codes for a US QWERTY layout, unshifted.
var keymap = [128]rune{
	0x02: '1', 0x03: '2', 0x04: '3', 0x05: '4', 0x06: '5',
	0x07: '6', 0x08: '7', 0x09: '8', 0x0a: '9', 0x0b: '0',
	0x0c: '-', 0x0d: '=',
	0x10: 'q', 0x11: 'w', 0x12: 'e', 0x13: 'r', 0x14: 't',
	0x15: 'y', 0x16: 'u', 0x17: 'i', 0x18: 'o', 0x19: 'p',
	0x1a: '[', 0x1b: ']',
	0x1c: '\n',
	0x1e: 'a', 0x1f: 's', 0x20: 'd', 0x21: 'f', 0x22: 'g',
	0x23: 'h', 0x24: 'j', 0x25: 'k', 0x26: 'l',
	0x27: ';', 0x28: '\'', 0x29: '`', 0x2b: '\\',
	0x2c: 'z', 0x2d: 'x', 0x2e: 'c', 0x2f: 'v', 0x30: 'b',
	0x31: 'n', 0x32: 'm',
	0x33: ',', 0x34: '.', 0x35: '/',
	0x39: ' ',
}

// Decode translates a scancode to the character of the key being pressed,
// release events, modifiers and keys outside the printable map return
// false.
func Decode(code uint8) (r rune, ok bool) {
	if code&breakCode != 0 {
		return
	}

	if r = keymap[code]; r == 0 {
		return
	}

	return r, true
}
