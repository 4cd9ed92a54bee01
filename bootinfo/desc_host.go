// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build !tamago

package bootinfo

import (
	"errors"
	"unsafe"
)

// decodeBuffer copies size bytes present at the argument address, which
// outside the bare-metal runtime is a regular pointer, letting tests stage
// records in host memory.
func decodeBuffer(addr uint64, size int) (buf []byte, err error) {
	if addr == 0 {
		return nil, errors.New("invalid address")
	}

	buf = make([]byte, size)
	copy(buf, unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), size))

	return
}
