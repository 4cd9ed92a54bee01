// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build !tamago

package screen

import (
	"unsafe"

	"github.com/golCMKL/pong/bootinfo"
)

// mapFramebuffer aliases the framebuffer memory, which outside the bare-metal
// runtime is a regular pointer, letting tests stage a framebuffer in host
// memory.
func mapFramebuffer(fb *bootinfo.Framebuffer) (buf []byte, err error) {
	return unsafe.Slice((*byte)(unsafe.Pointer(uintptr(fb.Base))), int(fb.Size)), nil
}
