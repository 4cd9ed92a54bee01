// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago

package screen

import (
	"github.com/usbarmory/tamago/dma"

	"github.com/golCMKL/pong/bootinfo"
)

// mapFramebuffer reserves the framebuffer memory as a dedicated DMA region,
// held for the remainder of execution.
func mapFramebuffer(fb *bootinfo.Framebuffer) (buf []byte, err error) {
	r, err := dma.NewRegion(uint(fb.Base), int(fb.Size), true)

	if err != nil {
		return
	}

	_, buf = r.Reserve(int(fb.Size), 0)

	return
}
