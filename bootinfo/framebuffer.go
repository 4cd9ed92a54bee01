// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package bootinfo

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// PixelFormat represents the framebuffer pixel encoding.
type PixelFormat uint32

// Framebuffer pixel encodings
const (
	PixelFormatRGB PixelFormat = iota
	PixelFormatBGR
	PixelFormatGray
)

// String returns the pixel encoding label.
func (f PixelFormat) String() string {
	switch f {
	case PixelFormatRGB:
		return "RGB"
	case PixelFormatBGR:
		return "BGR"
	case PixelFormatGray:
		return "GRAY"
	default:
		return "unknown"
	}
}

// Framebuffer represents the linear framebuffer descriptor handed over by
// the bootloader.
type Framebuffer struct {
	// Base is the framebuffer physical base address.
	Base uint64
	// Size is the framebuffer size in bytes.
	Size uint64
	// Width is the visible width in pixels.
	Width uint32
	// Height is the visible height in pixels.
	Height uint32
	// Stride is the scanline length in pixels.
	Stride uint32
	// Format is the pixel encoding.
	Format PixelFormat
	// BytesPerPixel is the pixel size in bytes.
	BytesPerPixel uint32
	_             uint32
}

// String returns the framebuffer geometry description.
func (f Framebuffer) String() string {
	return fmt.Sprintf("%dx%d stride:%d bpp:%d %s %s @ %#08x",
		f.Width, f.Height, f.Stride, f.BytesPerPixel, f.Format,
		humanize.IBytes(f.Size), f.Base)
}
