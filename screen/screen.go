// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package screen implements drawing on the linear framebuffer handed over
// by the bootloader, exposing it as a draw.Image.
//
// This package is only meant to be used with `GOOS=tamago` as
// supported by the TamaGo framework for bare metal Go, see
// https://github.com/usbarmory/tamago.
package screen

import (
	"fmt"
	"image"
	"image/color"

	"github.com/golCMKL/pong/bootinfo"
)

// Screen draws on a bootloader provided framebuffer, its pixel rows might
// be padded so individual pixel access goes through the scanline stride.
type Screen struct {
	fb  *bootinfo.Framebuffer
	buf []byte

	stride int
	bpp    int
}

// New maps the framebuffer memory for drawing.
func New(fb *bootinfo.Framebuffer) (s *Screen, err error) {
	switch fb.Format {
	case bootinfo.PixelFormatRGB, bootinfo.PixelFormatBGR:
		if fb.BytesPerPixel != 3 && fb.BytesPerPixel != 4 {
			return nil, fmt.Errorf("unsupported %s pixel size %d", fb.Format, fb.BytesPerPixel)
		}
	case bootinfo.PixelFormatGray:
		if fb.BytesPerPixel != 1 {
			return nil, fmt.Errorf("unsupported %s pixel size %d", fb.Format, fb.BytesPerPixel)
		}
	default:
		return nil, fmt.Errorf("unsupported pixel format %d", fb.Format)
	}

	if fb.Stride < fb.Width {
		return nil, fmt.Errorf("invalid stride %d for width %d", fb.Stride, fb.Width)
	}

	if uint64(fb.Stride)*uint64(fb.Height)*uint64(fb.BytesPerPixel) > fb.Size {
		return nil, fmt.Errorf("framebuffer size %d too small for %s", fb.Size, fb)
	}

	buf, err := mapFramebuffer(fb)

	if err != nil {
		return
	}

	s = &Screen{
		fb:     fb,
		buf:    buf,
		stride: int(fb.Stride),
		bpp:    int(fb.BytesPerPixel),
	}

	return
}

// ColorModel implements the image.Image interface.
func (s *Screen) ColorModel() color.Model {
	if s.fb.Format == bootinfo.PixelFormatGray {
		return color.GrayModel
	}

	return color.RGBAModel
}

// Bounds implements the image.Image interface.
func (s *Screen) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(s.fb.Width), int(s.fb.Height))
}

// At implements the image.Image interface.
func (s *Screen) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(s.Bounds())) {
		return color.RGBA{}
	}

	p := s.buf[(y*s.stride+x)*s.bpp:]

	switch s.fb.Format {
	case bootinfo.PixelFormatRGB:
		return color.RGBA{R: p[0], G: p[1], B: p[2], A: 0xff}
	case bootinfo.PixelFormatBGR:
		return color.RGBA{R: p[2], G: p[1], B: p[0], A: 0xff}
	default:
		return color.Gray{Y: p[0]}
	}
}

// Set implements the draw.Image interface.
func (s *Screen) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(s.Bounds())) {
		return
	}

	copy(s.buf[(y*s.stride+x)*s.bpp:], s.pixel(c))
}

// pixel returns the framebuffer representation of the argument color.
func (s *Screen) pixel(c color.Color) []byte {
	r, g, b, _ := c.RGBA()

	switch s.fb.Format {
	case bootinfo.PixelFormatRGB:
		return []byte{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 0}[:s.bpp]
	case bootinfo.PixelFormatBGR:
		return []byte{uint8(b >> 8), uint8(g >> 8), uint8(r >> 8), 0}[:s.bpp]
	default:
		return []byte{color.GrayModel.Convert(c).(color.Gray).Y}
	}
}

// Fill paints the intersection of the argument rectangle with the screen
// bounds in the argument color.
func (s *Screen) Fill(r image.Rectangle, c color.Color) {
	r = r.Intersect(s.Bounds())

	if r.Empty() {
		return
	}

	row := make([]byte, r.Dx()*s.bpp)
	px := s.pixel(c)

	for i := 0; i < len(row); i += s.bpp {
		copy(row[i:], px)
	}

	for y := r.Min.Y; y < r.Max.Y; y++ {
		copy(s.buf[(y*s.stride+r.Min.X)*s.bpp:], row)
	}
}

// Clear paints the whole framebuffer black, padding included.
func (s *Screen) Clear() {
	clear(s.buf)
}
