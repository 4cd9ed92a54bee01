// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package screen

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// face is the fixed 7x13 typeface used for all text.
var face = basicfont.Face7x13

// TextHeight returns the line height of the screen typeface.
func (s *Screen) TextHeight() int {
	return face.Metrics().Height.Ceil()
}

func (s *Screen) drawer(c color.Color) *font.Drawer {
	return &font.Drawer{
		Dst:  s,
		Src:  image.NewUniform(c),
		Face: face,
	}
}

// DrawString draws str in the argument color with the baseline of its
// first character at p.
func (s *Screen) DrawString(p image.Point, c color.Color, str string) {
	d := s.drawer(c)
	d.Dot = fixed.P(p.X, p.Y)
	d.DrawString(str)
}

// DrawStringCentered draws str in the argument color, horizontally
// centered, with its baseline at row y.
func (s *Screen) DrawStringCentered(y int, c color.Color, str string) {
	d := s.drawer(c)
	d.Dot = fixed.Point26_6{
		X: fixed.I(int(s.fb.Width)/2) - d.MeasureString(str)/2,
		Y: fixed.I(y),
	}

	d.DrawString(str)
}
