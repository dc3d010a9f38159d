// seehuhn.de/go/image2pdf - convert raster images into annotated PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package geometry computes the page size of the enlarged output page and
// the position of the annotation on it.
//
// All lengths are in PDF points.
package geometry

import (
	"errors"
	"fmt"

	"seehuhn.de/go/geom/rect"
)

// Dimensions gives the size of a page.
type Dimensions struct {
	Width  float64
	Height float64
}

// FromRect returns the size of a page box.
func FromRect(r rect.Rect) Dimensions {
	return Dimensions{Width: r.URx - r.LLx, Height: r.URy - r.LLy}
}

// Rect returns the page box [0 0 Width Height].
func (d Dimensions) Rect() rect.Rect {
	return rect.Rect{URx: d.Width, URy: d.Height}
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%gx%g", d.Width, d.Height)
}

// Enlarge increases the height of a page by the given fraction.  The width
// is unchanged.
//
// The factor is not checked; a negative factor shrinks the page.
func Enlarge(d Dimensions, factor float64) Dimensions {
	return Dimensions{
		Width:  d.Width,
		Height: d.Height + d.Height*factor,
	}
}

// Offsets describes where the annotation is placed.  Left and Right are
// measured from the left edge of the page, TopOffset and BottomOffset are
// measured down from the top edge.
type Offsets struct {
	Left         float64
	Right        float64
	TopOffset    float64
	BottomOffset float64
}

// Validate checks that the offsets describe a non-empty rectangle.
func (o Offsets) Validate() error {
	if o.Left >= o.Right {
		return fmt.Errorf("%w: left %g >= right %g", ErrInvertedRect, o.Left, o.Right)
	}
	if o.TopOffset >= o.BottomOffset {
		return fmt.Errorf("%w: top offset %g >= bottom offset %g",
			ErrInvertedRect, o.TopOffset, o.BottomOffset)
	}
	return nil
}

// AnnotationRect returns the annotation rectangle on a page of height h.
func AnnotationRect(h float64, o Offsets) rect.Rect {
	return rect.Rect{
		LLx: o.Left,
		LLy: h - o.BottomOffset,
		URx: o.Right,
		URy: h - o.TopOffset,
	}
}

// ErrInvertedRect is returned by [Offsets.Validate] if the annotation
// rectangle would be empty or inverted.
var ErrInvertedRect = errors.New("inverted annotation rectangle")
