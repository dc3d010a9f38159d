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

package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/geom/rect"
)

func TestEnlarge(t *testing.T) {
	cases := []struct {
		in     Dimensions
		factor float64
		out    Dimensions
	}{
		{Dimensions{100, 80}, 0.1, Dimensions{100, 88}},
		{Dimensions{612, 792}, 0, Dimensions{612, 792}},
		{Dimensions{10, 10}, 0.5, Dimensions{10, 15}},
		{Dimensions{1, 200}, 0.9, Dimensions{1, 380}},
	}
	for _, test := range cases {
		out := Enlarge(test.in, test.factor)
		if out.Width != test.out.Width || math.Abs(out.Height-test.out.Height) > 1e-9 {
			t.Errorf("Enlarge(%s, %g) = %s, want %s", test.in, test.factor, out, test.out)
		}
	}
}

func TestEnlargeProperty(t *testing.T) {
	for _, w := range []float64{1, 72, 595.28} {
		for _, h := range []float64{0.5, 80, 841.89} {
			for _, f := range []float64{0, 0.1, 0.25, 0.9, 3} {
				d := Enlarge(Dimensions{w, h}, f)
				if d.Width != w {
					t.Errorf("width changed: %g -> %g", w, d.Width)
				}
				if math.Abs(d.Height-h*(1+f)) > 1e-9*h*(1+f) {
					t.Errorf("height %g, factor %g: got %g", h, f, d.Height)
				}
			}
		}
	}
}

func TestAnnotationRect(t *testing.T) {
	o := Offsets{Left: 20, Right: 200, TopOffset: 2, BottomOffset: 50}
	r := AnnotationRect(88, o)
	want := rect.Rect{LLx: 20, LLy: 38, URx: 200, URy: 86}
	if d := cmp.Diff(want, r); d != "" {
		t.Error(d)
	}
}

func TestAnnotationRectProperty(t *testing.T) {
	for _, h := range []float64{60, 88, 1000} {
		for _, top := range []float64{0, 2, 10} {
			for _, bottom := range []float64{top + 0.5, top + 48} {
				o := Offsets{Left: 20, Right: 200, TopOffset: top, BottomOffset: bottom}
				if err := o.Validate(); err != nil {
					t.Fatal(err)
				}
				r := AnnotationRect(h, o)
				if !(r.LLy < r.URy) || !(r.LLx < r.URx) {
					t.Errorf("inverted rectangle %v for %+v", r, o)
				}
			}
		}
	}
}

func TestValidate(t *testing.T) {
	cases := []Offsets{
		{Left: 200, Right: 20, TopOffset: 2, BottomOffset: 50},
		{Left: 20, Right: 20, TopOffset: 2, BottomOffset: 50},
		{Left: 20, Right: 200, TopOffset: 50, BottomOffset: 2},
	}
	for _, o := range cases {
		err := o.Validate()
		if !errors.Is(err, ErrInvertedRect) {
			t.Errorf("%+v: expected ErrInvertedRect, got %v", o, err)
		}
	}
}

func TestDimensionsRect(t *testing.T) {
	d := Dimensions{Width: 100, Height: 88}
	if d := cmp.Diff(rect.Rect{URx: 100, URy: 88}, d.Rect()); d != "" {
		t.Error(d)
	}
	if got := FromRect(rect.Rect{LLx: 10, LLy: 10, URx: 110, URy: 90}); got != (Dimensions{100, 80}) {
		t.Errorf("wrong dimensions %s", got)
	}
}
