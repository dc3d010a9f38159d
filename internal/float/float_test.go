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

package float

import "testing"

func TestFormat(t *testing.T) {
	cases := []struct {
		x    float64
		prec int
		out  string
	}{
		{0, 2, "0"},
		{1, 2, "1"},
		{2.000, 3, "2"},
		{0.5, 2, ".5"},
		{-0.5, 2, "-.5"},
		{-0.001, 2, "0"},
		{12.3456, 2, "12.35"},
		{100, 0, "100"},
		{38.25, 4, "38.25"},
	}
	for _, test := range cases {
		out := Format(test.x, test.prec)
		if out != test.out {
			t.Errorf("Format(%g, %d) = %q, want %q", test.x, test.prec, out, test.out)
		}
	}
}
