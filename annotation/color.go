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

package annotation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"seehuhn.de/go/image2pdf/internal/float"
)

// Color is an RGB color with components in the range [0, 1].
type Color struct {
	R, G, B float64
}

// Black is the default text color.
var Black = Color{}

// ParseColor parses a color given as six (or three) hexadecimal digits,
// optionally preceded by "#".
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	x, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	return Color{
		R: float64(x>>16&0xFF) / 255,
		G: float64(x>>8&0xFF) / 255,
		B: float64(x&0xFF) / 255,
	}, nil
}

// Hex returns the color in the form "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", toByte(c.R), toByte(c.G), toByte(c.B))
}

// fillOp returns the content stream operator to set c as fill color.
func (c Color) fillOp() string {
	return float.Format(c.R, 3) + " " + float.Format(c.G, 3) + " " + float.Format(c.B, 3) + " rg"
}

func toByte(x float64) uint8 {
	return uint8(math.Round(min(max(x, 0), 1) * 255))
}
