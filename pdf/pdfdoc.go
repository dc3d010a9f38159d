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

package pdf

import "strings"

// pdfDocHigh lists the characters for the byte values 0x80 to 0xA0 in
// PDFDocEncoding.  A zero entry marks an undefined code.
var pdfDocHigh = [...]rune{
	'•', '†', '‡', '…', '—', '–', 'ƒ', '⁄',
	'‹', '›', '−', '‰', '„', '“', '”', '‘',
	'’', '‚', '™', 'ﬁ', 'ﬂ', 'Ł', 'Œ', 'Š',
	'Ÿ', 'Ž', 'ı', 'ł', 'œ', 'š', 'ž', 0,
	'€',
}

var pdfDocHighRev map[rune]byte

func init() {
	pdfDocHighRev = make(map[rune]byte, len(pdfDocHigh))
	for i, r := range pdfDocHigh {
		if r != 0 {
			pdfDocHighRev[r] = byte(0x80 + i)
		}
	}
}

func pdfDocEncode(r rune) (byte, bool) {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return byte(r), true
	case r >= 0x20 && r < 0x7F:
		return byte(r), true
	case r >= 0xA1 && r <= 0xFF && r != 0xAD:
		return byte(r), true
	}
	c, ok := pdfDocHighRev[r]
	return c, ok
}

func pdfDocDecode(s []byte) string {
	b := &strings.Builder{}
	for _, c := range s {
		switch {
		case c >= 0x80 && c <= 0xA0:
			r := pdfDocHigh[c-0x80]
			if r == 0 {
				r = '�'
			}
			b.WriteRune(r)
		default:
			b.WriteRune(rune(c))
		}
	}
	return b.String()
}
