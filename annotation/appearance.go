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
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"seehuhn.de/go/image2pdf/internal/float"
	"seehuhn.de/go/image2pdf/pdf"
)

const (
	padding = 2.0

	// ascent and leading are approximate values, relative to the font
	// size, which work for all standard fonts.
	ascent  = 0.8
	leading = 1.2
)

// writeAppearance writes the normal appearance stream of the annotation
// as a form XObject.
func (f *FreeText) writeAppearance(w *pdf.Writer) (pdf.Reference, error) {
	fontRef := f.FontRef
	if fontRef == (pdf.Reference{}) {
		var err error
		fontRef, err = f.Font.Embed(w)
		if err != nil {
			return pdf.Reference{}, err
		}
	}

	content, err := f.appearanceContent()
	if err != nil {
		return pdf.Reference{}, err
	}

	ref := w.Alloc()
	dict := pdf.Dict{
		"Type":    pdf.Name("XObject"),
		"Subtype": pdf.Name("Form"),
		"BBox":    pdf.AsRectangle(f.Rect),
		"Resources": DefaultResources(f.Font, fontRef),
	}
	stm, err := w.OpenStream(ref, dict, pdf.FilterFlate{})
	if err != nil {
		return pdf.Reference{}, err
	}
	_, err = stm.Write(content)
	if err != nil {
		return pdf.Reference{}, err
	}
	err = stm.Close()
	if err != nil {
		return pdf.Reference{}, err
	}
	return ref, nil
}

// appearanceContent returns the content stream which shows the annotation
// text, clipped to the annotation rectangle.
func (f *FreeText) appearanceContent() ([]byte, error) {
	r := f.Rect
	size := f.FontSize
	buf := &bytes.Buffer{}

	fmt.Fprintf(buf, "q\n%s %s %s %s re W n\n",
		float.Format(r.LLx, 2), float.Format(r.LLy, 2),
		float.Format(r.URx-r.LLx, 2), float.Format(r.URy-r.LLy, 2))
	buf.WriteString("BT\n")
	fmt.Fprintf(buf, "/%s %s Tf\n", f.Font.ResourceName(), float.Format(size, 2))
	buf.WriteString(f.Color.fillOp() + "\n")
	fmt.Fprintf(buf, "%s TL\n", float.Format(size*leading, 2))

	x := r.LLx + padding
	y := r.URy - padding - size*ascent
	fmt.Fprintf(buf, "%s %s Td\n", float.Format(x, 2), float.Format(y, 2))

	lines := strings.Split(strings.ReplaceAll(f.Contents, "\r\n", "\n"), "\n")
	for i, line := range lines {
		if i > 0 {
			buf.WriteString("T*\n")
		}
		err := pdf.String(winAnsi(line)).PDF(buf)
		if err != nil {
			return nil, err
		}
		buf.WriteString(" Tj\n")
	}
	buf.WriteString("ET\nQ\n")
	return buf.Bytes(), nil
}

// winAnsi encodes s using the WinAnsiEncoding of the standard fonts.
// Characters which cannot be represented are replaced by "?".
func winAnsi(s string) []byte {
	res := make([]byte, 0, len(s))
	for _, r := range s {
		c, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			c = '?'
		}
		res = append(res, c)
	}
	return res
}
