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

// Package annotation implements free text annotations, which display text
// directly on a page.
package annotation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/image2pdf/internal/float"
	"seehuhn.de/go/image2pdf/pdf"
)

// FreeText represents a free text annotation.
type FreeText struct {
	// Rect is the location of the annotation on the page, in default user
	// space units.
	Rect rect.Rect

	// Contents is the text shown by the annotation.
	Contents string

	Font Font

	// FontRef (optional) is a font dictionary for Font, which was written
	// before.  If this is not set, a new font dictionary is written.
	FontRef pdf.Reference

	FontSize float64
	Color    Color
	Align    Align

	Flags Flags

	// Name (optional) uniquely identifies the annotation on its page.
	//
	// This corresponds to the /NM entry in the PDF annotation dictionary.
	Name string

	// Modified (optional) is the time the annotation was last changed.
	//
	// This corresponds to the /M entry in the PDF annotation dictionary.
	Modified time.Time
}

// DefaultAppearance returns the /DA string of the annotation,
// e.g. "/HeBo 32 Tf 0 0 0 rg".
func (f *FreeText) DefaultAppearance() string {
	return "/" + string(f.Font.ResourceName()) + " " + float.Format(f.FontSize, 2) + " Tf " +
		f.Color.fillOp()
}

// DefaultStyle returns the /DS string of the annotation, in the CSS-like
// syntax used for rich text strings.
func (f *FreeText) DefaultStyle() string {
	var parts []string
	if f.Font.Bold {
		parts = append(parts, "bold")
	}
	if f.Font.Italic {
		parts = append(parts, "italic")
	}
	parts = append(parts, f.Font.family().css, float.Format(f.FontSize, 2)+"pt")
	return "font: " + strings.Join(parts, " ") + "; color: " + f.Color.Hex()
}

// Embed writes the annotation, together with its appearance stream, and
// returns a reference to the annotation dictionary.  Page is the page
// the annotation is placed on.
func (f *FreeText) Embed(w *pdf.Writer, page pdf.Reference) (pdf.Reference, error) {
	if w.Version < pdf.V1_5 {
		return pdf.Reference{}, errors.New("free text annotations with /DS require PDF 1.5")
	}
	if f.Rect.URx <= f.Rect.LLx || f.Rect.URy <= f.Rect.LLy {
		return pdf.Reference{}, fmt.Errorf("invalid annotation rectangle %v", f.Rect)
	}
	if f.FontSize <= 0 {
		return pdf.Reference{}, fmt.Errorf("invalid font size %g", f.FontSize)
	}

	apRef, err := f.writeAppearance(w)
	if err != nil {
		return pdf.Reference{}, err
	}

	dict := pdf.Dict{
		"Type":     pdf.Name("Annot"),
		"Subtype":  pdf.Name("FreeText"),
		"Rect":     pdf.AsRectangle(f.Rect),
		"Contents": pdf.TextString(f.Contents),
		"F":        pdf.Integer(f.Flags),
		"P":        page,
		"DA":       pdf.String(f.DefaultAppearance()),
		"DS":       pdf.TextString(f.DefaultStyle()),
		"Border":   pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Integer(0)},
		"AP":       pdf.Dict{"N": apRef},
	}
	if f.Align != AlignLeft {
		dict["Q"] = pdf.Integer(f.Align)
	}
	if f.Name != "" {
		dict["NM"] = pdf.TextString(f.Name)
	}
	if !f.Modified.IsZero() {
		dict["M"] = pdf.Date(f.Modified)
	}

	ref := w.Alloc()
	err = w.Put(ref, dict)
	if err != nil {
		return pdf.Reference{}, err
	}
	return ref, nil
}

// Extract reads a free text annotation from a PDF file.  Only the
// information written by [FreeText.Embed] is recovered.
func Extract(r pdf.Getter, obj pdf.Object) (*FreeText, error) {
	dict, err := pdf.GetDict(r, obj)
	if err != nil {
		return nil, err
	}
	if dict == nil {
		return nil, errors.New("missing annotation dictionary")
	}
	if tp, _ := pdf.GetName(r, dict["Subtype"]); tp != "FreeText" {
		return nil, fmt.Errorf("unexpected annotation type %q", tp)
	}

	f := &FreeText{}
	f.Rect, err = pdf.GetRectangle(r, dict["Rect"])
	if err != nil {
		return nil, err
	}
	f.Contents, err = pdf.GetTextString(r, dict["Contents"])
	if err != nil {
		return nil, err
	}
	flags, err := pdf.GetInteger(r, dict["F"])
	if err != nil {
		return nil, err
	}
	f.Flags = Flags(flags)
	f.Name, err = pdf.GetTextString(r, dict["NM"])
	if err != nil {
		return nil, err
	}
	if m, err := pdf.GetString(r, dict["M"]); err == nil && m != nil {
		f.Modified, _ = m.AsDate()
	}
	if q, err := pdf.GetInteger(r, dict["Q"]); err == nil && q >= 0 && q <= 2 {
		f.Align = Align(q)
	}

	da, err := pdf.GetString(r, dict["DA"])
	if err != nil {
		return nil, err
	}
	err = f.parseDA(string(da))
	if err != nil {
		return nil, err
	}
	return f, nil
}

// parseDA recovers font, font size and color from a default appearance
// string.
func (f *FreeText) parseDA(da string) error {
	fields := strings.Fields(da)
	for i, op := range fields {
		switch op {
		case "Tf":
			if i < 2 {
				return fmt.Errorf("malformed /DA %q", da)
			}
			font, ok := fontFromResourceName(pdf.Name(strings.TrimPrefix(fields[i-2], "/")))
			if !ok {
				return fmt.Errorf("unknown font in /DA %q", da)
			}
			size, err := strconv.ParseFloat(fields[i-1], 64)
			if err != nil {
				return fmt.Errorf("malformed /DA %q: %w", da, err)
			}
			f.Font = font
			f.FontSize = size
		case "rg":
			if i < 3 {
				return fmt.Errorf("malformed /DA %q", da)
			}
			var c [3]float64
			for j := range 3 {
				x, err := strconv.ParseFloat(fields[i-3+j], 64)
				if err != nil {
					return fmt.Errorf("malformed /DA %q: %w", da, err)
				}
				c[j] = x
			}
			f.Color = Color{R: c[0], G: c[1], B: c[2]}
		}
	}
	return nil
}
