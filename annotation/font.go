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
	"strings"

	"seehuhn.de/go/image2pdf/pdf"
)

// Font selects one of the standard 14 PDF fonts.  These fonts are available
// in every PDF viewer and need not be embedded.
type Font struct {
	// Family is one of "Helvetica", "Times" and "Courier".
	Family string
	Bold   bool
	Italic bool
}

type fontFamily struct {
	baseNames [4]pdf.Name // regular, bold, italic, bold italic
	resNames  [4]pdf.Name
	css       string
}

var families = map[string]*fontFamily{
	"Helvetica": {
		baseNames: [4]pdf.Name{"Helvetica", "Helvetica-Bold", "Helvetica-Oblique", "Helvetica-BoldOblique"},
		resNames:  [4]pdf.Name{"Helv", "HeBo", "HeOb", "HeBO"},
		css:       "Helvetica",
	},
	"Times": {
		baseNames: [4]pdf.Name{"Times-Roman", "Times-Bold", "Times-Italic", "Times-BoldItalic"},
		resNames:  [4]pdf.Name{"TiRo", "TiBo", "TiIt", "TiBI"},
		css:       "Times",
	},
	"Courier": {
		baseNames: [4]pdf.Name{"Courier", "Courier-Bold", "Courier-Oblique", "Courier-BoldOblique"},
		resNames:  [4]pdf.Name{"Cour", "CoBo", "CoOb", "CoBO"},
		css:       "Courier",
	},
}

var familyAliases = map[string]string{
	"helvetica":       "Helvetica",
	"helv":            "Helvetica",
	"arial":           "Helvetica",
	"sans":            "Helvetica",
	"sans-serif":      "Helvetica",
	"times":           "Times",
	"times-roman":     "Times",
	"times new roman": "Times",
	"serif":           "Times",
	"courier":         "Courier",
	"courier new":     "Courier",
	"monospace":       "Courier",
}

// ParseFamily maps a font name, as found in configuration files, to one of
// the standard font families.  Common substitutes like "Arial" are accepted.
func ParseFamily(name string) (string, error) {
	family, ok := familyAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("unsupported font %q", name)
	}
	return family, nil
}

func (f Font) family() *fontFamily {
	if fam, ok := families[f.Family]; ok {
		return fam
	}
	return families["Helvetica"]
}

func (f Font) variant() int {
	idx := 0
	if f.Bold {
		idx |= 1
	}
	if f.Italic {
		idx |= 2
	}
	return idx
}

// BaseFont returns the PostScript name of the font.
func (f Font) BaseFont() pdf.Name {
	return f.family().baseNames[f.variant()]
}

// ResourceName returns the name used for the font in resource dictionaries
// and in default appearance strings.
func (f Font) ResourceName() pdf.Name {
	return f.family().resNames[f.variant()]
}

// fontFromResourceName is the inverse of [Font.ResourceName].
func fontFromResourceName(name pdf.Name) (Font, bool) {
	for family, fam := range families {
		for idx, n := range fam.resNames {
			if n == name {
				return Font{Family: family, Bold: idx&1 != 0, Italic: idx&2 != 0}, true
			}
		}
	}
	return Font{}, false
}

// Dict returns the font dictionary for the font.
func (f Font) Dict() pdf.Dict {
	return pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  pdf.Name("Type1"),
		"BaseFont": f.BaseFont(),
		"Encoding": pdf.Name("WinAnsiEncoding"),
	}
}

// Embed writes the font dictionary and returns a reference to it.
func (f Font) Embed(w *pdf.Writer) (pdf.Reference, error) {
	ref := w.Alloc()
	err := w.Put(ref, f.Dict())
	if err != nil {
		return pdf.Reference{}, err
	}
	return ref, nil
}

// DefaultResources returns the default resource dictionary of an
// interactive form, for use as the /DR entry of the /AcroForm dictionary.
// This allows viewers to resolve the font named in /DA strings.
func DefaultResources(f Font, fontRef pdf.Reference) pdf.Dict {
	return pdf.Dict{
		"Font": pdf.Dict{f.ResourceName(): fontRef},
	}
}
