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

// Package metadata describes the document metadata of generated PDF files.
//
// The metadata is stored twice, in the document information dictionary
// and in an XMP metadata stream referenced from the document catalog.
package metadata

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"seehuhn.de/go/image2pdf/pdf"
)

// PdfMetaData holds the document metadata.
// A PdfMetaData must not be modified once it is passed to a conversion.
type PdfMetaData struct {
	Author   string
	Producer string
	Title    string
	Subject  string
	Creator  string
	Keywords []string

	// Custom lists additional entries for the document information
	// dictionary, for example "Nickname".
	Custom map[string]string

	// CreationDate is the creation time of the document.
	// The zero value means "now".
	CreationDate time.Time
}

// standardKeys lists the information dictionary entries which are managed
// by PdfMetaData itself.  Custom entries with these names are ignored.
var standardKeys = map[pdf.Name]bool{
	"Title":        true,
	"Author":       true,
	"Subject":      true,
	"Keywords":     true,
	"Creator":      true,
	"Producer":     true,
	"CreationDate": true,
	"ModDate":      true,
	"Trapped":      true,
}

// Merge returns a copy of m, where all non-empty fields of override replace
// the corresponding fields of m.  Custom entries are merged key by key.
// Both m and override may be nil.
func (m *PdfMetaData) Merge(override *PdfMetaData) *PdfMetaData {
	res := &PdfMetaData{}
	if m != nil {
		*res = *m
		res.Keywords = slices.Clone(m.Keywords)
		res.Custom = maps.Clone(m.Custom)
	}
	if override == nil {
		return res
	}

	set := func(dst *string, val string) {
		if val != "" {
			*dst = val
		}
	}
	set(&res.Author, override.Author)
	set(&res.Producer, override.Producer)
	set(&res.Title, override.Title)
	set(&res.Subject, override.Subject)
	set(&res.Creator, override.Creator)
	if len(override.Keywords) > 0 {
		res.Keywords = slices.Clone(override.Keywords)
	}
	if len(override.Custom) > 0 {
		if res.Custom == nil {
			res.Custom = make(map[string]string, len(override.Custom))
		}
		maps.Copy(res.Custom, override.Custom)
	}
	if !override.CreationDate.IsZero() {
		res.CreationDate = override.CreationDate
	}
	return res
}

// Validate checks that the keywords survive the round trip through
// [PdfMetaData.KeywordString] and [ParseKeywords].  Keywords must be
// non-empty, without surrounding space, and must not contain "," or ";".
// A nil m is valid.
func (m *PdfMetaData) Validate() error {
	if m == nil {
		return nil
	}
	for _, kw := range m.Keywords {
		if kw == "" || kw != strings.TrimSpace(kw) {
			return fmt.Errorf("%w %q", errInvalidKeyword, kw)
		}
		if strings.ContainsAny(kw, ",;") {
			return fmt.Errorf("%w %q: contains a separator", errInvalidKeyword, kw)
		}
	}
	return nil
}

var errInvalidKeyword = errors.New("invalid keyword")

// KeywordString returns the keywords as a single, comma separated string.
func (m *PdfMetaData) KeywordString() string {
	return strings.Join(m.Keywords, ", ")
}

// ParseKeywords splits a comma or semicolon separated list of keywords.
// White space around keywords is removed and empty keywords are dropped.
func ParseKeywords(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';'
	})
	var res []string
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			res = append(res, f)
		}
	}
	return res
}

// InfoDict returns the document information dictionary for m.
// ModDate is used as the modification date, and as the creation date
// if m.CreationDate is not set.
func (m *PdfMetaData) InfoDict(modDate time.Time) pdf.Dict {
	info := pdf.Dict{}
	for key, val := range m.Custom {
		name := pdf.Name(key)
		if standardKeys[name] || val == "" {
			continue
		}
		info[name] = pdf.TextString(val)
	}

	add := func(key pdf.Name, val string) {
		if val != "" {
			info[key] = pdf.TextString(val)
		}
	}
	add("Title", m.Title)
	add("Author", m.Author)
	add("Subject", m.Subject)
	add("Keywords", m.KeywordString())
	add("Creator", m.Creator)
	add("Producer", m.Producer)

	created := m.CreationDate
	if created.IsZero() {
		created = modDate
	}
	info["CreationDate"] = pdf.Date(created)
	info["ModDate"] = pdf.Date(modDate)
	return info
}

// FromInfoDict reads the metadata from a document information dictionary.
// Entries of the wrong type are ignored.
func FromInfoDict(r pdf.Getter, info pdf.Dict) (*PdfMetaData, error) {
	m := &PdfMetaData{}
	for key, obj := range info {
		obj, err := pdf.Resolve(r, obj)
		if err != nil {
			return nil, err
		}
		s, ok := obj.(pdf.String)
		if !ok {
			continue
		}

		switch key {
		case "Title":
			m.Title = s.AsTextString()
		case "Author":
			m.Author = s.AsTextString()
		case "Subject":
			m.Subject = s.AsTextString()
		case "Keywords":
			m.Keywords = ParseKeywords(s.AsTextString())
		case "Creator":
			m.Creator = s.AsTextString()
		case "Producer":
			m.Producer = s.AsTextString()
		case "CreationDate":
			if t, err := s.AsDate(); err == nil {
				m.CreationDate = t
			}
		case "ModDate", "Trapped":
			// pass
		default:
			if m.Custom == nil {
				m.Custom = make(map[string]string)
			}
			m.Custom[string(key)] = s.AsTextString()
		}
	}
	return m, nil
}
