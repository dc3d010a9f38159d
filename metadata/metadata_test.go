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

package metadata

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/xmp"

	"seehuhn.de/go/image2pdf/internal/memfile"
	"seehuhn.de/go/image2pdf/pdf"
)

var testMeta = &PdfMetaData{
	Author:   "Humberto A. Sanchez II",
	Producer: "Pyut Plugin",
	Title:    "Pyut Diagram Dump",
	Subject:  "Developer Diagram",
	Creator:  "Pyut",
	Keywords: []string{"UML", "Pyut", "Diagram"},
	Custom:   map[string]string{"Nickname": "dump"},
}

func TestMerge(t *testing.T) {
	override := &PdfMetaData{
		Title:    "Class Diagram",
		Keywords: []string{"classes"},
		Custom:   map[string]string{"Project": "image2pdf"},
	}
	got := testMeta.Merge(override)
	want := &PdfMetaData{
		Author:   "Humberto A. Sanchez II",
		Producer: "Pyut Plugin",
		Title:    "Class Diagram",
		Subject:  "Developer Diagram",
		Creator:  "Pyut",
		Keywords: []string{"classes"},
		Custom:   map[string]string{"Nickname": "dump", "Project": "image2pdf"},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}

	// the receiver must not be modified
	if len(testMeta.Custom) != 1 || testMeta.Title != "Pyut Diagram Dump" {
		t.Error("Merge modified its receiver")
	}

	var empty *PdfMetaData
	if d := cmp.Diff(testMeta, empty.Merge(testMeta)); d != "" {
		t.Error(d)
	}
}

func TestParseKeywords(t *testing.T) {
	cases := []struct {
		in  string
		out []string
	}{
		{"", nil},
		{"UML", []string{"UML"}},
		{"UML,Pyut,Diagram", []string{"UML", "Pyut", "Diagram"}},
		{" UML , Pyut;; Diagram ", []string{"UML", "Pyut", "Diagram"}},
	}
	for _, test := range cases {
		if d := cmp.Diff(test.out, ParseKeywords(test.in)); d != "" {
			t.Errorf("%q: %s", test.in, d)
		}
	}
}

func TestInfoDictRoundTrip(t *testing.T) {
	created := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	modified := created.Add(time.Hour)

	in := testMeta.Merge(&PdfMetaData{CreationDate: created})
	info := in.InfoDict(modified)

	if s, _ := info["Keywords"].(pdf.String); string(s) != "UML, Pyut, Diagram" {
		t.Errorf("wrong /Keywords %q", s)
	}
	if s, _ := info["ModDate"].(pdf.String); string(s) != "D:20261017100000Z" {
		t.Errorf("wrong /ModDate %q", s)
	}

	out, err := FromInfoDict(nil, info)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(in, out); d != "" {
		t.Error(d)
	}
}

func TestCustomDoesNotOverride(t *testing.T) {
	m := &PdfMetaData{
		Title:  "real title",
		Custom: map[string]string{"Title": "fake", "Nickname": "nick"},
	}
	info := m.InfoDict(time.Now())
	if s, _ := info["Title"].(pdf.String); string(s) != "real title" {
		t.Errorf("wrong /Title %q", s)
	}
	if s, _ := info["Nickname"].(pdf.String); string(s) != "nick" {
		t.Errorf("wrong /Nickname %q", s)
	}
}

func TestXMPRoundTrip(t *testing.T) {
	modified := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	buf := memfile.New()
	w, err := pdf.NewWriter(buf, pdf.V1_7)
	if err != nil {
		t.Fatal(err)
	}
	ref, err := testMeta.EmbedXMP(w, modified)
	if err != nil {
		t.Fatal(err)
	}
	catRef := w.Alloc()
	err = w.Put(catRef, pdf.Dict{"Type": pdf.Name("Catalog"), "Metadata": ref})
	if err != nil {
		t.Fatal(err)
	}
	err = w.Close(catRef, pdf.Reference{})
	if err != nil {
		t.Fatal(err)
	}

	r, err := pdf.NewReader(buf, buf.Size())
	if err != nil {
		t.Fatal(err)
	}
	packet, err := ReadXMP(r, r.Catalog()["Metadata"])
	if err != nil {
		t.Fatal(err)
	}
	original, err := testMeta.XMP(modified)
	if err != nil {
		t.Fatal(err)
	}

	var originalDC, extractedDC xmp.DublinCore
	original.Get(&originalDC)
	packet.Get(&extractedDC)
	if d := cmp.Diff(extractedDC, originalDC); d != "" {
		t.Errorf("round trip failed (-got +want):\n%s", d)
	}

	stm, err := pdf.GetStream(r, r.Catalog()["Metadata"])
	if err != nil {
		t.Fatal(err)
	}
	if stm.Dict["Filter"] != nil {
		t.Error("XMP stream is compressed")
	}
}

func TestXMPOldVersion(t *testing.T) {
	w, err := pdf.NewWriter(&bytes.Buffer{}, pdf.V1_3)
	if err != nil {
		t.Fatal(err)
	}
	_, err = testMeta.EmbedXMP(w, time.Now())
	if err == nil {
		t.Error("XMP stream written for PDF 1.3")
	}
}

func TestKeywordRoundTrip(t *testing.T) {
	m := &PdfMetaData{Keywords: []string{"UML", "class diagram", "Größe"}}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(m.Keywords, ParseKeywords(m.KeywordString())); d != "" {
		t.Error(d)
	}
}

func TestValidateKeywords(t *testing.T) {
	var empty *PdfMetaData
	if err := empty.Validate(); err != nil {
		t.Error(err)
	}
	for _, kw := range []string{"a, b", "a;b", "", " padded"} {
		m := &PdfMetaData{Keywords: []string{kw, "c"}}
		if err := m.Validate(); err == nil {
			t.Errorf("keyword %q accepted", kw)
		}
	}
}
