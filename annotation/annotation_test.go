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
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/image2pdf/internal/memfile"
	"seehuhn.de/go/image2pdf/pdf"
)

func testAnnotation() *FreeText {
	return &FreeText{
		Rect:     rect.Rect{LLx: 20, LLy: 38, URx: 200, URy: 86},
		Contents: "Created by Pyut 17 Oct 2026 09:30",
		Font:     Font{Family: "Helvetica", Bold: true},
		FontSize: 32,
		Color:    Color{R: 0.2, G: 0.4, B: 0.6},
		Flags:    FlagPrint,
		Name:     "9b2f8a1e-5a7c-4bb4-9a41-3f4f0f8e2c11",
		Modified: time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC),
	}
}

func TestDefaultAppearance(t *testing.T) {
	f := testAnnotation()
	if da := f.DefaultAppearance(); da != "/HeBo 32 Tf .2 .4 .6 rg" {
		t.Errorf("wrong /DA %q", da)
	}
	if ds := f.DefaultStyle(); ds != "font: bold Helvetica 32pt; color: #336699" {
		t.Errorf("wrong /DS %q", ds)
	}
}

func TestRoundTrip(t *testing.T) {
	in := testAnnotation()

	buf := memfile.New()
	w, err := pdf.NewWriter(buf, pdf.V1_7)
	if err != nil {
		t.Fatal(err)
	}
	pageRef := w.Alloc()
	annotRef, err := in.Embed(w, pageRef)
	if err != nil {
		t.Fatal(err)
	}
	err = w.Put(pageRef, pdf.Dict{"Type": pdf.Name("Page"), "Annots": pdf.Array{annotRef}})
	if err != nil {
		t.Fatal(err)
	}
	catRef := w.Alloc()
	err = w.Put(catRef, pdf.Dict{"Type": pdf.Name("Catalog"), "Page": pageRef})
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
	page, err := pdf.GetDict(r, r.Catalog()["Page"])
	if err != nil {
		t.Fatal(err)
	}
	annots, err := pdf.GetArray(r, page["Annots"])
	if err != nil {
		t.Fatal(err)
	}
	if len(annots) != 1 {
		t.Fatalf("expected 1 annotation, got %d", len(annots))
	}

	out, err := Extract(r, annots[0])
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(in, out, cmpopts.EquateApprox(0, 1e-3)); d != "" {
		t.Error(d)
	}

	// check the appearance stream
	dict, err := pdf.GetDict(r, annots[0])
	if err != nil {
		t.Fatal(err)
	}
	if dict["P"] != pageRef {
		t.Errorf("wrong /P entry %s", pdf.Format(dict["P"]))
	}
	ap, err := pdf.GetDict(r, dict["AP"])
	if err != nil {
		t.Fatal(err)
	}
	form, err := pdf.GetStream(r, ap["N"])
	if err != nil {
		t.Fatal(err)
	}
	body, err := pdf.DecodeStream(r, form)
	if err != nil {
		t.Fatal(err)
	}
	content, err := io.ReadAll(body)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"/HeBo 32 Tf", "(Created by Pyut 17 Oct 2026 09:30) Tj", "20 38 180 48 re W n"} {
		if !bytes.Contains(content, []byte(want)) {
			t.Errorf("appearance stream does not contain %q:\n%s", want, content)
		}
	}
}

func TestInvalid(t *testing.T) {
	w, err := pdf.NewWriter(io.Discard, pdf.V1_7)
	if err != nil {
		t.Fatal(err)
	}
	page := w.Alloc()

	f := testAnnotation()
	f.Rect = rect.Rect{LLx: 20, LLy: 86, URx: 200, URy: 38}
	if _, err := f.Embed(w, page); err == nil {
		t.Error("inverted rectangle accepted")
	}

	f = testAnnotation()
	f.FontSize = 0
	if _, err := f.Embed(w, page); err == nil {
		t.Error("zero font size accepted")
	}
}

func TestFonts(t *testing.T) {
	cases := []struct {
		name         string
		bold, italic bool
		base         pdf.Name
	}{
		{"Arial", false, false, "Helvetica"},
		{"Helvetica", true, false, "Helvetica-Bold"},
		{"helvetica", true, true, "Helvetica-BoldOblique"},
		{"Times New Roman", false, true, "Times-Italic"},
		{"Courier", true, false, "Courier-Bold"},
	}
	for _, test := range cases {
		family, err := ParseFamily(test.name)
		if err != nil {
			t.Fatal(err)
		}
		f := Font{Family: family, Bold: test.bold, Italic: test.italic}
		if base := f.BaseFont(); base != test.base {
			t.Errorf("%s: got %s, want %s", test.name, base, test.base)
		}
		back, ok := fontFromResourceName(f.ResourceName())
		if !ok || back != f {
			t.Errorf("%s: resource name %s maps back to %v", test.name, f.ResourceName(), back)
		}
	}

	if _, err := ParseFamily("Comic Sans"); err == nil {
		t.Error("unsupported font accepted")
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in  string
		hex string
	}{
		{"000000", "#000000"},
		{"#FF8000", "#ff8000"},
		{"fff", "#ffffff"},
		{" 336699 ", "#336699"},
	}
	for _, test := range cases {
		c, err := ParseColor(test.in)
		if err != nil {
			t.Errorf("%q: %s", test.in, err)
			continue
		}
		if h := c.Hex(); h != test.hex {
			t.Errorf("%q: got %s, want %s", test.in, h, test.hex)
		}
	}
	for _, in := range []string{"", "12345", "gggggg", "#1234567"} {
		if _, err := ParseColor(in); err == nil {
			t.Errorf("invalid color %q accepted", in)
		}
	}
}

func TestWinAnsi(t *testing.T) {
	got := winAnsi("Grüße – 5€ 日")
	want := []byte("Gr\xfc\xdfe \x96 5\x80 ?")
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
	if strings.Contains(string(winAnsi("plain")), "?") {
		t.Error("ASCII text modified")
	}
}

func TestFlagValues(t *testing.T) {
	cases := []struct {
		flag Flags
		val  int
	}{
		{FlagInvisible, 1},
		{FlagHidden, 2},
		{FlagPrint, 4},
		{FlagNoZoom, 8},
		{FlagLockedContents, 512},
	}
	for _, test := range cases {
		if int(test.flag) != test.val {
			t.Errorf("flag %d has value %d", test.val, test.flag)
		}
	}
}

func TestSharedFont(t *testing.T) {
	buf := memfile.New()
	w, err := pdf.NewWriter(buf, pdf.V1_7)
	if err != nil {
		t.Fatal(err)
	}
	f := testAnnotation()
	f.FontRef, err = f.Font.Embed(w)
	if err != nil {
		t.Fatal(err)
	}
	pageRef := w.Alloc()
	annotRef, err := f.Embed(w, pageRef)
	if err != nil {
		t.Fatal(err)
	}
	catRef := w.Alloc()
	err = w.Put(catRef, pdf.Dict{
		"Type":  pdf.Name("Catalog"),
		"Annot": annotRef,
		"DR":    DefaultResources(f.Font, f.FontRef),
	})
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
	dict, err := pdf.GetDict(r, r.Catalog()["Annot"])
	if err != nil {
		t.Fatal(err)
	}
	ap, err := pdf.GetDict(r, dict["AP"])
	if err != nil {
		t.Fatal(err)
	}
	form, err := pdf.GetStream(r, ap["N"])
	if err != nil {
		t.Fatal(err)
	}
	res, err := pdf.GetDict(r, form.Dict["Resources"])
	if err != nil {
		t.Fatal(err)
	}
	fonts, err := pdf.GetDict(r, res["Font"])
	if err != nil {
		t.Fatal(err)
	}
	if fonts["HeBo"] != f.FontRef {
		t.Errorf("appearance uses font %s, want %s", pdf.Format(fonts["HeBo"]), f.FontRef)
	}

	dr, err := pdf.GetDict(r, r.Catalog()["DR"])
	if err != nil {
		t.Fatal(err)
	}
	drFonts, err := pdf.GetDict(r, dr["Font"])
	if err != nil {
		t.Fatal(err)
	}
	if drFonts["HeBo"] != f.FontRef {
		t.Errorf("default resources use font %s", pdf.Format(drFonts["HeBo"]))
	}
}
