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

package pagetree

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/image2pdf/pdf"
)

func writeTree(t *testing.T, n int) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	w, err := pdf.NewWriter(buf, pdf.V1_7)
	if err != nil {
		t.Fatal(err)
	}

	tree := NewWriter(w)
	tree.Attr = pdf.Dict{
		"MediaBox": pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Integer(100), pdf.Integer(88)},
	}
	for i := range n {
		page := pdf.Dict{"Rotate": pdf.Integer(90 * i)}
		if i == 1 {
			page["MediaBox"] = pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Integer(10), pdf.Integer(20)}
		}
		_, err := tree.AppendPage(page)
		if err != nil {
			t.Fatal(err)
		}
	}
	pagesRef, err := tree.Close()
	if err != nil {
		t.Fatal(err)
	}

	catRef := w.Alloc()
	err = w.Put(catRef, pdf.Dict{"Type": pdf.Name("Catalog"), "Pages": pagesRef})
	if err != nil {
		t.Fatal(err)
	}
	err = w.Close(catRef, pdf.Reference{})
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestGetPage(t *testing.T) {
	data := writeTree(t, 3)
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}

	n, err := NumPages(r)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("wrong page count %d", n)
	}

	wantBoxes := [][4]float64{{0, 0, 100, 88}, {0, 0, 10, 20}, {0, 0, 100, 88}}
	for i := range 3 {
		page, err := GetPage(r, i)
		if err != nil {
			t.Fatal(err)
		}
		if page["Rotate"] != pdf.Integer(90*i) {
			t.Errorf("page %d: wrong /Rotate %s", i, pdf.Format(page["Rotate"]))
		}
		box, err := pdf.GetRectangle(r, page["MediaBox"])
		if err != nil {
			t.Fatal(err)
		}
		got := [4]float64{box.LLx, box.LLy, box.URx, box.URy}
		if d := cmp.Diff(wantBoxes[i], got); d != "" {
			t.Errorf("page %d: %s", i, d)
		}
	}

	_, err = GetPage(r, 3)
	if !errors.Is(err, pdf.ErrNoPages) {
		t.Errorf("expected ErrNoPages, got %v", err)
	}
}

func TestEmptyTree(t *testing.T) {
	w, err := pdf.NewWriter(&bytes.Buffer{}, pdf.V1_7)
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewWriter(w).Close()
	if !errors.Is(err, pdf.ErrNoPages) {
		t.Errorf("expected ErrNoPages, got %v", err)
	}
}
