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

import (
	"bytes"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// writeTestFile writes a small document with one compressed stream.
func writeTestFile(t *testing.T) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, V1_7)
	if err != nil {
		t.Fatal(err)
	}
	w.ID = [][]byte{[]byte("0123456789abcdef"), []byte("0123456789abcdef")}

	catRef := w.Alloc()
	infoRef := w.Alloc()
	stmRef := w.Alloc()

	err = w.Put(catRef, Dict{
		"Type":    Name("Catalog"),
		"Content": stmRef,
	})
	if err != nil {
		t.Fatal(err)
	}
	err = w.Put(infoRef, Dict{
		"Title": TextString("Größe"),
	})
	if err != nil {
		t.Fatal(err)
	}

	stm, err := w.OpenStream(stmRef, Dict{"Type": Name("Test")}, FilterFlate{})
	if err != nil {
		t.Fatal(err)
	}
	_, err = io.WriteString(stm, "q 1 0 0 1 0 0 cm Q\n")
	if err != nil {
		t.Fatal(err)
	}
	err = stm.Close()
	if err != nil {
		t.Fatal(err)
	}

	err = w.Close(catRef, infoRef)
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestWriterReaderRoundTrip(t *testing.T) {
	data := writeTestFile(t)

	r, err := NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	if r.Version != V1_7 {
		t.Errorf("wrong version %s", r.Version)
	}
	if d := cmp.Diff([][]byte{[]byte("0123456789abcdef"), []byte("0123456789abcdef")}, r.ID); d != "" {
		t.Error(d)
	}

	if tp := r.Catalog()["Type"]; tp != Name("Catalog") {
		t.Errorf("wrong catalog type %s", Format(tp))
	}

	info, err := r.Info()
	if err != nil {
		t.Fatal(err)
	}
	title, err := GetTextString(r, info["Title"])
	if err != nil {
		t.Fatal(err)
	}
	if title != "Größe" {
		t.Errorf("wrong title %q", title)
	}

	stm, err := GetStream(r, r.Catalog()["Content"])
	if err != nil {
		t.Fatal(err)
	}
	body, err := DecodeStream(r, stm)
	if err != nil {
		t.Fatal(err)
	}
	content, err := io.ReadAll(body)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "q 1 0 0 1 0 0 cm Q\n" {
		t.Errorf("wrong stream content %q", content)
	}
}

func TestWriterErrors(t *testing.T) {
	w, err := NewWriter(io.Discard, V1_4)
	if err != nil {
		t.Fatal(err)
	}
	ref := w.Alloc()

	if err := w.Put(Reference{Number: 5}, Integer(1)); err == nil {
		t.Error("unallocated reference accepted")
	}
	if err := w.Put(ref, Integer(1)); err != nil {
		t.Fatal(err)
	}
	if err := w.Put(ref, Integer(2)); err == nil {
		t.Error("duplicate object accepted")
	}
	if err := w.Close(Reference{}, Reference{}); err == nil {
		t.Error("missing catalog accepted")
	}

	if _, err := NewWriter(io.Discard, Version(99)); err == nil {
		t.Error("invalid version accepted")
	}
}

func TestMissingObject(t *testing.T) {
	data := writeTestFile(t)
	r, err := NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	obj, err := r.Get(Reference{Number: 99})
	if err != nil {
		t.Fatal(err)
	}
	if obj != nil {
		t.Errorf("missing object read as %s", Format(obj))
	}
}

func TestNotPDF(t *testing.T) {
	data := []byte("%PDF-1.7\nthis is not really a PDF file\n")
	_, err := NewReader(bytes.NewReader(data), int64(len(data)))
	if err == nil {
		t.Error("broken file accepted")
	}
}

func TestCopier(t *testing.T) {
	data := writeTestFile(t)
	r, err := NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}

	out := &bytes.Buffer{}
	w, err := NewWriter(out, V1_7)
	if err != nil {
		t.Fatal(err)
	}
	c := NewCopier(w, r)

	// leave a gap, so that object numbers change
	w.Alloc()
	gapRef := w.Alloc()
	err = w.Put(gapRef, Integer(0))
	if err != nil {
		t.Fatal(err)
	}

	cat, err := c.CopyDict(r.Catalog())
	if err != nil {
		t.Fatal(err)
	}
	catRef := w.Alloc()
	err = w.Put(catRef, cat)
	if err != nil {
		t.Fatal(err)
	}
	err = w.Close(catRef, Reference{})
	if err != nil {
		t.Fatal(err)
	}

	r2, err := NewReader(bytes.NewReader(out.Bytes()), int64(out.Len()))
	if err != nil {
		t.Fatal(err)
	}
	stm, err := GetStream(r2, r2.Catalog()["Content"])
	if err != nil {
		t.Fatal(err)
	}
	if stm == nil {
		t.Fatal("stream not copied")
	}
	body, err := DecodeStream(r2, stm)
	if err != nil {
		t.Fatal(err)
	}
	content, err := io.ReadAll(body)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "q 1 0 0 1 0 0 cm Q\n" {
		t.Errorf("wrong stream content %q", content)
	}
}
