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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseXRefEntry(t *testing.T) {
	cases := []struct {
		in  string
		out *xRefEntry
	}{
		{"0000000017 00000 n\r\n", &xRefEntry{Pos: 17}},
		{"0000001234 00002 n \n", &xRefEntry{Pos: 1234, Generation: 2}},
		{"0000000000 65535 f\r\n", &xRefEntry{Pos: -1, Generation: 65535}},
		{"0000000000 65536 f\r\n", &xRefEntry{Pos: -1, Generation: 65535}},
		{"0000000017 65536 n\r\n", nil},
		{"0000000017 00000 x\r\n", nil},
		{"17 0 n\r\n", nil},
	}
	for _, test := range cases {
		out, err := parseXRefEntry([]byte(test.in))
		if test.out == nil {
			if err == nil {
				t.Errorf("%q: malformed entry accepted", test.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %s", test.in, err)
		} else if d := cmp.Diff(test.out, out); d != "" {
			t.Errorf("%q: %s", test.in, d)
		}
	}
}

// TestIncrementalUpdate checks that entries of a later xref section
// override the earlier section reached via /Prev.
func TestIncrementalUpdate(t *testing.T) {
	buf := &bytes.Buffer{}
	offsets := map[string]int{}
	mark := func(name string) { offsets[name] = buf.Len() }

	buf.WriteString("%PDF-1.4\n")
	mark("obj1")
	buf.WriteString("1 0 obj\n<</Type/Catalog/Marker 1>>\nendobj\n")
	mark("xref1")
	buf.WriteString("xref\n0 2\n0000000000 65535 f\r\n")
	buf.WriteString(padOffset(offsets["obj1"]) + " 00000 n\r\n")
	buf.WriteString("trailer\n<</Size 2/Root 1 0 R>>\n")
	mark("obj1b")
	buf.WriteString("1 0 obj\n<</Type/Catalog/Marker 2>>\nendobj\n")
	mark("xref2")
	buf.WriteString("xref\n1 1\n" + padOffset(offsets["obj1b"]) + " 00000 n\r\n")
	buf.WriteString("trailer\n<</Size 2/Root 1 0 R/Prev " + itoa(offsets["xref1"]) + ">>\n")
	buf.WriteString("startxref\n" + itoa(offsets["xref2"]) + "\n%%EOF\n")

	data := buf.Bytes()
	r, err := NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	if m := r.Catalog()["Marker"]; m != Integer(2) {
		t.Errorf("wrong catalog version, marker %s", Format(m))
	}
	if len(r.xref) != 2 || !r.xref[0].IsFree() {
		t.Errorf("wrong xref table %v", r.xref)
	}
}

func TestXRefStream(t *testing.T) {
	in := "%PDF-1.5\n1 0 obj\n<</Type/XRef/Size 1/Length 0>>\nstream\n\nendstream\nendobj\nstartxref\n9\n%%EOF\n"
	_, err := NewReader(bytes.NewReader([]byte(in)), int64(len(in)))
	if err == nil {
		t.Error("xref stream accepted")
	}
}

func padOffset(x int) string {
	s := itoa(x)
	for len(s) < 10 {
		s = "0" + s
	}
	return s
}

func itoa(x int) string {
	return Format(Integer(x))
}
