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
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testScanner(in string) *scanner {
	data := []byte(in)
	getInt := func(obj Object) (Integer, error) {
		x, ok := obj.(Integer)
		if !ok {
			return 0, errors.New("no direct length")
		}
		return x, nil
	}
	return newScanner(bytes.NewReader(data), int64(len(data)), 0, getInt)
}

func TestRefill(t *testing.T) {
	in := strings.Repeat("0123456789", 300)
	s := testScanner(in)

	err := s.Discard(1505)
	if err != nil {
		t.Fatal(err)
	}
	buf, err := s.Peek(10)
	if err != nil {
		t.Fatal(err)
	}
	if string(buf) != "5678901234" {
		t.Errorf("wrong data %q", buf)
	}
	if pos := s.filePos(); pos != 1505 {
		t.Errorf("wrong position %d", pos)
	}
}

func TestParseString(t *testing.T) {
	cases := []struct {
		in  string
		out String
	}{
		{`()`, String(nil)},
		{"(test string)", String("test string")},
		{`(he(ll)o)`, String("he(ll)o")},
		{`(he\)ll\(o)`, String("he)ll(o")},
		{"(hello\n)", String("hello\n")},
		{"(a\r\nb)", String("a\nb")},
		{"(hell\\\no)", String("hello")},
		{"(hell\\\r\no)", String("hello")},
		{`(h\145llo)`, String("hello")},
		{`(\0612)`, String("12")},
		{`(\7)`, String("\007")},
		{"<>", String(nil)},
		{"<68656c6c6f>", String("hello")},
		{"<68 65 6C 6C 6F>", String("hello")},
		{"<68656C7>", String("help")},
	}
	for i, test := range cases {
		obj, err := testScanner(test.in).ReadObject()
		if err != nil {
			t.Errorf("%d %q: %s", i, test.in, err)
			continue
		}
		out, ok := obj.(String)
		if !ok {
			t.Errorf("%d %q: wrong type %T", i, test.in, obj)
		} else if !bytes.Equal(out, test.out) {
			t.Errorf("wrong string: %q != %q", out, test.out)
		}
	}
}

func TestReadObject(t *testing.T) {
	cases := []struct {
		in  string
		out Object
	}{
		{"null", nil},
		{"true", Bool(true)},
		{"false ", Bool(false)},
		{"123", Integer(123)},
		{"-17 ", Integer(-17)},
		{"+.5", Real(0.5)},
		{"/Name", Name("Name")},
		{"/A#20B ", Name("A B")},
		{"[1 2 R 3]", Array{Reference{Number: 1, Generation: 2}, Integer(3)}},
		{"[/a (b) [1.5]]", Array{Name("a"), String("b"), Array{Real(1.5)}}},
		{"<</Type/Page/Parent 4 0 R/Rotate 90>>", Dict{
			"Type":   Name("Page"),
			"Parent": Reference{Number: 4},
			"Rotate": Integer(90),
		}},
		{"<< /A % comment\n 1 >>", Dict{"A": Integer(1)}},
		{"[1 2 3]", Array{Integer(1), Integer(2), Integer(3)}},
		{"[1 2]", Array{Integer(1), Integer(2)}},
		{"<</A null/B 1>>", Dict{"B": Integer(1)}},
		{"<</Kids[3 0 R 4 0 R]>>", Dict{"Kids": Array{Reference{Number: 3}, Reference{Number: 4}}}},
	}
	for _, test := range cases {
		out, err := testScanner(test.in).ReadObject()
		if err != nil {
			t.Errorf("%q: %s", test.in, err)
			continue
		}
		if d := cmp.Diff(test.out, out); d != "" {
			t.Errorf("%q: %s", test.in, d)
		}
	}
}

func TestReadStream(t *testing.T) {
	in := "3 0 obj\n<</Length 5>>\nstream\nhello\nendstream\nendobj\n"
	obj, ref, err := testScanner(in).ReadIndirectObject()
	if err != nil {
		t.Fatal(err)
	}
	if ref != (Reference{Number: 3}) {
		t.Errorf("wrong reference %s", ref)
	}
	stm, ok := obj.(*Stream)
	if !ok {
		t.Fatalf("wrong type %T", obj)
	}
	data, err := io.ReadAll(stm.R)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello" {
		t.Errorf("wrong stream data %q", data)
	}
}

func TestReadIndirectReference(t *testing.T) {
	in := "7 1 obj 12 0 R endobj"
	obj, ref, err := testScanner(in).ReadIndirectObject()
	if err != nil {
		t.Fatal(err)
	}
	if ref != (Reference{Number: 7, Generation: 1}) {
		t.Errorf("wrong reference %s", ref)
	}
	if obj != (Reference{Number: 12}) {
		t.Errorf("wrong object %s", Format(obj))
	}
}

func TestSkipWhiteSpace(t *testing.T) {
	s := testScanner("  % comment\r\n\t x")
	err := s.SkipWhiteSpace()
	if err != nil {
		t.Fatal(err)
	}
	buf, _ := s.Peek(1)
	if string(buf) != "x" {
		t.Errorf("wrong position, next byte is %q", buf)
	}
}

func TestReadHeaderVersion(t *testing.T) {
	cases := []struct {
		in  string
		ver Version
		ok  bool
	}{
		{"%PDF-1.0\n", V1_0, true},
		{"%PDF-1.7\r\n", V1_7, true},
		{"%PDF-1.8\n", 0, false},
		{"%PDF-1.10\n", 0, false},
		{"hello", 0, false},
	}
	for _, test := range cases {
		ver, err := testScanner(test.in).readHeaderVersion()
		if test.ok && err != nil {
			t.Errorf("%q: %s", test.in, err)
		} else if !test.ok && err == nil {
			t.Errorf("%q: invalid header accepted", test.in)
		} else if ver != test.ver {
			t.Errorf("%q: got version %s", test.in, ver)
		}
	}
}

func TestMalformed(t *testing.T) {
	cases := []string{
		"<</A>>",
		"<<1 2>>",
		"(unterminated",
		"<12x4>",
		"1.2.3",
		"[1 2",
		")",
		"1 -2 R",
	}
	for _, in := range cases {
		_, err := testScanner(in).ReadObject()
		var mErr *MalformedFileError
		if !errors.As(err, &mErr) {
			t.Errorf("%q: expected MalformedFileError, got %v", in, err)
		}
	}
}
