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
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Object represents an object in a PDF file.  There are nine native types of
// PDF objects, which implement this interface: Array, Bool, Dict, Integer,
// Name, Real, Reference, *Stream, and String.  The PDF null object is
// represented by a nil Object.
type Object interface {
	// PDF writes the PDF file representation of the object to w.
	PDF(w io.Writer) error
}

// Bool represents a boolean value in a PDF file.
type Bool bool

// PDF implements the [Object] interface.
func (x Bool) PDF(w io.Writer) error {
	_, err := io.WriteString(w, strconv.FormatBool(bool(x)))
	return err
}

// Integer represents an integer constant in a PDF file.
type Integer int64

// PDF implements the [Object] interface.
func (x Integer) PDF(w io.Writer) error {
	_, err := io.WriteString(w, strconv.FormatInt(int64(x), 10))
	return err
}

// Real represents a real number in a PDF file.
type Real float64

// PDF implements the [Object] interface.
// PDF has no exponent notation, so the number is always written in
// positional form with a decimal point.
func (x Real) PDF(w io.Writer) error {
	s := strconv.FormatFloat(float64(x), 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += "."
	}
	_, err := io.WriteString(w, s)
	return err
}

// Name represents a name in a PDF file.
type Name string

// PDF implements the [Object] interface.
func (x Name) PDF(w io.Writer) error {
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 0, len(x)+1)
	buf = append(buf, '/')
	for i := range len(x) {
		c := x[i]
		if c < 0x21 || c > 0x7e || c == '#' || isDelimiter[c] {
			buf = append(buf, '#', hexDigits[c>>4], hexDigits[c&15])
		} else {
			buf = append(buf, c)
		}
	}
	_, err := w.Write(buf)
	return err
}

// Array represent an array of objects in a PDF file.
type Array []Object

// PDF implements the [Object] interface.
func (x Array) PDF(w io.Writer) error {
	ow := &objWriter{w: w}
	ow.str("[")
	for i, val := range x {
		if i > 0 {
			ow.str(" ")
		}
		ow.obj(val)
	}
	ow.str("]")
	return ow.err
}

// Dict represent a Dictionary object in a PDF file.
type Dict map[Name]Object

// PDF implements the [Object] interface.
//
// The keys are written in sorted order, so that the output is
// deterministic.  Entries with a nil value are omitted.
func (x Dict) PDF(w io.Writer) error {
	ow := &objWriter{w: w}
	if x == nil {
		ow.str("null")
		return ow.err
	}

	ow.str("<<")
	for _, key := range slices.Sorted(maps.Keys(x)) {
		val := x[key]
		if val == nil {
			continue
		}
		ow.str("\n")
		ow.obj(key)
		ow.str(" ")
		ow.obj(val)
	}
	ow.str("\n>>")
	return ow.err
}

// Clone returns a shallow copy of the dictionary.
func (x Dict) Clone() Dict {
	if x == nil {
		return nil
	}
	return maps.Clone(x)
}

// Stream represent a stream object in a PDF file.
//
// R gives the raw, still encoded, stream data.
type Stream struct {
	Dict
	R io.Reader
}

// PDF implements the [Object] interface.
//
// The /Length entry of the dictionary must match the number of bytes
// available from R.
func (x *Stream) PDF(w io.Writer) error {
	ow := &objWriter{w: w}
	ow.obj(x.Dict)
	ow.str("\nstream\n")
	if x.R != nil && ow.err == nil {
		_, ow.err = io.Copy(w, x.R)
	}
	ow.str("\nendstream")
	return ow.err
}

// Reference represents a reference to an indirect object in a PDF file.
type Reference struct {
	Number     int
	Generation uint16
}

func (x Reference) String() string {
	s := "obj_" + strconv.Itoa(x.Number)
	if x.Generation > 0 {
		s += "@" + strconv.FormatUint(uint64(x.Generation), 10)
	}
	return s
}

// PDF implements the [Object] interface.
func (x Reference) PDF(w io.Writer) error {
	buf := strconv.AppendInt(nil, int64(x.Number), 10)
	buf = append(buf, ' ')
	buf = strconv.AppendUint(buf, uint64(x.Generation), 10)
	buf = append(buf, " R"...)
	_, err := w.Write(buf)
	return err
}

// Format returns the PDF representation of an object as a string.
// Stream data is not included.
func Format(obj Object) string {
	if stm, ok := obj.(*Stream); ok {
		obj = stm.Dict
	}
	buf := &bytes.Buffer{}
	ow := &objWriter{w: buf}
	ow.obj(obj)
	if ow.err != nil {
		return "<" + ow.err.Error() + ">"
	}
	return buf.String()
}

// objWriter serializes a sequence of tokens and objects.  After the first
// error, all further output is discarded and the error is kept in err.
type objWriter struct {
	w   io.Writer
	err error
}

func (ow *objWriter) str(s string) {
	if ow.err == nil {
		_, ow.err = io.WriteString(ow.w, s)
	}
}

func (ow *objWriter) obj(obj Object) {
	switch {
	case ow.err != nil:
	case obj == nil:
		ow.str("null")
	default:
		ow.err = obj.PDF(ow.w)
	}
}

// Character classes of the PDF lexer.
var isSpace, isDelimiter [256]bool

func init() {
	for _, c := range []byte{0, '\t', '\n', '\f', '\r', ' '} {
		isSpace[c] = true
	}
	for _, c := range []byte("()<>[]{}/%") {
		isDelimiter[c] = true
	}
}
