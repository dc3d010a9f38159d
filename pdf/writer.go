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
	"fmt"
	"io"
	"os"
)

// Writer represents a PDF file open for writing.
// Use [Create] or [NewWriter] to create a new Writer.
//
// Objects are written in the order in which [Writer.Put] is called.  The
// cross-reference table and the trailer are written by [Writer.Close].
type Writer struct {
	// Version is the PDF version of the file, as given in the file header.
	Version Version

	// ID, if set, is written as the /ID entry of the trailer.  This must be
	// either nil or a slice of two byte slices.
	ID [][]byte

	w       *posWriter
	closer  io.Closer
	nextRef int
	xref    map[int]int64
	inStm   bool
}

// Create creates the named PDF file and opens it for output.  If a previous
// file with the same name exists, it is overwritten.  After writing is
// complete, Close() must be called to write the trailer and to close the
// underlying file.
func Create(name string, v Version) (*Writer, error) {
	fd, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(fd, v)
	if err != nil {
		fd.Close()
		return nil, err
	}
	w.closer = fd
	return w, nil
}

// NewWriter prepares a PDF file for writing.
//
// The underlying writer is not closed by [Writer.Close].
func NewWriter(w io.Writer, v Version) (*Writer, error) {
	versionString, err := v.ToString()
	if err != nil {
		return nil, err
	}

	pdf := &Writer{
		Version: v,
		w:       &posWriter{w: w},
		nextRef: 1,
		xref:    make(map[int]int64),
	}

	_, err = fmt.Fprintf(pdf.w, "%%PDF-%s\n%%\x80\x80\x80\x80\n", versionString)
	if err != nil {
		return nil, err
	}

	return pdf, nil
}

// Alloc allocates an object number for an indirect object.
func (pdf *Writer) Alloc() Reference {
	res := Reference{
		Number: pdf.nextRef,
	}
	pdf.nextRef++
	return res
}

// Put writes an indirect object to the PDF file, using the given reference.
// Each reference can be used at most once.
func (pdf *Writer) Put(ref Reference, obj Object) error {
	if pdf.w == nil {
		return errClosed
	}
	if pdf.inStm {
		return errors.New("Put() while stream is open")
	}
	if ref.Number <= 0 || ref.Number >= pdf.nextRef {
		return fmt.Errorf("reference %s was not allocated", ref)
	}
	if _, seen := pdf.xref[ref.Number]; seen {
		return fmt.Errorf("object %s already written", ref)
	}

	pos := pdf.w.pos
	_, err := fmt.Fprintf(pdf.w, "%d %d obj\n", ref.Number, ref.Generation)
	if err != nil {
		return err
	}
	if obj == nil {
		_, err = io.WriteString(pdf.w, "null")
	} else {
		err = obj.PDF(pdf.w)
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(pdf.w, "\nendobj\n")
	if err != nil {
		return err
	}

	pdf.xref[ref.Number] = pos
	return nil
}

// OpenStream adds a PDF Stream to the file and returns an io.WriteCloser
// which can be used to add the stream's data.  No other objects can be
// added to the file until the stream is closed.
//
// The /Length, /Filter and /DecodeParms entries of dict are filled in by
// the Writer.  Filters are applied in the order given.
func (pdf *Writer) OpenStream(ref Reference, dict Dict, filters ...Filter) (io.WriteCloser, error) {
	if pdf.w == nil {
		return nil, errClosed
	}
	if pdf.inStm {
		return nil, errors.New("cannot nest streams")
	}

	dict = dict.Clone()
	if dict == nil {
		dict = Dict{}
	}
	var names Array
	var parms Array
	hasParms := false
	for i := len(filters) - 1; i >= 0; i-- {
		name, p := filters[i].Info()
		names = append(names, name)
		if p != nil {
			hasParms = true
			parms = append(parms, p)
		} else {
			parms = append(parms, nil)
		}
	}
	switch len(names) {
	case 0:
		// pass
	case 1:
		dict["Filter"] = names[0]
		if hasParms {
			dict["DecodeParms"] = parms[0]
		}
	default:
		dict["Filter"] = names
		if hasParms {
			dict["DecodeParms"] = parms
		}
	}

	stm := &streamWriter{
		parent: pdf,
		ref:    ref,
		dict:   dict,
	}
	var w io.WriteCloser = stm
	for i := len(filters) - 1; i >= 0; i-- {
		var err error
		w, err = filters[i].Encode(w)
		if err != nil {
			return nil, err
		}
	}
	pdf.inStm = true
	return w, nil
}

type streamWriter struct {
	parent *Writer
	ref    Reference
	dict   Dict
	buf    bytes.Buffer
}

func (w *streamWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *streamWriter) Close() error {
	w.parent.inStm = false
	w.dict["Length"] = Integer(w.buf.Len())
	stm := &Stream{
		Dict: w.dict,
		R:    &w.buf,
	}
	return w.parent.Put(w.ref, stm)
}

// Close writes the cross-reference table and the trailer.  If the Writer
// was created using [Create], the underlying file is closed.
//
// Catalog must refer to the document catalog.  Info, if non-zero, refers to
// the document information dictionary.
func (pdf *Writer) Close(catalog, info Reference) error {
	if pdf.w == nil {
		return errClosed
	}
	if pdf.inStm {
		return errors.New("Close() while stream is open")
	}
	if catalog.Number == 0 {
		return errors.New("missing /Catalog")
	}

	trailer := Dict{
		"Size": Integer(pdf.nextRef),
		"Root": catalog,
	}
	if info.Number != 0 {
		trailer["Info"] = info
	}
	if len(pdf.ID) == 2 {
		trailer["ID"] = Array{String(pdf.ID[0]), String(pdf.ID[1])}
	}

	xRefPos := pdf.w.pos
	err := pdf.writeXRefTable(trailer)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(pdf.w, "\nstartxref\n%d\n%%%%EOF\n", xRefPos)
	if err != nil {
		return err
	}

	pdf.w = nil
	if pdf.closer != nil {
		return pdf.closer.Close()
	}
	return nil
}

func (pdf *Writer) writeXRefTable(trailer Dict) error {
	_, err := fmt.Fprintf(pdf.w, "xref\n0 %d\n", pdf.nextRef)
	if err != nil {
		return err
	}
	for i := 0; i < pdf.nextRef; i++ {
		pos, ok := pdf.xref[i]
		if ok {
			_, err = fmt.Fprintf(pdf.w, "%010d %05d n\r\n", pos, 0)
		} else {
			_, err = io.WriteString(pdf.w, "0000000000 65535 f\r\n")
		}
		if err != nil {
			return err
		}
	}

	_, err = io.WriteString(pdf.w, "trailer\n")
	if err != nil {
		return err
	}
	return trailer.PDF(pdf.w)
}

type posWriter struct {
	w   io.Writer
	pos int64
}

func (w *posWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.pos += int64(n)
	return n, err
}

var errClosed = errors.New("PDF writer is closed")
