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
	"errors"
	"fmt"
	"io"
	"os"
)

// Reader represents a pdf file opened for reading.  Use [Open] or
// [NewReader] to create a new Reader.
//
// Only files with classic cross-reference tables are supported.
type Reader struct {
	// Version is the PDF version used in this file.  This is specified in
	// the initial comment at the start of the file, and may be overridden by
	// the /Version entry in the document catalog.
	Version Version

	// The ID of the file.  This is either a slice of two byte slices, or nil
	// if the file does not specify an ID.
	ID [][]byte

	size   int64
	r      io.ReaderAt
	closer io.Closer

	xref    map[int]*xRefEntry
	trailer Dict
	catalog Dict

	level int
}

// Open opens the named PDF file for reading.  After use, [Reader.Close] must
// be called to close the file the Reader is reading from.
func Open(fname string) (*Reader, error) {
	fd, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	fi, err := fd.Stat()
	if err != nil {
		fd.Close()
		return nil, err
	}
	r, err := NewReader(fd, fi.Size())
	if err != nil {
		fd.Close()
		return nil, err
	}
	r.closer = fd
	return r, nil
}

// NewReader creates a new Reader object.
func NewReader(data io.ReaderAt, size int64) (*Reader, error) {
	r := &Reader{
		size: size,
		r:    data,
	}

	s := r.scannerAt(0)
	version, err := s.readHeaderVersion()
	if err != nil {
		return nil, err
	}
	r.Version = version

	xref, trailer, err := r.readXRef()
	if err != nil {
		return nil, err
	}
	r.xref = xref
	r.trailer = trailer

	if ID, ok := trailer["ID"].(Array); ok && len(ID) >= 2 {
		for i := range 2 {
			s, ok := ID[i].(String)
			if !ok {
				break
			}
			r.ID = append(r.ID, []byte(s))
		}
		if len(r.ID) != 2 {
			r.ID = nil
		}
	}

	catalog, err := GetDict(r, trailer["Root"])
	if err != nil {
		return nil, err
	}
	if catalog == nil {
		return nil, &MalformedFileError{Err: errors.New("missing document catalog")}
	}
	r.catalog = catalog

	if name, ok := catalog["Version"].(Name); ok {
		v, err := ParseVersion(string(name))
		if err == nil && v > r.Version {
			r.Version = v
		}
	}

	return r, nil
}

// Close closes the file underlying the Reader, if it was opened with [Open].
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// Trailer returns the trailer dictionary of the file.
func (r *Reader) Trailer() Dict {
	return r.trailer
}

// Catalog returns the document catalog.
func (r *Reader) Catalog() Dict {
	return r.catalog
}

// Info returns the document information dictionary.
// If the file has no information dictionary, nil is returned.
func (r *Reader) Info() (Dict, error) {
	return GetDict(r, r.trailer["Info"])
}

// Get reads an indirect object from the file.  Free and missing objects
// are returned as nil.
func (r *Reader) Get(ref Reference) (Object, error) {
	entry := r.xref[ref.Number]
	if entry == nil || entry.IsFree() || entry.Generation != ref.Generation {
		return nil, nil
	}

	s := r.scannerAt(entry.Pos)
	obj, fileRef, err := s.ReadIndirectObject()
	if err != nil {
		return nil, err
	}
	if fileRef != ref {
		return nil, &MalformedFileError{
			Pos: entry.Pos,
			Err: fmt.Errorf("expected object %s but found %s", ref, fileRef),
		}
	}
	return obj, nil
}

func (r *Reader) scannerAt(pos int64) *scanner {
	return newScanner(r.r, r.size, pos, r.getInt)
}

// getInt is used by the scanner to read stream lengths, which may be given
// as references to indirect objects.
func (r *Reader) getInt(obj Object) (Integer, error) {
	if r.level > 4 {
		return 0, &MalformedFileError{Err: errors.New("nested /Length references")}
	}
	r.level++
	defer func() { r.level-- }()

	x, err := GetInteger(r, obj)
	if err != nil {
		return 0, err
	}
	if obj == nil {
		return 0, &MalformedFileError{Err: errors.New("stream without /Length")}
	}
	return x, nil
}
