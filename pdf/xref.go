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
	"strconv"
)

// xRefEntry gives the location of an indirect object.
// Free objects have a negative Pos.
type xRefEntry struct {
	Pos        int64
	Generation uint16
}

func (e *xRefEntry) IsFree() bool {
	return e.Pos < 0
}

// tailSize is the number of bytes at the end of a file which are searched
// for the "startxref" keyword.
const tailSize = 1024

// findXRef returns the offset of the last cross-reference section.
func (r *Reader) findXRef() (int64, error) {
	start := max(r.size-tailSize, 0)
	tail := make([]byte, r.size-start)
	n, err := r.r.ReadAt(tail, start)
	if err != nil && err != io.EOF {
		return 0, err
	}
	idx := bytes.LastIndex(tail[:n], []byte("startxref"))
	if idx < 0 {
		return 0, &MalformedFileError{Err: errors.New("startxref not found")}
	}

	s := r.scannerAt(start + int64(idx))
	err = s.expectKeyword("startxref")
	if err != nil {
		return 0, err
	}
	pos, err := s.expectInt()
	if err != nil {
		return 0, err
	}
	if pos <= 0 || int64(pos) >= r.size {
		return 0, s.errorf("invalid xref position %d", pos)
	}
	return int64(pos), nil
}

// readXRef reads all cross-reference sections of the file, following the
// /Prev links.  Entries from later sections take precedence.
func (r *Reader) readXRef() (map[int]*xRefEntry, Dict, error) {
	start, err := r.findXRef()
	if err != nil {
		return nil, nil, err
	}

	xref := make(map[int]*xRefEntry)
	var trailer Dict
	seen := make(map[int64]bool)
	for !seen[start] {
		seen[start] = true

		dict, err := r.readXRefSection(xref, start)
		if err != nil {
			return nil, nil, err
		}

		if trailer == nil {
			if _, encrypted := dict["Encrypt"]; encrypted {
				return nil, nil, &MalformedFileError{
					Err: errors.New("encrypted files are not supported"),
				}
			}
			trailer = Dict{}
			for _, key := range []Name{"Root", "Info", "ID", "Size"} {
				if val, ok := dict[key]; ok {
					trailer[key] = val
				}
			}
		}

		prev, ok := dict["Prev"]
		if !ok {
			break
		}
		prevStart, ok := prev.(Integer)
		if !ok || prevStart <= 0 || int64(prevStart) >= r.size {
			return nil, nil, &MalformedFileError{
				Pos: start,
				Err: fmt.Errorf("invalid /Prev value %s", Format(prev)),
			}
		}
		start = int64(prevStart)
	}

	return xref, trailer, nil
}

// readXRefSection reads one "xref ... trailer <<...>>" section.  Entries
// already present in xref are kept.
func (r *Reader) readXRefSection(xref map[int]*xRefEntry, start int64) (Dict, error) {
	s := r.scannerAt(start)
	err := s.expectKeyword("xref")
	if err != nil {
		return nil, &MalformedFileError{
			Pos: start,
			Err: errors.New("cross-reference streams are not supported"),
		}
	}

	for {
		// Subsection headers are parsed token by token.  Entries have
		// a fixed width of 20 bytes and are read directly.
		t, err := s.next()
		if err != nil {
			return nil, err
		}
		if t.is(tokKeyword, "trailer") {
			break
		}
		if t.kind != tokInteger {
			return nil, s.errorAt(t.pos, fmt.Errorf("unexpected %q in xref table", t.word))
		}
		first := t.val.(Integer)
		count, err := s.expectInt()
		if err != nil {
			return nil, err
		}
		if first < 0 || count < 0 {
			return nil, s.errorf("invalid xref subsection %d %d", first, count)
		}
		err = s.SkipWhiteSpace()
		if err != nil {
			return nil, err
		}

		for i := range int(count) {
			buf, err := s.Peek(20)
			if err != nil {
				return nil, err
			}
			number := int(first) + i
			if xref[number] == nil {
				entry, err := parseXRefEntry(buf)
				if err != nil {
					return nil, s.errorf("xref entry for object %d: %w", number, err)
				}
				xref[number] = entry
			}
			err = s.Discard(20)
			if err != nil {
				return nil, err
			}
		}
	}

	return s.ReadDict()
}

var errXRefEntry = errors.New("malformed xref entry")

// parseXRefEntry decodes an entry of the form "nnnnnnnnnn ggggg n".
func parseXRefEntry(buf []byte) (*xRefEntry, error) {
	if len(buf) < 20 || buf[10] != ' ' || buf[16] != ' ' {
		return nil, errXRefEntry
	}
	pos, err := strconv.ParseInt(string(buf[:10]), 10, 64)
	if err != nil {
		return nil, errXRefEntry
	}
	gen, err := strconv.ParseUint(string(buf[11:16]), 10, 32)
	if err != nil {
		return nil, errXRefEntry
	}

	switch buf[17] {
	case 'n':
		if gen > 65535 {
			return nil, errXRefEntry
		}
		return &xRefEntry{Pos: pos, Generation: uint16(gen)}, nil
	case 'f':
		// Some writers use generation 65536 for the head of the free list.
		return &xRefEntry{Pos: -1, Generation: uint16(min(gen, 65535))}, nil
	default:
		return nil, errXRefEntry
	}
}
