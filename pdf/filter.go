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
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Filter represents a PDF stream filter.
type Filter interface {
	// Info returns the filter name and the decode parameters,
	// for use in the /Filter and /DecodeParms entries of a stream
	// dictionary.
	Info() (Name, Dict)

	// Encode returns a writer which encodes data written to it and
	// passes the result on to w.  Closing the returned writer also
	// closes w.
	Encode(w io.WriteCloser) (io.WriteCloser, error)

	// Decode returns a reader for the decoded data.
	Decode(r io.Reader) (io.Reader, error)
}

// FilterFlate is the FlateDecode filter.
//
// The zero value uses the default compression level.
type FilterFlate struct {
	Level int
}

// Info implements the [Filter] interface.
func (f FilterFlate) Info() (Name, Dict) {
	return "FlateDecode", nil
}

// Encode implements the [Filter] interface.
func (f FilterFlate) Encode(w io.WriteCloser) (io.WriteCloser, error) {
	level := f.Level
	if level == 0 {
		level = zlib.DefaultCompression
	}
	zw, err := zlib.NewWriterLevel(w, level)
	if err != nil {
		return nil, err
	}
	return &closeBoth{zw, w}, nil
}

// Decode implements the [Filter] interface.
func (f FilterFlate) Decode(r io.Reader) (io.Reader, error) {
	return zlib.NewReader(r)
}

type closeBoth struct {
	io.WriteCloser
	next io.Closer
}

func (c *closeBoth) Close() error {
	err := c.WriteCloser.Close()
	if err != nil {
		return err
	}
	return c.next.Close()
}

// getFilter maps a filter name from a stream dictionary to a Filter.
func getFilter(name Name, parms Dict) (Filter, error) {
	switch name {
	case "FlateDecode", "Fl":
		if p, ok := parms["Predictor"].(Integer); ok && p > 1 {
			return nil, fmt.Errorf("unsupported predictor %d", p)
		}
		return FilterFlate{}, nil
	default:
		return nil, fmt.Errorf("unsupported filter %q", name)
	}
}

// DecodeStream returns a reader for the decoded data of a stream.
func DecodeStream(r Getter, x *Stream) (io.Reader, error) {
	filterObj, err := Resolve(r, x.Dict["Filter"])
	if err != nil {
		return nil, err
	}
	parmsObj, err := Resolve(r, x.Dict["DecodeParms"])
	if err != nil {
		return nil, err
	}

	var names []Name
	var parms []Dict
	switch f := filterObj.(type) {
	case nil:
		// pass
	case Name:
		names = append(names, f)
		p, _ := parmsObj.(Dict)
		parms = append(parms, p)
	case Array:
		pa, _ := parmsObj.(Array)
		for i, fi := range f {
			name, err := GetName(r, fi)
			if err != nil {
				return nil, err
			}
			var p Dict
			if i < len(pa) {
				p, _ = pa[i].(Dict)
			}
			names = append(names, name)
			parms = append(parms, p)
		}
	default:
		return nil, &MalformedFileError{
			Err: fmt.Errorf("invalid /Filter entry %s", Format(filterObj)),
		}
	}

	var res io.Reader = x.R
	for i, name := range names {
		filter, err := getFilter(name, parms[i])
		if err != nil {
			return nil, err
		}
		res, err = filter.Decode(res)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}
