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

// Pdf-inspect shows objects inside a PDF file.
//
// Usage:
//
//	pdf-inspect file.pdf [step ...]
//
// Navigation starts at the file trailer.  Each step selects a dictionary
// entry by key, an array element by index, or an indirect object by
// reference ("12 0 R").  The keywords "catalog", "info" and
// "page:N" jump to the document catalog, the information dictionary and
// page N (counting from 0).  "@data" prints the decoded contents of a
// stream, "@xmp" prints an XMP metadata stream.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"seehuhn.de/go/xmp"

	"seehuhn.de/go/image2pdf/metadata"
	"seehuhn.de/go/image2pdf/pdf"
	"seehuhn.de/go/image2pdf/pdf/pagetree"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: pdf-inspect file.pdf [step ...]")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	r, err := pdf.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer r.Close()

	err = inspect(os.Stdout, r, flag.Args()[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// inspect follows the given steps, starting at the trailer of r, and
// writes a description of the final object to w.
func inspect(w io.Writer, r *pdf.Reader, steps []string) error {
	var obj pdf.Object = r.Trailer()
	for i, step := range steps {
		var err error
		switch step {
		case "@data":
			if i != len(steps)-1 {
				return errors.New("@data must be the last step")
			}
			return showData(w, r, obj)
		case "@xmp":
			if i != len(steps)-1 {
				return errors.New("@xmp must be the last step")
			}
			return showXMP(w, r, obj)
		}
		obj, err = next(r, obj, step)
		if err != nil {
			return fmt.Errorf("%s: %w", step, err)
		}
	}
	return show(w, obj)
}

func next(r *pdf.Reader, obj pdf.Object, step string) (pdf.Object, error) {
	switch {
	case step == "catalog":
		return r.Catalog(), nil
	case step == "info":
		return r.Info()
	case strings.HasPrefix(step, "page:"):
		n, err := strconv.Atoi(strings.TrimPrefix(step, "page:"))
		if err != nil {
			return nil, err
		}
		return pagetree.GetPage(r, n)
	}

	if ref, ok := parseReference(step); ok {
		return r.Get(ref)
	}

	obj, err := pdf.Resolve(r, obj)
	if err != nil {
		return nil, err
	}
	switch x := obj.(type) {
	case pdf.Dict:
		return pdf.Resolve(r, x[pdf.Name(step)])
	case *pdf.Stream:
		return pdf.Resolve(r, x.Dict[pdf.Name(step)])
	case pdf.Array:
		idx, err := strconv.Atoi(step)
		if err != nil || idx < 0 || idx >= len(x) {
			return nil, fmt.Errorf("invalid index for array of length %d", len(x))
		}
		return pdf.Resolve(r, x[idx])
	default:
		return nil, fmt.Errorf("cannot select from %T", obj)
	}
}

// parseReference recognises "12 0 R" and "12 0 obj".
func parseReference(step string) (pdf.Reference, bool) {
	fields := strings.Fields(step)
	if len(fields) != 3 || (fields[2] != "R" && fields[2] != "obj") {
		return pdf.Reference{}, false
	}
	num, err1 := strconv.Atoi(fields[0])
	gen, err2 := strconv.ParseUint(fields[1], 10, 16)
	if err1 != nil || err2 != nil || num <= 0 {
		return pdf.Reference{}, false
	}
	return pdf.Reference{Number: num, Generation: uint16(gen)}, true
}

func show(w io.Writer, obj pdf.Object) error {
	if stm, ok := obj.(*pdf.Stream); ok {
		_, err := fmt.Fprintf(w, "%s\nstream\n", pdf.Format(stm.Dict))
		return err
	}
	_, err := fmt.Fprintln(w, pdf.Format(obj))
	return err
}

func showData(w io.Writer, r pdf.Getter, obj pdf.Object) error {
	stm, err := pdf.GetStream(r, obj)
	if err != nil {
		return err
	}
	if stm == nil {
		return errors.New("not a stream")
	}
	body, err := pdf.DecodeStream(r, stm)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, body)
	return err
}

func showXMP(w io.Writer, r pdf.Getter, obj pdf.Object) error {
	packet, err := metadata.ReadXMP(r, obj)
	if err != nil {
		return err
	}
	if packet == nil {
		return errors.New("no XMP metadata")
	}
	return packet.Write(w, &xmp.PacketOptions{Pretty: true})
}
