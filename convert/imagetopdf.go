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

package convert

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/image2pdf/geometry"
	"seehuhn.de/go/image2pdf/image"
	"seehuhn.de/go/image2pdf/internal/float"
	"seehuhn.de/go/image2pdf/metadata"
	"seehuhn.de/go/image2pdf/pdf"
	"seehuhn.de/go/image2pdf/pdf/pagetree"
)

// ImageToPDF writes a one-page PDF file which shows the image read from img.
// The page size is the image size at the given resolution; a dpi value of
// 0 means 72 dpi, so that one pixel becomes one PDF point.
func ImageToPDF(w io.Writer, img io.Reader, meta *metadata.PdfMetaData, dpi float64) error {
	if dpi == 0 {
		dpi = 72
	}
	if dpi < 0 {
		return fmt.Errorf("invalid resolution %g dpi", dpi)
	}
	err := meta.Validate()
	if err != nil {
		return err
	}

	src, err := image.Read(img)
	if err != nil {
		return err
	}
	width, height := src.PageSize(dpi)

	out, err := pdf.NewWriter(w, pdf.V1_7)
	if err != nil {
		return err
	}
	id := uuid.New()
	out.ID = [][]byte{id[:], id[:]}

	imRef, err := src.Embed(out)
	if err != nil {
		return err
	}

	contentRef := out.Alloc()
	stm, err := out.OpenStream(contentRef, nil, pdf.FilterFlate{})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stm, "%s 0 0 %s 0 0 cm /Im1 Do\n",
		float.Format(width, 4), float.Format(height, 4))
	if err != nil {
		return err
	}
	err = stm.Close()
	if err != nil {
		return err
	}

	tree := pagetree.NewWriter(out)
	_, err = tree.AppendPage(pdf.Dict{
		"MediaBox": pdf.AsRectangle(geometry.Dimensions{Width: width, Height: height}.Rect()),
		"Resources": pdf.Dict{
			"XObject": pdf.Dict{"Im1": imRef},
		},
		"Contents": contentRef,
	})
	if err != nil {
		return err
	}
	pagesRef, err := tree.Close()
	if err != nil {
		return err
	}

	now := time.Now()
	if meta == nil {
		meta = &metadata.PdfMetaData{}
	}
	xmpRef, err := meta.EmbedXMP(out, now)
	if err != nil {
		return err
	}
	infoRef := out.Alloc()
	err = out.Put(infoRef, meta.InfoDict(now))
	if err != nil {
		return err
	}

	catRef := out.Alloc()
	err = out.Put(catRef, pdf.Dict{
		"Type":     pdf.Name("Catalog"),
		"Pages":    pagesRef,
		"Metadata": xmpRef,
	})
	if err != nil {
		return err
	}
	return out.Close(catRef, infoRef)
}

// ReadPageBox returns the media box of the first page of a PDF file.
func ReadPageBox(r io.ReaderAt, size int64) (rect.Rect, error) {
	doc, err := pdf.NewReader(r, size)
	if err != nil {
		return rect.Rect{}, fmt.Errorf("cannot read PDF: %w", err)
	}
	page, err := pagetree.GetPage(doc, 0)
	if err != nil {
		return rect.Rect{}, fmt.Errorf("cannot read first page: %w", err)
	}
	return mediaBox(doc, page)
}

func mediaBox(r pdf.Getter, page pdf.Dict) (rect.Rect, error) {
	if page["MediaBox"] == nil {
		return rect.Rect{}, errNoMediaBox
	}
	box, err := pdf.GetRectangle(r, page["MediaBox"])
	if err != nil {
		return rect.Rect{}, fmt.Errorf("invalid /MediaBox: %w", err)
	}
	if size := geometry.FromRect(box); size.Width <= 0 || size.Height <= 0 {
		return rect.Rect{}, fmt.Errorf("empty /MediaBox %v", box)
	}
	return box, nil
}

var errNoMediaBox = errors.New("page has no /MediaBox")
