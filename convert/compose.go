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
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/image2pdf/annotation"
	"seehuhn.de/go/image2pdf/geometry"
	"seehuhn.de/go/image2pdf/metadata"
	"seehuhn.de/go/image2pdf/pdf"
	"seehuhn.de/go/image2pdf/pdf/pagetree"
)

// ComposeOptions controls the layout of the output page.
type ComposeOptions struct {
	// Factor is the fraction by which the page height is increased.
	Factor float64

	// Offsets gives the position of the annotation, relative to the top
	// left corner of the enlarged page.
	Offsets geometry.Offsets

	// Text is the contents of the annotation.
	Text     string
	Font     annotation.Font
	FontSize float64
	Color    annotation.Color

	// Meta (optional) overrides the metadata of the source document.
	Meta *metadata.PdfMetaData

	// Language, if not [language.Und], is stored as the document language.
	Language language.Tag

	// Now is used as the modification date.  If zero, the current time is
	// used.
	Now time.Time
}

// Result describes a completed conversion.
type Result struct {
	Input  string
	Output string

	// Original is the size of the page showing the image, Enlarged is the
	// size of the output page.
	Original geometry.Dimensions
	Enlarged geometry.Dimensions

	// AnnotationRect is the location of the annotation on the output page.
	AnnotationRect rect.Rect

	// Size is the size of the output file in bytes.
	Size int64

	// Meta is the metadata written to the output file.
	Meta *metadata.PdfMetaData
}

// Compose writes a new PDF file to w.  The first page of src is placed at
// the bottom of a taller page, and the free text annotation is added in the
// space above.
func Compose(w io.Writer, src *pdf.Reader, opts *ComposeOptions) (*Result, error) {
	err := opts.Offsets.Validate()
	if err != nil {
		return nil, err
	}
	err = opts.Meta.Validate()
	if err != nil {
		return nil, err
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	page, err := pagetree.GetPage(src, 0)
	if err != nil {
		return nil, err
	}
	box, err := mediaBox(src, page)
	if err != nil {
		return nil, err
	}
	orig := geometry.FromRect(box)
	enlarged := geometry.Enlarge(orig, opts.Factor)

	meta, err := sourceMeta(src)
	if err != nil {
		return nil, err
	}
	meta = meta.Merge(opts.Meta)

	out, err := pdf.NewWriter(w, pdf.V1_7)
	if err != nil {
		return nil, err
	}
	id := uuid.New()
	out.ID = [][]byte{id[:], id[:]}

	formRef, err := pageToForm(out, src, page, box)
	if err != nil {
		return nil, err
	}

	fontRef, err := opts.Font.Embed(out)
	if err != nil {
		return nil, err
	}

	pageRef := out.Alloc()
	annotRect := geometry.AnnotationRect(enlarged.Height, opts.Offsets)
	annot := &annotation.FreeText{
		Rect:     annotRect,
		Contents: opts.Text,
		Font:     opts.Font,
		FontRef:  fontRef,
		FontSize: opts.FontSize,
		Color:    opts.Color,
		Flags:    annotation.FlagPrint,
		Name:     uuid.NewString(),
		Modified: now,
	}
	annotRef, err := annot.Embed(out, pageRef)
	if err != nil {
		return nil, err
	}

	contentRef := out.Alloc()
	stm, err := out.OpenStream(contentRef, nil, pdf.FilterFlate{})
	if err != nil {
		return nil, err
	}
	_, err = io.WriteString(stm, "q /Fm1 Do Q\n")
	if err != nil {
		return nil, err
	}
	err = stm.Close()
	if err != nil {
		return nil, err
	}

	pageDict := pdf.Dict{
		"MediaBox": pdf.AsRectangle(enlarged.Rect()),
		"Resources": pdf.Dict{
			"XObject": pdf.Dict{"Fm1": formRef},
		},
		"Contents": contentRef,
		"Annots":   pdf.Array{annotRef},
	}
	if rot, _ := pdf.GetInteger(src, page["Rotate"]); rot%90 == 0 && rot != 0 {
		pageDict["Rotate"] = rot
	}
	tree := pagetree.NewWriter(out)
	err = tree.AppendPageRef(pageRef, pageDict)
	if err != nil {
		return nil, err
	}
	pagesRef, err := tree.Close()
	if err != nil {
		return nil, err
	}

	xmpRef, err := meta.EmbedXMP(out, now)
	if err != nil {
		return nil, err
	}
	infoRef := out.Alloc()
	err = out.Put(infoRef, meta.InfoDict(now))
	if err != nil {
		return nil, err
	}

	catalog := pdf.Dict{
		"Type":     pdf.Name("Catalog"),
		"Pages":    pagesRef,
		"Metadata": xmpRef,
		"AcroForm": pdf.Dict{
			"Fields": pdf.Array{},
			"DR":     annotation.DefaultResources(opts.Font, fontRef),
		},
	}
	if opts.Language != language.Und {
		catalog["Lang"] = pdf.TextString(opts.Language.String())
	}
	catRef := out.Alloc()
	err = out.Put(catRef, catalog)
	if err != nil {
		return nil, err
	}
	err = out.Close(catRef, infoRef)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Original:       orig,
		Enlarged:       enlarged,
		AnnotationRect: annotRect,
		Meta:           meta,
	}
	return res, nil
}

// sourceMeta reads the document information dictionary of src.
func sourceMeta(src *pdf.Reader) (*metadata.PdfMetaData, error) {
	info, err := src.Info()
	if err != nil {
		return nil, err
	}
	return metadata.FromInfoDict(src, info)
}

// pageToForm copies a page into a form XObject with the given bounding
// box.  The form draws the page contents at their original coordinates.
func pageToForm(w *pdf.Writer, src pdf.Getter, page pdf.Dict, bbox rect.Rect) (pdf.Reference, error) {
	dict := pdf.Dict{
		"Type":    pdf.Name("XObject"),
		"Subtype": pdf.Name("Form"),
		"BBox":    pdf.AsRectangle(bbox),
	}

	// Resources must be copied before the form stream is opened.
	if res := page["Resources"]; res != nil {
		c := pdf.NewCopier(w, src)
		copied, err := c.Copy(res)
		if err != nil {
			return pdf.Reference{}, err
		}
		dict["Resources"] = copied
	}

	body, err := pageContents(src, page["Contents"])
	if err != nil {
		return pdf.Reference{}, err
	}

	ref := w.Alloc()
	stm, err := w.OpenStream(ref, dict, pdf.FilterFlate{})
	if err != nil {
		return pdf.Reference{}, err
	}
	_, err = stm.Write(body)
	if err != nil {
		return pdf.Reference{}, err
	}
	err = stm.Close()
	if err != nil {
		return pdf.Reference{}, err
	}
	return ref, nil
}

// pageContents returns the decoded content of a page.  If the page has more
// than one content stream, the streams are concatenated.
func pageContents(r pdf.Getter, obj pdf.Object) ([]byte, error) {
	obj, err := pdf.Resolve(r, obj)
	if err != nil {
		return nil, err
	}

	var parts pdf.Array
	switch x := obj.(type) {
	case nil:
		return nil, nil
	case *pdf.Stream:
		parts = pdf.Array{x}
	case pdf.Array:
		parts = x
	default:
		return nil, fmt.Errorf("invalid /Contents of type %T", obj)
	}

	buf := &bytes.Buffer{}
	for _, part := range parts {
		stm, err := pdf.GetStream(r, part)
		if err != nil {
			return nil, err
		}
		if stm == nil {
			continue
		}
		body, err := pdf.DecodeStream(r, stm)
		if err != nil {
			return nil, err
		}
		_, err = io.Copy(buf, body)
		if err != nil {
			return nil, err
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
