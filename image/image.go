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

// Package image embeds raster images into PDF files as image XObjects.
package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif" // register decoders
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"seehuhn.de/go/icc"

	"seehuhn.de/go/image2pdf/pdf"
)

// Source is a decoded raster image, together with the original file data.
type Source struct {
	Image image.Image

	// Format is the format name reported by the decoder, e.g. "png".
	Format string

	raw []byte
}

// Read reads and decodes an image file.
func Read(r io.Reader) (*Source, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, errors.New("empty image")
	}
	return &Source{
		Image:  img,
		Format: format,
		raw:    raw,
	}, nil
}

// PageSize returns the size of the image in PDF points, when printed at the
// given resolution.
func (s *Source) PageSize(dpi float64) (width, height float64) {
	b := s.Image.Bounds()
	return float64(b.Dx()) / dpi * 72, float64(b.Dy()) / dpi * 72
}

// Embed writes the image to a PDF file and returns a reference to the image
// XObject.
//
// Baseline JPEG files with RGB or gray pixels are included unchanged.  All
// other images are converted to 8-bit RGB and compressed, with a soft mask
// if the image has transparent pixels.
func (s *Source) Embed(w *pdf.Writer) (pdf.Reference, error) {
	if s.Format == "jpeg" {
		switch s.Image.(type) {
		case *image.YCbCr:
			cs, err := embedSRGB(w)
			if err != nil {
				return pdf.Reference{}, err
			}
			return s.embedJPEG(w, cs)
		case *image.Gray:
			return s.embedJPEG(w, pdf.Name("DeviceGray"))
		}
	}
	return s.embedFlate(w)
}

func (s *Source) embedJPEG(w *pdf.Writer, colorSpace pdf.Object) (pdf.Reference, error) {
	b := s.Image.Bounds()
	ref := w.Alloc()
	dict := pdf.Dict{
		"Type":             pdf.Name("XObject"),
		"Subtype":          pdf.Name("Image"),
		"Width":            pdf.Integer(b.Dx()),
		"Height":           pdf.Integer(b.Dy()),
		"ColorSpace":       colorSpace,
		"BitsPerComponent": pdf.Integer(8),
		"Filter":           pdf.Name("DCTDecode"),
		"Length":           pdf.Integer(len(s.raw)),
	}
	err := w.Put(ref, &pdf.Stream{Dict: dict, R: bytes.NewReader(s.raw)})
	if err != nil {
		return pdf.Reference{}, err
	}
	return ref, nil
}

func (s *Source) embedFlate(w *pdf.Writer) (pdf.Reference, error) {
	src := s.Image
	b := src.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), src, b.Min, draw.Src)

	width, height := b.Dx(), b.Dy()
	rgb := make([]byte, 0, 3*width*height)
	alpha := make([]byte, 0, width*height)
	opaque := true
	for y := range height {
		row := img.Pix[y*img.Stride : y*img.Stride+4*width]
		for x := 0; x < len(row); x += 4 {
			rgb = append(rgb, row[x], row[x+1], row[x+2])
			alpha = append(alpha, row[x+3])
			if row[x+3] != 0xFF {
				opaque = false
			}
		}
	}

	cs, err := embedSRGB(w)
	if err != nil {
		return pdf.Reference{}, err
	}

	dict := pdf.Dict{
		"Type":             pdf.Name("XObject"),
		"Subtype":          pdf.Name("Image"),
		"Width":            pdf.Integer(width),
		"Height":           pdf.Integer(height),
		"ColorSpace":       cs,
		"BitsPerComponent": pdf.Integer(8),
	}
	if !opaque {
		maskRef := w.Alloc()
		maskDict := pdf.Dict{
			"Type":             pdf.Name("XObject"),
			"Subtype":          pdf.Name("Image"),
			"Width":            pdf.Integer(width),
			"Height":           pdf.Integer(height),
			"ColorSpace":       pdf.Name("DeviceGray"),
			"BitsPerComponent": pdf.Integer(8),
		}
		err = writeStream(w, maskRef, maskDict, alpha)
		if err != nil {
			return pdf.Reference{}, err
		}
		dict["SMask"] = maskRef
	}

	ref := w.Alloc()
	err = writeStream(w, ref, dict, rgb)
	if err != nil {
		return pdf.Reference{}, err
	}
	return ref, nil
}

// embedSRGB writes an ICCBased color space with the sRGB profile.
func embedSRGB(w *pdf.Writer) (pdf.Object, error) {
	profile := srgbProfile()
	p, err := icc.Decode(profile)
	if err != nil {
		return nil, err
	}

	ref := w.Alloc()
	dict := pdf.Dict{
		"N":         pdf.Integer(p.ColorSpace.NumComponents()),
		"Alternate": pdf.Name("DeviceRGB"),
	}
	err = writeStream(w, ref, dict, profile)
	if err != nil {
		return nil, err
	}
	return pdf.Array{pdf.Name("ICCBased"), ref}, nil
}

func writeStream(w *pdf.Writer, ref pdf.Reference, dict pdf.Dict, data []byte) error {
	stm, err := w.OpenStream(ref, dict, pdf.FilterFlate{})
	if err != nil {
		return err
	}
	_, err = stm.Write(data)
	if err != nil {
		return err
	}
	return stm.Close()
}
