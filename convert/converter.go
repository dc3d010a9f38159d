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

// Package convert turns a raster image into an annotated one-page PDF file.
//
// The conversion runs in two steps.  First, [ImageToPDF] writes a temporary
// PDF file which shows the image.  Then [Compose] places this page on an
// enlarged page and adds a free text annotation in the new space.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"seehuhn.de/go/image2pdf/config"
	"seehuhn.de/go/image2pdf/internal/buildinfo"
	"seehuhn.de/go/image2pdf/metadata"
	"seehuhn.de/go/image2pdf/pdf"
)

// PdfInformation holds caller supplied settings for one conversion.  Empty
// fields fall back to the configured defaults.
type PdfInformation struct {
	AnnotationText string
	Meta           *metadata.PdfMetaData
}

// Converter converts image files to PDF, using a fixed set of preferences.
type Converter struct {
	// Overwrite allows existing output files to be replaced.
	Overwrite bool

	// TempDir is the directory for intermediate files.  If empty,
	// [os.TempDir] is used.
	TempDir string

	prefs *config.Preferences
	log   *zap.Logger
}

// New returns a Converter which uses the given preferences.
// If logger is nil, nothing is logged.
func New(prefs *config.Preferences, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{
		prefs: prefs,
		log:   logger,
	}
}

// OutputPath returns the name of the PDF file for the given input image:
// the base name of input with its extension replaced by ".pdf", inside dir.
func OutputPath(dir, input string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+".pdf")
}

// Convert converts the image file input into an annotated PDF file.
// If output is empty, the name is derived from input using [OutputPath]
// and the configured output directory.
func (c *Converter) Convert(ctx context.Context, input, output string, info *PdfInformation) (*Result, error) {
	if output == "" {
		output = OutputPath(c.prefs.Output.Directory, input)
	}
	if !c.Overwrite {
		_, err := os.Stat(output)
		if err == nil {
			return nil, fmt.Errorf("%s: %w", output, fs.ErrExist)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	now := time.Now()
	opts, err := c.composeOptions(info, now)
	if err != nil {
		return nil, err
	}

	img, err := os.Open(input)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	tmp, err := os.CreateTemp(c.TempDir, "image2pdf-*.pdf")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	err = ImageToPDF(tmp, img, opts.Meta, c.prefs.Output.DPI)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}
	tmpSize, err := tmp.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	c.log.Debug("image converted",
		zap.String("input", input),
		zap.String("tmp", tmp.Name()),
		zap.String("size", humanize.Bytes(uint64(tmpSize))))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	box, err := ReadPageBox(tmp, tmpSize)
	if err != nil {
		return nil, err
	}
	c.log.Debug("page box", zap.Float64("width", box.URx-box.LLx), zap.Float64("height", box.URy-box.LLy))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := pdf.NewReader(tmp, tmpSize)
	if err != nil {
		return nil, err
	}
	res, err := c.writeOutput(output, src, opts)
	if err != nil {
		return nil, err
	}
	res.Input = input

	c.log.Info("PDF written",
		zap.String("output", res.Output),
		zap.Stringer("page", res.Enlarged),
		zap.String("size", humanize.Bytes(uint64(res.Size))))
	return res, nil
}

// writeOutput composes the output file.  On failure, no partial output file
// is left behind.
func (c *Converter) writeOutput(output string, src *pdf.Reader, opts *ComposeOptions) (*Result, error) {
	dir := filepath.Dir(output)
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return nil, err
	}

	fd, err := os.Create(output)
	if err != nil {
		return nil, err
	}
	res, err := Compose(fd, src, opts)
	if err != nil {
		fd.Close()
		os.Remove(output)
		return nil, err
	}
	size, err := fd.Seek(0, io.SeekEnd)
	if err != nil {
		fd.Close()
		return nil, err
	}
	err = fd.Close()
	if err != nil {
		os.Remove(output)
		return nil, err
	}

	res.Output = output
	res.Size = size
	return res, nil
}

// composeOptions combines the preferences with the caller supplied
// information.
func (c *Converter) composeOptions(info *PdfInformation, now time.Time) (*ComposeOptions, error) {
	p := c.prefs
	font, err := p.Annotation.Font()
	if err != nil {
		return nil, err
	}
	col, err := p.Annotation.Color()
	if err != nil {
		return nil, err
	}

	meta := p.MetaData()
	text := p.AnnotationText(now)
	if info != nil {
		meta = meta.Merge(info.Meta)
		if info.AnnotationText != "" {
			text = info.AnnotationText
		}
	}
	if meta.Producer == "" {
		meta.Producer = buildinfo.Producer()
	}

	return &ComposeOptions{
		Factor:   p.Output.EnlargementFactor,
		Offsets:  p.Annotation.Offsets,
		Text:     text,
		Font:     font,
		FontSize: p.Annotation.FontSize,
		Color:    col,
		Meta:     meta,
		Language: p.Output.Language,
		Now:      now,
	}, nil
}
