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

// Package report writes a YAML manifest describing one conversion.
package report

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"seehuhn.de/go/image2pdf/convert"
	"seehuhn.de/go/image2pdf/internal/buildinfo"
)

// Manifest is the YAML representation of a conversion.
type Manifest struct {
	Tool    string    `yaml:"tool"`
	Created time.Time `yaml:"created"`

	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Size   int64  `yaml:"size"`
	URL    string `yaml:"url,omitempty"`

	Original   Page       `yaml:"original"`
	Enlarged   Page       `yaml:"enlarged"`
	Annotation [4]float64 `yaml:"annotation,flow"`

	Metadata Metadata `yaml:"metadata"`
}

// Page is a page size in PDF points.
type Page struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Metadata lists the document information written to the output file.
type Metadata struct {
	Title    string            `yaml:"title,omitempty"`
	Author   string            `yaml:"author,omitempty"`
	Subject  string            `yaml:"subject,omitempty"`
	Creator  string            `yaml:"creator,omitempty"`
	Producer string            `yaml:"producer,omitempty"`
	Keywords []string          `yaml:"keywords,omitempty,flow"`
	Custom   map[string]string `yaml:"custom,omitempty"`
}

// FromResult builds the manifest for a finished conversion.
func FromResult(res *convert.Result, created time.Time) *Manifest {
	r := res.AnnotationRect
	m := &Manifest{
		Tool:       buildinfo.Short("image2pdf"),
		Created:    created,
		Input:      res.Input,
		Output:     res.Output,
		Size:       res.Size,
		Original:   Page{Width: res.Original.Width, Height: res.Original.Height},
		Enlarged:   Page{Width: res.Enlarged.Width, Height: res.Enlarged.Height},
		Annotation: [4]float64{r.LLx, r.LLy, r.URx, r.URy},
	}
	if meta := res.Meta; meta != nil {
		m.Metadata = Metadata{
			Title:    meta.Title,
			Author:   meta.Author,
			Subject:  meta.Subject,
			Creator:  meta.Creator,
			Producer: meta.Producer,
			Keywords: meta.Keywords,
			Custom:   meta.Custom,
		}
	}
	return m
}

// WriteFile writes the manifest to the named file.
func (m *Manifest) WriteFile(fname string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(fname, data, 0o644)
}

// ReadFile reads a manifest written by [Manifest.WriteFile].
func ReadFile(fname string) (*Manifest, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	m := &Manifest{}
	err = yaml.Unmarshal(data, m)
	if err != nil {
		return nil, err
	}
	return m, nil
}
