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

// Package config holds the user preferences of image2pdf.
//
// Preferences are read from an ini file.  Every setting has a default, so
// that a missing file or a missing key is not an error.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/text/language"

	"seehuhn.de/go/image2pdf/annotation"
	"seehuhn.de/go/image2pdf/geometry"
	"seehuhn.de/go/image2pdf/metadata"
)

// Preferences holds all configurable settings.
type Preferences struct {
	Meta       metadata.PdfMetaData
	Annotation AnnotationPrefs
	Output     OutputPrefs
	Publish    PublishPrefs
}

// AnnotationPrefs describes the annotation added to the output page.
type AnnotationPrefs struct {
	// Title is the annotation text.
	Title string

	Bold      bool
	Italic    bool
	FontName  string
	FontSize  float64
	FontColor string

	Offsets geometry.Offsets
}

// OutputPrefs describes the generated PDF file.
type OutputPrefs struct {
	Directory         string
	EnlargementFactor float64

	// DateFormat is a Go time layout.  If non-empty, the current date is
	// appended to the annotation text.
	DateFormat string

	// DPI is the resolution used to convert image pixels to PDF points.
	DPI float64

	Language language.Tag
}

// PublishPrefs describes the optional upload of the generated file to an
// S3 compatible object store.  Credentials are not stored in the
// preferences file.
type PublishPrefs struct {
	Enabled  bool
	Endpoint string
	Bucket   string
	Prefix   string
	Secure   bool
	Region   string
}

// Section names of the preferences file.
const (
	sectionMeta       = "MetaData"
	sectionAnnotation = "Annotations"
	sectionOutput     = "Output"
	sectionPublish    = "Publish"
)

// Defaults returns the built-in default preferences.
func Defaults() *Preferences {
	return &Preferences{
		Meta: metadata.PdfMetaData{
			Author:   "Humberto A. Sanchez II",
			Producer: "Pyut Plugin",
			Title:    "Pyut Diagram Dump",
			Subject:  "Developer Diagram",
			Creator:  "Pyut",
			Keywords: []string{"UML", "Pyut", "Diagram"},
		},
		Annotation: AnnotationPrefs{
			Title:     "Created by Pyut",
			Bold:      true,
			Italic:    false,
			FontName:  "Helvetica",
			FontSize:  32,
			FontColor: "000000",
			Offsets: geometry.Offsets{
				Left:         20,
				Right:        200,
				TopOffset:    2,
				BottomOffset: 50,
			},
		},
		Output: OutputPrefs{
			Directory:         os.TempDir(),
			EnlargementFactor: 0.1,
			DateFormat:        "02 Jan 2006 15:04",
			DPI:               72,
			Language:          language.English,
		},
		Publish: PublishPrefs{
			Secure: true,
		},
	}
}

// DefaultPath returns the location of the preferences file,
// $XDG_CONFIG_HOME/image2pdf/image2pdf.ini on Linux.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "image2pdf", "image2pdf.ini"), nil
}

// Load reads preferences from the named file.  Settings not present in the
// file keep their default values.  A missing file is an error.
func Load(path string) (*Preferences, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// LoadOrCreate is like [Load], but if the file does not exist, the default
// preferences are written to path and returned.
func LoadOrCreate(path string) (*Preferences, error) {
	p, err := Load(path)
	if !errors.Is(err, fs.ErrNotExist) {
		return p, err
	}
	p = Defaults()
	err = p.Save(path)
	if err != nil {
		return nil, fmt.Errorf("cannot write default preferences: %w", err)
	}
	return p, nil
}

var (
	defaultOnce  sync.Once
	defaultPrefs *Preferences
	defaultErr   error
)

// Default returns the preferences from the default location.  On first use,
// a file with the default settings is created there.  The file is read only
// once; the returned value is shared and must not be modified.
func Default() (*Preferences, error) {
	defaultOnce.Do(func() {
		path, err := DefaultPath()
		if err != nil {
			defaultPrefs = Defaults()
			return
		}
		defaultPrefs, defaultErr = LoadOrCreate(path)
	})
	return defaultPrefs, defaultErr
}

// MetaData returns a copy of the configured document metadata.
func (p *Preferences) MetaData() *metadata.PdfMetaData {
	var empty *metadata.PdfMetaData
	return empty.Merge(&p.Meta)
}

// AnnotationText returns the text of the annotation, for a document
// created at the given time.
func (p *Preferences) AnnotationText(now time.Time) string {
	text := p.Annotation.Title
	if p.Output.DateFormat != "" {
		date := now.Format(p.Output.DateFormat)
		if text == "" {
			return date
		}
		text += " " + date
	}
	return text
}

// Font returns the configured annotation font.
func (a *AnnotationPrefs) Font() (annotation.Font, error) {
	family, err := annotation.ParseFamily(a.FontName)
	if err != nil {
		return annotation.Font{}, err
	}
	return annotation.Font{Family: family, Bold: a.Bold, Italic: a.Italic}, nil
}

// Color returns the configured annotation text color.
func (a *AnnotationPrefs) Color() (annotation.Color, error) {
	return annotation.ParseColor(a.FontColor)
}

// Validate checks the preferences for consistency.
func (p *Preferences) Validate() error {
	if err := p.Meta.Validate(); err != nil {
		return err
	}
	if _, err := p.Annotation.Font(); err != nil {
		return err
	}
	if _, err := p.Annotation.Color(); err != nil {
		return err
	}
	if p.Annotation.FontSize <= 0 {
		return fmt.Errorf("invalid font size %g", p.Annotation.FontSize)
	}
	if err := p.Annotation.Offsets.Validate(); err != nil {
		return err
	}
	if p.Output.DPI <= 0 {
		return fmt.Errorf("invalid resolution %g dpi", p.Output.DPI)
	}
	if p.Publish.Enabled && (p.Publish.Endpoint == "" || p.Publish.Bucket == "") {
		return errors.New("publishing requires an endpoint and a bucket")
	}
	return nil
}
