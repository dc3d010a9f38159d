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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-ini/ini"
	"golang.org/x/text/language"

	"seehuhn.de/go/image2pdf/metadata"
)

var loadOptions = ini.LoadOptions{
	// allow colors like "#336699"
	IgnoreInlineComment: true,
}

// metaKeys lists the keys of the [MetaData] section which are not custom
// information dictionary entries.
var metaKeys = map[string]bool{
	"author":   true,
	"producer": true,
	"title":    true,
	"subject":  true,
	"creator":  true,
	"keywords": true,
}

// Parse reads preferences from the contents of an ini file.  Settings not
// present keep their default values.
func Parse(data []byte) (*Preferences, error) {
	f, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, err
	}

	p := Defaults()
	err = p.readMeta(f.Section(sectionMeta))
	if err != nil {
		return nil, err
	}
	err = p.readAnnotation(f.Section(sectionAnnotation))
	if err != nil {
		return nil, err
	}
	err = p.readOutput(f.Section(sectionOutput))
	if err != nil {
		return nil, err
	}
	err = p.readPublish(f.Section(sectionPublish))
	if err != nil {
		return nil, err
	}

	err = p.Validate()
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Preferences) readMeta(s *ini.Section) error {
	m := &p.Meta
	getString(s, "author", &m.Author)
	getString(s, "producer", &m.Producer)
	getString(s, "title", &m.Title)
	getString(s, "subject", &m.Subject)
	getString(s, "creator", &m.Creator)
	if s.HasKey("keywords") {
		m.Keywords = metadata.ParseKeywords(s.Key("keywords").String())
	}
	for _, key := range s.Keys() {
		if metaKeys[key.Name()] {
			continue
		}
		if m.Custom == nil {
			m.Custom = make(map[string]string)
		}
		m.Custom[key.Name()] = key.String()
	}
	return nil
}

func (p *Preferences) readAnnotation(s *ini.Section) error {
	a := &p.Annotation
	getString(s, "title", &a.Title)
	getString(s, "fontName", &a.FontName)
	getString(s, "fontColor", &a.FontColor)
	for _, err := range []error{
		getBool(s, "bold", &a.Bold),
		getBool(s, "italic", &a.Italic),
		getFloat(s, "fontSize", &a.FontSize),
		getFloat(s, "annotationLeft", &a.Offsets.Left),
		getFloat(s, "annotationRight", &a.Offsets.Right),
		getFloat(s, "annotationTopOffset", &a.Offsets.TopOffset),
		getFloat(s, "annotationBottomOffset", &a.Offsets.BottomOffset),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Preferences) readOutput(s *ini.Section) error {
	o := &p.Output
	getString(s, "outputDirectory", &o.Directory)
	if s.HasKey("dateFormat") {
		// an empty value disables the date
		o.DateFormat = s.Key("dateFormat").String()
	}
	err := getFloat(s, "enlargementFactor", &o.EnlargementFactor)
	if err != nil {
		return err
	}
	err = getFloat(s, "dpi", &o.DPI)
	if err != nil {
		return err
	}
	if s.HasKey("language") {
		tag, err := language.Parse(s.Key("language").String())
		if err != nil {
			return fmt.Errorf("[%s] language: %w", s.Name(), err)
		}
		o.Language = tag
	}
	return nil
}

func (p *Preferences) readPublish(s *ini.Section) error {
	pub := &p.Publish
	getString(s, "endpoint", &pub.Endpoint)
	getString(s, "bucket", &pub.Bucket)
	getString(s, "prefix", &pub.Prefix)
	getString(s, "region", &pub.Region)
	err := getBool(s, "enabled", &pub.Enabled)
	if err != nil {
		return err
	}
	return getBool(s, "secure", &pub.Secure)
}

// getString overwrites *dst with the value of key, if the key is present
// and non-empty.
func getString(s *ini.Section, key string, dst *string) {
	if !s.HasKey(key) {
		return
	}
	if val := s.Key(key).String(); val != "" {
		*dst = val
	}
}

func getFloat(s *ini.Section, key string, dst *float64) error {
	if !s.HasKey(key) {
		return nil
	}
	x, err := s.Key(key).Float64()
	if err != nil {
		return fmt.Errorf("[%s] %s: %w", s.Name(), key, err)
	}
	*dst = x
	return nil
}

func getBool(s *ini.Section, key string, dst *bool) error {
	if !s.HasKey(key) {
		return nil
	}
	x, err := s.Key(key).Bool()
	if err != nil {
		return fmt.Errorf("[%s] %s: %w", s.Name(), key, err)
	}
	*dst = x
	return nil
}

// Save writes the preferences to the named file, creating the parent
// directory if needed.
func (p *Preferences) Save(path string) error {
	f := ini.Empty(loadOptions)

	meta, err := f.NewSection(sectionMeta)
	if err != nil {
		return err
	}
	setKeys(meta,
		"author", p.Meta.Author,
		"producer", p.Meta.Producer,
		"title", p.Meta.Title,
		"subject", p.Meta.Subject,
		"creator", p.Meta.Creator,
		"keywords", strings.Join(p.Meta.Keywords, ","))
	for key, val := range p.Meta.Custom {
		if !metaKeys[key] {
			setKeys(meta, key, val)
		}
	}

	a := &p.Annotation
	annot, err := f.NewSection(sectionAnnotation)
	if err != nil {
		return err
	}
	setKeys(annot,
		"title", a.Title,
		"bold", strconv.FormatBool(a.Bold),
		"italic", strconv.FormatBool(a.Italic),
		"fontName", a.FontName,
		"fontSize", formatFloat(a.FontSize),
		"fontColor", a.FontColor,
		"annotationLeft", formatFloat(a.Offsets.Left),
		"annotationRight", formatFloat(a.Offsets.Right),
		"annotationTopOffset", formatFloat(a.Offsets.TopOffset),
		"annotationBottomOffset", formatFloat(a.Offsets.BottomOffset))

	o := &p.Output
	out, err := f.NewSection(sectionOutput)
	if err != nil {
		return err
	}
	setKeys(out,
		"outputDirectory", o.Directory,
		"enlargementFactor", formatFloat(o.EnlargementFactor),
		"dateFormat", o.DateFormat,
		"dpi", formatFloat(o.DPI),
		"language", o.Language.String())

	pub, err := f.NewSection(sectionPublish)
	if err != nil {
		return err
	}
	setKeys(pub,
		"enabled", strconv.FormatBool(p.Publish.Enabled),
		"endpoint", p.Publish.Endpoint,
		"bucket", p.Publish.Bucket,
		"prefix", p.Publish.Prefix,
		"secure", strconv.FormatBool(p.Publish.Secure),
		"region", p.Publish.Region)

	err = os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return err
	}
	return f.SaveTo(path)
}

// setKeys sets key/value pairs in a section.  Keys which already exist
// are overwritten.
func setKeys(s *ini.Section, kv ...string) {
	for i := 0; i+1 < len(kv); i += 2 {
		s.Key(kv[i]).SetValue(kv[i+1])
	}
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
