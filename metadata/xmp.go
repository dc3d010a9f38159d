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

package metadata

import (
	"errors"
	"time"

	"golang.org/x/text/language"
	"seehuhn.de/go/xmp"

	"seehuhn.de/go/image2pdf/pdf"
)

// PDFNamespace is the XMP namespace for PDF specific metadata.
// See https://developer.adobe.com/xmp/docs/XMPNamespaces/pdf/
type PDFNamespace struct {
	_        xmp.Namespace `xmp:"http://ns.adobe.com/pdf/1.3/"`
	_        xmp.Prefix    `xmp:"pdf"`
	Keywords xmp.Text
	Producer xmp.AgentName
}

var xDefault = language.MustParse("x-default")

// XMP returns an XMP packet with the same information as the document
// information dictionary.
func (m *PdfMetaData) XMP(modDate time.Time) (*xmp.Packet, error) {
	dc := &xmp.DublinCore{}
	if m.Title != "" {
		dc.Title.Set(xDefault, m.Title)
	}
	if m.Author != "" {
		dc.Creator.Append(xmp.NewProperName(m.Author))
	}
	if m.Subject != "" {
		dc.Description.Set(xDefault, m.Subject)
	}

	created := m.CreationDate
	if created.IsZero() {
		created = modDate
	}
	basic := &xmp.Basic{}
	basic.CreateDate = xmp.NewDate(created)
	basic.ModifyDate = xmp.NewDate(modDate)

	pdfInfo := &PDFNamespace{}
	if len(m.Keywords) > 0 {
		pdfInfo.Keywords = xmp.NewText(m.KeywordString())
	}
	if m.Producer != "" {
		pdfInfo.Producer = xmp.NewAgentName(m.Producer)
	}

	packet := xmp.NewPacket()
	err := packet.Set(dc, basic, pdfInfo)
	if err != nil {
		return nil, err
	}
	return packet, nil
}

// EmbedXMP writes the XMP metadata stream and returns a reference to it,
// for use in the /Metadata entry of the document catalog.
func (m *PdfMetaData) EmbedXMP(w *pdf.Writer, modDate time.Time) (pdf.Reference, error) {
	if w.Version < pdf.V1_4 {
		return pdf.Reference{}, errors.New("XMP metadata streams require PDF 1.4")
	}
	packet, err := m.XMP(modDate)
	if err != nil {
		return pdf.Reference{}, err
	}

	ref := w.Alloc()
	dict := pdf.Dict{
		"Type":    pdf.Name("Metadata"),
		"Subtype": pdf.Name("XML"),
	}
	// The packet is stored uncompressed.
	body, err := w.OpenStream(ref, dict)
	if err != nil {
		return pdf.Reference{}, err
	}
	err = packet.Write(body, &xmp.PacketOptions{Pretty: true})
	if err != nil {
		return pdf.Reference{}, err
	}
	err = body.Close()
	if err != nil {
		return pdf.Reference{}, err
	}
	return ref, nil
}

// ReadXMP reads an XMP metadata stream.
// If obj is nil, the function returns nil.
func ReadXMP(r pdf.Getter, obj pdf.Object) (*xmp.Packet, error) {
	stm, err := pdf.GetStream(r, obj)
	if err != nil || stm == nil {
		return nil, err
	}
	body, err := pdf.DecodeStream(r, stm)
	if err != nil {
		return nil, err
	}
	return xmp.Read(body)
}
