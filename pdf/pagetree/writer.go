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

package pagetree

import (
	"errors"

	"seehuhn.de/go/image2pdf/pdf"
)

// Writer writes a flat page tree, with all pages attached to a single
// root node.
type Writer struct {
	// Attr holds attributes of the root node which are inherited by all
	// pages, for example /MediaBox.
	Attr pdf.Dict

	w    *pdf.Writer
	root pdf.Reference
	kids pdf.Array
}

// NewWriter allocates the root node of a new page tree.
func NewWriter(w *pdf.Writer) *Writer {
	return &Writer{
		w:    w,
		root: w.Alloc(),
	}
}

// Root returns the reference of the root node, for use as the /Pages entry
// of the document catalog.
func (t *Writer) Root() pdf.Reference {
	return t.root
}

// AppendPage writes a page dictionary and adds it to the tree.
// The /Type and /Parent entries are filled in.
func (t *Writer) AppendPage(page pdf.Dict) (pdf.Reference, error) {
	if t.w == nil {
		return pdf.Reference{}, errClosed
	}
	ref := t.w.Alloc()
	return ref, t.AppendPageRef(ref, page)
}

// AppendPageRef is like [Writer.AppendPage], but uses a previously
// allocated reference.  This allows objects written before the page, for
// example annotations, to point back to the page.
func (t *Writer) AppendPageRef(ref pdf.Reference, page pdf.Dict) error {
	if t.w == nil {
		return errClosed
	}
	page = page.Clone()
	page["Type"] = pdf.Name("Page")
	page["Parent"] = t.root
	err := t.w.Put(ref, page)
	if err != nil {
		return err
	}
	t.kids = append(t.kids, ref)
	return nil
}

// Close writes the root node of the page tree and returns its reference.
func (t *Writer) Close() (pdf.Reference, error) {
	if t.w == nil {
		return pdf.Reference{}, errClosed
	}
	if len(t.kids) == 0 {
		return pdf.Reference{}, pdf.ErrNoPages
	}

	root := t.Attr.Clone()
	if root == nil {
		root = pdf.Dict{}
	}
	root["Type"] = pdf.Name("Pages")
	root["Kids"] = t.kids
	root["Count"] = pdf.Integer(len(t.kids))
	err := t.w.Put(t.root, root)
	if err != nil {
		return pdf.Reference{}, err
	}
	t.w = nil
	return t.root, nil
}

var errClosed = errors.New("page tree writer is closed")
