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

// Package pagetree reads and writes the page tree of a PDF document.
package pagetree

import (
	"errors"
	"math"

	"seehuhn.de/go/image2pdf/pdf"
)

// Source is a PDF file opened for reading, which gives access to the
// document catalog.
type Source interface {
	pdf.Getter
	Catalog() pdf.Dict
}

// inheritable lists the page attributes which can be inherited from
// ancestor nodes in the page tree.
var inheritable = []pdf.Name{"Resources", "MediaBox", "CropBox", "Rotate"}

// NumPages returns the number of pages in the document.
func NumPages(r Source) (int, error) {
	root, err := pdf.GetDict(r, r.Catalog()["Pages"])
	if err != nil {
		return 0, err
	}
	if root == nil {
		return 0, errInvalidPageTree
	}

	count, err := pdf.GetInteger(r, root["Count"])
	if err != nil {
		return 0, err
	}
	if count < 0 || count > math.MaxInt32 {
		return 0, errInvalidPageTree
	}
	return int(count), nil
}

// GetPage returns the page dictionary of page pageNo.  Pages are numbered
// starting from 0.  Inherited attributes are filled in, so that the
// returned dictionary is self-contained.
//
// If the document has fewer pages, [pdf.ErrNoPages] is returned.
func GetPage(r Source, pageNo int) (pdf.Dict, error) {
	if pageNo < 0 {
		return nil, errors.New("invalid page number")
	}

	inherited := pdf.Dict{}
	skip := pdf.Integer(pageNo)
	kids := pdf.Array{r.Catalog()["Pages"]}

	seen := map[pdf.Reference]bool{}
	for len(kids) > 0 {
		ref := kids[0]
		kids = kids[1:]

		if ref, ok := ref.(pdf.Reference); ok {
			if seen[ref] {
				return nil, errInvalidPageTree
			}
			seen[ref] = true
		}
		node, err := pdf.GetDict(r, ref)
		if err != nil {
			return nil, err
		}
		if node == nil {
			return nil, errInvalidPageTree
		}

		tp, err := pdf.GetName(r, node["Type"])
		if err != nil {
			return nil, err
		}
		switch tp {
		case "Page":
			if skip > 0 {
				skip--
				continue
			}

			page := node.Clone()
			for _, name := range inheritable {
				if _, ok := page[name]; !ok {
					if val, ok := inherited[name]; ok {
						page[name] = val
					}
				}
			}
			return page, nil

		case "Pages":
			count, err := pdf.GetInteger(r, node["Count"])
			if err != nil {
				return nil, err
			}
			if count < 0 {
				return nil, errInvalidPageTree
			} else if skip < count {
				for _, name := range inheritable {
					if val, ok := node[name]; ok {
						inherited[name] = val
					}
				}

				kids, err = pdf.GetArray(r, node["Kids"])
				if err != nil {
					return nil, err
				}
			} else {
				skip -= count
			}

		default:
			return nil, errInvalidPageTree
		}
	}

	return nil, pdf.ErrNoPages
}

var errInvalidPageTree = &pdf.MalformedFileError{
	Err: errors.New("invalid page tree"),
}
