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

package annotation

// Flags is the set of annotation flags, stored in the /F entry of the
// annotation dictionary.
type Flags uint16

const (
	// FlagInvisible applies only to non-standard annotation types, for which
	// no annotation handler is available.
	FlagInvisible Flags = 1 << 0

	// FlagHidden (PDF 1.2) hides the annotation, both on screen and in print.
	FlagHidden Flags = 1 << 1

	// FlagPrint (PDF 1.2) prints the annotation when the page is printed,
	// unless the Hidden flag is also set.
	FlagPrint Flags = 1 << 2

	// FlagNoZoom (PDF 1.3) keeps the appearance size fixed when the page is
	// magnified.
	FlagNoZoom Flags = 1 << 3

	// FlagNoRotate (PDF 1.3) keeps the appearance upright when the page is
	// rotated.
	FlagNoRotate Flags = 1 << 4

	// FlagNoView (PDF 1.3) hides the annotation on screen.
	FlagNoView Flags = 1 << 5

	// FlagReadOnly (PDF 1.3) disallows interaction with the annotation.
	FlagReadOnly Flags = 1 << 6

	// FlagLocked (PDF 1.4) disallows deleting the annotation or changing its
	// properties.
	FlagLocked Flags = 1 << 7

	// FlagLockedContents (PDF 1.7) disallows changing the annotation text.
	FlagLockedContents Flags = 1 << 9
)

// Align is the text alignment of a free text annotation.
type Align int

// These are the valid values for the /Q entry of a free text annotation.
const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)
