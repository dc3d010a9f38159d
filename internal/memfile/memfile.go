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

// Package memfile provides an in-memory file, for use in tests.
package memfile

import "bytes"

// MemFile collects the output of a PDF writer in memory.
// It implements [io.Writer] and [io.ReaderAt], so that the result can be
// passed straight to pdf.NewReader without touching the file system.
type MemFile struct {
	Data []byte
}

// New creates a new, empty MemFile.
func New() *MemFile {
	return &MemFile{}
}

// Size returns the current length of the file.
func (f *MemFile) Size() int64 {
	return int64(len(f.Data))
}

// Write appends p to the file.
func (f *MemFile) Write(p []byte) (int, error) {
	f.Data = append(f.Data, p...)
	return len(p), nil
}

// ReadAt reads data from the given offset.
func (f *MemFile) ReadAt(p []byte, off int64) (int, error) {
	return bytes.NewReader(f.Data).ReadAt(p, off)
}
