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

package pdf

// A Copier is used to copy objects from one PDF file to another.  The Copier
// keeps track of the objects that have already been copied and ensures that
// each object is copied only once.
//
// Indirect objects are allocated in the target file as needed, and references
// are translated accordingly.
type Copier struct {
	trans map[Reference]Reference
	r     Getter
	w     *Writer
}

// NewCopier creates a new Copier.
func NewCopier(w *Writer, r Getter) *Copier {
	return &Copier{
		trans: make(map[Reference]Reference),
		w:     w,
		r:     r,
	}
}

// Copy copies an object from the source file to the target file, recursively.
//
// The returned object has the same type as the input object.
func (c *Copier) Copy(obj Object) (Object, error) {
	switch x := obj.(type) {
	case Dict:
		return c.CopyDict(x)
	case Array:
		return c.CopyArray(x)
	case *Stream:
		return c.CopyStream(x)
	case Reference:
		return c.CopyReference(x)
	default:
		return obj, nil
	}
}

// CopyDict copies a dictionary from the source file to the target file.
func (c *Copier) CopyDict(obj Dict) (Dict, error) {
	res := make(Dict, len(obj))
	for key, val := range obj {
		repl, err := c.Copy(val)
		if err != nil {
			return nil, err
		}
		res[key] = repl
	}
	return res, nil
}

// CopyArray copies an array from the source file to the target file.
func (c *Copier) CopyArray(obj Array) (Array, error) {
	res := make(Array, len(obj))
	for i, val := range obj {
		repl, err := c.Copy(val)
		if err != nil {
			return nil, err
		}
		res[i] = repl
	}
	return res, nil
}

// CopyStream copies a stream.  The stream data is passed through unchanged,
// and the /Length entry is made direct.
func (c *Copier) CopyStream(obj *Stream) (*Stream, error) {
	length, err := GetInteger(c.r, obj.Dict["Length"])
	if err != nil {
		return nil, err
	}
	dict := obj.Dict.Clone()
	dict["Length"] = length
	dict, err = c.CopyDict(dict)
	if err != nil {
		return nil, err
	}
	return &Stream{
		Dict: dict,
		R:    obj.R,
	}, nil
}

// CopyReference copies a reference from the source file to the target file.
//
// This method shortens chains of indirect references, the returned reference
// always points to a direct object.
func (c *Copier) CopyReference(obj Reference) (Reference, error) {
	newRef, ok := c.trans[obj]
	if ok {
		return newRef, nil
	}
	newRef = c.w.Alloc()
	c.trans[obj] = newRef

	val, err := Resolve(c.r, obj)
	if err != nil {
		return Reference{}, err
	}
	trans, err := c.Copy(val)
	if err != nil {
		return Reference{}, err
	}
	err = c.w.Put(newRef, trans)
	if err != nil {
		return Reference{}, err
	}

	return newRef, nil
}

// Redirect replaces an indirect object in the old file with one in the new
// file.
func (c *Copier) Redirect(origRef, newRef Reference) {
	c.trans[origRef] = newRef
}
