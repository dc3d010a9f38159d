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

import (
	"fmt"

	"seehuhn.de/go/geom/rect"
)

// Getter represents a PDF file opened for reading.
type Getter interface {
	// Get reads an indirect object from the file.
	// Missing objects are returned as nil.
	Get(ref Reference) (Object, error)
}

// Resolve resolves references to indirect objects.
//
// If obj is a [Reference], the function reads the corresponding object from
// the file and returns the result.  Chains of references are followed.
// Otherwise, obj is returned unchanged.
func Resolve(r Getter, obj Object) (Object, error) {
	seen := map[Reference]bool{}
	for {
		ref, ok := obj.(Reference)
		if !ok {
			return obj, nil
		}
		if seen[ref] {
			return nil, &MalformedFileError{
				Err: fmt.Errorf("circular reference %s", ref),
			}
		}
		seen[ref] = true

		var err error
		obj, err = r.Get(ref)
		if err != nil {
			return nil, err
		}
	}
}

func getTyped[T Object](r Getter, obj Object, what string) (T, error) {
	var zero T
	obj, err := Resolve(r, obj)
	if err != nil {
		return zero, err
	}
	if obj == nil {
		return zero, nil
	}
	val, ok := obj.(T)
	if !ok {
		return zero, fmt.Errorf("%w: expected %s but got %T", errWrongType, what, obj)
	}
	return val, nil
}

// GetDict resolves references to indirect objects and makes sure the
// resulting object is a dictionary.  A missing object is returned as nil.
func GetDict(r Getter, obj Object) (Dict, error) {
	return getTyped[Dict](r, obj, "Dict")
}

// GetArray resolves references to indirect objects and makes sure the
// resulting object is an array.  A missing object is returned as nil.
func GetArray(r Getter, obj Object) (Array, error) {
	return getTyped[Array](r, obj, "Array")
}

// GetName resolves references to indirect objects and makes sure the
// resulting object is a name.
func GetName(r Getter, obj Object) (Name, error) {
	return getTyped[Name](r, obj, "Name")
}

// GetInteger resolves references to indirect objects and makes sure the
// resulting object is an integer.
func GetInteger(r Getter, obj Object) (Integer, error) {
	return getTyped[Integer](r, obj, "Integer")
}

// GetString resolves references to indirect objects and makes sure the
// resulting object is a string.
func GetString(r Getter, obj Object) (String, error) {
	return getTyped[String](r, obj, "String")
}

// GetStream resolves references to indirect objects and makes sure the
// resulting object is a stream.
func GetStream(r Getter, obj Object) (*Stream, error) {
	return getTyped[*Stream](r, obj, "Stream")
}

// GetTextString resolves references to indirect objects and returns the
// utf-8 representation of a PDF text string.
func GetTextString(r Getter, obj Object) (string, error) {
	s, err := GetString(r, obj)
	if err != nil {
		return "", err
	}
	return s.AsTextString(), nil
}

// GetNumber resolves references to indirect objects and returns the value
// of an Integer or Real object.
func GetNumber(r Getter, obj Object) (float64, error) {
	obj, err := Resolve(r, obj)
	if err != nil {
		return 0, err
	}
	switch x := obj.(type) {
	case Integer:
		return float64(x), nil
	case Real:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("%w: expected number but got %T", errWrongType, obj)
	}
}

// GetRectangle resolves references to indirect objects and converts a PDF
// rectangle array into a normalised rectangle.
func GetRectangle(r Getter, obj Object) (rect.Rect, error) {
	a, err := GetArray(r, obj)
	if err != nil {
		return rect.Rect{}, err
	}
	if len(a) != 4 {
		return rect.Rect{}, fmt.Errorf("%w: rectangle with %d elements", errWrongType, len(a))
	}
	var x [4]float64
	for i, elem := range a {
		x[i], err = GetNumber(r, elem)
		if err != nil {
			return rect.Rect{}, err
		}
	}
	return rect.Rect{
		LLx: min(x[0], x[2]),
		LLy: min(x[1], x[3]),
		URx: max(x[0], x[2]),
		URy: max(x[1], x[3]),
	}, nil
}

// AsRectangle converts a rectangle into a PDF array.
func AsRectangle(r rect.Rect) Array {
	return Array{number(r.LLx), number(r.LLy), number(r.URx), number(r.URy)}
}

// number returns x as an Integer, if x is integral, and as a Real otherwise.
func number(x float64) Object {
	if x == float64(int64(x)) {
		return Integer(x)
	}
	return Real(x)
}
