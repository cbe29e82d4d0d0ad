/*
Copyright © 2024 the spharm authors.
This file is part of spharm.

spharm is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

spharm is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with spharm.  If not, see <http://www.gnu.org/licenses/>.
*/

package spharm

import (
	"fmt"

	"github.com/ctessum/sparse"
)

// Names of the two spatial dimensions every field must carry.
const (
	LatDim = "lat"
	LonDim = "lon"
)

// Field is a labeled multidimensional array: a dense data array plus
// one dimension name per axis, in axis order. A field used with a
// Transform must have exactly one "lat" and one "lon" dimension; any
// other dimensions (time, level, member, ...) are carried through
// operators unchanged.
type Field struct {
	Data *sparse.DenseArray
	Dims []string

	// Attrs holds descriptive metadata such as "long_name" and
	// "units". Operators set these on their outputs; they have no
	// effect on any computation.
	Attrs map[string]string
}

// NewField creates a field from data and dimension labels. It returns
// an error wrapping ErrUnsupportedShape if the number of labels does
// not match the data rank.
func NewField(data *sparse.DenseArray, dims []string) (*Field, error) {
	if data == nil {
		return nil, fmt.Errorf("spharm.NewField: %w: nil data array", ErrUnsupportedShape)
	}
	if len(dims) != len(data.Shape) {
		return nil, fmt.Errorf("spharm.NewField: %w: %d dimension labels for rank-%d data",
			ErrUnsupportedShape, len(dims), len(data.Shape))
	}
	return &Field{
		Data:  data,
		Dims:  append([]string{}, dims...),
		Attrs: make(map[string]string),
	}, nil
}

// Copy returns a deep copy of the field.
func (f *Field) Copy() *Field {
	o := &Field{
		Data:  f.Data.Copy(),
		Dims:  append([]string{}, f.Dims...),
		Attrs: make(map[string]string, len(f.Attrs)),
	}
	for k, v := range f.Attrs {
		o.Attrs[k] = v
	}
	return o
}

// dimIndex returns the axis position of the named dimension, or -1.
func (f *Field) dimIndex(name string) int {
	for i, d := range f.Dims {
		if d == name {
			return i
		}
	}
	return -1
}

// dimSize returns the length of the named dimension, or -1.
func (f *Field) dimSize(name string) int {
	i := f.dimIndex(name)
	if i < 0 {
		return -1
	}
	return f.Data.Shape[i]
}

// describe sets the long_name and units attributes.
func (f *Field) describe(longName, units string) *Field {
	if f.Attrs == nil {
		f.Attrs = make(map[string]string)
	}
	f.Attrs["long_name"] = longName
	f.Attrs["units"] = units
	return f
}

// Dataset is a named collection of fields, analogous to a collection
// of data variables sharing a grid.
type Dataset map[string]*Field

// Data is the input type accepted by operators that work on either a
// single field or every variable of a dataset. Its only
// implementations are *Field and Dataset.
type Data interface {
	dataVariant()
}

func (*Field) dataVariant()  {}
func (Dataset) dataVariant() {}

// sameExtraDims reports whether two fields have identical extra
// (non-spatial) dimensions: same names, same order, same sizes.
func sameExtraDims(a, b *Field) bool {
	ad, bd := extraDims(a), extraDims(b)
	if len(ad) != len(bd) {
		return false
	}
	for i := range ad {
		if ad[i] != bd[i] || a.dimSize(ad[i]) != b.dimSize(bd[i]) {
			return false
		}
	}
	return true
}

// extraDims lists the non-spatial dimension names in the order they
// appear on the field.
func extraDims(f *Field) []string {
	var o []string
	for _, d := range f.Dims {
		if d != LatDim && d != LonDim {
			o = append(o, d)
		}
	}
	return o
}
