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

// canonical is a field rearranged into the layout the spectral engine
// requires: [nlat, nlon] for a purely spatial field, or [nlat, nlon, nt]
// with every extra dimension stacked into the trailing axis. It keeps
// the bookkeeping needed to restore the original arrangement.
type canonical struct {
	data *sparse.DenseArray

	// extraDims and extraSizes describe the stacked dimensions in the
	// order they appeared on the source field.
	extraDims  []string
	extraSizes []int

	// arena is the ordered Cartesian product of extra-dimension index
	// tuples. Position in the arena is the index along the stacked
	// axis, on both the stacking and unstacking paths.
	arena [][]int
}

// indexArena enumerates the row-major Cartesian product of index
// tuples for the given sizes. An empty size list yields one empty
// tuple.
func indexArena(sizes []int) [][]int {
	n := 1
	for _, s := range sizes {
		n *= s
	}
	arena := make([][]int, n)
	tuple := make([]int, len(sizes))
	for p := 0; p < n; p++ {
		arena[p] = append([]int{}, tuple...)
		for i := len(sizes) - 1; i >= 0; i-- {
			tuple[i]++
			if tuple[i] < sizes[i] {
				break
			}
			tuple[i] = 0
		}
	}
	return arena
}

// toCanonical rearranges a field into the engine layout. With no extra
// dimensions the result is [nlat, nlon]; otherwise it is
// [nlat, nlon, nt] where nt is the product of the extra sizes. The
// rearrangement is a bijection on elements; restore inverts it exactly.
func toCanonical(f *Field) (*canonical, error) {
	if f == nil || f.Data == nil {
		return nil, fmt.Errorf("%w: nil field", ErrUnsupportedShape)
	}
	if len(f.Dims) != len(f.Data.Shape) {
		return nil, fmt.Errorf("%w: %d dimension labels for rank-%d data",
			ErrUnsupportedShape, len(f.Dims), len(f.Data.Shape))
	}
	iLat, iLon := f.dimIndex(LatDim), f.dimIndex(LonDim)
	if iLat < 0 || iLon < 0 {
		return nil, fmt.Errorf("%w: field dimensions %v lack %q or %q",
			ErrUnsupportedShape, f.Dims, LatDim, LonDim)
	}
	nlat, nlon := f.Data.Shape[iLat], f.Data.Shape[iLon]

	c := &canonical{}
	var extraPos []int
	for i, d := range f.Dims {
		if i == iLat || i == iLon {
			continue
		}
		c.extraDims = append(c.extraDims, d)
		c.extraSizes = append(c.extraSizes, f.Data.Shape[i])
		extraPos = append(extraPos, i)
	}
	c.arena = indexArena(c.extraSizes)

	if len(c.extraDims) == 0 {
		c.data = sparse.ZerosDense(nlat, nlon)
		src := make([]int, 2)
		for j := 0; j < nlat; j++ {
			for i := 0; i < nlon; i++ {
				src[iLat], src[iLon] = j, i
				c.data.Set(f.Data.Get(src...), j, i)
			}
		}
		return c, nil
	}

	c.data = sparse.ZerosDense(nlat, nlon, len(c.arena))
	src := make([]int, len(f.Dims))
	for t, tuple := range c.arena {
		for k, p := range extraPos {
			src[p] = tuple[k]
		}
		for j := 0; j < nlat; j++ {
			src[iLat] = j
			for i := 0; i < nlon; i++ {
				src[iLon] = i
				c.data.Set(f.Data.Get(src...), j, i, t)
			}
		}
	}
	return c, nil
}

// restore builds a field from an array in the canonical layout,
// unstacking the trailing axis back into the original extra dimensions
// and ordering the result (extra..., lat, lon).
func (c *canonical) restore(arr *sparse.DenseArray) (*Field, error) {
	nlat, nlon := arr.Shape[0], arr.Shape[1]
	nt := 1
	if len(arr.Shape) == 3 {
		nt = arr.Shape[2]
	} else if len(arr.Shape) != 2 {
		return nil, fmt.Errorf("%w: canonical array has rank %d",
			ErrUnsupportedShape, len(arr.Shape))
	}
	if nt != len(c.arena) {
		return nil, fmt.Errorf("%w: canonical array has %d stacked elements, want %d",
			ErrShapeMismatch, nt, len(c.arena))
	}

	if len(c.extraDims) == 0 {
		out := sparse.ZerosDense(nlat, nlon)
		for j := 0; j < nlat; j++ {
			for i := 0; i < nlon; i++ {
				if len(arr.Shape) == 3 {
					out.Set(arr.Get(j, i, 0), j, i)
				} else {
					out.Set(arr.Get(j, i), j, i)
				}
			}
		}
		return NewField(out, []string{LatDim, LonDim})
	}

	shape := append(append([]int{}, c.extraSizes...), nlat, nlon)
	dims := append(append([]string{}, c.extraDims...), LatDim, LonDim)
	out := sparse.ZerosDense(shape...)
	dst := make([]int, len(shape))
	for t, tuple := range c.arena {
		copy(dst, tuple)
		for j := 0; j < nlat; j++ {
			dst[len(tuple)] = j
			for i := 0; i < nlon; i++ {
				dst[len(tuple)+1] = i
				out.Set(arr.Get(j, i, t), dst...)
			}
		}
	}
	return NewField(out, dims)
}

// asEngineArray returns the canonical data with an explicit stacked
// axis, so the engine always sees [nlat, nlon, nt].
func (c *canonical) asEngineArray() *sparse.DenseArray {
	if len(c.data.Shape) == 3 {
		return c.data
	}
	a := &sparse.DenseArray{
		Elements: c.data.Elements,
		Shape:    []int{c.data.Shape[0], c.data.Shape[1], 1},
	}
	a.Fix()
	return a
}
