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
	"math"
)

// TaperWeights computes the exponential (super-Gaussian) taper weight
// for each coefficient with degree l[i] and order m[i]:
//
//	n = sqrt(l(l+1) + m²)
//	weight = exp(-((n(n+1)) / (ntrunc(ntrunc+1)))^r)
//
// The weight is 1 at total wavenumber 0 and decays smoothly past
// ntrunc rather than cutting off abruptly; r controls the roll-off
// sharpness. It returns an error wrapping ErrInvalidParameter if
// ntrunc or r is not positive or the l and m sequences differ in
// length.
func TaperWeights(l, m []int, ntrunc int, r float64) ([]float64, error) {
	if ntrunc <= 0 {
		return nil, fmt.Errorf("spharm.TaperWeights: %w: ntrunc = %d, must be positive",
			ErrInvalidParameter, ntrunc)
	}
	if r <= 0 {
		return nil, fmt.Errorf("spharm.TaperWeights: %w: r = %g, must be positive",
			ErrInvalidParameter, r)
	}
	if len(l) != len(m) {
		return nil, fmt.Errorf("spharm.TaperWeights: %w: %d degrees but %d orders",
			ErrInvalidParameter, len(l), len(m))
	}
	norm := float64(ntrunc) * float64(ntrunc+1)
	w := make([]float64, len(l))
	for i := range l {
		lf, mf := float64(l[i]), float64(m[i])
		n := math.Sqrt(lf*(lf+1) + mf*mf)
		w[i] = math.Exp(-math.Pow(n*(n+1)/norm, r))
	}
	return w, nil
}

// applyTaper scales each coefficient row of c by the matching weight,
// broadcasting over the trailing stacked dimension.
func applyTaper(c *Coeffs, w []float64) error {
	if len(w) != c.Ncoef {
		return fmt.Errorf("%w: %d weights for %d coefficients", ErrShapeMismatch, len(w), c.Ncoef)
	}
	for k := 0; k < c.Ncoef; k++ {
		row := c.Elements[k*c.Nt : (k+1)*c.Nt]
		for t := range row {
			row[t] *= complex(w[k], 0)
		}
	}
	return nil
}
