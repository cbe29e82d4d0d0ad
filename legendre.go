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

import "math"

// legendreRow evaluates the normalized associated Legendre functions
// P̄ₗᵐ(x) for the full coefficient triangle at resolution M, packed in
// the DegreeOrder sequence. Normalization is chosen so that
// ∫₋₁¹ P̄ₗᵐ(x)² dx = 1, with no Condon-Shortley phase. The recurrences
// are the standard numerically stable ones: diagonal seed P̄ₘᵐ from
// P̄ₘ₋₁ᵐ⁻¹, then three-term recursion in degree.
func legendreRow(x float64, M int) []float64 {
	p := make([]float64, coeffCount(M))
	s := math.Sqrt(1 - x*x)
	pmm := math.Sqrt(0.5)
	for m := 0; m <= M; m++ {
		if m > 0 {
			pmm *= s * math.Sqrt(float64(2*m+1)/float64(2*m))
		}
		k := coeffIndex(M, m, m)
		p[k] = pmm
		if m < M {
			p[k+1] = math.Sqrt(float64(2*m+3)) * x * pmm
		}
		for l := m + 2; l <= M; l++ {
			lf, mf := float64(l), float64(m)
			a := math.Sqrt((2*lf - 1) * (2*lf + 1) / ((lf - mf) * (lf + mf)))
			b := math.Sqrt((2*lf + 1) * (lf + mf - 1) * (lf - mf - 1) /
				((2*lf - 3) * (lf - mf) * (lf + mf)))
			p[coeffIndex(M, l, m)] = a*x*p[coeffIndex(M, l-1, m)] -
				b*p[coeffIndex(M, l-2, m)]
		}
	}
	return p
}

// legendreDerivRow evaluates dP̄ₗᵐ/dφ at latitude φ with x = sin(φ),
// given the P̄ row at the same point. Uses the relation
//
//	dP̄ₗᵐ/dφ = (εₗᵐ P̄ₗ₋₁ᵐ - l x P̄ₗᵐ) / cos(φ),
//	εₗᵐ = sqrt((2l+1)(l²-m²)/(2l-1)),
//
// which requires cos(φ) > 0; the engine's grids contain no pole points.
func legendreDerivRow(x float64, p []float64, M int) []float64 {
	dp := make([]float64, len(p))
	cosphi := math.Sqrt(1 - x*x)
	for m := 0; m <= M; m++ {
		for l := m; l <= M; l++ {
			k := coeffIndex(M, l, m)
			v := -float64(l) * x * p[k]
			if l > m {
				lf, mf := float64(l), float64(m)
				eps := math.Sqrt((2*lf + 1) * (lf*lf - mf*mf) / (2*lf - 1))
				v += eps * p[coeffIndex(M, l-1, m)]
			}
			dp[k] = v / cosphi
		}
	}
	return dp
}
