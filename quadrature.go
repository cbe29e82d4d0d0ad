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

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// gaussNodes computes the n Gauss-Legendre nodes (roots of Pₙ) and
// quadrature weights on [-1, 1], nodes in descending order so that the
// corresponding latitudes run north to south. Roots are found by
// Newton iteration from the Tricomi initial guess; the weights are
// w = 2 / ((1-x²) Pₙ'(x)²).
func gaussNodes(n int) (x, w []float64) {
	x = make([]float64, n)
	w = make([]float64, n)
	for i := 0; i < n; i++ {
		z := math.Cos(math.Pi * (float64(i) + 0.75) / (float64(n) + 0.5))
		var dp float64
		for it := 0; it < 100; it++ {
			p0, p1 := 1.0, z
			for l := 2; l <= n; l++ {
				p0, p1 = p1, (float64(2*l-1)*z*p1-float64(l-1)*p0)/float64(l)
			}
			dp = float64(n) * (z*p1 - p0) / (z*z - 1)
			dz := p1 / dp
			z -= dz
			if math.Abs(dz) < 1e-15 {
				break
			}
		}
		x[i] = z
		w[i] = 2 / ((1 - z*z) * dp * dp)
	}
	return x, w
}

// regularWeights computes analysis weights for an arbitrary set of
// latitude nodes x (sines of latitude) by requiring the quadrature to
// integrate the normalized Legendre polynomials P̄₀..P̄ₙ₋₁ exactly:
// only P̄₀ has a nonzero integral, sqrt(2). The resulting linear system
// is solved with gonum; it is well conditioned for the equally spaced
// cell-center latitudes the regular grid uses.
func regularWeights(x []float64) ([]float64, error) {
	n := len(x)
	a := mat.NewDense(n, n, nil)
	b := mat.NewVecDense(n, nil)
	b.SetVec(0, math.Sqrt2)
	for j, xj := range x {
		row := legendreRow(xj, n-1)
		for l := 0; l < n; l++ {
			a.Set(l, j, row[l]) // coeffIndex(n-1, l, 0) == l
		}
	}
	var wv mat.VecDense
	if err := wv.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("spharm: solving for regular-grid quadrature weights: %v", err)
	}
	w := make([]float64, n)
	for i := range w {
		w[i] = wv.AtVec(i)
	}
	if s := floats.Sum(w); math.Abs(s-2) > 1e-8 {
		return nil, fmt.Errorf("spharm: regular-grid quadrature weights sum to %g, want 2", s)
	}
	return w, nil
}

// buildAnalysis computes, for each zonal wavenumber m, the analysis
// operator mapping a latitudinal profile of that harmonic to spectral
// coefficients: the weighted least-squares pseudo-inverse
// (PᵀWP)⁻¹PᵀW of the synthesis matrix P[j][l-m] = P̄ₗᵐ(xⱼ), with W the
// quadrature weights. On Gaussian nodes PᵀWP is the identity and this
// reduces to Gauss quadrature; on any node set it is an exact left
// inverse of synthesis, which makes repeated truncation at a fixed
// wavenumber idempotent. Each operator is returned flattened row-major,
// (M-m+1) x nlat.
func buildAnalysis(rows [][]float64, w []float64, M, mmax int) ([][]float64, error) {
	nlat := len(rows)
	out := make([][]float64, mmax+1)
	for m := 0; m <= mmax; m++ {
		k := M - m + 1
		p := mat.NewDense(nlat, k, nil)
		ptw := mat.NewDense(k, nlat, nil)
		for j := 0; j < nlat; j++ {
			for l := m; l <= M; l++ {
				v := rows[j][coeffIndex(M, l, m)]
				p.Set(j, l-m, v)
				ptw.Set(l-m, j, v*w[j])
			}
		}
		var g, x mat.Dense
		g.Mul(ptw, p)
		if err := x.Solve(&g, ptw); err != nil {
			return nil, fmt.Errorf("spharm: building analysis operator for wavenumber %d: %v", m, err)
		}
		flat := make([]float64, k*nlat)
		for r := 0; r < k; r++ {
			for j := 0; j < nlat; j++ {
				flat[r*nlat+j] = x.At(r, j)
			}
		}
		out[m] = flat
	}
	return out, nil
}
