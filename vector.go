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

// WindToVortDiv computes the spectral relative vorticity and
// divergence of the horizontal wind:
//
//	ζ = (1/(r cos φ)) [∂v/∂λ - ∂(u cos φ)/∂φ]
//	D = (1/(r cos φ)) [∂u/∂λ + ∂(v cos φ)/∂φ]
//
// Each coefficient is a single quadrature of the wind itself: the
// φ-derivatives are moved onto the Legendre functions by integration
// by parts (the boundary terms carry a factor cos φ and vanish at the
// poles), giving
//
//	ζₗᵐ = (1/r) Σⱼ wⱼ [i m vₘ(φⱼ) P̄ₗᵐ/cos φⱼ + uₘ(φⱼ) dP̄ₗᵐ/dφ]
//	Dₗᵐ = (1/r) Σⱼ wⱼ [i m uₘ(φⱼ) P̄ₗᵐ/cos φⱼ - vₘ(φⱼ) dP̄ₗᵐ/dφ]
//
// where uₘ, vₘ are the zonal Fourier coefficients at each latitude.
// Winds derived from band-limited potentials carry a 1/cos φ factor
// and are not band-limited themselves, but these integrands are, so
// on the Gaussian grid the analysis is exact for such winds.
func (s *SHT) WindToVortDiv(u, v *sparse.DenseArray, ntrunc int) (*Coeffs, *Coeffs, error) {
	nt, err := s.checkWindPair(u, v)
	if err != nil {
		return nil, nil, err
	}
	M, err := s.resolve(ntrunc)
	if err != nil {
		return nil, nil, err
	}
	mm := s.mmax
	if mm > M {
		mm = M
	}
	um := s.fourierAnalyze(u, nt, mm)
	vm := s.fourierAnalyze(v, nt, mm)

	vort := newCoeffs(M, nt)
	div := newCoeffs(M, nt)
	for j := 0; j < s.nlat; j++ {
		p, dp := s.legendre(j)
		wr := s.wts[j] / s.rsphere
		invCos := 1 / s.cosLat[j]
		for m := 0; m <= mm; m++ {
			uj := um[(j*(mm+1)+m)*nt : (j*(mm+1)+m+1)*nt]
			vj := vm[(j*(mm+1)+m)*nt : (j*(mm+1)+m+1)*nt]
			for l := m; l <= M; l++ {
				k := coeffIndex(s.mfull, l, m)
				a := complex(0, float64(m)*wr*invCos*p[k])
				b := complex(wr*dp[k], 0)
				row := coeffIndex(M, l, m) * nt
				for t := 0; t < nt; t++ {
					vort.Elements[row+t] += a*vj[t] + b*uj[t]
					div.Elements[row+t] += a*uj[t] - b*vj[t]
				}
			}
		}
	}
	return vort, div, nil
}

// WindToPotentials computes the streamfunction and velocity potential
// grids of the horizontal wind by inverting the Laplacian of the
// spectral vorticity and divergence: ψₗᵐ = -r² ζₗᵐ / (l(l+1)), and
// likewise for χ from D. The degree-zero component is undetermined and
// set to zero.
func (s *SHT) WindToPotentials(u, v *sparse.DenseArray, ntrunc int) (*sparse.DenseArray, *sparse.DenseArray, error) {
	vortC, divC, err := s.WindToVortDiv(u, v, ntrunc)
	if err != nil {
		return nil, nil, err
	}
	psi, err := s.Inverse(s.invertLaplacian(vortC))
	if err != nil {
		return nil, nil, err
	}
	chi, err := s.Inverse(s.invertLaplacian(divC))
	if err != nil {
		return nil, nil, err
	}
	return psi, chi, nil
}

// invertLaplacian solves ∇²f = g in spectral space.
func (s *SHT) invertLaplacian(g *Coeffs) *Coeffs {
	o := g.Copy()
	r2 := s.rsphere * s.rsphere
	for m := 0; m <= o.Ntrunc; m++ {
		for l := m; l <= o.Ntrunc; l++ {
			k := coeffIndex(o.Ntrunc, l, m)
			row := o.Elements[k*o.Nt : (k+1)*o.Nt]
			if l == 0 {
				for t := range row {
					row[t] = 0
				}
				continue
			}
			f := complex(-r2/(float64(l)*float64(l+1)), 0)
			for t := range row {
				row[t] *= f
			}
		}
	}
	return o
}

func (s *SHT) checkWindPair(u, v *sparse.DenseArray) (nt int, err error) {
	nt, err = s.checkGrid(u)
	if err != nil {
		return 0, err
	}
	ntv, err := s.checkGrid(v)
	if err != nil {
		return 0, err
	}
	if nt != ntv {
		return 0, fmt.Errorf("%w: u has %d stacked elements but v has %d",
			ErrShapeMismatch, nt, ntv)
	}
	return nt, nil
}
