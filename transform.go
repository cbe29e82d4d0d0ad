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
	"gonum.org/v1/gonum/dsp/fourier"
)

// Coeffs holds spherical-harmonic coefficients for a batch of fields:
// Ncoef coefficient rows of Nt stacked values each, row-major. Rows
// follow the DegreeOrder packing at resolution Ntrunc, so
// Ncoef = (Ntrunc+1)(Ntrunc+2)/2.
type Coeffs struct {
	Elements []complex128
	Ncoef    int
	Nt       int
	Ntrunc   int
}

func newCoeffs(ntrunc, nt int) *Coeffs {
	n := coeffCount(ntrunc)
	return &Coeffs{
		Elements: make([]complex128, n*nt),
		Ncoef:    n,
		Nt:       nt,
		Ntrunc:   ntrunc,
	}
}

// Copy returns a deep copy.
func (c *Coeffs) Copy() *Coeffs {
	o := *c
	o.Elements = append([]complex128{}, c.Elements...)
	return &o
}

// at returns the coefficient for degree l, order m, stacked index t.
func (c *Coeffs) at(l, m, t int) complex128 {
	return c.Elements[coeffIndex(c.Ntrunc, l, m)*c.Nt+t]
}

// Forward transforms a grid array to spectral coefficients truncated
// at ntrunc (non-positive means nlat-1). The longitudinal analysis
// uses a real FFT; the latitudinal analysis applies the per-wavenumber
// operators of buildAnalysis at full resolution, after which the
// coefficient triangle is cut at ntrunc. The stacked trailing
// dimension is transformed in one pass.
func (s *SHT) Forward(grid *sparse.DenseArray, ntrunc int) (*Coeffs, error) {
	nt, err := s.checkGrid(grid)
	if err != nil {
		return nil, err
	}
	M, err := s.resolve(ntrunc)
	if err != nil {
		return nil, err
	}
	c := newCoeffs(M, nt)
	mm := s.mmax
	if mm > M {
		mm = M
	}

	four := s.fourierAnalyze(grid, nt, mm)
	for m := 0; m <= mm; m++ {
		a := s.analysis[m]
		for l := m; l <= M; l++ {
			row := c.Elements[coeffIndex(M, l, m)*nt : (coeffIndex(M, l, m)+1)*nt]
			for j := 0; j < s.nlat; j++ {
				aj := complex(a[(l-m)*s.nlat+j], 0)
				for t := 0; t < nt; t++ {
					row[t] += aj * four[(j*(mm+1)+m)*nt+t]
				}
			}
		}
	}
	return c, nil
}

// fourierAnalyze computes the zonal Fourier coefficients of every
// latitude row: element (j*(mm+1)+m)*nt+t of the result is the m-th
// zonal harmonic of stacked slice t at latitude j. The FFT plan
// carries internal scratch space, so it is created per call to keep
// the engine safe for concurrent use.
func (s *SHT) fourierAnalyze(grid *sparse.DenseArray, nt, mm int) []complex128 {
	fft := fourier.NewFFT(s.nlon)
	seq := make([]float64, s.nlon)
	fm := make([]complex128, s.nlon/2+1)
	inv := 1 / float64(s.nlon)
	four := make([]complex128, s.nlat*(mm+1)*nt)
	for j := 0; j < s.nlat; j++ {
		for t := 0; t < nt; t++ {
			for i := 0; i < s.nlon; i++ {
				seq[i] = grid.Elements[(j*s.nlon+i)*nt+t]
			}
			fft.Coefficients(fm, seq)
			for m := 0; m <= mm; m++ {
				four[(j*(mm+1)+m)*nt+t] = fm[m] * complex(inv, 0)
			}
		}
	}
	return four
}

// Inverse synthesizes a [nlat, nlon, nt] grid array from spectral
// coefficients.
func (s *SHT) Inverse(c *Coeffs) (*sparse.DenseArray, error) {
	if err := s.checkCoeffs(c); err != nil {
		return nil, err
	}
	return s.synthesize(c, synthPlain), nil
}

// Gradient computes the grid-space gradient components of a scalar
// field given in spectral form: east-west (1/(r cos φ)) ∂f/∂λ and
// north-south (1/r) ∂f/∂φ.
func (s *SHT) Gradient(c *Coeffs) (dLon, dLat *sparse.DenseArray, err error) {
	if err := s.checkCoeffs(c); err != nil {
		return nil, nil, err
	}
	return s.synthesize(c, synthDLon), s.synthesize(c, synthDLat), nil
}

func (s *SHT) checkCoeffs(c *Coeffs) error {
	if c == nil {
		return fmt.Errorf("%w: nil coefficient array", ErrUnsupportedShape)
	}
	if c.Ntrunc > s.mfull {
		return fmt.Errorf("%w: coefficient resolution %d exceeds grid resolution %d",
			ErrInvalidParameter, c.Ntrunc, s.mfull)
	}
	if c.Ncoef != coeffCount(c.Ntrunc) || len(c.Elements) != c.Ncoef*c.Nt {
		return fmt.Errorf("%w: coefficient array dimensions are inconsistent",
			ErrUnsupportedShape)
	}
	return nil
}

// synthesis variants: the plain field, its scaled east-west derivative,
// or its scaled north-south derivative.
type synthKind int

const (
	synthPlain synthKind = iota
	synthDLon
	synthDLat
)

// synthesize evaluates a spectral field (or one of its gradient
// components) on the grid, batching the stacked dimension.
func (s *SHT) synthesize(c *Coeffs, kind synthKind) *sparse.DenseArray {
	M, nt := c.Ntrunc, c.Nt
	mm := s.mmax
	if mm > M {
		mm = M
	}
	out := sparse.ZerosDense(s.nlat, s.nlon, nt)
	gm := make([]complex128, mm+1)
	for j := 0; j < s.nlat; j++ {
		p, dp := s.legendre(j)
		row := p
		if kind == synthDLat {
			row = dp
		}
		scale := 1.0
		switch kind {
		case synthDLon:
			scale = 1 / (s.rsphere * s.cosLat[j])
		case synthDLat:
			scale = 1 / s.rsphere
		}
		for t := 0; t < nt; t++ {
			for m := 0; m <= mm; m++ {
				var g complex128
				for l := m; l <= M; l++ {
					g += c.at(l, m, t) * complex(row[coeffIndex(s.mfull, l, m)], 0)
				}
				gm[m] = g
			}
			for i := 0; i < s.nlon; i++ {
				var v float64
				switch kind {
				case synthDLon:
					// Re(i m G e^{imλ}); the m = 0 term vanishes.
					for m := 1; m <= mm; m++ {
						v -= 2 * float64(m) *
							(imag(gm[m])*s.cosml[m][i] + real(gm[m])*s.sinml[m][i])
					}
				default:
					v = real(gm[0])
					for m := 1; m <= mm; m++ {
						v += 2 * (real(gm[m])*s.cosml[m][i] - imag(gm[m])*s.sinml[m][i])
					}
				}
				out.Elements[(j*s.nlon+i)*nt+t] = v * scale
			}
		}
	}
	return out
}
