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
	"log"
	"math"

	"github.com/ctessum/sparse"
)

// GridType selects the latitude placement of the transform grid.
type GridType string

const (
	// Regular places latitudes at equally spaced cell centers from
	// north to south, with no points at the poles.
	Regular GridType = "regular"
	// Gaussian places latitudes at the Gauss-Legendre nodes.
	Gaussian GridType = "gaussian"
)

// LegendreMode selects how the engine obtains associated Legendre
// function values: precomputed tables trade memory for speed. The
// choice has no effect on results.
type LegendreMode string

const (
	LegendreStored   LegendreMode = "stored"
	LegendreComputed LegendreMode = "computed"
)

// Engine is the spectral transform collaborator a Transform composes
// its operators from. Grid arrays are [nlat, nlon, nt] (nt may be 1);
// coefficient arrays use the triangular packing of DegreeOrder. A
// non-positive ntrunc means the grid's native resolution, nlat-1.
// Any substitute engine must use the identical coefficient ordering,
// or spectral filters will be applied to the wrong coefficients.
type Engine interface {
	// Lats returns the grid latitudes in degrees north, north to south.
	Lats() []float64
	// Forward transforms a grid array to spectral coefficients,
	// truncating at ntrunc.
	Forward(grid *sparse.DenseArray, ntrunc int) (*Coeffs, error)
	// Inverse synthesizes a grid array from spectral coefficients.
	Inverse(c *Coeffs) (*sparse.DenseArray, error)
	// WindToPotentials computes the streamfunction and velocity
	// potential grids of the wind (u, v).
	WindToPotentials(u, v *sparse.DenseArray, ntrunc int) (*sparse.DenseArray, *sparse.DenseArray, error)
	// WindToVortDiv computes the spectral relative vorticity and
	// divergence of the wind (u, v).
	WindToVortDiv(u, v *sparse.DenseArray, ntrunc int) (*Coeffs, *Coeffs, error)
	// Gradient computes the grid-space gradient of a scalar field
	// given in spectral form: the east-west component
	// (1/(r cos φ)) ∂f/∂λ and the north-south component (1/r) ∂f/∂φ.
	Gradient(c *Coeffs) (*sparse.DenseArray, *sparse.DenseArray, error)
}

// SHT is the default spectral transform engine: a spherical-harmonic
// analysis/synthesis pair with triangular truncation on a fixed
// latitude-longitude grid. It is immutable after construction and safe
// for concurrent use; all per-call scratch space is allocated locally.
type SHT struct {
	nlon, nlat int
	rsphere    float64
	gridtype   GridType
	legmode    LegendreMode

	mfull int // native spectral resolution, nlat-1
	mmax  int // highest resolvable zonal wavenumber

	lats   []float64 // degrees north, north to south
	x      []float64 // sin(lat)
	wts    []float64 // analysis quadrature weights on x
	cosLat []float64

	// Legendre tables, one row per latitude (LegendreStored only).
	pbar  [][]float64
	dpbar [][]float64

	// analysis[m] maps the latitudinal profile of zonal harmonic m to
	// spectral coefficients; see buildAnalysis.
	analysis [][]float64

	// Longitude harmonics cos(m λᵢ), sin(m λᵢ).
	cosml, sinml [][]float64
}

// NewSHT creates a spectral transform engine for an nlat x nlon grid.
func NewSHT(nlon, nlat int, gridtype GridType, rsphere float64, legmode LegendreMode) (*SHT, error) {
	if nlat < 2 || nlon < 4 {
		return nil, fmt.Errorf("spharm.NewSHT: %w: grid is %d x %d, need at least 2 x 4",
			ErrInvalidParameter, nlat, nlon)
	}
	if rsphere <= 0 {
		return nil, fmt.Errorf("spharm.NewSHT: %w: sphere radius %g", ErrInvalidParameter, rsphere)
	}
	s := &SHT{
		nlon:     nlon,
		nlat:     nlat,
		rsphere:  rsphere,
		gridtype: gridtype,
		legmode:  legmode,
		mfull:    nlat - 1,
	}
	// Exclude the Nyquist zonal wavenumber so every retained harmonic
	// has a full conjugate pair.
	s.mmax = s.mfull
	if lim := (nlon - 1) / 2; s.mmax > lim {
		s.mmax = lim
	}

	switch gridtype {
	case Gaussian:
		s.x, s.wts = gaussNodes(nlat)
		s.lats = make([]float64, nlat)
		for j, xj := range s.x {
			s.lats[j] = math.Asin(xj) * 180 / math.Pi
		}
	case Regular:
		s.lats = make([]float64, nlat)
		s.x = make([]float64, nlat)
		dlat := 180 / float64(nlat)
		for j := 0; j < nlat; j++ {
			s.lats[j] = 90 - (float64(j)+0.5)*dlat
			s.x[j] = math.Sin(s.lats[j] * math.Pi / 180)
		}
		var err error
		s.wts, err = regularWeights(s.x)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("spharm.NewSHT: %w: unknown grid type %q",
			ErrInvalidParameter, gridtype)
	}

	s.cosLat = make([]float64, nlat)
	for j, xj := range s.x {
		s.cosLat[j] = math.Sqrt(1 - xj*xj)
	}

	rows := make([][]float64, nlat)
	for j, xj := range s.x {
		rows[j] = legendreRow(xj, s.mfull)
	}
	var err error
	if s.analysis, err = buildAnalysis(rows, s.wts, s.mfull, s.mmax); err != nil {
		return nil, err
	}

	switch legmode {
	case LegendreStored:
		s.pbar = rows
		s.dpbar = make([][]float64, nlat)
		for j, xj := range s.x {
			s.dpbar[j] = legendreDerivRow(xj, rows[j], s.mfull)
		}
		log.Printf("spharm: stored Legendre tables for %d x %d grid (%d coefficients)",
			nlat, nlon, coeffCount(s.mfull))
	case LegendreComputed:
		// Synthesis rows are recomputed on demand in legendre().
	default:
		return nil, fmt.Errorf("spharm.NewSHT: %w: unknown Legendre mode %q",
			ErrInvalidParameter, legmode)
	}

	s.cosml = make([][]float64, s.mmax+1)
	s.sinml = make([][]float64, s.mmax+1)
	for m := 0; m <= s.mmax; m++ {
		s.cosml[m] = make([]float64, nlon)
		s.sinml[m] = make([]float64, nlon)
		for i := 0; i < nlon; i++ {
			arg := 2 * math.Pi * float64(m) * float64(i) / float64(nlon)
			s.cosml[m][i] = math.Cos(arg)
			s.sinml[m][i] = math.Sin(arg)
		}
	}
	return s, nil
}

// Lats returns the grid latitudes in degrees north, north to south.
func (s *SHT) Lats() []float64 {
	return append([]float64{}, s.lats...)
}

// Lons returns the grid longitudes in degrees east, starting at 0.
func (s *SHT) Lons() []float64 {
	o := make([]float64, s.nlon)
	for i := range o {
		o[i] = 360 * float64(i) / float64(s.nlon)
	}
	return o
}

// legendre returns the P̄ and dP̄/dφ rows for latitude index j.
func (s *SHT) legendre(j int) (p, dp []float64) {
	if s.legmode == LegendreStored {
		return s.pbar[j], s.dpbar[j]
	}
	p = legendreRow(s.x[j], s.mfull)
	return p, legendreDerivRow(s.x[j], p, s.mfull)
}

// resolve maps the optional truncation wavenumber to a concrete one.
func (s *SHT) resolve(ntrunc int) (int, error) {
	if ntrunc <= 0 {
		return s.mfull, nil
	}
	if ntrunc > s.mfull {
		return 0, fmt.Errorf("%w: ntrunc %d exceeds grid resolution %d",
			ErrInvalidParameter, ntrunc, s.mfull)
	}
	return ntrunc, nil
}

// checkGrid validates a canonical grid array and returns its stacked size.
func (s *SHT) checkGrid(grid *sparse.DenseArray) (nt int, err error) {
	if grid == nil {
		return 0, fmt.Errorf("%w: nil grid array", ErrUnsupportedShape)
	}
	sh := grid.Shape
	if len(sh) != 3 && len(sh) != 2 {
		return 0, fmt.Errorf("%w: grid array has rank %d, want 2 or 3",
			ErrUnsupportedShape, len(sh))
	}
	if sh[0] != s.nlat || sh[1] != s.nlon {
		return 0, fmt.Errorf("%w: grid array is %d x %d, engine grid is %d x %d",
			ErrShapeMismatch, sh[0], sh[1], s.nlat, s.nlon)
	}
	if len(sh) == 3 {
		return sh[2], nil
	}
	return 1, nil
}
