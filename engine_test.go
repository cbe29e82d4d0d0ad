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
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/ctessum/sparse"
)

func newTestSHT(t *testing.T, nlon, nlat int, gridtype GridType) *SHT {
	t.Helper()
	s, err := NewSHT(nlon, nlat, gridtype, EarthRadius, LegendreStored)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestGaussNodes(t *testing.T) {
	x, w := gaussNodes(8)
	var sum float64
	for i, wi := range w {
		sum += wi
		if i > 0 && x[i] >= x[i-1] {
			t.Errorf("nodes not descending: x[%d] = %g, x[%d] = %g", i-1, x[i-1], i, x[i])
		}
	}
	if math.Abs(sum-2) > 1e-14 {
		t.Errorf("weights sum to %g, want 2", sum)
	}
	// Gauss quadrature with 8 nodes integrates x^14 exactly:
	// ∫x^14 dx = 2/15 on [-1, 1].
	var integral float64
	for i := range x {
		integral += w[i] * math.Pow(x[i], 14)
	}
	if math.Abs(integral-2.0/15) > 1e-14 {
		t.Errorf("∫x^14 = %g, want %g", integral, 2.0/15)
	}
}

func TestRegularWeights(t *testing.T) {
	s := newTestSHT(t, 16, 8, Regular)
	// The solved weights integrate every retained Legendre polynomial
	// exactly: zero except for degree 0.
	for l := 0; l <= s.mfull; l++ {
		var integral float64
		for j, xj := range s.x {
			integral += s.wts[j] * legendreRow(xj, s.mfull)[l]
		}
		want := 0.0
		if l == 0 {
			want = math.Sqrt2
		}
		if math.Abs(integral-want) > 1e-10 {
			t.Errorf("∫P̄_%d = %g, want %g", l, integral, want)
		}
	}
}

func TestLegendreOrthonormal(t *testing.T) {
	const nlat = 16
	x, w := gaussNodes(nlat)
	M := nlat - 1
	rows := make([][]float64, nlat)
	for j := range x {
		rows[j] = legendreRow(x[j], M)
	}
	l, m := DegreeOrder(nlat)
	for a := range l {
		for b := range l {
			if m[a] != m[b] {
				continue
			}
			var dot float64
			for j := range x {
				dot += w[j] * rows[j][a] * rows[j][b]
			}
			want := 0.0
			if a == b {
				want = 1
			}
			if math.Abs(dot-want) > 1e-12 {
				t.Errorf("<P̄(%d,%d), P̄(%d,%d)> = %g, want %g",
					l[a], m[a], l[b], m[b], dot, want)
			}
		}
	}
}

func TestLegendreDerivative(t *testing.T) {
	const M = 10
	const h = 1e-6
	for _, phi := range []float64{-1.1, -0.3, 0.2, 0.9} {
		p := legendreRow(math.Sin(phi), M)
		dp := legendreDerivRow(math.Sin(phi), p, M)
		plus := legendreRow(math.Sin(phi+h), M)
		minus := legendreRow(math.Sin(phi-h), M)
		for k := range p {
			fd := (plus[k] - minus[k]) / (2 * h)
			if math.Abs(dp[k]-fd) > 1e-5*(1+math.Abs(fd)) {
				t.Errorf("φ = %g: dP̄/dφ[%d] = %g, finite difference %g", phi, k, dp[k], fd)
			}
		}
	}
}

// buildHarmonic fills a [nlat, nlon, nt] grid with
// amp · P̄ₗᵐ(sin φ) · cos(m λ) in every stacked slice.
func buildHarmonic(s *SHT, l, m int, amp float64) *sparse.DenseArray {
	out := sparse.ZerosDense(s.nlat, s.nlon, 1)
	lons := s.Lons()
	for j := 0; j < s.nlat; j++ {
		p := legendreRow(s.x[j], s.mfull)
		pv := p[coeffIndex(s.mfull, l, m)]
		for i := 0; i < s.nlon; i++ {
			lam := lons[i] * math.Pi / 180
			out.Set(amp*pv*math.Cos(float64(m)*lam), j, i, 0)
		}
	}
	return out
}

func TestLons(t *testing.T) {
	s := newTestSHT(t, 16, 8, Regular)
	lons := s.Lons()
	if len(lons) != 16 {
		t.Fatalf("got %d longitudes, want 16", len(lons))
	}
	for i, lon := range lons {
		if want := 22.5 * float64(i); math.Abs(lon-want) > 1e-12 {
			t.Errorf("longitude %d = %g, want %g", i, lon, want)
		}
	}
}

func TestAnalysisSynthesisRoundTrip(t *testing.T) {
	const tolerance = 1e-10
	for _, gridtype := range []GridType{Gaussian, Regular} {
		s := newTestSHT(t, 24, 12, gridtype)
		grid := buildHarmonic(s, 3, 2, 1.7)
		grid.AddDense(buildHarmonic(s, 5, 0, 0.6))
		c, err := s.Forward(grid, 0)
		if err != nil {
			t.Fatal(err)
		}
		back, err := s.Inverse(c)
		if err != nil {
			t.Fatal(err)
		}
		for i := range grid.Elements {
			if math.Abs(back.Elements[i]-grid.Elements[i]) > tolerance {
				t.Fatalf("%s grid: element %d = %g, want %g",
					gridtype, i, back.Elements[i], grid.Elements[i])
			}
		}
	}
}

func TestSynthesisAnalysisRecoversCoefficients(t *testing.T) {
	const tolerance = 1e-12
	s := newTestSHT(t, 24, 12, Gaussian)
	c := newCoeffs(s.mfull, 1)
	c.Elements[coeffIndex(s.mfull, 3, 2)] = 0.7 + 0.3i
	c.Elements[coeffIndex(s.mfull, 6, 0)] = 1.2 // order 0 must stay real
	grid, err := s.Inverse(c)
	if err != nil {
		t.Fatal(err)
	}
	back, err := s.Forward(grid, 0)
	if err != nil {
		t.Fatal(err)
	}
	for k := range c.Elements {
		if cmplx.Abs(back.Elements[k]-c.Elements[k]) > tolerance {
			t.Errorf("coefficient %d = %v, want %v", k, back.Elements[k], c.Elements[k])
		}
	}
}

func TestGradientOfSinLat(t *testing.T) {
	const tolerance = 1e-10
	s := newTestSHT(t, 16, 8, Gaussian)
	grid := sparse.ZerosDense(s.nlat, s.nlon, 1)
	for j := 0; j < s.nlat; j++ {
		for i := 0; i < s.nlon; i++ {
			grid.Set(s.x[j], j, i, 0) // f = sin(φ)
		}
	}
	c, err := s.Forward(grid, 0)
	if err != nil {
		t.Fatal(err)
	}
	dLon, dLat, err := s.Gradient(c)
	if err != nil {
		t.Fatal(err)
	}
	for j := 0; j < s.nlat; j++ {
		want := s.cosLat[j] / s.rsphere
		for i := 0; i < s.nlon; i++ {
			if got := dLat.Get(j, i, 0); math.Abs(got-want) > tolerance {
				t.Fatalf("dLat(%d,%d) = %g, want %g", j, i, got, want)
			}
			if got := dLon.Get(j, i, 0); math.Abs(got) > tolerance {
				t.Fatalf("dLon(%d,%d) = %g, want 0", j, i, got)
			}
		}
	}
}

func TestVortDivOfSolidRotation(t *testing.T) {
	const tolerance = 1e-10
	const u0 = 10.0
	s := newTestSHT(t, 32, 16, Gaussian)
	u := sparse.ZerosDense(s.nlat, s.nlon, 1)
	v := sparse.ZerosDense(s.nlat, s.nlon, 1)
	for j := 0; j < s.nlat; j++ {
		for i := 0; i < s.nlon; i++ {
			u.Set(u0*s.cosLat[j], j, i, 0)
		}
	}
	vorC, divC, err := s.WindToVortDiv(u, v, 0)
	if err != nil {
		t.Fatal(err)
	}
	vor, err := s.Inverse(vorC)
	if err != nil {
		t.Fatal(err)
	}
	div, err := s.Inverse(divC)
	if err != nil {
		t.Fatal(err)
	}
	for j := 0; j < s.nlat; j++ {
		want := 2 * u0 * s.x[j] / s.rsphere
		for i := 0; i < s.nlon; i++ {
			if got := vor.Get(j, i, 0); math.Abs(got-want) > tolerance {
				t.Fatalf("vorticity(%d,%d) = %g, want %g", j, i, got, want)
			}
			if got := div.Get(j, i, 0); math.Abs(got) > tolerance {
				t.Fatalf("divergence(%d,%d) = %g, want 0", j, i, got)
			}
		}
	}
}

func TestWindToVortDivMatchesLaplacian(t *testing.T) {
	const tolerance = 1e-12
	s := newTestSHT(t, 32, 16, Gaussian)
	psi := newCoeffs(s.mfull, 1)
	psi.Elements[coeffIndex(s.mfull, 3, 2)] = complex(2.4e6, -1.1e6)
	psi.Elements[coeffIndex(s.mfull, 5, 0)] = 3.0e6
	dLon, dLat, err := s.Gradient(psi)
	if err != nil {
		t.Fatal(err)
	}
	// Purely rotational wind: u = -(1/r) ∂ψ/∂φ, v = (1/(r cos φ)) ∂ψ/∂λ.
	// Its analyzed vorticity must be the spectral Laplacian of ψ,
	// ζₗᵐ = -l(l+1) ψₗᵐ / r², and its divergence must vanish, even
	// though the wind itself is not band-limited.
	negate(dLat)
	vorC, divC, err := s.WindToVortDiv(dLat, dLon, 0)
	if err != nil {
		t.Fatal(err)
	}
	r2 := s.rsphere * s.rsphere
	for m := 0; m <= s.mfull; m++ {
		for l := m; l <= s.mfull; l++ {
			k := coeffIndex(s.mfull, l, m)
			want := complex(-float64(l*(l+1))/r2, 0) * psi.Elements[k]
			if cmplx.Abs(vorC.Elements[k]-want) > tolerance {
				t.Errorf("vorticity (%d, %d) = %v, want %v", l, m, vorC.Elements[k], want)
			}
			if cmplx.Abs(divC.Elements[k]) > tolerance {
				t.Errorf("divergence (%d, %d) = %v, want 0", l, m, divC.Elements[k])
			}
		}
	}
}

func TestSHTInvalidConstruction(t *testing.T) {
	if _, err := NewSHT(16, 8, GridType("icosahedral"), EarthRadius, LegendreStored); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("unknown grid type: error = %v, want ErrInvalidParameter", err)
	}
	if _, err := NewSHT(16, 8, Regular, EarthRadius, LegendreMode("cached")); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("unknown Legendre mode: error = %v, want ErrInvalidParameter", err)
	}
	if _, err := NewSHT(16, 1, Regular, EarthRadius, LegendreStored); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("degenerate grid: error = %v, want ErrInvalidParameter", err)
	}
	if _, err := NewSHT(16, 8, Regular, -1, LegendreStored); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("negative radius: error = %v, want ErrInvalidParameter", err)
	}
}

func TestLegendreModesAgree(t *testing.T) {
	const tolerance = 1e-14
	stored := newTestSHT(t, 16, 8, Gaussian)
	computed, err := NewSHT(16, 8, Gaussian, EarthRadius, LegendreComputed)
	if err != nil {
		t.Fatal(err)
	}
	c := newCoeffs(stored.mfull, 1)
	c.Elements[coeffIndex(stored.mfull, 4, 3)] = 2.5 - 0.4i
	c.Elements[coeffIndex(stored.mfull, 2, 0)] = 1.1
	a, err := stored.Inverse(c)
	if err != nil {
		t.Fatal(err)
	}
	b, err := computed.Inverse(c)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Elements {
		if math.Abs(a.Elements[i]-b.Elements[i]) > tolerance {
			t.Errorf("element %d: stored %g, computed %g", i, a.Elements[i], b.Elements[i])
		}
	}
	aLon, aLat, err := stored.Gradient(c)
	if err != nil {
		t.Fatal(err)
	}
	bLon, bLat, err := computed.Gradient(c)
	if err != nil {
		t.Fatal(err)
	}
	for i := range aLat.Elements {
		if math.Abs(aLat.Elements[i]-bLat.Elements[i]) > tolerance ||
			math.Abs(aLon.Elements[i]-bLon.Elements[i]) > tolerance {
			t.Errorf("gradient element %d differs between Legendre modes", i)
		}
	}
}
