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
	"sort"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// Default physical constants.
const (
	// EarthRadius is the mean Earth radius [m].
	EarthRadius = 6.3712e6
	// EarthOmega is the Earth's rotation rate [rad/s].
	EarthOmega = 7.292e-5
)

// Config holds the construction parameters of a Transform.
type Config struct {
	GridType GridType
	Rsphere  float64
	Omega    float64
	Legendre LegendreMode

	// Engine, if non-nil, replaces the default spectral engine. It
	// must use the DegreeOrder coefficient packing.
	Engine Engine
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the default construction parameters: a regular
// grid on an Earth-sized sphere with stored Legendre tables.
func DefaultConfig() Config {
	return Config{
		GridType: Regular,
		Rsphere:  EarthRadius,
		Omega:    EarthOmega,
		Legendre: LegendreStored,
	}
}

// WithGridType sets the latitude placement (Regular or Gaussian).
func WithGridType(g GridType) Option {
	return func(c *Config) { c.GridType = g }
}

// WithRadius sets the sphere radius [m].
func WithRadius(r float64) Option {
	return func(c *Config) { c.Rsphere = r }
}

// WithOmega sets the planetary rotation rate [rad/s].
func WithOmega(w float64) Option {
	return func(c *Config) { c.Omega = w }
}

// WithLegendreMode selects stored or on-demand Legendre functions.
func WithLegendreMode(m LegendreMode) Option {
	return func(c *Config) { c.Legendre = m }
}

// WithEngine substitutes a custom spectral engine.
func WithEngine(e Engine) Option {
	return func(c *Config) { c.Engine = e }
}

// Transform performs spherical-harmonic operations on fields bound to
// one grid geometry. It is immutable after construction: concurrent
// calls on a shared instance are independent as long as they do not
// share output buffers.
type Transform struct {
	nlat, nlon int
	rsphere    float64
	omega      float64
	engine     Engine

	// fcor is the planetary vorticity 2 Ω sin(φ) at each grid
	// latitude, north to south.
	fcor []float64
}

// New creates a Transform for an nlat x nlon grid.
func New(nlat, nlon int, opts ...Option) (*Transform, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.Omega < 0 {
		return nil, fmt.Errorf("spharm.New: %w: rotation rate %g", ErrInvalidParameter, cfg.Omega)
	}
	eng := cfg.Engine
	if eng == nil {
		var err error
		eng, err = NewSHT(nlon, nlat, cfg.GridType, cfg.Rsphere, cfg.Legendre)
		if err != nil {
			return nil, err
		}
	}
	t := &Transform{
		nlat:    nlat,
		nlon:    nlon,
		rsphere: cfg.Rsphere,
		omega:   cfg.Omega,
		engine:  eng,
	}
	lats := eng.Lats()
	if len(lats) != nlat {
		return nil, fmt.Errorf("spharm.New: %w: engine has %d latitudes, grid has %d",
			ErrShapeMismatch, len(lats), nlat)
	}
	t.fcor = make([]float64, nlat)
	for j, lat := range lats {
		t.fcor[j] = 2 * cfg.Omega * math.Sin(lat*math.Pi/180)
	}
	return t, nil
}

// Engine returns the spectral engine the transform composes its
// operators from.
func (t *Transform) Engine() Engine { return t.engine }

// Truncate spectrally truncates a field, or every variable of a
// dataset, at wavenumber ntrunc. A non-positive ntrunc means the
// grid's native resolution, nlat-1, in which case the operation is a
// forward-inverse round trip with no effective truncation. Attributes
// are carried through unchanged.
func (t *Transform) Truncate(d Data, ntrunc int) (Data, error) {
	return t.mapData("Truncate", d, func(f *Field) (*Field, error) {
		return t.truncateField(f, ntrunc)
	})
}

// ExpTaper applies the exponential spectral taper of TaperWeights to a
// field, or to every variable of a dataset. ntrunc sets the wavenumber
// at which the weight has decayed to 1/e and must be positive; r
// controls the roll-off sharpness (2 is the customary choice).
// Attributes are carried through unchanged.
func (t *Transform) ExpTaper(d Data, ntrunc int, r float64) (Data, error) {
	l, m := DegreeOrder(t.nlat)
	w, err := TaperWeights(l, m, ntrunc, r)
	if err != nil {
		return nil, fmt.Errorf("spharm.ExpTaper: %w", err)
	}
	return t.mapData("ExpTaper", d, func(f *Field) (*Field, error) {
		return t.taperField(f, w)
	})
}

// mapData applies op to a single field or to each variable of a
// dataset, dispatching on the input variant.
func (t *Transform) mapData(name string, d Data, op func(*Field) (*Field, error)) (Data, error) {
	switch v := d.(type) {
	case *Field:
		if v == nil {
			return nil, fmt.Errorf("spharm.%s: %w: nil field", name, ErrInvalidInputType)
		}
		o, err := op(v)
		if err != nil {
			return nil, fmt.Errorf("spharm.%s: %w", name, err)
		}
		return o, nil
	case Dataset:
		out := make(Dataset, len(v))
		names := make([]string, 0, len(v))
		for n := range v {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			o, err := op(v[n])
			if err != nil {
				return nil, fmt.Errorf("spharm.%s: variable %q: %w", name, n, err)
			}
			out[n] = o
		}
		return out, nil
	default:
		return nil, fmt.Errorf("spharm.%s: %w: %T is neither a *Field nor a Dataset",
			name, ErrInvalidInputType, d)
	}
}

func (t *Transform) truncateField(f *Field, ntrunc int) (*Field, error) {
	c, err := t.canonicalize(f)
	if err != nil {
		return nil, err
	}
	spec, err := t.engine.Forward(c.asEngineArray(), ntrunc)
	if err != nil {
		return nil, err
	}
	grid, err := t.engine.Inverse(spec)
	if err != nil {
		return nil, err
	}
	o, err := c.restore(grid)
	if err != nil {
		return nil, err
	}
	copyAttrs(o, f)
	return o, nil
}

func (t *Transform) taperField(f *Field, w []float64) (*Field, error) {
	c, err := t.canonicalize(f)
	if err != nil {
		return nil, err
	}
	// The taper is always computed on the full coefficient triangle;
	// the truncation wavenumber enters only through the weights.
	spec, err := t.engine.Forward(c.asEngineArray(), 0)
	if err != nil {
		return nil, err
	}
	if err := applyTaper(spec, w); err != nil {
		return nil, err
	}
	grid, err := t.engine.Inverse(spec)
	if err != nil {
		return nil, err
	}
	o, err := c.restore(grid)
	if err != nil {
		return nil, err
	}
	copyAttrs(o, f)
	return o, nil
}

// UV2SFVP computes the streamfunction and velocity potential of the
// wind (u, v), returned as dataset variables "sf" and "vp" [m**2/s].
func (t *Transform) UV2SFVP(u, v *Field, ntrunc int) (Dataset, error) {
	cu, cv, err := t.canonicalizePair("UV2SFVP", u, v)
	if err != nil {
		return nil, err
	}
	psi, chi, err := t.engine.WindToPotentials(cu.asEngineArray(), cv.asEngineArray(), ntrunc)
	if err != nil {
		return nil, fmt.Errorf("spharm.UV2SFVP: %w", err)
	}
	sf, err := cu.restore(psi)
	if err != nil {
		return nil, fmt.Errorf("spharm.UV2SFVP: %w", err)
	}
	vp, err := cu.restore(chi)
	if err != nil {
		return nil, fmt.Errorf("spharm.UV2SFVP: %w", err)
	}
	sf.describe("Streamfunction", "m**2/s")
	vp.describe("velocity potential", "m**2/s")
	return Dataset{"sf": sf, "vp": vp}, nil
}

// UV2VorDiv computes the relative vorticity and divergence of the wind
// (u, v), returned as dataset variables "vor" and "div" [1/s].
func (t *Transform) UV2VorDiv(u, v *Field, ntrunc int) (Dataset, error) {
	vorF, divF, err := t.vorDivFields("UV2VorDiv", u, v, ntrunc)
	if err != nil {
		return nil, err
	}
	vorF.describe("Vorticity", "1/s")
	divF.describe("Divergence", "1/s")
	return Dataset{"vor": vorF, "div": divF}, nil
}

// UV2AbsVor computes the absolute vorticity of the wind (u, v): the
// relative vorticity plus the planetary vorticity 2 Ω sin(φ),
// broadcast over every extra dimension [1/s].
func (t *Transform) UV2AbsVor(u, v *Field, ntrunc int) (*Field, error) {
	cu, cv, err := t.canonicalizePair("UV2AbsVor", u, v)
	if err != nil {
		return nil, err
	}
	vorC, _, err := t.engine.WindToVortDiv(cu.asEngineArray(), cv.asEngineArray(), ntrunc)
	if err != nil {
		return nil, fmt.Errorf("spharm.UV2AbsVor: %w", err)
	}
	vor, err := t.engine.Inverse(vorC)
	if err != nil {
		return nil, fmt.Errorf("spharm.UV2AbsVor: %w", err)
	}
	nt := vor.Shape[2]
	for j := 0; j < t.nlat; j++ {
		floats.AddConst(t.fcor[j], vor.Elements[j*t.nlon*nt:(j+1)*t.nlon*nt])
	}
	o, err := cu.restore(vor)
	if err != nil {
		return nil, fmt.Errorf("spharm.UV2AbsVor: %w", err)
	}
	o.describe("Absolute vorticity", "1/s")
	return o, nil
}

// SF2UV computes the rotational wind from a streamfunction, returned
// as dataset variables "u_rot" and "v_rot" [m/s]. The zonal component
// is the negated north-south gradient; the meridional component is the
// east-west gradient.
func (t *Transform) SF2UV(sf *Field, ntrunc int) (Dataset, error) {
	dLon, dLat, c, err := t.gradientOf("SF2UV", sf, ntrunc)
	if err != nil {
		return nil, err
	}
	negate(dLat)
	u, err := c.restore(dLat)
	if err != nil {
		return nil, fmt.Errorf("spharm.SF2UV: %w", err)
	}
	v, err := c.restore(dLon)
	if err != nil {
		return nil, fmt.Errorf("spharm.SF2UV: %w", err)
	}
	u.describe("rotational component of U wind", "m/s")
	v.describe("rotational component of V wind", "m/s")
	return Dataset{"u_rot": u, "v_rot": v}, nil
}

// VP2UV computes the divergent wind from a velocity potential,
// returned as dataset variables "u_div" and "v_div" [m/s].
func (t *Transform) VP2UV(vp *Field, ntrunc int) (Dataset, error) {
	dLon, dLat, c, err := t.gradientOf("VP2UV", vp, ntrunc)
	if err != nil {
		return nil, err
	}
	u, err := c.restore(dLon)
	if err != nil {
		return nil, fmt.Errorf("spharm.VP2UV: %w", err)
	}
	v, err := c.restore(dLat)
	if err != nil {
		return nil, fmt.Errorf("spharm.VP2UV: %w", err)
	}
	u.describe("divergent component of U wind", "m/s")
	v.describe("divergent component of V wind", "m/s")
	return Dataset{"u_div": u, "v_div": v}, nil
}

// SFVP2UV reconstructs the total wind from a streamfunction and
// velocity potential, returned as dataset variables "u" and "v" [m/s].
func (t *Transform) SFVP2UV(sf, vp *Field, ntrunc int) (Dataset, error) {
	if err := t.checkPair("SFVP2UV", sf, vp); err != nil {
		return nil, err
	}
	psiLon, psiLat, c, err := t.gradientOf("SFVP2UV", sf, ntrunc)
	if err != nil {
		return nil, err
	}
	chiLon, chiLat, _, err := t.gradientOf("SFVP2UV", vp, ntrunc)
	if err != nil {
		return nil, err
	}
	floats.Sub(chiLon.Elements, psiLat.Elements) // u = u_div - ∂ψ/∂φ component
	floats.Add(chiLat.Elements, psiLon.Elements) // v = v_div + ∂ψ/∂λ component
	u, err := c.restore(chiLon)
	if err != nil {
		return nil, fmt.Errorf("spharm.SFVP2UV: %w", err)
	}
	v, err := c.restore(chiLat)
	if err != nil {
		return nil, fmt.Errorf("spharm.SFVP2UV: %w", err)
	}
	u.describe("U wind", "m/s")
	v.describe("V wind", "m/s")
	return Dataset{"u": u, "v": v}, nil
}

// vorDivFields runs the engine's vorticity/divergence operator and
// restores both outputs to the caller's dimension arrangement.
func (t *Transform) vorDivFields(name string, u, v *Field, ntrunc int) (vor, div *Field, err error) {
	cu, cv, err := t.canonicalizePair(name, u, v)
	if err != nil {
		return nil, nil, err
	}
	vorC, divC, err := t.engine.WindToVortDiv(cu.asEngineArray(), cv.asEngineArray(), ntrunc)
	if err != nil {
		return nil, nil, fmt.Errorf("spharm.%s: %w", name, err)
	}
	vorG, err := t.engine.Inverse(vorC)
	if err != nil {
		return nil, nil, fmt.Errorf("spharm.%s: %w", name, err)
	}
	divG, err := t.engine.Inverse(divC)
	if err != nil {
		return nil, nil, fmt.Errorf("spharm.%s: %w", name, err)
	}
	if vor, err = cu.restore(vorG); err != nil {
		return nil, nil, fmt.Errorf("spharm.%s: %w", name, err)
	}
	if div, err = cu.restore(divG); err != nil {
		return nil, nil, fmt.Errorf("spharm.%s: %w", name, err)
	}
	return vor, div, nil
}

// gradientOf forward-transforms a scalar field and synthesizes its two
// gradient components.
func (t *Transform) gradientOf(name string, f *Field, ntrunc int) (dLon, dLat *sparse.DenseArray, c *canonical, err error) {
	c, err = t.canonicalize(f)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("spharm.%s: %w", name, err)
	}
	spec, err := t.engine.Forward(c.asEngineArray(), ntrunc)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("spharm.%s: %w", name, err)
	}
	dLon, dLat, err = t.engine.Gradient(spec)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("spharm.%s: %w", name, err)
	}
	return dLon, dLat, c, nil
}

// canonicalize reshapes a field to the engine layout, checking it
// against the transform's grid.
func (t *Transform) canonicalize(f *Field) (*canonical, error) {
	c, err := toCanonical(f)
	if err != nil {
		return nil, err
	}
	if c.data.Shape[0] != t.nlat || c.data.Shape[1] != t.nlon {
		return nil, fmt.Errorf("%w: field grid is %d x %d, transform grid is %d x %d",
			ErrShapeMismatch, c.data.Shape[0], c.data.Shape[1], t.nlat, t.nlon)
	}
	return c, nil
}

// canonicalizePair reshapes two co-required fields, enforcing that
// they share the grid and extra dimensions.
func (t *Transform) canonicalizePair(name string, a, b *Field) (ca, cb *canonical, err error) {
	if err := t.checkPair(name, a, b); err != nil {
		return nil, nil, err
	}
	if ca, err = t.canonicalize(a); err != nil {
		return nil, nil, fmt.Errorf("spharm.%s: %w", name, err)
	}
	if cb, err = t.canonicalize(b); err != nil {
		return nil, nil, fmt.Errorf("spharm.%s: %w", name, err)
	}
	return ca, cb, nil
}

func (t *Transform) checkPair(name string, a, b *Field) error {
	if a == nil || b == nil {
		return fmt.Errorf("spharm.%s: %w: nil field", name, ErrInvalidInputType)
	}
	if a.dimSize(LatDim) != b.dimSize(LatDim) || a.dimSize(LonDim) != b.dimSize(LonDim) {
		return fmt.Errorf("spharm.%s: %w: spatial dimensions differ: %v vs %v",
			name, ErrShapeMismatch, a.Data.Shape, b.Data.Shape)
	}
	if !sameExtraDims(a, b) {
		return fmt.Errorf("spharm.%s: %w: extra dimensions differ: %v vs %v",
			name, ErrShapeMismatch, extraDims(a), extraDims(b))
	}
	return nil
}

func copyAttrs(dst, src *Field) {
	if src.Attrs == nil {
		return
	}
	if dst.Attrs == nil {
		dst.Attrs = make(map[string]string, len(src.Attrs))
	}
	for k, v := range src.Attrs {
		dst.Attrs[k] = v
	}
}

func negate(a *sparse.DenseArray) {
	floats.Scale(-1, a.Elements)
}
