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

// Package spharm provides spherical-harmonic analysis of scalar and
// vector fields on a latitude-longitude grid.
//
// Fields may carry any number of non-spatial dimensions (time, level,
// ensemble member, ...) in addition to the two spatial ones; the package
// reshapes them to the layout the spectral transform requires and
// restores the original arrangement on the way back. On top of the
// transform it offers spectral truncation, smooth exponential tapering,
// and the standard vector-calculus operators of large-scale dynamics:
// vorticity and divergence, streamfunction and velocity potential,
// their inverses, and absolute vorticity.
//
// A Transform is bound to one grid geometry at construction and can be
// reused for any number of fields on that grid. It holds no mutable
// state between calls, so independent goroutines may share one
// instance.
package spharm
