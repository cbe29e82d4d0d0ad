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

import "errors"

// Error kinds returned by this package. All errors are reported
// synchronously at the point of detection and wrap one of these
// sentinels, so callers can classify them with errors.Is. None of them
// describe transient conditions; retrying never helps.
var (
	// ErrUnsupportedShape means an input field lacks the lat or lon
	// dimension, or its dimension labels do not match its data rank.
	ErrUnsupportedShape = errors.New("unsupported shape")

	// ErrShapeMismatch means two fields that must share a grid and
	// extra dimensions (for example u and v) disagree.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrInvalidParameter means a numeric or enumerated argument is out
	// of range, such as a non-positive truncation wavenumber or an
	// unknown grid type.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidInputType means an argument is neither a single Field
	// nor a Dataset.
	ErrInvalidInputType = errors.New("invalid input type")
)
