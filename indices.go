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

// DegreeOrder returns the spherical-harmonic degree l and order m of
// each coefficient in a triangular truncation at resolution M = nlat-1,
// in coefficient-storage order: for m = 0..M, for l = m..M. This
// ordering is a fixed contract with the spectral engine; filters are
// applied by position, so an engine with a different packing would be
// mis-indexed silently.
func DegreeOrder(nlat int) (l, m []int) {
	mmax := nlat - 1
	n := (mmax + 1) * (mmax + 2) / 2
	l = make([]int, 0, n)
	m = make([]int, 0, n)
	for mi := 0; mi <= mmax; mi++ {
		for li := mi; li <= mmax; li++ {
			l = append(l, li)
			m = append(m, mi)
		}
	}
	return l, m
}

// coeffIndex returns the storage position of coefficient (l, m) in a
// triangular truncation at resolution M.
func coeffIndex(M, l, m int) int {
	return m*(M+1) - m*(m-1)/2 + (l - m)
}

// coeffCount returns the number of coefficients in a triangular
// truncation at resolution M.
func coeffCount(M int) int {
	return (M + 1) * (M + 2) / 2
}
