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

import "testing"

func TestDegreeOrder(t *testing.T) {
	l, m := DegreeOrder(4)
	wantL := []int{0, 1, 2, 3, 1, 2, 3, 2, 3, 3}
	wantM := []int{0, 0, 0, 0, 1, 1, 1, 2, 2, 3}
	if len(l) != len(wantL) || len(m) != len(wantM) {
		t.Fatalf("got %d pairs, want %d", len(l), len(wantL))
	}
	for i := range wantL {
		if l[i] != wantL[i] || m[i] != wantM[i] {
			t.Errorf("pair %d = (%d, %d), want (%d, %d)", i, l[i], m[i], wantL[i], wantM[i])
		}
	}
}

func TestCoeffIndex(t *testing.T) {
	for _, nlat := range []int{1, 2, 4, 9} {
		M := nlat - 1
		l, m := DegreeOrder(nlat)
		if len(l) != coeffCount(M) {
			t.Fatalf("nlat %d: %d pairs, want %d", nlat, len(l), coeffCount(M))
		}
		for i := range l {
			if got := coeffIndex(M, l[i], m[i]); got != i {
				t.Errorf("nlat %d: coeffIndex(%d, %d, %d) = %d, want %d",
					nlat, M, l[i], m[i], got, i)
			}
		}
	}
}
