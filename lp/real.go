/*
Copyright © 2015-2022 Leo Antunes <leo@costela.net>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

package lp

import "math"

// RealEntry is a nonzero of a floating point sparse row; Index is the column.
type RealEntry struct {
	Index int
	Val   float64
}

// Real is the floating point counterpart of Exact, handed to the oracle.
// Infinite bounds and sides are ±Inf.
type Real struct {
	Sense Sense

	Obj   []float64
	Lower []float64
	Upper []float64

	Lhs  []float64
	Rhs  []float64
	Rows [][]RealEntry
}

func (r *Real) NumRows() int { return len(r.Lhs) }
func (r *Real) NumCols() int { return len(r.Obj) }

// MinObj returns the objective coefficient of column j in minimization
// sense.
func (r *Real) MinObj(j int) float64 {
	if r.Sense == Maximize {
		return -r.Obj[j]
	}
	return r.Obj[j]
}

// Activity returns A·x.
func (r *Real) Activity(x []float64) []float64 {
	act := make([]float64, r.NumRows())
	for i, row := range r.Rows {
		for _, e := range row {
			act[i] += e.Val * x[e.Index]
		}
	}
	return act
}

// ColDot returns Aᵀ·y.
func (r *Real) ColDot(y []float64) []float64 {
	out := make([]float64, r.NumCols())
	for i, row := range r.Rows {
		if y[i] == 0 {
			continue
		}
		for _, e := range row {
			out[e.Index] += e.Val * y[i]
		}
	}
	return out
}

// ColCounts returns the number of nonzeros per column.
func (r *Real) ColCounts() []int {
	cnt := make([]int, r.NumCols())
	for _, row := range r.Rows {
		for _, e := range row {
			cnt[e.Index]++
		}
	}
	return cnt
}

// IsFinite reports whether v is neither infinite nor NaN.
func IsFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
