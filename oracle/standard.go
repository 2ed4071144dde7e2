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

package oracle

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/costela/ratlp/lp"
)

// The gonum simplex solves
//
//	minimize	cᵀx
//	s.t.		A·x = b
//			x >= 0
//
// standardForm maps a bounded LP with ranged rows into that shape and keeps
// enough bookkeeping to map solutions and basis statuses back.

type varKind int

const (
	shiftLower varKind = iota // x = l + p
	shiftUpper                // x = u - p
	split                     // x = p⁺ - p⁻
	fixed                     // x = l
)

type colMap struct {
	kind   varKind
	offset float64
	std    int // p or p⁺
	neg    int // p⁻ of split columns
	slack  int // s in p + s = u - l of boxed columns

	// bound rows p⁺ - p⁻ - s = l and p⁺ - p⁻ + s = u of split columns with
	// huge bounds, and their slacks
	lo, up            float64
	lowSlack, upSlack int
}

// hugeBound is the magnitude from which a finite bound is kept as a row
// instead of shifting the column by it.
const hugeBound = 1e6

func small(v float64) bool { return lp.IsFinite(v) && math.Abs(v) <= hugeBound }

type rowKind int

const (
	rowEquality rowKind = iota
	rowLower
	rowUpper
	rowRange
	rowFree
)

type rowMap struct {
	kind       rowKind
	std        int // main standard row, -1 if the row was dropped
	slack      int // s, or s1 of ranged rows
	rangeSlack int // s2 in s1 + s2 = rhs - lhs
	rangeRow   int
}

type sparseRow struct {
	idx []int
	val []float64
	rhs float64
}

func (r *sparseRow) add(j int, v float64) {
	if v != 0 {
		r.idx = append(r.idx, j)
		r.val = append(r.val, v)
	}
}

type standardForm struct {
	c    []float64
	rows []sparseRow

	cols    []colMap
	rowMaps []rowMap

	// standard rows removed before solving, as empty or dependent
	dropped []bool

	// a bound or side pair is crossed
	infeasible bool
	// huge bounds were left out
	relaxed bool
}

func (sf *standardForm) addVar(cost float64) int {
	sf.c = append(sf.c, cost)
	return len(sf.c) - 1
}

func (sf *standardForm) addRow(r sparseRow) int {
	sf.rows = append(sf.rows, r)
	return len(sf.rows) - 1
}

// toStandard builds the standard form of p. With relax set, bounds beyond
// hugeBound are left out; otherwise they become rows.
func toStandard(p *lp.Real, relax bool) *standardForm {
	sf := &standardForm{}

	for j := range p.Obj {
		l, u := p.Lower[j], p.Upper[j]
		cj := p.MinObj(j)
		cm := colMap{std: -1, neg: -1, slack: -1, lowSlack: -1, upSlack: -1}

		switch {
		case lp.IsFinite(l) && lp.IsFinite(u) && l > u:
			sf.infeasible = true
			cm.kind, cm.offset = fixed, l
		case lp.IsFinite(l) && lp.IsFinite(u) && l == u:
			cm.kind, cm.offset = fixed, l
		case small(l):
			cm.kind, cm.offset = shiftLower, l
			cm.std = sf.addVar(cj)
			if lp.IsFinite(u) {
				cm.slack = sf.addVar(0)
				row := sparseRow{rhs: u - l}
				row.add(cm.std, 1)
				row.add(cm.slack, 1)
				sf.addRow(row)
			}
		case small(u) && !lp.IsFinite(l):
			cm.kind, cm.offset = shiftUpper, u
			cm.std = sf.addVar(-cj)
		default:
			cm.kind = split
			cm.std = sf.addVar(cj)
			cm.neg = sf.addVar(-cj)
			cm.lo, cm.up = l, u
			if relax {
				sf.relaxed = sf.relaxed || lp.IsFinite(l) || lp.IsFinite(u)
				break
			}
			if lp.IsFinite(l) {
				cm.lowSlack = sf.addVar(0)
				row := sparseRow{rhs: l}
				row.add(cm.std, 1)
				row.add(cm.neg, -1)
				row.add(cm.lowSlack, -1)
				sf.addRow(row)
			}
			if lp.IsFinite(u) {
				cm.upSlack = sf.addVar(0)
				row := sparseRow{rhs: u}
				row.add(cm.std, 1)
				row.add(cm.neg, -1)
				row.add(cm.upSlack, 1)
				sf.addRow(row)
			}
		}
		sf.cols = append(sf.cols, cm)
	}

	for i, entries := range p.Rows {
		lhs, rhs := p.Lhs[i], p.Rhs[i]
		rm := rowMap{std: -1, slack: -1, rangeSlack: -1, rangeRow: -1}

		var row sparseRow
		off := 0.0
		for _, e := range entries {
			cm := sf.cols[e.Index]
			switch cm.kind {
			case fixed:
				off += e.Val * cm.offset
			case shiftLower:
				off += e.Val * cm.offset
				row.add(cm.std, e.Val)
			case shiftUpper:
				off += e.Val * cm.offset
				row.add(cm.std, -e.Val)
			case split:
				row.add(cm.std, e.Val)
				row.add(cm.neg, -e.Val)
			}
		}

		hasL, hasU := lp.IsFinite(lhs), lp.IsFinite(rhs)
		switch {
		case hasL && hasU && lhs > rhs:
			sf.infeasible = true
			rm.kind = rowFree
		case hasL && hasU && lhs == rhs:
			rm.kind = rowEquality
			row.rhs = rhs - off
			rm.std = sf.addRow(row)
		case hasL && hasU:
			rm.kind = rowRange
			rm.slack = sf.addVar(0)
			rm.rangeSlack = sf.addVar(0)
			row.add(rm.slack, -1)
			row.rhs = lhs - off
			rm.std = sf.addRow(row)

			rr := sparseRow{rhs: rhs - lhs}
			rr.add(rm.slack, 1)
			rr.add(rm.rangeSlack, 1)
			rm.rangeRow = sf.addRow(rr)
		case hasL:
			rm.kind = rowLower
			rm.slack = sf.addVar(0)
			row.add(rm.slack, -1)
			row.rhs = lhs - off
			rm.std = sf.addRow(row)
		case hasU:
			rm.kind = rowUpper
			rm.slack = sf.addVar(0)
			row.add(rm.slack, 1)
			row.rhs = rhs - off
			rm.std = sf.addRow(row)
		default:
			rm.kind = rowFree
		}
		sf.rowMaps = append(sf.rowMaps, rm)
	}

	return sf
}

// rowVector returns standard row i restricted to the columns in pos.
func (sf *standardForm) rowVector(i int, pos map[int]int, n int) []float64 {
	v := make([]float64, n)
	for k, j := range sf.rows[i].idx {
		if c, ok := pos[j]; ok {
			v[c] = sf.rows[i].val[k]
		}
	}
	return v
}

func positions(idx []int) map[int]int {
	pos := make(map[int]int, len(idx))
	for k, j := range idx {
		pos[j] = k
	}
	return pos
}

// dense returns the rows and columns of the standard matrix restricted to
// the given index sets.
func (sf *standardForm) dense(rows, cols []int) *mat.Dense {
	pos := positions(cols)
	a := mat.NewDense(len(rows), len(cols), nil)
	for r, i := range rows {
		a.SetRow(r, sf.rowVector(i, pos, len(cols)))
	}
	return a
}

// fromStandard maps a standard form primal back to the original columns.
func (sf *standardForm) fromStandard(xs []float64) []float64 {
	x := make([]float64, len(sf.cols))
	for j, cm := range sf.cols {
		switch cm.kind {
		case fixed:
			x[j] = cm.offset
		case shiftLower:
			x[j] = cm.offset + xs[cm.std]
		case shiftUpper:
			x[j] = cm.offset - xs[cm.std]
		case split:
			x[j] = xs[cm.std] - xs[cm.neg]
		}
	}
	return x
}

// basicSet lists the standard variables a basis on the original LP makes
// basic. ok is false if the basis has no standard counterpart.
func (sf *standardForm) basicSet(b lp.Basis) (set []int, ok bool) {
	if len(b.Cols) != len(sf.cols) || len(b.Rows) != len(sf.rowMaps) {
		return nil, false
	}
	for j, cm := range sf.cols {
		st := b.Cols[j]
		switch cm.kind {
		case shiftLower:
			switch {
			case st == lp.Basic:
				set = append(set, cm.std)
				if cm.slack >= 0 {
					set = append(set, cm.slack)
				}
			case st == lp.OnUpper && cm.slack >= 0:
				set = append(set, cm.std)
			case st == lp.OnUpper:
				return nil, false
			case cm.slack >= 0:
				set = append(set, cm.slack)
			}
		case shiftUpper:
			if st == lp.Basic {
				set = append(set, cm.std)
			}
		case split:
			part, ok := cm.boundedBasic(st)
			if !ok {
				return nil, false
			}
			set = append(set, part...)
		}
	}
	for i, rm := range sf.rowMaps {
		st := b.Rows[i]
		switch rm.kind {
		case rowEquality:
			if st == lp.Basic {
				return nil, false
			}
		case rowLower, rowUpper:
			if st == lp.Basic {
				set = append(set, rm.slack)
			}
		case rowRange:
			switch st {
			case lp.Basic:
				set = append(set, rm.slack, rm.rangeSlack)
			case lp.OnUpper:
				set = append(set, rm.slack)
			default:
				set = append(set, rm.rangeSlack)
			}
		}
	}
	return set, true
}

// boundedBasic returns the standard variables of a split column that are
// basic for status st.
func (cm colMap) boundedBasic(st lp.VarStatus) ([]int, bool) {
	var set []int
	slacks := func(idx ...int) {
		for _, i := range idx {
			if i >= 0 {
				set = append(set, i)
			}
		}
	}
	part := func(v float64) int {
		if v < 0 {
			return cm.neg
		}
		return cm.std
	}

	switch {
	case st == lp.Basic:
		set = append(set, cm.std)
		slacks(cm.lowSlack, cm.upSlack)
	case st == lp.OnLower && cm.lowSlack >= 0:
		set = append(set, part(cm.lo))
		slacks(cm.upSlack)
	case st == lp.OnUpper && cm.upSlack >= 0:
		set = append(set, part(cm.up))
		slacks(cm.lowSlack)
	case cm.lowSlack >= 0 || cm.upSlack >= 0:
		return nil, false
	}
	return set, true
}

// statuses maps standard basic flags back to original row and column
// statuses. Rows without a standard counterpart are basic.
func (sf *standardForm) statuses(basic []bool) lp.Basis {
	b := lp.Basis{
		Rows: make([]lp.VarStatus, len(sf.rowMaps)),
		Cols: make([]lp.VarStatus, len(sf.cols)),
	}
	for j, cm := range sf.cols {
		switch cm.kind {
		case fixed:
			b.Cols[j] = lp.Fixed
		case shiftLower:
			switch {
			case !basic[cm.std]:
				b.Cols[j] = lp.OnLower
			case cm.slack >= 0 && !basic[cm.slack]:
				b.Cols[j] = lp.OnUpper
			default:
				b.Cols[j] = lp.Basic
			}
		case shiftUpper:
			b.Cols[j] = lp.OnUpper
			if basic[cm.std] {
				b.Cols[j] = lp.Basic
			}
		case split:
			switch {
			case cm.lowSlack >= 0 && !basic[cm.lowSlack]:
				b.Cols[j] = lp.OnLower
			case cm.upSlack >= 0 && !basic[cm.upSlack]:
				b.Cols[j] = lp.OnUpper
			case basic[cm.std] || basic[cm.neg]:
				b.Cols[j] = lp.Basic
			default:
				b.Cols[j] = lp.Free
			}
		}
	}
	for i, rm := range sf.rowMaps {
		switch rm.kind {
		case rowEquality:
			b.Rows[i] = lp.Fixed
			if sf.dropped[rm.std] {
				b.Rows[i] = lp.Basic
			}
		case rowLower:
			b.Rows[i] = lp.OnLower
			if basic[rm.slack] {
				b.Rows[i] = lp.Basic
			}
		case rowUpper:
			b.Rows[i] = lp.OnUpper
			if basic[rm.slack] {
				b.Rows[i] = lp.Basic
			}
		case rowRange:
			switch {
			case !basic[rm.slack]:
				b.Rows[i] = lp.OnLower
			case !basic[rm.rangeSlack]:
				b.Rows[i] = lp.OnUpper
			default:
				b.Rows[i] = lp.Basic
			}
		case rowFree:
			b.Rows[i] = lp.Basic
		}
	}
	return b
}

// span is an orthonormal basis built incrementally by modified Gram-Schmidt,
// used for the rank decisions of the adapter.
type span struct {
	vecs []*mat.VecDense
	tol  float64
}

// add appends v if it is linearly independent of the vectors already in the
// span and reports whether it did.
func (s *span) add(v []float64) bool {
	if isZero(v) {
		return false
	}
	norm0 := floats.Norm(v, 2)
	r := mat.NewVecDense(len(v), append([]float64(nil), v...))
	// two passes keep the basis orthogonal in floating point
	for pass := 0; pass < 2; pass++ {
		for _, q := range s.vecs {
			r.AddScaledVec(r, -mat.Dot(q, r), q)
		}
	}
	n := mat.Norm(r, 2)
	if n <= s.tol*norm0 {
		return false
	}
	r.ScaleVec(1/n, r)
	s.vecs = append(s.vecs, r)
	return true
}

func isZero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// equilibrate scales every row of a (and b) to a largest absolute entry of 1
// and returns the factors applied.
func equilibrate(a *mat.Dense, b []float64) []float64 {
	m, _ := a.Dims()
	scale := make([]float64, m)
	for i := 0; i < m; i++ {
		row := a.RawRowView(i)
		maxAbs := 0.0
		for _, v := range row {
			maxAbs = math.Max(maxAbs, math.Abs(v))
		}
		scale[i] = 1
		if maxAbs > 0 {
			// powers of two keep the scaling exact
			scale[i] = math.Ldexp(1, -math.Ilogb(maxAbs))
		}
		floats.Scale(scale[i], row)
		b[i] *= scale[i]
	}
	return scale
}
