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
package ratlp

import (
	"github.com/costela/ratlp/lp"
	"github.com/costela/ratlp/rational"
	"github.com/costela/ratlp/stats"
)

/*
 The transformer rewrites the exact LP in place and hands back an undo
 record. Undoing right after transforming restores the LP coefficient for
 coefficient. Every call is accounted to stats.TransformTime.
*/

type transformer struct {
	env   *rational.Env
	stats *stats.Statistics
}

func (t transformer) timed() func() {
	t.stats.TransformTime.Start()
	return t.stats.TransformTime.Stop
}

// snapshot keeps the dense data of an LP; rows are only ever appended to
// and are restored by truncation.
type snapshot struct {
	sense             lp.Sense
	obj, lower, upper []rational.Rational
	lhs, rhs          []rational.Rational
	numRows, numCols  int
}

func takeSnapshot(p *lp.Exact) snapshot {
	return snapshot{
		sense:   p.Sense,
		obj:     append([]rational.Rational(nil), p.Obj...),
		lower:   append([]rational.Rational(nil), p.Lower...),
		upper:   append([]rational.Rational(nil), p.Upper...),
		lhs:     append([]rational.Rational(nil), p.Lhs...),
		rhs:     append([]rational.Rational(nil), p.Rhs...),
		numRows: p.NumRows(),
		numCols: p.NumCols(),
	}
}

func (s snapshot) restore(p *lp.Exact) {
	p.TruncateRows(s.numRows)
	p.TruncateCols(s.numCols)
	p.Sense = s.sense
	p.Obj, p.Lower, p.Upper = s.obj, s.lower, s.upper
	p.Lhs, p.Rhs = s.lhs, s.rhs
}

/* Equality form */

// equalityForm undoes ToEquality. Column cols+i is the slack of row i.
type equalityForm struct {
	cols  int
	sense lp.Sense
	lhs   []rational.Rational
	rhs   []rational.Rational
}

// ToEquality turns every row lhs <= a·x <= rhs into a·x - s = 0 with a new
// slack column s in [lhs, rhs] and makes the objective a minimization. Row
// duals of the result equal the minimization-sense row duals of p.
func (t transformer) ToEquality(p *lp.Exact) *equalityForm {
	defer t.timed()()

	undo := &equalityForm{
		cols:  p.NumCols(),
		sense: p.Sense,
		lhs:   append([]rational.Rational(nil), p.Lhs...),
		rhs:   append([]rational.Rational(nil), p.Rhs...),
	}

	for i := range p.Lhs {
		// row indices are valid by construction
		_, _ = p.AddCol(rational.Zero, p.Lhs[i], p.Rhs[i], []lp.Entry{{Index: i, Val: rational.One.Neg()}})
		p.Lhs[i] = rational.Zero
		p.Rhs[i] = rational.Zero
	}

	if p.Sense == lp.Maximize {
		for j := range p.Obj {
			p.Obj[j] = p.Obj[j].Neg()
		}
		p.Sense = lp.Minimize
	}

	return undo
}

// FromEquality reverts ToEquality.
func (t transformer) FromEquality(p *lp.Exact, undo *equalityForm) {
	defer t.timed()()

	p.TruncateCols(undo.cols)
	if undo.sense == lp.Maximize {
		for j := range p.Obj {
			p.Obj[j] = p.Obj[j].Neg()
		}
	}
	p.Sense = undo.sense
	p.Lhs = append([]rational.Rational(nil), undo.lhs...)
	p.Rhs = append([]rational.Rational(nil), undo.rhs...)
}

func (e *equalityForm) numRows() int { return len(e.lhs) }

// primal splits an equality form vector into structural values and slacks.
func (e *equalityForm) primal(x []rational.Rational) (cols, slacks []rational.Rational) {
	return x[:e.cols], x[e.cols : e.cols+e.numRows()]
}

// ownDuals converts minimization-sense duals to the original objective sense.
func (e *equalityForm) ownDuals(y []rational.Rational) []rational.Rational {
	out := make([]rational.Rational, e.numRows())
	copy(out, y)
	if e.sense == lp.Maximize {
		for i := range out {
			out[i] = out[i].Neg()
		}
	}
	return out
}

// basis maps an equality form basis back: slack statuses become row
// statuses.
func (e *equalityForm) basis(b lp.Basis) lp.Basis {
	m := e.numRows()
	if len(b.Cols) < e.cols+m {
		return lp.Basis{}
	}
	return lp.Basis{
		Rows: append([]lp.VarStatus(nil), b.Cols[e.cols:e.cols+m]...),
		Cols: append([]lp.VarStatus(nil), b.Cols[:e.cols]...),
	}
}

// toBasis maps a basis of the original LP to equality form, where every
// row is fixed.
func (e *equalityForm) toBasis(b lp.Basis) lp.Basis {
	m := e.numRows()
	if !b.Valid(m, e.cols) {
		return lp.Basis{}
	}
	eq := lp.Basis{
		Rows: make([]lp.VarStatus, m),
		Cols: append(append([]lp.VarStatus(nil), b.Cols...), b.Rows...),
	}
	for i := range eq.Rows {
		eq.Rows[i] = lp.Fixed
	}
	return eq
}

/* Unboundedness form */

// unboundedForm undoes ToUnbounded. Row objRow holds the objective, column
// tau measures the objective decrease along the ray.
type unboundedForm struct {
	saved  snapshot
	objRow int
	tau    int
}

// ToUnbounded homogenizes p: every finite bound and side becomes zero and
// the objective moves into a new row -c·x - tau = 0 with tau in [0, 1].
// Maximizing tau finds a ray x with c·x = -tau if p has one.
func (t transformer) ToUnbounded(p *lp.Exact) *unboundedForm {
	defer t.timed()()

	undo := &unboundedForm{saved: takeSnapshot(p)}

	entries := make([]lp.Entry, 0, p.NumCols())
	for j := range p.Obj {
		if c := p.MinObj(j); !c.IsZero() {
			entries = append(entries, lp.Entry{Index: j, Val: c.Neg()})
		}
	}

	p.Obj = make([]rational.Rational, p.NumCols())
	p.Lower = homogenize(p.Lower)
	p.Upper = homogenize(p.Upper)
	p.Lhs = homogenize(p.Lhs)
	p.Rhs = homogenize(p.Rhs)
	p.Sense = lp.Minimize

	undo.objRow, _ = p.AddRow(rational.Zero, rational.Zero, entries)
	undo.tau, _ = p.AddCol(rational.One.Neg(), rational.Zero, rational.One, []lp.Entry{{Index: undo.objRow, Val: rational.One.Neg()}})

	return undo
}

// FromUnbounded reverts ToUnbounded.
func (t transformer) FromUnbounded(p *lp.Exact, undo *unboundedForm) {
	defer t.timed()()

	undo.saved.restore(p)
}

// ray scales the probe solution to a ray with objective decrease one. It
// returns nil when tau is not positive.
func (u *unboundedForm) ray(x []rational.Rational, cols int) []rational.Rational {
	tau := x[u.tau]
	if tau.Sign() <= 0 {
		return nil
	}
	r := make([]rational.Rational, cols)
	for j := range r {
		r[j], _ = x[j].Div(tau)
	}
	return r
}

func homogenize(v []rational.Rational) []rational.Rational {
	out := make([]rational.Rational, len(v))
	for i, x := range v {
		if x.IsInfinite() {
			out[i] = x
		}
	}
	return out
}

/* Feasibility form */

// feasibilityForm undoes ToFeasibility.
type feasibilityForm struct {
	saved snapshot
	shift []rational.Rational
	tau   int
}

// ToFeasibility moves the origin to shift, which must lie within the column
// bounds, and drops the objective. Rows whose shifted sides exclude zero are
// relaxed through a new column tau in [0, 1] so that tau = 0 with the origin
// is always feasible and tau = 1 gives back the shifted LP. Maximizing tau
// either finds a feasible point or yields row duals proving infeasibility.
func (t transformer) ToFeasibility(p *lp.Exact, shift []rational.Rational) *feasibilityForm {
	defer t.timed()()

	undo := &feasibilityForm{
		saved: takeSnapshot(p),
		shift: shift,
	}

	for j, s := range shift {
		if !p.Lower[j].IsInfinite() {
			p.Lower[j] = p.Lower[j].Sub(s)
		}
		if !p.Upper[j].IsInfinite() {
			p.Upper[j] = p.Upper[j].Sub(s)
		}
	}

	act := p.Activity(t.env, shift)
	var entries []lp.Entry
	for i := range p.Lhs {
		lhs, rhs := p.Lhs[i], p.Rhs[i]
		if !lhs.IsInfinite() {
			lhs = lhs.Sub(act[i])
		}
		if !rhs.IsInfinite() {
			rhs = rhs.Sub(act[i])
		}

		var v rational.Rational
		switch {
		case !lhs.IsInfinite() && lhs.Sign() > 0:
			v = lhs
		case !rhs.IsInfinite() && rhs.Sign() < 0:
			v = rhs
		}
		if !v.IsZero() {
			if !lhs.IsInfinite() {
				lhs = lhs.Sub(v)
			}
			if !rhs.IsInfinite() {
				rhs = rhs.Sub(v)
			}
			entries = append(entries, lp.Entry{Index: i, Val: v.Neg()})
		}
		p.Lhs[i], p.Rhs[i] = lhs, rhs
	}

	p.Obj = make([]rational.Rational, p.NumCols())
	p.Sense = lp.Minimize
	undo.tau, _ = p.AddCol(rational.One.Neg(), rational.Zero, rational.One, entries)

	return undo
}

// FromFeasibility reverts ToFeasibility.
func (t transformer) FromFeasibility(p *lp.Exact, undo *feasibilityForm) {
	defer t.timed()()

	undo.saved.restore(p)
}

// point maps a probe solution back to the original coordinates.
func (f *feasibilityForm) point(x []rational.Rational) []rational.Rational {
	out := make([]rational.Rational, len(f.shift))
	for j, s := range f.shift {
		out[j] = x[j].Add(s)
	}
	return out
}

// feasibilityShift clamps x into the column bounds of p. Missing values
// count as zero.
func feasibilityShift(p *lp.Exact, x []rational.Rational) []rational.Rational {
	shift := make([]rational.Rational, p.NumCols())
	for j := range shift {
		if j < len(x) {
			shift[j] = x[j]
		}
		if lo := p.Lower[j]; !lo.IsInfinite() && shift[j].Less(lo) {
			shift[j] = lo
		}
		if up := p.Upper[j]; !up.IsInfinite() && shift[j].Greater(up) {
			shift[j] = up
		}
	}
	return shift
}
