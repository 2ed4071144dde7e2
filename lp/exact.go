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

// Package lp holds the working representation of a linear program
//
//	Minimize (or Maximize): Obj · x
//	Subject to:             Lhs ≤ A·x ≤ Rhs
//	And:                    Lower ≤ x ≤ Upper
//
// in exact (Exact) and floating point (Real) arithmetic, together with row
// and column basis statuses and the exact feasibility and certificate checks.
//
// The two representations are never synchronized implicitly: Exact.Real
// derives the floating copy from the exact one and FromReal goes the other
// way.
package lp

import (
	"fmt"

	"github.com/costela/ratlp/rational"
)

type Sense int

const (
	Minimize Sense = iota
	Maximize
)

func (s Sense) String() string {
	if s == Maximize {
		return "maximize"
	}
	return "minimize"
}

// Entry is a nonzero of a sparse row; Index is the column.
type Entry struct {
	Index int
	Val   rational.Rational
}

// Exact is a linear program with rational data. Infinite bounds and sides
// are represented by rational.PosInf and rational.NegInf.
type Exact struct {
	Sense Sense

	Obj   []rational.Rational
	Lower []rational.Rational
	Upper []rational.Rational

	Lhs  []rational.Rational
	Rhs  []rational.Rational
	Rows [][]Entry
}

func (p *Exact) NumRows() int { return len(p.Lhs) }
func (p *Exact) NumCols() int { return len(p.Obj) }

// AddCol appends a column and returns its index. The entries' Index field
// refers to rows.
func (p *Exact) AddCol(obj, lower, upper rational.Rational, entries []Entry) (int, error) {
	j := len(p.Obj)
	for _, e := range entries {
		if e.Index < 0 || e.Index >= p.NumRows() {
			return -1, fmt.Errorf("lp: column entry refers to row %d of %d", e.Index, p.NumRows())
		}
	}

	p.Obj = append(p.Obj, obj)
	p.Lower = append(p.Lower, lower)
	p.Upper = append(p.Upper, upper)
	for _, e := range entries {
		if !e.Val.IsZero() {
			p.Rows[e.Index] = append(p.Rows[e.Index], Entry{Index: j, Val: e.Val})
		}
	}

	return j, nil
}

// AddRow appends a row and returns its index. The entries' Index field
// refers to columns.
func (p *Exact) AddRow(lhs, rhs rational.Rational, entries []Entry) (int, error) {
	row := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Index < 0 || e.Index >= p.NumCols() {
			return -1, fmt.Errorf("lp: row entry refers to column %d of %d", e.Index, p.NumCols())
		}
		if !e.Val.IsZero() {
			row = append(row, e)
		}
	}

	p.Lhs = append(p.Lhs, lhs)
	p.Rhs = append(p.Rhs, rhs)
	p.Rows = append(p.Rows, row)

	return len(p.Lhs) - 1, nil
}

// TruncateCols removes every column with index >= n.
func (p *Exact) TruncateCols(n int) {
	if n >= p.NumCols() {
		return
	}
	p.Obj = p.Obj[:n:n]
	p.Lower = p.Lower[:n:n]
	p.Upper = p.Upper[:n:n]

	for i, row := range p.Rows {
		kept := make([]Entry, 0, len(row))
		for _, e := range row {
			if e.Index < n {
				kept = append(kept, e)
			}
		}
		p.Rows[i] = kept
	}
}

// TruncateRows removes every row with index >= n.
func (p *Exact) TruncateRows(n int) {
	if n >= p.NumRows() {
		return
	}
	p.Lhs = p.Lhs[:n:n]
	p.Rhs = p.Rhs[:n:n]
	p.Rows = p.Rows[:n:n]
}

// Clone returns a deep copy of p. Rationals are immutable, so copying the
// slices is enough.
func (p *Exact) Clone() *Exact {
	c := &Exact{
		Sense: p.Sense,
		Obj:   append([]rational.Rational(nil), p.Obj...),
		Lower: append([]rational.Rational(nil), p.Lower...),
		Upper: append([]rational.Rational(nil), p.Upper...),
		Lhs:   append([]rational.Rational(nil), p.Lhs...),
		Rhs:   append([]rational.Rational(nil), p.Rhs...),
		Rows:  make([][]Entry, len(p.Rows)),
	}
	for i, row := range p.Rows {
		c.Rows[i] = append([]Entry(nil), row...)
	}
	return c
}

// Equal reports whether p and q are the same LP, coefficient for
// coefficient and in the same entry order.
func (p *Exact) Equal(q *Exact) bool {
	if p.Sense != q.Sense || p.NumRows() != q.NumRows() || p.NumCols() != q.NumCols() {
		return false
	}
	if !equalVec(p.Obj, q.Obj) || !equalVec(p.Lower, q.Lower) || !equalVec(p.Upper, q.Upper) ||
		!equalVec(p.Lhs, q.Lhs) || !equalVec(p.Rhs, q.Rhs) {
		return false
	}
	for i := range p.Rows {
		if len(p.Rows[i]) != len(q.Rows[i]) {
			return false
		}
		for k, e := range p.Rows[i] {
			if e.Index != q.Rows[i][k].Index || !e.Val.Equal(q.Rows[i][k].Val) {
				return false
			}
		}
	}
	return true
}

func equalVec(a, b []rational.Rational) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// MinObj returns the objective coefficient of column j in minimization
// sense.
func (p *Exact) MinObj(j int) rational.Rational {
	if p.Sense == Maximize {
		return p.Obj[j].Neg()
	}
	return p.Obj[j]
}

// ObjValue returns Obj·x.
func (p *Exact) ObjValue(env *rational.Env, x []rational.Rational) rational.Rational {
	acc := env.Accumulator()
	defer acc.Release()

	for j, c := range p.Obj {
		if !c.IsZero() {
			acc.AddProduct(c, x[j])
		}
	}
	return acc.Value()
}

// Activity returns A·x.
func (p *Exact) Activity(env *rational.Env, x []rational.Rational) []rational.Rational {
	act := make([]rational.Rational, p.NumRows())
	acc := env.Accumulator()
	defer acc.Release()

	for i, row := range p.Rows {
		acc.Reset()
		for _, e := range row {
			acc.AddProduct(e.Val, x[e.Index])
		}
		act[i] = acc.Value()
	}
	return act
}

// ColDot returns Aᵀ·y.
func (p *Exact) ColDot(env *rational.Env, y []rational.Rational) []rational.Rational {
	n := p.NumCols()
	accs := make([]*rational.Accumulator, n)
	defer func() {
		for _, a := range accs {
			if a != nil {
				a.Release()
			}
		}
	}()

	for i, row := range p.Rows {
		if y[i].IsZero() {
			continue
		}
		for _, e := range row {
			if accs[e.Index] == nil {
				accs[e.Index] = env.Accumulator()
			}
			accs[e.Index].AddProduct(e.Val, y[i])
		}
	}

	out := make([]rational.Rational, n)
	for j, a := range accs {
		if a != nil {
			out[j] = a.Value()
		}
	}
	return out
}

// ReducedCosts returns Obj - Aᵀ·y in the LP's own objective sense.
func (p *Exact) ReducedCosts(env *rational.Env, y []rational.Rational) []rational.Rational {
	aty := p.ColDot(env, y)
	for j := range aty {
		aty[j] = p.Obj[j].Sub(aty[j])
	}
	return aty
}

// Real derives the floating point copy of p.
func (p *Exact) Real() *Real {
	r := &Real{
		Sense: p.Sense,
		Obj:   floats(p.Obj),
		Lower: floats(p.Lower),
		Upper: floats(p.Upper),
		Lhs:   floats(p.Lhs),
		Rhs:   floats(p.Rhs),
		Rows:  make([][]RealEntry, len(p.Rows)),
	}
	for i, row := range p.Rows {
		r.Rows[i] = make([]RealEntry, len(row))
		for k, e := range row {
			r.Rows[i][k] = RealEntry{Index: e.Index, Val: e.Val.Float64()}
		}
	}
	return r
}

// FromReal derives an exact LP from the binary values of r.
func FromReal(r *Real) *Exact {
	p := &Exact{
		Sense: r.Sense,
		Obj:   rationals(r.Obj),
		Lower: rationals(r.Lower),
		Upper: rationals(r.Upper),
		Lhs:   rationals(r.Lhs),
		Rhs:   rationals(r.Rhs),
		Rows:  make([][]Entry, len(r.Rows)),
	}
	for i, row := range r.Rows {
		p.Rows[i] = make([]Entry, len(row))
		for k, e := range row {
			p.Rows[i][k] = Entry{Index: e.Index, Val: rational.FromFloat64(e.Val)}
		}
	}
	return p
}

func floats(v []rational.Rational) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x.Float64()
	}
	return out
}

func rationals(v []float64) []rational.Rational {
	out := make([]rational.Rational, len(v))
	for i, x := range v {
		out[i] = rational.FromFloat64(x)
	}
	return out
}

// Floats converts an exact vector to its nearest floating point values.
func Floats(v []rational.Rational) []float64 { return floats(v) }

// Rationals converts a floating point vector to exact values.
func Rationals(v []float64) []rational.Rational { return rationals(v) }
