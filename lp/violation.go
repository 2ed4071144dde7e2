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

import (
	"fmt"

	"github.com/costela/ratlp/rational"
)

// Violations are the four residual measures of a primal/dual pair, all
// nonnegative and computed exactly.
type Violations struct {
	Bound   rational.Rational // largest bound violation of the primal vector
	Row     rational.Rational // largest side violation of the row activities
	RedCost rational.Rational // largest reduced cost of the wrong sign
	Dual    rational.Rational // largest row dual of the wrong sign
}

func (v Violations) MaxPrimal() rational.Rational { return rational.Max(v.Bound, v.Row) }
func (v Violations) MaxDual() rational.Rational   { return rational.Max(v.RedCost, v.Dual) }
func (v Violations) Max() rational.Rational       { return rational.Max(v.MaxPrimal(), v.MaxDual()) }

// Within reports whether the primal measures are at most feasTol and the
// dual measures at most optTol.
func (v Violations) Within(feasTol, optTol rational.Rational) bool {
	return v.MaxPrimal().LessEqual(feasTol) && v.MaxDual().LessEqual(optTol)
}

func (v Violations) String() string {
	return fmt.Sprintf("bound %s, row %s, redcost %s, dual %s",
		v.Bound.FloatString(3), v.Row.FloatString(3), v.RedCost.FloatString(3), v.Dual.FloatString(3))
}

// PrimalViolations computes the bound and row violations of x.
func (p *Exact) PrimalViolations(env *rational.Env, x []rational.Rational) (bound, row rational.Rational) {
	for j, v := range x {
		if lo := p.Lower[j]; !lo.IsInfinite() && v.Less(lo) {
			bound = rational.Max(bound, lo.Sub(v))
		}
		if up := p.Upper[j]; !up.IsInfinite() && v.Greater(up) {
			bound = rational.Max(bound, v.Sub(up))
		}
	}
	for i, a := range p.Activity(env, x) {
		if lhs := p.Lhs[i]; !lhs.IsInfinite() && a.Less(lhs) {
			row = rational.Max(row, lhs.Sub(a))
		}
		if rhs := p.Rhs[i]; !rhs.IsInfinite() && a.Greater(rhs) {
			row = rational.Max(row, a.Sub(rhs))
		}
	}
	return bound, row
}

// DualViolations computes the reduced cost and dual sign violations of y
// with respect to basis. Duals follow the LP's own objective sense, so for
// maximization problems the expected signs are flipped. When basis does not
// match the dimensions of p, statuses are derived from x.
func (p *Exact) DualViolations(env *rational.Env, x, y []rational.Rational, basis Basis) (redCost, dual rational.Rational) {
	if len(basis.Rows) != p.NumRows() || len(basis.Cols) != p.NumCols() {
		basis = StatusFromValues(env, p, x)
	}
	flip := p.Sense == Maximize

	d := p.ReducedCosts(env, y)
	for j, dj := range d {
		if flip {
			dj = dj.Neg()
		}
		redCost = rational.Max(redCost, signViolation(dj, basis.Cols[j], p.Lower[j], p.Upper[j]))
	}
	for i, yi := range y {
		if flip {
			yi = yi.Neg()
		}
		dual = rational.Max(dual, signViolation(yi, basis.Rows[i], p.Lhs[i], p.Rhs[i]))
	}
	return redCost, dual
}

// signViolation measures how far the minimization-sense multiplier v of a
// variable with the given status and bounds is from the sign that status
// demands: nonnegative at the lower bound, nonpositive at the upper bound,
// zero when basic or free.
func signViolation(v rational.Rational, status VarStatus, lo, up rational.Rational) rational.Rational {
	if !lo.IsInfinite() && lo.Equal(up) {
		return rational.Zero
	}
	switch {
	case status == Fixed:
		return rational.Zero
	case status == OnLower && !lo.IsInfinite():
		if v.Sign() < 0 {
			return v.Neg()
		}
		return rational.Zero
	case status == OnUpper && !up.IsInfinite():
		if v.Sign() > 0 {
			return v
		}
		return rational.Zero
	default:
		return v.Abs()
	}
}

// ComputeViolations returns all four residual measures of the pair (x, y).
func (p *Exact) ComputeViolations(env *rational.Env, x, y []rational.Rational, basis Basis) Violations {
	var v Violations
	v.Bound, v.Row = p.PrimalViolations(env, x)
	v.RedCost, v.Dual = p.DualViolations(env, x, y, basis)
	return v
}
