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

import "github.com/costela/ratlp/rational"

// VerifyFarkas reports whether y proves p infeasible. With r = Aᵀy, every
// feasible x would satisfy yᵀA·x = rᵀx, yet rᵀx is bounded above by the
// column bounds while yᵀA·x is bounded below by the sides y selects. y is a
// valid certificate when that lower bound exceeds the upper one. Sides or
// bounds that y needs but that are infinite make the certificate invalid.
func (p *Exact) VerifyFarkas(env *rational.Env, y []rational.Rational) bool {
	if len(y) != p.NumRows() {
		return false
	}

	sides := env.Accumulator()
	defer sides.Release()
	nonzero := false

	for i, yi := range y {
		switch yi.Sign() {
		case 1:
			if p.Lhs[i].IsInfinite() {
				return false
			}
			sides.AddProduct(yi, p.Lhs[i])
			nonzero = true
		case -1:
			if p.Rhs[i].IsInfinite() {
				return false
			}
			sides.AddProduct(yi, p.Rhs[i])
			nonzero = true
		}
	}
	if !nonzero {
		return false
	}

	maxAct := env.Accumulator()
	defer maxAct.Release()

	for j, rj := range p.ColDot(env, y) {
		switch rj.Sign() {
		case 1:
			if p.Upper[j].IsInfinite() {
				return false
			}
			maxAct.AddProduct(rj, p.Upper[j])
		case -1:
			if p.Lower[j].IsInfinite() {
				return false
			}
			maxAct.AddProduct(rj, p.Lower[j])
		}
	}

	return maxAct.Value().Less(sides.Value())
}

// VerifyPrimalRay reports whether r is a direction of unbounded improvement
// for p: it keeps every finite bound and side within tol and strictly
// improves the objective. Feasibility of p itself is not checked.
func (p *Exact) VerifyPrimalRay(env *rational.Env, r []rational.Rational, tol rational.Rational) bool {
	if len(r) != p.NumCols() {
		return false
	}
	negTol := tol.Neg()

	for j, rj := range r {
		if !p.Lower[j].IsInfinite() && rj.Less(negTol) {
			return false
		}
		if !p.Upper[j].IsInfinite() && rj.Greater(tol) {
			return false
		}
	}
	for i, a := range p.Activity(env, r) {
		if !p.Lhs[i].IsInfinite() && a.Less(negTol) {
			return false
		}
		if !p.Rhs[i].IsInfinite() && a.Greater(tol) {
			return false
		}
	}

	obj := env.Accumulator()
	defer obj.Release()
	for j, rj := range r {
		if !rj.IsZero() {
			obj.AddProduct(p.MinObj(j), rj)
		}
	}
	return obj.Value().Sign() < 0
}
