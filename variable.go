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

import "github.com/costela/ratlp/rational"

type Variable struct {
	model *Model
	index int
}

/* Variable-related functions (model variables, as opposed to Go variables) */

func (v *Variable) Name() string {
	v.model.mu.RLock()
	defer v.model.mu.RUnlock()

	return v.model.names[v.index]
}

// Index returns the column index of the variable in its model.
func (v *Variable) Index() int {
	return v.index
}

// SetBounds sets the boundaries for the given variable.
// To leave a side unbounded, pass rational.NegInf() or rational.PosInf().
// Any value at least as large as rational.Infinity in absolute value is
// treated as infinite.
func (v *Variable) SetBounds(lower, upper rational.Rational) {
	v.model.mu.Lock()
	defer v.model.mu.Unlock()

	v.model.prob.Lower[v.index] = lower
	v.model.prob.Upper[v.index] = upper
	v.model.invalidate()
}

func (v *Variable) Bounds() (lower, upper rational.Rational) {
	v.model.mu.RLock()
	defer v.model.mu.RUnlock()

	return v.model.prob.Lower[v.index], v.model.prob.Upper[v.index]
}

func (v *Variable) SetObjectiveCoefficient(coef rational.Rational) {
	v.model.mu.Lock()
	defer v.model.mu.Unlock()

	v.model.prob.Obj[v.index] = coef
	v.model.invalidate()
}

func (v *Variable) ObjectiveCoefficient() rational.Rational {
	v.model.mu.RLock()
	defer v.model.mu.RUnlock()

	return v.model.prob.Obj[v.index]
}
