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

// VarStatus is the basis status of a column or of a row's slack.
type VarStatus int

const (
	Basic VarStatus = iota
	OnLower
	OnUpper
	Fixed
	Free
)

func (s VarStatus) String() string {
	switch s {
	case Basic:
		return "basic"
	case OnLower:
		return "on lower"
	case OnUpper:
		return "on upper"
	case Fixed:
		return "fixed"
	case Free:
		return "free"
	default:
		return fmt.Sprintf("unknown status %d", int(s))
	}
}

// Basis holds one status per row and per column. For rows, OnLower means
// the activity sits at the left hand side and OnUpper at the right hand side.
type Basis struct {
	Rows []VarStatus
	Cols []VarStatus
}

// IsEmpty reports whether no statuses are set.
func (b Basis) IsEmpty() bool {
	return len(b.Rows) == 0 && len(b.Cols) == 0
}

// NumBasic counts basic rows and columns.
func (b Basis) NumBasic() int {
	n := 0
	for _, s := range b.Rows {
		if s == Basic {
			n++
		}
	}
	for _, s := range b.Cols {
		if s == Basic {
			n++
		}
	}
	return n
}

// Valid reports whether b has the given dimensions and exactly nrows basic
// variables.
func (b Basis) Valid(nrows, ncols int) bool {
	return len(b.Rows) == nrows && len(b.Cols) == ncols && b.NumBasic() == nrows
}

func (b Basis) Equal(o Basis) bool {
	if len(b.Rows) != len(o.Rows) || len(b.Cols) != len(o.Cols) {
		return false
	}
	for i := range b.Rows {
		if b.Rows[i] != o.Rows[i] {
			return false
		}
	}
	for j := range b.Cols {
		if b.Cols[j] != o.Cols[j] {
			return false
		}
	}
	return true
}

func (b Basis) Clone() Basis {
	return Basis{
		Rows: append([]VarStatus(nil), b.Rows...),
		Cols: append([]VarStatus(nil), b.Cols...),
	}
}

// SlackBasis returns the basis where every row is basic and every column is
// nonbasic at its bound closest to zero.
func SlackBasis(p *Real) Basis {
	b := Basis{
		Rows: make([]VarStatus, p.NumRows()),
		Cols: make([]VarStatus, p.NumCols()),
	}
	for j := range b.Cols {
		b.Cols[j] = boundStatus(IsFinite(p.Lower[j]), IsFinite(p.Upper[j]), p.Lower[j] == p.Upper[j], p.Upper[j] <= 0)
	}
	return b
}

func boundStatus(hasLower, hasUpper, equal, upperNotPositive bool) VarStatus {
	switch {
	case hasLower && hasUpper && equal:
		return Fixed
	case hasLower && hasUpper && upperNotPositive:
		return OnUpper
	case hasLower:
		return OnLower
	case hasUpper:
		return OnUpper
	default:
		return Free
	}
}

// StatusFromValues classifies every column and row of p from an exact
// primal solution: a variable sitting exactly at a bound is nonbasic there,
// everything else is basic. The result is not necessarily a valid basis.
func StatusFromValues(env *rational.Env, p *Exact, x []rational.Rational) Basis {
	b := Basis{
		Rows: make([]VarStatus, p.NumRows()),
		Cols: make([]VarStatus, p.NumCols()),
	}
	for j := range b.Cols {
		b.Cols[j] = valueStatus(x[j], p.Lower[j], p.Upper[j])
	}
	act := p.Activity(env, x)
	for i := range b.Rows {
		b.Rows[i] = valueStatus(act[i], p.Lhs[i], p.Rhs[i])
	}
	return b
}

func valueStatus(v, lo, up rational.Rational) VarStatus {
	atLower := !lo.IsInfinite() && v.Equal(lo)
	atUpper := !up.IsInfinite() && v.Equal(up)
	switch {
	case atLower && atUpper:
		return Fixed
	case atLower:
		return OnLower
	case atUpper:
		return OnUpper
	case lo.IsInfinite() && up.IsInfinite() && v.IsZero():
		return Free
	default:
		return Basic
	}
}
