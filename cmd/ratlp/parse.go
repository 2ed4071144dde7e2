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
package main

import (
	"fmt"
	"strings"

	"github.com/costela/ratlp"
	"github.com/costela/ratlp/rational"
)

// columnSpec is a column given as [name=]obj:lower:upper.
type columnSpec struct {
	name              string
	obj, lower, upper rational.Rational
}

// rowSpec is a row given as lhs:c1,c2,...:rhs, with one coefficient per
// column. Empty coefficients are zero.
type rowSpec struct {
	lhs, rhs rational.Rational
	cols     []int
	coefs    []rational.Rational
}

func parseColumn(s string) (columnSpec, error) {
	var c columnSpec

	if i := strings.IndexByte(s, '='); i >= 0 {
		c.name, s = strings.TrimSpace(s[:i]), s[i+1:]
	}

	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return c, fmt.Errorf("column %q: expected obj:lower:upper", s)
	}

	vals, err := parseAll(parts)
	if err != nil {
		return c, fmt.Errorf("column %q: %w", s, err)
	}
	c.obj, c.lower, c.upper = vals[0], vals[1], vals[2]

	return c, nil
}

func parseRow(s string, ncols int) (rowSpec, error) {
	var r rowSpec

	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return r, fmt.Errorf("row %q: expected lhs:coefficients:rhs", s)
	}

	sides, err := parseAll([]string{parts[0], parts[2]})
	if err != nil {
		return r, fmt.Errorf("row %q: %w", s, err)
	}
	r.lhs, r.rhs = sides[0], sides[1]

	coefs := strings.Split(parts[1], ",")
	if len(coefs) != ncols {
		return r, fmt.Errorf("row %q: %d coefficients for %d columns", s, len(coefs), ncols)
	}
	for j, c := range coefs {
		if strings.TrimSpace(c) == "" {
			continue
		}
		v, err := rational.Parse(c)
		if err != nil {
			return r, fmt.Errorf("row %q: %w", s, err)
		}
		if v.IsZero() {
			continue
		}
		r.cols = append(r.cols, j)
		r.coefs = append(r.coefs, v)
	}

	return r, nil
}

func parseAll(ss []string) ([]rational.Rational, error) {
	out := make([]rational.Rational, len(ss))
	for i, s := range ss {
		v, err := rational.Parse(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// buildModel parses the column and row flags into a new model.
func buildModel(dir ratlp.Direction, colFlags, rowFlags []string, opts ...ratlp.Option) (*ratlp.Model, []*ratlp.Variable, error) {
	cols := make([]columnSpec, len(colFlags))
	for j, s := range colFlags {
		c, err := parseColumn(s)
		if err != nil {
			return nil, nil, err
		}
		cols[j] = c
	}

	rows := make([]rowSpec, len(rowFlags))
	for i, s := range rowFlags {
		r, err := parseRow(s, len(cols))
		if err != nil {
			return nil, nil, err
		}
		rows[i] = r
	}

	model, err := ratlp.NewModel("cli", dir, opts...)
	if err != nil {
		return nil, nil, err
	}

	vars := make([]*ratlp.Variable, len(cols))
	for j, c := range cols {
		v, err := model.AddDefinedVariable(c.name, c.obj, c.lower, c.upper)
		if err != nil {
			model.Close()
			return nil, nil, err
		}
		vars[j] = v
	}

	for _, r := range rows {
		rowVars := make([]*ratlp.Variable, len(r.cols))
		for k, j := range r.cols {
			rowVars[k] = vars[j]
		}
		if err := model.AddConstraint(r.lhs, r.rhs, rowVars, r.coefs); err != nil {
			model.Close()
			return nil, nil, err
		}
	}

	return model, vars, nil
}
