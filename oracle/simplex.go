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
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	convexlp "gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/costela/ratlp/lp"
)

const (
	rankTol      = 1e-9 // relative residual below which a vector is considered dependent
	dependentTol = 1e-7 // allowed relative residual on rows dropped as dependent
	primalTol    = 1e-6 // allowed relative bound and row violation of a reported optimum
)

// Simplex is an Oracle backed by gonum's dense simplex implementation.
// gonum reports neither duals nor a basis, so both are reconstructed from
// the returned vertex.
type Simplex struct {
	Settings Settings
}

// NewSimplex returns a gonum backed oracle with the given settings.
func NewSimplex(settings Settings) *Simplex {
	return &Simplex{Settings: settings}
}

// Solve implements Oracle. Cancellation is checked once before solving;
// a running solve is not interrupted.
func (s *Simplex) Solve(ctx context.Context, p *lp.Real, basis lp.Basis) (res *Result, err error) {
	if ctx.Err() != nil {
		return &Result{Status: Stopped}, nil
	}

	// gonum panics on singular or infeasible starting bases and on malformed
	// input
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("%w: %v", ErrOracle, r)
		}
	}()

	sf := toStandard(p, true)
	if sf.infeasible {
		return &Result{Status: Infeasible}, nil
	}
	if sf.relaxed {
		// an optimum of the relaxation within the huge bounds is optimal
		res, err := s.solveStandard(p, sf, basis)
		if err == nil && (res.Status == Optimal || res.Status == Infeasible) {
			return res, nil
		}
		sf = toStandard(p, false)
	}

	return s.solveStandard(p, sf, basis)
}

func (s *Simplex) solveStandard(p *lp.Real, sf *standardForm, basis lp.Basis) (*Result, error) {
	tol := s.Settings.tolerance()
	n := len(sf.c)

	// columns without entries are either fixed at zero or make the problem
	// unbounded, provided it is feasible at all
	used := make([]bool, n)
	for _, r := range sf.rows {
		for _, j := range r.idx {
			used[j] = true
		}
	}
	unbounded := false
	var cols []int
	for j := 0; j < n; j++ {
		if used[j] {
			cols = append(cols, j)
		} else if sf.c[j] < 0 {
			unbounded = true
		}
	}

	pos := positions(cols)
	sf.dropped = make([]bool, len(sf.rows))

	var rows, dependent []int
	indep := span{tol: rankTol}
	for i := range sf.rows {
		vec := sf.rowVector(i, pos, len(cols))
		if isZero(vec) {
			if math.Abs(sf.rows[i].rhs) > dependentTol*(1+math.Abs(sf.rows[i].rhs)) {
				return &Result{Status: Infeasible}, nil
			}
			sf.dropped[i] = true
			continue
		}
		if indep.add(vec) {
			rows = append(rows, i)
		} else {
			dependent = append(dependent, i)
			sf.dropped[i] = true
		}
	}

	xs := make([]float64, n)
	w := make([]float64, len(sf.rows))
	basicStd := make([]bool, n)

	if len(rows) > 0 {
		a := sf.dense(rows, cols)
		b := make([]float64, len(rows))
		for r, i := range rows {
			b[r] = sf.rows[i].rhs
		}
		c := make([]float64, len(cols))
		for k, j := range cols {
			c[k] = sf.c[j]
		}

		scale := make([]float64, len(rows))
		for r := range scale {
			scale[r] = 1
		}
		if s.Settings.Scaling == ScalingEquilibrium {
			scale = equilibrate(a, b)
		}

		init := s.warmStart(sf, basis, cols, a, b)

		_, xr, err := convexlp.Simplex(c, a, b, tol, init)
		switch {
		case errors.Is(err, convexlp.ErrInfeasible):
			return &Result{Status: Infeasible}, nil
		case errors.Is(err, convexlp.ErrUnbounded):
			return &Result{Status: Unbounded}, nil
		case err != nil:
			return nil, fmt.Errorf("%w: %v", ErrOracle, err)
		}
		if len(xr) != len(cols) || floats.HasNaN(xr) {
			return nil, fmt.Errorf("%w: malformed primal solution", ErrOracle)
		}

		for k, j := range cols {
			xs[j] = xr[k]
		}

		chosen, err := completeBasis(a, xr, init, tol)
		if err != nil {
			return nil, err
		}
		for _, k := range chosen {
			basicStd[cols[k]] = true
		}

		wr, err := solveDuals(a, c, chosen)
		if err != nil {
			return nil, err
		}
		for r, i := range rows {
			w[i] = wr[r] * scale[r]
		}
	}

	for _, i := range dependent {
		act := 0.0
		for k, j := range sf.rows[i].idx {
			act += sf.rows[i].val[k] * xs[j]
		}
		rhs := sf.rows[i].rhs
		if math.Abs(act-rhs) > dependentTol*(1+math.Abs(rhs)) {
			return &Result{Status: Infeasible}, nil
		}
	}

	if unbounded {
		return &Result{Status: Unbounded}, nil
	}

	res := &Result{
		Status: Optimal,
		Primal: sf.fromStandard(xs),
		Dual:   make([]float64, len(sf.rowMaps)),
		Basis:  sf.statuses(basicStd),
	}
	for i, rm := range sf.rowMaps {
		if rm.std >= 0 {
			res.Dual[i] = w[rm.std]
		}
	}
	if p.Sense == lp.Maximize {
		floats.Scale(-1, res.Dual)
	}
	res.RedCost = p.ColDot(res.Dual)
	for j := range res.RedCost {
		res.RedCost[j] = p.Obj[j] - res.RedCost[j]
	}

	if floats.HasNaN(res.Dual) || floats.HasNaN(res.RedCost) {
		return nil, fmt.Errorf("%w: malformed dual solution", ErrOracle)
	}
	if err := checkPrimal(p, res.Primal); err != nil {
		return nil, err
	}

	return res, nil
}

// checkPrimal verifies that x satisfies the bounds and rows of p up to
// primalTol, relative to the magnitudes involved.
func checkPrimal(p *lp.Real, x []float64) error {
	for j, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: column %d has value %g", ErrOracle, j, v)
		}
		if outside(v, p.Lower[j], p.Upper[j], math.Abs(v)) {
			return fmt.Errorf("%w: column %d value %g outside [%g, %g]", ErrOracle, j, v, p.Lower[j], p.Upper[j])
		}
	}
	for i, row := range p.Rows {
		act, mag := 0.0, 0.0
		for _, e := range row {
			t := e.Val * x[e.Index]
			act += t
			mag += math.Abs(t)
		}
		if outside(act, p.Lhs[i], p.Rhs[i], mag) {
			return fmt.Errorf("%w: row %d activity %g outside [%g, %g]", ErrOracle, i, act, p.Lhs[i], p.Rhs[i])
		}
	}
	return nil
}

func outside(v, lo, up, mag float64) bool {
	if lp.IsFinite(lo) && v < lo-primalTol*(1+mag+math.Abs(lo)) {
		return true
	}
	return lp.IsFinite(up) && v > up+primalTol*(1+mag+math.Abs(up))
}

// warmStart translates basis into gonum's initial basic index set. It
// returns nil unless the set is a nonsingular and feasible starting point,
// since gonum panics on anything else.
func (s *Simplex) warmStart(sf *standardForm, basis lp.Basis, cols []int, a *mat.Dense, b []float64) []int {
	set, ok := sf.basicSet(basis)
	if !ok {
		return nil
	}

	pos := positions(cols)
	m, _ := a.Dims()
	init := make([]int, 0, m)
	seen := make(map[int]bool, len(set))
	for _, j := range set {
		k, ok := pos[j]
		if !ok || seen[k] {
			continue
		}
		seen[k] = true
		init = append(init, k)
	}
	if len(init) != m {
		return nil
	}

	bm := mat.NewDense(m, m, nil)
	for r, k := range init {
		bm.SetCol(r, mat.Col(nil, k, a))
	}
	var xb mat.VecDense
	if err := xb.SolveVec(bm, mat.NewVecDense(m, b)); err != nil {
		return nil
	}
	for r := 0; r < m; r++ {
		if xb.AtVec(r) < 0 {
			return nil
		}
	}

	return init
}

// completeBasis picks m linearly independent columns of a, preferring the
// positive entries of x, then the warm start set.
func completeBasis(a *mat.Dense, x []float64, init []int, tol float64) ([]int, error) {
	m, n := a.Dims()

	var positive []int
	for k, v := range x {
		if v > tol {
			positive = append(positive, k)
		}
	}
	sort.SliceStable(positive, func(i, j int) bool {
		return x[positive[i]] > x[positive[j]]
	})

	order := make([]int, 0, len(positive)+len(init)+n)
	order = append(order, positive...)
	order = append(order, init...)
	for k := 0; k < n; k++ {
		order = append(order, k)
	}

	seen := make([]bool, n)
	indep := span{tol: rankTol}
	chosen := make([]int, 0, m)
	for _, k := range order {
		if seen[k] {
			continue
		}
		seen[k] = true
		if indep.add(mat.Col(nil, k, a)) {
			chosen = append(chosen, k)
			if len(chosen) == m {
				return chosen, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: could not complete basis (%d of %d)", ErrOracle, len(chosen), m)
}

// solveDuals solves Bᵀw = c_B for the basis columns chosen.
func solveDuals(a *mat.Dense, c []float64, chosen []int) ([]float64, error) {
	m := len(chosen)
	bm := mat.NewDense(m, m, nil)
	cb := make([]float64, m)
	for r, k := range chosen {
		bm.SetCol(r, mat.Col(nil, k, a))
		cb[r] = c[k]
	}

	var w mat.VecDense
	if err := w.SolveVec(bm.T(), mat.NewVecDense(m, cb)); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("%w: dual solve: %v", ErrOracle, err)
		}
	}

	out := make([]float64, m)
	for r := range out {
		out[r] = w.AtVec(r)
	}
	return out, nil
}
