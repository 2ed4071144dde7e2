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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costela/ratlp/lp"
)

const delta = 1e-9

var inf = math.Inf(1)

// min x + y s.t. x + 2y >= 1, 0 <= x <= 3, y >= 0
func minLP() *lp.Real {
	return &lp.Real{
		Obj:   []float64{1, 1},
		Lower: []float64{0, 0},
		Upper: []float64{3, inf},
		Lhs:   []float64{1},
		Rhs:   []float64{inf},
		Rows:  [][]lp.RealEntry{{{Index: 0, Val: 1}, {Index: 1, Val: 2}}},
	}
}

// max 2x + y s.t. x + y <= 4, 0 <= x <= 3, y >= 0
func maxLP() *lp.Real {
	return &lp.Real{
		Sense: lp.Maximize,
		Obj:   []float64{2, 1},
		Lower: []float64{0, 0},
		Upper: []float64{3, inf},
		Lhs:   []float64{-inf},
		Rhs:   []float64{4},
		Rows:  [][]lp.RealEntry{{{Index: 0, Val: 1}, {Index: 1, Val: 1}}},
	}
}

func TestSimplexMinimize(t *testing.T) {
	res, err := NewSimplex(Settings{}).Solve(context.Background(), minLP(), lp.Basis{})
	require.NoError(t, err)
	require.Equal(t, Optimal, res.Status)

	assert.InDeltaSlice(t, []float64{0, 0.5}, res.Primal, delta)
	assert.InDeltaSlice(t, []float64{0.5}, res.Dual, delta)
	assert.InDeltaSlice(t, []float64{0.5, 0}, res.RedCost, delta)
	assert.Equal(t, []lp.VarStatus{lp.OnLower, lp.Basic}, res.Basis.Cols)
	assert.Equal(t, []lp.VarStatus{lp.OnLower}, res.Basis.Rows)
	assert.True(t, res.Basis.Valid(1, 2))
}

func TestSimplexMaximize(t *testing.T) {
	res, err := NewSimplex(Settings{}).Solve(context.Background(), maxLP(), lp.Basis{})
	require.NoError(t, err)
	require.Equal(t, Optimal, res.Status)

	assert.InDeltaSlice(t, []float64{3, 1}, res.Primal, delta)
	assert.InDeltaSlice(t, []float64{1}, res.Dual, delta)
	assert.InDeltaSlice(t, []float64{1, 0}, res.RedCost, delta)
	assert.Equal(t, []lp.VarStatus{lp.OnUpper, lp.Basic}, res.Basis.Cols)
	assert.Equal(t, []lp.VarStatus{lp.OnUpper}, res.Basis.Rows)
}

func TestSimplexWarmStart(t *testing.T) {
	o := NewSimplex(Settings{})
	first, err := o.Solve(context.Background(), maxLP(), lp.Basis{})
	require.NoError(t, err)

	second, err := o.Solve(context.Background(), maxLP(), first.Basis)
	require.NoError(t, err)
	require.Equal(t, Optimal, second.Status)
	assert.InDeltaSlice(t, first.Primal, second.Primal, delta)
	assert.True(t, first.Basis.Equal(second.Basis))

	// a basis of the wrong shape is ignored
	third, err := o.Solve(context.Background(), maxLP(), lp.Basis{Cols: []lp.VarStatus{lp.Basic}})
	require.NoError(t, err)
	assert.InDeltaSlice(t, first.Primal, third.Primal, delta)
}

func TestSimplexScaling(t *testing.T) {
	p := minLP()
	p.Rows[0][0].Val = 1000
	p.Rows[0][1].Val = 2000
	p.Lhs[0] = 1000

	res, err := NewSimplex(Settings{Scaling: ScalingEquilibrium}).Solve(context.Background(), p, lp.Basis{})
	require.NoError(t, err)
	require.Equal(t, Optimal, res.Status)
	assert.InDeltaSlice(t, []float64{0, 0.5}, res.Primal, delta)
	assert.InDeltaSlice(t, []float64{0.0005}, res.Dual, delta)
}

func TestSimplexHugeBounds(t *testing.T) {
	// min x + y s.t. 3x + y >= 1, x + 2y >= 1, with lower bounds far below
	p := &lp.Real{
		Obj:   []float64{1, 1},
		Lower: []float64{-7.2e15, -1.44e16},
		Upper: []float64{inf, inf},
		Lhs:   []float64{1, 1},
		Rhs:   []float64{inf, inf},
		Rows: [][]lp.RealEntry{
			{{Index: 0, Val: 3}, {Index: 1, Val: 1}},
			{{Index: 0, Val: 1}, {Index: 1, Val: 2}},
		},
	}

	res, err := NewSimplex(Settings{}).Solve(context.Background(), p, lp.Basis{})
	require.NoError(t, err)
	require.Equal(t, Optimal, res.Status)
	assert.InDeltaSlice(t, []float64{0.2, 0.2}, res.Primal, delta)
	assert.InDeltaSlice(t, []float64{0.2, 0.4}, res.Dual, delta)
	assert.Equal(t, []lp.VarStatus{lp.OnLower, lp.OnLower}, res.Basis.Rows)
	assert.Equal(t, []lp.VarStatus{lp.Basic, lp.Basic}, res.Basis.Cols)
}

func TestSimplexHugeBoundActive(t *testing.T) {
	// max x s.t. x <= 1e7
	p := &lp.Real{
		Sense: lp.Maximize,
		Obj:   []float64{1},
		Lower: []float64{-inf},
		Upper: []float64{1e7},
	}

	res, err := NewSimplex(Settings{}).Solve(context.Background(), p, lp.Basis{})
	require.NoError(t, err)
	require.Equal(t, Optimal, res.Status)
	assert.Equal(t, []float64{1e7}, res.Primal)
	assert.Equal(t, []lp.VarStatus{lp.OnUpper}, res.Basis.Cols)
	assert.InDeltaSlice(t, []float64{1}, res.RedCost, delta)
}

func TestCheckPrimal(t *testing.T) {
	p := minLP()

	assert.NoError(t, checkPrimal(p, []float64{0, 0.5}))
	assert.NoError(t, checkPrimal(p, []float64{0, 0.5 - 1e-12}))

	err := checkPrimal(p, []float64{0, 0})
	assert.True(t, errors.Is(err, ErrOracle), "row 0 is violated")

	err = checkPrimal(p, []float64{4, 0})
	assert.True(t, errors.Is(err, ErrOracle), "column 0 is above its bound")

	err = checkPrimal(p, []float64{math.NaN(), 1})
	assert.True(t, errors.Is(err, ErrOracle))
}

func TestSimplexInfeasible(t *testing.T) {
	// 0 <= x <= 1, x >= 2
	p := &lp.Real{
		Obj:   []float64{1},
		Lower: []float64{0},
		Upper: []float64{1},
		Lhs:   []float64{2},
		Rhs:   []float64{inf},
		Rows:  [][]lp.RealEntry{{{Index: 0, Val: 1}}},
	}
	res, err := NewSimplex(Settings{}).Solve(context.Background(), p, lp.Basis{})
	require.NoError(t, err)
	assert.Equal(t, Infeasible, res.Status)

	p.Lhs[0], p.Rhs[0] = 1, 0
	res, err = NewSimplex(Settings{}).Solve(context.Background(), p, lp.Basis{})
	require.NoError(t, err)
	assert.Equal(t, Infeasible, res.Status)
}

func TestSimplexUnbounded(t *testing.T) {
	// min -x s.t. x - y <= 1, x, y >= 0
	p := &lp.Real{
		Obj:   []float64{-1, 0},
		Lower: []float64{0, 0},
		Upper: []float64{inf, inf},
		Lhs:   []float64{-inf},
		Rhs:   []float64{1},
		Rows:  [][]lp.RealEntry{{{Index: 0, Val: 1}, {Index: 1, Val: -1}}},
	}
	res, err := NewSimplex(Settings{}).Solve(context.Background(), p, lp.Basis{})
	require.NoError(t, err)
	assert.Equal(t, Unbounded, res.Status)

	// an empty column with negative cost
	p = &lp.Real{Obj: []float64{-1}, Lower: []float64{0}, Upper: []float64{inf}}
	res, err = NewSimplex(Settings{}).Solve(context.Background(), p, lp.Basis{})
	require.NoError(t, err)
	assert.Equal(t, Unbounded, res.Status)
}

func TestSimplexNoRows(t *testing.T) {
	p := &lp.Real{Obj: []float64{1, 0}, Lower: []float64{1, 2}, Upper: []float64{2, 2}}
	res, err := NewSimplex(Settings{}).Solve(context.Background(), p, lp.Basis{})
	require.NoError(t, err)
	require.Equal(t, Optimal, res.Status)
	assert.InDeltaSlice(t, []float64{1, 2}, res.Primal, delta)
	assert.Equal(t, []lp.VarStatus{lp.OnLower, lp.Fixed}, res.Basis.Cols)
}

func TestSimplexDependentRows(t *testing.T) {
	// min x + 2y s.t. x + y = 1 (twice), x, y >= 0
	row := []lp.RealEntry{{Index: 0, Val: 1}, {Index: 1, Val: 1}}
	p := &lp.Real{
		Obj:   []float64{1, 2},
		Lower: []float64{0, 0},
		Upper: []float64{inf, inf},
		Lhs:   []float64{1, 1},
		Rhs:   []float64{1, 1},
		Rows:  [][]lp.RealEntry{row, row},
	}
	res, err := NewSimplex(Settings{}).Solve(context.Background(), p, lp.Basis{})
	require.NoError(t, err)
	require.Equal(t, Optimal, res.Status)
	assert.InDeltaSlice(t, []float64{1, 0}, res.Primal, delta)
	assert.InDeltaSlice(t, []float64{1, 0}, res.Dual, delta)
	assert.Equal(t, []lp.VarStatus{lp.Fixed, lp.Basic}, res.Basis.Rows)

	// inconsistent copy
	p.Lhs[1], p.Rhs[1] = 2, 2
	res, err = NewSimplex(Settings{}).Solve(context.Background(), p, lp.Basis{})
	require.NoError(t, err)
	assert.Equal(t, Infeasible, res.Status)
}

func TestSimplexStopped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewSimplex(Settings{}).Solve(ctx, minLP(), lp.Basis{})
	require.NoError(t, err)
	assert.Equal(t, Stopped, res.Status)
}

func TestScripted(t *testing.T) {
	boom := errors.New("boom")
	s := NewScripted(
		Returning(&Result{Status: Infeasible}, nil),
		Returning(nil, boom),
	)

	res, err := s.Solve(context.Background(), minLP(), lp.Basis{})
	require.NoError(t, err)
	assert.Equal(t, Infeasible, res.Status)

	_, err = s.Solve(context.Background(), maxLP(), lp.Basis{})
	assert.ErrorIs(t, err, boom)

	_, err = s.Solve(context.Background(), maxLP(), lp.Basis{})
	assert.ErrorIs(t, err, ErrOracle)

	calls := s.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, lp.Maximize, calls[1].Sense)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "infeasible or unbounded", InfeasibleOrUnbounded.String())
	assert.Equal(t, "equilibrium", ScalingEquilibrium.String())
}
