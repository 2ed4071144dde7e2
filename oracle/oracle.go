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

// Package oracle defines the floating point LP solver consumed by the
// refinement driver and provides an implementation on top of gonum's
// simplex.
package oracle

import (
	"context"
	"errors"
	"fmt"

	"github.com/costela/ratlp/lp"
)

// ErrOracle is returned when the floating point solver fails internally, as
// opposed to reporting a definite status.
var ErrOracle = errors.New("oracle: floating point solver failure")

type Status int

const (
	Optimal Status = iota
	Infeasible
	Unbounded
	InfeasibleOrUnbounded
	Stopped
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "optimal"
	case Infeasible:
		return "infeasible"
	case Unbounded:
		return "unbounded"
	case InfeasibleOrUnbounded:
		return "infeasible or unbounded"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("unknown status %d", int(s))
	}
}

// Result is the outcome of one floating point solve. Primal, Dual, RedCost
// and Basis are only meaningful for Optimal. Duals and reduced costs follow
// the LP's own objective sense: RedCost = Obj - Aᵀ·Dual.
type Result struct {
	Status  Status
	Primal  []float64
	Dual    []float64
	RedCost []float64
	Basis   lp.Basis
}

// Oracle solves a floating point LP starting from a warm-start basis. The
// basis may be empty or invalid, in which case the oracle starts cold.
type Oracle interface {
	Solve(ctx context.Context, p *lp.Real, basis lp.Basis) (*Result, error)
}

// Scaling selects how the oracle scales the LP before solving.
type Scaling int

const (
	ScalingOff Scaling = iota
	ScalingEquilibrium
)

func (s Scaling) String() string {
	if s == ScalingEquilibrium {
		return "equilibrium"
	}
	return "off"
}

// Settings parameterizes an oracle. The zero value disables scaling and
// uses DefaultTolerance.
type Settings struct {
	Scaling   Scaling
	Tolerance float64
}

// DefaultTolerance is the pivoting tolerance used when Settings.Tolerance is
// not positive.
const DefaultTolerance = 1e-10

func (s Settings) tolerance() float64 {
	if s.Tolerance > 0 {
		return s.Tolerance
	}
	return DefaultTolerance
}
