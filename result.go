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
	"errors"
	"fmt"

	"github.com/costela/ratlp/lp"
	"github.com/costela/ratlp/rational"
)

/* Types */

var (
	// ErrDimension is returned for inconsistent model input, like
	// mismatching slice lengths or variables of another model.
	ErrDimension = errors.New("inconsistent dimensions")
	// ErrCertificate is returned when a result cannot be validated against
	// its certificate.
	ErrCertificate = errors.New("invalid certificate")
)

// Status is the terminal state of a refinement session.
type Status int

const (
	// StatusCertified means the attached certificate satisfies the
	// configured tolerances, recomputed in exact arithmetic.
	StatusCertified Status = iota
	// StatusStalled means refinement stopped making progress.
	StatusStalled
	// StatusLimitReached means a refinement, stall, time or interrupt limit
	// ended the session.
	StatusLimitReached
	// StatusError means the floating point solver failed.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusCertified:
		return "certified"
	case StatusStalled:
		return "stalled"
	case StatusLimitReached:
		return "limit reached"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("unknown status %d", int(s))
	}
}

// Outcome is what a certified result proves.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeOptimal
	OutcomeInfeasible
	OutcomeUnbounded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOptimal:
		return "optimal"
	case OutcomeInfeasible:
		return "infeasible"
	case OutcomeUnbounded:
		return "unbounded"
	default:
		return "unknown"
	}
}

// Result is the outcome of Refine. Solution is a snapshot of the model's
// certificate store when the session ended.
type Result struct {
	Status  Status
	Outcome Outcome

	Solution *Solution
	Basis    lp.Basis

	// Violations of the attached primal/dual pair against the model,
	// recomputed in exact arithmetic. Only set when the solution has an
	// exact primal and dual.
	Violations lp.Violations

	// CarriedOver is set when the session ended without recording anything,
	// e.g. on an error or a limit hit before the first iterate. Solution,
	// Basis and Violations then describe what an earlier session left.
	CarriedOver bool

	// Refinements is the number of refinement rounds of this session.
	Refinements int

	model *Model
}

// Value returns the value of the given variable in this result: the exact
// value if one was certified, the last floating point value otherwise.
func (res *Result) Value(v *Variable) rational.Rational {
	if x := res.Solution.Primal(); x != nil {
		return x[v.index]
	}
	if x := res.Solution.PrimalReal(); x != nil {
		return rational.FromFloat64(x[v.index])
	}
	return rational.Zero
}

// DualValue returns the dual multiplier of the i-th constraint.
func (res *Result) DualValue(i int) rational.Rational {
	if y := res.Solution.Dual(); y != nil {
		return y[i]
	}
	if y := res.Solution.DualReal(); y != nil {
		return rational.FromFloat64(y[i])
	}
	return rational.Zero
}

// ObjectiveValue returns the objective value of the attached primal
// solution. Infeasible results report +inf for minimization and -inf for
// maximization problems, unbounded results the opposite.
func (res *Result) ObjectiveValue() rational.Rational {
	dir := res.model.direction()

	switch res.Outcome {
	case OutcomeInfeasible:
		if dir == Maximize {
			return rational.NegInf()
		}
		return rational.PosInf()
	case OutcomeUnbounded:
		if dir == Maximize {
			return rational.PosInf()
		}
		return rational.NegInf()
	}

	x := res.Solution.Primal()
	if x == nil {
		x = lp.Rationals(res.Solution.PrimalReal())
	}
	if len(x) != res.model.VariableCount() {
		return rational.Zero
	}
	return res.model.objectiveValue(x)
}
