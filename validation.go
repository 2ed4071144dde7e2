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
	"fmt"

	"github.com/costela/ratlp/lp"
	"github.com/costela/ratlp/rational"
)

// Violations recomputes, in exact arithmetic and independently of the
// session that produced it, the four residual measures of the primal/dual
// pair attached to res. Uncertified floating point pairs are taken at their
// exact binary values.
func (model *Model) Violations(res *Result) (lp.Violations, error) {
	model.mu.RLock()
	defer model.mu.RUnlock()

	return model.violations(res)
}

func (model *Model) violations(res *Result) (lp.Violations, error) {
	sol := res.Solution
	if sol == nil || !sol.HasPrimal() || !sol.HasDual() {
		return lp.Violations{}, fmt.Errorf("%w: result carries no primal/dual pair", ErrCertificate)
	}

	x, y := sol.Primal(), sol.Dual()
	if x == nil {
		x = lp.Rationals(sol.PrimalReal())
	}
	if y == nil {
		y = lp.Rationals(sol.DualReal())
	}
	if len(x) != model.prob.NumCols() || len(y) != model.prob.NumRows() {
		return lp.Violations{}, fmt.Errorf("%w: solution of size %d/%d for a model with %d columns and %d rows",
			ErrDimension, len(x), len(y), model.prob.NumCols(), model.prob.NumRows())
	}

	return model.prob.ComputeViolations(model.env, x, y, res.Basis), nil
}

// ValidationReport compares a result with a reference objective value.
type ValidationReport struct {
	Passed bool

	Objective          rational.Rational
	Reference          rational.Rational
	ObjectiveViolation rational.Rational // relative to max(1, |Reference|)

	Violations lp.Violations
	// CertificateValid is set for infeasible and unbounded results whose
	// ray passes exact verification.
	CertificateValid bool
}

func (r *ValidationReport) String() string {
	verdict := "fail"
	if r.Passed {
		verdict = "success"
	}
	return fmt.Sprintf("validation %s: objective %s, reference %s, objective violation %s, %s",
		verdict, r.Objective, r.Reference, r.ObjectiveViolation.FloatString(12), r.Violations)
}

// Validate checks res against a reference objective value, given as a
// number or as "+infinity" for infeasible minimization (unbounded
// maximization) problems and "-infinity" for the opposite. It passes when
// the objective matches within tol and either the four residual measures
// are at most tol or the attached ray is a valid certificate.
func (model *Model) Validate(res *Result, reference string, tol rational.Rational) (*ValidationReport, error) {
	ref, err := rational.Parse(reference)
	if err != nil {
		return nil, fmt.Errorf("parsing reference objective: %w", err)
	}

	report := &ValidationReport{
		Objective: res.ObjectiveValue(),
		Reference: ref,
	}

	model.mu.RLock()
	defer model.mu.RUnlock()

	switch {
	case report.Objective.IsInfinite() || ref.IsInfinite():
		if report.Objective.Sign() == ref.Sign() && report.Objective.IsInfinite() == ref.IsInfinite() {
			report.ObjectiveViolation = rational.Zero
		} else {
			report.ObjectiveViolation = rational.PosInf()
		}
	default:
		scale := rational.Max(rational.One, ref.Abs())
		report.ObjectiveViolation, _ = report.Objective.Sub(ref).Abs().Div(scale)
	}
	objectiveOK := report.ObjectiveViolation.LessEqual(tol)

	switch {
	case res.Solution.HasDualFarkas():
		report.CertificateValid = model.prob.VerifyFarkas(model.env, res.Solution.DualFarkas())
		report.Passed = objectiveOK && report.CertificateValid
	case res.Solution.HasPrimalRay():
		report.CertificateValid = model.prob.VerifyPrimalRay(model.env, res.Solution.PrimalRay(), tol)
		report.Passed = objectiveOK && report.CertificateValid
	default:
		viol, err := model.violations(res)
		if err != nil {
			return report, err
		}
		report.Violations = viol
		report.Passed = objectiveOK && viol.Within(tol, tol)
	}

	return report, nil
}
