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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/costela/ratlp/lp"
	"github.com/costela/ratlp/rational"
)

// RefineOptions configure a refinement session. Negative limits mean no
// limit.
type RefineOptions struct {
	// RefinementLimit caps the number of refinement rounds over all phases.
	// The initial floating point solve of a phase is not a round.
	RefinementLimit int
	// StallLimit is the number of consecutive rounds without basis change
	// and without violation decrease tolerated before a phase stalls.
	StallLimit int
	// StallRefinementLimit caps the rounds that keep the previous basis.
	StallRefinementLimit int

	// FeasTol bounds the bound and row violations of a certified solution,
	// OptTol its reduced cost and dual violations. Zero demands an exact
	// solution.
	FeasTol rational.Rational
	OptTol  rational.Rational

	// TimeLimit is the wall clock budget of the session. Zero means none.
	TimeLimit time.Duration

	// MaxScaleIncrease caps the growth of the scaling factors per round.
	MaxScaleIncrease rational.Rational

	// RationalReconstruction enables rounding iterates to rationals of small
	// denominators after each round.
	RationalReconstruction bool

	// FloatFeasTol is the floating point tolerance for the auxiliary
	// variable of the unboundedness and feasibility probes.
	FloatFeasTol float64
}

// DefaultRefineOptions returns the options used when nothing else is
// configured.
func DefaultRefineOptions() RefineOptions {
	return RefineOptions{
		RefinementLimit:        -1,
		StallLimit:             2,
		StallRefinementLimit:   -1,
		FeasTol:                rational.MustParse("1e-9"),
		OptTol:                 rational.MustParse("1e-9"),
		MaxScaleIncrease:       rational.MustParse("1e25"),
		RationalReconstruction: true,
		FloatFeasTol:           1e-6,
	}
}

func (opts RefineOptions) validate() error {
	switch {
	case opts.FeasTol.Sign() < 0:
		return fmt.Errorf("negative feasibility tolerance %s", opts.FeasTol)
	case opts.OptTol.Sign() < 0:
		return fmt.Errorf("negative optimality tolerance %s", opts.OptTol)
	case opts.MaxScaleIncrease.LessEqual(rational.One):
		return fmt.Errorf("scale increase %s must be larger than 1", opts.MaxScaleIncrease)
	case opts.FloatFeasTol < 0 || opts.FloatFeasTol >= 1:
		return fmt.Errorf("floating point feasibility tolerance %g out of [0, 1)", opts.FloatFeasTol)
	}
	return nil
}

// session is one call to Refine. It owns the model's LP and certificate
// store while it runs.
type session struct {
	model *Model
	opts  RefineOptions
	stop  stopCondition
	tr    transformer

	orig *lp.Exact
	eq   *equalityForm

	// last iterate of the optimality phase, in equality form
	last *loopState

	refinements      int
	stallRefinements int
}

// Refine solves the model exactly. It alternates floating point solves
// with exact residual computations until the solution, or a ray proving
// infeasibility or unboundedness, is certified, or until a limit ends the
// session.
//
// The returned result is never nil. Its Solution holds the certificate on
// StatusCertified and the best floating point iterate on StatusStalled and
// StatusLimitReached. The error is only set for StatusError, and wraps
// oracle.ErrOracle when the floating point solver failed. A session ending
// before its first iterate returns the previous contents of the store,
// flagged by Result.CarriedOver.
func (model *Model) Refine(ctx context.Context, opts RefineOptions) (*Result, error) {
	model.mu.Lock()
	defer model.mu.Unlock()

	model.interrupted.Store(false)

	res := &Result{Status: StatusError, Solution: model.solution.Clone(), Basis: model.basis.Clone(), CarriedOver: true, model: model}
	if model.closed {
		return res, fmt.Errorf("refining model %q: %w", model.name, rational.ErrEnvClosed)
	}
	if err := opts.validate(); err != nil {
		return res, fmt.Errorf("refining model %q: %w", model.name, err)
	}

	s := &session{
		model: model,
		opts:  opts,
		stop:  newStopCondition(ctx, opts.TimeLimit, &model.interrupted),
		tr:    transformer{env: model.env, stats: model.stats},
		orig:  model.prob,
	}

	model.stats.SolvingTime.Start()
	res, err := s.run(ctx)
	model.stats.SolvingTime.Stop()

	res.model = model
	res.Solution = model.solution.Clone()
	res.Basis = model.basis.Clone()
	res.Refinements = s.refinements
	res.CarriedOver = res.Status == StatusError || (res.Status != StatusCertified && s.last == nil)
	if res.Solution.HasExactPrimal() && res.Solution.HasExactDual() {
		model.stats.RationalTime.Start()
		res.Violations = model.prob.ComputeViolations(model.env, res.Solution.Primal(), res.Solution.Dual(), model.basis)
		model.stats.RationalTime.Stop()
	}

	model.logf("refinement of %q finished: %s, %s after %d rounds", model.name, res.Status, res.Outcome, s.refinements)

	return res, err
}

func (s *session) run(ctx context.Context) (*Result, error) {
	if s.orig.NumCols() == 0 {
		return s.certifyEmpty(), nil
	}

	work := s.orig.Clone()
	s.eq = s.tr.ToEquality(work)
	basis := s.eq.toBasis(s.model.basis)

	accept := acceptance{infeasible: true, unbounded: true}

	for attempt := 0; attempt < 2; attempt++ {
		st := s.refineLoop(ctx, phaseOptimal, work, basis, s.decideOptimal)
		if st.x != nil {
			s.last = &st
		}

		switch st.end {
		case loopDecided:
			return s.certifyOptimal(&st), nil
		case loopError:
			return s.fail(st.err)
		case loopStalled:
			return s.uncertified(StatusStalled), nil
		case loopLimit:
			return s.uncertified(StatusLimitReached), nil
		}

		if !accept.allows(st.end) {
			s.model.logf("floating point solver repeats a refuted claim")
			return s.uncertified(StatusStalled), nil
		}

		res, retry, err := s.probe(ctx, work, st.end, &accept)
		if res != nil {
			return res, err
		}
		basis = retry
	}

	return s.uncertified(StatusStalled), nil
}

// acceptance tracks which oracle claims are still worth probing.
type acceptance struct {
	infeasible bool
	unbounded  bool
}

func (a acceptance) allows(end loopEnd) bool {
	switch end {
	case loopInfeasible:
		return a.infeasible
	case loopUnbounded:
		return a.unbounded
	default:
		return a.infeasible || a.unbounded
	}
}

func (a *acceptance) reject(end loopEnd) {
	switch end {
	case loopInfeasible:
		a.infeasible = false
	case loopUnbounded:
		a.unbounded = false
	default:
		a.infeasible, a.unbounded = false, false
	}
}

// decideOptimal checks the iterate against the original LP, whose row
// violations may be smaller than those of the equality form.
func (s *session) decideOptimal(it *loopState, certified bool) verdict {
	cols, _ := s.eq.primal(it.x)

	s.model.stats.RationalTime.Start()
	viol := s.orig.ComputeViolations(s.model.env, cols, s.eq.ownDuals(it.y), s.eq.basis(it.basis))
	s.model.stats.RationalTime.Stop()

	if viol.Within(s.opts.FeasTol, s.opts.OptTol) {
		return confirmed
	}
	return undecided
}

func (s *session) certifyOptimal(st *loopState) *Result {
	cols, _ := s.eq.primal(st.x)
	x := append([]rational.Rational(nil), cols...)
	y := s.eq.ownDuals(st.y)

	s.model.solution.RecordPrimal(x, s.orig.Activity(s.model.env, x))
	s.model.solution.RecordDual(y, s.orig.ReducedCosts(s.model.env, y))
	s.model.basis = s.eq.basis(st.basis)

	return &Result{Status: StatusCertified, Outcome: OutcomeOptimal}
}

func (s *session) certifyInfeasible(farkas []rational.Rational) *Result {
	s.model.solution.RecordRay(DualFarkas, farkas)
	s.model.basis = lp.Basis{}

	return &Result{Status: StatusCertified, Outcome: OutcomeInfeasible}
}

func (s *session) certifyUnbounded(ray []rational.Rational) *Result {
	s.model.solution.RecordRay(PrimalRay, ray)
	s.model.basis = lp.Basis{}

	return &Result{Status: StatusCertified, Outcome: OutcomeUnbounded}
}

// certifyEmpty handles LPs without columns: every row activity is zero.
func (s *session) certifyEmpty() *Result {
	m := s.orig.NumRows()
	for i := 0; i < m; i++ {
		var sign int64
		switch lhs, rhs := s.orig.Lhs[i], s.orig.Rhs[i]; {
		case !lhs.IsInfinite() && lhs.Sign() > 0:
			sign = 1
		case !rhs.IsInfinite() && rhs.Sign() < 0:
			sign = -1
		default:
			continue
		}
		farkas := make([]rational.Rational, m)
		farkas[i] = rational.FromInt(sign)
		return s.certifyInfeasible(farkas)
	}

	s.model.solution.RecordPrimal([]rational.Rational{}, make([]rational.Rational, m))
	s.model.solution.RecordDual(make([]rational.Rational, m), []rational.Rational{})
	s.model.basis = lp.Basis{Rows: make([]lp.VarStatus, m), Cols: []lp.VarStatus{}}

	return &Result{Status: StatusCertified, Outcome: OutcomeOptimal}
}

// uncertified ends the session keeping the last floating point iterate of
// the optimality phase, if there is one.
func (s *session) uncertified(status Status) *Result {
	if st := s.last; st != nil {
		cols, _ := s.eq.primal(st.x)
		y := s.eq.ownDuals(st.y)
		s.model.solution.RecordPrimalReal(lp.Floats(cols), lp.Floats(s.orig.Activity(s.model.env, cols)))
		s.model.solution.RecordDualReal(lp.Floats(y), lp.Floats(s.orig.ReducedCosts(s.model.env, y)))
		s.model.basis = s.eq.basis(st.basis)
	}

	return &Result{Status: status}
}

// fail ends the session on a solver error, leaving the certificate store
// untouched.
func (s *session) fail(err error) (*Result, error) {
	if err == nil {
		err = errors.New("unknown failure")
	}
	return &Result{Status: StatusError}, fmt.Errorf("refining model %q: %w", s.model.name, err)
}
