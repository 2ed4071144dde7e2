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

	"github.com/costela/ratlp/lp"
	"github.com/costela/ratlp/rational"
)

// probeOutcome is a finished probe phase together with the certificate it
// confirmed, if any.
type probeOutcome struct {
	loopState
	cert []rational.Rational
}

// probe checks an infeasibility or unboundedness claim of the floating
// point solver on the equality form LP work. It returns a result when the
// session is over. Otherwise every claim was refuted: the refuted claims are
// no longer accepted and the optimality phase is retried from the returned
// basis.
//
// An unboundedness claim runs the unboundedness probe and then the
// feasibility probe, since a ray only proves unboundedness of a feasible
// LP. An ambiguous claim runs the feasibility probe first.
func (s *session) probe(ctx context.Context, work *lp.Exact, claim loopEnd, accept *acceptance) (*Result, lp.Basis, error) {
	var ray []rational.Rational

	if claim == loopUnbounded {
		out := s.probeUnbounded(ctx, work)
		if out.end != loopDecided {
			res, err := s.probeEnded(&out.loopState)
			return res, lp.Basis{}, err
		}
		ray = out.cert
	}

	feas := s.probeFeasibility(ctx, work)
	if feas.end != loopDecided {
		res, err := s.probeEnded(&feas.loopState)
		return res, lp.Basis{}, err
	}
	if feas.verdict == confirmed {
		return s.certifyInfeasible(feas.cert), lp.Basis{}, nil
	}

	if claim == loopInfeasibleOrUnbounded && accept.unbounded {
		out := s.probeUnbounded(ctx, work)
		if out.end != loopDecided {
			res, err := s.probeEnded(&out.loopState)
			return res, lp.Basis{}, err
		}
		ray = out.cert
	}

	if ray != nil {
		return s.certifyUnbounded(ray), lp.Basis{}, nil
	}

	s.model.logf("probes refute the %s claim of the floating point solver", claimName(claim))
	accept.reject(claim)

	// the feasible probe basis without the auxiliary column
	retry := lp.Basis{}
	if n := work.NumCols(); len(feas.basis.Cols) > n {
		retry = lp.Basis{
			Rows: feas.basis.Rows,
			Cols: feas.basis.Cols[:n],
		}
	}
	return nil, retry, nil
}

func claimName(claim loopEnd) string {
	switch claim {
	case loopInfeasible:
		return "infeasibility"
	case loopUnbounded:
		return "unboundedness"
	default:
		return "infeasibility or unboundedness"
	}
}

// probeEnded maps a probe that ended without a verdict to the session
// result. A probe LP is always feasible and bounded, so any other claim of
// the floating point solver on it means it cannot be trusted any further.
func (s *session) probeEnded(st *loopState) (*Result, error) {
	switch st.end {
	case loopError:
		return s.fail(st.err)
	case loopLimit:
		return s.uncertified(StatusLimitReached), nil
	default:
		return s.uncertified(StatusStalled), nil
	}
}

// probeUnbounded looks for a primal ray. It is refuted when the certified
// optimum of the auxiliary variable is zero within FloatFeasTol. Rays are
// checked without tolerance.
func (s *session) probeUnbounded(ctx context.Context, work *lp.Exact) probeOutcome {
	undo := s.tr.ToUnbounded(work)
	defer s.tr.FromUnbounded(work, undo)

	var ray []rational.Rational
	decide := func(it *loopState, certified bool) verdict {
		tau := it.x[undo.tau]
		if certified && tau.CmpFloat(s.opts.FloatFeasTol) < 0 {
			return refuted
		}

		r := undo.ray(it.x, s.orig.NumCols())
		if r == nil {
			return undecided
		}
		if r = s.exactRay(r, it.viol); r != nil {
			ray = r
			return confirmed
		}
		return undecided
	}

	st := s.refineLoop(ctx, phaseUnbounded, work, lp.Basis{}, decide)
	return probeOutcome{loopState: st, cert: ray}
}

// probeFeasibility looks for a Farkas proof of infeasibility around the
// last iterate of the optimality phase. It is refuted when the certified
// optimum of the auxiliary variable is one within FloatFeasTol.
func (s *session) probeFeasibility(ctx context.Context, work *lp.Exact) probeOutcome {
	var last []rational.Rational
	if s.last != nil {
		last = s.last.x
	}

	undo := s.tr.ToFeasibility(work, feasibilityShift(work, last))
	defer s.tr.FromFeasibility(work, undo)

	threshold := 1 - s.opts.FloatFeasTol
	m := s.orig.NumRows()

	var farkas []rational.Rational
	decide := func(it *loopState, certified bool) verdict {
		if it.x[undo.tau].CmpFloat(threshold) >= 0 {
			if certified {
				return refuted
			}
			return undecided
		}

		cand := append([]rational.Rational(nil), it.y[:m]...)

		s.model.stats.RationalTime.Start()
		ok := s.orig.VerifyFarkas(s.model.env, cand)
		s.model.stats.RationalTime.Stop()

		if ok {
			farkas = cand
			return confirmed
		}
		return undecided
	}

	st := s.refineLoop(ctx, phaseFeasibility, work, lp.Basis{}, decide)
	return probeOutcome{loopState: st, cert: farkas}
}

// exactRay returns r, or r rounded to small denominators, if it is an exact
// ray of the original LP. It returns nil otherwise.
func (s *session) exactRay(r []rational.Rational, viol lp.Violations) []rational.Rational {
	st := s.model.stats
	env := s.model.env

	st.RationalTime.Start()
	ok := s.orig.VerifyPrimalRay(env, r, rational.Zero)
	st.RationalTime.Stop()
	if ok {
		return r
	}

	if !s.opts.RationalReconstruction {
		return nil
	}
	maxDen := rational.DenominatorBound(viol.MaxPrimal())
	if maxDen == nil {
		return nil
	}

	st.RationalReconstructions++
	st.ReconstructionTime.Start()
	rr := rational.ReconstructVector(r, maxDen)
	st.ReconstructionTime.Stop()

	st.RationalTime.Start()
	ok = s.orig.VerifyPrimalRay(env, rr, rational.Zero)
	st.RationalTime.Stop()
	if ok {
		return rr
	}
	return nil
}
