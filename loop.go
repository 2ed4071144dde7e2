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
	"math"
	"math/big"

	"github.com/costela/ratlp/lp"
	"github.com/costela/ratlp/oracle"
	"github.com/costela/ratlp/rational"
	"github.com/costela/ratlp/stats"
)

type phase int

const (
	phaseOptimal phase = iota
	phaseUnbounded
	phaseFeasibility
)

func (p phase) String() string {
	switch p {
	case phaseUnbounded:
		return "unboundedness"
	case phaseFeasibility:
		return "feasibility"
	default:
		return "optimality"
	}
}

// verdict is what a phase concludes from a refined iterate.
type verdict int

const (
	undecided verdict = iota
	confirmed
	refuted
)

// decideFunc inspects the current exact iterate of the loop. certified
// tells whether the iterate is within tolerance on the loop's own LP.
type decideFunc func(it *loopState, certified bool) verdict

type loopEnd int

const (
	loopDecided loopEnd = iota
	loopInfeasible
	loopUnbounded
	loopInfeasibleOrUnbounded
	loopStalled
	loopLimit
	loopError
)

// loopState is the iterate a refinement loop ended with. x and y are nil
// when the initial solve did not produce a solution.
type loopState struct {
	end     loopEnd
	verdict verdict
	x, y    []rational.Rational
	basis   lp.Basis
	viol    lp.Violations
	rounds  int
	err     error
}

// refineLoop runs iterative refinement on p, which must be an equality
// form minimization LP: every row has lhs = rhs. Each round solves a
// correction LP whose sides, bounds and objective are the scaled residuals
// of the current iterate and adds the scaled back correction to it in exact
// arithmetic. decide is asked after every round whether the phase is done.
func (s *session) refineLoop(ctx context.Context, ph phase, p *lp.Exact, basis lp.Basis, decide decideFunc) loopState {
	st := s.model.stats
	env := s.model.env

	s.model.logf("%s phase: %d rows, %d columns", ph, p.NumRows(), p.NumCols())

	if s.stop.stopped() {
		return loopState{end: loopLimit}
	}

	st.SyncTime.Start()
	base := p.Real()
	st.SyncTime.Stop()

	res, err := s.solve(ctx, base, basis)
	if err != nil {
		return loopState{end: loopError, err: err}
	}
	switch res.Status {
	case oracle.Optimal:
	case oracle.Infeasible:
		return loopState{end: loopInfeasible}
	case oracle.Unbounded:
		return loopState{end: loopUnbounded}
	case oracle.InfeasibleOrUnbounded:
		return loopState{end: loopInfeasibleOrUnbounded}
	default:
		return loopState{end: loopLimit}
	}

	state := loopState{
		x:     lp.Rationals(res.Primal),
		y:     lp.Rationals(res.Dual),
		basis: res.Basis,
	}

	primalScale, dualScale := rational.One, rational.One
	prevViol := rational.Zero
	noProgress := 0
	basisChanged := true

	for {
		st.RationalTime.Start()
		state.viol = p.ComputeViolations(env, state.x, state.y, state.basis)
		st.RationalTime.Stop()
		certified := state.viol.Within(s.opts.FeasTol, s.opts.OptTol)

		if !certified && s.opts.RationalReconstruction && state.rounds > 0 {
			certified = s.reconstruct(p, &state)
		}

		if v := decide(&state, certified); v != undecided {
			state.end, state.verdict = loopDecided, v
			return state
		}

		maxViol := state.viol.Max()
		if state.rounds > 0 {
			if !basisChanged && maxViol.GreaterEqual(prevViol) {
				noProgress++
			} else {
				noProgress = 0
			}
			if s.opts.StallLimit >= 0 && noProgress > s.opts.StallLimit {
				s.model.logf("%s phase stalled after %d rounds", ph, state.rounds)
				state.end = loopStalled
				return state
			}
		}
		prevViol = maxViol

		if reason := s.stop.reason(); reason != "" {
			s.model.logf("%s phase stopped: %s", ph, reason)
			state.end = loopLimit
			return state
		}
		if s.opts.RefinementLimit >= 0 && s.refinements >= s.opts.RefinementLimit {
			s.model.logf("%s phase: refinement limit %d reached", ph, s.opts.RefinementLimit)
			state.end = loopLimit
			return state
		}

		newPrimal := s.nextScale(primalScale, state.viol.MaxPrimal())
		newDual := s.nextScale(dualScale, state.viol.MaxDual())
		rescaled := newPrimal.Greater(primalScale) || newDual.Greater(dualScale)
		primalScale, dualScale = newPrimal, newDual

		s.model.logf("%s round %d: primal violation %s, dual violation %s, scale 2^%d/2^%d",
			ph, state.rounds+1, state.viol.MaxPrimal().FloatString(20), state.viol.MaxDual().FloatString(20),
			exponent(primalScale), exponent(dualScale))

		st.SyncTime.Start()
		refined := s.correctionLP(p, base, &state, primalScale, dualScale)
		st.SyncTime.Stop()

		if s.stop.stopped() {
			state.end = loopLimit
			return state
		}
		res, err := s.solve(ctx, refined, state.basis)
		if err != nil {
			state.end, state.err = loopError, err
			return state
		}
		switch res.Status {
		case oracle.Optimal:
		case oracle.Stopped:
			state.end = loopLimit
			return state
		default:
			s.model.logf("%s phase: correction LP reported %s", ph, res.Status)
			state.end = loopStalled
			return state
		}

		st.RationalTime.Start()
		state.x = addScaled(state.x, res.Primal, primalScale)
		state.y = addScaled(state.y, res.Dual, dualScale)
		st.RationalTime.Stop()

		basisChanged = !res.Basis.Equal(state.basis)
		state.basis = res.Basis
		state.rounds++
		s.refinements++

		st.Refinements++
		switch ph {
		case phaseFeasibility:
			st.FeasRefinements++
		case phaseUnbounded:
			st.UnbdRefinements++
		}
		if basisChanged {
			st.PivotRefinements++
		} else {
			st.StallRefinements++
			s.stallRefinements++
		}
		st.AddRound(stats.Round{
			Phase:     ph.String(),
			Violation: maxViol.Float64(),
			Rescaled:  rescaled,
			Basis:     basisChanged,
		})

		if s.opts.StallRefinementLimit >= 0 && s.stallRefinements > s.opts.StallRefinementLimit {
			s.model.logf("%s phase: stalling refinement limit %d reached", ph, s.opts.StallRefinementLimit)
			state.end = loopLimit
			return state
		}
	}
}

// solve calls the oracle, keeping the oracle timers and counters.
func (s *session) solve(ctx context.Context, p *lp.Real, basis lp.Basis) (*oracle.Result, error) {
	st := s.model.stats
	st.OracleCalls++
	st.SimplexTime.Start()
	defer st.SimplexTime.Stop()

	res, err := s.model.oracle.Solve(ctx, p, basis)
	if err != nil {
		if !errors.Is(err, oracle.ErrOracle) {
			err = fmt.Errorf("%w: %v", oracle.ErrOracle, err)
		}
		return nil, err
	}
	if res.Status == oracle.Optimal && (len(res.Primal) != p.NumCols() || len(res.Dual) != p.NumRows()) {
		return nil, fmt.Errorf("%w: solution has wrong dimensions", oracle.ErrOracle)
	}
	return res, nil
}

// reconstruct tries to round the iterate to nearby rationals of small
// denominators. It keeps the rounded iterate only if that one is within
// tolerance.
func (s *session) reconstruct(p *lp.Exact, state *loopState) bool {
	st := s.model.stats
	maxDen := rational.DenominatorBound(state.viol.Max())
	if maxDen == nil {
		return false
	}

	st.RationalReconstructions++
	st.ReconstructionTime.Start()
	defer st.ReconstructionTime.Stop()

	x := rational.ReconstructVector(state.x, maxDen)
	y := rational.ReconstructVector(state.y, maxDen)
	viol := p.ComputeViolations(s.model.env, x, y, state.basis)
	if !viol.Within(s.opts.FeasTol, s.opts.OptTol) {
		return false
	}

	s.model.logf("reconstructed solution with denominators up to %s", maxDen)
	state.x, state.y, state.viol = x, y, viol
	return true
}

// nextScale returns the largest power of two not above 1/viol, growing at
// most by MaxScaleIncrease and never shrinking below one. A zero violation
// keeps the previous scale.
func (s *session) nextScale(prev, viol rational.Rational) rational.Rational {
	if viol.IsZero() {
		return prev
	}
	target, _ := viol.Inv()
	if limit := prev.Mul(s.opts.MaxScaleIncrease); target.Greater(limit) {
		target = limit
	}
	if target.Less(rational.One) {
		return rational.One
	}
	return powerOfTwoFloor(target)
}

func powerOfTwoFloor(x rational.Rational) rational.Rational {
	n := new(big.Int).Quo(x.Num(), x.Denom())
	return rational.FromBig(new(big.Rat).SetInt(new(big.Int).Lsh(big.NewInt(1), uint(n.BitLen()-1))))
}

// exponent returns log2 of a power of two scale.
func exponent(scale rational.Rational) int {
	return scale.Num().BitLen() - 1
}

// correctionLP builds the floating point LP of the next round: with
// residuals taken at the iterate (x, y), its sides are primalScale*(b - A·x),
// its bounds primalScale*(l - x, u - x) and its objective
// dualScale*(c - Aᵀ·y). Sides and bounds beyond correctionInfinity are
// dropped. The matrix is shared with base.
func (s *session) correctionLP(p *lp.Exact, base *lp.Real, state *loopState, primalScale, dualScale rational.Rational) *lp.Real {
	env := s.model.env
	n, m := p.NumCols(), p.NumRows()

	refined := &lp.Real{
		Sense: lp.Minimize,
		Obj:   make([]float64, n),
		Lower: make([]float64, n),
		Upper: make([]float64, n),
		Lhs:   make([]float64, m),
		Rhs:   make([]float64, m),
		Rows:  base.Rows,
	}

	act := p.Activity(env, state.x)
	for i := 0; i < m; i++ {
		refined.Lhs[i], refined.Rhs[i] = scaledSides(p.Lhs[i], p.Rhs[i], act[i], primalScale)
	}

	d := p.ReducedCosts(env, state.y)
	for j := 0; j < n; j++ {
		refined.Lower[j], refined.Upper[j] = scaledSides(p.Lower[j], p.Upper[j], state.x[j], primalScale)
		refined.Obj[j] = d[j].Mul(dualScale).Float64()
	}

	return refined
}

// correctionInfinity bounds the scaled residuals passed to the oracle. A
// lower side further below, or an upper side further above the iterate is
// dropped, as long as the opposite side holds.
const correctionInfinity = 1e6

// scaledSides returns scale*(lo - value) and scale*(up - value).
func scaledSides(lo, up, value, scale rational.Rational) (float64, float64) {
	l, u := lo.Float64(), up.Float64()
	if !lo.IsInfinite() {
		l = lo.Sub(value).Mul(scale).Float64()
	}
	if !up.IsInfinite() {
		u = up.Sub(value).Mul(scale).Float64()
	}

	dropLower := l < -correctionInfinity && u >= 0
	dropUpper := u > correctionInfinity && l <= 0
	if dropLower {
		l = math.Inf(-1)
	}
	if dropUpper {
		u = math.Inf(1)
	}
	return l, u
}

// addScaled returns x + d/scale in exact arithmetic.
func addScaled(x []rational.Rational, d []float64, scale rational.Rational) []rational.Rational {
	inv, _ := scale.Inv()
	out := make([]rational.Rational, len(x))
	for i := range x {
		if d[i] == 0 {
			out[i] = x[i]
			continue
		}
		out[i] = x[i].Add(rational.FromFloat64(d[i]).Mul(inv))
	}
	return out
}
