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
	"fmt"
	"sync"

	"github.com/costela/ratlp/lp"
)

// Func adapts a plain function to the Oracle interface.
type Func func(ctx context.Context, p *lp.Real, basis lp.Basis) (*Result, error)

func (f Func) Solve(ctx context.Context, p *lp.Real, basis lp.Basis) (*Result, error) {
	return f(ctx, p, basis)
}

// Scripted replays a fixed sequence of oracles, one per Solve call, and
// records every problem it was given. It is meant for tests that need exact
// control over what the floating point side reports.
type Scripted struct {
	mu    sync.Mutex
	steps []Oracle
	calls []*lp.Real
}

// NewScripted returns an oracle answering the i-th call with steps[i].
func NewScripted(steps ...Oracle) *Scripted {
	return &Scripted{steps: steps}
}

// Returning wraps a canned result as a script step.
func Returning(res *Result, err error) Oracle {
	return Func(func(context.Context, *lp.Real, lp.Basis) (*Result, error) {
		return res, err
	})
}

func (s *Scripted) Solve(ctx context.Context, p *lp.Real, basis lp.Basis) (*Result, error) {
	s.mu.Lock()
	i := len(s.calls)
	s.calls = append(s.calls, p)
	s.mu.Unlock()

	if i >= len(s.steps) {
		return nil, fmt.Errorf("%w: script exhausted after %d calls", ErrOracle, len(s.steps))
	}
	return s.steps[i].Solve(ctx, p, basis)
}

// Calls returns the problems passed to Solve so far.
func (s *Scripted) Calls() []*lp.Real {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*lp.Real(nil), s.calls...)
}
