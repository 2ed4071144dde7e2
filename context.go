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
	"sync/atomic"
	"time"
)

/*
 The stop condition is polled by the refinement loop before every oracle
 call and at the top of every round. It never interrupts a running oracle
 solve.
*/

type stopCondition struct {
	ctx         context.Context
	deadline    time.Time // zero means no time limit
	interrupted *atomic.Bool
}

func newStopCondition(ctx context.Context, limit time.Duration, interrupted *atomic.Bool) stopCondition {
	s := stopCondition{
		ctx:         ctx,
		interrupted: interrupted,
	}
	if limit > 0 {
		s.deadline = time.Now().Add(limit)
	}
	return s
}

func (s stopCondition) reason() string {
	switch {
	case s.ctx.Err() != nil:
		return s.ctx.Err().Error()
	case s.interrupted.Load():
		return "interrupted"
	case !s.deadline.IsZero() && !time.Now().Before(s.deadline):
		return "time limit reached"
	default:
		return ""
	}
}

func (s stopCondition) stopped() bool {
	return s.reason() != ""
}

// Interrupt asks a running Refine on this model to stop at its next poll
// point. It is safe to call from any goroutine. The request is cleared when
// the next Refine starts.
func (model *Model) Interrupt() {
	model.interrupted.Store(true)
}
