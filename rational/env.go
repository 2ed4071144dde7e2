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

package rational

import (
	"errors"
	"math/big"
	"sync"
)

var (
	ErrEnvClosed = errors.New("rational: environment already closed")
	ErrEnvBusy   = errors.New("rational: environment still has live sessions")
)

// Env is the process-scoped arithmetic context. It owns a pool of scratch
// accumulators used by the exact residual computations and keeps track of
// the sessions using it.
//
// A program creates one Env at start-up, hands it to every model and closes
// it after the last model is done:
//
//	env := rational.NewEnv()
//	defer env.Close()
type Env struct {
	mu     sync.Mutex
	live   int
	closed bool
	pool   sync.Pool
}

// NewEnv returns a ready to use environment.
func NewEnv() *Env {
	e := &Env{}
	e.pool.New = func() interface{} {
		return new(big.Rat)
	}
	return e
}

// Acquire registers a session. Every successful Acquire must be matched by
// a Release.
func (e *Env) Acquire() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEnvClosed
	}
	e.live++

	return nil
}

// Release ends a session started with Acquire.
func (e *Env) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.live > 0 {
		e.live--
	}
}

// Sessions returns the number of live sessions.
func (e *Env) Sessions() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.live
}

// Close tears the environment down. It fails with ErrEnvBusy while sessions
// are live; closing twice is a no-op.
func (e *Env) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.live > 0 {
		return ErrEnvBusy
	}
	e.closed = true

	return nil
}

func (e *Env) get() *big.Rat {
	return e.pool.Get().(*big.Rat)
}

func (e *Env) put(r *big.Rat) {
	e.pool.Put(r.SetInt64(0))
}

// Accumulator sums rationals in place, avoiding one allocation per term.
// It must be released after use.
type Accumulator struct {
	env      *Env
	sum, tmp *big.Rat
}

// Accumulator returns a zeroed accumulator drawn from the pool.
func (e *Env) Accumulator() *Accumulator {
	return &Accumulator{
		env: e,
		sum: e.get(),
		tmp: e.get(),
	}
}

func (a *Accumulator) Add(x Rational) {
	a.sum.Add(a.sum, x.rat())
}

func (a *Accumulator) Sub(x Rational) {
	a.sum.Sub(a.sum, x.rat())
}

// AddProduct adds x*y.
func (a *Accumulator) AddProduct(x, y Rational) {
	a.tmp.Mul(x.rat(), y.rat())
	a.sum.Add(a.sum, a.tmp)
}

// AddFloatProduct adds x*f with f taken at its exact binary value.
func (a *Accumulator) AddFloatProduct(x Rational, f float64) {
	if f == 0 {
		return
	}
	a.tmp.SetFloat64(f)
	a.tmp.Mul(a.tmp, x.rat())
	a.sum.Add(a.sum, a.tmp)
}

// Value returns the current sum.
func (a *Accumulator) Value() Rational {
	return FromBig(a.sum)
}

// Reset sets the sum back to zero.
func (a *Accumulator) Reset() {
	a.sum.SetInt64(0)
}

// Release hands the scratch space back to the environment. The accumulator
// must not be used afterwards.
func (a *Accumulator) Release() {
	if a.sum == nil {
		return
	}
	a.env.put(a.sum)
	a.env.put(a.tmp)
	a.sum, a.tmp = nil, nil
}

// Dot returns the exact inner product of a and x over the given index set,
// i.e. sum(a[k] * x[idx[k]]).
func (e *Env) Dot(a []Rational, idx []int, x []Rational) Rational {
	acc := e.Accumulator()
	defer acc.Release()

	for k, i := range idx {
		acc.AddProduct(a[k], x[i])
	}

	return acc.Value()
}
