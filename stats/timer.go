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

package stats

import "time"

// Timer accumulates wall clock time over Start/Stop pairs. Pairs may nest;
// only the outermost pair is measured.
type Timer struct {
	total   time.Duration
	started time.Time
	depth   int

	clock func() time.Time
}

func (t *Timer) now() time.Time {
	if t.clock != nil {
		return t.clock()
	}
	return time.Now()
}

func (t *Timer) Start() {
	if t.depth == 0 {
		t.started = t.now()
	}
	t.depth++
}

// Stop ends the innermost running pair. Stopping a timer that is not running
// has no effect.
func (t *Timer) Stop() {
	if t.depth == 0 {
		return
	}
	t.depth--
	if t.depth == 0 {
		t.total += t.now().Sub(t.started)
	}
}

// Running reports whether a Start is pending.
func (t *Timer) Running() bool {
	return t.depth > 0
}

// Elapsed returns the accumulated time, including the currently running
// interval.
func (t *Timer) Elapsed() time.Duration {
	if t.depth > 0 {
		return t.total + t.now().Sub(t.started)
	}
	return t.total
}

func (t *Timer) Reset() {
	t.total = 0
	t.depth = 0
}

// Time runs f bracketed by Start and Stop.
func (t *Timer) Time(f func()) {
	t.Start()
	defer t.Stop()
	f()
}
