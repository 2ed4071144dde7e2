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

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) tick(d time.Duration) { c.now = c.now.Add(d) }
func (c *fakeClock) read() time.Time      { return c.now }

func TestTimerNesting(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	tm := Timer{clock: clk.read}

	tm.Start()
	clk.tick(time.Second)
	tm.Start()
	clk.tick(time.Second)
	tm.Stop()
	assert.True(t, tm.Running())
	assert.Equal(t, 2*time.Second, tm.Elapsed())
	clk.tick(time.Second)
	tm.Stop()

	assert.False(t, tm.Running())
	assert.Equal(t, 3*time.Second, tm.Elapsed())

	tm.Stop()
	clk.tick(time.Second)
	assert.Equal(t, 3*time.Second, tm.Elapsed())

	tm.Time(func() { clk.tick(time.Second) })
	assert.Equal(t, 4*time.Second, tm.Elapsed())

	tm.Reset()
	assert.Zero(t, tm.Elapsed())
}

func TestPrint(t *testing.T) {
	s := New()
	s.Refinements = 3
	s.RationalReconstructions = 1
	s.AddRound(Round{Phase: "optimality", Violation: 1e-3, Rescaled: true, Basis: true})

	var buf bytes.Buffer
	require.NoError(t, s.Print(&buf))

	out := buf.String()
	assert.Contains(t, out, "Refinements")
	assert.Contains(t, out, "optimality")
	assert.Contains(t, out, "1.000e-03")

	s.ClearSolvingData()
	assert.Zero(t, s.Refinements)
	assert.Empty(t, s.History)
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestPrintWriteError(t *testing.T) {
	s := New()
	s.AddRound(Round{Phase: "optimality", Violation: 1e-3})
	s.AddRound(Round{Phase: "feasibility", Violation: 1e-9, Basis: true})

	errWrite := errors.New("disk full")
	assert.ErrorIs(t, s.Print(failingWriter{errWrite}), errWrite)
}
