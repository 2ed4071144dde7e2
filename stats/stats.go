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

// Package stats collects counters and timings of refinement sessions.
package stats

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// Round records one refinement round.
type Round struct {
	Phase     string
	Violation float64 // largest residual at the start of the round
	Rescaled  bool    // the scaling factors grew
	Basis     bool    // the basis changed compared to the previous round
}

// Statistics is the collection of counters and timers updated by the
// refinement driver. The zero value is ready to use.
type Statistics struct {
	Refinements             int // refinement rounds over all phases
	StallRefinements        int // rounds that kept the previous basis
	PivotRefinements        int // rounds that changed the basis
	FeasRefinements         int // rounds spent on the feasibility probe
	UnbdRefinements         int // rounds spent on the unboundedness probe
	RationalReconstructions int // reconstruction attempts
	OracleCalls             int

	TransformTime      Timer
	RationalTime       Timer
	ReconstructionTime Timer
	SolvingTime        Timer
	SimplexTime        Timer
	SyncTime           Timer

	History []Round
}

// New returns zeroed statistics.
func New() *Statistics {
	return &Statistics{}
}

// ClearSolvingData resets every counter, timer and the round history.
func (s *Statistics) ClearSolvingData() {
	*s = Statistics{}
}

// AddRound appends r to the history.
func (s *Statistics) AddRound(r Round) {
	s.History = append(s.History, r)
}

// Print writes a human readable report to w.
func (s *Statistics) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	rows := []struct {
		name  string
		value interface{}
	}{
		{"Solving time", s.SolvingTime.Elapsed()},
		{"  Simplex", s.SimplexTime.Elapsed()},
		{"  Synchronization", s.SyncTime.Elapsed()},
		{"  Transformation", s.TransformTime.Elapsed()},
		{"  Rational", s.RationalTime.Elapsed()},
		{"  Reconstruction", s.ReconstructionTime.Elapsed()},
		{"Oracle calls", s.OracleCalls},
		{"Refinements", s.Refinements},
		{"  Stalling", s.StallRefinements},
		{"  Pivoting", s.PivotRefinements},
		{"  Feasibility", s.FeasRefinements},
		{"  Unboundedness", s.UnbdRefinements},
		{"Reconstructions", s.RationalReconstructions},
	}
	for _, r := range rows {
		v := r.value
		if d, ok := v.(time.Duration); ok {
			v = fmt.Sprintf("%.3fs", d.Seconds())
		}
		if _, err := fmt.Fprintf(tw, "%s\t: %v\n", r.name, v); err != nil {
			return err
		}
	}

	if len(s.History) > 0 {
		if _, err := fmt.Fprintln(tw, "Round\tPhase\tViolation\tRescaled\tBasis changed"); err != nil {
			return err
		}
		for i, r := range s.History {
			if _, err := fmt.Fprintf(tw, "%d\t%s\t%.3e\t%t\t%t\n", i+1, r.Phase, r.Violation, r.Rescaled, r.Basis); err != nil {
				return err
			}
		}
	}

	return tw.Flush()
}
