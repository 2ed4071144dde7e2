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
	"errors"

	"github.com/costela/ratlp/oracle"
	"github.com/costela/ratlp/rational"
	"github.com/costela/ratlp/stats"
)

type Option func(*Model) error

func WithLogger(logger Logger) Option {
	return func(m *Model) error {
		m.logger = logger

		return nil
	}
}

// WithOracle replaces the floating point solver, which defaults to the
// gonum simplex with default settings.
func WithOracle(o oracle.Oracle) Option {
	return func(m *Model) error {
		if o == nil {
			return errors.New("nil oracle")
		}
		m.oracle = o

		return nil
	}
}

// WithEnv makes the model use a shared arithmetic environment instead of a
// private one. The environment must outlive the model.
func WithEnv(env *rational.Env) Option {
	return func(m *Model) error {
		if env == nil {
			return errors.New("nil environment")
		}
		m.env = env

		return nil
	}
}

// WithStatistics makes refinement sessions accumulate into s. Statistics
// are not synchronized: models sharing s must not refine concurrently.
func WithStatistics(s *stats.Statistics) Option {
	return func(m *Model) error {
		if s == nil {
			return errors.New("nil statistics")
		}
		m.stats = s

		return nil
	}
}
