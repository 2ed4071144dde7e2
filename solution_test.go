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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costela/ratlp/rational"
)

func TestSolutionPrimalAndDual(t *testing.T) {
	var s Solution

	s.RecordPrimalReal([]float64{0.5}, []float64{1})
	assert.True(t, s.HasPrimal())
	assert.False(t, s.HasExactPrimal())
	assert.Nil(t, s.Primal())

	s.RecordPrimal([]rational.Rational{q("1/3")}, []rational.Rational{q("2/3")})
	require.True(t, s.HasExactPrimal())
	assert.Equal(t, "1/3", s.Primal()[0].String())
	assert.InDelta(t, 1.0/3, s.PrimalReal()[0], delta)
	assert.InDelta(t, 2.0/3, s.SlacksReal()[0], delta)

	s.RecordDual([]rational.Rational{q("-1")}, []rational.Rational{q("0")})
	assert.True(t, s.HasExactDual())
	assert.Equal(t, []float64{-1}, s.DualReal())
	assert.True(t, s.HasExactPrimal(), "recording duals keeps the primal")
}

func TestSolutionRay(t *testing.T) {
	var s Solution
	s.RecordPrimal([]rational.Rational{q("1")}, nil)
	s.RecordDual([]rational.Rational{q("1")}, nil)

	s.RecordRay(DualFarkas, []rational.Rational{q("-1"), q("2")})
	assert.False(t, s.HasPrimal())
	assert.False(t, s.HasDual())
	assert.True(t, s.HasDualFarkas())
	assert.False(t, s.HasPrimalRay())
	assert.Nil(t, s.PrimalRay())
	assert.Len(t, s.DualFarkas(), 2)

	s.RecordRay(PrimalRay, []rational.Rational{q("1")})
	assert.True(t, s.HasPrimalRay())
	assert.Nil(t, s.DualFarkas())

	s.RecordPrimalReal([]float64{0}, nil)
	assert.False(t, s.HasPrimalRay(), "a primal solution drops the ray")
	assert.True(t, s.HasPrimal())
}

func TestSolutionClearAndClone(t *testing.T) {
	var s Solution
	s.RecordPrimal([]rational.Rational{q("3")}, nil)

	c := s.Clone()
	s.Clear()

	assert.False(t, s.HasPrimal())
	assert.Nil(t, s.PrimalReal())
	require.True(t, c.HasExactPrimal())
	assert.Equal(t, "3", c.Primal()[0].String())
}
