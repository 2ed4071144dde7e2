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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvLifecycle(t *testing.T) {
	env := NewEnv()

	require.NoError(t, env.Acquire())
	require.NoError(t, env.Acquire())
	assert.Equal(t, 2, env.Sessions())

	assert.ErrorIs(t, env.Close(), ErrEnvBusy)

	env.Release()
	env.Release()
	assert.Equal(t, 0, env.Sessions())

	require.NoError(t, env.Close())
	require.NoError(t, env.Close())
	assert.ErrorIs(t, env.Acquire(), ErrEnvClosed)
}

func TestAccumulator(t *testing.T) {
	env := NewEnv()
	defer env.Close()

	acc := env.Accumulator()
	acc.Add(MustNew(1, 2))
	acc.Sub(MustNew(1, 3))
	acc.AddProduct(MustNew(2, 3), FromInt(3))
	acc.AddFloatProduct(FromInt(4), 0.25)
	assert.Equal(t, "19/6", acc.Value().String())

	v := acc.Value()
	acc.Reset()
	assert.True(t, acc.Value().IsZero())
	assert.Equal(t, "19/6", v.String())

	acc.Release()
	acc.Release()
}

func TestDot(t *testing.T) {
	env := NewEnv()
	defer env.Close()

	a := []Rational{MustNew(1, 2), MustNew(1, 3)}
	x := []Rational{FromInt(10), FromInt(2), FromInt(3)}

	assert.Equal(t, "2", env.Dot(a, []int{1, 2}, x).String())
}
