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
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconstruct(t *testing.T) {
	// the double nearest to 1/3 has a power of two denominator
	approx := FromFloat64(1.0 / 3.0)
	require.False(t, approx.Equal(MustNew(1, 3)))

	got := Reconstruct(approx, big.NewInt(1000))
	assert.Equal(t, "1/3", got.String())

	got = Reconstruct(approx.Neg(), big.NewInt(1000))
	assert.Equal(t, "-1/3", got.String())

	// pi to the best denominators below 10 and 200
	pi := FromFloat64(3.141592653589793)
	assert.Equal(t, "22/7", Reconstruct(pi, big.NewInt(10)).String())
	assert.Equal(t, "355/113", Reconstruct(pi, big.NewInt(200)).String())

	// small denominators are returned as is
	assert.Equal(t, "5/4", Reconstruct(MustNew(5, 4), big.NewInt(4)).String())
	assert.Equal(t, "3", Reconstruct(FromFloat64(3.0000001), big.NewInt(1)).String())
}

func TestReconstructVector(t *testing.T) {
	v := []Rational{FromFloat64(0.2), FromFloat64(2.0 / 7.0), FromInt(4)}
	got := ReconstructVector(v, big.NewInt(100))
	assert.Equal(t, "1/5", got[0].String())
	assert.Equal(t, "2/7", got[1].String())
	assert.Equal(t, "4", got[2].String())
}

func TestDenominatorBound(t *testing.T) {
	assert.Nil(t, DenominatorBound(Zero))
	assert.Equal(t, int64(1000), DenominatorBound(MustNew(1, 1000000)).Int64())
	assert.Equal(t, int64(3), DenominatorBound(MustNew(1, 10)).Int64())
	assert.Equal(t, int64(1), DenominatorBound(FromInt(5)).Int64())
}
