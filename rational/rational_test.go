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
	"math"
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	r, err := New(2, 6)
	require.NoError(t, err)
	assert.Equal(t, "1/3", r.String())

	_, err = New(1, 0)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestZeroValue(t *testing.T) {
	var r Rational
	assert.True(t, r.IsZero())
	assert.Equal(t, "0", r.String())
	assert.True(t, r.Add(One).Equal(One))
}

func TestArithmetic(t *testing.T) {
	a := MustNew(1, 3)
	b := MustNew(1, 6)

	assert.Equal(t, "1/2", a.Add(b).String())
	assert.Equal(t, "1/6", a.Sub(b).String())
	assert.Equal(t, "1/18", a.Mul(b).String())

	q, err := a.Div(b)
	require.NoError(t, err)
	assert.Equal(t, "2", q.String())

	_, err = a.Div(Zero)
	assert.ErrorIs(t, err, ErrDivisionByZero)
	_, err = Zero.Inv()
	assert.ErrorIs(t, err, ErrDivisionByZero)

	assert.Equal(t, "-1/3", a.Neg().String())
	assert.Equal(t, "1/3", a.Neg().Abs().String())

	// operands are untouched
	assert.Equal(t, "1/3", a.String())
	assert.Equal(t, "1/6", b.String())
}

func TestFloatInterop(t *testing.T) {
	third := MustNew(1, 3)
	f := 1.0 / 3.0

	assert.False(t, third.EqualFloat(f))
	assert.True(t, third.IsNextTo(f))
	assert.True(t, third.IsAdjacentTo(f))
	assert.True(t, third.IsAdjacentTo(math.Nextafter(f, 1)) || third.IsAdjacentTo(math.Nextafter(f, 0)))
	assert.False(t, third.IsAdjacentTo(math.Nextafter(math.Nextafter(f, 1), 1)))
	assert.False(t, third.IsAdjacentTo(math.NaN()))

	half := MustNew(1, 2)
	assert.True(t, half.EqualFloat(0.5))
	assert.Equal(t, 0, half.CmpFloat(0.5))
	assert.Equal(t, 1, half.CmpFloat(0.25))
	assert.Equal(t, -1, half.CmpFloat(math.Inf(1)))
	assert.True(t, half.IsAdjacentTo(0.5))
	assert.False(t, half.IsAdjacentTo(math.Nextafter(0.5, 1)))

	assert.Equal(t, 0.1, FromFloat64(0.1).Float64())
	assert.False(t, FromFloat64(0.1).Equal(MustNew(1, 10)))
	assert.Equal(t, "1/2", half.AddFloat(0).String())
	assert.Equal(t, "1/4", half.MulFloat(0.5).String())
}

func TestInfinity(t *testing.T) {
	assert.True(t, PosInf().IsInfinite())
	assert.True(t, NegInf().IsNegInf())
	assert.True(t, FromFloat64(math.Inf(-1)).IsNegInf())
	assert.Equal(t, math.Inf(1), PosInf().Float64())
	assert.False(t, FromInt(1e15).IsInfinite())

	for _, s := range []string{"inf", "+Inf", "infinity", "+INFINITY"} {
		r, err := Parse(s)
		require.NoError(t, err, s)
		assert.True(t, r.IsPosInf(), s)
	}
	r, err := Parse("-inf")
	require.NoError(t, err)
	assert.True(t, r.IsNegInf())

	assert.Equal(t, "+inf", PosInf().String())
	assert.Equal(t, "-inf", NegInf().String())
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0.25", "1/4"},
		{"-1e-3", "-1/1000"},
		{"3/9", "1/3"},
		{" 7 ", "7"},
	}
	for _, tt := range tests {
		r, err := Parse(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, r.String(), tt.in)
	}

	for _, bad := range []string{"", "abc", "1/0", "1//2"} {
		_, err := Parse(bad)
		assert.ErrorIs(t, err, ErrParse, bad)
	}
}

func TestReadStringKeepsValueOnFailure(t *testing.T) {
	r := MustNew(5, 7)
	assert.False(t, r.ReadString("not a number"))
	assert.Equal(t, "5/7", r.String())

	assert.True(t, r.ReadString("2/4"))
	assert.Equal(t, "1/2", r.String())
}

func TestStringRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	samples := []Rational{MustNew(1, 3), Zero, PosInf(), NegInf(), FromFloat64(0.1)}
	for i := 0; i < 200; i++ {
		num := new(big.Int).Rand(rnd, new(big.Int).Lsh(big.NewInt(1), 120))
		den := new(big.Int).Rand(rnd, new(big.Int).Lsh(big.NewInt(1), 90))
		den.Add(den, big.NewInt(1))
		if rnd.Intn(2) == 0 {
			num.Neg(num)
		}
		samples = append(samples, FromBig(new(big.Rat).SetFrac(num, den)))
	}

	for _, r := range samples {
		back, err := Parse(r.String())
		require.NoError(t, err, r.String())
		assert.True(t, back.Equal(r), r.String())

		text, err := r.MarshalText()
		require.NoError(t, err)
		var u Rational
		require.NoError(t, u.UnmarshalText(text))
		assert.True(t, u.Equal(r))
	}
}

func TestFloatString(t *testing.T) {
	assert.Equal(t, "0.333", MustNew(1, 3).FloatString(3))
}

func TestMinMax(t *testing.T) {
	a, b := MustNew(1, 3), MustNew(1, 2)
	assert.True(t, Max(a, b).Equal(b))
	assert.True(t, Min(a, b).Equal(a))
}
