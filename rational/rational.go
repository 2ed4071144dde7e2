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

// Package rational provides arbitrary-precision rational numbers with value
// semantics, as used by the exact side of the refinement solver.
//
// A Rational is immutable: every arithmetic operation returns a new value and
// never modifies its operands, so values can be copied and shared freely.
// The zero value is a valid 0.
package rational

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
)

// Common errors returned by functions in this package.
var (
	ErrDivisionByZero = errors.New("rational: division by zero")
	ErrParse          = errors.New("rational: invalid number format")
)

// Rational is an exact rational number. Values larger than or equal to
// Infinity in absolute value are treated as infinite.
type Rational struct {
	r *big.Rat // never mutated once set; nil means zero
}

var (
	zeroRat = new(big.Rat)

	// Infinity is the threshold from which a value is considered infinite.
	Infinity = FromBig(new(big.Rat).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(100), nil)))

	// Zero and One are provided for convenience.
	Zero = Rational{}
	One  = FromInt(1)
)

// New returns the reduced rational p/q.
func New(p, q int64) (Rational, error) {
	if q == 0 {
		return Rational{}, ErrDivisionByZero
	}
	return Rational{new(big.Rat).SetFrac64(p, q)}, nil
}

// MustNew is like New but panics on a zero denominator. It is meant for
// constants in tests and examples.
func MustNew(p, q int64) Rational {
	r, err := New(p, q)
	if err != nil {
		panic(err)
	}
	return r
}

// FromInt returns the integer i as a rational.
func FromInt(i int64) Rational {
	return Rational{new(big.Rat).SetInt64(i)}
}

// FromFloat64 returns the exact value of f. Infinite values map to
// PosInf and NegInf; NaN maps to zero.
func FromFloat64(f float64) Rational {
	switch {
	case math.IsInf(f, 1):
		return PosInf()
	case math.IsInf(f, -1):
		return NegInf()
	case math.IsNaN(f):
		return Rational{}
	}
	return Rational{new(big.Rat).SetFloat64(f)}
}

// FromBig returns a copy of x.
func FromBig(x *big.Rat) Rational {
	if x == nil {
		return Rational{}
	}
	return Rational{new(big.Rat).Set(x)}
}

// PosInf returns the positive infinity value.
func PosInf() Rational { return Infinity }

// NegInf returns the negative infinity value.
func NegInf() Rational { return Infinity.Neg() }

func (x Rational) rat() *big.Rat {
	if x.r == nil {
		return zeroRat
	}
	return x.r
}

// Big returns a copy of x as a *big.Rat.
func (x Rational) Big() *big.Rat {
	return new(big.Rat).Set(x.rat())
}

// Num returns a copy of the numerator of x in lowest terms.
func (x Rational) Num() *big.Int {
	return new(big.Int).Set(x.rat().Num())
}

// Denom returns a copy of the (positive) denominator of x in lowest terms.
func (x Rational) Denom() *big.Int {
	return new(big.Int).Set(x.rat().Denom())
}

/* Arithmetic */

func (x Rational) Add(y Rational) Rational {
	return Rational{new(big.Rat).Add(x.rat(), y.rat())}
}

func (x Rational) Sub(y Rational) Rational {
	return Rational{new(big.Rat).Sub(x.rat(), y.rat())}
}

func (x Rational) Mul(y Rational) Rational {
	return Rational{new(big.Rat).Mul(x.rat(), y.rat())}
}

// Div returns x/y, or ErrDivisionByZero if y is zero.
func (x Rational) Div(y Rational) (Rational, error) {
	if y.IsZero() {
		return Rational{}, ErrDivisionByZero
	}
	return Rational{new(big.Rat).Quo(x.rat(), y.rat())}, nil
}

// Inv returns 1/x, or ErrDivisionByZero if x is zero.
func (x Rational) Inv() (Rational, error) {
	if x.IsZero() {
		return Rational{}, ErrDivisionByZero
	}
	return Rational{new(big.Rat).Inv(x.rat())}, nil
}

func (x Rational) Neg() Rational {
	return Rational{new(big.Rat).Neg(x.rat())}
}

func (x Rational) Abs() Rational {
	return Rational{new(big.Rat).Abs(x.rat())}
}

// AddFloat returns x + f, with f taken at its exact binary value.
func (x Rational) AddFloat(f float64) Rational {
	return x.Add(FromFloat64(f))
}

// MulFloat returns x * f, with f taken at its exact binary value.
func (x Rational) MulFloat(f float64) Rational {
	return x.Mul(FromFloat64(f))
}

/* Comparison */

// Sign returns -1, 0 or +1.
func (x Rational) Sign() int {
	return x.rat().Sign()
}

// Cmp compares x and y and returns -1, 0 or +1.
func (x Rational) Cmp(y Rational) int {
	return x.rat().Cmp(y.rat())
}

// CmpFloat compares x with the exact value of d. Infinite d compare beyond
// every rational, including Infinity itself. NaN compares as equal.
func (x Rational) CmpFloat(d float64) int {
	switch {
	case math.IsNaN(d):
		return 0
	case math.IsInf(d, 1):
		return -1
	case math.IsInf(d, -1):
		return 1
	}
	return x.rat().Cmp(new(big.Rat).SetFloat64(d))
}

func (x Rational) Equal(y Rational) bool        { return x.Cmp(y) == 0 }
func (x Rational) Less(y Rational) bool         { return x.Cmp(y) < 0 }
func (x Rational) LessEqual(y Rational) bool    { return x.Cmp(y) <= 0 }
func (x Rational) Greater(y Rational) bool      { return x.Cmp(y) > 0 }
func (x Rational) GreaterEqual(y Rational) bool { return x.Cmp(y) >= 0 }

// EqualFloat reports whether d is exactly equal to x.
func (x Rational) EqualFloat(d float64) bool {
	return !math.IsNaN(d) && !math.IsInf(d, 0) && x.CmpFloat(d) == 0
}

func (x Rational) IsZero() bool    { return x.Sign() == 0 }
func (x Rational) IsInteger() bool { return x.rat().IsInt() }

// IsInfinite reports whether |x| >= Infinity.
func (x Rational) IsInfinite() bool {
	return x.Abs().Cmp(Infinity) >= 0
}

func (x Rational) IsPosInf() bool { return x.Cmp(Infinity) >= 0 }
func (x Rational) IsNegInf() bool { return x.Cmp(NegInf()) <= 0 }

// Max returns the larger of x and y.
func Max(x, y Rational) Rational {
	if x.Cmp(y) >= 0 {
		return x
	}
	return y
}

// Min returns the smaller of x and y.
func Min(x, y Rational) Rational {
	if x.Cmp(y) <= 0 {
		return x
	}
	return y
}

/* Floating point conversion */

// Float64 returns the float64 nearest to x, rounding half to even. Infinite
// values map to ±Inf.
func (x Rational) Float64() float64 {
	switch {
	case x.IsPosInf():
		return math.Inf(1)
	case x.IsNegInf():
		return math.Inf(-1)
	}
	f, _ := x.rat().Float64()
	return f
}

// IsNextTo reports whether d is the float64 closest to x.
func (x Rational) IsNextTo(d float64) bool {
	return x.Float64() == d
}

// IsAdjacentTo reports whether d equals x exactly or is one of the two
// float64 values enclosing x. If it holds, no floating point computation can
// get any closer to x than d.
func (x Rational) IsAdjacentTo(d float64) bool {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return false
	}
	switch x.CmpFloat(d) {
	case 0:
		return true
	case 1:
		return x.CmpFloat(math.Nextafter(d, math.Inf(1))) < 0
	default:
		return x.CmpFloat(math.Nextafter(d, math.Inf(-1))) > 0
	}
}

/* String conversion */

const (
	posInfToken = "+inf"
	negInfToken = "-inf"
)

// String returns x as "p/q", or as "p" for integers. The exact infinity
// values are written as "+inf" and "-inf". The output is accepted by Parse
// and yields the same value.
func (x Rational) String() string {
	switch {
	case x.Equal(Infinity):
		return posInfToken
	case x.Equal(NegInf()):
		return negInfToken
	}
	return x.rat().RatString()
}

// FloatString returns x in decimal notation rounded to prec digits after the
// decimal point.
func (x Rational) FloatString(prec int) string {
	return x.rat().FloatString(prec)
}

// Parse reads a decimal ("0.25", "-1e-3"), fractional ("p/q") or infinity
// ("inf", "+infinity", "-inf", ...) representation.
func Parse(s string) (Rational, error) {
	s = strings.TrimSpace(s)

	switch strings.ToLower(s) {
	case "inf", "+inf", "infinity", "+infinity":
		return PosInf(), nil
	case "-inf", "-infinity":
		return NegInf(), nil
	case "":
		return Rational{}, ErrParse
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Rational{}, fmt.Errorf("%w: %q", ErrParse, s)
	}
	return Rational{r}, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(s string) Rational {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

// ReadString sets x to the value represented by s and reports success.
// On failure x is left unmodified.
func (x *Rational) ReadString(s string) bool {
	r, err := Parse(s)
	if err != nil {
		return false
	}
	*x = r
	return true
}

// MarshalText implements encoding.TextMarshaler.
func (x Rational) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (x *Rational) UnmarshalText(text []byte) error {
	r, err := Parse(string(text))
	if err != nil {
		return err
	}
	*x = r
	return nil
}
