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

import "math/big"

// Reconstruct returns the last continued fraction convergent of x whose
// denominator does not exceed maxDen. Values with denominator <= maxDen are
// returned unchanged. maxDen must be positive.
func Reconstruct(x Rational, maxDen *big.Int) Rational {
	if x.Denom().Cmp(maxDen) <= 0 {
		return x
	}

	neg := x.Sign() < 0
	num := new(big.Int).Abs(x.rat().Num())
	den := x.Denom()

	// convergents h/k, starting from h(-2)/k(-2) = 0/1 and h(-1)/k(-1) = 1/0
	h0, k0 := big.NewInt(0), big.NewInt(1)
	h1, k1 := big.NewInt(1), big.NewInt(0)

	a, rem := new(big.Int), new(big.Int)
	h2, k2 := new(big.Int), new(big.Int)

	for den.Sign() != 0 {
		a.QuoRem(num, den, rem)

		k2.Mul(a, k1).Add(k2, k0)
		if k2.Cmp(maxDen) > 0 {
			break
		}
		h2.Mul(a, h1).Add(h2, h0)

		h0, h1, h2 = h1, h2, h0
		k0, k1, k2 = k1, k2, k0

		num, den, rem = den, rem, num
	}

	if k1.Sign() == 0 {
		// not even the integer part fits, which cannot happen for maxDen >= 1
		return x
	}

	r := new(big.Rat).SetFrac(h1, k1)
	if neg {
		r.Neg(r)
	}
	return Rational{r}
}

// ReconstructVector applies Reconstruct to every element of v.
func ReconstructVector(v []Rational, maxDen *big.Int) []Rational {
	out := make([]Rational, len(v))
	for i, x := range v {
		out[i] = Reconstruct(x, maxDen)
	}
	return out
}

// DenominatorBound returns floor(sqrt(1/viol)), the denominator bound under
// which reconstruction is attempted for a vector known up to viol. A zero or
// negative viol yields nil.
func DenominatorBound(viol Rational) *big.Int {
	if viol.Sign() <= 0 {
		return nil
	}
	inv, _ := viol.Inv()
	q := new(big.Int).Quo(inv.rat().Num(), inv.rat().Denom())
	if q.Sign() == 0 {
		return big.NewInt(1)
	}
	return q.Sqrt(q)
}
