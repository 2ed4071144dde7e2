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
	"github.com/costela/ratlp/lp"
	"github.com/costela/ratlp/rational"
)

// RayKind selects which unboundedness or infeasibility witness a ray is.
type RayKind int

const (
	// PrimalRay is a direction of unbounded improvement of the objective.
	PrimalRay RayKind = iota
	// DualFarkas is a row multiplier vector proving infeasibility.
	DualFarkas
)

// Solution is the certificate store of a model. It holds the primal and
// dual vectors in floating point and, once certified, in exact precision,
// or one of the two rays. A feasible primal solution and a ray are never
// held at the same time.
//
// Slices returned by the accessors belong to the store and must not be
// modified.
type Solution struct {
	primal, slacks   []rational.Rational
	dual, redCost    []rational.Rational
	primalR, slacksR []float64
	dualR, redCostR  []float64

	ray  []rational.Rational
	rayR []float64

	hasPrimal, hasDual, hasRay bool
	rayKind                    RayKind
}

// RecordPrimal stores an exact primal solution and its row activities,
// replacing any previous primal and dropping any ray.
func (s *Solution) RecordPrimal(x, slacks []rational.Rational) {
	s.clearRay()
	s.primal, s.slacks = x, slacks
	s.primalR, s.slacksR = lp.Floats(x), lp.Floats(slacks)
	s.hasPrimal = true
}

// RecordPrimalReal stores an uncertified floating point primal solution.
func (s *Solution) RecordPrimalReal(x, slacks []float64) {
	s.clearRay()
	s.primal, s.slacks = nil, nil
	s.primalR, s.slacksR = x, slacks
	s.hasPrimal = true
}

// RecordDual stores exact row duals and reduced costs, replacing any
// previous dual solution and dropping any ray.
func (s *Solution) RecordDual(y, redCost []rational.Rational) {
	s.clearRay()
	s.dual, s.redCost = y, redCost
	s.dualR, s.redCostR = lp.Floats(y), lp.Floats(redCost)
	s.hasDual = true
}

// RecordDualReal stores uncertified floating point duals.
func (s *Solution) RecordDualReal(y, redCost []float64) {
	s.clearRay()
	s.dual, s.redCost = nil, nil
	s.dualR, s.redCostR = y, redCost
	s.hasDual = true
}

// RecordRay stores an exact ray of the given kind. Primal and dual
// solutions as well as a ray of the other kind are dropped.
func (s *Solution) RecordRay(kind RayKind, ray []rational.Rational) {
	s.Clear()
	s.ray, s.rayR = ray, lp.Floats(ray)
	s.rayKind = kind
	s.hasRay = true
}

// Clear drops everything.
func (s *Solution) Clear() {
	*s = Solution{}
}

func (s *Solution) clearRay() {
	s.ray, s.rayR = nil, nil
	s.hasRay = false
}

func (s *Solution) HasPrimal() bool      { return s.hasPrimal }
func (s *Solution) HasDual() bool        { return s.hasDual }
func (s *Solution) HasPrimalRay() bool   { return s.hasRay && s.rayKind == PrimalRay }
func (s *Solution) HasDualFarkas() bool  { return s.hasRay && s.rayKind == DualFarkas }
func (s *Solution) HasExactPrimal() bool { return s.hasPrimal && s.primal != nil }
func (s *Solution) HasExactDual() bool   { return s.hasDual && s.dual != nil }

// Primal returns the exact primal solution, or nil.
func (s *Solution) Primal() []rational.Rational { return s.primal }

// Slacks returns the exact row activities, or nil.
func (s *Solution) Slacks() []rational.Rational { return s.slacks }

// Dual returns the exact row duals, or nil.
func (s *Solution) Dual() []rational.Rational { return s.dual }

// RedCost returns the exact reduced costs, or nil.
func (s *Solution) RedCost() []rational.Rational { return s.redCost }

func (s *Solution) PrimalReal() []float64  { return s.primalR }
func (s *Solution) SlacksReal() []float64  { return s.slacksR }
func (s *Solution) DualReal() []float64    { return s.dualR }
func (s *Solution) RedCostReal() []float64 { return s.redCostR }

// PrimalRay returns the primal ray, or nil.
func (s *Solution) PrimalRay() []rational.Rational {
	if !s.HasPrimalRay() {
		return nil
	}
	return s.ray
}

// DualFarkas returns the Farkas ray, or nil.
func (s *Solution) DualFarkas() []rational.Rational {
	if !s.HasDualFarkas() {
		return nil
	}
	return s.ray
}

// Clone returns a copy of the store sharing the stored slices.
func (s *Solution) Clone() *Solution {
	c := *s
	return &c
}
