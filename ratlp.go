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

/*
RatLP is a library for modelling linear programming problems and solving
them exactly: a floating point simplex is used as a fast oracle and its
answers are refined in rational arithmetic until they are certified
optimal, infeasible or unbounded.

As an example of the API, the model of the following problem:

	Minimize:
	  z = x
	With:
	  x >= 1/3

can be expressed with RatLP like this:

	package main

	import (
		"context"
		"fmt"

		"github.com/costela/ratlp"
		"github.com/costela/ratlp/rational"
	)

	func main() {
		env := rational.NewEnv()
		defer env.Close()

		model, _ := ratlp.NewModel("third", ratlp.Minimize, ratlp.WithEnv(env))
		defer model.Close()

		x, _ := model.AddDefinedVariable("x", rational.One, rational.MustNew(1, 3), rational.PosInf())

		opts := ratlp.DefaultRefineOptions()
		opts.FeasTol, opts.OptTol = rational.Zero, rational.Zero

		result, err := model.Refine(context.Background(), opts) // err is only set for StatusError

		fmt.Printf("certified? %t\n", result.Status == ratlp.StatusCertified)
		fmt.Printf("x = %s\n", result.Value(x)) // exactly 1/3
	}
*/
package ratlp

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/costela/ratlp/lp"
	"github.com/costela/ratlp/oracle"
	"github.com/costela/ratlp/rational"
	"github.com/costela/ratlp/stats"
)

/* Types */

type Model struct {
	mu     sync.RWMutex
	name   string
	prob   *lp.Exact
	names  []string
	vars   []*Variable
	logger Logger

	env    *rational.Env
	ownEnv bool
	closed bool

	oracle oracle.Oracle
	stats  *stats.Statistics

	solution Solution
	basis    lp.Basis

	interrupted atomic.Bool
}

type Direction = lp.Sense

const (
	Minimize = lp.Minimize
	Maximize = lp.Maximize
)

// Column describes a variable for LoadProblem.
type Column struct {
	Name  string
	Obj   rational.Rational
	Lower rational.Rational
	Upper rational.Rational
}

// Row describes a constraint Lhs <= sum(Coefs[k] * x[Cols[k]]) <= Rhs for
// LoadProblem.
type Row struct {
	Lhs   rational.Rational
	Rhs   rational.Rational
	Cols  []int
	Coefs []rational.Rational
}

/* Model related functions */

// NewModel instantiates a new linear programming model, providing a
// name (purely informational) and a optimization direction (either
// Minimize or Maximize).
// Unless WithEnv is given, the model creates a private arithmetic
// environment. Either way, Close must be called once the model is no
// longer needed.
func NewModel(name string, dir Direction, opts ...Option) (*Model, error) {
	model := &Model{
		name:   name,
		prob:   &lp.Exact{Sense: dir},
		logger: noopLogger{},
		oracle: oracle.NewSimplex(oracle.Settings{}),
		stats:  stats.New(),
	}

	for _, opt := range opts {
		if err := opt(model); err != nil {
			return nil, fmt.Errorf("applying model option: %w", err)
		}
	}

	if model.env == nil {
		model.env = rational.NewEnv()
		model.ownEnv = true
	}
	if err := model.env.Acquire(); err != nil {
		return nil, fmt.Errorf("acquiring arithmetic environment: %w", err)
	}

	return model, nil
}

// Close releases the model's arithmetic session. A private environment is
// torn down with the last model using it.
func (model *Model) Close() error {
	model.mu.Lock()
	defer model.mu.Unlock()

	if model.closed {
		return nil
	}
	model.closed = true
	model.env.Release()

	if model.ownEnv {
		// clones share the private environment; the last one closes it
		if err := model.env.Close(); err != nil && !errors.Is(err, rational.ErrEnvBusy) {
			return err
		}
	}

	return nil
}

// Clone returns a copy of the model, sharing its environment, oracle and
// logger. The certificate store and basis are copied too; statistics start
// from zero. Cloning a closed model fails with rational.ErrEnvClosed.
func (model *Model) Clone() (*Model, error) {
	model.mu.RLock()
	defer model.mu.RUnlock()

	if model.closed {
		return nil, fmt.Errorf("cloning model %q: %w", model.name, rational.ErrEnvClosed)
	}
	if err := model.env.Acquire(); err != nil {
		return nil, fmt.Errorf("cloning model %q: %w", model.name, err)
	}

	newModel := &Model{
		name:     model.name,
		prob:     model.prob.Clone(),
		names:    append([]string(nil), model.names...),
		logger:   model.logger,
		env:      model.env,
		ownEnv:   model.ownEnv,
		oracle:   model.oracle,
		stats:    stats.New(),
		solution: *model.solution.Clone(),
		basis:    model.basis.Clone(),
	}

	newModel.vars = make([]*Variable, len(model.vars))
	for i, v := range model.vars {
		newModel.vars[i] = &Variable{
			model: newModel,
			index: v.index,
		}
	}

	return newModel, nil
}

// Name returns the name provided upon instantiation of a model
func (model *Model) Name() string {
	model.mu.RLock()
	defer model.mu.RUnlock()

	return model.name
}

// SetDirection changes the direction of the model's optimization
func (model *Model) SetDirection(dir Direction) {
	model.mu.Lock()
	defer model.mu.Unlock()

	model.prob.Sense = dir
	model.invalidate()
}

// Direction returns the model's current optimization direction
func (model *Model) Direction() Direction {
	model.mu.RLock()
	defer model.mu.RUnlock()

	return model.direction()
}

func (model *Model) direction() Direction {
	return model.prob.Sense
}

// Statistics returns the statistics the model's sessions accumulate into.
func (model *Model) Statistics() *stats.Statistics {
	return model.stats
}

// Problem returns a copy of the model's exact LP.
func (model *Model) Problem() *lp.Exact {
	model.mu.RLock()
	defer model.mu.RUnlock()

	return model.prob.Clone()
}

// Solution returns a snapshot of the model's certificate store.
func (model *Model) Solution() *Solution {
	model.mu.RLock()
	defer model.mu.RUnlock()

	return model.solution.Clone()
}

// Basis returns the basis of the last refinement session, if any.
func (model *Model) Basis() lp.Basis {
	model.mu.RLock()
	defer model.mu.RUnlock()

	return model.basis.Clone()
}

// invalidate drops the certificate and basis after a structural change.
// Callers must hold the write lock.
func (model *Model) invalidate() {
	model.solution.Clear()
	model.basis = lp.Basis{}
}

func (model *Model) objectiveValue(x []rational.Rational) rational.Rational {
	return model.prob.ObjValue(model.env, x)
}

/* Column-related functions */

func (model *Model) VariableCount() int {
	model.mu.RLock()
	defer model.mu.RUnlock()

	return model.prob.NumCols()
}

// Variables returns a new slice with the model's variables. Changes to the
// slice will not be reflected in the model.
func (model *Model) Variables() []*Variable {
	model.mu.RLock()
	defer model.mu.RUnlock()

	return append([]*Variable(nil), model.vars...)
}

// AddVariable adds a variable to the linear programming model and
// returns a reference to it.
// A freshly instantiated variable has no bounds and an objective
// coefficient of 1.
//
// A variable is bound to its model. Passing a variable created in one
// model to another one fails with ErrDimension.
//
// Empty names will automatically replaced by a unique name.
func (model *Model) AddVariable(name string) (*Variable, error) {
	return model.AddDefinedVariable(name, rational.One, rational.NegInf(), rational.PosInf())
}

// AddDefinedVariable add a variable to the linear programming model
// with its attributes passed as arguments.
// Empty names will automatically replaced by a unique name.
func (model *Model) AddDefinedVariable(name string, coefficient, lowerBound, upperBound rational.Rational) (*Variable, error) {
	model.mu.Lock()
	defer model.mu.Unlock()

	// a new variable is not used by the existing constraints
	index, err := model.prob.AddCol(coefficient, lowerBound, upperBound, nil)
	if err != nil {
		return nil, fmt.Errorf("adding variable: %w", err)
	}

	if name == "" {
		name = fmt.Sprintf("V%d", index)
	}
	v := &Variable{model: model, index: index}
	model.vars = append(model.vars, v)
	model.names = append(model.names, name)
	model.invalidate()

	return v, nil
}

// SetObjectiveFunction defines the objective function for the model as
// a slice of coefficients and a slice of its respective variables.
// E.g.: an objective function of the form 2x+3y is passed as:
//
//	SetObjectiveFunction([]rational.Rational{two, three}, []*Variable{x, y})
//
// Variables not mentioned keep their coefficient.
func (model *Model) SetObjectiveFunction(coefs []rational.Rational, vars []*Variable) error {
	if len(vars) != len(coefs) {
		return fmt.Errorf("%w: %d variables and %d coefficients", ErrDimension, len(vars), len(coefs))
	}

	model.mu.Lock()
	defer model.mu.Unlock()

	for _, v := range vars {
		if err := model.checkVariable(v); err != nil {
			return err
		}
	}
	for i, v := range vars {
		model.prob.Obj[v.index] = coefs[i]
	}
	model.invalidate()

	return nil
}

func (model *Model) checkVariable(v *Variable) error {
	if v == nil || v.model != model {
		return fmt.Errorf("%w: variable does not belong to model %q", ErrDimension, model.name)
	}
	return nil
}

/* Constraint-related functions */

// ConstraintCount returns the number of individual constraints in
// the model
func (model *Model) ConstraintCount() int {
	model.mu.RLock()
	defer model.mu.RUnlock()

	return model.prob.NumRows()
}

// AddConstraint adds a constraint to the model as a lower and an upper
// bounds, a slice of variables and a slice of their respective
// coefficients. Variables mentioned more than once have their
// coefficients summed. Constraints are indexed in the order they are
// added.
func (model *Model) AddConstraint(lower, upper rational.Rational, vars []*Variable, coefs []rational.Rational) error {
	if len(vars) != len(coefs) {
		return fmt.Errorf("%w: %d variables and %d coefficients", ErrDimension, len(vars), len(coefs))
	}

	model.mu.Lock()
	defer model.mu.Unlock()

	cols := make([]int, len(vars))
	for i, v := range vars {
		if err := model.checkVariable(v); err != nil {
			return err
		}
		cols[i] = v.index
	}

	if _, err := model.prob.AddRow(lower, upper, mergeEntries(cols, coefs)); err != nil {
		return fmt.Errorf("%w: %v", ErrDimension, err)
	}
	model.invalidate()

	return nil
}

// mergeEntries builds a sparse row, summing duplicate columns and keeping
// the order of first appearance.
func mergeEntries(cols []int, coefs []rational.Rational) []lp.Entry {
	pos := make(map[int]int, len(cols))
	entries := make([]lp.Entry, 0, len(cols))
	for k, j := range cols {
		if p, ok := pos[j]; ok {
			entries[p].Val = entries[p].Val.Add(coefs[k])
			continue
		}
		pos[j] = len(entries)
		entries = append(entries, lp.Entry{Index: j, Val: coefs[k]})
	}
	return entries
}

// LoadProblem replaces the whole model by the given columns and rows.
// Previously returned variables become invalid; the new ones are available
// through Variables.
func (model *Model) LoadProblem(dir Direction, cols []Column, rows []Row) error {
	prob := &lp.Exact{Sense: dir}
	names := make([]string, len(cols))

	for j, c := range cols {
		if _, err := prob.AddCol(c.Obj, c.Lower, c.Upper, nil); err != nil {
			return fmt.Errorf("%w: column %d: %v", ErrDimension, j, err)
		}
		names[j] = c.Name
		if names[j] == "" {
			names[j] = fmt.Sprintf("V%d", j)
		}
	}
	for i, r := range rows {
		if len(r.Cols) != len(r.Coefs) {
			return fmt.Errorf("%w: row %d has %d columns and %d coefficients", ErrDimension, i, len(r.Cols), len(r.Coefs))
		}
		if _, err := prob.AddRow(r.Lhs, r.Rhs, mergeEntries(r.Cols, r.Coefs)); err != nil {
			return fmt.Errorf("%w: row %d: %v", ErrDimension, i, err)
		}
	}

	model.mu.Lock()
	defer model.mu.Unlock()

	model.prob = prob
	model.names = names
	model.vars = make([]*Variable, len(cols))
	for j := range cols {
		model.vars[j] = &Variable{model: model, index: j}
	}
	model.invalidate()

	return nil
}
