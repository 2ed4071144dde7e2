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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costela/ratlp/lp"
	"github.com/costela/ratlp/rational"
)

func q(s string) rational.Rational {
	return rational.MustParse(s)
}

func newTestModel(t *testing.T, name string, dir Direction, opts ...Option) *Model {
	t.Helper()

	model, err := NewModel(name, dir, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = model.Close() })

	return model
}

func TestInstantiation(t *testing.T) {
	name := "test model 1"
	model := newTestModel(t, name, Maximize)

	assert.Equal(t, name, model.Name())
	assert.Equal(t, Maximize, model.Direction())
	assert.Equal(t, 0, model.VariableCount())
	assert.Equal(t, 0, model.ConstraintCount())

	model.SetDirection(Minimize)
	assert.Equal(t, Minimize, model.Direction())
}

func TestClone(t *testing.T) {
	model := newTestModel(t, "test model 1", Maximize)

	v, err := model.AddDefinedVariable("x", q("1"), q("2"), q("3"))
	require.NoError(t, err)

	err = model.AddConstraint(q("0"), q("1"), []*Variable{v}, []rational.Rational{q("1")})
	require.NoError(t, err)

	modelClone, err := model.Clone()
	require.NoError(t, err)
	defer modelClone.Close()

	assert.Equal(t, model.Name(), modelClone.Name())
	assert.Equal(t, model.Direction(), modelClone.Direction())
	assert.Equal(t, model.VariableCount(), modelClone.VariableCount())
	assert.Equal(t, model.ConstraintCount(), modelClone.ConstraintCount())
	assert.True(t, model.Problem().Equal(modelClone.Problem()))
	assert.NotSame(t, model.Statistics(), modelClone.Statistics())

	// clones are independent
	modelClone.Variables()[0].SetBounds(q("0"), q("5"))
	lo, up := v.Bounds()
	assert.Equal(t, "2", lo.String())
	assert.Equal(t, "3", up.String())
}

func TestCloneSharesPrivateEnv(t *testing.T) {
	model, err := NewModel("test", Minimize)
	require.NoError(t, err)

	modelClone, err := model.Clone()
	require.NoError(t, err)
	require.NoError(t, model.Close())

	// the clone keeps working on the shared environment
	_, err = modelClone.AddVariable("x")
	require.NoError(t, err)
	assert.Equal(t, 1, modelClone.env.Sessions())

	require.NoError(t, modelClone.Close())
	assert.Equal(t, 0, modelClone.env.Sessions())
}

func TestCloneClosed(t *testing.T) {
	model, err := NewModel("test", Minimize)
	require.NoError(t, err)
	require.NoError(t, model.Close())

	modelClone, err := model.Clone()
	assert.Nil(t, modelClone)
	assert.True(t, errors.Is(err, rational.ErrEnvClosed))
}

func TestSharedEnv(t *testing.T) {
	env := rational.NewEnv()

	model, err := NewModel("test", Minimize, WithEnv(env))
	require.NoError(t, err)
	assert.Equal(t, 1, env.Sessions())

	assert.ErrorIs(t, env.Close(), rational.ErrEnvBusy)

	require.NoError(t, model.Close())
	require.NoError(t, model.Close(), "closing twice is a no-op")
	require.NoError(t, env.Close())

	_, err = NewModel("late", Minimize, WithEnv(env))
	assert.ErrorIs(t, err, rational.ErrEnvClosed)
}

func TestNilOptions(t *testing.T) {
	_, err := NewModel("test", Minimize, WithEnv(nil))
	assert.Error(t, err)

	_, err = NewModel("test", Minimize, WithOracle(nil))
	assert.Error(t, err)

	_, err = NewModel("test", Minimize, WithStatistics(nil))
	assert.Error(t, err)
}

func TestAddVariable(t *testing.T) {
	model := newTestModel(t, "test", Maximize)

	v, err := model.AddVariable("")
	require.NoError(t, err)

	assert.Equal(t, "V0", v.Name())
	assert.Equal(t, 0, v.Index())
	assert.Equal(t, "1", v.ObjectiveCoefficient().String())
	lo, up := v.Bounds()
	assert.True(t, lo.IsNegInf())
	assert.True(t, up.IsPosInf())
}

func TestAddVariableWithDetails(t *testing.T) {
	model := newTestModel(t, "test", Maximize)

	v1, err := model.AddDefinedVariable("x", q("31416/10000"), q("0"), q("1"))
	require.NoError(t, err)

	assert.Equal(t, "x", v1.Name())
	assert.Equal(t, "3927/1250", v1.ObjectiveCoefficient().String())
	l, h := v1.Bounds()
	assert.Equal(t, "0", l.String())
	assert.Equal(t, "1", h.String())

	v2, err := model.AddDefinedVariable("y", q("-1"), rational.NegInf(), q("5"))
	require.NoError(t, err)

	assert.Equal(t, "y", v2.Name())
	assert.Equal(t, 1, v2.Index())
	l, h = v2.Bounds()
	assert.True(t, l.IsNegInf())
	assert.Equal(t, "5", h.String())
}

func TestSetObjectiveFunction(t *testing.T) {
	model := newTestModel(t, "test", Maximize)

	v1, _ := model.AddVariable("x")
	v2, _ := model.AddVariable("y")
	v3, _ := model.AddVariable("z")

	vars := []*Variable{v1, v2, v3}
	coefs := []rational.Rational{q("1.3"), q("2.7182"), q("-1/3")}
	require.NoError(t, model.SetObjectiveFunction(coefs, vars))
	for i, coef := range coefs {
		assert.True(t, coef.Equal(vars[i].ObjectiveCoefficient()))
	}

	err := model.SetObjectiveFunction(coefs[:2], vars)
	assert.ErrorIs(t, err, ErrDimension)
}

func TestAddConstraint(t *testing.T) {
	model := newTestModel(t, "test", Minimize)

	x, _ := model.AddVariable("x")
	y, _ := model.AddVariable("y")

	err := model.AddConstraint(q("1"), rational.PosInf(),
		[]*Variable{x, y, x}, []rational.Rational{q("1"), q("2"), q("1/2")})
	require.NoError(t, err)
	assert.Equal(t, 1, model.ConstraintCount())

	p := model.Problem()
	require.Len(t, p.Rows[0], 2)
	assert.Equal(t, 0, p.Rows[0][0].Index)
	assert.Equal(t, "3/2", p.Rows[0][0].Val.String())
	assert.Equal(t, "2", p.Rows[0][1].Val.String())

	err = model.AddConstraint(q("0"), q("1"), []*Variable{x}, nil)
	assert.ErrorIs(t, err, ErrDimension)

	other := newTestModel(t, "other", Minimize)
	z, _ := other.AddVariable("z")
	err = model.AddConstraint(q("0"), q("1"), []*Variable{z}, []rational.Rational{q("1")})
	assert.ErrorIs(t, err, ErrDimension)
	assert.Equal(t, 1, model.ConstraintCount())
}

func TestLoadProblem(t *testing.T) {
	model := newTestModel(t, "test", Minimize)
	_, _ = model.AddVariable("old")

	err := model.LoadProblem(Maximize,
		[]Column{
			{Name: "x", Obj: q("2"), Lower: q("0"), Upper: q("3")},
			{Obj: q("1"), Lower: q("0"), Upper: rational.PosInf()},
		},
		[]Row{
			{Lhs: rational.NegInf(), Rhs: q("4"), Cols: []int{0, 1}, Coefs: []rational.Rational{q("1"), q("1")}},
		})
	require.NoError(t, err)

	assert.Equal(t, Maximize, model.Direction())
	assert.Equal(t, 2, model.VariableCount())
	assert.Equal(t, 1, model.ConstraintCount())
	vars := model.Variables()
	assert.Equal(t, "x", vars[0].Name())
	assert.Equal(t, "V1", vars[1].Name())

	err = model.LoadProblem(Minimize, nil, []Row{{Cols: []int{3}, Coefs: []rational.Rational{q("1")}}})
	assert.ErrorIs(t, err, ErrDimension)
	assert.Equal(t, 2, model.VariableCount(), "failed loads keep the model")

	err = model.LoadProblem(Minimize, nil, []Row{{Cols: []int{0}}})
	assert.ErrorIs(t, err, ErrDimension)
}

func TestMutationInvalidatesSolution(t *testing.T) {
	model := newTestModel(t, "test", Minimize)
	x, _ := model.AddDefinedVariable("x", q("1"), q("1/3"), rational.PosInf())

	model.solution.RecordPrimal([]rational.Rational{q("1/3")}, []rational.Rational{})
	model.basis = lp.Basis{Cols: []lp.VarStatus{lp.OnLower}}

	x.SetObjectiveCoefficient(q("2"))

	assert.False(t, model.Solution().HasPrimal())
	assert.True(t, model.Basis().IsEmpty())
}
