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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costela/ratlp/rational"
)

func TestValidateOptimal(t *testing.T) {
	model, _ := thirdModel(t, lowerBoundOracle(identity))

	res, err := model.Refine(context.Background(), exactOptions())
	require.NoError(t, err)

	report, err := model.Validate(res, "1/3", rational.Zero)
	require.NoError(t, err)
	assert.True(t, report.Passed, report.String())
	assert.True(t, report.ObjectiveViolation.IsZero())

	report, err = model.Validate(res, "0.3333", q("1e-9"))
	require.NoError(t, err)
	assert.False(t, report.Passed)
	assert.Contains(t, report.String(), "validation fail")

	report, err = model.Validate(res, "+infinity", q("1e-9"))
	require.NoError(t, err)
	assert.False(t, report.Passed)
	assert.True(t, report.ObjectiveViolation.IsPosInf())

	_, err = model.Validate(res, "one third", q("1e-9"))
	assert.ErrorIs(t, err, rational.ErrParse)
}

func TestValidateUncertified(t *testing.T) {
	model, _ := fixedThirdModel(t)

	opts := exactOptions()
	opts.RefinementLimit = 0
	res, err := model.Refine(context.Background(), opts)
	require.NoError(t, err)
	require.Equal(t, StatusLimitReached, res.Status)

	report, err := model.Validate(res, "1/3", q("1e-6"))
	require.NoError(t, err)
	assert.True(t, report.Passed, "single precision is good enough for 1e-6")
	assert.False(t, report.Violations.Bound.IsZero())

	report, err = model.Validate(res, "1/3", q("1e-12"))
	require.NoError(t, err)
	assert.False(t, report.Passed)
}

func TestValidateInfeasible(t *testing.T) {
	model := newTestModel(t, "rows only", Maximize)
	require.NoError(t, model.AddConstraint(q("1"), q("2"), nil, nil))

	res, err := model.Refine(context.Background(), DefaultRefineOptions())
	require.NoError(t, err)
	require.Equal(t, OutcomeInfeasible, res.Outcome)

	report, err := model.Validate(res, "-infinity", q("1e-9"))
	require.NoError(t, err)
	assert.True(t, report.Passed)
	assert.True(t, report.CertificateValid)

	report, err = model.Validate(res, "+infinity", q("1e-9"))
	require.NoError(t, err)
	assert.False(t, report.Passed)

	_, err = model.Violations(res)
	assert.ErrorIs(t, err, ErrCertificate)
}
