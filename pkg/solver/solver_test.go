// Copyright (c) 2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package solver

import (
	"context"
	"io/ioutil"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Entry {
	logger := log.New()
	logger.Out = ioutil.Discard
	return log.NewEntry(logger)
}

func TestNewDefaultsToGonum(t *testing.T) {
	s, err := New(Config{}, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &gonumSolver{}, s)
	assert.Equal(t, _defaultTolerance, s.(*gonumSolver).tolerance)
	assert.Contains(t, Backends(), string(Gonum))
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New(Config{Backend: "glpk"}, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gonum")
}

func TestParamsForVerbosity(t *testing.T) {
	assert.Equal(t, MessageOff, ParamsForVerbosity(-1).MessageLevel)
	assert.Equal(t, MessageOff, ParamsForVerbosity(0).MessageLevel)
	assert.Equal(t, MessageError, ParamsForVerbosity(1).MessageLevel)
	assert.Equal(t, MessageOn, ParamsForVerbosity(2).MessageLevel)
	assert.Equal(t, MessageAll, ParamsForVerbosity(3).MessageLevel)
	assert.Equal(t, MessageAll, ParamsForVerbosity(9).MessageLevel)
}

func TestSolutionOptimal(t *testing.T) {
	var sol *Solution
	assert.False(t, sol.Optimal())
	assert.False(t, (&Solution{Status: StatusInfeasible}).Optimal())
	assert.True(t, (&Solution{Status: StatusOptimal}).Optimal())
	assert.Equal(t, "optimal", StatusOptimal.String())
	assert.Equal(t, "undefined", Status(42).String())
}

// coverProblem is: minimize x + y with x + y >= 3, x, y in [0, 2].
func coverProblem() *Problem {
	p := NewProblem()
	p.AddColumns(2)
	for j := range p.Columns {
		p.Columns[j].Kind = Integer
		p.Columns[j].Upper = 2
		p.Columns[j].Objective = 1
	}
	p.AddRows(1)
	p.Rows[0].Upper = -3
	if err := p.LoadMatrix(2, []int{0, 0}, []int{0, 1}, []float64{-1, -1}); err != nil {
		panic(err)
	}
	return p
}

func TestGonumSolveOptimal(t *testing.T) {
	s, err := New(Config{}, testLogger())
	require.NoError(t, err)

	sol, err := s.Solve(context.Background(), coverProblem(), ParamsForVerbosity(3))
	require.NoError(t, err)
	require.True(t, sol.Optimal())
	assert.InDelta(t, 3.0, sol.Objective, 1e-6)
	require.Len(t, sol.Values, 2)
	assert.InDelta(t, 3.0, sol.Values[0]+sol.Values[1], 1e-6)
}

func TestGonumSolveInfeasible(t *testing.T) {
	s, err := New(Config{}, testLogger())
	require.NoError(t, err)

	p := coverProblem()
	p.Rows[0].Upper = -5
	sol, err := s.Solve(context.Background(), p, Params{})
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, sol.Status)
}

func TestGonumSolvePinnedColumns(t *testing.T) {
	s, err := New(Config{}, testLogger())
	require.NoError(t, err)

	p := coverProblem()
	require.NoError(t, p.FixColumn(0, 2))
	sol, err := s.Solve(context.Background(), p, Params{})
	require.NoError(t, err)
	require.True(t, sol.Optimal())
	assert.InDelta(t, 3.0, sol.Objective, 1e-6)
	assert.Equal(t, 2.0, sol.Values[0])
	assert.InDelta(t, 1.0, sol.Values[1], 1e-6)

	require.NoError(t, p.FixColumn(1, 0))
	sol, err = s.Solve(context.Background(), p, Params{})
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, sol.Status)

	require.NoError(t, p.FixColumn(1, 1))
	sol, err = s.Solve(context.Background(), p, Params{})
	require.NoError(t, err)
	require.True(t, sol.Optimal())
	assert.Equal(t, 3.0, sol.Objective)
}

func TestGonumSolveCancelled(t *testing.T) {
	s, err := New(Config{}, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sol, err := s.Solve(ctx, coverProblem(), Params{})
	assert.Equal(t, context.Canceled, err)
	assert.False(t, sol.Optimal())
}

// foldedProblem is: minimize x + y with z pinned to 2 and
//
//	-x          <= -1.5
//	2x          <= 7
//	z           <= 3
//	-x - y + z  <= -4
//	0y + z      <= 5
//
// Only the fourth row involves two free columns.
func foldedProblem(t *testing.T) *Problem {
	p := NewProblem()
	p.AddColumns(3)
	for j, name := range []string{"x", "y", "z"} {
		p.Columns[j].Name = name
		p.Columns[j].Kind = Integer
		p.Columns[j].Upper = 10
		p.Columns[j].Objective = 1
	}
	p.Columns[2].Objective = 0
	require.NoError(t, p.FixColumn(2, 2))

	p.AddRows(5)
	for i, limit := range []float64{-1.5, 7, 3, -4, 5} {
		p.Rows[i].Upper = limit
	}
	require.NoError(t, p.LoadMatrix(8,
		[]int{0, 1, 2, 3, 3, 3, 4, 4},
		[]int{0, 0, 2, 0, 1, 2, 1, 2},
		[]float64{-1, 2, 1, -1, -1, 1, 0, 1},
	))
	return p
}

func TestGonumSolveFoldsSparseRows(t *testing.T) {
	s, err := New(Config{}, testLogger())
	require.NoError(t, err)

	sol, err := s.Solve(context.Background(), foldedProblem(t), ParamsForVerbosity(3))
	require.NoError(t, err)
	require.True(t, sol.Optimal())
	assert.InDelta(t, 6.0, sol.Objective, 1e-6)
	assert.InDelta(t, 6.0, sol.Values[0]+sol.Values[1], 1e-6)
	assert.True(t, sol.Values[0] >= 1.5-1e-6 && sol.Values[0] <= 3.5+1e-6)
	assert.Equal(t, 2.0, sol.Values[2])

	// A violated row over pinned columns only.
	p := foldedProblem(t)
	p.Rows[2].Upper = 1
	sol, err = s.Solve(context.Background(), p, ParamsForVerbosity(2))
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, sol.Status)

	// Single column rows that leave x empty.
	p = foldedProblem(t)
	p.Rows[1].Upper = 2
	sol, err = s.Solve(context.Background(), p, ParamsForVerbosity(2))
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, sol.Status)

	// Single column rows meeting at one value.
	p = foldedProblem(t)
	p.Rows[1].Upper = 3
	sol, err = s.Solve(context.Background(), p, Params{})
	require.NoError(t, err)
	require.True(t, sol.Optimal())
	assert.InDelta(t, 1.5, sol.Values[0], 1e-6)
	assert.InDelta(t, 4.5, sol.Values[1], 1e-6)
}
