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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoByTwo() *Problem {
	p := NewProblem()
	p.AddColumns(2)
	p.AddRows(2)
	return p
}

func TestProblemAddColumnsAndRows(t *testing.T) {
	p := NewProblem()
	assert.Equal(t, 0, p.AddColumns(3))
	assert.Equal(t, 3, p.AddColumns(2))
	assert.Len(t, p.Columns, 5)
	assert.Equal(t, 0.0, p.Columns[4].Lower)
	assert.True(t, math.IsInf(p.Columns[4].Upper, 1))

	assert.Equal(t, 0, p.AddRows(1))
	assert.True(t, math.IsInf(p.Rows[0].Upper, 1))
}

func TestProblemLoadMatrix(t *testing.T) {
	p := twoByTwo()
	err := p.LoadMatrix(3,
		[]int{0, 1, 1, 7},
		[]int{0, 0, 1, 7},
		[]float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Row: 0, Col: 0, Value: 1},
		{Row: 1, Col: 0, Value: 2},
		{Row: 1, Col: 1, Value: 3},
	}, p.Matrix())
	assert.Equal(t, []float64{5, 2*5 + 3*7}, p.Activity([]float64{5, 7}))
}

func TestProblemLoadMatrixErrors(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		rows   []int
		cols   []int
		values []float64
	}{
		{"short buffers", 2, []int{0}, []int{0}, []float64{1}},
		{"row out of range", 1, []int{2}, []int{0}, []float64{1}},
		{"negative column", 1, []int{0}, []int{-1}, []float64{1}},
		{"duplicate", 2, []int{1, 1}, []int{0, 0}, []float64{1, 2}},
	}
	for _, tt := range tests {
		p := twoByTwo()
		assert.Error(t, p.LoadMatrix(tt.n, tt.rows, tt.cols, tt.values), tt.name)
	}
}

func TestProblemEraseKeepsBuffers(t *testing.T) {
	p := twoByTwo()
	p.Name = "scheduling"
	p.Direction = Maximize
	require.NoError(t, p.LoadMatrix(1, []int{0}, []int{1}, []float64{1}))
	columns := cap(p.Columns)

	p.Erase()
	assert.Empty(t, p.Name)
	assert.Equal(t, Minimize, p.Direction)
	assert.Empty(t, p.Columns)
	assert.Empty(t, p.Rows)
	assert.Empty(t, p.Matrix())
	assert.Equal(t, columns, cap(p.Columns))

	// The duplicate check starts over after an erase.
	p.AddColumns(2)
	p.AddRows(2)
	assert.NoError(t, p.LoadMatrix(1, []int{0}, []int{1}, []float64{1}))
}

func TestProblemFixColumn(t *testing.T) {
	p := twoByTwo()
	require.NoError(t, p.FixColumn(1, 1))
	assert.True(t, p.Columns[1].Fixed())
	assert.False(t, p.Columns[0].Fixed())
	assert.Error(t, p.FixColumn(2, 0))
}

func TestProblemObjectiveValue(t *testing.T) {
	p := twoByTwo()
	p.Columns[0].Objective = 2
	p.Columns[1].Objective = -1
	assert.Equal(t, 2*3.0-4, p.ObjectiveValue([]float64{3, 4}))
}
