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

// Package solvertest provides an exact solver for small problems, used to
// check the other backends and the models built for them.
package solvertest

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"github.com/Kardyne/heterogeneous-scheduling/pkg/solver"
)

const _epsilon = 1e-9

// Enumerator solves a problem by trying every integer value of every
// column inside its bounds. Continuous and unbounded columns are rejected.
// It is only meant for problems with a handful of small domains.
type Enumerator struct {
	// Calls counts the solves.
	Calls int
}

// Solve implements solver.Solver.
func (e *Enumerator) Solve(
	ctx context.Context,
	p *solver.Problem,
	_ solver.Params,
) (*solver.Solution, error) {
	e.Calls++
	if err := ctx.Err(); err != nil {
		return &solver.Solution{Status: solver.StatusUndefined}, err
	}

	lows := make([]int, len(p.Columns))
	highs := make([]int, len(p.Columns))
	for j, c := range p.Columns {
		if c.Kind == solver.Continuous && !c.Fixed() {
			return &solver.Solution{Status: solver.StatusUndefined},
				errors.Errorf("column %s is continuous", c.Name)
		}
		lower, upper := c.Lower, c.Upper
		if c.Kind == solver.Binary {
			lower, upper = math.Max(lower, 0), math.Min(upper, 1)
		}
		if math.IsInf(lower, 0) || math.IsInf(upper, 0) {
			return &solver.Solution{Status: solver.StatusUndefined},
				errors.Errorf("column %s is unbounded", c.Name)
		}
		lows[j] = int(math.Ceil(lower - _epsilon))
		highs[j] = int(math.Floor(upper + _epsilon))
		if lows[j] > highs[j] {
			return &solver.Solution{Status: solver.StatusInfeasible}, nil
		}
	}

	x := make([]float64, len(p.Columns))
	for j := range x {
		x[j] = float64(lows[j])
	}

	var best []float64
	bestObj := math.Inf(1)
	sign := 1.0
	if p.Direction == solver.Maximize {
		sign = -1
	}
	for {
		if feasible(p, x) {
			if obj := sign * p.ObjectiveValue(x); obj < bestObj {
				bestObj = obj
				best = append(best[:0], x...)
			}
		}
		if !next(x, lows, highs) {
			break
		}
	}

	if best == nil {
		return &solver.Solution{Status: solver.StatusInfeasible}, nil
	}
	return &solver.Solution{
		Status:    solver.StatusOptimal,
		Objective: sign * bestObj,
		Values:    best,
	}, nil
}

func feasible(p *solver.Problem, x []float64) bool {
	for i, activity := range p.Activity(x) {
		if activity > p.Rows[i].Upper+_epsilon {
			return false
		}
	}
	return true
}

// next advances x to the following point of the grid like an odometer and
// returns false once every point was visited.
func next(x []float64, lows, highs []int) bool {
	for j := range x {
		if int(x[j]) < highs[j] {
			x[j]++
			return true
		}
		x[j] = float64(lows[j])
	}
	return false
}
