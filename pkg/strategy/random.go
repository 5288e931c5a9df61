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

package strategy

import (
	"math/rand"

	"github.com/Kardyne/heterogeneous-scheduling/pkg/model"
	"github.com/Kardyne/heterogeneous-scheduling/pkg/solver"
)

// random pins tasks to environments drawn once at construction, so that
// every candidate bound of a search is tried with the same assignment.
type random struct {
	positions []int
}

// NewRandom draws a 0/1 position for each of taskCount tasks from rng.
func NewRandom(taskCount int, rng *rand.Rand) Strategy {
	positions := make([]int, taskCount)
	for j := range positions {
		positions[j] = rng.Intn(2)
	}
	return &random{positions: positions}
}

func (r *random) Kind() Kind {
	return Random
}

func (r *random) Assignment() []int {
	return r.positions
}

func (r *random) Apply(p *solver.Problem, l model.Layout) error {
	return pin(p, l, r.positions)
}
