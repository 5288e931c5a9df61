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
	"github.com/Kardyne/heterogeneous-scheduling/pkg/model"
	"github.com/Kardyne/heterogeneous-scheduling/pkg/solver"
	"github.com/Kardyne/heterogeneous-scheduling/pkg/workload"
)

// minimumWork pins a task to A if its work there is strictly less than in
// B, and to B otherwise.
type minimumWork struct {
	positions []int
}

// NewMinimumWork returns the minimum work strategy for tasks.
func NewMinimumWork(tasks []workload.Task) Strategy {
	positions := make([]int, len(tasks))
	for j, t := range tasks {
		if t.WorkA() < t.WorkB() {
			positions[j] = 1
		}
	}
	return &minimumWork{positions: positions}
}

func (m *minimumWork) Kind() Kind {
	return MinimumWork
}

func (m *minimumWork) Assignment() []int {
	return m.positions
}

func (m *minimumWork) Apply(p *solver.Problem, l model.Layout) error {
	return pin(p, l, m.positions)
}
