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

	"github.com/pkg/errors"

	"github.com/Kardyne/heterogeneous-scheduling/pkg/model"
	"github.com/Kardyne/heterogeneous-scheduling/pkg/solver"
	"github.com/Kardyne/heterogeneous-scheduling/pkg/workload"
)

// Kind selects an assignment strategy.
type Kind string

const (
	// Random pins every task to a pre drawn environment.
	Random = Kind("random")
	// MinimumWork pins every task to the environment where it does the
	// least work.
	MinimumWork = Kind("min-work")
)

// ParseKind parses a strategy name. The numeric selectors "1" and "2" are
// accepted for Random and MinimumWork.
func ParseKind(s string) (Kind, error) {
	switch s {
	case string(Random), "1":
		return Random, nil
	case string(MinimumWork), "2":
		return MinimumWork, nil
	}
	return "", errors.Errorf("unknown assignment strategy %q", s)
}

// Strategy pins the assignment columns of a built model before it is
// solved.
type Strategy interface {
	// Kind returns the kind of the strategy.
	Kind() Kind

	// Assignment returns the value every task's assignment column is pinned
	// to, in task order: 1 for environment A, 0 for environment B. The
	// returned slice must not be modified.
	Assignment() []int

	// Apply pins the assignment columns of p, laid out by l.
	Apply(p *solver.Problem, l model.Layout) error
}

// New returns the strategy of the given kind for tasks. rng is only drawn
// from by the random strategy.
func New(kind Kind, tasks []workload.Task, rng *rand.Rand) (Strategy, error) {
	switch kind {
	case Random:
		return NewRandom(len(tasks), rng), nil
	case MinimumWork:
		return NewMinimumWork(tasks), nil
	}
	return nil, errors.Errorf("unknown assignment strategy %q", kind)
}

// pin fixes the assignment column of every task to its value in
// assignment.
func pin(p *solver.Problem, l model.Layout, assignment []int) error {
	if len(assignment) != l.TaskCount {
		return errors.Errorf("assignment of %d tasks for a model of %d tasks",
			len(assignment), l.TaskCount)
	}
	for j, v := range assignment {
		if err := p.FixColumn(l.AssignmentColumn(j), float64(v)); err != nil {
			return errors.Wrapf(err, "pinning task %d", j+1)
		}
	}
	return nil
}
