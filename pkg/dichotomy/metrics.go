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

package dichotomy

import (
	"github.com/uber-go/tally/v4"
)

// Metrics is the placeholder for the metrics of a search.
type Metrics struct {
	// Iterations counts the candidate bounds tried.
	Iterations tally.Counter

	// SolveFeasible counts solves that found an optimal allocation.
	SolveFeasible tally.Counter
	// SolveInfeasible counts solves that reported no feasible allocation,
	// or any other non optimal status.
	SolveInfeasible tally.Counter
	// SolveFailed counts solves that returned an error.
	SolveFailed tally.Counter
	// SolveDuration times every solve.
	SolveDuration tally.Timer

	SearchSuccess    tally.Counter
	SearchNoSolution tally.Counter

	Lambda     tally.Gauge
	LowerBound tally.Gauge
	UpperBound tally.Gauge
}

// NewMetrics returns a new instance of Metrics.
func NewMetrics(scope tally.Scope) *Metrics {
	solveScope := scope.SubScope("solve")
	searchScope := scope.SubScope("search")

	return &Metrics{
		Iterations: scope.Counter("iterations"),

		SolveFeasible:   solveScope.Counter("feasible"),
		SolveInfeasible: solveScope.Counter("infeasible"),
		SolveFailed:     solveScope.Counter("failed"),
		SolveDuration:   solveScope.Timer("duration"),

		SearchSuccess:    searchScope.Counter("success"),
		SearchNoSolution: searchScope.Counter("no_solution"),

		Lambda:     scope.Gauge("lambda"),
		LowerBound: scope.Gauge("lower_bound"),
		UpperBound: scope.Gauge("upper_bound"),
	}
}
