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
	"context"
	"io/ioutil"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"

	"github.com/Kardyne/heterogeneous-scheduling/pkg/model"
	"github.com/Kardyne/heterogeneous-scheduling/pkg/solver"
	"github.com/Kardyne/heterogeneous-scheduling/pkg/strategy"
	"github.com/Kardyne/heterogeneous-scheduling/pkg/workload"
)

// Result is the outcome of a successful search.
type Result struct {
	// Lambda is the smallest candidate bound found feasible.
	Lambda int `yaml:"lambda"`
	// Iterations is the number of candidate bounds tried.
	Iterations int `yaml:"iterations"`
	// Lower and Upper are the bounds the search ended with, Upper == Lambda.
	Lower int `yaml:"lower_bound"`
	Upper int `yaml:"upper_bound"`
	// Objective is the total capacity allocated at Lambda.
	Objective float64 `yaml:"objective"`
	// CapacityA and CapacityB are the capacities of every group at Lambda.
	CapacityA []float64 `yaml:"capacity_a"`
	CapacityB []float64 `yaml:"capacity_b"`
	// Assignment is the environment of every task, 1 for A and 0 for B.
	Assignment []int `yaml:"assignment"`
}

// Driver searches for the smallest candidate bound for which the capacity
// model of a workload is feasible. The problem and the coefficient arena
// are allocated once and rebuilt for every candidate. A Driver is not
// safe for concurrent use.
type Driver struct {
	cfg      workload.Config
	tasks    []workload.Task
	layout   model.Layout
	problem  *solver.Problem
	arena    *model.Arena
	strategy strategy.Strategy
	solver   solver.Solver
	params   solver.Params
	metrics  *Metrics
	logger   *log.Entry
}

// New returns a driver for tasks. The workload is validated here so that
// no model is ever built from an invalid one. A nil logger discards every
// entry.
func New(
	cfg workload.Config,
	tasks []workload.Task,
	strat strategy.Strategy,
	slv solver.Solver,
	params solver.Params,
	scope tally.Scope,
	logger *log.Entry,
) (*Driver, error) {
	if logger == nil {
		discard := log.New()
		discard.Out = ioutil.Discard
		logger = log.NewEntry(discard)
	}
	if err := workload.ValidateTasks(cfg, tasks); err != nil {
		return nil, errors.Wrap(err, "invalid workload")
	}
	if len(strat.Assignment()) != len(tasks) {
		return nil, errors.Errorf("strategy assigns %d tasks, workload has %d",
			len(strat.Assignment()), len(tasks))
	}
	layout := model.NewLayout(cfg.GroupCount, cfg.TaskCount)
	return &Driver{
		cfg:      cfg,
		tasks:    tasks,
		layout:   layout,
		problem:  solver.NewProblem(),
		arena:    model.NewArena(layout),
		strategy: strat,
		solver:   slv,
		params:   params,
		metrics:  NewMetrics(scope),
		logger:   logger.WithField("strategy", string(strat.Kind())),
	}, nil
}

// Try builds the model for lambda, pins it with the strategy and solves
// it. Solver failures are logged and reported as an undefined status; only
// failures to build the model are returned as errors.
func (d *Driver) Try(ctx context.Context, lambda int) (*solver.Solution, error) {
	d.problem.Erase()
	if err := model.Build(d.problem, d.arena, d.cfg, d.tasks, lambda, d.logger); err != nil {
		return nil, errors.Wrapf(err, "building model for lambda %d", lambda)
	}
	if err := d.strategy.Apply(d.problem, d.layout); err != nil {
		return nil, errors.Wrapf(err, "applying %s strategy", d.strategy.Kind())
	}

	start := time.Now()
	sol, err := d.solver.Solve(ctx, d.problem, d.params)
	d.metrics.SolveDuration.Record(time.Since(start))
	if err != nil {
		d.metrics.SolveFailed.Inc(1)
		d.logger.WithError(err).
			WithField("lambda", lambda).
			Warn("Solver failed, counting lambda as infeasible")
		return &solver.Solution{Status: solver.StatusUndefined}, nil
	}
	if sol == nil {
		sol = &solver.Solution{Status: solver.StatusUndefined}
	}
	if sol.Optimal() {
		d.metrics.SolveFeasible.Inc(1)
	} else {
		d.metrics.SolveInfeasible.Inc(1)
	}
	return sol, nil
}

// Search narrows [lower, upper] down to the smallest feasible candidate
// bound, assuming feasibility is monotonic in lambda. upper itself is
// never tried: if no candidate strictly inside the interval is feasible
// the search fails with a NoSolutionError.
func (d *Driver) Search(ctx context.Context, lower, upper int) (*Result, error) {
	if lower < 0 {
		return nil, errors.Errorf("lower bound must not be negative, got %d", lower)
	}

	lb, ub, lambda := lower, upper, 0
	iterations := 0
	var best *solver.Solution
	for ub-lb > 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lambda = (ub + lb) / 2
		iterations++
		d.metrics.Iterations.Inc(1)
		d.metrics.Lambda.Update(float64(lambda))

		d.logger.WithFields(log.Fields{
			"upper_bound": ub,
			"lower_bound": lb,
			"lambda":      lambda,
		}).Debug("Trying candidate bound")

		sol, err := d.Try(ctx, lambda)
		if err != nil {
			return nil, err
		}
		if sol.Optimal() {
			ub = lambda
			best = sol
		} else {
			lb = lambda
		}
		d.metrics.LowerBound.Update(float64(lb))
		d.metrics.UpperBound.Update(float64(ub))
	}

	if best == nil {
		d.metrics.SearchNoSolution.Inc(1)
		err := &NoSolutionError{
			Lambda:       lambda,
			InitialLower: lower,
			InitialUpper: upper,
			Lower:        lb,
			Upper:        ub,
		}
		d.logger.WithFields(log.Fields{
			"lambda":        lambda,
			"initial_lower": lower,
			"lower_bound":   lb,
			"initial_upper": upper,
			"upper_bound":   ub,
		}).Info("No solution found")
		return nil, err
	}

	d.metrics.SearchSuccess.Inc(1)
	result := &Result{
		Lambda:     ub,
		Iterations: iterations,
		Lower:      lb,
		Upper:      ub,
		Objective:  best.Objective,
		CapacityA:  make([]float64, d.cfg.GroupCount),
		CapacityB:  make([]float64, d.cfg.GroupCount),
		Assignment: append([]int(nil), d.strategy.Assignment()...),
	}
	if len(best.Values) == d.layout.Columns() {
		for i := 0; i < d.cfg.GroupCount; i++ {
			result.CapacityA[i] = best.Values[d.layout.CapacityAColumn(i)]
			result.CapacityB[i] = best.Values[d.layout.CapacityBColumn(i)]
		}
	}
	d.logger.WithFields(log.Fields{
		"lambda":     result.Lambda,
		"iterations": result.Iterations,
		"objective":  result.Objective,
	}).Info("Search converged")
	return result, nil
}
