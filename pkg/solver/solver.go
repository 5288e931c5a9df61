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
	"sort"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Status is the outcome of a solve.
type Status int

const (
	// StatusUndefined covers every outcome other than optimal and
	// infeasible: solver failures, iteration limits, unboundedness.
	StatusUndefined Status = iota
	// StatusOptimal means an optimal solution was found.
	StatusOptimal
	// StatusInfeasible means the problem has no feasible solution.
	StatusInfeasible
	// StatusUnbounded means the objective is unbounded.
	StatusUnbounded
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	}
	return "undefined"
}

// Solution is the result of a solve. Objective and Values are only set
// when Status is StatusOptimal.
type Solution struct {
	Status    Status
	Objective float64
	Values    []float64
}

// Optimal returns true if the solve found an optimal solution.
func (s *Solution) Optimal() bool {
	return s != nil && s.Status == StatusOptimal
}

// Message levels of a solver, mirroring the logging verbosity.
const (
	MessageOff = iota
	MessageError
	MessageOn
	MessageAll
)

// Params are the per solve parameters.
type Params struct {
	// MessageLevel is one of MessageOff, MessageError, MessageOn and
	// MessageAll.
	MessageLevel int
}

// ParamsForVerbosity maps a logging verbosity in [0, 3] to solver params.
func ParamsForVerbosity(verbosity int) Params {
	switch {
	case verbosity <= 0:
		return Params{MessageLevel: MessageOff}
	case verbosity == 1:
		return Params{MessageLevel: MessageError}
	case verbosity == 2:
		return Params{MessageLevel: MessageOn}
	}
	return Params{MessageLevel: MessageAll}
}

// Solver solves a loaded problem synchronously.
type Solver interface {
	// Solve returns the status of the problem and, if optimal, the
	// objective and column values. A non nil error reports a solver
	// failure; the returned solution then has StatusUndefined.
	Solve(ctx context.Context, p *Problem, params Params) (*Solution, error)
}

// Backend names a solver implementation.
type Backend string

// Gonum is the pure Go simplex backend and the default.
const Gonum = Backend("gonum")

// Config selects and tunes a solver backend.
type Config struct {
	Backend Backend `yaml:"backend"`
	// Tolerance is the numerical tolerance passed to the backend.
	Tolerance float64 `yaml:"tolerance" validate:"min=0"`
}

type factory func(cfg Config, logger *log.Entry) Solver

var backends = map[Backend]factory{}

func register(b Backend, f factory) {
	backends[b] = f
}

// Backends returns the names of the compiled in backends.
func Backends() []string {
	var names []string
	for b := range backends {
		names = append(names, string(b))
	}
	sort.Strings(names)
	return names
}

// New returns the solver backend named by cfg.Backend, the default backend
// if it is empty.
func New(cfg Config, logger *log.Entry) (Solver, error) {
	if cfg.Backend == "" {
		cfg.Backend = Gonum
	}
	f, ok := backends[cfg.Backend]
	if !ok {
		return nil, errors.Errorf("unknown solver backend %q, available: %s",
			cfg.Backend, strings.Join(Backends(), ", "))
	}
	return f(cfg, logger.WithField("solver", string(cfg.Backend))), nil
}
