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

package config

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/Kardyne/heterogeneous-scheduling/pkg/common/logging"
	"github.com/Kardyne/heterogeneous-scheduling/pkg/common/metrics"
	"github.com/Kardyne/heterogeneous-scheduling/pkg/solver"
	"github.com/Kardyne/heterogeneous-scheduling/pkg/strategy"
	"github.com/Kardyne/heterogeneous-scheduling/pkg/workload"
)

// Config holds all configs of a scheduling run.
type Config struct {
	Workload     workload.Config      `yaml:"workload"`
	Search       SearchConfig         `yaml:"search"`
	Solver       solver.Config        `yaml:"solver"`
	Logging      logging.Config       `yaml:"logging"`
	Metrics      metrics.Config       `yaml:"metrics"`
	SentryConfig logging.SentryConfig `yaml:"sentry"`
}

// SearchConfig is the dichotomy specific config.
type SearchConfig struct {
	// Strategy assigns every task to an environment, random or min-work.
	Strategy string `yaml:"strategy"`

	// LowerBound is the initial lower bound, known to be infeasible.
	LowerBound int `yaml:"lower_bound" validate:"min=0"`

	// UpperBound is the initial upper bound. Zero uses the normalizer of
	// the generated workload.
	UpperBound int `yaml:"upper_bound" validate:"min=0"`
}

// Default returns the config used before any file is merged in.
func Default() Config {
	return Config{
		Search: SearchConfig{
			Strategy: string(strategy.MinimumWork),
		},
		Solver: solver.Config{
			Backend: solver.Gonum,
		},
		Logging: logging.Config{
			Verbosity: 1,
			Format:    logging.FormatText,
		},
	}
}

// Validate checks what struct tags cannot, reporting every problem at once.
func (c *Config) Validate() error {
	var errs error
	if err := c.Workload.Validate(); err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "workload"))
	}
	if _, err := strategy.ParseKind(c.Search.Strategy); err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "search"))
	}
	if c.Search.UpperBound != 0 && c.Search.UpperBound <= c.Search.LowerBound {
		errs = multierr.Append(errs, errors.Errorf(
			"search: upper bound %d must be above lower bound %d",
			c.Search.UpperBound, c.Search.LowerBound))
	}
	if c.Logging.Verbosity < 0 {
		errs = multierr.Append(errs, errors.Errorf(
			"logging: verbosity must not be negative, got %d", c.Logging.Verbosity))
	}
	return errs
}

// StrategyKind returns the parsed strategy of the search section.
func (c *Config) StrategyKind() strategy.Kind {
	kind, _ := strategy.ParseKind(c.Search.Strategy)
	return kind
}
