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

package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/Kardyne/heterogeneous-scheduling/pkg/common/buildversion"
	common_config "github.com/Kardyne/heterogeneous-scheduling/pkg/common/config"
	"github.com/Kardyne/heterogeneous-scheduling/pkg/common/logging"
	"github.com/Kardyne/heterogeneous-scheduling/pkg/common/metrics"
	"github.com/Kardyne/heterogeneous-scheduling/pkg/config"
	"github.com/Kardyne/heterogeneous-scheduling/pkg/dichotomy"
	"github.com/Kardyne/heterogeneous-scheduling/pkg/solver"
	"github.com/Kardyne/heterogeneous-scheduling/pkg/strategy"
	"github.com/Kardyne/heterogeneous-scheduling/pkg/workload"
)

const (
	_appName       = "hetsched"
	_appLogField   = "app"
	_runIDLogField = "run_id"
)

// Exit codes of a run. Invalid configurations and failed runs share
// exitError.
const (
	exitOK = iota
	exitError
	exitNoSolution
)

var (
	version string
	app     = kingpin.New(_appName, "Heterogeneous capacity scheduling by dichotomy")

	cfgFiles = app.Flag(
		"config",
		"YAML config files (can be provided multiple times to merge configs)").
		Short('c').
		ExistingFiles()

	verbosity = app.Flag(
		"verbosity",
		"Log verbosity from 0 (silent) to 3 (every coefficient) "+
			"(logging.verbosity override) (set $VERBOSITY to override)").
		Short('v').
		Default("-1").
		Envar("VERBOSITY").
		Int()

	taskCount = app.Flag(
		"tasks", "Number of tasks (workload.task_count override)").
		Short('t').
		Envar("TASK_COUNT").
		Int()

	groupCount = app.Flag(
		"groups", "Number of task groups (workload.group_count override)").
		Short('g').
		Envar("GROUP_COUNT").
		Int()

	cpuCountA = app.Flag(
		"cpu-a", "CPUs of environment A (workload.cpu_count_a override)").
		Envar("CPU_COUNT_A").
		Int()

	cpuCountB = app.Flag(
		"cpu-b", "CPUs of environment B (workload.cpu_count_b override)").
		Envar("CPU_COUNT_B").
		Int()

	maxTaskTime = app.Flag(
		"max-task-time", "Upper bound of task times (workload.max_task_time override)").
		Envar("MAX_TASK_TIME").
		Int()

	seed = app.Flag(
		"seed", "Seed of the workload and random strategy, 0 keeps workload.seed "+
			"(workload.seed override)").
		Envar("SEED").
		Int64()

	strategyName = app.Flag(
		"strategy", "Assignment strategy, random or min-work (search.strategy override)").
		Short('s').
		Envar("STRATEGY").
		String()

	lowerBound = app.Flag(
		"lower-bound", "Initial lower bound of the search, 0 included "+
			"(search.lower_bound override)").
		Default("-1").
		Envar("LOWER_BOUND").
		Int()

	upperBound = app.Flag(
		"upper-bound", "Initial upper bound of the search, 0 for the normalizer "+
			"(search.upper_bound override)").
		Default("-1").
		Envar("UPPER_BOUND").
		Int()

	backend = app.Flag(
		"solver", "Solver backend (solver.backend override)").
		Envar("SOLVER_BACKEND").
		String()

	enableSentry = app.Flag(
		"enable-sentry", "enable logging hook up to sentry").
		Default("false").
		Envar("ENABLE_SENTRY_LOGGING").
		Bool()

	output = app.Flag(
		"output", "Write a YAML report of the run to this file").
		Short('o').
		Envar("REPORT_OUTPUT").
		String()
)

func main() {
	app.Version(version)
	app.HelpFlag.Short('h')
	kingpin.MustParse(app.Parse(os.Args[1:]))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one search with the parsed flags and returns the exit code.
// The smallest feasible bound is printed on stdout, logs go to stderr.
func run(ctx context.Context, stdout, stderr io.Writer) int {
	cfg, err := loadConfig(*cfgFiles)
	if err != nil {
		fmt.Fprintf(stderr, "Cannot load config: %v\n", err)
		return exitError
	}

	runID := uuid.New()
	cfg.Logging.Fields = withFields(cfg.Logging.Fields, map[string]string{
		_appLogField:   _appName,
		_runIDLogField: runID,
	})
	logger, err := logging.NewLogger(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Cannot create logger: %v\n", err)
		return exitError
	}
	entry := log.NewEntry(logger)

	if *enableSentry {
		cfg.SentryConfig.Enabled = true
	}
	if err := logging.ConfigureSentry(logger, &cfg.SentryConfig); err != nil {
		entry.WithError(err).Error("Cannot configure sentry")
		return exitError
	}

	entry.WithField("files", *cfgFiles).
		WithField("config", cfg).
		Debug("Completed loading config")

	rootScope, scopeCloser, mux := metrics.InitMetricScope(&cfg.Metrics, _appName, entry)
	defer scopeCloser.Close()
	defer metrics.StartRuntimeMetrics(&cfg.Metrics, rootScope.SubScope("runtime"), entry).Close()
	mux.HandleFunc(logging.LevelOverwrite, logging.LevelOverwriteHandler(logger))
	mux.HandleFunc(buildversion.Get, buildversion.Handler(version))
	if cfg.Metrics.Enabled() && cfg.Metrics.Prometheus.ListenAddress != "" {
		server := &http.Server{Addr: cfg.Metrics.Prometheus.ListenAddress, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				entry.WithError(err).Warn("Metrics server stopped")
			}
		}()
		defer server.Close()
	}

	rep := &report{
		RunID:  runID,
		Config: reportConfig{Workload: cfg.Workload, Search: cfg.Search, Solver: cfg.Solver},
	}
	result, err := execute(ctx, cfg, rootScope.SubScope("dichotomy"), entry, rep)
	code := exitCode(err)
	switch {
	case err == nil:
		rep.Status = statusSolved
		fmt.Fprintf(stdout, "%d\n", result.Lambda)
	case code == exitNoSolution:
		rep.Status = statusNoSolution
		fmt.Fprintln(stdout, "No solution found")
	default:
		entry.WithError(err).Error("Search failed")
		return code
	}

	if *output != "" {
		if err := writeReport(*output, rep); err != nil {
			entry.WithError(err).Error("Cannot write report")
			return exitError
		}
		entry.WithField("output", *output).Info("Report written")
	}
	return code
}

// loadConfig merges the config files over the defaults, applies the flag
// overrides and validates the result.
func loadConfig(files []string) (config.Config, error) {
	cfg := config.Default()
	if err := common_config.Merge(&cfg, files...); err != nil {
		return cfg, err
	}
	overrideConfig(&cfg)
	if err := common_config.Validate(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// overrideConfig overrides the loaded config with every CLI flag set.
func overrideConfig(cfg *config.Config) {
	if *verbosity >= 0 {
		cfg.Logging.Verbosity = *verbosity
	}
	if *taskCount != 0 {
		cfg.Workload.TaskCount = *taskCount
	}
	if *groupCount != 0 {
		cfg.Workload.GroupCount = *groupCount
	}
	if *cpuCountA != 0 {
		cfg.Workload.CPUCountA = *cpuCountA
	}
	if *cpuCountB != 0 {
		cfg.Workload.CPUCountB = *cpuCountB
	}
	if *maxTaskTime != 0 {
		cfg.Workload.MaxTaskTime = *maxTaskTime
	}
	if *seed != 0 {
		cfg.Workload.Seed = *seed
	}
	if *strategyName != "" {
		cfg.Search.Strategy = *strategyName
	}
	if *lowerBound >= 0 {
		cfg.Search.LowerBound = *lowerBound
	}
	if *upperBound >= 0 {
		cfg.Search.UpperBound = *upperBound
	}
	if *backend != "" {
		cfg.Solver.Backend = solver.Backend(*backend)
	}
}

// execute generates the workload of cfg and searches its smallest
// feasible bound, filling rep as it goes.
func execute(
	ctx context.Context,
	cfg config.Config,
	scope tally.Scope,
	logger *log.Entry,
	rep *report,
) (*dichotomy.Result, error) {
	rng := rand.New(rand.NewSource(cfg.Workload.Seed))
	tasks, normalizer, err := workload.Generate(cfg.Workload, rng, logger)
	if err != nil {
		return nil, errors.Wrap(err, "generating workload")
	}
	rep.Tasks = tasks
	rep.Normalizer = normalizer

	strat, err := strategy.New(cfg.StrategyKind(), tasks, rng)
	if err != nil {
		return nil, err
	}
	slv, err := solver.New(cfg.Solver, logger)
	if err != nil {
		return nil, errors.Wrap(err, "creating solver")
	}
	driver, err := dichotomy.New(
		cfg.Workload,
		tasks,
		strat,
		slv,
		solver.ParamsForVerbosity(cfg.Logging.Verbosity),
		scope,
		logger,
	)
	if err != nil {
		return nil, errors.Wrap(err, "creating driver")
	}

	upper := cfg.Search.UpperBound
	if upper == 0 {
		upper = normalizer
	}
	logger.WithFields(log.Fields{
		"strategy":    strat.Kind(),
		"backend":     cfg.Solver.Backend,
		"lower_bound": cfg.Search.LowerBound,
		"upper_bound": upper,
		"tasks":       len(tasks),
	}).Info("Starting search")

	start := time.Now()
	result, err := driver.Search(ctx, cfg.Search.LowerBound, upper)
	rep.Duration = time.Since(start)
	if err != nil {
		if nsErr, ok := errors.Cause(err).(*dichotomy.NoSolutionError); ok {
			rep.NoSolution = nsErr
		}
		return nil, err
	}
	rep.Result = result
	return result, nil
}

// exitCode maps the outcome of a run to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case dichotomy.IsNoSolution(err):
		return exitNoSolution
	default:
		return exitError
	}
}

func withFields(fields map[string]string, extra map[string]string) map[string]string {
	merged := make(map[string]string, len(fields)+len(extra))
	for k, v := range fields {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}
