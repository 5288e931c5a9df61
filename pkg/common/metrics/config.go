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

package metrics

import (
	"fmt"
	"io"
	nethttp "net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"
	tallyprom "github.com/uber-go/tally/v4/prometheus"
)

// Config is the metrics configuration.
type Config struct {
	Prometheus *PrometheusConfig `yaml:"prometheus"`
	// FlushInterval is how often the root scope reports and runtime
	// metrics are sampled, 1s when zero.
	FlushInterval time.Duration `yaml:"flush_interval"`
	// Runtime enables the runtime metrics collector.
	Runtime bool `yaml:"runtime"`
}

// PrometheusConfig enables the prometheus reporter.
type PrometheusConfig struct {
	Enable bool `yaml:"enable"`
	// ListenAddress serves /metrics and /health while the run lasts.
	ListenAddress string `yaml:"listen_address"`
}

const _defaultFlushInterval = time.Second

// Enabled returns true if a reporter is configured.
func (c *Config) Enabled() bool {
	return c != nil && c.Prometheus != nil && c.Prometheus.Enable
}

// InitMetricScope initializes a root scope and its closer, with a http
// server mux serving the reporter and a health check.
func InitMetricScope(
	cfg *Config,
	rootMetricScope string,
	logger *log.Entry,
) (tally.Scope, io.Closer, *nethttp.ServeMux) {
	mux := nethttp.NewServeMux()
	opts := tally.ScopeOptions{
		Prefix:    rootMetricScope,
		Tags:      map[string]string{},
		Separator: tally.DefaultSeparator,
	}
	if cfg.Enabled() {
		// tally panics if scope name contains "-", hence force convert to "_"
		opts.Prefix = strings.Replace(rootMetricScope, "-", "_", -1)
		opts.Separator = "_"
		promReporter := tallyprom.NewReporter(tallyprom.Options{})
		opts.CachedReporter = promReporter
		logger.Info("Setting up prometheus metrics handler at /metrics")
		mux.Handle("/metrics", promReporter.HTTPHandler())
	} else {
		logger.Debug("No metrics backends configured, using the null reporter")
		opts.Reporter = tally.NullStatsReporter
	}

	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		w.WriteHeader(nethttp.StatusOK)
		fmt.Fprintln(w, `\(★ω★)/`)
	})

	scope, closer := tally.NewRootScope(opts, cfg.flushInterval())
	return scope, closer, mux
}

func (c *Config) flushInterval() time.Duration {
	if c != nil && c.FlushInterval > 0 {
		return c.FlushInterval
	}
	return _defaultFlushInterval
}

// StartRuntimeMetrics starts a runtime collector under scope if enabled
// and returns its closer.
func StartRuntimeMetrics(cfg *Config, scope tally.Scope, logger *log.Entry) io.Closer {
	r := NewRuntimeCollector(scope, cfg.flushInterval(), logger)
	if cfg != nil && cfg.Runtime {
		r.Start()
	}
	return r
}
