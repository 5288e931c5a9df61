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
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Entry {
	logger := log.New()
	logger.Out = ioutil.Discard
	return log.NewEntry(logger)
}

func get(t *testing.T, mux *http.ServeMux, path string) *http.Response {
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "http://localhost"+path, nil))
	return w.Result()
}

func TestInitMetricScopeNull(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.Enabled())
	var nilCfg *Config
	assert.False(t, nilCfg.Enabled())

	scope, closer, mux := InitMetricScope(cfg, "hetsched", testLogger())
	require.NotNil(t, scope)
	scope.Counter("iterations").Inc(1)

	assert.Equal(t, http.StatusOK, get(t, mux, "/health").StatusCode)
	assert.Equal(t, http.StatusNotFound, get(t, mux, "/metrics").StatusCode)
	assert.NoError(t, closer.Close())
}

func TestInitMetricScopePrometheus(t *testing.T) {
	cfg := &Config{Prometheus: &PrometheusConfig{Enable: true}}
	require.True(t, cfg.Enabled())

	scope, closer, mux := InitMetricScope(cfg, "het-sched", testLogger())
	defer closer.Close()
	scope.SubScope("search").Counter("success").Inc(1)

	assert.Equal(t, http.StatusOK, get(t, mux, "/metrics").StatusCode)
	assert.Equal(t, http.StatusOK, get(t, mux, "/health").StatusCode)
}
