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
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/uber-go/tally/v4"
)

func TestRuntimeCollectorGenerate(t *testing.T) {
	scope := tally.NewTestScope("", nil)
	r := NewRuntimeCollector(scope, time.Hour, testLogger())

	runtime.GC()
	r.generate()

	snapshot := scope.Snapshot()
	gauges := make(map[string]float64)
	for _, g := range snapshot.Gauges() {
		gauges[g.Name()] = g.Value()
	}
	assert.True(t, gauges["num_goroutines"] >= 1)
	assert.Equal(t, float64(runtime.GOMAXPROCS(0)), gauges["gomaxprocs"])
	assert.True(t, gauges["memory_heap"] > 0)

	var numGC int64
	for _, c := range snapshot.Counters() {
		if c.Name() == "memory_num_gc" {
			numGC = c.Value()
		}
	}
	assert.True(t, numGC >= 1)
}

func TestRuntimeCollectorStartClose(t *testing.T) {
	scope := tally.NewTestScope("", nil)
	r := NewRuntimeCollector(scope, time.Millisecond, testLogger())
	assert.False(t, r.IsRunning())
	assert.NoError(t, r.Close())

	r.Start()
	r.Start()
	assert.True(t, r.IsRunning())
	assert.Eventually(t, func() bool {
		return len(scope.Snapshot().Gauges()) > 0
	}, time.Second, time.Millisecond)
	assert.NoError(t, r.Close())
}

func TestStartRuntimeMetrics(t *testing.T) {
	closer := StartRuntimeMetrics(&Config{}, tally.NoopScope, testLogger())
	assert.False(t, closer.(*RuntimeCollector).IsRunning())
	assert.NoError(t, closer.Close())

	closer = StartRuntimeMetrics(&Config{Runtime: true}, tally.NoopScope, testLogger())
	assert.True(t, closer.(*RuntimeCollector).IsRunning())
	assert.NoError(t, closer.Close())
}
