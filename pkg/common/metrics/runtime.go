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
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"
	"go.uber.org/atomic"
)

// _numGCThreshold comes from the PauseNs buffer size https://golang.org/pkg/runtime/#MemStats
const _numGCThreshold = uint32(256)

type runtimeMetrics struct {
	numGoRoutines   tally.Gauge
	goMaxProcs      tally.Gauge
	memoryAllocated tally.Gauge
	memoryHeap      tally.Gauge
	memoryHeapInuse tally.Gauge
	memoryStack     tally.Gauge
	numGC           tally.Counter
	gcPauseMs       tally.Timer
}

// RuntimeCollector periodically reports memory, goroutine and GC metrics
// of the process while a search runs.
type RuntimeCollector struct {
	collectInterval time.Duration
	metrics         runtimeMetrics
	lastNumGC       atomic.Uint32
	started         atomic.Bool
	quit            chan struct{}
	logger          *log.Entry
}

// NewRuntimeCollector creates a new RuntimeCollector reporting to scope.
func NewRuntimeCollector(
	scope tally.Scope,
	collectInterval time.Duration,
	logger *log.Entry,
) *RuntimeCollector {
	var memstats runtime.MemStats
	runtime.ReadMemStats(&memstats)
	r := &RuntimeCollector{
		collectInterval: collectInterval,
		metrics: runtimeMetrics{
			numGoRoutines:   scope.Gauge("num_goroutines"),
			goMaxProcs:      scope.Gauge("gomaxprocs"),
			memoryAllocated: scope.Gauge("memory_allocated"),
			memoryHeap:      scope.Gauge("memory_heap"),
			memoryHeapInuse: scope.Gauge("memory_heapinuse"),
			memoryStack:     scope.Gauge("memory_stack"),
			numGC:           scope.Counter("memory_num_gc"),
			gcPauseMs:       scope.Timer("memory_gc_pause_ms"),
		},
		quit:   make(chan struct{}),
		logger: logger,
	}
	r.lastNumGC.Store(memstats.NumGC)
	return r
}

// Start starts the goroutine emitting metrics every collect interval.
// Starting a running collector does nothing.
func (r *RuntimeCollector) Start() {
	if !r.started.CompareAndSwap(false, true) {
		return
	}
	r.logger.Debug("Starting runtime metrics collection")
	go func() {
		ticker := time.NewTicker(r.collectInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.generate()
			case <-r.quit:
				return
			}
		}
	}()
}

// IsRunning returns true if the collector has been started.
func (r *RuntimeCollector) IsRunning() bool {
	return r.started.Load()
}

// Close stops the collection and emits a last sample. A collector cannot
// be restarted.
func (r *RuntimeCollector) Close() error {
	if r.started.Load() {
		close(r.quit)
		r.generate()
	}
	return nil
}

func (r *RuntimeCollector) generate() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	r.metrics.numGoRoutines.Update(float64(runtime.NumGoroutine()))
	r.metrics.goMaxProcs.Update(float64(runtime.GOMAXPROCS(0)))
	r.metrics.memoryAllocated.Update(float64(memStats.Alloc))
	r.metrics.memoryHeap.Update(float64(memStats.HeapAlloc))
	r.metrics.memoryHeapInuse.Update(float64(memStats.HeapInuse))
	r.metrics.memoryStack.Update(float64(memStats.StackInuse))

	// NumGC only grows, unless it wraps at 2^32.
	num := memStats.NumGC
	lastNum := r.lastNumGC.Swap(num)
	if delta := num - lastNum; delta > 0 {
		r.metrics.numGC.Inc(int64(delta))
		// Older pauses are gone from the PauseNs ring.
		if delta >= _numGCThreshold {
			lastNum = num - _numGCThreshold
		}
		for i := lastNum; i != num; i++ {
			pause := memStats.PauseNs[i%256]
			r.metrics.gcPauseMs.Record(time.Duration(pause))
		}
	}
}
