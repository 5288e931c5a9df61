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

package workload

import (
	"io/ioutil"
	"math/rand"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func testLogger() *log.Entry {
	logger := log.New()
	logger.Out = ioutil.Discard
	return log.NewEntry(logger)
}

func testConfig() Config {
	return Config{
		TaskCount:   50,
		GroupCount:  4,
		CPUCountA:   3,
		CPUCountB:   5,
		MaxTaskTime: 7,
	}
}

func TestGenerateRanges(t *testing.T) {
	cfg := testConfig()
	tasks, normalizer, err := Generate(cfg, rand.New(rand.NewSource(1)), testLogger())
	require.NoError(t, err)
	require.Len(t, tasks, cfg.TaskCount)

	for i, task := range tasks {
		assert.Equal(t, i+1, task.ID)
		assert.True(t, task.PA >= 1 && task.PA <= cfg.MaxTaskTime, task.String())
		assert.True(t, task.PB >= 1 && task.PB <= cfg.MaxTaskTime, task.String())
		assert.True(t, task.QA >= 1 && task.QA <= cfg.CPUCountA, task.String())
		assert.True(t, task.QB >= 1 && task.QB <= cfg.CPUCountB, task.String())
		assert.True(t, task.Group >= 1 && task.Group <= cfg.GroupCount, task.String())
	}
	assert.Equal(t, Normalizer(tasks), normalizer)
	assert.NoError(t, ValidateTasks(cfg, tasks))
}

func TestGenerateIsReproducible(t *testing.T) {
	cfg := testConfig()
	first, _, err := Generate(cfg, rand.New(rand.NewSource(42)), testLogger())
	require.NoError(t, err)
	second, _, err := Generate(cfg, rand.New(rand.NewSource(42)), testLogger())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateRejectsInvalidConfig(t *testing.T) {
	_, _, err := Generate(Config{}, rand.New(rand.NewSource(1)), testLogger())
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 5)
}

func TestNormalizer(t *testing.T) {
	tasks := []Task{
		{ID: 1, PA: 2, PB: 3, QA: 1, QB: 1, Group: 1},
		{ID: 2, PA: 5, PB: 1, QA: 1, QB: 1, Group: 1},
		{ID: 3, PA: 4, PB: 4, QA: 1, QB: 1, Group: 1},
	}
	assert.Equal(t, 2*(3+5+4), Normalizer(tasks))
	assert.Equal(t, 0, Normalizer(nil))
}

func TestValidateTasks(t *testing.T) {
	cfg := Config{TaskCount: 2, GroupCount: 2, CPUCountA: 1, CPUCountB: 1, MaxTaskTime: 1}

	tests := []struct {
		name   string
		tasks  []Task
		errors int
	}{
		{
			name: "valid",
			tasks: []Task{
				{ID: 1, PA: 1, PB: 1, QA: 1, QB: 1, Group: 1},
				{ID: 2, PA: 1, PB: 1, QA: 1, QB: 1, Group: 2},
			},
		},
		{
			name: "group out of range",
			tasks: []Task{
				{ID: 1, PA: 1, PB: 1, QA: 1, QB: 1, Group: 0},
				{ID: 2, PA: 1, PB: 1, QA: 1, QB: 1, Group: 3},
			},
			errors: 2,
		},
		{
			name: "zero demand",
			tasks: []Task{
				{ID: 1, PA: 1, PB: 1, QA: 0, QB: 1, Group: 1},
				{ID: 2, PA: 1, PB: 1, QA: 1, QB: 1, Group: 1},
			},
			errors: 1,
		},
		{
			name:   "wrong count",
			tasks:  []Task{{ID: 1, PA: 1, PB: 1, QA: 1, QB: 1, Group: 1}},
			errors: 1,
		},
	}

	for _, tt := range tests {
		err := ValidateTasks(cfg, tt.tasks)
		if tt.errors == 0 {
			assert.NoError(t, err, tt.name)
			continue
		}
		assert.Len(t, multierr.Errors(err), tt.errors, tt.name)
	}
}

func TestTaskWork(t *testing.T) {
	task := Task{PA: 2, QA: 3, PB: 4, QB: 5}
	assert.Equal(t, 6, task.WorkA())
	assert.Equal(t, 20, task.WorkB())
}
