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
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Task is a unit of work that runs either in environment A or in
// environment B. Tasks are immutable once generated.
type Task struct {
	// ID is the 1-based index of the task.
	ID int `yaml:"id"`
	// PA and PB are the processing times in environment A and B.
	PA int `yaml:"p_a"`
	PB int `yaml:"p_b"`
	// QA and QB are the resource demands in environment A and B.
	QA int `yaml:"q_a"`
	QB int `yaml:"q_b"`
	// Group is the 1-based index of the capacity pool the task belongs to.
	Group int `yaml:"group"`
}

// WorkA returns the work of the task when it runs in environment A.
func (t Task) WorkA() int {
	return t.PA * t.QA
}

// WorkB returns the work of the task when it runs in environment B.
func (t Task) WorkB() int {
	return t.PB * t.QB
}

func (t Task) String() string {
	return fmt.Sprintf("[%d]{%d}(a) %d, %d (b) %d, %d",
		t.ID, t.Group, t.PA, t.QA, t.PB, t.QB)
}

// Config describes the size of a workload and the capacity ceilings of
// both environments.
type Config struct {
	TaskCount   int   `yaml:"task_count" validate:"min=1"`
	GroupCount  int   `yaml:"group_count" validate:"min=1"`
	CPUCountA   int   `yaml:"cpu_count_a" validate:"min=1"`
	CPUCountB   int   `yaml:"cpu_count_b" validate:"min=1"`
	MaxTaskTime int   `yaml:"max_task_time" validate:"min=1"`
	Seed        int64 `yaml:"seed"`
}

// Validate returns every invalid field of the configuration at once.
func (c Config) Validate() error {
	var err error
	if c.TaskCount < 1 {
		err = multierr.Append(err, errors.Errorf("task count must be positive, got %d", c.TaskCount))
	}
	if c.GroupCount < 1 {
		err = multierr.Append(err, errors.Errorf("group count must be positive, got %d", c.GroupCount))
	}
	if c.CPUCountA < 1 {
		err = multierr.Append(err, errors.Errorf("cpu count A must be positive, got %d", c.CPUCountA))
	}
	if c.CPUCountB < 1 {
		err = multierr.Append(err, errors.Errorf("cpu count B must be positive, got %d", c.CPUCountB))
	}
	if c.MaxTaskTime < 1 {
		err = multierr.Append(err, errors.Errorf("max task time must be positive, got %d", c.MaxTaskTime))
	}
	return err
}

// ValidateTasks checks that the tasks match the configuration: one task per
// configured slot, positive times and demands, and a group in range.
func ValidateTasks(cfg Config, tasks []Task) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if len(tasks) != cfg.TaskCount {
		return errors.Errorf("expected %d tasks, got %d", cfg.TaskCount, len(tasks))
	}
	var err error
	for i, t := range tasks {
		if t.PA < 1 || t.PB < 1 || t.QA < 1 || t.QB < 1 {
			err = multierr.Append(err, errors.Errorf(
				"task %d: times and demands must be positive: %v", i+1, t))
		}
		if t.Group < 1 || t.Group > cfg.GroupCount {
			err = multierr.Append(err, errors.Errorf(
				"task %d: group %d out of range [1, %d]", i+1, t.Group, cfg.GroupCount))
		}
	}
	return err
}
