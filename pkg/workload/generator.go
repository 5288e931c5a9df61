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
	"math/rand"

	log "github.com/sirupsen/logrus"
)

// randInt returns a uniform integer in [min, max).
func randInt(rng *rand.Rand, min, max int) int {
	return rng.Intn(max-min) + min
}

// Generate draws cfg.TaskCount synthetic tasks from rng. Processing times are
// uniform in [1, MaxTaskTime], demands in [1, CPUCountA] and [1, CPUCountB],
// and groups in [1, GroupCount]. It also returns the normalizer of the
// generated tasks, see Normalizer.
func Generate(cfg Config, rng *rand.Rand, logger *log.Entry) ([]Task, int, error) {
	if err := cfg.Validate(); err != nil {
		return nil, 0, err
	}

	tasks := make([]Task, cfg.TaskCount)
	for i := range tasks {
		t := Task{
			ID:    i + 1,
			PA:    randInt(rng, 1, cfg.MaxTaskTime+1),
			PB:    randInt(rng, 1, cfg.MaxTaskTime+1),
			QA:    randInt(rng, 1, cfg.CPUCountA+1),
			QB:    randInt(rng, 1, cfg.CPUCountB+1),
			Group: randInt(rng, 1, cfg.GroupCount+1),
		}
		tasks[i] = t
		logger.WithFields(log.Fields{
			"task":  t.ID,
			"group": t.Group,
			"p_a":   t.PA,
			"q_a":   t.QA,
			"p_b":   t.PB,
			"q_b":   t.QB,
		}).Debug("Generated task")
	}
	return tasks, Normalizer(tasks), nil
}

// Normalizer returns twice the sum over all tasks of the larger of the two
// processing times. It bounds the optimal lambda from above and is used as
// the initial ceiling of the search.
func Normalizer(tasks []Task) int {
	sum := 0
	for _, t := range tasks {
		if t.PA > t.PB {
			sum += t.PA
		} else {
			sum += t.PB
		}
	}
	return 2 * sum
}
