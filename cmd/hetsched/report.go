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
	"io/ioutil"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/Kardyne/heterogeneous-scheduling/pkg/config"
	"github.com/Kardyne/heterogeneous-scheduling/pkg/dichotomy"
	"github.com/Kardyne/heterogeneous-scheduling/pkg/solver"
	"github.com/Kardyne/heterogeneous-scheduling/pkg/workload"
)

const (
	statusSolved     = "solved"
	statusNoSolution = "no_solution"
)

// report is the YAML document written by --output.
type report struct {
	RunID      string                     `yaml:"run_id"`
	Status     string                     `yaml:"status"`
	Duration   time.Duration              `yaml:"duration"`
	Config     reportConfig               `yaml:"config"`
	Normalizer int                        `yaml:"normalizer"`
	Result     *dichotomy.Result          `yaml:"result,omitempty"`
	NoSolution *dichotomy.NoSolutionError `yaml:"no_solution,omitempty"`
	Tasks      []workload.Task            `yaml:"tasks"`
}

// reportConfig is the part of the config that decides the result.
type reportConfig struct {
	Workload workload.Config     `yaml:"workload"`
	Search   config.SearchConfig `yaml:"search"`
	Solver   solver.Config       `yaml:"solver"`
}

func writeReport(path string, rep *report) error {
	data, err := yaml.Marshal(rep)
	if err != nil {
		return errors.Wrap(err, "marshaling report")
	}
	return errors.Wrapf(ioutil.WriteFile(path, data, 0644), "writing %s", path)
}

func readReport(path string) (*report, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	var rep report
	if err := yaml.Unmarshal(data, &rep); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return &rep, nil
}
