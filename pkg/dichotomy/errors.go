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

package dichotomy

import (
	"fmt"

	"github.com/pkg/errors"
)

// NoSolutionError is returned when a search ends without any candidate
// bound being found feasible.
type NoSolutionError struct {
	// Lambda is the last candidate bound tried, 0 if none was.
	Lambda int `yaml:"lambda"`
	// InitialLower and InitialUpper are the bounds the search started with.
	InitialLower int `yaml:"initial_lower_bound"`
	InitialUpper int `yaml:"initial_upper_bound"`
	// Lower and Upper are the bounds the search ended with.
	Lower int `yaml:"lower_bound"`
	Upper int `yaml:"upper_bound"`
}

func (e *NoSolutionError) Error() string {
	return fmt.Sprintf("no solution found: lambda %d, lower bound %d | %d, upper bound %d | %d",
		e.Lambda, e.InitialLower, e.Lower, e.InitialUpper, e.Upper)
}

// IsNoSolution returns true if the cause of err is a NoSolutionError.
func IsNoSolution(err error) bool {
	_, ok := errors.Cause(err).(*NoSolutionError)
	return ok
}
