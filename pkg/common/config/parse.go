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

package config

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/validator.v2"
	"gopkg.in/yaml.v2"
)

// ValidationError is returned when a configuration fails to pass validation.
type ValidationError struct {
	errorMap validator.ErrorMap
}

// ErrForField returns the validation error for the given field.
func (e ValidationError) ErrForField(name string) error {
	return e.errorMap[name]
}

// Error returns the error string from a ValidationError.
func (e ValidationError) Error() string {
	var w bytes.Buffer

	fields := make([]string, 0, len(e.errorMap))
	for f := range e.errorMap {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	fmt.Fprintf(&w, "validation failed")
	for _, f := range fields {
		fmt.Fprintf(&w, "\n   %s: %v", f, e.errorMap[f])
	}
	return w.String()
}

// Parse loads the given configFiles in order, merges them together, and
// parses them into config. The merged config is validated.
func Parse(config interface{}, configFiles ...string) error {
	if len(configFiles) == 0 {
		return errors.New("no files to load")
	}
	if err := Merge(config, configFiles...); err != nil {
		return err
	}
	return Validate(config)
}

// Merge loads the given configFiles in order into config without
// validating it. Later files override the keys they set.
func Merge(config interface{}, configFiles ...string) error {
	for _, fname := range configFiles {
		data, err := ioutil.ReadFile(fname)
		if err != nil {
			return errors.Wrapf(err, "reading %s", fname)
		}
		if err := ParseBytes(config, data); err != nil {
			return errors.Wrapf(err, "parsing %s", fname)
		}
	}
	return nil
}

// ParseBytes merges one YAML document into config without validating it.
func ParseBytes(config interface{}, data []byte) error {
	return yaml.UnmarshalStrict(data, config)
}

// Validate runs the struct tag validators of config.
func Validate(config interface{}) error {
	err := validator.Validate(config)
	if err == nil {
		return nil
	}
	if errorMap, ok := err.(validator.ErrorMap); ok {
		return ValidationError{errorMap: errorMap}
	}
	return err
}
