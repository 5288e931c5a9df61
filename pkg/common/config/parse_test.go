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
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type sample struct {
	Name    string `yaml:"name" validate:"nonzero"`
	Workers int    `yaml:"workers" validate:"min=1"`
	Nested  struct {
		Mode string `yaml:"mode"`
	} `yaml:"nested"`
}

type ParseTestSuite struct {
	suite.Suite

	dir string
}

func TestParseTestSuite(t *testing.T) {
	suite.Run(t, new(ParseTestSuite))
}

func (s *ParseTestSuite) SetupTest() {
	dir, err := ioutil.TempDir("", "config")
	s.Require().NoError(err)
	s.dir = dir
}

func (s *ParseTestSuite) TearDownTest() {
	os.RemoveAll(s.dir)
}

func (s *ParseTestSuite) write(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(ioutil.WriteFile(path, []byte(content), 0644))
	return path
}

func (s *ParseTestSuite) TestMergeInOrder() {
	base := s.write("base.yaml", "name: base\nworkers: 2\nnested:\n  mode: fast\n")
	override := s.write("override.yaml", "workers: 5\n")

	var cfg sample
	s.NoError(Parse(&cfg, base, override))
	s.Equal("base", cfg.Name)
	s.Equal(5, cfg.Workers)
	s.Equal("fast", cfg.Nested.Mode)
}

func (s *ParseTestSuite) TestValidationError() {
	path := s.write("bad.yaml", "workers: 0\n")

	var cfg sample
	err := Parse(&cfg, path)
	s.Require().Error(err)
	verr, ok := err.(ValidationError)
	s.Require().True(ok)
	s.Error(verr.ErrForField("Name"))
	s.Error(verr.ErrForField("Workers"))
	s.Contains(err.Error(), "validation failed")
	s.Contains(err.Error(), "Workers")
}

func (s *ParseTestSuite) TestUnknownKey() {
	path := s.write("typo.yaml", "name: a\nworkers: 1\nworker: 3\n")

	var cfg sample
	err := Parse(&cfg, path)
	s.Require().Error(err)
	s.Contains(err.Error(), "typo.yaml")
}

func (s *ParseTestSuite) TestMergeDoesNotValidate() {
	path := s.write("partial.yaml", "name: partial\n")

	var cfg sample
	s.NoError(Merge(&cfg, path))
	s.Equal("partial", cfg.Name)
	s.Error(Validate(&cfg))
	s.NoError(Merge(&cfg))
}

func (s *ParseTestSuite) TestMissingFile() {
	var cfg sample
	s.Error(Parse(&cfg, filepath.Join(s.dir, "missing.yaml")))
	s.Error(Parse(&cfg))
}

func TestValidate(t *testing.T) {
	cfg := sample{Name: "x", Workers: 1}
	require.NoError(t, Validate(&cfg))

	cfg.Workers = -1
	err := Validate(&cfg)
	assert.IsType(t, ValidationError{}, err)
}
