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

package logging

import (
	"io"
	"io/ioutil"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	// FormatText is the human readable logrus format.
	FormatText = "text"
	// FormatJSON writes one JSON object per entry.
	FormatJSON = "json"
)

// Config is the logging configuration.
type Config struct {
	// Verbosity is 0 for silence, 1 for progress, 2 for every candidate
	// bound and 3 for every model coefficient.
	Verbosity int `yaml:"verbosity" validate:"min=0"`
	// Format is either text or json, text when empty.
	Format string `yaml:"format"`
	// Fields are added to every entry.
	Fields map[string]string `yaml:"fields"`
}

// NewLogger returns a logger writing to out with the level and format of
// cfg. Nothing is written at verbosity 0.
func NewLogger(cfg Config, out io.Writer) (*log.Logger, error) {
	var formatter log.Formatter
	switch cfg.Format {
	case "", FormatText:
		formatter = &log.TextFormatter{DisableTimestamp: true}
	case FormatJSON:
		formatter = &log.JSONFormatter{}
	default:
		return nil, errors.Errorf("unknown log format %q", cfg.Format)
	}
	if len(cfg.Fields) > 0 {
		fields := make(log.Fields, len(cfg.Fields))
		for k, v := range cfg.Fields {
			fields[k] = v
		}
		formatter = LogFieldFormatter{Fields: fields, Formatter: formatter}
	}

	logger := log.New()
	logger.Formatter = formatter
	logger.Out = out
	if cfg.Verbosity <= 0 {
		logger.Out = ioutil.Discard
	}
	logger.SetLevel(LevelForVerbosity(cfg.Verbosity))
	return logger, nil
}
