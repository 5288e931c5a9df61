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

package solver

import (
	"math"

	"github.com/pkg/errors"
)

// Kind is the kind of a column variable.
type Kind int

const (
	// Continuous is a real valued variable.
	Continuous Kind = iota
	// Integer is a general integer variable.
	Integer
	// Binary is an integer variable restricted to {0, 1}.
	Binary
)

func (k Kind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Integer:
		return "integer"
	case Binary:
		return "binary"
	}
	return "unknown"
}

// Direction is the optimization direction of the objective.
type Direction int

const (
	// Minimize the objective.
	Minimize Direction = iota
	// Maximize the objective.
	Maximize
)

// Column is a decision variable of the problem.
type Column struct {
	// Name is only used for diagnostics.
	Name      string
	Kind      Kind
	Lower     float64
	Upper     float64
	Objective float64
}

// Fixed returns true if the column is pinned to a single value.
func (c Column) Fixed() bool {
	return c.Lower == c.Upper
}

// Row is a constraint of the form -inf <= row <= Upper.
type Row struct {
	// Name is only used for diagnostics.
	Name  string
	Upper float64
}

// Entry is one nonzero coefficient of the constraint matrix.
type Entry struct {
	Row   int
	Col   int
	Value float64
}

// Problem is a mixed integer linear program loaded column by column and row
// by row, with a sparse constraint matrix. A Problem is meant to be erased
// and refilled for every solve; its buffers are kept between fills.
type Problem struct {
	Name          string
	ObjectiveName string
	Direction     Direction
	Columns       []Column
	Rows          []Row
	matrix        []Entry
	seen          map[[2]int]struct{}
}

// NewProblem returns an empty problem.
func NewProblem() *Problem {
	return &Problem{}
}

// Erase clears names, columns, rows and the matrix, keeping allocated
// buffers.
func (p *Problem) Erase() {
	p.Name = ""
	p.ObjectiveName = ""
	p.Direction = Minimize
	p.Columns = p.Columns[:0]
	p.Rows = p.Rows[:0]
	p.matrix = p.matrix[:0]
}

// AddColumns appends n continuous columns bounded to [0, +inf) and returns
// the index of the first one.
func (p *Problem) AddColumns(n int) int {
	first := len(p.Columns)
	for i := 0; i < n; i++ {
		p.Columns = append(p.Columns, Column{Upper: math.Inf(1)})
	}
	return first
}

// AddRows appends n rows without upper limit and returns the index of the
// first one.
func (p *Problem) AddRows(n int) int {
	first := len(p.Rows)
	for i := 0; i < n; i++ {
		p.Rows = append(p.Rows, Row{Upper: math.Inf(1)})
	}
	return first
}

// FixColumn pins column j to v.
func (p *Problem) FixColumn(j int, v float64) error {
	if j < 0 || j >= len(p.Columns) {
		return errors.Errorf("column %d out of range [0, %d)", j, len(p.Columns))
	}
	p.Columns[j].Lower = v
	p.Columns[j].Upper = v
	return nil
}

// LoadMatrix replaces the constraint matrix with the first n triples of
// rows, cols and values. Every triple must address an existing row and
// column, and no (row, column) pair may appear twice.
func (p *Problem) LoadMatrix(n int, rows, cols []int, values []float64) error {
	if n > len(rows) || n > len(cols) || n > len(values) {
		return errors.Errorf("matrix of %d entries does not fit buffers of %d, %d, %d",
			n, len(rows), len(cols), len(values))
	}
	if p.seen == nil {
		p.seen = make(map[[2]int]struct{}, n)
	}
	for k := range p.seen {
		delete(p.seen, k)
	}

	p.matrix = p.matrix[:0]
	for k := 0; k < n; k++ {
		r, c := rows[k], cols[k]
		if r < 0 || r >= len(p.Rows) {
			return errors.Errorf("entry %d: row %d out of range [0, %d)", k, r, len(p.Rows))
		}
		if c < 0 || c >= len(p.Columns) {
			return errors.Errorf("entry %d: column %d out of range [0, %d)", k, c, len(p.Columns))
		}
		key := [2]int{r, c}
		if _, ok := p.seen[key]; ok {
			return errors.Errorf("entry %d: duplicate coefficient at row %d, column %d", k, r, c)
		}
		p.seen[key] = struct{}{}
		p.matrix = append(p.matrix, Entry{Row: r, Col: c, Value: values[k]})
	}
	return nil
}

// Matrix returns the loaded nonzero coefficients. The slice is owned by the
// problem and is only valid until the next call to LoadMatrix or Erase.
func (p *Problem) Matrix() []Entry {
	return p.matrix
}

// Activity returns the value of every row for the column values x.
func (p *Problem) Activity(x []float64) []float64 {
	activity := make([]float64, len(p.Rows))
	for _, e := range p.matrix {
		activity[e.Row] += e.Value * x[e.Col]
	}
	return activity
}

// ObjectiveValue returns the objective for the column values x.
func (p *Problem) ObjectiveValue(x []float64) float64 {
	var obj float64
	for j, c := range p.Columns {
		obj += c.Objective * x[j]
	}
	return obj
}
