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

package model

import (
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/Kardyne/heterogeneous-scheduling/pkg/solver"
	"github.com/Kardyne/heterogeneous-scheduling/pkg/workload"
)

const (
	// ProblemName is the name given to every built problem.
	ProblemName = "scheduling"
	// ObjectiveName is the name of the objective, the allocated capacity.
	ObjectiveName = "cpu_count"
)

// Build fills the erased problem p with the capacity model of tasks for the
// candidate bound lambda, using arena for the coefficients.
//
// With x_j the assignment of task j (1 runs in A, 0 runs in B) and A_i, B_i
// the capacities of group i, the rows are:
//
//	group A:  sum p_a*q_a*x_j - lambda*A_i                 <= 0
//	group B:  -sum p_b*q_b*x_j - lambda*B_i                <= -sum p_b*q_b
//	qa:       q_a*x_j - A_g                                <= 0
//	pa:       p_a*x_j                                      <= lambda
//	qb:       -q_b*x_j - B_g                               <= -q_b
//	pb:       -p_b*x_j                                     <= lambda - p_b
//	sum A:    sum p_a*q_a*x_j                              <= lambda*cpu_count_a
//	sum B:    -sum p_b*q_b*x_j                             <= lambda*cpu_count_b - sum p_b*q_b
//
// The B side rows are the A side ones written for (1 - x_j) with the
// constant moved to the limit. The objective minimizes the sum of all
// capacities.
func Build(
	p *solver.Problem,
	arena *Arena,
	cfg workload.Config,
	tasks []workload.Task,
	lambda int,
	logger *log.Entry,
) error {
	if logger == nil {
		return errors.New("logger must not be nil")
	}
	if err := workload.ValidateTasks(cfg, tasks); err != nil {
		return errors.Wrap(err, "invalid workload")
	}
	if len(p.Columns) != 0 || len(p.Rows) != 0 {
		return errors.New("problem must be erased before it is built")
	}
	l := NewLayout(cfg.GroupCount, cfg.TaskCount)
	if err := arena.fits(l); err != nil {
		return err
	}
	arena.Reset()

	trace := logger.Logger.IsLevelEnabled(log.TraceLevel)
	lam := float64(lambda)

	p.Name = ProblemName
	p.ObjectiveName = ObjectiveName
	p.Direction = solver.Minimize

	sumGroupB := make([]float64, cfg.GroupCount)
	var sumTotalB float64

	p.AddColumns(l.Columns())
	for i := 0; i < cfg.GroupCount; i++ {
		ca, cb := l.CapacityAColumn(i), l.CapacityBColumn(i)
		p.Columns[ca] = solver.Column{
			Name:      fmt.Sprintf("la%d", i+1),
			Kind:      solver.Integer,
			Lower:     0,
			Upper:     float64(cfg.CPUCountA),
			Objective: 1,
		}
		p.Columns[cb] = solver.Column{
			Name:      fmt.Sprintf("lb%d", i+1),
			Kind:      solver.Integer,
			Lower:     0,
			Upper:     float64(cfg.CPUCountB),
			Objective: 1,
		}
		k := l.GroupSlot(i)
		arena.set(k, l.GroupARow(i), ca, -lam)
		arena.set(k+1, l.GroupBRow(i), cb, -lam)
	}

	for j, t := range tasks {
		x := l.AssignmentColumn(j)
		g := t.Group - 1
		workA, workB := float64(t.WorkA()), float64(t.WorkB())
		p.Columns[x] = solver.Column{
			Name:  fmt.Sprintf("x%d", t.ID),
			Kind:  solver.Binary,
			Lower: 0,
			Upper: 1,
		}

		k := l.TaskGroupSlot(j)
		arena.set(k, l.GroupARow(g), x, workA)
		arena.set(k+1, l.GroupBRow(g), x, -workB)
		sumGroupB[g] += workB
		sumTotalB += workB

		r := l.TaskRow(j)
		k = l.TaskRowSlot(j)
		// qa
		arena.set(k, r, x, float64(t.QA))
		arena.set(k+1, r, l.CapacityAColumn(g), -1)
		// pa
		arena.set(k+2, r+1, x, float64(t.PA))
		// qb
		arena.set(k+3, r+2, x, -float64(t.QB))
		arena.set(k+4, r+2, l.CapacityBColumn(g), -1)
		// pb
		arena.set(k+5, r+3, x, -float64(t.PB))

		k = l.TaskSumSlot(j)
		arena.set(k, l.SumARow(), x, workA)
		arena.set(k+1, l.SumBRow(), x, -workB)
	}

	if trace {
		for k := 0; k < arena.Len(); k++ {
			logger.WithFields(log.Fields{
				"slot":  k,
				"row":   arena.Rows[k],
				"col":   arena.Cols[k],
				"value": arena.Values[k],
			}).Trace("Matrix coefficient")
		}
	}

	p.AddRows(l.Rows())
	for i := 0; i < cfg.GroupCount; i++ {
		p.Rows[l.GroupARow(i)] = solver.Row{
			Name:  fmt.Sprintf("a_g%d", i+1),
			Upper: 0,
		}
		p.Rows[l.GroupBRow(i)] = solver.Row{
			Name:  fmt.Sprintf("b_g%d", i+1),
			Upper: -sumGroupB[i],
		}
	}
	for j, t := range tasks {
		r := l.TaskRow(j)
		p.Rows[r] = solver.Row{Name: fmt.Sprintf("qa_x%d", t.ID), Upper: 0}
		p.Rows[r+1] = solver.Row{Name: fmt.Sprintf("pa_x%d", t.ID), Upper: lam}
		p.Rows[r+2] = solver.Row{Name: fmt.Sprintf("qb_x%d", t.ID), Upper: -float64(t.QB)}
		p.Rows[r+3] = solver.Row{Name: fmt.Sprintf("pb_x%d", t.ID), Upper: lam - float64(t.PB)}
	}
	p.Rows[l.SumARow()] = solver.Row{
		Name:  "sum_a",
		Upper: lam * float64(cfg.CPUCountA),
	}
	p.Rows[l.SumBRow()] = solver.Row{
		Name:  "sum_b",
		Upper: lam*float64(cfg.CPUCountB) - sumTotalB,
	}

	if trace {
		for i, row := range p.Rows {
			logger.WithFields(log.Fields{
				"row":   i,
				"name":  row.Name,
				"upper": row.Upper,
			}).Trace("Row limit")
		}
	}

	if unset := arena.Unset(); len(unset) > 0 {
		return errors.Errorf("%d matrix slots left unset, first %d", len(unset), unset[0])
	}
	return errors.Wrap(
		p.LoadMatrix(arena.Len(), arena.Rows, arena.Cols, arena.Values),
		"loading matrix")
}
