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
	"context"
	"fmt"
	"math"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const _defaultTolerance = 1e-10

func init() {
	register(Gonum, newGonum)
}

// gonumSolver solves the linear relaxation of a problem with the gonum
// simplex. Column kinds only contribute their implicit bounds, so integer
// columns may come back fractional. Pinned columns are substituted into the
// row limits before solving, and rows left with at most one free column
// are handled without the simplex.
type gonumSolver struct {
	tolerance float64
	logger    *log.Entry
}

func newGonum(cfg Config, logger *log.Entry) Solver {
	tol := cfg.Tolerance
	if tol <= 0 {
		tol = _defaultTolerance
	}
	return &gonumSolver{
		tolerance: tol,
		logger:    logger,
	}
}

// columnBounds returns the effective bounds of a column, binary columns are
// clamped to [0, 1].
func columnBounds(c Column) (float64, float64) {
	lower, upper := c.Lower, c.Upper
	if c.Kind == Binary {
		lower = math.Max(lower, 0)
		upper = math.Min(upper, 1)
	}
	return lower, upper
}

func (s *gonumSolver) Solve(
	ctx context.Context,
	p *Problem,
	params Params,
) (sol *Solution, err error) {
	if err := ctx.Err(); err != nil {
		return &Solution{Status: StatusUndefined}, err
	}
	defer func() {
		if r := recover(); r != nil {
			sol = &Solution{Status: StatusUndefined}
			err = errors.Errorf("gonum simplex: %v", r)
		}
	}()

	values := make([]float64, len(p.Columns))
	lowers := make([]float64, len(p.Columns))
	uppers := make([]float64, len(p.Columns))
	// free maps a column to its index among the non pinned columns, -1 if
	// the column is pinned.
	free := make([]int, len(p.Columns))
	var freeCols []int
	for j, c := range p.Columns {
		lower, upper := columnBounds(c)
		if lower > upper {
			return &Solution{Status: StatusInfeasible}, nil
		}
		lowers[j], uppers[j] = lower, upper
		if lower == upper {
			values[j] = lower
			free[j] = -1
			continue
		}
		free[j] = len(freeCols)
		freeCols = append(freeCols, j)
	}

	// Split every finite row into its limit minus the pinned contribution
	// and its nonzero coefficients on free columns.
	type sparseRow map[int]float64
	limits := make([]float64, len(p.Rows))
	rowFree := make([]sparseRow, len(p.Rows))
	for i, r := range p.Rows {
		limits[i] = r.Upper
	}
	for _, e := range p.Matrix() {
		if math.IsInf(limits[e.Row], 1) || e.Value == 0 {
			continue
		}
		if k := free[e.Col]; k >= 0 {
			if rowFree[e.Row] == nil {
				rowFree[e.Row] = sparseRow{}
			}
			rowFree[e.Row][k] += e.Value
		} else {
			limits[e.Row] -= e.Value * values[e.Col]
		}
	}

	// Rows over pinned columns only are checked here, rows over a single
	// free column tighten its bounds. Only the rest reach the simplex.
	var gRows []sparseRow
	var h []float64
	for i, row := range rowFree {
		limit := limits[i]
		if math.IsInf(limit, 1) {
			continue
		}
		switch len(row) {
		case 0:
			if limit < -s.tolerance {
				s.logFailedRow(params, i, limit)
				return &Solution{Status: StatusInfeasible}, nil
			}
		case 1:
			for k, v := range row {
				j := freeCols[k]
				if v > 0 {
					uppers[j] = math.Min(uppers[j], limit/v)
				} else {
					lowers[j] = math.Max(lowers[j], limit/v)
				}
			}
		default:
			gRows = append(gRows, row)
			h = append(h, limit)
		}
	}
	for _, j := range freeCols {
		if lowers[j] > uppers[j]+s.tolerance {
			if params.MessageLevel >= MessageOn {
				s.logger.WithFields(log.Fields{
					"column": p.Columns[j].Name,
					"lower":  lowers[j],
					"upper":  uppers[j],
				}).Debug("Rows leave a column without values")
			}
			return &Solution{Status: StatusInfeasible}, nil
		}
		uppers[j] = math.Max(uppers[j], lowers[j])
	}

	if len(freeCols) == 0 {
		return &Solution{
			Status:    StatusOptimal,
			Objective: p.ObjectiveValue(values),
			Values:    values,
		}, nil
	}

	for k, j := range freeCols {
		if !math.IsInf(uppers[j], 1) {
			gRows = append(gRows, sparseRow{k: 1})
			h = append(h, uppers[j])
		}
		if !math.IsInf(lowers[j], -1) {
			gRows = append(gRows, sparseRow{k: -1})
			h = append(h, -lowers[j])
		}
	}

	sign := 1.0
	if p.Direction == Maximize {
		sign = -1
	}
	c := make([]float64, len(freeCols))
	for k, j := range freeCols {
		c[k] = sign * p.Columns[j].Objective
	}
	g := mat.NewDense(len(gRows), len(freeCols), nil)
	for i, row := range gRows {
		for k, v := range row {
			g.Set(i, k, v)
		}
	}

	cNew, aNew, bNew := lp.Convert(c, g, h, nil, nil)
	if params.MessageLevel >= MessageAll {
		rows, cols := aNew.Dims()
		s.logger.WithFields(log.Fields{
			"rows":       rows,
			"columns":    cols,
			"pinned":     len(p.Columns) - len(freeCols),
			"dense_rows": len(gRows),
		}).Trace("Solving standard form")
	}

	_, x, err := lp.Simplex(cNew, aNew, bNew, s.tolerance, nil)
	switch err {
	case nil:
	case lp.ErrInfeasible:
		s.logStatus(params, StatusInfeasible)
		return &Solution{Status: StatusInfeasible}, nil
	case lp.ErrUnbounded:
		s.logStatus(params, StatusUnbounded)
		return &Solution{Status: StatusUnbounded}, nil
	default:
		if params.MessageLevel >= MessageError {
			s.logger.WithError(err).Warn("Simplex failed")
		}
		return &Solution{Status: StatusUndefined}, errors.Wrap(err, "gonum simplex")
	}

	n := len(freeCols)
	for k, j := range freeCols {
		values[j] = x[k] - x[n+k]
	}
	s.logStatus(params, StatusOptimal)
	return &Solution{
		Status:    StatusOptimal,
		Objective: p.ObjectiveValue(values),
		Values:    values,
	}, nil
}

func (s *gonumSolver) logStatus(params Params, status Status) {
	if params.MessageLevel >= MessageOn {
		s.logger.WithField("status", status.String()).Debug("Simplex finished")
	}
}

func (s *gonumSolver) logFailedRow(params Params, i int, limit float64) {
	if params.MessageLevel >= MessageOn {
		s.logger.WithField("limit", fmt.Sprintf("%g", limit)).
			WithField("row", i).
			Debug("Pinned problem violates a row")
	}
}
