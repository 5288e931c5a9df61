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

//go:build lpsolve
// +build lpsolve

package solver

import (
	"context"
	"math"

	"github.com/draffensperger/golp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// LPSolve is the lp_solve backend. It needs liblpsolve55 and the lpsolve
// build tag, and is the only backend honouring integer and binary kinds.
const LPSolve = Backend("lpsolve")

func init() {
	register(LPSolve, newLPSolve)
}

type lpSolver struct {
	logger *log.Entry
}

func newLPSolve(_ Config, logger *log.Entry) Solver {
	return &lpSolver{logger: logger}
}

var _verboseLevels = map[int]golp.VerboseLevel{
	MessageOff:   golp.NEUTRAL,
	MessageError: golp.SEVERE,
	MessageOn:    golp.NORMAL,
	MessageAll:   golp.FULL,
}

func (s *lpSolver) Solve(
	ctx context.Context,
	p *Problem,
	params Params,
) (*Solution, error) {
	if err := ctx.Err(); err != nil {
		return &Solution{Status: StatusUndefined}, err
	}

	lp := golp.NewLP(0, len(p.Columns))
	lp.SetVerboseLevel(_verboseLevels[params.MessageLevel])

	obj := make([]float64, len(p.Columns))
	for j, c := range p.Columns {
		lp.SetColName(j, c.Name)
		switch c.Kind {
		case Integer:
			lp.SetInt(j, true)
		case Binary:
			lp.SetBinary(j, true)
		}
		lower, upper := columnBounds(c)
		lp.SetBounds(j, lower, upper)
		obj[j] = c.Objective
	}
	lp.SetObjFn(obj)
	if p.Direction == Maximize {
		lp.SetMaximize()
	}

	rows := make([][]golp.Entry, len(p.Rows))
	for _, e := range p.Matrix() {
		rows[e.Row] = append(rows[e.Row], golp.Entry{Col: e.Col, Val: e.Value})
	}
	for i, r := range p.Rows {
		if math.IsInf(r.Upper, 1) {
			continue
		}
		if err := lp.AddConstraintSparse(rows[i], golp.LE, r.Upper); err != nil {
			return &Solution{Status: StatusUndefined},
				errors.Wrapf(err, "lp_solve: adding row %s", r.Name)
		}
	}

	switch result := lp.Solve(); result {
	case golp.OPTIMAL:
		return &Solution{
			Status:    StatusOptimal,
			Objective: lp.Objective(),
			Values:    lp.Variables(),
		}, nil
	case golp.INFEASIBLE:
		return &Solution{Status: StatusInfeasible}, nil
	case golp.UNBOUNDED:
		return &Solution{Status: StatusUnbounded}, nil
	default:
		s.logger.WithField("result", int(result)).Warn("lp_solve did not finish")
		return &Solution{Status: StatusUndefined},
			errors.Errorf("lp_solve: solve returned %d", int(result))
	}
}
