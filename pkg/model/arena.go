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
	"github.com/pkg/errors"
)

// Arena holds the coefficient triples of the constraint matrix. Its size
// is fixed once from a Layout and every triple is written at the slot given
// by the layout formulas.
type Arena struct {
	Rows   []int
	Cols   []int
	Values []float64
}

// NewArena allocates an arena for the layout.
func NewArena(l Layout) *Arena {
	n := l.NonZeros()
	a := &Arena{
		Rows:   make([]int, n),
		Cols:   make([]int, n),
		Values: make([]float64, n),
	}
	a.Reset()
	return a
}

// Len returns the number of slots.
func (a *Arena) Len() int {
	return len(a.Values)
}

// Reset marks every slot as unset.
func (a *Arena) Reset() {
	for k := range a.Values {
		a.Rows[k] = -1
		a.Cols[k] = -1
		a.Values[k] = 0
	}
}

// Unset returns the slots that were not written since the last Reset.
func (a *Arena) Unset() []int {
	var unset []int
	for k := range a.Rows {
		if a.Rows[k] < 0 || a.Cols[k] < 0 {
			unset = append(unset, k)
		}
	}
	return unset
}

func (a *Arena) set(slot, row, col int, value float64) {
	a.Rows[slot] = row
	a.Cols[slot] = col
	a.Values[slot] = value
}

func (a *Arena) fits(l Layout) error {
	if a.Len() != l.NonZeros() ||
		len(a.Rows) != a.Len() ||
		len(a.Cols) != a.Len() {
		return errors.Errorf("arena of %d slots does not match a layout of %d nonzeros",
			a.Len(), l.NonZeros())
	}
	return nil
}
