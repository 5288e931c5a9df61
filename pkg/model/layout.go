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

// Layout holds the closed form positions of the columns, rows and matrix
// slots of the capacity model. All indices are 0-based: group i is in
// [0, GroupCount) and task j is in [0, TaskCount).
//
// Columns: capacity A and B of every group, interleaved, then the
// assignment column of every task.
//
// Rows: the A and B work rows of every group, interleaved, then four rows
// per task (qa, pa, qb, pb), then the global A and B work rows.
//
// Slots: two per group, two per task tying it to its group rows, six per
// task for its own rows and two per task for the global rows, so that
// NonZeros() == 2*GroupCount + 10*TaskCount.
type Layout struct {
	GroupCount int
	TaskCount  int
}

// NewLayout returns the layout of a model with the given counts.
func NewLayout(groupCount, taskCount int) Layout {
	return Layout{GroupCount: groupCount, TaskCount: taskCount}
}

// Columns returns the number of columns.
func (l Layout) Columns() int {
	return 2*l.GroupCount + l.TaskCount
}

// Rows returns the number of rows.
func (l Layout) Rows() int {
	return 2*l.GroupCount + 4*l.TaskCount + 2
}

// NonZeros returns the number of matrix slots.
func (l Layout) NonZeros() int {
	return 2*l.GroupCount + 10*l.TaskCount
}

// CapacityAColumn returns the A capacity column of group i.
func (l Layout) CapacityAColumn(i int) int {
	return 2 * i
}

// CapacityBColumn returns the B capacity column of group i.
func (l Layout) CapacityBColumn(i int) int {
	return 2*i + 1
}

// AssignmentColumn returns the assignment column of task j.
func (l Layout) AssignmentColumn(j int) int {
	return 2*l.GroupCount + j
}

// GroupARow returns the A work row of group i.
func (l Layout) GroupARow(i int) int {
	return 2 * i
}

// GroupBRow returns the B work row of group i.
func (l Layout) GroupBRow(i int) int {
	return 2*i + 1
}

// TaskRow returns the first of the four rows of task j; the qa, pa, qb and
// pb rows follow in that order.
func (l Layout) TaskRow(j int) int {
	return 2*l.GroupCount + 4*j
}

// SumARow returns the global A work row.
func (l Layout) SumARow() int {
	return 2*l.GroupCount + 4*l.TaskCount
}

// SumBRow returns the global B work row.
func (l Layout) SumBRow() int {
	return l.SumARow() + 1
}

// GroupSlot returns the first of the two capacity slots of group i.
func (l Layout) GroupSlot(i int) int {
	return 2 * i
}

// TaskGroupSlot returns the first of the two group row slots of task j.
func (l Layout) TaskGroupSlot(j int) int {
	return 2*l.GroupCount + 2*j
}

// TaskRowSlot returns the first of the six own row slots of task j.
func (l Layout) TaskRowSlot(j int) int {
	return 2*l.GroupCount + 2*l.TaskCount + 6*j
}

// TaskSumSlot returns the first of the two global row slots of task j.
func (l Layout) TaskSumSlot(j int) int {
	return 2*l.GroupCount + 8*l.TaskCount + 2*j
}
