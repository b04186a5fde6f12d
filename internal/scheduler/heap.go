// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package scheduler implements the two execution disciplines spec §4.8
// requires to coexist: a sync-cooperative min-heap scheduler serving all
// sync-mode machines on one thread, and an async-parallel scheduler
// giving each async-mode machine its own goroutine on the same deadline
// policy.
package scheduler

import (
	"container/heap"
	"time"
)

// Runnable is the subset of fsm.StateMachine the scheduler depends on.
type Runnable interface {
	Tick()
	Interval() (time.Duration, bool)
}

// entry is one scheduled machine: its next deadline and base interval.
type entry struct {
	name     string
	machine  Runnable
	interval time.Duration
	deadline time.Time
	index    int
}

// effectiveInterval is min(machine.interval, current_state.interval), per
// spec §4.8.
func (e *entry) effectiveInterval() time.Duration {
	if override, ok := e.machine.Interval(); ok && override < e.interval {
		return override
	}
	return e.interval
}

// deadlineHeap is a container/heap min-heap ordered by deadline.
type deadlineHeap []*entry

func (h deadlineHeap) Len() int            { return len(h) }
func (h deadlineHeap) Less(i, j int) bool  { return h[i].deadline.Before(h[j].deadline) }
func (h deadlineHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *deadlineHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *deadlineHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

var _ heap.Interface = (*deadlineHeap)(nil)
