// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package scheduler

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/hades-rt/hades-core/internal/telemetry"
	"github.com/hades-rt/hades-core/pkg/log"
)

// SyncScheduler services every sync-mode machine on a single thread using
// a deadline min-heap (spec §4.8).
type SyncScheduler struct {
	mu   sync.Mutex
	h    deadlineHeap
	wake chan struct{}
	done chan struct{}
}

// NewSyncScheduler constructs an empty scheduler.
func NewSyncScheduler() *SyncScheduler {
	return &SyncScheduler{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// AddMachine registers a machine to run every interval, starting now.
func (s *SyncScheduler) AddMachine(name string, m Runnable, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	heap.Push(&s.h, &entry{
		name:     name,
		machine:  m,
		interval: interval,
		deadline: time.Now(),
	})
	s.notify()
}

func (s *SyncScheduler) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run blocks, executing the next due machine in deadline order until ctx
// is cancelled. In-flight ticks always run to completion (spec §4.8's
// stop semantics).
func (s *SyncScheduler) Run(ctx context.Context) {
	defer close(s.done)

	for {
		s.mu.Lock()
		if len(s.h) == 0 {
			s.mu.Unlock()
			select {
			case <-ctx.Done():
				return
			case <-s.wake:
				continue
			}
		}
		next := s.h[0]
		now := time.Now()
		wait := next.deadline.Sub(now)
		s.mu.Unlock()

		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-s.wake:
				timer.Stop()
				continue
			case <-timer.C:
			}
		} else {
			log.Warnf("scheduler: deadline missed: %s", next.name)
			telemetry.SchedulerDeadlineMissesTotal.WithLabelValues(next.name).Inc()
		}

		s.mu.Lock()
		e := heap.Pop(&s.h).(*entry)
		s.mu.Unlock()

		e.machine.Tick()

		s.mu.Lock()
		e.deadline = time.Now().Add(e.effectiveInterval())
		heap.Push(&s.h, e)
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// Wait blocks until Run has returned.
func (s *SyncScheduler) Wait() {
	<-s.done
}

// AsyncScheduler gives each async-mode machine its own goroutine,
// isolated from every other machine (spec §4.8): one may block on I/O
// without delaying the rest.
type AsyncScheduler struct {
	wg sync.WaitGroup
}

// Spawn starts a dedicated loop for m, ticking every interval
// (effective_interval re-evaluated each cycle) until ctx is cancelled.
func (a *AsyncScheduler) Spawn(ctx context.Context, name string, m Runnable, interval time.Duration) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		deadline := time.Now().Add(interval)
		for {
			wait := time.Until(deadline)
			if wait <= 0 {
				log.Warnf("scheduler: deadline missed: %s", name)
				telemetry.SchedulerDeadlineMissesTotal.WithLabelValues(name).Inc()
				wait = 0
			}

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			m.Tick()

			effective := interval
			if override, ok := m.Interval(); ok && override < interval {
				effective = override
			}
			deadline = time.Now().Add(effective)
		}
	}()
}

// Wait blocks until every spawned machine loop has returned.
func (a *AsyncScheduler) Wait() {
	a.wg.Wait()
}
