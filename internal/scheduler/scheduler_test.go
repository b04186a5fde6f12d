// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"
)

// recordingMachine counts ticks and asserts none overlap.
type recordingMachine struct {
	mu       sync.Mutex
	ticks    []time.Time
	running  bool
	overlap  bool
	interval *time.Duration
}

func (m *recordingMachine) Tick() {
	m.mu.Lock()
	if m.running {
		m.overlap = true
	}
	m.running = true
	m.ticks = append(m.ticks, time.Now())
	m.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	m.mu.Lock()
	m.running = false
	m.mu.Unlock()
}

func (m *recordingMachine) Interval() (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.interval == nil {
		return 0, false
	}
	return *m.interval, true
}

func (m *recordingMachine) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ticks)
}

func TestSyncSchedulerDeterminism(t *testing.T) {
	fast := &recordingMachine{}
	slow := &recordingMachine{}

	s := NewSyncScheduler()
	s.AddMachine("fast", fast, 500*time.Millisecond)
	s.AddMachine("slow", slow, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go s.Run(ctx)
	<-ctx.Done()
	s.Wait()

	if fast.overlap || slow.overlap {
		t.Fatalf("expected no machine to run concurrently with itself")
	}

	fc, sc := fast.count(), slow.count()
	if fc < 9 || fc > 11 {
		t.Fatalf("expected the 0.5s machine to tick 9-11 times over 5s, got %d", fc)
	}
	if sc < 4 || sc > 6 {
		t.Fatalf("expected the 1s machine to tick 4-6 times over 5s, got %d", sc)
	}
}

func TestSyncSchedulerLogsDeadlineMissed(t *testing.T) {
	m := &recordingMachine{}
	s := NewSyncScheduler()
	// AddMachine sets the first deadline to the moment of registration, so
	// it has already passed when Run first looks at it and the scheduler
	// takes the missed-deadline path at least once. The test checks that
	// ticking continues; the warning itself is not captured.
	s.AddMachine("slow-body", m, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	go s.Run(ctx)
	<-ctx.Done()
	s.Wait()

	if m.count() == 0 {
		t.Fatalf("expected at least one tick despite missed deadlines")
	}
}

func TestAsyncSchedulerIsolatesMachines(t *testing.T) {
	a := &AsyncScheduler{}
	m1 := &recordingMachine{}
	m2 := &recordingMachine{}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()

	a.Spawn(ctx, "m1", m1, 20*time.Millisecond)
	a.Spawn(ctx, "m2", m2, 20*time.Millisecond)

	<-ctx.Done()
	a.Wait()

	if m1.overlap || m2.overlap {
		t.Fatalf("expected no machine to run concurrently with itself")
	}
	if m1.count() == 0 || m2.count() == 0 {
		t.Fatalf("expected both async machines to have ticked")
	}
}

func TestEffectiveIntervalPrefersStateOverride(t *testing.T) {
	override := 10 * time.Millisecond
	m := &recordingMachine{interval: &override}
	e := &entry{machine: m, interval: time.Hour}

	if got := e.effectiveInterval(); got != override {
		t.Fatalf("expected effective interval to use the shorter state override, got %s", got)
	}
}
