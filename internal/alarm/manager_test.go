// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package alarm

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hades-rt/hades-core/internal/cvt"
	"github.com/hades-rt/hades-core/pkg/units"
)

type recordingSink struct {
	mu           sync.Mutex
	transitions  []Transition
	published    []Transition
}

func (s *recordingSink) PersistTransition(ctx context.Context, t Transition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transitions = append(s.transitions, t)
}

func (s *recordingSink) PublishTransition(t Transition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = append(s.published, t)
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transitions)
}

func newTestRepo(t *testing.T) *cvt.Repository {
	t.Helper()
	return cvt.New(units.Default(), nil)
}

func TestManagerCrossTagIsolation(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.RegisterTag("FT-01", "m", cvt.Float, "flow", nil, nil, "", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.RegisterTag("PT-100", "Pa", cvt.Float, "pressure", nil, nil, "", ""); err != nil {
		t.Fatal(err)
	}

	sink := &recordingSink{}
	mgr := NewManager(repo, sink, time.Hour)

	a1 := New("A1", "PT-100", "", Trigger{Type: TriggerHighHigh, Value: 110.0}, 4)
	if err := mgr.Append(a1); err != nil {
		t.Fatal(err)
	}

	if err := repo.WriteTag("FT-01", 1.0); err != nil {
		t.Fatal(err)
	}
	if err := repo.WriteTag("FT-01", 2.0); err != nil {
		t.Fatal(err)
	}

	mgr.drain()

	if got := a1.State(); got != NORM {
		t.Fatalf("expected A1 unaffected by FT-01 writes, got %v", got)
	}
}

func TestManagerExecuteTriggersBoundAlarm(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.RegisterTag("PT-100", "Pa", cvt.Float, "pressure", nil, nil, "", ""); err != nil {
		t.Fatal(err)
	}

	sink := &recordingSink{}
	mgr := NewManager(repo, sink, time.Hour)

	a1 := New("A1", "PT-100", "", Trigger{Type: TriggerHighHigh, Value: 110.0}, 4)
	if err := mgr.Append(a1); err != nil {
		t.Fatal(err)
	}

	if err := repo.WriteTag("PT-100", 112.0); err != nil {
		t.Fatal(err)
	}

	mgr.drain()

	if got := a1.State(); got != UNACK {
		t.Fatalf("expected UNACK after drain, got %v", got)
	}
	if sink.count() != 1 {
		t.Fatalf("expected exactly 1 persisted transition, got %d", sink.count())
	}
}

func TestManagerShelveSweepBeforeDrain(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.RegisterTag("PT-100", "Pa", cvt.Float, "pressure", nil, nil, "", ""); err != nil {
		t.Fatal(err)
	}

	sink := &recordingSink{}
	mgr := NewManager(repo, sink, time.Hour)

	a1 := New("A1", "PT-100", "", Trigger{Type: TriggerHighHigh, Value: 110.0}, 4)
	if err := mgr.Append(a1); err != nil {
		t.Fatal(err)
	}

	past := time.Now().Add(-time.Second)
	a1.Shelve(&past)

	if err := repo.WriteTag("PT-100", 112.0); err != nil {
		t.Fatal(err)
	}

	mgr.sweepShelved()
	mgr.drain()

	if got := a1.State(); got != UNACK {
		t.Fatalf("expected shelve to expire before the value-driven trigger fires, got %v", got)
	}
}

func TestManagerCascadeDeletesAlarmsOnTagDelete(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.RegisterTag("PT-100", "Pa", cvt.Float, "pressure", nil, nil, "", ""); err != nil {
		t.Fatal(err)
	}

	sink := &recordingSink{}
	mgr := NewManager(repo, sink, time.Hour)

	a1 := New("A1", "PT-100", "", Trigger{Type: TriggerHighHigh, Value: 110.0}, 4)
	if err := mgr.Append(a1); err != nil {
		t.Fatal(err)
	}

	if err := repo.DeleteTag("PT-100"); err != nil {
		t.Fatal(err)
	}

	if _, ok := mgr.Get("A1"); ok {
		t.Fatalf("expected A1 to be removed when its bound tag was deleted")
	}
}
