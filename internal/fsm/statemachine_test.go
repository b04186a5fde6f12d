// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package fsm

import (
	"testing"

	"github.com/hades-rt/hades-core/internal/cvt"
	"github.com/hades-rt/hades-core/internal/notify"
	"github.com/hades-rt/hades-core/pkg/units"
)

type repoAdapter struct {
	repo *cvt.Repository
}

func (r repoAdapter) ReadTag(name, unit string) (any, error) { return r.repo.ReadTag(name, unit) }
func (r repoAdapter) WriteTag(name string, value any) error  { return r.repo.WriteTag(name, value) }

func newRepo(t *testing.T) repoAdapter {
	t.Helper()
	repo := cvt.New(units.Default(), nil)
	if _, err := repo.RegisterTag("IN", "", cvt.Float, "input", nil, nil, "", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.RegisterTag("OUT", "", cvt.Float, "output", nil, nil, "", ""); err != nil {
		t.Fatal(err)
	}
	return repoAdapter{repo: repo}
}

func TestTickReadsBindingIntoAttribute(t *testing.T) {
	r := newRepo(t)
	if err := r.WriteTag("IN", 42.0); err != nil {
		t.Fatal(err)
	}

	m := New("m1", r, "running")
	m.AddAttribute(NewAttribute("x", KindFloat, 0.0, "", false))
	m.AddBinding(Binding{Attribute: "x", Tag: "IN", Direction: Read})

	m.Tick()

	attr, _ := m.Attribute("x")
	if attr.Value().(float64) != 42.0 {
		t.Fatalf("expected attribute x to mirror IN, got %v", attr.Value())
	}
}

func TestTickWritesBindingFromAttribute(t *testing.T) {
	r := newRepo(t)

	m := New("m1", r, "running")
	m.AddAttribute(NewAttribute("y", KindFloat, 7.0, "", false))
	m.AddBinding(Binding{Attribute: "y", Tag: "OUT", Direction: Write})

	m.Tick()

	v, err := r.ReadTag("OUT", "")
	if err != nil {
		t.Fatal(err)
	}
	if v.(float64) != 7.0 {
		t.Fatalf("expected OUT written from attribute y, got %v", v)
	}
}

func TestTransitionFiresOnPredicate(t *testing.T) {
	r := newRepo(t)
	m := New("m1", r, "idle")
	m.AddAttribute(NewAttribute("ready", KindBool, false, "", false))
	if err := m.AddTransition("idle", "active", "ready == true"); err != nil {
		t.Fatal(err)
	}

	m.Tick()
	if got := m.Current(); got != "idle" {
		t.Fatalf("expected to stay idle while not ready, got %q", got)
	}

	attr, _ := m.Attribute("ready")
	attr.Set(true)
	m.Tick()
	if got := m.Current(); got != "active" {
		t.Fatalf("expected transition to active once ready, got %q", got)
	}
}

func TestWhileErrorDoesNotTerminateMachine(t *testing.T) {
	r := newRepo(t)
	m := New("m1", r, "running")
	m.OnWhile("running", func(m *StateMachine) error {
		panic("boom")
	})

	m.Tick()
	m.Tick()

	if m.LastError() == nil {
		t.Fatalf("expected LastError to be set after panicking while_ callback")
	}
	if got := m.Current(); got != "running" {
		t.Fatalf("expected machine to remain in running state, got %q", got)
	}
}

func TestTransitionFiresOnTransitionOnlyOnStateChange(t *testing.T) {
	r := newRepo(t)
	m := New("m1", r, "idle")
	m.AddAttribute(NewAttribute("ready", KindBool, false, "", false))
	if err := m.AddTransition("idle", "active", "ready == true"); err != nil {
		t.Fatal(err)
	}

	var events []TransitionEvent
	m.OnTransition(func(ev TransitionEvent) { events = append(events, ev) })

	m.Tick() // no transition: stays idle, no predicate match
	if len(events) != 0 {
		t.Fatalf("expected no events while staying idle, got %d", len(events))
	}

	attr, _ := m.Attribute("ready")
	attr.Set(true)
	m.Tick() // idle -> active
	if len(events) != 1 {
		t.Fatalf("expected exactly one event for idle->active, got %d", len(events))
	}
	if events[0].Source != "idle" || events[0].Dest != "active" {
		t.Fatalf("unexpected event %+v", events[0])
	}
}

func TestAutomationStartsAndWaitsThenRuns(t *testing.T) {
	r := newRepo(t)
	a, err := NewAutomationStateMachine("auto", r)
	if err != nil {
		t.Fatal(err)
	}

	a.Tick() // start -> wait
	if got := a.Current(); got != StateWait {
		t.Fatalf("expected automatic start->wait, got %q", got)
	}

	a.SetReadyToRun(true)
	a.Tick()
	if got := a.Current(); got != StateRun {
		t.Fatalf("expected wait->run once ready, got %q", got)
	}
}

func TestAutomationOperatorCommandToTest(t *testing.T) {
	r := newRepo(t)
	a, err := NewAutomationStateMachine("auto", r)
	if err != nil {
		t.Fatal(err)
	}

	a.Tick()
	a.SetReadyToRun(true)
	a.Tick()

	a.Command("test")
	a.Tick()
	if got := a.Current(); got != StateTest {
		t.Fatalf("expected run->test on operator command, got %q", got)
	}
}

func TestAutomationPublishesMachineEventWithPriorityAndCriticity(t *testing.T) {
	r := newRepo(t)
	a, err := NewAutomationStateMachine("auto", r)
	if err != nil {
		t.Fatal(err)
	}
	rec := &notify.Recorder{}
	a.SetNotifier(rec)

	a.Tick() // start -> wait

	if len(rec.Events) != 1 {
		t.Fatalf("expected one machine_event for start->wait, got %d", len(rec.Events))
	}
	if rec.Events[0].Event != notify.EventMachine {
		t.Fatalf("expected event %q, got %q", notify.EventMachine, rec.Events[0].Event)
	}
	ev, ok := rec.Events[0].Payload.(MachineEvent)
	if !ok {
		t.Fatalf("expected MachineEvent payload, got %T", rec.Events[0].Payload)
	}
	if ev.Source != StateStart || ev.Dest != StateWait {
		t.Fatalf("unexpected transition %+v", ev)
	}
	if ev.Priority < 1 || ev.Priority > 5 {
		t.Fatalf("expected priority in 1..5, got %d", ev.Priority)
	}
	if ev.Criticity == "" {
		t.Fatalf("expected a non-empty criticity")
	}

	a.SetReadyToRun(true)
	a.Tick() // wait -> run
	if len(rec.Events) != 2 {
		t.Fatalf("expected a second event for wait->run, got %d", len(rec.Events))
	}
}
