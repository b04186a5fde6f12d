// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package fsm

import (
	"sync"
	"time"

	"github.com/hades-rt/hades-core/internal/notify"
)

// Canonical state names for the prebuilt operator workflow (spec §4.7's
// AutomationStateMachine transition table).
const (
	StateStart           = "start"
	StateWait            = "wait"
	StateRun             = "run"
	StateTest            = "test"
	StateSleep           = "sleep"
	StateRestart         = "restart"
	StateConfirmRestart  = "confirm_restart"
	StateReset           = "reset"
	StateConfirmReset    = "confirm_reset"
)

// MachineEvent is the notify.EventMachine payload published for every
// non-self AutomationStateMachine transition (spec §4.7: "every non-self
// operator transition records an event with priority (1..5) and
// criticity field").
type MachineEvent struct {
	Machine   string
	Source    string
	Dest      string
	Priority  int
	Criticity string
	Timestamp time.Time
}

// transitionCriticity maps a destination state to the priority/criticity
// pair recorded for any transition landing on it. Entering a confirmation
// gate or restart/reset path outranks the steady states, since those are
// the transitions an operator most needs surfaced.
var transitionCriticity = map[string]struct {
	priority  int
	criticity string
}{
	StateWait:           {1, "normal"},
	StateRun:            {1, "normal"},
	StateTest:           {2, "normal"},
	StateSleep:          {2, "normal"},
	StateStart:          {3, "elevated"},
	StateRestart:        {4, "elevated"},
	StateReset:          {4, "elevated"},
	StateConfirmRestart: {5, "critical"},
	StateConfirmReset:   {5, "critical"},
}

// AutomationStateMachine wraps a StateMachine preloaded with the spec
// §4.7 transition table: start -> wait (automatic), wait -> run (when the
// "ready_to_run" attribute is true), run/wait -> test/sleep/restart/reset
// (operator command, read from the "command" attribute),
// restart -> confirm_restart (automatic), confirm_restart -> one of
// wait/run/sleep/test (operator confirmation via "confirm_command"), and
// the mirror image for reset -> confirm_reset.
type AutomationStateMachine struct {
	*StateMachine

	notifyMu sync.Mutex
	notifier notify.Sink
}

// NewAutomationStateMachine builds the machine and wires its fixed
// transition table. Callers still register their own while_<state>
// callbacks and bindings afterward.
func NewAutomationStateMachine(name string, repo Repository) (*AutomationStateMachine, error) {
	m := New(name, repo, StateStart)

	am := &AutomationStateMachine{StateMachine: m, notifier: notify.Noop{}}
	m.OnTransition(am.publishTransition)

	m.AddAttribute(NewAttribute("ready_to_run", KindBool, false, "", false))
	m.AddAttribute(NewAttribute("command", KindStr, "", "", false))
	m.AddAttribute(NewAttribute("confirm_command", KindStr, "", "", false))

	for _, s := range []string{
		StateStart, StateWait, StateRun, StateTest, StateSleep,
		StateRestart, StateConfirmRestart, StateReset, StateConfirmReset,
	} {
		m.AddState(StateDef{Name: s})
	}

	type edge struct{ source, dest, predicate string }
	edges := []edge{
		{StateStart, StateWait, ""},
		{StateWait, StateRun, "ready_to_run == true"},

		{StateRun, StateTest, `command == "test"`},
		{StateRun, StateSleep, `command == "sleep"`},
		{StateRun, StateRestart, `command == "restart"`},
		{StateRun, StateReset, `command == "reset"`},
		{StateWait, StateTest, `command == "test"`},
		{StateWait, StateSleep, `command == "sleep"`},
		{StateWait, StateRestart, `command == "restart"`},
		{StateWait, StateReset, `command == "reset"`},

		{StateRestart, StateConfirmRestart, ""},
		{StateConfirmRestart, StateWait, `confirm_command == "wait"`},
		{StateConfirmRestart, StateRun, `confirm_command == "run"`},
		{StateConfirmRestart, StateSleep, `confirm_command == "sleep"`},
		{StateConfirmRestart, StateTest, `confirm_command == "test"`},

		{StateReset, StateConfirmReset, ""},
		{StateConfirmReset, StateStart, `confirm_command == "start"`},
		{StateConfirmReset, StateWait, `confirm_command == "wait"`},
		{StateConfirmReset, StateRun, `confirm_command == "run"`},
		{StateConfirmReset, StateSleep, `confirm_command == "sleep"`},
		{StateConfirmReset, StateTest, `confirm_command == "test"`},
	}

	for _, e := range edges {
		if err := m.AddTransition(e.source, e.dest, e.predicate); err != nil {
			return nil, err
		}
	}

	return am, nil
}

// SetNotifier replaces the Sink publishTransition reports operator
// transitions through.
func (a *AutomationStateMachine) SetNotifier(n notify.Sink) {
	a.notifyMu.Lock()
	defer a.notifyMu.Unlock()
	a.notifier = n
}

// publishTransition is registered as the wrapped StateMachine's
// OnTransition callback; it translates a bare TransitionEvent into a
// MachineEvent carrying the destination state's priority/criticity and
// publishes it on notify.EventMachine.
func (a *AutomationStateMachine) publishTransition(ev TransitionEvent) {
	rank, ok := transitionCriticity[ev.Dest]
	if !ok {
		rank = struct {
			priority  int
			criticity string
		}{1, "normal"}
	}

	a.notifyMu.Lock()
	n := a.notifier
	a.notifyMu.Unlock()

	n.Publish(notify.EventMachine, MachineEvent{
		Machine:   ev.Machine,
		Source:    ev.Source,
		Dest:      ev.Dest,
		Priority:  rank.priority,
		Criticity: rank.criticity,
		Timestamp: ev.Timestamp,
	})
}

// SetReadyToRun sets the predicate the wait->run transition evaluates.
func (a *AutomationStateMachine) SetReadyToRun(v bool) {
	if attr, ok := a.Attribute("ready_to_run"); ok {
		attr.Set(v)
	}
}

// Command issues an operator command evaluated on the next Tick while the
// machine is in run or wait.
func (a *AutomationStateMachine) Command(cmd string) {
	if attr, ok := a.Attribute("command"); ok {
		attr.Set(cmd)
	}
}

// Confirm issues an operator confirmation evaluated while the machine is
// in confirm_restart or confirm_reset.
func (a *AutomationStateMachine) Confirm(cmd string) {
	if attr, ok := a.Attribute("confirm_command"); ok {
		attr.Set(cmd)
	}
}
