// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package fsm

import (
	"fmt"
	"sync"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/hades-rt/hades-core/pkg/log"
)

// Repository is the subset of cvt.Repository a StateMachine's bindings
// depend on.
type Repository interface {
	ReadTag(name string, unit string) (any, error)
	WriteTag(name string, value any) error
}

// StateDef names one state and an optional interval override used by the
// scheduler's effective_interval computation (spec §4.8).
type StateDef struct {
	Name     string
	Interval *time.Duration
}

// TransitionEvent describes one fired source->dest transition, handed to
// any callback registered via OnTransition.
type TransitionEvent struct {
	Machine   string
	Source    string
	Dest      string
	Timestamp time.Time
}

// transition is one source->dest edge with an optional compiled predicate.
// A nil predicate means "always fires" (used for automatic transitions
// like start->wait).
type transition struct {
	source    string
	dest      string
	predicate *vm.Program
	raw       string
}

// WhileFunc is a user callback run once per tick while the machine is in
// the matching state (spec §4.7's while_<state>). Errors are caught and
// logged; they never terminate the machine.
type WhileFunc func(m *StateMachine) error

// StateMachine implements the tick cycle described in spec §4.7.
type StateMachine struct {
	mu sync.Mutex

	Name    string
	repo    Repository
	states  map[string]StateDef
	current string

	attributes   map[string]*Attribute
	bindings     []Binding
	transitions  []transition
	whileFuncs   map[string]WhileFunc
	lastError    error
	onTransition func(TransitionEvent)
}

// New constructs a StateMachine bound to repo, starting in initialState.
func New(name string, repo Repository, initialState string) *StateMachine {
	return &StateMachine{
		Name:       name,
		repo:       repo,
		states:     make(map[string]StateDef),
		current:    initialState,
		attributes: make(map[string]*Attribute),
		whileFuncs: make(map[string]WhileFunc),
	}
}

// AddState registers a state, optionally overriding the scheduler's
// interval while the machine is in it.
func (m *StateMachine) AddState(def StateDef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[def.Name] = def
}

// AddAttribute registers a typed attribute.
func (m *StateMachine) AddAttribute(a *Attribute) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attributes[a.Name] = a
}

// Attribute returns a registered attribute by name.
func (m *StateMachine) Attribute(name string) (*Attribute, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attributes[name]
	return a, ok
}

// AddBinding registers a TagBinding (read or write direction).
func (m *StateMachine) AddBinding(b Binding) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bindings = append(m.bindings, b)
}

// AddGroupBinding expands and registers every pair in a GroupBinding.
func (m *StateMachine) AddGroupBinding(g GroupBinding) {
	for _, b := range g.Expand() {
		m.AddBinding(b)
	}
}

// AddTransition registers a source->dest edge. predicate is an expr-lang
// expression evaluated against the machine's attribute values each tick;
// an empty predicate always fires (spec §4.7's "automatic" transitions).
func (m *StateMachine) AddTransition(source, dest, predicate string) error {
	t := transition{source: source, dest: dest, raw: predicate}
	if predicate != "" {
		program, err := expr.Compile(predicate, expr.AsBool())
		if err != nil {
			return fmt.Errorf("fsm: compile transition predicate %q: %w", predicate, err)
		}
		t.predicate = program
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions = append(m.transitions, t)
	return nil
}

// OnWhile registers the while_<state> callback for the named state.
func (m *StateMachine) OnWhile(state string, fn WhileFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.whileFuncs[state] = fn
}

// Current returns the machine's current state name.
func (m *StateMachine) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Interval returns the current state's interval override, if any.
func (m *StateMachine) Interval() (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	def, ok := m.states[m.current]
	if !ok || def.Interval == nil {
		return 0, false
	}
	return *def.Interval, true
}

// OnTransition registers the callback fired whenever Tick moves the
// machine to a different state (spec §4.7's non-self transition events).
// Self-transitions (source == dest) never fire it.
func (m *StateMachine) OnTransition(fn func(TransitionEvent)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onTransition = fn
}

// LastError returns the most recent while_<state> error, if any, for
// diagnostics (the machine itself keeps running; spec §4.7).
func (m *StateMachine) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastError
}

// Tick runs one execution cycle: read bindings, while_<state>, write
// bindings, evaluate transitions (spec §4.7, steps 1-4).
func (m *StateMachine) Tick() {
	m.mu.Lock()
	current := m.current
	bindings := append([]Binding(nil), m.bindings...)
	whileFn := m.whileFuncs[current]
	m.mu.Unlock()

	for _, b := range bindings {
		if b.Direction != Read {
			continue
		}
		m.applyRead(b)
	}

	if whileFn != nil {
		if err := m.safeWhile(whileFn); err != nil {
			m.mu.Lock()
			m.lastError = err
			m.mu.Unlock()
			log.Errorf("fsm: machine %q while_%s: %v", m.Name, current, err)
		}
	}

	for _, b := range bindings {
		if b.Direction != Write {
			continue
		}
		m.applyWrite(b)
	}

	m.evaluateTransitions(current)
}

func (m *StateMachine) applyRead(b Binding) {
	m.mu.Lock()
	attr, ok := m.attributes[b.Attribute]
	m.mu.Unlock()
	if !ok {
		return
	}
	v, err := m.repo.ReadTag(b.Tag, attr.Unit)
	if err != nil {
		log.Warnf("fsm: machine %q read binding %s<-%s: %v", m.Name, b.Attribute, b.Tag, err)
		return
	}
	m.mu.Lock()
	attr.Set(v)
	m.mu.Unlock()
}

func (m *StateMachine) applyWrite(b Binding) {
	m.mu.Lock()
	attr, ok := m.attributes[b.Attribute]
	m.mu.Unlock()
	if !ok {
		return
	}
	if err := m.repo.WriteTag(b.Tag, attr.Value()); err != nil {
		log.Warnf("fsm: machine %q write binding %s->%s: %v", m.Name, b.Attribute, b.Tag, err)
	}
}

// safeWhile recovers a panicking while_<state> callback into an error
// carrying the panic value. Tick logs that error and keeps it as
// LastError; no stack trace is logged and the machine has no separate
// error status: it stays in its current state and ticks again next cycle.
func (m *StateMachine) safeWhile(fn WhileFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(m)
}

// evaluateTransitions fires the first active transition (source ==
// current) whose predicate evaluates true.
func (m *StateMachine) evaluateTransitions(current string) {
	m.mu.Lock()
	env := make(map[string]any, len(m.attributes))
	for name, attr := range m.attributes {
		env[name] = attr.Value()
	}
	candidates := make([]transition, 0)
	for _, t := range m.transitions {
		if t.source == current {
			candidates = append(candidates, t)
		}
	}
	m.mu.Unlock()

	for _, t := range candidates {
		if t.predicate == nil {
			m.setState(t.dest)
			return
		}
		result, err := expr.Run(t.predicate, env)
		if err != nil {
			log.Warnf("fsm: machine %q evaluate transition %s->%s: %v", m.Name, t.source, t.dest, err)
			continue
		}
		if fired, ok := result.(bool); ok && fired {
			m.setState(t.dest)
			return
		}
	}
}

func (m *StateMachine) setState(dest string) {
	m.mu.Lock()
	prev := m.current
	m.current = dest
	fn := m.onTransition
	m.mu.Unlock()
	log.Infof("fsm: machine %q transitioned %s -> %s", m.Name, prev, dest)

	if fn != nil && prev != dest {
		fn(TransitionEvent{Machine: m.Name, Source: prev, Dest: dest, Timestamp: time.Now()})
	}
}
