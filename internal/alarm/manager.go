// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package alarm

import (
	"context"
	"sync"
	"time"

	"github.com/hades-rt/hades-core/internal/cvt"
	"github.com/hades-rt/hades-core/pkg/log"
)

// envelope is the tag-changed message an Observer pushes onto the shared
// queue (spec §4.6).
type envelope struct {
	tag   string
	value cvt.TagValue
}

// Repository is the subset of cvt.Repository the Manager depends on.
type Repository interface {
	ReadTag(name string, unit string) (any, error)
	Attach(name string, o cvt.Observer) error
	Detach(name string, o cvt.Observer) error
	OnTagDelete(h cvt.DeleteHook)
}

// Sink receives every persisted transition, for the Store and the
// notification fan-out (spec §6's alarm_transition event).
type Sink interface {
	PersistTransition(ctx context.Context, t Transition)
	PublishTransition(t Transition)
}

// Manager is the Alarm Manager (spec §4.6): it owns every registered
// Alarm, attaches itself to the CVT once per distinct bound tag, and runs a single
// worker loop that sweeps shelve expiry before draining the tag-changed
// queue — the ordering spec §4.6 requires.
type Manager struct {
	repo   Repository
	sink   Sink
	period time.Duration

	mu        sync.Mutex
	alarms    map[string]*Alarm
	byTag     map[string][]*Alarm

	queue chan envelope
	done  chan struct{}
}

// NewManager constructs a Manager. period is the worker's sweep/drain
// cadence (default 1s per spec §4.6 if period <= 0).
func NewManager(repo Repository, sink Sink, period time.Duration) *Manager {
	if period <= 0 {
		period = time.Second
	}
	m := &Manager{
		repo:   repo,
		sink:   sink,
		period: period,
		alarms: make(map[string]*Alarm),
		byTag:  make(map[string][]*Alarm),
		queue:  make(chan envelope, 1024),
		done:   make(chan struct{}),
	}
	repo.OnTagDelete(m.handleTagDeleted)
	return m
}

// SetSink replaces the Sink every future transition is persisted/published
// through (e.g. once a Store becomes available after construction).
func (m *Manager) SetSink(sink Sink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sink = sink
}

// Update implements cvt.Observer: every alarm manager is attached once per
// distinct bound tag name and pushes onto the shared queue without
// blocking (spec's no-reentrancy rule: Update must never call back into
// the CVT synchronously).
func (m *Manager) Update(tagName string, value cvt.TagValue) {
	select {
	case m.queue <- envelope{tag: tagName, value: value}:
	default:
		log.Warnf("alarm manager: queue full, dropping tag-changed envelope for %q", tagName)
	}
}

// Append registers a new Alarm, attaching the Manager as an observer on
// its bound tag and wiring its transition callback to the Sink.
func (m *Manager) Append(a *Alarm) error {
	m.mu.Lock()
	if _, exists := m.alarms[a.Name]; exists {
		m.mu.Unlock()
		return ErrDuplicateAlarm{Name: a.Name}
	}
	m.alarms[a.Name] = a
	wasFirstForTag := len(m.byTag[a.TagName]) == 0
	m.byTag[a.TagName] = append(m.byTag[a.TagName], a)
	m.mu.Unlock()

	a.OnTransition(func(t Transition) {
		m.mu.Lock()
		sink := m.sink
		m.mu.Unlock()
		sink.PersistTransition(context.Background(), t)
		sink.PublishTransition(t)
	})

	if wasFirstForTag {
		return m.repo.Attach(a.TagName, m)
	}
	return nil
}

// Get returns a registered alarm by name.
func (m *Manager) Get(name string) (*Alarm, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.alarms[name]
	return a, ok
}

// handleTagDeleted is the cvt.DeleteHook cascading alarm deletion when a
// bound tag is removed (spec §3). It runs inside DeleteTag's critical
// section, so it does not call back into the Repository; DeleteTag has
// already dropped the tag's observer set, which detaches the Manager.
func (m *Manager) handleTagDeleted(tagName string) {
	m.mu.Lock()
	bound := m.byTag[tagName]
	delete(m.byTag, tagName)
	for _, a := range bound {
		delete(m.alarms, a.Name)
	}
	m.mu.Unlock()
}

// Run blocks, sweeping and draining until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweepShelved()
			m.drain()
		}
	}
}

// sweepShelved forces unshelve() on every SHLVD alarm whose shelved_until
// has passed, before any value-driven transition this cycle is applied.
func (m *Manager) sweepShelved() {
	m.mu.Lock()
	alarms := make([]*Alarm, 0, len(m.alarms))
	for _, a := range m.alarms {
		alarms = append(alarms, a)
	}
	m.mu.Unlock()

	now := time.Now()
	for _, a := range alarms {
		if a.State() != SHLVD {
			continue
		}
		until, ok := a.ShelvedUntil()
		if ok && !until.After(now) {
			a.Unshelve()
		}
	}
}

// drain empties the queue, re-reading each tag's current value through
// the CVT and calling update on every alarm bound to it (spec §4.6's
// execute(tag)).
func (m *Manager) drain() {
	for {
		select {
		case env := <-m.queue:
			m.execute(env.tag)
		default:
			return
		}
	}
}

// execute re-reads tagName's current value via the CVT and calls update
// on every alarm bound to it (spec §4.6).
func (m *Manager) execute(tagName string) {
	value, err := m.repo.ReadTag(tagName, "")
	if err != nil {
		log.Warnf("alarm manager: execute(%q): %v", tagName, err)
		return
	}

	m.mu.Lock()
	bound := append([]*Alarm(nil), m.byTag[tagName]...)
	m.mu.Unlock()

	for _, a := range bound {
		a.Update(value)
	}
}

// Wait blocks until Run has returned.
func (m *Manager) Wait() {
	<-m.done
}

// ErrDuplicateAlarm is returned by Append when name already exists.
type ErrDuplicateAlarm struct{ Name string }

func (e ErrDuplicateAlarm) Error() string {
	return "alarm: alarm " + e.Name + " already exists"
}
