// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package alarm

import (
	"sync"
	"time"

	"github.com/hades-rt/hades-core/internal/telemetry"
	"github.com/hades-rt/hades-core/pkg/log"
)

// Operation names, exactly as spec §4.6 and the operations table name them.
const (
	OpAcknowledge       = "acknowledge"
	OpEnable            = "enable"
	OpDisable           = "disable"
	OpSilence           = "silence"
	OpSound             = "sound"
	OpShelve            = "shelve"
	OpUnshelve          = "unshelve"
	OpSuppressByDesign  = "suppress_by_design"
	OpUnsuppressByDesign = "unsuppress_by_design"
	OpOutOfService      = "out_of_service"
	OpReturnToService   = "return_to_service"
	OpReset             = "reset"
)

// opStatus is "active"/"not active": whether invoking the named operation
// is currently admissible (spec §4.6's operations table).
type opStatus bool

const (
	active    opStatus = true
	notActive opStatus = false
)

// Transition is one persisted state change, handed to the Alarm Manager's
// Sink/Store wiring.
type Transition struct {
	AlarmName string
	State     State
	Priority  int
	Value     any
	Timestamp time.Time
}

// Alarm is an ISA-18.2 lifecycle instance bound to exactly one tag name
// (spec §3's Alarm entity).
type Alarm struct {
	mu sync.Mutex

	Name        string
	TagName     string
	Description string
	Priority    int
	Trigger     Trigger

	OnDelay  time.Duration
	OffDelay time.Duration
	Deadband float64

	state         State
	enabled       bool
	audible       bool
	value         any
	triggeredAt   *time.Time
	acknowledgedAt *time.Time
	shelvedUntil  *time.Time

	operations map[string]opStatus

	onTransition func(Transition)
}

// New constructs an Alarm in its initial NORM state with the default
// operations table (spec §4.6).
func New(name, tagName, description string, trig Trigger, priority int) *Alarm {
	a := &Alarm{
		Name:        name,
		TagName:     tagName,
		Description: description,
		Priority:    priority,
		Trigger:     trig,
		state:       NORM,
		enabled:     true,
	}
	a.resetOperations()
	return a
}

// OnTransition registers the callback invoked, still inside the owning
// mutex's critical section, every time the state changes. The Alarm
// Manager uses it to persist a Transition and publish a notification.
func (a *Alarm) OnTransition(fn func(Transition)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onTransition = fn
}

func (a *Alarm) resetOperations() {
	a.operations = map[string]opStatus{
		OpAcknowledge:        notActive,
		OpEnable:             notActive,
		OpDisable:            active,
		OpSilence:            notActive,
		OpSound:              notActive,
		OpShelve:             active,
		OpUnshelve:           notActive,
		OpSuppressByDesign:   active,
		OpUnsuppressByDesign: notActive,
		OpOutOfService:       active,
		OpReturnToService:    notActive,
		OpReset:              active,
	}
}

// State returns the current lifecycle state.
func (a *Alarm) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Enabled reports whether the alarm currently evaluates triggers.
func (a *Alarm) Enabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enabled
}

// Audible reports whether the alarm's annunciator would currently sound.
func (a *Alarm) Audible() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.audible
}

// Operations returns a snapshot of which operations are currently
// admissible, for a UI or CLI to render enabled/disabled controls.
func (a *Alarm) Operations() map[string]bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]bool, len(a.operations))
	for k, v := range a.operations {
		out[k] = bool(v)
	}
	return out
}

// admissible reports whether op is currently allowed per the operations
// table (spec §4.6). Callers must already hold a.mu.
func (a *Alarm) admissible(op string) bool {
	return a.operations[op] == active
}

// setState transitions to s, recording value/priority, and fires the
// persistence callback from inside the lock (spec §3's "every state
// change produces exactly one persisted transition record").
func (a *Alarm) setState(s State) {
	a.state = s
	a.audible = s.Attrs().Audible
	telemetry.AlarmTransitionsTotal.WithLabelValues(a.Name, s.String()).Inc()
	if a.onTransition != nil {
		a.onTransition(Transition{
			AlarmName: a.Name,
			State:     s,
			Priority:  a.Priority,
			Value:     a.value,
			Timestamp: time.Now(),
		})
	}
}

// triggerAlarm moves NORM/RTNUN into UNACK (spec §4.4), unless the alarm
// is disabled and has no meaningful acknowledge status yet.
func (a *Alarm) triggerAlarm() {
	if !a.enabled {
		return
	}
	now := time.Now()
	a.triggeredAt = &now
	a.setState(UNACK)
	a.operations[OpAcknowledge] = active
	a.operations[OpShelve] = notActive
	a.operations[OpSuppressByDesign] = notActive
	a.operations[OpOutOfService] = notActive
}

// Update implements update(value) (spec §4.4): the trigger comparator
// against the current state, fired on every CVT write to the bound tag.
func (a *Alarm) Update(value any) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.enabled && a.state != UNACK && a.state != ACKED && a.state != RTNUN {
		return
	}

	a.value = value

	switch a.state {
	case NORM, RTNUN:
		if a.Trigger.fires(value) {
			a.triggerAlarm()
		}
	case UNACK:
		if a.Trigger.clears(value) {
			a.setState(RTNUN)
		}
	case ACKED:
		if a.Trigger.clears(value) {
			a.setState(NORM)
		}
	}
}

// Acknowledge implements acknowledge() (spec §4.6): admissible from UNACK
// (→ACKED) and RTNUN (→NORM).
func (a *Alarm) Acknowledge() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.enabled {
		return
	}
	switch a.state {
	case UNACK:
		a.setState(ACKED)
	case RTNUN:
		a.setState(NORM)
	default:
		return
	}
	now := time.Now()
	a.acknowledgedAt = &now
	a.operations[OpAcknowledge] = notActive
}

// Enable implements enable().
func (a *Alarm) Enable() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = true
	a.operations[OpDisable] = active
	a.operations[OpEnable] = notActive
}

// Disable implements disable().
func (a *Alarm) Disable() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = false
	a.operations[OpDisable] = notActive
	a.operations[OpEnable] = active
}

// Silence clears the audible flag without changing state.
func (a *Alarm) Silence() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.enabled {
		return
	}
	a.audible = false
	a.operations[OpSilence] = notActive
	a.operations[OpSound] = active
}

// Sound restores the audible flag if the alarm is currently triggered.
func (a *Alarm) Sound() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.enabled {
		return
	}
	if a.state.Attrs().IsTriggered {
		a.audible = true
		a.operations[OpSound] = notActive
		a.operations[OpSilence] = active
	}
}

// Reset returns the alarm to NORM and restores the default operations
// table (spec §4.6).
func (a *Alarm) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = true
	a.triggeredAt = nil
	a.acknowledgedAt = nil
	a.setState(NORM)
	a.resetOperations()
}

// Shelve sets the alarm to SHLVD, optionally until the given time.
func (a *Alarm) Shelve(until *time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.admissible(OpShelve) {
		log.Warnf("alarm %q: shelve not admissible in state %s", a.Name, a.state)
		return
	}
	a.shelvedUntil = until
	a.setState(SHLVD)
	a.operations[OpShelve] = notActive
	a.operations[OpUnshelve] = active
	a.operations[OpSuppressByDesign] = notActive
	a.operations[OpOutOfService] = notActive
}

// ShelvedUntil reports the shelve expiry, if any, for the Alarm Manager's
// periodic shelve sweep (spec §4.6).
func (a *Alarm) ShelvedUntil() (time.Time, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.shelvedUntil == nil {
		return time.Time{}, false
	}
	return *a.shelvedUntil, true
}

// Unshelve returns the alarm to NORM after SHLVD.
func (a *Alarm) Unshelve() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.admissible(OpUnshelve) {
		log.Warnf("alarm %q: unshelve not admissible in state %s", a.Name, a.state)
		return
	}
	a.shelvedUntil = nil
	a.setState(NORM)
	a.operations[OpShelve] = active
	a.operations[OpUnshelve] = notActive
	a.operations[OpSuppressByDesign] = active
	a.operations[OpOutOfService] = active
}

// SuppressByDesign sets the alarm to DSUPR.
func (a *Alarm) SuppressByDesign() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.admissible(OpSuppressByDesign) {
		log.Warnf("alarm %q: suppress_by_design not admissible in state %s", a.Name, a.state)
		return
	}
	a.setState(DSUPR)
	a.operations[OpShelve] = notActive
	a.operations[OpSuppressByDesign] = notActive
	a.operations[OpOutOfService] = notActive
	a.operations[OpUnsuppressByDesign] = active
}

// UnsuppressByDesign returns the alarm to NORM after DSUPR.
func (a *Alarm) UnsuppressByDesign() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.admissible(OpUnsuppressByDesign) {
		log.Warnf("alarm %q: unsuppress_by_design not admissible in state %s", a.Name, a.state)
		return
	}
	a.setState(NORM)
	a.operations[OpShelve] = active
	a.operations[OpSuppressByDesign] = active
	a.operations[OpOutOfService] = active
	a.operations[OpUnsuppressByDesign] = notActive
}

// OutOfService removes the alarm from service (state OOSRV).
func (a *Alarm) OutOfService() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.admissible(OpOutOfService) {
		log.Warnf("alarm %q: out_of_service not admissible in state %s", a.Name, a.state)
		return
	}
	a.setState(OOSRV)
	a.operations[OpShelve] = notActive
	a.operations[OpSuppressByDesign] = notActive
	a.operations[OpOutOfService] = notActive
	a.operations[OpReturnToService] = active
}

// ReturnToService returns the alarm to NORM after OOSRV.
func (a *Alarm) ReturnToService() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.admissible(OpReturnToService) {
		log.Warnf("alarm %q: return_to_service not admissible in state %s", a.Name, a.state)
		return
	}
	a.setState(NORM)
	a.operations[OpShelve] = active
	a.operations[OpSuppressByDesign] = active
	a.operations[OpOutOfService] = active
	a.operations[OpReturnToService] = notActive
}
