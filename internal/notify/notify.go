// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package notify publishes the three runtime events spec §6 defines
// (machine_event, alarm_transition, tags_logging) to whichever Sink the
// supervisor attaches, or drops them silently if none is attached.
package notify

// Event names published through a Sink.
const (
	EventMachine         = "machine_event"
	EventAlarmTransition = "alarm_transition"
	EventTagsLogging     = "tags_logging"
)

// Sink receives runtime events. Publish must not block the caller for
// long; a Sink that needs to do I/O should queue internally.
type Sink interface {
	Publish(event string, payload any)
}

// Noop discards every event. It is the default Sink when none is
// attached, so callers never need a nil check.
type Noop struct{}

func (Noop) Publish(string, any) {}

// FanOut publishes to every Sink in its list. It is itself a Sink so it
// composes with the rest of the package.
type FanOut struct {
	Sinks []Sink
}

func (f FanOut) Publish(event string, payload any) {
	for _, s := range f.Sinks {
		s.Publish(event, payload)
	}
}

// Recorder is an in-process Sink that appends every published event, for
// tests that need to assert on exactly what was published.
type Recorder struct {
	Events []Recorded
}

// Recorded is one captured Publish call.
type Recorded struct {
	Event   string
	Payload any
}

func (r *Recorder) Publish(event string, payload any) {
	r.Events = append(r.Events, Recorded{Event: event, Payload: payload})
}
