// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package notify

import "testing"

func TestNoopDiscardsEvents(t *testing.T) {
	var s Sink = Noop{}
	s.Publish(EventMachine, map[string]any{"state": "run"})
}

func TestFanOutPublishesToEveryChild(t *testing.T) {
	a := &Recorder{}
	b := &Recorder{}
	f := FanOut{Sinks: []Sink{a, b}}

	f.Publish(EventAlarmTransition, "A1")

	if len(a.Events) != 1 || len(b.Events) != 1 {
		t.Fatalf("expected both sinks to receive the event, got %d and %d", len(a.Events), len(b.Events))
	}
	if a.Events[0].Event != EventAlarmTransition || a.Events[0].Payload != "A1" {
		t.Fatalf("unexpected recorded event: %+v", a.Events[0])
	}
}

func TestRecorderPreservesOrder(t *testing.T) {
	r := &Recorder{}
	r.Publish(EventTagsLogging, 1)
	r.Publish(EventTagsLogging, 2)

	if len(r.Events) != 2 || r.Events[0].Payload != 1 || r.Events[1].Payload != 2 {
		t.Fatalf("expected events recorded in publish order, got %+v", r.Events)
	}
}
