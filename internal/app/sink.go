// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package app

import (
	"context"

	"github.com/hades-rt/hades-core/internal/alarm"
	"github.com/hades-rt/hades-core/internal/notify"
	"github.com/hades-rt/hades-core/internal/store"
	"github.com/hades-rt/hades-core/pkg/log"
)

// alarmSink implements alarm.Sink: every transition is persisted to the
// Store and published to the notification Sink, in that order, so a
// subscriber never observes a notification for a row that isn't durable
// yet.
type alarmSink struct {
	store  store.Store
	notify notify.Sink
}

func (s alarmSink) PersistTransition(ctx context.Context, t alarm.Transition) {
	if s.store == nil {
		return
	}
	err := s.store.InsertAlarmTransition(ctx, store.AlarmTransition{
		AlarmName: t.AlarmName,
		State:     t.State.String(),
		Priority:  t.Priority,
		Value:     t.Value,
		Timestamp: t.Timestamp,
	})
	if err != nil {
		log.Errorf("app: persisting alarm transition for %q: %v", t.AlarmName, err)
	}
}

func (s alarmSink) PublishTransition(t alarm.Transition) {
	if s.notify == nil {
		return
	}
	s.notify.Publish(notify.EventAlarmTransition, t)
}
