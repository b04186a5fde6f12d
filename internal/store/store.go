// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package store defines and implements the persistence boundary (spec §6):
// the catalogue tables (variables, units, data_types, tags, alarm_types,
// alarm_states, alarm_priorities), the two append-only logs the runtime
// writes to (tag_values, alarm_logging), and the alarm_summary table.
package store

import (
	"context"
	"time"
)

// TagSample is one row destined for tag_values.
type TagSample struct {
	TagName   string
	Value     any
	Timestamp time.Time
}

// AlarmTransition is one row destined for alarm_logging.
type AlarmTransition struct {
	AlarmName string
	State     string
	Priority  int
	Value     any
	Timestamp time.Time
}

// TagDefinition mirrors the tags table's columns (spec §6).
type TagDefinition struct {
	Name             string
	Unit             string
	DataType         string
	Description      string
	MinValue         *float64
	MaxValue         *float64
	TCPSourceAddress string
	NodeNamespace    string
}

// AlarmDefinition mirrors the alarms table's columns (spec §6).
type AlarmDefinition struct {
	Name        string
	TagName     string
	Description string
	AlarmType   string
	TriggerKind string
	TriggerValue any
	Priority    int
}

// Store is the persistence boundary every component above it depends on
// through this interface, never through a concrete driver. InsertTagSamples
// is called in batches by the Data Logger (spec §4.3) and
// InsertAlarmTransition once per transition by the Alarm Manager's sink
// (spec §4.5/§4.6). UpsertTagDefinition and UpsertAlarmDefinition each
// insert one catalogue row; no runtime component in this module calls them.
type Store interface {
	UpsertTagDefinition(ctx context.Context, def TagDefinition) error
	UpsertAlarmDefinition(ctx context.Context, def AlarmDefinition) error
	InsertTagSamples(ctx context.Context, samples []TagSample) error
	InsertAlarmTransition(ctx context.Context, t AlarmTransition) error
	Close() error
}
