// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package alarm implements the ISA-18.2 alarm lifecycle (spec §4.4-§4.6):
// TriggerType comparators, the 7 fixed AlarmState attribute tuples, the
// Alarm state machine, and the Alarm Manager worker.
package alarm

import "fmt"

// TriggerType selects the comparator update() uses against the bound tag's
// current value (spec §4.4).
type TriggerType int

const (
	TriggerNone TriggerType = iota
	TriggerHigh
	TriggerHighHigh
	TriggerLow
	TriggerLowLow
	TriggerBool
)

func (t TriggerType) String() string {
	switch t {
	case TriggerHigh:
		return "HIGH"
	case TriggerHighHigh:
		return "HIGH-HIGH"
	case TriggerLow:
		return "LOW"
	case TriggerLowLow:
		return "LOW-LOW"
	case TriggerBool:
		return "BOOL"
	default:
		return "NOT-DEFINED"
	}
}

// ParseTriggerType accepts the exact spelling used in config files and the
// persisted alarm_types table.
func ParseTriggerType(s string) (TriggerType, error) {
	switch s {
	case "HIGH":
		return TriggerHigh, nil
	case "HIGH-HIGH":
		return TriggerHighHigh, nil
	case "LOW":
		return TriggerLow, nil
	case "LOW-LOW":
		return TriggerLowLow, nil
	case "BOOL":
		return TriggerBool, nil
	case "NOT-DEFINED", "":
		return TriggerNone, nil
	default:
		return TriggerNone, fmt.Errorf("alarm: unknown trigger type %q", s)
	}
}

// Trigger pairs a TriggerType with the threshold (or boolean match) value
// update() compares the tag's current value against.
type Trigger struct {
	Type  TriggerType
	Value any
}

// fires reports whether value triggers the alarm under the trigger's
// comparator: sample >= trigger.value for HIGH/HIGH-HIGH, sample <=
// trigger.value for LOW/LOW-LOW, equality for BOOL.
func (tr Trigger) fires(value any) bool {
	switch tr.Type {
	case TriggerHigh, TriggerHighHigh:
		return compareFloat(value, tr.Value) >= 0
	case TriggerLow, TriggerLowLow:
		return compareFloat(value, tr.Value) <= 0
	case TriggerBool:
		vb, vok := value.(bool)
		tb, tok := tr.Value.(bool)
		return vok && tok && vb == tb
	default:
		return false
	}
}

// clears mirrors the reverse comparator used while UNACK/ACKED to decide
// RTNUN/NORM transitions (spec §4.4's table, strictly opposite of fires
// for HIGH/LOW types; exact mismatch for BOOL).
func (tr Trigger) clears(value any) bool {
	switch tr.Type {
	case TriggerHigh, TriggerHighHigh:
		return compareFloat(value, tr.Value) < 0
	case TriggerLow, TriggerLowLow:
		return compareFloat(value, tr.Value) > 0
	case TriggerBool:
		vb, vok := value.(bool)
		tb, tok := tr.Value.(bool)
		return !(vok && tok && vb == tb)
	default:
		return false
	}
}

func compareFloat(a, b any) int {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if !aok || !bok {
		return 0
	}
	switch {
	case af < bf:
		return -1
	case af > bf:
		return 1
	default:
		return 0
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
