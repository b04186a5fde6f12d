// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package cvt

import (
	"fmt"
	"time"
)

// DataType is one of the four tag value kinds defined in spec §3.
type DataType int

const (
	Float DataType = iota
	Int
	Bool
	Str
)

func (d DataType) String() string {
	switch d {
	case Float:
		return "float"
	case Int:
		return "int"
	case Bool:
		return "bool"
	case Str:
		return "str"
	default:
		return "unknown"
	}
}

// ParseDataType accepts the exact spelling used in config files and the
// persisted data_types table.
func ParseDataType(s string) (DataType, error) {
	switch s {
	case "float", "":
		return Float, nil
	case "int":
		return Int, nil
	case "bool":
		return Bool, nil
	case "str":
		return Str, nil
	default:
		return Float, fmt.Errorf("cvt: unknown data type %q", s)
	}
}

// StatusCode mirrors the source's status_codes.StatusCode; only GOOD is ever
// assigned by this runtime's write path (spec §4.2), the others are carried
// for completeness and for callers that synthesize their own TagValue.
type StatusCode int

const (
	Good StatusCode = iota
	Bad
	Uncertain
)

// TagValue holds a tag's current value plus its quality metadata, per
// spec §3 ("Tag ... Holds a TagValue with current value, status_code
// (default GOOD), and source_timestamp").
type TagValue struct {
	Value           any
	StatusCode      StatusCode
	SourceTimestamp time.Time
}

// Tag is the definition of a process variable plus its current value.
// The Repository owns every Tag and hands out copies only; definitions
// change through Repository.UpdateTag and values through
// Repository.WriteTag, so that notification and logging stay coupled to
// the value change (spec §4.2).
type Tag struct {
	ID                int64
	Name              string
	Unit              string
	DataType          DataType
	Description       string
	DisplayName       string
	MinValue          *float64
	MaxValue          *float64
	TCPSourceAddress  string
	NodeNamespace     string
	Variable          string // derived from Unit, see spec §3
	Value             TagValue
}

func (t *Tag) checkRange(v float64) error {
	if t.MinValue != nil && v < *t.MinValue {
		return ErrOutOfRange{Name: t.Name, Value: v, Min: t.MinValue, Max: t.MaxValue}
	}
	if t.MaxValue != nil && v > *t.MaxValue {
		return ErrOutOfRange{Name: t.Name, Value: v, Min: t.MinValue, Max: t.MaxValue}
	}
	return nil
}

func checkType(dt DataType, value any) bool {
	switch dt {
	case Float:
		switch value.(type) {
		case float64, float32:
			return true
		}
	case Int:
		switch value.(type) {
		case int, int32, int64:
			return true
		}
	case Bool:
		_, ok := value.(bool)
		return ok
	case Str:
		_, ok := value.(string)
		return ok
	}
	return false
}

func asFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
