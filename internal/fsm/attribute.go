// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package fsm implements the State Machine component (spec §4.7): typed
// attributes, tag bindings, and the tick cycle (read bindings, run
// while_<state>, write bindings, evaluate transition predicates).
package fsm

// Kind is the tagged-variant discriminator for an Attribute's value, per
// spec §9's "typed attributes on machines" design note.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindBool
	KindStr
)

// Attribute is one machine-local value cell: `{kind, default, unit,
// log_enabled}` plus its current value (spec §9). It carries no tag name;
// mirroring an attribute to a CVT tag is declared with a Binding.
type Attribute struct {
	Name       string
	Kind       Kind
	Default    any
	Unit       string
	LogEnabled bool

	value any
}

// NewAttribute constructs an Attribute initialized to its default.
func NewAttribute(name string, kind Kind, def any, unit string, logEnabled bool) *Attribute {
	return &Attribute{
		Name:       name,
		Kind:       kind,
		Default:    def,
		Unit:       unit,
		LogEnabled: logEnabled,
		value:      def,
	}
}

// Value returns the attribute's current value.
func (a *Attribute) Value() any {
	return a.value
}

// Set assigns v as the attribute's current value.
func (a *Attribute) Set(v any) {
	a.value = v
}
