// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package units implements the Unit/Variable conversion rules of the CVT:
// a Unit belongs to exactly one Variable (Pressure, Temperature, Length, ...)
// and conversion is only ever defined within a single Variable, plus the
// special affine case for Temperature.
package units

import (
	"encoding/json"
	"fmt"
)

// ErrUnknownUnit is returned when either unit passed to Convert is not
// registered in the table.
type ErrUnknownUnit struct{ Unit string }

func (e ErrUnknownUnit) Error() string { return fmt.Sprintf("units: unknown unit %q", e.Unit) }

// ErrIncompatibleUnits is returned when the two units belong to different
// Variables (and neither is the temperature special case).
type ErrIncompatibleUnits struct{ From, To string }

func (e ErrIncompatibleUnits) Error() string {
	return fmt.Sprintf("units: %q and %q are not compatible", e.From, e.To)
}

// def is one registered unit: its Variable classification and its factor
// relative to the canonical (factor==1) unit of that Variable. Ignored for
// Temperature, which uses the affine table instead.
type def struct {
	Variable string
	Factor   float64
}

// Table holds the known units. The zero value is empty; use Default() for
// the baked-in set used at startup.
type Table struct {
	units map[string]def
}

// NewTable returns an empty unit table.
func NewTable() *Table {
	return &Table{units: make(map[string]def)}
}

// Add registers a unit. If the unit is already present, the existing entry
// is kept (first wins), matching the config-loading rule in spec §4.1.
func (t *Table) Add(unit, variable string, factor float64) {
	if _, ok := t.units[unit]; ok {
		return
	}
	t.units[unit] = def{Variable: variable, Factor: factor}
}

// Has reports whether unit is registered.
func (t *Table) Has(unit string) bool {
	_, ok := t.units[unit]
	return ok
}

// Variable returns the Variable a unit classifies under.
func (t *Table) Variable(unit string) (string, bool) {
	d, ok := t.units[unit]
	return d.Variable, ok
}

// Convert converts value from one unit to another. Identity if the units are
// equal. Temperature uses the affine conversions; every other Variable uses
// a plain factor ratio. Fails with ErrUnknownUnit / ErrIncompatibleUnits.
func (t *Table) Convert(value float64, from, to string) (float64, error) {
	if from == to {
		return value, nil
	}

	df, ok := t.units[from]
	if !ok {
		return 0, ErrUnknownUnit{Unit: from}
	}
	dt, ok := t.units[to]
	if !ok {
		return 0, ErrUnknownUnit{Unit: to}
	}

	if df.Variable != dt.Variable {
		return 0, ErrIncompatibleUnits{From: from, To: to}
	}

	if df.Variable == VariableTemperature {
		return convertTemperature(value, from, to)
	}

	return value * (df.Factor / dt.Factor), nil
}

// AddJSON merges a JSON document of shape
// {"<unit>": {"variable": "<Variable>", "factor": <float>}, ...} into the
// table, first-wins on duplicate keys (spec §4.1 "New unit tables ...").
func (t *Table) AddJSON(doc []byte) error {
	var raw map[string]struct {
		Variable string  `json:"variable"`
		Factor   float64 `json:"factor"`
	}
	if err := json.Unmarshal(doc, &raw); err != nil {
		return err
	}
	for unit, d := range raw {
		t.Add(unit, d.Variable, d.Factor)
	}
	return nil
}
