// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cvt implements the Current Value Table: the thread-safe
// in-memory tag registry described in spec §4.2. A single mutex realizes
// the "funnel requests through a single executor" option the spec allows —
// every public method is a critical section, giving the required total
// order over all CVT operations without the overhead of an actor
// goroutine and channel round-trip.
package cvt

import (
	"sync"
	"time"

	"github.com/hades-rt/hades-core/internal/telemetry"
	"github.com/hades-rt/hades-core/pkg/log"
	"github.com/hades-rt/hades-core/pkg/units"
)

// DeleteHook is invoked, still inside DeleteTag's critical section, after a
// tag has been removed. The Alarm Manager registers one to cascade-delete
// alarms bound to the tag (spec §3 "never destroyed except by explicit
// delete, which cascades to dependent alarms"). Hooks must not call back
// into the Repository.
type DeleteHook func(tagName string)

// Repository is the CVT. The zero value is not usable; construct with New.
type Repository struct {
	mu   sync.Mutex
	tags map[string]*Tag
	byID map[int64]*Tag
	obs  map[string]map[Observer]struct{}
	hooks []DeleteHook
	units *units.Table
	sampler Sampler
	nextID  int64
}

// New constructs an empty Repository. unitTable classifies tag units into
// Variables for the read-with-unit-conversion path (spec §4.1/§4.2);
// sampler receives every successful write for the Data Logger (spec §4.3)
// and may be nil in tests that don't care about persistence.
func New(unitTable *units.Table, sampler Sampler) *Repository {
	return &Repository{
		tags:    make(map[string]*Tag),
		byID:    make(map[int64]*Tag),
		obs:     make(map[string]map[Observer]struct{}),
		units:   unitTable,
		sampler: sampler,
	}
}

// SetSampler attaches or replaces the Sampler that receives every
// subsequent successful write. Supervisors that build the Data Logger
// after tags are already registered use this instead of recreating the
// Repository.
func (r *Repository) SetSampler(s Sampler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sampler = s
}

// OnTagDelete registers a DeleteHook (see DeleteHook).
func (r *Repository) OnTagDelete(h DeleteHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, h)
}

// RegisterTag implements set_tag (spec §4.2).
func (r *Repository) RegisterTag(name, unit string, dataType DataType, description string, min, max *float64, tcpSourceAddress, nodeNamespace string) (*Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tags[name]; ok {
		return nil, ErrDuplicate{Name: name}
	}

	variable := ""
	if r.units != nil {
		variable, _ = r.units.Variable(unit)
	}

	r.nextID++
	t := &Tag{
		ID:               r.nextID,
		Name:             name,
		Unit:             unit,
		DataType:         dataType,
		Description:      description,
		DisplayName:      name,
		MinValue:         min,
		MaxValue:         max,
		TCPSourceAddress: tcpSourceAddress,
		NodeNamespace:    nodeNamespace,
		Variable:         variable,
		Value: TagValue{
			StatusCode:      Good,
			SourceTimestamp: time.Now(),
		},
	}

	switch dataType {
	case Bool:
		t.Value.Value = false
	case Str:
		t.Value.Value = ""
	case Int:
		t.Value.Value = int64(0)
	default:
		t.Value.Value = float64(0)
	}

	r.tags[name] = t
	r.byID[t.ID] = t
	r.obs[name] = make(map[Observer]struct{})
	cp := *t
	return &cp, nil
}

// DeleteTag implements delete_tag (spec §4.2), cascading to DeleteHooks.
func (r *Repository) DeleteTag(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tags[name]
	if !ok {
		return ErrUnknownTag{Name: name}
	}

	delete(r.tags, name)
	delete(r.byID, t.ID)
	delete(r.obs, name)

	for _, h := range r.hooks {
		h(name)
	}

	return nil
}

// TagUpdate carries the subset of mutable Tag fields update_tag may change.
// A nil field means "leave unchanged".
type TagUpdate struct {
	Unit             *string
	Description      *string
	DisplayName      *string
	MinValue         **float64
	MaxValue         **float64
	TCPSourceAddress *string
	NodeNamespace    *string
}

// UpdateTag implements update_tag (spec §4.2). A Unit change must stay
// within the tag's current Variable, otherwise ErrIncompatibleUnit.
func (r *Repository) UpdateTag(id int64, upd TagUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byID[id]
	if !ok {
		return ErrUnknownTag{Name: ""}
	}

	if upd.Unit != nil {
		newVariable := ""
		if r.units != nil {
			newVariable, _ = r.units.Variable(*upd.Unit)
		}
		if t.Variable != "" && newVariable != t.Variable {
			return ErrIncompatibleUnit{Name: t.Name, Unit: *upd.Unit}
		}
		t.Unit = *upd.Unit
		t.Variable = newVariable
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.DisplayName != nil {
		t.DisplayName = *upd.DisplayName
	}
	if upd.MinValue != nil {
		t.MinValue = *upd.MinValue
	}
	if upd.MaxValue != nil {
		t.MaxValue = *upd.MaxValue
	}
	if upd.TCPSourceAddress != nil {
		t.TCPSourceAddress = *upd.TCPSourceAddress
	}
	if upd.NodeNamespace != nil {
		t.NodeNamespace = *upd.NodeNamespace
	}

	return nil
}

// WriteTag implements write_tag (spec §4.2): validates against data_type,
// updates the TagValue inside the single critical section that gives the
// CVT its total order over writes to one tag (spec §5 "monotonic
// source_timestamp"), then releases the lock and notifies observers and
// hands the sample to the Data Logger.
//
// Out-of-range values are a soft warning (still written); an unknown tag or
// a type mismatch aborts the write.
func (r *Repository) WriteTag(name string, value any) error {
	r.mu.Lock()

	t, ok := r.tags[name]
	if !ok {
		r.mu.Unlock()
		return ErrUnknownTag{Name: name}
	}

	if !checkType(t.DataType, value) {
		r.mu.Unlock()
		return ErrTypeMismatch{Name: name, DataType: t.DataType, Value: value}
	}

	var rangeErr error
	if f, ok := asFloat64(value); ok {
		rangeErr = t.checkRange(f)
	}

	t.Value = TagValue{
		Value:           value,
		StatusCode:      Good,
		SourceTimestamp: time.Now(),
	}

	observers := make([]Observer, 0, len(r.obs[name]))
	for o := range r.obs[name] {
		observers = append(observers, o)
	}
	sampler := r.sampler
	snapshot := t.Value

	r.mu.Unlock()

	if rangeErr != nil {
		log.Warnf("%v", rangeErr)
	}

	telemetry.CVTWritesTotal.WithLabelValues(name).Inc()

	for _, o := range observers {
		o.Update(name, snapshot)
	}
	if sampler != nil {
		sampler.Sample(name, snapshot)
	}

	return nil
}

// ReadTag implements read_tag (spec §4.2), converting to unit if provided.
func (r *Repository) ReadTag(name string, unit string) (any, error) {
	r.mu.Lock()
	t, ok := r.tags[name]
	if !ok {
		r.mu.Unlock()
		return nil, ErrUnknownTag{Name: name}
	}
	value := t.Value.Value
	tagUnit := t.Unit
	r.mu.Unlock()

	if unit == "" || unit == tagUnit {
		return value, nil
	}

	f, ok := asFloat64(value)
	if !ok {
		return nil, ErrIncompatibleUnit{Name: name, Unit: unit}
	}
	if r.units == nil {
		return nil, ErrIncompatibleUnit{Name: name, Unit: unit}
	}
	converted, err := r.units.Convert(f, tagUnit, unit)
	if err != nil {
		return nil, ErrIncompatibleUnit{Name: name, Unit: unit}
	}
	return converted, nil
}

// GetTag returns a snapshot copy of a tag's definition and current value.
func (r *Repository) GetTag(name string) (Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tags[name]
	if !ok {
		return Tag{}, ErrUnknownTag{Name: name}
	}
	return *t, nil
}

// Tags returns a snapshot of every registered tag name.
func (r *Repository) Tags() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.tags))
	for name := range r.tags {
		names = append(names, name)
	}
	return names
}

// Attach implements attach(name, observer) (spec §4.2); attaching the same
// observer twice is a no-op.
func (r *Repository) Attach(name string, o Observer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.obs[name]
	if !ok {
		return ErrUnknownTag{Name: name}
	}
	set[o] = struct{}{}
	return nil
}

// Detach implements detach(name, observer) (spec §4.2).
func (r *Repository) Detach(name string, o Observer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.obs[name]
	if !ok {
		return ErrUnknownTag{Name: name}
	}
	delete(set, o)
	return nil
}
