// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package alarm

import (
	"reflect"
	"testing"
)

func TestHighHighTripThenAck(t *testing.T) {
	a := New("A1", "PT-100", "high pressure", Trigger{Type: TriggerHighHigh, Value: 110.0}, 4)

	seq := []float64{75, 102, 112}
	expected := []State{NORM, NORM, UNACK}

	for i, v := range seq {
		a.Update(v)
		if got := a.State(); got != expected[i] {
			t.Fatalf("after write %v: expected state %v, got %v", v, expected[i], got)
		}
	}

	a.Acknowledge()
	if got := a.State(); got != ACKED {
		t.Fatalf("expected ACKED after acknowledge, got %v", got)
	}
}

func TestBoolAlarmFiresOnMatch(t *testing.T) {
	a := New("RUN-FAIL", "RUN", "motor stopped unexpectedly", Trigger{Type: TriggerBool, Value: false}, 3)

	a.Update(true)
	if got := a.State(); got != NORM {
		t.Fatalf("expected NORM while value does not match trigger, got %v", got)
	}

	a.Update(false)
	if got := a.State(); got != UNACK {
		t.Fatalf("expected UNACK once value matches trigger, got %v", got)
	}
}

func TestAcknowledgeFromRTNUNGoesToNORM(t *testing.T) {
	a := New("A1", "PT-100", "", Trigger{Type: TriggerHigh, Value: 100.0}, 2)

	a.Update(150.0) // NORM -> UNACK
	a.Update(50.0)  // UNACK -> RTNUN
	if got := a.State(); got != RTNUN {
		t.Fatalf("expected RTNUN, got %v", got)
	}

	a.Acknowledge()
	if got := a.State(); got != NORM {
		t.Fatalf("expected NORM after acknowledging RTNUN, got %v", got)
	}
}

func TestAckedReturnsToNormOnClear(t *testing.T) {
	a := New("A1", "PT-100", "", Trigger{Type: TriggerHigh, Value: 100.0}, 2)

	a.Update(150.0)
	a.Acknowledge()
	if got := a.State(); got != ACKED {
		t.Fatalf("expected ACKED, got %v", got)
	}

	a.Update(50.0)
	if got := a.State(); got != NORM {
		t.Fatalf("expected NORM once cleared from ACKED, got %v", got)
	}
}

func TestDisabledAlarmDoesNotTrigger(t *testing.T) {
	a := New("A1", "PT-100", "", Trigger{Type: TriggerHigh, Value: 100.0}, 2)
	a.Disable()

	a.Update(150.0)
	if got := a.State(); got != NORM {
		t.Fatalf("expected disabled alarm to stay NORM, got %v", got)
	}
}

func TestShelveAndUnshelve(t *testing.T) {
	a := New("A1", "PT-100", "", Trigger{Type: TriggerHigh, Value: 100.0}, 2)

	a.Shelve(nil)
	if got := a.State(); got != SHLVD {
		t.Fatalf("expected SHLVD, got %v", got)
	}
	if ops := a.Operations(); ops[OpShelve] {
		t.Fatalf("expected shelve operation inadmissible while already shelved")
	}

	a.Unshelve()
	if got := a.State(); got != NORM {
		t.Fatalf("expected NORM after unshelve, got %v", got)
	}
}

func TestSilenceAndSound(t *testing.T) {
	a := New("A1", "PT-100", "", Trigger{Type: TriggerHigh, Value: 100.0}, 2)
	a.Update(150.0) // NORM -> UNACK, audible=true

	if !a.Audible() {
		t.Fatalf("expected UNACK to be audible")
	}

	a.Silence()
	if a.Audible() {
		t.Fatalf("expected silence to clear audible")
	}

	a.Sound()
	if !a.Audible() {
		t.Fatalf("expected sound to restore audible while triggered")
	}
}

func TestShelveIgnoredWhenOutOfService(t *testing.T) {
	a := New("A1", "PT-100", "", Trigger{Type: TriggerHigh, Value: 100.0}, 2)

	a.OutOfService()
	if got := a.State(); got != OOSRV {
		t.Fatalf("expected OOSRV, got %v", got)
	}

	a.Shelve(nil)
	if got := a.State(); got != OOSRV {
		t.Fatalf("expected shelve to be a no-op while OOSRV, got %v", got)
	}
}

func TestOutOfServiceIgnoredWhileShelved(t *testing.T) {
	a := New("A1", "PT-100", "", Trigger{Type: TriggerHigh, Value: 100.0}, 2)

	a.Shelve(nil)
	a.OutOfService()
	if got := a.State(); got != SHLVD {
		t.Fatalf("expected out_of_service to be a no-op while SHLVD, got %v", got)
	}

	a.ReturnToService()
	if got := a.State(); got != SHLVD {
		t.Fatalf("expected return_to_service to be a no-op while SHLVD, got %v", got)
	}
}

func TestSuppressUnsuppressByDesign(t *testing.T) {
	a := New("A1", "PT-100", "", Trigger{Type: TriggerHigh, Value: 100.0}, 2)

	a.SuppressByDesign()
	if got := a.State(); got != DSUPR {
		t.Fatalf("expected DSUPR, got %v", got)
	}

	a.SuppressByDesign()
	if got := a.State(); got != DSUPR {
		t.Fatalf("expected repeat suppress_by_design to be a no-op, got %v", got)
	}

	a.UnsuppressByDesign()
	if got := a.State(); got != NORM {
		t.Fatalf("expected NORM after unsuppress_by_design, got %v", got)
	}
}

func TestResetReturnsToNormAndDefaultOperations(t *testing.T) {
	a := New("A1", "PT-100", "", Trigger{Type: TriggerHigh, Value: 100.0}, 2)
	a.Update(150.0)
	a.Disable()

	a.Reset()

	if got := a.State(); got != NORM {
		t.Fatalf("expected NORM after reset, got %v", got)
	}
	if !a.Enabled() {
		t.Fatalf("expected reset to re-enable the alarm")
	}
	want := New("A2", "PT-100", "", Trigger{Type: TriggerHigh, Value: 100.0}, 2).Operations()
	if got := a.Operations(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected default operations after reset, got %v, want %v", got, want)
	}
}
