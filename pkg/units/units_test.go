// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package units

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestConvertIdentity(t *testing.T) {
	tb := Default()
	v, err := tb.Convert(10, "m", "m")
	if err != nil || v != 10 {
		t.Fatalf("identity convert failed: %v %v", v, err)
	}
}

func TestConvertLength(t *testing.T) {
	tb := Default()

	v, err := tb.Convert(10, "m", "cm")
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(v, 1000.0, 1e-9) {
		t.Fatalf("10 m -> cm = %v, want 1000", v)
	}

	v, err = tb.Convert(10, "m", "in")
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(v, 393.7008, 1e-3) {
		t.Fatalf("10 m -> in = %v, want ~393.7008", v)
	}
}

func TestConvertIncompatibleUnits(t *testing.T) {
	tb := Default()
	if _, err := tb.Convert(10, "m", "K"); err == nil {
		t.Fatal("expected IncompatibleUnits error")
	} else if _, ok := err.(ErrIncompatibleUnits); !ok {
		t.Fatalf("expected ErrIncompatibleUnits, got %T", err)
	}
}

func TestConvertUnknownUnit(t *testing.T) {
	tb := Default()
	if _, err := tb.Convert(10, "m", "parsec"); err == nil {
		t.Fatal("expected UnknownUnit error")
	} else if _, ok := err.(ErrUnknownUnit); !ok {
		t.Fatalf("expected ErrUnknownUnit, got %T", err)
	}
}

func TestConvertInvolutionNonTemperature(t *testing.T) {
	tb := Default()
	pairs := [][2]string{{"Pa", "bar"}, {"m", "ft"}, {"kg", "lb"}}
	for _, p := range pairs {
		v := 42.5
		out, err := tb.Convert(v, p[0], p[1])
		if err != nil {
			t.Fatal(err)
		}
		back, err := tb.Convert(out, p[1], p[0])
		if err != nil {
			t.Fatal(err)
		}
		if !almostEqual(back, v, 1e-6) {
			t.Fatalf("involution failed for %v: %v -> %v -> %v", p, v, out, back)
		}
	}
}

func TestConvertTemperatureAllCombinations(t *testing.T) {
	tb := Default()
	units := []string{UnitCelsius, UnitFahrenheit, UnitKelvin, UnitRankine}
	for _, from := range units {
		for _, to := range units {
			if _, err := tb.Convert(0, from, to); err != nil {
				t.Fatalf("convert %s -> %s failed: %v", from, to, err)
			}
		}
	}
}

func TestConvertTemperatureKnownValues(t *testing.T) {
	tb := Default()

	v, err := tb.Convert(0, UnitCelsius, UnitFahrenheit)
	if err != nil || !almostEqual(v, 32, 1e-9) {
		t.Fatalf("0C -> F = %v, %v, want 32", v, err)
	}

	v, err = tb.Convert(100, UnitCelsius, UnitKelvin)
	if err != nil || !almostEqual(v, 373.15, 1e-9) {
		t.Fatalf("100C -> K = %v, %v, want 373.15", v, err)
	}

	v, err = tb.Convert(32, UnitFahrenheit, UnitRankine)
	if err != nil || !almostEqual(v, 491.67, 1e-9) {
		t.Fatalf("32F -> R = %v, %v, want 491.67", v, err)
	}
}

func TestAddJSONFirstWins(t *testing.T) {
	tb := NewTable()
	tb.Add("Pa", "Pressure", 1)

	err := tb.AddJSON([]byte(`{"Pa": {"variable": "Bogus", "factor": 99}, "kPa": {"variable": "Pressure", "factor": 1000}}`))
	if err != nil {
		t.Fatal(err)
	}

	variable, ok := tb.Variable("Pa")
	if !ok || variable != "Pressure" {
		t.Fatalf("first-wins violated: Pa variable = %q", variable)
	}

	v, err := tb.Convert(2, "kPa", "Pa")
	if err != nil || v != 2000 {
		t.Fatalf("2 kPa -> Pa = %v, %v, want 2000", v, err)
	}
}
