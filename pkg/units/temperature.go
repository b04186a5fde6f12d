// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package units

// VariableTemperature is the Variable name reserved for the affine
// degC/degF/K/degR conversions. Every other Variable uses a plain factor
// ratio (see Table.Convert).
const VariableTemperature = "Temperature"

const (
	UnitCelsius    = "degC"
	UnitFahrenheit = "degF"
	UnitKelvin     = "K"
	UnitRankine    = "degR"
)

// toKelvin converts value in unit u to Kelvin.
func toKelvin(value float64, u string) (float64, error) {
	switch u {
	case UnitCelsius:
		return value + 273.15, nil
	case UnitFahrenheit:
		return (value-32)*5/9 + 273.15, nil
	case UnitKelvin:
		return value, nil
	case UnitRankine:
		return value * 5 / 9, nil
	default:
		return 0, ErrUnknownUnit{Unit: u}
	}
}

// fromKelvin converts a Kelvin value to unit u.
func fromKelvin(value float64, u string) (float64, error) {
	switch u {
	case UnitCelsius:
		return value - 273.15, nil
	case UnitFahrenheit:
		return (value-273.15)*9/5 + 32, nil
	case UnitKelvin:
		return value, nil
	case UnitRankine:
		return value * 9 / 5, nil
	default:
		return 0, ErrUnknownUnit{Unit: u}
	}
}

// convertTemperature implements all 16 direct/inverse combinations required
// by spec §4.1 by routing every pair through Kelvin as the common pivot.
func convertTemperature(value float64, from, to string) (float64, error) {
	k, err := toKelvin(value, from)
	if err != nil {
		return 0, err
	}
	return fromKelvin(k, to)
}
