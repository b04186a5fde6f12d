// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package units

// Default returns the baked-in unit table covering every Variable named in
// spec §6's seed rows (Pressure, Length, Mass, Temperature, Flow, Volume,
// Time, Speed, Power, Energy, Frequency, Current, Voltage, Density,
// Torque, Area, Acceleration, Dimensionless, Concentration, Viscosity).
// Additional units may still arrive via Table.AddJSON at startup (spec
// §4.1); this table is the floor every fresh CVT starts with.
func Default() *Table {
	t := NewTable()

	t.Add("Pa", "Pressure", 1)
	t.Add("kPa", "Pressure", 1000)
	t.Add("MPa", "Pressure", 1e6)
	t.Add("bar", "Pressure", 100000)
	t.Add("mbar", "Pressure", 100)
	t.Add("psi", "Pressure", 6894.757293168361)
	t.Add("atm", "Pressure", 101325)
	t.Add("torr", "Pressure", 133.322368421)
	t.Add("mmHg", "Pressure", 133.322387415)
	t.Add("inHg", "Pressure", 3386.389)
	t.Add("kgf/cm2", "Pressure", 98066.5)
	t.Add("inH2O", "Pressure", 249.08891)
	t.Add("ftH2O", "Pressure", 2988.98)

	t.Add("m", "Length", 1)
	t.Add("cm", "Length", 0.01)
	t.Add("mm", "Length", 0.001)
	t.Add("km", "Length", 1000)
	t.Add("in", "Length", 0.0254)
	t.Add("ft", "Length", 0.3048)
	t.Add("yd", "Length", 0.9144)
	t.Add("mi", "Length", 1609.344)
	t.Add("nm", "Length", 1e-9)
	t.Add("um", "Length", 1e-6)
	t.Add("mil", "Length", 0.0000254)
	t.Add("furlong", "Length", 201.168)
	t.Add("nmi", "Length", 1852)
	t.Add("ang", "Length", 1e-10)
	t.Add("fathom", "Length", 1.8288)

	t.Add("kg", "Mass", 1)
	t.Add("g", "Mass", 0.001)
	t.Add("mg", "Mass", 0.000001)
	t.Add("lb", "Mass", 0.45359237)
	t.Add("oz", "Mass", 0.028349523125)
	t.Add("t", "Mass", 1000)
	t.Add("ton_us", "Mass", 907.18474)
	t.Add("st", "Mass", 6.35029318)
	t.Add("ct", "Mass", 0.0002)
	t.Add("slug", "Mass", 14.59390294)

	t.Add(UnitCelsius, VariableTemperature, 1)
	t.Add(UnitFahrenheit, VariableTemperature, 1)
	t.Add(UnitKelvin, VariableTemperature, 1)
	t.Add(UnitRankine, VariableTemperature, 1)

	t.Add("m3/s", "Flow", 1)
	t.Add("m3/h", "Flow", 0.0002777778)
	t.Add("L/s", "Flow", 0.001)
	t.Add("L/min", "Flow", 0.0000166667)
	t.Add("gpm", "Flow", 0.0000630901964)
	t.Add("cfm", "Flow", 0.0004719474432)

	t.Add("m3", "Volume", 1)
	t.Add("L", "Volume", 0.001)
	t.Add("mL", "Volume", 0.000001)
	t.Add("gal", "Volume", 0.003785411784)
	t.Add("ft3", "Volume", 0.028316846592)
	t.Add("in3", "Volume", 0.000016387064)
	t.Add("bbl", "Volume", 0.158987294928)
	t.Add("qt", "Volume", 0.000946352946)
	t.Add("pt", "Volume", 0.000473176473)
	t.Add("cup", "Volume", 0.0002365882365)
	t.Add("tbsp", "Volume", 0.0000147867648)
	t.Add("tsp", "Volume", 0.00000492892159)

	t.Add("s", "Time", 1)
	t.Add("ms", "Time", 0.001)
	t.Add("min", "Time", 60)
	t.Add("h", "Time", 3600)
	t.Add("day", "Time", 86400)
	t.Add("us", "Time", 0.000001)
	t.Add("ns", "Time", 0.000000001)
	t.Add("week", "Time", 604800)
	t.Add("month", "Time", 2628000)
	t.Add("year", "Time", 31536000)

	t.Add("m/s", "Speed", 1)
	t.Add("km/h", "Speed", 0.2777778)
	t.Add("mph", "Speed", 0.44704)
	t.Add("ft/s", "Speed", 0.3048)
	t.Add("kn", "Speed", 0.5144444)

	t.Add("W", "Power", 1)
	t.Add("kW", "Power", 1000)
	t.Add("MW", "Power", 1e6)
	t.Add("hp", "Power", 745.699872)
	t.Add("BTU/h", "Power", 0.29307107)

	t.Add("J", "Energy", 1)
	t.Add("kJ", "Energy", 1000)
	t.Add("MJ", "Energy", 1e6)
	t.Add("Wh", "Energy", 3600)
	t.Add("kWh", "Energy", 3.6e6)
	t.Add("cal", "Energy", 4.184)
	t.Add("kcal", "Energy", 4184)
	t.Add("BTU", "Energy", 1055.05585262)
	t.Add("erg", "Energy", 1e-7)
	t.Add("therm", "Energy", 105505585.262)
	t.Add("eV", "Energy", 1.602176634e-19)

	t.Add("Hz", "Frequency", 1)
	t.Add("kHz", "Frequency", 1000)
	t.Add("MHz", "Frequency", 1e6)
	t.Add("GHz", "Frequency", 1e9)
	t.Add("rpm", "Frequency", 0.0166667)

	t.Add("A", "Current", 1)
	t.Add("mA", "Current", 0.001)
	t.Add("kA", "Current", 1000)
	t.Add("uA", "Current", 0.000001)

	t.Add("V", "Voltage", 1)
	t.Add("mV", "Voltage", 0.001)
	t.Add("kV", "Voltage", 1000)
	t.Add("MV", "Voltage", 1e6)

	t.Add("kg/m3", "Density", 1)
	t.Add("g/cm3", "Density", 1000)
	t.Add("g/L", "Density", 1)
	t.Add("lb/ft3", "Density", 16.01846337)
	t.Add("lb/gal", "Density", 119.826427)

	t.Add("Nm", "Torque", 1)
	t.Add("kNm", "Torque", 1000)
	t.Add("lbf-ft", "Torque", 1.3558179483)
	t.Add("lbf-in", "Torque", 0.1129848290)
	t.Add("kgf-m", "Torque", 9.80665)

	t.Add("m2", "Area", 1)
	t.Add("cm2", "Area", 0.0001)
	t.Add("mm2", "Area", 0.000001)
	t.Add("km2", "Area", 1e6)
	t.Add("in2", "Area", 0.00064516)
	t.Add("ft2", "Area", 0.09290304)
	t.Add("acre", "Area", 4046.8564224)
	t.Add("ha", "Area", 10000)

	t.Add("m/s2", "Acceleration", 1)
	t.Add("g0", "Acceleration", 9.80665)
	t.Add("ft/s2", "Acceleration", 0.3048)

	t.Add("none", "Dimensionless", 1)
	t.Add("pct", "Dimensionless", 0.01)
	t.Add("ppm", "Dimensionless", 0.000001)
	t.Add("ppb", "Dimensionless", 0.000000001)

	t.Add("mg/L", "Concentration", 1)
	t.Add("ug/L", "Concentration", 0.001)
	t.Add("ng/L", "Concentration", 0.000001)
	t.Add("pg/L", "Concentration", 1e-9)
	t.Add("mg/m3", "Concentration", 0.001)
	t.Add("ug/m3", "Concentration", 0.000001)

	t.Add("Pa_s", "Viscosity", 1)
	t.Add("mPa_s", "Viscosity", 0.001)
	t.Add("cP", "Viscosity", 0.001)
	t.Add("P", "Viscosity", 0.1)

	return t
}
