package sml

// Unit is a DLMS physical unit code (IEC 62056-62).
type Unit uint8

const (
	UnitNone                 Unit = 0
	UnitYear                 Unit = 1
	UnitMonth                Unit = 2
	UnitWeek                 Unit = 3
	UnitDay                  Unit = 4
	UnitHour                 Unit = 5
	UnitMinute               Unit = 6
	UnitSecond               Unit = 7
	UnitDegree               Unit = 8
	UnitDegreeCelsius        Unit = 9
	UnitCurrency             Unit = 10
	UnitMetre                Unit = 11
	UnitMetrePerSecond       Unit = 12
	UnitCubicMetre           Unit = 13
	UnitCorrCubicMetre       Unit = 14
	UnitCubicMetrePerHour    Unit = 15
	UnitCorrCubicMetrePerHr  Unit = 16
	UnitCubicMetrePerDay     Unit = 17
	UnitCorrCubicMetrePerDay Unit = 18
	UnitLitre                Unit = 19
	UnitKilogram             Unit = 20
	UnitNewton               Unit = 21
	UnitNewtonMetre          Unit = 22
	UnitPascal               Unit = 23
	UnitBar                  Unit = 24
	UnitJoule                Unit = 25
	UnitJoulePerHour         Unit = 26
	UnitWatt                 Unit = 27
	UnitVoltAmpere           Unit = 28
	UnitVar                  Unit = 29
	UnitWattHour             Unit = 30
	UnitVoltAmpereHour       Unit = 31
	UnitVarHour              Unit = 32
	UnitAmpere               Unit = 33
	UnitCoulomb              Unit = 34
	UnitVolt                 Unit = 35
	UnitVoltPerMetre         Unit = 36
	UnitFarad                Unit = 37
	UnitOhm                  Unit = 38
	UnitOhmMetre             Unit = 39
	UnitWeber                Unit = 40
	UnitTesla                Unit = 41
	UnitAmperePerMetre       Unit = 42
	UnitHenry                Unit = 43
	UnitHertz                Unit = 44
	UnitPerWattHour          Unit = 45
	UnitPerVarHour           Unit = 46
	UnitPerVoltAmpereHour    Unit = 47
	UnitKilogramPerSecond    Unit = 50
	UnitSiemens              Unit = 51
	UnitKelvin               Unit = 52
	UnitPerCubicMetre        Unit = 55
	UnitPercent              Unit = 56
	UnitAmpereHour           Unit = 57
	UnitMolePercent          Unit = 62
	UnitGramPerCubicMetre    Unit = 63
	UnitPascalSecond         Unit = 64
)

// Symbols are kept identifier safe so they can be appended to JSON keys.
var unitSymbols = [...]string{
	"",       // 0 no unit
	"a",      // 1 year
	"mo",     // 2 month
	"wk",     // 3 week
	"d",      // 4 day
	"h",      // 5 hour
	"min",    // 6 minute
	"s",      // 7 second
	"deg",    // 8 (phase) angle
	"degC",   // 9 temperature
	"",       // 10 (local) currency
	"m",      // 11 length
	"m_s",    // 12 speed
	"m3",     // 13 volume
	"m3",     // 14 corrected volume
	"m3_h",   // 15 volume flux
	"m3_h",   // 16 corrected volume flux
	"m3_d",   // 17 volume flux
	"m3_d",   // 18 corrected volume flux
	"l",      // 19 litre
	"kg",     // 20 mass
	"N",      // 21 force
	"Nm",     // 22 energy
	"Pa",     // 23 pressure
	"bar",    // 24 pressure
	"J",      // 25 energy
	"J_h",    // 26 thermal power
	"W",      // 27 active power
	"VA",     // 28 apparent power
	"var",    // 29 reactive power
	"Wh",     // 30 active energy
	"VAh",    // 31 apparent energy
	"varh",   // 32 reactive energy
	"A",      // 33 current
	"C",      // 34 electrical charge
	"V",      // 35 voltage
	"V_m",    // 36 electric field strength
	"F",      // 37 capacitance
	"Ohm",    // 38 resistance
	"Ohmm",   // 39 resistivity
	"Wb",     // 40 magnetic flux
	"T",      // 41 magnetic flux density
	"A_m",    // 42 magnetic field strength
	"H",      // 43 inductance
	"Hz",     // 44 frequency
	"1_Wh",   // 45 active energy meter constant
	"1_varh", // 46 reactive energy meter constant
	"1_VAh",  // 47 apparent energy meter constant
	"V2h",    // 48 volt-squared hour
	"A2h",    // 49 ampere-squared hour
	"kg_s",   // 50 mass flux
	"S",      // 51 conductance
	"K",      // 52 temperature
	"1_V2h",  // 53 volt-squared hour meter constant
	"1_A2h",  // 54 ampere-squared hour meter constant
	"1_m3",   // 55 volume meter constant
	"pct",    // 56 percentage
	"Ah",     // 57 ampere-hour
	"",       // 58
	"",       // 59
	"Wh_m3",  // 60 energy per volume
	"J_m3",   // 61 calorific value
	"Molpct", // 62 molar fraction
	"g_m3",   // 63 mass density
	"Pas",    // 64 dynamic viscosity
}

// String returns the unit symbol, or an empty string for codes without one.
func (u Unit) String() string {
	if int(u) < len(unitSymbols) {
		return unitSymbols[u]
	}
	return ""
}
