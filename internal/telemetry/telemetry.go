package telemetry

// Column is the name of a telemetry column as it appears in the header row
// of an uploaded table.
type Column string

// Known vehicle telemetry columns. A table may carry any subset of them, plus
// columns outside this vocabulary which are loaded but never charted.
const (
	Timestamp                 Column = "Timestamp"                   // Time of the sensor reading
	EngineRPM                 Column = "Engine_RPM"                  // Engine speed in revolutions per minute
	CoolantTemp               Column = "Coolant_Temp_C"              // Coolant temperature in °C
	OilTemp                   Column = "Oil_Temp_C"                  // Oil temperature in °C
	BatteryVoltage            Column = "Battery_Voltage_V"           // Battery voltage in volts
	ManifoldPressure          Column = "MAP_kPa"                     // Manifold absolute pressure in kPa
	MassAirFlow               Column = "MAF_gps"                     // Mass air flow in grams per second
	IgnitionTiming            Column = "Ignition_Timing_Deg"         // Ignition timing advance in degrees
	EGRStatus                 Column = "EGR_Status"                  // Exhaust gas recirculation state, encoded
	CatalyticConverterPercent Column = "Catalytic_Converter_Percent" // Catalytic converter efficiency in %
	BrakeStatus               Column = "Brake_Status"                // Brake state, encoded
	TirePressure              Column = "Tire_Pressure_psi"           // Tire pressure in PSI
	AmbientTemp               Column = "Ambient_Temp_C"              // Ambient temperature in °C
	EngineLoadPercent         Column = "Engine_Load_Percent"         // Engine load in %

	// Date is derived from Timestamp by the loader, never read from input.
	Date Column = "Date"
)

// Vocabulary lists the input columns the dashboard knows how to chart.
var Vocabulary = []Column{
	Timestamp,
	EngineRPM,
	CoolantTemp,
	OilTemp,
	BatteryVoltage,
	ManifoldPressure,
	MassAirFlow,
	IgnitionTiming,
	EGRStatus,
	CatalyticConverterPercent,
	BrakeStatus,
	TirePressure,
	AmbientTemp,
	EngineLoadPercent,
}

func (c Column) String() string {
	return string(c)
}

// ColumnType is the inferred type of a loaded column.
type ColumnType int

const (
	TextColumn ColumnType = iota
	NumericColumn
	TimeColumn
	DateColumn
)

func (t ColumnType) String() string {
	switch t {
	case NumericColumn:
		return "numeric"
	case TimeColumn:
		return "time"
	case DateColumn:
		return "date"
	default:
		return "text"
	}
}
