package consts

const (
	DefaultEfficiency = 0.85 // Assumed efficiency when a driver has no curve data
	EfficiencyFloor   = 0.5  // Lower clamp on estimated efficiency
	EfficiencyCeiling = 0.98 // Upper clamp on estimated efficiency

	HighLineVoltage = 200.0 // AC input (V) at or above this uses the 277 V curve
	LoadPercentCap  = 150.0 // Load percent lookups are clamped to this value

	NominalFromMaxFraction = 0.7 // Suggested drive current as a fraction of the max rating
	FallbackCurrentA       = 0.5 // Suggested drive current (A) when a module has no ratings
)
