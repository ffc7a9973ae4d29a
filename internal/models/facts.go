// internal/models/facts.go
package models

// WeatherFacts holds the numeric weather readings rules consult. A nil field
// means the reading was not supplied.
type WeatherFacts struct {
	Rain24hMM   *float64 `json:"rain_24h_mm,omitempty"`
	WindSpeedMS *float64 `json:"wind_speed_ms,omitempty"`
	TempMaxC    *float64 `json:"temp_max_c,omitempty"`
	TempMinC    *float64 `json:"temp_min_c,omitempty"`
}

// Reading returns a supplied reading or zero when absent.
func Reading(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

// Float64 returns a pointer to v, for building WeatherFacts literals.
func Float64(v float64) *float64 {
	return &v
}

// Snapshot returns the supplied readings keyed by their wire names.
func (w *WeatherFacts) Snapshot() map[string]float64 {
	out := map[string]float64{}
	if w == nil {
		return out
	}
	for key, v := range map[string]*float64{
		"rain_24h_mm":   w.Rain24hMM,
		"wind_speed_ms": w.WindSpeedMS,
		"temp_max_c":    w.TempMaxC,
		"temp_min_c":    w.TempMinC,
	} {
		if v != nil {
			out[key] = *v
		}
	}
	return out
}

// PestReport is a regional pest observation.
type PestReport struct {
	Crop     string `json:"crop"`
	PestName string `json:"pest_name"`
	Severity string `json:"severity"`
}

// FieldState is the crop and growth stage of one of the farmer's fields.
type FieldState struct {
	Crop  string `json:"crop"`
	Stage string `json:"stage"`
}

// FactSet is the caller-assembled snapshot a single rule evaluation runs
// against. Every key is optional; an absent key means "no signal".
type FactSet struct {
	Weather     *WeatherFacts `json:"weather,omitempty"`
	PestReports []PestReport  `json:"pest_reports,omitempty"`
	FarmerCrops []string      `json:"farmer_crops,omitempty"`
	Fields      []FieldState  `json:"fields,omitempty"`
}

// GrowsCrop reports whether crop is among the farmer's current crops.
func (f FactSet) GrowsCrop(crop string) bool {
	for _, c := range f.FarmerCrops {
		if c == crop {
			return true
		}
	}
	return false
}
