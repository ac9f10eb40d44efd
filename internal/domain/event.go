package domain

import "time"

// EquipmentEvent is the flat JSON body posted to every fan-out target.
type EquipmentEvent struct {
	EquipmentID       string       `json:"equipment_id,omitempty"`
	FacilityID        string       `json:"facility_id,omitempty"`
	Category          string       `json:"equipment_type"`
	Brand             string       `json:"brand,omitempty"`
	Model             string       `json:"model,omitempty"`
	RPM               float64      `json:"rpm"`
	HP                float64      `json:"hp"`
	Voltage           float64      `json:"voltage"`
	Displacement      float64      `json:"displacement"`
	GPM               float64      `json:"gpm"`
	EfficiencyScore   int          `json:"efficiency_score"`
	Condition         Condition    `json:"condition"`
	SuggestedActions  []string     `json:"suggested_actions,omitempty"`
	NextService       string       `json:"next_service,omitempty"`
	LoggerModule      LoggerModule `json:"logger_module,omitempty"`
	ComplianceRuleset string       `json:"compliance_ruleset,omitempty"`
	Benchmark         *Benchmark   `json:"benchmark_defaults,omitempty"`
	SensorEnabled     bool         `json:"sensor_enabled"`
	ImageURL          string       `json:"image_url,omitempty"`
	Timestamp         time.Time    `json:"timestamp"`
	UploadedBy        string       `json:"uploaded_by,omitempty"`
}

// EventFromEquipment flattens a persisted record into its fan-out event.
func EventFromEquipment(e Equipment) EquipmentEvent {
	bench := e.Benchmark
	return EquipmentEvent{
		EquipmentID:       e.ID,
		FacilityID:        e.FacilityID,
		Category:          e.Category,
		Brand:             deref(e.Brand),
		Model:             deref(e.Model),
		RPM:               Float(e.RPM),
		HP:                Float(e.HP),
		Voltage:           Float(e.Voltage),
		Displacement:      Float(e.Displacement),
		GPM:               e.GPM,
		EfficiencyScore:   e.EfficiencyScore,
		Condition:         e.Condition,
		SuggestedActions:  e.SuggestedActions,
		NextService:       e.NextService,
		LoggerModule:      e.LoggerModule,
		ComplianceRuleset: e.ComplianceRuleset,
		Benchmark:         &bench,
		SensorEnabled:     e.SensorEnabled,
		ImageURL:          deref(e.ImageURL),
		Timestamp:         e.CreatedAt,
	}
}

// Float returns the pointed-to value, or 0 for a missing attribute.
func Float(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
