// Package classification maps an equipment category to its logger module,
// compliance ruleset and benchmark thresholds.
package classification

import "github.com/ANIKETSHETTY47/facility-intake-engine/internal/domain"

const GeneralRuleset = "GENERAL_EQUIPMENT_MAINTENANCE"

// Assignment is the metadata auto-assigned to a piece of equipment.
type Assignment struct {
	LoggerModule      domain.LoggerModule `json:"logger_module"`
	ComplianceRuleset string              `json:"compliance_ruleset"`
	Benchmark         domain.Benchmark    `json:"benchmark_defaults"`
}

var DefaultBenchmark = domain.Benchmark{
	MinEfficiencyThreshold: 75,
	CriticalThreshold:      60,
	ServiceIntervalDays:    90,
	InspectionFrequency:    "quarterly",
}

var rules = map[string]Assignment{
	"Boiler": {
		LoggerModule:      domain.LoggerBoiler,
		ComplianceRuleset: "ASME_BOILER_PRESSURE_VESSEL",
		Benchmark:         domain.Benchmark{MinEfficiencyThreshold: 80, CriticalThreshold: 65, ServiceIntervalDays: 30, InspectionFrequency: "monthly"},
	},
	"Chiller": {
		LoggerModule:      domain.LoggerChiller,
		ComplianceRuleset: "EPA_REFRIGERANT_MANAGEMENT",
		Benchmark:         domain.Benchmark{MinEfficiencyThreshold: 78, CriticalThreshold: 62, ServiceIntervalDays: 45, InspectionFrequency: "monthly"},
	},
	"Pump": {
		LoggerModule:      domain.LoggerPump,
		ComplianceRuleset: "DOE_PUMP_EFFICIENCY",
		Benchmark:         domain.Benchmark{MinEfficiencyThreshold: 75, CriticalThreshold: 60, ServiceIntervalDays: 90, InspectionFrequency: "quarterly"},
	},
	"Compressor": {
		LoggerModule:      domain.LoggerCompressor,
		ComplianceRuleset: "OSHA_COMPRESSED_GAS",
		Benchmark:         domain.Benchmark{MinEfficiencyThreshold: 72, CriticalThreshold: 58, ServiceIntervalDays: 60, InspectionFrequency: "bi-monthly"},
	},
	"Motor":       {LoggerModule: domain.LoggerEnergy, ComplianceRuleset: "NEMA_MOTOR_STANDARDS", Benchmark: DefaultBenchmark},
	"AHU":         {LoggerModule: domain.LoggerEnergy, ComplianceRuleset: GeneralRuleset, Benchmark: DefaultBenchmark},
	"RTU":         {LoggerModule: domain.LoggerEnergy, ComplianceRuleset: GeneralRuleset, Benchmark: DefaultBenchmark},
	"Exhaust Fan": {LoggerModule: domain.LoggerEnergy, ComplianceRuleset: GeneralRuleset, Benchmark: DefaultBenchmark},
}

var fallback = Assignment{
	LoggerModule:      domain.LoggerEnergy,
	ComplianceRuleset: GeneralRuleset,
	Benchmark:         DefaultBenchmark,
}

// Classify never fails: unrecognised categories get the generic assignment.
func Classify(category string) Assignment {
	if a, ok := rules[category]; ok {
		return a
	}
	return fallback
}

// Known reports whether category has a dedicated rule.
func Known(category string) bool {
	_, ok := rules[category]
	return ok
}

// Categories lists the categories with dedicated rules.
func Categories() []string {
	return []string{"Boiler", "Chiller", "Pump", "Compressor", "Motor", "AHU", "RTU", "Exhaust Fan"}
}
