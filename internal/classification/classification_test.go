package classification

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/domain"
)

func TestClassifyKnownCategories(t *testing.T) {
	tests := []struct {
		category string
		logger   domain.LoggerModule
		ruleset  string
		interval int
	}{
		{"Boiler", domain.LoggerBoiler, "ASME_BOILER_PRESSURE_VESSEL", 30},
		{"Chiller", domain.LoggerChiller, "EPA_REFRIGERANT_MANAGEMENT", 45},
		{"Pump", domain.LoggerPump, "DOE_PUMP_EFFICIENCY", 90},
		{"Compressor", domain.LoggerCompressor, "OSHA_COMPRESSED_GAS", 60},
		{"Motor", domain.LoggerEnergy, "NEMA_MOTOR_STANDARDS", 90},
		{"AHU", domain.LoggerEnergy, GeneralRuleset, 90},
		{"Exhaust Fan", domain.LoggerEnergy, GeneralRuleset, 90},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			a := Classify(tt.category)
			assert.Equal(t, tt.logger, a.LoggerModule)
			assert.Equal(t, tt.ruleset, a.ComplianceRuleset)
			assert.Equal(t, tt.interval, a.Benchmark.ServiceIntervalDays)
			assert.True(t, Known(tt.category))
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	for _, c := range append(Categories(), "Cooling Tower", "") {
		first, err := json.Marshal(Classify(c))
		require.NoError(t, err)
		second, err := json.Marshal(Classify(c))
		require.NoError(t, err)
		assert.Equal(t, first, second, c)
	}
}

func TestClassifyUnknownFallsBack(t *testing.T) {
	for _, c := range []string{"Cooling Tower", "boiler", "", "🔥"} {
		a := Classify(c)
		assert.Equal(t, domain.LoggerEnergy, a.LoggerModule)
		assert.Equal(t, GeneralRuleset, a.ComplianceRuleset)
		assert.Equal(t, domain.Benchmark{
			MinEfficiencyThreshold: 75,
			CriticalThreshold:      60,
			ServiceIntervalDays:    90,
			InspectionFrequency:    "quarterly",
		}, a.Benchmark)
		assert.False(t, Known(c))
	}
}
