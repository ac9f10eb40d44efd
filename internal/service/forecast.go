package service

import (
	"time"

	"github.com/ANIKETSHETTY47/energy-grid-analytics-go/maintenance"

	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/domain"
)

const day = 24 * time.Hour

// Forecast is the maintenance outlook attached to a registration.
type Forecast struct {
	NextServiceDate time.Time `json:"next_service_date"`
	DaysUntil       int       `json:"days_until_service"`
	FailureRisk30d  float64   `json:"failure_risk_30d"`
	FailureRisk90d  float64   `json:"failure_risk_90d"`
	Recommendation  string    `json:"recommendation"`
}

// annual failure rate assumed per condition label
var failureRates = map[domain.Condition]float64{
	domain.ConditionGood:         0.1,
	domain.ConditionNeedsService: 0.3,
	domain.ConditionCritical:     0.6,
}

// horizonCap bounds the service interval by the condition's next-service horizon.
var horizonCap = map[domain.Condition]time.Duration{
	domain.ConditionCritical:     0,
	domain.ConditionNeedsService: 30 * day,
}

// ForecastFor treats registration time as the last service and projects the next one
// from the benchmark interval.
func ForecastFor(e domain.Equipment, now time.Time) Forecast {
	rate, ok := failureRates[e.Condition]
	if !ok {
		rate = failureRates[domain.ConditionNeedsService]
	}

	interval := time.Duration(e.Benchmark.ServiceIntervalDays) * day
	if interval <= 0 {
		interval = 90 * day
	}
	if limit, ok := horizonCap[e.Condition]; ok && limit < interval {
		interval = limit
	}

	health := maintenance.AssetHealth{
		HoursRun:           0,
		FailureRatePerYear: rate,
		LastService:        now,
		ServiceInterval:    interval,
	}
	risk30 := maintenance.FailureRisk(health.FailureRatePerYear, 30*day)
	risk90 := maintenance.FailureRisk(health.FailureRatePerYear, 90*day)
	next := maintenance.NextServiceDate(health)

	return Forecast{
		NextServiceDate: next,
		DaysUntil:       int(next.Sub(now).Hours() / 24),
		FailureRisk30d:  risk30,
		FailureRisk90d:  risk90,
		Recommendation:  recommendation(e.Condition, risk30, e.EfficiencyScore),
	}
}

func recommendation(c domain.Condition, risk float64, score int) string {
	switch {
	case c == domain.ConditionCritical || risk > 0.5 || score < 60:
		return "URGENT: Schedule immediate maintenance inspection"
	case risk > 0.3 || score < 75:
		return "Schedule maintenance within next 30 days"
	case risk > 0.15 || score < 85:
		return "Plan maintenance within next 90 days"
	default:
		return "Equipment operating normally"
	}
}
