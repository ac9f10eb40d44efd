package performance

import (
	"math"
	"math/rand"
	"strings"

	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/domain"
)

const (
	baselineScore = 85.0
	minScore      = 60.0
	maxScore      = 100.0

	// cubic inches per US gallon
	flowDivisor = 231.0

	referenceVoltage = 480.0
	maxJitter        = 5.0
)

const (
	ActionScheduleInspection = "Schedule preventive maintenance inspection"
	ActionCheckWear          = "Check for worn components or misalignment"
	ActionVerifySpecs        = "Verify operating conditions match nameplate specs"
	ActionCombustion         = "Inspect combustion efficiency and clean heat exchanger"
	ActionRoutineMonitoring  = "Continue routine monitoring"
	ActionNextServiceQuarter = "Next service in 3 months"
)

const (
	NextServiceImmediate = "Immediate"
	NextServiceWithin30  = "Within 30 days"
	NextServiceWithin90  = "Within 90 days"
)

// Input holds raw nameplate attributes. Missing values are zero.
type Input struct {
	RPM          float64 `json:"rpm"`
	HP           float64 `json:"hp"`
	Voltage      float64 `json:"voltage"`
	Displacement float64 `json:"displacement"`
	Category     string  `json:"equipment_type"`
}

type Assessment struct {
	GPM              float64          `json:"gpm"`
	EfficiencyScore  int              `json:"efficiency_score"`
	Condition        domain.Condition `json:"condition"`
	SuggestedActions []string         `json:"suggested_actions"`
	NextService      string           `json:"next_service"`
}

// Jitter returns a perturbation in [-5, 5).
type Jitter func() float64

// NoJitter makes scoring reproducible.
func NoJitter() float64 { return 0 }

// RandomJitter draws uniformly from [-5, 5) using the unseeded global source.
func RandomJitter() float64 {
	return rand.Float64()*2*maxJitter - maxJitter
}

type Scorer struct {
	jitter Jitter
}

func NewScorer(j Jitter) *Scorer {
	if j == nil {
		j = NoJitter
	}
	return &Scorer{jitter: j}
}

// Score computes the full assessment. It has no failure modes.
func (s *Scorer) Score(in Input) Assessment {
	score := Efficiency(in, s.jitter())
	cond := ConditionFor(score)
	return Assessment{
		GPM:              Flow(in.RPM, in.Displacement),
		EfficiencyScore:  score,
		Condition:        cond,
		SuggestedActions: Actions(score, in.Category),
		NextService:      NextServiceFor(cond),
	}
}

// Flow returns RPM × displacement / 231 rounded to two decimals, or 0 without a displacement.
func Flow(rpm, displacement float64) float64 {
	if displacement == 0 {
		return 0
	}
	gpm := rpm * displacement / flowDivisor
	if math.IsNaN(gpm) || math.IsInf(gpm, 0) {
		return 0
	}
	return math.Round(gpm*100) / 100
}

// Efficiency applies the nominal-range adjustments and the given jitter, clamps to
// [60, 100] and rounds to an integer.
func Efficiency(in Input, jitter float64) int {
	score := baselineScore
	if in.HP >= 15 && in.HP < 25 {
		score += 5
	}
	if in.Voltage == referenceVoltage {
		score += 2
	}
	if in.RPM >= 1700 && in.RPM <= 1800 {
		score += 3
	}
	if !math.IsNaN(jitter) && !math.IsInf(jitter, 0) {
		score += math.Max(-maxJitter, math.Min(maxJitter, jitter))
	}
	return int(math.Round(math.Min(maxScore, math.Max(minScore, score))))
}

func ConditionFor(score int) domain.Condition {
	switch {
	case score < 70:
		return domain.ConditionCritical
	case score < 85:
		return domain.ConditionNeedsService
	default:
		return domain.ConditionGood
	}
}

func NextServiceFor(c domain.Condition) string {
	switch c {
	case domain.ConditionCritical:
		return NextServiceImmediate
	case domain.ConditionNeedsService:
		return NextServiceWithin30
	default:
		return NextServiceWithin90
	}
}

// Actions builds the ordered suggestion list for a score.
func Actions(score int, category string) []string {
	var actions []string
	if score < 85 {
		actions = append(actions, ActionScheduleInspection)
	}
	if score < 75 {
		actions = append(actions, ActionCheckWear, ActionVerifySpecs)
	}
	if IsBoilerClass(category) && score < 80 {
		actions = append(actions, ActionCombustion)
	}
	if len(actions) == 0 {
		actions = []string{ActionRoutineMonitoring, ActionNextServiceQuarter}
	}
	return actions
}

// IsBoilerClass matches "boiler" anywhere in the category, case-insensitively.
func IsBoilerClass(category string) bool {
	return strings.Contains(strings.ToLower(category), "boiler")
}
