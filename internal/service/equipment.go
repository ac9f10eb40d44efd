package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/billing"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/classification"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/dispatch"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/domain"
	apperrors "github.com/ANIKETSHETTY47/facility-intake-engine/internal/errors"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/performance"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/repository"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/tier"
)

const entityEquipment = "equipment"

// EquipmentRequest registers one item. The scoring fields are optional; when
// efficiency_score is present the scorer is skipped.
type EquipmentRequest struct {
	FacilityID   string   `json:"facility_id" validate:"required"`
	Category     string   `json:"equipment_type" validate:"required,max=100"`
	Brand        *string  `json:"brand,omitempty"`
	Model        *string  `json:"model,omitempty"`
	RPM          *float64 `json:"rpm,omitempty"`
	HP           *float64 `json:"hp,omitempty"`
	Voltage      *float64 `json:"voltage,omitempty"`
	Displacement *float64 `json:"displacement,omitempty"`
	ImageURL     *string  `json:"image_url,omitempty"`

	SensorEnabled bool `json:"sensor_enabled"`

	GPM              *float64         `json:"gpm,omitempty"`
	EfficiencyScore  *int             `json:"efficiency_score,omitempty" validate:"omitempty,gte=0,lte=100"`
	Condition        domain.Condition `json:"condition,omitempty" validate:"omitempty,oneof='Good' 'Needs Service' 'Critical'"`
	NextService      string           `json:"next_service,omitempty"`
	SuggestedActions []string         `json:"suggested_actions,omitempty"`

	UploadedBy string         `json:"uploaded_by,omitempty"`
	Workflows  dispatch.Flags `json:"enabled_workflows"`
}

func (r EquipmentRequest) input() performance.Input {
	return performance.Input{
		RPM:          domain.Float(r.RPM),
		HP:           domain.Float(r.HP),
		Voltage:      domain.Float(r.Voltage),
		Displacement: domain.Float(r.Displacement),
		Category:     r.Category,
	}
}

// QuotaSummary reports usage against the facility's included equipment count.
type QuotaSummary struct {
	Used      int  `json:"used"`
	Included  int  `json:"included"`
	Unbounded bool `json:"unbounded"`
	Exceeded  bool `json:"exceeded"`
}

type EquipmentResult struct {
	Equipment    domain.Equipment          `json:"equipment"`
	AutoAssigned classification.Assignment `json:"auto_assigned"`
	Billing      billing.Summary           `json:"billing"`
	Quota        QuotaSummary              `json:"quota"`
	Forecast     Forecast                  `json:"forecast"`
	Dispatch     dispatch.Report           `json:"dispatch"`
}

type EquipmentService struct {
	store     repository.Store
	scorer    *performance.Scorer
	fanout    Fanout
	recorder  Recorder
	hardQuota bool
	async     bool
	now       func() time.Time
	inflight  *sync.WaitGroup
	log       zerolog.Logger
}

// Register runs the intake pipeline for one item. Only validation, a missing facility,
// a hard-quota rejection or a failed equipment insert abort it. Ledger and fan-out
// failures are reported in the result.
func (s *EquipmentService) Register(ctx context.Context, req EquipmentRequest) (EquipmentResult, error) {
	req.FacilityID = strings.TrimSpace(req.FacilityID)
	req.Category = strings.TrimSpace(req.Category)
	if err := validateStruct(req); err != nil {
		s.recorder.ObserveRegistration(entityEquipment, ResultRejected)
		return EquipmentResult{}, err
	}

	facility, err := s.store.GetFacility(ctx, req.FacilityID)
	if errors.Is(err, repository.ErrNotFound) {
		s.recorder.ObserveRegistration(entityEquipment, ResultRejected)
		return EquipmentResult{}, apperrors.NewNotFoundError("facility not found", req.FacilityID)
	}
	if err != nil {
		s.recorder.ObserveRegistration(entityEquipment, ResultFailed)
		return EquipmentResult{}, apperrors.NewPersistenceError("failed to load facility", err)
	}

	log := s.log.With().
		Str("facility_id", facility.ID).
		Str("tier", string(facility.Tier)).
		Str("category", req.Category).
		Logger()

	quota := QuotaSummary{
		Included:  facility.MaxEquipmentIncluded,
		Unbounded: unbounded(facility),
	}
	used, err := s.store.CountEquipment(ctx, facility.ID)
	if err != nil {
		log.Warn().Err(err).Msg("equipment count unavailable")
	}

	assigned := classification.Classify(req.Category)
	if !classification.Known(req.Category) {
		log.Debug().Msg("unrecognised category, generic classification applied")
	}
	assessment := s.assess(req)

	e := domain.Equipment{
		FacilityID:        facility.ID,
		Category:          req.Category,
		Brand:             req.Brand,
		Model:             req.Model,
		RPM:               req.RPM,
		HP:                req.HP,
		Voltage:           req.Voltage,
		Displacement:      req.Displacement,
		GPM:               assessment.GPM,
		EfficiencyScore:   assessment.EfficiencyScore,
		Condition:         assessment.Condition,
		NextService:       assessment.NextService,
		SuggestedActions:  assessment.SuggestedActions,
		LoggerModule:      assigned.LoggerModule,
		ComplianceRuleset: assigned.ComplianceRuleset,
		Benchmark:         assigned.Benchmark,
		SensorEnabled:     req.SensorEnabled && facility.SensorEnabled,
		ImageURL:          req.ImageURL,
	}

	limit := 0
	if s.hardQuota && !quota.Unbounded {
		limit = facility.MaxEquipmentIncluded
	}
	if err := s.store.CreateEquipment(ctx, &e, limit); err != nil {
		switch {
		case errors.Is(err, repository.ErrQuotaExceeded):
			s.recorder.ObserveRegistration(entityEquipment, ResultRejected)
			log.Warn().Int("included", facility.MaxEquipmentIncluded).Msg("equipment quota reached")
			return EquipmentResult{}, apperrors.NewQuotaExceededError("equipment quota exceeded for facility", facility.ID)
		case errors.Is(err, repository.ErrNotFound):
			s.recorder.ObserveRegistration(entityEquipment, ResultRejected)
			return EquipmentResult{}, apperrors.NewNotFoundError("facility not found", facility.ID)
		default:
			s.recorder.ObserveRegistration(entityEquipment, ResultFailed)
			return EquipmentResult{}, apperrors.NewPersistenceError("failed to create equipment", err)
		}
	}
	s.recorder.ObserveRegistration(entityEquipment, ResultCreated)
	log = log.With().Str("equipment_id", e.ID).Logger()

	quota.Used = used + 1
	quota.Exceeded = !quota.Unbounded && quota.Used > quota.Included
	if quota.Exceeded {
		log.Warn().
			Int("used", quota.Used).
			Int("included", quota.Included).
			Msg("facility is over its included equipment count")
	}

	res := EquipmentResult{
		Equipment:    e,
		AutoAssigned: assigned,
		Billing:      s.bill(ctx, log, facility, e, req.SensorEnabled),
		Quota:        quota,
		Forecast:     ForecastFor(e, s.now()),
	}

	ev := domain.EventFromEquipment(e)
	ev.UploadedBy = req.UploadedBy
	res.Dispatch = s.dispatch(ctx, log, ev, req.Workflows)

	log.Info().
		Int("efficiency_score", e.EfficiencyScore).
		Str("condition", string(e.Condition)).
		Bool("dispatch_success", res.Dispatch.Success).
		Msg("equipment registered")
	return res, nil
}

func unbounded(f domain.Facility) bool {
	if p, err := tier.Lookup(f.Tier); err == nil && p.Unbounded {
		return true
	}
	return f.MaxEquipmentIncluded >= tier.UnboundedQuota
}

// assess scores the request, or completes a caller-supplied assessment.
func (s *EquipmentService) assess(req EquipmentRequest) performance.Assessment {
	var a performance.Assessment
	if req.EfficiencyScore == nil {
		a = s.scorer.Score(req.input())
	} else {
		score := *req.EfficiencyScore
		a = performance.Assessment{
			GPM:              performance.Flow(domain.Float(req.RPM), domain.Float(req.Displacement)),
			EfficiencyScore:  score,
			Condition:        performance.ConditionFor(score),
			SuggestedActions: performance.Actions(score, req.Category),
		}
		if req.Condition != "" {
			a.Condition = req.Condition
		}
		a.NextService = performance.NextServiceFor(a.Condition)
		if req.NextService != "" {
			a.NextService = req.NextService
		}
		if len(req.SuggestedActions) > 0 {
			a.SuggestedActions = req.SuggestedActions
		}
	}
	if req.GPM != nil {
		a.GPM = *req.GPM
	}
	return a
}

func (s *EquipmentService) bill(ctx context.Context, log zerolog.Logger, f domain.Facility, e domain.Equipment, sensorRequested bool) billing.Summary {
	items := billing.For(f.Tier, e.Category, sensorRequested)
	sum := billing.Summarize(items)
	if len(items) == 0 {
		sum.Recorded = true
		return sum
	}

	for i := range items {
		items[i].FacilityID = f.ID
		items[i].EquipmentID = &e.ID
	}
	if err := s.store.CreateBillingItems(ctx, items); err != nil {
		log.Error().
			Err(apperrors.NewBillingLedgerError("equipment billing items not recorded", err)).
			Int64("total", sum.Total).
			Msg("billing ledger write failed")
		return sum
	}
	for _, it := range items {
		s.recorder.ObserveBillingItem(string(it.ItemType))
	}
	sum.Recorded = true
	return sum
}

func (s *EquipmentService) dispatch(ctx context.Context, log zerolog.Logger, ev domain.EquipmentEvent, flags dispatch.Flags) dispatch.Report {
	if !s.async {
		return s.fanout.Dispatch(ctx, ev, flags)
	}

	// the fan-out outlives the request
	detached := context.WithoutCancel(ctx)
	safeGo(s.inflight, log, "equipment-dispatch", func() {
		report := s.fanout.Dispatch(detached, ev, flags)
		evt := log.Info()
		if !report.Success {
			evt = log.Warn()
		}
		evt.Bool("success", report.Success).
			Int("targets", len(report.Results)).
			Int("failed", len(report.Errors)).
			Msg("queued dispatch finished")
	})
	return dispatch.Report{Queued: true, Results: map[string]dispatch.Outcome{}}
}

// Calculate scores attributes without persisting anything.
func (s *EquipmentService) Calculate(in performance.Input) performance.Assessment {
	return s.scorer.Score(in)
}

// DispatchRequest re-sends an already finalized event.
type DispatchRequest struct {
	Event     domain.EquipmentEvent `json:"equipment_data"`
	Workflows dispatch.Flags        `json:"enabled_workflows"`
}

func (s *EquipmentService) Dispatch(ctx context.Context, req DispatchRequest) (dispatch.Report, error) {
	if strings.TrimSpace(req.Event.Category) == "" {
		return dispatch.Report{}, apperrors.NewValidationError("Validation failed", "equipment_data.equipment_type is required")
	}
	if req.Event.Timestamp.IsZero() {
		req.Event.Timestamp = s.now()
	}
	return s.fanout.Dispatch(ctx, req.Event, req.Workflows), nil
}
