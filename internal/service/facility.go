package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/billing"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/domain"
	apperrors "github.com/ANIKETSHETTY47/facility-intake-engine/internal/errors"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/repository"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/tier"
)

const entityFacility = "facility"

type FacilityRequest struct {
	Name    string      `json:"name" validate:"required,max=200"`
	Address *string     `json:"address,omitempty"`
	Tier    domain.Tier `json:"tier,omitempty"`
}

// FacilityQuota is the tier-derived allowance stamped on a new facility.
type FacilityQuota struct {
	MaxEquipmentIncluded int  `json:"max_equipment_included"`
	Unbounded            bool `json:"unbounded"`
	SensorEnabled        bool `json:"sensor_enabled"`
}

type FacilityResult struct {
	Facility     domain.Facility `json:"facility"`
	AutoAssigned FacilityQuota   `json:"auto_assigned"`
	// TierFallback is set when the requested tier was unknown and starter was applied.
	TierFallback    bool `json:"tier_fallback,omitempty"`
	BillingRecorded bool `json:"billing_recorded"`
}

type FacilityService struct {
	store    repository.Store
	recorder Recorder
	log      zerolog.Logger
}

// Register creates a facility under the requested tier and appends its setup ledger row.
// A ledger failure is logged and does not undo the facility.
func (s *FacilityService) Register(ctx context.Context, req FacilityRequest) (FacilityResult, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		s.recorder.ObserveRegistration(entityFacility, ResultRejected)
		return FacilityResult{}, err
	}

	resolved, policy, fellBack := tier.Resolve(req.Tier)
	if fellBack {
		s.log.Warn().
			Str("requested_tier", string(req.Tier)).
			Str("tier", string(resolved)).
			Msg("unknown tier, applying starter policy")
	}

	f := domain.Facility{
		Name:                 req.Name,
		Address:              req.Address,
		Tier:                 resolved,
		MaxEquipmentIncluded: policy.MaxEquipment,
		SensorEnabled:        policy.SensorEnabled,
	}
	if err := s.store.CreateFacility(ctx, &f); err != nil {
		s.recorder.ObserveRegistration(entityFacility, ResultFailed)
		return FacilityResult{}, apperrors.NewPersistenceError("failed to create facility", err)
	}
	s.recorder.ObserveRegistration(entityFacility, ResultCreated)

	res := FacilityResult{
		Facility: f,
		AutoAssigned: FacilityQuota{
			MaxEquipmentIncluded: policy.MaxEquipment,
			Unbounded:            policy.Unbounded,
			SensorEnabled:        policy.SensorEnabled,
		},
		TierFallback: fellBack,
	}

	setup := []domain.BillingItem{billing.FacilitySetup(f.ID, resolved)}
	if err := s.store.CreateBillingItems(ctx, setup); err != nil {
		s.log.Error().
			Err(apperrors.NewBillingLedgerError("facility setup item not recorded", err)).
			Str("facility_id", f.ID).
			Str("tier", string(resolved)).
			Msg("billing ledger write failed")
		return res, nil
	}
	s.recorder.ObserveBillingItem(string(domain.ItemFacilitySetup))
	res.BillingRecorded = true

	s.log.Info().
		Str("facility_id", f.ID).
		Str("tier", string(resolved)).
		Int("max_equipment_included", f.MaxEquipmentIncluded).
		Msg("facility registered")
	return res, nil
}

func (s *FacilityService) Get(ctx context.Context, id string) (domain.Facility, error) {
	f, err := s.store.GetFacility(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return f, apperrors.NewNotFoundError("facility not found", id)
	}
	if err != nil {
		return f, apperrors.NewPersistenceError("failed to load facility", err)
	}
	return f, nil
}

func (s *FacilityService) List(ctx context.Context) ([]domain.Facility, error) {
	out, err := s.store.ListFacilities(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to list facilities", err)
	}
	return out, nil
}

func (s *FacilityService) Equipment(ctx context.Context, id string) ([]domain.Equipment, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	out, err := s.store.ListEquipment(ctx, id)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to list equipment", err)
	}
	return out, nil
}

// Ledger is a facility's billing rows with their running summary.
type Ledger struct {
	Items   []domain.BillingItem `json:"items"`
	Summary billing.Summary      `json:"summary"`
}

func (s *FacilityService) Billing(ctx context.Context, id string) (Ledger, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return Ledger{}, err
	}
	items, err := s.store.ListBillingItems(ctx, id)
	if err != nil {
		return Ledger{}, apperrors.NewPersistenceError("failed to list billing items", err)
	}
	sum := billing.Summarize(items)
	sum.Recorded = true
	return Ledger{Items: items, Summary: sum}, nil
}
