package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/domain"
)

// MemoryStore is an in-process Store for local runs and tests.
type MemoryStore struct {
	mu         sync.RWMutex
	facilities map[string]domain.Facility
	order      []string
	equipment  map[string][]domain.Equipment
	billing    map[string][]domain.BillingItem
	now        func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		facilities: make(map[string]domain.Facility),
		equipment:  make(map[string][]domain.Equipment),
		billing:    make(map[string][]domain.BillingItem),
		now:        time.Now,
	}
}

func (s *MemoryStore) CreateFacility(ctx context.Context, f *domain.Facility) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f.ID = uuid.NewString()
	f.CreatedAt = s.now()
	f.UpdatedAt = f.CreatedAt
	s.facilities[f.ID] = *f
	s.order = append(s.order, f.ID)
	return nil
}

func (s *MemoryStore) GetFacility(ctx context.Context, id string) (domain.Facility, error) {
	if err := ctx.Err(); err != nil {
		return domain.Facility{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.facilities[id]
	if !ok {
		return domain.Facility{}, ErrNotFound
	}
	return f, nil
}

func (s *MemoryStore) ListFacilities(ctx context.Context) ([]domain.Facility, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Facility, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.facilities[id])
	}
	return out, nil
}

func (s *MemoryStore) CreateEquipment(ctx context.Context, e *domain.Equipment, limit int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.facilities[e.FacilityID]; !ok {
		return ErrNotFound
	}
	if limit > 0 && len(s.equipment[e.FacilityID]) >= limit {
		return ErrQuotaExceeded
	}

	e.ID = uuid.NewString()
	e.CreatedAt = s.now()
	e.UpdatedAt = e.CreatedAt
	s.equipment[e.FacilityID] = append(s.equipment[e.FacilityID], *e)
	return nil
}

func (s *MemoryStore) ListEquipment(ctx context.Context, facilityID string) ([]domain.Equipment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Equipment{}, s.equipment[facilityID]...), nil
}

func (s *MemoryStore) CountEquipment(ctx context.Context, facilityID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.equipment[facilityID]), nil
}

func (s *MemoryStore) CreateBillingItems(ctx context.Context, items []domain.BillingItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range items {
		if _, ok := s.facilities[it.FacilityID]; !ok {
			return ErrNotFound
		}
	}
	now := s.now()
	for i := range items {
		items[i].ID = uuid.NewString()
		items[i].CreatedAt = now
		s.billing[items[i].FacilityID] = append(s.billing[items[i].FacilityID], items[i])
	}
	return nil
}

func (s *MemoryStore) ListBillingItems(ctx context.Context, facilityID string) ([]domain.BillingItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.BillingItem{}, s.billing[facilityID]...), nil
}
