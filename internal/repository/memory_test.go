package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/domain"
)

func seedFacility(t *testing.T, s *MemoryStore) domain.Facility {
	t.Helper()
	f := domain.Facility{Name: "North Plant", Tier: domain.TierStarter, MaxEquipmentIncluded: 5}
	require.NoError(t, s.CreateFacility(context.Background(), &f))
	return f
}

func TestMemoryStoreAssignsIdentity(t *testing.T) {
	s := NewMemoryStore()
	f := seedFacility(t, s)

	assert.NotEmpty(t, f.ID)
	assert.False(t, f.CreatedAt.IsZero())

	got, err := s.GetFacility(context.Background(), f.ID)
	require.NoError(t, err)
	assert.Equal(t, f, got)

	_, err = s.GetFacility(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreListsInInsertOrder(t *testing.T) {
	s := NewMemoryStore()
	a := seedFacility(t, s)
	b := seedFacility(t, s)

	all, err := s.ListFacilities(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)
	assert.Equal(t, b.ID, all[1].ID)
}

func TestMemoryStoreEquipment(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	f := seedFacility(t, s)

	e := domain.Equipment{FacilityID: f.ID, Category: "Pump"}
	require.NoError(t, s.CreateEquipment(ctx, &e, 0))
	assert.NotEmpty(t, e.ID)

	n, err := s.CountEquipment(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	list, err := s.ListEquipment(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, e.ID, list[0].ID)

	orphan := domain.Equipment{FacilityID: "missing", Category: "Pump"}
	assert.ErrorIs(t, s.CreateEquipment(ctx, &orphan, 0), ErrNotFound)
}

func TestMemoryStoreQuotaLimitIsSerialized(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	f := seedFacility(t, s)

	const limit = 5
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		rejected int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e := domain.Equipment{FacilityID: f.ID, Category: "Boiler"}
			if err := s.CreateEquipment(ctx, &e, limit); err != nil {
				assert.ErrorIs(t, err, ErrQuotaExceeded)
				mu.Lock()
				rejected++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	n, err := s.CountEquipment(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, limit, n)
	assert.Equal(t, 15, rejected)
}

func TestMemoryStoreBillingIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	f := seedFacility(t, s)

	items := []domain.BillingItem{
		{FacilityID: f.ID, ItemType: domain.ItemEquipmentFee, Amount: 35},
		{FacilityID: "missing", ItemType: domain.ItemSensorAddon, Amount: 25},
	}
	assert.ErrorIs(t, s.CreateBillingItems(ctx, items), ErrNotFound)

	got, err := s.ListBillingItems(ctx, f.ID)
	require.NoError(t, err)
	assert.Empty(t, got)

	ok := []domain.BillingItem{{FacilityID: f.ID, ItemType: domain.ItemFacilitySetup}}
	require.NoError(t, s.CreateBillingItems(ctx, ok))
	assert.NotEmpty(t, ok[0].ID)

	got, err = s.ListBillingItems(ctx, f.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMemoryStoreHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewMemoryStore()
	f := domain.Facility{Name: "x"}
	assert.ErrorIs(t, s.CreateFacility(ctx, &f), context.Canceled)
	_, err := s.ListFacilities(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
