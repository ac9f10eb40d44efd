package repository

import (
	"context"
	"errors"

	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/domain"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrQuotaExceeded = errors.New("equipment quota exceeded")
)

// Store is the persistence collaborator: create/read/list/count over facilities,
// equipment and the billing ledger. Identity and timestamps are assigned by the store.
type Store interface {
	CreateFacility(ctx context.Context, f *domain.Facility) error
	GetFacility(ctx context.Context, id string) (domain.Facility, error)
	ListFacilities(ctx context.Context) ([]domain.Facility, error)

	// CreateEquipment inserts e. With limit > 0 the count-then-insert is serialized per
	// facility and ErrQuotaExceeded is returned once the facility holds limit items.
	CreateEquipment(ctx context.Context, e *domain.Equipment, limit int) error
	ListEquipment(ctx context.Context, facilityID string) ([]domain.Equipment, error)
	CountEquipment(ctx context.Context, facilityID string) (int, error)

	// CreateBillingItems appends all items or none.
	CreateBillingItems(ctx context.Context, items []domain.BillingItem) error
	ListBillingItems(ctx context.Context, facilityID string) ([]domain.BillingItem, error)
}
