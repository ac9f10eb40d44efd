package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/domain"
)

// Repos is the Postgres-backed Store.
type Repos struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repos { return &Repos{db: db} }

const facilityColumns = `id, name, address, tier, max_equipment_included, sensor_enabled, created_at, updated_at`

const equipmentColumns = `id, facility_id, equipment_type, brand, model, rpm, hp, voltage, displacement,
	gpm, efficiency_score, condition, next_service, suggested_actions, logger_module,
	compliance_ruleset, benchmark_defaults, sensor_enabled, image_url, created_at, updated_at`

const billingColumns = `id, facility_id, equipment_id, item_type, amount, tier_applied, created_at`

func (r *Repos) CreateFacility(ctx context.Context, f *domain.Facility) error {
	row := r.db.QueryRowxContext(ctx,
		`INSERT INTO facilities (name, address, tier, max_equipment_included, sensor_enabled)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		f.Name, f.Address, f.Tier, f.MaxEquipmentIncluded, f.SensorEnabled)
	return row.Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
}

func (r *Repos) GetFacility(ctx context.Context, id string) (domain.Facility, error) {
	var f domain.Facility
	if _, err := uuid.Parse(id); err != nil {
		return f, ErrNotFound
	}
	err := r.db.GetContext(ctx, &f, `SELECT `+facilityColumns+` FROM facilities WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return f, ErrNotFound
	}
	return f, err
}

func (r *Repos) ListFacilities(ctx context.Context) ([]domain.Facility, error) {
	out := []domain.Facility{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+facilityColumns+` FROM facilities ORDER BY created_at, id`)
	return out, err
}

func (r *Repos) CreateEquipment(ctx context.Context, e *domain.Equipment, limit int) error {
	if limit <= 0 {
		return insertEquipment(ctx, r.db, e)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// the facility row lock serializes concurrent registrations for the same facility
	var locked string
	err = tx.GetContext(ctx, &locked, `SELECT id FROM facilities WHERE id = $1 FOR UPDATE`, e.FacilityID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lock facility: %w", err)
	}

	var count int
	if err := tx.GetContext(ctx, &count, `SELECT count(*) FROM equipment WHERE facility_id = $1`, e.FacilityID); err != nil {
		return fmt.Errorf("count equipment: %w", err)
	}
	if count >= limit {
		return ErrQuotaExceeded
	}

	if err := insertEquipment(ctx, tx, e); err != nil {
		return err
	}
	return tx.Commit()
}

func insertEquipment(ctx context.Context, q sqlx.QueryerContext, e *domain.Equipment) error {
	row := q.QueryRowxContext(ctx,
		`INSERT INTO equipment (facility_id, equipment_type, brand, model, rpm, hp, voltage, displacement,
			gpm, efficiency_score, condition, next_service, suggested_actions, logger_module,
			compliance_ruleset, benchmark_defaults, sensor_enabled, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		 RETURNING id, created_at, updated_at`,
		e.FacilityID, e.Category, e.Brand, e.Model, e.RPM, e.HP, e.Voltage, e.Displacement,
		e.GPM, e.EfficiencyScore, e.Condition, e.NextService, e.SuggestedActions, e.LoggerModule,
		e.ComplianceRuleset, e.Benchmark, e.SensorEnabled, e.ImageURL)
	return classify(row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt))
}

// classify maps Postgres constraint failures onto the store's sentinel errors.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503", "22P02": // foreign_key_violation, invalid_text_representation
			return ErrNotFound
		}
	}
	return err
}

func (r *Repos) ListEquipment(ctx context.Context, facilityID string) ([]domain.Equipment, error) {
	out := []domain.Equipment{}
	if _, err := uuid.Parse(facilityID); err != nil {
		return out, nil
	}
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+equipmentColumns+` FROM equipment WHERE facility_id = $1 ORDER BY created_at, id`, facilityID)
	return out, err
}

func (r *Repos) CountEquipment(ctx context.Context, facilityID string) (int, error) {
	var n int
	if _, err := uuid.Parse(facilityID); err != nil {
		return 0, nil
	}
	err := r.db.GetContext(ctx, &n, `SELECT count(*) FROM equipment WHERE facility_id = $1`, facilityID)
	return n, err
}

func (r *Repos) CreateBillingItems(ctx context.Context, items []domain.BillingItem) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for i := range items {
		it := &items[i]
		row := tx.QueryRowxContext(ctx,
			`INSERT INTO billing_items (facility_id, equipment_id, item_type, amount, tier_applied)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, created_at`,
			it.FacilityID, it.EquipmentID, it.ItemType, it.Amount, it.TierApplied)
		if err := classify(row.Scan(&it.ID, &it.CreatedAt)); err != nil {
			return fmt.Errorf("insert billing item %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func (r *Repos) ListBillingItems(ctx context.Context, facilityID string) ([]domain.BillingItem, error) {
	out := []domain.BillingItem{}
	if _, err := uuid.Parse(facilityID); err != nil {
		return out, nil
	}
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+billingColumns+` FROM billing_items WHERE facility_id = $1 ORDER BY created_at, id`, facilityID)
	return out, err
}
