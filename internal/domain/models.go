package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Tier is the subscription plan a facility is registered under.
type Tier string

const (
	TierStarter      Tier = "starter"
	TierProfessional Tier = "professional"
	TierEnterprise   Tier = "enterprise"
)

type LoggerModule string

const (
	LoggerBoiler     LoggerModule = "boiler"
	LoggerChiller    LoggerModule = "chiller"
	LoggerPump       LoggerModule = "pump"
	LoggerCompressor LoggerModule = "compressor"
	LoggerEnergy     LoggerModule = "energy"
)

type Condition string

const (
	ConditionGood         Condition = "Good"
	ConditionNeedsService Condition = "Needs Service"
	ConditionCritical     Condition = "Critical"
)

type BillingItemType string

const (
	ItemFacilitySetup BillingItemType = "facility_setup"
	ItemEquipmentFee  BillingItemType = "equipment_fee"
	ItemSensorAddon   BillingItemType = "sensor_addon"
)

type Facility struct {
	ID                   string    `db:"id" json:"id"`
	Name                 string    `db:"name" json:"name"`
	Address              *string   `db:"address" json:"address,omitempty"`
	Tier                 Tier      `db:"tier" json:"tier"`
	MaxEquipmentIncluded int       `db:"max_equipment_included" json:"max_equipment_included"`
	SensorEnabled        bool      `db:"sensor_enabled" json:"sensor_enabled"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

// Benchmark is the threshold bundle used to judge equipment health.
// It is stored as a JSON document alongside the equipment row.
type Benchmark struct {
	MinEfficiencyThreshold int    `json:"min_efficiency_threshold"`
	CriticalThreshold      int    `json:"critical_threshold"`
	ServiceIntervalDays    int    `json:"service_interval_days"`
	InspectionFrequency    string `json:"inspection_frequency"`
}

func (b Benchmark) Value() (driver.Value, error) {
	return json.Marshal(b)
}

func (b *Benchmark) Scan(src any) error {
	return scanJSON(src, b)
}

// StringList is a []string persisted as a JSON array.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

func (l *StringList) Scan(src any) error {
	return scanJSON(src, l)
}

func scanJSON(src any, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.New("unsupported json column type")
	}
}

type Equipment struct {
	ID                string       `db:"id" json:"id"`
	FacilityID        string       `db:"facility_id" json:"facility_id"`
	Category          string       `db:"equipment_type" json:"equipment_type"`
	Brand             *string      `db:"brand" json:"brand,omitempty"`
	Model             *string      `db:"model" json:"model,omitempty"`
	RPM               *float64     `db:"rpm" json:"rpm,omitempty"`
	HP                *float64     `db:"hp" json:"hp,omitempty"`
	Voltage           *float64     `db:"voltage" json:"voltage,omitempty"`
	Displacement      *float64     `db:"displacement" json:"displacement,omitempty"`
	GPM               float64      `db:"gpm" json:"gpm"`
	EfficiencyScore   int          `db:"efficiency_score" json:"efficiency_score"`
	Condition         Condition    `db:"condition" json:"condition"`
	NextService       string       `db:"next_service" json:"next_service"`
	SuggestedActions  StringList   `db:"suggested_actions" json:"suggested_actions"`
	LoggerModule      LoggerModule `db:"logger_module" json:"logger_module"`
	ComplianceRuleset string       `db:"compliance_ruleset" json:"compliance_ruleset"`
	Benchmark         Benchmark    `db:"benchmark_defaults" json:"benchmark_defaults"`
	SensorEnabled     bool         `db:"sensor_enabled" json:"sensor_enabled"`
	ImageURL          *string      `db:"image_url" json:"image_url,omitempty"`
	CreatedAt         time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time    `db:"updated_at" json:"updated_at"`
}

// BillingItem is an append-only ledger row. Amount is in whole currency units.
type BillingItem struct {
	ID          string          `db:"id" json:"id"`
	FacilityID  string          `db:"facility_id" json:"facility_id"`
	EquipmentID *string         `db:"equipment_id" json:"equipment_id,omitempty"`
	ItemType    BillingItemType `db:"item_type" json:"item_type"`
	Amount      int64           `db:"amount" json:"amount"`
	TierApplied Tier            `db:"tier_applied" json:"tier_applied"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
