// Package billing turns a tier, an equipment category and a sensor request into billable line items.
package billing

import (
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/domain"
)

// Rates is one row of the tier-rate table.
type Rates struct {
	EquipmentFee  int64
	SensorAddon   int64
	SensorAllowed bool
}

var rateTable = map[domain.Tier]Rates{
	domain.TierStarter:      {EquipmentFee: 50, SensorAddon: 0, SensorAllowed: false},
	domain.TierProfessional: {EquipmentFee: 35, SensorAddon: 25, SensorAllowed: true},
	domain.TierEnterprise:   {EquipmentFee: 0, SensorAddon: 0, SensorAllowed: true},
}

// feeCategories carry a per-unit equipment fee.
var feeCategories = map[string]bool{
	"Boiler":  true,
	"Chiller": true,
}

// RatesFor returns the rate row for t. Unknown tiers bill at starter rates.
func RatesFor(t domain.Tier) Rates {
	if r, ok := rateTable[t]; ok {
		return r
	}
	return rateTable[domain.TierStarter]
}

// IsFeeCategory reports whether category is in the boiler/chiller class.
func IsFeeCategory(category string) bool {
	return feeCategories[category]
}

// For returns the equipment line items authorised for the combination. An empty result is
// the normal case for most combinations. Facility and equipment ids are left for the caller.
func For(t domain.Tier, category string, sensorRequested bool) []domain.BillingItem {
	r := RatesFor(t)
	var items []domain.BillingItem

	if IsFeeCategory(category) && r.EquipmentFee > 0 {
		items = append(items, domain.BillingItem{
			ItemType:    domain.ItemEquipmentFee,
			Amount:      r.EquipmentFee,
			TierApplied: t,
		})
	}
	if sensorRequested && r.SensorAllowed && r.SensorAddon > 0 {
		items = append(items, domain.BillingItem{
			ItemType:    domain.ItemSensorAddon,
			Amount:      r.SensorAddon,
			TierApplied: t,
		})
	}
	return items
}

// FacilitySetup is the zero-amount setup item appended on onboarding; the setup fee is
// included in every tier's price.
func FacilitySetup(facilityID string, t domain.Tier) domain.BillingItem {
	return domain.BillingItem{
		FacilityID:  facilityID,
		ItemType:    domain.ItemFacilitySetup,
		Amount:      0,
		TierApplied: t,
	}
}

// Summary is the per-registration billing view returned to callers.
type Summary struct {
	EquipmentFee int64 `json:"equipment_fee"`
	SensorAddon  int64 `json:"sensor_addon"`
	Total        int64 `json:"total"`
	// Recorded is false when the ledger write failed; the charges above still apply.
	Recorded bool `json:"recorded"`
}

func Summarize(items []domain.BillingItem) Summary {
	var s Summary
	for _, it := range items {
		switch it.ItemType {
		case domain.ItemEquipmentFee:
			s.EquipmentFee += it.Amount
		case domain.ItemSensorAddon:
			s.SensorAddon += it.Amount
		}
		s.Total += it.Amount
	}
	return s
}
