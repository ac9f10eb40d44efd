package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/domain"
)

func TestFor(t *testing.T) {
	tests := []struct {
		name   string
		tier   domain.Tier
		cat    string
		sensor bool
		want   map[domain.BillingItemType]int64
	}{
		{"starter pump with sensor", domain.TierStarter, "Pump", true, nil},
		{"starter boiler", domain.TierStarter, "Boiler", false, map[domain.BillingItemType]int64{domain.ItemEquipmentFee: 50}},
		{"starter boiler sensor not allowed", domain.TierStarter, "Boiler", true, map[domain.BillingItemType]int64{domain.ItemEquipmentFee: 50}},
		{"professional boiler with sensor", domain.TierProfessional, "Boiler", true, map[domain.BillingItemType]int64{
			domain.ItemEquipmentFee: 35,
			domain.ItemSensorAddon:  25,
		}},
		{"professional pump with sensor", domain.TierProfessional, "Pump", true, map[domain.BillingItemType]int64{domain.ItemSensorAddon: 25}},
		{"professional chiller without sensor", domain.TierProfessional, "Chiller", false, map[domain.BillingItemType]int64{domain.ItemEquipmentFee: 35}},
		{"enterprise chiller with sensor", domain.TierEnterprise, "Chiller", true, nil},
		{"unknown tier bills as starter", "platinum", "Chiller", true, map[domain.BillingItemType]int64{domain.ItemEquipmentFee: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := For(tt.tier, tt.cat, tt.sensor)
			require.Len(t, items, len(tt.want))
			for _, it := range items {
				assert.Equal(t, tt.want[it.ItemType], it.Amount, it.ItemType)
				assert.Equal(t, tt.tier, it.TierApplied)
				assert.GreaterOrEqual(t, it.Amount, int64(0))
			}
		})
	}
}

func TestForOrdersFeeBeforeAddon(t *testing.T) {
	items := For(domain.TierProfessional, "Boiler", true)
	require.Len(t, items, 2)
	assert.Equal(t, domain.ItemEquipmentFee, items[0].ItemType)
	assert.Equal(t, domain.ItemSensorAddon, items[1].ItemType)
}

func TestFacilitySetupIsFree(t *testing.T) {
	it := FacilitySetup("fac-1", domain.TierEnterprise)
	assert.Equal(t, domain.ItemFacilitySetup, it.ItemType)
	assert.Zero(t, it.Amount)
	assert.Nil(t, it.EquipmentID)
}

func TestSummarize(t *testing.T) {
	s := Summarize(For(domain.TierProfessional, "Boiler", true))
	assert.Equal(t, Summary{EquipmentFee: 35, SensorAddon: 25, Total: 60}, s)
	assert.Equal(t, Summary{}, Summarize(nil))
}
