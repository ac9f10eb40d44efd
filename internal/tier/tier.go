// Package tier holds the subscription plan table: equipment quota and sensor eligibility per tier.
package tier

import (
	"errors"

	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/domain"
)

// UnboundedQuota is the persisted max_equipment_included for tiers without a cap.
const UnboundedQuota = 999999

var ErrUnknownTier = errors.New("unknown tier")

type Policy struct {
	MaxEquipment  int
	Unbounded     bool
	SensorEnabled bool
}

var policies = map[domain.Tier]Policy{
	domain.TierStarter:      {MaxEquipment: 5, SensorEnabled: false},
	domain.TierProfessional: {MaxEquipment: 15, SensorEnabled: true},
	domain.TierEnterprise:   {MaxEquipment: UnboundedQuota, Unbounded: true, SensorEnabled: true},
}

// Lookup returns the policy for t, or ErrUnknownTier.
func Lookup(t domain.Tier) (Policy, error) {
	p, ok := policies[t]
	if !ok {
		return Policy{}, ErrUnknownTier
	}
	return p, nil
}

// Resolve applies the fallback policy: an empty or unrecognised tier is treated as starter
// so that tiers introduced ahead of a deployment still register. fellBack reports whether
// the fallback was taken; callers log it.
func Resolve(t domain.Tier) (resolved domain.Tier, p Policy, fellBack bool) {
	if p, err := Lookup(t); err == nil {
		return t, p, false
	}
	return domain.TierStarter, policies[domain.TierStarter], t != ""
}

// Exceeded reports whether count items already use up the quota.
func (p Policy) Exceeded(count int) bool {
	return !p.Unbounded && count >= p.MaxEquipment
}
