package plan

import (
	"time"

	"github.com/Abhishekgoyal007/CasperFlow/id"
	"github.com/Abhishekgoyal007/CasperFlow/types"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Plan is a merchant's subscription offering. BasePrice is charged once
// per billing cycle and UsagePrice once per metered unit consumed during
// the cycle.
type Plan struct {
	types.Entity
	ID           id.PlanID       `json:"id"`
	Merchant     types.Address   `json:"merchant"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	BasePrice    types.Amount    `json:"base_price"`
	UsagePrice   types.Amount    `json:"usage_price"`
	BillingCycle time.Duration   `json:"billing_cycle"`
	Status       Status          `json:"status"`
	Recorders    []types.Address `json:"recorders,omitempty"`
}

// IsActive reports whether the plan accepts new subscriptions and usage.
func (p *Plan) IsActive() bool {
	return p.Status == StatusActive
}

// AllowsRecorder reports whether addr may record usage against this plan.
// The merchant is always allowed.
func (p *Plan) AllowsRecorder(addr types.Address) bool {
	if addr == p.Merchant {
		return true
	}
	for _, r := range p.Recorders {
		if r == addr {
			return true
		}
	}
	return false
}

// AuthorizeRecorder adds addr to the recorder allowlist. Adding an
// address twice is a no-op.
func (p *Plan) AuthorizeRecorder(addr types.Address) {
	for _, r := range p.Recorders {
		if r == addr {
			return
		}
	}
	p.Recorders = append(p.Recorders, addr)
}

// RevokeRecorder removes addr from the recorder allowlist.
func (p *Plan) RevokeRecorder(addr types.Address) {
	for i, r := range p.Recorders {
		if r == addr {
			p.Recorders = append(p.Recorders[:i], p.Recorders[i+1:]...)
			return
		}
	}
}

// PriceFor computes the charge for a cycle that consumed units metered
// units: base price plus usage price times units.
func (p *Plan) PriceFor(units uint64) (base, usage types.Amount) {
	return p.BasePrice, p.UsagePrice.Mul(units)
}
