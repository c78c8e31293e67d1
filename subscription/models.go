package subscription

import (
	"time"

	"github.com/Abhishekgoyal007/CasperFlow/id"
	"github.com/Abhishekgoyal007/CasperFlow/types"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusCanceled Status = "canceled"
)

// Subscription binds a subscriber address to a plan. CurrentPeriodStart
// is the open billing period; closing a period advances it to the close
// instant, so the next period starts when the previous one ends.
type Subscription struct {
	types.Entity
	ID                 id.SubscriptionID `json:"id"`
	Subscriber         types.Address     `json:"subscriber"`
	PlanID             id.PlanID         `json:"plan_id"`
	Status             Status            `json:"status"`
	CurrentPeriodStart time.Time         `json:"current_period_start"`
	AutoRenew          bool              `json:"auto_renew"`
	CanceledAt         *time.Time        `json:"canceled_at,omitempty"`
}

// IsActive reports whether the subscription accepts usage and invoices.
func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive
}
