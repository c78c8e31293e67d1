package invoice

import (
	"time"

	"github.com/Abhishekgoyal007/CasperFlow/id"
	"github.com/Abhishekgoyal007/CasperFlow/types"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusPaid     Status = "paid"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusFailed || s == StatusCanceled
}

type PaymentMethod string

const (
	// MethodWallet settles from value attached by the subscriber.
	MethodWallet PaymentMethod = "wallet"
	// MethodStaking settles from the subscriber's accrued rewards and
	// staked principal.
	MethodStaking PaymentMethod = "staking"
)

// Invoice charges a subscriber for one billing period of a subscription.
// Total is always BaseAmount plus UsageAmount.
type Invoice struct {
	types.Entity
	ID             id.InvoiceID      `json:"id"`
	SubscriptionID id.SubscriptionID `json:"subscription_id"`
	Subscriber     types.Address     `json:"subscriber"`
	Merchant       types.Address     `json:"merchant"`
	Status         Status            `json:"status"`
	BaseAmount     types.Amount      `json:"base_amount"`
	UsageAmount    types.Amount      `json:"usage_amount"`
	Total          types.Amount      `json:"total"`
	Units          uint64            `json:"units"`
	PeriodStart    time.Time         `json:"period_start"`
	PeriodEnd      time.Time         `json:"period_end"`
	PaidAt         *time.Time        `json:"paid_at,omitempty"`
	FailedAt       *time.Time        `json:"failed_at,omitempty"`
	Method         PaymentMethod     `json:"method,omitempty"`
}

// IsPending reports whether the invoice can still be settled or failed.
func (i *Invoice) IsPending() bool {
	return i.Status == StatusPending
}
