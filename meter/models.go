package meter

import (
	"time"

	"github.com/Abhishekgoyal007/CasperFlow/id"
	"github.com/Abhishekgoyal007/CasperFlow/types"
)

// UsageRecord is one metered consumption event reported by an authorized
// recorder against a subscription.
type UsageRecord struct {
	ID             id.UsageRecordID  `json:"id"`
	SubscriptionID id.SubscriptionID `json:"subscription_id"`
	Recorder       types.Address     `json:"recorder"`
	Units          uint64            `json:"units"`
	RecordedAt     time.Time         `json:"recorded_at"`
	PeriodStart    time.Time         `json:"period_start"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// Period aggregates the usage of a subscription between PeriodStart and,
// once closed, PeriodEnd. Periods are keyed by (subscription, start), so
// a subscription has at most one period per start instant.
type Period struct {
	SubscriptionID id.SubscriptionID `json:"subscription_id"`
	PeriodStart    time.Time         `json:"period_start"`
	PeriodEnd      time.Time         `json:"period_end,omitempty"`
	Units          uint64            `json:"units"`
	Closed         bool              `json:"closed"`
}
