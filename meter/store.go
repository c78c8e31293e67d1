package meter

import (
	"context"
	"time"

	"github.com/Abhishekgoyal007/CasperFlow/id"
)

type Store interface {
	InsertRecord(ctx context.Context, r *UsageRecord) error
	InsertRecords(ctx context.Context, records []*UsageRecord) error
	QueryRecords(ctx context.Context, subID id.SubscriptionID, opts QueryOpts) ([]*UsageRecord, error)

	GetPeriod(ctx context.Context, subID id.SubscriptionID, periodStart time.Time) (*Period, error)
	UpsertPeriod(ctx context.Context, p *Period) error
	ListPeriods(ctx context.Context, subID id.SubscriptionID) ([]*Period, error)

	PurgeRecords(ctx context.Context, before time.Time) (int64, error)
}

type QueryOpts struct {
	Start  time.Time
	End    time.Time
	Limit  int
	Offset int
}
