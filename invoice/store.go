package invoice

import (
	"context"
	"time"

	"github.com/Abhishekgoyal007/CasperFlow/id"
	"github.com/Abhishekgoyal007/CasperFlow/types"
)

type Store interface {
	Create(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, invID id.InvoiceID) (*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
	ListBySubscription(ctx context.Context, subID id.SubscriptionID, opts ListOpts) ([]*Invoice, error)
	ListBySubscriber(ctx context.Context, subscriber types.Address, opts ListOpts) ([]*Invoice, error)
	ListByMerchant(ctx context.Context, merchant types.Address, opts ListOpts) ([]*Invoice, error)
}

type ListOpts struct {
	Status Status
	Start  time.Time
	End    time.Time
	Limit  int
	Offset int
}
