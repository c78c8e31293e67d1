package subscription

import (
	"context"

	"github.com/Abhishekgoyal007/CasperFlow/id"
	"github.com/Abhishekgoyal007/CasperFlow/types"
)

type Store interface {
	Create(ctx context.Context, s *Subscription) error
	Get(ctx context.Context, subID id.SubscriptionID) (*Subscription, error)
	GetActive(ctx context.Context, subscriber types.Address, planID id.PlanID) (*Subscription, error)
	ListBySubscriber(ctx context.Context, subscriber types.Address, opts ListOpts) ([]*Subscription, error)
	ListByPlan(ctx context.Context, planID id.PlanID, opts ListOpts) ([]*Subscription, error)
	Update(ctx context.Context, s *Subscription) error
}

type ListOpts struct {
	Status Status
	Limit  int
	Offset int
}
