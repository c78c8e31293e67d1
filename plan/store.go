package plan

import (
	"context"

	"github.com/Abhishekgoyal007/CasperFlow/id"
	"github.com/Abhishekgoyal007/CasperFlow/types"
)

type Store interface {
	Create(ctx context.Context, p *Plan) error
	Get(ctx context.Context, planID id.PlanID) (*Plan, error)
	ListByMerchant(ctx context.Context, merchant types.Address, opts ListOpts) ([]*Plan, error)
	Update(ctx context.Context, p *Plan) error
}

type ListOpts struct {
	Status Status
	Limit  int
	Offset int
}
