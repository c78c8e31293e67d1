package payment

import (
	"context"

	"github.com/Abhishekgoyal007/CasperFlow/id"
	"github.com/Abhishekgoyal007/CasperFlow/types"
)

type Store interface {
	Create(ctx context.Context, p *Payment) error
	Get(ctx context.Context, payID id.PaymentID) (*Payment, error)
	GetByInvoice(ctx context.Context, invID id.InvoiceID) (*Payment, error)
	ListByMerchant(ctx context.Context, merchant types.Address, opts ListOpts) ([]*Payment, error)
	ListByPayer(ctx context.Context, payer types.Address, opts ListOpts) ([]*Payment, error)
}

type ListOpts struct {
	Limit  int
	Offset int
}
