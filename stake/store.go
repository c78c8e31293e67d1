package stake

import (
	"context"

	"github.com/Abhishekgoyal007/CasperFlow/types"
)

type Store interface {
	CreateAccount(ctx context.Context, a *Account) error
	GetAccount(ctx context.Context, owner types.Address) (*Account, error)
	UpdateAccount(ctx context.Context, a *Account) error
	ListAccounts(ctx context.Context, opts ListOpts) ([]*Account, error)
}

type ListOpts struct {
	EnabledOnly bool
	Limit       int
	Offset      int
}
