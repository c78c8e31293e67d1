package stake

import (
	"time"

	"github.com/Abhishekgoyal007/CasperFlow/types"
)

// Account tracks the staked balance of a single subscriber address.
//
// Principal is the amount the subscriber deposited. Rewards is the yield
// accrued on that principal and not yet withdrawn or spent. RewardsSpent
// counts rewards consumed by invoice settlement over the account lifetime.
type Account struct {
	types.Entity
	Owner        types.Address `json:"owner"`
	Principal    types.Amount  `json:"principal"`
	Rewards      types.Amount  `json:"rewards"`
	RewardsSpent types.Amount  `json:"rewards_spent"`
	Enabled      bool          `json:"enabled"`
	LastUpdate   time.Time     `json:"last_update"`
}

// Balance returns the total value the account could pay with right now.
func (a *Account) Balance() types.Amount {
	return a.Principal.Add(a.Rewards)
}
