package stake

import (
	"time"

	"github.com/Abhishekgoyal007/CasperFlow/types"
)

// secondsPerYear is the accrual base: 365 days, no leap adjustment.
const secondsPerYear = 31_536_000

// bpsDivisor converts basis points to a fraction.
const bpsDivisor = 10_000

// PendingRewards computes the yield earned between the account's last
// update and now, without mutating the account. The formula is simple
// (non-compounding) interest with truncating division:
//
//	principal * rateBps * elapsedSeconds / (10_000 * 31_536_000)
//
// A zero principal or a now at or before LastUpdate yields zero.
func (a *Account) PendingRewards(now time.Time, rateBps uint64) types.Amount {
	if a.Principal.IsZero() {
		return 0
	}
	elapsed := elapsedSeconds(a.LastUpdate, now)
	if elapsed == 0 {
		return 0
	}
	return a.Principal.MulDiv(rateBps*elapsed, bpsDivisor*secondsPerYear)
}

// Accrue mints pending rewards into the account balance and advances
// LastUpdate to now. It returns the minted amount, which is zero when
// nothing accrued. LastUpdate moves only when now is ahead of it, so a
// clock that never advances never silently resets the accrual window.
// It moves even when nothing mints: a drained account must not carry a
// stale window that would mint retroactive yield once principal
// returns.
func (a *Account) Accrue(now time.Time, rateBps uint64) types.Amount {
	minted := a.PendingRewards(now, rateBps)
	if now.After(a.LastUpdate) {
		a.LastUpdate = now
	}
	if minted.IsZero() {
		return 0
	}
	a.Rewards = a.Rewards.Add(minted)
	return minted
}

// Debit consumes amount from the account, spending rewards before
// principal. It mutates nothing and returns ErrInsufficientFunds when
// rewards plus principal cannot cover the amount. The returned split
// reports how much came from each bucket.
func (a *Account) Debit(amount types.Amount) (fromRewards, fromPrincipal types.Amount, err error) {
	if amount.IsZero() {
		return 0, 0, nil
	}
	if a.Balance() < amount {
		return 0, 0, ErrInsufficientFunds
	}
	fromRewards = a.Rewards.Min(amount)
	fromPrincipal = amount.Sub(fromRewards)
	a.Rewards = a.Rewards.Sub(fromRewards)
	a.Principal = a.Principal.Sub(fromPrincipal)
	a.RewardsSpent = a.RewardsSpent.Add(fromRewards)
	return fromRewards, fromPrincipal, nil
}

func elapsedSeconds(from, to time.Time) uint64 {
	if !to.After(from) {
		return 0
	}
	return uint64(to.Sub(from) / time.Second)
}
