package casperflow

import (
	"context"
	"errors"

	"github.com/Abhishekgoyal007/CasperFlow/stake"
	"github.com/Abhishekgoyal007/CasperFlow/types"
)

// ──────────────────────────────────────────────────
// Stake accounts
// ──────────────────────────────────────────────────

// Deposit adds amount to the owner's staked principal, creating the
// account with stake-to-pay enabled on first deposit. Pending rewards
// are accrued before the principal changes so the new funds never earn
// retroactive yield.
func (l *Ledger) Deposit(ctx context.Context, owner types.Address, amount types.Amount) error {
	if amount.IsZero() {
		return ErrZeroAmount
	}

	unlock := l.locks.lock(owner)
	defer unlock()

	now := l.now()
	params, err := l.store.GetParams(ctx)
	if err != nil {
		return err
	}

	acct, err := l.store.GetAccount(ctx, owner)
	created := false
	switch {
	case err == nil:
	case errors.Is(err, ErrAccountNotFound):
		// New accounts opt into stake-to-pay; DisableStakeToPay opts out.
		acct = &stake.Account{
			Entity:     types.NewEntity(now),
			Owner:      owner,
			Enabled:    true,
			LastUpdate: now,
		}
		created = true
	default:
		return err
	}

	minted := acct.Accrue(now, params.RewardRate)
	acct.Principal = acct.Principal.Add(amount)
	acct.Touch(now)

	if created {
		if err := l.store.CreateAccount(ctx, acct); err != nil {
			return err
		}
	} else {
		if err := l.store.UpdateAccount(ctx, acct); err != nil {
			return err
		}
	}

	if err := l.adjustTotals(ctx, func(t *totalsDelta) {
		t.stakedIn = amount
		t.accrued = minted
	}); err != nil {
		return err
	}

	if !minted.IsZero() {
		l.plugins.EmitRewardsAccrued(ctx, owner, minted)
	}
	l.plugins.EmitStakeDeposited(ctx, owner, amount)
	l.logger.Info("stake deposited",
		"owner", owner,
		"amount", amount,
		"principal", acct.Principal,
	)
	return nil
}

// Withdraw returns amount of principal to the owner. Rewards accrue
// first, so withdrawing the full principal never forfeits earned yield.
func (l *Ledger) Withdraw(ctx context.Context, owner types.Address, amount types.Amount) error {
	if amount.IsZero() {
		return ErrZeroAmount
	}

	unlock := l.locks.lock(owner)
	defer unlock()

	now := l.now()
	params, err := l.store.GetParams(ctx)
	if err != nil {
		return err
	}
	acct, err := l.store.GetAccount(ctx, owner)
	if err != nil {
		return err
	}

	minted := acct.Accrue(now, params.RewardRate)
	if acct.Principal < amount {
		return ErrInsufficientFunds
	}
	acct.Principal = acct.Principal.Sub(amount)
	acct.Touch(now)

	if err := l.store.UpdateAccount(ctx, acct); err != nil {
		return err
	}
	if err := l.adjustTotals(ctx, func(t *totalsDelta) {
		t.stakedOut = amount
		t.accrued = minted
	}); err != nil {
		return err
	}
	if err := l.transfer.Transfer(ctx, owner, amount); err != nil {
		return err
	}

	if !minted.IsZero() {
		l.plugins.EmitRewardsAccrued(ctx, owner, minted)
	}
	l.plugins.EmitStakeWithdrawn(ctx, owner, amount)
	l.logger.Info("stake withdrawn",
		"owner", owner,
		"amount", amount,
		"principal", acct.Principal,
	)
	return nil
}

// WithdrawRewards pays out amount of accrued rewards to the owner.
func (l *Ledger) WithdrawRewards(ctx context.Context, owner types.Address, amount types.Amount) error {
	if amount.IsZero() {
		return ErrZeroAmount
	}

	unlock := l.locks.lock(owner)
	defer unlock()

	now := l.now()
	params, err := l.store.GetParams(ctx)
	if err != nil {
		return err
	}
	acct, err := l.store.GetAccount(ctx, owner)
	if err != nil {
		return err
	}

	minted := acct.Accrue(now, params.RewardRate)
	if acct.Rewards < amount {
		return ErrInsufficientFunds
	}
	acct.Rewards = acct.Rewards.Sub(amount)
	acct.Touch(now)

	if err := l.store.UpdateAccount(ctx, acct); err != nil {
		return err
	}
	if err := l.adjustTotals(ctx, func(t *totalsDelta) {
		t.rewardsPaid = amount
		t.accrued = minted
	}); err != nil {
		return err
	}
	if err := l.transfer.Transfer(ctx, owner, amount); err != nil {
		return err
	}

	if !minted.IsZero() {
		l.plugins.EmitRewardsAccrued(ctx, owner, minted)
	}
	l.plugins.EmitRewardsWithdrawn(ctx, owner, amount)
	return nil
}

// AccrueRewards forces an accrual on the owner's account and returns
// the minted amount.
func (l *Ledger) AccrueRewards(ctx context.Context, owner types.Address) (types.Amount, error) {
	unlock := l.locks.lock(owner)
	defer unlock()

	now := l.now()
	params, err := l.store.GetParams(ctx)
	if err != nil {
		return 0, err
	}
	acct, err := l.store.GetAccount(ctx, owner)
	if err != nil {
		return 0, err
	}

	minted := acct.Accrue(now, params.RewardRate)
	acct.Touch(now)
	if err := l.store.UpdateAccount(ctx, acct); err != nil {
		return 0, err
	}
	if !minted.IsZero() {
		if err := l.adjustTotals(ctx, func(t *totalsDelta) { t.accrued = minted }); err != nil {
			return 0, err
		}
		l.plugins.EmitRewardsAccrued(ctx, owner, minted)
	}
	return minted, nil
}

// EnableStakeToPay allows invoice settlement from the owner's staked
// funds.
func (l *Ledger) EnableStakeToPay(ctx context.Context, owner types.Address) error {
	return l.setStakeToPay(ctx, owner, true)
}

// DisableStakeToPay blocks invoice settlement from the owner's staked
// funds. Accrual continues regardless.
func (l *Ledger) DisableStakeToPay(ctx context.Context, owner types.Address) error {
	return l.setStakeToPay(ctx, owner, false)
}

func (l *Ledger) setStakeToPay(ctx context.Context, owner types.Address, enabled bool) error {
	unlock := l.locks.lock(owner)
	defer unlock()

	acct, err := l.store.GetAccount(ctx, owner)
	if err != nil {
		return err
	}
	if acct.Enabled == enabled {
		return nil
	}

	acct.Enabled = enabled
	acct.Touch(l.now())
	if err := l.store.UpdateAccount(ctx, acct); err != nil {
		return err
	}

	l.plugins.EmitStakeToPayToggled(ctx, owner, enabled)
	return nil
}

// StakeAccount returns the stored account for owner.
func (l *Ledger) StakeAccount(ctx context.Context, owner types.Address) (*stake.Account, error) {
	return l.store.GetAccount(ctx, owner)
}

// AvailableRewards returns the rewards the owner could withdraw right
// now: the stored balance plus pending accrual. The account is not
// mutated.
func (l *Ledger) AvailableRewards(ctx context.Context, owner types.Address) (types.Amount, error) {
	params, err := l.store.GetParams(ctx)
	if err != nil {
		return 0, err
	}
	acct, err := l.store.GetAccount(ctx, owner)
	if err != nil {
		return 0, err
	}
	return acct.Rewards.Add(acct.PendingRewards(l.now(), params.RewardRate)), nil
}

// totalsDelta batches register adjustments so each operation touches
// the totals row once.
type totalsDelta struct {
	stakedIn    types.Amount
	stakedOut   types.Amount
	accrued     types.Amount
	rewardsPaid types.Amount
}

func (l *Ledger) adjustTotals(ctx context.Context, apply func(*totalsDelta)) error {
	var d totalsDelta
	apply(&d)

	t, err := l.store.GetTotals(ctx)
	if err != nil {
		return err
	}
	t.Staked = t.Staked.Add(d.stakedIn).Sub(d.stakedOut)
	t.RewardsAccrued = t.RewardsAccrued.Add(d.accrued)
	t.RewardsPaid = t.RewardsPaid.Add(d.rewardsPaid)
	return l.store.SetTotals(ctx, t)
}
