package casperflow

import (
	"context"
	"errors"

	"github.com/Abhishekgoyal007/CasperFlow/id"
	"github.com/Abhishekgoyal007/CasperFlow/invoice"
	"github.com/Abhishekgoyal007/CasperFlow/payment"
	"github.com/Abhishekgoyal007/CasperFlow/stake"
	"github.com/Abhishekgoyal007/CasperFlow/store"
	"github.com/Abhishekgoyal007/CasperFlow/types"
)

// ──────────────────────────────────────────────────
// Invoice Generation
// ──────────────────────────────────────────────────

// GenerateInvoice closes the subscription's open billing period and
// issues a pending invoice for it: the plan's base price plus its usage
// price times the units consumed. Only the plan's merchant or the
// protocol owner may invoice.
func (l *Ledger) GenerateInvoice(ctx context.Context, caller types.Address, subID id.SubscriptionID) (*invoice.Invoice, error) {
	sub, err := l.store.GetSubscription(ctx, subID)
	if err != nil {
		return nil, err
	}

	unlock := l.locks.lock(sub.Subscriber)
	defer unlock()

	sub, err = l.store.GetSubscription(ctx, subID)
	if err != nil {
		return nil, err
	}
	p, err := l.store.GetPlan(ctx, sub.PlanID)
	if err != nil {
		return nil, err
	}
	params, err := l.store.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	if caller != p.Merchant && caller != params.Owner {
		return nil, ErrUnauthorized
	}

	period, err := l.closePeriod(ctx, sub)
	if err != nil {
		return nil, err
	}

	now := l.now()
	base, usage := p.PriceFor(period.Units)
	inv := &invoice.Invoice{
		Entity:         types.NewEntity(now),
		ID:             id.NewInvoiceID(),
		SubscriptionID: sub.ID,
		Subscriber:     sub.Subscriber,
		Merchant:       p.Merchant,
		Status:         invoice.StatusPending,
		BaseAmount:     base,
		UsageAmount:    usage,
		Total:          base.Add(usage),
		Units:          period.Units,
		PeriodStart:    period.PeriodStart,
		PeriodEnd:      period.PeriodEnd,
	}

	if err := l.store.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	l.plugins.EmitInvoiceGenerated(ctx, inv)
	l.logger.Info("invoice generated",
		"invoice_id", inv.ID,
		"subscription_id", sub.ID,
		"total", inv.Total,
		"units", inv.Units,
	)
	return inv, nil
}

// GetInvoice retrieves an invoice by ID.
func (l *Ledger) GetInvoice(ctx context.Context, invID id.InvoiceID) (*invoice.Invoice, error) {
	return l.store.GetInvoice(ctx, invID)
}

// ListInvoices lists the invoices addressed to a subscriber.
func (l *Ledger) ListInvoices(ctx context.Context, subscriber types.Address, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	return l.store.ListInvoicesBySubscriber(ctx, subscriber, opts)
}

// ListMerchantInvoices lists the invoices issued by a merchant.
func (l *Ledger) ListMerchantInvoices(ctx context.Context, merchant types.Address, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	return l.store.ListInvoicesByMerchant(ctx, merchant, opts)
}

// ──────────────────────────────────────────────────
// Settlement
// ──────────────────────────────────────────────────

// PayInvoice settles a pending invoice from value the payer attaches.
// Only the invoice's subscriber may pay, the attached value must cover
// the total, and any excess is returned to the payer. The total splits
// into the protocol fee and the merchant's share.
func (l *Ledger) PayInvoice(ctx context.Context, payer types.Address, invID id.InvoiceID, attached types.Amount) (*payment.Payment, error) {
	unlock := l.locks.lock(payer)
	defer unlock()

	inv, err := l.store.GetInvoice(ctx, invID)
	if err != nil {
		return nil, err
	}
	if payer != inv.Subscriber {
		return nil, ErrUnauthorized
	}
	if !inv.IsPending() {
		return nil, ErrInvoiceNotPending
	}
	if attached < inv.Total {
		return nil, ErrInsufficientValue
	}

	params, err := l.store.GetParams(ctx)
	if err != nil {
		return nil, err
	}

	pay, err := l.settle(ctx, inv, params, invoice.MethodWallet, 0, 0)
	if err != nil {
		return nil, err
	}

	// Return the overpayment.
	if refund := attached.Sub(inv.Total); !refund.IsZero() {
		if err := l.transfer.Transfer(ctx, payer, refund); err != nil {
			return nil, err
		}
	}
	return pay, nil
}

// PayInvoiceFromStaking settles a pending invoice from the subscriber's
// stake account, consuming accrued rewards before principal. The
// account must have stake-to-pay enabled. The subscriber or the
// protocol owner may trigger settlement.
func (l *Ledger) PayInvoiceFromStaking(ctx context.Context, caller types.Address, invID id.InvoiceID) (*payment.Payment, error) {
	inv, err := l.store.GetInvoice(ctx, invID)
	if err != nil {
		return nil, err
	}

	unlock := l.locks.lock(inv.Subscriber)
	defer unlock()

	inv, err = l.store.GetInvoice(ctx, invID)
	if err != nil {
		return nil, err
	}
	params, err := l.store.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	if caller != inv.Subscriber && caller != params.Owner {
		return nil, ErrUnauthorized
	}
	if !inv.IsPending() {
		return nil, ErrInvoiceNotPending
	}

	acct, err := l.store.GetAccount(ctx, inv.Subscriber)
	if err != nil {
		return nil, err
	}
	if !acct.Enabled {
		return nil, ErrStakeToPayDisabled
	}

	// The fee split must validate before the account is debited so a
	// settlement failure cannot leave a partial debit behind.
	if _, _, err := feeSplit(inv.Total, params); err != nil {
		return nil, err
	}

	now := l.now()
	minted := acct.Accrue(now, params.RewardRate)
	fromRewards, fromPrincipal, err := acct.Debit(inv.Total)
	if err != nil {
		if errors.Is(err, stake.ErrInsufficientFunds) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}
	acct.Touch(now)
	if err := l.store.UpdateAccount(ctx, acct); err != nil {
		return nil, err
	}
	if err := l.adjustTotals(ctx, func(t *totalsDelta) {
		t.stakedOut = fromPrincipal
		t.accrued = minted
		t.rewardsPaid = fromRewards
	}); err != nil {
		return nil, err
	}
	if !minted.IsZero() {
		l.plugins.EmitRewardsAccrued(ctx, inv.Subscriber, minted)
	}

	return l.settle(ctx, inv, params, invoice.MethodStaking, fromRewards, fromPrincipal)
}

// feeSplit divides a settlement total between the protocol fee and the
// merchant cut. A non-zero fee needs a configured recipient.
func feeSplit(total types.Amount, params *store.Params) (fee, merchantAmount types.Amount, err error) {
	fee = total.MulDiv(params.FeeRate, 10_000)
	if !fee.IsZero() && params.FeeRecipient.IsZero() {
		return 0, 0, ErrFeeRecipientUnset
	}
	return fee, total.Sub(fee), nil
}

// settle moves the invoice to paid, splits the total between the fee
// recipient and the merchant, and writes the payment record. Callers
// hold the subscriber lock and have already sourced the funds.
func (l *Ledger) settle(ctx context.Context, inv *invoice.Invoice, params *store.Params, method invoice.PaymentMethod, fromRewards, fromPrincipal types.Amount) (*payment.Payment, error) {
	fee, merchantAmount, err := feeSplit(inv.Total, params)
	if err != nil {
		return nil, err
	}

	now := l.now()
	inv.Status = invoice.StatusPaid
	inv.Method = method
	inv.PaidAt = &now
	inv.Touch(now)
	if err := l.store.UpdateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	pay := &payment.Payment{
		Entity:         types.NewEntity(now),
		ID:             id.NewPaymentID(),
		InvoiceID:      inv.ID,
		SubscriptionID: inv.SubscriptionID,
		Payer:          inv.Subscriber,
		Merchant:       inv.Merchant,
		Method:         method,
		Total:          inv.Total,
		Fee:            fee,
		MerchantAmount: merchantAmount,
		FromRewards:    fromRewards,
		FromPrincipal:  fromPrincipal,
		SettledAt:      now,
	}
	if err := l.store.CreatePayment(ctx, pay); err != nil {
		return nil, err
	}
	if err := l.store.AddMerchantRevenue(ctx, inv.Merchant, merchantAmount); err != nil {
		return nil, err
	}

	if !fee.IsZero() {
		if err := l.transfer.Transfer(ctx, params.FeeRecipient, fee); err != nil {
			return nil, err
		}
	}
	if !merchantAmount.IsZero() {
		if err := l.transfer.Transfer(ctx, inv.Merchant, merchantAmount); err != nil {
			return nil, err
		}
	}

	l.plugins.EmitInvoicePaid(ctx, inv, pay)
	l.logger.Info("invoice paid",
		"invoice_id", inv.ID,
		"method", method,
		"total", inv.Total,
		"fee", fee,
		"merchant_amount", merchantAmount,
	)
	return pay, nil
}

// FailInvoice marks a pending invoice failed. Only the protocol owner
// may fail invoices.
func (l *Ledger) FailInvoice(ctx context.Context, caller types.Address, invID id.InvoiceID) error {
	inv, err := l.store.GetInvoice(ctx, invID)
	if err != nil {
		return err
	}

	unlock := l.locks.lock(inv.Subscriber)
	defer unlock()

	inv, err = l.store.GetInvoice(ctx, invID)
	if err != nil {
		return err
	}
	params, err := l.store.GetParams(ctx)
	if err != nil {
		return err
	}
	if caller != params.Owner {
		return ErrUnauthorized
	}
	if !inv.IsPending() {
		return ErrInvoiceNotPending
	}

	now := l.now()
	inv.Status = invoice.StatusFailed
	inv.FailedAt = &now
	inv.Touch(now)
	if err := l.store.UpdateInvoice(ctx, inv); err != nil {
		return err
	}

	l.plugins.EmitInvoiceFailed(ctx, inv)
	return nil
}

// CancelInvoice voids a pending invoice. The issuing merchant or the
// protocol owner may cancel.
func (l *Ledger) CancelInvoice(ctx context.Context, caller types.Address, invID id.InvoiceID) error {
	inv, err := l.store.GetInvoice(ctx, invID)
	if err != nil {
		return err
	}

	unlock := l.locks.lock(inv.Subscriber)
	defer unlock()

	inv, err = l.store.GetInvoice(ctx, invID)
	if err != nil {
		return err
	}
	params, err := l.store.GetParams(ctx)
	if err != nil {
		return err
	}
	if caller != inv.Merchant && caller != params.Owner {
		return ErrUnauthorized
	}
	if !inv.IsPending() {
		return ErrInvoiceNotPending
	}

	inv.Status = invoice.StatusCanceled
	inv.Touch(l.now())
	return l.store.UpdateInvoice(ctx, inv)
}

// ──────────────────────────────────────────────────
// Revenue and protocol administration
// ──────────────────────────────────────────────────

// MerchantRevenue returns the lifetime settled revenue of a merchant,
// net of protocol fees.
func (l *Ledger) MerchantRevenue(ctx context.Context, merchant types.Address) (types.Amount, error) {
	return l.store.GetMerchantRevenue(ctx, merchant)
}

// GetPayment retrieves a payment record by ID.
func (l *Ledger) GetPayment(ctx context.Context, payID id.PaymentID) (*payment.Payment, error) {
	return l.store.GetPayment(ctx, payID)
}

// Params returns the current protocol parameters.
func (l *Ledger) Params(ctx context.Context) (*store.Params, error) {
	return l.store.GetParams(ctx)
}

// Totals returns the protocol-wide aggregate registers.
func (l *Ledger) Totals(ctx context.Context) (*store.Totals, error) {
	return l.store.GetTotals(ctx)
}

// SetRewardRate changes the accrual rate. Owner only, capped at
// MaxRewardRateBps.
func (l *Ledger) SetRewardRate(ctx context.Context, caller types.Address, bps uint64) error {
	if bps > MaxRewardRateBps {
		return ErrRateTooHigh
	}
	return l.updateParams(ctx, caller, func(p *store.Params) {
		p.RewardRate = bps
	})
}

// SetFeeRate changes the protocol fee. Owner only, capped at
// MaxFeeRateBps.
func (l *Ledger) SetFeeRate(ctx context.Context, caller types.Address, bps uint64) error {
	if bps > MaxFeeRateBps {
		return ErrFeeTooHigh
	}
	return l.updateParams(ctx, caller, func(p *store.Params) {
		p.FeeRate = bps
	})
}

// SetFeeRecipient changes where protocol fees are sent. Owner only.
func (l *Ledger) SetFeeRecipient(ctx context.Context, caller types.Address, recipient types.Address) error {
	return l.updateParams(ctx, caller, func(p *store.Params) {
		p.FeeRecipient = recipient
	})
}

// TransferOwnership hands protocol administration to a new owner.
func (l *Ledger) TransferOwnership(ctx context.Context, caller types.Address, newOwner types.Address) error {
	if newOwner.IsZero() {
		return ValidationError{Field: "new_owner", Message: "required"}
	}
	return l.updateParams(ctx, caller, func(p *store.Params) {
		p.Owner = newOwner
	})
}

func (l *Ledger) updateParams(ctx context.Context, caller types.Address, apply func(*store.Params)) error {
	params, err := l.store.GetParams(ctx)
	if err != nil {
		return err
	}
	if caller != params.Owner {
		return ErrUnauthorized
	}
	apply(params)
	return l.store.SetParams(ctx, params)
}
