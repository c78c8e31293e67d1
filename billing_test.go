package casperflow_test

import (
	"context"
	"errors"
	"testing"
	"time"

	casperflow "github.com/Abhishekgoyal007/CasperFlow"
	"github.com/Abhishekgoyal007/CasperFlow/invoice"
	"github.com/Abhishekgoyal007/CasperFlow/plan"
	"github.com/Abhishekgoyal007/CasperFlow/types"
)

func TestGenerateInvoicePricesThePeriod(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.newPlan(t)
	sub := f.subscribe(t, p)

	if _, err := f.ledger.RecordUsage(ctx, merchant, sub.ID, 1000); err != nil {
		t.Fatalf("RecordUsage: %v", err)
	}
	f.clock.Advance(30 * 24 * time.Hour)

	inv, err := f.ledger.GenerateInvoice(ctx, merchant, sub.ID)
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}
	if inv.Status != invoice.StatusPending {
		t.Errorf("Status: got %s, want %s", inv.Status, invoice.StatusPending)
	}
	if inv.BaseAmount != types.CSPR(50) {
		t.Errorf("BaseAmount: got %s, want %s", inv.BaseAmount, types.CSPR(50))
	}
	// 1000 units at 1_000_000 motes each is exactly 1 CSPR.
	if inv.UsageAmount != types.CSPR(1) {
		t.Errorf("UsageAmount: got %s, want %s", inv.UsageAmount, types.CSPR(1))
	}
	if inv.Total != types.CSPR(51) {
		t.Errorf("Total: got %s, want %s", inv.Total, types.CSPR(51))
	}
	if inv.Units != 1000 {
		t.Errorf("Units: got %d, want 1000", inv.Units)
	}

	// Invoicing closed the period, so the meter reads zero again.
	units, err := f.ledger.CurrentUsage(ctx, sub.ID)
	if err != nil {
		t.Fatalf("CurrentUsage: %v", err)
	}
	if units != 0 {
		t.Errorf("CurrentUsage after invoice: got %d, want 0", units)
	}
}

func TestGenerateInvoiceAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.subscribe(t, f.newPlan(t))

	if _, err := f.ledger.GenerateInvoice(ctx, stranger, sub.ID); !errors.Is(err, casperflow.ErrUnauthorized) {
		t.Errorf("stranger invoice: got %v, want ErrUnauthorized", err)
	}
	if _, err := f.ledger.GenerateInvoice(ctx, subscriber, sub.ID); !errors.Is(err, casperflow.ErrUnauthorized) {
		t.Errorf("subscriber invoice: got %v, want ErrUnauthorized", err)
	}
	if _, err := f.ledger.GenerateInvoice(ctx, owner, sub.ID); err != nil {
		t.Errorf("owner invoice: %v", err)
	}
}

func TestPayInvoiceSplitsFee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.subscribe(t, f.newPlan(t))

	if _, err := f.ledger.RecordUsage(ctx, merchant, sub.ID, 1000); err != nil {
		t.Fatalf("RecordUsage: %v", err)
	}
	inv, err := f.ledger.GenerateInvoice(ctx, merchant, sub.ID)
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}

	pay, err := f.ledger.PayInvoice(ctx, subscriber, inv.ID, inv.Total)
	if err != nil {
		t.Fatalf("PayInvoice: %v", err)
	}

	// 51 CSPR at the default 1% protocol fee: 0.51 CSPR fee, 50.49 to
	// the merchant.
	wantFee := types.Motes(510_000_000)
	wantMerchant := types.Motes(50_490_000_000)
	if pay.Fee != wantFee {
		t.Errorf("Fee: got %s, want %s", pay.Fee, wantFee)
	}
	if pay.MerchantAmount != wantMerchant {
		t.Errorf("MerchantAmount: got %s, want %s", pay.MerchantAmount, wantMerchant)
	}
	if pay.Fee.Add(pay.MerchantAmount) != inv.Total {
		t.Errorf("fee + merchant = %s, want %s", pay.Fee.Add(pay.MerchantAmount), inv.Total)
	}
	if pay.Method != invoice.MethodWallet {
		t.Errorf("Method: got %s, want %s", pay.Method, invoice.MethodWallet)
	}

	if got := f.transfers.sentTo(treasury); got != wantFee {
		t.Errorf("treasury received %s, want %s", got, wantFee)
	}
	if got := f.transfers.sentTo(merchant); got != wantMerchant {
		t.Errorf("merchant received %s, want %s", got, wantMerchant)
	}

	revenue, err := f.ledger.MerchantRevenue(ctx, merchant)
	if err != nil {
		t.Fatalf("MerchantRevenue: %v", err)
	}
	if revenue != wantMerchant {
		t.Errorf("MerchantRevenue: got %s, want %s", revenue, wantMerchant)
	}
}

func TestPayInvoiceRefundsOverpayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.subscribe(t, f.newPlan(t))

	inv, err := f.ledger.GenerateInvoice(ctx, merchant, sub.ID)
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}

	attached := inv.Total.Add(types.CSPR(5))
	if _, err := f.ledger.PayInvoice(ctx, subscriber, inv.ID, attached); err != nil {
		t.Fatalf("PayInvoice: %v", err)
	}
	if got := f.transfers.sentTo(subscriber); got != types.CSPR(5) {
		t.Errorf("refund: got %s, want %s", got, types.CSPR(5))
	}
}

func TestPayInvoiceRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.subscribe(t, f.newPlan(t))

	inv, err := f.ledger.GenerateInvoice(ctx, merchant, sub.ID)
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}

	if _, err := f.ledger.PayInvoice(ctx, stranger, inv.ID, inv.Total); !errors.Is(err, casperflow.ErrUnauthorized) {
		t.Errorf("stranger pay: got %v, want ErrUnauthorized", err)
	}
	if _, err := f.ledger.PayInvoice(ctx, subscriber, inv.ID, inv.Total.Sub(types.Motes(1))); !errors.Is(err, casperflow.ErrInsufficientValue) {
		t.Errorf("short pay: got %v, want ErrInsufficientValue", err)
	}
}

func TestInvoiceSettlesExactlyOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.subscribe(t, f.newPlan(t))

	inv, err := f.ledger.GenerateInvoice(ctx, merchant, sub.ID)
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}
	if _, err := f.ledger.PayInvoice(ctx, subscriber, inv.ID, inv.Total); err != nil {
		t.Fatalf("PayInvoice: %v", err)
	}

	if _, err := f.ledger.PayInvoice(ctx, subscriber, inv.ID, inv.Total); !errors.Is(err, casperflow.ErrInvoiceNotPending) {
		t.Errorf("second pay: got %v, want ErrInvoiceNotPending", err)
	}
	if _, err := f.ledger.PayInvoiceFromStaking(ctx, subscriber, inv.ID); !errors.Is(err, casperflow.ErrInvoiceNotPending) {
		t.Errorf("staking pay after paid: got %v, want ErrInvoiceNotPending", err)
	}
	if err := f.ledger.FailInvoice(ctx, owner, inv.ID); !errors.Is(err, casperflow.ErrInvoiceNotPending) {
		t.Errorf("fail after paid: got %v, want ErrInvoiceNotPending", err)
	}
	if err := f.ledger.CancelInvoice(ctx, merchant, inv.ID); !errors.Is(err, casperflow.ErrInvoiceNotPending) {
		t.Errorf("cancel after paid: got %v, want ErrInvoiceNotPending", err)
	}

	got, err := f.ledger.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice: %v", err)
	}
	if got.Status != invoice.StatusPaid {
		t.Errorf("Status: got %s, want %s", got.Status, invoice.StatusPaid)
	}
	if got.PaidAt == nil {
		t.Error("PaidAt was not stamped")
	}
}

func TestPayInvoiceFromStakingSpendsRewardsFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Flat 120 CSPR plan so the invoice total is exact.
	p := &plan.Plan{
		Merchant:     merchant,
		Name:         "Flat",
		BasePrice:    types.CSPR(120),
		BillingCycle: 30 * 24 * time.Hour,
	}
	if err := f.ledger.CreatePlan(ctx, p); err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	sub := f.subscribe(t, p)

	// 1250 CSPR at 8% APY accrues exactly 100 CSPR over a year.
	if err := f.ledger.Deposit(ctx, subscriber, types.CSPR(1250)); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	f.clock.Advance(yearHours)

	inv, err := f.ledger.GenerateInvoice(ctx, merchant, sub.ID)
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}
	pay, err := f.ledger.PayInvoiceFromStaking(ctx, subscriber, inv.ID)
	if err != nil {
		t.Fatalf("PayInvoiceFromStaking: %v", err)
	}

	// 100 CSPR of rewards cover first, principal covers the remaining 20.
	if pay.FromRewards != types.CSPR(100) {
		t.Errorf("FromRewards: got %s, want %s", pay.FromRewards, types.CSPR(100))
	}
	if pay.FromPrincipal != types.CSPR(20) {
		t.Errorf("FromPrincipal: got %s, want %s", pay.FromPrincipal, types.CSPR(20))
	}
	if pay.Method != invoice.MethodStaking {
		t.Errorf("Method: got %s, want %s", pay.Method, invoice.MethodStaking)
	}

	acct, err := f.ledger.StakeAccount(ctx, subscriber)
	if err != nil {
		t.Fatalf("StakeAccount: %v", err)
	}
	if acct.Principal != types.CSPR(1230) {
		t.Errorf("Principal: got %s, want %s", acct.Principal, types.CSPR(1230))
	}
	if !acct.Rewards.IsZero() {
		t.Errorf("Rewards: got %s, want 0", acct.Rewards)
	}
	if acct.RewardsSpent != types.CSPR(100) {
		t.Errorf("RewardsSpent: got %s, want %s", acct.RewardsSpent, types.CSPR(100))
	}
}

func TestPayInvoiceFromStakingDisabledAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.subscribe(t, f.newPlan(t))

	if err := f.ledger.Deposit(ctx, subscriber, types.CSPR(1000)); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if err := f.ledger.DisableStakeToPay(ctx, subscriber); err != nil {
		t.Fatalf("DisableStakeToPay: %v", err)
	}
	inv, err := f.ledger.GenerateInvoice(ctx, merchant, sub.ID)
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}

	if _, err := f.ledger.PayInvoiceFromStaking(ctx, subscriber, inv.ID); !errors.Is(err, casperflow.ErrStakeToPayDisabled) {
		t.Errorf("got %v, want ErrStakeToPayDisabled", err)
	}
}

func TestPayInvoiceFromStakingInsufficientBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.subscribe(t, f.newPlan(t))

	if err := f.ledger.Deposit(ctx, subscriber, types.CSPR(10)); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	inv, err := f.ledger.GenerateInvoice(ctx, merchant, sub.ID)
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}

	if _, err := f.ledger.PayInvoiceFromStaking(ctx, subscriber, inv.ID); !errors.Is(err, casperflow.ErrInsufficientFunds) {
		t.Errorf("got %v, want ErrInsufficientFunds", err)
	}

	// The failed attempt must not leave the invoice settled.
	got, err := f.ledger.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice: %v", err)
	}
	if got.Status != invoice.StatusPending {
		t.Errorf("Status: got %s, want %s", got.Status, invoice.StatusPending)
	}
}

func TestPayInvoiceFromStakingNoDebitWithoutFeeRecipient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.subscribe(t, f.newPlan(t))

	if err := f.ledger.SetFeeRecipient(ctx, owner, ""); err != nil {
		t.Fatalf("SetFeeRecipient: %v", err)
	}
	if err := f.ledger.Deposit(ctx, subscriber, types.CSPR(500)); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	inv, err := f.ledger.GenerateInvoice(ctx, merchant, sub.ID)
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}

	if _, err := f.ledger.PayInvoiceFromStaking(ctx, subscriber, inv.ID); !errors.Is(err, casperflow.ErrFeeRecipientUnset) {
		t.Errorf("got %v, want ErrFeeRecipientUnset", err)
	}

	// The rejected settlement must not have touched the stake account
	// or the invoice.
	acct, err := f.ledger.StakeAccount(ctx, subscriber)
	if err != nil {
		t.Fatalf("StakeAccount: %v", err)
	}
	if acct.Balance() != types.CSPR(500) {
		t.Errorf("Balance: got %s, want %s", acct.Balance(), types.CSPR(500))
	}
	got, err := f.ledger.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice: %v", err)
	}
	if got.Status != invoice.StatusPending {
		t.Errorf("Status: got %s, want %s", got.Status, invoice.StatusPending)
	}

	// A zero fee rate settles from the stake account without a recipient.
	if err := f.ledger.SetFeeRate(ctx, owner, 0); err != nil {
		t.Fatalf("SetFeeRate: %v", err)
	}
	pay, err := f.ledger.PayInvoiceFromStaking(ctx, subscriber, inv.ID)
	if err != nil {
		t.Fatalf("PayInvoiceFromStaking: %v", err)
	}
	if pay.MerchantAmount != inv.Total {
		t.Errorf("MerchantAmount: got %s, want %s", pay.MerchantAmount, inv.Total)
	}
}

func TestFailInvoice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.subscribe(t, f.newPlan(t))

	inv, err := f.ledger.GenerateInvoice(ctx, merchant, sub.ID)
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}

	if err := f.ledger.FailInvoice(ctx, merchant, inv.ID); !errors.Is(err, casperflow.ErrUnauthorized) {
		t.Errorf("merchant fail: got %v, want ErrUnauthorized", err)
	}
	if err := f.ledger.FailInvoice(ctx, owner, inv.ID); err != nil {
		t.Fatalf("FailInvoice: %v", err)
	}

	got, err := f.ledger.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice: %v", err)
	}
	if got.Status != invoice.StatusFailed {
		t.Errorf("Status: got %s, want %s", got.Status, invoice.StatusFailed)
	}
	if got.FailedAt == nil {
		t.Error("FailedAt was not stamped")
	}
}

func TestCancelInvoice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.subscribe(t, f.newPlan(t))

	inv, err := f.ledger.GenerateInvoice(ctx, merchant, sub.ID)
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}

	if err := f.ledger.CancelInvoice(ctx, subscriber, inv.ID); !errors.Is(err, casperflow.ErrUnauthorized) {
		t.Errorf("subscriber cancel: got %v, want ErrUnauthorized", err)
	}
	if err := f.ledger.CancelInvoice(ctx, merchant, inv.ID); err != nil {
		t.Fatalf("CancelInvoice: %v", err)
	}

	got, err := f.ledger.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice: %v", err)
	}
	if got.Status != invoice.StatusCanceled {
		t.Errorf("Status: got %s, want %s", got.Status, invoice.StatusCanceled)
	}
}

func TestListInvoices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.subscribe(t, f.newPlan(t))

	for i := 0; i < 3; i++ {
		if _, err := f.ledger.GenerateInvoice(ctx, merchant, sub.ID); err != nil {
			t.Fatalf("GenerateInvoice: %v", err)
		}
		f.clock.Advance(30 * 24 * time.Hour)
	}

	invs, err := f.ledger.ListInvoices(ctx, subscriber, invoice.ListOpts{})
	if err != nil {
		t.Fatalf("ListInvoices: %v", err)
	}
	if len(invs) != 3 {
		t.Errorf("ListInvoices: got %d, want 3", len(invs))
	}

	byMerchant, err := f.ledger.ListMerchantInvoices(ctx, merchant, invoice.ListOpts{Status: invoice.StatusPending})
	if err != nil {
		t.Fatalf("ListMerchantInvoices: %v", err)
	}
	if len(byMerchant) != 3 {
		t.Errorf("ListMerchantInvoices: got %d, want 3", len(byMerchant))
	}
}

func TestProtocolParameterAdministration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.ledger.SetRewardRate(ctx, stranger, 500); !errors.Is(err, casperflow.ErrUnauthorized) {
		t.Errorf("stranger rate change: got %v, want ErrUnauthorized", err)
	}
	if err := f.ledger.SetRewardRate(ctx, owner, casperflow.MaxRewardRateBps+1); !errors.Is(err, casperflow.ErrRateTooHigh) {
		t.Errorf("over-cap rate: got %v, want ErrRateTooHigh", err)
	}
	if err := f.ledger.SetFeeRate(ctx, owner, casperflow.MaxFeeRateBps+1); !errors.Is(err, casperflow.ErrFeeTooHigh) {
		t.Errorf("over-cap fee: got %v, want ErrFeeTooHigh", err)
	}

	if err := f.ledger.SetRewardRate(ctx, owner, 500); err != nil {
		t.Fatalf("SetRewardRate: %v", err)
	}
	if err := f.ledger.SetFeeRate(ctx, owner, 200); err != nil {
		t.Fatalf("SetFeeRate: %v", err)
	}

	params, err := f.ledger.Params(ctx)
	if err != nil {
		t.Fatalf("Params: %v", err)
	}
	if params.RewardRate != 500 {
		t.Errorf("RewardRate: got %d, want 500", params.RewardRate)
	}
	if params.FeeRate != 200 {
		t.Errorf("FeeRate: got %d, want 200", params.FeeRate)
	}
}

func TestTransferOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	newOwner := types.Address("account-hash-new-owner")

	if err := f.ledger.TransferOwnership(ctx, owner, ""); err == nil {
		t.Error("empty new owner should be rejected")
	}
	if err := f.ledger.TransferOwnership(ctx, owner, newOwner); err != nil {
		t.Fatalf("TransferOwnership: %v", err)
	}

	// The old owner lost admin rights.
	if err := f.ledger.SetFeeRate(ctx, owner, 50); !errors.Is(err, casperflow.ErrUnauthorized) {
		t.Errorf("old owner: got %v, want ErrUnauthorized", err)
	}
	if err := f.ledger.SetFeeRate(ctx, newOwner, 50); err != nil {
		t.Errorf("new owner: %v", err)
	}
}

func TestSettleRequiresFeeRecipient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.subscribe(t, f.newPlan(t))

	if err := f.ledger.SetFeeRecipient(ctx, owner, ""); err != nil {
		t.Fatalf("SetFeeRecipient: %v", err)
	}

	inv, err := f.ledger.GenerateInvoice(ctx, merchant, sub.ID)
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}
	if _, err := f.ledger.PayInvoice(ctx, subscriber, inv.ID, inv.Total); !errors.Is(err, casperflow.ErrFeeRecipientUnset) {
		t.Errorf("got %v, want ErrFeeRecipientUnset", err)
	}

	// A zero fee rate settles fine without a recipient.
	if err := f.ledger.SetFeeRate(ctx, owner, 0); err != nil {
		t.Fatalf("SetFeeRate: %v", err)
	}
	pay, err := f.ledger.PayInvoice(ctx, subscriber, inv.ID, inv.Total)
	if err != nil {
		t.Fatalf("PayInvoice: %v", err)
	}
	if !pay.Fee.IsZero() {
		t.Errorf("Fee: got %s, want 0", pay.Fee)
	}
	if pay.MerchantAmount != inv.Total {
		t.Errorf("MerchantAmount: got %s, want %s", pay.MerchantAmount, inv.Total)
	}
}
