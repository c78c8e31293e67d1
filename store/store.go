package store

import (
	"context"
	"time"

	"github.com/Abhishekgoyal007/CasperFlow/id"
	"github.com/Abhishekgoyal007/CasperFlow/invoice"
	"github.com/Abhishekgoyal007/CasperFlow/meter"
	"github.com/Abhishekgoyal007/CasperFlow/payment"
	"github.com/Abhishekgoyal007/CasperFlow/plan"
	"github.com/Abhishekgoyal007/CasperFlow/stake"
	"github.com/Abhishekgoyal007/CasperFlow/subscription"
	"github.com/Abhishekgoyal007/CasperFlow/types"
)

// Params holds the protocol configuration the owner can change at
// runtime. Stores persist it as a single register row.
type Params struct {
	Owner        types.Address `json:"owner"`
	RewardRate   uint64        `json:"reward_rate_bps"`
	FeeRate      uint64        `json:"fee_rate_bps"`
	FeeRecipient types.Address `json:"fee_recipient"`
}

// Totals are protocol-wide aggregate registers kept in lockstep with
// the per-account balances.
type Totals struct {
	Staked         types.Amount `json:"total_staked"`
	RewardsPaid    types.Amount `json:"total_rewards_paid"`
	RewardsAccrued types.Amount `json:"total_rewards_accrued"`
}

// Store is the unified storage interface for all CasperFlow entities.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
type Store interface {
	// Stake account methods
	CreateAccount(ctx context.Context, a *stake.Account) error
	GetAccount(ctx context.Context, owner types.Address) (*stake.Account, error)
	UpdateAccount(ctx context.Context, a *stake.Account) error
	ListAccounts(ctx context.Context, opts stake.ListOpts) ([]*stake.Account, error)

	// Plan methods
	CreatePlan(ctx context.Context, p *plan.Plan) error
	GetPlan(ctx context.Context, planID id.PlanID) (*plan.Plan, error)
	ListPlansByMerchant(ctx context.Context, merchant types.Address, opts plan.ListOpts) ([]*plan.Plan, error)
	UpdatePlan(ctx context.Context, p *plan.Plan) error

	// Subscription methods
	CreateSubscription(ctx context.Context, s *subscription.Subscription) error
	GetSubscription(ctx context.Context, subID id.SubscriptionID) (*subscription.Subscription, error)
	GetActiveSubscription(ctx context.Context, subscriber types.Address, planID id.PlanID) (*subscription.Subscription, error)
	ListSubscriptionsBySubscriber(ctx context.Context, subscriber types.Address, opts subscription.ListOpts) ([]*subscription.Subscription, error)
	ListSubscriptionsByPlan(ctx context.Context, planID id.PlanID, opts subscription.ListOpts) ([]*subscription.Subscription, error)
	UpdateSubscription(ctx context.Context, s *subscription.Subscription) error

	// Meter methods
	InsertUsageRecord(ctx context.Context, r *meter.UsageRecord) error
	InsertUsageRecords(ctx context.Context, records []*meter.UsageRecord) error
	QueryUsageRecords(ctx context.Context, subID id.SubscriptionID, opts meter.QueryOpts) ([]*meter.UsageRecord, error)
	GetPeriod(ctx context.Context, subID id.SubscriptionID, periodStart time.Time) (*meter.Period, error)
	UpsertPeriod(ctx context.Context, p *meter.Period) error
	ListPeriods(ctx context.Context, subID id.SubscriptionID) ([]*meter.Period, error)
	PurgeUsageRecords(ctx context.Context, before time.Time) (int64, error)

	// Invoice methods
	CreateInvoice(ctx context.Context, inv *invoice.Invoice) error
	GetInvoice(ctx context.Context, invID id.InvoiceID) (*invoice.Invoice, error)
	UpdateInvoice(ctx context.Context, inv *invoice.Invoice) error
	ListInvoicesBySubscription(ctx context.Context, subID id.SubscriptionID, opts invoice.ListOpts) ([]*invoice.Invoice, error)
	ListInvoicesBySubscriber(ctx context.Context, subscriber types.Address, opts invoice.ListOpts) ([]*invoice.Invoice, error)
	ListInvoicesByMerchant(ctx context.Context, merchant types.Address, opts invoice.ListOpts) ([]*invoice.Invoice, error)

	// Payment methods
	CreatePayment(ctx context.Context, p *payment.Payment) error
	GetPayment(ctx context.Context, payID id.PaymentID) (*payment.Payment, error)
	GetPaymentByInvoice(ctx context.Context, invID id.InvoiceID) (*payment.Payment, error)
	ListPaymentsByMerchant(ctx context.Context, merchant types.Address, opts payment.ListOpts) ([]*payment.Payment, error)
	ListPaymentsByPayer(ctx context.Context, payer types.Address, opts payment.ListOpts) ([]*payment.Payment, error)

	// Register methods
	GetParams(ctx context.Context) (*Params, error)
	SetParams(ctx context.Context, p *Params) error
	GetTotals(ctx context.Context) (*Totals, error)
	SetTotals(ctx context.Context, t *Totals) error
	GetMerchantRevenue(ctx context.Context, merchant types.Address) (types.Amount, error)
	AddMerchantRevenue(ctx context.Context, merchant types.Address, amount types.Amount) error

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
