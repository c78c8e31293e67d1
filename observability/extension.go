// Package observability provides a metrics extension for CasperFlow that
// records lifecycle event counts via go-utils MetricFactory.
package observability

import (
	"context"

	"github.com/Abhishekgoyal007/CasperFlow/invoice"
	"github.com/Abhishekgoyal007/CasperFlow/plugin"
	"github.com/Abhishekgoyal007/CasperFlow/types"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin                 = (*MetricsExtension)(nil)
	_ plugin.OnInit                 = (*MetricsExtension)(nil)
	_ plugin.OnStakeDeposited       = (*MetricsExtension)(nil)
	_ plugin.OnStakeWithdrawn       = (*MetricsExtension)(nil)
	_ plugin.OnRewardsAccrued       = (*MetricsExtension)(nil)
	_ plugin.OnRewardsWithdrawn     = (*MetricsExtension)(nil)
	_ plugin.OnStakeToPayToggled    = (*MetricsExtension)(nil)
	_ plugin.OnPlanCreated          = (*MetricsExtension)(nil)
	_ plugin.OnPlanUpdated          = (*MetricsExtension)(nil)
	_ plugin.OnSubscriptionCreated  = (*MetricsExtension)(nil)
	_ plugin.OnSubscriptionCanceled = (*MetricsExtension)(nil)
	_ plugin.OnUsageRecorded        = (*MetricsExtension)(nil)
	_ plugin.OnPeriodClosed         = (*MetricsExtension)(nil)
	_ plugin.OnInvoiceGenerated     = (*MetricsExtension)(nil)
	_ plugin.OnInvoicePaid          = (*MetricsExtension)(nil)
	_ plugin.OnInvoiceFailed        = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a CasperFlow plugin to automatically track billing metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Staking metrics
	StakeDeposits       Counter
	StakeWithdrawals    Counter
	RewardsAccrued      Counter
	RewardsWithdrawn    Counter
	StakeToPayToggles   Counter
	StakeDepositAmount  Histogram
	RewardsMintedAmount Histogram

	// Plan metrics
	PlanCreated Counter
	PlanUpdated Counter

	// Subscription metrics
	SubscriptionCreated  Counter
	SubscriptionCanceled Counter

	// Metering metrics
	UsageRecorded Counter
	PeriodClosed  Counter

	// Invoice metrics
	InvoiceGenerated Counter
	InvoicePaid      Counter
	InvoiceFailed    Counter
	InvoiceTotal     Histogram

	// Error metrics
	StoreErrors  Counter
	PluginErrors Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Staking metrics
		StakeDeposits:       factory.Counter("casperflow.stake.deposits"),
		StakeWithdrawals:    factory.Counter("casperflow.stake.withdrawals"),
		RewardsAccrued:      factory.Counter("casperflow.rewards.accruals"),
		RewardsWithdrawn:    factory.Counter("casperflow.rewards.withdrawals"),
		StakeToPayToggles:   factory.Counter("casperflow.stake_to_pay.toggles"),
		StakeDepositAmount:  factory.Histogram("casperflow.stake.deposit_motes"),
		RewardsMintedAmount: factory.Histogram("casperflow.rewards.minted_motes"),

		// Plan metrics
		PlanCreated: factory.Counter("casperflow.plan.created"),
		PlanUpdated: factory.Counter("casperflow.plan.updated"),

		// Subscription metrics
		SubscriptionCreated:  factory.Counter("casperflow.subscription.created"),
		SubscriptionCanceled: factory.Counter("casperflow.subscription.canceled"),

		// Metering metrics
		UsageRecorded: factory.Counter("casperflow.usage.recorded"),
		PeriodClosed:  factory.Counter("casperflow.period.closed"),

		// Invoice metrics
		InvoiceGenerated: factory.Counter("casperflow.invoice.generated"),
		InvoicePaid:      factory.Counter("casperflow.invoice.paid"),
		InvoiceFailed:    factory.Counter("casperflow.invoice.failed"),
		InvoiceTotal:     factory.Histogram("casperflow.invoice.total_motes"),

		// Error metrics
		StoreErrors:  factory.Counter("casperflow.store.errors"),
		PluginErrors: factory.Counter("casperflow.plugin.errors"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Staking lifecycle hooks
// ──────────────────────────────────────────────────

// OnStakeDeposited implements plugin.OnStakeDeposited.
func (m *MetricsExtension) OnStakeDeposited(_ context.Context, _ types.Address, amount types.Amount) error {
	m.StakeDeposits.Inc()
	m.StakeDepositAmount.Observe(float64(amount))
	return nil
}

// OnStakeWithdrawn implements plugin.OnStakeWithdrawn.
func (m *MetricsExtension) OnStakeWithdrawn(_ context.Context, _ types.Address, _ types.Amount) error {
	m.StakeWithdrawals.Inc()
	return nil
}

// OnRewardsAccrued implements plugin.OnRewardsAccrued.
func (m *MetricsExtension) OnRewardsAccrued(_ context.Context, _ types.Address, minted types.Amount) error {
	m.RewardsAccrued.Inc()
	m.RewardsMintedAmount.Observe(float64(minted))
	return nil
}

// OnRewardsWithdrawn implements plugin.OnRewardsWithdrawn.
func (m *MetricsExtension) OnRewardsWithdrawn(_ context.Context, _ types.Address, _ types.Amount) error {
	m.RewardsWithdrawn.Inc()
	return nil
}

// OnStakeToPayToggled implements plugin.OnStakeToPayToggled.
func (m *MetricsExtension) OnStakeToPayToggled(_ context.Context, _ types.Address, _ bool) error {
	m.StakeToPayToggles.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Plan lifecycle hooks
// ──────────────────────────────────────────────────

// OnPlanCreated implements plugin.OnPlanCreated.
func (m *MetricsExtension) OnPlanCreated(_ context.Context, _ interface{}) error {
	m.PlanCreated.Inc()
	return nil
}

// OnPlanUpdated implements plugin.OnPlanUpdated.
func (m *MetricsExtension) OnPlanUpdated(_ context.Context, _, _ interface{}) error {
	m.PlanUpdated.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Subscription lifecycle hooks
// ──────────────────────────────────────────────────

// OnSubscriptionCreated implements plugin.OnSubscriptionCreated.
func (m *MetricsExtension) OnSubscriptionCreated(_ context.Context, _ interface{}) error {
	m.SubscriptionCreated.Inc()
	return nil
}

// OnSubscriptionCanceled implements plugin.OnSubscriptionCanceled.
func (m *MetricsExtension) OnSubscriptionCanceled(_ context.Context, _ interface{}) error {
	m.SubscriptionCanceled.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Metering lifecycle hooks
// ──────────────────────────────────────────────────

// OnUsageRecorded implements plugin.OnUsageRecorded.
func (m *MetricsExtension) OnUsageRecorded(_ context.Context, _ interface{}) error {
	m.UsageRecorded.Inc()
	return nil
}

// OnPeriodClosed implements plugin.OnPeriodClosed.
func (m *MetricsExtension) OnPeriodClosed(_ context.Context, _ interface{}) error {
	m.PeriodClosed.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Invoice lifecycle hooks
// ──────────────────────────────────────────────────

// OnInvoiceGenerated implements plugin.OnInvoiceGenerated.
func (m *MetricsExtension) OnInvoiceGenerated(_ context.Context, _ interface{}) error {
	m.InvoiceGenerated.Inc()
	return nil
}

// OnInvoicePaid implements plugin.OnInvoicePaid.
func (m *MetricsExtension) OnInvoicePaid(_ context.Context, inv, _ interface{}) error {
	m.InvoicePaid.Inc()
	if i, ok := inv.(*invoice.Invoice); ok {
		m.InvoiceTotal.Observe(float64(i.Total))
	}
	return nil
}

// OnInvoiceFailed implements plugin.OnInvoiceFailed.
func (m *MetricsExtension) OnInvoiceFailed(_ context.Context, _ interface{}) error {
	m.InvoiceFailed.Inc()
	return nil
}
