// Package plugin provides an extensible plugin system for CasperFlow.
// Plugins can hook into various lifecycle events to extend functionality.
package plugin

import (
	"context"

	"github.com/Abhishekgoyal007/CasperFlow/types"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, l interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Staking hooks
// ──────────────────────────────────────────────────

// OnStakeDeposited is called when a subscriber deposits into their
// stake account.
type OnStakeDeposited interface {
	Plugin
	OnStakeDeposited(ctx context.Context, owner types.Address, amount types.Amount) error
}

// OnStakeWithdrawn is called when principal leaves a stake account.
type OnStakeWithdrawn interface {
	Plugin
	OnStakeWithdrawn(ctx context.Context, owner types.Address, amount types.Amount) error
}

// OnRewardsAccrued is called when an accrual mints a non-zero reward.
type OnRewardsAccrued interface {
	Plugin
	OnRewardsAccrued(ctx context.Context, owner types.Address, minted types.Amount) error
}

// OnRewardsWithdrawn is called when a subscriber withdraws accrued rewards.
type OnRewardsWithdrawn interface {
	Plugin
	OnRewardsWithdrawn(ctx context.Context, owner types.Address, amount types.Amount) error
}

// OnStakeToPayToggled is called when an account enables or disables
// settlement from staked funds.
type OnStakeToPayToggled interface {
	Plugin
	OnStakeToPayToggled(ctx context.Context, owner types.Address, enabled bool) error
}

// ──────────────────────────────────────────────────
// Plan lifecycle hooks
// ──────────────────────────────────────────────────

// OnPlanCreated is called when a new plan is created.
type OnPlanCreated interface {
	Plugin
	OnPlanCreated(ctx context.Context, plan interface{}) error
}

// OnPlanUpdated is called when a plan is updated.
type OnPlanUpdated interface {
	Plugin
	OnPlanUpdated(ctx context.Context, oldPlan, newPlan interface{}) error
}

// ──────────────────────────────────────────────────
// Subscription lifecycle hooks
// ──────────────────────────────────────────────────

// OnSubscriptionCreated is called when a new subscription is created.
type OnSubscriptionCreated interface {
	Plugin
	OnSubscriptionCreated(ctx context.Context, sub interface{}) error
}

// OnSubscriptionCanceled is called when a subscription is canceled.
type OnSubscriptionCanceled interface {
	Plugin
	OnSubscriptionCanceled(ctx context.Context, sub interface{}) error
}

// ──────────────────────────────────────────────────
// Usage/Metering hooks
// ──────────────────────────────────────────────────

// OnUsageRecorded is called when a usage record is accepted.
type OnUsageRecorded interface {
	Plugin
	OnUsageRecorded(ctx context.Context, record interface{}) error
}

// OnPeriodClosed is called when a billing period is closed.
type OnPeriodClosed interface {
	Plugin
	OnPeriodClosed(ctx context.Context, period interface{}) error
}

// ──────────────────────────────────────────────────
// Invoice lifecycle hooks
// ──────────────────────────────────────────────────

// OnInvoiceGenerated is called when an invoice is generated.
type OnInvoiceGenerated interface {
	Plugin
	OnInvoiceGenerated(ctx context.Context, inv interface{}) error
}

// OnInvoicePaid is called when an invoice settles, with the resulting
// payment record.
type OnInvoicePaid interface {
	Plugin
	OnInvoicePaid(ctx context.Context, inv interface{}, pay interface{}) error
}

// OnInvoiceFailed is called when an invoice is marked failed.
type OnInvoiceFailed interface {
	Plugin
	OnInvoiceFailed(ctx context.Context, inv interface{}) error
}
