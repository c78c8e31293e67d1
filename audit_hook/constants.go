package audithook

// Action constants for audit events.
const (
	// Staking actions
	ActionStakeDeposited    = "stake.deposited"
	ActionStakeWithdrawn    = "stake.withdrawn"
	ActionRewardsAccrued    = "rewards.accrued"
	ActionRewardsWithdrawn  = "rewards.withdrawn"
	ActionStakeToPayToggled = "stake_to_pay.toggled"

	// Plan actions
	ActionPlanCreated = "plan.created"
	ActionPlanUpdated = "plan.updated"

	// Subscription actions
	ActionSubscriptionCreated  = "subscription.created"
	ActionSubscriptionCanceled = "subscription.canceled"

	// Metering actions
	ActionUsageRecorded = "usage.recorded"
	ActionPeriodClosed  = "period.closed"

	// Invoice actions
	ActionInvoiceGenerated = "invoice.generated"
	ActionInvoicePaid      = "invoice.paid"
	ActionInvoiceFailed    = "invoice.failed"
)

// Resource constants for audit events.
const (
	ResourceStakeAccount = "stake_account"
	ResourcePlan         = "plan"
	ResourceSubscription = "subscription"
	ResourceUsage        = "usage"
	ResourcePeriod       = "period"
	ResourceInvoice      = "invoice"
)

// Category constants for audit events.
const (
	CategoryStaking      = "staking"
	CategoryBilling      = "billing"
	CategorySubscription = "subscription"
	CategoryUsage        = "usage"
	CategoryPayment      = "payment"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
