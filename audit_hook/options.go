package audithook

import "log/slog"

// Option configures the audit Extension.
type Option func(*Extension)

// WithLogger sets the logger used for internal warnings.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extension) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithEnabledActions restricts auditing to the listed actions.
// All other actions are silently skipped.
func WithEnabledActions(actions ...string) Option {
	return func(e *Extension) {
		e.enabled = make(map[string]bool, len(actions))
		for _, a := range actions {
			e.enabled[a] = true
		}
	}
}

// WithDisabledActions audits every action except the listed ones.
func WithDisabledActions(actions ...string) Option {
	return func(e *Extension) {
		disabled := make(map[string]bool, len(actions))
		for _, a := range actions {
			disabled[a] = true
		}
		e.enabled = make(map[string]bool)
		for _, a := range allActions() {
			if !disabled[a] {
				e.enabled[a] = true
			}
		}
	}
}

func allActions() []string {
	return []string{
		ActionStakeDeposited,
		ActionStakeWithdrawn,
		ActionRewardsAccrued,
		ActionRewardsWithdrawn,
		ActionStakeToPayToggled,
		ActionPlanCreated,
		ActionPlanUpdated,
		ActionSubscriptionCreated,
		ActionSubscriptionCanceled,
		ActionUsageRecorded,
		ActionPeriodClosed,
		ActionInvoiceGenerated,
		ActionInvoicePaid,
		ActionInvoiceFailed,
	}
}
