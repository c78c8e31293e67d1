// Package audithook bridges CasperFlow lifecycle events to an audit trail
// backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Abhishekgoyal007/CasperFlow/plugin"
	"github.com/Abhishekgoyal007/CasperFlow/types"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                 = (*Extension)(nil)
	_ plugin.OnStakeDeposited       = (*Extension)(nil)
	_ plugin.OnStakeWithdrawn       = (*Extension)(nil)
	_ plugin.OnRewardsAccrued       = (*Extension)(nil)
	_ plugin.OnRewardsWithdrawn     = (*Extension)(nil)
	_ plugin.OnStakeToPayToggled    = (*Extension)(nil)
	_ plugin.OnPlanCreated          = (*Extension)(nil)
	_ plugin.OnPlanUpdated          = (*Extension)(nil)
	_ plugin.OnSubscriptionCreated  = (*Extension)(nil)
	_ plugin.OnSubscriptionCanceled = (*Extension)(nil)
	_ plugin.OnUsageRecorded        = (*Extension)(nil)
	_ plugin.OnPeriodClosed         = (*Extension)(nil)
	_ plugin.OnInvoiceGenerated     = (*Extension)(nil)
	_ plugin.OnInvoicePaid          = (*Extension)(nil)
	_ plugin.OnInvoiceFailed        = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audit_hook package does not import Chronicle directly — callers inject
// the concrete *chronicle.Chronicle at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges CasperFlow lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Staking lifecycle hooks
// ──────────────────────────────────────────────────

// OnStakeDeposited implements plugin.OnStakeDeposited.
func (e *Extension) OnStakeDeposited(ctx context.Context, owner types.Address, amount types.Amount) error {
	return e.record(ctx, ActionStakeDeposited, SeverityInfo, OutcomeSuccess,
		ResourceStakeAccount, owner.String(), CategoryStaking, nil,
		"owner", owner.String(),
		"amount_motes", uint64(amount),
	)
}

// OnStakeWithdrawn implements plugin.OnStakeWithdrawn.
func (e *Extension) OnStakeWithdrawn(ctx context.Context, owner types.Address, amount types.Amount) error {
	return e.record(ctx, ActionStakeWithdrawn, SeverityInfo, OutcomeSuccess,
		ResourceStakeAccount, owner.String(), CategoryStaking, nil,
		"owner", owner.String(),
		"amount_motes", uint64(amount),
	)
}

// OnRewardsAccrued implements plugin.OnRewardsAccrued.
func (e *Extension) OnRewardsAccrued(ctx context.Context, owner types.Address, minted types.Amount) error {
	return e.record(ctx, ActionRewardsAccrued, SeverityInfo, OutcomeSuccess,
		ResourceStakeAccount, owner.String(), CategoryStaking, nil,
		"owner", owner.String(),
		"minted_motes", uint64(minted),
	)
}

// OnRewardsWithdrawn implements plugin.OnRewardsWithdrawn.
func (e *Extension) OnRewardsWithdrawn(ctx context.Context, owner types.Address, amount types.Amount) error {
	return e.record(ctx, ActionRewardsWithdrawn, SeverityInfo, OutcomeSuccess,
		ResourceStakeAccount, owner.String(), CategoryStaking, nil,
		"owner", owner.String(),
		"amount_motes", uint64(amount),
	)
}

// OnStakeToPayToggled implements plugin.OnStakeToPayToggled.
func (e *Extension) OnStakeToPayToggled(ctx context.Context, owner types.Address, enabled bool) error {
	return e.record(ctx, ActionStakeToPayToggled, SeverityInfo, OutcomeSuccess,
		ResourceStakeAccount, owner.String(), CategoryStaking, nil,
		"owner", owner.String(),
		"enabled", enabled,
	)
}

// ──────────────────────────────────────────────────
// Plan lifecycle hooks
// ──────────────────────────────────────────────────

// OnPlanCreated implements plugin.OnPlanCreated.
func (e *Extension) OnPlanCreated(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionPlanCreated, SeverityInfo, OutcomeSuccess,
		ResourcePlan, "", CategoryBilling, nil,
		"event", "plan_created",
	)
}

// OnPlanUpdated implements plugin.OnPlanUpdated.
func (e *Extension) OnPlanUpdated(ctx context.Context, _, _ interface{}) error {
	return e.record(ctx, ActionPlanUpdated, SeverityInfo, OutcomeSuccess,
		ResourcePlan, "", CategoryBilling, nil,
		"event", "plan_updated",
	)
}

// ──────────────────────────────────────────────────
// Subscription lifecycle hooks
// ──────────────────────────────────────────────────

// OnSubscriptionCreated implements plugin.OnSubscriptionCreated.
func (e *Extension) OnSubscriptionCreated(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionSubscriptionCreated, SeverityInfo, OutcomeSuccess,
		ResourceSubscription, "", CategorySubscription, nil,
		"event", "subscription_created",
	)
}

// OnSubscriptionCanceled implements plugin.OnSubscriptionCanceled.
func (e *Extension) OnSubscriptionCanceled(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionSubscriptionCanceled, SeverityInfo, OutcomeSuccess,
		ResourceSubscription, "", CategorySubscription, nil,
		"event", "subscription_canceled",
	)
}

// ──────────────────────────────────────────────────
// Metering lifecycle hooks
// ──────────────────────────────────────────────────

// OnUsageRecorded implements plugin.OnUsageRecorded.
func (e *Extension) OnUsageRecorded(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionUsageRecorded, SeverityInfo, OutcomeSuccess,
		ResourceUsage, "", CategoryUsage, nil,
		"event", "usage_recorded",
	)
}

// OnPeriodClosed implements plugin.OnPeriodClosed.
func (e *Extension) OnPeriodClosed(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionPeriodClosed, SeverityInfo, OutcomeSuccess,
		ResourcePeriod, "", CategoryUsage, nil,
		"event", "period_closed",
	)
}

// ──────────────────────────────────────────────────
// Invoice lifecycle hooks
// ──────────────────────────────────────────────────

// OnInvoiceGenerated implements plugin.OnInvoiceGenerated.
func (e *Extension) OnInvoiceGenerated(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionInvoiceGenerated, SeverityInfo, OutcomeSuccess,
		ResourceInvoice, "", CategoryPayment, nil,
		"event", "invoice_generated",
	)
}

// OnInvoicePaid implements plugin.OnInvoicePaid.
func (e *Extension) OnInvoicePaid(ctx context.Context, _, _ interface{}) error {
	return e.record(ctx, ActionInvoicePaid, SeverityInfo, OutcomeSuccess,
		ResourceInvoice, "", CategoryPayment, nil,
		"event", "invoice_paid",
	)
}

// OnInvoiceFailed implements plugin.OnInvoiceFailed.
func (e *Extension) OnInvoiceFailed(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionInvoiceFailed, SeverityCritical, OutcomeFailure,
		ResourceInvoice, "", CategoryPayment, nil,
		"event", "invoice_failed",
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
