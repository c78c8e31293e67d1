package casperflow

import (
	"context"
	"errors"

	"github.com/Abhishekgoyal007/CasperFlow/id"
	"github.com/Abhishekgoyal007/CasperFlow/meter"
	"github.com/Abhishekgoyal007/CasperFlow/subscription"
	"github.com/Abhishekgoyal007/CasperFlow/types"
)

// ──────────────────────────────────────────────────
// Recorder allowlist
// ──────────────────────────────────────────────────

// AuthorizeRecorder lets recorder report usage against the plan. Only
// the plan's merchant may manage the allowlist.
func (l *Ledger) AuthorizeRecorder(ctx context.Context, caller types.Address, planID id.PlanID, recorder types.Address) error {
	p, err := l.store.GetPlan(ctx, planID)
	if err != nil {
		return err
	}
	if caller != p.Merchant {
		return ErrUnauthorized
	}

	old := *p
	p.AuthorizeRecorder(recorder)
	p.Touch(l.now())
	if err := l.store.UpdatePlan(ctx, p); err != nil {
		return err
	}

	l.plugins.EmitPlanUpdated(ctx, &old, p)
	return nil
}

// RevokeRecorder removes recorder from the plan's allowlist.
func (l *Ledger) RevokeRecorder(ctx context.Context, caller types.Address, planID id.PlanID, recorder types.Address) error {
	p, err := l.store.GetPlan(ctx, planID)
	if err != nil {
		return err
	}
	if caller != p.Merchant {
		return ErrUnauthorized
	}

	old := *p
	p.RevokeRecorder(recorder)
	p.Touch(l.now())
	if err := l.store.UpdatePlan(ctx, p); err != nil {
		return err
	}

	l.plugins.EmitPlanUpdated(ctx, &old, p)
	return nil
}

// ──────────────────────────────────────────────────
// Usage Metering
// ──────────────────────────────────────────────────

// RecordUsage adds units of metered consumption to the subscription's
// open billing period. The recorder must be the plan's merchant or on
// its allowlist.
func (l *Ledger) RecordUsage(ctx context.Context, recorder types.Address, subID id.SubscriptionID, units uint64) (*meter.UsageRecord, error) {
	records, err := l.RecordUsageBatch(ctx, recorder, subID, []uint64{units})
	if err != nil {
		return nil, err
	}
	return records[0], nil
}

// RecordUsageBatch records several usage entries against the
// subscription's open period in one call. Either every entry is
// accepted or none are.
func (l *Ledger) RecordUsageBatch(ctx context.Context, recorder types.Address, subID id.SubscriptionID, units []uint64) ([]*meter.UsageRecord, error) {
	if len(units) == 0 {
		return nil, ErrInvalidQuantity
	}
	var total uint64
	for _, u := range units {
		if u == 0 {
			return nil, ErrInvalidQuantity
		}
		total += u
	}

	sub, err := l.store.GetSubscription(ctx, subID)
	if err != nil {
		return nil, err
	}

	unlock := l.locks.lock(sub.Subscriber)
	defer unlock()

	// Re-read under the lock so a concurrent period close is observed
	// and the records land in the open period.
	sub, err = l.store.GetSubscription(ctx, subID)
	if err != nil {
		return nil, err
	}
	if !sub.IsActive() {
		return nil, ErrSubscriptionCanceled
	}

	p, err := l.store.GetPlan(ctx, sub.PlanID)
	if err != nil {
		return nil, err
	}
	if !p.AllowsRecorder(recorder) {
		return nil, ErrRecorderNotAuthorized
	}

	now := l.now()
	records := make([]*meter.UsageRecord, 0, len(units))
	for _, u := range units {
		records = append(records, &meter.UsageRecord{
			ID:             id.NewUsageRecordID(),
			SubscriptionID: subID,
			Recorder:       recorder,
			Units:          u,
			RecordedAt:     now,
			PeriodStart:    sub.CurrentPeriodStart,
		})
	}
	if err := l.store.InsertUsageRecords(ctx, records); err != nil {
		return nil, err
	}

	period, err := l.store.GetPeriod(ctx, subID, sub.CurrentPeriodStart)
	if errors.Is(err, ErrPeriodNotFound) {
		period = &meter.Period{
			SubscriptionID: subID,
			PeriodStart:    sub.CurrentPeriodStart,
		}
	} else if err != nil {
		return nil, err
	}
	period.Units += total
	if err := l.store.UpsertPeriod(ctx, period); err != nil {
		return nil, err
	}

	for _, r := range records {
		l.plugins.EmitUsageRecorded(ctx, r)
	}
	l.logger.Debug("usage recorded",
		"subscription_id", subID,
		"recorder", recorder,
		"units", total,
		"period_units", period.Units,
	)
	return records, nil
}

// CurrentUsage returns the units accumulated in the subscription's open
// billing period.
func (l *Ledger) CurrentUsage(ctx context.Context, subID id.SubscriptionID) (uint64, error) {
	sub, err := l.store.GetSubscription(ctx, subID)
	if err != nil {
		return 0, err
	}

	period, err := l.store.GetPeriod(ctx, subID, sub.CurrentPeriodStart)
	if errors.Is(err, ErrPeriodNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return period.Units, nil
}

// ClosePeriod closes the subscription's open billing period and opens
// the next one starting at the close instant. Closing twice in a row is
// allowed and simply produces an empty period. Only the plan's merchant
// or the protocol owner may close periods.
func (l *Ledger) ClosePeriod(ctx context.Context, caller types.Address, subID id.SubscriptionID) (*meter.Period, error) {
	sub, err := l.store.GetSubscription(ctx, subID)
	if err != nil {
		return nil, err
	}

	unlock := l.locks.lock(sub.Subscriber)
	defer unlock()

	// Re-read under the lock so a concurrent close is observed.
	sub, err = l.store.GetSubscription(ctx, subID)
	if err != nil {
		return nil, err
	}
	if err := l.authorizePeriodClose(ctx, caller, sub); err != nil {
		return nil, err
	}

	return l.closePeriod(ctx, sub)
}

func (l *Ledger) authorizePeriodClose(ctx context.Context, caller types.Address, sub *subscription.Subscription) error {
	p, err := l.store.GetPlan(ctx, sub.PlanID)
	if err != nil {
		return err
	}
	params, err := l.store.GetParams(ctx)
	if err != nil {
		return err
	}
	if caller != p.Merchant && caller != params.Owner {
		return ErrUnauthorized
	}
	return nil
}

// closePeriod does the actual close. Callers hold the subscriber lock.
func (l *Ledger) closePeriod(ctx context.Context, sub *subscription.Subscription) (*meter.Period, error) {
	now := l.now()

	period, err := l.store.GetPeriod(ctx, sub.ID, sub.CurrentPeriodStart)
	if errors.Is(err, ErrPeriodNotFound) {
		period = &meter.Period{
			SubscriptionID: sub.ID,
			PeriodStart:    sub.CurrentPeriodStart,
		}
	} else if err != nil {
		return nil, err
	}

	period.PeriodEnd = now
	period.Closed = true
	if err := l.store.UpsertPeriod(ctx, period); err != nil {
		return nil, err
	}

	sub.CurrentPeriodStart = now
	sub.Touch(now)
	if err := l.store.UpdateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	if err := l.openPeriod(ctx, sub); err != nil {
		return nil, err
	}

	l.plugins.EmitPeriodClosed(ctx, period)
	l.logger.Info("billing period closed",
		"subscription_id", sub.ID,
		"period_start", period.PeriodStart,
		"period_end", period.PeriodEnd,
		"units", period.Units,
	)
	return period, nil
}

// openPeriod seeds the zero-usage row for the subscription's open
// period.
func (l *Ledger) openPeriod(ctx context.Context, sub *subscription.Subscription) error {
	return l.store.UpsertPeriod(ctx, &meter.Period{
		SubscriptionID: sub.ID,
		PeriodStart:    sub.CurrentPeriodStart,
	})
}

// UsageHistory returns the raw usage records for a subscription.
func (l *Ledger) UsageHistory(ctx context.Context, subID id.SubscriptionID, opts meter.QueryOpts) ([]*meter.UsageRecord, error) {
	return l.store.QueryUsageRecords(ctx, subID, opts)
}

// BillingPeriods returns all billing periods of a subscription, oldest
// first.
func (l *Ledger) BillingPeriods(ctx context.Context, subID id.SubscriptionID) ([]*meter.Period, error) {
	return l.store.ListPeriods(ctx, subID)
}
