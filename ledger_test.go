package casperflow_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	casperflow "github.com/Abhishekgoyal007/CasperFlow"
	"github.com/Abhishekgoyal007/CasperFlow/meter"
	"github.com/Abhishekgoyal007/CasperFlow/plan"
	"github.com/Abhishekgoyal007/CasperFlow/store/memory"
	"github.com/Abhishekgoyal007/CasperFlow/subscription"
	"github.com/Abhishekgoyal007/CasperFlow/types"
)

var (
	owner      = types.Address("account-hash-owner")
	treasury   = types.Address("account-hash-treasury")
	merchant   = types.Address("account-hash-merchant")
	subscriber = types.Address("account-hash-subscriber")
	stranger   = types.Address("account-hash-stranger")
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// transferRecord captures one outbound transfer.
type transferRecord struct {
	To     types.Address
	Amount types.Amount
}

// recordingTransferer remembers every transfer for assertions.
type recordingTransferer struct {
	mu        sync.Mutex
	transfers []transferRecord
}

func (r *recordingTransferer) Transfer(_ context.Context, to types.Address, amount types.Amount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transfers = append(r.transfers, transferRecord{To: to, Amount: amount})
	return nil
}

// sentTo sums all transfers made to the given address.
func (r *recordingTransferer) sentTo(to types.Address) types.Amount {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total types.Amount
	for _, tr := range r.transfers {
		if tr.To == to {
			total = total.Add(tr.Amount)
		}
	}
	return total
}

type fixture struct {
	ledger    *casperflow.Ledger
	clock     *fakeClock
	transfers *recordingTransferer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := newFakeClock()
	transfers := &recordingTransferer{}
	l := casperflow.New(memory.New(),
		casperflow.WithOwner(owner),
		casperflow.WithFeeRecipient(treasury),
		casperflow.WithClock(clock.Now),
		casperflow.WithTransferer(transfers),
	)
	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = l.Stop() })

	return &fixture{ledger: l, clock: clock, transfers: transfers}
}

// newPlan publishes the standard test plan: 50 CSPR base plus one
// milli-CSPR per metered unit, monthly cycle.
func (f *fixture) newPlan(t *testing.T) *plan.Plan {
	t.Helper()

	p := &plan.Plan{
		Merchant:     merchant,
		Name:         "Pro Plan",
		BasePrice:    types.CSPR(50),
		UsagePrice:   types.Motes(1_000_000),
		BillingCycle: 30 * 24 * time.Hour,
	}
	if err := f.ledger.CreatePlan(context.Background(), p); err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	return p
}

func (f *fixture) subscribe(t *testing.T, p *plan.Plan) *subscription.Subscription {
	t.Helper()

	sub, err := f.ledger.Subscribe(context.Background(), subscriber, p.ID)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	return sub
}

func TestStartSeedsDefaultParams(t *testing.T) {
	f := newFixture(t)

	params, err := f.ledger.Params(context.Background())
	if err != nil {
		t.Fatalf("Params: %v", err)
	}
	if params.Owner != owner {
		t.Errorf("Owner: got %s, want %s", params.Owner, owner)
	}
	if params.FeeRecipient != treasury {
		t.Errorf("FeeRecipient: got %s, want %s", params.FeeRecipient, treasury)
	}
	if params.RewardRate != casperflow.DefaultRewardRateBps {
		t.Errorf("RewardRate: got %d, want %d", params.RewardRate, casperflow.DefaultRewardRateBps)
	}
	if params.FeeRate != casperflow.DefaultFeeRateBps {
		t.Errorf("FeeRate: got %d, want %d", params.FeeRate, casperflow.DefaultFeeRateBps)
	}
}

func TestCreatePlanValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		plan *plan.Plan
	}{
		{
			name: "MissingMerchant",
			plan: &plan.Plan{Name: "p", BillingCycle: time.Hour},
		},
		{
			name: "ZeroBillingCycle",
			plan: &plan.Plan{Merchant: merchant, Name: "p"},
		},
		{
			name: "NegativeBillingCycle",
			plan: &plan.Plan{Merchant: merchant, Name: "p", BillingCycle: -time.Hour},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.ledger.CreatePlan(ctx, tt.plan)
			var verr casperflow.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("got %v, want ValidationError", err)
			}
		})
	}
}

func TestCreatePlanDefaults(t *testing.T) {
	f := newFixture(t)
	p := f.newPlan(t)

	if p.ID.IsNil() {
		t.Error("plan ID was not assigned")
	}
	if p.Status != plan.StatusActive {
		t.Errorf("Status: got %s, want %s", p.Status, plan.StatusActive)
	}

	got, err := f.ledger.GetPlan(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if got.Name != "Pro Plan" {
		t.Errorf("Name: got %q", got.Name)
	}
}

func TestUpdatePlanAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.newPlan(t)

	p.Name = "Pro Plan v2"
	if err := f.ledger.UpdatePlan(ctx, stranger, p); !errors.Is(err, casperflow.ErrUnauthorized) {
		t.Errorf("stranger update: got %v, want ErrUnauthorized", err)
	}
	if err := f.ledger.UpdatePlan(ctx, merchant, p); err != nil {
		t.Fatalf("merchant update: %v", err)
	}

	got, err := f.ledger.GetPlan(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if got.Name != "Pro Plan v2" {
		t.Errorf("Name: got %q, want %q", got.Name, "Pro Plan v2")
	}
}

func TestDeactivatePlanBlocksNewSubscriptions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.newPlan(t)

	if err := f.ledger.DeactivatePlan(ctx, stranger, p.ID); !errors.Is(err, casperflow.ErrUnauthorized) {
		t.Errorf("stranger deactivate: got %v, want ErrUnauthorized", err)
	}
	if err := f.ledger.DeactivatePlan(ctx, merchant, p.ID); err != nil {
		t.Fatalf("DeactivatePlan: %v", err)
	}

	if _, err := f.ledger.Subscribe(ctx, subscriber, p.ID); !errors.Is(err, casperflow.ErrPlanInactive) {
		t.Errorf("Subscribe: got %v, want ErrPlanInactive", err)
	}
}

func TestSubscribeOncePerPlan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.newPlan(t)

	sub := f.subscribe(t, p)
	if sub.Status != subscription.StatusActive {
		t.Errorf("Status: got %s, want %s", sub.Status, subscription.StatusActive)
	}

	if _, err := f.ledger.Subscribe(ctx, subscriber, p.ID); !errors.Is(err, casperflow.ErrAlreadySubscribed) {
		t.Errorf("second subscribe: got %v, want ErrAlreadySubscribed", err)
	}

	// Cancellation frees the slot.
	if err := f.ledger.Unsubscribe(ctx, subscriber, sub.ID); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}
	if _, err := f.ledger.Subscribe(ctx, subscriber, p.ID); err != nil {
		t.Errorf("resubscribe after cancel: %v", err)
	}
}

func TestUnsubscribe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.subscribe(t, f.newPlan(t))

	if err := f.ledger.Unsubscribe(ctx, stranger, sub.ID); !errors.Is(err, casperflow.ErrUnauthorized) {
		t.Errorf("stranger cancel: got %v, want ErrUnauthorized", err)
	}
	if err := f.ledger.Unsubscribe(ctx, subscriber, sub.ID); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}
	if err := f.ledger.Unsubscribe(ctx, subscriber, sub.ID); !errors.Is(err, casperflow.ErrSubscriptionCanceled) {
		t.Errorf("double cancel: got %v, want ErrSubscriptionCanceled", err)
	}

	got, err := f.ledger.GetSubscription(ctx, sub.ID)
	if err != nil {
		t.Fatalf("GetSubscription: %v", err)
	}
	if got.CanceledAt == nil {
		t.Error("CanceledAt was not stamped")
	}
	if got.AutoRenew {
		t.Error("AutoRenew should be cleared on cancel")
	}
}

func TestSetAutoRenew(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.subscribe(t, f.newPlan(t))

	if err := f.ledger.SetAutoRenew(ctx, stranger, sub.ID, false); !errors.Is(err, casperflow.ErrUnauthorized) {
		t.Errorf("stranger toggle: got %v, want ErrUnauthorized", err)
	}
	if err := f.ledger.SetAutoRenew(ctx, subscriber, sub.ID, false); err != nil {
		t.Fatalf("SetAutoRenew: %v", err)
	}

	got, err := f.ledger.GetSubscription(ctx, sub.ID)
	if err != nil {
		t.Fatalf("GetSubscription: %v", err)
	}
	if got.AutoRenew {
		t.Error("AutoRenew: got true, want false")
	}

	if err := f.ledger.Unsubscribe(ctx, subscriber, sub.ID); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}
	if err := f.ledger.SetAutoRenew(ctx, subscriber, sub.ID, true); !errors.Is(err, casperflow.ErrSubscriptionCanceled) {
		t.Errorf("toggle after cancel: got %v, want ErrSubscriptionCanceled", err)
	}
}

func TestRecordUsageAccumulates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.subscribe(t, f.newPlan(t))

	if _, err := f.ledger.RecordUsage(ctx, merchant, sub.ID, 3); err != nil {
		t.Fatalf("RecordUsage: %v", err)
	}
	if _, err := f.ledger.RecordUsage(ctx, merchant, sub.ID, 7); err != nil {
		t.Fatalf("RecordUsage: %v", err)
	}

	units, err := f.ledger.CurrentUsage(ctx, sub.ID)
	if err != nil {
		t.Fatalf("CurrentUsage: %v", err)
	}
	if units != 10 {
		t.Errorf("CurrentUsage: got %d, want 10", units)
	}

	history, err := f.ledger.UsageHistory(ctx, sub.ID, meter.QueryOpts{})
	if err != nil {
		t.Fatalf("UsageHistory: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("UsageHistory: got %d records, want 2", len(history))
	}
}

func TestRecordUsageInvalidQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.subscribe(t, f.newPlan(t))

	if _, err := f.ledger.RecordUsage(ctx, merchant, sub.ID, 0); !errors.Is(err, casperflow.ErrInvalidQuantity) {
		t.Errorf("zero units: got %v, want ErrInvalidQuantity", err)
	}
	if _, err := f.ledger.RecordUsageBatch(ctx, merchant, sub.ID, nil); !errors.Is(err, casperflow.ErrInvalidQuantity) {
		t.Errorf("empty batch: got %v, want ErrInvalidQuantity", err)
	}
	if _, err := f.ledger.RecordUsageBatch(ctx, merchant, sub.ID, []uint64{5, 0, 2}); !errors.Is(err, casperflow.ErrInvalidQuantity) {
		t.Errorf("batch with zero entry: got %v, want ErrInvalidQuantity", err)
	}

	// Nothing may have been recorded by the rejected batch.
	units, err := f.ledger.CurrentUsage(ctx, sub.ID)
	if err != nil {
		t.Fatalf("CurrentUsage: %v", err)
	}
	if units != 0 {
		t.Errorf("CurrentUsage after rejected batch: got %d, want 0", units)
	}
}

func TestRecordUsageRecorderAllowlist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.newPlan(t)
	sub := f.subscribe(t, p)
	backend := types.Address("account-hash-backend")

	if _, err := f.ledger.RecordUsage(ctx, backend, sub.ID, 1); !errors.Is(err, casperflow.ErrRecorderNotAuthorized) {
		t.Errorf("unauthorized recorder: got %v, want ErrRecorderNotAuthorized", err)
	}

	if err := f.ledger.AuthorizeRecorder(ctx, stranger, p.ID, backend); !errors.Is(err, casperflow.ErrUnauthorized) {
		t.Errorf("stranger authorize: got %v, want ErrUnauthorized", err)
	}
	if err := f.ledger.AuthorizeRecorder(ctx, merchant, p.ID, backend); err != nil {
		t.Fatalf("AuthorizeRecorder: %v", err)
	}
	if _, err := f.ledger.RecordUsage(ctx, backend, sub.ID, 1); err != nil {
		t.Errorf("authorized recorder: %v", err)
	}

	if err := f.ledger.RevokeRecorder(ctx, merchant, p.ID, backend); err != nil {
		t.Fatalf("RevokeRecorder: %v", err)
	}
	if _, err := f.ledger.RecordUsage(ctx, backend, sub.ID, 1); !errors.Is(err, casperflow.ErrRecorderNotAuthorized) {
		t.Errorf("revoked recorder: got %v, want ErrRecorderNotAuthorized", err)
	}
}

func TestRecordUsageAgainstCanceledSubscription(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.subscribe(t, f.newPlan(t))

	if err := f.ledger.Unsubscribe(ctx, subscriber, sub.ID); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}
	if _, err := f.ledger.RecordUsage(ctx, merchant, sub.ID, 1); !errors.Is(err, casperflow.ErrSubscriptionCanceled) {
		t.Errorf("got %v, want ErrSubscriptionCanceled", err)
	}
}

func TestClosePeriodRollsOver(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.subscribe(t, f.newPlan(t))
	opened := f.clock.Now()

	if _, err := f.ledger.RecordUsage(ctx, merchant, sub.ID, 42); err != nil {
		t.Fatalf("RecordUsage: %v", err)
	}

	f.clock.Advance(30 * 24 * time.Hour)
	closed := f.clock.Now()

	period, err := f.ledger.ClosePeriod(ctx, merchant, sub.ID)
	if err != nil {
		t.Fatalf("ClosePeriod: %v", err)
	}
	if period.Units != 42 {
		t.Errorf("Units: got %d, want 42", period.Units)
	}
	if !period.Closed {
		t.Error("period was not marked closed")
	}
	if !period.PeriodStart.Equal(opened) {
		t.Errorf("PeriodStart: got %v, want %v", period.PeriodStart, opened)
	}
	if !period.PeriodEnd.Equal(closed) {
		t.Errorf("PeriodEnd: got %v, want %v", period.PeriodEnd, closed)
	}

	// The next period opens at the close instant, empty.
	got, err := f.ledger.GetSubscription(ctx, sub.ID)
	if err != nil {
		t.Fatalf("GetSubscription: %v", err)
	}
	if !got.CurrentPeriodStart.Equal(closed) {
		t.Errorf("CurrentPeriodStart: got %v, want %v", got.CurrentPeriodStart, closed)
	}
	units, err := f.ledger.CurrentUsage(ctx, sub.ID)
	if err != nil {
		t.Fatalf("CurrentUsage: %v", err)
	}
	if units != 0 {
		t.Errorf("CurrentUsage after close: got %d, want 0", units)
	}

	// Closing again right away yields an empty period.
	empty, err := f.ledger.ClosePeriod(ctx, owner, sub.ID)
	if err != nil {
		t.Fatalf("second ClosePeriod: %v", err)
	}
	if empty.Units != 0 {
		t.Errorf("empty period Units: got %d, want 0", empty.Units)
	}

	periods, err := f.ledger.BillingPeriods(ctx, sub.ID)
	if err != nil {
		t.Fatalf("BillingPeriods: %v", err)
	}
	if len(periods) != 3 {
		t.Errorf("BillingPeriods: got %d, want 3", len(periods))
	}
}

func TestClosePeriodExcludesConcurrentRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.subscribe(t, f.newPlan(t))

	// Record single units from another goroutine while a close runs.
	// Units recorded after the close must land in the next period, so
	// the closed period's total never grows once it is returned.
	const total = 400
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			if _, err := f.ledger.RecordUsage(ctx, merchant, sub.ID, 1); err != nil {
				t.Errorf("RecordUsage: %v", err)
				return
			}
		}
	}()

	f.clock.Advance(30 * 24 * time.Hour)
	closed, err := f.ledger.ClosePeriod(ctx, merchant, sub.ID)
	if err != nil {
		t.Fatalf("ClosePeriod: %v", err)
	}
	wg.Wait()

	periods, err := f.ledger.BillingPeriods(ctx, sub.ID)
	if err != nil {
		t.Fatalf("BillingPeriods: %v", err)
	}
	var sum uint64
	for _, p := range periods {
		sum += p.Units
		if p.PeriodStart.Equal(closed.PeriodStart) && p.Units != closed.Units {
			t.Errorf("closed period grew after close: got %d, want %d", p.Units, closed.Units)
		}
	}
	if sum != total {
		t.Errorf("units across periods: got %d, want %d", sum, total)
	}
}

func TestClosePeriodAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.subscribe(t, f.newPlan(t))

	if _, err := f.ledger.ClosePeriod(ctx, stranger, sub.ID); !errors.Is(err, casperflow.ErrUnauthorized) {
		t.Errorf("stranger close: got %v, want ErrUnauthorized", err)
	}
	if _, err := f.ledger.ClosePeriod(ctx, subscriber, sub.ID); !errors.Is(err, casperflow.ErrUnauthorized) {
		t.Errorf("subscriber close: got %v, want ErrUnauthorized", err)
	}
}
