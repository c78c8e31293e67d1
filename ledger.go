package casperflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/Abhishekgoyal007/CasperFlow/id"
	"github.com/Abhishekgoyal007/CasperFlow/plan"
	"github.com/Abhishekgoyal007/CasperFlow/plugin"
	"github.com/Abhishekgoyal007/CasperFlow/store"
	"github.com/Abhishekgoyal007/CasperFlow/subscription"
	"github.com/Abhishekgoyal007/CasperFlow/types"
)

// Protocol parameter bounds, in basis points.
const (
	MaxRewardRateBps     = 2000
	MaxFeeRateBps        = 1000
	DefaultRewardRateBps = 800
	DefaultFeeRateBps    = 100
)

// Transferer moves value out of the ledger to an external recipient.
// Settlement uses it to pay merchants and the fee recipient, and
// withdrawals use it to return funds to subscribers.
type Transferer interface {
	Transfer(ctx context.Context, to types.Address, amount types.Amount) error
}

// NopTransferer accepts every transfer without moving anything. Useful
// for tests and for deployments that settle out of band.
type NopTransferer struct{}

func (NopTransferer) Transfer(context.Context, types.Address, types.Amount) error { return nil }

// Ledger is the main billing engine.
type Ledger struct {
	store    store.Store
	plugins  *plugin.Registry
	logger   *slog.Logger
	transfer Transferer
	now      func() time.Time
	locks    *keyedMutex

	// Used to seed stored params on first start.
	owner        types.Address
	feeRecipient types.Address
}

// New creates a new Ledger instance.
func New(s store.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:    s,
		plugins:  plugin.NewRegistry(),
		logger:   slog.Default(),
		transfer: NopTransferer{},
		now:      func() time.Time { return time.Now().UTC() },
		locks:    newKeyedMutex(),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Option configures a Ledger instance.
type Option func(*Ledger)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
		l.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(l *Ledger) {
		_ = l.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithClock overrides the time source. Every operation reads the clock
// once and uses that instant for accrual, stamping, and period math.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithTransferer sets the outbound value mover.
func WithTransferer(t Transferer) Option {
	return func(l *Ledger) {
		l.transfer = t
	}
}

// WithOwner sets the protocol owner seeded into the store on first start.
func WithOwner(owner types.Address) Option {
	return func(l *Ledger) {
		l.owner = owner
	}
}

// WithFeeRecipient sets the protocol fee recipient seeded into the
// store on first start.
func WithFeeRecipient(recipient types.Address) Option {
	return func(l *Ledger) {
		l.feeRecipient = recipient
	}
}

// Start migrates the store, seeds protocol parameters, and initializes
// plugins.
func (l *Ledger) Start(ctx context.Context) error {
	if err := l.store.Migrate(ctx); err != nil {
		return err
	}

	params, err := l.store.GetParams(ctx)
	if err != nil {
		return err
	}
	if params.RewardRate == 0 && params.FeeRate == 0 && params.Owner.IsZero() {
		params = &store.Params{
			Owner:        l.owner,
			RewardRate:   DefaultRewardRateBps,
			FeeRate:      DefaultFeeRateBps,
			FeeRecipient: l.feeRecipient,
		}
		if err := l.store.SetParams(ctx, params); err != nil {
			return err
		}
	}

	l.plugins.EmitInit(ctx, l)

	l.logger.Info("casperflow started",
		"owner", params.Owner,
		"reward_rate_bps", params.RewardRate,
		"fee_rate_bps", params.FeeRate,
	)

	return nil
}

// Stop shuts down the Ledger.
func (l *Ledger) Stop() error {
	ctx := context.Background()
	l.plugins.EmitShutdown(ctx)

	return l.store.Close()
}

// ──────────────────────────────────────────────────
// Plan Management
// ──────────────────────────────────────────────────

// CreatePlan creates a new billing plan for the merchant set on it.
func (l *Ledger) CreatePlan(ctx context.Context, p *plan.Plan) error {
	if p.Merchant.IsZero() {
		return ValidationError{Field: "merchant", Message: "required"}
	}
	if p.BillingCycle <= 0 {
		return ValidationError{Field: "billing_cycle", Message: "must be positive"}
	}
	if p.ID.IsNil() {
		p.ID = id.NewPlanID()
	}
	if p.Status == "" {
		p.Status = plan.StatusActive
	}
	p.Entity = types.NewEntity(l.now())

	if err := l.store.CreatePlan(ctx, p); err != nil {
		return err
	}

	l.plugins.EmitPlanCreated(ctx, p)
	return nil
}

// GetPlan retrieves a plan by ID.
func (l *Ledger) GetPlan(ctx context.Context, planID id.PlanID) (*plan.Plan, error) {
	return l.store.GetPlan(ctx, planID)
}

// ListPlans lists the plans owned by a merchant.
func (l *Ledger) ListPlans(ctx context.Context, merchant types.Address, opts plan.ListOpts) ([]*plan.Plan, error) {
	return l.store.ListPlansByMerchant(ctx, merchant, opts)
}

// UpdatePlan applies merchant edits to a plan. Only the plan's merchant
// may update it.
func (l *Ledger) UpdatePlan(ctx context.Context, caller types.Address, p *plan.Plan) error {
	old, err := l.store.GetPlan(ctx, p.ID)
	if err != nil {
		return err
	}
	if caller != old.Merchant {
		return ErrUnauthorized
	}
	if p.BillingCycle <= 0 {
		return ValidationError{Field: "billing_cycle", Message: "must be positive"}
	}

	p.Merchant = old.Merchant
	p.Entity = old.Entity
	p.Touch(l.now())

	if err := l.store.UpdatePlan(ctx, p); err != nil {
		return err
	}

	l.plugins.EmitPlanUpdated(ctx, old, p)
	return nil
}

// DeactivatePlan stops a plan from accepting new subscriptions.
// Existing subscriptions keep billing.
func (l *Ledger) DeactivatePlan(ctx context.Context, caller types.Address, planID id.PlanID) error {
	p, err := l.store.GetPlan(ctx, planID)
	if err != nil {
		return err
	}
	if caller != p.Merchant {
		return ErrUnauthorized
	}
	if p.Status == plan.StatusInactive {
		return nil
	}

	old := *p
	p.Status = plan.StatusInactive
	p.Touch(l.now())

	if err := l.store.UpdatePlan(ctx, p); err != nil {
		return err
	}

	l.plugins.EmitPlanUpdated(ctx, &old, p)
	return nil
}

// ──────────────────────────────────────────────────
// Subscription Management
// ──────────────────────────────────────────────────

// Subscribe creates an active subscription binding subscriber to plan
// and opens its first billing period. A subscriber can hold at most one
// active subscription per plan.
func (l *Ledger) Subscribe(ctx context.Context, subscriber types.Address, planID id.PlanID) (*subscription.Subscription, error) {
	if subscriber.IsZero() {
		return nil, ValidationError{Field: "subscriber", Message: "required"}
	}

	unlock := l.locks.lock(subscriber)
	defer unlock()

	p, err := l.store.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive() {
		return nil, ErrPlanInactive
	}

	if _, err := l.store.GetActiveSubscription(ctx, subscriber, planID); err == nil {
		return nil, ErrAlreadySubscribed
	} else if !IsNotFound(err) {
		return nil, err
	}

	now := l.now()
	sub := &subscription.Subscription{
		Entity:             types.NewEntity(now),
		ID:                 id.NewSubscriptionID(),
		Subscriber:         subscriber,
		PlanID:             planID,
		Status:             subscription.StatusActive,
		CurrentPeriodStart: now,
		AutoRenew:          true,
	}

	if err := l.store.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	if err := l.openPeriod(ctx, sub); err != nil {
		return nil, err
	}

	l.plugins.EmitSubscriptionCreated(ctx, sub)
	l.logger.Info("subscription created",
		"subscription_id", sub.ID,
		"plan_id", planID,
		"subscriber", subscriber,
	)
	return sub, nil
}

// Unsubscribe cancels an active subscription. Only the subscriber may
// cancel. Usage already recorded in the open period stays billable.
func (l *Ledger) Unsubscribe(ctx context.Context, caller types.Address, subID id.SubscriptionID) error {
	unlock := l.locks.lock(caller)
	defer unlock()

	sub, err := l.store.GetSubscription(ctx, subID)
	if err != nil {
		return err
	}
	if caller != sub.Subscriber {
		return ErrUnauthorized
	}
	if sub.Status == subscription.StatusCanceled {
		return ErrSubscriptionCanceled
	}

	now := l.now()
	sub.Status = subscription.StatusCanceled
	sub.CanceledAt = &now
	sub.AutoRenew = false
	sub.Touch(now)

	if err := l.store.UpdateSubscription(ctx, sub); err != nil {
		return err
	}

	l.plugins.EmitSubscriptionCanceled(ctx, sub)
	return nil
}

// SetAutoRenew flips automatic renewal for an active subscription.
// Only the subscriber may change it.
func (l *Ledger) SetAutoRenew(ctx context.Context, caller types.Address, subID id.SubscriptionID, autoRenew bool) error {
	unlock := l.locks.lock(caller)
	defer unlock()

	sub, err := l.store.GetSubscription(ctx, subID)
	if err != nil {
		return err
	}
	if caller != sub.Subscriber {
		return ErrUnauthorized
	}
	if sub.Status == subscription.StatusCanceled {
		return ErrSubscriptionCanceled
	}
	if sub.AutoRenew == autoRenew {
		return nil
	}

	sub.AutoRenew = autoRenew
	sub.Touch(l.now())
	return l.store.UpdateSubscription(ctx, sub)
}

// GetSubscription retrieves a subscription by ID.
func (l *Ledger) GetSubscription(ctx context.Context, subID id.SubscriptionID) (*subscription.Subscription, error) {
	return l.store.GetSubscription(ctx, subID)
}

// ListSubscriptions lists the subscriptions held by a subscriber.
func (l *Ledger) ListSubscriptions(ctx context.Context, subscriber types.Address, opts subscription.ListOpts) ([]*subscription.Subscription, error) {
	return l.store.ListSubscriptionsBySubscriber(ctx, subscriber, opts)
}
