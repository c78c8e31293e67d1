package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	casperflow "github.com/Abhishekgoyal007/CasperFlow"
	"github.com/Abhishekgoyal007/CasperFlow/id"
	"github.com/Abhishekgoyal007/CasperFlow/invoice"
	"github.com/Abhishekgoyal007/CasperFlow/meter"
	"github.com/Abhishekgoyal007/CasperFlow/payment"
	"github.com/Abhishekgoyal007/CasperFlow/plan"
	"github.com/Abhishekgoyal007/CasperFlow/stake"
	"github.com/Abhishekgoyal007/CasperFlow/store"
	"github.com/Abhishekgoyal007/CasperFlow/subscription"
	"github.com/Abhishekgoyal007/CasperFlow/types"
)

// Store is an in-memory implementation of store.Store. Every method
// copies values on the way in and out, so callers never share memory
// with the store.
type Store struct {
	mu sync.RWMutex

	accounts      map[types.Address]*stake.Account
	plans         map[string]*plan.Plan
	subscriptions map[string]*subscription.Subscription
	usageRecords  []meter.UsageRecord
	periods       map[periodKey]*meter.Period
	invoices      map[string]*invoice.Invoice
	payments      map[string]*payment.Payment

	params  store.Params
	totals  store.Totals
	revenue map[types.Address]types.Amount
}

type periodKey struct {
	subID string
	start int64
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		accounts:      make(map[types.Address]*stake.Account),
		plans:         make(map[string]*plan.Plan),
		subscriptions: make(map[string]*subscription.Subscription),
		usageRecords:  make([]meter.UsageRecord, 0),
		periods:       make(map[periodKey]*meter.Period),
		invoices:      make(map[string]*invoice.Invoice),
		payments:      make(map[string]*payment.Payment),
		revenue:       make(map[types.Address]types.Amount),
	}
}

// Stake account Store implementation
func (s *Store) CreateAccount(_ context.Context, a *stake.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[a.Owner]; exists {
		return casperflow.ErrAlreadyExists
	}
	s.accounts[a.Owner] = cloneAccount(a)
	return nil
}

func (s *Store) GetAccount(_ context.Context, owner types.Address) (*stake.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, ok := s.accounts[owner]; ok {
		return cloneAccount(a), nil
	}
	return nil, casperflow.ErrAccountNotFound
}

func (s *Store) UpdateAccount(_ context.Context, a *stake.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[a.Owner]; !exists {
		return casperflow.ErrAccountNotFound
	}
	s.accounts[a.Owner] = cloneAccount(a)
	return nil
}

func (s *Store) ListAccounts(_ context.Context, opts stake.ListOpts) ([]*stake.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*stake.Account, 0)
	for _, a := range s.accounts {
		if opts.EnabledOnly && !a.Enabled {
			continue
		}
		result = append(result, cloneAccount(a))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Owner < result[j].Owner })
	return paginate(result, opts.Offset, opts.Limit), nil
}

// Plan Store implementation
func (s *Store) CreatePlan(_ context.Context, p *plan.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.plans[p.ID.String()]; exists {
		return casperflow.ErrAlreadyExists
	}
	s.plans[p.ID.String()] = clonePlan(p)
	return nil
}

func (s *Store) GetPlan(_ context.Context, planID id.PlanID) (*plan.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.plans[planID.String()]; ok {
		return clonePlan(p), nil
	}
	return nil, casperflow.ErrPlanNotFound
}

func (s *Store) ListPlansByMerchant(_ context.Context, merchant types.Address, opts plan.ListOpts) ([]*plan.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*plan.Plan, 0)
	for _, p := range s.plans {
		if p.Merchant != merchant {
			continue
		}
		if opts.Status != "" && p.Status != opts.Status {
			continue
		}
		result = append(result, clonePlan(p))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return paginate(result, opts.Offset, opts.Limit), nil
}

func (s *Store) UpdatePlan(_ context.Context, p *plan.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.plans[p.ID.String()]; !exists {
		return casperflow.ErrPlanNotFound
	}
	s.plans[p.ID.String()] = clonePlan(p)
	return nil
}

// Subscription Store implementation
func (s *Store) CreateSubscription(_ context.Context, sub *subscription.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.subscriptions[sub.ID.String()]; exists {
		return casperflow.ErrAlreadyExists
	}
	s.subscriptions[sub.ID.String()] = cloneSubscription(sub)
	return nil
}

func (s *Store) GetSubscription(_ context.Context, subID id.SubscriptionID) (*subscription.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sub, ok := s.subscriptions[subID.String()]; ok {
		return cloneSubscription(sub), nil
	}
	return nil, casperflow.ErrSubscriptionNotFound
}

func (s *Store) GetActiveSubscription(_ context.Context, subscriber types.Address, planID id.PlanID) (*subscription.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sub := range s.subscriptions {
		if sub.Subscriber == subscriber && sub.PlanID.String() == planID.String() &&
			sub.Status == subscription.StatusActive {
			return cloneSubscription(sub), nil
		}
	}
	return nil, casperflow.ErrSubscriptionNotFound
}

func (s *Store) ListSubscriptionsBySubscriber(_ context.Context, subscriber types.Address, opts subscription.ListOpts) ([]*subscription.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*subscription.Subscription, 0)
	for _, sub := range s.subscriptions {
		if sub.Subscriber != subscriber {
			continue
		}
		if opts.Status != "" && sub.Status != opts.Status {
			continue
		}
		result = append(result, cloneSubscription(sub))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return paginate(result, opts.Offset, opts.Limit), nil
}

func (s *Store) ListSubscriptionsByPlan(_ context.Context, planID id.PlanID, opts subscription.ListOpts) ([]*subscription.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*subscription.Subscription, 0)
	for _, sub := range s.subscriptions {
		if sub.PlanID.String() != planID.String() {
			continue
		}
		if opts.Status != "" && sub.Status != opts.Status {
			continue
		}
		result = append(result, cloneSubscription(sub))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return paginate(result, opts.Offset, opts.Limit), nil
}

func (s *Store) UpdateSubscription(_ context.Context, sub *subscription.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.subscriptions[sub.ID.String()]; !exists {
		return casperflow.ErrSubscriptionNotFound
	}
	s.subscriptions[sub.ID.String()] = cloneSubscription(sub)
	return nil
}

// Meter Store implementation
func (s *Store) InsertUsageRecord(_ context.Context, r *meter.UsageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.usageRecords = append(s.usageRecords, *cloneUsageRecord(r))
	return nil
}

func (s *Store) InsertUsageRecords(_ context.Context, records []*meter.UsageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		s.usageRecords = append(s.usageRecords, *cloneUsageRecord(r))
	}
	return nil
}

func (s *Store) QueryUsageRecords(_ context.Context, subID id.SubscriptionID, opts meter.QueryOpts) ([]*meter.UsageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*meter.UsageRecord, 0)
	for i := range s.usageRecords {
		r := &s.usageRecords[i]
		if r.SubscriptionID.String() != subID.String() {
			continue
		}
		if !opts.Start.IsZero() && r.RecordedAt.Before(opts.Start) {
			continue
		}
		if !opts.End.IsZero() && !r.RecordedAt.Before(opts.End) {
			continue
		}
		result = append(result, cloneUsageRecord(r))
	}
	return paginate(result, opts.Offset, opts.Limit), nil
}

func (s *Store) GetPeriod(_ context.Context, subID id.SubscriptionID, periodStart time.Time) (*meter.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.periods[periodKey{subID.String(), periodStart.UnixNano()}]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, casperflow.ErrPeriodNotFound
}

func (s *Store) UpsertPeriod(_ context.Context, p *meter.Period) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *p
	s.periods[periodKey{p.SubscriptionID.String(), p.PeriodStart.UnixNano()}] = &clone
	return nil
}

func (s *Store) ListPeriods(_ context.Context, subID id.SubscriptionID) ([]*meter.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*meter.Period, 0)
	for _, p := range s.periods {
		if p.SubscriptionID.String() == subID.String() {
			clone := *p
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PeriodStart.Before(result[j].PeriodStart) })
	return result, nil
}

func (s *Store) PurgeUsageRecords(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	kept := make([]meter.UsageRecord, 0, len(s.usageRecords))
	for _, r := range s.usageRecords {
		if r.RecordedAt.Before(before) {
			count++
		} else {
			kept = append(kept, r)
		}
	}
	s.usageRecords = kept
	return count, nil
}

// Invoice Store implementation
func (s *Store) CreateInvoice(_ context.Context, inv *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.invoices[inv.ID.String()]; exists {
		return casperflow.ErrAlreadyExists
	}
	s.invoices[inv.ID.String()] = cloneInvoice(inv)
	return nil
}

func (s *Store) GetInvoice(_ context.Context, invID id.InvoiceID) (*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if inv, ok := s.invoices[invID.String()]; ok {
		return cloneInvoice(inv), nil
	}
	return nil, casperflow.ErrInvoiceNotFound
}

func (s *Store) UpdateInvoice(_ context.Context, inv *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.invoices[inv.ID.String()]; !exists {
		return casperflow.ErrInvoiceNotFound
	}
	s.invoices[inv.ID.String()] = cloneInvoice(inv)
	return nil
}

func (s *Store) ListInvoicesBySubscription(_ context.Context, subID id.SubscriptionID, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	return s.listInvoices(func(inv *invoice.Invoice) bool {
		return inv.SubscriptionID.String() == subID.String()
	}, opts)
}

func (s *Store) ListInvoicesBySubscriber(_ context.Context, subscriber types.Address, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	return s.listInvoices(func(inv *invoice.Invoice) bool {
		return inv.Subscriber == subscriber
	}, opts)
}

func (s *Store) ListInvoicesByMerchant(_ context.Context, merchant types.Address, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	return s.listInvoices(func(inv *invoice.Invoice) bool {
		return inv.Merchant == merchant
	}, opts)
}

func (s *Store) listInvoices(match func(*invoice.Invoice) bool, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*invoice.Invoice, 0)
	for _, inv := range s.invoices {
		if !match(inv) {
			continue
		}
		if opts.Status != "" && inv.Status != opts.Status {
			continue
		}
		if !opts.Start.IsZero() && inv.PeriodStart.Before(opts.Start) {
			continue
		}
		if !opts.End.IsZero() && inv.PeriodEnd.After(opts.End) {
			continue
		}
		result = append(result, cloneInvoice(inv))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return paginate(result, opts.Offset, opts.Limit), nil
}

// Payment Store implementation
func (s *Store) CreatePayment(_ context.Context, p *payment.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.payments[p.ID.String()]; exists {
		return casperflow.ErrAlreadyExists
	}
	s.payments[p.ID.String()] = clonePayment(p)
	return nil
}

func (s *Store) GetPayment(_ context.Context, payID id.PaymentID) (*payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.payments[payID.String()]; ok {
		return clonePayment(p), nil
	}
	return nil, casperflow.ErrPaymentNotFound
}

func (s *Store) GetPaymentByInvoice(_ context.Context, invID id.InvoiceID) (*payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.payments {
		if p.InvoiceID.String() == invID.String() {
			return clonePayment(p), nil
		}
	}
	return nil, casperflow.ErrPaymentNotFound
}

func (s *Store) ListPaymentsByMerchant(_ context.Context, merchant types.Address, opts payment.ListOpts) ([]*payment.Payment, error) {
	return s.listPayments(func(p *payment.Payment) bool { return p.Merchant == merchant }, opts)
}

func (s *Store) ListPaymentsByPayer(_ context.Context, payer types.Address, opts payment.ListOpts) ([]*payment.Payment, error) {
	return s.listPayments(func(p *payment.Payment) bool { return p.Payer == payer }, opts)
}

func (s *Store) listPayments(match func(*payment.Payment) bool, opts payment.ListOpts) ([]*payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*payment.Payment, 0)
	for _, p := range s.payments {
		if match(p) {
			result = append(result, clonePayment(p))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SettledAt.Before(result[j].SettledAt) })
	return paginate(result, opts.Offset, opts.Limit), nil
}

// Register Store implementation
func (s *Store) GetParams(_ context.Context) (*store.Params, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.params
	return &p, nil
}

func (s *Store) SetParams(_ context.Context, p *store.Params) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params = *p
	return nil
}

func (s *Store) GetTotals(_ context.Context) (*store.Totals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t := s.totals
	return &t, nil
}

func (s *Store) SetTotals(_ context.Context, t *store.Totals) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totals = *t
	return nil
}

func (s *Store) GetMerchantRevenue(_ context.Context, merchant types.Address) (types.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.revenue[merchant], nil
}

func (s *Store) AddMerchantRevenue(_ context.Context, merchant types.Address, amount types.Amount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.revenue[merchant] = s.revenue[merchant].Add(amount)
	return nil
}

// Store management
func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	return nil // Always available
}

func (s *Store) Close() error {
	return nil // Nothing to close
}

// Clone helpers keep store-owned values private.
func cloneAccount(a *stake.Account) *stake.Account {
	clone := *a
	return &clone
}

func clonePlan(p *plan.Plan) *plan.Plan {
	clone := *p
	if p.Recorders != nil {
		clone.Recorders = append([]types.Address(nil), p.Recorders...)
	}
	return &clone
}

func cloneSubscription(sub *subscription.Subscription) *subscription.Subscription {
	clone := *sub
	clone.CanceledAt = cloneTime(sub.CanceledAt)
	return &clone
}

func cloneUsageRecord(r *meter.UsageRecord) *meter.UsageRecord {
	clone := *r
	if r.Metadata != nil {
		clone.Metadata = make(map[string]string, len(r.Metadata))
		for k, v := range r.Metadata {
			clone.Metadata[k] = v
		}
	}
	return &clone
}

func cloneInvoice(inv *invoice.Invoice) *invoice.Invoice {
	clone := *inv
	clone.PaidAt = cloneTime(inv.PaidAt)
	clone.FailedAt = cloneTime(inv.FailedAt)
	return &clone
}

func clonePayment(p *payment.Payment) *payment.Payment {
	clone := *p
	return &clone
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	clone := *t
	return &clone
}

func paginate[T any](items []T, offset, limit int) []T {
	start := offset
	if start > len(items) {
		start = len(items)
	}
	end := start + limit
	if limit == 0 || end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
