package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	casperflow "github.com/Abhishekgoyal007/CasperFlow"
	"github.com/Abhishekgoyal007/CasperFlow/id"
	"github.com/Abhishekgoyal007/CasperFlow/invoice"
	"github.com/Abhishekgoyal007/CasperFlow/meter"
	"github.com/Abhishekgoyal007/CasperFlow/payment"
	"github.com/Abhishekgoyal007/CasperFlow/plan"
	"github.com/Abhishekgoyal007/CasperFlow/stake"
	ledgerstore "github.com/Abhishekgoyal007/CasperFlow/store"
	"github.com/Abhishekgoyal007/CasperFlow/subscription"
	"github.com/Abhishekgoyal007/CasperFlow/types"
)

// Collection name constants.
const (
	colAccounts      = "casperflow_accounts"
	colPlans         = "casperflow_plans"
	colSubscriptions = "casperflow_subscriptions"
	colUsageRecords  = "casperflow_usage_records"
	colPeriods       = "casperflow_periods"
	colInvoices      = "casperflow_invoices"
	colPayments      = "casperflow_payments"
)

// Register keys for the single-document configuration registers.
const (
	paramsKey        = "params"
	totalsKey        = "totals"
	revenueKeyPrefix = "revenue:"
)

// compile-time interface check
var _ ledgerstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all casperflow collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("casperflow/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Stake Account Store ====================

func (s *Store) CreateAccount(ctx context.Context, a *stake.Account) error {
	m := toAccountModel(a)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("casperflow/mongo: create account: %w", err)
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, owner types.Address) (*stake.Account, error) {
	var m accountModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": owner.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, casperflow.ErrAccountNotFound
		}
		return nil, fmt.Errorf("casperflow/mongo: get account: %w", err)
	}
	return fromAccountModel(&m), nil
}

func (s *Store) UpdateAccount(ctx context.Context, a *stake.Account) error {
	m := toAccountModel(a)
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.Owner}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("casperflow/mongo: update account: %w", err)
	}
	if res.MatchedCount() == 0 {
		return casperflow.ErrAccountNotFound
	}
	return nil
}

func (s *Store) ListAccounts(ctx context.Context, opts stake.ListOpts) ([]*stake.Account, error) {
	var models []accountModel

	filter := bson.M{}
	if opts.EnabledOnly {
		filter["enabled"] = true
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "_id", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("casperflow/mongo: list accounts: %w", err)
	}

	result := make([]*stake.Account, len(models))
	for i := range models {
		result[i] = fromAccountModel(&models[i])
	}
	return result, nil
}

// ==================== Plan Store ====================

func (s *Store) CreatePlan(ctx context.Context, p *plan.Plan) error {
	m := toPlanModel(p)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("casperflow/mongo: create plan: %w", err)
	}
	return nil
}

func (s *Store) GetPlan(ctx context.Context, planID id.PlanID) (*plan.Plan, error) {
	var m planModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": planID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, casperflow.ErrPlanNotFound
		}
		return nil, fmt.Errorf("casperflow/mongo: get plan: %w", err)
	}
	return fromPlanModel(&m)
}

func (s *Store) ListPlansByMerchant(ctx context.Context, merchant types.Address, opts plan.ListOpts) ([]*plan.Plan, error) {
	var models []planModel

	filter := bson.M{"merchant": merchant.String()}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "created_at", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("casperflow/mongo: list plans: %w", err)
	}

	result := make([]*plan.Plan, len(models))
	for i := range models {
		p, err := fromPlanModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = p
	}
	return result, nil
}

func (s *Store) UpdatePlan(ctx context.Context, p *plan.Plan) error {
	m := toPlanModel(p)
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("casperflow/mongo: update plan: %w", err)
	}
	if res.MatchedCount() == 0 {
		return casperflow.ErrPlanNotFound
	}
	return nil
}

// ==================== Subscription Store ====================

func (s *Store) CreateSubscription(ctx context.Context, sub *subscription.Subscription) error {
	m := toSubscriptionModel(sub)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("casperflow/mongo: create subscription: %w", err)
	}
	return nil
}

func (s *Store) GetSubscription(ctx context.Context, subID id.SubscriptionID) (*subscription.Subscription, error) {
	var m subscriptionModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": subID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, casperflow.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("casperflow/mongo: get subscription: %w", err)
	}
	return fromSubscriptionModel(&m)
}

func (s *Store) GetActiveSubscription(ctx context.Context, subscriber types.Address, planID id.PlanID) (*subscription.Subscription, error) {
	var m subscriptionModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{
			"subscriber": subscriber.String(),
			"plan_id":    planID.String(),
			"status":     string(subscription.StatusActive),
		}).
		Sort(bson.D{{Key: "created_at", Value: -1}}).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, casperflow.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("casperflow/mongo: get active subscription: %w", err)
	}
	return fromSubscriptionModel(&m)
}

func (s *Store) ListSubscriptionsBySubscriber(ctx context.Context, subscriber types.Address, opts subscription.ListOpts) ([]*subscription.Subscription, error) {
	filter := bson.M{"subscriber": subscriber.String()}
	return s.listSubscriptions(ctx, filter, opts)
}

func (s *Store) ListSubscriptionsByPlan(ctx context.Context, planID id.PlanID, opts subscription.ListOpts) ([]*subscription.Subscription, error) {
	filter := bson.M{"plan_id": planID.String()}
	return s.listSubscriptions(ctx, filter, opts)
}

func (s *Store) listSubscriptions(ctx context.Context, filter bson.M, opts subscription.ListOpts) ([]*subscription.Subscription, error) {
	var models []subscriptionModel

	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "created_at", Value: -1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("casperflow/mongo: list subscriptions: %w", err)
	}

	result := make([]*subscription.Subscription, len(models))
	for i := range models {
		sub, err := fromSubscriptionModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = sub
	}
	return result, nil
}

func (s *Store) UpdateSubscription(ctx context.Context, sub *subscription.Subscription) error {
	m := toSubscriptionModel(sub)
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("casperflow/mongo: update subscription: %w", err)
	}
	if res.MatchedCount() == 0 {
		return casperflow.ErrSubscriptionNotFound
	}
	return nil
}

// ==================== Meter Store ====================

func (s *Store) InsertUsageRecord(ctx context.Context, r *meter.UsageRecord) error {
	m := toUsageRecordModel(r)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("casperflow/mongo: insert usage record: %w", err)
	}
	return nil
}

func (s *Store) InsertUsageRecords(ctx context.Context, records []*meter.UsageRecord) error {
	if len(records) == 0 {
		return nil
	}
	for _, r := range records {
		if err := s.InsertUsageRecord(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) QueryUsageRecords(ctx context.Context, subID id.SubscriptionID, opts meter.QueryOpts) ([]*meter.UsageRecord, error) {
	var models []usageRecordModel

	filter := bson.M{"subscription_id": subID.String()}
	if !opts.Start.IsZero() || !opts.End.IsZero() {
		ts := bson.M{}
		if !opts.Start.IsZero() {
			ts["$gte"] = opts.Start
		}
		if !opts.End.IsZero() {
			ts["$lte"] = opts.End
		}
		filter["recorded_at"] = ts
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "recorded_at", Value: -1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("casperflow/mongo: query usage records: %w", err)
	}

	result := make([]*meter.UsageRecord, len(models))
	for i := range models {
		r, err := fromUsageRecordModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = r
	}
	return result, nil
}

func (s *Store) GetPeriod(ctx context.Context, subID id.SubscriptionID, periodStart time.Time) (*meter.Period, error) {
	var m periodModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": periodKey(subID.String(), periodStart)}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, casperflow.ErrPeriodNotFound
		}
		return nil, fmt.Errorf("casperflow/mongo: get period: %w", err)
	}
	return fromPeriodModel(&m)
}

func (s *Store) UpsertPeriod(ctx context.Context, p *meter.Period) error {
	m := toPeriodModel(p)
	_, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		SetUpdate(bson.M{"$set": bson.M{
			"_id":             m.ID,
			"subscription_id": m.SubscriptionID,
			"period_start":    m.PeriodStart,
			"period_end":      m.PeriodEnd,
			"units":           m.Units,
			"closed":          m.Closed,
		}}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("casperflow/mongo: upsert period: %w", err)
	}
	return nil
}

func (s *Store) ListPeriods(ctx context.Context, subID id.SubscriptionID) ([]*meter.Period, error) {
	var models []periodModel

	err := s.mdb.NewFind(&models).
		Filter(bson.M{"subscription_id": subID.String()}).
		Sort(bson.D{{Key: "period_start", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("casperflow/mongo: list periods: %w", err)
	}

	result := make([]*meter.Period, len(models))
	for i := range models {
		p, err := fromPeriodModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = p
	}
	return result, nil
}

func (s *Store) PurgeUsageRecords(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.mdb.NewDelete((*usageRecordModel)(nil)).
		Filter(bson.M{"recorded_at": bson.M{"$lt": before}}).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("casperflow/mongo: purge usage records: %w", err)
	}
	return res.DeletedCount(), nil
}

// ==================== Invoice Store ====================

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	m := toInvoiceModel(inv)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("casperflow/mongo: create invoice: %w", err)
	}
	return nil
}

func (s *Store) GetInvoice(ctx context.Context, invID id.InvoiceID) (*invoice.Invoice, error) {
	var m invoiceModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": invID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, casperflow.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("casperflow/mongo: get invoice: %w", err)
	}
	return fromInvoiceModel(&m)
}

func (s *Store) UpdateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	m := toInvoiceModel(inv)
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("casperflow/mongo: update invoice: %w", err)
	}
	if res.MatchedCount() == 0 {
		return casperflow.ErrInvoiceNotFound
	}
	return nil
}

func (s *Store) ListInvoicesBySubscription(ctx context.Context, subID id.SubscriptionID, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	filter := bson.M{"subscription_id": subID.String()}
	return s.listInvoices(ctx, filter, opts)
}

func (s *Store) ListInvoicesBySubscriber(ctx context.Context, subscriber types.Address, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	filter := bson.M{"subscriber": subscriber.String()}
	return s.listInvoices(ctx, filter, opts)
}

func (s *Store) ListInvoicesByMerchant(ctx context.Context, merchant types.Address, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	filter := bson.M{"merchant": merchant.String()}
	return s.listInvoices(ctx, filter, opts)
}

func (s *Store) listInvoices(ctx context.Context, filter bson.M, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	var models []invoiceModel

	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}
	if !opts.Start.IsZero() {
		filter["period_start"] = bson.M{"$gte": opts.Start}
	}
	if !opts.End.IsZero() {
		filter["period_end"] = bson.M{"$lte": opts.End}
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "created_at", Value: -1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("casperflow/mongo: list invoices: %w", err)
	}

	result := make([]*invoice.Invoice, len(models))
	for i := range models {
		inv, err := fromInvoiceModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = inv
	}
	return result, nil
}

// ==================== Payment Store ====================

func (s *Store) CreatePayment(ctx context.Context, p *payment.Payment) error {
	m := toPaymentModel(p)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("casperflow/mongo: create payment: %w", err)
	}
	return nil
}

func (s *Store) GetPayment(ctx context.Context, payID id.PaymentID) (*payment.Payment, error) {
	var m paymentModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": payID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, casperflow.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("casperflow/mongo: get payment: %w", err)
	}
	return fromPaymentModel(&m)
}

func (s *Store) GetPaymentByInvoice(ctx context.Context, invID id.InvoiceID) (*payment.Payment, error) {
	var m paymentModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"invoice_id": invID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, casperflow.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("casperflow/mongo: get payment by invoice: %w", err)
	}
	return fromPaymentModel(&m)
}

func (s *Store) ListPaymentsByMerchant(ctx context.Context, merchant types.Address, opts payment.ListOpts) ([]*payment.Payment, error) {
	filter := bson.M{"merchant": merchant.String()}
	return s.listPayments(ctx, filter, opts)
}

func (s *Store) ListPaymentsByPayer(ctx context.Context, payer types.Address, opts payment.ListOpts) ([]*payment.Payment, error) {
	filter := bson.M{"payer": payer.String()}
	return s.listPayments(ctx, filter, opts)
}

func (s *Store) listPayments(ctx context.Context, filter bson.M, opts payment.ListOpts) ([]*payment.Payment, error) {
	var models []paymentModel

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "settled_at", Value: -1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("casperflow/mongo: list payments: %w", err)
	}

	result := make([]*payment.Payment, len(models))
	for i := range models {
		p, err := fromPaymentModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = p
	}
	return result, nil
}

// ==================== Register Store ====================

func (s *Store) GetParams(ctx context.Context) (*ledgerstore.Params, error) {
	p := new(ledgerstore.Params)
	if err := s.getRegister(ctx, paramsKey, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) SetParams(ctx context.Context, p *ledgerstore.Params) error {
	return s.setRegister(ctx, paramsKey, p)
}

func (s *Store) GetTotals(ctx context.Context) (*ledgerstore.Totals, error) {
	t := new(ledgerstore.Totals)
	if err := s.getRegister(ctx, totalsKey, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) SetTotals(ctx context.Context, t *ledgerstore.Totals) error {
	return s.setRegister(ctx, totalsKey, t)
}

func (s *Store) GetMerchantRevenue(ctx context.Context, merchant types.Address) (types.Amount, error) {
	var revenue types.Amount
	if err := s.getRegister(ctx, revenueKeyPrefix+merchant.String(), &revenue); err != nil {
		return 0, err
	}
	return revenue, nil
}

func (s *Store) AddMerchantRevenue(ctx context.Context, merchant types.Address, amount types.Amount) error {
	current, err := s.GetMerchantRevenue(ctx, merchant)
	if err != nil {
		return err
	}
	return s.setRegister(ctx, revenueKeyPrefix+merchant.String(), current.Add(amount))
}

// getRegister reads a register document into v. A missing document leaves
// v at its zero value.
func (s *Store) getRegister(ctx context.Context, key string, v any) error {
	var m registerModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": key}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil
		}
		return fmt.Errorf("casperflow/mongo: get register %s: %w", key, err)
	}
	return json.Unmarshal([]byte(m.Value), v)
}

func (s *Store) setRegister(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	m := &registerModel{Key: key, Value: string(raw)}
	_, err = s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": key}).
		SetUpdate(bson.M{"$set": bson.M{
			"_id":   key,
			"value": m.Value,
		}}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("casperflow/mongo: set register %s: %w", key, err)
	}
	return nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all casperflow collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colAccounts: {
			{Keys: bson.D{{Key: "enabled", Value: 1}}},
		},
		colPlans: {
			{Keys: bson.D{{Key: "merchant", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "merchant", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		colSubscriptions: {
			{Keys: bson.D{{Key: "subscriber", Value: 1}, {Key: "plan_id", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "plan_id", Value: 1}}},
		},
		colUsageRecords: {
			{Keys: bson.D{{Key: "subscription_id", Value: 1}, {Key: "recorded_at", Value: -1}}},
			{Keys: bson.D{{Key: "recorded_at", Value: -1}}},
		},
		colPeriods: {
			{Keys: bson.D{{Key: "subscription_id", Value: 1}, {Key: "period_start", Value: 1}}},
		},
		colInvoices: {
			{Keys: bson.D{{Key: "subscription_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "subscriber", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "merchant", Value: 1}, {Key: "status", Value: 1}}},
		},
		colPayments: {
			{Keys: bson.D{{Key: "invoice_id", Value: 1}}},
			{Keys: bson.D{{Key: "merchant", Value: 1}, {Key: "settled_at", Value: -1}}},
			{Keys: bson.D{{Key: "payer", Value: 1}, {Key: "settled_at", Value: -1}}},
		},
	}
}
