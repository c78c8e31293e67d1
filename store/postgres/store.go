package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

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

// compile-time interface check
var _ ledgerstore.Store = (*Store)(nil)

// Register keys for the single-row configuration registers.
const (
	paramsKey        = "params"
	totalsKey        = "totals"
	revenueKeyPrefix = "revenue:"
)

// Store implements store.Store using PostgreSQL via Grove ORM.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("casperflow/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("casperflow/postgres: migration failed: %w", err)
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
	_, err := s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetAccount(ctx context.Context, owner types.Address) (*stake.Account, error) {
	m := new(accountModel)
	err := s.pg.NewSelect(m).
		Where("owner = $1", owner.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, casperflow.ErrAccountNotFound
		}
		return nil, err
	}
	return fromAccountModel(m), nil
}

func (s *Store) UpdateAccount(ctx context.Context, a *stake.Account) error {
	m := toAccountModel(a)
	m.UpdatedAt = now()
	res, err := s.pg.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return casperflow.ErrAccountNotFound
	}
	return nil
}

func (s *Store) ListAccounts(ctx context.Context, opts stake.ListOpts) ([]*stake.Account, error) {
	var models []accountModel
	q := s.pg.NewSelect(&models)

	if opts.EnabledOnly {
		q = q.Where("enabled = $1", true)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("owner ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
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
	_, err := s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetPlan(ctx context.Context, planID id.PlanID) (*plan.Plan, error) {
	m := new(planModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", planID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, casperflow.ErrPlanNotFound
		}
		return nil, err
	}
	return fromPlanModel(m)
}

func (s *Store) ListPlansByMerchant(ctx context.Context, merchant types.Address, opts plan.ListOpts) ([]*plan.Plan, error) {
	var models []planModel
	q := s.pg.NewSelect(&models).Where("merchant = $1", merchant.String())

	if opts.Status != "" {
		q = q.Where("status = $2", string(opts.Status))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
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
	res, err := s.pg.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return casperflow.ErrPlanNotFound
	}
	return nil
}

// ==================== Subscription Store ====================

func (s *Store) CreateSubscription(ctx context.Context, sub *subscription.Subscription) error {
	m := toSubscriptionModel(sub)
	_, err := s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetSubscription(ctx context.Context, subID id.SubscriptionID) (*subscription.Subscription, error) {
	m := new(subscriptionModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", subID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, casperflow.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return fromSubscriptionModel(m)
}

func (s *Store) GetActiveSubscription(ctx context.Context, subscriber types.Address, planID id.PlanID) (*subscription.Subscription, error) {
	m := new(subscriptionModel)
	err := s.pg.NewSelect(m).
		Where("subscriber = $1", subscriber.String()).
		Where("plan_id = $2", planID.String()).
		Where("status = $3", string(subscription.StatusActive)).
		OrderExpr("created_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, casperflow.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return fromSubscriptionModel(m)
}

func (s *Store) ListSubscriptionsBySubscriber(ctx context.Context, subscriber types.Address, opts subscription.ListOpts) ([]*subscription.Subscription, error) {
	var models []subscriptionModel
	q := s.pg.NewSelect(&models).Where("subscriber = $1", subscriber.String())

	if opts.Status != "" {
		q = q.Where("status = $2", string(opts.Status))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return subscriptionsFromModels(models)
}

func (s *Store) ListSubscriptionsByPlan(ctx context.Context, planID id.PlanID, opts subscription.ListOpts) ([]*subscription.Subscription, error) {
	var models []subscriptionModel
	q := s.pg.NewSelect(&models).Where("plan_id = $1", planID.String())

	if opts.Status != "" {
		q = q.Where("status = $2", string(opts.Status))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return subscriptionsFromModels(models)
}

func subscriptionsFromModels(models []subscriptionModel) ([]*subscription.Subscription, error) {
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
	res, err := s.pg.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return casperflow.ErrSubscriptionNotFound
	}
	return nil
}

// ==================== Meter Store ====================

func (s *Store) InsertUsageRecord(ctx context.Context, r *meter.UsageRecord) error {
	m := toUsageRecordModel(r)
	_, err := s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) InsertUsageRecords(ctx context.Context, records []*meter.UsageRecord) error {
	if len(records) == 0 {
		return nil
	}
	models := make([]usageRecordModel, len(records))
	for i, r := range records {
		models[i] = *toUsageRecordModel(r)
	}
	_, err := s.pg.NewInsert(&models).Exec(ctx)
	return err
}

func (s *Store) QueryUsageRecords(ctx context.Context, subID id.SubscriptionID, opts meter.QueryOpts) ([]*meter.UsageRecord, error) {
	var models []usageRecordModel
	q := s.pg.NewSelect(&models).
		Where("subscription_id = $1", subID.String())

	argIdx := 1
	if !opts.Start.IsZero() {
		argIdx++
		q = q.Where(fmt.Sprintf("recorded_at >= $%d", argIdx), opts.Start)
	}
	if !opts.End.IsZero() {
		argIdx++
		q = q.Where(fmt.Sprintf("recorded_at <= $%d", argIdx), opts.End)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("recorded_at DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
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
	m := new(periodModel)
	err := s.pg.NewSelect(m).
		Where("subscription_id = $1", subID.String()).
		Where("period_start = $2", periodStart).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, casperflow.ErrPeriodNotFound
		}
		return nil, err
	}
	return fromPeriodModel(m)
}

func (s *Store) UpsertPeriod(ctx context.Context, p *meter.Period) error {
	m := toPeriodModel(p)
	_, err := s.pg.NewInsert(m).
		OnConflict("(subscription_id, period_start) DO UPDATE").
		Set("period_end = EXCLUDED.period_end").
		Set("units = EXCLUDED.units").
		Set("closed = EXCLUDED.closed").
		Exec(ctx)
	return err
}

func (s *Store) ListPeriods(ctx context.Context, subID id.SubscriptionID) ([]*meter.Period, error) {
	var models []periodModel
	err := s.pg.NewSelect(&models).
		Where("subscription_id = $1", subID.String()).
		OrderExpr("period_start ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
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
	res, err := s.pg.NewDelete((*usageRecordModel)(nil)).
		Where("recorded_at < $1", before).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return rows, nil
}

// ==================== Invoice Store ====================

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	m := toInvoiceModel(inv)
	_, err := s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetInvoice(ctx context.Context, invID id.InvoiceID) (*invoice.Invoice, error) {
	m := new(invoiceModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", invID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, casperflow.ErrInvoiceNotFound
		}
		return nil, err
	}
	return fromInvoiceModel(m)
}

func (s *Store) UpdateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	m := toInvoiceModel(inv)
	m.UpdatedAt = now()
	res, err := s.pg.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return casperflow.ErrInvoiceNotFound
	}
	return nil
}

func (s *Store) ListInvoicesBySubscription(ctx context.Context, subID id.SubscriptionID, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	var models []invoiceModel
	q := s.pg.NewSelect(&models).Where("subscription_id = $1", subID.String())

	argIdx := 1
	if opts.Status != "" {
		argIdx++
		q = q.Where(fmt.Sprintf("status = $%d", argIdx), string(opts.Status))
	}
	if !opts.Start.IsZero() {
		argIdx++
		q = q.Where(fmt.Sprintf("period_start >= $%d", argIdx), opts.Start)
	}
	if !opts.End.IsZero() {
		argIdx++
		q = q.Where(fmt.Sprintf("period_end <= $%d", argIdx), opts.End)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return invoicesFromModels(models)
}

func (s *Store) ListInvoicesBySubscriber(ctx context.Context, subscriber types.Address, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	var models []invoiceModel
	q := s.pg.NewSelect(&models).Where("subscriber = $1", subscriber.String())

	argIdx := 1
	if opts.Status != "" {
		argIdx++
		q = q.Where(fmt.Sprintf("status = $%d", argIdx), string(opts.Status))
	}
	if !opts.Start.IsZero() {
		argIdx++
		q = q.Where(fmt.Sprintf("period_start >= $%d", argIdx), opts.Start)
	}
	if !opts.End.IsZero() {
		argIdx++
		q = q.Where(fmt.Sprintf("period_end <= $%d", argIdx), opts.End)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return invoicesFromModels(models)
}

func (s *Store) ListInvoicesByMerchant(ctx context.Context, merchant types.Address, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	var models []invoiceModel
	q := s.pg.NewSelect(&models).Where("merchant = $1", merchant.String())

	argIdx := 1
	if opts.Status != "" {
		argIdx++
		q = q.Where(fmt.Sprintf("status = $%d", argIdx), string(opts.Status))
	}
	if !opts.Start.IsZero() {
		argIdx++
		q = q.Where(fmt.Sprintf("period_start >= $%d", argIdx), opts.Start)
	}
	if !opts.End.IsZero() {
		argIdx++
		q = q.Where(fmt.Sprintf("period_end <= $%d", argIdx), opts.End)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return invoicesFromModels(models)
}

func invoicesFromModels(models []invoiceModel) ([]*invoice.Invoice, error) {
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
	_, err := s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetPayment(ctx context.Context, payID id.PaymentID) (*payment.Payment, error) {
	m := new(paymentModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", payID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, casperflow.ErrPaymentNotFound
		}
		return nil, err
	}
	return fromPaymentModel(m)
}

func (s *Store) GetPaymentByInvoice(ctx context.Context, invID id.InvoiceID) (*payment.Payment, error) {
	m := new(paymentModel)
	err := s.pg.NewSelect(m).
		Where("invoice_id = $1", invID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, casperflow.ErrPaymentNotFound
		}
		return nil, err
	}
	return fromPaymentModel(m)
}

func (s *Store) ListPaymentsByMerchant(ctx context.Context, merchant types.Address, opts payment.ListOpts) ([]*payment.Payment, error) {
	var models []paymentModel
	q := s.pg.NewSelect(&models).Where("merchant = $1", merchant.String())

	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("settled_at DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return paymentsFromModels(models)
}

func (s *Store) ListPaymentsByPayer(ctx context.Context, payer types.Address, opts payment.ListOpts) ([]*payment.Payment, error) {
	var models []paymentModel
	q := s.pg.NewSelect(&models).Where("payer = $1", payer.String())

	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("settled_at DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return paymentsFromModels(models)
}

func paymentsFromModels(models []paymentModel) ([]*payment.Payment, error) {
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

// getRegister reads a register row into v. A missing row leaves v at its
// zero value.
func (s *Store) getRegister(ctx context.Context, key string, v any) error {
	m := new(registerModel)
	err := s.pg.NewSelect(m).
		Where("key = $1", key).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(m.Value, v)
}

func (s *Store) setRegister(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m := &registerModel{Key: key, Value: raw}
	_, err = s.pg.NewInsert(m).
		OnConflict("(key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	return err
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
