package mongo

import (
	"time"

	"github.com/xraph/grove"

	"github.com/Abhishekgoyal007/CasperFlow/id"
	"github.com/Abhishekgoyal007/CasperFlow/invoice"
	"github.com/Abhishekgoyal007/CasperFlow/meter"
	"github.com/Abhishekgoyal007/CasperFlow/payment"
	"github.com/Abhishekgoyal007/CasperFlow/plan"
	"github.com/Abhishekgoyal007/CasperFlow/stake"
	"github.com/Abhishekgoyal007/CasperFlow/subscription"
	"github.com/Abhishekgoyal007/CasperFlow/types"
)

// Monetary fields store motes as signed 64-bit integers. Amounts above
// 1<<63 motes are out of scope for any realistic deployment.

// ==================== Stake account models ====================

type accountModel struct {
	grove.BaseModel `grove:"table:casperflow_accounts"`

	Owner        string    `grove:"owner,pk"      bson:"_id"`
	Principal    int64     `grove:"principal"     bson:"principal"`
	Rewards      int64     `grove:"rewards"       bson:"rewards"`
	RewardsSpent int64     `grove:"rewards_spent" bson:"rewards_spent"`
	Enabled      bool      `grove:"enabled"       bson:"enabled"`
	LastUpdate   time.Time `grove:"last_update"   bson:"last_update"`
	CreatedAt    time.Time `grove:"created_at"    bson:"created_at"`
	UpdatedAt    time.Time `grove:"updated_at"    bson:"updated_at"`
}

func toAccountModel(a *stake.Account) *accountModel {
	return &accountModel{
		Owner:        a.Owner.String(),
		Principal:    int64(a.Principal),
		Rewards:      int64(a.Rewards),
		RewardsSpent: int64(a.RewardsSpent),
		Enabled:      a.Enabled,
		LastUpdate:   a.LastUpdate,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func fromAccountModel(m *accountModel) *stake.Account {
	return &stake.Account{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Owner:        types.Address(m.Owner),
		Principal:    types.Amount(m.Principal),
		Rewards:      types.Amount(m.Rewards),
		RewardsSpent: types.Amount(m.RewardsSpent),
		Enabled:      m.Enabled,
		LastUpdate:   m.LastUpdate,
	}
}

// ==================== Plan models ====================

type planModel struct {
	grove.BaseModel `grove:"table:casperflow_plans"`

	ID           string    `grove:"id,pk"                 bson:"_id"`
	Merchant     string    `grove:"merchant"              bson:"merchant"`
	Name         string    `grove:"name"                  bson:"name"`
	Description  string    `grove:"description"           bson:"description"`
	BasePrice    int64     `grove:"base_price"            bson:"base_price"`
	UsagePrice   int64     `grove:"usage_price"           bson:"usage_price"`
	BillingCycle int64     `grove:"billing_cycle_seconds" bson:"billing_cycle_seconds"`
	Status       string    `grove:"status"                bson:"status"`
	Recorders    []string  `grove:"recorders"             bson:"recorders,omitempty"`
	CreatedAt    time.Time `grove:"created_at"            bson:"created_at"`
	UpdatedAt    time.Time `grove:"updated_at"            bson:"updated_at"`
}

func toPlanModel(p *plan.Plan) *planModel {
	recorders := make([]string, len(p.Recorders))
	for i, r := range p.Recorders {
		recorders[i] = r.String()
	}

	return &planModel{
		ID:           p.ID.String(),
		Merchant:     p.Merchant.String(),
		Name:         p.Name,
		Description:  p.Description,
		BasePrice:    int64(p.BasePrice),
		UsagePrice:   int64(p.UsagePrice),
		BillingCycle: int64(p.BillingCycle / time.Second),
		Status:       string(p.Status),
		Recorders:    recorders,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func fromPlanModel(m *planModel) (*plan.Plan, error) {
	planID, err := id.ParsePlanID(m.ID)
	if err != nil {
		return nil, err
	}

	var recorders []types.Address
	if len(m.Recorders) > 0 {
		recorders = make([]types.Address, len(m.Recorders))
		for i, r := range m.Recorders {
			recorders[i] = types.Address(r)
		}
	}

	return &plan.Plan{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:           planID,
		Merchant:     types.Address(m.Merchant),
		Name:         m.Name,
		Description:  m.Description,
		BasePrice:    types.Amount(m.BasePrice),
		UsagePrice:   types.Amount(m.UsagePrice),
		BillingCycle: time.Duration(m.BillingCycle) * time.Second,
		Status:       plan.Status(m.Status),
		Recorders:    recorders,
	}, nil
}

// ==================== Subscription models ====================

type subscriptionModel struct {
	grove.BaseModel `grove:"table:casperflow_subscriptions"`

	ID                 string     `grove:"id,pk"                bson:"_id"`
	Subscriber         string     `grove:"subscriber"           bson:"subscriber"`
	PlanID             string     `grove:"plan_id"              bson:"plan_id"`
	Status             string     `grove:"status"               bson:"status"`
	CurrentPeriodStart time.Time  `grove:"current_period_start" bson:"current_period_start"`
	AutoRenew          bool       `grove:"auto_renew"           bson:"auto_renew"`
	CanceledAt         *time.Time `grove:"canceled_at"          bson:"canceled_at,omitempty"`
	CreatedAt          time.Time  `grove:"created_at"           bson:"created_at"`
	UpdatedAt          time.Time  `grove:"updated_at"           bson:"updated_at"`
}

func toSubscriptionModel(s *subscription.Subscription) *subscriptionModel {
	return &subscriptionModel{
		ID:                 s.ID.String(),
		Subscriber:         s.Subscriber.String(),
		PlanID:             s.PlanID.String(),
		Status:             string(s.Status),
		CurrentPeriodStart: s.CurrentPeriodStart,
		AutoRenew:          s.AutoRenew,
		CanceledAt:         s.CanceledAt,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func fromSubscriptionModel(m *subscriptionModel) (*subscription.Subscription, error) {
	subID, err := id.ParseSubscriptionID(m.ID)
	if err != nil {
		return nil, err
	}
	planID, err := id.ParsePlanID(m.PlanID)
	if err != nil {
		return nil, err
	}

	return &subscription.Subscription{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:                 subID,
		Subscriber:         types.Address(m.Subscriber),
		PlanID:             planID,
		Status:             subscription.Status(m.Status),
		CurrentPeriodStart: m.CurrentPeriodStart,
		AutoRenew:          m.AutoRenew,
		CanceledAt:         m.CanceledAt,
	}, nil
}

// ==================== Usage Record models ====================

type usageRecordModel struct {
	grove.BaseModel `grove:"table:casperflow_usage_records"`

	ID             string            `grove:"id,pk"           bson:"_id"`
	SubscriptionID string            `grove:"subscription_id" bson:"subscription_id"`
	Recorder       string            `grove:"recorder"        bson:"recorder"`
	Units          int64             `grove:"units"           bson:"units"`
	RecordedAt     time.Time         `grove:"recorded_at"     bson:"recorded_at"`
	PeriodStart    time.Time         `grove:"period_start"    bson:"period_start"`
	Metadata       map[string]string `grove:"metadata"        bson:"metadata,omitempty"`
}

func toUsageRecordModel(r *meter.UsageRecord) *usageRecordModel {
	return &usageRecordModel{
		ID:             r.ID.String(),
		SubscriptionID: r.SubscriptionID.String(),
		Recorder:       r.Recorder.String(),
		Units:          int64(r.Units),
		RecordedAt:     r.RecordedAt,
		PeriodStart:    r.PeriodStart,
		Metadata:       r.Metadata,
	}
}

func fromUsageRecordModel(m *usageRecordModel) (*meter.UsageRecord, error) {
	recID, err := id.ParseUsageRecordID(m.ID)
	if err != nil {
		return nil, err
	}
	subID, err := id.ParseSubscriptionID(m.SubscriptionID)
	if err != nil {
		return nil, err
	}

	return &meter.UsageRecord{
		ID:             recID,
		SubscriptionID: subID,
		Recorder:       types.Address(m.Recorder),
		Units:          uint64(m.Units),
		RecordedAt:     m.RecordedAt,
		PeriodStart:    m.PeriodStart,
		Metadata:       m.Metadata,
	}, nil
}

// ==================== Billing Period models ====================

// periodModel keys documents on subscription id plus period start since
// MongoDB has no composite primary keys.
type periodModel struct {
	grove.BaseModel `grove:"table:casperflow_periods"`

	ID             string    `grove:"id,pk"           bson:"_id"`
	SubscriptionID string    `grove:"subscription_id" bson:"subscription_id"`
	PeriodStart    time.Time `grove:"period_start"    bson:"period_start"`
	PeriodEnd      time.Time `grove:"period_end"      bson:"period_end"`
	Units          int64     `grove:"units"           bson:"units"`
	Closed         bool      `grove:"closed"          bson:"closed"`
}

func periodKey(subID string, start time.Time) string {
	return subID + ":" + start.UTC().Format(time.RFC3339Nano)
}

func toPeriodModel(p *meter.Period) *periodModel {
	return &periodModel{
		ID:             periodKey(p.SubscriptionID.String(), p.PeriodStart),
		SubscriptionID: p.SubscriptionID.String(),
		PeriodStart:    p.PeriodStart,
		PeriodEnd:      p.PeriodEnd,
		Units:          int64(p.Units),
		Closed:         p.Closed,
	}
}

func fromPeriodModel(m *periodModel) (*meter.Period, error) {
	subID, err := id.ParseSubscriptionID(m.SubscriptionID)
	if err != nil {
		return nil, err
	}

	return &meter.Period{
		SubscriptionID: subID,
		PeriodStart:    m.PeriodStart,
		PeriodEnd:      m.PeriodEnd,
		Units:          uint64(m.Units),
		Closed:         m.Closed,
	}, nil
}

// ==================== Invoice models ====================

type invoiceModel struct {
	grove.BaseModel `grove:"table:casperflow_invoices"`

	ID             string     `grove:"id,pk"           bson:"_id"`
	SubscriptionID string     `grove:"subscription_id" bson:"subscription_id"`
	Subscriber     string     `grove:"subscriber"      bson:"subscriber"`
	Merchant       string     `grove:"merchant"        bson:"merchant"`
	Status         string     `grove:"status"          bson:"status"`
	BaseAmount     int64      `grove:"base_amount"     bson:"base_amount"`
	UsageAmount    int64      `grove:"usage_amount"    bson:"usage_amount"`
	Total          int64      `grove:"total"           bson:"total"`
	Units          int64      `grove:"units"           bson:"units"`
	PeriodStart    time.Time  `grove:"period_start"    bson:"period_start"`
	PeriodEnd      time.Time  `grove:"period_end"      bson:"period_end"`
	PaidAt         *time.Time `grove:"paid_at"         bson:"paid_at,omitempty"`
	FailedAt       *time.Time `grove:"failed_at"       bson:"failed_at,omitempty"`
	Method         string     `grove:"method"          bson:"method"`
	CreatedAt      time.Time  `grove:"created_at"      bson:"created_at"`
	UpdatedAt      time.Time  `grove:"updated_at"      bson:"updated_at"`
}

func toInvoiceModel(inv *invoice.Invoice) *invoiceModel {
	return &invoiceModel{
		ID:             inv.ID.String(),
		SubscriptionID: inv.SubscriptionID.String(),
		Subscriber:     inv.Subscriber.String(),
		Merchant:       inv.Merchant.String(),
		Status:         string(inv.Status),
		BaseAmount:     int64(inv.BaseAmount),
		UsageAmount:    int64(inv.UsageAmount),
		Total:          int64(inv.Total),
		Units:          int64(inv.Units),
		PeriodStart:    inv.PeriodStart,
		PeriodEnd:      inv.PeriodEnd,
		PaidAt:         inv.PaidAt,
		FailedAt:       inv.FailedAt,
		Method:         string(inv.Method),
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
}

func fromInvoiceModel(m *invoiceModel) (*invoice.Invoice, error) {
	invID, err := id.ParseInvoiceID(m.ID)
	if err != nil {
		return nil, err
	}
	subID, err := id.ParseSubscriptionID(m.SubscriptionID)
	if err != nil {
		return nil, err
	}

	return &invoice.Invoice{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:             invID,
		SubscriptionID: subID,
		Subscriber:     types.Address(m.Subscriber),
		Merchant:       types.Address(m.Merchant),
		Status:         invoice.Status(m.Status),
		BaseAmount:     types.Amount(m.BaseAmount),
		UsageAmount:    types.Amount(m.UsageAmount),
		Total:          types.Amount(m.Total),
		Units:          uint64(m.Units),
		PeriodStart:    m.PeriodStart,
		PeriodEnd:      m.PeriodEnd,
		PaidAt:         m.PaidAt,
		FailedAt:       m.FailedAt,
		Method:         invoice.PaymentMethod(m.Method),
	}, nil
}

// ==================== Payment models ====================

type paymentModel struct {
	grove.BaseModel `grove:"table:casperflow_payments"`

	ID             string    `grove:"id,pk"           bson:"_id"`
	InvoiceID      string    `grove:"invoice_id"      bson:"invoice_id"`
	SubscriptionID string    `grove:"subscription_id" bson:"subscription_id"`
	Payer          string    `grove:"payer"           bson:"payer"`
	Merchant       string    `grove:"merchant"        bson:"merchant"`
	Method         string    `grove:"method"          bson:"method"`
	Total          int64     `grove:"total"           bson:"total"`
	Fee            int64     `grove:"fee"             bson:"fee"`
	MerchantAmount int64     `grove:"merchant_amount" bson:"merchant_amount"`
	FromRewards    int64     `grove:"from_rewards"    bson:"from_rewards"`
	FromPrincipal  int64     `grove:"from_principal"  bson:"from_principal"`
	SettledAt      time.Time `grove:"settled_at"      bson:"settled_at"`
	CreatedAt      time.Time `grove:"created_at"      bson:"created_at"`
	UpdatedAt      time.Time `grove:"updated_at"      bson:"updated_at"`
}

func toPaymentModel(p *payment.Payment) *paymentModel {
	return &paymentModel{
		ID:             p.ID.String(),
		InvoiceID:      p.InvoiceID.String(),
		SubscriptionID: p.SubscriptionID.String(),
		Payer:          p.Payer.String(),
		Merchant:       p.Merchant.String(),
		Method:         string(p.Method),
		Total:          int64(p.Total),
		Fee:            int64(p.Fee),
		MerchantAmount: int64(p.MerchantAmount),
		FromRewards:    int64(p.FromRewards),
		FromPrincipal:  int64(p.FromPrincipal),
		SettledAt:      p.SettledAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func fromPaymentModel(m *paymentModel) (*payment.Payment, error) {
	payID, err := id.ParsePaymentID(m.ID)
	if err != nil {
		return nil, err
	}
	invID, err := id.ParseInvoiceID(m.InvoiceID)
	if err != nil {
		return nil, err
	}
	subID, err := id.ParseSubscriptionID(m.SubscriptionID)
	if err != nil {
		return nil, err
	}

	return &payment.Payment{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:             payID,
		InvoiceID:      invID,
		SubscriptionID: subID,
		Payer:          types.Address(m.Payer),
		Merchant:       types.Address(m.Merchant),
		Method:         invoice.PaymentMethod(m.Method),
		Total:          types.Amount(m.Total),
		Fee:            types.Amount(m.Fee),
		MerchantAmount: types.Amount(m.MerchantAmount),
		FromRewards:    types.Amount(m.FromRewards),
		FromPrincipal:  types.Amount(m.FromPrincipal),
		SettledAt:      m.SettledAt,
	}, nil
}

// ==================== Register models ====================

// registerModel is a single-document key/value register. Params, totals,
// and merchant revenue all live here.
type registerModel struct {
	grove.BaseModel `grove:"table:casperflow_registers"`

	Key   string `grove:"key,pk" bson:"_id"`
	Value string `grove:"value"  bson:"value"`
}
