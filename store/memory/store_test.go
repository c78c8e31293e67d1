package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	casperflow "github.com/Abhishekgoyal007/CasperFlow"
	"github.com/Abhishekgoyal007/CasperFlow/id"
	"github.com/Abhishekgoyal007/CasperFlow/invoice"
	"github.com/Abhishekgoyal007/CasperFlow/meter"
	"github.com/Abhishekgoyal007/CasperFlow/plan"
	"github.com/Abhishekgoyal007/CasperFlow/stake"
	"github.com/Abhishekgoyal007/CasperFlow/store"
	"github.com/Abhishekgoyal007/CasperFlow/types"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestAccountRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()
	owner := types.Address("account-hash-a")

	if _, err := s.GetAccount(ctx, owner); !errors.Is(err, casperflow.ErrAccountNotFound) {
		t.Errorf("missing account: got %v, want ErrAccountNotFound", err)
	}

	acct := &stake.Account{
		Entity:     types.NewEntity(epoch),
		Owner:      owner,
		Principal:  types.CSPR(100),
		LastUpdate: epoch,
	}
	if err := s.CreateAccount(ctx, acct); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if err := s.CreateAccount(ctx, acct); !errors.Is(err, casperflow.ErrAlreadyExists) {
		t.Errorf("duplicate create: got %v, want ErrAlreadyExists", err)
	}

	got, err := s.GetAccount(ctx, owner)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if got.Principal != types.CSPR(100) {
		t.Errorf("Principal: got %s, want %s", got.Principal, types.CSPR(100))
	}
}

func TestReturnedValuesDoNotAliasStoredState(t *testing.T) {
	s := New()
	ctx := context.Background()
	owner := types.Address("account-hash-a")

	acct := &stake.Account{
		Entity:     types.NewEntity(epoch),
		Owner:      owner,
		Principal:  types.CSPR(100),
		LastUpdate: epoch,
	}
	if err := s.CreateAccount(ctx, acct); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	// Mutating the caller's copy after Create must not leak in.
	acct.Principal = types.CSPR(999)

	got, err := s.GetAccount(ctx, owner)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if got.Principal != types.CSPR(100) {
		t.Errorf("stored Principal changed through caller copy: got %s", got.Principal)
	}

	// Mutating the returned copy must not change stored state either.
	got.Principal = types.CSPR(1)
	again, err := s.GetAccount(ctx, owner)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if again.Principal != types.CSPR(100) {
		t.Errorf("stored Principal changed through returned copy: got %s", again.Principal)
	}
}

func TestListAccountsEnabledOnly(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, a := range []*stake.Account{
		{Owner: "account-hash-a", Enabled: true},
		{Owner: "account-hash-b"},
		{Owner: "account-hash-c", Enabled: true},
	} {
		if err := s.CreateAccount(ctx, a); err != nil {
			t.Fatalf("CreateAccount: %v", err)
		}
	}

	enabled, err := s.ListAccounts(ctx, stake.ListOpts{EnabledOnly: true})
	if err != nil {
		t.Fatalf("ListAccounts: %v", err)
	}
	if len(enabled) != 2 {
		t.Errorf("enabled accounts: got %d, want 2", len(enabled))
	}

	all, err := s.ListAccounts(ctx, stake.ListOpts{})
	if err != nil {
		t.Fatalf("ListAccounts: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("all accounts: got %d, want 3", len(all))
	}

	page, err := s.ListAccounts(ctx, stake.ListOpts{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("ListAccounts: %v", err)
	}
	if len(page) != 1 {
		t.Errorf("paged accounts: got %d, want 1", len(page))
	}
}

func TestPlanListByMerchantFiltersStatus(t *testing.T) {
	s := New()
	ctx := context.Background()
	merchant := types.Address("account-hash-m")

	active := &plan.Plan{
		Entity: types.NewEntity(epoch), ID: id.NewPlanID(),
		Merchant: merchant, Status: plan.StatusActive,
	}
	inactive := &plan.Plan{
		Entity: types.NewEntity(epoch.Add(time.Minute)), ID: id.NewPlanID(),
		Merchant: merchant, Status: plan.StatusInactive,
	}
	for _, p := range []*plan.Plan{active, inactive} {
		if err := s.CreatePlan(ctx, p); err != nil {
			t.Fatalf("CreatePlan: %v", err)
		}
	}

	got, err := s.ListPlansByMerchant(ctx, merchant, plan.ListOpts{Status: plan.StatusActive})
	if err != nil {
		t.Fatalf("ListPlansByMerchant: %v", err)
	}
	if len(got) != 1 || got[0].ID.String() != active.ID.String() {
		t.Errorf("filtered plans: got %d", len(got))
	}
}

func TestPeriodUpsertAndList(t *testing.T) {
	s := New()
	ctx := context.Background()
	subID := id.NewSubscriptionID()

	if _, err := s.GetPeriod(ctx, subID, epoch); !errors.Is(err, casperflow.ErrPeriodNotFound) {
		t.Errorf("missing period: got %v, want ErrPeriodNotFound", err)
	}

	p := &meter.Period{SubscriptionID: subID, PeriodStart: epoch, Units: 5}
	if err := s.UpsertPeriod(ctx, p); err != nil {
		t.Fatalf("UpsertPeriod: %v", err)
	}
	p.Units = 12
	if err := s.UpsertPeriod(ctx, p); err != nil {
		t.Fatalf("UpsertPeriod: %v", err)
	}

	got, err := s.GetPeriod(ctx, subID, epoch)
	if err != nil {
		t.Fatalf("GetPeriod: %v", err)
	}
	if got.Units != 12 {
		t.Errorf("Units: got %d, want 12", got.Units)
	}

	next := &meter.Period{SubscriptionID: subID, PeriodStart: epoch.Add(time.Hour)}
	if err := s.UpsertPeriod(ctx, next); err != nil {
		t.Fatalf("UpsertPeriod: %v", err)
	}

	periods, err := s.ListPeriods(ctx, subID)
	if err != nil {
		t.Fatalf("ListPeriods: %v", err)
	}
	if len(periods) != 2 {
		t.Fatalf("ListPeriods: got %d, want 2", len(periods))
	}
	if !periods[0].PeriodStart.Before(periods[1].PeriodStart) {
		t.Error("periods are not ordered oldest first")
	}
}

func TestPurgeUsageRecords(t *testing.T) {
	s := New()
	ctx := context.Background()
	subID := id.NewSubscriptionID()

	for i := 0; i < 4; i++ {
		r := &meter.UsageRecord{
			ID:             id.NewUsageRecordID(),
			SubscriptionID: subID,
			Units:          1,
			RecordedAt:     epoch.Add(time.Duration(i) * time.Hour),
		}
		if err := s.InsertUsageRecord(ctx, r); err != nil {
			t.Fatalf("InsertUsageRecord: %v", err)
		}
	}

	purged, err := s.PurgeUsageRecords(ctx, epoch.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("PurgeUsageRecords: %v", err)
	}
	if purged != 2 {
		t.Errorf("purged: got %d, want 2", purged)
	}

	left, err := s.QueryUsageRecords(ctx, subID, meter.QueryOpts{})
	if err != nil {
		t.Fatalf("QueryUsageRecords: %v", err)
	}
	if len(left) != 2 {
		t.Errorf("remaining records: got %d, want 2", len(left))
	}
}

func TestInvoiceStatusFilter(t *testing.T) {
	s := New()
	ctx := context.Background()
	subscriber := types.Address("account-hash-s")

	pending := &invoice.Invoice{
		Entity: types.NewEntity(epoch), ID: id.NewInvoiceID(),
		Subscriber: subscriber, Status: invoice.StatusPending,
	}
	paid := &invoice.Invoice{
		Entity: types.NewEntity(epoch.Add(time.Minute)), ID: id.NewInvoiceID(),
		Subscriber: subscriber, Status: invoice.StatusPaid,
	}
	for _, inv := range []*invoice.Invoice{pending, paid} {
		if err := s.CreateInvoice(ctx, inv); err != nil {
			t.Fatalf("CreateInvoice: %v", err)
		}
	}

	got, err := s.ListInvoicesBySubscriber(ctx, subscriber, invoice.ListOpts{Status: invoice.StatusPaid})
	if err != nil {
		t.Fatalf("ListInvoicesBySubscriber: %v", err)
	}
	if len(got) != 1 || got[0].ID.String() != paid.ID.String() {
		t.Errorf("filtered invoices: got %d", len(got))
	}
}

func TestRegisters(t *testing.T) {
	s := New()
	ctx := context.Background()
	merchant := types.Address("account-hash-m")

	// Fresh store reads zero-valued registers, not errors.
	params, err := s.GetParams(ctx)
	if err != nil {
		t.Fatalf("GetParams: %v", err)
	}
	if params.RewardRate != 0 || !params.Owner.IsZero() {
		t.Errorf("fresh params not zero: %+v", params)
	}

	if err := s.SetParams(ctx, &store.Params{Owner: "account-hash-o", RewardRate: 800, FeeRate: 100}); err != nil {
		t.Fatalf("SetParams: %v", err)
	}
	params, err = s.GetParams(ctx)
	if err != nil {
		t.Fatalf("GetParams: %v", err)
	}
	if params.RewardRate != 800 {
		t.Errorf("RewardRate: got %d, want 800", params.RewardRate)
	}

	if err := s.AddMerchantRevenue(ctx, merchant, types.CSPR(10)); err != nil {
		t.Fatalf("AddMerchantRevenue: %v", err)
	}
	if err := s.AddMerchantRevenue(ctx, merchant, types.CSPR(5)); err != nil {
		t.Fatalf("AddMerchantRevenue: %v", err)
	}
	revenue, err := s.GetMerchantRevenue(ctx, merchant)
	if err != nil {
		t.Fatalf("GetMerchantRevenue: %v", err)
	}
	if revenue != types.CSPR(15) {
		t.Errorf("revenue: got %s, want %s", revenue, types.CSPR(15))
	}
}
