// Package casperflow provides a stake-to-pay subscription billing engine
// for Go applications.
//
// CasperFlow is designed as a library, not a service. Import it directly
// into your Go application. It provides:
//
//   - Staked balances that accrue time-proportional yield
//   - Invoice settlement that spends accrued rewards before principal
//   - Metered usage aggregation per billing period
//   - Exactly-once invoice settlement with a protocol fee split
//   - Merchant plans with base and per-unit pricing
//   - Pluggable storage (memory, SQLite, Postgres, MongoDB)
//
// # Quick Start
//
// Create a ledger instance with your preferred store:
//
//	import (
//	    casperflow "github.com/Abhishekgoyal007/CasperFlow"
//	    "github.com/Abhishekgoyal007/CasperFlow/store/memory"
//	)
//
//	// Create ledger (store/postgres, store/sqlite, and store/mongo
//	// take a grove.DB for persistent deployments)
//	l := casperflow.New(memory.New(),
//	    casperflow.WithOwner("account-hash-admin"),
//	    casperflow.WithFeeRecipient("account-hash-treasury"),
//	)
//
//	// Start the ledger (migrates the store, seeds protocol params)
//	if err := l.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
// # Core Concepts
//
// Merchants publish plans with a base price per billing cycle and a
// price per metered unit:
//
//	p := &plan.Plan{
//	    Merchant:     "account-hash-merchant",
//	    Name:         "Pro",
//	    BasePrice:    casperflow.CSPR(50),
//	    UsagePrice:   casperflow.Motes(1_000_000),
//	    BillingCycle: 30 * 24 * time.Hour,
//	}
//	err := l.CreatePlan(ctx, p)
//
// Subscribers stake funds that accrue yield over time, and can choose
// to settle invoices from those funds:
//
//	l.Deposit(ctx, subscriber, casperflow.CSPR(1000))
//	l.EnableStakeToPay(ctx, subscriber)
//
//	sub, err := l.Subscribe(ctx, subscriber, p.ID)
//
// Authorized recorders meter usage; the merchant invoices the period
// and settlement spends rewards before principal:
//
//	l.RecordUsage(ctx, recorder, sub.ID, 1000)
//	inv, err := l.GenerateInvoice(ctx, merchant, sub.ID)
//	pay, err := l.PayInvoiceFromStaking(ctx, subscriber, inv.ID)
//
// # Amounts
//
// All monetary calculations use integer arithmetic to avoid
// floating-point precision issues. The Amount type counts motes, the
// smallest unit of CSPR (1 CSPR = 1e9 motes). Rates are expressed in
// basis points and applied with truncating 128-bit intermediate math.
//
// # TypeID
//
// All entities use TypeID for globally unique, type-safe identifiers:
//
//	plan_01h2xcejqtf2nbrexx3vqjhp41  // Plan ID
//	sub_01h2xcejqtf2nbrexx3vqjhp41   // Subscription ID
//	inv_01h455vb4pex5vsknk084sn02q   // Invoice ID
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package casperflow
