package casperflow_test

import (
	"context"
	"log"
	"log/slog"
	"testing"
	"time"

	casperflow "github.com/Abhishekgoyal007/CasperFlow"
	"github.com/Abhishekgoyal007/CasperFlow/plan"
	"github.com/Abhishekgoyal007/CasperFlow/store/memory"
	"github.com/Abhishekgoyal007/CasperFlow/types"
)

// TestDocumentationExamples verifies that all examples in the documentation compile
func TestDocumentationExamples(t *testing.T) {
	// Test Quick Start example from README
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create store (memory for demo, use PostgreSQL in production)
		store := memory.New()

		// Initialize the ledger
		l := casperflow.New(store,
			casperflow.WithLogger(slog.Default()),
			casperflow.WithOwner("account-hash-admin"),
			casperflow.WithFeeRecipient("account-hash-treasury"),
		)

		// Start the engine
		ctx := context.Background()
		if err := l.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer l.Stop()

		// Merchant publishes a plan
		merchant := types.Address("account-hash-merchant")
		p := &plan.Plan{
			Merchant:     merchant,
			Name:         "Pro Plan",
			BasePrice:    casperflow.CSPR(50),
			UsagePrice:   casperflow.Motes(1_000_000),
			BillingCycle: 30 * 24 * time.Hour,
		}
		if err := l.CreatePlan(ctx, p); err != nil {
			t.Fatal(err)
		}

		// Subscriber stakes funds and enables stake-to-pay
		subscriber := types.Address("account-hash-subscriber")
		if err := l.Deposit(ctx, subscriber, casperflow.CSPR(1000)); err != nil {
			t.Fatal(err)
		}
		if err := l.EnableStakeToPay(ctx, subscriber); err != nil {
			t.Fatal(err)
		}

		sub, err := l.Subscribe(ctx, subscriber, p.ID)
		if err != nil {
			t.Fatal(err)
		}

		// The merchant meters usage and invoices the period
		if _, err := l.RecordUsage(ctx, merchant, sub.ID, 1000); err != nil {
			t.Fatal(err)
		}

		inv, err := l.GenerateInvoice(ctx, merchant, sub.ID)
		if err != nil {
			t.Fatal(err)
		}

		// Settlement spends rewards before principal
		pay, err := l.PayInvoiceFromStaking(ctx, subscriber, inv.ID)
		if err != nil {
			t.Fatal(err)
		}

		log.Printf("Invoice settled: total=%s fee=%s\n", pay.Total, pay.Fee)
	})

	// Test Amount type examples
	t.Run("AmountExamples", func(t *testing.T) {
		// Constructors
		_ = casperflow.Motes(1_000_000_000) // 1 CSPR
		_ = casperflow.CSPR(49)             // 49 CSPR

		// Arithmetic
		a := casperflow.CSPR(1)
		b := casperflow.CSPR(2)
		_ = a.Add(b)
		_ = a.Mul(3)
		_ = a.MulDiv(800, 10_000) // 8% of a, truncating

		// Comparison
		if a < b {
			// a is less than b
		}

		// Formatting
		_ = a.String()      // "1.000000000 CSPR"
		_ = a.FormatCSPR()  // "1.000000000"
	})
}
