package id_test

import (
	"strings"
	"testing"

	"github.com/Abhishekgoyal007/CasperFlow/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"PlanID", id.NewPlanID, "plan_"},
		{"SubscriptionID", id.NewSubscriptionID, "sub_"},
		{"InvoiceID", id.NewInvoiceID, "inv_"},
		{"PaymentID", id.NewPaymentID, "pay_"},
		{"UsageRecordID", id.NewUsageRecordID, "urec_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	i := id.New(id.PrefixInvoice)
	if i.IsNil() {
		t.Fatal("expected non-nil ID")
	}
	if i.Prefix() != id.PrefixInvoice {
		t.Errorf("expected prefix %q, got %q", id.PrefixInvoice, i.Prefix())
	}
}

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		newFn   func() id.ID
		parseFn func(string) (id.ID, error)
	}{
		{"PlanID", id.NewPlanID, id.ParsePlanID},
		{"SubscriptionID", id.NewSubscriptionID, id.ParseSubscriptionID},
		{"InvoiceID", id.NewInvoiceID, id.ParseInvoiceID},
		{"PaymentID", id.NewPaymentID, id.ParsePaymentID},
		{"UsageRecordID", id.NewUsageRecordID, id.ParseUsageRecordID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := tt.newFn()
			parsed, err := tt.parseFn(original.String())
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if parsed.String() != original.String() {
				t.Errorf("round-trip mismatch: %q != %q", parsed.String(), original.String())
			}
		})
	}
}

func TestCrossTypeRejection(t *testing.T) {
	planID := id.NewPlanID()

	if _, err := id.ParseInvoiceID(planID.String()); err == nil {
		t.Error("expected error parsing plan ID as invoice ID")
	}
	if _, err := id.ParsePaymentID(planID.String()); err == nil {
		t.Error("expected error parsing plan ID as payment ID")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Empty", ""},
		{"NoSuffix", "plan_"},
		{"Garbage", "not a typeid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := id.Parse(tt.input); err == nil {
				t.Errorf("expected error for %q", tt.input)
			}
		})
	}
}

func TestNilID(t *testing.T) {
	var nilID id.ID

	if !nilID.IsNil() {
		t.Error("zero-value ID should be nil")
	}
	if nilID.String() != "" {
		t.Errorf("nil ID String should be empty, got %q", nilID.String())
	}

	text, err := nilID.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}
	if len(text) != 0 {
		t.Errorf("nil ID MarshalText should be empty, got %q", text)
	}
}

func TestTextRoundTrip(t *testing.T) {
	original := id.NewSubscriptionID()

	text, err := original.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}

	var decoded id.ID
	if err := decoded.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if decoded.String() != original.String() {
		t.Errorf("round-trip mismatch: %q != %q", decoded.String(), original.String())
	}
}
