package payment

import (
	"time"

	"github.com/Abhishekgoyal007/CasperFlow/id"
	"github.com/Abhishekgoyal007/CasperFlow/invoice"
	"github.com/Abhishekgoyal007/CasperFlow/types"
)

// Payment records one settled invoice: how much went to the merchant,
// how much to the protocol fee recipient, and where the money came from.
type Payment struct {
	types.Entity
	ID             id.PaymentID          `json:"id"`
	InvoiceID      id.InvoiceID          `json:"invoice_id"`
	SubscriptionID id.SubscriptionID     `json:"subscription_id"`
	Payer          types.Address         `json:"payer"`
	Merchant       types.Address         `json:"merchant"`
	Method         invoice.PaymentMethod `json:"method"`
	Total          types.Amount          `json:"total"`
	Fee            types.Amount          `json:"fee"`
	MerchantAmount types.Amount          `json:"merchant_amount"`
	FromRewards    types.Amount          `json:"from_rewards"`
	FromPrincipal  types.Amount          `json:"from_principal"`
	SettledAt      time.Time             `json:"settled_at"`
}
