package invoice

import (
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/types"
)

// Invoice is an account-agnostic snapshot of a Stripe invoice. Amounts
// are integer minor currency units and timestamps are epoch seconds,
// exactly as the Stripe API reports them; optional timestamps are zero
// when absent.
type Invoice struct {
	ID                   string                 `json:"id"`
	Number               string                 `json:"number"`
	Status               types.InvoiceStatus    `json:"status"`
	CustomerID           string                 `json:"customer"`
	CustomerName         string                 `json:"customer_name,omitempty"`
	SubscriptionID       *string                `json:"subscription,omitempty"`
	AccountName          string                 `json:"account_name,omitempty"`
	Currency             string                 `json:"currency"`
	Total                int64                  `json:"total"`
	Subtotal             int64                  `json:"subtotal"`
	SubtotalExcludingTax int64                  `json:"subtotal_excluding_tax"`
	Tax                  int64                  `json:"tax"`
	AmountDue            int64                  `json:"amount_due"`
	AmountPaid           int64                  `json:"amount_paid"`
	Created              int64                  `json:"created"`
	DueDate              int64                  `json:"due_date,omitempty"`
	EffectiveAt          int64                  `json:"effective_at,omitempty"`
	PeriodStart          int64                  `json:"period_start,omitempty"`
	PeriodEnd            int64                  `json:"period_end,omitempty"`
	CollectionMethod     types.CollectionMethod `json:"collection_method"`
	Description          string                 `json:"description,omitempty"`
	Footer               string                 `json:"footer,omitempty"`
	CustomFields         []CustomField          `json:"custom_fields,omitempty"`
	Metadata             types.Metadata         `json:"metadata,omitempty"`
	DiscountIDs          []string               `json:"discounts,omitempty"`
	Coupon               *string                `json:"coupon,omitempty"`
	PaidOutOfBand        bool                   `json:"paid_out_of_band"`
	LineItems            []*LineItem            `json:"lines,omitempty"`
}

// LineItem is one line of a source or migrated invoice
type LineItem struct {
	ID              string           `json:"id"`
	Description     string           `json:"description,omitempty"`
	PriceID         string           `json:"price,omitempty"`
	Quantity        int64            `json:"quantity"`
	Amount          int64            `json:"amount"`
	Currency        string           `json:"currency"`
	Period          Period           `json:"period"`
	TaxAmounts      []TaxAmount      `json:"tax_amounts,omitempty"`
	DiscountAmounts []DiscountAmount `json:"discount_amounts,omitempty"`
}

// Period is a line item's service window in epoch seconds
type Period struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

type TaxAmount struct {
	Amount    int64  `json:"amount"`
	TaxRateID string `json:"tax_rate"`
}

type DiscountAmount struct {
	Amount     int64  `json:"amount"`
	DiscountID string `json:"discount"`
}

type CustomField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// TaxRate is the source-account tax rate detail referenced by line item
// tax amounts
type TaxRate struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Percentage  float64 `json:"percentage"`
	Inclusive   bool    `json:"inclusive"`
}

// HasDiscount reports whether any discount is attached to the invoice.
// Discounted invoices are not migratable.
func (i *Invoice) HasDiscount() bool {
	return len(i.DiscountIDs) > 0
}

// IsSubscriptionLinked reports whether the invoice was generated by a
// subscription
func (i *Invoice) IsSubscriptionLinked() bool {
	return i.SubscriptionID != nil && *i.SubscriptionID != ""
}
