package stripe

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"

	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/types"
)

func TestFromStripeInvoice(t *testing.T) {
	si := &stripe.Invoice{
		ID:                   "in_src_001",
		Number:               "INV-0042",
		Status:               stripe.InvoiceStatusPaid,
		Customer:             &stripe.Customer{ID: "cus_src_1"},
		CustomerName:         "Globex Corporation",
		AccountName:          "Intellimize",
		Currency:             stripe.CurrencyUSD,
		Total:                5000,
		Subtotal:             5000,
		SubtotalExcludingTax: 5000,
		AmountDue:            5000,
		AmountPaid:           5000,
		Created:              1704067200,
		DueDate:              1706659200,
		EffectiveAt:          1704067200,
		PeriodStart:          1704067200,
		PeriodEnd:            1706745600,
		CollectionMethod:     stripe.InvoiceCollectionMethodChargeAutomatically,
		Description:          "January optimization services",
		Metadata:             map[string]string{"contract": "acme-2024"},
		Parent: &stripe.InvoiceParent{
			SubscriptionDetails: &stripe.InvoiceParentSubscriptionDetails{
				Subscription: &stripe.Subscription{ID: "sub_src_1"},
			},
		},
		TotalTaxes: []*stripe.InvoiceTotalTax{
			{Amount: 300},
			{Amount: 200},
		},
		Lines: &stripe.InvoiceLineItemList{
			Data: []*stripe.InvoiceLineItem{
				{
					ID:          "il_src_001",
					Description: "Optimization platform",
					Quantity:    1,
					Amount:      5000,
					Currency:    stripe.CurrencyUSD,
					Period:      &stripe.Period{Start: 1704067200, End: 1706745600},
					Pricing: &stripe.InvoiceLineItemPricing{
						PriceDetails: &stripe.InvoiceLineItemPricingPriceDetails{
							Price: "price_src_1",
						},
					},
					Taxes: []*stripe.InvoiceLineItemTax{
						{Amount: 500, TaxRateDetails: &stripe.InvoiceLineItemTaxTaxRateDetails{TaxRate: "txr_src_1"}},
					},
				},
			},
		},
	}

	inv := FromStripeInvoice(si)
	require.NotNil(t, inv)

	assert.Equal(t, "in_src_001", inv.ID)
	assert.Equal(t, types.InvoiceStatusPaid, inv.Status)
	assert.Equal(t, "cus_src_1", inv.CustomerID)
	assert.Equal(t, "sub_src_1", lo.FromPtr(inv.SubscriptionID))
	assert.Equal(t, "usd", inv.Currency)
	assert.Equal(t, int64(500), inv.Tax)
	assert.Equal(t, types.CollectionMethodChargeAutomatically, inv.CollectionMethod)
	assert.Equal(t, types.Metadata{"contract": "acme-2024"}, inv.Metadata)

	require.Len(t, inv.LineItems, 1)
	line := inv.LineItems[0]
	assert.Equal(t, "price_src_1", line.PriceID)
	assert.Equal(t, int64(1704067200), line.Period.Start)
	require.Len(t, line.TaxAmounts, 1)
	assert.Equal(t, "txr_src_1", line.TaxAmounts[0].TaxRateID)
}

func TestFromStripeInvoiceNil(t *testing.T) {
	assert.Nil(t, FromStripeInvoice(nil))
}

func TestFromStripeInvoiceStandalone(t *testing.T) {
	inv := FromStripeInvoice(&stripe.Invoice{
		ID:       "in_src_002",
		Status:   stripe.InvoiceStatusOpen,
		Customer: &stripe.Customer{ID: "cus_src_1"},
	})

	assert.Nil(t, inv.SubscriptionID)
	assert.Empty(t, inv.LineItems)
	assert.Zero(t, inv.Tax)
}
