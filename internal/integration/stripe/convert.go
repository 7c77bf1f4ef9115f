package stripe

import (
	"github.com/samber/lo"
	"github.com/stripe/stripe-go/v82"

	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/domain/invoice"
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/types"
)

// FromStripeInvoice flattens a Stripe invoice into the account-agnostic
// snapshot the engine works with. Both accounts' invoices go through
// the same conversion so the comparator sees identical shapes.
func FromStripeInvoice(si *stripe.Invoice) *invoice.Invoice {
	if si == nil {
		return nil
	}

	inv := &invoice.Invoice{
		ID:                   si.ID,
		Number:               si.Number,
		Status:               types.InvoiceStatus(si.Status),
		CustomerName:         si.CustomerName,
		AccountName:          si.AccountName,
		Currency:             string(si.Currency),
		Total:                si.Total,
		Subtotal:             si.Subtotal,
		SubtotalExcludingTax: si.SubtotalExcludingTax,
		Tax:                  totalTax(si),
		AmountDue:            si.AmountDue,
		AmountPaid:           si.AmountPaid,
		Created:              si.Created,
		DueDate:              si.DueDate,
		EffectiveAt:          si.EffectiveAt,
		PeriodStart:          si.PeriodStart,
		PeriodEnd:            si.PeriodEnd,
		CollectionMethod:     types.CollectionMethod(si.CollectionMethod),
		Description:          si.Description,
		Footer:               si.Footer,
		Metadata:             types.Metadata(si.Metadata),
		PaidOutOfBand:        si.PaidOutOfBand,
	}

	if si.Customer != nil {
		inv.CustomerID = si.Customer.ID
	}
	if sub := subscriptionID(si); sub != "" {
		inv.SubscriptionID = lo.ToPtr(sub)
	}
	if len(si.CustomFields) > 0 {
		inv.CustomFields = lo.Map(si.CustomFields, func(f *stripe.InvoiceCustomField, _ int) invoice.CustomField {
			return invoice.CustomField{Name: f.Name, Value: f.Value}
		})
	}
	for _, d := range si.Discounts {
		if d == nil {
			continue
		}
		inv.DiscountIDs = append(inv.DiscountIDs, d.ID)
		if inv.Coupon == nil && d.Coupon != nil {
			inv.Coupon = lo.ToPtr(d.Coupon.ID)
		}
	}
	if si.Lines != nil {
		inv.LineItems = lo.Map(si.Lines.Data, func(li *stripe.InvoiceLineItem, _ int) *invoice.LineItem {
			return fromStripeLine(li)
		})
	}
	return inv
}

func fromStripeLine(li *stripe.InvoiceLineItem) *invoice.LineItem {
	line := &invoice.LineItem{
		ID:          li.ID,
		Description: li.Description,
		Quantity:    li.Quantity,
		Amount:      li.Amount,
		Currency:    string(li.Currency),
	}
	if li.Period != nil {
		line.Period = invoice.Period{
			Start: li.Period.Start,
			End:   li.Period.End,
		}
	}
	if li.Pricing != nil && li.Pricing.PriceDetails != nil {
		line.PriceID = li.Pricing.PriceDetails.Price
	}
	for _, t := range li.Taxes {
		if t == nil {
			continue
		}
		ta := invoice.TaxAmount{Amount: t.Amount}
		if t.TaxRateDetails != nil {
			ta.TaxRateID = t.TaxRateDetails.TaxRate
		}
		line.TaxAmounts = append(line.TaxAmounts, ta)
	}
	for _, da := range li.DiscountAmounts {
		if da == nil {
			continue
		}
		amount := invoice.DiscountAmount{Amount: da.Amount}
		if da.Discount != nil {
			amount.DiscountID = da.Discount.ID
		}
		line.DiscountAmounts = append(line.DiscountAmounts, amount)
	}
	return line
}

// subscriptionID digs the linked subscription out of the invoice's
// parent details, which is where the API reports it.
func subscriptionID(si *stripe.Invoice) string {
	if si.Parent == nil || si.Parent.SubscriptionDetails == nil {
		return ""
	}
	if sub := si.Parent.SubscriptionDetails.Subscription; sub != nil {
		return sub.ID
	}
	return ""
}

func totalTax(si *stripe.Invoice) int64 {
	return lo.SumBy(si.TotalTaxes, func(t *stripe.InvoiceTotalTax) int64 {
		if t == nil {
			return 0
		}
		return t.Amount
	})
}
