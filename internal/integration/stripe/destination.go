package stripe

import (
	"context"

	"github.com/samber/lo"
	"github.com/stripe/stripe-go/v82"

	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/domain/invoice"
	ierr "github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/errors"
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/logger"
)

// DestinationAccount creates and drives invoices in the account being
// migrated to.
type DestinationAccount struct {
	client *stripe.Client
	logger *logger.Logger
}

func NewDestinationAccount(secretKey string, logger *logger.Logger) *DestinationAccount {
	return &DestinationAccount{
		client: newStripeClient(secretKey),
		logger: logger,
	}
}

// Create opens a draft invoice in the destination account
func (d *DestinationAccount) Create(ctx context.Context, req *invoice.CreateRequest) (*invoice.Invoice, error) {
	params := &stripe.InvoiceCreateParams{
		Customer:         stripe.String(req.CustomerID),
		Number:           stripe.String(req.Number),
		CollectionMethod: stripe.String(string(req.CollectionMethod)),
		AutoAdvance:      stripe.Bool(req.AutoAdvance),
		DaysUntilDue:     stripe.Int64(req.DaysUntilDue),
		EffectiveAt:      stripe.Int64(req.EffectiveAt),
		Metadata:         req.Metadata,
	}
	if req.SubscriptionID != nil {
		params.Subscription = stripe.String(*req.SubscriptionID)
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if req.Footer != "" {
		params.Footer = stripe.String(req.Footer)
	}
	if len(req.CustomFields) > 0 {
		params.CustomFields = lo.Map(req.CustomFields, func(f invoice.CustomField, _ int) *stripe.InvoiceCreateCustomFieldParams {
			return &stripe.InvoiceCreateCustomFieldParams{
				Name:  stripe.String(f.Name),
				Value: stripe.String(f.Value),
			}
		})
	}
	if req.Coupon != nil {
		params.Discounts = []*stripe.InvoiceCreateDiscountParams{
			{Coupon: stripe.String(*req.Coupon)},
		}
	}

	created, err := d.client.V1Invoices.Create(ctx, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to create draft invoice in destination account").
			WithReportableDetails(map[string]interface{}{
				"customer_id": req.CustomerID,
				"number":      req.Number,
			}).
			Mark(ierr.ErrDownstreamAPI)
	}
	return FromStripeInvoice(created), nil
}

// AddLines attaches the request's lines to a draft invoice in a single call
func (d *DestinationAccount) AddLines(ctx context.Context, invoiceID string, req *invoice.AddLinesRequest) (*invoice.Invoice, error) {
	params := &stripe.InvoiceAddLinesParams{
		Lines: lo.Map(req.Lines, func(l invoice.LineParams, _ int) *stripe.InvoiceAddLinesLineParams {
			return &stripe.InvoiceAddLinesLineParams{
				Description: stripe.String(l.Description),
				Pricing: &stripe.InvoiceAddLinesLinePricingParams{
					Price: stripe.String(l.PriceID),
				},
				Period: &stripe.InvoiceAddLinesLinePeriodParams{
					Start: stripe.Int64(l.Period.Start),
					End:   stripe.Int64(l.Period.End),
				},
			}
		}),
	}

	updated, err := d.client.V1Invoices.AddLines(ctx, invoiceID, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to add lines to draft invoice").
			WithReportableDetails(map[string]interface{}{
				"invoice_id": invoiceID,
				"line_count": len(req.Lines),
			}).
			Mark(ierr.ErrDownstreamAPI)
	}
	return FromStripeInvoice(updated), nil
}

// Finalize moves a draft invoice to open without scheduling any
// automatic collection
func (d *DestinationAccount) Finalize(ctx context.Context, invoiceID string) (*invoice.Invoice, error) {
	params := &stripe.InvoiceFinalizeInvoiceParams{
		AutoAdvance: stripe.Bool(false),
	}
	finalized, err := d.client.V1Invoices.FinalizeInvoice(ctx, invoiceID, params)
	if err != nil {
		return nil, d.wrapped(err, "failed to finalize invoice", invoiceID)
	}
	return FromStripeInvoice(finalized), nil
}

// Pay marks an open invoice paid out of band. No charge is attempted.
func (d *DestinationAccount) Pay(ctx context.Context, invoiceID string) (*invoice.Invoice, error) {
	params := &stripe.InvoicePayParams{
		PaidOutOfBand: stripe.Bool(true),
	}
	paid, err := d.client.V1Invoices.Pay(ctx, invoiceID, params)
	if err != nil {
		return nil, d.wrapped(err, "failed to pay invoice out of band", invoiceID)
	}
	return FromStripeInvoice(paid), nil
}

// Void voids an open or draft-finalized invoice
func (d *DestinationAccount) Void(ctx context.Context, invoiceID string) (*invoice.Invoice, error) {
	voided, err := d.client.V1Invoices.VoidInvoice(ctx, invoiceID, &stripe.InvoiceVoidInvoiceParams{})
	if err != nil {
		return nil, d.wrapped(err, "failed to void invoice", invoiceID)
	}
	return FromStripeInvoice(voided), nil
}

// MarkUncollectible marks an open invoice uncollectible
func (d *DestinationAccount) MarkUncollectible(ctx context.Context, invoiceID string) (*invoice.Invoice, error) {
	marked, err := d.client.V1Invoices.MarkUncollectible(ctx, invoiceID, &stripe.InvoiceMarkUncollectibleParams{})
	if err != nil {
		return nil, d.wrapped(err, "failed to mark invoice uncollectible", invoiceID)
	}
	return FromStripeInvoice(marked), nil
}

// CreditCustomerBalance grants the customer a credit of amount minor
// units. Stripe models credits as negative balance transactions, so the
// amount is negated on the wire.
func (d *DestinationAccount) CreditCustomerBalance(ctx context.Context, customerID string, amount int64, currency string, description string) error {
	params := &stripe.CustomerBalanceTransactionCreateParams{
		Customer:    stripe.String(customerID),
		Amount:      stripe.Int64(-amount),
		Currency:    stripe.String(currency),
		Description: stripe.String(description),
	}
	if _, err := d.client.V1CustomerBalanceTransactions.Create(ctx, params); err != nil {
		return ierr.WithError(err).
			WithHint("failed to credit customer balance").
			WithReportableDetails(map[string]interface{}{
				"customer_id": customerID,
				"amount":      amount,
				"currency":    currency,
			}).
			Mark(ierr.ErrDownstreamAPI)
	}
	return nil
}

// Ping verifies the key is valid and the account reachable.
func (d *DestinationAccount) Ping(ctx context.Context) error {
	params := &stripe.InvoiceListParams{}
	params.Limit = stripe.Int64(1)
	for _, err := range d.client.V1Invoices.List(ctx, params) {
		if err != nil {
			return ierr.WithError(err).
				WithHint("destination account is not reachable").
				Mark(ierr.ErrDownstreamAPI)
		}
		break
	}
	return nil
}

func (d *DestinationAccount) wrapped(err error, hint string, invoiceID string) error {
	return ierr.WithError(err).
		WithHint(hint).
		WithReportableDetails(map[string]interface{}{
			"invoice_id": invoiceID,
		}).
		Mark(ierr.ErrDownstreamAPI)
}
