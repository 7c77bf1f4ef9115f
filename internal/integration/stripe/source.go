package stripe

import (
	"context"

	"github.com/stripe/stripe-go/v82"

	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/domain/invoice"
	ierr "github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/errors"
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/logger"
)

// SourceAccount reads invoices from the account being migrated away
// from. It never writes.
type SourceAccount struct {
	client *stripe.Client
	logger *logger.Logger
}

func NewSourceAccount(secretKey string, logger *logger.Logger) *SourceAccount {
	return &SourceAccount{
		client: newStripeClient(secretKey),
		logger: logger,
	}
}

// ListByCustomer returns every invoice of the customer, all statuses
// included. Filtering by status or discount is the caller's concern.
func (s *SourceAccount) ListByCustomer(ctx context.Context, customerID string) ([]*invoice.Invoice, error) {
	params := &stripe.InvoiceListParams{
		Customer: stripe.String(customerID),
	}
	params.Limit = stripe.Int64(100)

	invoices := make([]*invoice.Invoice, 0)
	for inv, err := range s.client.V1Invoices.List(ctx, params) {
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("failed to list invoices from source account").
				WithReportableDetails(map[string]interface{}{
					"customer_id": customerID,
				}).
				Mark(ierr.ErrDownstreamAPI)
		}
		invoices = append(invoices, FromStripeInvoice(inv))
	}
	return invoices, nil
}

// GetTaxRate resolves a tax rate's display fields for reporting.
func (s *SourceAccount) GetTaxRate(ctx context.Context, taxRateID string) (*invoice.TaxRate, error) {
	rate, err := s.client.V1TaxRates.Retrieve(ctx, taxRateID, nil)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to retrieve tax rate from source account").
			WithReportableDetails(map[string]interface{}{
				"tax_rate_id": taxRateID,
			}).
			Mark(ierr.ErrDownstreamAPI)
	}
	return &invoice.TaxRate{
		ID:          rate.ID,
		DisplayName: rate.DisplayName,
		Percentage:  rate.Percentage,
		Inclusive:   rate.Inclusive,
	}, nil
}

// Ping verifies the key is valid and the account reachable.
func (s *SourceAccount) Ping(ctx context.Context) error {
	params := &stripe.InvoiceListParams{}
	params.Limit = stripe.Int64(1)
	for _, err := range s.client.V1Invoices.List(ctx, params) {
		if err != nil {
			return ierr.WithError(err).
				WithHint("source account is not reachable").
				Mark(ierr.ErrDownstreamAPI)
		}
		break
	}
	return nil
}
