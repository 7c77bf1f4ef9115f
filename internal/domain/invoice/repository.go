package invoice

import "context"

// SourceRepository reads invoices from the source account. The source
// account is never mutated; retries and rate limiting are the
// underlying client's responsibility.
type SourceRepository interface {
	// ListByCustomer returns every invoice of the given source customer
	ListByCustomer(ctx context.Context, customerID string) ([]*Invoice, error)
	// GetTaxRate reads one tax rate referenced by a line item tax amount
	GetTaxRate(ctx context.Context, taxRateID string) (*TaxRate, error)
	// Ping verifies the account is reachable with the configured key
	Ping(ctx context.Context) error
}

// DestinationRepository mutates the destination account. Every call
// maps to exactly one API operation; the state machine owns ordering.
type DestinationRepository interface {
	// Create submits the creation request and returns the draft invoice
	Create(ctx context.Context, req *CreateRequest) (*Invoice, error)
	// AddLines attaches line items to a draft invoice
	AddLines(ctx context.Context, invoiceID string, req *AddLinesRequest) (*Invoice, error)
	// Finalize makes a draft invoice immutable and payable
	Finalize(ctx context.Context, invoiceID string) (*Invoice, error)
	// Pay marks a finalized invoice paid out-of-band, without charging
	// a payment method
	Pay(ctx context.Context, invoiceID string) (*Invoice, error)
	// Void voids a finalized invoice
	Void(ctx context.Context, invoiceID string) (*Invoice, error)
	// MarkUncollectible marks a finalized invoice uncollectible
	MarkUncollectible(ctx context.Context, invoiceID string) (*Invoice, error)
	// CreditCustomerBalance credits the customer's balance by amount
	// (a negative balance transaction of the given amount)
	CreditCustomerBalance(ctx context.Context, customerID string, amount int64, currency string, description string) error
	// Ping verifies the account is reachable with the configured key
	Ping(ctx context.Context) error
}
