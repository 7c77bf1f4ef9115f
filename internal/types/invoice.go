package types

import (
	"github.com/samber/lo"

	ierr "github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/errors"
)

// InvoiceStatus represents the lifecycle state of a Stripe invoice.
// Values match the wire values of the Stripe API.
type InvoiceStatus string

const (
	// InvoiceStatusDraft indicates the invoice is mutable and has not
	// been finalized yet
	InvoiceStatusDraft InvoiceStatus = "draft"
	// InvoiceStatusOpen indicates the invoice is finalized and awaiting
	// payment
	InvoiceStatusOpen InvoiceStatus = "open"
	// InvoiceStatusPaid indicates the invoice has been paid
	InvoiceStatusPaid InvoiceStatus = "paid"
	// InvoiceStatusVoid indicates the invoice has been voided
	InvoiceStatusVoid InvoiceStatus = "void"
	// InvoiceStatusUncollectible indicates payment is not expected
	InvoiceStatusUncollectible InvoiceStatus = "uncollectible"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) Validate() error {
	allowed := []InvoiceStatus{
		InvoiceStatusDraft,
		InvoiceStatusOpen,
		InvoiceStatusPaid,
		InvoiceStatusVoid,
		InvoiceStatusUncollectible,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid invoice status").
			WithHint("Please provide a valid invoice status").
			WithReportableDetails(map[string]any{
				"status":  s,
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CollectionMethod determines how a destination invoice is collected
type CollectionMethod string

const (
	// charge_automatically attempts payment with the customer's default
	// payment method on finalization
	CollectionMethodChargeAutomatically CollectionMethod = "charge_automatically"
	// send_invoice emails the invoice and waits for manual payment
	CollectionMethodSendInvoice CollectionMethod = "send_invoice"
)

func (c CollectionMethod) String() string {
	return string(c)
}
