package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors for the migration domain. Per-invoice failures are
// marked with one of these so the orchestrator and the results recorder
// can classify them without string matching.
var (
	ErrNotFound                   = new(ErrCodeNotFound, "resource not found")
	ErrValidation                 = new(ErrCodeValidation, "validation error")
	ErrMissingCustomerMapping     = new(ErrCodeMissingCustomerMapping, "no destination customer mapping")
	ErrMissingSubscriptionMapping = new(ErrCodeMissingSubscriptionMapping, "no destination subscription mapping")
	ErrMissingPriceMapping        = new(ErrCodeMissingPriceMapping, "no destination price mapping")
	ErrLineAttachment             = new(ErrCodeLineAttachment, "failed to attach line items")
	ErrUnexpectedInvoiceStatus    = new(ErrCodeUnexpectedInvoiceStatus, "unexpected invoice status")
	ErrDownstreamAPI              = new(ErrCodeDownstreamAPI, "destination account api error")
	ErrSystem                     = new(ErrCodeSystemError, "system error")
)

const (
	ErrCodeNotFound                   = "not_found"
	ErrCodeValidation                 = "validation_error"
	ErrCodeMissingCustomerMapping     = "missing_customer_mapping"
	ErrCodeMissingSubscriptionMapping = "missing_subscription_mapping"
	ErrCodeMissingPriceMapping        = "missing_price_mapping"
	ErrCodeLineAttachment             = "line_attachment_failure"
	ErrCodeUnexpectedInvoiceStatus    = "unexpected_invoice_status"
	ErrCodeDownstreamAPI              = "downstream_api_failure"
	ErrCodeSystemError                = "system_error"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Is(err error, reference error) bool {
	return errors.Is(err, reference)
}

// Code returns the machine-readable code of the sentinel the error is
// marked with, or the generic system code when it is unclassified.
func Code(err error) string {
	for _, sentinel := range []*InternalError{
		ErrNotFound,
		ErrValidation,
		ErrMissingCustomerMapping,
		ErrMissingSubscriptionMapping,
		ErrMissingPriceMapping,
		ErrLineAttachment,
		ErrUnexpectedInvoiceStatus,
		ErrDownstreamAPI,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Code
		}
	}
	return ErrCodeSystemError
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsMissingMapping checks if an error is any of the missing mapping errors
func IsMissingMapping(err error) bool {
	return errors.Is(err, ErrMissingCustomerMapping) ||
		errors.Is(err, ErrMissingSubscriptionMapping) ||
		errors.Is(err, ErrMissingPriceMapping)
}

// IsDownstreamAPI checks if an error is a destination account api error
func IsDownstreamAPI(err error) bool {
	return errors.Is(err, ErrDownstreamAPI)
}
