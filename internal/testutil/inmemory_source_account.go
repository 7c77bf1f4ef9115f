package testutil

import (
	"context"
	"sync"

	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/domain/invoice"
	ierr "github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/errors"
)

// InMemorySourceAccount is a read-only stand-in for the account being
// migrated from.
type InMemorySourceAccount struct {
	mu       sync.RWMutex
	invoices map[string][]*invoice.Invoice
	taxRates map[string]*invoice.TaxRate

	// ListErr, when set, is returned by every ListByCustomer call
	ListErr error
}

func NewInMemorySourceAccount() *InMemorySourceAccount {
	return &InMemorySourceAccount{
		invoices: make(map[string][]*invoice.Invoice),
		taxRates: make(map[string]*invoice.TaxRate),
	}
}

// AddInvoice registers an invoice under its customer
func (s *InMemorySourceAccount) AddInvoice(inv *invoice.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[inv.CustomerID] = append(s.invoices[inv.CustomerID], inv)
}

// AddTaxRate registers a tax rate for GetTaxRate lookups
func (s *InMemorySourceAccount) AddTaxRate(rate *invoice.TaxRate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taxRates[rate.ID] = rate
}

func (s *InMemorySourceAccount) ListByCustomer(ctx context.Context, customerID string) ([]*invoice.Invoice, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*invoice.Invoice(nil), s.invoices[customerID]...), nil
}

func (s *InMemorySourceAccount) GetTaxRate(ctx context.Context, taxRateID string) (*invoice.TaxRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rate, ok := s.taxRates[taxRateID]
	if !ok {
		return nil, ierr.NewErrorf("tax rate %s not found", taxRateID).
			Mark(ierr.ErrNotFound)
	}
	return rate, nil
}

func (s *InMemorySourceAccount) Ping(ctx context.Context) error {
	return s.ListErr
}
