package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/samber/lo"

	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/domain/invoice"
	ierr "github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/errors"
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/types"
)

// BalanceCredit records one customer balance credit issued against the
// fake destination account.
type BalanceCredit struct {
	CustomerID  string
	Amount      int64
	Currency    string
	Description string
}

// InMemoryDestinationAccount simulates the account being migrated to:
// draft creation, line attachment and the finalize/pay/void/
// uncollectible transitions, with injectable failures per operation.
type InMemoryDestinationAccount struct {
	mu       sync.Mutex
	seq      int
	invoices map[string]*invoice.Invoice

	// PriceAmounts maps a destination price ID to the minor-unit amount
	// a line billed at that price contributes
	PriceAmounts map[string]int64

	// Currency is assigned to every created invoice, the way the real
	// API derives it from the customer's default
	Currency string

	// Calls records every API operation in order, as "op invoice_id"
	Calls []string

	// Credits records every customer balance credit in order
	Credits []BalanceCredit

	FailCreate            error
	FailAddLines          error
	FailFinalize          error
	FailPay               error
	FailVoid              error
	FailMarkUncollectible error
	FailCredit            error
	FailPing              error
}

func NewInMemoryDestinationAccount() *InMemoryDestinationAccount {
	return &InMemoryDestinationAccount{
		invoices:     make(map[string]*invoice.Invoice),
		PriceAmounts: make(map[string]int64),
		Currency:     "usd",
	}
}

// Invoice returns the current state of an invoice, or nil
func (s *InMemoryDestinationAccount) Invoice(invoiceID string) *invoice.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invoices[invoiceID]
}

// CreatedCount returns how many invoices have been created
func (s *InMemoryDestinationAccount) CreatedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.invoices)
}

func (s *InMemoryDestinationAccount) Create(ctx context.Context, req *invoice.CreateRequest) (*invoice.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailCreate != nil {
		return nil, s.FailCreate
	}

	s.seq++
	inv := &invoice.Invoice{
		ID:               fmt.Sprintf("in_test_%03d", s.seq),
		Number:           req.Number,
		Status:           types.InvoiceStatusDraft,
		CustomerID:       req.CustomerID,
		SubscriptionID:   req.SubscriptionID,
		Currency:         s.Currency,
		CollectionMethod: req.CollectionMethod,
		EffectiveAt:      req.EffectiveAt,
		Description:      req.Description,
		Footer:           req.Footer,
		CustomFields:     req.CustomFields,
		Coupon:           req.Coupon,
		Metadata:         req.Metadata,
	}
	s.invoices[inv.ID] = inv
	s.record("create", inv.ID)
	return s.snapshot(inv), nil
}

func (s *InMemoryDestinationAccount) AddLines(ctx context.Context, invoiceID string, req *invoice.AddLinesRequest) (*invoice.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailAddLines != nil {
		return nil, s.FailAddLines
	}

	inv, err := s.get(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status != types.InvoiceStatusDraft {
		return nil, ierr.NewErrorf("invoice %s is %s, lines require a draft", invoiceID, inv.Status).
			Mark(ierr.ErrDownstreamAPI)
	}

	for _, l := range req.Lines {
		s.seq++
		amount := s.PriceAmounts[l.PriceID]
		inv.LineItems = append(inv.LineItems, &invoice.LineItem{
			ID:          fmt.Sprintf("il_test_%03d", s.seq),
			Description: l.Description,
			PriceID:     l.PriceID,
			Quantity:    1,
			Amount:      amount,
			Currency:    inv.Currency,
			Period:      l.Period,
		})
	}
	inv.Subtotal = lo.SumBy(inv.LineItems, func(li *invoice.LineItem) int64 { return li.Amount })
	inv.SubtotalExcludingTax = inv.Subtotal
	inv.Total = inv.Subtotal
	inv.AmountDue = inv.Total
	s.record("add_lines", invoiceID)
	return s.snapshot(inv), nil
}

func (s *InMemoryDestinationAccount) Finalize(ctx context.Context, invoiceID string) (*invoice.Invoice, error) {
	return s.transition(invoiceID, "finalize", s.FailFinalize,
		types.InvoiceStatusDraft, types.InvoiceStatusOpen, nil)
}

func (s *InMemoryDestinationAccount) Pay(ctx context.Context, invoiceID string) (*invoice.Invoice, error) {
	return s.transition(invoiceID, "pay", s.FailPay,
		types.InvoiceStatusOpen, types.InvoiceStatusPaid, func(inv *invoice.Invoice) {
			inv.AmountPaid = inv.Total
			inv.AmountDue = 0
			inv.PaidOutOfBand = true
		})
}

func (s *InMemoryDestinationAccount) Void(ctx context.Context, invoiceID string) (*invoice.Invoice, error) {
	return s.transition(invoiceID, "void", s.FailVoid,
		types.InvoiceStatusOpen, types.InvoiceStatusVoid, nil)
}

func (s *InMemoryDestinationAccount) MarkUncollectible(ctx context.Context, invoiceID string) (*invoice.Invoice, error) {
	return s.transition(invoiceID, "mark_uncollectible", s.FailMarkUncollectible,
		types.InvoiceStatusOpen, types.InvoiceStatusUncollectible, nil)
}

func (s *InMemoryDestinationAccount) CreditCustomerBalance(ctx context.Context, customerID string, amount int64, currency string, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailCredit != nil {
		return s.FailCredit
	}
	s.Credits = append(s.Credits, BalanceCredit{
		CustomerID:  customerID,
		Amount:      amount,
		Currency:    currency,
		Description: description,
	})
	s.record("credit_balance", customerID)
	return nil
}

func (s *InMemoryDestinationAccount) Ping(ctx context.Context) error {
	return s.FailPing
}

func (s *InMemoryDestinationAccount) transition(invoiceID, op string, injected error, from, to types.InvoiceStatus, apply func(*invoice.Invoice)) (*invoice.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if injected != nil {
		return nil, injected
	}

	inv, err := s.get(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status != from {
		return nil, ierr.NewErrorf("invoice %s is %s, %s requires %s", invoiceID, inv.Status, op, from).
			Mark(ierr.ErrDownstreamAPI)
	}
	inv.Status = to
	if apply != nil {
		apply(inv)
	}
	s.record(op, invoiceID)
	return s.snapshot(inv), nil
}

func (s *InMemoryDestinationAccount) get(invoiceID string) (*invoice.Invoice, error) {
	inv, ok := s.invoices[invoiceID]
	if !ok {
		return nil, ierr.NewErrorf("invoice %s not found", invoiceID).
			Mark(ierr.ErrNotFound)
	}
	return inv, nil
}

func (s *InMemoryDestinationAccount) record(op, id string) {
	s.Calls = append(s.Calls, fmt.Sprintf("%s %s", op, id))
}

// snapshot copies the invoice so later transitions cannot mutate what a
// caller already recorded
func (s *InMemoryDestinationAccount) snapshot(inv *invoice.Invoice) *invoice.Invoice {
	clone := *inv
	clone.LineItems = lo.Map(inv.LineItems, func(li *invoice.LineItem, _ int) *invoice.LineItem {
		lc := *li
		return &lc
	})
	return &clone
}
