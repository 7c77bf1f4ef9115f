package migration

import (
	"context"
	"fmt"

	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/domain/invoice"
	ierr "github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/errors"
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/logger"
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/mapping"
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/types"
)

// ServiceParams holds the dependencies of the migration service
type ServiceParams struct {
	Logger      *logger.Logger
	Source      invoice.SourceRepository
	Destination invoice.DestinationRepository
	Resolver    *mapping.Resolver
	Recorder    *Recorder
	Mode        types.RunMode
}

// finalizeFunc drives a line-attached draft invoice to the terminal
// state matching one source status
type finalizeFunc func(ctx context.Context, draft *invoice.Invoice) (*invoice.Invoice, error)

// Service is the per-invoice migration state machine. It orchestrates
// creation, line attachment and the status-dependent finalization path,
// with a compensating void on partial failure. Invoices are processed
// strictly sequentially: creation, attachment and status transitions
// must appear in order to the destination ledger.
type Service struct {
	logger      *logger.Logger
	source      invoice.SourceRepository
	destination invoice.DestinationRepository
	resolver    *mapping.Resolver
	recorder    *Recorder
	transformer *Transformer
	mode        types.RunMode

	// terminal state dispatch, keyed by the source invoice's status;
	// adding a new terminal status is a data change here
	transitions map[types.InvoiceStatus]finalizeFunc
}

func NewService(params ServiceParams) *Service {
	s := &Service{
		logger:      params.Logger,
		source:      params.Source,
		destination: params.Destination,
		resolver:    params.Resolver,
		recorder:    params.Recorder,
		transformer: NewTransformer(params.Resolver, params.Source, params.Mode, params.Logger),
		mode:        params.Mode,
	}

	s.transitions = map[types.InvoiceStatus]finalizeFunc{
		types.InvoiceStatusPaid:          s.payOutOfBand,
		types.InvoiceStatusUncollectible: s.markUncollectible,
		types.InvoiceStatusVoid:          s.voidDraft,
		types.InvoiceStatusOpen:          s.leaveOpen,
	}

	return s
}

// Transformer exposes the service's transformer, mainly so tests can
// pin its clock
func (s *Service) Transformer() *Transformer {
	return s.transformer
}

// ShouldMigrate applies the eligibility pre-filter. Discount semantics
// are not portable across accounts, so discounted invoices are skipped
// entirely rather than failed.
func (s *Service) ShouldMigrate(sourceInvoice *invoice.Invoice) bool {
	return !sourceInvoice.HasDiscount()
}

// MigrateAllForCustomers runs the full migration: for every configured
// customer mapping, list the source invoices, filter out ineligible
// ones and feed each eligible invoice through the state machine. One
// invoice's failure never blocks its siblings.
func (s *Service) MigrateAllForCustomers(ctx context.Context) error {
	for _, fromCustomerID := range s.resolver.Mappings().CustomerIDs() {
		toCustomerID := s.resolver.Mappings().Customers[fromCustomerID]
		s.logger.Infow("migrating invoices for customer",
			"from_customer_id", fromCustomerID,
			"to_customer_id", toCustomerID)

		sourceInvoices, err := s.source.ListByCustomer(ctx, fromCustomerID)
		if err != nil {
			s.logger.Errorw("failed to list source invoices for customer",
				"customer_id", fromCustomerID,
				"error", err)
			continue
		}

		for _, sourceInvoice := range sourceInvoices {
			if !s.ShouldMigrate(sourceInvoice) {
				s.logger.Infow("skipping invoice with attached discount",
					"invoice_id", sourceInvoice.ID)
				continue
			}

			if _, err := s.MigrateInvoice(ctx, sourceInvoice); err != nil {
				s.logger.Errorw("error migrating invoice",
					"invoice_id", sourceInvoice.ID,
					"error", err)
			}
		}
	}

	return nil
}

// MigrateInvoice drives one source invoice through the state machine:
// build both requests, create the draft, attach lines, then finalize or
// void depending on the run mode. Every error is caught at this
// boundary and recorded exactly once.
func (s *Service) MigrateInvoice(ctx context.Context, sourceInvoice *invoice.Invoice) (*invoice.Invoice, error) {
	migratedInvoice, err := s.migrateInvoice(ctx, sourceInvoice)
	if err != nil {
		s.recorder.RecordFailure(sourceInvoice, err)
		return nil, err
	}

	s.recorder.Record(sourceInvoice, migratedInvoice)
	s.logger.Infow("migrated invoice",
		"source_invoice_id", sourceInvoice.ID,
		"destination_invoice_id", migratedInvoice.ID,
		"terminal_status", migratedInvoice.Status)

	return migratedInvoice, nil
}

func (s *Service) migrateInvoice(ctx context.Context, sourceInvoice *invoice.Invoice) (*invoice.Invoice, error) {
	// Both requests are built before any destination call so that a
	// missing mapping fails the invoice without creating anything
	createReq, err := s.transformer.BuildCreateRequest(sourceInvoice)
	if err != nil {
		return nil, err
	}

	addLinesReq, err := s.transformer.BuildAddLinesRequest(ctx, sourceInvoice)
	if err != nil {
		return nil, err
	}

	draft, err := s.destination.Create(ctx, createReq)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to create destination invoice for %s", sourceInvoice.ID).
			Mark(ierr.ErrDownstreamAPI)
	}

	migratedInvoice, err := s.destination.AddLines(ctx, draft.ID, addLinesReq)
	if err != nil {
		// Roll back the orphaned draft. The attachment error stays the
		// primary failure even if the compensating void also fails.
		s.logger.Errorw("error adding line items to invoice, voiding invoice",
			"destination_invoice_id", draft.ID,
			"source_invoice_id", sourceInvoice.ID,
			"error", err)

		if _, voidErr := s.voidDraft(ctx, draft); voidErr != nil {
			s.logger.Errorw("compensating void of draft invoice failed",
				"destination_invoice_id", draft.ID,
				"error", voidErr)
		}

		return nil, ierr.WithError(err).
			WithHintf("Failed to attach line items to destination invoice %s", draft.ID).
			Mark(ierr.ErrLineAttachment)
	}

	if s.mode.IsDryRun() {
		// Dry runs leave no open artifacts behind: the draft is always
		// voided after successful attachment, regardless of the source
		// invoice's status
		voided, err := s.voidDraft(ctx, migratedInvoice)
		if err != nil {
			return nil, err
		}
		s.logger.Infow("voided dry run invoice in destination account",
			"destination_invoice_id", voided.ID)
		return voided, nil
	}

	finalize, ok := s.transitions[sourceInvoice.Status]
	if !ok {
		return nil, ierr.NewErrorf("unexpected invoice status: %s", sourceInvoice.Status).
			WithReportableDetails(map[string]any{
				"invoice_id": sourceInvoice.ID,
				"status":     sourceInvoice.Status,
			}).
			Mark(ierr.ErrUnexpectedInvoiceStatus)
	}

	return finalize(ctx, migratedInvoice)
}

// payOutOfBand settles a migrated invoice for a source invoice that was
// paid: credit the customer's balance by the full invoice total, then
// mark the invoice paid out-of-band. The order is mandatory, paying
// without the matching credit would require real collection.
func (s *Service) payOutOfBand(ctx context.Context, draft *invoice.Invoice) (*invoice.Invoice, error) {
	if _, err := s.destination.Finalize(ctx, draft.ID); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to finalize destination invoice %s", draft.ID).
			Mark(ierr.ErrDownstreamAPI)
	}

	description := fmt.Sprintf("Credit for migrated invoice %s", draft.ID)
	if err := s.destination.CreditCustomerBalance(ctx, draft.CustomerID, draft.Total, draft.Currency, description); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to credit customer balance for invoice %s", draft.ID).
			Mark(ierr.ErrDownstreamAPI)
	}

	paid, err := s.destination.Pay(ctx, draft.ID)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to pay destination invoice %s out-of-band", draft.ID).
			Mark(ierr.ErrDownstreamAPI)
	}

	return paid, nil
}

// markUncollectible finalizes the draft, then marks it uncollectible
func (s *Service) markUncollectible(ctx context.Context, draft *invoice.Invoice) (*invoice.Invoice, error) {
	if _, err := s.destination.Finalize(ctx, draft.ID); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to finalize destination invoice %s", draft.ID).
			Mark(ierr.ErrDownstreamAPI)
	}

	uncollectible, err := s.destination.MarkUncollectible(ctx, draft.ID)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to mark destination invoice %s uncollectible", draft.ID).
			Mark(ierr.ErrDownstreamAPI)
	}

	return uncollectible, nil
}

// voidDraft finalizes the draft to make it voidable, then voids it
func (s *Service) voidDraft(ctx context.Context, draft *invoice.Invoice) (*invoice.Invoice, error) {
	if _, err := s.destination.Finalize(ctx, draft.ID); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to finalize destination invoice %s", draft.ID).
			Mark(ierr.ErrDownstreamAPI)
	}

	voided, err := s.destination.Void(ctx, draft.ID)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to void destination invoice %s", draft.ID).
			Mark(ierr.ErrDownstreamAPI)
	}

	return voided, nil
}

// leaveOpen finalizes the draft and leaves it awaiting payment
func (s *Service) leaveOpen(ctx context.Context, draft *invoice.Invoice) (*invoice.Invoice, error) {
	open, err := s.destination.Finalize(ctx, draft.ID)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to finalize destination invoice %s", draft.ID).
			Mark(ierr.ErrDownstreamAPI)
	}

	return open, nil
}

// TestConnection verifies both accounts are reachable with the
// configured keys before a run mutates anything
func (s *Service) TestConnection(ctx context.Context) error {
	if err := s.source.Ping(ctx); err != nil {
		return ierr.WithError(err).
			WithHint("Source account is not reachable").
			Mark(ierr.ErrDownstreamAPI)
	}
	s.logger.Infow("source account connection successful")

	if err := s.destination.Ping(ctx); err != nil {
		return ierr.WithError(err).
			WithHint("Destination account is not reachable").
			Mark(ierr.ErrDownstreamAPI)
	}
	s.logger.Infow("destination account connection successful")

	return nil
}
