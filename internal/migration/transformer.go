package migration

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/samber/lo"

	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/domain/invoice"
	ierr "github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/errors"
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/logger"
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/mapping"
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/types"
)

// maxInvoiceNumberLength is the id length ceiling Stripe enforces on
// invoice numbers
const maxInvoiceNumberLength = 26

// defaultDaysUntilDue is the fixed payment window given to every
// migrated invoice. Migrated invoices are never auto-charged.
const defaultDaysUntilDue = 30

// Transformer builds destination-account creation requests from source
// invoices. It is pure apart from the injected clock and the read-only
// tax rate lookups against the source account.
type Transformer struct {
	resolver *mapping.Resolver
	source   invoice.SourceRepository
	mode     types.RunMode
	taxRates *gocache.Cache
	logger   *logger.Logger
	now      func() time.Time
}

func NewTransformer(
	resolver *mapping.Resolver,
	source invoice.SourceRepository,
	mode types.RunMode,
	logger *logger.Logger,
) *Transformer {
	return &Transformer{
		resolver: resolver,
		source:   source,
		mode:     mode,
		taxRates: gocache.New(gocache.NoExpiration, gocache.NoExpiration),
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the wall clock. Tests use this to make derived
// invoice numbers and migration dates deterministic.
func (t *Transformer) WithClock(now func() time.Time) *Transformer {
	t.now = now
	return t
}

// BuildCreateRequest turns a source invoice into the destination
// invoice creation request, re-keying the customer and subscription ids
// and embedding full provenance metadata.
func (t *Transformer) BuildCreateRequest(sourceInvoice *invoice.Invoice) (*invoice.CreateRequest, error) {
	destinationCustomerID, err := t.resolver.Resolve(types.EntityKindCustomer, sourceInvoice.CustomerID)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Destination customer not found for invoice %s", sourceInvoice.ID).
			Mark(ierr.ErrMissingCustomerMapping)
	}

	var destinationSubscriptionID *string
	if sourceInvoice.IsSubscriptionLinked() {
		destSubID, err := t.resolver.Resolve(types.EntityKindSubscription, *sourceInvoice.SubscriptionID)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHintf("Destination subscription not found for invoice %s", sourceInvoice.ID).
				Mark(ierr.ErrMissingSubscriptionMapping)
		}
		destinationSubscriptionID = lo.ToPtr(destSubID)
	}

	// The effective date carries over; invoices without one fall back
	// to their creation time
	effectiveAt := sourceInvoice.EffectiveAt
	if effectiveAt == 0 {
		effectiveAt = sourceInvoice.Created
	}

	req := &invoice.CreateRequest{
		CustomerID:       destinationCustomerID,
		SubscriptionID:   destinationSubscriptionID,
		Number:           t.deriveInvoiceNumber(sourceInvoice),
		CollectionMethod: types.CollectionMethodSendInvoice,
		AutoAdvance:      false,
		DaysUntilDue:     defaultDaysUntilDue,
		EffectiveAt:      effectiveAt,
		Description:      sourceInvoice.Description,
		Footer:           sourceInvoice.Footer,
		CustomFields:     sourceInvoice.CustomFields,
		Metadata:         t.provenanceMetadata(sourceInvoice),
	}

	// Coupon codes are identical across the two accounts, so the
	// reference is copied verbatim when one is present
	if sourceInvoice.Coupon != nil && *sourceInvoice.Coupon != "" {
		req.Coupon = sourceInvoice.Coupon
	}

	return req, nil
}

// deriveInvoiceNumber appends the current epoch millis to the source
// number so the migrated invoice stays traceable but unique across
// repeated runs, truncated to Stripe's 26 char ceiling.
func (t *Transformer) deriveInvoiceNumber(sourceInvoice *invoice.Invoice) string {
	prefix := sourceInvoice.Number
	if prefix == "" {
		prefix = "inv"
	}

	number := fmt.Sprintf("%s-%d", prefix, t.now().UnixMilli())
	if len(number) > maxInvoiceNumberLength {
		number = number[:maxInvoiceNumberLength]
	}
	return number
}

func (t *Transformer) provenanceMetadata(sourceInvoice *invoice.Invoice) types.Metadata {
	originalDueDate := "not applicable"
	if sourceInvoice.DueDate != 0 {
		originalDueDate = types.EpochSecondsToISO(sourceInvoice.DueDate)
	}

	provenance := types.Metadata{
		"is_migrated_invoice":        "true",
		"migration_date":             t.now().UTC().Format(time.RFC3339),
		"original_invoice_id":        sourceInvoice.ID,
		"original_invoice_number":    sourceInvoice.Number,
		"original_invoice_date":      types.EpochSecondsToISO(sourceInvoice.Created),
		"original_invoice_due_date":  originalDueDate,
		"original_collection_method": sourceInvoice.CollectionMethod.String(),
		"original_customer_id":       sourceInvoice.CustomerID,
		"original_customer_name":     sourceInvoice.CustomerName,
		"original_stripe_account":    sourceInvoice.AccountName,
	}

	// Dry runs must not pollute revenue reporting, so their artifacts
	// carry the ARR exclusion flag downstream pipelines already honour
	if t.mode.IsDryRun() {
		provenance["is_arr_excluded"] = "true"
	}

	return sourceInvoice.Metadata.Merge(provenance)
}

// BuildAddLinesRequest maps every source line to a destination line,
// re-keying prices. It fails atomically: if any line's price has no
// mapping, the error lists every unmapped price id and no partial
// request is produced.
func (t *Transformer) BuildAddLinesRequest(ctx context.Context, sourceInvoice *invoice.Invoice) (*invoice.AddLinesRequest, error) {
	t.warmTaxRateCache(ctx, sourceInvoice)

	var missing []string
	seen := map[string]bool{}
	lines := make([]invoice.LineParams, 0, len(sourceInvoice.LineItems))

	for _, line := range sourceInvoice.LineItems {
		destinationPriceID, err := t.resolver.Resolve(types.EntityKindPrice, line.PriceID)
		if err != nil {
			if !seen[line.PriceID] {
				missing = append(missing, line.PriceID)
				seen[line.PriceID] = true
			}
			continue
		}

		lines = append(lines, invoice.LineParams{
			Description: line.Description,
			PriceID:     destinationPriceID,
			Period:      line.Period,
		})
	}

	if len(missing) > 0 {
		return nil, ierr.NewErrorf(
			"missing price mappings for source invoice %s: %s",
			sourceInvoice.ID, strings.Join(missing, ", "),
		).
			WithHint("Add the missing price entries to the mappings document").
			WithReportableDetails(map[string]any{
				"invoice_id":        sourceInvoice.ID,
				"missing_price_ids": missing,
			}).
			Mark(ierr.ErrMissingPriceMapping)
	}

	return &invoice.AddLinesRequest{Lines: lines}, nil
}

// warmTaxRateCache fetches the source tax rates referenced by the
// invoice's line items, memoizing across invoices. The destination
// account applies its own rates, so a failed lookup is logged and
// skipped rather than failing the migration.
func (t *Transformer) warmTaxRateCache(ctx context.Context, sourceInvoice *invoice.Invoice) {
	for _, line := range sourceInvoice.LineItems {
		for _, taxAmount := range line.TaxAmounts {
			if taxAmount.TaxRateID == "" {
				continue
			}
			if _, found := t.taxRates.Get(taxAmount.TaxRateID); found {
				continue
			}

			taxRate, err := t.source.GetTaxRate(ctx, taxAmount.TaxRateID)
			if err != nil {
				t.logger.Warnw("failed to resolve source tax rate",
					"invoice_id", sourceInvoice.ID,
					"tax_rate_id", taxAmount.TaxRateID,
					"error", err)
				continue
			}

			t.taxRates.Set(taxAmount.TaxRateID, taxRate, gocache.NoExpiration)
		}
	}
}

// TaxRate returns a memoized source tax rate, if one has been fetched
func (t *Transformer) TaxRate(taxRateID string) (*invoice.TaxRate, bool) {
	cached, found := t.taxRates.Get(taxRateID)
	if !found {
		return nil, false
	}
	return cached.(*invoice.TaxRate), true
}
