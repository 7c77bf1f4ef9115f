package mapping

import (
	ierr "github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/errors"
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/types"
)

// Resolver performs direct source-to-destination id lookups against the
// pre-loaded mapping tables. No fuzzy matching, no defaulting: a
// mapping's absence for a referenced id is an error, not a default.
type Resolver struct {
	mappings *MigrationMappings
}

func NewResolver(mappings *MigrationMappings) *Resolver {
	return &Resolver{mappings: mappings}
}

// Resolve returns the destination id mapped to the given source id for
// the given entity kind
func (r *Resolver) Resolve(kind types.EntityKind, sourceID string) (string, error) {
	table := r.table(kind)
	if table == nil {
		return "", ierr.NewErrorf("unknown entity kind %q", kind).
			Mark(ierr.ErrValidation)
	}

	destinationID, ok := table[sourceID]
	if !ok {
		return "", ierr.NewErrorf("no %s mapping for %s", kind, sourceID).
			WithHint("Add the missing entry to the mappings document").
			WithReportableDetails(map[string]any{
				"kind":      kind,
				"source_id": sourceID,
			}).
			Mark(ierr.ErrNotFound)
	}

	return destinationID, nil
}

func (r *Resolver) table(kind types.EntityKind) map[string]string {
	switch kind {
	case types.EntityKindCustomer:
		return r.mappings.Customers
	case types.EntityKindSubscription:
		return r.mappings.Subscriptions
	case types.EntityKindPrice:
		return r.mappings.Prices
	case types.EntityKindProduct:
		return r.mappings.Products
	default:
		return nil
	}
}

// Mappings exposes the underlying tables for consumers that iterate
// them, like the customer migration loop
func (r *Resolver) Mappings() *MigrationMappings {
	return r.mappings
}
