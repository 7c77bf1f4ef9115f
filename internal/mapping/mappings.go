package mapping

import (
	"os"
	"sort"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"

	ierr "github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MigrationMappings holds the four source-to-destination id tables.
// Loaded once at process start and read-only for the lifetime of a run.
// JSON keys match the mappings document produced for the original
// migration tooling.
type MigrationMappings struct {
	Customers     map[string]string `json:"customerMappings"`
	Subscriptions map[string]string `json:"subscriptionMappings"`
	Prices        map[string]string `json:"priceMappings"`
	Products      map[string]string `json:"productMappings"`
}

// LoadFromFile reads and parses the mappings document. Any failure here
// is fatal to the whole run.
func LoadFromFile(path string) (*MigrationMappings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("No mappings document found at %s", path).
			Mark(ierr.ErrNotFound)
	}

	var mappings MigrationMappings
	if err := json.Unmarshal(data, &mappings); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Mappings document at %s is not valid JSON", path).
			Mark(ierr.ErrValidation)
	}

	if mappings.Customers == nil {
		mappings.Customers = map[string]string{}
	}
	if mappings.Subscriptions == nil {
		mappings.Subscriptions = map[string]string{}
	}
	if mappings.Prices == nil {
		mappings.Prices = map[string]string{}
	}
	if mappings.Products == nil {
		mappings.Products = map[string]string{}
	}

	return &mappings, nil
}

// CustomerIDs returns the source customer ids in sorted order so runs
// process customers deterministically
func (m *MigrationMappings) CustomerIDs() []string {
	ids := lo.Keys(m.Customers)
	sort.Strings(ids)
	return ids
}
