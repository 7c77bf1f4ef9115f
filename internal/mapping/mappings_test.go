package mapping

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ierr "github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/errors"
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/types"
)

func writeMappingsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mappings.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeMappingsFile(t, `{
		"customerMappings": {"cus_src_1": "cus_dst_1", "cus_src_2": "cus_dst_2"},
		"subscriptionMappings": {"sub_src_1": "sub_dst_1"},
		"priceMappings": {"price_src_1": "price_dst_1"},
		"productMappings": {"prod_src_1": "prod_dst_1"}
	}`)

	mappings, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "cus_dst_1", mappings.Customers["cus_src_1"])
	assert.Equal(t, "sub_dst_1", mappings.Subscriptions["sub_src_1"])
	assert.Equal(t, "price_dst_1", mappings.Prices["price_src_1"])
	assert.Equal(t, "prod_dst_1", mappings.Products["prod_src_1"])
}

func TestLoadFromFileNormalizesAbsentTables(t *testing.T) {
	path := writeMappingsFile(t, `{"customerMappings": {"cus_src_1": "cus_dst_1"}}`)

	mappings, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.NotNil(t, mappings.Subscriptions)
	assert.NotNil(t, mappings.Prices)
	assert.NotNil(t, mappings.Products)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
}

func TestLoadFromFileInvalidJSON(t *testing.T) {
	path := writeMappingsFile(t, `{"customerMappings": [`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestCustomerIDsSorted(t *testing.T) {
	mappings := &MigrationMappings{
		Customers: map[string]string{
			"cus_c": "cus_3",
			"cus_a": "cus_1",
			"cus_b": "cus_2",
		},
	}

	assert.Equal(t, []string{"cus_a", "cus_b", "cus_c"}, mappings.CustomerIDs())
}

func TestResolver(t *testing.T) {
	resolver := NewResolver(&MigrationMappings{
		Customers:     map[string]string{"cus_src_1": "cus_dst_1"},
		Subscriptions: map[string]string{"sub_src_1": "sub_dst_1"},
		Prices:        map[string]string{"price_src_1": "price_dst_1"},
		Products:      map[string]string{"prod_src_1": "prod_dst_1"},
	})

	testCases := []struct {
		name       string
		kind       types.EntityKind
		sourceID   string
		expected   string
		expectsErr bool
	}{
		{"customer_hit", types.EntityKindCustomer, "cus_src_1", "cus_dst_1", false},
		{"subscription_hit", types.EntityKindSubscription, "sub_src_1", "sub_dst_1", false},
		{"price_hit", types.EntityKindPrice, "price_src_1", "price_dst_1", false},
		{"product_hit", types.EntityKindProduct, "prod_src_1", "prod_dst_1", false},
		{"customer_miss", types.EntityKindCustomer, "cus_unknown", "", true},
		{"unknown_kind", types.EntityKind("tax_rate"), "txr_1", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			destinationID, err := resolver.Resolve(tc.kind, tc.sourceID)
			if tc.expectsErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, destinationID)
		})
	}
}
