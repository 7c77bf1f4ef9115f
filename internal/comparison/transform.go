package comparison

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/types"
)

// Transform converts a raw field value to its display form
type Transform func(value any) string

func defaultTransform(value any) string {
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

// epochToDate renders an epoch-seconds timestamp as an ISO-8601 date
// string; absent timestamps render empty
func epochToDate(value any) string {
	seconds, ok := value.(int64)
	if !ok || seconds == 0 {
		return ""
	}
	return types.EpochSecondsToISO(seconds)
}

// minorUnitsToCurrency renders an integer minor-currency-unit amount as
// a formatted decimal string with a currency symbol
func minorUnitsToCurrency(value any) string {
	units, ok := value.(int64)
	if !ok {
		return defaultTransform(value)
	}
	return "$" + decimal.NewFromInt(units).Div(decimal.NewFromInt(100)).StringFixed(2)
}

// metadataToString renders metadata as key=value pairs joined with |,
// keys sorted for determinism and literal commas stripped so the value
// stays a single CSV cell
func metadataToString(value any) string {
	metadata, ok := value.(types.Metadata)
	if !ok {
		return defaultTransform(value)
	}

	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, metadata[k]))
	}

	return strings.ReplaceAll(strings.Join(pairs, "|"), ",", "")
}
