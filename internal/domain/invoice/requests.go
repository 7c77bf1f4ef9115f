package invoice

import (
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/types"
)

// CreateRequest is the write-side projection submitted to the
// destination account's invoice creation call. It is never persisted.
type CreateRequest struct {
	CustomerID       string
	SubscriptionID   *string
	Number           string
	CollectionMethod types.CollectionMethod
	AutoAdvance      bool
	DaysUntilDue     int64
	EffectiveAt      int64
	Description      string
	Footer           string
	CustomFields     []CustomField
	Coupon           *string
	Metadata         types.Metadata
}

// AddLinesRequest attaches the transformed line items to a draft
// destination invoice. It is built atomically: either every source line
// resolved a destination price or the request was never produced.
type AddLinesRequest struct {
	Lines []LineParams
}

// LineParams is one line of an AddLinesRequest
type LineParams struct {
	Description string
	PriceID     string
	Period      Period
}
