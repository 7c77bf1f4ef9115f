package comparison

import (
	"bytes"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"

	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/domain/invoice"
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/mapping"
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/types"
)

type ComparatorSuite struct {
	suite.Suite
	resolver   *mapping.Resolver
	comparator *Comparator
}

func TestComparator(t *testing.T) {
	suite.Run(t, new(ComparatorSuite))
}

func (s *ComparatorSuite) SetupTest() {
	s.resolver = mapping.NewResolver(&mapping.MigrationMappings{
		Customers:     map[string]string{"cus_src_1": "cus_dst_1"},
		Subscriptions: map[string]string{"sub_src_1": "sub_dst_1"},
		Prices:        map[string]string{"price_src_1": "price_dst_1"},
		Products:      map[string]string{},
	})
	s.comparator = NewComparator(s.resolver)
}

func originalFixture() *invoice.Invoice {
	return &invoice.Invoice{
		ID:                   "in_src_001",
		Number:               "INV-0042",
		Status:               types.InvoiceStatusPaid,
		CustomerID:           "cus_src_1",
		CustomerName:         "Globex Corporation",
		SubscriptionID:       lo.ToPtr("sub_src_1"),
		Currency:             "usd",
		Total:                5000,
		Subtotal:             5000,
		SubtotalExcludingTax: 5000,
		AmountDue:            5000,
		AmountPaid:           5000,
		Created:              1704067200,
		DueDate:              1706659200,
		EffectiveAt:          1704067200,
		PeriodStart:          1704067200,
		PeriodEnd:            1706745600,
		CollectionMethod:     types.CollectionMethodChargeAutomatically,
		Description:          "January optimization services",
		LineItems: []*invoice.LineItem{
			{
				ID:          "il_src_001",
				Description: "Optimization platform",
				PriceID:     "price_src_1",
				Quantity:    1,
				Amount:      5000,
				Currency:    "usd",
				Period:      invoice.Period{Start: 1704067200, End: 1706745600},
			},
		},
	}
}

func migratedFixture() *invoice.Invoice {
	migrated := originalFixture()
	migrated.ID = "in_dst_001"
	migrated.Number = "INV-0042-1735689600000"
	migrated.CustomerID = "cus_dst_1"
	migrated.SubscriptionID = lo.ToPtr("sub_dst_1")
	migrated.CollectionMethod = types.CollectionMethodSendInvoice
	migrated.PaidOutOfBand = true
	migrated.LineItems[0].ID = "il_dst_001"
	migrated.LineItems[0].PriceID = "price_dst_1"
	return migrated
}

func (s *ComparatorSuite) TestFaithfulPairHasNoFailures() {
	block := s.comparator.BuildBlock(originalFixture(), migratedFixture())
	s.Empty(block.FailedTitles())
}

func (s *ComparatorSuite) TestRowsAreAligned() {
	block := s.comparator.BuildBlock(originalFixture(), migratedFixture())

	rows := block.Rows()
	s.Len(rows, 4)
	width := len(rows[0])
	for _, row := range rows {
		s.Len(row, width)
	}

	s.Equal("Invoice ID", block.Titles[0])
	s.Equal("in_src_001", block.Original[0])
	s.Equal("in_dst_001", block.Migrated[0])
	s.Equal(MarkNone, block.Marks[0])
}

func (s *ComparatorSuite) TestMarksPerCheckKind() {
	block := s.comparator.BuildBlock(originalFixture(), migratedFixture())

	markFor := func(title string) string {
		idx := lo.IndexOf(block.Titles, title)
		s.GreaterOrEqual(idx, 0, "missing field %q", title)
		return block.Marks[idx]
	}

	// Informational fields carry no mark
	s.Equal(MarkNone, markFor("Invoice Number"))
	s.Equal(MarkNone, markFor("Amount Paid"))

	// Re-keyed ids pass through the mapping tables
	s.Equal(MarkPass, markFor("Customer ID"))
	s.Equal(MarkPass, markFor("Subscription ID"))
	s.Equal(MarkPass, markFor("Line 1 Price ID"))

	// Carried-over facts compare by equality
	s.Equal(MarkPass, markFor("Customer Name"))
	s.Equal(MarkPass, markFor("Total"))

	// Intentionally overridden fields compare against the fixed policy
	s.Equal(MarkPass, markFor("Collection Method"))
	s.Equal(MarkPass, markFor("Paid Out Of Band"))
}

func (s *ComparatorSuite) TestMismatchesAreFlagged() {
	migrated := migratedFixture()
	migrated.Total = 4800
	migrated.CustomerID = "cus_wrong"
	migrated.PaidOutOfBand = false

	block := s.comparator.BuildBlock(originalFixture(), migrated)
	failed := block.FailedTitles()
	s.Contains(failed, "Total")
	s.Contains(failed, "Customer ID")
	s.Contains(failed, "Paid Out Of Band")
	s.NotContains(failed, "Customer Name")
}

func (s *ComparatorSuite) TestEmptySubscriptionOnBothSidesPasses() {
	original := originalFixture()
	original.SubscriptionID = nil
	migrated := migratedFixture()
	migrated.SubscriptionID = nil

	block := s.comparator.BuildBlock(original, migrated)
	s.NotContains(block.FailedTitles(), "Subscription ID")
}

func (s *ComparatorSuite) TestMissingLineRendersEmpty() {
	migrated := migratedFixture()
	migrated.LineItems = nil

	block := s.comparator.BuildBlock(originalFixture(), migrated)

	idx := lo.IndexOf(block.Titles, "Line 1 Description")
	s.GreaterOrEqual(idx, 0)
	s.Equal("Optimization platform", block.Original[idx])
	s.Equal("", block.Migrated[idx])
	s.Equal(MarkFail, block.Marks[idx])
}

func (s *ComparatorSuite) TestLineTaxesAndDiscountsAccumulate() {
	original := originalFixture()
	original.LineItems[0].TaxAmounts = []invoice.TaxAmount{
		{Amount: 300, TaxRateID: "txr_1"},
		{Amount: 200, TaxRateID: "txr_2"},
	}
	original.LineItems[0].DiscountAmounts = []invoice.DiscountAmount{
		{Amount: 150, DiscountID: "di_1"},
	}

	block := s.comparator.BuildBlock(original, migratedFixture())

	taxIdx := lo.IndexOf(block.Titles, "Line 1 Taxes")
	s.Equal("$5.00", block.Original[taxIdx])
	s.Equal("$0.00", block.Migrated[taxIdx])

	discountIdx := lo.IndexOf(block.Titles, "Line 1 Discounts")
	s.Equal("$1.50", block.Original[discountIdx])
}

func (s *ComparatorSuite) TestBlocksAreDeterministic() {
	var first, second bytes.Buffer
	s.NoError(s.comparator.WriteBlock(&first, originalFixture(), migratedFixture()))
	s.NoError(s.comparator.WriteBlock(&second, originalFixture(), migratedFixture()))
	s.Equal(first.Bytes(), second.Bytes())
}

func (s *ComparatorSuite) TestWriteBlockFormat() {
	var buf bytes.Buffer
	s.NoError(s.comparator.WriteBlock(&buf, originalFixture(), migratedFixture()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	s.Len(lines, 4)
	s.True(strings.HasPrefix(lines[0], "Invoice ID,Invoice Number,"))
	s.Contains(lines[3], MarkPass)

	// Blocks are separated by one blank line
	s.True(strings.HasSuffix(buf.String(), "\n\n"))
}

func TestTransforms(t *testing.T) {
	testCases := []struct {
		name      string
		transform Transform
		value     any
		expected  string
	}{
		{"currency_formats_minor_units", minorUnitsToCurrency, int64(5000), "$50.00"},
		{"currency_keeps_cents", minorUnitsToCurrency, int64(123), "$1.23"},
		{"currency_negative", minorUnitsToCurrency, int64(-250), "$-2.50"},
		{"epoch_renders_iso", epochToDate, int64(1704067200), "2024-01-01T00:00:00Z"},
		{"epoch_zero_renders_empty", epochToDate, int64(0), ""},
		{"default_nil_renders_empty", defaultTransform, nil, ""},
		{"default_prints_value", defaultTransform, int64(42), "42"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.transform(tc.value); got != tc.expected {
				t.Errorf("got %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestMetadataToString(t *testing.T) {
	metadata := types.Metadata{
		"b_key": "two, with comma",
		"a_key": "one",
	}

	got := metadataToString(metadata)
	want := "a_key=one|b_key=two with comma"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
