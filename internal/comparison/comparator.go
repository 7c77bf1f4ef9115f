package comparison

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/domain/invoice"
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/mapping"
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/types"
)

// FieldDefinition describes one comparable top-level invoice attribute.
// Definitions are static configuration; the comparator never derives
// them at runtime.
type FieldDefinition struct {
	Title     string
	Extract   func(*invoice.Invoice) any
	Transform Transform
	Check     Check
}

// LineFieldDefinition describes one comparable line-item attribute. An
// optional Accumulate collapses a raw collection (like per-line tax
// amounts) to a scalar before transform and validation.
type LineFieldDefinition struct {
	Title      string
	Extract    func(*invoice.LineItem) any
	Accumulate func(any) any
	Transform  Transform
	Check      Check
}

// Comparator renders a four-row comparison block (titles, original
// values, migrated values, marks) for a source/migrated invoice pair
type Comparator struct {
	fields     []FieldDefinition
	lineFields []LineFieldDefinition
}

// NewComparator builds the fixed field tables. The resolver feeds the
// mapping-aware checks for re-keyed ids.
func NewComparator(resolver *mapping.Resolver) *Comparator {
	return &Comparator{
		fields:     invoiceFields(resolver),
		lineFields: lineItemFields(resolver),
	}
}

// Block holds the four aligned rows of one invoice comparison
type Block struct {
	Titles   []string
	Original []string
	Migrated []string
	Marks    []string
}

// Rows returns the block as CSV-ready rows in render order
func (b *Block) Rows() [][]string {
	return [][]string{b.Titles, b.Original, b.Migrated, b.Marks}
}

// FailedTitles returns the titles of every field whose check failed
func (b *Block) FailedTitles() []string {
	var failed []string
	for i, mark := range b.Marks {
		if mark == MarkFail {
			failed = append(failed, b.Titles[i])
		}
	}
	return failed
}

// BuildBlock compares the pair field by field: the fixed top-level
// fields first, then the fixed line-item fields per line index
func (c *Comparator) BuildBlock(original, migrated *invoice.Invoice) *Block {
	block := &Block{}

	for _, field := range c.fields {
		originalValue := field.Extract(original)
		migratedValue := field.Extract(migrated)
		c.appendColumn(block, field.Title, originalValue, migratedValue, field.Transform, field.Check)
	}

	lineCount := max(len(original.LineItems), len(migrated.LineItems))
	for i := 0; i < lineCount; i++ {
		originalLine := lineAt(original, i)
		migratedLine := lineAt(migrated, i)

		for _, field := range c.lineFields {
			originalValue := extractLineValue(field, originalLine)
			migratedValue := extractLineValue(field, migratedLine)
			title := fmt.Sprintf("Line %d %s", i+1, field.Title)
			c.appendColumn(block, title, originalValue, migratedValue, field.Transform, field.Check)
		}
	}

	return block
}

func (c *Comparator) appendColumn(block *Block, title string, originalValue, migratedValue any, transform Transform, check Check) {
	if transform == nil {
		transform = defaultTransform
	}
	if check == nil {
		check = NoCheck{}
	}

	block.Titles = append(block.Titles, title)
	block.Original = append(block.Original, transform(originalValue))
	block.Migrated = append(block.Migrated, transform(migratedValue))
	block.Marks = append(block.Marks, check.Mark(originalValue, migratedValue))
}

func lineAt(inv *invoice.Invoice, i int) *invoice.LineItem {
	if i < len(inv.LineItems) {
		return inv.LineItems[i]
	}
	return nil
}

func extractLineValue(field LineFieldDefinition, line *invoice.LineItem) any {
	if line == nil {
		return nil
	}
	value := field.Extract(line)
	if field.Accumulate != nil {
		value = field.Accumulate(value)
	}
	return value
}

func invoiceFields(resolver *mapping.Resolver) []FieldDefinition {
	return []FieldDefinition{
		{
			Title:   "Invoice ID",
			Extract: func(i *invoice.Invoice) any { return i.ID },
		},
		{
			Title:   "Invoice Number",
			Extract: func(i *invoice.Invoice) any { return i.Number },
		},
		{
			Title:   "Customer ID",
			Extract: func(i *invoice.Invoice) any { return i.CustomerID },
			Check:   MappingCheck{Kind: types.EntityKindCustomer, Resolver: resolver},
		},
		{
			Title:   "Customer Name",
			Extract: func(i *invoice.Invoice) any { return i.CustomerName },
			Check:   EqualityCheck{},
		},
		{
			Title:   "Subscription ID",
			Extract: func(i *invoice.Invoice) any { return lo.FromPtr(i.SubscriptionID) },
			Check:   MappingCheck{Kind: types.EntityKindSubscription, Resolver: resolver},
		},
		{
			Title:   "Status",
			Extract: func(i *invoice.Invoice) any { return i.Status.String() },
			Check:   EqualityCheck{},
		},
		{
			Title:     "Total",
			Extract:   func(i *invoice.Invoice) any { return i.Total },
			Transform: minorUnitsToCurrency,
			Check:     EqualityCheck{},
		},
		{
			Title:   "Currency",
			Extract: func(i *invoice.Invoice) any { return i.Currency },
			Check:   EqualityCheck{},
		},
		{
			Title:     "Subtotal",
			Extract:   func(i *invoice.Invoice) any { return i.Subtotal },
			Transform: minorUnitsToCurrency,
			Check:     EqualityCheck{},
		},
		{
			Title:     "Subtotal Excluding Tax",
			Extract:   func(i *invoice.Invoice) any { return i.SubtotalExcludingTax },
			Transform: minorUnitsToCurrency,
			Check:     EqualityCheck{},
		},
		{
			Title:     "Taxes",
			Extract:   func(i *invoice.Invoice) any { return i.Tax },
			Transform: minorUnitsToCurrency,
			Check:     EqualityCheck{},
		},
		{
			Title:     "Effective At",
			Extract:   func(i *invoice.Invoice) any { return i.EffectiveAt },
			Transform: epochToDate,
		},
		{
			Title:     "Created Date",
			Extract:   func(i *invoice.Invoice) any { return i.Created },
			Transform: epochToDate,
		},
		{
			Title:     "Due Date",
			Extract:   func(i *invoice.Invoice) any { return i.DueDate },
			Transform: epochToDate,
		},
		{
			Title:     "Period Start",
			Extract:   func(i *invoice.Invoice) any { return i.PeriodStart },
			Transform: epochToDate,
			Check:     EqualityCheck{},
		},
		{
			Title:     "Period End",
			Extract:   func(i *invoice.Invoice) any { return i.PeriodEnd },
			Transform: epochToDate,
			Check:     EqualityCheck{},
		},
		{
			Title:     "Amount Due",
			Extract:   func(i *invoice.Invoice) any { return i.AmountDue },
			Transform: minorUnitsToCurrency,
			Check:     EqualityCheck{},
		},
		{
			Title:     "Amount Paid",
			Extract:   func(i *invoice.Invoice) any { return i.AmountPaid },
			Transform: minorUnitsToCurrency,
		},
		{
			Title:   "Collection Method",
			Extract: func(i *invoice.Invoice) any { return i.CollectionMethod.String() },
			Check:   FixedPolicyCheck{Expected: types.CollectionMethodSendInvoice.String()},
		},
		{
			Title:   "Paid Out Of Band",
			Extract: func(i *invoice.Invoice) any { return i.PaidOutOfBand },
			Check:   FixedPolicyCheck{Expected: true},
		},
		{
			Title:   "Description",
			Extract: func(i *invoice.Invoice) any { return i.Description },
			Check:   EqualityCheck{},
		},
		{
			Title:     "Metadata",
			Extract:   func(i *invoice.Invoice) any { return i.Metadata },
			Transform: metadataToString,
		},
	}
}

func lineItemFields(resolver *mapping.Resolver) []LineFieldDefinition {
	return []LineFieldDefinition{
		{
			Title:   "ID",
			Extract: func(l *invoice.LineItem) any { return l.ID },
		},
		{
			Title:   "Description",
			Extract: func(l *invoice.LineItem) any { return l.Description },
			Check:   EqualityCheck{},
		},
		{
			Title:   "Price ID",
			Extract: func(l *invoice.LineItem) any { return l.PriceID },
			Check:   MappingCheck{Kind: types.EntityKindPrice, Resolver: resolver},
		},
		{
			Title:   "Quantity",
			Extract: func(l *invoice.LineItem) any { return l.Quantity },
			Check:   EqualityCheck{},
		},
		{
			Title:     "Amount",
			Extract:   func(l *invoice.LineItem) any { return l.Amount },
			Transform: minorUnitsToCurrency,
			Check:     EqualityCheck{},
		},
		{
			Title:     "Period Start",
			Extract:   func(l *invoice.LineItem) any { return l.Period.Start },
			Transform: epochToDate,
			Check:     EqualityCheck{},
		},
		{
			Title:     "Period End",
			Extract:   func(l *invoice.LineItem) any { return l.Period.End },
			Transform: epochToDate,
			Check:     EqualityCheck{},
		},
		{
			Title:      "Taxes",
			Extract:    func(l *invoice.LineItem) any { return l.TaxAmounts },
			Accumulate: sumTaxAmounts,
			Transform:  minorUnitsToCurrency,
		},
		{
			Title:      "Discounts",
			Extract:    func(l *invoice.LineItem) any { return l.DiscountAmounts },
			Accumulate: sumDiscountAmounts,
			Transform:  minorUnitsToCurrency,
		},
	}
}

func sumTaxAmounts(value any) any {
	taxAmounts, ok := value.([]invoice.TaxAmount)
	if !ok {
		return int64(0)
	}
	return lo.SumBy(taxAmounts, func(t invoice.TaxAmount) int64 { return t.Amount })
}

func sumDiscountAmounts(value any) any {
	discountAmounts, ok := value.([]invoice.DiscountAmount)
	if !ok {
		return int64(0)
	}
	return lo.SumBy(discountAmounts, func(d invoice.DiscountAmount) int64 { return d.Amount })
}
