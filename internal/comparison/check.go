package comparison

import (
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/mapping"
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/types"
)

// Marks rendered into the validation row of a comparison block
const (
	MarkPass = "✅"
	MarkFail = "❌"
	MarkNone = ""
)

// Check decides the pass/fail mark for one field of a comparison block.
// The set of implementations is closed: equality for immutable facts,
// mapping-aware equality for re-keyed ids, fixed-policy equality for
// fields the migration intentionally overrides, and no validation for
// informational fields.
type Check interface {
	Mark(original, migrated any) string
}

// EqualityCheck passes when the migrated value equals the original
type EqualityCheck struct{}

func (EqualityCheck) Mark(original, migrated any) string {
	if original == migrated {
		return MarkPass
	}
	return MarkFail
}

// FixedPolicyCheck passes when the migrated value equals the fixed
// policy value, regardless of the original
type FixedPolicyCheck struct {
	Expected any
}

func (c FixedPolicyCheck) Mark(_, migrated any) string {
	if migrated == c.Expected {
		return MarkPass
	}
	return MarkFail
}

// MappingCheck passes when the migrated id equals the destination id
// the original id maps to. An empty original with an empty migrated
// counterpart passes, since there was nothing to re-key.
type MappingCheck struct {
	Kind     types.EntityKind
	Resolver *mapping.Resolver
}

func (c MappingCheck) Mark(original, migrated any) string {
	originalID, _ := original.(string)
	migratedID, _ := migrated.(string)

	if originalID == "" && migratedID == "" {
		return MarkPass
	}

	expected, err := c.Resolver.Resolve(c.Kind, originalID)
	if err != nil || migratedID != expected {
		return MarkFail
	}
	return MarkPass
}

// NoCheck renders an empty mark: the field is informational only and
// must never produce a false failure
type NoCheck struct{}

func (NoCheck) Mark(_, _ any) string {
	return MarkNone
}
