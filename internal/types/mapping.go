package types

// EntityKind identifies which of the four migration mapping tables a
// source identifier is resolved against
type EntityKind string

const (
	EntityKindCustomer     EntityKind = "customer"
	EntityKindSubscription EntityKind = "subscription"
	EntityKindPrice        EntityKind = "price"
	EntityKindProduct      EntityKind = "product"
)

func (k EntityKind) String() string {
	return string(k)
}
