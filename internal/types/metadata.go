package types

// Metadata represents a string key-value map carried on invoices
type Metadata map[string]string

// Merge returns a new Metadata containing all entries of m overlaid
// with the entries of other. Neither input is mutated.
func (m Metadata) Merge(other Metadata) Metadata {
	merged := make(Metadata, len(m)+len(other))
	for k, v := range m {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}
