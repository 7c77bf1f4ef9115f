package stripe

import (
	"github.com/stripe/stripe-go/v82"

	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/config"
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/logger"
)

// Clients bundles the API clients for the two accounts of a migration
// run. Network-level retry and backoff are stripe-go's responsibility,
// not the engine's.
type Clients struct {
	Source      *SourceAccount
	Destination *DestinationAccount
}

// NewClients builds both account clients from the configured keys
func NewClients(cfg *config.Configuration, logger *logger.Logger) *Clients {
	return &Clients{
		Source:      NewSourceAccount(cfg.Stripe.SourceSecretKey, logger),
		Destination: NewDestinationAccount(cfg.Stripe.DestinationSecretKey, logger),
	}
}

func newStripeClient(secretKey string) *stripe.Client {
	return stripe.NewClient(secretKey, nil)
}
