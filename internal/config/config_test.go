package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := GetDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "intellimize_stripe_migration_mappings.json", cfg.Migration.MappingsFile)
	assert.Equal(t, "output", cfg.Migration.OutputDirectory)
}

func TestValidateRejectsMissingKeys(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Stripe.SourceSecretKey = ""

	assert.Error(t, cfg.Validate())
}
