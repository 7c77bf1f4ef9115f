package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/types"
)

type Configuration struct {
	Stripe    StripeConfig    `validate:"required"`
	Migration MigrationConfig `validate:"required"`
	Logging   LoggingConfig   `validate:"required"`
}

// StripeConfig carries the API keys for the two accounts exchanging
// invoice data. The source account is never mutated.
type StripeConfig struct {
	SourceSecretKey      string `validate:"required"`
	DestinationSecretKey string `validate:"required"`
}

type MigrationConfig struct {
	// MappingsFile is the JSON document supplying the four id-mapping
	// tables. Absence or malformation is fatal to the run.
	MappingsFile string `validate:"required"`
	// OutputDirectory receives the per-invoice JSON dumps, the failure
	// document and the CSV reconciliation summary.
	OutputDirectory string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("MIGRATION")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	v.SetDefault("migration.mappingsfile", "intellimize_stripe_migration_mappings.json")
	v.SetDefault("migration.outputdirectory", "output")
	v.SetDefault("logging.level", string(types.LogLevelInfo))

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for tests and
// non-production tooling
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Stripe: StripeConfig{
			SourceSecretKey:      "sk_test_source",
			DestinationSecretKey: "sk_test_destination",
		},
		Migration: MigrationConfig{
			MappingsFile:    "intellimize_stripe_migration_mappings.json",
			OutputDirectory: "output",
		},
		Logging: LoggingConfig{Level: types.LogLevelDebug},
	}
}
