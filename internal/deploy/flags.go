package deploy

import (
	"github.com/spf13/viper"
)

// flagDef defines a command-line flag with its configuration.
type (
	flagType interface {
		string | int | bool
	}

	flagDef[T flagType] struct {
		name         string
		viperKey     string
		defaultValue T
		description  string
	}
)

var (
	stringFlags = []flagDef[string]{
		// Chain connection
		{"rpc-url", "chain.rpc-url", "", "Chain RPC endpoint URL"},

		// Signer
		{"signer-private-key", "deploy.signer-private-key", "", "Private key of the transaction signer"},
		{"owner", "deploy.owner", "", "Owner address for the deployed contracts (defaults to the signer address)"},

		// Deployment inputs
		{"creator-token", "deploy.creator-token", "", "Creator token contract address"},
		{"creator-treasury", "deploy.creator-treasury", "", "Creator treasury address (defaults to the owner)"},
		{"share-name", "deploy.share-name", "", "Share token name"},
		{"share-symbol", "deploy.share-symbol", "", "Share token symbol"},

		// Confirmation
		{"poll-interval", "deploy.poll-interval", "2s", "Bytecode poll interval while confirming"},
		{"confirm-timeout", "deploy.confirm-timeout", "2m", "Total time to wait for bytecode confirmation"},

		// Logging
		{"log-level", "log.level", "info", "Log level (debug, info, warn, error)"},
	}

	intFlags = []flagDef[int]{
		{"chain-id", "chain.id", 0, "Chain ID to deploy on"},
	}

	boolFlags = []flagDef[bool]{
		{"include-oracle", "deploy.include-oracle", false, "Deploy the price oracle alongside the vault constellation"},
	}
)

func init() {
	if err := declareFlags(stringFlags); err != nil {
		panic(err)
	}
	if err := declareFlags(intFlags); err != nil {
		panic(err)
	}
	if err := declareFlags(boolFlags); err != nil {
		panic(err)
	}
	CMD.AddCommand(deployCmd)
	CMD.AddCommand(predictCmd)
	CMD.AddCommand(verifyCmd)
}

// declareFlags declares multiple flags and binds them to viper configuration keys.
func declareFlags[T flagType](flags []flagDef[T]) error {
	for _, flag := range flags {
		if err := declareFlag(flag.name, flag.viperKey, flag.defaultValue, flag.description); err != nil {
			return err
		}
	}
	return nil
}

// declareFlag declares a single flag and binds it to a viper configuration key.
// The type parameter T determines the flag type (string, int, or bool).
func declareFlag[T flagType](flagName, viperKey string, defaultValue T, description string) error {
	var zero T
	switch any(zero).(type) {
	case string:
		CMD.PersistentFlags().String(flagName, any(defaultValue).(string), description)
	case int:
		CMD.PersistentFlags().Int(flagName, any(defaultValue).(int), description)
	case bool:
		CMD.PersistentFlags().Bool(flagName, any(defaultValue).(bool), description)
	}
	return viper.BindPFlag(viperKey, CMD.PersistentFlags().Lookup(flagName))
}
