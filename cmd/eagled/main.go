package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eagle-protocol/vault-deployer/configs"
	"github.com/eagle-protocol/vault-deployer/internal/deploy"
	"github.com/eagle-protocol/vault-deployer/internal/logger"
)

const appName = "eagled"

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "CLI for deploying creator vault constellations",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Initialize(slog.LevelDebug)

		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		if execPath, err := os.Executable(); err == nil {
			execDir := filepath.Dir(execPath)
			viper.AddConfigPath(execDir)
		}
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")

		// Try to read config file, but don't fail if it doesn't exist
		// Flags can provide all necessary configuration
		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				slog.Debug("no config file found, will rely on flags and defaults")
			} else {
				const errMsg = "error reading config file"
				slog.With("err", err.Error()).Error(errMsg)
				return errors.Join(err, errors.New(errMsg))
			}
		} else {
			slog.With("config_file", viper.ConfigFileUsed()).Debug("config file loaded")
		}

		// Embedded defaults seed the config; the file and flags override them.
		defaults, err := configs.DefaultConfig()
		if err != nil {
			return err
		}
		configs.Values = defaults

		if err := viper.Unmarshal(&configs.Values); err != nil {
			const errMsg = "unable to decode application config"
			slog.With("err", err.Error()).Error(errMsg)
			return errors.Join(err, errors.New(errMsg))
		}

		if configs.Values.Log.Level != "" {
			level, err := logger.ParseLevel(configs.Values.Log.Level)
			if err != nil {
				return err
			}
			logger.Initialize(level)
		}

		slog.With("chain_id", configs.Values.Chain.ID).Debug("configuration loaded")

		return nil
	},
}

func main() {
	rootCmd.Short = appName

	rootCmd.AddCommand(deploy.CMD)

	if err := rootCmd.Execute(); err != nil {
		slog.With("err", err.Error()).Error("failed to execute root command")
		panic(err.Error())
	}
}
