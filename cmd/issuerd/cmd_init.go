package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tokenfactory/issuer/config"
)

func newInitCmd(root *rootFlags) *cobra.Command {
	var flags struct {
		AddressPrefix string
		ContractLabel string
		InMemory      bool
		LogFormat     string
		LogLevel      string
		Force         bool
	}
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write default configuration into the home directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file := config.File(root.Home)
			if _, err := os.Stat(file); err == nil && !flags.Force {
				return fmt.Errorf("configuration %s already exists, use --force to overwrite", file)
			}

			cfg := config.Default(root.Home)
			if flags.AddressPrefix != "" {
				cfg.AddressPrefix = flags.AddressPrefix
			}
			if flags.ContractLabel != "" {
				cfg.ContractLabel = flags.ContractLabel
			}
			if flags.LogFormat != "" {
				cfg.Logging.Format = flags.LogFormat
			}
			if flags.LogLevel != "" {
				cfg.Logging.Level = flags.LogLevel
			}
			cfg.Storage.InMemory = flags.InMemory
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Store(cfg); err != nil {
				return fmt.Errorf("storing configuration: %w", err)
			}

			addr, err := cfg.ContractAddress()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\nContract address: %s\n", file, addr)
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.AddressPrefix, "address-prefix", "", "Bech32 prefix of account addresses")
	cmd.Flags().StringVar(&flags.ContractLabel, "contract-label", "", "Label the contract address is derived from")
	cmd.Flags().BoolVar(&flags.InMemory, "in-memory", false, "Do not persist state")
	cmd.Flags().StringVar(&flags.LogFormat, "log-format", "", "Log format (text, json)")
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().BoolVarP(&flags.Force, "force", "f", false, "Overwrite existing configuration")
	return cmd
}
