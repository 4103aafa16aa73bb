package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	Home string
}

func defaultHome() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return ".issuerd"
	}
	return filepath.Join(dir, ".issuerd")
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "issuerd",
		Short:         "Token issuer contract node",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Usage()
		},
	}
	cmd.PersistentFlags().StringVar(&flags.Home, "home", defaultHome(), "Home directory for configuration and data")

	cmd.AddCommand(
		newInitCmd(flags),
		newInstantiateCmd(flags),
		newExecCmd(flags),
		newSendCmd(flags),
		newApplyCmd(flags),
		newQueryCmd(flags),
		newBalanceCmd(flags),
		newStateHashCmd(flags),
	)
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
