package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
)

func newQueryCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "query <json query>",
		Short:   "Query the contract state",
		Example: `  issuerd query '{"mint_allowances":{"limit":5}}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withNode(cmd, root, func(n *node) error {
				res, err := n.host.QueryJSON([]byte(args[0]))
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(res))
				return err
			})
		},
	}
}

func newBalanceCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <address> [denom]",
		Short: "Print balances of the account",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withNode(cmd, root, func(n *node) error {
				addr, err := n.parseAddress(args[0])
				if err != nil {
					return err
				}
				if len(args) == 2 {
					amount, err := n.host.Balance(addr, args[1])
					if err != nil {
						return err
					}
					_, err = fmt.Fprintln(cmd.OutOrStdout(), amount.String())
					return err
				}
				coins, err := n.host.Balances(addr)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), coins)
			})
		},
	}
}

func newStateHashCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "state-hash",
		Short: "Print hash of the committed state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withNode(cmd, root, func(n *node) error {
				h, err := n.host.StateHash()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), hexutil.Encode(h))
				return err
			})
		},
	}
}
