package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tokenfactory/issuer/txsystem/bank"
	"github.com/tokenfactory/issuer/txsystem/issuer"
	"github.com/tokenfactory/issuer/types"
)

func newInstantiateCmd(root *rootFlags) *cobra.Command {
	var flags struct {
		Sender   string
		Subdenom string
		Denom    string
	}
	cmd := &cobra.Command{
		Use:   "instantiate",
		Short: "Instantiate the issuer contract for a new or an existing denom",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := &issuer.InstantiateMsg{}
			if flags.Subdenom != "" {
				msg.NewToken = &issuer.NewTokenAttributes{Subdenom: flags.Subdenom}
			}
			if flags.Denom != "" {
				msg.ExistingToken = &issuer.ExistingTokenAttributes{Denom: flags.Denom}
			}
			return withNode(cmd, root, func(n *node) error {
				sender, err := n.parseAddress(flags.Sender)
				if err != nil {
					return err
				}
				res, err := n.host.Instantiate(sender, msg)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res.Attributes)
			})
		},
	}
	cmd.Flags().StringVar(&flags.Sender, "sender", "", "Address of the sender, becomes the contract owner")
	cmd.Flags().StringVar(&flags.Subdenom, "subdenom", "", "Create new denom with the subdenom")
	cmd.Flags().StringVar(&flags.Denom, "denom", "", "Manage existing denom")
	cmd.MarkFlagsMutuallyExclusive("subdenom", "denom")
	_ = cmd.MarkFlagRequired("sender")
	return cmd
}

func newExecCmd(root *rootFlags) *cobra.Command {
	var sender string
	cmd := &cobra.Command{
		Use:   "exec <json message>",
		Short: "Execute a contract message",
		Example: `  issuerd exec --sender osmo1... '{"set_minter":{"address":"osmo1...","allowance":"1000"}}'
  issuerd exec --sender osmo1... '{"freeze":{"status":true}}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var msg issuer.ExecuteMsg
			if err := json.Unmarshal([]byte(args[0]), &msg); err != nil {
				return fmt.Errorf("%w: %w", issuer.ErrInvalidMessage, err)
			}
			return withNode(cmd, root, func(n *node) error {
				addr, err := n.parseAddress(sender)
				if err != nil {
					return err
				}
				res, err := n.host.Execute(addr, &msg)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res.Attributes)
			})
		},
	}
	cmd.Flags().StringVar(&sender, "sender", "", "Address of the sender")
	_ = cmd.MarkFlagRequired("sender")
	return cmd
}

func newSendCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send <from> <to> <amount> <denom>",
		Short: "Transfer tokens between accounts",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := types.ParseAmount(args[2])
			if err != nil {
				return err
			}
			return withNode(cmd, root, func(n *node) error {
				from, err := n.parseAddress(args[0])
				if err != nil {
					return err
				}
				to, err := n.parseAddress(args[1])
				if err != nil {
					return err
				}
				return n.host.Send(from, to, types.NewCoin(args[3], amount))
			})
		},
	}
	return cmd
}

type (
	// scriptLine is single message of the apply input, exactly one of the
	// message fields must be set.
	scriptLine struct {
		Sender      types.Address          `json:"sender"`
		Instantiate *issuer.InstantiateMsg `json:"instantiate,omitempty"`
		Execute     *issuer.ExecuteMsg     `json:"execute,omitempty"`
		Bank        *bankMsg               `json:"bank,omitempty"`
		Query       *issuer.QueryMsg       `json:"query,omitempty"`
	}

	bankMsg struct {
		CreateDenom       *bank.CreateDenomMsg       `json:"create_denom,omitempty"`
		Mint              *bank.MintMsg              `json:"mint,omitempty"`
		Burn              *bank.BurnMsg              `json:"burn,omitempty"`
		ChangeAdmin       *bank.ChangeAdminMsg       `json:"change_admin,omitempty"`
		SetBeforeSendHook *bank.SetBeforeSendHookMsg `json:"set_before_send_hook,omitempty"`
		Send              *bank.SendMsg              `json:"send,omitempty"`
	}
)

func (m *bankMsg) msg() (bank.Msg, error) {
	var msgs []bank.Msg
	add := func(ok bool, msg bank.Msg) {
		if ok {
			msgs = append(msgs, msg)
		}
	}
	add(m.CreateDenom != nil, m.CreateDenom)
	add(m.Mint != nil, m.Mint)
	add(m.Burn != nil, m.Burn)
	add(m.ChangeAdmin != nil, m.ChangeAdmin)
	add(m.SetBeforeSendHook != nil, m.SetBeforeSendHook)
	add(m.Send != nil, m.Send)
	if len(msgs) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one bank message, got %d", issuer.ErrInvalidMessage, len(msgs))
	}
	return msgs[0], nil
}

/*
apply executes messages read from JSON lines input in order. Each result is
printed as one JSON line. Execution stops at the first rejected message
unless --continue is set.
*/
func (n *node) apply(in io.Reader, out io.Writer, keepGoing bool) error {
	enc := json.NewEncoder(out)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		res, err := n.applyLine([]byte(text))
		if err != nil {
			if !keepGoing {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			res = map[string]any{"line": lineNo, "error": err.Error()}
		}
		if err := enc.Encode(res); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (n *node) applyLine(data []byte) (any, error) {
	var line scriptLine
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&line); err != nil {
		return nil, fmt.Errorf("%w: %w", issuer.ErrInvalidMessage, err)
	}

	switch {
	case line.Instantiate != nil:
		res, err := n.host.Instantiate(line.Sender, line.Instantiate)
		if err != nil {
			return nil, err
		}
		return res.Attributes, nil
	case line.Execute != nil:
		res, err := n.host.Execute(line.Sender, line.Execute)
		if err != nil {
			return nil, err
		}
		return res.Attributes, nil
	case line.Bank != nil:
		msg, err := line.Bank.msg()
		if err != nil {
			return nil, err
		}
		if err := n.host.DispatchBank(msg); err != nil {
			return nil, err
		}
		return []issuer.Attribute{{Key: "action", Value: "bank/" + msg.MsgType()}}, nil
	case line.Query != nil:
		return n.host.Query(line.Query)
	default:
		return nil, errors.New("empty message")
	}
}

func newApplyCmd(root *rootFlags) *cobra.Command {
	var keepGoing bool
	cmd := &cobra.Command{
		Use:   "apply [file]",
		Short: "Execute messages from JSON lines file (or stdin)",
		Long: `Execute messages from JSON lines file, one message per line:

  {"sender":"osmo1...","instantiate":{"new_token":{"subdenom":"uusd"}}}
  {"sender":"osmo1...","execute":{"set_minter":{"address":"osmo1...","allowance":"100"}}}
  {"bank":{"send":{"from_address":"osmo1...","to_address":"osmo1...","amount":{"denom":"uusd","amount":"1"}}}}
  {"query":{"mint_allowances":{}}}

Empty lines and lines starting with # are skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return withNode(cmd, root, func(n *node) error {
				return n.apply(in, cmd.OutOrStdout(), keepGoing)
			})
		},
	}
	cmd.Flags().BoolVar(&keepGoing, "continue", false, "Report rejected messages and continue with the next line")
	return cmd
}
