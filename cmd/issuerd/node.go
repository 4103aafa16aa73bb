package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tokenfactory/issuer/config"
	"github.com/tokenfactory/issuer/host"
	"github.com/tokenfactory/issuer/logging"
	"github.com/tokenfactory/issuer/store"
	"github.com/tokenfactory/issuer/store/badger"
	"github.com/tokenfactory/issuer/store/memory"
	"github.com/tokenfactory/issuer/txsystem/issuer"
	"github.com/tokenfactory/issuer/types"
)

type node struct {
	cfg   *config.Config
	host  *host.Host
	close func() error
}

// openNode loads configuration from the home directory and opens the state database.
func openNode(cmd *cobra.Command, flags *rootFlags) (*node, error) {
	cfg, err := config.Load(flags.Home)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	log, err := logging.New(cmd.ErrOrStderr(), cfg.Logging.Format, cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	addr, err := cfg.ContractAddress()
	if err != nil {
		return nil, fmt.Errorf("contract address: %w", err)
	}

	var db store.Beginner
	closeDB := func() error { return nil }
	if cfg.Storage.InMemory {
		db = memory.New()
	} else {
		bdb, err := badger.New(cfg.StorageDir(), log)
		if err != nil {
			return nil, err
		}
		db, closeDB = bdb, bdb.Close
	}

	return &node{
		cfg:   cfg,
		host:  host.New(db, issuer.New(addr, cfg.AddressPrefix), cfg.AddressPrefix, log),
		close: closeDB,
	}, nil
}

// withNode runs fn with opened node and closes it afterwards.
func withNode(cmd *cobra.Command, flags *rootFlags, fn func(n *node) error) (err error) {
	n, err := openNode(cmd, flags)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := n.close(); err == nil {
			err = cerr
		}
	}()
	return fn(n)
}

func (n *node) parseAddress(s string) (types.Address, error) {
	return types.ParseAddress(n.cfg.AddressPrefix, s)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
