/*
Package host executes messages against the issuer contract and the bank one at
a time. Every message runs in its own change set which is committed only when
the contract and all the bank messages it emitted succeed.
*/
package host

import (
	"context"
	"crypto"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/tokenfactory/issuer/cbor"
	"github.com/tokenfactory/issuer/hash"
	"github.com/tokenfactory/issuer/store"
	"github.com/tokenfactory/issuer/txsystem/bank"
	"github.com/tokenfactory/issuer/txsystem/issuer"
	"github.com/tokenfactory/issuer/types"
)

// ContractStorePrefix is prepended with contract address and "/" to get the
// key prefix of the contract state.
const ContractStorePrefix = "contract/"

var ErrUnknownContract = errors.New("unknown contract")

type Host struct {
	mu       sync.Mutex
	db       store.Beginner
	bank     *bank.Keeper
	contract *issuer.Contract
	log      *slog.Logger
}

func New(db store.Beginner, contract *issuer.Contract, addressPrefix string, log *slog.Logger) *Host {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	h := &Host{
		db:       db,
		contract: contract,
		log:      log.With("contract", contract.Address().String()),
	}
	h.bank = bank.NewKeeper(addressPrefix, h.beforeSend)
	return h
}

func contractStore(kv store.KVStore, addr types.Address) store.KVStore {
	return store.NewPrefixStore(kv, []byte(ContractStorePrefix+addr.String()+"/"))
}

func contractReader(kv store.Reader, addr types.Address) store.Reader {
	return store.NewPrefixReader(kv, []byte(ContractStorePrefix+addr.String()+"/"))
}

func (h *Host) beforeSend(kv store.KVStore, contract, from, to types.Address, amount types.Coin) error {
	if contract != h.contract.Address() {
		return fmt.Errorf("%w: %s", ErrUnknownContract, contract)
	}
	return h.contract.BeforeSend(contractReader(kv, contract), from, to, amount)
}

/*
apply runs fn in a new change set and executes the bank messages fn returned.
Errors are returned unchanged so that the caller sees exactly what the
contract or the bank rejected the message with.
*/
func (h *Host) apply(action string, sender types.Address, fn func(kv store.KVStore) (*issuer.Response, error)) (*issuer.Response, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	log := h.log.With("action", action, "sender", sender.String())
	log.Debug("delivering message")

	cs := h.db.Begin(true)
	defer cs.Discard()

	res, err := fn(cs)
	if err == nil && res != nil {
		for _, msg := range res.Messages {
			if err = h.bank.Dispatch(cs, msg); err != nil {
				break
			}
		}
	}
	if err != nil {
		log.Info("message rejected", "error", err)
		return nil, err
	}
	if err := cs.Commit(); err != nil {
		return nil, fmt.Errorf("committing %s: %w", action, err)
	}
	log.Debug("message committed")
	return res, nil
}

func (h *Host) Instantiate(sender types.Address, msg *issuer.InstantiateMsg) (*issuer.Response, error) {
	return h.apply("instantiate", sender, func(kv store.KVStore) (*issuer.Response, error) {
		return h.contract.Instantiate(contractStore(kv, h.contract.Address()), sender, msg)
	})
}

func (h *Host) Execute(sender types.Address, msg *issuer.ExecuteMsg) (*issuer.Response, error) {
	action, _, err := msg.Payload()
	if err != nil {
		return nil, err
	}
	return h.apply(action, sender, func(kv store.KVStore) (*issuer.Response, error) {
		return h.contract.Execute(contractStore(kv, h.contract.Address()), sender, msg)
	})
}

// Deliver decodes CBOR encoded types.MessageOrder and executes it.
func (h *Host) Deliver(data []byte) (*issuer.Response, error) {
	order := &types.MessageOrder{}
	if err := cbor.Unmarshal(data, order); err != nil {
		return nil, fmt.Errorf("%w: decoding message order: %w", issuer.ErrInvalidMessage, err)
	}
	if h.log.Enabled(context.Background(), slog.LevelDebug) {
		if id, err := order.Hash(crypto.SHA256); err == nil {
			h.log.Debug("message order received", "hash", hexutil.Encode(id), "type", order.Type)
		}
	}
	return h.apply(order.Type, order.Sender, func(kv store.KVStore) (*issuer.Response, error) {
		return h.contract.ExecuteOrder(contractStore(kv, h.contract.Address()), order)
	})
}

/*
DispatchBank executes bank message submitted by an account (ie not emitted by
the contract). The caller is responsible for making sure the sender field of
the message is the authenticated origin.
*/
func (h *Host) DispatchBank(msg bank.Msg) error {
	var sender types.Address
	switch m := msg.(type) {
	case *bank.SendMsg:
		sender = m.FromAddress
	case *bank.ChangeAdminMsg:
		sender = m.Sender
	case *bank.SetBeforeSendHookMsg:
		sender = m.Sender
	case *bank.CreateDenomMsg:
		sender = m.Sender
	case *bank.MintMsg:
		sender = m.Sender
	case *bank.BurnMsg:
		sender = m.Sender
	}
	_, err := h.apply("bank/"+msg.MsgType(), sender, func(kv store.KVStore) (*issuer.Response, error) {
		return nil, h.bank.Dispatch(kv, msg)
	})
	return err
}

func (h *Host) Send(from, to types.Address, amount types.Coin) error {
	return h.DispatchBank(&bank.SendMsg{FromAddress: from, ToAddress: to, Amount: amount})
}

// read runs fn against committed state.
func (h *Host) read(fn func(kv store.Reader) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	rd := h.db.Begin(false)
	defer rd.Discard()
	return fn(rd)
}

func (h *Host) Query(msg *issuer.QueryMsg) (res any, err error) {
	err = h.read(func(kv store.Reader) error {
		res, err = h.contract.Query(contractReader(kv, h.contract.Address()), msg)
		return err
	})
	return res, err
}

// QueryJSON decodes JSON encoded issuer.QueryMsg and returns JSON encoded response.
func (h *Host) QueryJSON(data []byte) ([]byte, error) {
	var msg issuer.QueryMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %w", issuer.ErrInvalidMessage, err)
	}
	res, err := h.Query(&msg)
	if err != nil {
		return nil, err
	}
	return json.Marshal(res)
}

func (h *Host) Balance(addr types.Address, denom string) (amount types.Amount, err error) {
	err = h.read(func(kv store.Reader) error {
		amount, err = h.bank.Balance(kv, addr, denom)
		return err
	})
	return amount, err
}

func (h *Host) Balances(addr types.Address) (coins []types.Coin, err error) {
	err = h.read(func(kv store.Reader) error {
		coins, err = h.bank.Balances(kv, addr)
		return err
	})
	return coins, err
}

func (h *Host) Denom(denom string) (d bank.DenomData, err error) {
	err = h.read(func(kv store.Reader) error {
		d, err = h.bank.Denom(kv, denom)
		return err
	})
	return d, err
}

/*
StateHash returns SHA-256 over all committed key-value pairs in key order. Two
hosts which applied the same messages in the same order have the same hash.
*/
func (h *Host) StateHash() ([]byte, error) {
	var sum []byte
	err := h.read(func(kv store.Reader) (err error) {
		it, err := kv.Iterate(nil, nil)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := it.Close(); err == nil {
				err = cerr
			}
		}()

		hasher := hash.New(sha256.New())
		if err := hasher.WriteEntries(it); err != nil {
			return err
		}
		sum, err = hasher.Sum()
		return err
	})
	return sum, err
}
