package issuer

import (
	"errors"
	"fmt"

	"github.com/tokenfactory/issuer/storage"
	"github.com/tokenfactory/issuer/store"
	"github.com/tokenfactory/issuer/types"
)

var (
	ownerItem  = storage.NewItem([]byte{0x01}, storage.CBOR[types.Address]())
	denomItem  = storage.NewItem([]byte{0x02}, storage.CBOR[string]())
	frozenItem = storage.NewItem([]byte{0x03}, storage.CBOR[bool]())

	freezers         = storage.NewMap[types.Address]([]byte{0x10}, storage.CBOR[bool]())
	minterAllowances = storage.NewMap[types.Address]([]byte{0x11}, storage.CBOR[types.Amount]())
	burnerAllowances = storage.NewMap[types.Address]([]byte{0x12}, storage.CBOR[types.Amount]())
	blacklisters     = storage.NewMap[types.Address]([]byte{0x13}, storage.CBOR[bool]())
	blacklisted      = storage.NewMap[types.Address]([]byte{0x14}, storage.CBOR[bool]())
)

type (
	allowances = storage.Map[types.Address, types.Amount]
	statuses   = storage.Map[types.Address, bool]
)

func loadOwner(kv store.Reader) (types.Address, error) {
	return loadRequired(kv, ownerItem)
}

func loadDenom(kv store.Reader) (string, error) {
	return loadRequired(kv, denomItem)
}

func loadRequired[V any](kv store.Reader, item storage.Item[V]) (V, error) {
	v, err := item.Get(kv)
	if errors.Is(err, store.ErrNotFound) {
		return v, ErrNotInstantiated
	}
	return v, err
}

func isFrozen(kv store.Reader) (bool, error) {
	v, _, err := frozenItem.Load(kv)
	return v, err
}

// allowance returns zero for principals which have no entry.
func allowance(kv store.Reader, m allowances, addr types.Address) (types.Amount, error) {
	v, _, err := m.Get(kv, addr)
	if err != nil {
		return types.Amount{}, fmt.Errorf("reading allowance of %s: %w", addr, err)
	}
	return v, nil
}

// setAllowance stores non-zero allowance and removes the entry otherwise.
func setAllowance(kv store.KVStore, m allowances, addr types.Address, amount types.Amount) error {
	if amount.IsZero() {
		return m.Remove(kv, addr)
	}
	return m.Set(kv, addr, amount)
}

func status(kv store.Reader, m statuses, addr types.Address) (bool, error) {
	v, _, err := m.Get(kv, addr)
	return v, err
}

// setStatus stores "true" and removes the entry for "false".
func setStatus(kv store.KVStore, m statuses, addr types.Address, on bool) error {
	if !on {
		return m.Remove(kv, addr)
	}
	return m.Set(kv, addr, true)
}
