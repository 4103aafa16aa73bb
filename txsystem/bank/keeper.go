/*
Package bank is the ledger the issuer contract delegates to: it keeps account
balances and total supply per denom, lets the denom admin mint and burn, and
consults the denom's before-send hook on every transfer.
*/
package bank

import (
	"errors"
	"fmt"

	"github.com/tokenfactory/issuer/storage"
	"github.com/tokenfactory/issuer/store"
	"github.com/tokenfactory/issuer/types"
)

// StorePrefix is the key prefix of the bank state in the shared store.
const StorePrefix = "bank/"

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotDenomAdmin     = errors.New("unauthorized account")
	ErrDenomExists       = errors.New("denom already exists")
	ErrDenomNotFound     = errors.New("denom does not exist")
	ErrInvalidDenom      = errors.New("invalid denom")
	ErrInvalidCoins      = errors.New("invalid coins")
	ErrUnknownMsg        = errors.New("unknown message")
)

var (
	denoms   = storage.NewMap[string]([]byte{0x01}, storage.CBOR[DenomData]())
	balances = []byte{0x02}
)

/*
BeforeSendHook is called before moving coins of a denom which has hook contract
registered. The kv is the same store the Keeper was called with (not the bank
scoped one) so that the hook can read the contract's state. Returned error
aborts the transfer and is returned to the caller unchanged.
*/
type BeforeSendHook func(kv store.KVStore, contract, from, to types.Address, amount types.Coin) error

type Keeper struct {
	addressPrefix string
	hook          BeforeSendHook
}

// NewKeeper returns Keeper validating addresses against addressPrefix. The hook
// may be nil in which case registered before-send hooks are ignored.
func NewKeeper(addressPrefix string, hook BeforeSendHook) *Keeper {
	return &Keeper{addressPrefix: addressPrefix, hook: hook}
}

func bankStore(kv store.KVStore) store.KVStore {
	return store.NewPrefixStore(kv, []byte(StorePrefix))
}

func balancesOf(addr types.Address) storage.Map[string, types.Amount] {
	prefix := make([]byte, 0, len(balances)+len(addr)+1)
	prefix = append(append(append(prefix, balances...), addr...), 0x00)
	return storage.NewMap[string](prefix, storage.CBOR[types.Amount]())
}

// Dispatch executes the message against the kv.
func (k *Keeper) Dispatch(kv store.KVStore, msg Msg) error {
	switch m := msg.(type) {
	case *CreateDenomMsg:
		_, err := k.CreateDenom(kv, m)
		return err
	case *MintMsg:
		return k.Mint(kv, m)
	case *BurnMsg:
		return k.Burn(kv, m)
	case *ChangeAdminMsg:
		return k.ChangeAdmin(kv, m)
	case *SetBeforeSendHookMsg:
		return k.SetBeforeSendHook(kv, m)
	case *SendMsg:
		return k.Send(kv, m)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownMsg, msg)
	}
}

func (k *Keeper) CreateDenom(kv store.KVStore, msg *CreateDenomMsg) (string, error) {
	creator, err := k.parseAddress(msg.Sender)
	if err != nil {
		return "", fmt.Errorf("sender: %w", err)
	}
	denom, err := FactoryDenom(creator, msg.Subdenom)
	if err != nil {
		return "", err
	}
	bs := bankStore(kv)
	exists, err := denoms.Has(bs, denom)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("%w: %s", ErrDenomExists, denom)
	}
	if err := denoms.Set(bs, denom, DenomData{Admin: creator}); err != nil {
		return "", fmt.Errorf("storing denom %s: %w", denom, err)
	}
	return denom, nil
}

func (k *Keeper) Mint(kv store.KVStore, msg *MintMsg) error {
	bs := bankStore(kv)
	d, err := k.adminDenom(bs, msg.Sender, msg.Amount.Denom)
	if err != nil {
		return err
	}
	if msg.Amount.Amount.IsZero() {
		return fmt.Errorf("%w: %s", ErrInvalidCoins, msg.Amount)
	}
	to, err := k.addressOrDefault(msg.MintToAddress, msg.Sender)
	if err != nil {
		return fmt.Errorf("mint to address: %w", err)
	}

	if d.Supply, err = d.Supply.CheckedAdd(msg.Amount.Amount); err != nil {
		return err
	}
	if err := k.addBalance(bs, to, msg.Amount); err != nil {
		return err
	}
	return denoms.Set(bs, msg.Amount.Denom, d)
}

func (k *Keeper) Burn(kv store.KVStore, msg *BurnMsg) error {
	bs := bankStore(kv)
	d, err := k.adminDenom(bs, msg.Sender, msg.Amount.Denom)
	if err != nil {
		return err
	}
	if msg.Amount.Amount.IsZero() {
		return fmt.Errorf("%w: %s", ErrInvalidCoins, msg.Amount)
	}
	from, err := k.addressOrDefault(msg.BurnFromAddress, msg.Sender)
	if err != nil {
		return fmt.Errorf("burn from address: %w", err)
	}

	if err := k.subBalance(bs, from, msg.Amount); err != nil {
		return err
	}
	if d.Supply, err = d.Supply.CheckedSub(msg.Amount.Amount); err != nil {
		return err
	}
	return denoms.Set(bs, msg.Amount.Denom, d)
}

func (k *Keeper) ChangeAdmin(kv store.KVStore, msg *ChangeAdminMsg) error {
	bs := bankStore(kv)
	d, err := k.adminDenom(bs, msg.Sender, msg.Denom)
	if err != nil {
		return err
	}
	if d.Admin, err = k.addressOrDefault(msg.NewAdmin, ""); err != nil {
		return fmt.Errorf("new admin: %w", err)
	}
	return denoms.Set(bs, msg.Denom, d)
}

func (k *Keeper) SetBeforeSendHook(kv store.KVStore, msg *SetBeforeSendHookMsg) error {
	bs := bankStore(kv)
	d, err := k.adminDenom(bs, msg.Sender, msg.Denom)
	if err != nil {
		return err
	}
	if d.BeforeSendHook, err = k.addressOrDefault(msg.ContractAddr, ""); err != nil {
		return fmt.Errorf("hook contract: %w", err)
	}
	return denoms.Set(bs, msg.Denom, d)
}

// Send moves coins between accounts. Coins of any denom may be sent, the
// before-send hook is consulted only for denoms created by the Keeper.
func (k *Keeper) Send(kv store.KVStore, msg *SendMsg) error {
	if msg.Amount.Amount.IsZero() {
		return fmt.Errorf("%w: %s", ErrInvalidCoins, msg.Amount)
	}
	if err := ValidateDenom(msg.Amount.Denom); err != nil {
		return err
	}
	from, err := k.parseAddress(msg.FromAddress)
	if err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	to, err := k.parseAddress(msg.ToAddress)
	if err != nil {
		return fmt.Errorf("to address: %w", err)
	}

	bs := bankStore(kv)
	d, ok, err := denoms.Get(bs, msg.Amount.Denom)
	if err != nil {
		return err
	}
	if ok && k.hook != nil && !d.BeforeSendHook.IsEmpty() {
		if err := k.hook(kv, d.BeforeSendHook, from, to, msg.Amount); err != nil {
			return err
		}
	}

	if err := k.subBalance(bs, from, msg.Amount); err != nil {
		return err
	}
	return k.addBalance(bs, to, msg.Amount)
}

// Balance returns the amount of denom the account holds, zero when none.
func (k *Keeper) Balance(kv store.Reader, addr types.Address, denom string) (types.Amount, error) {
	addr, err := k.parseAddress(addr)
	if err != nil {
		return types.Amount{}, err
	}
	v, _, err := balancesOf(addr).Get(store.NewPrefixReader(kv, []byte(StorePrefix)), denom)
	return v, err
}

// Balances returns all non-zero balances of the account ordered by denom.
func (k *Keeper) Balances(kv store.Reader, addr types.Address) ([]types.Coin, error) {
	addr, err := k.parseAddress(addr)
	if err != nil {
		return nil, err
	}
	var res []types.Coin
	err = balancesOf(addr).Range(store.NewPrefixReader(kv, []byte(StorePrefix)), nil, func(denom string, amount types.Amount) (bool, error) {
		res = append(res, types.NewCoin(denom, amount))
		return true, nil
	})
	return res, err
}

func (k *Keeper) Denom(kv store.Reader, denom string) (DenomData, error) {
	d, ok, err := denoms.Get(store.NewPrefixReader(kv, []byte(StorePrefix)), denom)
	if err != nil {
		return d, err
	}
	if !ok {
		return d, fmt.Errorf("%w: %s", ErrDenomNotFound, denom)
	}
	return d, nil
}

func (k *Keeper) adminDenom(bs store.Reader, sender types.Address, denom string) (DenomData, error) {
	d, ok, err := denoms.Get(bs, denom)
	if err != nil {
		return d, err
	}
	if !ok {
		return d, fmt.Errorf("%w: %s", ErrDenomNotFound, denom)
	}
	if d.Admin.IsEmpty() || d.Admin != sender {
		return d, fmt.Errorf("%w: %s is not the admin of %s", ErrNotDenomAdmin, sender, denom)
	}
	return d, nil
}

// parseAddress returns the canonical form of addr, balances and roles are
// keyed by it.
func (k *Keeper) parseAddress(addr types.Address) (types.Address, error) {
	return types.ParseAddress(k.addressPrefix, addr.String())
}

func (k *Keeper) addressOrDefault(addr, def types.Address) (types.Address, error) {
	if addr.IsEmpty() {
		return def, nil
	}
	return k.parseAddress(addr)
}

func (k *Keeper) addBalance(bs store.KVStore, addr types.Address, coin types.Coin) error {
	m := balancesOf(addr)
	bal, _, err := m.Get(bs, coin.Denom)
	if err != nil {
		return err
	}
	if bal, err = bal.CheckedAdd(coin.Amount); err != nil {
		return err
	}
	return m.Set(bs, coin.Denom, bal)
}

func (k *Keeper) subBalance(bs store.KVStore, addr types.Address, coin types.Coin) error {
	m := balancesOf(addr)
	bal, _, err := m.Get(bs, coin.Denom)
	if err != nil {
		return err
	}
	if bal.Cmp(coin.Amount) < 0 {
		return fmt.Errorf("%s is smaller than %s: %w", types.NewCoin(coin.Denom, bal), coin, ErrInsufficientFunds)
	}
	if bal, err = bal.CheckedSub(coin.Amount); err != nil {
		return err
	}
	if bal.IsZero() {
		return m.Remove(bs, coin.Denom)
	}
	return m.Set(bs, coin.Denom, bal)
}
