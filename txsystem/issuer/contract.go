/*
Package issuer implements token issuer contract: the owner grants mint and burn
allowances, freezers toggle global freeze of transfers and blacklisters
block transfers of individual accounts. The contract doesn't keep balances, it
emits bank messages which the host executes in the same change set.
*/
package issuer

import (
	"fmt"

	"github.com/tokenfactory/issuer/store"
	"github.com/tokenfactory/issuer/txsystem/bank"
	"github.com/tokenfactory/issuer/types"
)

type (
	Contract struct {
		address       types.Address
		addressPrefix string
	}

	// Response of successful execution, Messages must be executed by the
	// caller in the same change set.
	Response struct {
		Messages   []bank.Msg  `json:"messages"`
		Attributes []Attribute `json:"attributes"`
	}

	Attribute struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
)

func New(address types.Address, addressPrefix string) *Contract {
	return &Contract{address: address, addressPrefix: addressPrefix}
}

func (c *Contract) Address() types.Address {
	return c.address
}

func newResponse(action string, kv ...string) *Response {
	r := &Response{Attributes: []Attribute{{Key: "action", Value: action}}}
	for i := 0; i+1 < len(kv); i += 2 {
		r.Attributes = append(r.Attributes, Attribute{Key: kv[i], Value: kv[i+1]})
	}
	return r
}

func (r *Response) add(msg ...bank.Msg) *Response {
	r.Messages = append(r.Messages, msg...)
	return r
}

func (c *Contract) parseAddress(addr types.Address) (types.Address, error) {
	return types.ParseAddress(c.addressPrefix, addr.String())
}

/*
Instantiate initializes the contract state, sender becomes the owner. For a
new token the response contains messages creating the denom and registering
the contract as its before-send hook.
*/
func (c *Contract) Instantiate(kv store.KVStore, sender types.Address, msg *InstantiateMsg) (*Response, error) {
	typ, attr, err := msg.Payload()
	if err != nil {
		return nil, err
	}
	owner, err := c.parseAddress(sender)
	if err != nil {
		return nil, fmt.Errorf("sender: %w", err)
	}
	_, found, err := ownerItem.Load(kv)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, ErrAlreadyInstantiated
	}

	var denom string
	var msgs []bank.Msg
	switch a := attr.(type) {
	case *NewTokenAttributes:
		if denom, err = bank.FactoryDenom(c.address, a.Subdenom); err != nil {
			return nil, err
		}
		msgs = append(msgs,
			&bank.CreateDenomMsg{Sender: c.address, Subdenom: a.Subdenom},
			&bank.SetBeforeSendHookMsg{Sender: c.address, Denom: denom, ContractAddr: c.address},
		)
	case *ExistingTokenAttributes:
		if err := bank.ValidateDenom(a.Denom); err != nil {
			return nil, err
		}
		denom = a.Denom
	default:
		return nil, fmt.Errorf("%w: unsupported instantiate message %s", ErrInvalidMessage, typ)
	}

	if err := ownerItem.Set(kv, owner); err != nil {
		return nil, fmt.Errorf("storing owner: %w", err)
	}
	if err := denomItem.Set(kv, denom); err != nil {
		return nil, fmt.Errorf("storing denom: %w", err)
	}
	if err := frozenItem.Set(kv, false); err != nil {
		return nil, fmt.Errorf("storing freeze status: %w", err)
	}
	return newResponse("instantiate", "owner", owner.String(), "denom", denom).add(msgs...), nil
}

// Execute runs the variant of msg which is set on behalf of sender.
func (c *Contract) Execute(kv store.KVStore, sender types.Address, msg *ExecuteMsg) (*Response, error) {
	_, attr, err := msg.Payload()
	if err != nil {
		return nil, err
	}
	if sender, err = c.parseAddress(sender); err != nil {
		return nil, fmt.Errorf("sender: %w", err)
	}
	switch a := attr.(type) {
	case *SetMinterAttributes:
		return c.grantAllowance(kv, sender, PayloadTypeSetMinter, minterAllowances, a.Address, a.Allowance)
	case *SetBurnerAttributes:
		return c.grantAllowance(kv, sender, PayloadTypeSetBurner, burnerAllowances, a.Address, a.Allowance)
	case *MintAttributes:
		return c.mint(kv, sender, a)
	case *BurnAttributes:
		return c.burn(kv, sender, a)
	case *SetFreezerAttributes:
		return c.grantStatus(kv, sender, RoleOwner, PayloadTypeSetFreezer, freezers, a.Address, a.Status)
	case *FreezeAttributes:
		return c.freeze(kv, sender, a.Status)
	case *SetBlacklisterAttributes:
		return c.grantStatus(kv, sender, RoleOwner, PayloadTypeSetBlacklister, blacklisters, a.Address, a.Status)
	case *BlacklistAttributes:
		return c.grantStatus(kv, sender, RoleBlacklister, PayloadTypeBlacklist, blacklisted, a.Address, a.Status)
	case *ChangeContractOwnerAttributes:
		return c.changeOwner(kv, sender, a.NewOwner)
	case *ChangeTokenFactoryAdminAttributes:
		return c.changeTokenFactoryAdmin(kv, sender, a.NewAdmin)
	default:
		return nil, fmt.Errorf("%w: unsupported attributes %T", ErrInvalidMessage, attr)
	}
}

// ExecuteOrder decodes the order and instantiates or executes the contract.
func (c *Contract) ExecuteOrder(kv store.KVStore, order *types.MessageOrder) (*Response, error) {
	inst, exec, err := DecodeMessageOrder(order)
	if err != nil {
		return nil, err
	}
	if inst != nil {
		return c.Instantiate(kv, order.Sender, inst)
	}
	return c.Execute(kv, order.Sender, exec)
}

/*
BeforeSend is consulted by the bank before coins of the denom are moved. The
transfer is rejected while the contract is frozen or when either party is
blacklisted.
*/
func (c *Contract) BeforeSend(kv store.Reader, from, to types.Address, amount types.Coin) error {
	frozen, err := isFrozen(kv)
	if err != nil {
		return err
	}
	if frozen {
		return fmt.Errorf("%w for denom %q", ErrContractFrozen, amount.Denom)
	}
	for _, addr := range []types.Address{from, to} {
		addr, err := c.parseAddress(addr)
		if err != nil {
			return err
		}
		bl, err := status(kv, blacklisted, addr)
		if err != nil {
			return err
		}
		if bl {
			return fmt.Errorf("%w: %s", ErrBlacklisted, addr)
		}
	}
	return nil
}
