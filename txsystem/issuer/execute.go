package issuer

import (
	"fmt"
	"strconv"

	"github.com/tokenfactory/issuer/store"
	"github.com/tokenfactory/issuer/txsystem/bank"
	"github.com/tokenfactory/issuer/types"
)

// grantAllowance overwrites the allowance of addr, zero revokes it.
func (c *Contract) grantAllowance(kv store.KVStore, sender types.Address, action string, m allowances, addr types.Address, amount types.Amount) (*Response, error) {
	if err := requireRole(kv, sender, RoleOwner); err != nil {
		return nil, err
	}
	addr, err := c.parseAddress(addr)
	if err != nil {
		return nil, err
	}
	if err := setAllowance(kv, m, addr, amount); err != nil {
		return nil, fmt.Errorf("storing allowance: %w", err)
	}
	return newResponse(action, "address", addr.String(), "allowance", amount.String()), nil
}

/*
remainingAllowance returns the allowance of sender left after spending amount.
Sender without allowance is treated as having zero allowance so the error
returned to unauthorized sender is *types.OverflowError, same as for exhausted
allowance.
*/
func remainingAllowance(kv store.Reader, m allowances, sender types.Address, amount types.Amount) (types.Amount, error) {
	if amount.IsZero() {
		return types.Amount{}, ErrZeroAmount
	}
	cur, err := allowance(kv, m, sender)
	if err != nil {
		return types.Amount{}, err
	}
	return cur.CheckedSub(amount)
}

func (c *Contract) mint(kv store.KVStore, sender types.Address, attr *MintAttributes) (*Response, error) {
	denom, err := loadDenom(kv)
	if err != nil {
		return nil, err
	}
	left, err := remainingAllowance(kv, minterAllowances, sender, attr.Amount)
	if err != nil {
		return nil, err
	}
	to, err := c.parseAddress(attr.ToAddress)
	if err != nil {
		return nil, err
	}
	if err := setAllowance(kv, minterAllowances, sender, left); err != nil {
		return nil, fmt.Errorf("storing allowance: %w", err)
	}
	coin := types.NewCoin(denom, attr.Amount)
	return newResponse(PayloadTypeMint, "to", to.String(), "amount", coin.String()).
		add(&bank.MintMsg{Sender: c.address, Amount: coin, MintToAddress: to}), nil
}

func (c *Contract) burn(kv store.KVStore, sender types.Address, attr *BurnAttributes) (*Response, error) {
	denom, err := loadDenom(kv)
	if err != nil {
		return nil, err
	}
	left, err := remainingAllowance(kv, burnerAllowances, sender, attr.Amount)
	if err != nil {
		return nil, err
	}
	from, err := c.parseAddress(attr.FromAddress)
	if err != nil {
		return nil, err
	}
	if err := setAllowance(kv, burnerAllowances, sender, left); err != nil {
		return nil, fmt.Errorf("storing allowance: %w", err)
	}
	coin := types.NewCoin(denom, attr.Amount)
	return newResponse(PayloadTypeBurn, "from", from.String(), "amount", coin.String()).
		add(&bank.BurnMsg{Sender: c.address, Amount: coin, BurnFromAddress: from}), nil
}

func (c *Contract) grantStatus(kv store.KVStore, sender types.Address, role Role, action string, m statuses, addr types.Address, on bool) (*Response, error) {
	if err := requireRole(kv, sender, role); err != nil {
		return nil, err
	}
	addr, err := c.parseAddress(addr)
	if err != nil {
		return nil, err
	}
	if err := setStatus(kv, m, addr, on); err != nil {
		return nil, fmt.Errorf("storing %s status: %w", action, err)
	}
	return newResponse(action, "address", addr.String(), "status", strconv.FormatBool(on)), nil
}

func (c *Contract) freeze(kv store.KVStore, sender types.Address, on bool) (*Response, error) {
	if err := requireRole(kv, sender, RoleFreezer); err != nil {
		return nil, err
	}
	if err := frozenItem.Set(kv, on); err != nil {
		return nil, fmt.Errorf("storing freeze status: %w", err)
	}
	return newResponse(PayloadTypeFreeze, "status", strconv.FormatBool(on)), nil
}

func (c *Contract) changeOwner(kv store.KVStore, sender, newOwner types.Address) (*Response, error) {
	if err := requireRole(kv, sender, RoleOwner); err != nil {
		return nil, err
	}
	newOwner, err := c.parseAddress(newOwner)
	if err != nil {
		return nil, err
	}
	if err := ownerItem.Set(kv, newOwner); err != nil {
		return nil, fmt.Errorf("storing owner: %w", err)
	}
	return newResponse(PayloadTypeChangeContractOwner, "new_owner", newOwner.String()), nil
}

// changeTokenFactoryAdmin hands the denom over, after that the contract can't
// mint or burn anymore.
func (c *Contract) changeTokenFactoryAdmin(kv store.KVStore, sender, newAdmin types.Address) (*Response, error) {
	if err := requireRole(kv, sender, RoleOwner); err != nil {
		return nil, err
	}
	newAdmin, err := c.parseAddress(newAdmin)
	if err != nil {
		return nil, err
	}
	denom, err := loadDenom(kv)
	if err != nil {
		return nil, err
	}
	return newResponse(PayloadTypeChangeTokenFactoryAdmin, "new_admin", newAdmin.String()).
		add(&bank.ChangeAdminMsg{Sender: c.address, Denom: denom, NewAdmin: newAdmin}), nil
}
