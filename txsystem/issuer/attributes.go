package issuer

import (
	"fmt"

	"github.com/tokenfactory/issuer/types"
)

const (
	PayloadTypeNewToken      = "instantiate_new_token"
	PayloadTypeExistingToken = "instantiate_existing_token"

	PayloadTypeSetMinter               = "set_minter"
	PayloadTypeSetBurner               = "set_burner"
	PayloadTypeMint                    = "mint"
	PayloadTypeBurn                    = "burn"
	PayloadTypeSetFreezer              = "set_freezer"
	PayloadTypeFreeze                  = "freeze"
	PayloadTypeSetBlacklister          = "set_blacklister"
	PayloadTypeBlacklist               = "blacklist"
	PayloadTypeChangeContractOwner     = "change_contract_owner"
	PayloadTypeChangeTokenFactoryAdmin = "change_token_factory_admin"
)

type (
	// InstantiateMsg must have exactly one of the fields set.
	InstantiateMsg struct {
		NewToken      *NewTokenAttributes      `json:"new_token,omitempty"`
		ExistingToken *ExistingTokenAttributes `json:"existing_token,omitempty"`
	}

	// NewTokenAttributes creates denom "factory/{contract}/{Subdenom}" owned by the contract.
	NewTokenAttributes struct {
		_        struct{} `cbor:",toarray"`
		Subdenom string   `json:"subdenom"`
	}

	// ExistingTokenAttributes manages denom created elsewhere, minting and
	// burning works once the contract has been made the denom admin.
	ExistingTokenAttributes struct {
		_     struct{} `cbor:",toarray"`
		Denom string   `json:"denom"`
	}

	// ExecuteMsg must have exactly one of the fields set.
	ExecuteMsg struct {
		SetMinter               *SetMinterAttributes               `json:"set_minter,omitempty"`
		SetBurner               *SetBurnerAttributes               `json:"set_burner,omitempty"`
		Mint                    *MintAttributes                    `json:"mint,omitempty"`
		Burn                    *BurnAttributes                    `json:"burn,omitempty"`
		SetFreezer              *SetFreezerAttributes              `json:"set_freezer,omitempty"`
		Freeze                  *FreezeAttributes                  `json:"freeze,omitempty"`
		SetBlacklister          *SetBlacklisterAttributes          `json:"set_blacklister,omitempty"`
		Blacklist               *BlacklistAttributes               `json:"blacklist,omitempty"`
		ChangeContractOwner     *ChangeContractOwnerAttributes     `json:"change_contract_owner,omitempty"`
		ChangeTokenFactoryAdmin *ChangeTokenFactoryAdminAttributes `json:"change_token_factory_admin,omitempty"`
	}

	SetMinterAttributes struct {
		_         struct{}      `cbor:",toarray"`
		Address   types.Address `json:"address"`
		Allowance types.Amount  `json:"allowance"`
	}

	SetBurnerAttributes struct {
		_         struct{}      `cbor:",toarray"`
		Address   types.Address `json:"address"`
		Allowance types.Amount  `json:"allowance"`
	}

	MintAttributes struct {
		_         struct{}      `cbor:",toarray"`
		ToAddress types.Address `json:"to_address"`
		Amount    types.Amount  `json:"amount"`
	}

	BurnAttributes struct {
		_           struct{}      `cbor:",toarray"`
		FromAddress types.Address `json:"from_address"`
		Amount      types.Amount  `json:"amount"`
	}

	SetFreezerAttributes struct {
		_       struct{}      `cbor:",toarray"`
		Address types.Address `json:"address"`
		Status  bool          `json:"status"`
	}

	FreezeAttributes struct {
		_      struct{} `cbor:",toarray"`
		Status bool     `json:"status"`
	}

	SetBlacklisterAttributes struct {
		_       struct{}      `cbor:",toarray"`
		Address types.Address `json:"address"`
		Status  bool          `json:"status"`
	}

	BlacklistAttributes struct {
		_       struct{}      `cbor:",toarray"`
		Address types.Address `json:"address"`
		Status  bool          `json:"status"`
	}

	ChangeContractOwnerAttributes struct {
		_        struct{}      `cbor:",toarray"`
		NewOwner types.Address `json:"new_owner"`
	}

	ChangeTokenFactoryAdminAttributes struct {
		_        struct{}      `cbor:",toarray"`
		NewAdmin types.Address `json:"new_admin"`
	}

	// Empty is the parameter of queries which take no arguments, encodes as "{}".
	Empty struct{}

	AddressQuery struct {
		Address types.Address `json:"address"`
	}

	// ListQuery is the cursor of paginated queries, see DefaultLimit and MaxLimit.
	ListQuery struct {
		StartAfter *types.Address `json:"start_after,omitempty"`
		Limit      *uint32        `json:"limit,omitempty"`
	}

	// QueryMsg must have exactly one of the fields set.
	QueryMsg struct {
		Denom          *Empty        `json:"denom,omitempty"`
		IsFrozen       *Empty        `json:"is_frozen,omitempty"`
		Owner          *Empty        `json:"owner,omitempty"`
		MintAllowance  *AddressQuery `json:"mint_allowance,omitempty"`
		BurnAllowance  *AddressQuery `json:"burn_allowance,omitempty"`
		MintAllowances *ListQuery    `json:"mint_allowances,omitempty"`
		BurnAllowances *ListQuery    `json:"burn_allowances,omitempty"`
		IsFreezer      *AddressQuery `json:"is_freezer,omitempty"`
		Freezers       *ListQuery    `json:"freezers,omitempty"`
		IsBlacklister  *AddressQuery `json:"is_blacklister,omitempty"`
		Blacklisters   *ListQuery    `json:"blacklisters,omitempty"`
		IsBlacklisted  *AddressQuery `json:"is_blacklisted,omitempty"`
		Blacklistees   *ListQuery    `json:"blacklistees,omitempty"`
	}
)

type variant struct {
	typ  string
	attr any
	set  bool
}

// single returns the only variant which is set.
func single(name string, vs ...variant) (string, any, error) {
	var found *variant
	for i := range vs {
		if !vs[i].set {
			continue
		}
		if found != nil {
			return "", nil, fmt.Errorf("%w: %s has both %s and %s set", ErrInvalidMessage, name, found.typ, vs[i].typ)
		}
		found = &vs[i]
	}
	if found == nil {
		return "", nil, fmt.Errorf("%w: empty %s", ErrInvalidMessage, name)
	}
	return found.typ, found.attr, nil
}

// Payload returns the message type and attributes of the variant which is set.
func (m *InstantiateMsg) Payload() (string, any, error) {
	if m == nil {
		return "", nil, fmt.Errorf("%w: instantiate message is nil", ErrInvalidMessage)
	}
	return single("instantiate message",
		variant{PayloadTypeNewToken, m.NewToken, m.NewToken != nil},
		variant{PayloadTypeExistingToken, m.ExistingToken, m.ExistingToken != nil},
	)
}

// Payload returns the message type and attributes of the variant which is set.
func (m *ExecuteMsg) Payload() (string, any, error) {
	if m == nil {
		return "", nil, fmt.Errorf("%w: execute message is nil", ErrInvalidMessage)
	}
	return single("execute message",
		variant{PayloadTypeSetMinter, m.SetMinter, m.SetMinter != nil},
		variant{PayloadTypeSetBurner, m.SetBurner, m.SetBurner != nil},
		variant{PayloadTypeMint, m.Mint, m.Mint != nil},
		variant{PayloadTypeBurn, m.Burn, m.Burn != nil},
		variant{PayloadTypeSetFreezer, m.SetFreezer, m.SetFreezer != nil},
		variant{PayloadTypeFreeze, m.Freeze, m.Freeze != nil},
		variant{PayloadTypeSetBlacklister, m.SetBlacklister, m.SetBlacklister != nil},
		variant{PayloadTypeBlacklist, m.Blacklist, m.Blacklist != nil},
		variant{PayloadTypeChangeContractOwner, m.ChangeContractOwner, m.ChangeContractOwner != nil},
		variant{PayloadTypeChangeTokenFactoryAdmin, m.ChangeTokenFactoryAdmin, m.ChangeTokenFactoryAdmin != nil},
	)
}

// NewMessageOrder wraps the variant of msg (InstantiateMsg or ExecuteMsg) into
// message order sent by sender.
func NewMessageOrder(sender types.Address, msg interface{ Payload() (string, any, error) }) (*types.MessageOrder, error) {
	typ, attr, err := msg.Payload()
	if err != nil {
		return nil, err
	}
	order := &types.MessageOrder{Version: 1, Sender: sender, Type: typ}
	if err := order.SetAttributes(attr); err != nil {
		return nil, err
	}
	return order, nil
}

/*
DecodeMessageOrder decodes attributes of the order. Exactly one of the returned
messages is non-nil.
*/
func DecodeMessageOrder(order *types.MessageOrder) (*InstantiateMsg, *ExecuteMsg, error) {
	if order == nil {
		return nil, nil, types.ErrMessageOrderIsNil
	}
	var inst InstantiateMsg
	var exec ExecuteMsg
	var attr any
	switch order.Type {
	case PayloadTypeNewToken:
		inst.NewToken = &NewTokenAttributes{}
		attr = inst.NewToken
	case PayloadTypeExistingToken:
		inst.ExistingToken = &ExistingTokenAttributes{}
		attr = inst.ExistingToken
	case PayloadTypeSetMinter:
		exec.SetMinter = &SetMinterAttributes{}
		attr = exec.SetMinter
	case PayloadTypeSetBurner:
		exec.SetBurner = &SetBurnerAttributes{}
		attr = exec.SetBurner
	case PayloadTypeMint:
		exec.Mint = &MintAttributes{}
		attr = exec.Mint
	case PayloadTypeBurn:
		exec.Burn = &BurnAttributes{}
		attr = exec.Burn
	case PayloadTypeSetFreezer:
		exec.SetFreezer = &SetFreezerAttributes{}
		attr = exec.SetFreezer
	case PayloadTypeFreeze:
		exec.Freeze = &FreezeAttributes{}
		attr = exec.Freeze
	case PayloadTypeSetBlacklister:
		exec.SetBlacklister = &SetBlacklisterAttributes{}
		attr = exec.SetBlacklister
	case PayloadTypeBlacklist:
		exec.Blacklist = &BlacklistAttributes{}
		attr = exec.Blacklist
	case PayloadTypeChangeContractOwner:
		exec.ChangeContractOwner = &ChangeContractOwnerAttributes{}
		attr = exec.ChangeContractOwner
	case PayloadTypeChangeTokenFactoryAdmin:
		exec.ChangeTokenFactoryAdmin = &ChangeTokenFactoryAdminAttributes{}
		attr = exec.ChangeTokenFactoryAdmin
	default:
		return nil, nil, fmt.Errorf("%w: unknown message type %q", ErrInvalidMessage, order.Type)
	}
	if err := order.UnmarshalAttributes(attr); err != nil {
		return nil, nil, fmt.Errorf("%w: decoding %s attributes: %w", ErrInvalidMessage, order.Type, err)
	}
	if inst.NewToken != nil || inst.ExistingToken != nil {
		return &inst, nil, nil
	}
	return nil, &exec, nil
}
