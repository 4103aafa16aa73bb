package bank

import (
	"github.com/tokenfactory/issuer/types"
)

const (
	MsgTypeCreateDenom       = "create_denom"
	MsgTypeMint              = "mint"
	MsgTypeBurn              = "burn"
	MsgTypeChangeAdmin       = "change_admin"
	MsgTypeSetBeforeSendHook = "set_before_send_hook"
	MsgTypeSend              = "send"
)

type (
	// Msg is an instruction handled by the Keeper, either emitted by a contract
	// or submitted by an account directly (Send).
	Msg interface {
		MsgType() string
	}

	// CreateDenomMsg creates denom "factory/{Sender}/{Subdenom}" with Sender as admin.
	CreateDenomMsg struct {
		_        struct{}      `cbor:",toarray"`
		Sender   types.Address `json:"sender"`
		Subdenom string        `json:"subdenom"`
	}

	MintMsg struct {
		_             struct{}      `cbor:",toarray"`
		Sender        types.Address `json:"sender"`
		Amount        types.Coin    `json:"amount"`
		MintToAddress types.Address `json:"mint_to_address"` // empty means Sender
	}

	BurnMsg struct {
		_               struct{}      `cbor:",toarray"`
		Sender          types.Address `json:"sender"`
		Amount          types.Coin    `json:"amount"`
		BurnFromAddress types.Address `json:"burn_from_address"` // empty means Sender
	}

	// ChangeAdminMsg transfers denom admin rights, empty NewAdmin renounces them.
	ChangeAdminMsg struct {
		_        struct{}      `cbor:",toarray"`
		Sender   types.Address `json:"sender"`
		Denom    string        `json:"denom"`
		NewAdmin types.Address `json:"new_admin"`
	}

	// SetBeforeSendHookMsg registers contract which is consulted before every
	// transfer of the denom, empty ContractAddr removes the hook.
	SetBeforeSendHookMsg struct {
		_            struct{}      `cbor:",toarray"`
		Sender       types.Address `json:"sender"`
		Denom        string        `json:"denom"`
		ContractAddr types.Address `json:"contract_addr"`
	}

	SendMsg struct {
		_           struct{}      `cbor:",toarray"`
		FromAddress types.Address `json:"from_address"`
		ToAddress   types.Address `json:"to_address"`
		Amount      types.Coin    `json:"amount"`
	}
)

func (*CreateDenomMsg) MsgType() string       { return MsgTypeCreateDenom }
func (*MintMsg) MsgType() string              { return MsgTypeMint }
func (*BurnMsg) MsgType() string              { return MsgTypeBurn }
func (*ChangeAdminMsg) MsgType() string       { return MsgTypeChangeAdmin }
func (*SetBeforeSendHookMsg) MsgType() string { return MsgTypeSetBeforeSendHook }
func (*SendMsg) MsgType() string              { return MsgTypeSend }
