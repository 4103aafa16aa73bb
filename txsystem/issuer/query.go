package issuer

import (
	"fmt"

	"github.com/tokenfactory/issuer/store"
	"github.com/tokenfactory/issuer/types"
)

type (
	DenomResponse struct {
		Denom string `json:"denom"`
	}

	IsFrozenResponse struct {
		IsFrozen bool `json:"is_frozen"`
	}

	OwnerResponse struct {
		Address types.Address `json:"address"`
	}

	AllowanceResponse struct {
		Allowance types.Amount `json:"allowance"`
	}

	AllowanceInfo struct {
		Address   types.Address `json:"address"`
		Allowance types.Amount  `json:"allowance"`
	}

	AllowancesResponse struct {
		Allowances []AllowanceInfo `json:"allowances"`
	}

	StatusResponse struct {
		Status bool `json:"status"`
	}

	StatusInfo struct {
		Address types.Address `json:"address"`
		Status  bool          `json:"status"`
	}

	StatusesResponse struct {
		Statuses []StatusInfo `json:"statuses"`
	}
)

// Query answers the variant of msg which is set, the result is one of the *Response types.
func (c *Contract) Query(kv store.Reader, msg *QueryMsg) (any, error) {
	if msg == nil {
		return nil, fmt.Errorf("%w: query message is nil", ErrInvalidMessage)
	}
	if _, _, err := single("query message",
		variant{"denom", nil, msg.Denom != nil},
		variant{"is_frozen", nil, msg.IsFrozen != nil},
		variant{"owner", nil, msg.Owner != nil},
		variant{"mint_allowance", nil, msg.MintAllowance != nil},
		variant{"burn_allowance", nil, msg.BurnAllowance != nil},
		variant{"mint_allowances", nil, msg.MintAllowances != nil},
		variant{"burn_allowances", nil, msg.BurnAllowances != nil},
		variant{"is_freezer", nil, msg.IsFreezer != nil},
		variant{"freezers", nil, msg.Freezers != nil},
		variant{"is_blacklister", nil, msg.IsBlacklister != nil},
		variant{"blacklisters", nil, msg.Blacklisters != nil},
		variant{"is_blacklisted", nil, msg.IsBlacklisted != nil},
		variant{"blacklistees", nil, msg.Blacklistees != nil},
	); err != nil {
		return nil, err
	}

	switch {
	case msg.Denom != nil:
		return result(c.Denom(kv))
	case msg.IsFrozen != nil:
		return result(c.IsFrozen(kv))
	case msg.Owner != nil:
		return result(c.Owner(kv))
	case msg.MintAllowance != nil:
		return result(c.MintAllowance(kv, msg.MintAllowance.Address))
	case msg.BurnAllowance != nil:
		return result(c.BurnAllowance(kv, msg.BurnAllowance.Address))
	case msg.MintAllowances != nil:
		return result(c.MintAllowances(kv, *msg.MintAllowances))
	case msg.BurnAllowances != nil:
		return result(c.BurnAllowances(kv, *msg.BurnAllowances))
	case msg.IsFreezer != nil:
		return result(c.IsFreezer(kv, msg.IsFreezer.Address))
	case msg.Freezers != nil:
		return result(c.Freezers(kv, *msg.Freezers))
	case msg.IsBlacklister != nil:
		return result(c.IsBlacklister(kv, msg.IsBlacklister.Address))
	case msg.Blacklisters != nil:
		return result(c.Blacklisters(kv, *msg.Blacklisters))
	case msg.IsBlacklisted != nil:
		return result(c.IsBlacklisted(kv, msg.IsBlacklisted.Address))
	default:
		return result(c.Blacklistees(kv, *msg.Blacklistees))
	}
}

// result keeps typed nil pointer out of the interface.
func result[T any](v *T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (c *Contract) Denom(kv store.Reader) (*DenomResponse, error) {
	denom, err := loadDenom(kv)
	if err != nil {
		return nil, err
	}
	return &DenomResponse{Denom: denom}, nil
}

func (c *Contract) IsFrozen(kv store.Reader) (*IsFrozenResponse, error) {
	if _, err := loadOwner(kv); err != nil {
		return nil, err
	}
	frozen, err := isFrozen(kv)
	if err != nil {
		return nil, err
	}
	return &IsFrozenResponse{IsFrozen: frozen}, nil
}

func (c *Contract) Owner(kv store.Reader) (*OwnerResponse, error) {
	owner, err := loadOwner(kv)
	if err != nil {
		return nil, err
	}
	return &OwnerResponse{Address: owner}, nil
}

func (c *Contract) MintAllowance(kv store.Reader, addr types.Address) (*AllowanceResponse, error) {
	return c.queryAllowance(kv, minterAllowances, addr)
}

func (c *Contract) BurnAllowance(kv store.Reader, addr types.Address) (*AllowanceResponse, error) {
	return c.queryAllowance(kv, burnerAllowances, addr)
}

func (c *Contract) MintAllowances(kv store.Reader, q ListQuery) (*AllowancesResponse, error) {
	return c.queryAllowances(kv, minterAllowances, q)
}

func (c *Contract) BurnAllowances(kv store.Reader, q ListQuery) (*AllowancesResponse, error) {
	return c.queryAllowances(kv, burnerAllowances, q)
}

func (c *Contract) IsFreezer(kv store.Reader, addr types.Address) (*StatusResponse, error) {
	return c.queryStatus(kv, freezers, addr)
}

func (c *Contract) Freezers(kv store.Reader, q ListQuery) (*StatusesResponse, error) {
	return c.queryStatuses(kv, freezers, q)
}

func (c *Contract) IsBlacklister(kv store.Reader, addr types.Address) (*StatusResponse, error) {
	return c.queryStatus(kv, blacklisters, addr)
}

func (c *Contract) Blacklisters(kv store.Reader, q ListQuery) (*StatusesResponse, error) {
	return c.queryStatuses(kv, blacklisters, q)
}

func (c *Contract) IsBlacklisted(kv store.Reader, addr types.Address) (*StatusResponse, error) {
	return c.queryStatus(kv, blacklisted, addr)
}

func (c *Contract) Blacklistees(kv store.Reader, q ListQuery) (*StatusesResponse, error) {
	return c.queryStatuses(kv, blacklisted, q)
}

func (c *Contract) queryAllowance(kv store.Reader, m allowances, addr types.Address) (*AllowanceResponse, error) {
	addr, err := c.parseAddress(addr)
	if err != nil {
		return nil, err
	}
	v, err := allowance(kv, m, addr)
	if err != nil {
		return nil, err
	}
	return &AllowanceResponse{Allowance: v}, nil
}

func (c *Contract) queryAllowances(kv store.Reader, m allowances, q ListQuery) (*AllowancesResponse, error) {
	res, err := paginate(kv, m, q,
		func(v types.Amount) bool { return !v.IsZero() },
		func(addr types.Address, v types.Amount) AllowanceInfo { return AllowanceInfo{Address: addr, Allowance: v} },
	)
	if err != nil {
		return nil, fmt.Errorf("listing allowances: %w", err)
	}
	return &AllowancesResponse{Allowances: res}, nil
}

func (c *Contract) queryStatus(kv store.Reader, m statuses, addr types.Address) (*StatusResponse, error) {
	addr, err := c.parseAddress(addr)
	if err != nil {
		return nil, err
	}
	v, err := status(kv, m, addr)
	if err != nil {
		return nil, err
	}
	return &StatusResponse{Status: v}, nil
}

func (c *Contract) queryStatuses(kv store.Reader, m statuses, q ListQuery) (*StatusesResponse, error) {
	res, err := paginate(kv, m, q,
		func(v bool) bool { return v },
		func(addr types.Address, v bool) StatusInfo { return StatusInfo{Address: addr, Status: v} },
	)
	if err != nil {
		return nil, fmt.Errorf("listing statuses: %w", err)
	}
	return &StatusesResponse{Statuses: res}, nil
}
