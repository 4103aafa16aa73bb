package issuer

import (
	"fmt"

	"github.com/tokenfactory/issuer/store"
	"github.com/tokenfactory/issuer/types"
)

type Role int

const (
	RoleOwner Role = iota
	RoleFreezer
	RoleBlacklister
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleFreezer:
		return "freezer"
	case RoleBlacklister:
		return "blacklister"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

/*
requireRole returns ErrUnauthorized unless sender has the role. The owner
implicitly has every role.

Minting and burning is not guarded by role, the allowance is the permission.
*/
func requireRole(kv store.Reader, sender types.Address, role Role) error {
	owner, err := loadOwner(kv)
	if err != nil {
		return err
	}
	if sender == owner {
		return nil
	}

	var ok bool
	switch role {
	case RoleOwner:
	case RoleFreezer:
		ok, err = status(kv, freezers, sender)
	case RoleBlacklister:
		ok, err = status(kv, blacklisters, sender)
	default:
		return fmt.Errorf("unknown role %s", role)
	}
	if err != nil {
		return fmt.Errorf("checking %s role: %w", role, err)
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}
