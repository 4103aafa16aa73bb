package issuer

import (
	"errors"

	"github.com/tokenfactory/issuer/types"
)

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrZeroAmount          = errors.New("amount must be greater than zero")
	ErrInvalidMessage      = errors.New("invalid message")
	ErrNotInstantiated     = errors.New("contract is not instantiated")
	ErrAlreadyInstantiated = errors.New("contract is already instantiated")

	// before-send hook errors, returned by the bank when transfer is rejected
	ErrContractFrozen = errors.New("the contract is frozen")
	ErrBlacklisted    = errors.New("address is blacklisted")

	ErrInvalidAddress = types.ErrInvalidAddress
)
