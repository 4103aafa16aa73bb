package bank

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tokenfactory/issuer/types"
)

const (
	FactoryDenomPrefix = "factory"

	MaxSubdenomLength = 44
)

var denomRegexp = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9/:._-]{2,127}$`)

type DenomData struct {
	_              struct{}      `cbor:",toarray"`
	Admin          types.Address `json:"admin"`
	BeforeSendHook types.Address `json:"before_send_hook,omitempty"`
	Supply         types.Amount  `json:"supply"`
}

// FactoryDenom returns the denom "factory/{creator}/{subdenom}".
func FactoryDenom(creator types.Address, subdenom string) (string, error) {
	if subdenom == "" {
		return "", fmt.Errorf("%w: subdenom must not be empty", ErrInvalidDenom)
	}
	if len(subdenom) > MaxSubdenomLength {
		return "", fmt.Errorf("%w: subdenom too long, max length is %d bytes", ErrInvalidDenom, MaxSubdenomLength)
	}
	denom := strings.Join([]string{FactoryDenomPrefix, creator.String(), subdenom}, "/")
	if err := ValidateDenom(denom); err != nil {
		return "", err
	}
	return denom, nil
}

// ParseFactoryDenom splits factory denom into creator and subdenom.
func ParseFactoryDenom(denom string) (creator types.Address, subdenom string, err error) {
	parts := strings.SplitN(denom, "/", 3)
	if len(parts) != 3 || parts[0] != FactoryDenomPrefix {
		return "", "", fmt.Errorf("%w: %q is not a factory denom", ErrInvalidDenom, denom)
	}
	if parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q has empty creator", ErrInvalidDenom, denom)
	}
	return types.Address(parts[1]), parts[2], nil
}

func ValidateDenom(denom string) error {
	if !denomRegexp.MatchString(denom) {
		return fmt.Errorf("%w: %q", ErrInvalidDenom, denom)
	}
	return nil
}
