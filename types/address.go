package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/bech32"

	"github.com/tokenfactory/issuer/hash"
)

const (
	DefaultAddressPrefix = "osmo"

	maxAddressPayloadLength = 255
)

var ErrInvalidAddress = errors.New("invalid address")

type (
	// Address is the bech32 encoded account identifier. Values produced by
	// NewAddress and ParseAddress are canonical (lower case) so that equality
	// and ordering can be byte-wise.
	Address string
)

// NewAddress encodes payload as bech32 string using given human readable part.
func NewAddress(hrp string, payload []byte) (Address, error) {
	if len(payload) == 0 || len(payload) > maxAddressPayloadLength {
		return "", fmt.Errorf("%w: payload length %d", ErrInvalidAddress, len(payload))
	}
	conv, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	s, err := bech32.Encode(hrp, conv)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return Address(s), nil
}

// NewContractAddress derives 32 byte contract address from the label.
func NewContractAddress(hrp, label string) (Address, error) {
	return NewAddress(hrp, hash.Sum256([]byte("contract/"+label)))
}

/*
ParseAddress validates that s is bech32 encoded address with expected human
readable part and returns it in canonical form.
*/
func ParseAddress(hrp, s string) (Address, error) {
	if s == "" {
		return "", fmt.Errorf("%w: empty address", ErrInvalidAddress)
	}
	gotHRP, data, err := bech32.Decode(s)
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", ErrInvalidAddress, s, err)
	}
	if gotHRP != strings.ToLower(hrp) {
		return "", fmt.Errorf("%w %q: expected prefix %q, got %q", ErrInvalidAddress, s, hrp, gotHRP)
	}
	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", ErrInvalidAddress, s, err)
	}
	return NewAddress(gotHRP, payload)
}

func (a Address) String() string {
	return string(a)
}

func (a Address) Bytes() []byte {
	return []byte(a)
}

func (a Address) Compare(b Address) int {
	return strings.Compare(string(a), string(b))
}

func (a Address) IsEmpty() bool {
	return a == ""
}
