package types

import (
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/tokenfactory/issuer/cbor"
	"github.com/tokenfactory/issuer/util"
)

/*
Amount is a non-negative 256 bit integer used for allowances, balances and
supply. Arithmetic never wraps: CheckedSub and CheckedAdd return
*OverflowError carrying both operands instead.

JSON and text encoding is a decimal string, CBOR encoding is a byte string
holding the minimal big-endian representation (empty for zero).
*/
type Amount struct {
	v uint256.Int
}

func NewAmount(n uint64) Amount {
	var a Amount
	a.v.SetUint64(n)
	return a
}

func NewAmountFromUint256(n *uint256.Int) Amount {
	var a Amount
	a.v.Set(n)
	return a
}

// ParseAmount parses decimal string (no sign, no leading "+").
func ParseAmount(s string) (Amount, error) {
	var a Amount
	if err := a.v.SetFromDecimal(s); err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return a, nil
}

// MustParseAmount is like ParseAmount but panics on invalid input, meant for constants and tests.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) IsZero() bool {
	return a.v.IsZero()
}

func (a Amount) Cmp(b Amount) int {
	return a.v.Cmp(&b.v)
}

func (a Amount) Eq(b Amount) bool {
	return a.v.Eq(&b.v)
}

func (a Amount) Uint256() *uint256.Int {
	return new(uint256.Int).Set(&a.v)
}

// CheckedSub returns a-b or *OverflowError when b > a.
func (a Amount) CheckedSub(b Amount) (Amount, error) {
	diff, ok := util.SafeSub(&a.v, &b.v)
	if !ok {
		return Amount{}, &OverflowError{Operation: OverflowSub, Operand1: a, Operand2: b}
	}
	return NewAmountFromUint256(diff), nil
}

// CheckedAdd returns a+b or *OverflowError when the sum doesn't fit into 256 bits.
func (a Amount) CheckedAdd(b Amount) (Amount, error) {
	sum, ok := util.SafeAdd(&a.v, &b.v)
	if !ok {
		return Amount{}, &OverflowError{Operation: OverflowAdd, Operand1: a, Operand2: b}
	}
	return NewAmountFromUint256(sum), nil
}

func (a Amount) String() string {
	return a.v.Dec()
}

func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.v.Dec()), nil
}

func (a *Amount) UnmarshalText(src []byte) error {
	v, err := ParseAmount(string(src))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.v.Dec())
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("amount must be encoded as decimal string: %w", err)
	}
	return a.UnmarshalText([]byte(s))
}

func (a Amount) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(a.v.Bytes())
}

func (a *Amount) UnmarshalCBOR(data []byte) error {
	var b []byte
	if err := cbor.Unmarshal(data, &b); err != nil {
		return err
	}
	if len(b) > 32 {
		return fmt.Errorf("amount is %d bytes, max 32 allowed", len(b))
	}
	a.v.SetBytes(b)
	return nil
}
