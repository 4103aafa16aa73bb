package types

import (
	"crypto"
	"errors"
	"fmt"

	"github.com/tokenfactory/issuer/cbor"
	"github.com/tokenfactory/issuer/hash"
)

var ErrMessageOrderIsNil = errors.New("message order is nil")

type (
	/*
	MessageOrder is the envelope the host delivers to the contract. Sender is
	the authenticated origin of the message (authentication itself happens
	before the message reaches the host), Type selects the operation and
	Attributes hold the CBOR encoded operation specific attribute struct.
	*/
	MessageOrder struct {
		_          struct{} `cbor:",toarray"`
		Version    ABVersion
		Sender     Address
		Type       string
		Attributes cbor.RawCBOR // message type specific attributes
	}
)

/*
SetAttributes serializes "attr" and assigns the result to Attributes field.
The "attr" is expected to be one of the message attribute structs but there is
no validation!
The MessageOrder.UnmarshalAttributes can be used to decode the attributes.
*/
func (m *MessageOrder) SetAttributes(attr any) error {
	if m == nil {
		return ErrMessageOrderIsNil
	}
	attrCBOR, err := cbor.Marshal(attr)
	if err != nil {
		return fmt.Errorf("marshaling %T as message attributes: %w", attr, err)
	}
	m.Attributes = attrCBOR
	return nil
}

func (m *MessageOrder) UnmarshalAttributes(v any) error {
	if m == nil {
		return ErrMessageOrderIsNil
	}
	return cbor.Unmarshal(m.Attributes, v)
}

func (m *MessageOrder) GetVersion() ABVersion {
	if m == nil || m.Version == 0 {
		return 1
	}
	return m.Version
}

// Hash returns hash of the tagged CBOR encoding of the message.
func (m *MessageOrder) Hash(algorithm crypto.Hash) ([]byte, error) {
	if m == nil {
		return nil, ErrMessageOrderIsNil
	}
	buf, err := m.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	h := hash.New(algorithm.New())
	h.WriteRaw(buf)
	return h.Sum()
}

func (m *MessageOrder) MarshalCBOR() ([]byte, error) {
	type alias MessageOrder
	if m.Version == 0 {
		m.Version = m.GetVersion()
	}
	return cbor.MarshalTaggedValue(MessageOrderTag, (*alias)(m))
}

func (m *MessageOrder) UnmarshalCBOR(data []byte) error {
	type alias MessageOrder
	return cbor.UnmarshalTaggedValue(MessageOrderTag, data, (*alias)(m))
}
