package hash

import (
	"fmt"
	"hash"

	"github.com/fxamacker/cbor/v2"
)

/*
Hash feeds values to the underlying hash function. The first error stops
hashing and is returned by Sum.
*/
type Hash struct {
	h   hash.Hash
	enc *cbor.Encoder
	err error
}

func New(h hash.Hash) *Hash {
	return &Hash{h: h, enc: encoderMode.NewEncoder(h)}
}

// Write adds CBOR encoding of v.
func (h *Hash) Write(v any) {
	if h.err == nil {
		h.err = h.enc.Encode(v)
	}
}

// WriteRaw adds already encoded bytes.
func (h *Hash) WriteRaw(d []byte) {
	if h.err == nil {
		_, h.err = h.h.Write(d)
	}
}

// WriteEntry adds key-value pair as two element array so that bytes can't
// move between the key and the value without changing the hash.
func (h *Hash) WriteEntry(key, value []byte) {
	h.Write([2][]byte{key, value})
}

// Entries is the subset of a store iterator needed by WriteEntries.
type Entries interface {
	Next() bool
	Key() []byte
	Value() []byte
	Err() error
}

/*
WriteEntries adds every remaining entry of it in iteration order. Stores
iterate in key order so equal contents give equal hash.
*/
func (h *Hash) WriteEntries(it Entries) error {
	for it.Next() {
		h.WriteEntry(it.Key(), it.Value())
	}
	return it.Err()
}

func (h *Hash) Sum() ([]byte, error) {
	return h.h.Sum(nil), h.err
}

var encoderMode cbor.EncMode

func init() {
	var err error
	if encoderMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(fmt.Errorf("initializing CBOR encoder mode: %w", err))
	}
}
