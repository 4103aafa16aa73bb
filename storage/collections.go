/*
Package storage provides typed views over store.KVStore: Item is a single
value under a fixed key, Map is a set of values under a common key prefix.
Values are encoded with a ValueCodec, CBOR by default.
*/
package storage

import (
	"errors"
	"fmt"

	"github.com/tokenfactory/issuer/cbor"
	"github.com/tokenfactory/issuer/store"
)

type (
	ValueCodec[V any] interface {
		Encode(V) ([]byte, error)
		Decode([]byte) (V, error)
	}

	cborCodec[V any] struct{}

	Item[V any] struct {
		key   []byte
		codec ValueCodec[V]
	}

	Map[K ~string, V any] struct {
		prefix []byte
		codec  ValueCodec[V]
	}
)

// CBOR returns codec which encodes values using deterministic CBOR.
func CBOR[V any]() ValueCodec[V] {
	return cborCodec[V]{}
}

func (cborCodec[V]) Encode(v V) ([]byte, error) {
	return cbor.Marshal(v)
}

func (cborCodec[V]) Decode(data []byte) (V, error) {
	var v V
	err := cbor.Unmarshal(data, &v)
	return v, err
}

func NewItem[V any](key []byte, codec ValueCodec[V]) Item[V] {
	return Item[V]{key: key, codec: codec}
}

// Get returns store.ErrNotFound (wrapped) when the item hasn't been saved.
func (i Item[V]) Get(kv store.Reader) (V, error) {
	v, ok, err := i.Load(kv)
	if err == nil && !ok {
		err = fmt.Errorf("item %x: %w", i.key, store.ErrNotFound)
	}
	return v, err
}

// Load is like Get but reports missing item with "ok" flag instead of error.
func (i Item[V]) Load(kv store.Reader) (v V, ok bool, err error) {
	data, err := kv.Get(i.key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return v, false, nil
		}
		return v, false, fmt.Errorf("reading item %x: %w", i.key, err)
	}
	if v, err = i.codec.Decode(data); err != nil {
		return v, false, fmt.Errorf("decoding item %x: %w", i.key, err)
	}
	return v, true, nil
}

func (i Item[V]) Set(kv store.KVStore, v V) error {
	data, err := i.codec.Encode(v)
	if err != nil {
		return fmt.Errorf("encoding item %x: %w", i.key, err)
	}
	return kv.Set(i.key, data)
}

func (i Item[V]) Remove(kv store.KVStore) error {
	return kv.Delete(i.key)
}

func NewMap[K ~string, V any](prefix []byte, codec ValueCodec[V]) Map[K, V] {
	return Map[K, V]{prefix: prefix, codec: codec}
}

func (m Map[K, V]) key(k K) []byte {
	key := make([]byte, 0, len(m.prefix)+len(k))
	return append(append(key, m.prefix...), k...)
}

func (m Map[K, V]) Get(kv store.Reader, k K) (v V, ok bool, err error) {
	data, err := kv.Get(m.key(k))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return v, false, nil
		}
		return v, false, fmt.Errorf("reading %q: %w", k, err)
	}
	if v, err = m.codec.Decode(data); err != nil {
		return v, false, fmt.Errorf("decoding %q: %w", k, err)
	}
	return v, true, nil
}

func (m Map[K, V]) Has(kv store.Reader, k K) (bool, error) {
	_, ok, err := m.Get(kv, k)
	return ok, err
}

func (m Map[K, V]) Set(kv store.KVStore, k K, v V) error {
	data, err := m.codec.Encode(v)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", k, err)
	}
	return kv.Set(m.key(k), data)
}

func (m Map[K, V]) Remove(kv store.KVStore, k K) error {
	return kv.Delete(m.key(k))
}

/*
Range calls fn for entries in ascending key order, starting with the first
key strictly greater than startAfter (from the beginning when nil). Iteration
stops when fn returns false or an error.
*/
func (m Map[K, V]) Range(kv store.Reader, startAfter *K, fn func(K, V) (bool, error)) (err error) {
	start := m.prefix
	if startAfter != nil {
		start = store.KeyAfter(m.key(*startAfter))
	}
	it, err := kv.Iterate(start, store.PrefixEnd(m.prefix))
	if err != nil {
		return fmt.Errorf("iterating %x: %w", m.prefix, err)
	}
	defer func() {
		if cerr := it.Close(); err == nil {
			err = cerr
		}
	}()

	for it.Next() {
		k := K(it.Key()[len(m.prefix):])
		v, err := m.codec.Decode(it.Value())
		if err != nil {
			return fmt.Errorf("decoding %q: %w", k, err)
		}
		cont, err := fn(k, v)
		if err != nil || !cont {
			return err
		}
	}
	return it.Err()
}
