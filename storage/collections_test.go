package storage

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tokenfactory/issuer/store"
	"github.com/tokenfactory/issuer/store/memory"
	"github.com/tokenfactory/issuer/types"
	"github.com/tokenfactory/issuer/util"
)

type name string

func Test_Item(t *testing.T) {
	kv := memory.New().Begin(true)
	defer kv.Discard()

	item := NewItem([]byte{0x01}, CBOR[string]())

	_, err := item.Get(kv)
	require.ErrorIs(t, err, store.ErrNotFound)
	v, ok, err := item.Load(kv)
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, v)

	require.NoError(t, item.Set(kv, "owner"))
	v, err = item.Get(kv)
	require.NoError(t, err)
	require.Equal(t, "owner", v)

	require.NoError(t, item.Remove(kv))
	_, ok, err = item.Load(kv)
	require.NoError(t, err)
	require.False(t, ok)
}

func Test_Item_decodeError(t *testing.T) {
	kv := memory.New().Begin(true)
	defer kv.Discard()

	require.NoError(t, kv.Set([]byte{0x01}, []byte{0xff}))
	_, err := NewItem([]byte{0x01}, CBOR[bool]()).Get(kv)
	require.ErrorContains(t, err, "decoding item 01")
}

func Test_Map(t *testing.T) {
	kv := memory.New().Begin(true)
	defer kv.Discard()

	m := NewMap[name]([]byte{0x10}, CBOR[types.Amount]())
	other := NewMap[name]([]byte{0x11}, CBOR[types.Amount]())

	_, ok, err := m.Get(kv, "alice")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, m.Set(kv, "alice", types.NewAmount(5)))
	require.NoError(t, other.Set(kv, "alice", types.NewAmount(7)))

	v, ok, err := m.Get(kv, "alice")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "5", v.String())

	v, ok, err = other.Get(kv, "alice")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "7", v.String())

	require.NoError(t, m.Remove(kv, "alice"))
	has, err := m.Has(kv, "alice")
	require.NoError(t, err)
	require.False(t, has)
	has, err = other.Has(kv, "alice")
	require.NoError(t, err)
	require.True(t, has)
}

func Test_Map_Range(t *testing.T) {
	kv := memory.New().Begin(true)
	defer kv.Discard()

	m := NewMap[name]([]byte{0x10}, CBOR[uint64]())
	// neighbours must not leak into the range
	require.NoError(t, NewMap[name]([]byte{0x0f}, CBOR[uint64]()).Set(kv, "x", 1))
	require.NoError(t, NewMap[name]([]byte{0x11}, CBOR[uint64]()).Set(kv, "a", 1))

	keys := make([]name, 20)
	for i := range keys {
		keys[i] = name(fmt.Sprintf("n%02d", i))
	}
	for _, k := range util.ShuffleSliceCopy(keys) {
		require.NoError(t, m.Set(kv, k, uint64(len(k))))
	}

	collect := func(startAfter *name, limit int) []name {
		var res []name
		err := m.Range(kv, startAfter, func(k name, _ uint64) (bool, error) {
			res = append(res, k)
			return len(res) < limit, nil
		})
		require.NoError(t, err)
		return res
	}

	require.Equal(t, keys, collect(nil, 100))
	require.Equal(t, keys[:3], collect(nil, 3))

	cursor := keys[4]
	require.Equal(t, keys[5:8], collect(&cursor, 3))

	// cursor which is not a stored key
	cursor = "n04x"
	require.Equal(t, keys[5:7], collect(&cursor, 2))

	cursor = keys[19]
	require.Empty(t, collect(&cursor, 10))

	err := m.Range(kv, nil, func(name, uint64) (bool, error) {
		return false, fmt.Errorf("stop")
	})
	require.EqualError(t, err, "stop")
}
