/*
Package storetest contains test suite every store.Beginner implementation
is expected to pass.
*/
package storetest

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tokenfactory/issuer/store"
	"github.com/tokenfactory/issuer/util"
)

type Opener = func(t *testing.T) store.Beginner

func TestSuite(t *testing.T, open Opener) {
	t.Run("GetSet", func(t *testing.T) { testGetSet(t, open(t)) })
	t.Run("Isolation", func(t *testing.T) { testIsolation(t, open(t)) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, open(t)) })
	t.Run("Iterate", func(t *testing.T) { testIterate(t, open(t)) })
	t.Run("IterateMerged", func(t *testing.T) { testIterateMerged(t, open(t)) })
	t.Run("ReadOnly", func(t *testing.T) { testReadOnly(t, open(t)) })
	t.Run("Prefix", func(t *testing.T) { testPrefix(t, open(t)) })
}

// Close closes db when it implements io.Closer, for use with t.Cleanup.
func Close(t *testing.T, db store.Beginner) {
	if c, ok := db.(io.Closer); ok {
		require.NoError(t, c.Close())
	}
}

func commit(t *testing.T, db store.Beginner, kv ...string) {
	t.Helper()
	cs := db.Begin(true)
	for i := 0; i < len(kv); i += 2 {
		require.NoError(t, cs.Set([]byte(kv[i]), []byte(kv[i+1])))
	}
	require.NoError(t, cs.Commit())
}

func collect(t *testing.T, r store.Reader, start, end []byte) []string {
	t.Helper()
	it, err := r.Iterate(start, end)
	require.NoError(t, err)
	defer it.Close()

	var res []string
	for it.Next() {
		res = append(res, string(it.Key())+"="+string(it.Value()))
	}
	require.NoError(t, it.Err())
	return res
}

func testGetSet(t *testing.T, db store.Beginner) {
	cs := db.Begin(true)
	_, err := cs.Get([]byte("answer"))
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, cs.Set([]byte("answer"), []byte("42")))
	v, err := cs.Get([]byte("answer"))
	require.NoError(t, err)
	require.Equal(t, []byte("42"), v)

	require.ErrorIs(t, cs.Set(nil, []byte("x")), store.ErrEmptyKey)
	require.NoError(t, cs.Commit())

	_, err = cs.Get([]byte("answer"))
	require.ErrorIs(t, err, store.ErrClosed)
	require.ErrorIs(t, cs.Commit(), store.ErrClosed)

	rd := db.Begin(false)
	defer rd.Discard()
	v, err = rd.Get([]byte("answer"))
	require.NoError(t, err)
	require.Equal(t, []byte("42"), v)
}

func testIsolation(t *testing.T, db store.Beginner) {
	cs := db.Begin(true)
	require.NoError(t, cs.Set([]byte("k"), []byte("v")))

	other := db.Begin(false)
	_, err := other.Get([]byte("k"))
	require.ErrorIs(t, err, store.ErrNotFound, "uncommitted value must not be visible")
	other.Discard()

	cs.Discard()
	cs.Discard() // second discard is no-op

	rd := db.Begin(false)
	defer rd.Discard()
	_, err = rd.Get([]byte("k"))
	require.ErrorIs(t, err, store.ErrNotFound, "discarded value must not be visible")
}

func testDelete(t *testing.T, db store.Beginner) {
	commit(t, db, "a", "1", "b", "2")

	cs := db.Begin(true)
	require.NoError(t, cs.Delete([]byte("a")))
	_, err := cs.Get([]byte("a"))
	require.ErrorIs(t, err, store.ErrNotFound)
	require.Equal(t, []string{"b=2"}, collect(t, cs, nil, nil))
	// deleting key which doesn't exist is not an error
	require.NoError(t, cs.Delete([]byte("zzz")))
	require.NoError(t, cs.Commit())

	rd := db.Begin(false)
	defer rd.Discard()
	require.Equal(t, []string{"b=2"}, collect(t, rd, nil, nil))
}

func testIterate(t *testing.T, db store.Beginner) {
	keys := make([]string, 50)
	for i := range keys {
		keys[i] = fmt.Sprintf("key%03d", i)
	}
	cs := db.Begin(true)
	for _, k := range util.ShuffleSliceCopy(keys) {
		require.NoError(t, cs.Set([]byte(k), []byte(k)))
	}
	require.NoError(t, cs.Commit())

	rd := db.Begin(false)
	defer rd.Discard()

	all := collect(t, rd, nil, nil)
	require.Len(t, all, len(keys))
	for i, k := range keys {
		require.Equal(t, k+"="+k, all[i])
	}

	// [start, end)
	got := collect(t, rd, []byte("key010"), []byte("key013"))
	require.Equal(t, []string{"key010=key010", "key011=key011", "key012=key012"}, got)

	// exclusive cursor
	got = collect(t, rd, store.KeyAfter([]byte("key047")), nil)
	require.Equal(t, []string{"key048=key048", "key049=key049"}, got)

	require.Empty(t, collect(t, rd, []byte("key100"), nil))
	require.Empty(t, collect(t, rd, []byte("key005"), []byte("key005")))
}

func testIterateMerged(t *testing.T, db store.Beginner) {
	commit(t, db, "a", "1", "c", "3", "e", "5")

	cs := db.Begin(true)
	defer cs.Discard()
	require.NoError(t, cs.Set([]byte("b"), []byte("2")))
	require.NoError(t, cs.Delete([]byte("c")))
	require.NoError(t, cs.Set([]byte("e"), []byte("55")))
	require.NoError(t, cs.Set([]byte("f"), []byte("6")))

	require.Equal(t, []string{"a=1", "b=2", "e=55", "f=6"}, collect(t, cs, nil, nil))
	require.Equal(t, []string{"b=2", "e=55"}, collect(t, cs, []byte("b"), []byte("f")))
}

func testReadOnly(t *testing.T, db store.Beginner) {
	rd := db.Begin(false)
	defer rd.Discard()
	require.ErrorIs(t, rd.Set([]byte("a"), []byte("1")), store.ErrReadOnly)
	require.ErrorIs(t, rd.Delete([]byte("a")), store.ErrReadOnly)
	require.ErrorIs(t, rd.Commit(), store.ErrReadOnly)
}

func testPrefix(t *testing.T, db store.Beginner) {
	cs := db.Begin(true)
	p1 := store.NewPrefixStore(cs, []byte{0x01})
	p2 := store.NewPrefixStore(cs, []byte{0x02})
	require.NoError(t, p1.Set([]byte("a"), []byte("p1")))
	require.NoError(t, p2.Set([]byte("a"), []byte("p2")))
	require.NoError(t, p2.Set([]byte("b"), []byte("p2")))
	require.NoError(t, cs.Commit())

	rd := db.Begin(false)
	defer rd.Discard()
	p1r := store.NewPrefixStore(rd, []byte{0x01})
	p2r := store.NewPrefixStore(rd, []byte{0x02})

	v, err := p1r.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("p1"), v)

	require.Equal(t, []string{"a=p1"}, collect(t, p1r, nil, nil))
	require.Equal(t, []string{"a=p2", "b=p2"}, collect(t, p2r, nil, nil))
	require.Equal(t, []string{"b=p2"}, collect(t, p2r, []byte("b"), nil))
	require.Len(t, collect(t, rd, nil, nil), 3)
}
