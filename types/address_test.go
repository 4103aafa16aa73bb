package types

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_ParseAddress(t *testing.T) {
	addr, err := NewAddress("osmo", bytes.Repeat([]byte{0x0a}, 20))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(addr.String(), "osmo1"))

	t.Run("valid", func(t *testing.T) {
		got, err := ParseAddress("osmo", addr.String())
		require.NoError(t, err)
		require.Equal(t, addr, got)
	})

	t.Run("upper case is canonicalized", func(t *testing.T) {
		got, err := ParseAddress("osmo", strings.ToUpper(addr.String()))
		require.NoError(t, err)
		require.Equal(t, addr, got)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParseAddress("osmo", "")
		require.ErrorIs(t, err, ErrInvalidAddress)
		require.EqualError(t, err, `invalid address: empty address`)
	})

	t.Run("wrong prefix", func(t *testing.T) {
		other, err := NewAddress("cosmos", bytes.Repeat([]byte{0x0a}, 20))
		require.NoError(t, err)
		_, err = ParseAddress("osmo", other.String())
		require.ErrorIs(t, err, ErrInvalidAddress)
		require.ErrorContains(t, err, `expected prefix "osmo", got "cosmos"`)
	})

	t.Run("bad checksum", func(t *testing.T) {
		s := addr.String()
		last := s[len(s)-1]
		repl := byte('q')
		if last == 'q' {
			repl = 'p'
		}
		_, err := ParseAddress("osmo", s[:len(s)-1]+string(repl))
		require.ErrorIs(t, err, ErrInvalidAddress)
	})

	t.Run("mixed case", func(t *testing.T) {
		s := addr.String()
		_, err := ParseAddress("osmo", strings.ToUpper(s[:6])+s[6:])
		require.ErrorIs(t, err, ErrInvalidAddress)
	})

	t.Run("not bech32", func(t *testing.T) {
		_, err := ParseAddress("osmo", "not-an-address")
		require.ErrorIs(t, err, ErrInvalidAddress)
	})
}

func Test_NewAddress(t *testing.T) {
	_, err := NewAddress("osmo", nil)
	require.EqualError(t, err, `invalid address: payload length 0`)

	_, err = NewAddress("osmo", make([]byte, 256))
	require.EqualError(t, err, `invalid address: payload length 256`)

	a1, err := NewContractAddress("osmo", "issuer")
	require.NoError(t, err)
	a2, err := NewContractAddress("osmo", "issuer")
	require.NoError(t, err)
	require.Equal(t, a1, a2)
	a3, err := NewContractAddress("osmo", "other")
	require.NoError(t, err)
	require.NotEqual(t, a1, a3)
}

func Test_Address_Compare(t *testing.T) {
	a, err := NewAddress("osmo", bytes.Repeat([]byte{0x01}, 20))
	require.NoError(t, err)
	b, err := NewAddress("osmo", bytes.Repeat([]byte{0xf0}, 20))
	require.NoError(t, err)

	require.Equal(t, bytes.Compare(a.Bytes(), b.Bytes()), a.Compare(b))
	require.Equal(t, 0, a.Compare(a))
	require.True(t, Address("").IsEmpty())
	require.False(t, a.IsEmpty())
}
