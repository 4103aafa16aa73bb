package accounts

import (
	"crypto/ecdsa"
	"crypto/rand"
	"slices"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/tokenfactory/issuer/hash"
	"github.com/tokenfactory/issuer/types"
)

// Account is a test account, the address is derived from the public key.
type Account struct {
	Address types.Address
	Key     *ecdsa.PrivateKey
}

// New generates secp256k1 key and returns account with address using
// hrp as the human readable part.
func New(t *testing.T, hrp string) Account {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal("failed to generate key:", err)
	}
	addr, err := types.NewAddress(hrp, hash.Sum256(crypto.CompressPubkey(&key.PublicKey))[:20])
	if err != nil {
		t.Fatal("failed to create address:", err)
	}
	return Account{Address: addr, Key: key}
}

// NewN returns n accounts.
func NewN(t *testing.T, hrp string, n int) []Account {
	t.Helper()
	res := make([]Account, n)
	for i := range res {
		res[i] = New(t, hrp)
	}
	return res
}

/*
Addresses returns n random addresses in ascending order.

Prefer to shuffle the result before using it as input so that the code under
test doesn't accidentally depend on insertion order!
*/
func Addresses(t *testing.T, hrp string, n int) []types.Address {
	t.Helper()
	res := make([]types.Address, 0, n)
	for len(res) < n {
		buf := make([]byte, 20)
		if err := Random(buf); err != nil {
			t.Fatal("failed to generate address:", err)
		}
		addr, err := types.NewAddress(hrp, buf)
		if err != nil {
			t.Fatal("failed to create address:", err)
		}
		if !slices.Contains(res, addr) {
			res = append(res, addr)
		}
	}
	slices.Sort(res)
	return res
}

// AddressWithSuffix returns deterministic address whose payload is all
// zeroes except the last byte.
func AddressWithSuffix(t *testing.T, hrp string, suffix byte) types.Address {
	t.Helper()
	buf := make([]byte, 20)
	buf[len(buf)-1] = suffix
	addr, err := types.NewAddress(hrp, buf)
	if err != nil {
		t.Fatal("failed to create address:", err)
	}
	return addr
}

/*
Random fills the buf with random bytes.
*/
func Random(buf []byte) error {
	_, err := rand.Read(buf)
	return err
}
