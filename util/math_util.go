package util

import (
	"github.com/holiman/uint256"
)

// SafeAdd returns a+b and checks for overflow
func SafeAdd(a, b *uint256.Int) (*uint256.Int, bool) {
	sum, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, false
	}
	return sum, true
}

// SafeSub returns a-b and checks for underflow
func SafeSub(a, b *uint256.Int) (*uint256.Int, bool) {
	diff, underflow := new(uint256.Int).SubOverflow(a, b)
	if underflow {
		return nil, false
	}
	return diff, true
}
