package types

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
)

const (
	AccountAddressLength = 32

	// accountAddressVersion is the base58check version byte of account addresses.
	accountAddressVersion byte = 1
)

var ErrInvalidAddress = errors.New("invalid account address")

// AccountAddress is the raw 32 byte form of a base58check encoded account address.
type AccountAddress [AccountAddressLength]byte

func ParseAccountAddress(s string) (addr AccountAddress, err error) {
	dat, version, err := base58.CheckDecode(s)
	if err != nil {
		return addr, fmt.Errorf("%w %q: %v", ErrInvalidAddress, s, err)
	}
	if version != accountAddressVersion || len(dat) != AccountAddressLength {
		return addr, fmt.Errorf("%w %q", ErrInvalidAddress, s)
	}
	copy(addr[:], dat)
	return addr, nil
}

func BytesToAccountAddress(b []byte) (addr AccountAddress) {
	copy(addr[:], b)
	return
}

func (a AccountAddress) String() string {
	return base58.CheckEncode(a[:], accountAddressVersion)
}

func (a AccountAddress) Bytes() []byte {
	return a[:]
}
