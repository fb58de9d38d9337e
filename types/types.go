package types

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

const HashLength = common.HashLength

var ErrInvalidHash = errors.New("invalid hash")

// TxHash identifies a submitted block item. It says nothing about the outcome.
type TxHash common.Hash

type BlockHash common.Hash

func parseHash(s string) (common.Hash, error) {
	dat, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w %q: %v", ErrInvalidHash, s, err)
	}
	if len(dat) != HashLength {
		return common.Hash{}, fmt.Errorf("%w %q: length %d", ErrInvalidHash, s, len(dat))
	}
	return common.BytesToHash(dat), nil
}

func ParseTxHash(s string) (TxHash, error) {
	h, err := parseHash(s)
	return TxHash(h), err
}

func ParseBlockHash(s string) (BlockHash, error) {
	h, err := parseHash(s)
	return BlockHash(h), err
}

func (h TxHash) String() string {
	return common.Bytes2Hex(h[:])
}

func (h TxHash) IsZero() bool {
	return h == TxHash{}
}

func (h TxHash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *TxHash) UnmarshalText(dat []byte) (err error) {
	*h, err = ParseTxHash(string(dat))
	return
}

func (h BlockHash) String() string {
	return common.Bytes2Hex(h[:])
}

func (h BlockHash) IsZero() bool {
	return h == BlockHash{}
}

func (h BlockHash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *BlockHash) UnmarshalText(dat []byte) (err error) {
	*h, err = ParseBlockHash(string(dat))
	return
}

// identity flow payloads, passed through without interpretation

// Challenge is the verifier's opaque nonce, kept in its JSON encoding.
type Challenge = json.RawMessage

type ChallengeResponse struct {
	Challenge Challenge `json:"challenge"`
}

type ProofWithContext struct {
	Credential string          `json:"credential"`
	Proof      json.RawMessage `json:"proof"`
}

type ChallengedProof struct {
	Challenge Challenge        `json:"challenge"`
	Proof     ProofWithContext `json:"proof"`
}

type Statement = json.RawMessage

type AuthToken = json.RawMessage
