package types

import (
	"encoding/json"
	"testing"

	"github.com/btcsuite/btcutil/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountAddress(t *testing.T) {
	var raw [AccountAddressLength]byte
	for i := range raw {
		raw[i] = byte(i)
	}
	addr := BytesToAccountAddress(raw[:])
	s := addr.String()
	assert.Len(t, s, 50)

	parsed, err := ParseAccountAddress(s)
	require.NoError(t, err)
	assert.Equal(t, addr, parsed)
	assert.Equal(t, raw[:], parsed.Bytes())

	last := "2"
	if s[len(s)-1] == '2' {
		last = "3"
	}
	_, err = ParseAccountAddress(s[:len(s)-1] + last)
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = ParseAccountAddress(base58.CheckEncode(raw[:], 0))
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = ParseAccountAddress(base58.CheckEncode(raw[:20], accountAddressVersion))
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = ParseAccountAddress("")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestProposalStatusJSON(t *testing.T) {
	for _, s := range []ProposalStatus{ProposalStatusActive, ProposalStatusApproved, ProposalStatusCollected} {
		dat, err := json.Marshal(s)
		require.NoError(t, err)
		assert.JSONEq(t, `{"`+s.String()+`":[]}`, string(dat))

		var back ProposalStatus
		require.NoError(t, json.Unmarshal(dat, &back))
		assert.Equal(t, s, back)
	}

	var s ProposalStatus
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"Pending":[]}`), &s), ErrInvalidStatus)
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"Active":[],"Approved":[]}`), &s), ErrInvalidStatus)
	assert.ErrorIs(t, json.Unmarshal([]byte(`"Active"`), &s), ErrInvalidStatus)

	_, err := json.Marshal(ProposalStatus(7))
	assert.Error(t, err)
}

func TestProposalJSONShape(t *testing.T) {
	p := ProposalEntry{
		Id: 3,
		Proposal: Proposal{
			Proposer:     "p",
			Description:  "d",
			Amount:       "10",
			Votes:        4,
			Contributers: []Contribution{{Address: "a", Votes: 4}},
			Status:       ProposalStatusApproved,
		},
	}
	dat, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"proposal":{"proposer":"p","description":"d","amount":"10","votes":4,
		"contributers":[{"address":"a","votes":4}],"status":{"Approved":[]}}}`, string(dat))
}

func TestParseHash(t *testing.T) {
	hex := "4221332d34e1694168c2a0c0b3fd0f273809612cb13d000d5c2e00e85f50f796"
	h, err := ParseBlockHash(hex)
	require.NoError(t, err)
	assert.Equal(t, hex, h.String())

	h2, err := ParseBlockHash("0x" + hex)
	require.NoError(t, err)
	assert.Equal(t, h, h2)

	_, err = ParseTxHash(hex[:10])
	assert.ErrorIs(t, err, ErrInvalidHash)
	_, err = ParseTxHash("zz")
	assert.ErrorIs(t, err, ErrInvalidHash)

	var tx TxHash
	require.NoError(t, json.Unmarshal([]byte(`"`+hex+`"`), &tx))
	assert.False(t, tx.IsZero())
	dat, err := json.Marshal(tx)
	require.NoError(t, err)
	assert.Equal(t, `"`+hex+`"`, string(dat))
}
