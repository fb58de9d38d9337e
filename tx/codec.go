package tx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/calehh/charity-dao/types"
)

// Codec serializes call parameters and decodes view return values for the
// DAO contract.
type Codec interface {
	EncodeParameter(ep Entrypoint, params any) ([]byte, error)
	DecodeParameter(ep Entrypoint, dat []byte) (any, error)
	DecodeProposals(dat []byte) ([]types.ProposalEntry, error)
	DecodeMembers(dat []byte) ([]types.Member, error)
	DecodePower(dat []byte) (uint64, error)
}

var _ Codec = SerialCodec{}

// SerialCodec implements the fixed shapes of the DAO contract in the chain's
// little-endian serial format: u64 as 8 bytes, strings and lists prefixed by a
// u32 length, enum variants as a single tag byte and addresses as 32 raw bytes.
type SerialCodec struct{}

func NewSerialCodec() SerialCodec {
	return SerialCodec{}
}

func (SerialCodec) EncodeParameter(ep Entrypoint, params any) (dat []byte, err error) {
	w := new(serialWriter)
	switch ep {
	case EntrypointCreateProposal:
		p, ok := params.(*CreateProposalParams)
		if !ok {
			return nil, fmt.Errorf("%w: %s %T", ErrUnmatchedParameter, ep, params)
		}
		if err = w.string(p.Description); err != nil {
			return nil, err
		}
		w.u64(p.Amount)
	case EntrypointVote:
		p, ok := params.(*VoteParams)
		if !ok {
			return nil, fmt.Errorf("%w: %s %T", ErrUnmatchedParameter, ep, params)
		}
		w.u64(p.ProposalId)
		w.u64(p.Votes)
	case EntrypointRenounce:
		p, ok := params.(*RenounceParams)
		if !ok {
			return nil, fmt.Errorf("%w: %s %T", ErrUnmatchedParameter, ep, params)
		}
		w.u64(p.ProposalId)
		w.u64(p.Votes)
	case EntrypointWithdraw:
		p, ok := params.(*WithdrawParams)
		if !ok {
			return nil, fmt.Errorf("%w: %s %T", ErrUnmatchedParameter, ep, params)
		}
		w.u64(p.ProposalId)
	case EntrypointGetPower:
		p, ok := params.(*GetPowerParams)
		if !ok {
			return nil, fmt.Errorf("%w: %s %T", ErrUnmatchedParameter, ep, params)
		}
		if err = w.address(p.Address); err != nil {
			return nil, err
		}
	case EntrypointInsert, EntrypointAllProposals, EntrypointAllMembers:
		if params != nil {
			return nil, fmt.Errorf("%w: %s takes no parameter", ErrUnmatchedParameter, ep)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEntrypoint, ep)
	}
	return w.Bytes(), nil
}

func (SerialCodec) DecodeParameter(ep Entrypoint, dat []byte) (params any, err error) {
	r := &serialReader{dat: dat}
	switch ep {
	case EntrypointCreateProposal:
		p := &CreateProposalParams{}
		if p.Description, err = r.string(); err != nil {
			return nil, err
		}
		if p.Amount, err = r.u64(); err != nil {
			return nil, err
		}
		params = p
	case EntrypointVote:
		p := &VoteParams{}
		if p.ProposalId, err = r.u64(); err != nil {
			return nil, err
		}
		if p.Votes, err = r.u64(); err != nil {
			return nil, err
		}
		params = p
	case EntrypointRenounce:
		p := &RenounceParams{}
		if p.ProposalId, err = r.u64(); err != nil {
			return nil, err
		}
		if p.Votes, err = r.u64(); err != nil {
			return nil, err
		}
		params = p
	case EntrypointWithdraw:
		p := &WithdrawParams{}
		if p.ProposalId, err = r.u64(); err != nil {
			return nil, err
		}
		params = p
	case EntrypointGetPower:
		p := &GetPowerParams{}
		if p.Address, err = r.address(); err != nil {
			return nil, err
		}
		params = p
	case EntrypointInsert, EntrypointAllProposals, EntrypointAllMembers:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEntrypoint, ep)
	}
	if err = r.done(); err != nil {
		return nil, err
	}
	return params, nil
}

func (SerialCodec) DecodeProposals(dat []byte) ([]types.ProposalEntry, error) {
	r := &serialReader{dat: dat}
	n, err := r.length()
	if err != nil {
		return nil, err
	}
	entries := make([]types.ProposalEntry, 0, n)
	for i := 0; i < n; i++ {
		var e types.ProposalEntry
		if e.Id, err = r.u64(); err != nil {
			return nil, err
		}
		if e.Proposal, err = r.proposal(); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err = r.done(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (SerialCodec) DecodeMembers(dat []byte) ([]types.Member, error) {
	r := &serialReader{dat: dat}
	n, err := r.length()
	if err != nil {
		return nil, err
	}
	members := make([]types.Member, 0, n)
	for i := 0; i < n; i++ {
		var m types.Member
		if m.Address, err = r.address(); err != nil {
			return nil, err
		}
		if m.Power, err = r.u64(); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	if err = r.done(); err != nil {
		return nil, err
	}
	return members, nil
}

func (SerialCodec) DecodePower(dat []byte) (uint64, error) {
	r := &serialReader{dat: dat}
	power, err := r.u64()
	if err != nil {
		return 0, err
	}
	if err = r.done(); err != nil {
		return 0, err
	}
	return power, nil
}

// EncodeProposals produces the all_proposals return value.
func EncodeProposals(entries []types.ProposalEntry) ([]byte, error) {
	w := new(serialWriter)
	w.u32(uint32(len(entries)))
	for _, e := range entries {
		w.u64(e.Id)
		if err := w.proposal(e.Proposal); err != nil {
			return nil, err
		}
	}
	return w.Bytes(), nil
}

// EncodeMembers produces the all_members return value.
func EncodeMembers(members []types.Member) ([]byte, error) {
	w := new(serialWriter)
	w.u32(uint32(len(members)))
	for _, m := range members {
		if err := w.address(m.Address); err != nil {
			return nil, err
		}
		w.u64(m.Power)
	}
	return w.Bytes(), nil
}

func EncodePower(power uint64) []byte {
	w := new(serialWriter)
	w.u64(power)
	return w.Bytes()
}

type serialWriter struct {
	bytes.Buffer
}

func (w *serialWriter) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.Write(b[:])
}

func (w *serialWriter) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

func (w *serialWriter) string(s string) error {
	if uint64(len(s)) > math.MaxUint32 {
		return fmt.Errorf("%w: string too long", ErrEncode)
	}
	w.u32(uint32(len(s)))
	w.WriteString(s)
	return nil
}

func (w *serialWriter) address(s string) error {
	addr, err := types.ParseAccountAddress(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	w.Write(addr.Bytes())
	return nil
}

func (w *serialWriter) proposal(p types.Proposal) error {
	if err := w.address(p.Proposer); err != nil {
		return err
	}
	if err := w.string(p.Description); err != nil {
		return err
	}
	amount, err := strconv.ParseUint(p.Amount, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: amount %q: %v", ErrEncode, p.Amount, err)
	}
	w.u64(amount)
	w.u64(p.Votes)
	w.u32(uint32(len(p.Contributers)))
	for _, c := range p.Contributers {
		if err := w.address(c.Address); err != nil {
			return err
		}
		w.u64(c.Votes)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: %v", ErrEncode, types.ErrInvalidStatus)
	}
	w.WriteByte(byte(p.Status))
	return nil
}

type serialReader struct {
	dat []byte
	off int
}

func (r *serialReader) take(n int) ([]byte, error) {
	if n < 0 || len(r.dat)-r.off < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrDecode, n, r.off, len(r.dat)-r.off)
	}
	b := r.dat[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *serialReader) u64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *serialReader) u32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *serialReader) u8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// length reads a u32 element count and rejects counts the remaining input
// could never hold.
func (r *serialReader) length() (int, error) {
	n, err := r.u32()
	if err != nil {
		return 0, err
	}
	if int(n) > len(r.dat)-r.off {
		return 0, fmt.Errorf("%w: length %d exceeds remaining %d bytes", ErrDecode, n, len(r.dat)-r.off)
	}
	return int(n), nil
}

func (r *serialReader) string() (string, error) {
	n, err := r.length()
	if err != nil {
		return "", err
	}
	b, err := r.take(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: invalid utf-8 string at offset %d", ErrDecode, r.off-n)
	}
	return string(b), nil
}

func (r *serialReader) address() (string, error) {
	b, err := r.take(types.AccountAddressLength)
	if err != nil {
		return "", err
	}
	return types.BytesToAccountAddress(b).String(), nil
}

func (r *serialReader) proposal() (p types.Proposal, err error) {
	if p.Proposer, err = r.address(); err != nil {
		return
	}
	if p.Description, err = r.string(); err != nil {
		return
	}
	amount, err := r.u64()
	if err != nil {
		return
	}
	p.Amount = strconv.FormatUint(amount, 10)
	if p.Votes, err = r.u64(); err != nil {
		return
	}
	n, err := r.length()
	if err != nil {
		return
	}
	p.Contributers = make([]types.Contribution, 0, n)
	for i := 0; i < n; i++ {
		var c types.Contribution
		if c.Address, err = r.address(); err != nil {
			return
		}
		if c.Votes, err = r.u64(); err != nil {
			return
		}
		p.Contributers = append(p.Contributers, c)
	}
	tag, err := r.u8()
	if err != nil {
		return
	}
	p.Status = types.ProposalStatus(tag)
	if !p.Status.Valid() {
		err = fmt.Errorf("%w: %v tag %d", ErrDecode, types.ErrInvalidStatus, tag)
	}
	return
}

func (r *serialReader) done() error {
	if r.off != len(r.dat) {
		return fmt.Errorf("%w: %d trailing bytes", ErrDecode, len(r.dat)-r.off)
	}
	return nil
}
