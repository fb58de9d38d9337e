package chain

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/calehh/charity-dao/tx"
	"github.com/calehh/charity-dao/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// MockClient is an in-memory wallet connected to a single simulated DAO
// contract. Rejected updates still get a hash and finalize as failed, the way
// the chain reports them.
type MockClient struct {
	mtx sync.Mutex

	Genesis         types.BlockHash
	Contract        tx.ContractAddress
	ContractName    string
	SupportGetPower bool
	// FinalizeAfter is the number of status polls a block item stays pending.
	FinalizeAfter int
	Proof         *types.ProofWithContext

	SendErr   error
	InvokeErr error
	StatusErr error

	SendCalls   int
	InvokeCalls int
	Sent        []MockSentTx

	codec     tx.SerialCodec
	proposals []types.ProposalEntry
	members   []types.Member
	balance   uint64
	items     map[types.TxHash]*mockItem
	blocks    uint64
}

type MockSentTx struct {
	Sender  string
	Payload tx.UpdatePayload
	Hash    types.TxHash
}

type mockItem struct {
	polls  int
	status BlockItemStatus
}

var (
	errMockUnauthorized     = errors.New("Unauthorized")
	errMockProposalNotFound = errors.New("ProposalNotFound")
	errMockInsufficient     = errors.New("InsufficientBalance")
	errMockNotApproved      = errors.New("NotApproved")
	errMockAlreadyApproved  = errors.New("AlreadyApproved")
	errMockAmountCollected  = errors.New("AmountCollected")
)

func NewMockClient(genesis types.BlockHash, contract tx.ContractAddress) *MockClient {
	return &MockClient{
		Genesis:         genesis,
		Contract:        contract,
		ContractName:    tx.DefaultContractName,
		SupportGetPower: true,
		codec:           tx.NewSerialCodec(),
		items:           make(map[types.TxHash]*mockItem),
	}
}

// SetMember seeds voting power without going through insert.
func (m *MockClient) SetMember(address string, power uint64) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.setPower(address, power)
}

// AddProposal seeds a proposal and returns its id.
func (m *MockClient) AddProposal(p types.Proposal) uint64 {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	id := uint64(len(m.proposals))
	if p.Contributers == nil {
		p.Contributers = []types.Contribution{}
	}
	m.proposals = append(m.proposals, types.ProposalEntry{Id: id, Proposal: p})
	return id
}

func (m *MockClient) Balance() uint64 {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.balance
}

func (m *MockClient) CryptographicParameters(ctx context.Context, block types.BlockHash) (*CryptographicParameters, error) {
	if block != m.Genesis {
		return nil, nil
	}
	return &CryptographicParameters{
		GenesisString: "mock genesis",
	}, nil
}

func (m *MockClient) SendTransaction(ctx context.Context, sender string, payload *tx.UpdatePayload) (types.TxHash, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.SendCalls++
	if m.SendErr != nil {
		return types.TxHash{}, m.SendErr
	}
	if _, err := types.ParseAccountAddress(sender); err != nil {
		return types.TxHash{}, err
	}
	var nonce [8]byte
	binary.BigEndian.PutUint64(nonce[:], uint64(len(m.Sent)))
	hash := types.TxHash(crypto.Keccak256Hash([]byte(sender), []byte(payload.ReceiveName), payload.Parameter, nonce[:]))

	kind := TransactionKindUpdate
	reason := ""
	if err := m.apply(sender, payload); err != nil {
		kind = TransactionKindFailed
		reason = err.Error()
	}
	m.blocks++
	binary.BigEndian.PutUint64(nonce[:], m.blocks)
	m.items[hash] = &mockItem{
		status: BlockItemStatus{
			Status:    BlockItemFinalized,
			BlockHash: types.BlockHash(crypto.Keccak256Hash([]byte("block"), nonce[:])),
			Summary: &TransactionSummary{
				Type:            SummaryAccountTransaction,
				TransactionType: kind,
				Sender:          sender,
				RejectReason:    reason,
			},
		},
	}
	m.Sent = append(m.Sent, MockSentTx{Sender: sender, Payload: *payload, Hash: hash})
	return hash, nil
}

func (m *MockClient) apply(sender string, payload *tx.UpdatePayload) error {
	if payload.Address != m.Contract {
		return fmt.Errorf("unknown contract %s", payload.Address)
	}
	prefix := m.ContractName + "."
	if len(payload.ReceiveName) <= len(prefix) || payload.ReceiveName[:len(prefix)] != prefix {
		return fmt.Errorf("unknown receive name %s", payload.ReceiveName)
	}
	ep := tx.Entrypoint(payload.ReceiveName[len(prefix):])
	if ep.Kind() != tx.CallKindUpdate {
		return fmt.Errorf("%w: %s", tx.ErrUnsupportedEntrypoint, ep)
	}
	if ep != tx.EntrypointInsert && payload.Amount != 0 {
		return fmt.Errorf("%s is not payable", ep)
	}
	params, err := m.codec.DecodeParameter(ep, payload.Parameter)
	if err != nil {
		return err
	}
	switch p := params.(type) {
	case *tx.CreateProposalParams:
		m.proposals = append(m.proposals, types.ProposalEntry{
			Id: uint64(len(m.proposals)),
			Proposal: types.Proposal{
				Proposer:     sender,
				Description:  p.Description,
				Amount:       strconv.FormatUint(p.Amount, 10),
				Contributers: []types.Contribution{},
				Status:       types.ProposalStatusActive,
			},
		})
	case *tx.VoteParams:
		return m.vote(sender, p.ProposalId, p.Votes)
	case *tx.RenounceParams:
		return m.renounce(sender, p.ProposalId, p.Votes)
	case *tx.WithdrawParams:
		return m.withdraw(sender, p.ProposalId)
	case nil:
		// insert
		m.balance += payload.Amount
		power, _ := m.power(sender)
		m.setPower(sender, power+payload.Amount)
	}
	return nil
}

func (m *MockClient) proposal(id uint64) (*types.Proposal, error) {
	if id >= uint64(len(m.proposals)) {
		return nil, errMockProposalNotFound
	}
	return &m.proposals[id].Proposal, nil
}

func (m *MockClient) vote(sender string, id uint64, votes uint64) error {
	p, err := m.proposal(id)
	if err != nil {
		return err
	}
	if p.Status != types.ProposalStatusActive {
		return errMockAlreadyApproved
	}
	power, ok := m.power(sender)
	if !ok {
		return errMockUnauthorized
	}
	if votes > power {
		return errMockInsufficient
	}
	m.setPower(sender, power-votes)
	p.Votes += votes
	found := false
	for i := range p.Contributers {
		if p.Contributers[i].Address == sender {
			p.Contributers[i].Votes += votes
			found = true
		}
	}
	if !found {
		p.Contributers = append(p.Contributers, types.Contribution{Address: sender, Votes: votes})
	}
	amount, _ := strconv.ParseUint(p.Amount, 10, 64)
	if p.Votes >= amount {
		p.Status = types.ProposalStatusApproved
	}
	return nil
}

func (m *MockClient) renounce(sender string, id uint64, votes uint64) error {
	p, err := m.proposal(id)
	if err != nil {
		return err
	}
	if p.Status != types.ProposalStatusActive {
		return errMockAlreadyApproved
	}
	for i := range p.Contributers {
		if p.Contributers[i].Address != sender {
			continue
		}
		if p.Contributers[i].Votes < votes {
			return errMockInsufficient
		}
		p.Contributers[i].Votes -= votes
		p.Votes -= votes
		if p.Contributers[i].Votes == 0 {
			p.Contributers = append(p.Contributers[:i], p.Contributers[i+1:]...)
		}
		power, _ := m.power(sender)
		m.setPower(sender, power+votes)
		return nil
	}
	return errMockUnauthorized
}

func (m *MockClient) withdraw(sender string, id uint64) error {
	p, err := m.proposal(id)
	if err != nil {
		return err
	}
	if p.Proposer != sender {
		return errMockUnauthorized
	}
	switch p.Status {
	case types.ProposalStatusCollected:
		return errMockAmountCollected
	case types.ProposalStatusActive:
		return errMockNotApproved
	}
	amount, _ := strconv.ParseUint(p.Amount, 10, 64)
	if amount > m.balance {
		return errMockInsufficient
	}
	m.balance -= amount
	p.Status = types.ProposalStatusCollected
	return nil
}

func (m *MockClient) power(address string) (uint64, bool) {
	for _, mb := range m.members {
		if mb.Address == address {
			return mb.Power, true
		}
	}
	return 0, false
}

func (m *MockClient) setPower(address string, power uint64) {
	for i := range m.members {
		if m.members[i].Address == address {
			m.members[i].Power = power
			return
		}
	}
	m.members = append(m.members, types.Member{Address: address, Power: power})
}

func (m *MockClient) InvokeContract(ctx context.Context, req *InvokeRequest) (*InvokeResult, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.InvokeCalls++
	if m.InvokeErr != nil {
		return nil, m.InvokeErr
	}
	if req.Contract != m.Contract {
		return &InvokeResult{Success: false, RejectReason: "InvalidContractAddress"}, nil
	}
	var (
		ret []byte
		err error
	)
	switch req.Method {
	case tx.EntrypointAllProposals.ReceiveName(m.ContractName):
		ret, err = tx.EncodeProposals(m.proposals)
	case tx.EntrypointAllMembers.ReceiveName(m.ContractName):
		ret, err = tx.EncodeMembers(m.members)
	case tx.EntrypointGetPower.ReceiveName(m.ContractName):
		if !m.SupportGetPower {
			return &InvokeResult{Success: false, RejectReason: "InvalidReceiveMethod"}, nil
		}
		params, err1 := m.codec.DecodeParameter(tx.EntrypointGetPower, req.Parameter)
		if err1 != nil {
			return &InvokeResult{Success: false, RejectReason: "ParseParams"}, nil
		}
		power, _ := m.power(params.(*tx.GetPowerParams).Address)
		ret = tx.EncodePower(power)
	default:
		return &InvokeResult{Success: false, RejectReason: "InvalidReceiveMethod"}, nil
	}
	if err != nil {
		return nil, err
	}
	return &InvokeResult{Success: true, ReturnValue: ret}, nil
}

func (m *MockClient) BlockItemStatus(ctx context.Context, hash types.TxHash) (*BlockItemStatus, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if m.StatusErr != nil {
		return nil, m.StatusErr
	}
	item, ok := m.items[hash]
	if !ok {
		return nil, ErrBlockItemNotFound
	}
	if item.polls < m.FinalizeAfter {
		item.polls++
		return &BlockItemStatus{Status: BlockItemReceived}, nil
	}
	status := item.status
	return &status, nil
}

// SetItemStatus overrides the status reported for a submitted block item.
func (m *MockClient) SetItemStatus(hash types.TxHash, status BlockItemStatus) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.items[hash] = &mockItem{status: status}
}

func (m *MockClient) RequestIdProof(ctx context.Context, account string, statement types.Statement, challenge types.Challenge) (*types.ProofWithContext, error) {
	if m.Proof == nil {
		return nil, ErrNoProof
	}
	p := *m.Proof
	return &p, nil
}
