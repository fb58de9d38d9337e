package dao

import (
	"context"
	"errors"
	"fmt"

	"github.com/calehh/charity-dao/chain"
	"github.com/calehh/charity-dao/config"
	"github.com/calehh/charity-dao/tx"
	"github.com/calehh/charity-dao/types"
	"github.com/cometbft/cometbft/libs/log"
)

// Session is the wallet connection a user acts through. Account is the sender
// of every write and the invoker of every view.
type Session struct {
	Client  chain.Client
	Account string
}

func (s *Session) valid() error {
	if s == nil || s.Client == nil || s.Account == "" {
		return ErrNoSession
	}
	return nil
}

// Recorder keeps the handles of submitted transactions.
type Recorder interface {
	RecordSubmitted(hash types.TxHash, sender string, ep tx.Entrypoint, amount uint64) error
}

type DAO struct {
	contract  tx.ContractAddress
	name      string
	genesis   types.BlockHash
	maxEnergy uint64
	schema    string

	codec    tx.Codec
	recorder Recorder
	logger   log.Logger
}

func NewDAO(cfg *config.Config, codec tx.Codec, logger log.Logger) (*DAO, error) {
	genesis, err := cfg.GenesisBlockHash()
	if err != nil {
		return nil, err
	}
	return &DAO{
		contract:  cfg.ContractAddress(),
		name:      cfg.Chain.ContractName,
		genesis:   genesis,
		maxEnergy: cfg.Chain.MaxContractExecutionEnergy,
		schema:    cfg.Chain.SchemaBase64,
		codec:     codec,
		logger:    logger.With("module", "dao"),
	}, nil
}

func (d *DAO) SetRecorder(r Recorder) {
	d.recorder = r
}

func (d *DAO) Contract() tx.ContractAddress {
	return d.contract
}

// checkNetwork refuses to continue when the wallet has no cryptographic
// parameters for our genesis block.
func (d *DAO) checkNetwork(ctx context.Context, sess *Session) error {
	params, err := sess.Client.CryptographicParameters(ctx, d.genesis)
	if err != nil {
		return err
	}
	if params == nil {
		d.logger.Error(MsgWrongNetwork, "account", sess.Account)
		return ErrWrongNetwork
	}
	return nil
}

func (d *DAO) send(ctx context.Context, sess *Session, ep tx.Entrypoint, params any, amount uint64) (types.TxHash, error) {
	if err := sess.valid(); err != nil {
		return types.TxHash{}, err
	}
	if err := d.checkNetwork(ctx, sess); err != nil {
		return types.TxHash{}, err
	}
	param, err := d.codec.EncodeParameter(ep, params)
	if err != nil {
		return types.TxHash{}, err
	}
	payload := &tx.UpdatePayload{
		Address:                    d.contract,
		ReceiveName:                ep.ReceiveName(d.name),
		Amount:                     amount,
		MaxContractExecutionEnergy: d.maxEnergy,
		Parameter:                  param,
		Schema:                     d.schema,
	}
	hash, err := sess.Client.SendTransaction(ctx, sess.Account, payload)
	if err != nil {
		d.logger.Error("send transaction fail", "entrypoint", ep, "err", err)
		return types.TxHash{}, err
	}
	d.logger.Info("transaction submitted", "entrypoint", ep, "hash", hash.String(), "sender", sess.Account)
	if d.recorder != nil {
		if err := d.recorder.RecordSubmitted(hash, sess.Account, ep, amount); err != nil {
			d.logger.Error("record transaction fail", "hash", hash.String(), "err", err)
		}
	}
	return hash, nil
}

func (d *DAO) CreateProposal(ctx context.Context, sess *Session, description string, amount uint64) (types.TxHash, error) {
	return d.send(ctx, sess, tx.EntrypointCreateProposal, &tx.CreateProposalParams{
		Description: description,
		Amount:      amount,
	}, 0)
}

// InsertFunds donates amount to the treasury. The sender gains the same voting power.
func (d *DAO) InsertFunds(ctx context.Context, sess *Session, amount uint64) (types.TxHash, error) {
	return d.send(ctx, sess, tx.EntrypointInsert, nil, amount)
}

func (d *DAO) VoteForProposal(ctx context.Context, sess *Session, proposalId, votes uint64) (types.TxHash, error) {
	return d.send(ctx, sess, tx.EntrypointVote, &tx.VoteParams{
		ProposalId: proposalId,
		Votes:      votes,
	}, 0)
}

func (d *DAO) RenounceVotes(ctx context.Context, sess *Session, proposalId, votes uint64) (types.TxHash, error) {
	if err := ValidateRenounce(votes); err != nil {
		return types.TxHash{}, err
	}
	return d.send(ctx, sess, tx.EntrypointRenounce, &tx.RenounceParams{
		ProposalId: proposalId,
		Votes:      votes,
	}, 0)
}

func (d *DAO) WithdrawFunds(ctx context.Context, sess *Session, proposalId uint64) (types.TxHash, error) {
	return d.send(ctx, sess, tx.EntrypointWithdraw, &tx.WithdrawParams{
		ProposalId: proposalId,
	}, 0)
}

// Vote looks up the sender's power and only submits a weight it can cover.
func (d *DAO) Vote(ctx context.Context, sess *Session, proposalId, votes uint64) (types.TxHash, error) {
	if err := sess.valid(); err != nil {
		return types.TxHash{}, err
	}
	power, _, err := d.GetPower(ctx, sess, sess.Account)
	if err != nil {
		return types.TxHash{}, err
	}
	if err := ValidateVotes(votes, power); err != nil {
		return types.TxHash{}, err
	}
	return d.VoteForProposal(ctx, sess, proposalId, votes)
}

// Withdraw only submits for an approved proposal the sender proposed.
func (d *DAO) Withdraw(ctx context.Context, sess *Session, proposalId uint64) (types.TxHash, error) {
	if err := sess.valid(); err != nil {
		return types.TxHash{}, err
	}
	proposals, err := d.ListAllProposals(ctx, sess)
	if err != nil {
		return types.TxHash{}, err
	}
	entry, ok := FindProposal(proposals, proposalId)
	if !ok {
		return types.TxHash{}, invalid("proposal", MsgProposalNotFound)
	}
	if err := ValidateWithdraw(&entry.Proposal, sess.Account); err != nil {
		return types.TxHash{}, err
	}
	return d.WithdrawFunds(ctx, sess, proposalId)
}

func (d *DAO) invoke(ctx context.Context, sess *Session, ep tx.Entrypoint, params any) ([]byte, error) {
	if err := sess.valid(); err != nil {
		return nil, err
	}
	param, err := d.codec.EncodeParameter(ep, params)
	if err != nil {
		return nil, err
	}
	res, err := sess.Client.InvokeContract(ctx, &chain.InvokeRequest{
		Contract:  d.contract,
		Method:    ep.ReceiveName(d.name),
		Invoker:   sess.Account,
		Parameter: param,
	})
	if err != nil {
		d.logger.Error("invoke contract fail", "entrypoint", ep, "err", err)
		return nil, err
	}
	if !res.Success {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvokeFailed, ep, res.RejectReason)
	}
	return res.ReturnValue, nil
}

func (d *DAO) ListAllProposals(ctx context.Context, sess *Session) ([]types.ProposalEntry, error) {
	ret, err := d.invoke(ctx, sess, tx.EntrypointAllProposals, nil)
	if err != nil {
		return nil, err
	}
	proposals, err := d.codec.DecodeProposals(ret)
	if err != nil {
		d.logger.Error("decode proposals fail", "err", err)
		return nil, err
	}
	return proposals, nil
}

func (d *DAO) ListAllMembers(ctx context.Context, sess *Session) ([]types.Member, error) {
	ret, err := d.invoke(ctx, sess, tx.EntrypointAllMembers, nil)
	if err != nil {
		return nil, err
	}
	members, err := d.codec.DecodeMembers(ret)
	if err != nil {
		d.logger.Error("decode members fail", "err", err)
		return nil, err
	}
	return members, nil
}

// GetPower asks the get_power view for the power of address and only lists
// the members when the view is unavailable. A view answer counts as
// membership when the power is non-zero.
func (d *DAO) GetPower(ctx context.Context, sess *Session, address string) (power uint64, found bool, err error) {
	if _, err := types.ParseAccountAddress(address); err != nil {
		return 0, false, err
	}
	ret, err := d.invoke(ctx, sess, tx.EntrypointGetPower, &tx.GetPowerParams{Address: address})
	if err == nil {
		power, err = d.codec.DecodePower(ret)
		if err != nil {
			return 0, false, err
		}
		return power, power > 0, nil
	}
	if errors.Is(err, ErrNoSession) {
		return 0, false, err
	}
	d.logger.Debug("get_power unavailable, using member list", "address", address, "err", err)
	members, err := d.ListAllMembers(ctx, sess)
	if err != nil {
		return 0, false, err
	}
	power, found = Power(members, address)
	return power, found, nil
}

// Power scans members for address.
func Power(members []types.Member, address string) (uint64, bool) {
	for _, m := range members {
		if m.Address == address {
			return m.Power, true
		}
	}
	return 0, false
}

func FindProposal(entries []types.ProposalEntry, id uint64) (types.ProposalEntry, bool) {
	for _, e := range entries {
		if e.Id == id {
			return e, true
		}
	}
	return types.ProposalEntry{}, false
}

// ActiveProposals keeps the proposals still open for votes.
func ActiveProposals(entries []types.ProposalEntry) []types.ProposalEntry {
	active := make([]types.ProposalEntry, 0, len(entries))
	for _, e := range entries {
		if e.Proposal.Status == types.ProposalStatusActive {
			active = append(active, e)
		}
	}
	return active
}
