package chain

import (
	"context"
	"errors"

	"github.com/calehh/charity-dao/tx"
	"github.com/calehh/charity-dao/types"
)

// Client is the wallet the user is connected through. It signs and submits
// transactions for its accounts and forwards queries to the node it is
// attached to.
type Client interface {
	// CryptographicParameters returns nil parameters without error when the
	// node does not know the given block, i.e. it runs on another network.
	CryptographicParameters(ctx context.Context, block types.BlockHash) (*CryptographicParameters, error)
	SendTransaction(ctx context.Context, sender string, payload *tx.UpdatePayload) (types.TxHash, error)
	InvokeContract(ctx context.Context, req *InvokeRequest) (*InvokeResult, error)
	BlockItemStatus(ctx context.Context, hash types.TxHash) (*BlockItemStatus, error)
	RequestIdProof(ctx context.Context, account string, statement types.Statement, challenge types.Challenge) (*types.ProofWithContext, error)
}

var (
	ErrBlockItemNotFound = errors.New("block item not found")
	ErrNoProof           = errors.New("wallet returned no proof")
)

type CryptographicParameters struct {
	GenesisString         string `json:"genesisString"`
	BulletproofGenerators string `json:"bulletproofGenerators"`
	OnChainCommitmentKey  string `json:"onChainCommitmentKey"`
}

type InvokeRequest struct {
	Contract  tx.ContractAddress `json:"contract"`
	Method    string             `json:"method"`
	Invoker   string             `json:"invoker,omitempty"`
	Parameter []byte             `json:"parameter,omitempty"`
}

type InvokeResult struct {
	Success      bool   `json:"success"`
	ReturnValue  []byte `json:"returnValue"`
	RejectReason string `json:"rejectReason,omitempty"`
	UsedEnergy   uint64 `json:"usedEnergy"`
}

type BlockItemState string

const (
	BlockItemReceived  BlockItemState = "received"
	BlockItemCommitted BlockItemState = "committed"
	BlockItemFinalized BlockItemState = "finalized"
)

type SummaryType string

const (
	SummaryAccountTransaction   SummaryType = "accountTransaction"
	SummaryCredentialDeployment SummaryType = "credentialDeployment"
	SummaryUpdateInstruction    SummaryType = "updateTransaction"
)

// TransactionKind of an account transaction summary. A rejected transaction is
// reported as TransactionKindFailed whatever was submitted.
type TransactionKind string

const (
	TransactionKindUpdate   TransactionKind = "update"
	TransactionKindTransfer TransactionKind = "transfer"
	TransactionKindFailed   TransactionKind = "failed"
)

type TransactionSummary struct {
	Type            SummaryType     `json:"type"`
	TransactionType TransactionKind `json:"transactionType"`
	Sender          string          `json:"sender,omitempty"`
	RejectReason    string          `json:"rejectReason,omitempty"`
}

type BlockItemStatus struct {
	Status    BlockItemState      `json:"status"`
	BlockHash types.BlockHash     `json:"blockHash"`
	Summary   *TransactionSummary `json:"summary,omitempty"`
}

func (s *BlockItemStatus) Finalized() bool {
	return s != nil && s.Status == BlockItemFinalized
}
