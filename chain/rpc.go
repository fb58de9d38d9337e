package chain

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/calehh/charity-dao/tx"
	"github.com/calehh/charity-dao/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	jsonrpc "github.com/cometbft/cometbft/rpc/jsonrpc/client"
)

const (
	MethodGetCryptographicParameters = "get_cryptographic_parameters"
	MethodSendTransaction            = "send_transaction"
	MethodInvokeContract             = "invoke_contract"
	MethodGetBlockItemStatus         = "get_block_item_status"
	MethodRequestIdProof             = "request_id_proof"
)

var _ Client = &RPCClient{}
var _ Client = &MockClient{}

// RPCClient talks JSON-RPC to a wallet bridge. Numbers travel as decimal
// strings and byte strings as hex so the payloads stay independent of the
// encoder on either side.
type RPCClient struct {
	Url    string
	cli    *jsonrpc.Client
	logger cmtlog.Logger
}

func NewRPCClient(url string, logger cmtlog.Logger) (*RPCClient, error) {
	cli, err := jsonrpc.New(url)
	if err != nil {
		return nil, err
	}
	return &RPCClient{
		Url:    url,
		cli:    cli,
		logger: logger.With("module", "wallet"),
	}, nil
}

type rpcCryptographicParameters struct {
	Found                 bool   `json:"found"`
	GenesisString         string `json:"genesisString"`
	BulletproofGenerators string `json:"bulletproofGenerators"`
	OnChainCommitmentKey  string `json:"onChainCommitmentKey"`
}

func (c *RPCClient) CryptographicParameters(ctx context.Context, block types.BlockHash) (*CryptographicParameters, error) {
	var res rpcCryptographicParameters
	_, err := c.cli.Call(ctx, MethodGetCryptographicParameters, map[string]interface{}{
		"block_hash": block.String(),
	}, &res)
	if err != nil {
		c.logger.Error("get cryptographic parameters fail", "block", block.String(), "err", err)
		return nil, err
	}
	if !res.Found {
		return nil, nil
	}
	return &CryptographicParameters{
		GenesisString:         res.GenesisString,
		BulletproofGenerators: res.BulletproofGenerators,
		OnChainCommitmentKey:  res.OnChainCommitmentKey,
	}, nil
}

type rpcContractAddress struct {
	Index    string `json:"index"`
	Subindex string `json:"subindex"`
}

type rpcUpdatePayload struct {
	Address                    rpcContractAddress `json:"address"`
	ReceiveName                string             `json:"receiveName"`
	Amount                     string             `json:"amount"`
	MaxContractExecutionEnergy string             `json:"maxContractExecutionEnergy"`
	Parameter                  string             `json:"parameter"`
	Schema                     string             `json:"schema"`
}

type rpcTxHash struct {
	Hash string `json:"hash"`
}

func toRPCContractAddress(addr tx.ContractAddress) rpcContractAddress {
	return rpcContractAddress{
		Index:    strconv.FormatUint(addr.Index, 10),
		Subindex: strconv.FormatUint(addr.Subindex, 10),
	}
}

func (c *RPCClient) SendTransaction(ctx context.Context, sender string, payload *tx.UpdatePayload) (types.TxHash, error) {
	p := rpcUpdatePayload{
		Address:                    toRPCContractAddress(payload.Address),
		ReceiveName:                payload.ReceiveName,
		Amount:                     strconv.FormatUint(payload.Amount, 10),
		MaxContractExecutionEnergy: strconv.FormatUint(payload.MaxContractExecutionEnergy, 10),
		Parameter:                  hex.EncodeToString(payload.Parameter),
		Schema:                     payload.Schema,
	}
	var res rpcTxHash
	_, err := c.cli.Call(ctx, MethodSendTransaction, map[string]interface{}{
		"sender":  sender,
		"payload": p,
	}, &res)
	if err != nil {
		c.logger.Error("send transaction fail", "sender", sender, "receive", payload.ReceiveName, "err", err)
		return types.TxHash{}, err
	}
	return types.ParseTxHash(res.Hash)
}

type rpcInvokeResult struct {
	Success      bool   `json:"success"`
	ReturnValue  string `json:"returnValue"`
	RejectReason string `json:"rejectReason"`
	UsedEnergy   string `json:"usedEnergy"`
}

func (c *RPCClient) InvokeContract(ctx context.Context, req *InvokeRequest) (*InvokeResult, error) {
	var res rpcInvokeResult
	_, err := c.cli.Call(ctx, MethodInvokeContract, map[string]interface{}{
		"contract":  toRPCContractAddress(req.Contract),
		"method":    req.Method,
		"invoker":   req.Invoker,
		"parameter": hex.EncodeToString(req.Parameter),
	}, &res)
	if err != nil {
		c.logger.Error("invoke contract fail", "method", req.Method, "err", err)
		return nil, err
	}
	ret, err := hex.DecodeString(res.ReturnValue)
	if err != nil {
		return nil, fmt.Errorf("%w: return value is not hex: %v", tx.ErrDecode, err)
	}
	result := &InvokeResult{
		Success:      res.Success,
		ReturnValue:  ret,
		RejectReason: res.RejectReason,
	}
	if res.UsedEnergy != "" {
		result.UsedEnergy, err = strconv.ParseUint(res.UsedEnergy, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid used energy %q: %w", res.UsedEnergy, err)
		}
	}
	return result, nil
}

type rpcBlockItemStatus struct {
	Found     bool                   `json:"found"`
	Status    string                 `json:"status"`
	BlockHash string                 `json:"blockHash"`
	Summary   *rpcTransactionSummary `json:"summary"`
}

type rpcTransactionSummary struct {
	Type            string `json:"type"`
	TransactionType string `json:"transactionType"`
	Sender          string `json:"sender"`
	RejectReason    string `json:"rejectReason"`
}

func (c *RPCClient) BlockItemStatus(ctx context.Context, hash types.TxHash) (*BlockItemStatus, error) {
	var res rpcBlockItemStatus
	_, err := c.cli.Call(ctx, MethodGetBlockItemStatus, map[string]interface{}{
		"hash": hash.String(),
	}, &res)
	if err != nil {
		c.logger.Error("get block item status fail", "hash", hash.String(), "err", err)
		return nil, err
	}
	if !res.Found {
		return nil, ErrBlockItemNotFound
	}
	status := &BlockItemStatus{
		Status: BlockItemState(res.Status),
	}
	if res.BlockHash != "" {
		status.BlockHash, err = types.ParseBlockHash(res.BlockHash)
		if err != nil {
			return nil, err
		}
	}
	if res.Summary != nil {
		status.Summary = &TransactionSummary{
			Type:            SummaryType(res.Summary.Type),
			TransactionType: TransactionKind(res.Summary.TransactionType),
			Sender:          res.Summary.Sender,
			RejectReason:    res.Summary.RejectReason,
		}
	}
	return status, nil
}

type rpcIdProof struct {
	Credential string `json:"credential"`
	Proof      string `json:"proof"`
}

func (c *RPCClient) RequestIdProof(ctx context.Context, account string, statement types.Statement, challenge types.Challenge) (*types.ProofWithContext, error) {
	var res rpcIdProof
	_, err := c.cli.Call(ctx, MethodRequestIdProof, map[string]interface{}{
		"account":   account,
		"statement": string(statement),
		"challenge": string(challenge),
	}, &res)
	if err != nil {
		c.logger.Error("request id proof fail", "account", account, "err", err)
		return nil, err
	}
	if res.Proof == "" {
		return nil, ErrNoProof
	}
	if !json.Valid([]byte(res.Proof)) {
		return nil, fmt.Errorf("%w: proof is not json", ErrNoProof)
	}
	return &types.ProofWithContext{
		Credential: res.Credential,
		Proof:      json.RawMessage(res.Proof),
	}, nil
}
