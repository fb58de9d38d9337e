package chain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/calehh/charity-dao/tx"
	"github.com/calehh/charity-dao/types"
	"github.com/cometbft/cometbft/libs/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	ID     json.RawMessage            `json:"id"`
	Method string                     `json:"method"`
	Params map[string]json.RawMessage `json:"params"`
}

// fakeWallet answers JSON-RPC calls from a table of method results.
type fakeWallet struct {
	results map[string]any
	calls   map[string]map[string]json.RawMessage
}

func (f *fakeWallet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f.calls[req.Method] = req.Params
	res := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	if result, ok := f.results[req.Method]; ok {
		res["result"] = result
	} else {
		res["error"] = map[string]any{"code": -32601, "message": "Method not found"}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func newTestRPC(t *testing.T, results map[string]any) (*RPCClient, *fakeWallet) {
	f := &fakeWallet{results: results, calls: map[string]map[string]json.RawMessage{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	c, err := NewRPCClient(srv.URL, log.NewNopLogger())
	require.NoError(t, err)
	return c, f
}

func TestRPCCryptographicParameters(t *testing.T) {
	c, f := newTestRPC(t, map[string]any{
		MethodGetCryptographicParameters: map[string]any{"found": true, "genesisString": "testnet"},
	})
	params, err := c.CryptographicParameters(context.Background(), types.BlockHash{0x42})
	require.NoError(t, err)
	require.NotNil(t, params)
	assert.Equal(t, "testnet", params.GenesisString)
	assert.JSONEq(t, `"`+types.BlockHash{0x42}.String()+`"`, string(f.calls[MethodGetCryptographicParameters]["block_hash"]))

	c, _ = newTestRPC(t, map[string]any{
		MethodGetCryptographicParameters: map[string]any{"found": false},
	})
	params, err = c.CryptographicParameters(context.Background(), types.BlockHash{0x42})
	require.NoError(t, err)
	assert.Nil(t, params)
}

func TestRPCSendTransaction(t *testing.T) {
	hash := types.TxHash{0x01, 0x02}
	c, f := newTestRPC(t, map[string]any{
		MethodSendTransaction: map[string]any{"hash": hash.String()},
	})
	got, err := c.SendTransaction(context.Background(), "sender", &tx.UpdatePayload{
		Address:                    tx.ContractAddress{Index: 10032},
		ReceiveName:                "DAO.insert",
		Amount:                     15,
		MaxContractExecutionEnergy: 30000,
		Parameter:                  []byte{0xab},
		Schema:                     "c2NoZW1h",
	})
	require.NoError(t, err)
	assert.Equal(t, hash, got)

	var payload rpcUpdatePayload
	require.NoError(t, json.Unmarshal(f.calls[MethodSendTransaction]["payload"], &payload))
	assert.Equal(t, rpcUpdatePayload{
		Address:                    rpcContractAddress{Index: "10032", Subindex: "0"},
		ReceiveName:                "DAO.insert",
		Amount:                     "15",
		MaxContractExecutionEnergy: "30000",
		Parameter:                  "ab",
		Schema:                     "c2NoZW1h",
	}, payload)
}

func TestRPCInvokeContract(t *testing.T) {
	c, _ := newTestRPC(t, map[string]any{
		MethodInvokeContract: map[string]any{"success": true, "returnValue": "0500000000000000", "usedEnergy": "120"},
	})
	res, err := c.InvokeContract(context.Background(), &InvokeRequest{Method: "DAO.get_power"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, tx.EncodePower(5), res.ReturnValue)
	assert.Equal(t, uint64(120), res.UsedEnergy)

	c, _ = newTestRPC(t, map[string]any{
		MethodInvokeContract: map[string]any{"success": true, "returnValue": "zz"},
	})
	_, err = c.InvokeContract(context.Background(), &InvokeRequest{Method: "DAO.get_power"})
	assert.ErrorIs(t, err, tx.ErrDecode)
}

func TestRPCBlockItemStatus(t *testing.T) {
	block := types.BlockHash{0x0b}
	c, _ := newTestRPC(t, map[string]any{
		MethodGetBlockItemStatus: map[string]any{
			"found":     true,
			"status":    "finalized",
			"blockHash": block.String(),
			"summary":   map[string]any{"type": "accountTransaction", "transactionType": "update"},
		},
	})
	status, err := c.BlockItemStatus(context.Background(), types.TxHash{0x01})
	require.NoError(t, err)
	assert.True(t, status.Finalized())
	assert.Equal(t, block, status.BlockHash)
	assert.Equal(t, SummaryAccountTransaction, status.Summary.Type)
	assert.Equal(t, TransactionKindUpdate, status.Summary.TransactionType)

	c, _ = newTestRPC(t, map[string]any{
		MethodGetBlockItemStatus: map[string]any{"found": false},
	})
	_, err = c.BlockItemStatus(context.Background(), types.TxHash{0x01})
	assert.ErrorIs(t, err, ErrBlockItemNotFound)
}

func TestRPCRequestIdProof(t *testing.T) {
	c, f := newTestRPC(t, map[string]any{
		MethodRequestIdProof: map[string]any{"credential": "cred", "proof": `{"proofs":[]}`},
	})
	proof, err := c.RequestIdProof(context.Background(), "acc", types.Statement(`[]`), types.Challenge(`"abc"`))
	require.NoError(t, err)
	assert.Equal(t, "cred", proof.Credential)
	assert.JSONEq(t, `{"proofs":[]}`, string(proof.Proof))
	assert.JSONEq(t, `"\"abc\""`, string(f.calls[MethodRequestIdProof]["challenge"]))

	c, _ = newTestRPC(t, map[string]any{
		MethodRequestIdProof: map[string]any{"credential": "", "proof": ""},
	})
	_, err = c.RequestIdProof(context.Background(), "acc", nil, nil)
	assert.ErrorIs(t, err, ErrNoProof)
}

func TestRPCError(t *testing.T) {
	c, _ := newTestRPC(t, map[string]any{})
	_, err := c.SendTransaction(context.Background(), "sender", &tx.UpdatePayload{})
	assert.Error(t, err)
}
