package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/calehh/charity-dao/chain"
	"github.com/calehh/charity-dao/config"
	"github.com/calehh/charity-dao/dao"
	"github.com/calehh/charity-dao/journal"
	"github.com/calehh/charity-dao/tx"
	"github.com/calehh/charity-dao/types"
	"github.com/cometbft/cometbft/libs/log"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func account(b byte) string {
	var raw [types.AccountAddressLength]byte
	raw[0] = b
	return types.BytesToAccountAddress(raw[:]).String()
}

func newTestService(t *testing.T, withJournal bool) (*Service, *chain.MockClient, *journal.Journal) {
	t.Helper()
	cfg := config.DefaultConfig(t.TempDir())
	d, err := dao.NewDAO(cfg, tx.NewSerialCodec(), log.NewNopLogger())
	require.NoError(t, err)
	genesis, _ := cfg.GenesisBlockHash()
	mock := chain.NewMockClient(genesis, cfg.ContractAddress())
	var j *journal.Journal
	if withJournal {
		j, err = journal.Open(filepath.Join(t.TempDir(), "journal.db"), log.NewNopLogger())
		require.NoError(t, err)
		t.Cleanup(func() { j.Close() })
	}
	sess := &dao.Session{Client: mock, Account: account(1)}
	return NewService("127.0.0.1:0", d, sess, j), mock, j
}

func post(t *testing.T, s *Service, path string, body any, out any) int {
	t.Helper()
	dat, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(dat))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if out != nil && w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w.Code
}

func TestGetProposalsFilters(t *testing.T) {
	s, mock, _ := newTestService(t, false)
	mock.AddProposal(types.Proposal{Proposer: account(1), Description: "a", Amount: "5"})
	mock.AddProposal(types.Proposal{Proposer: account(2), Description: "b", Amount: "5", Status: types.ProposalStatusApproved})
	mock.AddProposal(types.Proposal{Proposer: account(2), Description: "c", Amount: "5"})

	var res GetProposalsResponse
	require.Equal(t, http.StatusOK, post(t, s, "/getProposals", GetProposalsReq{}, &res))
	assert.Equal(t, uint64(3), res.Total)
	assert.Len(t, res.Proposals, 3)

	res = GetProposalsResponse{}
	require.Equal(t, http.StatusOK, post(t, s, "/getProposals", GetProposalsReq{Status: "Active", Proposer: account(2)}, &res))
	require.Equal(t, uint64(1), res.Total)
	assert.Equal(t, "c", res.Proposals[0].Proposal.Description)

	id := uint64(0)
	res = GetProposalsResponse{}
	require.Equal(t, http.StatusOK, post(t, s, "/getProposals", GetProposalsReq{ProposalId: &id}, &res))
	require.Len(t, res.Proposals, 1)
	assert.Equal(t, "a", res.Proposals[0].Proposal.Description)

	res = GetProposalsResponse{}
	require.Equal(t, http.StatusOK, post(t, s, "/getProposals", GetProposalsReq{Page: 1, PageSize: 2}, &res))
	assert.Equal(t, uint64(3), res.Total)
	assert.Len(t, res.Proposals, 1)

	assert.Equal(t, http.StatusBadRequest, post(t, s, "/getProposals", GetProposalsReq{Status: "Pending"}, nil))
}

func TestGetMembersAndPower(t *testing.T) {
	s, mock, _ := newTestService(t, false)
	mock.SetMember(account(1), 8)
	mock.SetMember(account(2), 2)

	var members GetMembersResponse
	require.Equal(t, http.StatusOK, post(t, s, "/getMembers", GetMembersReq{}, &members))
	assert.Equal(t, uint64(2), members.Total)

	var power GetPowerResponse
	require.Equal(t, http.StatusOK, post(t, s, "/getPower", GetPowerReq{}, &power))
	assert.Equal(t, GetPowerResponse{Address: account(1), Power: 8, Found: true}, power)

	power = GetPowerResponse{}
	require.Equal(t, http.StatusOK, post(t, s, "/getPower", GetPowerReq{Address: account(3)}, &power))
	assert.False(t, power.Found)
	assert.Equal(t, uint64(0), power.Power)

	assert.Equal(t, http.StatusBadRequest, post(t, s, "/getPower", GetPowerReq{Address: "bogus"}, nil))
}

func TestGetTransactions(t *testing.T) {
	s, _, j := newTestService(t, true)
	require.NoError(t, j.RecordSubmitted(types.TxHash{0x01}, account(1), tx.EntrypointInsert, 4))
	require.NoError(t, j.RecordSubmitted(types.TxHash{0x02}, account(2), tx.EntrypointVote, 0))

	var res GetTransactionsResponse
	require.Equal(t, http.StatusOK, post(t, s, "/getTransactions", GetTransactionsReq{Sender: account(1)}, &res))
	assert.Equal(t, uint64(1), res.Total)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "insert", res.Transactions[0].Entrypoint)

	s, _, _ = newTestService(t, false)
	assert.Equal(t, http.StatusServiceUnavailable, post(t, s, "/getTransactions", GetTransactionsReq{}, nil))
}

func TestPagingBounds(t *testing.T) {
	s, mock, j := newTestService(t, true)
	for i := 0; i < 3; i++ {
		mock.AddProposal(types.Proposal{Proposer: account(1), Description: "p", Amount: "1"})
	}
	mock.SetMember(account(1), 1)
	require.NoError(t, j.RecordSubmitted(types.TxHash{0x01}, account(1), tx.EntrypointInsert, 1))

	huge := 1 << 62
	assert.Equal(t, http.StatusBadRequest, post(t, s, "/getProposals", GetProposalsReq{Page: huge, PageSize: 3}, nil))
	assert.Equal(t, http.StatusBadRequest, post(t, s, "/getMembers", GetMembersReq{Page: huge, PageSize: 3}, nil))
	assert.Equal(t, http.StatusBadRequest, post(t, s, "/getTransactions", GetTransactionsReq{Page: huge, PageSize: 3}, nil))

	var res GetProposalsResponse
	require.Equal(t, http.StatusOK, post(t, s, "/getProposals", GetProposalsReq{Page: 1000, PageSize: 1 << 40}, &res))
	assert.Equal(t, uint64(3), res.Total)
	assert.Empty(t, res.Proposals)

	res = GetProposalsResponse{}
	require.Equal(t, http.StatusOK, post(t, s, "/getProposals", GetProposalsReq{Page: -4, PageSize: 1 << 40}, &res))
	assert.Len(t, res.Proposals, 3)

	page, size, err := pageBounds(5, MaxPageSize+1)
	require.NoError(t, err)
	assert.Equal(t, 5, page)
	assert.Equal(t, MaxPageSize, size)
}
