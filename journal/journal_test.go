package journal

import (
	"path/filepath"
	"testing"

	"github.com/calehh/charity-dao/tx"
	"github.com/calehh/charity-dao/types"
	"github.com/cometbft/cometbft/libs/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"), log.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordLifecycle(t *testing.T) {
	j := openTestJournal(t)
	hash := types.TxHash{0x01}

	require.NoError(t, j.RecordSubmitted(hash, "alice", tx.EntrypointInsert, 12))
	rec, err := j.Get(hash)
	require.NoError(t, err)
	assert.Equal(t, StateSubmitted, rec.State)
	assert.Equal(t, "insert", rec.Entrypoint)
	assert.Equal(t, uint64(12), rec.Amount)

	unsettled, err := j.Unsettled()
	require.NoError(t, err)
	require.Len(t, unsettled, 1)

	require.NoError(t, j.RecordOutcome(hash, "finalized_failure", types.BlockHash{0x02}, "NotApproved"))
	rec, err = j.Get(hash)
	require.NoError(t, err)
	assert.Equal(t, "finalized_failure", rec.State)
	assert.Equal(t, "NotApproved", rec.RejectReason)
	assert.Equal(t, types.BlockHash{0x02}.String(), rec.BlockHash)
	assert.Equal(t, "alice", rec.Sender)

	unsettled, err = j.Unsettled()
	require.NoError(t, err)
	assert.Empty(t, unsettled)
}

func TestRecordOutcomeWithoutSubmission(t *testing.T) {
	j := openTestJournal(t)
	hash := types.TxHash{0x09}

	require.NoError(t, j.RecordOutcome(hash, "finalized_success", types.BlockHash{0x03}, ""))
	rec, err := j.Get(hash)
	require.NoError(t, err)
	assert.Equal(t, "finalized_success", rec.State)
	assert.Empty(t, rec.Sender)
}

func TestGetMissing(t *testing.T) {
	j := openTestJournal(t)
	_, err := j.Get(types.TxHash{0x04})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListPages(t *testing.T) {
	j := openTestJournal(t)
	for i := byte(1); i <= 5; i++ {
		require.NoError(t, j.RecordSubmitted(types.TxHash{i}, "alice", tx.EntrypointVote, 0))
	}
	require.NoError(t, j.RecordSubmitted(types.TxHash{0x10}, "bob", tx.EntrypointInsert, 3))

	records, total, err := j.List("alice", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), total)
	assert.Len(t, records, 2)

	records, total, err = j.List("alice", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), total)
	assert.Len(t, records, 1)

	records, total, err = j.List("", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), total)
	assert.Len(t, records, 6)
}

func TestListRejectsBadPage(t *testing.T) {
	j := openTestJournal(t)
	require.NoError(t, j.RecordSubmitted(types.TxHash{0x01}, "alice", tx.EntrypointInsert, 1))

	for _, tc := range [][2]int{{-1, 10}, {0, 0}, {1 << 62, 3}} {
		_, _, err := j.List("alice", tc[0], tc[1])
		assert.ErrorIs(t, err, ErrInvalidPage, tc)
	}
}
