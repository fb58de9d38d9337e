package verifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/calehh/charity-dao/types"
	"github.com/cometbft/cometbft/libs/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	proveStatus int
	proveBody   string
	gotProve    types.ChallengedProof
	gotAddress  string
}

func (f *fakeVerifier) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/challenge":
		f.gotAddress = r.URL.Query().Get("address")
		w.Write([]byte(`{"challenge":"a1b2c3"}`))
	case "/statement":
		w.Write([]byte(`[{"type":"AttributeInRange","attributeTag":"dob"}]`))
	case "/prove":
		dat, _ := io.ReadAll(r.Body)
		json.Unmarshal(dat, &f.gotProve)
		w.WriteHeader(f.proveStatus)
		w.Write([]byte(f.proveBody))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type fakeProver struct {
	err error
}

func (p *fakeProver) RequestIdProof(ctx context.Context, account string, statement types.Statement, challenge types.Challenge) (*types.ProofWithContext, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &types.ProofWithContext{Credential: "cred-" + account, Proof: json.RawMessage(`{"value":1}`)}, nil
}

func newTestClient(t *testing.T, f *fakeVerifier) *Client {
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, time.Second, log.NewNopLogger())
}

func TestAuthenticate(t *testing.T) {
	f := &fakeVerifier{proveStatus: http.StatusOK, proveBody: `"token-123"`}
	c := newTestClient(t, f)

	token, err := c.Authenticate(context.Background(), &fakeProver{}, "acc1")
	require.NoError(t, err)
	assert.JSONEq(t, `"token-123"`, string(token))
	assert.Equal(t, "acc1", f.gotAddress)
	assert.JSONEq(t, `"a1b2c3"`, string(f.gotProve.Challenge))
	assert.Equal(t, "cred-acc1", f.gotProve.Proof.Credential)
}

func TestGetStatementPassesThrough(t *testing.T) {
	c := newTestClient(t, &fakeVerifier{})
	statement, err := c.GetStatement(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"type":"AttributeInRange","attributeTag":"dob"}]`, string(statement))
}

func TestAuthorizeRefused(t *testing.T) {
	for _, tc := range []struct {
		name   string
		status int
		body   string
	}{
		{"forbidden", http.StatusForbidden, `"token"`},
		{"null", http.StatusOK, `null`},
		{"empty", http.StatusOK, ``},
		{"false", http.StatusOK, `false`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, &fakeVerifier{proveStatus: tc.status, proveBody: tc.body})
			_, err := c.Authenticate(context.Background(), &fakeProver{}, "acc1")
			require.ErrorIs(t, err, ErrUnableToAuthorize)
			assert.Equal(t, "Unable to authorize", ErrUnableToAuthorize.Error())
		})
	}
}

func TestChallengeFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	c := NewClient(srv.URL, time.Second, log.NewNopLogger())

	_, err := c.GetChallenge(context.Background(), "acc1")
	require.ErrorIs(t, err, ErrFetch)
	_, err = c.GetStatement(context.Background())
	require.ErrorIs(t, err, ErrFetch)
}

func TestProverErrorStopsFlow(t *testing.T) {
	f := &fakeVerifier{proveStatus: http.StatusOK, proveBody: `"token"`}
	c := newTestClient(t, f)
	rejected := errors.New("user rejected")

	_, err := c.Authenticate(context.Background(), &fakeProver{err: rejected}, "acc1")
	require.ErrorIs(t, err, rejected)
	assert.Nil(t, f.gotProve.Challenge)
}
