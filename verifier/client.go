package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/calehh/charity-dao/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
)

var (
	ErrFetch             = errors.New("verifier request failed")
	ErrUnableToAuthorize = errors.New("Unable to authorize")
)

// Prover asks the wallet to prove statement about account for challenge.
type Prover interface {
	RequestIdProof(ctx context.Context, account string, statement types.Statement, challenge types.Challenge) (*types.ProofWithContext, error)
}

type Client struct {
	Url    string
	cli    *http.Client
	logger cmtlog.Logger
}

func NewClient(baseUrl string, timeout time.Duration, logger cmtlog.Logger) *Client {
	return &Client{
		Url:    baseUrl,
		cli:    &http.Client{Timeout: timeout},
		logger: logger.With("module", "verifier"),
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u, err := url.JoinPath(c.Url, path)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.cli.Do(req)
	if err != nil {
		c.logger.Error("get verifier url fail", "path", path, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		c.logger.Error("read response body fail", "err", err)
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s %s", ErrFetch, path, res.Status)
	}
	return body, nil
}

// GetChallenge fetches a fresh challenge for address.
func (c *Client) GetChallenge(ctx context.Context, address string) (types.Challenge, error) {
	body, err := c.get(ctx, "challenge", url.Values{"address": {address}})
	if err != nil {
		return nil, err
	}
	var res types.ChallengeResponse
	if err := json.Unmarshal(body, &res); err != nil {
		c.logger.Error("unmarshal response body fail", "err", err)
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if len(res.Challenge) == 0 {
		return nil, fmt.Errorf("%w: no challenge in response", ErrFetch)
	}
	return res.Challenge, nil
}

// GetStatement fetches the statement the verifier wants proven.
func (c *Client) GetStatement(ctx context.Context) (types.Statement, error) {
	body, err := c.get(ctx, "statement", nil)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: statement is not json", ErrFetch)
	}
	return types.Statement(body), nil
}

// Authorize exchanges a proof for an auth token.
func (c *Client) Authorize(ctx context.Context, challenge types.Challenge, proof *types.ProofWithContext) (types.AuthToken, error) {
	if proof == nil {
		return nil, ErrUnableToAuthorize
	}
	dat, err := json.Marshal(types.ChallengedProof{Challenge: challenge, Proof: *proof})
	if err != nil {
		return nil, err
	}
	u, err := url.JoinPath(c.Url, "prove")
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(dat))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.cli.Do(req)
	if err != nil {
		c.logger.Error("post proof fail", "err", err)
		return nil, fmt.Errorf("%w: %v", ErrUnableToAuthorize, err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.logger.Info("proof refused", "status", res.Status)
		return nil, ErrUnableToAuthorize
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnableToAuthorize, err)
	}
	body = bytes.TrimSpace(body)
	if !json.Valid(body) || falsy(body) {
		return nil, ErrUnableToAuthorize
	}
	return types.AuthToken(body), nil
}

func falsy(body []byte) bool {
	switch string(body) {
	case "", "null", "false", "0", `""`:
		return true
	}
	return false
}

// Authenticate runs challenge, statement, proof and authorization for account.
func (c *Client) Authenticate(ctx context.Context, prover Prover, account string) (types.AuthToken, error) {
	challenge, err := c.GetChallenge(ctx, account)
	if err != nil {
		return nil, err
	}
	statement, err := c.GetStatement(ctx)
	if err != nil {
		return nil, err
	}
	proof, err := prover.RequestIdProof(ctx, account, statement, challenge)
	if err != nil {
		c.logger.Error("request id proof fail", "account", account, "err", err)
		return nil, err
	}
	token, err := c.Authorize(ctx, challenge, proof)
	if err != nil {
		return nil, err
	}
	c.logger.Info("authorized", "account", account)
	return token, nil
}
