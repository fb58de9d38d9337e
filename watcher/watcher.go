package watcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/calehh/charity-dao/chain"
	"github.com/calehh/charity-dao/config"
	"github.com/calehh/charity-dao/types"
	"github.com/cenkalti/backoff/v4"
	"github.com/cometbft/cometbft/libs/log"
)

var (
	ErrTxRejected          = errors.New("transaction rejected")
	ErrFinalizationTimeout = errors.New("transaction not finalized in time")

	errNotFinalized = errors.New("not finalized")
)

type State uint8

const (
	StateSubmitted State = iota
	StatePending
	StateFinalizedSuccess
	StateFinalizedFailure
)

var stateNames = map[State]string{
	StateSubmitted:        "submitted",
	StatePending:          "pending",
	StateFinalizedSuccess: "finalized_success",
	StateFinalizedFailure: "finalized_failure",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

func (s State) Final() bool {
	return s == StateFinalizedSuccess || s == StateFinalizedFailure
}

type Outcome struct {
	Hash      types.TxHash
	BlockHash types.BlockHash
	State     State
	Summary   *chain.TransactionSummary
}

func (o *Outcome) RejectReason() string {
	if o.Summary == nil {
		return ""
	}
	return o.Summary.RejectReason
}

// Handler runs after a transaction finalized successfully.
type Handler func(ctx context.Context, out *Outcome)

// Recorder keeps final outcomes.
type Recorder interface {
	RecordOutcome(hash types.TxHash, state string, block types.BlockHash, reason string) error
}

type Watcher struct {
	PollInterval time.Duration
	// Timeout bounds a single Wait. Zero waits until the context is done.
	Timeout time.Duration

	handlers []Handler
	recorder Recorder
	logger   log.Logger
}

func NewWatcher(cfg *config.WatcherConfig, logger log.Logger) *Watcher {
	return &Watcher{
		PollInterval: cfg.PollInterval,
		Timeout:      cfg.Timeout,
		logger:       logger.With("module", "watcher"),
	}
}

// OnSuccess registers h to run after every successful finalization.
func (w *Watcher) OnSuccess(h Handler) {
	w.handlers = append(w.handlers, h)
}

func (w *Watcher) SetRecorder(r Recorder) {
	w.recorder = r
}

// Succeeded is true for a finalized account transaction that updated a contract.
func Succeeded(status *chain.BlockItemStatus) bool {
	return status.Finalized() &&
		status.Summary != nil &&
		status.Summary.Type == chain.SummaryAccountTransaction &&
		status.Summary.TransactionType == chain.TransactionKindUpdate
}

// Wait polls the status of hash until it is finalized. A rejected transaction
// returns ErrTxRejected. When Timeout expires first the outcome stays pending
// and ErrFinalizationTimeout is returned.
func (w *Watcher) Wait(ctx context.Context, client chain.Client, hash types.TxHash) (*Outcome, error) {
	out := &Outcome{Hash: hash, State: StateSubmitted}

	wctx := ctx
	if w.Timeout > 0 {
		var cancel context.CancelFunc
		wctx, cancel = context.WithTimeout(ctx, w.Timeout)
		defer cancel()
	}

	poll := func() error {
		status, err := client.BlockItemStatus(wctx, hash)
		if errors.Is(err, chain.ErrBlockItemNotFound) {
			out.State = StatePending
			return errNotFinalized
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		out.State = StatePending
		if !status.Finalized() {
			return errNotFinalized
		}
		out.BlockHash = status.BlockHash
		out.Summary = status.Summary
		if Succeeded(status) {
			out.State = StateFinalizedSuccess
		} else {
			out.State = StateFinalizedFailure
		}
		return nil
	}

	interval := w.PollInterval
	if interval <= 0 {
		interval = config.DefaultWatcherConfig().PollInterval
	}
	err := backoff.Retry(poll, backoff.WithContext(backoff.NewConstantBackOff(interval), wctx))
	if !out.State.Final() {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		if wctx.Err() != nil {
			w.logger.Info("finalization timeout", "hash", hash.String(), "timeout", w.Timeout)
			return out, ErrFinalizationTimeout
		}
	}
	if err != nil {
		w.logger.Error("get block item status fail", "hash", hash.String(), "err", err)
		return out, err
	}

	w.record(out)
	if out.State == StateFinalizedFailure {
		w.logger.Info("transaction rejected", "hash", hash.String(), "block", out.BlockHash.String(), "reason", out.RejectReason())
		return out, fmt.Errorf("%w: %s", ErrTxRejected, out.RejectReason())
	}
	w.logger.Info("transaction finalized", "hash", hash.String(), "block", out.BlockHash.String())
	for _, h := range w.handlers {
		h(ctx, out)
	}
	return out, nil
}

func (w *Watcher) record(out *Outcome) {
	if w.recorder == nil {
		return
	}
	if err := w.recorder.RecordOutcome(out.Hash, out.State.String(), out.BlockHash, out.RejectReason()); err != nil {
		w.logger.Error("record outcome fail", "hash", out.Hash.String(), "err", err)
	}
}
