package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/calehh/charity-dao/chain"
	"github.com/calehh/charity-dao/config"
	"github.com/calehh/charity-dao/dao"
	"github.com/calehh/charity-dao/journal"
	"github.com/calehh/charity-dao/tx"
	"github.com/calehh/charity-dao/types"
	"github.com/calehh/charity-dao/watcher"
	cmtflags "github.com/cometbft/cometbft/libs/cli/flags"
	cmtlog "github.com/cometbft/cometbft/libs/log"
)

type env struct {
	cfg     *config.Config
	logger  cmtlog.Logger
	client  *chain.RPCClient
	dao     *dao.DAO
	sess    *dao.Session
	watcher *watcher.Watcher
	journal *journal.Journal
}

func newEnv() (*env, error) {
	cfg, err := config.Load(commonArgs.Home)
	if err != nil {
		return nil, err
	}
	if commonArgs.Url != "" {
		cfg.Chain.WalletUrl = commonArgs.Url
	}
	if commonArgs.Account != "" {
		if _, err := types.ParseAccountAddress(commonArgs.Account); err != nil {
			return nil, fmt.Errorf("account: %w", err)
		}
		cfg.Chain.Account = commonArgs.Account
	}

	logger := cmtlog.NewTMLogger(cmtlog.NewSyncWriter(os.Stderr))
	logger, err = cmtflags.ParseLogLevel(cfg.LogLevel, logger, config.DefaultLogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	client, err := chain.NewRPCClient(cfg.Chain.WalletUrl, logger)
	if err != nil {
		return nil, err
	}
	d, err := dao.NewDAO(cfg, tx.NewSerialCodec(), logger)
	if err != nil {
		return nil, err
	}
	e := &env{
		cfg:     cfg,
		logger:  logger,
		client:  client,
		dao:     d,
		sess:    &dao.Session{Client: client, Account: cfg.Chain.Account},
		watcher: watcher.NewWatcher(cfg.Watcher, logger),
	}
	if cfg.Journal.Enabled {
		if err := config.EnsureRoot(cfg.Home); err != nil {
			return nil, err
		}
		e.journal, err = journal.Open(cfg.JournalFile(), logger)
		if err != nil {
			return nil, err
		}
		d.SetRecorder(e.journal)
		e.watcher.SetRecorder(e.journal)
	}
	e.watcher.OnSuccess(e.refreshAfter)
	return e, nil
}

func (e *env) Close() {
	if e.journal != nil {
		e.journal.Close()
	}
}

func (e *env) refreshAfter(ctx context.Context, out *watcher.Outcome) {
	snap, err := e.dao.Refresh(ctx, e.sess)
	if err != nil {
		e.logger.Error("refresh fail", "err", err)
		return
	}
	e.logger.Info("refreshed", "proposals", len(snap.Proposals), "active", len(snap.Active()), "power", snap.Power)
}

// submitted prints hash and, when asked to, waits for its outcome.
func (e *env) submitted(ctx context.Context, hash types.TxHash, wait bool) error {
	fmt.Println(hash.String())
	if !wait {
		return nil
	}
	return e.wait(ctx, hash)
}

func (e *env) wait(ctx context.Context, hash types.TxHash) error {
	out, err := e.watcher.Wait(ctx, e.sess.Client, hash)
	if out != nil {
		fmt.Printf("%s %s\n", hash.String(), out.State)
	}
	return err
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", " ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(os.Stdout, "%s\n", out)
	return err
}
