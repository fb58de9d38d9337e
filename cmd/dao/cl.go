package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calehh/charity-dao/api"
	"github.com/calehh/charity-dao/types"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dao",
	Short: "Charity DAO client",
	Long: `Create proposals, donate, vote and collect funds on the charity DAO
contract through a connected wallet.`,
	SilenceUsage: true,
}

func init() {
	homeFlag(rootCmd, &commonArgs.Home)
	urlFlag(rootCmd, &commonArgs.Url)
	accountFlag(rootCmd, &commonArgs.Account)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

type serveArguments struct {
	ListenAddress string
}

var serveArgs serveArguments

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read API and settle pending transactions",
	Args:  cobra.NoArgs,
	RunE:  serveRun,
}

func init() {
	serveCmd.Flags().StringVarP(&serveArgs.ListenAddress, "listen", "l", "", "listen address, overrides api.listen_address")
}

func serveRun(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	listen := e.cfg.API.ListenAddress
	if serveArgs.ListenAddress != "" {
		listen = serveArgs.ListenAddress
	}

	ctx, cancel := signalContext()
	defer cancel()

	if e.journal != nil {
		go e.settleUnsettled(ctx)
	}

	svc := api.NewService(listen, e.dao, e.sess, e.journal)
	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.Start()
	}()
	e.logger.Info("api started", "listen", listen)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		e.logger.Info("shut down")
		return nil
	}
}

// settleUnsettled waits for every journal record left without an outcome.
func (e *env) settleUnsettled(ctx context.Context) {
	records, err := e.journal.Unsettled()
	if err != nil {
		e.logger.Error("load unsettled transactions fail", "err", err)
		return
	}
	for _, rec := range records {
		hash, err := types.ParseTxHash(rec.Hash)
		if err != nil {
			e.logger.Error("invalid journal hash", "hash", rec.Hash, "err", err)
			continue
		}
		if _, err := e.watcher.Wait(ctx, e.sess.Client, hash); err != nil {
			e.logger.Info("transaction not settled", "hash", rec.Hash, "err", err)
		}
		if ctx.Err() != nil {
			return
		}
	}
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-read active proposals and voting power periodically",
	Args:  cobra.NoArgs,
	RunE:  watchRun,
}

func watchRun(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := signalContext()
	defer cancel()

	interval := e.cfg.Watcher.RefreshInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		snap, err := e.dao.Refresh(ctx, e.sess)
		if err != nil {
			e.logger.Error("refresh fail", "err", err)
		} else if err := printJSON(snap.Active()); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
