package main

import (
	"errors"

	"github.com/calehh/charity-dao/types"
	"github.com/spf13/cobra"
)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Follow submitted transactions",
}

var txWaitCmd = &cobra.Command{
	Use:   "wait <hash>",
	Short: "Wait for a transaction to finalize",
	Args:  cobra.ExactArgs(1),
	RunE:  txWaitRun,
}

type txListArguments struct {
	Sender   string
	Page     int
	PageSize int
}

var txListArgs txListArguments

var txListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions recorded in the journal",
	Args:  cobra.NoArgs,
	RunE:  txListRun,
}

func init() {
	txListCmd.Flags().StringVarP(&txListArgs.Sender, "sender", "s", "", "only transactions sent by this account")
	txListCmd.Flags().IntVarP(&txListArgs.Page, "page", "p", 0, "page, starting at 0")
	txListCmd.Flags().IntVarP(&txListArgs.PageSize, "pageSize", "n", 20, "page size")
	txCmd.AddCommand(txWaitCmd)
	txCmd.AddCommand(txListCmd)
}

func txWaitRun(cmd *cobra.Command, args []string) error {
	hash, err := types.ParseTxHash(args[0])
	if err != nil {
		return err
	}
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	ctx, cancel := signalContext()
	defer cancel()
	return e.wait(ctx, hash)
}

func txListRun(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	if e.journal == nil {
		return errors.New("journal is disabled in the configuration")
	}
	if txListArgs.PageSize <= 0 || txListArgs.Page < 0 {
		return errors.New("invalid page")
	}
	records, total, err := e.journal.List(txListArgs.Sender, txListArgs.Page, txListArgs.PageSize)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{
		"transactions": records,
		"total":        total,
	})
}
