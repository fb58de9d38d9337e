package main

import (
	"github.com/calehh/charity-dao/dao"
	"github.com/spf13/cobra"
)

type insertArguments struct {
	Amount string
	Wait   bool
}

var insertArgs insertArguments

var insertCmd = &cobra.Command{
	Use:   "insert",
	Short: "Donate to the treasury and gain the same voting power",
	Args:  cobra.NoArgs,
	RunE:  insertRun,
}

func init() {
	insertCmd.Flags().StringVarP(&insertArgs.Amount, "amount", "n", "", "amount to donate")
	waitFlag(insertCmd, &insertArgs.Wait)
}

func insertRun(cmd *cobra.Command, args []string) error {
	amount, err := dao.ValidateAmount(insertArgs.Amount)
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

	hash, err := e.dao.InsertFunds(ctx, e.sess, amount)
	if err != nil {
		return err
	}
	return e.submitted(ctx, hash, insertArgs.Wait)
}

type withdrawArguments struct {
	Proposal uint64
	Wait     bool
}

var withdrawArgs withdrawArguments

var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Collect the amount of an approved proposal",
	Args:  cobra.NoArgs,
	RunE:  withdrawRun,
}

func init() {
	withdrawCmd.Flags().Uint64VarP(&withdrawArgs.Proposal, "proposal", "p", 0, "proposal id")
	waitFlag(withdrawCmd, &withdrawArgs.Wait)
}

func withdrawRun(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	ctx, cancel := signalContext()
	defer cancel()

	hash, err := e.dao.Withdraw(ctx, e.sess, withdrawArgs.Proposal)
	if err != nil {
		return err
	}
	return e.submitted(ctx, hash, withdrawArgs.Wait)
}
