package main

import (
	"github.com/calehh/charity-dao/dao"
	"github.com/spf13/cobra"
)

type proposalArguments struct {
	Description string
	Amount      string
	Wait        bool
}

var proposalArgs proposalArguments

var proposalCmd = &cobra.Command{
	Use:   "propose",
	Short: "Create a proposal asking the treasury for an amount",
	Args:  cobra.NoArgs,
	RunE:  proposalRun,
}

func init() {
	proposalCmd.Flags().StringVarP(&proposalArgs.Description, "description", "m", "", "what the funds are for")
	proposalCmd.Flags().StringVarP(&proposalArgs.Amount, "amount", "n", "", "requested amount")
	waitFlag(proposalCmd, &proposalArgs.Wait)
}

func proposalRun(cmd *cobra.Command, args []string) error {
	amount, err := dao.ValidateProposalForm(proposalArgs.Description, proposalArgs.Amount)
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

	hash, err := e.dao.CreateProposal(ctx, e.sess, proposalArgs.Description, amount)
	if err != nil {
		return err
	}
	return e.submitted(ctx, hash, proposalArgs.Wait)
}
