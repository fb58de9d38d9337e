package main

import (
	"github.com/calehh/charity-dao/dao"
	"github.com/spf13/cobra"
)

type voteArguments struct {
	Proposal uint64
	Votes    string
	Wait     bool
}

var voteArgs voteArguments

var voteCmd = &cobra.Command{
	Use:   "vote",
	Short: "Put voting power behind a proposal",
	Args:  cobra.NoArgs,
	RunE:  voteRun,
}

func init() {
	voteCmd.Flags().Uint64VarP(&voteArgs.Proposal, "proposal", "p", 0, "proposal id")
	voteCmd.Flags().StringVarP(&voteArgs.Votes, "votes", "v", "", "vote weight, at most your power")
	waitFlag(voteCmd, &voteArgs.Wait)
}

func voteRun(cmd *cobra.Command, args []string) error {
	votes, err := dao.ParseVotes(voteArgs.Votes)
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

	hash, err := e.dao.Vote(ctx, e.sess, voteArgs.Proposal, votes)
	if err != nil {
		return err
	}
	return e.submitted(ctx, hash, voteArgs.Wait)
}

var renounceArgs voteArguments

var renounceCmd = &cobra.Command{
	Use:   "renounce",
	Short: "Take back votes from an active proposal",
	Args:  cobra.NoArgs,
	RunE:  renounceRun,
}

func init() {
	renounceCmd.Flags().Uint64VarP(&renounceArgs.Proposal, "proposal", "p", 0, "proposal id")
	renounceCmd.Flags().StringVarP(&renounceArgs.Votes, "votes", "v", "", "vote weight to take back")
	waitFlag(renounceCmd, &renounceArgs.Wait)
}

func renounceRun(cmd *cobra.Command, args []string) error {
	votes, err := dao.ParseVotes(renounceArgs.Votes)
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

	hash, err := e.dao.RenounceVotes(ctx, e.sess, renounceArgs.Proposal, votes)
	if err != nil {
		return err
	}
	return e.submitted(ctx, hash, renounceArgs.Wait)
}
