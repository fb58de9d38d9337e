package main

import (
	"github.com/calehh/charity-dao/types"
	"github.com/spf13/cobra"
)

type proposalsArguments struct {
	Status string
}

var proposalsArgs proposalsArguments

var proposalsCmd = &cobra.Command{
	Use:   "proposals",
	Short: "List proposals",
	Args:  cobra.NoArgs,
	RunE:  proposalsRun,
}

func init() {
	proposalsCmd.Flags().StringVarP(&proposalsArgs.Status, "status", "s", "All", "Active, Approved, Collected or All")
}

func proposalsRun(cmd *cobra.Command, args []string) error {
	filter := proposalsArgs.Status != "" && proposalsArgs.Status != "All"
	var status types.ProposalStatus
	if filter {
		var err error
		if status, err = types.ParseProposalStatus(proposalsArgs.Status); err != nil {
			return err
		}
	}
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	ctx, cancel := signalContext()
	defer cancel()

	proposals, err := e.dao.ListAllProposals(ctx, e.sess)
	if err != nil {
		return err
	}
	if filter {
		matched := proposals[:0]
		for _, p := range proposals {
			if p.Proposal.Status == status {
				matched = append(matched, p)
			}
		}
		proposals = matched
	}
	return printJSON(proposals)
}

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "List members and their voting power",
	Args:  cobra.NoArgs,
	RunE:  membersRun,
}

func membersRun(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	ctx, cancel := signalContext()
	defer cancel()

	members, err := e.dao.ListAllMembers(ctx, e.sess)
	if err != nil {
		return err
	}
	return printJSON(members)
}

type powerArguments struct {
	Address string
}

var powerArgs powerArguments

var powerCmd = &cobra.Command{
	Use:   "power",
	Short: "Show the voting power of an account",
	Args:  cobra.NoArgs,
	RunE:  powerRun,
}

func init() {
	powerCmd.Flags().StringVarP(&powerArgs.Address, "address", "", "", "account to look up (default the sender)")
}

func powerRun(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	ctx, cancel := signalContext()
	defer cancel()

	address := powerArgs.Address
	if address == "" {
		address = e.sess.Account
	}
	power, found, err := e.dao.GetPower(ctx, e.sess, address)
	if err != nil {
		return err
	}
	if !found {
		return printJSON(struct {
			Address string `json:"address"`
			Member  bool   `json:"member"`
		}{address, false})
	}
	return printJSON(types.Member{Address: address, Power: power})
}
