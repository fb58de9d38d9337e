package dao

import (
	"strconv"
	"strings"

	"github.com/calehh/charity-dao/types"
)

// ValidateProposalForm checks the create proposal form and returns the parsed amount.
func ValidateProposalForm(description, amount string) (uint64, error) {
	if strings.TrimSpace(description) == "" {
		return 0, invalid("description", MsgDescriptionNeeded)
	}
	return ValidateAmount(amount)
}

// ValidateAmount parses a CCD amount typed by the user.
func ValidateAmount(amount string) (uint64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, invalid("amount", MsgAmountNeeded)
	}
	v, err := strconv.ParseUint(amount, 10, 64)
	if err != nil {
		return 0, invalid("amount", MsgAmountNotNumber)
	}
	return v, nil
}

// ValidateVotes accepts 1 <= votes <= power.
func ValidateVotes(votes, power uint64) error {
	if votes < 1 || votes > power {
		return invalid("votes", MsgInvalidNumber)
	}
	return nil
}

func ValidateRenounce(votes uint64) error {
	if votes < 1 {
		return invalid("votes", MsgInvalidNumber)
	}
	return nil
}

// ValidateWithdraw accepts an approved proposal whose proposer is account.
func ValidateWithdraw(p *types.Proposal, account string) error {
	if p.Proposer != account || p.Status != types.ProposalStatusApproved {
		return invalid("proposal", MsgNotWithdrawable)
	}
	return nil
}

// ParseVotes parses a vote weight typed by the user.
func ParseVotes(s string) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, invalid("votes", MsgInvalidNumber)
	}
	return v, nil
}
