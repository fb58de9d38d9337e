package dao

import (
	"errors"

	"github.com/calehh/charity-dao/tx"
)

var (
	ErrWrongNetwork = errors.New("wallet is not connected to the expected network")
	ErrInvokeFailed = errors.New("contract invoke failed")
	ErrNoSession    = errors.New("no wallet session")
	ErrDecode       = tx.ErrDecode
)

const (
	MsgWrongNetwork      = "Check if your wallet is connected to testnet!"
	MsgInvalidNumber     = "Please enter a valid number."
	MsgDescriptionNeeded = "Description is required"
	MsgAmountNeeded      = "Amount is required"
	MsgAmountNotNumber   = "Amount must be a number"
	MsgProposalNotFound  = "Proposal not found"
	MsgNotWithdrawable   = "Only the proposer of an approved proposal can withdraw"
)

// ValidationError is returned for form input rejected before anything is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
