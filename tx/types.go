package tx

import (
	"errors"
)

type Entrypoint string

const (
	EntrypointCreateProposal Entrypoint = "create_proposal"
	EntrypointInsert         Entrypoint = "insert"
	EntrypointVote           Entrypoint = "vote"
	EntrypointRenounce       Entrypoint = "renounce"
	EntrypointWithdraw       Entrypoint = "withdraw"

	EntrypointAllProposals Entrypoint = "all_proposals"
	EntrypointAllMembers   Entrypoint = "all_members"
	EntrypointGetPower     Entrypoint = "get_power"
)

type CallKind uint8

const (
	CallKindUnknown CallKind = 0
	CallKindUpdate  CallKind = 1
	CallKindView    CallKind = 2
)

// callKinds is the contract call surface. Only update calls change state and
// need a transaction; views are invoked without one.
var callKinds = map[Entrypoint]CallKind{
	EntrypointCreateProposal: CallKindUpdate,
	EntrypointInsert:         CallKindUpdate,
	EntrypointVote:           CallKindUpdate,
	EntrypointRenounce:       CallKindUpdate,
	EntrypointWithdraw:       CallKindUpdate,
	EntrypointAllProposals:   CallKindView,
	EntrypointAllMembers:     CallKindView,
	EntrypointGetPower:       CallKindView,
}

func (e Entrypoint) Kind() CallKind {
	return callKinds[e]
}

// ReceiveName is the fully qualified name the chain dispatches on, e.g. "DAO.vote".
func (e Entrypoint) ReceiveName(contractName string) string {
	return contractName + "." + string(e)
}

func (e Entrypoint) String() string {
	return string(e)
}

const (
	DefaultMaxContractExecutionEnergy uint64 = 30000
	DefaultContractName                      = "DAO"
)

var (
	ErrUnsupportedEntrypoint = errors.New("unsupported entrypoint")
	ErrUnmatchedParameter    = errors.New("unmatched parameter type")
	ErrDecode                = errors.New("decode return value")
	ErrEncode                = errors.New("encode parameter")
)
