package tx

import (
	"strconv"
)

type ContractAddress struct {
	Index    uint64 `json:"index"`
	Subindex uint64 `json:"subindex"`
}

func (c ContractAddress) String() string {
	return "<" + strconv.FormatUint(c.Index, 10) + "," + strconv.FormatUint(c.Subindex, 10) + ">"
}

// UpdatePayload is an update-contract transaction handed to the wallet for
// signing and submission. Parameter holds the already serialized parameter;
// Schema is forwarded untouched so the wallet can display it.
type UpdatePayload struct {
	Address                    ContractAddress `json:"address"`
	ReceiveName                string          `json:"receiveName"`
	Amount                     uint64          `json:"amount"`
	MaxContractExecutionEnergy uint64          `json:"maxContractExecutionEnergy"`
	Parameter                  []byte          `json:"parameter"`
	Schema                     string          `json:"schema"`
}

type CreateProposalParams struct {
	Description string `json:"description"`
	Amount      uint64 `json:"amount"`
}

type VoteParams struct {
	ProposalId uint64 `json:"proposal_id"`
	Votes      uint64 `json:"votes"`
}

type RenounceParams struct {
	ProposalId uint64 `json:"proposal_id"`
	Votes      uint64 `json:"votes"`
}

type WithdrawParams struct {
	ProposalId uint64 `json:"proposal_id"`
}

type GetPowerParams struct {
	Address string `json:"address"`
}
