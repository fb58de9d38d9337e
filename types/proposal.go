package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

type Proposal struct {
	Proposer     string         `json:"proposer"`
	Description  string         `json:"description"`
	Amount       string         `json:"amount"`
	Votes        uint64         `json:"votes"`
	Contributers []Contribution `json:"contributers"`
	Status       ProposalStatus `json:"status"`
}

// Contribution is the weight a single voter currently has on a proposal.
type Contribution struct {
	Address string `json:"address"`
	Votes   uint64 `json:"votes"`
}

// ProposalEntry pairs a proposal with its on-chain identifier.
type ProposalEntry struct {
	Id       uint64   `json:"id"`
	Proposal Proposal `json:"proposal"`
}

type Member struct {
	Address string `json:"address"`
	Power   uint64 `json:"power"`
}

type ProposalStatus uint8

const (
	ProposalStatusActive    ProposalStatus = 0
	ProposalStatusApproved  ProposalStatus = 1
	ProposalStatusCollected ProposalStatus = 2
)

var ErrInvalidStatus = errors.New("invalid proposal status")

var proposalStatusNames = map[ProposalStatus]string{
	ProposalStatusActive:    "Active",
	ProposalStatusApproved:  "Approved",
	ProposalStatusCollected: "Collected",
}

func (s ProposalStatus) Valid() bool {
	_, ok := proposalStatusNames[s]
	return ok
}

func (s ProposalStatus) String() string {
	if name, ok := proposalStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ProposalStatus(%d)", uint8(s))
}

func ParseProposalStatus(name string) (ProposalStatus, error) {
	for s, n := range proposalStatusNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, name)
}

// MarshalJSON renders the status as a single-key object with an empty payload,
// e.g. {"Active":[]}, the shape the contract schema produces.
func (s ProposalStatus) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, uint8(s))
	}
	return json.Marshal(map[string][]any{s.String(): {}})
}

func (s *ProposalStatus) UnmarshalJSON(dat []byte) error {
	var tags map[string]json.RawMessage
	if err := json.Unmarshal(dat, &tags); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}
	if len(tags) != 1 {
		return fmt.Errorf("%w: expected exactly one tag, got %d", ErrInvalidStatus, len(tags))
	}
	for name := range tags {
		st, err := ParseProposalStatus(name)
		if err != nil {
			return err
		}
		*s = st
	}
	return nil
}
