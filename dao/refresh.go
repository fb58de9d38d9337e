package dao

import (
	"context"

	"github.com/calehh/charity-dao/types"
	"golang.org/x/sync/errgroup"
)

// Snapshot is one consistent read of the contract for the session account.
type Snapshot struct {
	Proposals []types.ProposalEntry
	Members   []types.Member
	Power     uint64
	Found     bool
}

func (s *Snapshot) Active() []types.ProposalEntry {
	return ActiveProposals(s.Proposals)
}

// Refresh reads proposals and members concurrently.
func (d *DAO) Refresh(ctx context.Context, sess *Session) (*Snapshot, error) {
	if err := sess.valid(); err != nil {
		return nil, err
	}
	snap := &Snapshot{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		proposals, err := d.ListAllProposals(gctx, sess)
		if err != nil {
			return err
		}
		snap.Proposals = proposals
		return nil
	})
	g.Go(func() error {
		members, err := d.ListAllMembers(gctx, sess)
		if err != nil {
			return err
		}
		snap.Members = members
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	snap.Power, snap.Found = Power(snap.Members, sess.Account)
	d.logger.Debug("refreshed", "proposals", len(snap.Proposals), "members", len(snap.Members))
	return snap, nil
}
