package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/boardkeeper/internal/common"
	"github.com/dmitrijs2005/boardkeeper/internal/dbx"
	"github.com/dmitrijs2005/boardkeeper/internal/logging"
	"github.com/dmitrijs2005/boardkeeper/internal/server/levels"
	"github.com/dmitrijs2005/boardkeeper/internal/server/models"
	"github.com/dmitrijs2005/boardkeeper/internal/server/repositories/repomanager"
)

// InviteService transfers privilege from an inviter to an invitee, consuming
// one unit of the inviter's invite balance per grant.
type InviteService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	table           *levels.Table
	logger          logging.Logger
	contributorRank int
	modRank         int
	adminRank       int
}

// NewInviteService resolves the ranks the workflow compares against up
// front, failing fast on a level table that lacks them.
func NewInviteService(db *sql.DB, m repomanager.RepositoryManager, table *levels.Table, logger logging.Logger) (*InviteService, error) {
	contributorRank, err := table.RankOf(levels.Contributor)
	if err != nil {
		return nil, err
	}
	modRank, err := table.RankOf(levels.Mod)
	if err != nil {
		return nil, err
	}
	adminRank, err := table.RankOf(levels.Admin)
	if err != nil {
		return nil, err
	}
	return &InviteService{
		db:              db,
		repomanager:     m,
		table:           table,
		logger:          logger,
		contributorRank: contributorRank,
		modRank:         modRank,
		adminRank:       adminRank,
	}, nil
}

// Invite grants levelName to the account named inviteeName on behalf of
// inviter.
//
// Preconditions, checked in order: the inviter must have invites remaining;
// the invitee must exist; an invitee with a standing negative record filed
// by a moderator-or-higher reporter is refused unless the inviter is an
// Admin. The requested level is capped at Contributor; invites can never
// grant moderator or above.
//
// The grant itself is one transaction: when the granted level is exactly
// Contributor, every pending submission owned by the inviter is approved;
// the invitee's level and back-reference are set; the inviter's balance is
// decremented. Any failure rolls the whole body back, including a balance
// that was spent concurrently since the precondition check.
func (s *InviteService) Invite(ctx context.Context, inviter *models.Account, inviteeName, levelName string) (*models.Account, error) {
	if inviter.InviteCount <= 0 {
		return nil, common.ErrNoInvitesRemaining
	}

	rank, err := s.table.RankOf(levelName)
	if err != nil {
		return nil, err
	}
	if rank >= s.contributorRank {
		rank = s.contributorRank
	}

	repo := s.repomanager.Accounts(s.db)
	invitee, err := repo.GetByNameNormalized(ctx, models.NormalizeName(inviteeName))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInviteeNotFound
		}
		return nil, fmt.Errorf("error resolving invitee: %w", err)
	}

	if inviter.Level < s.adminRank {
		flagged, err := s.repomanager.Records(s.db).HasNegativeReportedBy(ctx, invitee.ID, s.modRank)
		if err != nil {
			return nil, fmt.Errorf("error checking records: %w", err)
		}
		if flagged {
			return nil, common.ErrInviteeHasNegativeRecord
		}
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if rank == s.contributorRank {
			n, err := s.repomanager.Posts(tx).ApproveAllBy(ctx, inviter.ID)
			if err != nil {
				return err
			}
			if n > 0 {
				s.logger.Info(ctx, "approved pending submissions", "inviter", inviter.ID, "count", n)
			}
		}
		accountsTx := s.repomanager.Accounts(tx)
		if err := accountsTx.GrantInvitedLevel(ctx, invitee.ID, rank, inviter.ID); err != nil {
			return err
		}
		return accountsTx.DecrementInviteCount(ctx, inviter.ID)
	})
	if err != nil {
		if errors.Is(err, common.ErrNoInvitesRemaining) {
			return nil, common.ErrNoInvitesRemaining
		}
		return nil, fmt.Errorf("error applying invite: %w", err)
	}

	inviter.InviteCount--
	invitee.Level = rank
	invitedBy := inviter.ID
	invitee.InvitedBy = &invitedBy

	s.logger.Info(ctx, "invite granted", "inviter", inviter.ID, "invitee", invitee.ID, "level", rank)
	return invitee, nil
}
