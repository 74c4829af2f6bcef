package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/boardkeeper/internal/cachex"
	"github.com/dmitrijs2005/boardkeeper/internal/common"
	"github.com/dmitrijs2005/boardkeeper/internal/logging"
	"github.com/dmitrijs2005/boardkeeper/internal/server/models"
	"github.com/dmitrijs2005/boardkeeper/internal/server/repositories/repomanager"
)

// purgeMarkerKey marks that a purge sweep already ran within the current
// throttle window. Races on the marker are harmless: the worst case is one
// redundant purge query.
const purgeMarkerKey = "session_log:purged"

// SessionLogService records login events and prunes stale log entries.
type SessionLogService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	cache         cachex.Cache
	logger        logging.Logger
	retention     time.Duration
	purgeInterval time.Duration
}

// NewSessionLogService constructs a SessionLogService.
func NewSessionLogService(db *sql.DB, m repomanager.RepositoryManager, cache cachex.Cache, logger logging.Logger, retention, purgeInterval time.Duration) *SessionLogService {
	return &SessionLogService{
		db:            db,
		repomanager:   m,
		cache:         cache,
		logger:        logger,
		retention:     retention,
		purgeInterval: purgeInterval,
	}
}

// RecordLogin is invoked after each successful authentication. It
// opportunistically purges stale entries (at most once per throttle
// window), touches the (account, address) log entry, and stamps the
// account's last_logged_in_at.
//
// Concurrent logins from the same new address can race on the entry's
// uniqueness constraint; the loser's insert is dropped without surfacing
// anything, since either writer's timestamp is acceptably "now".
func (s *SessionLogService) RecordLogin(ctx context.Context, account *models.Account, address string) error {
	s.purgeIfDue(ctx)

	now := time.Now()
	repo := s.repomanager.SessionLogs(s.db)
	if err := repo.Upsert(ctx, account.ID, address, now); err != nil {
		if !errors.Is(err, common.ErrAlreadyExists) {
			return fmt.Errorf("error recording login: %w", err)
		}
		s.logger.Warn(ctx, "concurrent login created session log first", "account", account.ID, "address", address)
	}

	if err := s.repomanager.Accounts(s.db).UpdateLastLoggedInAt(ctx, account.ID, now); err != nil {
		return fmt.Errorf("error updating last login: %w", err)
	}
	account.LastLoggedInAt = &now
	return nil
}

// PurgeStale runs the retention sweep, still gated by the throttle marker.
// The maintenance loop calls this so pruning happens even on instances that
// see no logins.
func (s *SessionLogService) PurgeStale(ctx context.Context) {
	s.purgeIfDue(ctx)
}

// purgeIfDue deletes entries older than the retention window unless a sweep
// already ran within the throttle window. Purge failures are logged, never
// propagated: a missed sweep only delays cleanup.
func (s *SessionLogService) purgeIfDue(ctx context.Context) {
	if _, ok := s.cache.Get(purgeMarkerKey); ok {
		return
	}
	s.cache.Set(purgeMarkerKey, true, s.purgeInterval)

	cutoff := time.Now().Add(-s.retention)
	n, err := s.repomanager.SessionLogs(s.db).PurgeOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Warn(ctx, "session log purge failed", "error", err.Error())
		return
	}
	if n > 0 {
		s.logger.Info(ctx, "purged stale session logs", "count", n)
	}
}
