// Package sessionlog provides the PostgreSQL-backed repository for session
// log entries, keyed by (account, originating address).
package sessionlog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/boardkeeper/internal/common"
	"github.com/dmitrijs2005/boardkeeper/internal/dbx"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert touches the entry for (accountID, ipAddr), creating it if absent.
// Find-or-create is deliberate: under concurrent logins from the same
// address the insert can lose the race on the uniqueness constraint, which
// surfaces as common.ErrAlreadyExists for the caller to swallow. Either
// writer's timestamp is acceptably "now".
func (r *PostgresRepository) Upsert(ctx context.Context, accountID int64, ipAddr string, now time.Time) error {
	update := `
		UPDATE session_logs SET updated_at = $3
		WHERE account_id = $1 AND ip_addr = $2
	`
	res, err := r.db.ExecContext(ctx, update, accountID, ipAddr, now)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n > 0 {
		return nil
	}

	insert := `
		INSERT INTO session_logs (id, account_id, ip_addr, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
	`
	if _, err := r.db.ExecContext(ctx, insert, uuid.New(), accountID, ipAddr, now); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// PurgeOlderThan bulk-deletes entries last touched before cutoff and returns
// how many rows went away.
func (r *PostgresRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM session_logs WHERE updated_at < $1`
	res, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
