// Package accounts provides the PostgreSQL-backed repository for account
// rows, including the credential and invite fields the auth core mutates.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/boardkeeper/internal/common"
	"github.com/dmitrijs2005/boardkeeper/internal/dbx"
	"github.com/dmitrijs2005/boardkeeper/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `id, name, name_normalized, password_hash, api_key, level, invite_count, invited_by, pending_email, last_logged_in_at, created_at`

func scanAccount(row *sql.Row) (*models.Account, error) {
	a := &models.Account{}
	var apiKey, pendingEmail sql.NullString
	var invitedBy sql.NullInt64
	var lastLoggedInAt sql.NullTime

	err := row.Scan(&a.ID, &a.Name, &a.NameNormalized, &a.PasswordHash, &apiKey,
		&a.Level, &a.InviteCount, &invitedBy, &pendingEmail, &lastLoggedInAt, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	a.APIKey = apiKey.String
	a.PendingEmail = pendingEmail.String
	if invitedBy.Valid {
		a.InvitedBy = &invitedBy.Int64
	}
	if lastLoggedInAt.Valid {
		t := lastLoggedInAt.Time
		a.LastLoggedInAt = &t
	}
	return a, nil
}

// Create inserts a new account row. A duplicate normalized name yields
// common.ErrNameTaken.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (name, name_normalized, password_hash, level, invite_count)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		account.Name, account.NameNormalized, account.PasswordHash,
		account.Level, account.InviteCount).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrNameTaken
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return account, nil
}

// GetByID returns the account with the given id, or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

// GetByNameNormalized looks an account up by its lowercase shadow name.
func (r *PostgresRepository) GetByNameNormalized(ctx context.Context, name string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE name_normalized = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, name))
}

// GetByNameAndAPIKey performs the exact-match (name, api_key) credential
// lookup. The key is compared in the database, not hashed.
func (r *PostgresRepository) GetByNameAndAPIKey(ctx context.Context, name, apiKey string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE name = $1 AND api_key = $2`
	return scanAccount(r.db.QueryRowContext(ctx, query, name, apiKey))
}

// Count returns the total number of accounts. Creation uses it for the
// first-account bootstrap decision.
func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// UpdatePasswordHash overwrites the stored password hash.
func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	query := `UPDATE accounts SET password_hash = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, hash); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// UpdateAPIKey overwrites the stored API key, invalidating the previous one.
func (r *PostgresRepository) UpdateAPIKey(ctx context.Context, id int64, apiKey string) error {
	query := `UPDATE accounts SET api_key = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, apiKey); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GrantInvitedLevel sets the invitee's level and back-reference in one
// statement; it runs inside the invite workflow's transaction.
func (r *PostgresRepository) GrantInvitedLevel(ctx context.Context, id int64, level int, invitedBy int64) error {
	query := `UPDATE accounts SET level = $2, invited_by = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, level, invitedBy)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// DecrementInviteCount consumes one invite. The predicate keeps the balance
// from going negative; zero affected rows means the balance was already
// spent and surfaces as common.ErrNoInvitesRemaining.
func (r *PostgresRepository) DecrementInviteCount(ctx context.Context, id int64) error {
	query := `UPDATE accounts SET invite_count = invite_count - 1 WHERE id = $1 AND invite_count > 0`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNoInvitesRemaining
	}
	return nil
}

// UpdateLastLoggedInAt stamps the account's most recent login time.
func (r *PostgresRepository) UpdateLastLoggedInAt(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE accounts SET last_logged_in_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, at); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
