// Package records provides the negative-record registry: moderator-filed
// marks against accounts that gate trust-sensitive operations like receiving
// invites.
package records

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/boardkeeper/internal/dbx"
)

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// HasNegativeReportedBy joins records against accounts so only reporters who
// currently hold minReporterLevel or above count.
func (r *PostgresRepository) HasNegativeReportedBy(ctx context.Context, accountID int64, minReporterLevel int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM account_records ar
			JOIN accounts a ON a.id = ar.reported_by
			WHERE ar.account_id = $1 AND ar.is_negative AND a.level >= $2
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, accountID, minReporterLevel).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}
