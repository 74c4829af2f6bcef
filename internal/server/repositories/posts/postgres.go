// Package posts gives the user domain its one hook into the post domain:
// bulk approval of an uploader's pending submissions when they are granted
// Contributor.
package posts

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

// ApproveAllBy runs inside the invite workflow's transaction so the approval
// rolls back with the rest of the grant.
func (r *PostgresRepository) ApproveAllBy(ctx context.Context, ownerID int64) (int64, error) {
	query := `UPDATE posts SET status = 'active' WHERE owner_id = $1 AND status = 'pending'`
	res, err := r.db.ExecContext(ctx, query, ownerID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
