package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/boardkeeper/internal/dbx"
	"github.com/dmitrijs2005/boardkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/boardkeeper/internal/server/repositories/posts"
	"github.com/dmitrijs2005/boardkeeper/internal/server/repositories/records"
	"github.com/dmitrijs2005/boardkeeper/internal/server/repositories/sessionlog"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	SessionLogs(db dbx.DBTX) sessionlog.Repository
	Records(db dbx.DBTX) records.Repository
	Posts(db dbx.DBTX) posts.Repository
}
