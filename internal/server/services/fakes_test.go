package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dmitrijs2005/boardkeeper/internal/common"
	"github.com/dmitrijs2005/boardkeeper/internal/dbx"
	"github.com/dmitrijs2005/boardkeeper/internal/logging"
	"github.com/dmitrijs2005/boardkeeper/internal/server/config"
	"github.com/dmitrijs2005/boardkeeper/internal/server/levels"
	"github.com/dmitrijs2005/boardkeeper/internal/server/models"
	accountsrepo "github.com/dmitrijs2005/boardkeeper/internal/server/repositories/accounts"
	postsrepo "github.com/dmitrijs2005/boardkeeper/internal/server/repositories/posts"
	recordsrepo "github.com/dmitrijs2005/boardkeeper/internal/server/repositories/records"
	sessionlogrepo "github.com/dmitrijs2005/boardkeeper/internal/server/repositories/sessionlog"
)

// --- shared fakes ---

type grantCall struct {
	id        int64
	level     int
	invitedBy int64
}

type fakeAccountsRepo struct {
	nextID int64

	byNormalized map[string]*models.Account
	byNameAndKey map[string]*models.Account
	byID         map[int64]*models.Account

	count    int64
	countErr error

	createErr error
	created   []*models.Account

	updatedHashes map[int64]string
	updatedKeys   map[int64]string
	hashErr       error
	keyErr        error

	grants   []grantCall
	grantErr error

	decrements   []int64
	decrementErr error

	lastLogins   map[int64]time.Time
	lastLoginErr error
}

func newFakeAccountsRepo() *fakeAccountsRepo {
	return &fakeAccountsRepo{
		nextID:        100,
		byNormalized:  map[string]*models.Account{},
		byNameAndKey:  map[string]*models.Account{},
		byID:          map[int64]*models.Account{},
		updatedHashes: map[int64]string{},
		updatedKeys:   map[int64]string{},
		lastLogins:    map[int64]time.Time{},
	}
}

func (f *fakeAccountsRepo) add(a *models.Account) {
	f.byNormalized[a.NameNormalized] = a
	f.byID[a.ID] = a
	if a.APIKey != "" {
		f.byNameAndKey[a.Name+"|"+a.APIKey] = a
	}
}

func (f *fakeAccountsRepo) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	a.ID = f.nextID
	a.CreatedAt = time.Now()
	f.created = append(f.created, a)
	f.add(a)
	return a, nil
}

func (f *fakeAccountsRepo) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return a, nil
}

func (f *fakeAccountsRepo) GetByNameNormalized(ctx context.Context, name string) (*models.Account, error) {
	a, ok := f.byNormalized[name]
	if !ok {
		return nil, common.ErrNotFound
	}
	return a, nil
}

func (f *fakeAccountsRepo) GetByNameAndAPIKey(ctx context.Context, name, apiKey string) (*models.Account, error) {
	a, ok := f.byNameAndKey[name+"|"+apiKey]
	if !ok {
		return nil, common.ErrNotFound
	}
	return a, nil
}

func (f *fakeAccountsRepo) Count(ctx context.Context) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.count, nil
}

func (f *fakeAccountsRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	if f.hashErr != nil {
		return f.hashErr
	}
	f.updatedHashes[id] = hash
	return nil
}

func (f *fakeAccountsRepo) UpdateAPIKey(ctx context.Context, id int64, apiKey string) error {
	if f.keyErr != nil {
		return f.keyErr
	}
	f.updatedKeys[id] = apiKey
	return nil
}

func (f *fakeAccountsRepo) GrantInvitedLevel(ctx context.Context, id int64, level int, invitedBy int64) error {
	if f.grantErr != nil {
		return f.grantErr
	}
	f.grants = append(f.grants, grantCall{id: id, level: level, invitedBy: invitedBy})
	return nil
}

func (f *fakeAccountsRepo) DecrementInviteCount(ctx context.Context, id int64) error {
	if f.decrementErr != nil {
		return f.decrementErr
	}
	f.decrements = append(f.decrements, id)
	return nil
}

func (f *fakeAccountsRepo) UpdateLastLoggedInAt(ctx context.Context, id int64, at time.Time) error {
	if f.lastLoginErr != nil {
		return f.lastLoginErr
	}
	f.lastLogins[id] = at
	return nil
}

type upsertCall struct {
	accountID int64
	ipAddr    string
}

type fakeSessionLogRepo struct {
	upserts   []upsertCall
	upsertErr error

	purges   int
	purgeN   int64
	purgeErr error
}

func (f *fakeSessionLogRepo) Upsert(ctx context.Context, accountID int64, ipAddr string, now time.Time) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, upsertCall{accountID: accountID, ipAddr: ipAddr})
	return nil
}

func (f *fakeSessionLogRepo) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.purges++
	if f.purgeErr != nil {
		return 0, f.purgeErr
	}
	return f.purgeN, nil
}

type fakeRecordsRepo struct {
	flagged bool
	err     error
}

func (f *fakeRecordsRepo) HasNegativeReportedBy(ctx context.Context, accountID int64, minReporterLevel int) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.flagged, nil
}

type fakePostsRepo struct {
	approved []int64
	n        int64
	err      error
}

func (f *fakePostsRepo) ApproveAllBy(ctx context.Context, ownerID int64) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.approved = append(f.approved, ownerID)
	return f.n, nil
}

type fakeRepoManager struct {
	a *fakeAccountsRepo
	s *fakeSessionLogRepo
	r *fakeRecordsRepo
	p *fakePostsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		a: newFakeAccountsRepo(),
		s: &fakeSessionLogRepo{},
		r: &fakeRecordsRepo{},
		p: &fakePostsRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error        { return nil }
func (m *fakeRepoManager) Accounts(db dbx.DBTX) accountsrepo.Repository        { return m.a }
func (m *fakeRepoManager) SessionLogs(db dbx.DBTX) sessionlogrepo.Repository   { return m.s }
func (m *fakeRepoManager) Records(db dbx.DBTX) recordsrepo.Repository          { return m.r }
func (m *fakeRepoManager) Posts(db dbx.DBTX) postsrepo.Repository              { return m.p }

type fakeCache struct {
	entries map[string]any
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]any{}}
}

func (c *fakeCache) Get(key string) (any, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *fakeCache) Set(key string, value any, ttl time.Duration) {
	c.entries[key] = value
}

// --- shared helpers ---

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testLevelTable(t *testing.T) *levels.Table {
	t.Helper()
	table, err := levels.NewTable(levels.DefaultRanks())
	if err != nil {
		t.Fatalf("NewTable error: %v", err)
	}
	return table
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return cfg
}
