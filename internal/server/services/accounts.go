// Package services contains server-side business logic for the user domain:
// account lifecycle and authentication, the invite workflow, and session
// logging.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dmitrijs2005/boardkeeper/internal/common"
	"github.com/dmitrijs2005/boardkeeper/internal/logging"
	"github.com/dmitrijs2005/boardkeeper/internal/server/auth"
	"github.com/dmitrijs2005/boardkeeper/internal/server/config"
	"github.com/dmitrijs2005/boardkeeper/internal/server/levels"
	"github.com/dmitrijs2005/boardkeeper/internal/server/models"
	"github.com/dmitrijs2005/boardkeeper/internal/server/repositories/repomanager"
)

// nameFormat: 2-20 chars, no whitespace, comma or semicolon.
var nameFormat = regexp.MustCompile(`^[^\s,;]{2,20}$`)

// AccountService provides account creation and authentication:
//   - Create: register accounts and assign their initial level
//   - AuthenticateByPassword / AuthenticateByAPIKey: credential checks
//   - IssueAPIKey / ResetPassword / ChangePassword: credential management
//   - IssueSessionToken / AccountFromSessionToken: signed cookie tokens
type AccountService struct {
	db                   *sql.DB
	repomanager          repomanager.RepositoryManager
	hasher               *auth.Hasher
	table                *levels.Table
	logger               logging.Logger
	startingLevel        string
	activationRequired   bool
	sessionTokenSecret   []byte
	sessionTokenValidity time.Duration
}

// NewAccountService constructs an AccountService using repositories and
// server config.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, table *levels.Table, cfg *config.Config, logger logging.Logger) *AccountService {
	return &AccountService{
		db:                   db,
		repomanager:          m,
		hasher:               auth.NewHasher(cfg.PasswordSalt, cfg.UseBcryptForNewPasswords),
		table:                table,
		logger:               logger,
		startingLevel:        cfg.StartingLevelName,
		activationRequired:   cfg.EnableAccountEmailActivation,
		sessionTokenSecret:   []byte(cfg.SessionTokenSecret),
		sessionTokenValidity: cfg.SessionTokenValidityDuration,
	}
}

// Create registers a new account. The very first account in the system
// becomes Admin; later accounts start Unactivated when email activation is
// enabled, and at the configured starting level otherwise.
func (s *AccountService) Create(ctx context.Context, name, password string) (*models.Account, error) {
	if !nameFormat.MatchString(name) {
		return nil, common.ErrInvalidName
	}

	repo := s.repomanager.Accounts(s.db)

	count, err := repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting accounts: %w", err)
	}

	level, err := s.table.InitialLevel(count == 0, s.activationRequired, s.startingLevel)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, common.ErrInternal
	}

	account := &models.Account{PasswordHash: hash, Level: level}
	account.SetName(name)

	created, err := repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrNameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}
	s.logger.Info(ctx, "account created", "id", created.ID, "level", created.Level)
	return created, nil
}

// AuthenticateByPassword verifies a (name, password) pair. Name lookup is
// case-insensitive. All failures collapse into common.ErrNotFound so callers
// cannot distinguish a wrong password from an unknown name.
func (s *AccountService) AuthenticateByPassword(ctx context.Context, name, password string) (*models.Account, error) {
	if !nameFormat.MatchString(name) {
		return nil, common.ErrNotFound
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByNameNormalized(ctx, models.NormalizeName(name))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}

	if !s.hasher.Verify(account.PasswordHash, password) {
		return nil, common.ErrNotFound
	}
	return account, nil
}

// AuthenticateByAPIKey verifies a (name, api key) pair by exact match. The
// key itself is the stored credential token; it is not hashed at rest, which
// makes this weaker than password auth.
func (s *AccountService) AuthenticateByAPIKey(ctx context.Context, name, apiKey string) (*models.Account, error) {
	if !nameFormat.MatchString(name) || apiKey == "" {
		return nil, common.ErrNotFound
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByNameAndAPIKey(ctx, name, apiKey)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}
	return account, nil
}

// IssueAPIKey generates a fresh random key and overwrites the stored one,
// invalidating any previously issued key immediately.
func (s *AccountService) IssueAPIKey(ctx context.Context, account *models.Account) (*models.Account, error) {
	key, err := auth.GenerateAPIKey()
	if err != nil {
		return nil, common.ErrInternal
	}

	repo := s.repomanager.Accounts(s.db)
	if err := repo.UpdateAPIKey(ctx, account.ID, key); err != nil {
		return nil, fmt.Errorf("error storing api key: %w", err)
	}
	account.APIKey = key
	return account, nil
}

// ResetPassword stores the hash of a freshly generated pronounceable
// password and returns the plaintext once, for out-of-band delivery. The
// plaintext is never persisted.
func (s *AccountService) ResetPassword(ctx context.Context, account *models.Account) (string, error) {
	password, err := auth.GenerateResetPassword()
	if err != nil {
		return "", common.ErrInternal
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", common.ErrInternal
	}

	repo := s.repomanager.Accounts(s.db)
	if err := repo.UpdatePasswordHash(ctx, account.ID, hash); err != nil {
		return "", fmt.Errorf("error storing password hash: %w", err)
	}
	account.PasswordHash = hash
	return password, nil
}

// ChangePassword sets a new password. The current password must be
// re-supplied unless no hash exists yet (first-time set) or an unconfirmed
// email change is in progress. Omitting it when required yields
// ErrMissingCredential; supplying a wrong one yields ErrInvalidCredential.
func (s *AccountService) ChangePassword(ctx context.Context, account *models.Account, currentPassword, newPassword string) error {
	required := account.PasswordHash != "" && account.PendingEmail == ""
	if required {
		if currentPassword == "" {
			return common.ErrMissingCredential
		}
		if !s.hasher.Verify(account.PasswordHash, currentPassword) {
			return common.ErrInvalidCredential
		}
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return common.ErrInternal
	}

	repo := s.repomanager.Accounts(s.db)
	if err := repo.UpdatePasswordHash(ctx, account.ID, hash); err != nil {
		return fmt.Errorf("error storing password hash: %w", err)
	}
	account.PasswordHash = hash
	return nil
}

// IssueSessionToken mints a signed token for an authenticated account.
func (s *AccountService) IssueSessionToken(account *models.Account) (string, error) {
	return auth.GenerateSessionToken(account.ID, s.sessionTokenSecret, s.sessionTokenValidity)
}

// AccountFromSessionToken resolves a session token back to its account.
func (s *AccountService) AccountFromSessionToken(ctx context.Context, token string) (*models.Account, error) {
	id, err := auth.AccountIDFromSessionToken(token, s.sessionTokenSecret)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}
	return account, nil
}
