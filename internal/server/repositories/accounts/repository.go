package accounts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/boardkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	GetByNameNormalized(ctx context.Context, name string) (*models.Account, error)
	GetByNameAndAPIKey(ctx context.Context, name, apiKey string) (*models.Account, error)
	Count(ctx context.Context) (int64, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	UpdateAPIKey(ctx context.Context, id int64, apiKey string) error
	GrantInvitedLevel(ctx context.Context, id int64, level int, invitedBy int64) error
	DecrementInviteCount(ctx context.Context, id int64) error
	UpdateLastLoggedInAt(ctx context.Context, id int64, at time.Time) error
}
