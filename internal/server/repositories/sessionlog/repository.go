package sessionlog

import (
	"context"
	"time"
)

type Repository interface {
	Upsert(ctx context.Context, accountID int64, ipAddr string, now time.Time) error
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
