package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionLogEntry records the most recent login of one (account, address)
// pair. Entries are upserted on each successful authentication and purged in
// bulk once they fall outside the retention window. They are cascade-deleted
// with their account.
type SessionLogEntry struct {
	ID        uuid.UUID
	AccountID int64
	IPAddr    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
