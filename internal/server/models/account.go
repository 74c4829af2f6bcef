// Package models contains the server-side data model for the user domain:
// accounts, their credentials and authorization fields, and session logs.
package models

import (
	"strings"
	"time"
)

// Account is a registered user identity.
//
// Credential fields: PasswordHash holds the derived hash, never the raw
// password. APIKey is a random URL-safe token, empty until first issued;
// regenerating it immediately invalidates the previous key.
//
// Authorization fields: Level is an integer rank from the configured level
// table (higher is more privileged). InviteCount is the consumable balance
// of invites the account may grant and never goes negative. InvitedBy points
// back at the inviting account, if any.
type Account struct {
	ID             int64
	Name           string
	NameNormalized string
	PasswordHash   string
	APIKey         string
	Level          int
	InviteCount    int
	InvitedBy      *int64
	PendingEmail   string
	LastLoggedInAt *time.Time
	CreatedAt      time.Time
}

// SetName updates Name and recomputes NameNormalized, keeping the invariant
// that NameNormalized is always the lowercase shadow of Name.
func (a *Account) SetName(name string) {
	a.Name = name
	a.NameNormalized = NormalizeName(name)
}

// NormalizeName lowercases a display name for case-insensitive lookup.
func NormalizeName(name string) string {
	return strings.ToLower(name)
}
