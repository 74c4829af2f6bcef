// Package common defines shared constants and sentinel errors used across
// BoardKeeper components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrInternal = errors.New("internal error")

	// Level-table errors. An unknown level is a configuration or programming
	// error and should abort the operation that hits it.
	ErrUnknownLevel = errors.New("unknown level")

	// Account validation errors.
	ErrInvalidName       = errors.New("invalid name")
	ErrNameTaken         = errors.New("name already taken")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrMissingCredential = errors.New("missing credential")

	// Invite workflow errors, all user-facing and recoverable.
	ErrNoInvitesRemaining       = errors.New("no invites remaining")
	ErrInviteeNotFound          = errors.New("invitee not found")
	ErrInviteeHasNegativeRecord = errors.New("invitee has negative record")

	// Session token errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
