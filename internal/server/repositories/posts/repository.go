package posts

import "context"

// Repository is the narrow slice of the post domain the invite workflow
// touches.
type Repository interface {
	// ApproveAllBy flips every pending submission owned by the account to
	// active and returns how many it approved.
	ApproveAllBy(ctx context.Context, ownerID int64) (int64, error)
}
