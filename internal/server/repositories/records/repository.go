package records

import "context"

// Repository answers trust queries against moderation records.
type Repository interface {
	// HasNegativeReportedBy reports whether the account has a standing
	// negative record filed by a reporter of at least minReporterLevel.
	HasNegativeReportedBy(ctx context.Context, accountID int64, minReporterLevel int) (bool, error)
}
