// internal/domain/selection/repository.go
package selection

import "context"

// StatusRepository persists the per-user selection status rows.
type StatusRepository interface {
	// SetStatus creates the row if absent and moves it to status.
	SetStatus(ctx context.Context, userID int64, status Status) error
	// Get returns the row, or database.ErrStatusNotFound if the user is unknown.
	Get(ctx context.Context, userID int64) (*Record, error)
	// MarkStartedPM creates the row if absent and raises the started_pm flag.
	MarkStartedPM(ctx context.Context, userID int64) error
	// Delete removes the row entirely (admin reset).
	Delete(ctx context.Context, userID int64) error
}

// OutcomeRepository persists the two disjoint terminal outcome tables.
type OutcomeRepository interface {
	RecordPassed(ctx context.Context, rec *PassedRecord) error
	RecordFailed(ctx context.Context, rec *FailedRecord) error
	// DeleteFailed removes a Failed row so the user may reapply (admin reset).
	DeleteFailed(ctx context.Context, userID int64) error
}
