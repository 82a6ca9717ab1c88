// internal/domain/selection/outcome.go
package selection

import "time"

// PassedRecord is the terminal outcome for an approved applicant.
// At most one current row per user; a later decision overwrites.
type PassedRecord struct {
	UserID       int64
	ProfileLink  string
	ProgramLabel string
	ApprovedAt   time.Time
}

// FailedRecord is the terminal outcome for a rejected applicant.
type FailedRecord struct {
	UserID          int64
	ProfileLink     string
	ProgramLabel    string
	RejectionReason string
	RejectedAt      time.Time
}
