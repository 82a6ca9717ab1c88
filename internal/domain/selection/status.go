// internal/domain/selection/status.go
package selection

import "time"

// Status is the persisted stage of a user's selection process.
// Corresponds to the 'selection_statuses' table.
type Status string

const (
	StatusUnknown      Status = "unknown"
	StatusPending      Status = "pending"
	StatusStarted      Status = "started"
	StatusPassed       Status = "passed"
	StatusFailed       Status = "failed"
	StatusInactiveKick Status = "inactive_kick"
	StatusErrorSend    Status = "error_send"
)

// Terminal reports whether no further automatic transition happens from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusInactiveKick, StatusErrorSend:
		return true
	}
	return false
}

// Record is the single live status row per user.
// StartedPM is set once the user has confirmed private-channel contact.
type Record struct {
	UserID     int64
	Status     Status
	LastUpdate time.Time
	StartedPM  bool
}
