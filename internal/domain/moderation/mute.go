// internal/domain/moderation/mute.go
package moderation

import "time"

// Mute is an active restriction, keyed by (user, chat).
// The row existing means the user is believed muted on the platform; it is
// removed exactly when the user is unmuted, whether or not the platform
// call itself succeeded.
type Mute struct {
	UserID                int64
	ChatID                int64
	UnmuteAt              time.Time
	NotificationMessageID int
}
