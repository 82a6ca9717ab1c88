// internal/domain/moderation/repository.go
package moderation

import "context"

// MuteRepository persists active mute rows.
type MuteRepository interface {
	// Upsert creates or replaces the row for (mute.UserID, mute.ChatID).
	Upsert(ctx context.Context, mute *Mute) error
	// Get returns the row, or database.ErrMuteNotFound.
	Get(ctx context.Context, userID, chatID int64) (*Mute, error)
	// Remove deletes the row; deleting an absent row is not an error.
	Remove(ctx context.Context, userID, chatID int64) error
	// ListActive returns every stored mute row, past-due included.
	ListActive(ctx context.Context) ([]*Mute, error)
}

// ExemptionRepository stores the per-admin profanity exemption toggle.
// Default for an unknown admin is false.
type ExemptionRepository interface {
	IsExempt(ctx context.Context, adminID int64) (bool, error)
	SetExempt(ctx context.Context, adminID int64, exempt bool) error
}
