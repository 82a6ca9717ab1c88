// internal/domain/selection/session.go
package selection

import "context"

// State is the workflow step a live session is waiting on.
type State string

const (
	StateAwaitingAgreement      State = "awaiting_agreement"
	StateAwaitingRules          State = "awaiting_rules"
	StateAwaitingTikTokLink     State = "awaiting_tiktok_link"
	StateAwaitingProfileConfirm State = "awaiting_profile_confirmation"
	StateAwaitingEditVideo      State = "awaiting_edit_video"
)

// Session holds the FSM state tag plus scratch values accumulated across
// steps. It lives only in the external session store and is cleared on
// completion, cancellation, or error.
type Session struct {
	State               State  `json:"state"`
	PromptMessageID     int    `json:"prompt_message_id,omitempty"`
	ProfileLink         string `json:"profile_link,omitempty"`
	ScreenshotKey       string `json:"screenshot_key,omitempty"`
	ScreenshotMessageID int    `json:"screenshot_message_id,omitempty"`
}

// Application carries the structured applicant data from publish time to
// decision time, replacing caption-text scraping.
type Application struct {
	ProfileLink   string `json:"profile_link"`
	ApplicantName string `json:"applicant_name"`
}

// SessionStore is the external per-user workflow session collaborator.
// Get returns (nil, nil) when no session exists.
type SessionStore interface {
	Get(ctx context.Context, userID int64) (*Session, error)
	Save(ctx context.Context, userID int64, s *Session) error
	Clear(ctx context.Context, userID int64) error

	// SaveApplication stores the pending application payload until an admin
	// decides; TakeApplication reads it and removes it in one step.
	// TakeApplication returns (nil, nil) when nothing is stored.
	SaveApplication(ctx context.Context, userID int64, a *Application) error
	TakeApplication(ctx context.Context, userID int64) (*Application, error)
}
