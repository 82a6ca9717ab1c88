// internal/domain/telegram/client.go
package telegram

import (
	"time"

	"gopkg.in/telebot.v3"
)

// ChatInfo is the subset of platform chat/user data the services need.
type ChatInfo struct {
	ID        int64
	FirstName string
	Username  string
}

// Client defines the platform operations the application layer uses.
// Every call is fallible; callers branch on the returned error and never
// retry. This decouples the services from the specific bot library.
type Client interface {
	// SendMessage sends text to a chat or user and returns the message id.
	SendMessage(chatID int64, text string, opts *telebot.SendOptions) (int, error)
	// SendReply sends text replying to an existing message.
	SendReply(chatID int64, replyToID int, text string, markup *telebot.ReplyMarkup) (int, error)
	// SendPhoto sends raw image bytes with a caption.
	SendPhoto(chatID int64, photo []byte, caption string, markup *telebot.ReplyMarkup) (int, error)
	// SendMediaGroup sends a photo (optional, may be nil) and a platform-held
	// video as one album and returns the first message id.
	SendMediaGroup(chatID int64, photo []byte, videoFileID, caption string) (int, error)

	EditMessageText(chatID int64, messageID int, text string, markup *telebot.ReplyMarkup) error
	DeleteMessage(chatID int64, messageID int) error
	PinMessage(chatID int64, messageID int) error

	// RestrictUntil removes all messaging permissions until the deadline.
	RestrictUntil(chatID, userID int64, until time.Time) error
	// Unrestrict restores full messaging permissions.
	Unrestrict(chatID, userID int64) error
	// Kick bans the user and immediately lifts the ban (eviction).
	Kick(chatID, userID int64) error
	// Unban lifts a ban if one is in place.
	Unban(chatID, userID int64) error

	GetChat(chatID int64) (*ChatInfo, error)
	// IsChatAdmin reports live chat-admin (or owner) membership.
	IsChatAdmin(chatID, userID int64) (bool, error)
}
