// internal/infra/telegram/client.go
package telegram

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	domainTelegram "hatani_admin_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the domain telegram.Client on top of telebot.
type TelebotAdapter struct {
	bot    *telebot.Bot
	logger *logrus.Entry
}

func NewTelebotAdapter(bot *telebot.Bot, logger *logrus.Entry) *TelebotAdapter {
	return &TelebotAdapter{bot: bot, logger: logger}
}

// editable builds a telebot Editable for a message we only know by id.
func editable(chatID int64, messageID int) telebot.Editable {
	return &telebot.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}
}

func (a *TelebotAdapter) SendMessage(chatID int64, text string, opts *telebot.SendOptions) (int, error) {
	if opts == nil {
		opts = &telebot.SendOptions{}
	}
	msg, err := a.bot.Send(telebot.ChatID(chatID), text, opts)
	if err != nil {
		return 0, fmt.Errorf("send message to %d: %w", chatID, err)
	}
	return msg.ID, nil
}

func (a *TelebotAdapter) SendReply(chatID int64, replyToID int, text string, markup *telebot.ReplyMarkup) (int, error) {
	opts := &telebot.SendOptions{
		ReplyTo:     &telebot.Message{ID: replyToID, Chat: &telebot.Chat{ID: chatID}},
		ReplyMarkup: markup,
		ParseMode:   telebot.ModeHTML,
	}
	msg, err := a.bot.Send(telebot.ChatID(chatID), text, opts)
	if err != nil {
		return 0, fmt.Errorf("send reply to message %d in %d: %w", replyToID, chatID, err)
	}
	return msg.ID, nil
}

func (a *TelebotAdapter) SendPhoto(chatID int64, photo []byte, caption string, markup *telebot.ReplyMarkup) (int, error) {
	p := &telebot.Photo{File: telebot.FromReader(bytes.NewReader(photo)), Caption: caption}
	msg, err := a.bot.Send(telebot.ChatID(chatID), p, &telebot.SendOptions{ReplyMarkup: markup})
	if err != nil {
		return 0, fmt.Errorf("send photo to %d: %w", chatID, err)
	}
	return msg.ID, nil
}

// SendMediaGroup publishes the application album: the profile screenshot (if
// available) plus the platform-held video carrying the caption.
func (a *TelebotAdapter) SendMediaGroup(chatID int64, photo []byte, videoFileID, caption string) (int, error) {
	var album telebot.Album
	if len(photo) > 0 {
		album = append(album, &telebot.Photo{File: telebot.FromReader(bytes.NewReader(photo))})
	}
	album = append(album, &telebot.Video{
		File:    telebot.File{FileID: videoFileID},
		Caption: caption,
	})
	msgs, err := a.bot.SendAlbum(telebot.ChatID(chatID), album, &telebot.SendOptions{ParseMode: telebot.ModeHTML})
	if err != nil {
		return 0, fmt.Errorf("send album to %d: %w", chatID, err)
	}
	if len(msgs) == 0 {
		return 0, fmt.Errorf("send album to %d: empty response", chatID)
	}
	return msgs[0].ID, nil
}

func (a *TelebotAdapter) EditMessageText(chatID int64, messageID int, text string, markup *telebot.ReplyMarkup) error {
	var err error
	if markup != nil {
		_, err = a.bot.Edit(editable(chatID, messageID), text, &telebot.SendOptions{ParseMode: telebot.ModeHTML, ReplyMarkup: markup})
	} else {
		_, err = a.bot.Edit(editable(chatID, messageID), text, &telebot.SendOptions{ParseMode: telebot.ModeHTML})
	}
	if err != nil {
		return fmt.Errorf("edit message %d in %d: %w", messageID, chatID, err)
	}
	return nil
}

func (a *TelebotAdapter) DeleteMessage(chatID int64, messageID int) error {
	if err := a.bot.Delete(editable(chatID, messageID)); err != nil {
		return fmt.Errorf("delete message %d in %d: %w", messageID, chatID, err)
	}
	return nil
}

func (a *TelebotAdapter) PinMessage(chatID int64, messageID int) error {
	if err := a.bot.Pin(editable(chatID, messageID)); err != nil {
		return fmt.Errorf("pin message %d in %d: %w", messageID, chatID, err)
	}
	return nil
}

// RestrictUntil removes all messaging permissions. A zero until means
// indefinitely.
func (a *TelebotAdapter) RestrictUntil(chatID, userID int64, until time.Time) error {
	member := &telebot.ChatMember{
		User:   &telebot.User{ID: userID},
		Rights: telebot.NoRights(),
	}
	if until.IsZero() {
		member.RestrictedUntil = telebot.Forever()
	} else {
		member.RestrictedUntil = until.Unix()
	}
	if err := a.bot.Restrict(&telebot.Chat{ID: chatID}, member); err != nil {
		return fmt.Errorf("restrict user %d in %d: %w", userID, chatID, err)
	}
	return nil
}

func (a *TelebotAdapter) Unrestrict(chatID, userID int64) error {
	member := &telebot.ChatMember{
		User: &telebot.User{ID: userID},
		Rights: telebot.Rights{
			CanSendMessages: true,
			CanSendMedia:    true,
			CanSendOther:    true,
			CanAddPreviews:  true,
		},
		RestrictedUntil: telebot.Forever(),
	}
	if err := a.bot.Restrict(&telebot.Chat{ID: chatID}, member); err != nil {
		return fmt.Errorf("unrestrict user %d in %d: %w", userID, chatID, err)
	}
	return nil
}

// Kick evicts the user: ban followed by an immediate unban, so they may
// rejoin via an invite link later.
func (a *TelebotAdapter) Kick(chatID, userID int64) error {
	chat := &telebot.Chat{ID: chatID}
	if err := a.bot.Ban(chat, &telebot.ChatMember{User: &telebot.User{ID: userID}}); err != nil {
		return fmt.Errorf("ban user %d in %d: %w", userID, chatID, err)
	}
	if err := a.bot.Unban(chat, &telebot.User{ID: userID}, true); err != nil {
		// The eviction already happened, log and move on.
		a.logger.WithError(err).WithField("user_id", userID).Warn("unban after kick failed")
	}
	return nil
}

func (a *TelebotAdapter) Unban(chatID, userID int64) error {
	if err := a.bot.Unban(&telebot.Chat{ID: chatID}, &telebot.User{ID: userID}, true); err != nil {
		return fmt.Errorf("unban user %d in %d: %w", userID, chatID, err)
	}
	return nil
}

func (a *TelebotAdapter) GetChat(chatID int64) (*domainTelegram.ChatInfo, error) {
	chat, err := a.bot.ChatByID(chatID)
	if err != nil {
		return nil, fmt.Errorf("get chat %d: %w", chatID, err)
	}
	return &domainTelegram.ChatInfo{
		ID:        chat.ID,
		FirstName: chat.FirstName,
		Username:  chat.Username,
	}, nil
}

func (a *TelebotAdapter) IsChatAdmin(chatID, userID int64) (bool, error) {
	member, err := a.bot.ChatMemberOf(&telebot.Chat{ID: chatID}, &telebot.User{ID: userID})
	if err != nil {
		return false, fmt.Errorf("chat member lookup for %d in %d: %w", userID, chatID, err)
	}
	return member.Role == telebot.Administrator || member.Role == telebot.Creator, nil
}
