// internal/infra/telegram/moderation_handlers.go
package telegram

import (
	"context"
	"fmt"

	"hatani_admin_bot/internal/app"
	"hatani_admin_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// isChatAdmin does a live admin check straight through the bot, for guards
// that live entirely in the handler layer.
func isChatAdmin(b *telebot.Bot, chatID, userID int64) bool {
	member, err := b.ChatMemberOf(&telebot.Chat{ID: chatID}, &telebot.User{ID: userID})
	if err != nil {
		return false
	}
	return member.Role == telebot.Administrator || member.Role == telebot.Creator
}

// RegisterModerationHandlers wires the /trax exemption toggle, the unmute
// button on mute notices, and the playful acknowledgement button under
// admin profanity teases.
func RegisterModerationHandlers(
	ctx context.Context,
	b *telebot.Bot,
	router *CallbackRouter,
	moderationService *app.ModerationService,
	cfg *config.AppConfig,
	logger *logrus.Entry,
) {
	b.Handle("/trax", func(c telebot.Context) error {
		if c.Chat() == nil || c.Chat().ID != cfg.SelectionChatID {
			return nil
		}
		if !isChatAdmin(b, cfg.SelectionChatID, c.Sender().ID) {
			return c.Reply("Эта команда доступна только администраторам.")
		}
		exempt, err := moderationService.ToggleExemption(ctx, c.Sender().ID)
		if err != nil {
			logger.WithError(err).WithField("admin_id", c.Sender().ID).Error("exemption toggle failed")
			return c.Reply("Не получилось переключить режим. Попробуйте ещё раз.")
		}
		if exempt {
			return c.Reply("Режим «без цензуры» включен для вас. 😈")
		}
		return c.Reply("Режим «без цензуры» выключен. Следите за языком! 😇")
	})

	router.Handle("admin", "unmute", anyState, func(c telebot.Context, cb Callback) error {
		if !isChatAdmin(b, cfg.SelectionChatID, c.Sender().ID) {
			return c.Respond(&telebot.CallbackResponse{Text: "Только администраторы могут снимать мут.", ShowAlert: true})
		}
		if !moderationService.Unmute(ctx, cb.Subject, c.Chat().ID, c.Sender().ID) {
			return c.Respond(&telebot.CallbackResponse{Text: "Не получилось снять мут. Возможно, он уже истёк.", ShowAlert: true})
		}
		return c.Respond(&telebot.CallbackResponse{Text: "Мут снят."})
	})

	router.Handle("admin", "profanity_trakh", anyState, func(c telebot.Context, cb Callback) error {
		if !isChatAdmin(b, cfg.SelectionChatID, c.Sender().ID) {
			return c.Respond(&telebot.CallbackResponse{Text: "Эта кнопка не для вас.", ShowAlert: true})
		}
		text := fmt.Sprintf("Хорошо-хорошо, верим! 🙏 Но слово «%s» мы запомнили.", cb.Extra)
		if err := c.Edit(text); err != nil {
			logger.WithError(err).Warn("failed to edit tease message")
		}
		return c.Respond()
	})
}
