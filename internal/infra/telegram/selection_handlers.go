// internal/infra/telegram/selection_handlers.go
package telegram

import (
	"context"

	"hatani_admin_bot/internal/app"
	"hatani_admin_bot/internal/domain/selection"
	"hatani_admin_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterSelectionHandlers wires the application flow: the menu button, the
// profile confirmation buttons, /start in private chat, and the text/video
// dispatch inside the review channel. Messages that are not a workflow step
// fall through to the profanity scan.
func RegisterSelectionHandlers(
	ctx context.Context,
	b *telebot.Bot,
	router *CallbackRouter,
	selectionService *app.SelectionService,
	moderationService *app.ModerationService,
	sessions selection.SessionStore,
	cfg *config.AppConfig,
	logger *logrus.Entry,
) {
	router.Handle("selection", "start", anyState, func(c telebot.Context, cb Callback) error {
		err := selectionService.StartApplication(ctx, c.Sender().ID, c.Callback().Message.ID)
		switch err {
		case nil:
			return c.Respond()
		case app.ErrAlreadyCompleted:
			return c.Respond(&telebot.CallbackResponse{Text: "Вы уже проходили отбор.", ShowAlert: true})
		case app.ErrAlreadyInProgress:
			return c.Respond(&telebot.CallbackResponse{Text: "Ваша заявка уже в работе.", ShowAlert: true})
		default:
			logger.WithError(err).WithField("user_id", c.Sender().ID).Error("application start failed")
			return c.Respond(&telebot.CallbackResponse{Text: "Произошла ошибка. Попробуйте ещё раз."})
		}
	})

	router.Handle("selection", "noop", anyState, func(c telebot.Context, cb Callback) error {
		return c.Respond()
	})

	router.Handle("selection", "confirm_profile_yes", selection.StateAwaitingProfileConfirm, func(c telebot.Context, cb Callback) error {
		if err := selectionService.ConfirmProfileYes(ctx, c.Sender().ID, c.Callback().Message.ID); err != nil {
			logger.WithError(err).WithField("user_id", c.Sender().ID).Error("profile confirmation failed")
			return c.Respond(&telebot.CallbackResponse{Text: "Произошла ошибка. Попробуйте ещё раз."})
		}
		return c.Respond()
	})

	router.Handle("selection", "confirm_profile_no", selection.StateAwaitingProfileConfirm, func(c telebot.Context, cb Callback) error {
		if err := selectionService.ConfirmProfileNo(ctx, c.Sender().ID, c.Callback().Message.ID); err != nil {
			logger.WithError(err).WithField("user_id", c.Sender().ID).Error("profile rejection failed")
			return c.Respond(&telebot.CallbackResponse{Text: "Произошла ошибка. Попробуйте ещё раз."})
		}
		return c.Respond()
	})

	b.Handle("/start", func(c telebot.Context) error {
		if c.Chat() == nil || c.Chat().Type != telebot.ChatPrivate {
			return nil
		}
		return selectionService.HandlePrivateStart(ctx, c.Sender().ID)
	})

	b.Handle(telebot.OnText, func(c telebot.Context) error {
		if c.Chat() == nil {
			return nil
		}
		if c.Chat().Type == telebot.ChatPrivate {
			return c.Send("Все шаги отбора проходят в чате отбора. Вернитесь туда и продолжите.")
		}
		if c.Chat().ID != cfg.SelectionChatID {
			return nil
		}

		sess, err := sessions.Get(ctx, c.Sender().ID)
		if err != nil {
			logger.WithError(err).WithField("user_id", c.Sender().ID).Error("session lookup failed on text")
		}
		if sess != nil && sess.State == selection.StateAwaitingTikTokLink {
			return selectionService.ProcessProfileLink(ctx, c.Sender().ID, c.Message().ID, c.Text())
		}
		return moderationService.CheckMessage(ctx, c.Chat().ID, c.Sender().ID, c.Message().ID, c.Text())
	})

	b.Handle(telebot.OnVideo, func(c telebot.Context) error {
		if c.Chat() == nil || c.Chat().ID != cfg.SelectionChatID {
			return nil
		}
		video := c.Message().Video
		if video == nil {
			return nil
		}

		sess, err := sessions.Get(ctx, c.Sender().ID)
		if err != nil {
			logger.WithError(err).WithField("user_id", c.Sender().ID).Error("session lookup failed on video")
		}
		if sess != nil && sess.State == selection.StateAwaitingEditVideo {
			return selectionService.ProcessEditVideo(ctx, c.Sender().ID, c.Sender().FirstName,
				c.Message().ID, video.FileID, video.FileSize)
		}
		if caption := c.Message().Caption; caption != "" {
			return moderationService.CheckMessage(ctx, c.Chat().ID, c.Sender().ID, c.Message().ID, caption)
		}
		return nil
	})
}
