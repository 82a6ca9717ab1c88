// internal/infra/telegram/chat_event_handlers.go
package telegram

import (
	"context"

	"hatani_admin_bot/internal/app"
	"hatani_admin_bot/internal/domain/selection"
	"hatani_admin_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterChatEventHandlers wires the join gate and the onboarding buttons
// (verification, agreement, rules).
func RegisterChatEventHandlers(
	ctx context.Context,
	b *telebot.Bot,
	router *CallbackRouter,
	selectionService *app.SelectionService,
	cfg *config.AppConfig,
	logger *logrus.Entry,
) {
	b.Handle(telebot.OnUserJoined, func(c telebot.Context) error {
		if c.Chat() == nil || c.Chat().ID != cfg.SelectionChatID {
			return nil
		}
		joined := c.Message().UsersJoined
		if len(joined) == 0 && c.Message().UserJoined != nil {
			joined = []telebot.User{*c.Message().UserJoined}
		}
		for _, u := range joined {
			if u.ID == b.Me.ID || u.IsBot {
				continue
			}
			if err := selectionService.HandleNewMember(ctx, u.ID, u.FirstName); err != nil {
				logger.WithError(err).WithField("user_id", u.ID).Error("join gate failed")
			}
		}
		return nil
	})

	router.Handle("selection", "start_verification", anyState, func(c telebot.Context, cb Callback) error {
		err := selectionService.ConfirmVerification(ctx, c.Sender().ID, cb.Subject, c.Callback().Message.ID)
		switch err {
		case nil:
			return c.Respond(&telebot.CallbackResponse{Text: "Проверка пройдена!"})
		case app.ErrForeignButton:
			return c.Respond(&telebot.CallbackResponse{Text: "Эта кнопка не для вас.", ShowAlert: true})
		case app.ErrPMNotConfirmed:
			return c.Respond(&telebot.CallbackResponse{Text: "Сначала запустите бота в личных сообщениях по кнопке «Я не бот».", ShowAlert: true})
		default:
			logger.WithError(err).WithField("user_id", c.Sender().ID).Error("verification confirmation failed")
			return c.Respond(&telebot.CallbackResponse{Text: "Произошла ошибка. Попробуйте ещё раз."})
		}
	})

	router.Handle("selection", "confirm_agreement", selection.StateAwaitingAgreement, func(c telebot.Context, cb Callback) error {
		err := selectionService.ConfirmAgreement(ctx, c.Sender().ID, cb.Subject, c.Callback().Message.ID)
		switch err {
		case nil:
			return c.Respond()
		case app.ErrForeignButton:
			return c.Respond(&telebot.CallbackResponse{Text: "Эта кнопка не для вас.", ShowAlert: true})
		default:
			logger.WithError(err).WithField("user_id", c.Sender().ID).Error("agreement confirmation failed")
			return c.Respond(&telebot.CallbackResponse{Text: "Произошла ошибка. Попробуйте ещё раз."})
		}
	})

	router.Handle("selection", "confirm_rules", selection.StateAwaitingRules, func(c telebot.Context, cb Callback) error {
		err := selectionService.ConfirmRules(ctx, c.Sender().ID, cb.Subject, c.Callback().Message.ID)
		switch err {
		case nil:
			return c.Respond(&telebot.CallbackResponse{Text: "Добро пожаловать!"})
		case app.ErrForeignButton:
			return c.Respond(&telebot.CallbackResponse{Text: "Эта кнопка не для вас.", ShowAlert: true})
		case app.ErrOnboardingFailed:
			return c.Respond(&telebot.CallbackResponse{Text: "Произошла ошибка. Обратитесь к администратору.", ShowAlert: true})
		default:
			logger.WithError(err).WithField("user_id", c.Sender().ID).Error("rules confirmation failed")
			return c.Respond(&telebot.CallbackResponse{Text: "Произошла ошибка. Попробуйте ещё раз."})
		}
	})
}
