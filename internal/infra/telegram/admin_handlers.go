// internal/infra/telegram/admin_handlers.go
package telegram

import (
	"context"

	"hatani_admin_bot/internal/app"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterAdminHandlers wires the review decision buttons: approve, the
// two-stage reject, and unban. Authorization happens in the service via a
// live chat-admin check.
func RegisterAdminHandlers(
	ctx context.Context,
	router *CallbackRouter,
	adminService *app.AdminService,
	logger *logrus.Entry,
) {
	respondDecisionErr := func(c telebot.Context, err error, action string) error {
		switch err {
		case app.ErrAdminNotAuthorized:
			return c.Respond(&telebot.CallbackResponse{Text: "Только администраторы могут принимать решения.", ShowAlert: true})
		case app.ErrUnknownRejectionReason:
			return c.Respond(&telebot.CallbackResponse{Text: "Неизвестная причина отказа.", ShowAlert: true})
		default:
			logger.WithError(err).WithField("action", action).Error("admin decision failed")
			return c.Respond(&telebot.CallbackResponse{Text: "Произошла ошибка. Попробуйте ещё раз."})
		}
	}

	// The review panel is a reply to the published album, so the album id
	// travels with the callback for free.
	albumID := func(c telebot.Context) int {
		if c.Callback().Message != nil && c.Callback().Message.ReplyTo != nil {
			return c.Callback().Message.ReplyTo.ID
		}
		return 0
	}

	router.Handle("admin", "approve", anyState, func(c telebot.Context, cb Callback) error {
		err := adminService.Approve(ctx, c.Sender().ID, cb.Subject, c.Callback().Message.ID, albumID(c))
		if err != nil {
			return respondDecisionErr(c, err, "approve")
		}
		return c.Respond(&telebot.CallbackResponse{Text: "Заявка одобрена."})
	})

	router.Handle("admin", "reject", anyState, func(c telebot.Context, cb Callback) error {
		err := adminService.RequestRejection(ctx, c.Sender().ID, cb.Subject, c.Callback().Message.ID, c.Callback().Message.Text)
		if err != nil {
			return respondDecisionErr(c, err, "reject")
		}
		return c.Respond()
	})

	router.Handle("admin", "reject_reason", anyState, func(c telebot.Context, cb Callback) error {
		err := adminService.Reject(ctx, c.Sender().ID, cb.Subject, c.Callback().Message.ID, albumID(c), cb.Extra)
		if err != nil {
			return respondDecisionErr(c, err, "reject_reason")
		}
		return c.Respond(&telebot.CallbackResponse{Text: "Заявка отклонена."})
	})

	router.Handle("admin", "unban", anyState, func(c telebot.Context, cb Callback) error {
		err := adminService.Unban(ctx, c.Sender().ID, cb.Subject, c.Callback().Message.ID)
		if err != nil {
			return respondDecisionErr(c, err, "unban")
		}
		return c.Respond(&telebot.CallbackResponse{Text: "Пользователь разблокирован."})
	})
}
