// internal/app/keyboards.go
package app

import (
	"fmt"

	"gopkg.in/telebot.v3"

	"hatani_admin_bot/internal/domain/selection"
)

// rejectionReason pairs a stable callback code with its human label.
type rejectionReason struct {
	Code  string
	Label string
}

// rejectionReasons is the fixed catalogue of rejection causes. Order matters,
// it defines the button layout shown to admins.
var rejectionReasons = []rejectionReason{
	{Code: "tech", Label: "Техническое качество"},
	{Code: "quality", Label: "Качество контента"},
	{Code: "idea", Label: "Идея ролика"},
	{Code: "music", Label: "Музыкальное оформление"},
	{Code: "other", Label: "Другое"},
}

func rejectionReasonLabel(code string) (string, bool) {
	for _, r := range rejectionReasons {
		if r.Code == code {
			return r.Label, true
		}
	}
	return "", false
}

func verificationMarkup(botUsername string, userID int64) *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{
		InlineKeyboard: [][]telebot.InlineButton{
			{{Text: "🤖 Я не бот", URL: fmt.Sprintf("https://t.me/%s?start=verify", botUsername)}},
			{{Text: "✅ Я подтвердил", Data: fmt.Sprintf("selection:start_verification:%d", userID)}},
		},
	}
}

func agreementMarkup(agreementURL string, userID int64) *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{
		InlineKeyboard: [][]telebot.InlineButton{
			{{Text: "📄 Пользовательское соглашение", URL: agreementURL}},
			{{Text: "✅ Принимаю", Data: fmt.Sprintf("selection:confirm_agreement:%d", userID)}},
		},
	}
}

func rulesMarkup(rulesURL string, userID int64) *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{
		InlineKeyboard: [][]telebot.InlineButton{
			{{Text: "📜 Правила отбора", URL: rulesURL}},
			{{Text: "✅ Ознакомился и принимаю", Data: fmt.Sprintf("selection:confirm_rules:%d", userID)}},
		},
	}
}

// mainMenuMarkup builds the post-onboarding menu. The first button reflects
// the user's current selection status.
func mainMenuMarkup(status selection.Status, creatorProfileURL, creatorTikTokURL string) *telebot.ReplyMarkup {
	var first telebot.InlineButton
	switch status {
	case selection.StatusPassed:
		first = telebot.InlineButton{Text: "🎉 Вы прошли отбор", Data: "selection:noop"}
	case selection.StatusFailed:
		first = telebot.InlineButton{Text: "😔 Вы не прошли отбор", Data: "selection:noop"}
	default:
		first = telebot.InlineButton{Text: "🚀 Начать отбор", Data: "selection:start"}
	}
	return &telebot.ReplyMarkup{
		InlineKeyboard: [][]telebot.InlineButton{
			{first},
			{{Text: "👤 Профиль создателя", URL: creatorProfileURL}},
			{{Text: "🎵 TikTok создателя", URL: creatorTikTokURL}},
		},
	}
}

func profileConfirmMarkup() *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{
		InlineKeyboard: [][]telebot.InlineButton{
			{
				{Text: "✅ Да", Data: "selection:confirm_profile_yes"},
				{Text: "❌ Нет", Data: "selection:confirm_profile_no"},
			},
		},
	}
}

// reviewPanelMarkup is attached to the admin review panel under a published
// application.
func reviewPanelMarkup(applicantID int64, profileLink string) *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{
		InlineKeyboard: [][]telebot.InlineButton{
			{{Text: fmt.Sprintf("🎵 %s", profileHandle(profileLink)), URL: profileLink}},
			{
				{Text: "✅ Принять", Data: fmt.Sprintf("admin:approve:%d", applicantID)},
				{Text: "❌ Отклонить", Data: fmt.Sprintf("admin:reject:%d", applicantID)},
			},
		},
	}
}

func rejectionReasonsMarkup(applicantID int64) *telebot.ReplyMarkup {
	rows := make([][]telebot.InlineButton, 0, len(rejectionReasons))
	for _, r := range rejectionReasons {
		rows = append(rows, []telebot.InlineButton{{
			Text: r.Label,
			Data: fmt.Sprintf("admin:reject_reason:%d:%s", applicantID, r.Code),
		}})
	}
	return &telebot.ReplyMarkup{InlineKeyboard: rows}
}

func unmuteMarkup(userID int64) *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{
		InlineKeyboard: [][]telebot.InlineButton{
			{{Text: "🔊 Размутить", Data: fmt.Sprintf("admin:unmute:%d", userID)}},
		},
	}
}

func adminTeaseMarkup(messageID int, word string) *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{
		InlineKeyboard: [][]telebot.InlineButton{
			{{Text: "🙈 Больше не буду", Data: fmt.Sprintf("admin:profanity_trakh:%d:%s", messageID, word)}},
		},
	}
}

func unbanMarkup(userID int64) *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{
		InlineKeyboard: [][]telebot.InlineButton{
			{{Text: "♻️ Разблокировать", Data: fmt.Sprintf("admin:unban:%d", userID)}},
		},
	}
}
