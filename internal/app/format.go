// internal/app/format.go
package app

import (
	"fmt"
	"html"
	"regexp"

	domainTelegram "hatani_admin_bot/internal/domain/telegram"
)

// formatUserLink renders an HTML mention link for a user.
func formatUserLink(info *domainTelegram.ChatInfo, fallbackID int64) string {
	if info == nil {
		return fmt.Sprintf("ID: %d", fallbackID)
	}
	name := info.FirstName
	if name == "" {
		name = fmt.Sprintf("ID:%d", info.ID)
	}
	return fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, info.ID, html.EscapeString(name))
}

func formatNamedLink(userID int64, name string) string {
	if name == "" {
		name = fmt.Sprintf("ID:%d", userID)
	}
	return fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, userID, html.EscapeString(name))
}

var profileHandleRe = regexp.MustCompile(`@[\w.-]+`)

// profileHandle extracts the @username part of a TikTok profile link for
// button labels; falls back to a generic label.
func profileHandle(profileLink string) string {
	if h := profileHandleRe.FindString(profileLink); h != "" {
		return h
	}
	return "Профиль"
}
