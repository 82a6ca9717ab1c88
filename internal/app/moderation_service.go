// internal/app/moderation_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"hatani_admin_bot/internal/domain/moderation"
	domainTelegram "hatani_admin_bot/internal/domain/telegram"
	idb "hatani_admin_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// MuteTimers is the subset of the timer engine the moderation flow arms.
type MuteTimers interface {
	ArmUnmute(userID, chatID int64, deadline time.Time)
	CancelUnmute(userID, chatID int64) bool
}

// ModerationService scans review-channel messages for vocabulary hits and
// manages the resulting timed mutes.
type ModerationService struct {
	muteRepo     moderation.MuteRepository
	exemptRepo   moderation.ExemptionRepository
	detector     *moderation.Detector
	tg           domainTelegram.Client
	timers       MuteTimers
	muteDuration time.Duration
	logger       *logrus.Entry
}

func NewModerationService(
	muteRepo moderation.MuteRepository,
	exemptRepo moderation.ExemptionRepository,
	detector *moderation.Detector,
	tg domainTelegram.Client,
	timers MuteTimers,
	muteDuration time.Duration,
	logger *logrus.Entry,
) *ModerationService {
	return &ModerationService{
		muteRepo:     muteRepo,
		exemptRepo:   exemptRepo,
		detector:     detector,
		tg:           tg,
		timers:       timers,
		muteDuration: muteDuration,
		logger:       logger,
	}
}

// CheckMessage scans one message. On a vocabulary hit the message is deleted
// and the author muted. Exempted chat admins are skipped entirely.
func (s *ModerationService) CheckMessage(ctx context.Context, chatID, userID int64, messageID int, text string) error {
	word, found := s.detector.Detect(text)
	if !found {
		return nil
	}

	exempt, err := s.exemptRepo.IsExempt(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("exemption lookup failed, treating as not exempt")
	}
	if exempt {
		if isAdmin, err := s.tg.IsChatAdmin(chatID, userID); err == nil && isAdmin {
			s.logger.WithFields(logrus.Fields{"user_id": userID, "word": word}).Info("profanity by exempted admin ignored")
			return nil
		}
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID, "word": word, "message_id": messageID}).Info("profanity detected")

	if err := s.tg.DeleteMessage(chatID, messageID); err != nil {
		s.logger.WithError(err).WithField("message_id", messageID).Warn("failed to delete offending message")
	}
	return s.muteUser(ctx, userID, chatID, messageID, word)
}

func (s *ModerationService) muteUser(ctx context.Context, userID, chatID int64, messageID int, word string) error {
	deadline := time.Now().Add(s.muteDuration)
	userLink := s.userLink(userID)

	if err := s.tg.RestrictUntil(chatID, userID, deadline); err != nil {
		// Admins cannot be restricted; tease them instead of failing loudly.
		if isAdmin, adminErr := s.tg.IsChatAdmin(chatID, userID); adminErr == nil && isAdmin {
			text := fmt.Sprintf("Ай-ай-ай, %s! 🙊 Такие слова, а ещё администратор!", userLink)
			if _, sendErr := s.tg.SendMessage(chatID, text, &telebot.SendOptions{
				ParseMode:   telebot.ModeHTML,
				ReplyMarkup: adminTeaseMarkup(messageID, word),
			}); sendErr != nil {
				s.logger.WithError(sendErr).WithField("user_id", userID).Warn("failed to tease admin")
			}
			return nil
		}
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to restrict user")
		return fmt.Errorf("restrict user %d: %w", userID, err)
	}

	text := fmt.Sprintf("Пользователь %s получил мут на %d минут. 🔇\nПричина: нецензурная лексика.",
		userLink, int(s.muteDuration.Minutes()))
	noticeID, err := s.tg.SendMessage(chatID, text, &telebot.SendOptions{
		ParseMode:   telebot.ModeHTML,
		ReplyMarkup: unmuteMarkup(userID),
	})
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("failed to announce mute")
	}

	if err := s.muteRepo.Upsert(ctx, &moderation.Mute{
		UserID:                userID,
		ChatID:                chatID,
		UnmuteAt:              deadline,
		NotificationMessageID: noticeID,
	}); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to persist mute")
	}

	s.timers.ArmUnmute(userID, chatID, deadline)
	s.logger.WithFields(logrus.Fields{"user_id": userID, "until": deadline}).Info("user muted")
	return nil
}

// Unmute lifts a restriction. byAdmin carries the pressing admin's id; zero
// means the scheduled expiry fired. Returns true when the user ended up
// unmuted on the platform.
func (s *ModerationService) Unmute(ctx context.Context, userID, chatID int64, byAdmin int64) bool {
	noticeID := 0
	mute, err := s.muteRepo.Get(ctx, userID, chatID)
	if err != nil && err != idb.ErrMuteNotFound {
		s.logger.WithError(err).WithField("user_id", userID).Error("mute lookup failed during unmute")
	}
	if mute != nil {
		noticeID = mute.NotificationMessageID
	}

	unrestrictErr := s.tg.Unrestrict(chatID, userID)

	// The row goes away regardless; a failed platform call must not cause
	// an unmute retry storm on every future reconciliation.
	if err := s.muteRepo.Remove(ctx, userID, chatID); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to remove mute row")
	}
	if byAdmin != 0 {
		s.timers.CancelUnmute(userID, chatID)
	}

	if unrestrictErr != nil {
		s.logger.WithError(unrestrictErr).WithField("user_id", userID).Error("failed to lift restriction")
		return false
	}

	if noticeID != 0 {
		var text string
		if byAdmin != 0 {
			text = fmt.Sprintf("Пользователь %s размучен администратором %s. 🔊",
				s.userLink(userID), s.userLink(byAdmin))
		} else {
			text = fmt.Sprintf("Пользователь %s размучен автоматически. 🔊", s.userLink(userID))
		}
		if err := s.tg.EditMessageText(chatID, noticeID, text, nil); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Warn("failed to update mute notice")
		}
	}
	s.logger.WithFields(logrus.Fields{"user_id": userID, "by_admin": byAdmin}).Info("user unmuted")
	return true
}

// UnmuteBySchedule adapts Unmute to the timer engine's callback shape.
func (s *ModerationService) UnmuteBySchedule(ctx context.Context, userID, chatID int64) bool {
	return s.Unmute(ctx, userID, chatID, 0)
}

// ToggleExemption flips the admin's profanity exemption and returns the new
// value.
func (s *ModerationService) ToggleExemption(ctx context.Context, adminID int64) (bool, error) {
	current, err := s.exemptRepo.IsExempt(ctx, adminID)
	if err != nil {
		return false, fmt.Errorf("exemption lookup for %d: %w", adminID, err)
	}
	if err := s.exemptRepo.SetExempt(ctx, adminID, !current); err != nil {
		return false, fmt.Errorf("toggle exemption for %d: %w", adminID, err)
	}
	return !current, nil
}

func (s *ModerationService) userLink(userID int64) string {
	info, err := s.tg.GetChat(userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Debug("chat info lookup failed")
		return formatUserLink(nil, userID)
	}
	return formatUserLink(info, userID)
}
