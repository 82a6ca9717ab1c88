// internal/app/admin_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"hatani_admin_bot/internal/domain/selection"
	domainTelegram "hatani_admin_bot/internal/domain/telegram"
	"hatani_admin_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

var ErrAdminNotAuthorized = fmt.Errorf("performing user is not a chat administrator")
var ErrUnknownRejectionReason = fmt.Errorf("unknown rejection reason code")

// AdminService executes the review decisions: approve, reject with a reason,
// and unban. Authorization is a live chat-admin check on every call; there
// is no static admin list.
type AdminService struct {
	statusRepo  selection.StatusRepository
	outcomeRepo selection.OutcomeRepository
	sessions    selection.SessionStore
	tg          domainTelegram.Client
	cfg         *config.AppConfig
	logger      *logrus.Entry
}

func NewAdminService(
	statusRepo selection.StatusRepository,
	outcomeRepo selection.OutcomeRepository,
	sessions selection.SessionStore,
	tg domainTelegram.Client,
	cfg *config.AppConfig,
	logger *logrus.Entry,
) *AdminService {
	return &AdminService{
		statusRepo:  statusRepo,
		outcomeRepo: outcomeRepo,
		sessions:    sessions,
		tg:          tg,
		cfg:         cfg,
		logger:      logger,
	}
}

func (s *AdminService) requireAdmin(adminID int64) error {
	ok, err := s.tg.IsChatAdmin(s.cfg.SelectionChatID, adminID)
	if err != nil {
		return fmt.Errorf("admin check for %d: %w", adminID, err)
	}
	if !ok {
		return ErrAdminNotAuthorized
	}
	return nil
}

// takeApplication consumes the stored application payload, falling back to
// placeholders when it expired or was never stored.
func (s *AdminService) takeApplication(ctx context.Context, applicantID int64) *selection.Application {
	app, err := s.sessions.TakeApplication(ctx, applicantID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", applicantID).Error("failed to load application payload")
	}
	if app == nil {
		app = &selection.Application{ProfileLink: "Не найдена", ApplicantName: ""}
	}
	return app
}

// cleanupReviewMessages deletes the pinned panel and the published album.
func (s *AdminService) cleanupReviewMessages(panelMsgID, mediaMsgID int) {
	chatID := s.cfg.SelectionChatID
	if panelMsgID != 0 {
		if err := s.tg.DeleteMessage(chatID, panelMsgID); err != nil {
			s.logger.WithError(err).WithField("message_id", panelMsgID).Warn("failed to delete review panel")
		}
	}
	if mediaMsgID != 0 {
		if err := s.tg.DeleteMessage(chatID, mediaMsgID); err != nil {
			s.logger.WithError(err).WithField("message_id", mediaMsgID).Warn("failed to delete application album")
		}
	}
}

// Approve accepts the application: the review messages are removed, the
// decision is announced in the chat and privately, and the applicant
// becomes passed.
func (s *AdminService) Approve(ctx context.Context, adminID, applicantID int64, panelMsgID, mediaMsgID int) error {
	if err := s.requireAdmin(adminID); err != nil {
		return err
	}

	app := s.takeApplication(ctx, applicantID)
	s.cleanupReviewMessages(panelMsgID, mediaMsgID)

	announcement := fmt.Sprintf("Поздравляем! 🎉\n\nПользователь %s прошел отбор!\nРешение принял: %s",
		s.userLink(applicantID, app.ApplicantName), s.userLink(adminID, ""))
	if _, err := s.tg.SendMessage(s.cfg.SelectionChatID, announcement, &telebot.SendOptions{ParseMode: telebot.ModeHTML}); err != nil {
		s.logger.WithError(err).WithField("user_id", applicantID).Warn("failed to announce approval")
	}
	if _, err := s.tg.SendMessage(applicantID,
		"Поздравляем! 🎉 Ваша заявка одобрена, вы прошли отбор!", nil); err != nil {
		s.logger.WithError(err).WithField("user_id", applicantID).Warn("failed to notify applicant of approval")
	}

	if err := s.outcomeRepo.RecordPassed(ctx, &selection.PassedRecord{
		UserID:       applicantID,
		ProfileLink:  app.ProfileLink,
		ProgramLabel: "Не указана",
		ApprovedAt:   time.Now(),
	}); err != nil {
		s.logger.WithError(err).WithField("user_id", applicantID).Error("failed to record passed outcome")
		return fmt.Errorf("record passed outcome for %d: %w", applicantID, err)
	}
	if err := s.statusRepo.SetStatus(ctx, applicantID, selection.StatusPassed); err != nil {
		s.logger.WithError(err).WithField("user_id", applicantID).Error("failed to set passed status")
		return fmt.Errorf("set passed status for %d: %w", applicantID, err)
	}
	s.logger.WithFields(logrus.Fields{"user_id": applicantID, "admin_id": adminID}).Info("application approved")
	return nil
}

// RequestRejection swaps the review panel's buttons for the reason list.
// No decision is recorded yet.
func (s *AdminService) RequestRejection(ctx context.Context, adminID, applicantID int64, panelMsgID int, panelText string) error {
	if err := s.requireAdmin(adminID); err != nil {
		return err
	}
	text := panelText + "\n\nВыберите причину отказа:"
	if err := s.tg.EditMessageText(s.cfg.SelectionChatID, panelMsgID, text, rejectionReasonsMarkup(applicantID)); err != nil {
		s.logger.WithError(err).WithField("user_id", applicantID).Error("failed to show rejection reasons")
		return fmt.Errorf("show rejection reasons: %w", err)
	}
	return nil
}

// Reject finalizes a rejection with the chosen reason: the applicant is
// notified, removed from the chat, and recorded as failed. The in-chat
// announcement carries the unban control.
func (s *AdminService) Reject(ctx context.Context, adminID, applicantID int64, panelMsgID, mediaMsgID int, reasonCode string) error {
	if err := s.requireAdmin(adminID); err != nil {
		return err
	}
	reason, ok := rejectionReasonLabel(reasonCode)
	if !ok {
		return ErrUnknownRejectionReason
	}

	app := s.takeApplication(ctx, applicantID)

	if _, err := s.tg.SendMessage(applicantID, fmt.Sprintf(
		"К сожалению, ваша заявка отклонена. 😔\nПричина: %s\n\nВы будете удалены из чата отбора.", reason), nil); err != nil {
		s.logger.WithError(err).WithField("user_id", applicantID).Warn("failed to notify applicant of rejection")
	}

	s.cleanupReviewMessages(panelMsgID, mediaMsgID)

	if err := s.tg.Kick(s.cfg.SelectionChatID, applicantID); err != nil {
		s.logger.WithError(err).WithField("user_id", applicantID).Error("failed to remove rejected applicant")
	}

	announcement := fmt.Sprintf("Заявка пользователя %s отклонена. ❌\nПричина: %s\nРешение принял: %s",
		s.userLink(applicantID, app.ApplicantName), reason, s.userLink(adminID, ""))
	if _, err := s.tg.SendMessage(s.cfg.SelectionChatID, announcement, &telebot.SendOptions{
		ParseMode:   telebot.ModeHTML,
		ReplyMarkup: unbanMarkup(applicantID),
	}); err != nil {
		s.logger.WithError(err).WithField("user_id", applicantID).Warn("failed to announce rejection")
	}

	if err := s.outcomeRepo.RecordFailed(ctx, &selection.FailedRecord{
		UserID:          applicantID,
		ProfileLink:     app.ProfileLink,
		ProgramLabel:    "Не указана",
		RejectionReason: reason,
		RejectedAt:      time.Now(),
	}); err != nil {
		s.logger.WithError(err).WithField("user_id", applicantID).Error("failed to record failed outcome")
		return fmt.Errorf("record failed outcome for %d: %w", applicantID, err)
	}
	if err := s.statusRepo.SetStatus(ctx, applicantID, selection.StatusFailed); err != nil {
		s.logger.WithError(err).WithField("user_id", applicantID).Error("failed to set failed status")
		return fmt.Errorf("set failed status for %d: %w", applicantID, err)
	}
	s.logger.WithFields(logrus.Fields{"user_id": applicantID, "admin_id": adminID, "reason": reasonCode}).Info("application rejected")
	return nil
}

// Unban resets a previously rejected or removed user so they may rejoin and
// apply again with a clean history.
func (s *AdminService) Unban(ctx context.Context, adminID, subjectID int64, panelMsgID int) error {
	if err := s.requireAdmin(adminID); err != nil {
		return err
	}

	if err := s.tg.Unban(s.cfg.SelectionChatID, subjectID); err != nil {
		s.logger.WithError(err).WithField("user_id", subjectID).Error("failed to unban user")
		return fmt.Errorf("unban user %d: %w", subjectID, err)
	}
	if err := s.statusRepo.Delete(ctx, subjectID); err != nil {
		s.logger.WithError(err).WithField("user_id", subjectID).Error("failed to delete selection status")
	}
	if err := s.outcomeRepo.DeleteFailed(ctx, subjectID); err != nil {
		s.logger.WithError(err).WithField("user_id", subjectID).Error("failed to delete failed outcome")
	}

	if _, err := s.tg.SendMessage(subjectID, fmt.Sprintf(
		"Вы снова можете попробовать пройти отбор! ♻️\nВозвращайтесь: %s", s.cfg.SelectionChatURL), nil); err != nil {
		s.logger.WithError(err).WithField("user_id", subjectID).Warn("failed to notify unbanned user")
	}

	if panelMsgID != 0 {
		text := fmt.Sprintf("Пользователь %s разблокирован администратором %s. ♻️",
			s.userLink(subjectID, ""), s.userLink(adminID, ""))
		if err := s.tg.EditMessageText(s.cfg.SelectionChatID, panelMsgID, text, nil); err != nil {
			s.logger.WithError(err).WithField("user_id", subjectID).Warn("failed to update unban panel")
		}
	}
	s.logger.WithFields(logrus.Fields{"user_id": subjectID, "admin_id": adminID}).Info("user unbanned and reset")
	return nil
}

// userLink resolves a display link for a user, preferring the live profile
// name, then the provided fallback name.
func (s *AdminService) userLink(userID int64, fallbackName string) string {
	info, err := s.tg.GetChat(userID)
	if err != nil {
		if fallbackName != "" {
			return formatNamedLink(userID, fallbackName)
		}
		return formatUserLink(nil, userID)
	}
	return formatUserLink(info, userID)
}
