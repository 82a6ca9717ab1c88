// internal/app/selection_service.go
package app

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"hatani_admin_bot/internal/domain/selection"
	domainTelegram "hatani_admin_bot/internal/domain/telegram"
	"hatani_admin_bot/internal/infra/config"
	idb "hatani_admin_bot/internal/infra/database"
	"hatani_admin_bot/internal/infra/scheduler"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// Application-level errors surfaced to the callback handlers as alerts.
var ErrForeignButton = fmt.Errorf("button belongs to a different user")
var ErrPMNotConfirmed = fmt.Errorf("private contact with the bot is not confirmed")
var ErrAlreadyCompleted = fmt.Errorf("selection already completed for this user")
var ErrAlreadyInProgress = fmt.Errorf("an application is already in progress")
var ErrOnboardingFailed = fmt.Errorf("could not finish onboarding")

// KickTimers is the subset of the timer engine the selection flow arms.
type KickTimers interface {
	ArmKick(userID int64, delay time.Duration, action scheduler.KickAction)
	CancelKick(userID int64) bool
}

// ScreenshotCapturer renders a profile page to image bytes.
type ScreenshotCapturer interface {
	Capture(ctx context.Context, profileURL string) ([]byte, error)
}

// BlobCache holds screenshot bytes between capture and publication.
type BlobCache interface {
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// SelectionService drives the whole applicant workflow: the join gate, the
// onboarding steps, and the application (link, screenshot, video) up to
// publication in the review channel.
type SelectionService struct {
	statusRepo selection.StatusRepository
	sessions   selection.SessionStore
	blobs      BlobCache
	capturer   ScreenshotCapturer
	tg         domainTelegram.Client
	timers     KickTimers
	cfg        *config.AppConfig
	logger     *logrus.Entry
}

func NewSelectionService(
	statusRepo selection.StatusRepository,
	sessions selection.SessionStore,
	blobs BlobCache,
	capturer ScreenshotCapturer,
	tg domainTelegram.Client,
	timers KickTimers,
	cfg *config.AppConfig,
	logger *logrus.Entry,
) *SelectionService {
	return &SelectionService{
		statusRepo: statusRepo,
		sessions:   sessions,
		blobs:      blobs,
		capturer:   capturer,
		tg:         tg,
		timers:     timers,
		cfg:        cfg,
		logger:     logger,
	}
}

// HandleNewMember runs the join gate: returning finished users get their
// permissions back silently, everyone else is restricted, greeted with the
// verification prompt, and put on the inactivity kick timer.
func (s *SelectionService) HandleNewMember(ctx context.Context, userID int64, firstName string) error {
	chatID := s.cfg.SelectionChatID

	rec, err := s.statusRepo.Get(ctx, userID)
	if err != nil && err != idb.ErrStatusNotFound {
		s.logger.WithError(err).WithField("user_id", userID).Error("status lookup failed on join, treating user as new")
	}
	if rec != nil {
		switch rec.Status {
		case selection.StatusPassed, selection.StatusFailed, selection.StatusInactiveKick:
			if err := s.tg.Unrestrict(chatID, userID); err != nil {
				s.logger.WithError(err).WithField("user_id", userID).Error("failed to restore permissions for returning user")
			}
			s.logger.WithFields(logrus.Fields{"user_id": userID, "status": rec.Status}).Info("returning user rejoined, onboarding skipped")
			return nil
		}
	}

	if err := s.tg.RestrictUntil(chatID, userID, time.Time{}); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to restrict new member")
		return fmt.Errorf("restrict new member %d: %w", userID, err)
	}

	welcome := fmt.Sprintf(
		"Привет, %s! 👋\n\n"+
			"Добро пожаловать в чат отбора. Прежде чем писать, пройди проверку:\n\n"+
			"1️⃣ Нажми «Я не бот» и запусти бота в личных сообщениях.\n"+
			"2️⃣ Вернись сюда и нажми «Я подтвердил».\n\n"+
			"⏳ На это есть %d минут, иначе бот удалит тебя из чата.",
		firstName, int(s.cfg.InactiveKickDelay.Minutes()),
	)
	promptID, err := s.tg.SendMessage(chatID, welcome, &telebot.SendOptions{
		ReplyMarkup: verificationMarkup(s.cfg.BotUsername, userID),
	})
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to send verification prompt")
		return fmt.Errorf("send verification prompt: %w", err)
	}

	if err := s.statusRepo.SetStatus(ctx, userID, selection.StatusPending); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to set pending status")
	}

	s.timers.ArmKick(userID, s.cfg.InactiveKickDelay, func(kickCtx context.Context) {
		s.runInactiveKick(kickCtx, userID, firstName, promptID)
	})
	s.logger.WithFields(logrus.Fields{"user_id": userID, "delay": s.cfg.InactiveKickDelay}).Info("new member restricted, kick timer armed")
	return nil
}

// runInactiveKick fires when the verification window expires. The status is
// re-checked at fire time: any progress since arming makes this a no-op.
func (s *SelectionService) runInactiveKick(ctx context.Context, userID int64, firstName string, promptID int) {
	chatID := s.cfg.SelectionChatID

	rec, err := s.statusRepo.Get(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("kick guard status lookup failed, skipping kick")
		return
	}
	if rec.Status != selection.StatusPending || rec.StartedPM {
		s.logger.WithFields(logrus.Fields{"user_id": userID, "status": rec.Status, "started_pm": rec.StartedPM}).Info("kick superseded by user progress")
		return
	}

	// Best effort: the user may never have opened the private chat.
	if _, err := s.tg.SendMessage(userID,
		"Вы были удалены из чата отбора, так как не прошли проверку вовремя. "+
			"Вы можете вернуться по ссылке и попробовать снова: "+s.cfg.SelectionChatURL, nil); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("could not notify kicked user privately")
	}

	if err := s.tg.Kick(chatID, userID); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("inactivity kick failed")
		return
	}
	if err := s.statusRepo.SetStatus(ctx, userID, selection.StatusInactiveKick); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to set inactive_kick status")
	}
	kicked := fmt.Sprintf("Пользователь %s удален из чата.\nПричина: не прошел проверку за отведенное время.",
		formatNamedLink(userID, firstName))
	if err := s.tg.EditMessageText(chatID, promptID, kicked, nil); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("failed to edit verification prompt after kick")
	}
	s.logger.WithField("user_id", userID).Info("user kicked for inactivity")
}

// HandlePrivateStart marks that the user has opened the private channel.
func (s *SelectionService) HandlePrivateStart(ctx context.Context, userID int64) error {
	if err := s.statusRepo.MarkStartedPM(ctx, userID); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to mark private contact")
		return fmt.Errorf("mark private contact for %d: %w", userID, err)
	}
	if _, err := s.tg.SendMessage(userID,
		"Отлично, связь установлена! ✅\n\nТеперь вернитесь в чат отбора и нажмите «Я подтвердил».", nil); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("failed to confirm private start")
	}
	return nil
}

// ConfirmVerification handles the «Я подтвердил» press under the welcome
// message. Only the subject may press, and only after private contact.
func (s *SelectionService) ConfirmVerification(ctx context.Context, presserID, subjectID int64, messageID int) error {
	if presserID != subjectID {
		return ErrForeignButton
	}
	rec, err := s.statusRepo.Get(ctx, subjectID)
	if err != nil {
		if err == idb.ErrStatusNotFound {
			return ErrPMNotConfirmed
		}
		return fmt.Errorf("status lookup for %d: %w", subjectID, err)
	}
	if !rec.StartedPM {
		return ErrPMNotConfirmed
	}

	s.timers.CancelKick(subjectID)

	text := "Шаг 1 из 2: Пользовательское соглашение 📄\n\n" +
		"Ознакомьтесь с соглашением по кнопке ниже и подтвердите принятие."
	if err := s.tg.EditMessageText(s.cfg.SelectionChatID, messageID, text, agreementMarkup(s.cfg.AgreementURL, subjectID)); err != nil {
		s.logger.WithError(err).WithField("user_id", subjectID).Error("failed to show agreement step")
		return fmt.Errorf("show agreement step: %w", err)
	}
	if err := s.sessions.Save(ctx, subjectID, &selection.Session{State: selection.StateAwaitingAgreement}); err != nil {
		s.logger.WithError(err).WithField("user_id", subjectID).Error("failed to save onboarding session")
	}
	if err := s.statusRepo.SetStatus(ctx, subjectID, selection.StatusStarted); err != nil {
		s.logger.WithError(err).WithField("user_id", subjectID).Error("failed to set started status")
	}
	return nil
}

// ConfirmAgreement advances from the agreement step to the rules step.
func (s *SelectionService) ConfirmAgreement(ctx context.Context, presserID, subjectID int64, messageID int) error {
	if presserID != subjectID {
		return ErrForeignButton
	}
	text := "Шаг 2 из 2: Правила отбора 📜\n\n" +
		"Ознакомьтесь с правилами по кнопке ниже и подтвердите."
	if err := s.tg.EditMessageText(s.cfg.SelectionChatID, messageID, text, rulesMarkup(s.cfg.RulesURL, subjectID)); err != nil {
		s.logger.WithError(err).WithField("user_id", subjectID).Error("failed to show rules step")
		return fmt.Errorf("show rules step: %w", err)
	}
	if err := s.sessions.Save(ctx, subjectID, &selection.Session{State: selection.StateAwaitingRules}); err != nil {
		s.logger.WithError(err).WithField("user_id", subjectID).Error("failed to advance onboarding session")
	}
	return nil
}

// ConfirmRules finishes onboarding: speaking rights are restored and the
// main menu replaces the prompt. If unrestricting fails the onboarding
// session is dropped so the user can be re-onboarded cleanly.
func (s *SelectionService) ConfirmRules(ctx context.Context, presserID, subjectID int64, messageID int) error {
	if presserID != subjectID {
		return ErrForeignButton
	}
	if err := s.tg.Unrestrict(s.cfg.SelectionChatID, subjectID); err != nil {
		s.logger.WithError(err).WithField("user_id", subjectID).Error("failed to lift restriction at onboarding end")
		if clearErr := s.sessions.Clear(ctx, subjectID); clearErr != nil {
			s.logger.WithError(clearErr).WithField("user_id", subjectID).Warn("failed to clear session after unrestrict failure")
		}
		return ErrOnboardingFailed
	}

	status := selection.StatusStarted
	if rec, err := s.statusRepo.Get(ctx, subjectID); err == nil {
		status = rec.Status
	}
	text := "Проверка пройдена! 🎉\n\nТеперь вам доступен чат. Когда будете готовы, начинайте отбор."
	if err := s.tg.EditMessageText(s.cfg.SelectionChatID, messageID, text,
		mainMenuMarkup(status, s.cfg.CreatorProfileURL, s.cfg.CreatorTikTokURL)); err != nil {
		s.logger.WithError(err).WithField("user_id", subjectID).Error("failed to show main menu")
	}
	if err := s.sessions.Clear(ctx, subjectID); err != nil {
		s.logger.WithError(err).WithField("user_id", subjectID).Warn("failed to clear onboarding session")
	}
	s.logger.WithField("user_id", subjectID).Info("onboarding complete")
	return nil
}

// StartApplication reacts to «Начать отбор»: finished users and users with a
// live application are turned away, everyone else enters the link step.
func (s *SelectionService) StartApplication(ctx context.Context, userID int64, messageID int) error {
	rec, err := s.statusRepo.Get(ctx, userID)
	if err != nil && err != idb.ErrStatusNotFound {
		return fmt.Errorf("status lookup for %d: %w", userID, err)
	}
	if rec != nil && (rec.Status == selection.StatusPassed || rec.Status == selection.StatusFailed) {
		return ErrAlreadyCompleted
	}
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("session lookup failed on application start")
	}
	if rec != nil && rec.Status == selection.StatusStarted && sess != nil {
		return ErrAlreadyInProgress
	}

	text := "Отлично! 🚀\n\nОтправьте в чат ссылку на ваш TikTok профиль.\nПример: https://www.tiktok.com/@username"
	if err := s.tg.EditMessageText(s.cfg.SelectionChatID, messageID, text, nil); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to show link prompt")
		return fmt.Errorf("show link prompt: %w", err)
	}
	if err := s.sessions.Save(ctx, userID, &selection.Session{
		State:           selection.StateAwaitingTikTokLink,
		PromptMessageID: messageID,
	}); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to save application session")
		return fmt.Errorf("save application session: %w", err)
	}
	return nil
}

func validProfileLink(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "tiktok.com" || strings.HasSuffix(host, ".tiktok.com")
}

// ProcessProfileLink handles a text message while the user is on the link
// step: validates the link, captures a profile screenshot, and asks the
// user to confirm it is theirs.
func (s *SelectionService) ProcessProfileLink(ctx context.Context, userID int64, messageID int, text string) error {
	chatID := s.cfg.SelectionChatID
	link := strings.TrimSpace(text)

	if !validProfileLink(link) {
		if _, err := s.tg.SendReply(chatID, messageID,
			"Это не похоже на ссылку TikTok профиля. 🤔\nНужна ссылка вида https://www.tiktok.com/@username", nil); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Warn("failed to send invalid-link reply")
		}
		return nil
	}

	sess, err := s.sessions.Get(ctx, userID)
	if err != nil || sess == nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("session missing while processing profile link")
		return nil
	}

	// The link itself is personal data in a public chat, drop both the
	// prompt and the user's message.
	if sess.PromptMessageID != 0 {
		if err := s.tg.DeleteMessage(chatID, sess.PromptMessageID); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Warn("failed to delete link prompt")
		}
	}
	if err := s.tg.DeleteMessage(chatID, messageID); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("failed to delete link message")
	}

	waitID, err := s.tg.SendMessage(chatID, "Проверяю ссылку, секундочку... ⏳", nil)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("failed to send wait notice")
	}

	captureCtx, cancel := context.WithTimeout(ctx, s.cfg.ScreenshotTimeout)
	shot, captureErr := s.capturer.Capture(captureCtx, link)
	cancel()

	if waitID != 0 {
		if err := s.tg.DeleteMessage(chatID, waitID); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Warn("failed to delete wait notice")
		}
	}

	if captureErr != nil {
		s.logger.WithError(captureErr).WithFields(logrus.Fields{"user_id": userID, "link": link}).Error("profile screenshot failed")
		promptID, sendErr := s.tg.SendMessage(chatID,
			"Не получилось открыть профиль по этой ссылке. 😔\nПроверьте её и отправьте ссылку ещё раз.", nil)
		if sendErr != nil {
			s.logger.WithError(sendErr).WithField("user_id", userID).Error("failed to re-prompt for link")
			return nil
		}
		sess.PromptMessageID = promptID
		if err := s.sessions.Save(ctx, userID, sess); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Error("failed to save session after capture failure")
		}
		return nil
	}

	key := fmt.Sprintf("screenshot:%d", userID)
	if err := s.blobs.Set(ctx, key, shot, s.cfg.ScreenshotCacheTTL); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to cache screenshot")
	}

	shotMsgID, err := s.tg.SendPhoto(chatID, shot, "Это ваш профиль?", profileConfirmMarkup())
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to send screenshot confirmation")
		return fmt.Errorf("send screenshot confirmation: %w", err)
	}

	sess.State = selection.StateAwaitingProfileConfirm
	sess.ProfileLink = link
	sess.ScreenshotKey = key
	sess.ScreenshotMessageID = shotMsgID
	sess.PromptMessageID = 0
	if err := s.sessions.Save(ctx, userID, sess); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to save session after capture")
		return fmt.Errorf("save session after capture: %w", err)
	}
	return nil
}

// ConfirmProfileNo sends the user back to the link step.
func (s *SelectionService) ConfirmProfileNo(ctx context.Context, userID int64, messageID int) error {
	chatID := s.cfg.SelectionChatID
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil || sess == nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("session missing on profile rejection")
		return nil
	}
	if err := s.tg.DeleteMessage(chatID, messageID); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("failed to delete screenshot message")
	}
	if sess.ScreenshotKey != "" {
		if err := s.blobs.Delete(ctx, sess.ScreenshotKey); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Warn("failed to drop cached screenshot")
		}
	}
	promptID, err := s.tg.SendMessage(chatID, "Хорошо, отправьте правильную ссылку на ваш TikTok профиль.", nil)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to re-prompt for link")
		return fmt.Errorf("re-prompt for link: %w", err)
	}
	if err := s.sessions.Save(ctx, userID, &selection.Session{
		State:           selection.StateAwaitingTikTokLink,
		PromptMessageID: promptID,
	}); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to reset session to link step")
	}
	return nil
}

// ConfirmProfileYes advances to the video step.
func (s *SelectionService) ConfirmProfileYes(ctx context.Context, userID int64, messageID int) error {
	chatID := s.cfg.SelectionChatID
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil || sess == nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("session missing on profile confirmation")
		return nil
	}
	if err := s.tg.DeleteMessage(chatID, messageID); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("failed to delete screenshot message")
	}
	promptID, err := s.tg.SendMessage(chatID, fmt.Sprintf(
		"Принято! ✅\n\nТеперь отправьте ваш монтаж одним видео (до %d МБ).",
		s.cfg.MaxEditVideoBytes/(1024*1024)), nil)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to prompt for video")
		return fmt.Errorf("prompt for video: %w", err)
	}
	sess.State = selection.StateAwaitingEditVideo
	sess.PromptMessageID = promptID
	sess.ScreenshotMessageID = 0
	if err := s.sessions.Save(ctx, userID, sess); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to advance session to video step")
		return fmt.Errorf("advance session to video step: %w", err)
	}
	return nil
}

// ProcessEditVideo handles a video while the user is on the video step:
// enforces the size cap, then assembles and publishes the application with
// its pinned admin review panel. The session is cleared before publication;
// a failed publication is terminal (error_send).
func (s *SelectionService) ProcessEditVideo(ctx context.Context, userID int64, firstName string, messageID int, videoFileID string, videoSize int64) error {
	chatID := s.cfg.SelectionChatID

	if videoSize > s.cfg.MaxEditVideoBytes {
		if _, err := s.tg.SendReply(chatID, messageID, fmt.Sprintf(
			"Видео слишком большое. 📦 Максимум %d МБ, у вас примерно %d МБ.\nСожмите видео и отправьте снова.",
			s.cfg.MaxEditVideoBytes/(1024*1024), videoSize/(1024*1024)), nil); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Warn("failed to send oversize reply")
		}
		return nil
	}

	sess, err := s.sessions.Get(ctx, userID)
	if err != nil || sess == nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("session missing while processing video")
		return nil
	}

	if sess.PromptMessageID != 0 {
		if err := s.tg.DeleteMessage(chatID, sess.PromptMessageID); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Warn("failed to delete video prompt")
		}
	}
	if err := s.tg.DeleteMessage(chatID, messageID); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("failed to delete video message")
	}

	waitID, err := s.tg.SendMessage(chatID, "Видео принято! Формирую заявку... ⏳", nil)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("failed to send assembly notice")
	}

	shot, err := s.blobs.Get(ctx, sess.ScreenshotKey)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("screenshot lookup failed, publishing without it")
		shot = nil
	}
	if sess.ScreenshotKey != "" {
		if err := s.blobs.Delete(ctx, sess.ScreenshotKey); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Warn("failed to drop cached screenshot")
		}
	}

	profileLink := sess.ProfileLink
	if err := s.sessions.Clear(ctx, userID); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("failed to clear session before publication")
	}

	caption := fmt.Sprintf("📬 Новая заявка!\n\n👤 Участник: %s\n🎵 Профиль: %s",
		formatNamedLink(userID, firstName), profileLink)

	mediaMsgID, err := s.tg.SendMediaGroup(chatID, shot, videoFileID, caption)
	if err != nil {
		return s.failPublication(ctx, userID, waitID, err)
	}

	panelID, err := s.tg.SendReply(chatID, mediaMsgID, "Заявка на рассмотрении 👆", reviewPanelMarkup(userID, profileLink))
	if err != nil {
		return s.failPublication(ctx, userID, waitID, err)
	}
	if err := s.tg.PinMessage(chatID, panelID); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("failed to pin review panel")
	}

	if err := s.sessions.SaveApplication(ctx, userID, &selection.Application{
		ProfileLink:   profileLink,
		ApplicantName: firstName,
	}); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to store pending application payload")
	}

	if waitID != 0 {
		if err := s.tg.DeleteMessage(chatID, waitID); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Warn("failed to delete assembly notice")
		}
	}
	if _, err := s.tg.SendMessage(userID,
		"Ваша заявка отправлена на рассмотрение! 🎬\nМы сообщим о решении в личные сообщения.", nil); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("failed to confirm publication privately")
	}
	s.logger.WithField("user_id", userID).Info("application published")
	return nil
}

// failPublication finalizes a failed application publish: the state is
// terminal and the user is told to contact an admin.
func (s *SelectionService) failPublication(ctx context.Context, userID int64, waitID int, cause error) error {
	chatID := s.cfg.SelectionChatID
	s.logger.WithError(cause).WithField("user_id", userID).Error("application publication failed")

	if waitID != 0 {
		if err := s.tg.DeleteMessage(chatID, waitID); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Warn("failed to delete assembly notice")
		}
	}
	if err := s.statusRepo.SetStatus(ctx, userID, selection.StatusErrorSend); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to set error_send status")
	}
	if _, err := s.tg.SendMessage(userID,
		"Не удалось отправить вашу заявку. 😔\nПожалуйста, свяжитесь с администратором.", nil); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("failed to notify user of publication failure")
	}
	return fmt.Errorf("publish application for %d: %w", userID, cause)
}
