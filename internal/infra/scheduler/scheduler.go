package scheduler

import (
	"context"
	"sync"
	"time"

	"hatani_admin_bot/internal/domain/moderation"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// KickAction runs when an inactivity kick timer fires. The closure re-checks
// the current persisted status before acting.
type KickAction func(ctx context.Context)

// UnmuteAction lifts a mute and reports success. It removes the stored row
// itself, whether or not the platform call succeeded.
type UnmuteAction func(ctx context.Context, userID, chatID int64) bool

type muteKey struct {
	userID int64
	chatID int64
}

// TimerScheduler owns two keyed families of deferred one-shot actions:
// inactivity kicks keyed by user, and unmutes keyed by (user, chat).
// Arming an existing key cancels the old timer first; the mutex makes
// cancel-then-install atomic per key. In-memory timer handles are a
// liveness optimization only; the mute table is reconciled on startup and
// periodically by a cron sweep.
type TimerScheduler struct {
	mu      sync.Mutex
	kicks   map[int64]*time.Timer
	unmutes map[muteKey]*time.Timer

	muteRepo     moderation.MuteRepository
	unmuteAction UnmuteAction

	cronEngine    *cron.Cron
	cronSpecSweep string
	logger        *logrus.Entry
}

func NewTimerScheduler(muteRepo moderation.MuteRepository, cronSpecSweep string, logger *logrus.Entry) *TimerScheduler {
	return &TimerScheduler{
		kicks:         make(map[int64]*time.Timer),
		unmutes:       make(map[muteKey]*time.Timer),
		muteRepo:      muteRepo,
		cronEngine:    cron.New(cron.WithLocation(time.Local)),
		cronSpecSweep: cronSpecSweep,
		logger:        logger,
	}
}

// SetUnmuteAction wires the moderation unmute path. Must be called before
// Start or any ArmUnmute; kept as a setter because the moderation service
// itself arms timers through this scheduler.
func (s *TimerScheduler) SetUnmuteAction(fn UnmuteAction) {
	s.unmuteAction = fn
}

// ArmKick schedules action after delay for userID, replacing any existing
// kick timer for the same user.
func (s *TimerScheduler) ArmKick(userID int64, delay time.Duration, action KickAction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.kicks[userID]; ok {
		t.Stop()
		s.logger.WithField("user_id", userID).Info("Existing kick timer replaced")
	}
	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		// A replacement may have been armed while this callback waited on
		// the mutex; only clear the slot if it still holds this timer.
		s.mu.Lock()
		if s.kicks[userID] == t {
			delete(s.kicks, userID)
		}
		s.mu.Unlock()
		s.runProtected("kick", func() { action(context.Background()) })
	})
	s.kicks[userID] = t
	s.logger.WithFields(logrus.Fields{"user_id": userID, "delay": delay.String()}).Info("Kick timer armed")
}

// CancelKick stops a pending kick timer. Idempotent; reports whether a live
// timer was actually cancelled.
func (s *TimerScheduler) CancelKick(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.kicks[userID]
	if !ok {
		return false
	}
	delete(s.kicks, userID)
	stopped := t.Stop()
	s.logger.WithFields(logrus.Fields{"user_id": userID, "stopped": stopped}).Info("Kick timer cancelled")
	return stopped
}

// ArmUnmute schedules the unmute action for the absolute deadline, replacing
// any existing timer for the same (user, chat) pair. A deadline already in
// the past runs the action immediately, in this call.
func (s *TimerScheduler) ArmUnmute(userID, chatID int64, deadline time.Time) {
	delay := time.Until(deadline)
	if delay <= 0 {
		s.logger.WithFields(logrus.Fields{"user_id": userID, "chat_id": chatID}).Info("Unmute deadline already passed, unmuting now")
		s.runProtected("unmute", func() { s.fireUnmute(userID, chatID) })
		return
	}

	key := muteKey{userID: userID, chatID: chatID}
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.unmutes[key]; ok {
		t.Stop()
		s.logger.WithFields(logrus.Fields{"user_id": userID, "chat_id": chatID}).Info("Existing unmute timer replaced")
	}
	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.unmutes[key] == t {
			delete(s.unmutes, key)
		}
		s.mu.Unlock()
		s.runProtected("unmute", func() { s.fireUnmute(userID, chatID) })
	})
	s.unmutes[key] = t
	s.logger.WithFields(logrus.Fields{"user_id": userID, "chat_id": chatID, "delay": delay.String()}).Info("Unmute timer armed")
}

// CancelUnmute stops a pending unmute timer. Idempotent.
func (s *TimerScheduler) CancelUnmute(userID, chatID int64) bool {
	key := muteKey{userID: userID, chatID: chatID}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.unmutes[key]
	if !ok {
		return false
	}
	delete(s.unmutes, key)
	stopped := t.Stop()
	s.logger.WithFields(logrus.Fields{"user_id": userID, "chat_id": chatID, "stopped": stopped}).Info("Unmute timer cancelled")
	return stopped
}

func (s *TimerScheduler) fireUnmute(userID, chatID int64) {
	if s.unmuteAction == nil {
		s.logger.Error("Unmute timer fired but no unmute action is wired")
		return
	}
	if !s.unmuteAction(context.Background(), userID, chatID) {
		s.logger.WithFields(logrus.Fields{"user_id": userID, "chat_id": chatID}).Warn("Scheduled unmute did not fully succeed")
	}
}

// ReconcileMutes aligns timers with the persisted mute table: rows with a
// future deadline are (re-)armed, past-due rows are unmuted immediately.
// A past-due row is removed even when the unmute call fails, so stale rows
// cannot survive forever.
func (s *TimerScheduler) ReconcileMutes(ctx context.Context) {
	mutes, err := s.muteRepo.ListActive(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list active mutes for reconciliation")
		return
	}

	now := time.Now()
	rearmed, expired := 0, 0
	for _, m := range mutes {
		if m.UnmuteAt.After(now) {
			s.ArmUnmute(m.UserID, m.ChatID, m.UnmuteAt)
			rearmed++
			continue
		}
		expired++
		s.logger.WithFields(logrus.Fields{"user_id": m.UserID, "chat_id": m.ChatID}).Info("Mute expired while offline, unmuting")
		s.runProtected("unmute", func() { s.fireUnmute(m.UserID, m.ChatID) })
		// The action removes the row itself; this covers action failure.
		if err := s.muteRepo.Remove(ctx, m.UserID, m.ChatID); err != nil {
			s.logger.WithError(err).WithField("user_id", m.UserID).Error("Failed to remove expired mute row")
		}
	}
	s.logger.WithFields(logrus.Fields{"rearmed": rearmed, "expired": expired}).Info("Mute reconciliation finished")
}

// Start runs the periodic reconciliation sweep.
func (s *TimerScheduler) Start() error {
	_, err := s.cronEngine.AddFunc(s.cronSpecSweep, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		s.ReconcileMutes(ctx)
	})
	if err != nil {
		return err
	}
	s.cronEngine.Start()
	s.logger.WithField("spec", s.cronSpecSweep).Info("Mute sweep scheduled")
	return nil
}

// Stop cancels every outstanding timer and the sweep. Safe to call once at
// shutdown; never panics.
func (s *TimerScheduler) Stop() {
	ctx := s.cronEngine.Stop()
	<-ctx.Done()

	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, t := range s.kicks {
		t.Stop()
		delete(s.kicks, userID)
	}
	for key, t := range s.unmutes {
		t.Stop()
		delete(s.unmutes, key)
	}
	s.logger.Info("Scheduler stopped, all timers cancelled")
}

// runProtected keeps a panicking action from taking down the timer
// machinery; the failure is logged and the slot stays cleared.
func (s *TimerScheduler) runProtected(family string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("family", family).Errorf("Timer action panicked: %v", r)
		}
	}()
	fn()
}
