package scheduler

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"hatani_admin_bot/internal/domain/moderation"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// fakeMuteRepo is a mutex-guarded in-memory MuteRepository.
type fakeMuteRepo struct {
	mu    sync.Mutex
	mutes map[[2]int64]*moderation.Mute
}

func newFakeMuteRepo() *fakeMuteRepo {
	return &fakeMuteRepo{mutes: make(map[[2]int64]*moderation.Mute)}
}

func (r *fakeMuteRepo) Upsert(_ context.Context, m *moderation.Mute) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutes[[2]int64{m.UserID, m.ChatID}] = m
	return nil
}

func (r *fakeMuteRepo) Get(_ context.Context, userID, chatID int64) (*moderation.Mute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.mutes[[2]int64{userID, chatID}]
	if !ok {
		return nil, errors.New("mute not found")
	}
	return m, nil
}

func (r *fakeMuteRepo) Remove(_ context.Context, userID, chatID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.mutes, [2]int64{userID, chatID})
	return nil
}

func (r *fakeMuteRepo) ListActive(_ context.Context) ([]*moderation.Mute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*moderation.Mute, 0, len(r.mutes))
	for _, m := range r.mutes {
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeMuteRepo) has(userID, chatID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.mutes[[2]int64{userID, chatID}]
	return ok
}

// counter is a tiny thread-safe call recorder.
type counter struct {
	mu sync.Mutex
	n  int
}

func (c *counter) inc() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *counter) value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

func TestArmKickReplacesExistingTimer(t *testing.T) {
	s := NewTimerScheduler(newFakeMuteRepo(), "@every 1h", testLogger())
	defer s.Stop()

	var first, second counter
	s.ArmKick(100, 20*time.Millisecond, func(context.Context) { first.inc() })
	s.ArmKick(100, 20*time.Millisecond, func(context.Context) { second.inc() })

	time.Sleep(80 * time.Millisecond)

	if first.value() != 0 {
		t.Errorf("replaced kick action ran %d times, want 0", first.value())
	}
	if second.value() != 1 {
		t.Errorf("current kick action ran %d times, want 1", second.value())
	}
}

func TestCancelKickIsIdempotent(t *testing.T) {
	s := NewTimerScheduler(newFakeMuteRepo(), "@every 1h", testLogger())
	defer s.Stop()

	if s.CancelKick(200) {
		t.Error("cancelling an absent kick timer reported a cancellation")
	}

	var fired counter
	s.ArmKick(200, 30*time.Millisecond, func(context.Context) { fired.inc() })
	if !s.CancelKick(200) {
		t.Error("cancelling a pending kick timer reported nothing cancelled")
	}
	if s.CancelKick(200) {
		t.Error("second cancel reported a cancellation")
	}

	time.Sleep(60 * time.Millisecond)
	if fired.value() != 0 {
		t.Errorf("cancelled kick action ran %d times, want 0", fired.value())
	}
}

func TestArmUnmutePastDeadlineRunsImmediately(t *testing.T) {
	s := NewTimerScheduler(newFakeMuteRepo(), "@every 1h", testLogger())
	defer s.Stop()

	var fired counter
	s.SetUnmuteAction(func(_ context.Context, userID, chatID int64) bool {
		if userID != 300 || chatID != -1 {
			t.Errorf("unmute fired for (%d, %d), want (300, -1)", userID, chatID)
		}
		fired.inc()
		return true
	})

	s.ArmUnmute(300, -1, time.Now().Add(-time.Minute))

	if fired.value() != 1 {
		t.Fatalf("past-due unmute ran %d times, want 1 synchronous run", fired.value())
	}
}

func TestArmUnmuteReplacesExistingTimer(t *testing.T) {
	s := NewTimerScheduler(newFakeMuteRepo(), "@every 1h", testLogger())
	defer s.Stop()

	var fired counter
	s.SetUnmuteAction(func(context.Context, int64, int64) bool {
		fired.inc()
		return true
	})

	s.ArmUnmute(400, -1, time.Now().Add(20*time.Millisecond))
	s.ArmUnmute(400, -1, time.Now().Add(40*time.Millisecond))

	time.Sleep(100 * time.Millisecond)
	if fired.value() != 1 {
		t.Errorf("unmute ran %d times after re-arm, want 1", fired.value())
	}
}

func TestReconcileMutesRemovesPastDueRowsEvenOnFailure(t *testing.T) {
	repo := newFakeMuteRepo()
	past := &moderation.Mute{UserID: 1, ChatID: -1, UnmuteAt: time.Now().Add(-time.Hour)}
	future := &moderation.Mute{UserID: 2, ChatID: -1, UnmuteAt: time.Now().Add(30 * time.Millisecond)}
	repo.Upsert(context.Background(), past)
	repo.Upsert(context.Background(), future)

	s := NewTimerScheduler(repo, "@every 1h", testLogger())
	defer s.Stop()

	var fired counter
	s.SetUnmuteAction(func(_ context.Context, userID, _ int64) bool {
		fired.inc()
		// The past-due unmute fails; its row must be removed anyway.
		return userID != 1
	})

	s.ReconcileMutes(context.Background())

	if fired.value() != 1 {
		t.Fatalf("reconciliation ran %d unmutes immediately, want 1", fired.value())
	}
	if repo.has(1, -1) {
		t.Error("past-due mute row survived reconciliation despite removal guarantee")
	}
	if !repo.has(2, -1) {
		t.Error("future mute row was removed during reconciliation")
	}

	time.Sleep(80 * time.Millisecond)
	if fired.value() != 2 {
		t.Errorf("future mute did not fire after its deadline, total runs %d, want 2", fired.value())
	}
}

func TestFiredKickCallbackDoesNotEvictReplacementTimer(t *testing.T) {
	s := NewTimerScheduler(newFakeMuteRepo(), "@every 1h", testLogger())
	defer s.Stop()

	// Re-arm right as the old timer fires: the stale callback must not
	// clear the replacement's slot, or CancelKick loses track of a live
	// timer. Iterate to hit the interleaving.
	for i := 0; i < 200; i++ {
		s.ArmKick(600, 30*time.Microsecond, func(context.Context) {})
		time.Sleep(30 * time.Microsecond)

		var replacement counter
		s.ArmKick(600, time.Hour, func(context.Context) { replacement.inc() })
		if !s.CancelKick(600) {
			t.Fatalf("iteration %d: replacement kick timer vanished before cancellation", i)
		}
		if replacement.value() != 0 {
			t.Fatalf("iteration %d: hour-long replacement action ran", i)
		}
	}
}

func TestFiredUnmuteCallbackDoesNotEvictReplacementTimer(t *testing.T) {
	s := NewTimerScheduler(newFakeMuteRepo(), "@every 1h", testLogger())
	defer s.Stop()
	s.SetUnmuteAction(func(context.Context, int64, int64) bool { return true })

	for i := 0; i < 200; i++ {
		s.ArmUnmute(700, -1, time.Now().Add(30*time.Microsecond))
		time.Sleep(30 * time.Microsecond)

		s.ArmUnmute(700, -1, time.Now().Add(time.Hour))
		if !s.CancelUnmute(700, -1) {
			t.Fatalf("iteration %d: replacement unmute timer vanished before cancellation", i)
		}
	}
}

func TestPanickingActionDoesNotKillScheduler(t *testing.T) {
	s := NewTimerScheduler(newFakeMuteRepo(), "@every 1h", testLogger())
	defer s.Stop()

	s.ArmKick(500, time.Millisecond, func(context.Context) { panic("boom") })
	time.Sleep(30 * time.Millisecond)

	var fired counter
	s.ArmKick(501, time.Millisecond, func(context.Context) { fired.inc() })
	time.Sleep(30 * time.Millisecond)

	if fired.value() != 1 {
		t.Errorf("scheduler did not run actions after a panic, runs %d, want 1", fired.value())
	}
}
