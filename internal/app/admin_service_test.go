package app

import (
	"context"
	"strings"
	"testing"

	"hatani_admin_bot/internal/domain/selection"
)

type adminFixture struct {
	svc      *AdminService
	statuses *fakeStatusRepo
	outcomes *fakeOutcomeRepo
	sessions *fakeSessionStore
	tg       *fakeTelegram
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		statuses: newFakeStatusRepo(),
		outcomes: newFakeOutcomeRepo(),
		sessions: newFakeSessionStore(),
		tg:       newFakeTelegram(),
	}
	f.svc = NewAdminService(f.statuses, f.outcomes, f.sessions, f.tg, testConfig(), testLogger())
	return f
}

func TestDecisionsRequireChatAdmin(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	if err := f.svc.Approve(ctx, 7, 42, 300, 299); err != ErrAdminNotAuthorized {
		t.Errorf("Approve by non-admin = %v, want ErrAdminNotAuthorized", err)
	}
	if err := f.svc.RequestRejection(ctx, 7, 42, 300, "panel"); err != ErrAdminNotAuthorized {
		t.Errorf("RequestRejection by non-admin = %v, want ErrAdminNotAuthorized", err)
	}
	if err := f.svc.Reject(ctx, 7, 42, 300, 299, "tech"); err != ErrAdminNotAuthorized {
		t.Errorf("Reject by non-admin = %v, want ErrAdminNotAuthorized", err)
	}
	if err := f.svc.Unban(ctx, 7, 42, 300); err != ErrAdminNotAuthorized {
		t.Errorf("Unban by non-admin = %v, want ErrAdminNotAuthorized", err)
	}
}

func TestApproveRecordsOutcome(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()
	f.tg.admins[7] = true
	f.sessions.SaveApplication(ctx, 42, &selection.Application{
		ProfileLink:   "https://www.tiktok.com/@vasya",
		ApplicantName: "Вася",
	})

	if err := f.svc.Approve(ctx, 7, 42, 300, 299); err != nil {
		t.Fatalf("Approve returned error: %v", err)
	}

	rec := f.outcomes.passed[42]
	if rec == nil || rec.ProfileLink != "https://www.tiktok.com/@vasya" {
		t.Errorf("passed record = %+v", rec)
	}
	if got := f.statuses.status(42); got != selection.StatusPassed {
		t.Errorf("status = %s, want %s", got, selection.StatusPassed)
	}
	for _, id := range []int{300, 299} {
		found := false
		for _, d := range f.tg.deleted {
			if d == id {
				found = true
			}
		}
		if !found {
			t.Errorf("review message %d was not deleted", id)
		}
	}
	if app, _ := f.sessions.TakeApplication(ctx, 42); app != nil {
		t.Error("application payload survived the decision")
	}
}

func TestRejectUnknownReason(t *testing.T) {
	f := newAdminFixture()
	f.tg.admins[7] = true
	if err := f.svc.Reject(context.Background(), 7, 42, 300, 299, "nonsense"); err != ErrUnknownRejectionReason {
		t.Errorf("Reject with bad reason = %v, want ErrUnknownRejectionReason", err)
	}
}

func TestRejectRecordsFailureAndRemovesApplicant(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()
	f.tg.admins[7] = true
	f.sessions.SaveApplication(ctx, 42, &selection.Application{
		ProfileLink:   "https://www.tiktok.com/@vasya",
		ApplicantName: "Вася",
	})

	if err := f.svc.Reject(ctx, 7, 42, 300, 299, "tech"); err != nil {
		t.Fatalf("Reject returned error: %v", err)
	}

	rec := f.outcomes.failed[42]
	if rec == nil || rec.RejectionReason != "Техническое качество" {
		t.Errorf("failed record = %+v", rec)
	}
	if got := f.statuses.status(42); got != selection.StatusFailed {
		t.Errorf("status = %s, want %s", got, selection.StatusFailed)
	}
	if len(f.tg.kicked) != 1 || f.tg.kicked[0] != 42 {
		t.Errorf("kicked = %v, want [42]", f.tg.kicked)
	}
	// The in-chat announcement carries the unban control.
	var announcement *sentMessage
	for i := range f.tg.sent {
		if f.tg.sent[i].chatID == testConfig().SelectionChatID && f.tg.sent[i].markup != nil {
			announcement = &f.tg.sent[i]
		}
	}
	if announcement == nil {
		t.Fatal("rejection announcement with unban button was not posted")
	}
	if !strings.Contains(announcement.text, "Техническое качество") {
		t.Errorf("announcement misses the reason: %q", announcement.text)
	}
}

func TestUnbanResetsHistory(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()
	f.tg.admins[7] = true
	f.statuses.SetStatus(ctx, 42, selection.StatusFailed)
	f.outcomes.RecordFailed(ctx, &selection.FailedRecord{UserID: 42, RejectionReason: "Другое"})

	if err := f.svc.Unban(ctx, 7, 42, 300); err != nil {
		t.Fatalf("Unban returned error: %v", err)
	}
	if len(f.tg.unbanned) != 1 || f.tg.unbanned[0] != 42 {
		t.Errorf("unbanned = %v, want [42]", f.tg.unbanned)
	}
	if _, err := f.statuses.Get(ctx, 42); err == nil {
		t.Error("status row survived the reset")
	}
	if f.outcomes.failed[42] != nil {
		t.Error("failed outcome survived the reset")
	}
}

func TestRequestRejectionShowsReasons(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()
	f.tg.admins[7] = true

	if err := f.svc.RequestRejection(ctx, 7, 42, 300, "Заявка на рассмотрении"); err != nil {
		t.Fatalf("RequestRejection returned error: %v", err)
	}
	if len(f.tg.edits) != 1 || f.tg.edits[0].id != 300 {
		t.Fatalf("panel was not edited, edits: %+v", f.tg.edits)
	}
	if f.tg.edits[0].markup == nil || len(f.tg.edits[0].markup.InlineKeyboard) != len(rejectionReasons) {
		t.Error("reason keyboard does not list every rejection reason")
	}
	if f.outcomes.failed[42] != nil {
		t.Error("first reject stage already recorded an outcome")
	}
}
