package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"hatani_admin_bot/internal/domain/moderation"
	"hatani_admin_bot/internal/domain/selection"
	domainTelegram "hatani_admin_bot/internal/domain/telegram"
	"hatani_admin_bot/internal/infra/config"
	idb "hatani_admin_bot/internal/infra/database"
	"hatani_admin_bot/internal/infra/scheduler"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		SelectionChatID:    -1001,
		BotUsername:        "test_bot",
		AgreementURL:       "https://example.com/agreement",
		RulesURL:           "https://example.com/rules",
		CreatorProfileURL:  "https://t.me/creator",
		CreatorTikTokURL:   "https://www.tiktok.com/@creator",
		SelectionChatURL:   "https://t.me/selection",
		MuteDuration:       30 * time.Minute,
		InactiveKickDelay:  10 * time.Minute,
		MaxEditVideoBytes:  15 * 1024 * 1024,
		ScreenshotTimeout:  time.Second,
		ScreenshotCacheTTL: 15 * time.Minute,
	}
}

type sentMessage struct {
	chatID int64
	text   string
	markup *telebot.ReplyMarkup
	id     int
}

// fakeTelegram is a mutex-guarded in-memory stand-in for the platform
// client. Calls are recorded; per-call-family errors are injectable.
type fakeTelegram struct {
	mu     sync.Mutex
	nextID int

	sent       []sentMessage
	replies    []sentMessage
	photos     []sentMessage
	albums     []sentMessage
	edits      []sentMessage
	deleted    []int
	pinned     []int
	restricted map[int64]time.Time
	unres      []int64
	kicked     []int64
	unbanned   []int64

	admins map[int64]bool
	infos  map[int64]*domainTelegram.ChatInfo

	sendErr       error
	replyErr      error
	albumErr      error
	restrictErr   error
	unrestrictErr error
	kickErr       error
}

func newFakeTelegram() *fakeTelegram {
	return &fakeTelegram{
		nextID:     100,
		restricted: make(map[int64]time.Time),
		admins:     make(map[int64]bool),
		infos:      make(map[int64]*domainTelegram.ChatInfo),
	}
}

func (f *fakeTelegram) bump() int {
	f.nextID++
	return f.nextID
}

func (f *fakeTelegram) SendMessage(chatID int64, text string, opts *telebot.SendOptions) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return 0, f.sendErr
	}
	var markup *telebot.ReplyMarkup
	if opts != nil {
		markup = opts.ReplyMarkup
	}
	id := f.bump()
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text, markup: markup, id: id})
	return id, nil
}

func (f *fakeTelegram) SendReply(chatID int64, replyToID int, text string, markup *telebot.ReplyMarkup) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.replyErr != nil {
		return 0, f.replyErr
	}
	id := f.bump()
	f.replies = append(f.replies, sentMessage{chatID: chatID, text: text, markup: markup, id: id})
	return id, nil
}

func (f *fakeTelegram) SendPhoto(chatID int64, _ []byte, caption string, markup *telebot.ReplyMarkup) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.bump()
	f.photos = append(f.photos, sentMessage{chatID: chatID, text: caption, markup: markup, id: id})
	return id, nil
}

func (f *fakeTelegram) SendMediaGroup(chatID int64, _ []byte, _, caption string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.albumErr != nil {
		return 0, f.albumErr
	}
	id := f.bump()
	f.albums = append(f.albums, sentMessage{chatID: chatID, text: caption, id: id})
	return id, nil
}

func (f *fakeTelegram) EditMessageText(chatID int64, messageID int, text string, markup *telebot.ReplyMarkup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, sentMessage{chatID: chatID, text: text, markup: markup, id: messageID})
	return nil
}

func (f *fakeTelegram) DeleteMessage(_ int64, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeTelegram) PinMessage(_ int64, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pinned = append(f.pinned, messageID)
	return nil
}

func (f *fakeTelegram) RestrictUntil(_, userID int64, until time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.restrictErr != nil {
		return f.restrictErr
	}
	f.restricted[userID] = until
	return nil
}

func (f *fakeTelegram) Unrestrict(_, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unrestrictErr != nil {
		return f.unrestrictErr
	}
	f.unres = append(f.unres, userID)
	delete(f.restricted, userID)
	return nil
}

func (f *fakeTelegram) Kick(_, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.kickErr != nil {
		return f.kickErr
	}
	f.kicked = append(f.kicked, userID)
	return nil
}

func (f *fakeTelegram) Unban(_, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unbanned = append(f.unbanned, userID)
	return nil
}

func (f *fakeTelegram) GetChat(chatID int64) (*domainTelegram.ChatInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if info, ok := f.infos[chatID]; ok {
		return info, nil
	}
	return nil, errors.New("chat not found")
}

func (f *fakeTelegram) IsChatAdmin(_, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.admins[userID], nil
}

type fakeStatusRepo struct {
	mu   sync.Mutex
	recs map[int64]*selection.Record
}

func newFakeStatusRepo() *fakeStatusRepo {
	return &fakeStatusRepo{recs: make(map[int64]*selection.Record)}
}

func (r *fakeStatusRepo) SetStatus(_ context.Context, userID int64, status selection.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recs[userID]
	if !ok {
		rec = &selection.Record{UserID: userID}
		r.recs[userID] = rec
	}
	rec.Status = status
	rec.LastUpdate = time.Now()
	return nil
}

func (r *fakeStatusRepo) Get(_ context.Context, userID int64) (*selection.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recs[userID]
	if !ok {
		return nil, idb.ErrStatusNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeStatusRepo) MarkStartedPM(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recs[userID]
	if !ok {
		rec = &selection.Record{UserID: userID, Status: selection.StatusUnknown}
		r.recs[userID] = rec
	}
	rec.StartedPM = true
	return nil
}

func (r *fakeStatusRepo) Delete(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.recs, userID)
	return nil
}

func (r *fakeStatusRepo) status(userID int64) selection.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.recs[userID]; ok {
		return rec.Status
	}
	return selection.StatusUnknown
}

type fakeOutcomeRepo struct {
	mu     sync.Mutex
	passed map[int64]*selection.PassedRecord
	failed map[int64]*selection.FailedRecord
}

func newFakeOutcomeRepo() *fakeOutcomeRepo {
	return &fakeOutcomeRepo{
		passed: make(map[int64]*selection.PassedRecord),
		failed: make(map[int64]*selection.FailedRecord),
	}
}

func (r *fakeOutcomeRepo) RecordPassed(_ context.Context, rec *selection.PassedRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.passed[rec.UserID] = rec
	return nil
}

func (r *fakeOutcomeRepo) RecordFailed(_ context.Context, rec *selection.FailedRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed[rec.UserID] = rec
	return nil
}

func (r *fakeOutcomeRepo) DeleteFailed(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.failed, userID)
	return nil
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*selection.Session
	apps     map[int64]*selection.Application
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: make(map[int64]*selection.Session),
		apps:     make(map[int64]*selection.Application),
	}
}

func (s *fakeSessionStore) Get(_ context.Context, userID int64) (*selection.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, nil
	}
	cp := *sess
	return &cp, nil
}

func (s *fakeSessionStore) Save(_ context.Context, userID int64, sess *selection.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sess
	s.sessions[userID] = &cp
	return nil
}

func (s *fakeSessionStore) Clear(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

func (s *fakeSessionStore) SaveApplication(_ context.Context, userID int64, a *selection.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.apps[userID] = &cp
	return nil
}

func (s *fakeSessionStore) TakeApplication(_ context.Context, userID int64) (*selection.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.apps[userID]
	if !ok {
		return nil, nil
	}
	delete(s.apps, userID)
	return a, nil
}

type fakeBlobCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeBlobCache() *fakeBlobCache {
	return &fakeBlobCache{data: make(map[string][]byte)}
}

func (c *fakeBlobCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *fakeBlobCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *fakeBlobCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

type fakeCapturer struct {
	shot []byte
	err  error
}

func (c *fakeCapturer) Capture(context.Context, string) ([]byte, error) {
	return c.shot, c.err
}

// fakeTimers satisfies both KickTimers and MuteTimers, keeping armed
// actions so tests can fire them by hand.
type fakeTimers struct {
	mu               sync.Mutex
	kickActions      map[int64]scheduler.KickAction
	kickDelays       map[int64]time.Duration
	cancelledKicks   []int64
	armedUnmutes     map[[2]int64]time.Time
	cancelledUnmutes [][2]int64
}

func newFakeTimers() *fakeTimers {
	return &fakeTimers{
		kickActions:  make(map[int64]scheduler.KickAction),
		kickDelays:   make(map[int64]time.Duration),
		armedUnmutes: make(map[[2]int64]time.Time),
	}
}

func (t *fakeTimers) ArmKick(userID int64, delay time.Duration, action scheduler.KickAction) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.kickActions[userID] = action
	t.kickDelays[userID] = delay
}

func (t *fakeTimers) CancelKick(userID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.kickActions[userID]
	delete(t.kickActions, userID)
	t.cancelledKicks = append(t.cancelledKicks, userID)
	return ok
}

func (t *fakeTimers) ArmUnmute(userID, chatID int64, deadline time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.armedUnmutes[[2]int64{userID, chatID}] = deadline
}

func (t *fakeTimers) CancelUnmute(userID, chatID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := [2]int64{userID, chatID}
	_, ok := t.armedUnmutes[key]
	delete(t.armedUnmutes, key)
	t.cancelledUnmutes = append(t.cancelledUnmutes, key)
	return ok
}

func (t *fakeTimers) fireKick(ctx context.Context, userID int64) bool {
	t.mu.Lock()
	action, ok := t.kickActions[userID]
	t.mu.Unlock()
	if !ok {
		return false
	}
	action(ctx)
	return true
}

type fakeAppMuteRepo struct {
	mu    sync.Mutex
	mutes map[[2]int64]*moderation.Mute
}

func newFakeAppMuteRepo() *fakeAppMuteRepo {
	return &fakeAppMuteRepo{mutes: make(map[[2]int64]*moderation.Mute)}
}

func (r *fakeAppMuteRepo) Upsert(_ context.Context, m *moderation.Mute) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.mutes[[2]int64{m.UserID, m.ChatID}] = &cp
	return nil
}

func (r *fakeAppMuteRepo) Get(_ context.Context, userID, chatID int64) (*moderation.Mute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.mutes[[2]int64{userID, chatID}]
	if !ok {
		return nil, idb.ErrMuteNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeAppMuteRepo) Remove(_ context.Context, userID, chatID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.mutes, [2]int64{userID, chatID})
	return nil
}

func (r *fakeAppMuteRepo) ListActive(context.Context) ([]*moderation.Mute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*moderation.Mute, 0, len(r.mutes))
	for _, m := range r.mutes {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeAppMuteRepo) has(userID, chatID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.mutes[[2]int64{userID, chatID}]
	return ok
}

type fakeExemptRepo struct {
	mu     sync.Mutex
	exempt map[int64]bool
}

func newFakeExemptRepo() *fakeExemptRepo {
	return &fakeExemptRepo{exempt: make(map[int64]bool)}
}

func (r *fakeExemptRepo) IsExempt(_ context.Context, adminID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exempt[adminID], nil
}

func (r *fakeExemptRepo) SetExempt(_ context.Context, adminID int64, exempt bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exempt[adminID] = exempt
	return nil
}
