// internal/infra/session/redis_session_store.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hatani_admin_bot/internal/domain/selection"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix     = "session:"
	applicationKeyPrefix = "application:"

	// sessionTTL bounds abandoned sessions; normal flow clears explicitly.
	sessionTTL = 24 * time.Hour
	// applicationTTL keeps the structured applicant payload alive until an
	// admin decides. Decisions normally happen within hours.
	applicationTTL = 7 * 24 * time.Hour
)

// RedisSessionStore keeps workflow sessions and pending application payloads
// in Redis, JSON-encoded.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Get(ctx context.Context, userID int64) (*selection.Session, error) {
	raw, err := s.client.Get(ctx, fmt.Sprintf("%s%d", sessionKeyPrefix, userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading session for user %d: %w", userID, err)
	}
	sess := &selection.Session{}
	if err := json.Unmarshal(raw, sess); err != nil {
		return nil, fmt.Errorf("error decoding session for user %d: %w", userID, err)
	}
	return sess, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, userID int64, sess *selection.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("error encoding session for user %d: %w", userID, err)
	}
	if err := s.client.Set(ctx, fmt.Sprintf("%s%d", sessionKeyPrefix, userID), raw, sessionTTL).Err(); err != nil {
		return fmt.Errorf("error saving session for user %d: %w", userID, err)
	}
	return nil
}

func (s *RedisSessionStore) Clear(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, fmt.Sprintf("%s%d", sessionKeyPrefix, userID)).Err(); err != nil {
		return fmt.Errorf("error clearing session for user %d: %w", userID, err)
	}
	return nil
}

func (s *RedisSessionStore) SaveApplication(ctx context.Context, userID int64, a *selection.Application) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("error encoding application for user %d: %w", userID, err)
	}
	if err := s.client.Set(ctx, fmt.Sprintf("%s%d", applicationKeyPrefix, userID), raw, applicationTTL).Err(); err != nil {
		return fmt.Errorf("error saving application for user %d: %w", userID, err)
	}
	return nil
}

func (s *RedisSessionStore) TakeApplication(ctx context.Context, userID int64) (*selection.Application, error) {
	key := fmt.Sprintf("%s%d", applicationKeyPrefix, userID)
	raw, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading application for user %d: %w", userID, err)
	}
	app := &selection.Application{}
	if err := json.Unmarshal(raw, app); err != nil {
		return nil, fmt.Errorf("error decoding application for user %d: %w", userID, err)
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return nil, fmt.Errorf("error removing application for user %d: %w", userID, err)
	}
	return app, nil
}
