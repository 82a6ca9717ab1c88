package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hatani_admin_bot/internal/domain/moderation"
)

var ErrMuteNotFound = fmt.Errorf("active mute not found")

type PostgresMuteRepository struct {
	db *sql.DB
}

func NewPostgresMuteRepository(db *sql.DB) *PostgresMuteRepository {
	return &PostgresMuteRepository{db: db}
}

func (r *PostgresMuteRepository) Upsert(ctx context.Context, mute *moderation.Mute) error {
	query := `INSERT INTO active_mutes (user_id, chat_id, unmute_at, notification_message_id)
               VALUES ($1, $2, $3, $4)
               ON CONFLICT (user_id, chat_id) DO UPDATE
               SET unmute_at = $3, notification_message_id = $4`

	var msgID sql.NullInt32
	if mute.NotificationMessageID != 0 {
		msgID = sql.NullInt32{Int32: int32(mute.NotificationMessageID), Valid: true}
	}
	if _, err := r.db.ExecContext(ctx, query, mute.UserID, mute.ChatID, mute.UnmuteAt.Unix(), msgID); err != nil {
		return fmt.Errorf("error upserting mute: %w", err)
	}
	return nil
}

func (r *PostgresMuteRepository) Get(ctx context.Context, userID, chatID int64) (*moderation.Mute, error) {
	query := `SELECT user_id, chat_id, unmute_at, notification_message_id
               FROM active_mutes WHERE user_id = $1 AND chat_id = $2`

	var unmuteAt int64
	var msgID sql.NullInt32
	m := &moderation.Mute{}
	err := r.db.QueryRowContext(ctx, query, userID, chatID).Scan(&m.UserID, &m.ChatID, &unmuteAt, &msgID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrMuteNotFound
		}
		return nil, fmt.Errorf("error getting mute: %w", err)
	}
	m.UnmuteAt = time.Unix(unmuteAt, 0)
	if msgID.Valid {
		m.NotificationMessageID = int(msgID.Int32)
	}
	return m, nil
}

func (r *PostgresMuteRepository) Remove(ctx context.Context, userID, chatID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM active_mutes WHERE user_id = $1 AND chat_id = $2`, userID, chatID); err != nil {
		return fmt.Errorf("error removing mute: %w", err)
	}
	return nil
}

func (r *PostgresMuteRepository) ListActive(ctx context.Context) ([]*moderation.Mute, error) {
	query := `SELECT user_id, chat_id, unmute_at, notification_message_id FROM active_mutes ORDER BY unmute_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing active mutes: %w", err)
	}
	defer rows.Close()

	mutes := make([]*moderation.Mute, 0)
	for rows.Next() {
		var unmuteAt int64
		var msgID sql.NullInt32
		m := &moderation.Mute{}
		if err := rows.Scan(&m.UserID, &m.ChatID, &unmuteAt, &msgID); err != nil {
			return nil, fmt.Errorf("error scanning mute: %w", err)
		}
		m.UnmuteAt = time.Unix(unmuteAt, 0)
		if msgID.Valid {
			m.NotificationMessageID = int(msgID.Int32)
		}
		mutes = append(mutes, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating active mutes: %w", err)
	}
	return mutes, nil
}
