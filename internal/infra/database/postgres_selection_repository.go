package database

import (
	"context"
	"database/sql"
	"fmt"

	"hatani_admin_bot/internal/domain/selection"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors
var ErrStatusNotFound = fmt.Errorf("selection status not found")

type PostgresSelectionRepository struct {
	db *sql.DB
}

func NewPostgresSelectionRepository(db *sql.DB) *PostgresSelectionRepository {
	return &PostgresSelectionRepository{db: db}
}

func (r *PostgresSelectionRepository) SetStatus(ctx context.Context, userID int64, status selection.Status) error {
	query := `INSERT INTO selection_statuses (user_id, status, last_update, started_pm)
               VALUES ($1, $2, NOW(), FALSE)
               ON CONFLICT (user_id) DO UPDATE SET status = $2, last_update = NOW()`

	if _, err := r.db.ExecContext(ctx, query, userID, status); err != nil {
		return fmt.Errorf("error setting selection status: %w", err)
	}
	return nil
}

func (r *PostgresSelectionRepository) Get(ctx context.Context, userID int64) (*selection.Record, error) {
	query := `SELECT user_id, status, last_update, started_pm
               FROM selection_statuses WHERE user_id = $1`
	rec := &selection.Record{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&rec.UserID, &rec.Status, &rec.LastUpdate, &rec.StartedPM)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStatusNotFound
		}
		return nil, fmt.Errorf("error getting selection status: %w", err)
	}
	return rec, nil
}

func (r *PostgresSelectionRepository) MarkStartedPM(ctx context.Context, userID int64) error {
	// The user may start the private chat before ever joining the chat, so
	// the row is created on demand with an unknown status.
	query := `INSERT INTO selection_statuses (user_id, status, last_update, started_pm)
               VALUES ($1, $2, NOW(), TRUE)
               ON CONFLICT (user_id) DO UPDATE SET started_pm = TRUE`

	if _, err := r.db.ExecContext(ctx, query, userID, selection.StatusUnknown); err != nil {
		return fmt.Errorf("error marking started_pm: %w", err)
	}
	return nil
}

func (r *PostgresSelectionRepository) Delete(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM selection_statuses WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("error deleting selection status: %w", err)
	}
	return nil
}
