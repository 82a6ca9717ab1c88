package database

import (
	"context"
	"database/sql"
	"fmt"

	"hatani_admin_bot/internal/domain/selection"
)

type PostgresOutcomeRepository struct {
	db *sql.DB
}

func NewPostgresOutcomeRepository(db *sql.DB) *PostgresOutcomeRepository {
	return &PostgresOutcomeRepository{db: db}
}

func (r *PostgresOutcomeRepository) RecordPassed(ctx context.Context, rec *selection.PassedRecord) error {
	query := `INSERT INTO passed_users (user_id, profile_link, program_label, approved_at)
               VALUES ($1, $2, $3, $4)
               ON CONFLICT (user_id) DO UPDATE
               SET profile_link = $2, program_label = $3, approved_at = $4`

	if _, err := r.db.ExecContext(ctx, query, rec.UserID, rec.ProfileLink, rec.ProgramLabel, rec.ApprovedAt); err != nil {
		return fmt.Errorf("error recording passed user: %w", err)
	}
	return nil
}

func (r *PostgresOutcomeRepository) RecordFailed(ctx context.Context, rec *selection.FailedRecord) error {
	query := `INSERT INTO failed_users (user_id, profile_link, program_label, rejection_reason, rejected_at)
               VALUES ($1, $2, $3, $4, $5)
               ON CONFLICT (user_id) DO UPDATE
               SET profile_link = $2, program_label = $3, rejection_reason = $4, rejected_at = $5`

	if _, err := r.db.ExecContext(ctx, query, rec.UserID, rec.ProfileLink, rec.ProgramLabel, rec.RejectionReason, rec.RejectedAt); err != nil {
		return fmt.Errorf("error recording failed user: %w", err)
	}
	return nil
}

func (r *PostgresOutcomeRepository) DeleteFailed(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM failed_users WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("error deleting failed record: %w", err)
	}
	return nil
}
