package database

import (
	"context"
	"database/sql"
	"fmt"
)

type PostgresExemptionRepository struct {
	db *sql.DB
}

func NewPostgresExemptionRepository(db *sql.DB) *PostgresExemptionRepository {
	return &PostgresExemptionRepository{db: db}
}

func (r *PostgresExemptionRepository) IsExempt(ctx context.Context, adminID int64) (bool, error) {
	var exempt bool
	err := r.db.QueryRowContext(ctx, `SELECT exempt FROM admin_exemptions WHERE admin_id = $1`, adminID).Scan(&exempt)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil // default: not exempt
		}
		return false, fmt.Errorf("error getting admin exemption: %w", err)
	}
	return exempt, nil
}

func (r *PostgresExemptionRepository) SetExempt(ctx context.Context, adminID int64, exempt bool) error {
	query := `INSERT INTO admin_exemptions (admin_id, exempt) VALUES ($1, $2)
               ON CONFLICT (admin_id) DO UPDATE SET exempt = $2`

	if _, err := r.db.ExecContext(ctx, query, adminID, exempt); err != nil {
		return fmt.Errorf("error setting admin exemption: %w", err)
	}
	return nil
}
