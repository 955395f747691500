package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const alertProfileColumns = `id, positions, skills, preferred_country, webhook_url,
	is_active, last_alerted_at, created_at, updated_at`

// CreateAlertProfile stores a new alert profile and returns it.
func (db *DB) CreateAlertProfile(ctx context.Context, input *AlertProfileCreateInput) (*AlertProfile, error) {
	var p AlertProfile
	err := db.pool.QueryRow(ctx,
		`INSERT INTO alert_profiles (positions, skills, preferred_country, webhook_url, is_active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+alertProfileColumns,
		input.Positions, input.Skills, input.PreferredCountry, input.WebhookURL, input.IsActive,
	).Scan(&p.ID, &p.Positions, &p.Skills, &p.PreferredCountry, &p.WebhookURL,
		&p.IsActive, &p.LastAlertedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create alert profile: %w", err)
	}
	return &p, nil
}

// GetAlertProfile retrieves an alert profile by ID. Returns nil when no
// profile with that ID exists.
func (db *DB) GetAlertProfile(ctx context.Context, id uuid.UUID) (*AlertProfile, error) {
	var p AlertProfile
	err := db.pool.QueryRow(ctx,
		`SELECT `+alertProfileColumns+` FROM alert_profiles WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Positions, &p.Skills, &p.PreferredCountry, &p.WebhookURL,
		&p.IsActive, &p.LastAlertedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get alert profile: %w", err)
	}
	return &p, nil
}

// ListAlertProfiles returns all alert profiles, newest first.
func (db *DB) ListAlertProfiles(ctx context.Context) ([]*AlertProfile, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+alertProfileColumns+` FROM alert_profiles ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list alert profiles: %w", err)
	}
	defer rows.Close()

	return scanAlertProfiles(rows)
}

// ListActiveAlertProfiles returns the profiles the scheduler should process:
// active ones with a webhook to deliver to.
func (db *DB) ListActiveAlertProfiles(ctx context.Context) ([]*AlertProfile, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+alertProfileColumns+`
		 FROM alert_profiles
		 WHERE is_active AND webhook_url IS NOT NULL
		 ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active alert profiles: %w", err)
	}
	defer rows.Close()

	return scanAlertProfiles(rows)
}

// UpdateAlertProfile applies a partial update and returns the updated row.
// Returns nil when no profile with that ID exists.
func (db *DB) UpdateAlertProfile(ctx context.Context, id uuid.UUID, input *AlertProfileUpdateInput) (*AlertProfile, error) {
	var p AlertProfile
	err := db.pool.QueryRow(ctx,
		`UPDATE alert_profiles SET
			positions = COALESCE($2, positions),
			skills = COALESCE($3, skills),
			preferred_country = COALESCE($4, preferred_country),
			webhook_url = COALESCE($5, webhook_url),
			is_active = COALESCE($6, is_active),
			updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+alertProfileColumns,
		id, input.Positions, input.Skills, input.PreferredCountry, input.WebhookURL, input.IsActive,
	).Scan(&p.ID, &p.Positions, &p.Skills, &p.PreferredCountry, &p.WebhookURL,
		&p.IsActive, &p.LastAlertedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update alert profile: %w", err)
	}
	return &p, nil
}

// DeleteAlertProfile removes an alert profile. Reports whether a row was
// deleted.
func (db *DB) DeleteAlertProfile(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM alert_profiles WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete alert profile: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// TouchLastAlertedAt records a successful digest delivery.
func (db *DB) TouchLastAlertedAt(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE alert_profiles SET last_alerted_at = $2, updated_at = NOW() WHERE id = $1`,
		id, at)
	if err != nil {
		return fmt.Errorf("failed to update last_alerted_at: %w", err)
	}
	return nil
}

func scanAlertProfiles(rows pgx.Rows) ([]*AlertProfile, error) {
	var profiles []*AlertProfile
	for rows.Next() {
		var p AlertProfile
		if err := rows.Scan(&p.ID, &p.Positions, &p.Skills, &p.PreferredCountry, &p.WebhookURL,
			&p.IsActive, &p.LastAlertedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert profile: %w", err)
		}
		profiles = append(profiles, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read alert profiles: %w", err)
	}
	return profiles, nil
}
