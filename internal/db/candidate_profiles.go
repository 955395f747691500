package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jobitter/jobitter-backend/internal/types"
)

// CandidateProfileRecord is a saved candidate profile with storage metadata.
type CandidateProfileRecord struct {
	ID             uuid.UUID              `json:"id"`
	Profile        types.CandidateProfile `json:"profile"`
	ResumeFileName *string                `json:"resume_file_name,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// SaveCandidateProfile stores a parsed profile and returns the record.
func (db *DB) SaveCandidateProfile(ctx context.Context, profile types.CandidateProfile, resumeFileName *string) (*CandidateProfileRecord, error) {
	encoded, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}

	var r CandidateProfileRecord
	var profileJSON []byte
	err = db.pool.QueryRow(ctx,
		`INSERT INTO candidate_profiles (profile, resume_file_name)
		 VALUES ($1, $2)
		 RETURNING id, profile, resume_file_name, created_at, updated_at`,
		encoded, resumeFileName,
	).Scan(&r.ID, &profileJSON, &r.ResumeFileName, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save candidate profile: %w", err)
	}

	if err := json.Unmarshal(profileJSON, &r.Profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &r, nil
}

// UpdateCandidateProfile replaces a stored profile. Returns nil when no
// record with that ID exists.
func (db *DB) UpdateCandidateProfile(ctx context.Context, id uuid.UUID, profile types.CandidateProfile) (*CandidateProfileRecord, error) {
	encoded, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}

	var r CandidateProfileRecord
	var profileJSON []byte
	err = db.pool.QueryRow(ctx,
		`UPDATE candidate_profiles SET profile = $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING id, profile, resume_file_name, created_at, updated_at`,
		id, encoded,
	).Scan(&r.ID, &profileJSON, &r.ResumeFileName, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update candidate profile: %w", err)
	}

	if err := json.Unmarshal(profileJSON, &r.Profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &r, nil
}

// GetCandidateProfile retrieves a saved profile by ID. Returns nil when no
// record with that ID exists.
func (db *DB) GetCandidateProfile(ctx context.Context, id uuid.UUID) (*CandidateProfileRecord, error) {
	var r CandidateProfileRecord
	var profileJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, profile, resume_file_name, created_at, updated_at
		 FROM candidate_profiles WHERE id = $1`,
		id,
	).Scan(&r.ID, &profileJSON, &r.ResumeFileName, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate profile: %w", err)
	}

	if err := json.Unmarshal(profileJSON, &r.Profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &r, nil
}

// ListCandidateProfiles returns all saved profiles, newest first.
func (db *DB) ListCandidateProfiles(ctx context.Context) ([]*CandidateProfileRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, profile, resume_file_name, created_at, updated_at
		 FROM candidate_profiles ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate profiles: %w", err)
	}
	defer rows.Close()

	var records []*CandidateProfileRecord
	for rows.Next() {
		var r CandidateProfileRecord
		var profileJSON []byte
		if err := rows.Scan(&r.ID, &profileJSON, &r.ResumeFileName, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan candidate profile: %w", err)
		}
		if err := json.Unmarshal(profileJSON, &r.Profile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
		}
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candidate profiles: %w", err)
	}
	return records, nil
}

// DeleteCandidateProfile removes a saved profile. Reports whether a row was
// deleted.
func (db *DB) DeleteCandidateProfile(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM candidate_profiles WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete candidate profile: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
