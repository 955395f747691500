//go:build integration

package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jobitter/jobitter-backend/internal/types"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	db, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("Failed to ensure schema: %v", err)
	}

	return db
}

func strPtr(s string) *string { return &s }

func TestIntegration_AlertProfile_CRUD(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	created, err := db.CreateAlertProfile(ctx, &AlertProfileCreateInput{
		Positions:        []string{"Data Analyst", "Analytics Engineer"},
		Skills:           []string{"SQL", "Python"},
		PreferredCountry: "Germany",
		WebhookURL:       strPtr("https://hooks.test.example.com/alerts"),
		IsActive:         true,
	})
	if err != nil {
		t.Fatalf("CreateAlertProfile failed: %v", err)
	}
	defer func() { _, _ = db.DeleteAlertProfile(ctx, created.ID) }()

	if created.ID == uuid.Nil {
		t.Error("profile ID should not be nil")
	}
	if created.LastAlertedAt != nil {
		t.Error("LastAlertedAt should start unset")
	}

	t.Run("get by id", func(t *testing.T) {
		got, err := db.GetAlertProfile(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetAlertProfile failed: %v", err)
		}
		if got == nil {
			t.Fatal("expected profile, got nil")
		}
		if len(got.Positions) != 2 || got.Positions[0] != "Data Analyst" {
			t.Errorf("Positions = %v", got.Positions)
		}
	})

	t.Run("get missing id returns nil", func(t *testing.T) {
		got, err := db.GetAlertProfile(ctx, uuid.New())
		if err != nil {
			t.Fatalf("GetAlertProfile failed: %v", err)
		}
		if got != nil {
			t.Error("expected nil for missing profile")
		}
	})

	t.Run("listed as active", func(t *testing.T) {
		active, err := db.ListActiveAlertProfiles(ctx)
		if err != nil {
			t.Fatalf("ListActiveAlertProfiles failed: %v", err)
		}
		found := false
		for _, p := range active {
			if p.ID == created.ID {
				found = true
			}
		}
		if !found {
			t.Error("created profile should be listed as active")
		}
	})

	t.Run("partial update", func(t *testing.T) {
		inactive := false
		updated, err := db.UpdateAlertProfile(ctx, created.ID, &AlertProfileUpdateInput{
			IsActive: &inactive,
		})
		if err != nil {
			t.Fatalf("UpdateAlertProfile failed: %v", err)
		}
		if updated.IsActive {
			t.Error("profile should be inactive after update")
		}
		if updated.PreferredCountry != "Germany" {
			t.Errorf("PreferredCountry changed unexpectedly: %q", updated.PreferredCountry)
		}
	})

	t.Run("touch last alerted", func(t *testing.T) {
		at := time.Now().UTC().Truncate(time.Second)
		if err := db.TouchLastAlertedAt(ctx, created.ID, at); err != nil {
			t.Fatalf("TouchLastAlertedAt failed: %v", err)
		}
		got, err := db.GetAlertProfile(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetAlertProfile failed: %v", err)
		}
		if got.LastAlertedAt == nil || !got.LastAlertedAt.Equal(at) {
			t.Errorf("LastAlertedAt = %v, want %v", got.LastAlertedAt, at)
		}
	})

	t.Run("delete", func(t *testing.T) {
		deleted, err := db.DeleteAlertProfile(ctx, created.ID)
		if err != nil {
			t.Fatalf("DeleteAlertProfile failed: %v", err)
		}
		if !deleted {
			t.Error("expected a row to be deleted")
		}
	})
}

func TestIntegration_CandidateProfile_CRUD(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	profile := types.CandidateProfile{
		Name:   "Jane Doe",
		Email:  "jane@test.example.com",
		Skills: []string{"SQL"},
	}

	record, err := db.SaveCandidateProfile(ctx, profile, strPtr("resume.pdf"))
	if err != nil {
		t.Fatalf("SaveCandidateProfile failed: %v", err)
	}
	defer func() { _, _ = db.DeleteCandidateProfile(ctx, record.ID) }()

	if record.Profile.Name != "Jane Doe" {
		t.Errorf("Profile.Name = %q", record.Profile.Name)
	}

	t.Run("update replaces profile", func(t *testing.T) {
		profile.Summary = "Updated summary."
		updated, err := db.UpdateCandidateProfile(ctx, record.ID, profile)
		if err != nil {
			t.Fatalf("UpdateCandidateProfile failed: %v", err)
		}
		if updated.Profile.Summary != "Updated summary." {
			t.Errorf("Summary = %q", updated.Profile.Summary)
		}
	})

	t.Run("get missing id returns nil", func(t *testing.T) {
		got, err := db.GetCandidateProfile(ctx, uuid.New())
		if err != nil {
			t.Fatalf("GetCandidateProfile failed: %v", err)
		}
		if got != nil {
			t.Error("expected nil for missing record")
		}
	})

	t.Run("list contains record", func(t *testing.T) {
		records, err := db.ListCandidateProfiles(ctx)
		if err != nil {
			t.Fatalf("ListCandidateProfiles failed: %v", err)
		}
		found := false
		for _, r := range records {
			if r.ID == record.ID {
				found = true
			}
		}
		if !found {
			t.Error("saved record should be listed")
		}
	})
}
