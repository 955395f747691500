// Package alerts runs the recurring job-alert batch: for every active alert
// profile it searches for fresh postings, renders a digest, and delivers it
// to the profile's webhook. A profile's last_alerted_at timestamp advances
// only after its digest was actually delivered.
package alerts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/jobitter/jobitter-backend/internal/db"
	"github.com/jobitter/jobitter-backend/internal/logger"
	"github.com/jobitter/jobitter-backend/internal/search"
	"github.com/jobitter/jobitter-backend/internal/types"
)

// Store is the alert-profile storage the scheduler needs.
type Store interface {
	ListActiveAlertProfiles(ctx context.Context) ([]*db.AlertProfile, error)
	TouchLastAlertedAt(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Searcher finds fresh postings for one alert profile.
type Searcher interface {
	SearchForAlert(ctx context.Context, profile types.CandidateProfile, positions []string, country string) ([]types.JobPosting, error)
}

// Deliverer posts a digest payload to a webhook URL.
type Deliverer interface {
	Deliver(ctx context.Context, url string, payload Payload) error
}

// Scheduler processes alert profiles in batches.
type Scheduler struct {
	store    Store
	searcher Searcher
	webhook  Deliverer
	now      func() time.Time
}

// NewScheduler creates a Scheduler over the given store, searcher and
// webhook client.
func NewScheduler(store Store, searcher Searcher, webhook Deliverer) *Scheduler {
	return &Scheduler{
		store:    store,
		searcher: searcher,
		webhook:  webhook,
		now:      time.Now,
	}
}

// RunOnce processes every active alert profile and returns how many were
// loaded. A failure in one profile never stops the rest of the batch; only
// loading the profiles themselves is fatal.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	profiles, err := s.store.ListActiveAlertProfiles(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load alert profiles: %w", err)
	}

	logger.Info().Int("profiles", len(profiles)).Msg("starting alert batch")

	for _, profile := range profiles {
		s.process(ctx, profile)
	}

	return len(profiles), nil
}

func (s *Scheduler) process(ctx context.Context, profile *db.AlertProfile) {
	log := logger.Logger.With().Str("profile_id", profile.ID.String()).Logger()

	if profile.WebhookURL == nil || *profile.WebhookURL == "" {
		log.Debug().Msg("profile has no webhook, skipping")
		return
	}

	candidate := types.CandidateProfile{Skills: profile.Skills}
	jobs, err := s.searcher.SearchForAlert(ctx, candidate, profile.Positions, profile.PreferredCountry)
	if err != nil {
		var noPositions *search.NoPositionsError
		if errors.As(err, &noPositions) {
			log.Debug().Msg("profile has no positions, skipping")
			return
		}
		log.Error().Err(err).Msg("alert search failed")
		return
	}

	if len(jobs) == 0 {
		log.Debug().Msg("no matching jobs, nothing to deliver")
		return
	}

	payload := Payload{
		Message:   Digest(jobs),
		Jobs:      jobs,
		ProfileID: profile.ID.String(),
		Timestamp: s.now().UTC(),
	}

	if err := s.webhook.Deliver(ctx, *profile.WebhookURL, payload); err != nil {
		log.Error().Err(err).Msg("webhook delivery failed")
		return
	}

	if err := s.store.TouchLastAlertedAt(ctx, profile.ID, s.now().UTC()); err != nil {
		log.Error().Err(err).Msg("failed to record delivery time")
		return
	}

	log.Info().Int("jobs", len(jobs)).Msg("alert delivered")
}

// Start runs batches on the given cron schedule until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context, spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if _, err := s.RunOnce(ctx); err != nil {
			logger.Error().Err(err).Msg("alert batch failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}

	c.Start()
	logger.Info().Str("schedule", spec).Msg("alert scheduler started")

	<-ctx.Done()
	stopped := c.Stop()
	<-stopped.Done()
	return nil
}
