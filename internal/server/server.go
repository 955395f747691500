// Package server provides the HTTP REST API for the job search backend.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jobitter/jobitter-backend/internal/alerts"
	"github.com/jobitter/jobitter-backend/internal/db"
	"github.com/jobitter/jobitter-backend/internal/llm"
	"github.com/jobitter/jobitter-backend/internal/logger"
	"github.com/jobitter/jobitter-backend/internal/profile"
	"github.com/jobitter/jobitter-backend/internal/search"
	"github.com/jobitter/jobitter-backend/internal/server/ratelimit"
	"github.com/jobitter/jobitter-backend/internal/types"
)

// Config holds server configuration
type Config struct {
	Port          int
	DatabaseURL   string
	GeminiAPIKey  string
	SearchAPIKey  string
	AlertSchedule string
}

// profileService is what the profile handlers need.
type profileService interface {
	Parse(ctx context.Context, resumeText, fileName string) (types.CandidateProfile, error)
	Enhance(ctx context.Context, current types.CandidateProfile) (types.CandidateProfile, error)
	SuggestCareerPaths(ctx context.Context, current types.CandidateProfile) ([]types.CareerPath, error)
}

// jobSearcher is what the search handler needs.
type jobSearcher interface {
	Search(ctx context.Context, profile types.CandidateProfile, positions []string, country string) ([]types.JobPosting, error)
}

// alertRunner triggers one alert batch.
type alertRunner interface {
	RunOnce(ctx context.Context) (int, error)
}

// alertScheduler runs recurring alert batches until its context ends.
type alertScheduler interface {
	Start(ctx context.Context, schedule string) error
}

// storage is the subset of db.DB the CRUD handlers use.
type storage interface {
	CreateAlertProfile(ctx context.Context, input *db.AlertProfileCreateInput) (*db.AlertProfile, error)
	GetAlertProfile(ctx context.Context, id uuid.UUID) (*db.AlertProfile, error)
	ListAlertProfiles(ctx context.Context) ([]*db.AlertProfile, error)
	UpdateAlertProfile(ctx context.Context, id uuid.UUID, input *db.AlertProfileUpdateInput) (*db.AlertProfile, error)
	DeleteAlertProfile(ctx context.Context, id uuid.UUID) (bool, error)

	SaveCandidateProfile(ctx context.Context, profile types.CandidateProfile, resumeFileName *string) (*db.CandidateProfileRecord, error)
	GetCandidateProfile(ctx context.Context, id uuid.UUID) (*db.CandidateProfileRecord, error)
	ListCandidateProfiles(ctx context.Context) ([]*db.CandidateProfileRecord, error)
	UpdateCandidateProfile(ctx context.Context, id uuid.UUID, profile types.CandidateProfile) (*db.CandidateProfileRecord, error)
	DeleteCandidateProfile(ctx context.Context, id uuid.UUID) (bool, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer   *http.Server
	database     *db.DB
	llmClient    llm.Client
	profiles     profileService
	searcher     jobSearcher
	alerts       alertRunner
	cron         alertScheduler
	cronSchedule string
	store        storage
	rateLimiter  *ratelimit.Limiter
}

// New creates a fully wired server instance.
func New(ctx context.Context, cfg Config) (*Server, error) {
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}

	llmClient, err := llm.NewClient(ctx, llm.ConfigFromEnv(), cfg.GeminiAPIKey)
	if err != nil {
		database.Close()
		return nil, err
	}

	provider, err := search.NewSerperProvider(cfg.SearchAPIKey)
	if err != nil {
		database.Close()
		_ = llmClient.Close()
		return nil, err
	}

	aggregator := search.NewAggregator(provider, llmClient).WithEnrichment(nil)
	scheduler := alerts.NewScheduler(database, aggregator, alerts.NewWebhookClient())

	s := newServer(cfg, profile.NewExtractor(llmClient), aggregator, scheduler, database)
	s.database = database
	s.llmClient = llmClient
	s.cron = scheduler
	s.cronSchedule = cfg.AlertSchedule
	return s, nil
}

// newServer wires routing and middleware around the given services.
func newServer(cfg Config, profiles profileService, searcher jobSearcher, alertsRunner alertRunner, store storage) *Server {
	s := &Server{
		profiles:    profiles,
		searcher:    searcher,
		alerts:      alertsRunner,
		store:       store,
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /resume/parse", s.handleParseResume)
	mux.HandleFunc("POST /profile/enhance", s.handleEnhanceProfile)
	mux.HandleFunc("POST /profile/career-paths", s.handleCareerPaths)
	mux.HandleFunc("POST /jobs/search", s.handleJobSearch)
	mux.HandleFunc("POST /alerts/run", s.handleRunAlerts)

	mux.HandleFunc("POST /alert-profiles", s.handleCreateAlertProfile)
	mux.HandleFunc("GET /alert-profiles", s.handleListAlertProfiles)
	mux.HandleFunc("GET /alert-profiles/{id}", s.handleGetAlertProfile)
	mux.HandleFunc("PATCH /alert-profiles/{id}", s.handleUpdateAlertProfile)
	mux.HandleFunc("DELETE /alert-profiles/{id}", s.handleDeleteAlertProfile)

	mux.HandleFunc("POST /candidate-profiles", s.handleSaveCandidateProfile)
	mux.HandleFunc("GET /candidate-profiles", s.handleListCandidateProfiles)
	mux.HandleFunc("GET /candidate-profiles/{id}", s.handleGetCandidateProfile)
	mux.HandleFunc("PUT /candidate-profiles/{id}", s.handleUpdateCandidateProfile)
	mux.HandleFunc("DELETE /candidate-profiles/{id}", s.handleDeleteCandidateProfile)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening for requests and blocks until shutdown. When an
// alert schedule is configured, the recurring alert batch runs alongside the
// HTTP server and stops with it.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	cronCtx, cancelCron := context.WithCancel(context.Background())
	defer cancelCron()
	if s.cron != nil && s.cronSchedule != "" {
		go func() {
			if err := s.cron.Start(cronCtx, s.cronSchedule); err != nil {
				logger.Error().Err(err).Msg("alert scheduler failed")
			}
		}()
	}

	go func() {
		logger.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}()

	<-stop
	logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.llmClient != nil {
		_ = s.llmClient.Close()
	}
	if s.database != nil {
		s.database.Close()
	}

	logger.Info().Msg("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients that exceed their request budget.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r))

		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
		}

		if !allowed {
			s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// extractClientID identifies a client by IP address.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).Msg("error encoding JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
