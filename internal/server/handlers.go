package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jobitter/jobitter-backend/internal/textextract"
	"github.com/jobitter/jobitter-backend/internal/types"
)

var validate = validator.New()

// decodeRequest decodes and validates a JSON request body.
func decodeRequest(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}

type parseResumeRequest struct {
	FileBase64 string `json:"file_base64" validate:"required"`
	FileName   string `json:"file_name" validate:"required"`
}

// handleParseResume extracts text from an uploaded resume file and parses it
// into a structured candidate profile.
func (s *Server) handleParseResume(w http.ResponseWriter, r *http.Request) {
	var req parseResumeRequest
	if err := decodeRequest(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.FileBase64)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "file_base64 is not valid base64")
		return
	}

	text, err := textextract.Extract(data, req.FileName)
	if err != nil {
		s.pipelineError(w, err)
		return
	}

	parsed, err := s.profiles.Parse(r.Context(), text, req.FileName)
	if err != nil {
		s.pipelineError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"profile": parsed})
}

type profileRequest struct {
	Profile types.CandidateProfile `json:"profile"`
}

// handleEnhanceProfile polishes an existing profile.
func (s *Server) handleEnhanceProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeRequest(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	enhanced, err := s.profiles.Enhance(r.Context(), req.Profile)
	if err != nil {
		s.pipelineError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"profile": enhanced})
}

// handleCareerPaths suggests career moves for a profile.
func (s *Server) handleCareerPaths(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeRequest(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	paths, err := s.profiles.SuggestCareerPaths(r.Context(), req.Profile)
	if err != nil {
		s.pipelineError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"careerPaths": paths})
}

type jobSearchRequest struct {
	Profile   types.CandidateProfile `json:"profile"`
	Positions []string               `json:"positions"`
	Country   string                 `json:"country"`
}

// handleJobSearch runs an interactive job search for a profile.
func (s *Server) handleJobSearch(w http.ResponseWriter, r *http.Request) {
	var req jobSearchRequest
	if err := decodeRequest(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	jobs, err := s.searcher.Search(r.Context(), req.Profile, req.Positions, req.Country)
	if err != nil {
		s.pipelineError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"jobs": jobs})
}

// handleRunAlerts triggers one alert batch immediately.
func (s *Server) handleRunAlerts(w http.ResponseWriter, r *http.Request) {
	processed, err := s.alerts.RunOnce(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"processed": processed})
}
