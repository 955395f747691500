package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jobitter/jobitter-backend/internal/db"
)

type alertProfileRequest struct {
	Positions        []string `json:"positions" validate:"required,min=1"`
	Skills           []string `json:"skills"`
	PreferredCountry string   `json:"preferred_country"`
	WebhookURL       *string  `json:"webhook_url" validate:"omitempty,url"`
	IsActive         *bool    `json:"is_active"`
}

func (s *Server) handleCreateAlertProfile(w http.ResponseWriter, r *http.Request) {
	var req alertProfileRequest
	if err := decodeRequest(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	created, err := s.store.CreateAlertProfile(r.Context(), &db.AlertProfileCreateInput{
		Positions:        req.Positions,
		Skills:           req.Skills,
		PreferredCountry: req.PreferredCountry,
		WebhookURL:       req.WebhookURL,
		IsActive:         active,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, created)
}

func (s *Server) handleListAlertProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.store.ListAlertProfiles(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if profiles == nil {
		profiles = []*db.AlertProfile{}
	}
	s.jsonResponse(w, http.StatusOK, profiles)
}

func (s *Server) handleGetAlertProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	found, err := s.store.GetAlertProfile(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if found == nil {
		s.errorResponse(w, http.StatusNotFound, "alert profile not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, found)
}

type alertProfileUpdateRequest struct {
	Positions        []string `json:"positions"`
	Skills           []string `json:"skills"`
	PreferredCountry *string  `json:"preferred_country"`
	WebhookURL       *string  `json:"webhook_url" validate:"omitempty,url"`
	IsActive         *bool    `json:"is_active"`
}

func (s *Server) handleUpdateAlertProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req alertProfileUpdateRequest
	if err := decodeRequest(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.store.UpdateAlertProfile(r.Context(), id, &db.AlertProfileUpdateInput{
		Positions:        req.Positions,
		Skills:           req.Skills,
		PreferredCountry: req.PreferredCountry,
		WebhookURL:       req.WebhookURL,
		IsActive:         req.IsActive,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if updated == nil {
		s.errorResponse(w, http.StatusNotFound, "alert profile not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteAlertProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	deleted, err := s.store.DeleteAlertProfile(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "alert profile not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses the {id} path segment as a UUID.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}
