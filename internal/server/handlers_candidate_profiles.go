package server

import (
	"net/http"

	"github.com/jobitter/jobitter-backend/internal/db"
	"github.com/jobitter/jobitter-backend/internal/types"
)

type saveCandidateProfileRequest struct {
	Profile        types.CandidateProfile `json:"profile"`
	ResumeFileName *string                `json:"resume_file_name"`
}

func (s *Server) handleSaveCandidateProfile(w http.ResponseWriter, r *http.Request) {
	var req saveCandidateProfileRequest
	if err := decodeRequest(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	record, err := s.store.SaveCandidateProfile(r.Context(), req.Profile, req.ResumeFileName)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, record)
}

func (s *Server) handleListCandidateProfiles(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListCandidateProfiles(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []*db.CandidateProfileRecord{}
	}
	s.jsonResponse(w, http.StatusOK, records)
}

func (s *Server) handleGetCandidateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	record, err := s.store.GetCandidateProfile(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if record == nil {
		s.errorResponse(w, http.StatusNotFound, "candidate profile not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, record)
}

func (s *Server) handleUpdateCandidateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req profileRequest
	if err := decodeRequest(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	record, err := s.store.UpdateCandidateProfile(r.Context(), id, req.Profile)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if record == nil {
		s.errorResponse(w, http.StatusNotFound, "candidate profile not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, record)
}

func (s *Server) handleDeleteCandidateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	deleted, err := s.store.DeleteCandidateProfile(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "candidate profile not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
