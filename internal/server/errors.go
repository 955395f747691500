package server

import (
	"errors"
	"net/http"

	"github.com/jobitter/jobitter-backend/internal/llm"
	"github.com/jobitter/jobitter-backend/internal/search"
	"github.com/jobitter/jobitter-backend/internal/textextract"
)

// HTTPStatus maps a pipeline error onto the HTTP status the API reports.
// Rate limits and quota failures keep their distinct statuses so callers can
// tell a retryable condition from a billing problem.
func HTTPStatus(err error) int {
	var (
		rateLimited    *llm.RateLimitedError
		quotaExhausted *llm.QuotaExhaustedError
		upstream       *llm.UpstreamError
		violation      *llm.SchemaViolationError
		noPositions    *search.NoPositionsError
		badFormat      *textextract.UnsupportedFormatError
		noText         *textextract.ExtractionFailedError
	)

	switch {
	case errors.As(err, &rateLimited):
		return http.StatusTooManyRequests
	case errors.As(err, &quotaExhausted):
		return http.StatusPaymentRequired
	case errors.As(err, &upstream), errors.As(err, &violation):
		return http.StatusBadGateway
	case errors.As(err, &noPositions), errors.As(err, &badFormat), errors.As(err, &noText):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// pipelineError writes an error response with the mapped status.
func (s *Server) pipelineError(w http.ResponseWriter, err error) {
	s.errorResponse(w, HTTPStatus(err), err.Error())
}
