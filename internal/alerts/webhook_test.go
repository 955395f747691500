package alerts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobitter/jobitter-backend/internal/types"
)

func TestWebhookClient_Deliver(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
	}))
	defer server.Close()

	payload := Payload{
		Message:   "Found 1 matching jobs",
		Jobs:      []types.JobPosting{{Title: "Analyst", URL: "https://a.example/1"}},
		ProfileID: "profile-123",
		Timestamp: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	}

	err := NewWebhookClient().Deliver(context.Background(), server.URL, payload)
	require.NoError(t, err)

	assert.Equal(t, "Found 1 matching jobs", received["message"])
	assert.Equal(t, "profile-123", received["profile_id"])
	assert.NotEmpty(t, received["timestamp"])
	jobs, ok := received["jobs"].([]any)
	require.True(t, ok)
	assert.Len(t, jobs, 1)
}

func TestWebhookClient_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewWebhookClient().Deliver(context.Background(), server.URL, Payload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestWebhookClient_UnreachableHost(t *testing.T) {
	err := NewWebhookClient().Deliver(context.Background(), "http://127.0.0.1:1/hook", Payload{})
	require.Error(t, err)
}
