package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobitter/jobitter-backend/internal/db"
	"github.com/jobitter/jobitter-backend/internal/llm"
	"github.com/jobitter/jobitter-backend/internal/search"
	"github.com/jobitter/jobitter-backend/internal/types"
)

type fakeProfiles struct {
	parsed       types.CandidateProfile
	err          error
	lastResume   string
	lastFileName string
}

func (f *fakeProfiles) Parse(_ context.Context, resumeText, fileName string) (types.CandidateProfile, error) {
	f.lastResume = resumeText
	f.lastFileName = fileName
	return f.parsed, f.err
}

func (f *fakeProfiles) Enhance(_ context.Context, current types.CandidateProfile) (types.CandidateProfile, error) {
	if f.err != nil {
		return types.CandidateProfile{}, f.err
	}
	current.Summary = "Enhanced."
	return current, nil
}

func (f *fakeProfiles) SuggestCareerPaths(context.Context, types.CandidateProfile) ([]types.CareerPath, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []types.CareerPath{{Role: "Analytics Engineer", Match: 85}}, nil
}

type fakeSearcher struct {
	jobs []types.JobPosting
	err  error
}

func (f *fakeSearcher) Search(context.Context, types.CandidateProfile, []string, string) ([]types.JobPosting, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.jobs, nil
}

type fakeAlerts struct {
	processed int
	err       error
}

func (f *fakeAlerts) RunOnce(context.Context) (int, error) {
	return f.processed, f.err
}

type memStore struct {
	alertProfiles     map[uuid.UUID]*db.AlertProfile
	candidateProfiles map[uuid.UUID]*db.CandidateProfileRecord
}

func newMemStore() *memStore {
	return &memStore{
		alertProfiles:     make(map[uuid.UUID]*db.AlertProfile),
		candidateProfiles: make(map[uuid.UUID]*db.CandidateProfileRecord),
	}
}

func (m *memStore) CreateAlertProfile(_ context.Context, input *db.AlertProfileCreateInput) (*db.AlertProfile, error) {
	p := &db.AlertProfile{
		ID:               uuid.New(),
		Positions:        input.Positions,
		Skills:           input.Skills,
		PreferredCountry: input.PreferredCountry,
		WebhookURL:       input.WebhookURL,
		IsActive:         input.IsActive,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	m.alertProfiles[p.ID] = p
	return p, nil
}

func (m *memStore) GetAlertProfile(_ context.Context, id uuid.UUID) (*db.AlertProfile, error) {
	return m.alertProfiles[id], nil
}

func (m *memStore) ListAlertProfiles(context.Context) ([]*db.AlertProfile, error) {
	var out []*db.AlertProfile
	for _, p := range m.alertProfiles {
		out = append(out, p)
	}
	return out, nil
}

func (m *memStore) UpdateAlertProfile(_ context.Context, id uuid.UUID, input *db.AlertProfileUpdateInput) (*db.AlertProfile, error) {
	p, ok := m.alertProfiles[id]
	if !ok {
		return nil, nil
	}
	if input.Positions != nil {
		p.Positions = input.Positions
	}
	if input.Skills != nil {
		p.Skills = input.Skills
	}
	if input.PreferredCountry != nil {
		p.PreferredCountry = *input.PreferredCountry
	}
	if input.WebhookURL != nil {
		p.WebhookURL = input.WebhookURL
	}
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}
	return p, nil
}

func (m *memStore) DeleteAlertProfile(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := m.alertProfiles[id]; !ok {
		return false, nil
	}
	delete(m.alertProfiles, id)
	return true, nil
}

func (m *memStore) SaveCandidateProfile(_ context.Context, profile types.CandidateProfile, resumeFileName *string) (*db.CandidateProfileRecord, error) {
	r := &db.CandidateProfileRecord{
		ID:             uuid.New(),
		Profile:        profile,
		ResumeFileName: resumeFileName,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	m.candidateProfiles[r.ID] = r
	return r, nil
}

func (m *memStore) GetCandidateProfile(_ context.Context, id uuid.UUID) (*db.CandidateProfileRecord, error) {
	return m.candidateProfiles[id], nil
}

func (m *memStore) ListCandidateProfiles(context.Context) ([]*db.CandidateProfileRecord, error) {
	var out []*db.CandidateProfileRecord
	for _, r := range m.candidateProfiles {
		out = append(out, r)
	}
	return out, nil
}

func (m *memStore) UpdateCandidateProfile(_ context.Context, id uuid.UUID, profile types.CandidateProfile) (*db.CandidateProfileRecord, error) {
	r, ok := m.candidateProfiles[id]
	if !ok {
		return nil, nil
	}
	r.Profile = profile
	return r, nil
}

func (m *memStore) DeleteCandidateProfile(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := m.candidateProfiles[id]; !ok {
		return false, nil
	}
	delete(m.candidateProfiles, id)
	return true, nil
}

func testServer(profiles profileService, searcher jobSearcher, alertsRunner alertRunner, store storage) *Server {
	if profiles == nil {
		profiles = &fakeProfiles{}
	}
	if searcher == nil {
		searcher = &fakeSearcher{}
	}
	if alertsRunner == nil {
		alertsRunner = &fakeAlerts{}
	}
	if store == nil {
		store = newMemStore()
	}
	return newServer(Config{Port: 0}, profiles, searcher, alertsRunner, store)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := doJSON(t, testServer(nil, nil, nil, nil), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestParseResume_Success(t *testing.T) {
	profiles := &fakeProfiles{parsed: types.CandidateProfile{Name: "Jane Doe"}}
	s := testServer(profiles, nil, nil, nil)

	resume := "Jane Doe, jane@x.com, 5 years SQL and Python"
	rec := doJSON(t, s, http.MethodPost, "/resume/parse", map[string]string{
		"file_base64": base64.StdEncoding.EncodeToString([]byte(resume)),
		"file_name":   "resume.txt",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Jane Doe"`)
	assert.Equal(t, resume, profiles.lastResume)
	assert.Equal(t, "resume.txt", profiles.lastFileName)
}

func TestParseResume_InvalidBase64(t *testing.T) {
	rec := doJSON(t, testServer(nil, nil, nil, nil), http.MethodPost, "/resume/parse", map[string]string{
		"file_base64": "!!!not-base64!!!",
		"file_name":   "resume.txt",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseResume_MissingFields(t *testing.T) {
	rec := doJSON(t, testServer(nil, nil, nil, nil), http.MethodPost, "/resume/parse", map[string]string{
		"file_name": "resume.txt",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseResume_UnsupportedFormat(t *testing.T) {
	rec := doJSON(t, testServer(nil, nil, nil, nil), http.MethodPost, "/resume/parse", map[string]string{
		"file_base64": base64.StdEncoding.EncodeToString([]byte("some file content here")),
		"file_name":   "photo.png",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseResume_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"rate limited", &llm.RateLimitedError{}, http.StatusTooManyRequests},
		{"quota exhausted", &llm.QuotaExhaustedError{}, http.StatusPaymentRequired},
		{"upstream", &llm.UpstreamError{StatusCode: 500, Message: "boom"}, http.StatusBadGateway},
		{"schema violation", &llm.SchemaViolationError{Schema: "candidate_profile", Message: "bad"}, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testServer(&fakeProfiles{err: tt.err}, nil, nil, nil)
			rec := doJSON(t, s, http.MethodPost, "/resume/parse", map[string]string{
				"file_base64": base64.StdEncoding.EncodeToString([]byte("Jane Doe, 5 years SQL experience")),
				"file_name":   "resume.txt",
			})
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestEnhanceProfile(t *testing.T) {
	s := testServer(nil, nil, nil, nil)
	rec := doJSON(t, s, http.MethodPost, "/profile/enhance", map[string]any{
		"profile": types.CandidateProfile{Name: "Jane Doe"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Enhanced.")
}

func TestCareerPaths(t *testing.T) {
	s := testServer(nil, nil, nil, nil)
	rec := doJSON(t, s, http.MethodPost, "/profile/career-paths", map[string]any{
		"profile": types.CandidateProfile{Name: "Jane Doe"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "careerPaths")
	assert.Contains(t, rec.Body.String(), "Analytics Engineer")
}

func TestJobSearch_Success(t *testing.T) {
	searcher := &fakeSearcher{jobs: []types.JobPosting{{Title: "Analyst", URL: "https://a.example/1"}}}
	s := testServer(nil, searcher, nil, nil)

	rec := doJSON(t, s, http.MethodPost, "/jobs/search", map[string]any{
		"positions": []string{"Data Analyst"},
		"country":   "Germany",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Analyst"`)
}

func TestJobSearch_NoPositions(t *testing.T) {
	searcher := &fakeSearcher{err: &search.NoPositionsError{}}
	s := testServer(nil, searcher, nil, nil)

	rec := doJSON(t, s, http.MethodPost, "/jobs/search", map[string]any{
		"positions": []string{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunAlerts(t *testing.T) {
	s := testServer(nil, nil, &fakeAlerts{processed: 4}, nil)

	rec := doJSON(t, s, http.MethodPost, "/alerts/run", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"processed": 4}`, rec.Body.String())
}

func TestAlertProfiles_CRUD(t *testing.T) {
	store := newMemStore()
	s := testServer(nil, nil, nil, store)

	rec := doJSON(t, s, http.MethodPost, "/alert-profiles", map[string]any{
		"positions":         []string{"Data Analyst"},
		"skills":            []string{"SQL"},
		"preferred_country": "Germany",
		"webhook_url":       "https://hooks.example.com/a",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created db.AlertProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.IsActive)

	rec = doJSON(t, s, http.MethodGet, "/alert-profiles/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodPatch, "/alert-profiles/"+created.ID.String(), map[string]any{
		"is_active": false,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_active":false`)

	rec = doJSON(t, s, http.MethodDelete, "/alert-profiles/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/alert-profiles/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateAlertProfile_RequiresPositions(t *testing.T) {
	rec := doJSON(t, testServer(nil, nil, nil, nil), http.MethodPost, "/alert-profiles", map[string]any{
		"skills": []string{"SQL"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAlertProfile_InvalidID(t *testing.T) {
	rec := doJSON(t, testServer(nil, nil, nil, nil), http.MethodGet, "/alert-profiles/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCandidateProfiles_CRUD(t *testing.T) {
	store := newMemStore()
	s := testServer(nil, nil, nil, store)

	rec := doJSON(t, s, http.MethodPost, "/candidate-profiles", map[string]any{
		"profile":          types.CandidateProfile{Name: "Jane Doe"},
		"resume_file_name": "resume.pdf",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created db.CandidateProfileRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Jane Doe", created.Profile.Name)

	rec = doJSON(t, s, http.MethodPut, "/candidate-profiles/"+created.ID.String(), map[string]any{
		"profile": types.CandidateProfile{Name: "Jane Smith"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Jane Smith")

	rec = doJSON(t, s, http.MethodGet, "/candidate-profiles", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, "/candidate-profiles/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/candidate-profiles/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORS_Preflight(t *testing.T) {
	s := testServer(nil, nil, nil, nil)
	req := httptest.NewRequest(http.MethodOptions, "/jobs/search", nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
