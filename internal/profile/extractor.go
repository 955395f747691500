// Package profile turns resume text into structured candidate profiles and
// derives career suggestions from them. All model I/O goes through the llm
// client; provider errors pass through to callers untouched so they can map
// rate limits and quota failures onto their own responses.
package profile

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jobitter/jobitter-backend/internal/llm"
	"github.com/jobitter/jobitter-backend/internal/prompts"
	"github.com/jobitter/jobitter-backend/internal/schemas"
	"github.com/jobitter/jobitter-backend/internal/types"
)

// MaxResumeChars caps how much resume text is sent to the model. Resumes
// longer than this are truncated; the head of a resume carries the identity
// and most recent experience.
const MaxResumeChars = 10000

const promptFile = "profile.json"

// Extractor performs profile extraction and enrichment.
type Extractor struct {
	client llm.Client
}

// NewExtractor creates an Extractor backed by the given LLM client.
func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{client: client}
}

// Parse extracts a structured profile from raw resume text. The file name
// travels along as prompt context.
func (e *Extractor) Parse(ctx context.Context, resumeText, fileName string) (types.CandidateProfile, error) {
	system := prompts.MustGet(promptFile, "parse-resume-system")
	user := prompts.Format(prompts.MustGet(promptFile, "parse-resume"), map[string]string{
		"Resume":   truncate(resumeText, MaxResumeChars),
		"FileName": fileName,
	})

	payload, err := e.client.Request(ctx, system, user, schemas.CandidateProfile())
	if err != nil {
		return types.CandidateProfile{}, err
	}

	var parsed types.CandidateProfile
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return types.CandidateProfile{}, fmt.Errorf("failed to decode profile payload: %w", err)
	}
	return parsed, nil
}

// Enhance asks the model to polish the profile's presentation and merges the
// returned patch onto the original. Fields the model does not return keep
// their current values.
func (e *Extractor) Enhance(ctx context.Context, current types.CandidateProfile) (types.CandidateProfile, error) {
	encoded, err := json.Marshal(current)
	if err != nil {
		return types.CandidateProfile{}, fmt.Errorf("failed to encode profile: %w", err)
	}

	system := prompts.MustGet(promptFile, "enhance-profile-system")
	user := prompts.Format(prompts.MustGet(promptFile, "enhance-profile"), map[string]string{
		"Profile": string(encoded),
	})

	payload, err := e.client.Request(ctx, system, user, schemas.ProfilePatch())
	if err != nil {
		return types.CandidateProfile{}, err
	}

	var patch types.ProfilePatch
	if err := json.Unmarshal(payload, &patch); err != nil {
		return types.CandidateProfile{}, fmt.Errorf("failed to decode profile patch: %w", err)
	}
	return current.Merge(patch), nil
}

// SuggestCareerPaths returns between one and five suggested career moves for
// the candidate, ordered by match.
func (e *Extractor) SuggestCareerPaths(ctx context.Context, current types.CandidateProfile) ([]types.CareerPath, error) {
	encoded, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile: %w", err)
	}

	system := prompts.MustGet(promptFile, "career-paths-system")
	user := prompts.Format(prompts.MustGet(promptFile, "career-paths"), map[string]string{
		"Profile": string(encoded),
	})

	payload, err := e.client.Request(ctx, system, user, schemas.CareerPaths())
	if err != nil {
		return nil, err
	}

	var decoded struct {
		CareerPaths []types.CareerPath `json:"careerPaths"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode career paths payload: %w", err)
	}

	for i := range decoded.CareerPaths {
		decoded.CareerPaths[i].Match = clampMatch(decoded.CareerPaths[i].Match)
	}
	return decoded.CareerPaths, nil
}

// clampMatch forces a match estimate into the advertised 50..98 band.
func clampMatch(match int) int {
	if match < 50 {
		return 50
	}
	if match > 98 {
		return 98
	}
	return match
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
