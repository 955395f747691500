// Package schemas defines the structured-output contracts for every LLM call
// in the service. Each contract pairs a provider-side response schema, which
// constrains the model's decoder, with an embedded JSON Schema document used
// to verify the payload after the fact.
package schemas

import (
	_ "embed"

	"github.com/google/generative-ai-go/genai"

	"github.com/jobitter/jobitter-backend/internal/llm"
)

//go:embed candidate_profile.json
var candidateProfileDocument string

//go:embed profile_patch.json
var profilePatchDocument string

//go:embed career_paths.json
var careerPathsDocument string

//go:embed job_postings.json
var jobPostingsDocument string

// CandidateProfile is the contract for resume parsing and profile
// enhancement responses.
func CandidateProfile() llm.Schema {
	return llm.Schema{
		Name:     "candidate_profile",
		Tier:     llm.TierStandard,
		Document: candidateProfileDocument,
		Response: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name":        {Type: genai.TypeString},
				"email":       {Type: genai.TypeString},
				"phone":       {Type: genai.TypeString},
				"currentRole": {Type: genai.TypeString},
				"experience":  {Type: genai.TypeString},
				"education":   {Type: genai.TypeString},
				"skills": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"summary": {Type: genai.TypeString},
			},
			Required: []string{
				"name", "email", "phone", "currentRole",
				"experience", "education", "skills", "summary",
			},
		},
	}
}

// ProfilePatch is the contract for profile enhancement responses. The model
// may return any subset of profile fields; absent fields keep their current
// values when the patch is merged.
func ProfilePatch() llm.Schema {
	return llm.Schema{
		Name:     "profile_patch",
		Tier:     llm.TierLite,
		Document: profilePatchDocument,
		Response: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name":        {Type: genai.TypeString},
				"email":       {Type: genai.TypeString},
				"phone":       {Type: genai.TypeString},
				"currentRole": {Type: genai.TypeString},
				"experience":  {Type: genai.TypeString},
				"education":   {Type: genai.TypeString},
				"skills": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"summary": {Type: genai.TypeString},
			},
		},
	}
}

// CareerPaths is the contract for career path suggestion responses.
func CareerPaths() llm.Schema {
	return llm.Schema{
		Name:     "career_paths",
		Tier:     llm.TierAdvanced,
		Document: careerPathsDocument,
		Response: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"careerPaths": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"role":   {Type: genai.TypeString},
							"match":  {Type: genai.TypeInteger},
							"reason": {Type: genai.TypeString},
						},
						Required: []string{"role", "match"},
					},
				},
			},
			Required: []string{"careerPaths"},
		},
	}
}

// JobPostings is the contract for search-result distillation responses.
func JobPostings() llm.Schema {
	return llm.Schema{
		Name:     "job_postings",
		Tier:     llm.TierStandard,
		Document: jobPostingsDocument,
		Response: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"jobs": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"title":       {Type: genai.TypeString},
							"company":     {Type: genai.TypeString},
							"location":    {Type: genai.TypeString},
							"workMode":    {Type: genai.TypeString},
							"salaryRange": {Type: genai.TypeString},
							"matchScore":  {Type: genai.TypeInteger},
							"matchedSkills": {
								Type:  genai.TypeArray,
								Items: &genai.Schema{Type: genai.TypeString},
							},
							"url":       {Type: genai.TypeString},
							"postedAgo": {Type: genai.TypeString},
						},
						Required: []string{
							"title", "company", "location", "workMode",
							"salaryRange", "matchScore", "matchedSkills",
							"url", "postedAgo",
						},
					},
				},
			},
			Required: []string{"jobs"},
		},
	}
}
