// Package types defines the shared data model for the candidate pipeline:
// candidate profiles, career path suggestions, and job postings.
package types

// CandidateProfile holds the structured data extracted from a resume.
// Field names mirror the JSON shape the extraction schema declares.
type CandidateProfile struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	CurrentRole string   `json:"currentRole"`
	Experience  string   `json:"experience"`
	Education   string   `json:"education"`
	Skills      []string `json:"skills"`
	Summary     string   `json:"summary"`
}

// ProfilePatch is a partial profile returned by an enhancement call.
// Pointer fields distinguish "not returned" from "returned empty".
type ProfilePatch struct {
	Name        *string   `json:"name,omitempty"`
	Email       *string   `json:"email,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	CurrentRole *string   `json:"currentRole,omitempty"`
	Experience  *string   `json:"experience,omitempty"`
	Education   *string   `json:"education,omitempty"`
	Skills      []string  `json:"skills,omitempty"`
	Summary     *string   `json:"summary,omitempty"`
}

// Merge returns a copy of p with the patch applied. Only fields present in
// the patch overwrite the corresponding fields of p; everything else is
// preserved verbatim. The receiver is never mutated.
func (p CandidateProfile) Merge(patch ProfilePatch) CandidateProfile {
	out := p
	if patch.Name != nil {
		out.Name = *patch.Name
	}
	if patch.Email != nil {
		out.Email = *patch.Email
	}
	if patch.Phone != nil {
		out.Phone = *patch.Phone
	}
	if patch.CurrentRole != nil {
		out.CurrentRole = *patch.CurrentRole
	}
	if patch.Experience != nil {
		out.Experience = *patch.Experience
	}
	if patch.Education != nil {
		out.Education = *patch.Education
	}
	if patch.Skills != nil {
		out.Skills = append([]string(nil), patch.Skills...)
	}
	if patch.Summary != nil {
		out.Summary = *patch.Summary
	}
	return out
}

// CareerPath is one suggested career direction for a candidate.
type CareerPath struct {
	Role   string `json:"role"`
	Match  int    `json:"match"`
	Reason string `json:"reason,omitempty"`
}
