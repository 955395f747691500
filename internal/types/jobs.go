package types

// Canonical work mode values the extraction step asks for. Ambiguous
// postings default to on-site; free-text modes pass through unchanged.
const (
	WorkModeRemote = "Remote"
	WorkModeHybrid = "Hybrid"
	WorkModeOnsite = "On-site"
)

// Defaults substituted by the extraction step when a posting omits a field.
const (
	SalaryNotDisclosed = "Not disclosed"
	PostedRecent       = "Recent"
)

// JobPosting is one scored job listing distilled from raw search results.
// The URL is the de-duplication key; postings are ephemeral per search and the
// match score is model-driven, so re-evaluation may score the same URL
// differently.
type JobPosting struct {
	Title         string   `json:"title"`
	Company       string   `json:"company"`
	Location      string   `json:"location"`
	WorkMode      string   `json:"workMode"`
	SalaryRange   string   `json:"salaryRange"`
	MatchScore    int      `json:"matchScore"`
	MatchedSkills []string `json:"matchedSkills"`
	URL           string   `json:"url"`
	PostedAgo     string   `json:"postedAgo"`
}
