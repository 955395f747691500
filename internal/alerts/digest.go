package alerts

import (
	"fmt"
	"strings"

	"github.com/jobitter/jobitter-backend/internal/types"
)

// maxDigestJobs caps how many postings appear in the digest text. The full
// list still travels in the payload's jobs field.
const maxDigestJobs = 5

// Digest renders the human-readable message for a batch of matched postings.
// The trailing line carries the total match count, which can exceed the
// number of postings shown.
func Digest(jobs []types.JobPosting) string {
	var sb strings.Builder
	for i, job := range jobs {
		if i == maxDigestJobs {
			break
		}
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "%d. %s at %s (%s)", i+1, job.Title, job.Company, job.Location)
		fmt.Fprintf(&sb, "\n   Match %d%% | %s | %s", job.MatchScore, job.WorkMode, job.SalaryRange)
		fmt.Fprintf(&sb, "\n   Skills: %s", strings.Join(job.MatchedSkills, ", "))
		fmt.Fprintf(&sb, "\n   %s", job.URL)
	}

	fmt.Fprintf(&sb, "\n\nFound %d matching jobs for you!", len(jobs))
	return sb.String()
}
