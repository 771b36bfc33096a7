package providers

import (
	"encoding/json"
	"strings"

	"github.com/ziadkadry99/statboard/internal/stats"
)

// DefaultCodeforcesURL is the Codeforces user.status API method.
const DefaultCodeforcesURL = "https://codeforces.com/api/user.status"

// CodeforcesCategories is the record schema reported by Codeforces sources.
var CodeforcesCategories = []string{"solved"}

// acceptedVerdict marks a submission that passed all tests.
const acceptedVerdict = "OK"

type codeforcesResponse struct {
	Status  string                  `json:"status"`
	Comment string                  `json:"comment"`
	Result  *[]codeforcesSubmission `json:"result"`
}

type codeforcesSubmission struct {
	Verdict string             `json:"verdict"`
	Problem *codeforcesProblem `json:"problem"`
}

type codeforcesProblem struct {
	// ContestID is absent for some gym and acmsguru problems.
	ContestID int    `json:"contestId"`
	Index     string `json:"index"`
	Name      string `json:"name"`
}

// problemKey identifies a problem across submissions.
type problemKey struct {
	contestID int
	index     string
}

// NewCodeforces returns a source querying GET {baseURL}?handle={handle}.
func NewCodeforces(name, baseURL string) stats.Source {
	if baseURL == "" {
		baseURL = DefaultCodeforcesURL
	}
	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}
	return stats.Source{
		Name:       name,
		Endpoint:   baseURL + sep + "handle=" + stats.HandlePlaceholder,
		Categories: CodeforcesCategories,
		Parse:      ParseCodeforces,
	}
}

// ParseCodeforces counts distinct accepted problems in a user.status payload.
func ParseCodeforces(body []byte) (stats.Record, error) {
	var resp codeforcesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, stats.Malformed("decoding codeforces response: %v", err)
	}

	if resp.Status != "OK" {
		msg := resp.Comment
		if msg == "" {
			msg = "Codeforces API returned an error"
		}
		return nil, stats.Upstream(msg)
	}

	if resp.Result == nil {
		return nil, stats.Malformed("codeforces response has no result")
	}

	solved, err := countSolved(*resp.Result)
	if err != nil {
		return nil, err
	}
	return stats.Record{"solved": solved}, nil
}

func countSolved(submissions []codeforcesSubmission) (int, error) {
	solved := make(map[problemKey]struct{})
	for i, sub := range submissions {
		if sub.Verdict != acceptedVerdict {
			continue
		}
		if sub.Problem == nil || sub.Problem.Index == "" {
			return 0, stats.Malformed("accepted submission %d has no problem index", i)
		}
		solved[problemKey{contestID: sub.Problem.ContestID, index: sub.Problem.Index}] = struct{}{}
	}
	return len(solved), nil
}
