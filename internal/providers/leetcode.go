package providers

import (
	"encoding/json"
	"strings"

	"github.com/ziadkadry99/statboard/internal/stats"
)

// DefaultLeetCodeURL is the public LeetCode stats API.
const DefaultLeetCodeURL = "https://leetcode-stats-api.herokuapp.com"

// LeetCodeCategories is the record schema reported by LeetCode sources.
var LeetCodeCategories = []string{"total", "easy", "medium", "hard"}

type leetCodeResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	TotalSolved  *int   `json:"totalSolved"`
	EasySolved   *int   `json:"easySolved"`
	MediumSolved *int   `json:"mediumSolved"`
	HardSolved   *int   `json:"hardSolved"`
}

// NewLeetCode returns a source querying GET {baseURL}/{handle}.
func NewLeetCode(name, baseURL string) stats.Source {
	if baseURL == "" {
		baseURL = DefaultLeetCodeURL
	}
	return stats.Source{
		Name:       name,
		Endpoint:   strings.TrimRight(baseURL, "/") + "/" + stats.HandlePlaceholder,
		Categories: LeetCodeCategories,
		Parse:      ParseLeetCode,
	}
}

// ParseLeetCode turns a leetcode-stats-api payload into a record.
func ParseLeetCode(body []byte) (stats.Record, error) {
	var resp leetCodeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, stats.Malformed("decoding leetcode response: %v", err)
	}

	if resp.Status != "success" {
		msg := resp.Message
		if msg == "" {
			msg = "Failed to get stats"
		}
		return nil, stats.Upstream(msg)
	}

	counts := map[string]*int{
		"total":  resp.TotalSolved,
		"easy":   resp.EasySolved,
		"medium": resp.MediumSolved,
		"hard":   resp.HardSolved,
	}
	rec := make(stats.Record, len(counts))
	for label, n := range counts {
		if n == nil {
			return nil, stats.Malformed("leetcode response is missing %s count", label)
		}
		rec[label] = *n
	}
	return rec, nil
}
