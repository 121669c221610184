package models

import (
	"cmp"
	"slices"
)

// UsageStats is the aggregate returned by the stats endpoint.
type UsageStats struct {
	RequestsByNetwork  map[string]int64     `json:"requestsByNetwork"`
	RequestsByClient   map[string]int64     `json:"requestsByClient"`
	TokensByNetwork    map[string]int64     `json:"tokensByNetwork,omitempty"`
	TokensByClient     map[string]int64     `json:"tokensByClient,omitempty"`
	CostByNetwork      map[string]FlexFloat `json:"costByNetwork,omitempty"`
	CostByClient       map[string]FlexFloat `json:"costByClient,omitempty"`
	TotalRequests      int64                `json:"totalRequests"`
	SuccessfulRequests int64                `json:"successfulRequests"`
	FailedRequests     int64                `json:"failedRequests"`
	TotalTokensUsed    int64                `json:"totalTokensUsed"`
	TotalCostRub       FlexFloat            `json:"totalCostRub,omitempty"`
}

// SuccessRate returns the share of successful requests as a percentage.
// It is 0 when there were no requests.
func (s *UsageStats) SuccessRate() float64 {
	if s.TotalRequests == 0 {
		return 0
	}
	return float64(s.SuccessfulRequests) / float64(s.TotalRequests) * 100
}

// FailureRate returns the share of failed requests as a percentage.
func (s *UsageStats) FailureRate() float64 {
	if s.TotalRequests == 0 {
		return 0
	}
	return float64(s.FailedRequests) / float64(s.TotalRequests) * 100
}

// Count is a named counter used for breakdown tables.
type Count struct {
	Name  string
	Value int64
}

// SortedCounts returns m as a slice ordered by descending value, then name.
func SortedCounts(m map[string]int64) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Name: k, Value: v})
	}
	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}
