package models

import "time"

// TimeRange represents the selected history time range.
type TimeRange int

const (
	// TimeRange24Hours shows data from the last 24 hours.
	TimeRange24Hours TimeRange = iota
	// TimeRange7Days shows data from the last 7 days.
	TimeRange7Days
	// TimeRange30Days shows data from the last 30 days.
	TimeRange30Days
	// TimeRangeAllTime shows all available historical data.
	TimeRangeAllTime
)

// String returns the display name for a time range.
func (t TimeRange) String() string {
	switch t {
	case TimeRange24Hours:
		return "24 Hours"
	case TimeRange7Days:
		return "7 Days"
	case TimeRange30Days:
		return "30 Days"
	case TimeRangeAllTime:
		return "All Time"
	default:
		return "Unknown"
	}
}

// Since returns the lower bound of the range relative to now (zero = unbounded).
func (t TimeRange) Since(now time.Time) time.Time {
	switch t {
	case TimeRange24Hours:
		return now.Add(-24 * time.Hour)
	case TimeRange7Days:
		return now.AddDate(0, 0, -7)
	case TimeRange30Days:
		return now.AddDate(0, 0, -30)
	case TimeRangeAllTime:
		return time.Time{}
	default:
		return now.AddDate(0, 0, -30)
	}
}

// Next cycles to the next time range.
func (t TimeRange) Next() TimeRange {
	return (t + 1) % 4
}

// StatsSnapshot is a locally recorded copy of the backend totals.
type StatsSnapshot struct {
	TakenAt            time.Time
	Profile            string
	ID                 int64
	TotalRequests      int64
	SuccessfulRequests int64
	FailedRequests     int64
	TotalTokens        int64
}

// SnapshotOf captures the totals of s.
func SnapshotOf(profile string, s *UsageStats, now time.Time) StatsSnapshot {
	return StatsSnapshot{
		Profile:            profile,
		TakenAt:            now,
		TotalRequests:      s.TotalRequests,
		SuccessfulRequests: s.SuccessfulRequests,
		FailedRequests:     s.FailedRequests,
		TotalTokens:        s.TotalTokensUsed,
	}
}

// RequestDeltas converts cumulative request totals into per-interval growth.
// Counter resets (a lower total than before) yield 0 for that interval.
func RequestDeltas(snaps []StatsSnapshot) []float64 {
	if len(snaps) < 2 {
		return nil
	}
	out := make([]float64, 0, len(snaps)-1)
	for i := 1; i < len(snaps); i++ {
		d := snaps[i].TotalRequests - snaps[i-1].TotalRequests
		if d < 0 {
			d = 0
		}
		out = append(out, float64(d))
	}
	return out
}
