package models

import (
	"testing"
	"time"
)

func TestTimeRange_String(t *testing.T) {
	tests := []struct {
		name string
		tr   TimeRange
		want string
	}{
		{"24Hours", TimeRange24Hours, "24 Hours"},
		{"7Days", TimeRange7Days, "7 Days"},
		{"30Days", TimeRange30Days, "30 Days"},
		{"AllTime", TimeRangeAllTime, "All Time"},
		{"Unknown", TimeRange(999), "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.String(); got != tt.want {
				t.Errorf("TimeRange.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeRange_Since(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		tr   TimeRange
		want time.Time
	}{
		{"24Hours", TimeRange24Hours, now.Add(-24 * time.Hour)},
		{"7Days", TimeRange7Days, now.AddDate(0, 0, -7)},
		{"30Days", TimeRange30Days, now.AddDate(0, 0, -30)},
		{"AllTime", TimeRangeAllTime, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.Since(now); !got.Equal(tt.want) {
				t.Errorf("TimeRange.Since() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeRange_Next(t *testing.T) {
	tests := []struct {
		name string
		tr   TimeRange
		want TimeRange
	}{
		{"24Hours -> 7Days", TimeRange24Hours, TimeRange7Days},
		{"7Days -> 30Days", TimeRange7Days, TimeRange30Days},
		{"30Days -> AllTime", TimeRange30Days, TimeRangeAllTime},
		{"AllTime -> 24Hours", TimeRangeAllTime, TimeRange24Hours},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.Next(); got != tt.want {
				t.Errorf("TimeRange.Next() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRequestDeltas(t *testing.T) {
	snaps := []StatsSnapshot{
		{TotalRequests: 10},
		{TotalRequests: 15},
		{TotalRequests: 15},
		{TotalRequests: 3}, // backend reset
		{TotalRequests: 8},
	}
	got := RequestDeltas(snaps)
	want := []float64{5, 0, 0, 5}
	if len(got) != len(want) {
		t.Fatalf("RequestDeltas() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RequestDeltas()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if RequestDeltas(snaps[:1]) != nil {
		t.Error("RequestDeltas() with one snapshot should be nil")
	}
}
