package dashboard

import "github.com/VitalSync/health-ingestor/internal/types"

// TrendSummary aggregates the requested window for the metric cards.
type TrendSummary struct {
	AvgSteps      float64 `json:"avgSteps"`
	AvgHeartRate  float64 `json:"avgHeartRate"`
	AvgSleepHours float64 `json:"avgSleepHours"`
	CurrentStreak int     `json:"currentStreak"`
}

// DashboardResponse is the payload for GET /dashboard: the raw daily records
// for charting plus the computed trend summary.
type DashboardResponse struct {
	Success bool                 `json:"success"`
	Days    int                  `json:"days"`
	Data    []types.HealthRecord `json:"data"`
	Summary TrendSummary         `json:"summary"`
}
