package dashboard

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/VitalSync/health-ingestor/internal/config"
	"github.com/VitalSync/health-ingestor/internal/types"
)

// HealthReader is the read-side slice of the persistence layer.
// *loaders.PostgresClient satisfies it.
type HealthReader interface {
	ListHealthRecords(ctx context.Context, userID string, since string) ([]types.HealthRecord, error)
}

// Service assembles dashboard data for one user's trailing window.
type Service struct {
	store     HealthReader
	userID    string
	stepsGoal int
	now       func() time.Time
}

func NewService(store HealthReader, cfg *config.Config) *Service {
	return &Service{
		store:     store,
		userID:    cfg.MockUserID,
		stepsGoal: cfg.StepsGoal,
		now:       time.Now,
	}
}

// GetDashboard fetches the last `days` of records and computes trend
// aggregates over them.
func (s *Service) GetDashboard(ctx context.Context, days int) (*DashboardResponse, error) {
	since := s.now().AddDate(0, 0, -days).Format("2006-01-02")

	records, err := s.store.ListHealthRecords(ctx, s.userID, since)
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{
		Success: true,
		Days:    days,
		Data:    records,
		Summary: summarize(records, s.stepsGoal),
	}, nil
}

func summarize(records []types.HealthRecord, stepsGoal int) TrendSummary {
	if len(records) == 0 {
		return TrendSummary{}
	}

	var steps, heartRate, sleep float64
	for _, r := range records {
		steps += float64(r.Steps)
		heartRate += float64(r.HeartRate)
		sleep += r.SleepHours
	}
	n := float64(len(records))

	return TrendSummary{
		AvgSteps:      round2(steps / n),
		AvgHeartRate:  round2(heartRate / n),
		AvgSleepHours: round2(sleep / n),
		CurrentStreak: currentStreak(records, stepsGoal),
	}
}

// currentStreak counts consecutive days meeting the steps goal, walking
// backward from the most recent date. A missed day or a date gap ends the
// streak.
func currentStreak(records []types.HealthRecord, stepsGoal int) int {
	sorted := make([]types.HealthRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date > sorted[j].Date })

	expected, err := time.Parse("2006-01-02", sorted[0].Date)
	if err != nil {
		return 0
	}

	streak := 0
	for _, r := range sorted {
		if r.Date != expected.Format("2006-01-02") || r.Steps < stepsGoal {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
	return streak
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
