package dashboard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/VitalSync/health-ingestor/internal/config"
	"github.com/VitalSync/health-ingestor/internal/types"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	records   []types.HealthRecord
	lastSince string
	err       error
}

func (f *fakeReader) ListHealthRecords(ctx context.Context, userID string, since string) ([]types.HealthRecord, error) {
	f.lastSince = since
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func testService(reader *fakeReader) *Service {
	cfg := &config.Config{
		MockUserID: config.DefaultMockUserID,
		StepsGoal:  10000,
	}
	svc := NewService(reader, cfg)
	svc.now = func() time.Time {
		return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestGetDashboardAverages(t *testing.T) {
	reader := &fakeReader{records: []types.HealthRecord{
		{Date: "2024-03-08", Steps: 7000, HeartRate: 60, SleepHours: 7},
		{Date: "2024-03-09", Steps: 8000, HeartRate: 65, SleepHours: 7.5},
		{Date: "2024-03-10", Steps: 9000, HeartRate: 70, SleepHours: 8.3},
	}}
	svc := testService(reader)

	resp, err := svc.GetDashboard(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, 7, resp.Days)
	require.Equal(t, "2024-03-03", reader.lastSince)
	require.Equal(t, 8000.0, resp.Summary.AvgSteps)
	require.Equal(t, 65.0, resp.Summary.AvgHeartRate)
	require.Equal(t, 7.6, resp.Summary.AvgSleepHours)
	require.Len(t, resp.Data, 3)
}

func TestGetDashboardEmptyWindow(t *testing.T) {
	svc := testService(&fakeReader{})

	resp, err := svc.GetDashboard(context.Background(), 30)
	require.NoError(t, err)
	require.Equal(t, TrendSummary{}, resp.Summary)
	require.Empty(t, resp.Data)
}

func TestGetDashboardStoreError(t *testing.T) {
	svc := testService(&fakeReader{err: fmt.Errorf("connection reset")})

	_, err := svc.GetDashboard(context.Background(), 30)
	require.Error(t, err)
}

func TestCurrentStreakCountsConsecutiveGoalDays(t *testing.T) {
	records := []types.HealthRecord{
		{Date: "2024-03-07", Steps: 4000},
		{Date: "2024-03-08", Steps: 12000},
		{Date: "2024-03-09", Steps: 10000},
		{Date: "2024-03-10", Steps: 11000},
	}
	require.Equal(t, 3, currentStreak(records, 10000))
}

func TestCurrentStreakEndsOnGoalMiss(t *testing.T) {
	records := []types.HealthRecord{
		{Date: "2024-03-09", Steps: 12000},
		{Date: "2024-03-10", Steps: 9999},
	}
	require.Equal(t, 0, currentStreak(records, 10000))
}

func TestCurrentStreakEndsOnDateGap(t *testing.T) {
	records := []types.HealthRecord{
		{Date: "2024-03-06", Steps: 15000},
		{Date: "2024-03-07", Steps: 15000},
		{Date: "2024-03-09", Steps: 15000},
		{Date: "2024-03-10", Steps: 15000},
	}
	require.Equal(t, 2, currentStreak(records, 10000))
}

func TestCurrentStreakUnorderedInput(t *testing.T) {
	records := []types.HealthRecord{
		{Date: "2024-03-10", Steps: 11000},
		{Date: "2024-03-08", Steps: 12000},
		{Date: "2024-03-09", Steps: 10500},
	}
	require.Equal(t, 3, currentStreak(records, 10000))
}
