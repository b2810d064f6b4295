package ingestion

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/VitalSync/health-ingestor/internal/config"
	"github.com/VitalSync/health-ingestor/internal/metrics"
	"github.com/VitalSync/health-ingestor/internal/types"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	upserts  [][]types.HealthRecord
	inserts  [][]types.HealthRecord
	lastUser string
	err      error
}

func (f *fakeStore) UpsertHealthRecords(ctx context.Context, userID string, records []types.HealthRecord) error {
	if f.err != nil {
		return f.err
	}
	f.lastUser = userID
	f.upserts = append(f.upserts, records)
	return nil
}

func (f *fakeStore) InsertHealthRecords(ctx context.Context, userID string, records []types.HealthRecord) error {
	if f.err != nil {
		return f.err
	}
	f.lastUser = userID
	f.inserts = append(f.inserts, records)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		MockUserID:          config.DefaultMockUserID,
		MaxBatchRecords:     1000,
		MaxUploadBytes:      10 * 1024 * 1024,
		CSVInvalidRowPolicy: types.PolicyFailFast,
	}
}

func newTestService(store HealthStore, cfg *config.Config) *Service {
	return NewService(store, metrics.New(), cfg)
}

func TestSyncRecordsUpserts(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, testConfig())

	body := []byte(`{"records":[
		{"date":"2024-01-01","steps":7000,"heart_rate":65,"sleep_hours":7.256},
		{"date":"2024-01-02","steps":"8000","heart_rate":71.4,"sleep_hours":"8"}
	]}`)

	count, err := svc.SyncRecords(context.Background(), body)
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Equal(t, config.DefaultMockUserID, store.lastUser)
	require.Empty(t, store.inserts)
	require.Len(t, store.upserts, 1)
	require.Equal(t, []types.HealthRecord{
		{Date: "2024-01-01", Steps: 7000, HeartRate: 65, SleepHours: 7.26},
		{Date: "2024-01-02", Steps: 8000, HeartRate: 71, SleepHours: 8},
	}, store.upserts[0])
}

func TestSyncRecordsAllOrNothing(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, testConfig())

	body := []byte(`{"records":[
		{"date":"2024-01-01","steps":7000,"heart_rate":65,"sleep_hours":7},
		{"date":"2024-01-02","steps":-1,"heart_rate":65,"sleep_hours":7}
	]}`)

	_, err := svc.SyncRecords(context.Background(), body)
	require.EqualError(t, err, "record 2: steps must be a number >= 0")
	require.Empty(t, store.upserts, "nothing may be persisted when any record is invalid")
}

func TestSyncRecordsDedupesByDate(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, testConfig())

	body := []byte(`{"records":[
		{"date":"2024-01-01","steps":1000,"heart_rate":60,"sleep_hours":6},
		{"date":"2024-01-01","steps":2000,"heart_rate":61,"sleep_hours":7}
	]}`)

	count, err := svc.SyncRecords(context.Background(), body)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Len(t, store.upserts[0], 1)
	require.Equal(t, 2000, store.upserts[0][0].Steps, "last occurrence wins")
}

func TestSyncRecordsEmptyBatch(t *testing.T) {
	svc := newTestService(&fakeStore{}, testConfig())

	_, err := svc.SyncRecords(context.Background(), []byte(`{"records":[]}`))
	require.EqualError(t, err, "At least one health record is required")
}

func TestSyncRecordsBatchCeiling(t *testing.T) {
	cfg := testConfig()
	cfg.MaxBatchRecords = 2
	svc := newTestService(&fakeStore{}, cfg)

	body := []byte(`{"records":[
		{"date":"2024-01-01","steps":1,"heart_rate":60,"sleep_hours":6},
		{"date":"2024-01-02","steps":1,"heart_rate":60,"sleep_hours":6},
		{"date":"2024-01-03","steps":1,"heart_rate":60,"sleep_hours":6}
	]}`)

	_, err := svc.SyncRecords(context.Background(), body)
	require.EqualError(t, err, "At most 2 health records allowed")
}

func TestSyncRecordsStoreFailureIsGeneric(t *testing.T) {
	store := &fakeStore{err: fmt.Errorf("connection refused to host db-internal:5432")}
	svc := newTestService(store, testConfig())

	body := []byte(`{"date":"2024-01-01","steps":1,"heart_rate":60,"sleep_hours":6}`)
	_, err := svc.SyncRecords(context.Background(), body)
	require.EqualError(t, err, "Failed to save data")

	var ve *ValidationError
	require.False(t, errors.As(err, &ve), "store failures must not map to 400")
}

func TestUploadCSVInserts(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, testConfig())

	content := []byte("date,steps,heart_rate,sleep_hours\n02/05/2024,7000,65,7.5\n2024-02-06,8000,70,8")
	count, err := svc.UploadCSV(context.Background(), content, "health.csv")
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Empty(t, store.upserts)
	require.Len(t, store.inserts, 1)
	require.Equal(t, "2024-02-05", store.inserts[0][0].Date)
}

func TestUploadCSVFailFastOnBadRow(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, testConfig())

	content := []byte("date,steps,heart_rate,sleep_hours\n2024-02-05,7000,65,7.5\n2024-02-06,8000,500,8")
	_, err := svc.UploadCSV(context.Background(), content, "health.csv")
	require.EqualError(t, err, "row 2: heart_rate must be between 30 and 220")
	require.Empty(t, store.inserts)
}

func TestUploadCSVDropPolicyKeepsValidRows(t *testing.T) {
	cfg := testConfig()
	cfg.CSVInvalidRowPolicy = types.PolicyDropInvalid
	store := &fakeStore{}
	svc := newTestService(store, cfg)

	content := []byte("date,steps,heart_rate,sleep_hours\n2024-02-05,7000,65,7.5\n2024-02-06,8000,500,8")
	count, err := svc.UploadCSV(context.Background(), content, "health.csv")
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Len(t, store.inserts[0], 1)
}

func TestUploadCSVMissingColumn(t *testing.T) {
	svc := newTestService(&fakeStore{}, testConfig())

	content := []byte("date,steps,heart_rate\n2024-02-05,7000,65")
	_, err := svc.UploadCSV(context.Background(), content, "health.csv")
	require.EqualError(t, err, "CSV must have a 'sleep_hours' column")

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
}
