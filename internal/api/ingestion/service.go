package ingestion

import (
	"context"
	"errors"
	"time"

	"github.com/VitalSync/health-ingestor/internal/config"
	"github.com/VitalSync/health-ingestor/internal/metrics"
	"github.com/VitalSync/health-ingestor/internal/processors"
	"github.com/VitalSync/health-ingestor/internal/types"
	"github.com/VitalSync/health-ingestor/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// errStoreFailure is what callers see when persistence fails; the real cause
// is logged, never exposed.
var errStoreFailure = errors.New("Failed to save data")

// HealthStore is the slice of the persistence layer the ingestion pipeline
// needs. *loaders.PostgresClient satisfies it.
type HealthStore interface {
	UpsertHealthRecords(ctx context.Context, userID string, records []types.HealthRecord) error
	InsertHealthRecords(ctx context.Context, userID string, records []types.HealthRecord) error
}

// Service runs the shared ingestion pipeline: parse, validate, write. The
// write strategy is fixed per entry point (sync upserts, upload inserts) and
// the owning identity is threaded through explicitly rather than read from
// global state.
type Service struct {
	store     HealthStore
	met       *metrics.Collector
	userID    string
	maxBatch  int
	csvPolicy types.InvalidRowPolicy
}

func NewService(store HealthStore, met *metrics.Collector, cfg *config.Config) *Service {
	return &Service{
		store:     store,
		met:       met,
		userID:    cfg.MockUserID,
		maxBatch:  cfg.MaxBatchRecords,
		csvPolicy: cfg.CSVInvalidRowPolicy,
	}
}

// SyncRecords handles a bulk JSON sync body. Validation is fail-fast: one
// invalid record rejects the whole batch and nothing is written. Valid batches
// are deduplicated by date (last occurrence wins) and upserted keyed by
// (user, date).
func (s *Service) SyncRecords(ctx context.Context, body []byte) (int, error) {
	start := time.Now()
	batchID := uuid.New().String()

	records, err := processors.NewJSONProcessor(body).Parse()
	if err != nil {
		s.met.BatchRejected(types.SourceSync, metrics.ReasonEnvelope)
		return 0, &ValidationError{Message: err.Error()}
	}
	if len(records) == 0 {
		s.met.BatchRejected(types.SourceSync, metrics.ReasonValidation)
		return 0, &ValidationError{Message: "At least one health record is required"}
	}
	if len(records) > s.maxBatch {
		s.met.BatchRejected(types.SourceSync, metrics.ReasonValidation)
		return 0, validationErrorf("At most %d health records allowed", s.maxBatch)
	}

	rows, err := ValidateBatch(records, "record", types.PolicyFailFast)
	if err != nil {
		s.met.BatchRejected(types.SourceSync, metrics.ReasonValidation)
		return 0, err
	}

	rows = dedupeByDate(rows)

	if err := s.store.UpsertHealthRecords(ctx, s.userID, rows); err != nil {
		utils.Zlog.Error("Upsert failed",
			zap.String("batchId", batchID),
			zap.String("userId", s.userID),
			zap.Int("records", len(rows)),
			zap.Error(err))
		s.met.BatchRejected(types.SourceSync, metrics.ReasonStore)
		return 0, errStoreFailure
	}

	s.met.BatchIngested(types.SourceSync, types.WriteUpsert, len(rows), time.Since(start))
	utils.Zlog.Info("Sync batch ingested",
		zap.String("batchId", batchID),
		zap.String("userId", s.userID),
		zap.Int("submitted", len(records)),
		zap.Int("written", len(rows)),
		zap.Duration("duration", time.Since(start)))

	return len(rows), nil
}

// UploadCSV handles an uploaded CSV file body. The invalid-row policy is
// configurable: fail-fast (default) aborts on the first bad row, drop keeps
// the valid remainder. Rows are plain-inserted, so re-uploading the same dates
// carries no overwrite guarantee.
func (s *Service) UploadCSV(ctx context.Context, content []byte, filename string) (int, error) {
	start := time.Now()
	batchID := uuid.New().String()

	records, err := processors.NewCSVProcessorFromBytes(content, filename).Parse()
	if err != nil {
		s.met.BatchRejected(types.SourceUpload, metrics.ReasonParse)
		return 0, &ValidationError{Message: err.Error()}
	}

	rawRecords := make([]any, len(records))
	for i, record := range records {
		rawRecords[i] = record
	}
	rows, err := ValidateBatch(rawRecords, "row", s.csvPolicy)
	if err != nil {
		s.met.BatchRejected(types.SourceUpload, metrics.ReasonValidation)
		return 0, err
	}
	if len(rows) == 0 {
		s.met.BatchRejected(types.SourceUpload, metrics.ReasonValidation)
		return 0, &ValidationError{Message: "The CSV is empty or malformed: no valid rows with date, steps, heart_rate, and sleep_hours found"}
	}

	if err := s.store.InsertHealthRecords(ctx, s.userID, rows); err != nil {
		utils.Zlog.Error("Insert failed",
			zap.String("batchId", batchID),
			zap.String("userId", s.userID),
			zap.String("filename", filename),
			zap.Int("rows", len(rows)),
			zap.Error(err))
		s.met.BatchRejected(types.SourceUpload, metrics.ReasonStore)
		return 0, errStoreFailure
	}

	dropped := len(records) - len(rows)
	s.met.BatchIngested(types.SourceUpload, types.WriteInsert, len(rows), time.Since(start))
	utils.Zlog.Info("CSV batch ingested",
		zap.String("batchId", batchID),
		zap.String("userId", s.userID),
		zap.String("filename", filename),
		zap.Int("submitted", len(records)),
		zap.Int("written", len(rows)),
		zap.Int("dropped", dropped),
		zap.Duration("duration", time.Since(start)))
	if dropped > 0 {
		utils.Zlog.Warn("Invalid rows dropped by policy",
			zap.String("batchId", batchID),
			zap.String("filename", filename),
			zap.Int("dropped", dropped))
	}

	return len(rows), nil
}

// dedupeByDate collapses records sharing a date, keeping the last occurrence,
// so a single upsert statement never touches the same (user, date) row twice.
func dedupeByDate(rows []types.HealthRecord) []types.HealthRecord {
	if len(rows) < 2 {
		return rows
	}
	byDate := make(map[string]int, len(rows))
	out := make([]types.HealthRecord, 0, len(rows))
	for _, row := range rows {
		if i, seen := byDate[row.Date]; seen {
			out[i] = row
			continue
		}
		byDate[row.Date] = len(out)
		out = append(out, row)
	}
	return out
}
