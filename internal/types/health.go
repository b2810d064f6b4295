package types

// ====== ENUMS ======

// IngestSource identifies which entry point a batch arrived through.
type IngestSource string

const (
	SourceSync   IngestSource = "sync"
	SourceUpload IngestSource = "upload"
)

// WriteStrategy selects how validated rows are persisted.
type WriteStrategy string

const (
	// WriteUpsert inserts with conflict target (user_id, date); later writes win.
	WriteUpsert WriteStrategy = "upsert"
	// WriteInsert is a plain insert with no conflict handling, so re-submitting
	// the same dates creates duplicate rows.
	WriteInsert WriteStrategy = "insert"
)

// InvalidRowPolicy decides what happens when a record in a batch fails validation.
type InvalidRowPolicy string

const (
	// PolicyFailFast aborts the whole batch on the first invalid record.
	PolicyFailFast InvalidRowPolicy = "fail"
	// PolicyDropInvalid silently drops invalid records and keeps the rest.
	PolicyDropInvalid InvalidRowPolicy = "drop"
)

// ====== CORE TYPES ======

// HealthRecord is one day of canonical health metrics. Date is ISO YYYY-MM-DD
// and unique per user; Steps and HeartRate are rounded to integers and
// SleepHours to two decimal places before the record is considered valid.
type HealthRecord struct {
	Date       string  `json:"date"`
	Steps      int     `json:"steps"`
	HeartRate  int     `json:"heart_rate"`
	SleepHours float64 `json:"sleep_hours"`
}

// Physiological bounds enforced by the record validator.
const (
	MinHeartRate  = 30
	MaxHeartRate  = 220
	MaxSleepHours = 24
)

// ====== RESPONSE TYPES ======

// IngestResponse is the success envelope shared by both ingestion endpoints.
type IngestResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

// ErrorResponse is the failure envelope shared by all endpoints.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
