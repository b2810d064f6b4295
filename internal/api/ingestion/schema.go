package ingestion

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/VitalSync/health-ingestor/internal/types"
	"github.com/VitalSync/health-ingestor/internal/utils"
)

// ValidationError marks a failure the client can fix. Controllers map it to a
// 400 response; everything else becomes a 500.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ValidateRecord turns one raw record (a mapped CSV row or a decoded JSON
// object) into a canonical HealthRecord, or rejects it with a reason carrying
// the 1-based position. Checks run in order and short-circuit: object shape,
// date, steps, heart_rate, sleep_hours. The label names the batch element in
// messages ("record" for JSON sync, "row" for CSV upload).
func ValidateRecord(raw any, index int, label string) (types.HealthRecord, error) {
	position := index + 1

	obj, ok := raw.(map[string]any)
	if !ok {
		return types.HealthRecord{}, validationErrorf("%s %d: must be an object", label, position)
	}

	dateVal, _ := obj[fieldDate].(string)
	isoDate, err := utils.NormalizeDate(dateVal)
	if err != nil {
		return types.HealthRecord{}, validationErrorf("%s %d: invalid or missing date (use YYYY-MM-DD)", label, position)
	}

	steps, err := coerceNumber(obj[fieldSteps])
	if err != nil || steps < 0 {
		return types.HealthRecord{}, validationErrorf("%s %d: steps must be a number >= 0", label, position)
	}

	heartRate, err := coerceNumber(obj[fieldHeartRate])
	if err != nil || heartRate < types.MinHeartRate || heartRate > types.MaxHeartRate {
		return types.HealthRecord{}, validationErrorf("%s %d: heart_rate must be between %d and %d",
			label, position, types.MinHeartRate, types.MaxHeartRate)
	}

	sleepHours, err := coerceNumber(obj[fieldSleepHours])
	if err != nil || sleepHours < 0 || sleepHours > types.MaxSleepHours {
		return types.HealthRecord{}, validationErrorf("%s %d: sleep_hours must be between 0 and %d",
			label, position, types.MaxSleepHours)
	}

	return types.HealthRecord{
		Date:       isoDate,
		Steps:      int(math.Round(steps)),
		HeartRate:  int(math.Round(heartRate)),
		SleepHours: math.Round(sleepHours*100) / 100,
	}, nil
}

// ValidateBatch validates records in order. Under PolicyFailFast the first
// rejection aborts the whole batch; under PolicyDropInvalid rejected records
// are skipped and the survivors returned.
func ValidateBatch(records []any, label string, policy types.InvalidRowPolicy) ([]types.HealthRecord, error) {
	validated := make([]types.HealthRecord, 0, len(records))
	for i, raw := range records {
		record, err := ValidateRecord(raw, i, label)
		if err != nil {
			if policy == types.PolicyDropInvalid {
				continue
			}
			return nil, err
		}
		validated = append(validated, record)
	}
	return validated, nil
}

// coerceNumber accepts JSON numbers and numeric-looking strings. NaN and
// infinities are rejected so bound checks cannot be sidestepped.
func coerceNumber(value any) (float64, error) {
	var parsed float64
	switch v := value.(type) {
	case float64:
		parsed = v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, err
		}
		parsed = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, err
		}
		parsed = f
	default:
		return 0, fmt.Errorf("not a number: %v", value)
	}

	if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return parsed, nil
}

// Field keys shared with the processors package.
const (
	fieldDate       = "date"
	fieldSteps      = "steps"
	fieldHeartRate  = "heart_rate"
	fieldSleepHours = "sleep_hours"
)
